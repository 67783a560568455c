//
// Copyright © 2017 Solus Project
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.
//

// Package cmd implements the binman command-line tool: every verb maps
// directly onto an engine.Engine operation.
package cmd

import (
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/solus-project/binman/config"
	"github.com/solus-project/binman/engine"
)

var (
	baseDir      string
	incomingBase string
	maxVersions  int
	verbose      bool
)

// RootCmd is the main entry point into binman.
var RootCmd = &cobra.Command{
	Use:   "binman",
	Short: "binman manages a binary package repository pool",
}

func init() {
	RootCmd.PersistentFlags().StringVarP(&baseDir, "basedir", "d", config.DefaultBaseDir, "Set the base directory for repository storage")
	RootCmd.PersistentFlags().StringVarP(&incomingBase, "incomingbase", "i", config.DefaultIncomingBase, "Set the base directory for incoming staging directories")
	RootCmd.PersistentFlags().IntVarP(&maxVersions, "max-versions", "m", config.DefaultMaxVersions, "Number of releases to keep per binary when trimming")
	RootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")

	form := &log.TextFormatter{
		DisableColors:   true,
		FullTimestamp:   true,
		TimestampFormat: "15:04:05",
	}
	log.SetFormatter(form)

	config.SetUmask()
}

// newEngine resolves the global flags into a Config and opens an Engine
// rooted there. Callers must defer Close().
func newEngine() (*engine.Engine, error) {
	if verbose {
		log.SetLevel(log.DebugLevel)
	}
	cfg, err := config.New(baseDir, incomingBase, maxVersions)
	if err != nil {
		return nil, err
	}
	return engine.New(cfg)
}
