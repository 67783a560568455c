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

package cmd

import (
	"fmt"
	"os"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var addCmd = &cobra.Command{
	Use:   "add [repo] [file.pkg...]",
	Short: "Add one or more packages to a repository",
	Long:  "Add one or more .pkg files to the named repository, then reindex",
	Run:   addPackages,
}

func init() {
	RootCmd.AddCommand(addCmd)
}

func addPackages(cmd *cobra.Command, args []string) {
	if len(args) < 2 {
		fmt.Fprintln(os.Stderr, "add requires a repository name followed by one or more package files")
		os.Exit(1)
	}
	repo := args[0]
	files := args[1:]

	eng, err := newEngine()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer eng.Close()

	eng.SetProcessMode(true)
	for _, file := range files {
		if err := eng.AddPackage(repo, file); err != nil {
			log.WithFields(log.Fields{"repo": repo, "file": file, "err": err}).Error("add failed")
			fmt.Fprintf(os.Stderr, "Error adding %s: %v\n", file, err)
			os.Exit(1)
		}
	}
	eng.SetProcessMode(false)

	if err := eng.RunEpilogue(); err != nil {
		fmt.Fprintf(os.Stderr, "Error reindexing %s: %v\n", repo, err)
		os.Exit(1)
	}
	fmt.Printf("Added %d package(s) to %s\n", len(files), repo)
}
