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
	"os/signal"
	"syscall"

	"github.com/coreos/go-systemd/daemon"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/solus-project/binman/watch"
)

var monitorIncomingCmd = &cobra.Command{
	Use:   "monitor-incoming [repo]",
	Short: "Watch a repository's incoming directory and ingest packages as they land",
	Long:  "Run indefinitely, draining a repository's incoming directory as files are closed after being written",
	Run:   monitorIncoming,
}

func init() {
	RootCmd.AddCommand(monitorIncomingCmd)
}

func monitorIncoming(cmd *cobra.Command, args []string) {
	if len(args) != 1 {
		fmt.Fprintln(os.Stderr, "monitor-incoming takes exactly one argument: the repository name")
		os.Exit(1)
	}
	repo := args[0]

	eng, err := newEngine()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer eng.Close()

	w, err := watch.New(eng, repo)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	ch := make(chan os.Signal, 1)
	signal.Notify(ch, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-ch
		log.WithFields(log.Fields{"repo": repo}).Warning("monitor-incoming shutting down")
		w.Stop()
	}()

	daemon.SdNotify(false, "READY=1")
	log.WithFields(log.Fields{"repo": repo}).Info("monitor-incoming watching for packages")
	w.Run()
}
