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

	"github.com/spf13/cobra"
)

var processIncomingCmd = &cobra.Command{
	Use:   "process-incoming [repo]",
	Short: "Ingest every package currently staged in a repository's incoming directory",
	Long:  "One-shot ingest of a repository's incoming directory, then reindex",
	Run:   processIncoming,
}

func init() {
	RootCmd.AddCommand(processIncomingCmd)
}

func processIncoming(cmd *cobra.Command, args []string) {
	if len(args) != 1 {
		fmt.Fprintln(os.Stderr, "process-incoming takes exactly one argument: the repository name")
		os.Exit(1)
	}
	repo := args[0]

	eng, err := newEngine()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer eng.Close()

	if err := eng.ProcessIncoming(repo); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Processed incoming packages for %s\n", repo)
}
