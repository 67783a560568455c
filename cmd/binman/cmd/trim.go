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

var trimCmd = &cobra.Command{
	Use:   "trim [repo]",
	Short: "Trim old releases from a repository",
	Long:  "Keep only the newest --max-versions releases of every binary in a repository",
	Run:   trim,
}

func init() {
	RootCmd.AddCommand(trimCmd)
}

func trim(cmd *cobra.Command, args []string) {
	if len(args) != 1 {
		fmt.Fprintln(os.Stderr, "trim takes exactly one argument: the repository name")
		os.Exit(1)
	}
	repo := args[0]

	eng, err := newEngine()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer eng.Close()

	if err := eng.Trim(repo); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if err := eng.RunEpilogue(); err != nil {
		fmt.Fprintf(os.Stderr, "Error reindexing %s: %v\n", repo, err)
		os.Exit(1)
	}
	fmt.Printf("Trimmed %s\n", repo)
}
