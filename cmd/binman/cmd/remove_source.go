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

var removeSourceCmd = &cobra.Command{
	Use:   "remove-source [repo] [source...]",
	Short: "Remove one or more sources from a repository",
	Long:  "Remove one or more sources from a repository. A source may carry a `==release` suffix to remove only that release",
	Run:   removeSource,
}

func init() {
	RootCmd.AddCommand(removeSourceCmd)
}

func removeSource(cmd *cobra.Command, args []string) {
	if len(args) < 2 {
		fmt.Fprintln(os.Stderr, "remove-source requires a repository name followed by one or more source names")
		os.Exit(1)
	}
	repo := args[0]
	names := args[1:]

	eng, err := newEngine()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer eng.Close()

	if err := eng.RemoveSource(repo, names); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if err := eng.RunEpilogue(); err != nil {
		fmt.Fprintf(os.Stderr, "Error reindexing %s: %v\n", repo, err)
		os.Exit(1)
	}
	fmt.Printf("Removed source(s) from %s\n", repo)
}
