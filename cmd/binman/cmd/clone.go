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

var allVersions bool

var cloneCmd = &cobra.Command{
	Use:   "clone [src] [dst]",
	Short: "Clone a repository into a brand-new one",
	Long:  "Populate a brand-new repository from an existing one's newest releases (or all releases with --all)",
	Run:   clone,
}

var pullCmd = &cobra.Command{
	Use:   "pull [clone] [origin]",
	Short: "Refresh a clone from its origin",
	Long:  "Pull newer releases from origin into an existing clone",
	Run:   pull,
}

func init() {
	cloneCmd.Flags().BoolVar(&allVersions, "all", false, "Clone every release instead of only the newest")
	RootCmd.AddCommand(cloneCmd)
	RootCmd.AddCommand(pullCmd)
}

func clone(cmd *cobra.Command, args []string) {
	if len(args) != 2 {
		fmt.Fprintln(os.Stderr, "clone takes exactly two arguments: the source and destination repository names")
		os.Exit(1)
	}

	eng, err := newEngine()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer eng.Close()

	if err := eng.Clone(args[0], args[1], allVersions); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if err := eng.RunEpilogue(); err != nil {
		fmt.Fprintf(os.Stderr, "Error reindexing %s: %v\n", args[1], err)
		os.Exit(1)
	}
	fmt.Printf("Cloned %s into %s\n", args[0], args[1])
}

func pull(cmd *cobra.Command, args []string) {
	if len(args) != 2 {
		fmt.Fprintln(os.Stderr, "pull takes exactly two arguments: the clone and origin repository names")
		os.Exit(1)
	}

	eng, err := newEngine()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer eng.Close()

	if err := eng.Pull(args[0], args[1]); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if err := eng.RunEpilogue(); err != nil {
		fmt.Fprintf(os.Stderr, "Error reindexing %s: %v\n", args[0], err)
		os.Exit(1)
	}
	fmt.Printf("Pulled %s from %s\n", args[0], args[1])
}
