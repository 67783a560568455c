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

var copySourceAllVersions bool

var copySourceCmd = &cobra.Command{
	Use:   "copy-source [src] [dst] [source...]",
	Short: "Copy named sources from one repository into another",
	Long:  "Copy one or more named sources, with their newest releases (or all releases with --all), into an existing repository",
	Run:   copySource,
}

func init() {
	copySourceCmd.Flags().BoolVar(&copySourceAllVersions, "all", false, "Copy every release instead of only the newest")
	RootCmd.AddCommand(copySourceCmd)
}

func copySource(cmd *cobra.Command, args []string) {
	if len(args) < 3 {
		fmt.Fprintln(os.Stderr, "copy-source requires a source repo, destination repo, and one or more source names")
		os.Exit(1)
	}
	src, dst, names := args[0], args[1], args[2:]

	eng, err := newEngine()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer eng.Close()

	if err := eng.CopySource(src, dst, names, copySourceAllVersions); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if err := eng.RunEpilogue(); err != nil {
		fmt.Fprintf(os.Stderr, "Error reindexing %s: %v\n", dst, err)
		os.Exit(1)
	}
	fmt.Printf("Copied %d source(s) into %s\n", len(names), dst)
}
