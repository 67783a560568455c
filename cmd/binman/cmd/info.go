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
	"sort"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/solus-project/binman/catalog"
)

var infoCmd = &cobra.Command{
	Use:   "info [repo]",
	Short: "Summarize the sources and newest binaries known to a repository",
	Long:  "Summarize the sources and newest binaries known to a repository",
	RunE:  infoRepo,
}

func init() {
	RootCmd.AddCommand(infoCmd)
}

func infoRepo(cmd *cobra.Command, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("info takes exactly one argument: the repository name")
	}
	repo := args[0]

	eng, err := newEngine()
	if err != nil {
		return err
	}
	defer eng.Close()

	sources, err := eng.Sources(repo)
	if err != nil {
		return err
	}
	sort.Strings(sources)

	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"Source", "Binary", "Release"})
	table.SetBorder(false)
	table.SetColumnSeparator(":")

	for _, source := range sources {
		records, err := eng.Records(repo, source)
		if err != nil {
			return err
		}
		newest := make(map[string]catalog.RepoPackage)
		for _, r := range records {
			cur, ok := newest[r.BinaryName]
			if !ok || r.Release > cur.Release {
				newest[r.BinaryName] = r
			}
		}
		binaries := make([]string, 0, len(newest))
		for name := range newest {
			binaries = append(binaries, name)
		}
		sort.Strings(binaries)
		for _, binary := range binaries {
			r := newest[binary]
			table.Append([]string{source, binary, fmt.Sprintf("%d", r.Release)})
		}
	}
	table.Render()
	return nil
}
