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
)

var listReposCmd = &cobra.Command{
	Use:   "list-repos",
	Short: "List the currently known repositories",
	Long:  "List the currently known repositories",
	Run:   listRepos,
}

func init() {
	RootCmd.AddCommand(listReposCmd)
}

func listRepos(cmd *cobra.Command, args []string) {
	if len(args) != 0 {
		fmt.Fprintln(os.Stderr, "list-repos takes no arguments")
		os.Exit(1)
	}

	eng, err := newEngine()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer eng.Close()

	repos := eng.ListRepos()
	sort.Strings(repos)
	if len(repos) == 0 {
		fmt.Println("No repositories have been created yet.")
		fmt.Println("Create one with 'binman create-repo $name'.")
		return
	}

	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"Repository", "Sources"})
	table.SetBorder(false)
	for _, repo := range repos {
		sources, err := eng.Sources(repo)
		if err != nil {
			table.Append([]string{repo, "?"})
			continue
		}
		table.Append([]string{repo, fmt.Sprintf("%d", len(sources))})
	}
	table.Render()
}
