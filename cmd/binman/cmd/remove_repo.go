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

var removeRepoCmd = &cobra.Command{
	Use:   "remove-repo [name]",
	Short: "Remove a repository entirely",
	Long:  "Remove a repository entirely, reclaiming any pool entries it alone referenced",
	Run:   removeRepo,
}

func init() {
	RootCmd.AddCommand(removeRepoCmd)
}

func removeRepo(cmd *cobra.Command, args []string) {
	if len(args) != 1 {
		fmt.Fprintln(os.Stderr, "remove-repo takes exactly one argument: the repository name")
		os.Exit(1)
	}

	eng, err := newEngine()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer eng.Close()

	if err := eng.RemoveRepo(args[0]); err != nil {
		log.WithFields(log.Fields{"repo": args[0], "err": err}).Error("remove-repo failed")
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Removed repository: %s\n", args[0])
}
