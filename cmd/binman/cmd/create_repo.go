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

var createRepoCmd = &cobra.Command{
	Use:   "create-repo [name]",
	Short: "Create a new, empty repository",
	Long:  "Create a new, empty repository",
	Run:   createRepo,
}

func init() {
	RootCmd.AddCommand(createRepoCmd)
}

func createRepo(cmd *cobra.Command, args []string) {
	if len(args) != 1 {
		fmt.Fprintln(os.Stderr, "create-repo takes exactly one argument: the repository name")
		os.Exit(1)
	}

	eng, err := newEngine()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer eng.Close()

	if err := eng.CreateRepo(args[0]); err != nil {
		log.WithFields(log.Fields{"repo": args[0], "err": err}).Error("create-repo failed")
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Created repository: %s\n", args[0])
}
