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

package engine

import (
	"fmt"
	"io/ioutil"
	"os"
	"path/filepath"
	"strings"

	log "github.com/sirupsen/logrus"

	"github.com/solus-project/binman/deltaset"
	"github.com/solus-project/binman/paths"
)

// ProcessIncoming is the one-shot counterpart to IncomingWatcher: it
// snapshots repo's incoming directory, ingests every *.pkg entry (skipping
// deltas), and runs the operation-group epilogue.
func (e *Engine) ProcessIncoming(repo string) error {
	if !e.IsRepo(repo) {
		return ErrNoSuchRepo
	}
	dir := paths.IncomingDir(e.cfg, repo)
	entries, err := ioutil.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrIncomingInvalid, err)
	}

	var names []string
	for _, ent := range entries {
		name := ent.Name()
		if !ent.Mode().IsRegular() {
			return fmt.Errorf("%w: %s is not a regular file", ErrIncomingInvalid, name)
		}
		if !strings.HasSuffix(name, ".pkg") {
			return fmt.Errorf("%w: %s is not a .pkg file", ErrIncomingInvalid, name)
		}
		names = append(names, name)
	}

	e.SetProcessMode(true)
	defer e.SetProcessMode(false)

	for _, name := range names {
		if strings.HasSuffix(name, deltaset.Suffix) {
			continue
		}
		full := filepath.Join(dir, name)
		if err := e.AddPackage(repo, full); err != nil {
			return err
		}
		if err := os.Remove(full); err != nil {
			log.WithFields(log.Fields{"path": full, "err": err}).Warning("engine: could not unlink ingested incoming file")
		}
	}

	if err := e.saveCatalog(repo); err != nil {
		return err
	}
	return e.RunEpilogue()
}
