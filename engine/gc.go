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
	"io/ioutil"
	"strings"

	"github.com/solus-project/binman/paths"
)

// allRepoNames lists every directory under the base dir that is a repo
// (carries the marker file), skipping the pool and any `.assets`/
// `.catalog.db`/`.deltacache` sidecars.
func (e *Engine) allRepoNames() []string {
	entries, err := ioutil.ReadDir(e.cfg.BaseDir)
	if err != nil {
		return nil
	}
	var names []string
	for _, ent := range entries {
		if !ent.IsDir() {
			continue
		}
		name := ent.Name()
		if strings.HasSuffix(name, ".assets") || name == "pool" {
			continue
		}
		if e.IsRepo(name) {
			names = append(names, name)
		}
	}
	return names
}

// reachableTargetsFor computes every path across every known repository
// that would hold a hardlink to filename if it belonged to sourceName,
// i.e. the set pool.GCIfUnreferenced needs to check for reachability.
func (e *Engine) reachableTargetsFor(sourceName, filename string) []string {
	var out []string
	for _, repo := range e.allRepoNames() {
		out = append(out, paths.TargetPath(e.cfg, repo, sourceName, filename))
	}
	return out
}

// gcIfUnreferenced is the typed entry point used when only a filename and
// its owning source name are known (e.g. while invalidating a delta, whose
// basename never appears as a catalog record).
func (e *Engine) gcIfUnreferenced(sourceName, filename string) error {
	return e.pool.GCIfUnreferenced(filename, e.reachableTargetsFor(sourceName, filename))
}
