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
	"os"
	"sort"
	"strconv"
	"strings"

	log "github.com/sirupsen/logrus"

	"github.com/solus-project/binman/catalog"
	"github.com/solus-project/binman/paths"
	"github.com/solus-project/binman/pool"
)

// RemovePackage unlinks p's target file (if present), drops its catalog
// record, invalidates its deltas, and reclaims the pool entry if no repo
// references it any longer. It is idempotent with respect to a missing
// target file. bypass suppresses marking repo altered, used by RemoveRepo
// which tears down the whole repo anyway.
func (e *Engine) RemovePackage(repo string, p catalog.RepoPackage, bypass bool) error {
	if !e.IsRepo(repo) {
		return ErrNoSuchRepo
	}
	target := paths.TargetPath(e.cfg, repo, p.SourceName, p.Filename)
	if _, err := os.Stat(target); err == nil {
		if err := os.Remove(target); err != nil {
			return fmt.Errorf("%w: %v", ErrPoolIO, err)
		}
	}

	cat, err := e.getCatalog(repo)
	if err != nil {
		return err
	}
	cat.Remove(p)

	if err := e.invalidateDeltasFor(repo, p); err != nil {
		return err
	}

	if err := pool.RemoveParents(target); err != nil && !os.IsNotExist(err) {
		log.WithFields(log.Fields{"repo": repo, "path": target}).Warning("engine: could not clean empty shard dirs")
	}

	if err := e.gcIfUnreferenced(p.SourceName, p.Filename); err != nil {
		return fmt.Errorf("%w: %v", ErrPoolIO, err)
	}

	if !bypass {
		e.markAltered(repo)
	}
	log.WithFields(log.Fields{"repo": repo, "filename": p.Filename}).Info("engine: removed package")
	return nil
}

// Trim keeps only the newest MaxVersions releases of every (source, binary)
// family in repo.
func (e *Engine) Trim(repo string) error {
	if !e.IsRepo(repo) {
		return ErrNoSuchRepo
	}
	cat, err := e.getCatalog(repo)
	if err != nil {
		return err
	}
	for _, source := range cat.SourceNames() {
		byBinary := make(map[string][]catalog.RepoPackage)
		for _, r := range cat.Get(source) {
			byBinary[r.BinaryName] = append(byBinary[r.BinaryName], r)
		}
		for _, recs := range byBinary {
			sort.Slice(recs, func(i, j int) bool { return recs[i].Release > recs[j].Release })
			if len(recs) <= e.cfg.MaxVersions {
				continue
			}
			for _, stale := range recs[e.cfg.MaxVersions:] {
				if err := e.RemovePackage(repo, stale, true); err != nil {
					return err
				}
			}
		}
	}
	e.markAltered(repo)
	return nil
}

// RemoveSource removes one or more named sources from repo. Each name may
// carry a `==<release>` suffix restricting the removal to a single release.
// An unknown name, or a release suffix matching nothing, is fatal.
func (e *Engine) RemoveSource(repo string, names []string) error {
	if !e.IsRepo(repo) {
		return ErrNoSuchRepo
	}
	cat, err := e.getCatalog(repo)
	if err != nil {
		return err
	}
	for _, raw := range names {
		name, release, hasRelease := parseSourceSelector(raw)
		// Get returns the catalog's live backing array; RemovePackage mutates
		// it in place via catalog.Remove, so range over a snapshot instead.
		records := append([]catalog.RepoPackage{}, cat.Get(name)...)
		if len(records) == 0 {
			return fmt.Errorf("%w: %s", ErrUnknownSource, name)
		}
		matched := false
		for _, r := range records {
			if hasRelease && r.Release != release {
				continue
			}
			matched = true
			if err := e.RemovePackage(repo, r, true); err != nil {
				return err
			}
		}
		if !matched {
			return fmt.Errorf("%w: %s==%d", ErrUnknownSource, name, release)
		}
	}
	e.markAltered(repo)
	return nil
}

func parseSourceSelector(raw string) (name string, release int, hasRelease bool) {
	parts := strings.SplitN(raw, "==", 2)
	if len(parts) == 1 {
		return parts[0], 0, false
	}
	rel, err := strconv.Atoi(parts[1])
	if err != nil {
		return parts[0], 0, false
	}
	return parts[0], rel, true
}
