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

	log "github.com/sirupsen/logrus"

	"github.com/solus-project/binman/catalog"
	"github.com/solus-project/binman/paths"
	"github.com/solus-project/binman/pkgkit"
)

// ListRepos returns the name of every known repository.
func (e *Engine) ListRepos() []string {
	return e.allRepoNames()
}

// Sources returns every source name catalogued by repo.
func (e *Engine) Sources(repo string) ([]string, error) {
	if !e.IsRepo(repo) {
		return nil, ErrNoSuchRepo
	}
	cat, err := e.getCatalog(repo)
	if err != nil {
		return nil, err
	}
	return cat.SourceNames(), nil
}

// Records returns source's catalogued records within repo.
func (e *Engine) Records(repo, source string) ([]catalog.RepoPackage, error) {
	if !e.IsRepo(repo) {
		return nil, ErrNoSuchRepo
	}
	cat, err := e.getCatalog(repo)
	if err != nil {
		return nil, err
	}
	return cat.Get(source), nil
}

// HasFilename reports whether repo already has a catalog record naming
// filename, under any source. Used to recognize a file already resting at
// its target path before re-ingesting it.
func (e *Engine) HasFilename(repo, filename string) bool {
	cat, err := e.getCatalog(repo)
	if err != nil {
		return false
	}
	for _, source := range cat.SourceNames() {
		for _, r := range cat.Get(source) {
			if r.Filename == filename {
				return true
			}
		}
	}
	return false
}

// CreateRepo creates a brand-new, empty repository named name. name must
// not already be a repo, nor an existing non-repo directory; its assets
// directory must not pre-exist either.
func (e *Engine) CreateRepo(name string) error {
	if e.IsRepo(name) {
		return ErrRepoExists
	}
	repoDir := paths.RepoDir(e.cfg, name)
	if _, err := os.Stat(repoDir); err == nil {
		return fmt.Errorf("%w: %s exists and is not a repo", ErrRepoExists, name)
	}
	assetsDir := paths.AssetsDir(e.cfg, name)
	if _, err := os.Stat(assetsDir); err == nil {
		return fmt.Errorf("%w: assets dir for %s already exists", ErrRepoExists, name)
	}

	if err := os.MkdirAll(assetsDir, 0755); err != nil {
		return err
	}
	if err := os.MkdirAll(repoDir, 0755); err != nil {
		return err
	}
	if err := os.MkdirAll(paths.IncomingDir(e.cfg, name), 0755); err != nil {
		return err
	}
	if err := ioutil.WriteFile(paths.RepoMarker(e.cfg, name), nil, 0644); err != nil {
		return err
	}
	log.WithFields(log.Fields{"repo": name}).Info("engine: created repository")
	return nil
}

// RemoveRepo tears down repository name entirely: every package record,
// the marker, generated index artifacts, the repo directory, its cached
// and persisted catalog, and its assets directory (if empty).
func (e *Engine) RemoveRepo(name string) error {
	if !e.IsRepo(name) {
		return ErrNoSuchRepo
	}
	cat, err := e.getCatalog(name)
	if err != nil {
		return err
	}
	for _, source := range cat.SourceNames() {
		// Get returns the catalog's live backing array; RemovePackage mutates
		// it in place via catalog.Remove, so range over a snapshot instead.
		records := append([]catalog.RepoPackage{}, cat.Get(source)...)
		for _, r := range records {
			if err := e.RemovePackage(name, r, true); err != nil {
				return err
			}
		}
	}

	repoDir := paths.RepoDir(e.cfg, name)
	if err := os.RemoveAll(repoDir); err != nil {
		return err
	}

	delete(e.cache, name)
	delete(e.altered, name)
	delete(e.needDelta, name)
	if sc, ok := e.skipCaches[name]; ok {
		sc.Close()
		delete(e.skipCaches, name)
	}

	if err := os.Remove(paths.CatalogFile(e.cfg, name)); err != nil && !os.IsNotExist(err) {
		return err
	}

	assetsDir := paths.AssetsDir(e.cfg, name)
	if entries, err := ioutil.ReadDir(assetsDir); err == nil {
		if len(entries) == 0 {
			os.Remove(assetsDir)
		} else {
			log.WithFields(log.Fields{"repo": name}).Warning("engine: assets dir not empty, leaving in place")
		}
	}

	log.WithFields(log.Fields{"repo": name}).Info("engine: removed repository")
	return nil
}

// Reindex is the Indexer: it runs any queued delta regeneration for repo,
// rewrites its on-disk index, and refreshes its asset files.
func (e *Engine) Reindex(repo string) error {
	if !e.IsRepo(repo) {
		return ErrNoSuchRepo
	}

	if sources := e.needDelta[repo]; len(sources) > 0 {
		cat, err := e.getCatalog(repo)
		if err != nil {
			return err
		}
		skip, err := e.getSkipCache(repo)
		if err != nil {
			return err
		}
		for _, source := range sources {
			if err := e.createDeltasFor(repo, cat.Get(source), skip); err != nil {
				return err
			}
		}
		delete(e.needDelta, repo)
	}

	repoDir := paths.RepoDir(e.cfg, repo)
	if err := pkgkit.WriteIndex(repoDir, pkgkit.WriteIndexOptions{
		SkipSources: true,
		SkipSigning: true,
		Compress:    true,
	}); err != nil {
		return err
	}

	if err := pkgkit.CopyAssets(paths.AssetsDir(e.cfg, repo), repoDir); err != nil {
		log.WithFields(log.Fields{"repo": repo, "err": err}).Warning("engine: asset copy failed")
	}
	return nil
}

// RunEpilogue reindexes every repo marked altered since the last epilogue,
// persisting each repo's catalog first.
func (e *Engine) RunEpilogue() error {
	for repo := range e.altered {
		if err := e.saveCatalog(repo); err != nil {
			return err
		}
		if err := e.Reindex(repo); err != nil {
			return err
		}
		delete(e.altered, repo)
	}
	return nil
}
