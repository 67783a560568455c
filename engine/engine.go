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

// Package engine implements RepoEngine: the mutating operations that keep
// the on-disk layout, the per-repo Catalog, the shared Pool, and the
// delta-artifact set consistent with each other.
package engine

import (
	"os"

	log "github.com/sirupsen/logrus"

	"github.com/solus-project/binman/catalog"
	"github.com/solus-project/binman/config"
	"github.com/solus-project/binman/deltaset"
	"github.com/solus-project/binman/paths"
	"github.com/solus-project/binman/pkgkit"
	"github.com/solus-project/binman/pool"
)

// Engine is an explicit value carrying every piece of per-process state the
// repository operations need: no hidden module-level globals.
type Engine struct {
	cfg  *config.Config
	pool *pool.Pool

	cache map[string]*catalog.Catalog

	// altered is the set of repos to reindex at the operation-group
	// epilogue.
	altered map[string]bool

	// needDelta enqueues source names awaiting delta regeneration,
	// recorded against the repo that produced them.
	needDelta map[string][]string

	// processMode enables speculative delta regeneration on release
	// bumps (set during batch ingestion: add, process-incoming, watch).
	processMode bool

	skipCaches map[string]*deltaset.LevelSkipCache
	builder    deltaset.Builder
}

// New constructs an Engine rooted at cfg.
func New(cfg *config.Config) (*Engine, error) {
	p, err := pool.New(cfg)
	if err != nil {
		return nil, err
	}
	return &Engine{
		cfg:        cfg,
		pool:       p,
		cache:      make(map[string]*catalog.Catalog),
		altered:    make(map[string]bool),
		needDelta:  make(map[string][]string),
		skipCaches: make(map[string]*deltaset.LevelSkipCache),
		builder:    pkgkit.DeltaBuilder{},
	}, nil
}

// SetProcessMode toggles the batch-ingestion context used by add/watch/
// process-incoming to decide whether a release bump should enqueue
// speculative delta regeneration.
func (e *Engine) SetProcessMode(on bool) {
	e.processMode = on
}

// IsRepo reports whether name is a known repository (its marker file
// exists).
func (e *Engine) IsRepo(name string) bool {
	_, err := os.Stat(paths.RepoMarker(e.cfg, name))
	return err == nil
}

// Config exposes the engine's configuration (read-only use by callers such
// as the watcher and CLI).
func (e *Engine) Config() *config.Config {
	return e.cfg
}

// getCatalog returns the cached Catalog for repo, loading it from disk on
// first access.
func (e *Engine) getCatalog(repo string) (*catalog.Catalog, error) {
	if c, ok := e.cache[repo]; ok {
		return c, nil
	}
	c, err := catalog.Load(paths.CatalogFile(e.cfg, repo))
	if err != nil {
		log.WithFields(log.Fields{"repo": repo}).Error("engine: catalog load failed")
		return nil, ErrCatalogCorrupt
	}
	e.cache[repo] = c
	return c, nil
}

// saveCatalog persists repo's cached catalog.
func (e *Engine) saveCatalog(repo string) error {
	c, ok := e.cache[repo]
	if !ok {
		return nil
	}
	if err := c.Save(); err != nil {
		log.WithFields(log.Fields{"repo": repo}).Error("engine: catalog save failed")
		return ErrCatalogWrite
	}
	return nil
}

// PersistCatalog saves repo's cached catalog immediately, bypassing the
// operation-group epilogue. Used when an operation must abort mid-batch but
// still wants whatever progress it made durable (e.g. a watcher drain that
// hits an ingest failure partway through).
func (e *Engine) PersistCatalog(repo string) error {
	return e.saveCatalog(repo)
}

func (e *Engine) markAltered(repo string) {
	e.altered[repo] = true
}

// getSkipCache returns the per-repo failed-delta skip cache, opening it on
// first use.
func (e *Engine) getSkipCache(repo string) (*deltaset.LevelSkipCache, error) {
	if c, ok := e.skipCaches[repo]; ok {
		return c, nil
	}
	dir := paths.DeltaCacheDir(e.cfg, repo)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}
	c, err := deltaset.OpenSkipCache(dir)
	if err != nil {
		return nil, err
	}
	e.skipCaches[repo] = c
	return c, nil
}

// Close releases any open per-repo skip-cache handles.
func (e *Engine) Close() {
	for _, c := range e.skipCaches {
		c.Close()
	}
}
