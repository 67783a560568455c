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

// Package pool implements the shared content-addressed-by-basename artifact
// store backing every repository via hardlinks. Reachability is computed by
// checking path existence across all known repositories at GC time, not by
// a stored reference count.
package pool

import (
	"io"
	"io/ioutil"
	"os"
	"path/filepath"

	log "github.com/sirupsen/logrus"

	"github.com/solus-project/binman/config"
	"github.com/solus-project/binman/paths"
)

// Pool is a thin wrapper over the shared pool directory.
type Pool struct {
	cfg *config.Config
}

// New returns a Pool rooted at cfg's pool directory, creating it if absent.
func New(cfg *config.Config) (*Pool, error) {
	if err := os.MkdirAll(paths.PoolDir(cfg), 0755); err != nil {
		return nil, err
	}
	return &Pool{cfg: cfg}, nil
}

// Has reports whether filename already exists in the pool.
func (p *Pool) Has(filename string) bool {
	_, err := os.Stat(paths.PoolEntry(p.cfg, filename))
	return err == nil
}

// Ingest copies externalPath into the pool as filename, unless an entry
// with that basename already exists.
func (p *Pool) Ingest(externalPath, filename string) error {
	if p.Has(filename) {
		return nil
	}
	if err := os.MkdirAll(paths.PoolDir(p.cfg), 0755); err != nil {
		return err
	}
	return copyFile(externalPath, paths.PoolEntry(p.cfg, filename))
}

// LinkInto hardlinks the pool entry for filename to targetPath, creating
// targetPath's parent directories as needed. It falls back to a copy when
// the pool and target live on different filesystems. The pool entry must
// already exist.
func (p *Pool) LinkInto(filename, targetPath string) error {
	if !p.Has(filename) {
		return os.ErrNotExist
	}
	if err := os.MkdirAll(filepath.Dir(targetPath), 0755); err != nil {
		return err
	}
	src := paths.PoolEntry(p.cfg, filename)
	if os.Link(src, targetPath) == nil {
		return nil
	}
	return copyFile(src, targetPath)
}

// AdoptIntoPool hardlinks an artifact that was built directly inside a
// repository (e.g. a freshly built delta) into the pool under filename,
// without disturbing sourcePath. Used instead of Ingest when the artifact
// already lives at its final repo-side location and only needs pool-side
// sharing for reuse by other repositories.
func (p *Pool) AdoptIntoPool(sourcePath, filename string) error {
	if p.Has(filename) {
		return nil
	}
	if err := os.MkdirAll(paths.PoolDir(p.cfg), 0755); err != nil {
		return err
	}
	dest := paths.PoolEntry(p.cfg, filename)
	if os.Link(sourcePath, dest) == nil {
		return nil
	}
	return copyFile(sourcePath, dest)
}

// GCIfUnreferenced deletes the pool entry for filename iff none of the
// paths in reachableTargets currently exist on disk.
func (p *Pool) GCIfUnreferenced(filename string, reachableTargets []string) error {
	for _, target := range reachableTargets {
		if _, err := os.Stat(target); err == nil {
			return nil
		}
	}
	entry := paths.PoolEntry(p.cfg, filename)
	if _, err := os.Stat(entry); err != nil {
		return nil
	}
	log.WithFields(log.Fields{"filename": filename}).Info("pool: reclaiming unreferenced entry")
	return os.Remove(entry)
}

func copyFile(source, dest string) error {
	st, err := os.Stat(source)
	if err != nil {
		return err
	}
	src, err := os.Open(source)
	if err != nil {
		return err
	}
	defer src.Close()
	dst, err := os.OpenFile(dest, os.O_TRUNC|os.O_CREATE|os.O_WRONLY, st.Mode())
	if err != nil {
		return err
	}
	if _, err := io.Copy(dst, src); err != nil {
		dst.Close()
		return err
	}
	dst.Close()
	os.Chtimes(dest, st.ModTime(), st.ModTime())
	return nil
}

// RemoveParents removes path's source-name and shard directories if they
// are now empty, matching the sharded layout's cleanup need after a
// package removal.
func RemoveParents(path string) error {
	sourceDir := filepath.Dir(path)
	shardDir := filepath.Dir(sourceDir)

	for _, dir := range []string{sourceDir, shardDir} {
		contents, err := ioutil.ReadDir(dir)
		if err != nil {
			return err
		}
		if len(contents) != 0 {
			continue
		}
		if err := os.Remove(dir); err != nil {
			return err
		}
	}
	return nil
}
