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
	"os"

	"github.com/solus-project/binman/catalog"
	"github.com/solus-project/binman/deltaset"
	"github.com/solus-project/binman/paths"
)

// invalidateDeltasFor removes every delta naming p as an endpoint from
// repo's package directory and reclaims now-unreferenced pool entries.
func (e *Engine) invalidateDeltasFor(repo string, p catalog.RepoPackage) error {
	dir := paths.SourceDir(e.cfg, repo, p.SourceName)
	return deltaset.InvalidateFor(dir, p,
		func(path string) error { return os.Remove(path) },
		func(filename string) error { return e.gcIfUnreferenced(p.SourceName, filename) },
	)
}

// DeltaOp regenerates every viable delta for every source in repo's
// catalog, marking repo altered so the epilogue reindexes it.
func (e *Engine) DeltaOp(repo string) error {
	if !e.IsRepo(repo) {
		return ErrNoSuchRepo
	}
	cat, err := e.getCatalog(repo)
	if err != nil {
		return err
	}
	skip, err := e.getSkipCache(repo)
	if err != nil {
		return err
	}
	for _, source := range cat.SourceNames() {
		if err := e.createDeltasFor(repo, cat.Get(source), skip); err != nil {
			return err
		}
	}
	e.markAltered(repo)
	return nil
}

func (e *Engine) createDeltasFor(repo string, records []catalog.RepoPackage, skip *deltaset.LevelSkipCache) error {
	return deltaset.CreateFor(
		e.builder,
		skip,
		records,
		func(p catalog.RepoPackage) string { return paths.SourceDir(e.cfg, repo, p.SourceName) },
		func(filename string) bool { return e.pool.Has(filename) },
		func(filename, destPath string) error { return e.pool.LinkInto(filename, destPath) },
		func(srcPath, filename string) error { return e.pool.AdoptIntoPool(srcPath, filename) },
	)
}
