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

	log "github.com/sirupsen/logrus"

	"github.com/solus-project/binman/catalog"
	"github.com/solus-project/binman/paths"
	"github.com/solus-project/binman/pkgkit"
)

// selectRecords returns either every record (allVersions) or only those at
// the highest release per binary, from records (assumed to be one source's
// full record set).
func selectRecords(records []catalog.RepoPackage, allVersions bool) []catalog.RepoPackage {
	if allVersions {
		return records
	}
	newest := make(map[string]catalog.RepoPackage)
	for _, r := range records {
		cur, ok := newest[r.BinaryName]
		if !ok || r.Release > cur.Release {
			newest[r.BinaryName] = r
		}
	}
	out := make([]catalog.RepoPackage, 0, len(newest))
	for _, r := range newest {
		out = append(out, r)
	}
	return out
}

// Clone populates a brand-new repository dst from src. dst must not already
// exist; src must have at least one catalog entry. Every underlying
// artifact is already pooled, so AddPackage performs pure linking.
func (e *Engine) Clone(src, dst string, allVersions bool) error {
	if !e.IsRepo(src) {
		return ErrNoSuchRepo
	}
	if e.IsRepo(dst) {
		return ErrRepoExists
	}

	srcCat, err := e.getCatalog(src)
	if err != nil {
		return err
	}
	if srcCat.Empty() {
		return fmt.Errorf("engine: clone source %s has no packages", src)
	}

	if err := e.CreateRepo(dst); err != nil {
		return err
	}
	if err := pkgkit.CopyAssets(assetsDirOf(e, src), repoDirOf(e, dst)); err != nil {
		log.WithFields(log.Fields{"dst": dst, "err": err}).Warning("engine: asset copy failed")
	}

	for _, source := range srcCat.SourceNames() {
		for _, r := range selectRecords(srcCat.Get(source), allVersions) {
			if err := e.AddPackage(dst, r); err != nil {
				return err
			}
		}
	}
	e.markAltered(dst)
	return nil
}

// Pull refreshes clone from origin: for every source absent from clone, or
// whose origin release strictly exceeds clone's, copy origin's newest
// records. The catalog is only persisted (via the epilogue) if at least one
// update occurred.
func (e *Engine) Pull(clone, origin string) error {
	if !e.IsRepo(clone) {
		return ErrNoSuchRepo
	}
	if !e.IsRepo(origin) {
		return ErrNoSuchRepo
	}
	originCat, err := e.getCatalog(origin)
	if err != nil {
		return err
	}
	cloneCat, err := e.getCatalog(clone)
	if err != nil {
		return err
	}

	updates := 0
	for _, source := range originCat.SourceNames() {
		originRecs := originCat.Get(source)
		cloneRecs := cloneCat.Get(source)

		if len(cloneRecs) == 0 {
			for _, r := range selectRecords(originRecs, false) {
				if err := e.AddPackage(clone, r); err != nil {
					return err
				}
				updates++
			}
			continue
		}

		oNewest := topRelease(originRecs)
		cNewest := topRelease(cloneRecs)
		if oNewest.Release > cNewest.Release {
			for _, r := range selectRecords(originRecs, false) {
				if r.Release == oNewest.Release {
					if err := e.AddPackage(clone, r); err != nil {
						return err
					}
					updates++
				}
			}
		}
	}

	if err := pkgkit.CopyAssets(assetsDirOf(e, origin), repoDirOf(e, clone)); err != nil {
		log.WithFields(log.Fields{"clone": clone, "err": err}).Warning("engine: asset copy failed")
	}

	if updates > 0 {
		e.markAltered(clone)
	}
	return nil
}

// CopySource copies the named sources from src into dst, analogous to Clone
// but restricted to an explicit list of source names, all of which must
// exist in src.
func (e *Engine) CopySource(src, dst string, names []string, allVersions bool) error {
	if !e.IsRepo(src) {
		return ErrNoSuchRepo
	}
	if !e.IsRepo(dst) {
		return ErrNoSuchRepo
	}
	srcCat, err := e.getCatalog(src)
	if err != nil {
		return err
	}
	for _, name := range names {
		recs := srcCat.Get(name)
		if len(recs) == 0 {
			return fmt.Errorf("%w: %s", ErrUnknownSource, name)
		}
		for _, r := range selectRecords(recs, allVersions) {
			if err := e.AddPackage(dst, r); err != nil {
				return err
			}
		}
	}
	e.markAltered(dst)
	return nil
}

func assetsDirOf(e *Engine, repo string) string {
	return paths.AssetsDir(e.cfg, repo)
}

func repoDirOf(e *Engine, repo string) string {
	return paths.RepoDir(e.cfg, repo)
}
