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

// Package deltaset enumerates, invalidates, and creates delta package
// artifacts for a binary package family. Delta files are pure derived
// artifacts: they are never catalog entries, and their validity tracks the
// catalog's current top release per binary.
package deltaset

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	log "github.com/sirupsen/logrus"

	"github.com/solus-project/binman/catalog"
)

// Suffix is the filename suffix for every delta artifact.
const Suffix = ".delta.pkg"

// NameForPair returns the delta filename for an upgrade from release `from`
// to release `to` of binaryName.
func NameForPair(binaryName string, from, to int, distRelease, arch string) string {
	return fmt.Sprintf("%s-%d-%d-%s-%s%s", binaryName, from, to, distRelease, arch, Suffix)
}

// EnumerateInvolving returns every delta filename under dir that names p as
// either the "from" or "to" endpoint.
func EnumerateInvolving(dir string, p catalog.RepoPackage) ([]string, error) {
	entries, err := filepathGlobDeltas(dir)
	if err != nil {
		return nil, err
	}
	var out []string
	for _, name := range entries {
		// <binary>-<from>-<to>-<distRelease>-<arch>: the binary name may
		// itself contain dashes, so the four trailing fields are split off.
		parts := strings.Split(strings.TrimSuffix(name, Suffix), "-")
		n := len(parts)
		if n < 5 || strings.Join(parts[:n-4], "-") != p.BinaryName {
			continue
		}
		if parts[n-4] == itoa(p.Release) || parts[n-3] == itoa(p.Release) {
			out = append(out, filepath.Join(dir, name))
		}
	}
	return out, nil
}

func itoa(i int) string { return fmt.Sprintf("%d", i) }

// InvalidateFor removes every delta file naming p as an endpoint and
// garbage-collects their pool entries. gc is called once per removed
// filename so the caller (engine) can apply the cross-repo reachability
// check without this package needing catalog-cache knowledge.
func InvalidateFor(dir string, p catalog.RepoPackage, remove func(path string) error, gc func(filename string) error) error {
	files, err := EnumerateInvolving(dir, p)
	if err != nil {
		return err
	}
	for _, f := range files {
		if err := remove(f); err != nil {
			return err
		}
		if gc != nil {
			if err := gc(filepath.Base(f)); err != nil {
				return err
			}
		}
	}
	return nil
}

// Group is one (sourceName, binaryName) family's records, newest first.
type Group struct {
	BinaryName string
	Records    []catalog.RepoPackage
}

// GroupByBinary splits a source's records into per-binary groups sorted by
// release descending.
func GroupByBinary(records []catalog.RepoPackage) []Group {
	byBinary := make(map[string][]catalog.RepoPackage)
	var order []string
	for _, r := range records {
		if _, ok := byBinary[r.BinaryName]; !ok {
			order = append(order, r.BinaryName)
		}
		byBinary[r.BinaryName] = append(byBinary[r.BinaryName], r)
	}
	groups := make([]Group, 0, len(order))
	for _, name := range order {
		recs := byBinary[name]
		sort.Slice(recs, func(i, j int) bool { return recs[i].Release > recs[j].Release })
		groups = append(groups, Group{BinaryName: name, Records: recs})
	}
	return groups
}

// Builder is the DeltaBuilder contract; pkgkit.DeltaBuilder implements it.
type Builder interface {
	Create(oldPath, newPath, destDir, destFilename string) ([]string, error)
}

// SkipCache records (binaryName, from, to) triples that are known not to
// produce a delta, so CreateFor doesn't retry an expensive failing build on
// every invocation.
type SkipCache interface {
	IsSkipped(binaryName string, from, to int) bool
	MarkSkipped(binaryName string, from, to int) error
}

// CreateFor builds every missing, viable delta for sourceName's records.
// pkgDir returns the directory a given record's file lives in (so callers
// can pass paths.SourceDir). linkPool hardlinks an already-pooled artifact
// into destDir; ingestPool places a freshly built artifact into the pool.
// A build error from builder is logged and that delta is skipped.
func CreateFor(
	builder Builder,
	skip SkipCache,
	records []catalog.RepoPackage,
	pkgDir func(catalog.RepoPackage) string,
	hasPool func(filename string) bool,
	linkPool func(filename, destPath string) error,
	ingestPool func(srcPath, filename string) error,
) error {
	for _, group := range GroupByBinary(records) {
		if len(group.Records) < 2 {
			continue
		}
		top := group.Records[0]
		for _, older := range group.Records[1:] {
			if err := createOne(builder, skip, older, top, pkgDir, hasPool, linkPool, ingestPool); err != nil {
				return err
			}
		}
	}
	return nil
}

func createOne(
	builder Builder,
	skip SkipCache,
	older, top catalog.RepoPackage,
	pkgDir func(catalog.RepoPackage) string,
	hasPool func(filename string) bool,
	linkPool func(filename, destPath string) error,
	ingestPool func(srcPath, filename string) error,
) error {
	dir := pkgDir(top)
	name := NameForPair(top.BinaryName, older.Release, top.Release, top.Meta.DistributionRelease, top.Meta.Architecture)
	destPath := filepath.Join(dir, name)

	if fileExists(destPath) {
		return nil
	}
	if skip != nil && skip.IsSkipped(top.BinaryName, older.Release, top.Release) {
		return nil
	}
	if hasPool(name) {
		return linkPool(name, destPath)
	}

	oldPath := filepath.Join(pkgDir(older), older.Filename)
	newPath := filepath.Join(dir, top.Filename)

	artifacts, err := builder.Create(oldPath, newPath, dir, name)
	if err != nil {
		log.WithFields(log.Fields{
			"binary": top.BinaryName, "from": older.Release, "to": top.Release, "err": err,
		}).Warning("deltaset: delta build failed")
		return nil
	}
	if len(artifacts) == 0 {
		log.WithFields(log.Fields{
			"binary": top.BinaryName, "from": older.Release, "to": top.Release,
		}).Warning("deltaset: no delta possible")
		if skip != nil {
			return skip.MarkSkipped(top.BinaryName, older.Release, top.Release)
		}
		return nil
	}
	for _, artifact := range artifacts {
		if err := ingestPool(artifact, filepath.Base(artifact)); err != nil {
			return err
		}
	}
	return nil
}
