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

	log "github.com/sirupsen/logrus"

	"github.com/solus-project/binman/catalog"
	"github.com/solus-project/binman/paths"
	"github.com/solus-project/binman/pkgkit"
)

// AddPackage ingests source into repo. source is either an external file
// path (string) destined for pooling, or an existing catalog.RepoPackage
// (used by Clone/Pull/CopySource, whose artifact is already pooled).
func (e *Engine) AddPackage(repo string, source interface{}) error {
	if !e.IsRepo(repo) {
		return ErrNoSuchRepo
	}

	rec, externalPath, err := e.resolveRecord(source)
	if err != nil {
		return err
	}

	target := paths.TargetPath(e.cfg, repo, rec.SourceName, rec.Filename)
	if _, err := os.Stat(target); err == nil {
		return ErrAddToExisting
	}

	if err := os.MkdirAll(paths.SourceDir(e.cfg, repo, rec.SourceName), 0755); err != nil {
		return fmt.Errorf("%w: %v", ErrPoolIO, err)
	}

	if externalPath != "" {
		if err := e.pool.Ingest(externalPath, rec.Filename); err != nil {
			return fmt.Errorf("%w: %v", ErrPoolIO, err)
		}
	} else if !e.pool.Has(rec.Filename) {
		return fmt.Errorf("%w: record %s is not pooled", ErrPoolIO, rec.Filename)
	}

	if err := e.pool.LinkInto(rec.Filename, target); err != nil {
		return fmt.Errorf("%w: %v", ErrPoolIO, err)
	}

	e.markAltered(repo)

	cat, err := e.getCatalog(repo)
	if err != nil {
		return err
	}

	existing := cat.Get(rec.SourceName)
	if len(existing) > 0 {
		priorTop := topRelease(existing)
		if priorTop.Release != rec.Release {
			if err := e.invalidateDeltasFor(repo, priorTop); err != nil {
				return err
			}
			if e.processMode {
				e.needDelta[repo] = appendUnique(e.needDelta[repo], rec.SourceName)
			}
		}
	}

	cat.Append(rec)
	log.WithFields(log.Fields{
		"repo": repo, "source": rec.SourceName, "filename": rec.Filename, "release": rec.Release,
	}).Info("engine: added package")
	return nil
}

// resolveRecord turns an AddPackage `source` argument into a RepoPackage and,
// if the source was an external path, returns it for pooling too.
func (e *Engine) resolveRecord(source interface{}) (catalog.RepoPackage, string, error) {
	switch v := source.(type) {
	case string:
		meta, err := pkgkit.Inspect(v)
		if err != nil {
			return catalog.RepoPackage{}, "", fmt.Errorf("%w: %v", ErrIncomingInvalid, err)
		}
		rec := catalog.RepoPackage{
			Filename:   meta.Filename(),
			SourceName: meta.SourceName,
			BinaryName: meta.BinaryName,
			Release:    meta.Release,
			Meta:       *meta,
		}
		return rec, v, nil
	case catalog.RepoPackage:
		return v, "", nil
	default:
		return catalog.RepoPackage{}, "", fmt.Errorf("engine: unsupported AddPackage source %T", source)
	}
}

func topRelease(records []catalog.RepoPackage) catalog.RepoPackage {
	top := records[0]
	for _, r := range records[1:] {
		if r.Release > top.Release {
			top = r
		}
	}
	return top
}

func appendUnique(list []string, name string) []string {
	for _, n := range list {
		if n == name {
			return list
		}
	}
	return append(list, name)
}
