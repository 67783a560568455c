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

package catalog

import log "github.com/sirupsen/logrus"

// Append adds p to the catalog. If an equal record already exists, the
// catalog is left unchanged and false is returned (DuplicateEntry — a
// logged no-op, not an error).
func (c *Catalog) Append(p RepoPackage) bool {
	existing := c.records[p.SourceName]
	for _, e := range existing {
		if e.Equal(p) {
			log.WithFields(log.Fields{
				"source":   p.SourceName,
				"filename": p.Filename,
			}).Warning("catalog: duplicate entry, ignoring")
			return false
		}
	}
	c.records[p.SourceName] = append(existing, p)
	return true
}

// Remove deletes p if present. It is idempotent: removing an absent record
// is a no-op.
func (c *Catalog) Remove(p RepoPackage) {
	existing, ok := c.records[p.SourceName]
	if !ok {
		return
	}
	out := existing[:0]
	for _, e := range existing {
		if !e.Equal(p) {
			out = append(out, e)
		}
	}
	if len(out) == 0 {
		delete(c.records, p.SourceName)
		return
	}
	c.records[p.SourceName] = out
}

// Contains reports whether sourceName has any records.
func (c *Catalog) Contains(sourceName string) bool {
	recs, ok := c.records[sourceName]
	return ok && len(recs) > 0
}

// Get returns sourceName's records in insertion order. The returned slice
// must not be mutated by the caller.
func (c *Catalog) Get(sourceName string) []RepoPackage {
	return c.records[sourceName]
}

// SourceNames returns every source name with at least one record.
func (c *Catalog) SourceNames() []string {
	names := make([]string, 0, len(c.records))
	for name := range c.records {
		names = append(names, name)
	}
	return names
}

// Empty reports whether the catalog has no records at all.
func (c *Catalog) Empty() bool {
	return len(c.records) == 0
}
