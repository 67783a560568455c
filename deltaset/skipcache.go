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

package deltaset

import (
	"fmt"

	log "github.com/sirupsen/logrus"
	"github.com/syndtr/goleveldb/leveldb"
	"github.com/syndtr/goleveldb/leveldb/util"
)

// LevelSkipCache is a SkipCache backed by a per-repo goleveldb database,
// recording delta builds already known to fail so CreateFor doesn't retry
// them on every invocation. Grounded on the key-prefix "bucket" pattern used
// elsewhere in this module family for embedded key/value storage.
type LevelSkipCache struct {
	db *leveldb.DB
}

// OpenSkipCache opens (creating if absent) the skip-cache database at dir.
func OpenSkipCache(dir string) (*LevelSkipCache, error) {
	db, err := leveldb.OpenFile(dir, nil)
	if err != nil {
		return nil, err
	}
	return &LevelSkipCache{db: db}, nil
}

// Close releases the underlying database handle.
func (c *LevelSkipCache) Close() error {
	return c.db.Close()
}

func skipKey(binaryName string, from, to int) []byte {
	return []byte(fmt.Sprintf("%s-%d-%d", binaryName, from, to))
}

// IsSkipped reports whether a prior build of this exact (binary, from, to)
// triple is recorded as having failed.
func (c *LevelSkipCache) IsSkipped(binaryName string, from, to int) bool {
	ok, err := c.db.Has(skipKey(binaryName, from, to), nil)
	return err == nil && ok
}

// MarkSkipped records that (binaryName, from, to) is known not to produce a
// delta.
func (c *LevelSkipCache) MarkSkipped(binaryName string, from, to int) error {
	log.WithFields(log.Fields{"binary": binaryName, "from": from, "to": to}).
		Info("deltaset: caching failed delta build")
	return c.db.Put(skipKey(binaryName, from, to), []byte{1}, nil)
}

// Reset drops every recorded skip entry, letting the next delta pass retry
// builds previously marked as failing.
func (c *LevelSkipCache) Reset() error {
	iter := c.db.NewIterator(util.BytesPrefix(nil), nil)
	defer iter.Release()
	batch := new(leveldb.Batch)
	for iter.Next() {
		batch.Delete(append([]byte{}, iter.Key()...))
	}
	if err := iter.Error(); err != nil {
		return err
	}
	return c.db.Write(batch, nil)
}
