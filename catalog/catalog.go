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

// Package catalog implements the per-repository package index: an
// in-memory map of source name to its RepoPackage records, persisted as one
// BoltDB file per repository.
package catalog

import (
	"bytes"
	"encoding/gob"
	"errors"
	"fmt"

	"github.com/boltdb/bolt"
	log "github.com/sirupsen/logrus"

	"github.com/solus-project/binman/pkgkit"
)

// magic identifies this module's catalog record encoding. Bump it if the
// on-disk gob schema ever changes incompatibly.
var magic = []byte("BMC1")

var bucketName = []byte("packages")

// ErrCorrupt is returned by Load when the persisted catalog file's magic
// prefix or gob payload cannot be trusted.
var ErrCorrupt = errors.New("catalog: persisted file is corrupt")

// RepoPackage is the catalog record for one ingested package file.
//
// Equality is the (Filename, SourceName, Release) triple — not just
// Filename, and not the binman.py-era typo comparing source against
// filename.
type RepoPackage struct {
	Filename   string
	SourceName string
	BinaryName string
	Release    int
	Meta       pkgkit.PkgMeta
}

// Equal reports whether p and other describe the same catalog record.
func (p RepoPackage) Equal(other RepoPackage) bool {
	return p.Filename == other.Filename &&
		p.SourceName == other.SourceName &&
		p.Release == other.Release
}

// Catalog is the in-memory, persistable index of one repository's packages,
// keyed by source name.
type Catalog struct {
	path    string
	records map[string][]RepoPackage
}

// Load opens (or creates) the BoltDB file at path and reads its persisted
// records. A missing file yields an empty catalog, not an error.
func Load(path string) (*Catalog, error) {
	c := &Catalog{path: path, records: make(map[string][]RepoPackage)}

	db, err := bolt.Open(path, 0644, nil)
	if err != nil {
		return nil, fmt.Errorf("catalog: %w", err)
	}
	defer db.Close()

	err = db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketName)
		if b == nil {
			return nil
		}
		return b.ForEach(func(k, v []byte) error {
			recs, err := decodeRecords(v)
			if err != nil {
				return err
			}
			c.records[string(k)] = recs
			return nil
		})
	})
	if err != nil {
		log.WithFields(log.Fields{"path": path}).Error("catalog load failed")
		return nil, ErrCorrupt
	}
	return c, nil
}

// Save atomically persists the catalog's current in-memory state. The
// packages bucket is dropped and recreated each time so source names
// removed since the last Save don't linger on disk.
func (c *Catalog) Save() error {
	db, err := bolt.Open(c.path, 0644, nil)
	if err != nil {
		return fmt.Errorf("catalog: %w", err)
	}
	defer db.Close()

	return db.Update(func(tx *bolt.Tx) error {
		if err := tx.DeleteBucket(bucketName); err != nil && err != bolt.ErrBucketNotFound {
			return err
		}
		b, err := tx.CreateBucket(bucketName)
		if err != nil {
			return err
		}
		for source, recs := range c.records {
			payload, err := encodeRecords(recs)
			if err != nil {
				return err
			}
			if err := b.Put([]byte(source), payload); err != nil {
				return err
			}
		}
		return nil
	})
}

func decodeRecords(payload []byte) ([]RepoPackage, error) {
	if len(payload) < len(magic) || !bytes.Equal(payload[:len(magic)], magic) {
		return nil, ErrCorrupt
	}
	var recs []RepoPackage
	dec := gob.NewDecoder(bytes.NewReader(payload[len(magic):]))
	if err := dec.Decode(&recs); err != nil {
		return nil, ErrCorrupt
	}
	return recs, nil
}

func encodeRecords(recs []RepoPackage) ([]byte, error) {
	buf := bytes.NewBuffer(append([]byte{}, magic...))
	enc := gob.NewEncoder(buf)
	if err := enc.Encode(recs); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
