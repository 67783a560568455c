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

import (
	"io/ioutil"
	"os"
	"path/filepath"
	"testing"
)

func samplePackage() RepoPackage {
	return RepoPackage{
		Filename:   "nano-2.9.8-1-1-x86_64.pkg",
		SourceName: "nano",
		BinaryName: "nano",
		Release:    1,
	}
}

func TestLoadMissingFileIsEmpty(t *testing.T) {
	dir := t.TempDir()
	c, err := Load(filepath.Join(dir, "repo.catalog.db"))
	if err != nil {
		t.Fatalf("Load should not fail on a missing file, found: %s", err.Error())
	}
	if !c.Empty() {
		t.Errorf("fresh catalog should be empty")
	}
}

func TestAppendGetContains(t *testing.T) {
	dir := t.TempDir()
	c, _ := Load(filepath.Join(dir, "repo.catalog.db"))
	p := samplePackage()

	if !c.Append(p) {
		t.Fatalf("Append should succeed for a new record")
	}
	if !c.Contains("nano") {
		t.Errorf("Contains should report true after Append")
	}
	if c.Append(p) {
		t.Errorf("Append should reject a duplicate record")
	}
	recs := c.Get("nano")
	if len(recs) != 1 {
		t.Fatalf("Get should return exactly one record, found: %d", len(recs))
	}
}

func TestRemove(t *testing.T) {
	dir := t.TempDir()
	c, _ := Load(filepath.Join(dir, "repo.catalog.db"))
	p := samplePackage()
	c.Append(p)
	c.Remove(p)
	if c.Contains("nano") {
		t.Errorf("Contains should report false after Remove")
	}
	if !c.Empty() {
		t.Errorf("catalog should be empty after removing its only record")
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "repo.catalog.db")
	c, _ := Load(path)
	c.Append(samplePackage())
	c.Append(RepoPackage{Filename: "nano-2.9.9-1-1-x86_64.pkg", SourceName: "nano", BinaryName: "nano", Release: 2})
	if err := c.Save(); err != nil {
		t.Fatalf("Save should not fail, found: %s", err.Error())
	}

	reloaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load should not fail, found: %s", err.Error())
	}
	recs := reloaded.Get("nano")
	if len(recs) != 2 {
		t.Fatalf("expected 2 records after reload, found: %d", len(recs))
	}
}

func TestLoadCorruptFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "repo.catalog.db")
	if err := ioutil.WriteFile(path, []byte("not a boltdb file"), 0644); err != nil {
		t.Fatalf("setup failed: %s", err.Error())
	}
	if _, err := Load(path); err == nil {
		t.Errorf("Load should fail for a file that is not a valid BoltDB database")
	}
	os.Remove(path)
}

func TestSourceNames(t *testing.T) {
	dir := t.TempDir()
	c, _ := Load(filepath.Join(dir, "repo.catalog.db"))
	c.Append(samplePackage())
	c.Append(RepoPackage{Filename: "vim-8.0-1-1-x86_64.pkg", SourceName: "vim", BinaryName: "vim", Release: 1})
	names := c.SourceNames()
	if len(names) != 2 {
		t.Fatalf("expected 2 source names, found: %d", len(names))
	}
}
