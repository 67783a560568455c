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
	"os"
	"path/filepath"
	"testing"

	"github.com/solus-project/binman/catalog"
	"github.com/solus-project/binman/pkgkit"
)

func TestNameForPair(t *testing.T) {
	got := NameForPair("nano", 1, 2, "1", "x86_64")
	expected := "nano-1-2-1-x86_64.delta.pkg"
	if got != expected {
		t.Errorf("NameForPair mismatch, expected: %s, found: %s", expected, got)
	}
}

func TestGroupByBinary(t *testing.T) {
	records := []catalog.RepoPackage{
		{BinaryName: "nano", Release: 1},
		{BinaryName: "nano", Release: 3},
		{BinaryName: "nano-devel", Release: 1},
	}
	groups := GroupByBinary(records)
	if len(groups) != 2 {
		t.Fatalf("expected 2 groups, found: %d", len(groups))
	}
	if groups[0].BinaryName != "nano" {
		t.Fatalf("expected first group to be nano, found: %s", groups[0].BinaryName)
	}
	if groups[0].Records[0].Release != 3 {
		t.Errorf("expected group's newest record first, found release %d", groups[0].Records[0].Release)
	}
}

func TestEnumerateInvolving(t *testing.T) {
	dir := t.TempDir()
	names := []string{
		"nano-1-2-1-x86_64.delta.pkg",
		"nano-2-3-1-x86_64.delta.pkg",
		"vim-1-2-1-x86_64.delta.pkg",
	}
	for _, n := range names {
		os.WriteFile(filepath.Join(dir, n), nil, 0644)
	}

	found, err := EnumerateInvolving(dir, catalog.RepoPackage{BinaryName: "nano", Release: 2})
	if err != nil {
		t.Fatalf("EnumerateInvolving should not fail, found: %s", err.Error())
	}
	if len(found) != 2 {
		t.Fatalf("expected 2 matches naming release 2 as an endpoint, found: %d", len(found))
	}
}

type fakeBuilder struct {
	calls int
}

func (b *fakeBuilder) Create(oldPath, newPath, destDir, destFilename string) ([]string, error) {
	b.calls++
	out := filepath.Join(destDir, destFilename)
	os.WriteFile(out, []byte("delta"), 0644)
	return []string{out}, nil
}

type fakeSkipCache struct {
	skipped map[string]bool
}

func (f *fakeSkipCache) key(name string, from, to int) string {
	return name
}

func (f *fakeSkipCache) IsSkipped(name string, from, to int) bool {
	return f.skipped[f.key(name, from, to)]
}

func (f *fakeSkipCache) MarkSkipped(name string, from, to int) error {
	f.skipped[f.key(name, from, to)] = true
	return nil
}

func TestCreateForBuildsMissingDelta(t *testing.T) {
	dir := t.TempDir()
	os.WriteFile(filepath.Join(dir, "nano-1-1-1-x86_64.pkg"), []byte("old"), 0644)
	os.WriteFile(filepath.Join(dir, "nano-2-1-1-x86_64.pkg"), []byte("new"), 0644)

	meta := pkgkit.PkgMeta{DistributionRelease: "1", Architecture: "x86_64"}
	records := []catalog.RepoPackage{
		{BinaryName: "nano", Release: 2, Filename: "nano-2-1-1-x86_64.pkg", Meta: meta},
		{BinaryName: "nano", Release: 1, Filename: "nano-1-1-1-x86_64.pkg", Meta: meta},
	}

	builder := &fakeBuilder{}
	skip := &fakeSkipCache{skipped: make(map[string]bool)}
	adopted := make(map[string]bool)

	err := CreateFor(builder, skip, records,
		func(p catalog.RepoPackage) string { return dir },
		func(filename string) bool { return false },
		func(filename, destPath string) error { return nil },
		func(srcPath, filename string) error { adopted[filename] = true; return nil },
	)
	if err != nil {
		t.Fatalf("CreateFor should not fail, found: %s", err.Error())
	}
	if builder.calls != 1 {
		t.Errorf("expected exactly one delta build, found: %d", builder.calls)
	}
	if !adopted["nano-1-2-1-x86_64.delta.pkg"] {
		t.Errorf("expected the built delta to be adopted into the pool")
	}
}

func TestCreateForSkipsSingleRelease(t *testing.T) {
	dir := t.TempDir()
	records := []catalog.RepoPackage{
		{BinaryName: "nano", Release: 1, Filename: "nano-1-1-1-x86_64.pkg"},
	}
	builder := &fakeBuilder{}
	err := CreateFor(builder, nil, records,
		func(p catalog.RepoPackage) string { return dir },
		func(filename string) bool { return false },
		func(filename, destPath string) error { return nil },
		func(srcPath, filename string) error { return nil },
	)
	if err != nil {
		t.Fatalf("CreateFor should not fail, found: %s", err.Error())
	}
	if builder.calls != 0 {
		t.Errorf("a single release should never produce a delta build, found %d calls", builder.calls)
	}
}
