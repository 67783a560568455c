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
	"archive/zip"
	"os"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/solus-project/binman/config"
	"github.com/solus-project/binman/paths"
)

func metadataFor(binaryName string, release int, version string) string {
	return `<?xml version="1.0"?>
<PISI>
  <Source>
    <Name>` + binaryName + `</Name>
  </Source>
  <Package>
    <Name>` + binaryName + `</Name>
    <Summary>test fixture</Summary>
    <Description>test fixture</Description>
    <PartOf>system.utils</PartOf>
    <License>GPL-3.0-or-later</License>
    <Distribution>Solus</Distribution>
    <DistributionRelease>1</DistributionRelease>
    <Architecture>x86_64</Architecture>
    <History>
      <Update release="` + strconv.Itoa(release) + `"><Version>` + version + `</Version></Update>
    </History>
  </Package>
</PISI>`
}

func buildFixture(t *testing.T, dir, binaryName string, release int, version string) string {
	t.Helper()
	path := filepath.Join(dir, binaryName+"-"+version+"-"+strconv.Itoa(release)+"-1-x86_64.pkg")
	out, err := os.Create(path)
	if err != nil {
		t.Fatalf("setup failed: %s", err.Error())
	}
	defer out.Close()

	zw := zip.NewWriter(out)
	for name, contents := range map[string]string{
		"metadata.xml":   metadataFor(binaryName, release, version),
		"files.xml":      `<?xml version="1.0"?><Files></Files>`,
		"install.tar.xz": "fixture bytes, not a real tarball",
	} {
		f, err := zw.Create(name)
		if err != nil {
			t.Fatalf("setup failed: %s", err.Error())
		}
		if _, err := f.Write([]byte(contents)); err != nil {
			t.Fatalf("setup failed: %s", err.Error())
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("setup failed: %s", err.Error())
	}
	return path
}

func newTestEngine(t *testing.T) (*Engine, *config.Config) {
	t.Helper()
	dir := t.TempDir()
	cfg, err := config.New(filepath.Join(dir, "repo"), filepath.Join(dir, "incoming"), 2)
	if err != nil {
		t.Fatalf("config.New should not fail, found: %s", err.Error())
	}
	e, err := New(cfg)
	if err != nil {
		t.Fatalf("New should not fail, found: %s", err.Error())
	}
	return e, cfg
}

func TestCreateRepoAndIsRepo(t *testing.T) {
	e, _ := newTestEngine(t)
	defer e.Close()

	if e.IsRepo("stable") {
		t.Fatalf("stable should not exist yet")
	}
	if err := e.CreateRepo("stable"); err != nil {
		t.Fatalf("CreateRepo should not fail, found: %s", err.Error())
	}
	if !e.IsRepo("stable") {
		t.Errorf("stable should exist after CreateRepo")
	}
	if err := e.CreateRepo("stable"); err != ErrRepoExists {
		t.Errorf("CreateRepo should reject a duplicate repo, found: %v", err)
	}
}

func TestAddPackageAndReindex(t *testing.T) {
	e, _ := newTestEngine(t)
	defer e.Close()

	if err := e.CreateRepo("stable"); err != nil {
		t.Fatalf("CreateRepo failed: %s", err.Error())
	}

	fixtureDir := t.TempDir()
	pkgPath := buildFixture(t, fixtureDir, "nano", 1, "2.9.8")

	if err := e.AddPackage("stable", pkgPath); err != nil {
		t.Fatalf("AddPackage should not fail, found: %s", err.Error())
	}
	if err := e.RunEpilogue(); err != nil {
		t.Fatalf("RunEpilogue should not fail, found: %s", err.Error())
	}

	records, err := e.Records("stable", "nano")
	if err != nil {
		t.Fatalf("Records should not fail, found: %s", err.Error())
	}
	if len(records) != 1 {
		t.Fatalf("expected 1 record, found: %d", len(records))
	}

	indexPath := filepath.Join(paths.RepoDir(e.cfg, "stable"), "eopkg-index.xml")
	if _, err := os.Stat(indexPath); err != nil {
		t.Errorf("expected an index file at %s, found: %s", indexPath, err.Error())
	}
}

func TestAddPackageRejectsDuplicateTarget(t *testing.T) {
	e, _ := newTestEngine(t)
	defer e.Close()
	e.CreateRepo("stable")

	fixtureDir := t.TempDir()
	pkgPath := buildFixture(t, fixtureDir, "nano", 1, "2.9.8")

	if err := e.AddPackage("stable", pkgPath); err != nil {
		t.Fatalf("AddPackage should not fail, found: %s", err.Error())
	}
	if err := e.AddPackage("stable", pkgPath); err != ErrAddToExisting {
		t.Errorf("re-adding the same file should fail with ErrAddToExisting, found: %v", err)
	}
}

func TestRemovePackageReclaimsPool(t *testing.T) {
	e, _ := newTestEngine(t)
	defer e.Close()
	e.CreateRepo("stable")

	fixtureDir := t.TempDir()
	pkgPath := buildFixture(t, fixtureDir, "nano", 1, "2.9.8")
	e.AddPackage("stable", pkgPath)
	e.RunEpilogue()

	records, _ := e.Records("stable", "nano")
	filename := records[0].Filename
	if !e.pool.Has(filename) {
		t.Fatalf("pool should have %s after AddPackage", filename)
	}

	if err := e.RemovePackage("stable", records[0], false); err != nil {
		t.Fatalf("RemovePackage should not fail, found: %s", err.Error())
	}
	if e.pool.Has(filename) {
		t.Errorf("pool entry should be reclaimed once no repo references it")
	}
}

func TestTrimKeepsOnlyMaxVersions(t *testing.T) {
	e, cfg := newTestEngine(t)
	defer e.Close()
	_ = cfg
	e.CreateRepo("stable")

	fixtureDir := t.TempDir()
	for release, version := range map[int]string{1: "2.9.7", 2: "2.9.8", 3: "2.9.9"} {
		pkgPath := buildFixture(t, fixtureDir, "nano", release, version)
		if err := e.AddPackage("stable", pkgPath); err != nil {
			t.Fatalf("AddPackage failed: %s", err.Error())
		}
	}
	e.RunEpilogue()

	if err := e.Trim("stable"); err != nil {
		t.Fatalf("Trim should not fail, found: %s", err.Error())
	}
	records, _ := e.Records("stable", "nano")
	if len(records) != e.cfg.MaxVersions {
		t.Errorf("expected %d records after Trim, found: %d", e.cfg.MaxVersions, len(records))
	}
}

func TestCloneRequiresExistingSource(t *testing.T) {
	e, _ := newTestEngine(t)
	defer e.Close()
	if err := e.Clone("missing", "dst", false); err != ErrNoSuchRepo {
		t.Errorf("Clone should fail with ErrNoSuchRepo for a missing source, found: %v", err)
	}
}

func TestCloneCopiesNewestRelease(t *testing.T) {
	e, _ := newTestEngine(t)
	defer e.Close()
	e.CreateRepo("stable")

	fixtureDir := t.TempDir()
	for release, version := range map[int]string{1: "2.9.7", 2: "2.9.8"} {
		pkgPath := buildFixture(t, fixtureDir, "nano", release, version)
		e.AddPackage("stable", pkgPath)
	}
	e.RunEpilogue()

	if err := e.Clone("stable", "unstable", false); err != nil {
		t.Fatalf("Clone should not fail, found: %s", err.Error())
	}
	records, err := e.Records("unstable", "nano")
	if err != nil {
		t.Fatalf("Records should not fail, found: %s", err.Error())
	}
	if len(records) != 1 {
		t.Fatalf("Clone without --all should copy only the newest release, found: %d records", len(records))
	}
	if records[0].Release != 2 {
		t.Errorf("expected the newest release (2) to be cloned, found: %d", records[0].Release)
	}
}

func TestRemoveSourceUnknownName(t *testing.T) {
	e, _ := newTestEngine(t)
	defer e.Close()
	e.CreateRepo("stable")

	if err := e.RemoveSource("stable", []string{"ghost"}); err == nil {
		t.Errorf("RemoveSource should fail for an unknown source name")
	}
}
