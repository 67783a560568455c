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

package pkgkit

import (
	"archive/zip"
	"os"
	"path/filepath"
	"testing"
)

const sampleMetadata = `<?xml version="1.0"?>
<PISI>
  <Source>
    <Name>nano</Name>
    <Packager>
      <Name>Test Packager</Name>
      <Email>test@example.com</Email>
    </Packager>
  </Source>
  <Package>
    <Name>nano</Name>
    <Summary>A small editor</Summary>
    <Description>A small, friendly text editor</Description>
    <PartOf>system.utils</PartOf>
    <License>GPL-3.0-or-later</License>
    <Distribution>Solus</Distribution>
    <DistributionRelease>1</DistributionRelease>
    <Architecture>x86_64</Architecture>
    <History>
      <Update release="2">
        <Version>2.9.9</Version>
      </Update>
      <Update release="1">
        <Version>2.9.8</Version>
      </Update>
    </History>
  </Package>
</PISI>`

const sampleFiles = `<?xml version="1.0"?>
<Files>
  <File>
    <Path>usr/bin/nano</Path>
    <Hash>deadbeef</Hash>
  </File>
</Files>`

func writeZipEntry(w *zip.Writer, name, contents string) error {
	f, err := w.Create(name)
	if err != nil {
		return err
	}
	_, err = f.Write([]byte(contents))
	return err
}

func buildFixturePkg(t *testing.T, path string) {
	t.Helper()
	out, err := os.Create(path)
	if err != nil {
		t.Fatalf("setup failed: %s", err.Error())
	}
	defer out.Close()

	zw := zip.NewWriter(out)
	if err := writeZipEntry(zw, "metadata.xml", sampleMetadata); err != nil {
		t.Fatalf("setup failed: %s", err.Error())
	}
	if err := writeZipEntry(zw, "files.xml", sampleFiles); err != nil {
		t.Fatalf("setup failed: %s", err.Error())
	}
	if err := writeZipEntry(zw, "install.tar.xz", "not a real tarball, just fixture bytes"); err != nil {
		t.Fatalf("setup failed: %s", err.Error())
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("setup failed: %s", err.Error())
	}
}

func TestInspect(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nano-2.9.9-2-1-x86_64.pkg")
	buildFixturePkg(t, path)

	meta, err := Inspect(path)
	if err != nil {
		t.Fatalf("Inspect should not fail, found: %s", err.Error())
	}
	if meta.BinaryName != "nano" {
		t.Errorf("BinaryName mismatch, expected: nano, found: %s", meta.BinaryName)
	}
	if meta.SourceName != "nano" {
		t.Errorf("SourceName mismatch, expected: nano, found: %s", meta.SourceName)
	}
	if meta.Release != 2 {
		t.Errorf("Release mismatch, expected: 2, found: %d", meta.Release)
	}
	if meta.Version != "2.9.9" {
		t.Errorf("Version mismatch, expected: 2.9.9, found: %s", meta.Version)
	}
	if len(meta.History) != 2 {
		t.Fatalf("History length mismatch, expected: 2, found: %d", len(meta.History))
	}
	if meta.PackageHash == "" {
		t.Errorf("PackageHash should be populated")
	}
}

func TestPkgMetaFilename(t *testing.T) {
	meta := &PkgMeta{
		BinaryName:          "nano",
		Version:             "2.9.9",
		Release:             2,
		DistributionRelease: "1",
		Architecture:        "x86_64",
	}
	expected := "nano-2.9.9-2-1-x86_64.pkg"
	if meta.Filename() != expected {
		t.Errorf("Filename mismatch, expected: %s, found: %s", expected, meta.Filename())
	}
}

func TestInspectCorruptArchive(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bad.pkg")
	out, _ := os.Create(path)
	zw := zip.NewWriter(out)
	zw.Close()
	out.Close()

	if _, err := Inspect(path); err != ErrCorruptArchive {
		t.Errorf("Inspect should return ErrCorruptArchive for a pkg without metadata.xml, found: %v", err)
	}
}

func TestDistributionIsObsolete(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "distribution.xml")
	contents := `<?xml version="1.0"?><Distribution><Obsoletes><Package>old-nano</Package></Obsoletes></Distribution>`
	os.WriteFile(path, []byte(contents), 0644)

	dist, err := NewDistribution(path)
	if err != nil {
		t.Fatalf("NewDistribution should not fail, found: %s", err.Error())
	}
	if !dist.IsObsolete("old-nano") {
		t.Errorf("old-nano should be reported obsolete")
	}
	if dist.IsObsolete("nano") {
		t.Errorf("nano should not be reported obsolete")
	}
}

func TestDistributionIsObsoleteNil(t *testing.T) {
	var dist *Distribution
	if dist.IsObsolete("anything") {
		t.Errorf("a nil Distribution should never report a package as obsolete")
	}
}
