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
	"crypto/sha1"
	"encoding/hex"
	"encoding/xml"
	"errors"
	"io"
	"os"
)

// ErrCorruptArchive is returned when a .pkg file does not conform to the
// expected zip-with-metadata.xml layout.
var ErrCorruptArchive = errors.New("pkg file is corrupted or invalid")

// Package grants access to a single .pkg archive. Like eopkg, a .pkg file is
// a plain zip archive containing at minimum metadata.xml, files.xml and
// install.tar.xz.
type Package struct {
	Path string

	zipFile *zip.ReadCloser
	meta    *xmlMetadata
}

// Open opens path as a .pkg archive without yet reading its contents.
func Open(path string) (*Package, error) {
	zf, err := zip.OpenReader(path)
	if err != nil {
		return nil, err
	}
	return &Package{Path: path, zipFile: zf}, nil
}

// Close releases the underlying zip reader.
func (p *Package) Close() error {
	return p.zipFile.Close()
}

// findFile returns the named zip entry, or nil if absent.
func (p *Package) findFile(name string) *zip.File {
	for _, f := range p.zipFile.File {
		if f.Name == name {
			return f
		}
	}
	return nil
}

// readMetadata parses metadata.xml out of the archive.
func (p *Package) readMetadata() (*xmlMetadata, error) {
	if p.meta != nil {
		return p.meta, nil
	}
	zf := p.findFile("metadata.xml")
	if zf == nil {
		return nil, ErrCorruptArchive
	}
	rc, err := zf.Open()
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	meta := &xmlMetadata{}
	if err := xml.NewDecoder(rc).Decode(meta); err != nil {
		return nil, err
	}
	p.meta = meta
	return meta, nil
}

// sha1sum hashes the archive file itself, used to populate PackageHash.
func sha1sum(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()
	h := sha1.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", err
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

// Inspect is binman's concrete PkgToolkit.Inspect: open path, read its
// metadata.xml, and flatten it into a PkgMeta. Release is taken from the
// newest (first) History entry, matching eopkg convention.
func Inspect(path string) (*PkgMeta, error) {
	pkg, err := Open(path)
	if err != nil {
		return nil, err
	}
	defer pkg.Close()

	xm, err := pkg.readMetadata()
	if err != nil {
		return nil, err
	}
	if len(xm.Package.History) == 0 {
		return nil, errors.New("pkgkit: metadata.xml has no History entries")
	}

	hist := make([]HistoryEntry, len(xm.Package.History))
	for i, u := range xm.Package.History {
		hist[i] = HistoryEntry{Release: u.Release, Version: u.Version}
	}

	st, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	hash, err := sha1sum(path)
	if err != nil {
		return nil, err
	}

	return &PkgMeta{
		BinaryName:          xm.Package.Name,
		SourceName:          xm.Source.Name,
		Version:             hist[0].Version,
		Release:             hist[0].Release,
		DistributionRelease: xm.Package.DistributionRelease,
		Architecture:        xm.Package.Architecture,
		History:             hist,
		PackageSize:         st.Size(),
		PackageHash:         hash,
	}, nil
}
