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
	"archive/tar"
	"archive/zip"
	"errors"
	"io"
	"io/ioutil"
	"os"
	"strings"

	"github.com/solus-project/xzed"
)

// ErrMismatchedDelta is returned when the input packages should never be
// delta'd, i.e. they describe unrelated binaries or releases.
var ErrMismatchedDelta = errors.New("pkgkit: delta is not possible between these packages")

// deltaProducer builds a delta .pkg entirely in Go: it hash-diffs the old
// and new packages' file manifests and repacks only the changed install
// payload, avoiding any dependency on a host-side packaging tool.
type deltaProducer struct {
	old, new *Package
	oldMeta  *xmlMetadata
	newMeta  *xmlMetadata
	diffMap  map[string]bool
}

func newDeltaProducer(oldPath, newPath string) (*deltaProducer, error) {
	old, err := Open(oldPath)
	if err != nil {
		return nil, err
	}
	new, err := Open(newPath)
	if err != nil {
		old.Close()
		return nil, err
	}
	d := &deltaProducer{old: old, new: new, diffMap: make(map[string]bool)}

	d.oldMeta, err = old.readMetadata()
	if err != nil {
		d.Close()
		return nil, err
	}
	d.newMeta, err = new.readMetadata()
	if err != nil {
		d.Close()
		return nil, err
	}
	if !isDeltaPossible(d.oldMeta, d.newMeta) {
		d.Close()
		return nil, ErrMismatchedDelta
	}
	return d, nil
}

func (d *deltaProducer) Close() {
	if d.old != nil {
		d.old.Close()
		d.old = nil
	}
	if d.new != nil {
		d.new.Close()
		d.new = nil
	}
}

func isDeltaPossible(oldMeta, newMeta *xmlMetadata) bool {
	if len(oldMeta.Package.History) == 0 || len(newMeta.Package.History) == 0 {
		return false
	}
	return oldMeta.Package.History[0].Release < newMeta.Package.History[0].Release &&
		oldMeta.Package.Name == newMeta.Package.Name &&
		oldMeta.Package.DistributionRelease == newMeta.Package.DistributionRelease &&
		oldMeta.Package.Architecture == newMeta.Package.Architecture
}

func filesToHashSet(files *pkgFiles) map[string]bool {
	set := make(map[string]bool)
	for _, f := range files.File {
		if f.Hash != "" {
			set[f.Hash] = true
		}
	}
	return set
}

// buildInstallPartial writes a tar.xz containing only the entries from the
// new package's install.tar.xz whose content hash is absent from the old
// package, returning the temp file path.
func (d *deltaProducer) buildInstallPartial() (string, error) {
	oldFiles, err := d.old.readFiles()
	if err != nil {
		return "", err
	}
	newFiles, err := d.new.readFiles()
	if err != nil {
		return "", err
	}
	oldHashes := filesToHashSet(oldFiles)

	changed := make(map[string]bool)
	for _, f := range newFiles.File {
		if f.Hash == "" {
			continue // directory entry, always carried implicitly
		}
		if !oldHashes[f.Hash] {
			changed[f.Path] = true
		}
	}

	newInstall := d.new.findFile("install.tar.xz")
	if newInstall == nil {
		return "", ErrCorruptArchive
	}
	rc, err := newInstall.Open()
	if err != nil {
		return "", err
	}
	defer rc.Close()
	xzr, err := xzed.NewReader(rc)
	if err != nil {
		return "", err
	}
	tr := tar.NewReader(xzr)

	out, err := ioutil.TempFile("", "binman-delta-install")
	if err != nil {
		return "", err
	}
	path := out.Name()
	xzw, err := xzed.NewWriter(out)
	if err != nil {
		out.Close()
		return path, err
	}
	tw := tar.NewWriter(xzw)

	for {
		hdr, err := tr.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			tw.Close()
			xzw.Close()
			out.Close()
			return path, err
		}
		if !changed[hdr.Name] {
			continue
		}
		if err := tw.WriteHeader(hdr); err != nil {
			tw.Close()
			xzw.Close()
			out.Close()
			return path, err
		}
		if hdr.Typeflag == tar.TypeReg {
			if _, err := io.Copy(tw, tr); err != nil {
				tw.Close()
				xzw.Close()
				out.Close()
				return path, err
			}
		}
	}
	tw.Close()
	xzw.Close()
	out.Close()
	return path, nil
}

// copyZipExceptInstall copies every entry of the new package except
// install.tar.xz into zw, then pushes installPath in as install.tar.xz.
func (d *deltaProducer) copyZipExceptInstall(zw *zip.Writer, installPath string) error {
	for _, zf := range d.new.zipFile.File {
		if strings.HasPrefix(zf.Name, "install.tar") {
			continue
		}
		rc, err := zf.Open()
		if err != nil {
			return err
		}
		hdr := zf.FileHeader
		w, err := zw.CreateHeader(&hdr)
		if err != nil {
			rc.Close()
			return err
		}
		if _, err := io.Copy(w, rc); err != nil {
			rc.Close()
			return err
		}
		rc.Close()
	}

	f, err := os.Open(installPath)
	if err != nil {
		return err
	}
	defer f.Close()
	st, err := f.Stat()
	if err != nil {
		return err
	}
	fh, err := zip.FileInfoHeader(st)
	if err != nil {
		return err
	}
	fh.Name = "install.tar.xz"
	w, err := zw.CreateHeader(fh)
	if err != nil {
		return err
	}
	_, err = io.Copy(w, f)
	return err
}

// commit produces the delta zip archive in temporary storage and returns its
// path; the caller is responsible for moving it into place.
func (d *deltaProducer) commit() (outPath string, errOut error) {
	installPath, err := d.buildInstallPartial()
	defer func() {
		if installPath != "" {
			os.Remove(installPath)
		}
	}()
	if err != nil {
		return "", err
	}

	out, err := ioutil.TempFile("", "binman-delta-pkg")
	if err != nil {
		return "", err
	}
	path := out.Name()
	defer func() {
		if errOut != nil {
			os.Remove(path)
		}
	}()

	zw := zip.NewWriter(out)
	if err := d.copyZipExceptInstall(zw, installPath); err != nil {
		zw.Close()
		out.Close()
		return "", err
	}
	if err := zw.Close(); err != nil {
		out.Close()
		return "", err
	}
	if err := out.Close(); err != nil {
		return "", err
	}
	return path, nil
}

// DeltaBuilder is binman's concrete DeltaBuilder.Create collaborator: given
// the paths of two releases of the same binary, it produces the artifact(s)
// needed for a delta upgrade and places them, already named, into destDir.
// It returns the list of artifact paths it created (normally exactly one),
// or an empty slice with a nil error if a delta genuinely is not possible
// between these two releases (e.g. mismatched architecture) — a best-effort
// operation per spec's DeltaBuildFailed policy.
type DeltaBuilder struct{}

// Create builds a delta package between oldPath and newPath, writing the
// result as destFilename inside destDir.
func (DeltaBuilder) Create(oldPath, newPath, destDir, destFilename string) ([]string, error) {
	d, err := newDeltaProducer(oldPath, newPath)
	if err != nil {
		if err == ErrMismatchedDelta {
			return nil, nil
		}
		return nil, err
	}
	defer d.Close()

	tmpPath, err := d.commit()
	if err != nil {
		return nil, err
	}
	defer os.Remove(tmpPath)

	destPath := destDir + string(os.PathSeparator) + destFilename
	if err := os.Rename(tmpPath, destPath); err != nil {
		// Cross-device rename: fall back to copy.
		if cerr := copyFile(tmpPath, destPath); cerr != nil {
			return nil, cerr
		}
	}
	return []string{destPath}, nil
}
