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
	"crypto/sha1"
	"encoding/hex"
	"encoding/xml"
	"fmt"
	"io"
	"io/ioutil"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/solus-project/xzed"
)

// WriteIndexOptions configures WriteIndex.
type WriteIndexOptions struct {
	// SkipSources omits source-package bookkeeping from the index (binman
	// never tracks sources separately, so this is always true in practice).
	SkipSources bool
	// SkipSigning disables a detached signature pass (binman never signs).
	SkipSigning bool
	// Compress enables the .xz sidecar. Always true for binman.
	Compress bool
}

// indexPackage is the flattened entry emitted per binary package.
type indexPackage struct {
	XMLName xml.Name `xml:"Package"`
	Name    string   `xml:"Name"`
	Source  struct {
		Name string `xml:"Name"`
	} `xml:"Source"`
	Version             string `xml:"Version"`
	Release             int    `xml:"Release"`
	DistributionRelease string `xml:"DistributionRelease"`
	Architecture        string `xml:"Architecture"`
	PackageURI          string `xml:"PackageURI"`
	PackageSize         int64  `xml:"PackageSize"`
	PackageHash         string `xml:"PackageHash"`
}

// listPackageFiles walks dir for .pkg files that are neither delta artifacts
// nor the index itself.
func listPackageFiles(dir string) ([]string, error) {
	var out []string
	err := filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			return nil
		}
		name := info.Name()
		if !strings.HasSuffix(name, ".pkg") {
			return nil
		}
		if strings.HasSuffix(name, ".delta.pkg") {
			return nil
		}
		out = append(out, path)
		return nil
	})
	return out, err
}

// WriteIndex is binman's concrete PkgToolkit.WriteIndex: walk repoDir for
// package files, inspect each, and emit eopkg-index.xml plus its compressed
// and sha1sum sidecars, all via the atomic write-to-.new-then-rename
// pattern.
func WriteIndex(repoDir string, opts WriteIndexOptions) (errOut error) {
	var outPaths, finalPaths []string
	defer func() {
		if errOut != nil {
			for _, p := range outPaths {
				os.Remove(p)
			}
		}
	}()

	pkgFiles, err := listPackageFiles(repoDir)
	if err != nil {
		return err
	}
	sort.Strings(pkgFiles)

	var dist *Distribution
	distPath := filepath.Join(repoDir, "distribution.xml")
	if _, err := os.Stat(distPath); err == nil {
		dist, err = NewDistribution(distPath)
		if err != nil {
			return err
		}
	}

	indexPath := filepath.Join(repoDir, "eopkg-index.xml.new")
	indexFinal := filepath.Join(repoDir, "eopkg-index.xml")
	outPaths = append(outPaths, indexPath)
	finalPaths = append(finalPaths, indexFinal)

	f, err := os.Create(indexPath)
	if err != nil {
		return err
	}

	enc := xml.NewEncoder(f)
	if err := enc.EncodeToken(xml.StartElement{Name: xml.Name{Local: "PISI"}}); err != nil {
		f.Close()
		return err
	}

	for _, path := range pkgFiles {
		rel, err := filepath.Rel(repoDir, path)
		if err != nil {
			f.Close()
			return err
		}
		meta, err := Inspect(path)
		if err != nil {
			f.Close()
			return err
		}
		if dist.IsObsolete(meta.BinaryName) {
			continue
		}
		ip := indexPackage{
			Name:                meta.BinaryName,
			Version:             meta.Version,
			Release:             meta.Release,
			DistributionRelease: meta.DistributionRelease,
			Architecture:        meta.Architecture,
			PackageURI:          filepath.ToSlash(rel),
			PackageSize:         meta.PackageSize,
			PackageHash:         meta.PackageHash,
		}
		ip.Source.Name = meta.SourceName
		if err := enc.Encode(ip); err != nil {
			f.Close()
			return err
		}
	}

	if err := enc.EncodeToken(xml.EndElement{Name: xml.Name{Local: "PISI"}}); err != nil {
		f.Close()
		return err
	}
	if err := enc.Flush(); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}

	if err := writeSidecars(indexPath, indexFinal, opts.Compress, &outPaths, &finalPaths); err != nil {
		return err
	}

	for i, src := range outPaths {
		if err := atomicRename(src, finalPaths[i]); err != nil {
			return err
		}
	}
	return nil
}

// writeSidecars produces the .sha1sum sibling of an already-written index
// file and, when compress is set, its .xz and .xz.sha1sum siblings,
// appending their .new source paths and final destination paths to
// outPaths/finalPaths for the caller's atomic-rename pass.
func writeSidecars(indexPath, indexFinal string, compress bool, outPaths, finalPaths *[]string) error {
	shaPath := indexPath + ".sha1sum"
	shaFinal := indexFinal + ".sha1sum"
	if err := writeSha1sum(indexPath, shaPath); err != nil {
		return err
	}
	*outPaths = append(*outPaths, shaPath)
	*finalPaths = append(*finalPaths, shaFinal)
	if !compress {
		return nil
	}

	xzPath := indexPath + ".xz"
	xzFinal := indexFinal + ".xz"
	if err := writeXz(indexPath, xzPath); err != nil {
		return err
	}
	*outPaths = append(*outPaths, xzPath)
	*finalPaths = append(*finalPaths, xzFinal)

	xzShaPath := xzPath + ".sha1sum"
	xzShaFinal := xzFinal + ".sha1sum"
	if err := writeSha1sum(xzPath, xzShaPath); err != nil {
		return err
	}
	*outPaths = append(*outPaths, xzShaPath)
	*finalPaths = append(*finalPaths, xzShaFinal)
	return nil
}

func writeSha1sum(inPath, outPath string) error {
	f, err := os.Open(inPath)
	if err != nil {
		return err
	}
	defer f.Close()
	h := sha1.New()
	if _, err := io.Copy(h, f); err != nil {
		return err
	}
	return ioutil.WriteFile(outPath, []byte(hex.EncodeToString(h.Sum(nil))), 0644)
}

func writeXz(inPath, outPath string) error {
	in, err := os.Open(inPath)
	if err != nil {
		return err
	}
	defer in.Close()
	out, err := os.Create(outPath)
	if err != nil {
		return err
	}
	defer out.Close()
	xw, err := xzed.NewWriter(out)
	if err != nil {
		return err
	}
	defer xw.Close()
	if _, err := io.Copy(xw, in); err != nil {
		return err
	}
	return nil
}

// atomicRename unlinks any pre-existing newPath so readers never observe a
// half-written index file.
func atomicRename(origPath, newPath string) error {
	if st, err := os.Stat(newPath); err == nil && st.Mode().IsRegular() {
		if err := os.Remove(newPath); err != nil {
			return err
		}
	}
	return os.Rename(origPath, newPath)
}

// CopyAssets copies the three known asset files from assetsDir over any
// same-named files in repoDir. Missing assets are fine; copy errors are
// collected and returned joined, but each attempted independently.
func CopyAssets(assetsDir, repoDir string) error {
	names := []string{"components.xml", "distribution.xml", "groups.xml"}
	var errs []string
	for _, name := range names {
		src := filepath.Join(assetsDir, name)
		if _, err := os.Stat(src); err != nil {
			continue
		}
		dst := filepath.Join(repoDir, name)
		if err := copyFile(src, dst); err != nil {
			errs = append(errs, fmt.Sprintf("%s: %v", name, err))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("asset copy failed: %s", strings.Join(errs, "; "))
	}
	return nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()
	st, err := in.Stat()
	if err != nil {
		return err
	}
	out, err := os.OpenFile(dst, os.O_TRUNC|os.O_CREATE|os.O_WRONLY, st.Mode())
	if err != nil {
		return err
	}
	defer out.Close()
	_, err = io.Copy(out, in)
	return err
}
