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

import "encoding/xml"

// pkgFile is the idiomatic representation of an XML <File> node in
// files.xml. A missing Hash marks a directory entry.
type pkgFile struct {
	Path string `xml:"Path"`
	Hash string `xml:"Hash,omitempty"`
}

// pkgFiles is the <Files> root node of files.xml.
type pkgFiles struct {
	XMLName xml.Name  `xml:"Files"`
	File    []pkgFile `xml:"File"`
}

// readFiles parses files.xml out of the archive.
func (p *Package) readFiles() (*pkgFiles, error) {
	zf := p.findFile("files.xml")
	if zf == nil {
		return nil, ErrCorruptArchive
	}
	rc, err := zf.Open()
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	files := &pkgFiles{}
	if err := xml.NewDecoder(rc).Decode(files); err != nil {
		return nil, err
	}
	return files, nil
}
