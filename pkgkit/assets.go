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
	"encoding/xml"
	"os"
)

// Distribution carries the repository-wide Obsoletes set, loaded from the
// repo's distribution.xml asset if present.
type Distribution struct {
	SourceName string
	Version    string
	Type       string
	BinaryName string

	Obsoletes []string `xml:"Obsoletes>Package"`
}

// NewDistribution loads Distribution data from xmlfile.
func NewDistribution(xmlfile string) (*Distribution, error) {
	fi, err := os.Open(xmlfile)
	if err != nil {
		return nil, err
	}
	defer fi.Close()
	dist := &Distribution{}
	if err := xml.NewDecoder(fi).Decode(dist); err != nil {
		return nil, err
	}
	return dist, nil
}

// IsObsolete reports whether name is listed in the distribution's Obsoletes.
func (d *Distribution) IsObsolete(name string) bool {
	if d == nil {
		return false
	}
	for _, o := range d.Obsoletes {
		if o == name {
			return true
		}
	}
	return false
}

// Components mirrors components.xml, merged verbatim into the generated
// index.
type Components struct {
	XMLName    xml.Name `xml:"Components"`
	InnerXML   string   `xml:",innerxml"`
}

// NewComponents loads the raw components.xml body so it can be spliced into
// the generated index without needing to model every field.
func NewComponents(xmlfile string) (*Components, error) {
	fi, err := os.Open(xmlfile)
	if err != nil {
		return nil, err
	}
	defer fi.Close()
	c := &Components{}
	if err := xml.NewDecoder(fi).Decode(c); err != nil {
		return nil, err
	}
	return c, nil
}

// Groups mirrors groups.xml, merged verbatim into the generated index.
type Groups struct {
	XMLName  xml.Name `xml:"Groups"`
	InnerXML string   `xml:",innerxml"`
}

// NewGroups loads the raw groups.xml body.
func NewGroups(xmlfile string) (*Groups, error) {
	fi, err := os.Open(xmlfile)
	if err != nil {
		return nil, err
	}
	defer fi.Close()
	g := &Groups{}
	if err := xml.NewDecoder(fi).Decode(g); err != nil {
		return nil, err
	}
	return g, nil
}
