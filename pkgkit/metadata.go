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

// Package pkgkit is binman's concrete PkgToolkit: inspecting .pkg archives,
// writing repository indexes, and building delta packages. It is the
// Go-native replacement for shelling out to a host-side packaging tool.
package pkgkit

import "fmt"

// HistoryEntry records one prior release of a binary package. History[0] is
// always the newest and matches the owning PkgMeta's Release.
type HistoryEntry struct {
	Release int
	Version string
}

// PkgMeta is the metadata Inspect extracts from a .pkg archive. It is kept
// deliberately flat: just what RepoPackage needs to compute delta names and
// display versions, not the full metadata.xml graph.
type PkgMeta struct {
	BinaryName          string
	SourceName          string
	Version             string
	Release             int
	DistributionRelease string
	Architecture        string
	History             []HistoryEntry

	PackageSize int64
	PackageHash string
}

// Filename returns the canonical basename for this metadata, matching the
// convention `<binary>-<version>-<release>-<distRelease>-<arch>.pkg`.
func (m *PkgMeta) Filename() string {
	return fmt.Sprintf("%s-%s-%d-%s-%s.pkg",
		m.BinaryName, m.Version, m.Release, m.DistributionRelease, m.Architecture)
}

// xmlMetadata mirrors the subset of metadata.xml this module reads.
type xmlMetadata struct {
	Source  xmlSource
	Package xmlPackage `xml:"Package"`
}

type xmlSource struct {
	Name     string
	Packager struct {
		Name  string
		Email string
	}
}

type xmlDependency struct {
	Name string `xml:",chardata"`
}

type xmlUpdate struct {
	Release int    `xml:"release,attr"`
	Version string
}

type xmlPackage struct {
	Name                string
	Summary             string
	Description         string
	RuntimeDependencies []xmlDependency `xml:"RuntimeDependencies>Dependency"`
	PartOf              string
	License             []string
	History             []xmlUpdate `xml:"History>Update"`

	BuildHost          string
	Distribution       string
	DistributionRelease string
	Architecture       string
	InstalledSize      int64
	PackageFormat      string
}
