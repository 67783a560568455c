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

// Package config provides the process-wide, init-once settings shared by
// every component of binman.
package config

import (
	"os"
	"path/filepath"
)

const (
	// DefaultMaxVersions is the number of releases Trim keeps per binary.
	DefaultMaxVersions = 3

	// DefaultBaseDir is the default repository storage root.
	DefaultBaseDir = "./repo"

	// DefaultIncomingBase is the default incoming-staging root.
	DefaultIncomingBase = "./incoming"

	// RepoMarkerName is the empty file whose presence defines "is a repo".
	RepoMarkerName = ".eopkg-repo"

	// PoolDirName is the shared content pool directory, relative to BaseDir.
	PoolDirName = "pool"

	// CatalogSuffix names the per-repo BoltDB catalog file.
	CatalogSuffix = ".catalog.db"

	// AssetsSuffix names the per-repo assets directory.
	AssetsSuffix = ".assets"

	// DeltaCacheDirName holds the per-repo failed-delta skip caches.
	DeltaCacheDirName = ".deltacache"
)

// Config carries the process-wide paths and policy values. It is resolved
// once at startup and never mutated afterwards.
type Config struct {
	BaseDir      string
	IncomingBase string
	MaxVersions  int
}

// New resolves baseDir and incomingBase to absolute paths and validates
// maxVersions, creating both directories if they do not exist yet.
func New(baseDir, incomingBase string, maxVersions int) (*Config, error) {
	if baseDir == "" {
		baseDir = DefaultBaseDir
	}
	if incomingBase == "" {
		incomingBase = DefaultIncomingBase
	}
	if maxVersions <= 0 {
		maxVersions = DefaultMaxVersions
	}

	absBase, err := filepath.Abs(baseDir)
	if err != nil {
		return nil, err
	}
	absIncoming, err := filepath.Abs(incomingBase)
	if err != nil {
		return nil, err
	}

	if err := os.MkdirAll(absBase, 0755); err != nil {
		return nil, err
	}
	if err := os.MkdirAll(absIncoming, 0755); err != nil {
		return nil, err
	}

	return &Config{
		BaseDir:      absBase,
		IncomingBase: absIncoming,
		MaxVersions:  maxVersions,
	}, nil
}

// SetUmask applies the 0o022 umask binman expects generated files to honor.
func SetUmask() {
	setUmask022()
}
