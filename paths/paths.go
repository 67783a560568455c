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

// Package paths provides pure path algebra over a config.Config for the
// repo/pool/incoming/assets layout. No function in this package touches
// disk.
package paths

import (
	"path/filepath"
	"strings"

	"github.com/solus-project/binman/config"
)

// RepoDir returns the root directory of repository name.
func RepoDir(cfg *config.Config, name string) string {
	return filepath.Join(cfg.BaseDir, name)
}

// RepoMarker returns the path to the repo's marker file.
func RepoMarker(cfg *config.Config, name string) string {
	return filepath.Join(RepoDir(cfg, name), config.RepoMarkerName)
}

// CatalogFile returns the path to the repo's persisted BoltDB catalog.
func CatalogFile(cfg *config.Config, name string) string {
	return filepath.Join(cfg.BaseDir, name+config.CatalogSuffix)
}

// AssetsDir returns the path to the repo's asset-file directory.
func AssetsDir(cfg *config.Config, name string) string {
	return filepath.Join(cfg.BaseDir, name+config.AssetsSuffix)
}

// IncomingDir returns the per-repo incoming staging directory.
func IncomingDir(cfg *config.Config, name string) string {
	return filepath.Join(cfg.IncomingBase, name)
}

// PoolDir returns the shared content pool directory.
func PoolDir(cfg *config.Config) string {
	return filepath.Join(cfg.BaseDir, config.PoolDirName)
}

// PoolEntry returns the path of filename within the pool.
func PoolEntry(cfg *config.Config, filename string) string {
	return filepath.Join(PoolDir(cfg), filename)
}

// DeltaCacheDir returns the goleveldb skip-cache directory for repo name.
func DeltaCacheDir(cfg *config.Config, name string) string {
	return filepath.Join(cfg.BaseDir, config.DeltaCacheDirName, name)
}

// ShardFor implements the I4 shard rule: "lib<first 4 chars>" if sourceName
// starts with "lib", else the source's first character. Case-sensitive,
// matching binman.py's _get_repo_target (dirn.startswith("lib")) and the
// catalog's verbatim, uncased SourceName.
func ShardFor(sourceName string) string {
	if strings.HasPrefix(sourceName, "lib") && len(sourceName) > 3 {
		return sourceName[:4]
	}
	return sourceName[0:1]
}

// SourceDir returns the per-source directory a package's file lives under,
// e.g. <repo>/libj/libjpeg-turbo. sourceName keeps its catalogued case, so
// two differently-cased sources land in distinct directories.
func SourceDir(cfg *config.Config, repo, sourceName string) string {
	return filepath.Join(RepoDir(cfg, repo), ShardFor(sourceName), sourceName)
}

// TargetPath returns the final resting path for filename belonging to
// sourceName within repo.
func TargetPath(cfg *config.Config, repo, sourceName, filename string) string {
	return filepath.Join(SourceDir(cfg, repo, sourceName), filename)
}

// IndexPath returns the path of the generated repo index document.
func IndexPath(cfg *config.Config, repo string) string {
	return filepath.Join(RepoDir(cfg, repo), "eopkg-index.xml")
}
