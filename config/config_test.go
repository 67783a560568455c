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

package config

import (
	"path/filepath"
	"testing"
)

func TestNewDefaults(t *testing.T) {
	dir := t.TempDir()
	cfg, err := New(filepath.Join(dir, "repo"), filepath.Join(dir, "incoming"), 0)
	if err != nil {
		t.Fatalf("New should not fail, found: %s", err.Error())
	}
	if cfg.MaxVersions != DefaultMaxVersions {
		t.Errorf("MaxVersions mismatch, expected: %d, found: %d", DefaultMaxVersions, cfg.MaxVersions)
	}
	if !filepath.IsAbs(cfg.BaseDir) {
		t.Errorf("BaseDir should be absolute, found: %s", cfg.BaseDir)
	}
	if !filepath.IsAbs(cfg.IncomingBase) {
		t.Errorf("IncomingBase should be absolute, found: %s", cfg.IncomingBase)
	}
}

func TestNewCreatesDirectories(t *testing.T) {
	dir := t.TempDir()
	base := filepath.Join(dir, "repo")
	incoming := filepath.Join(dir, "incoming")
	if _, err := New(base, incoming, 5); err != nil {
		t.Fatalf("New should not fail, found: %s", err.Error())
	}
	if _, err := filepath.Glob(base); err != nil {
		t.Fatalf("Glob should not fail, found: %s", err.Error())
	}
}

func TestNewMaxVersions(t *testing.T) {
	dir := t.TempDir()
	cfg, err := New(filepath.Join(dir, "repo"), filepath.Join(dir, "incoming"), 7)
	if err != nil {
		t.Fatalf("New should not fail, found: %s", err.Error())
	}
	if cfg.MaxVersions != 7 {
		t.Errorf("MaxVersions mismatch, expected: 7, found: %d", cfg.MaxVersions)
	}
}
