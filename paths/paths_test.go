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

package paths

import "testing"

func TestShardForLib(t *testing.T) {
	got := ShardFor("libjpeg-turbo")
	if got != "libj" {
		t.Errorf("ShardFor mismatch, expected: libj, found: %s", got)
	}
}

func TestShardForLibExact(t *testing.T) {
	got := ShardFor("lib")
	if got != "l" {
		t.Errorf("ShardFor mismatch, expected: l, found: %s", got)
	}
}

func TestShardForPlain(t *testing.T) {
	got := ShardFor("nano")
	if got != "n" {
		t.Errorf("ShardFor mismatch, expected: n, found: %s", got)
	}
}

func TestShardForUppercase(t *testing.T) {
	// Case-sensitive, matching binman.py's startswith("lib"): an uppercase
	// leading letter is its own shard rather than being folded to lowercase.
	got := ShardFor("Nano")
	if got != "N" {
		t.Errorf("ShardFor mismatch, expected: N, found: %s", got)
	}
}

func TestShardForLibUppercase(t *testing.T) {
	// "Lib..." does not match the lowercase "lib" prefix, so it falls back
	// to the single-character rule rather than the lib-shard rule.
	got := ShardFor("LibreOffice")
	if got != "L" {
		t.Errorf("ShardFor mismatch, expected: L, found: %s", got)
	}
}
