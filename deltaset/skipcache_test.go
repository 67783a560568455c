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

package deltaset

import "testing"

func TestSkipCacheMarkAndIsSkipped(t *testing.T) {
	dir := t.TempDir()
	c, err := OpenSkipCache(dir)
	if err != nil {
		t.Fatalf("OpenSkipCache should not fail, found: %s", err.Error())
	}
	defer c.Close()

	if c.IsSkipped("nano", 1, 2) {
		t.Fatalf("a fresh skip cache should report nothing as skipped")
	}
	if err := c.MarkSkipped("nano", 1, 2); err != nil {
		t.Fatalf("MarkSkipped should not fail, found: %s", err.Error())
	}
	if !c.IsSkipped("nano", 1, 2) {
		t.Errorf("IsSkipped should report true after MarkSkipped")
	}
	if c.IsSkipped("nano", 2, 3) {
		t.Errorf("IsSkipped should not report true for an unrelated triple")
	}
}

func TestSkipCacheReset(t *testing.T) {
	dir := t.TempDir()
	c, _ := OpenSkipCache(dir)
	defer c.Close()

	c.MarkSkipped("nano", 1, 2)
	if err := c.Reset(); err != nil {
		t.Fatalf("Reset should not fail, found: %s", err.Error())
	}
	if c.IsSkipped("nano", 1, 2) {
		t.Errorf("IsSkipped should report false after Reset")
	}
}
