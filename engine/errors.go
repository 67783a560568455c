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

package engine

import "errors"

// Error kinds as named by the repository-engine design. Checked with
// errors.Is; CLI translates any non-nil return into a nonzero exit.
var (
	ErrNoSuchRepo     = errors.New("engine: no such repository")
	ErrRepoExists     = errors.New("engine: repository already exists")
	ErrCatalogCorrupt = errors.New("engine: catalog is corrupt")
	ErrCatalogWrite   = errors.New("engine: cannot persist catalog")
	ErrPoolIO         = errors.New("engine: pool I/O failure")
	ErrIncomingInvalid = errors.New("engine: invalid incoming entry")
	ErrAddToExisting  = errors.New("engine: target path already occupied")
	ErrUnknownSource  = errors.New("engine: unknown source name")
)
