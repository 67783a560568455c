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

// Package watch implements IncomingWatcher: it serializes a stream of
// filesystem events on a repository's incoming directory into atomic
// RepoEngine.AddPackage calls, without losing events or double-processing.
package watch

import (
	"path/filepath"
	"strings"
	"sync"

	"github.com/radu-munteanu/fsnotify"
	log "github.com/sirupsen/logrus"

	"github.com/solus-project/binman/deltaset"
	"github.com/solus-project/binman/engine"
	"github.com/solus-project/binman/paths"
)

// Watcher watches one repository's incoming directory and drains it into
// the engine as files are closed after being written.
type Watcher struct {
	repo string
	eng  *engine.Engine
	fsw  *fsnotify.Watcher

	mu      sync.Mutex
	pending []string
	busy    bool

	stop chan struct{}
	done chan struct{}
}

// New subscribes to repo's incoming directory. repo must already be a
// known repository with an existing incoming directory.
func New(eng *engine.Engine, repo string) (*Watcher, error) {
	if !eng.IsRepo(repo) {
		return nil, engine.ErrNoSuchRepo
	}
	dir := paths.IncomingDir(eng.Config(), repo)

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := fsw.Add(dir); err != nil {
		fsw.Close()
		return nil, err
	}

	return &Watcher{
		repo: repo,
		eng:  eng,
		fsw:  fsw,
		stop: make(chan struct{}),
		done: make(chan struct{}),
	}, nil
}

// Run blocks, dispatching CloseWrite events until Stop is called.
func (w *Watcher) Run() {
	defer close(w.done)
	for {
		select {
		case ev := <-w.fsw.Events:
			if ev.Op&fsnotify.Close == fsnotify.Close {
				w.onClose(ev.Name)
			}
		case <-w.stop:
			return
		}
	}
}

// Stop terminates Run and waits for it to return.
func (w *Watcher) Stop() {
	close(w.stop)
	<-w.done
	w.fsw.Close()
}

// onClose filters and enqueues a freshly-closed incoming file, then drains
// if the watcher isn't already busy. The busy flag is sufficient because
// fsnotify delivers events sequentially on this one goroutine: enqueue and
// dequeue never race.
func (w *Watcher) onClose(path string) {
	name := filepath.Base(path)
	if !strings.HasSuffix(name, ".pkg") {
		return
	}
	if strings.HasSuffix(name, deltaset.Suffix) {
		return
	}
	if w.eng.HasFilename(w.repo, name) {
		return
	}

	w.mu.Lock()
	for _, p := range w.pending {
		if p == name {
			w.mu.Unlock()
			return
		}
	}
	w.pending = append(w.pending, name)
	alreadyBusy := w.busy
	w.mu.Unlock()

	if !alreadyBusy {
		w.drain()
	}
}

// drain ingests every currently pending entry, retrying until the queue
// stays empty (new events may arrive while draining, appended by the same
// goroutine that is draining, so no lock is needed across the loop body
// beyond protecting the slice itself).
func (w *Watcher) drain() {
	w.mu.Lock()
	w.busy = true
	w.mu.Unlock()

	defer func() {
		w.mu.Lock()
		w.busy = false
		w.mu.Unlock()
	}()

	dir := paths.IncomingDir(w.eng.Config(), w.repo)
	w.eng.SetProcessMode(true)
	defer w.eng.SetProcessMode(false)

	for {
		w.mu.Lock()
		batch := w.pending
		w.pending = nil
		w.mu.Unlock()

		if len(batch) == 0 {
			break
		}

		for _, name := range batch {
			full := filepath.Join(dir, name)
			if err := w.eng.AddPackage(w.repo, full); err != nil {
				log.WithFields(log.Fields{
					"repo": w.repo, "file": name, "err": err,
				}).Error("watch: ingest failed, aborting drain")
				if perr := w.eng.PersistCatalog(w.repo); perr != nil {
					log.WithFields(log.Fields{"repo": w.repo, "err": perr}).Error("watch: catalog persist failed during abort")
				}
				return
			}
			removeQuiet(full)
		}
	}

	if err := w.eng.RunEpilogue(); err != nil {
		log.WithFields(log.Fields{"repo": w.repo, "err": err}).Error("watch: epilogue failed")
	}
}

func removeQuiet(path string) {
	if err := removeFile(path); err != nil {
		log.WithFields(log.Fields{"path": path, "err": err}).Warning("watch: could not unlink ingested file")
	}
}
