package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/simgraph/simgraph/pkg/graph"
)

// watchDebounce coalesces the write bursts editors and pipelines produce
// when replacing a snapshot file.
const watchDebounce = 100 * time.Millisecond

// FileProvider serves a dataset snapshot from a JSON file on disk, the
// format the upstream projection pipeline writes. Parameter filtering
// (cluster, top-K, edges) happens client-side since the snapshot is static.
//
// Watch makes the provider hot: when the pipeline rewrites the snapshot,
// the registered callback fires and the host reloads.
type FileProvider struct {
	path string

	watcher *fsnotify.Watcher
	done    chan struct{}
}

// NewFileProvider creates a provider for the given snapshot path.
func NewFileProvider(path string) *FileProvider {
	return &FileProvider{path: path}
}

// LoadGraph reads and validates the snapshot, then applies the parameters.
func (p *FileProvider) LoadGraph(ctx context.Context, params Params) (*graph.Dataset, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	raw, err := os.ReadFile(p.path)
	if err != nil {
		return nil, fmt.Errorf("read dataset snapshot: %w", err)
	}

	var ds graph.Dataset
	if err := json.Unmarshal(raw, &ds); err != nil {
		return nil, fmt.Errorf("decode dataset snapshot %s: %w", p.path, err)
	}
	graph.Ingest(&ds)
	return applyParams(&ds, params), nil
}

// Regenerate is unsupported: a snapshot file has no pipeline behind it.
func (p *FileProvider) Regenerate(ctx context.Context, params Params) (Task, error) {
	return Task{}, ErrNoCommandChannel
}

// Watch starts watching the snapshot's directory and invokes onChange
// (debounced) whenever the snapshot is rewritten. Watching the directory
// rather than the file survives the rename-over-replace most pipelines do.
func (p *FileProvider) Watch(onChange func()) error {
	if p.watcher != nil {
		return nil
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create snapshot watcher: %w", err)
	}
	if err := watcher.Add(filepath.Dir(p.path)); err != nil {
		watcher.Close()
		return fmt.Errorf("watch %s: %w", filepath.Dir(p.path), err)
	}

	p.watcher = watcher
	p.done = make(chan struct{})

	go func() {
		debounce := time.NewTimer(0)
		<-debounce.C // drain initial timer
		pending := false

		for {
			select {
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if filepath.Clean(event.Name) != filepath.Clean(p.path) {
					continue
				}
				if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
					continue
				}
				pending = true
				debounce.Reset(watchDebounce)

			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				log.Println("[Provider] Snapshot watcher error:", err)

			case <-debounce.C:
				if pending {
					pending = false
					log.Printf("[Provider] Snapshot %s changed, reloading", p.path)
					onChange()
				}

			case <-p.done:
				return
			}
		}
	}()
	return nil
}

// Close stops the watcher. Safe to call without a prior Watch.
func (p *FileProvider) Close() error {
	if p.watcher == nil {
		return nil
	}
	close(p.done)
	err := p.watcher.Close()
	p.watcher = nil
	return err
}
