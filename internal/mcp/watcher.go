package mcp

import (
	"context"
	"io/fs"
	"log"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// sourceExtensions are the file suffixes whose changes evict cache entries.
// Everything else under the watch root is noise (build output, editor swap
// files) and is ignored.
var sourceExtensions = map[string]bool{
	".c": true, ".h": true,
	".cpp": true, ".cc": true, ".cxx": true,
	".hpp": true, ".hh": true, ".hxx": true, ".ipp": true, ".inl": true,
	".cs": true, ".csx": true,
}

// invalidator is the slice of the view cache the watcher needs.
type invalidator interface {
	Invalidate(path string)
}

// CacheWatcher watches a directory tree and evicts changed source files from
// the FileView cache. Events are debounced and batched so an editor save
// storm causes one eviction pass, not dozens.
type CacheWatcher struct {
	cache        invalidator
	watcher      *fsnotify.Watcher
	debounceTime time.Duration

	mu      sync.Mutex
	pending map[string]struct{}

	stopCh    chan struct{}
	doneCh    chan struct{}
	started   bool
	startOnce sync.Once
	stopOnce  sync.Once
}

// NewCacheWatcher creates a watcher over root and all its subdirectories.
func NewCacheWatcher(cache invalidator, root string) (*CacheWatcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil // unreadable subtree; watch what we can
		}
		if d.IsDir() {
			if strings.HasPrefix(d.Name(), ".") && path != root {
				return filepath.SkipDir
			}
			return watcher.Add(path)
		}
		return nil
	})
	if err != nil {
		watcher.Close()
		return nil, err
	}

	return &CacheWatcher{
		cache:        cache,
		watcher:      watcher,
		debounceTime: 500 * time.Millisecond,
		pending:      make(map[string]struct{}),
		stopCh:       make(chan struct{}),
		doneCh:       make(chan struct{}),
	}, nil
}

// Start begins watching for file changes.
func (cw *CacheWatcher) Start(ctx context.Context) {
	cw.startOnce.Do(func() {
		cw.started = true
		go cw.watch(ctx)
	})
}

// Stop stops the watcher and waits for its goroutine to exit. Stopping a
// watcher that was never started is safe.
func (cw *CacheWatcher) Stop() {
	cw.stopOnce.Do(func() {
		close(cw.stopCh)
		if cw.started {
			<-cw.doneCh
		}
		cw.watcher.Close()
	})
}

// watch is the event loop: source file events accumulate into the pending
// set, and a debounce timer flushes them as cache evictions.
func (cw *CacheWatcher) watch(ctx context.Context) {
	defer close(cw.doneCh)

	var debounceTimer *time.Timer
	flushCh := make(chan struct{}, 1)

	for {
		select {
		case <-ctx.Done():
			if debounceTimer != nil {
				debounceTimer.Stop()
			}
			return

		case <-cw.stopCh:
			if debounceTimer != nil {
				debounceTimer.Stop()
			}
			return

		case event, ok := <-cw.watcher.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}
			if !sourceExtensions[strings.ToLower(filepath.Ext(event.Name))] {
				continue
			}

			cw.mu.Lock()
			cw.pending[event.Name] = struct{}{}
			cw.mu.Unlock()

			if debounceTimer != nil {
				if !debounceTimer.Stop() {
					select {
					case <-debounceTimer.C:
					default:
					}
				}
			}
			debounceTimer = time.AfterFunc(cw.debounceTime, func() {
				select {
				case flushCh <- struct{}{}:
				default:
				}
			})

		case <-flushCh:
			cw.flush()

		case err, ok := <-cw.watcher.Errors:
			if !ok {
				return
			}
			log.Printf("cache watcher error: %v", err)
		}
	}
}

// flush evicts every pending path from the cache.
func (cw *CacheWatcher) flush() {
	cw.mu.Lock()
	paths := make([]string, 0, len(cw.pending))
	for p := range cw.pending {
		paths = append(paths, p)
	}
	cw.pending = make(map[string]struct{})
	cw.mu.Unlock()

	for _, p := range paths {
		cw.cache.Invalidate(p)
	}
}
