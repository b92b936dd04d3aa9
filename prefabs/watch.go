package prefabs

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// debounce drops repeated events for the same file, editors tend to write
// several times per save.
const debounce = 100 * time.Millisecond

// Change is one debounced edit to a content file.
type Change struct {
	Path    string
	Script  bool
	Removed bool
}

// Archetype names the archetype file that changed, or "" for a script.
func (c Change) Archetype() string {
	if c.Script {
		return ""
	}
	return archetypeName(c.Path)
}

// Watcher reports edits to archetype specs and guard scripts.
type Watcher struct {
	watcher *fsnotify.Watcher
	log     *zap.Logger
	Events  chan Change
	Errors  chan error
	closeCh chan struct{}
	done    chan struct{}
	once    sync.Once
}

// NewWatcher watches each content dir and its scripts subdirectory.
func NewWatcher(log *zap.Logger, dirs ...string) (*Watcher, error) {
	if log == nil {
		log = zap.NewNop()
	}
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	for _, dir := range dirs {
		if err := w.Add(dir); err != nil {
			_ = w.Close()
			return nil, err
		}
		scripts := filepath.Join(dir, scriptDir)
		if info, err := os.Stat(scripts); err == nil && info.IsDir() {
			if err := w.Add(scripts); err != nil {
				_ = w.Close()
				return nil, err
			}
		} else if err != nil && !errors.Is(err, fs.ErrNotExist) {
			_ = w.Close()
			return nil, err
		}
		log.Debug("watching content", zap.String("dir", dir))
	}

	watcher := &Watcher{
		watcher: w,
		log:     log,
		Events:  make(chan Change, 16),
		Errors:  make(chan error, 1),
		closeCh: make(chan struct{}),
		done:    make(chan struct{}),
	}
	go watcher.run()
	return watcher, nil
}

// Close stops the watcher. Events and Errors are closed once it returns.
func (w *Watcher) Close() error {
	var err error
	w.once.Do(func() {
		close(w.closeCh)
		err = w.watcher.Close()
		<-w.done
	})
	return err
}

func (w *Watcher) run() {
	defer close(w.done)
	defer close(w.Errors)
	defer close(w.Events)

	last := make(map[string]time.Time)
	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename|fsnotify.Remove) == 0 {
				continue
			}
			script := isScriptFile(event.Name)
			if !script && !isSpecFile(event.Name) {
				continue
			}
			now := time.Now()
			if t, ok := last[event.Name]; ok && now.Sub(t) < debounce {
				continue
			}
			last[event.Name] = now
			c := Change{
				Path:    event.Name,
				Script:  script,
				Removed: event.Op&(fsnotify.Remove|fsnotify.Rename) != 0,
			}
			w.log.Debug("content changed", zap.String("path", c.Path), zap.Bool("removed", c.Removed))
			select {
			case w.Events <- c:
			case <-w.closeCh:
				return
			}
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			select {
			case w.Errors <- err:
			case <-w.closeCh:
				return
			}
		case <-w.closeCh:
			return
		}
	}
}
