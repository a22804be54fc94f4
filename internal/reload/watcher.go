package reload

import (
	"context"
	"io/fs"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

// ChangeKind is the kind of a changed file.
type ChangeKind int

const (
	ChangeTemplate ChangeKind = iota
	ChangeConfig
	ChangeOther
)

func (k ChangeKind) String() string {
	switch k {
	case ChangeTemplate:
		return "template"
	case ChangeConfig:
		return "config"
	default:
		return "other"
	}
}

// Change is a detected file change. Removed is set for deleted files.
type Change struct {
	Path    string
	Kind    ChangeKind
	Removed bool
}

// WatcherConfig configures a Watcher.
type WatcherConfig struct {
	// Paths are the files and directories to watch.
	Paths []string

	// Ignore are base-name globs to skip.
	Ignore []string

	// Interval is the polling interval (default: 200ms).
	Interval time.Duration
}

// DefaultIgnore lists editor and VCS noise.
var DefaultIgnore = []string{".git", "node_modules", "*.tmp", "*.swp", "*~", ".#*"}

// Watcher polls paths for modified, added and removed files.
type Watcher struct {
	config     WatcherConfig
	mu         sync.Mutex
	onChange   func([]Change)
	running    bool
	stopCh     chan struct{}
	timestamps map[string]time.Time
}

// NewWatcher creates a Watcher.
func NewWatcher(config WatcherConfig) *Watcher {
	if config.Interval <= 0 {
		config.Interval = 200 * time.Millisecond
	}
	if config.Ignore == nil {
		config.Ignore = DefaultIgnore
	}
	return &Watcher{
		config:     config,
		timestamps: make(map[string]time.Time),
	}
}

// OnChange sets the callback receiving each batch of changes.
func (w *Watcher) OnChange(fn func([]Change)) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.onChange = fn
}

// Start polls until ctx is done or Stop is called.
func (w *Watcher) Start(ctx context.Context) error {
	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		return nil
	}
	w.running = true
	w.stopCh = make(chan struct{})
	stop := w.stopCh
	w.mu.Unlock()

	w.mu.Lock()
	w.timestamps = w.scan()
	w.mu.Unlock()

	ticker := time.NewTicker(w.config.Interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			w.Stop()
			return ctx.Err()
		case <-stop:
			return nil
		case <-ticker.C:
			w.Poll()
		}
	}
}

// Stop stops the watcher.
func (w *Watcher) Stop() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.running {
		close(w.stopCh)
		w.running = false
	}
}

// Poll scans once and reports changes since the previous scan.
func (w *Watcher) Poll() []Change {
	current := w.scan()

	w.mu.Lock()
	var changes []Change
	for p, mod := range current {
		if last, ok := w.timestamps[p]; !ok || mod.After(last) {
			changes = append(changes, Change{Path: p, Kind: Classify(p)})
		}
	}
	for p := range w.timestamps {
		if _, ok := current[p]; !ok {
			changes = append(changes, Change{Path: p, Kind: Classify(p), Removed: true})
		}
	}
	w.timestamps = current
	callback := w.onChange
	w.mu.Unlock()

	if len(changes) > 0 && callback != nil {
		callback(changes)
	}
	return changes
}

func (w *Watcher) scan() map[string]time.Time {
	out := make(map[string]time.Time)
	for _, root := range w.config.Paths {
		filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
			if err != nil {
				return nil
			}
			if w.shouldIgnore(p) {
				if d.IsDir() {
					return filepath.SkipDir
				}
				return nil
			}
			if d.IsDir() {
				return nil
			}
			info, err := d.Info()
			if err != nil {
				return nil
			}
			out[p] = info.ModTime()
			return nil
		})
	}
	return out
}

func (w *Watcher) shouldIgnore(p string) bool {
	name := filepath.Base(p)
	for _, pattern := range w.config.Ignore {
		pattern = strings.TrimSpace(pattern)
		if pattern == "" {
			continue
		}
		if name == pattern {
			return true
		}
		if matched, _ := filepath.Match(pattern, name); matched {
			return true
		}
	}
	return false
}

// Classify determines the kind of a change from the file extension.
func Classify(p string) ChangeKind {
	switch strings.ToLower(filepath.Ext(p)) {
	case ".html", ".gohtml", ".tmpl", ".tpl":
		return ChangeTemplate
	case ".yaml", ".yml":
		return ChangeConfig
	default:
		return ChangeOther
	}
}

// IsRunning reports whether the watcher is polling.
func (w *Watcher) IsRunning() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.running
}

