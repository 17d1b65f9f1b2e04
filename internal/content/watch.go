package content

import (
	"os"
	"time"
)

// FileWatcher polls the content file's modification time and triggers a
// callback on change, enabling hot reload without external watch libraries.
type FileWatcher struct {
	path     string
	interval time.Duration
	onChange func(string)

	stopCh    chan struct{}
	lastMTime time.Time
}

// NewFileWatcher creates a watcher for the given content file.
func NewFileWatcher(path string, interval time.Duration, onChange func(string)) *FileWatcher {
	return &FileWatcher{
		path:     path,
		interval: interval,
		onChange: onChange,
		stopCh:   make(chan struct{}),
	}
}

// Start begins polling in a goroutine.
func (w *FileWatcher) Start() {
	ticker := time.NewTicker(w.interval)
	go func() {
		defer ticker.Stop()
		w.scan(true)
		for {
			select {
			case <-ticker.C:
				w.scan(false)
			case <-w.stopCh:
				return
			}
		}
	}()
}

// Stop terminates the watcher.
func (w *FileWatcher) Stop() {
	close(w.stopCh)
}

// scan compares the file's mtime with the last observed one. The priming
// scan only records the baseline.
func (w *FileWatcher) scan(prime bool) {
	fi, err := os.Stat(w.path)
	if err != nil {
		// file missing or unreadable; keep the old baseline and retry
		return
	}
	mt := fi.ModTime()
	if w.lastMTime.IsZero() {
		w.lastMTime = mt
		return
	}
	if mt.After(w.lastMTime) {
		w.lastMTime = mt
		if !prime && w.onChange != nil {
			w.onChange(w.path)
		}
	}
}
