package config

import (
	"errors"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/spaghettifunk/anima-scene/engine/core"
)

var ErrWatcherClosed = errors.New("config watcher already closed")

// Watcher reloads a config file whenever it changes on disk and hands the
// new config to a callback. Invalid files are logged and skipped.
type Watcher struct {
	path     string
	onChange func(*Config)

	fsnotify *fsnotify.Watcher
	done     chan struct{}
	wg       sync.WaitGroup

	mutex    sync.Mutex
	isClosed bool
}

func NewWatcher(path string, onChange func(*Config)) (*Watcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	fsWatch, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	// editors often replace the file, so the directory is watched
	if err := fsWatch.Add(filepath.Dir(abs)); err != nil {
		fsWatch.Close()
		return nil, err
	}
	w := &Watcher{
		path:     abs,
		onChange: onChange,
		fsnotify: fsWatch,
		done:     make(chan struct{}),
	}
	w.wg.Add(1)
	go w.start()
	return w, nil
}

func (w *Watcher) start() {
	defer w.wg.Done()
	for {
		select {
		case e, ok := <-w.fsnotify.Events:
			if !ok {
				return
			}
			if filepath.Clean(e.Name) != w.path {
				continue
			}
			if e.Op&(fsnotify.Create|fsnotify.Write) != 0 {
				w.reload()
			}

		case err, ok := <-w.fsnotify.Errors:
			if !ok {
				return
			}
			core.LogError(err.Error())

		case <-w.done:
			return
		}
	}
}

func (w *Watcher) reload() {
	cfg, err := Load(w.path)
	if err != nil {
		// Load logged it already; a half written file is retried on the next write
		return
	}
	core.LogInfo("config %s reloaded", w.path)
	var ctx core.EventContext
	ctx.Data.C[0] = w.path
	core.EventFire(core.EVENT_CODE_CONFIG_RELOADED, w, ctx)
	if w.onChange != nil {
		w.onChange(cfg)
	}
}

func (w *Watcher) Close() error {
	w.mutex.Lock()
	if w.isClosed {
		w.mutex.Unlock()
		return ErrWatcherClosed
	}
	w.isClosed = true
	w.mutex.Unlock()

	close(w.done)
	w.wg.Wait()
	return w.fsnotify.Close()
}
