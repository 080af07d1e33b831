package microlog

import (
	"os"
	"time"

	"github.com/fsnotify/fsnotify"
)

/*
Live settings reload: WatchSettings loads a settings file and re-applies
it whenever the file changes on disk. Reload outcomes are reported through
the logger itself (INFO on success, ERROR on failure), since a watched
logger is by definition a working log destination.

Editors that save atomically (vim, sed -i) rename a temp file over the
path, which tears down the inotify watch on the old inode. Rename/Remove
events therefore re-arm the watch on the path before reloading; a file
that is removed and never replaced stops reloading but keeps the watcher
alive in case it comes back via a later directory event.
*/

// settleDelay gives an atomic save time to finish materializing the new
// file before the watch is re-armed and the file re-read.
const settleDelay = 200 * time.Millisecond

// SettingsWatcher re-applies a settings file to its logger on every
// change until closed.
type SettingsWatcher struct {
	watcher *fsnotify.Watcher
	done    chan struct{}
}

// WatchSettings applies the settings file at path and starts watching it
// for changes. The initial load is mandatory: its failure aborts the
// watch. The returned watcher must be closed to release the inotify
// resources and stop the reload goroutine.
func (l *Logger) WatchSettings(path string) (*SettingsWatcher, error) {
	if l == nil {
		return nil, ErrLoggerNil
	}
	if err := l.LoadSettingsFile(path); err != nil {
		return nil, err
	}
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := watcher.Add(path); err != nil {
		watcher.Close()
		return nil, err
	}
	sw := &SettingsWatcher{
		watcher: watcher,
		done:    make(chan struct{}),
	}
	go sw.run(l, path)
	return sw, nil
}

// Close stops watching and waits for the reload goroutine to exit.
func (sw *SettingsWatcher) Close() error {
	err := sw.watcher.Close()
	<-sw.done
	return err
}

func (sw *SettingsWatcher) run(l *Logger, path string) {
	defer close(sw.done)
	for {
		select {
		case event, ok := <-sw.watcher.Events:
			if !ok {
				return
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) &&
				!event.Has(fsnotify.Rename) && !event.Has(fsnotify.Remove) {
				continue
			}
			if event.Has(fsnotify.Rename) || event.Has(fsnotify.Remove) {
				// The watched inode is gone: wait for the replacement
				// and re-arm the watch on the path.
				time.Sleep(settleDelay)
				if _, err := os.Stat(path); os.IsNotExist(err) {
					l.Errorf("settings file %s was removed and not replaced", path)
					continue
				}
				if err := sw.watcher.Add(path); err != nil {
					l.Errorf("settings watcher: re-adding %s failed: %v", path, err)
				}
			}
			if err := l.LoadSettingsFile(path); err != nil {
				l.Errorf("settings reload failed: %v", err)
			} else {
				l.Infof("settings reloaded from %s", path)
			}
		case err, ok := <-sw.watcher.Errors:
			if !ok {
				return
			}
			l.Errorf("settings watcher: %v", err)
		}
	}
}
