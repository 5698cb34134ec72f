package devsite

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/sshear/devsite/content"
)

// Watch rebuilds the index whenever the content directory changes, until
// ctx is done. Bursts of events within debounce collapse into one rebuild.
// A failed rebuild is logged and the previous index keeps serving.
func (a *App) Watch(ctx context.Context, debounce time.Duration) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("devsite: create watcher: %w", err)
	}
	defer w.Close()

	if err := watchTree(w, a.Config.ContentDir); err != nil {
		return err
	}
	a.Log.Infof("watch: %s", a.Config.ContentDir)

	var timer *time.Timer
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()
	rebuild := make(chan struct{}, 1)

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if ev.Has(fsnotify.Create) && isDir(ev.Name) {
				if err := watchTree(w, ev.Name); err != nil {
					a.Log.Warnf("watch: %v", err)
				}
			}
			if !relevant(ev) {
				continue
			}
			a.Log.Debugf("watch: %s %s", ev.Op, ev.Name)
			if timer != nil {
				timer.Stop()
			}
			timer = time.AfterFunc(debounce, func() {
				select {
				case rebuild <- struct{}{}:
				default:
				}
			})
		case <-rebuild:
			if _, err := a.Rebuild(ctx); err != nil {
				a.Log.Errorf("rebuild failed, still serving the previous build:\n%v", err)
			}
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			a.Log.Warnf("watch: %v", err)
		}
	}
}

func relevant(ev fsnotify.Event) bool {
	if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Remove) && !ev.Has(fsnotify.Rename) {
		return false
	}
	// removed directories can no longer be stat'ed
	return content.IsContentFile(ev.Name) || ev.Has(fsnotify.Remove) || ev.Has(fsnotify.Rename) || isDir(ev.Name)
}

// watchTree adds root and every directory below it; fsnotify is not
// recursive.
func watchTree(w *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if err := w.Add(path); err != nil {
				return fmt.Errorf("devsite: watch %s: %w", path, err)
			}
		}
		return nil
	})
}

func isDir(path string) bool {
	fi, err := os.Stat(path)
	return err == nil && fi.IsDir()
}
