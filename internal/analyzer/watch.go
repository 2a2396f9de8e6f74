package analyzer

import (
	"context"
	"os"
	"path/filepath"

	"github.com/anime-shed/food-inspector-go/internal/logger"
	"github.com/fsnotify/fsnotify"
	"github.com/sirupsen/logrus"
)

// WatchThresholds reloads the thresholds file at path whenever it is written
// or replaced and hands the result to onChange. It runs until ctx is
// cancelled. A file that fails to load is logged and the previous thresholds
// stay active.
func WatchThresholds(ctx context.Context, path string, onChange func(Thresholds) error) error {
	path = filepath.Clean(path)
	if _, err := os.Stat(path); err != nil {
		return err
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	// Watch the directory: editors and config managers often replace the
	// file through a rename, which drops a watch on the file itself.
	if err := watcher.Add(filepath.Dir(path)); err != nil {
		return err
	}

	logger.WithField("path", path).Info("Watching freshness thresholds")

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != path {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			reload(path, onChange)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.WithError(err).Error("Thresholds watcher error")
		}
	}
}

func reload(path string, onChange func(Thresholds) error) {
	// A truncate-then-write save shows up as a write of an empty file first.
	if info, err := os.Stat(path); err != nil || info.Size() == 0 {
		return
	}

	t, err := LoadThresholds(path)
	if err == nil {
		err = onChange(t)
	}
	if err != nil {
		logger.WithError(err).WithField("path", path).
			Error("Thresholds reload failed, keeping previous values")
		return
	}

	logger.WithFields(logrus.Fields{
		"path":         path,
		"good_min_val": t.Good.MinValue,
		"fair_min_val": t.Fair.MinValue,
	}).Info("Freshness thresholds reloaded")
}
