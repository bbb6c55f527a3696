// Package watcher turns filesystem notifications under a vault into document
// change events.
//
// Rapid changes are coalesced: events are buffered until the vault has been
// quiet for the debounce interval and then delivered as one batch, keeping the
// last event per document.
package watcher

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"github.com/BuzzLyutic/taskhub/internal/model"
	"github.com/BuzzLyutic/taskhub/internal/repo"
)

var ErrWatcherClosed = errors.New("watcher is closed")

// Handler receives one debounced batch of changes, sorted by document id.
type Handler func(events []model.ChangeEvent)

type Watcher struct {
	fs       *fsnotify.Watcher
	vault    *repo.VaultStore
	logger   *zap.Logger
	debounce time.Duration
}

func New(vault *repo.VaultStore, logger *zap.Logger, debounce time.Duration) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if debounce <= 0 {
		debounce = 200 * time.Millisecond
	}

	w := &Watcher{
		fs:       fsw,
		vault:    vault,
		logger:   logger,
		debounce: debounce,
	}
	if err := w.addRecursive(vault.Root()); err != nil {
		fsw.Close()
		return nil, err
	}
	return w, nil
}

// Run delivers batches to h until ctx is done. The watcher is closed on return.
func (w *Watcher) Run(ctx context.Context, h Handler) error {
	defer w.fs.Close()

	pending := make(map[string]model.ChangeEvent)
	var timer *time.Timer
	var fire <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			return nil

		case ev, ok := <-w.fs.Events:
			if !ok {
				return ErrWatcherClosed
			}
			if ev.Has(fsnotify.Create) {
				if info, err := os.Stat(ev.Name); err == nil && info.IsDir() {
					if err := w.addRecursive(ev.Name); err != nil {
						w.logger.Warn("watching new directory failed", zap.String("path", ev.Name), zap.Error(err))
					}
					continue
				}
			}
			change, ok := w.convert(ev)
			if !ok {
				continue
			}
			pending[change.Ref.ID] = change
			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				timer.Reset(w.debounce)
			}
			fire = timer.C

		case <-fire:
			h(drain(pending))
			timer, fire = nil, nil

		case err, ok := <-w.fs.Errors:
			if !ok {
				return ErrWatcherClosed
			}
			w.logger.Warn("watcher error", zap.Error(err))
		}
	}
}

// convert maps an fsnotify event on a markdown file to a change event.
func (w *Watcher) convert(ev fsnotify.Event) (model.ChangeEvent, bool) {
	if !repo.IsDocument(ev.Name) || hidden(ev.Name) {
		return model.ChangeEvent{}, false
	}
	ref, ok := w.vault.RefFor(ev.Name)
	if !ok {
		return model.ChangeEvent{}, false
	}

	var kind model.ChangeKind
	switch {
	case ev.Has(fsnotify.Remove), ev.Has(fsnotify.Rename):
		kind = model.DocumentDeleted
	case ev.Has(fsnotify.Create):
		kind = model.DocumentCreated
	case ev.Has(fsnotify.Write):
		kind = model.DocumentModified
	default:
		return model.ChangeEvent{}, false
	}
	return model.ChangeEvent{Kind: kind, Ref: ref}, true
}

func (w *Watcher) addRecursive(root string) error {
	return filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		if p != root && strings.HasPrefix(d.Name(), ".") {
			return filepath.SkipDir
		}
		return w.fs.Add(p)
	})
}

func drain(pending map[string]model.ChangeEvent) []model.ChangeEvent {
	batch := make([]model.ChangeEvent, 0, len(pending))
	for id, ev := range pending {
		batch = append(batch, ev)
		delete(pending, id)
	}
	sort.Slice(batch, func(i, j int) bool {
		return batch[i].Ref.ID < batch[j].Ref.ID
	})
	return batch
}

// hidden reports whether the file itself is a dotfile, e.g. a temp file of an atomic save.
func hidden(path string) bool {
	return strings.HasPrefix(filepath.Base(path), ".")
}
