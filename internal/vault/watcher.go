package vault

import (
	"context"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"

	"git.home.luguber.info/inful/transclude/internal/foundation/errors"
	"git.home.luguber.info/inful/transclude/internal/logfields"
)

// Watcher reports markdown content changes under the vault root. Consumers
// receive vault-relative document paths on Changes.
type Watcher struct {
	fsw     *fsnotify.Watcher
	root    string
	changes chan string
}

// NewWatcher watches the vault's directory tree recursively.
func NewWatcher(v *Vault) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryRuntime, "create filesystem watcher").Build()
	}

	w := &Watcher{fsw: fsw, root: v.Root(), changes: make(chan string, 64)}
	if err := w.addRecursive(v.Root()); err != nil {
		_ = fsw.Close()
		return nil, err
	}
	return w, nil
}

// Changes returns the channel of changed document paths. It is closed when
// Run returns.
func (w *Watcher) Changes() <-chan string { return w.changes }

// Run pumps filesystem events until ctx is canceled. Newly created
// directories are added to the watch; editor noise is filtered out.
func (w *Watcher) Run(ctx context.Context) error {
	defer close(w.changes)
	defer func() { _ = w.fsw.Close() }()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event, ok := <-w.fsw.Events:
			if !ok {
				return nil
			}
			w.handle(ctx, event)
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return nil
			}
			slog.Warn("watcher error", logfields.Error(err))
		}
	}
}

func (w *Watcher) handle(ctx context.Context, event fsnotify.Event) {
	if shouldIgnoreEvent(event.Name) {
		return
	}

	if event.Op.Has(fsnotify.Create) {
		if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
			if err := w.addRecursive(event.Name); err != nil {
				slog.Warn("failed to watch new directory", logfields.Error(err))
			}
			return
		}
	}

	if !strings.EqualFold(filepath.Ext(event.Name), ".md") {
		return
	}
	if !event.Op.Has(fsnotify.Write) && !event.Op.Has(fsnotify.Create) &&
		!event.Op.Has(fsnotify.Remove) && !event.Op.Has(fsnotify.Rename) {
		return
	}

	rel, err := filepath.Rel(w.root, event.Name)
	if err != nil {
		return
	}
	select {
	case w.changes <- filepath.ToSlash(rel):
	case <-ctx.Done():
	default:
		// Channel full: drop rather than stall the event loop; consumers
		// doing full refreshes will catch up.
	}
}

func (w *Watcher) addRecursive(dir string) error {
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if path != dir && strings.HasPrefix(d.Name(), ".") {
			return filepath.SkipDir
		}
		return w.fsw.Add(path)
	})
	if err != nil {
		return errors.WrapError(err, errors.CategoryRuntime, "watch vault tree").
			WithContext("dir", dir).Build()
	}
	return nil
}

// shouldIgnoreEvent filters editor noise: hidden files, vim swap/backup
// files, emacs lock files, macOS metadata.
func shouldIgnoreEvent(path string) bool {
	base := filepath.Base(path)
	switch {
	case strings.HasPrefix(base, "."):
		return true
	case strings.HasPrefix(base, "#") && strings.HasSuffix(base, "#"):
		return true
	case strings.HasSuffix(base, ".swp"), strings.HasSuffix(base, ".swx"):
		return true
	case strings.HasSuffix(base, "~"):
		return true
	case base == ".DS_Store":
		return true
	}
	return false
}
