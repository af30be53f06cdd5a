// Package walk searches directory trees in parallel for entries whose names
// match a compiled pattern.
package walk

import (
	"context"
	"path/filepath"
	"sync/atomic"
	"time"
	"unicode/utf8"

	"github.com/TFMV/wildfind/internal/pattern"
	"go.uber.org/zap"
)

// Match is a single entry whose name satisfied the pattern.
type Match struct {
	Path  string // Full path to the entry
	Name  string // Base name of the entry
	IsDir bool   // Whether the entry is a directory
}

// MatchHandler receives matches as they are found. It is called from many
// goroutines at once and must be safe for concurrent use.
type MatchHandler func(m Match)

// Stats holds traversal counters that are updated atomically during the walk.
type Stats struct {
	DirsListed     int64         // Directories whose entries were read
	DirsUnreadable int64         // Directories that could not be opened or read
	DirsExcluded   int64         // Directories not descended into by exclusion
	Entries        int64         // Entries seen
	Skipped        int64         // Entries dropped for metadata errors or bad names
	Matches        int64         // Entries reported to the handler
	ElapsedTime    time.Duration // Total time elapsed
}

// Options configures a Walker.
type Options struct {
	Pattern  *pattern.Pattern      // Name predicate; nil matches everything
	Exclude  *pattern.ExclusionSet // Exclusion predicate; nil excludes nothing
	Lister   Lister                // Directory reader; defaults to DirentLister
	Executor Executor              // Scheduler; defaults to NewPool(0)
	Logger   *zap.Logger           // Diagnostics; defaults to a no-op logger
}

// Walker searches a tree with a fixed pattern and exclusion set.
// A Walker is safe to reuse for several walks.
type Walker struct {
	match   *pattern.Pattern
	exclude *pattern.ExclusionSet
	lister  Lister
	exec    Executor
	logger  *zap.Logger
}

// New returns a Walker for opts.
func New(opts Options) *Walker {
	w := &Walker{
		match:   opts.Pattern,
		exclude: opts.Exclude,
		lister:  opts.Lister,
		exec:    opts.Executor,
		logger:  opts.Logger,
	}
	if w.lister == nil {
		w.lister = DirentLister{}
	}
	if w.exec == nil {
		w.exec = NewPool(0)
	}
	if w.logger == nil {
		w.logger = zap.NewNop()
	}
	return w
}

// Walk searches root and every non-excluded directory beneath it, calling
// handler for each entry whose name matches. Entries that cannot be read are
// skipped without error; the only error returned is ctx's.
func (w *Walker) Walk(ctx context.Context, root string, handler MatchHandler) (Stats, error) {
	if handler == nil {
		handler = func(Match) {}
	}

	var stats Stats
	start := time.Now()
	root = filepath.Clean(root)

	w.logger.Debug("starting walk",
		zap.String("root", root),
		zap.String("pattern", w.patternSource()),
		zap.Int("exclusions", w.exclude.Len()),
	)

	visit := func(ctx context.Context, dir string, enqueue func(string)) {
		if ctx.Err() != nil {
			return
		}
		err := w.lister.List(dir, func(e Entry) {
			w.visitEntry(dir, e, enqueue, handler, &stats)
		})
		if err != nil {
			atomic.AddInt64(&stats.DirsUnreadable, 1)
			w.logger.Debug("unreadable directory", zap.String("path", dir), zap.Error(err))
			return
		}
		atomic.AddInt64(&stats.DirsListed, 1)
	}

	err := w.exec.Run(ctx, root, visit)
	stats.ElapsedTime = time.Since(start)

	w.logger.Debug("walk finished",
		zap.String("root", root),
		zap.Int64("dirs", stats.DirsListed),
		zap.Int64("entries", stats.Entries),
		zap.Int64("matches", stats.Matches),
		zap.Int64("excluded", stats.DirsExcluded),
		zap.Int64("unreadable", stats.DirsUnreadable),
		zap.Int64("skipped", stats.Skipped),
		zap.Duration("elapsed", stats.ElapsedTime),
	)
	return stats, err
}

func (w *Walker) visitEntry(dir string, e Entry, enqueue func(string), handler MatchHandler, stats *Stats) {
	atomic.AddInt64(&stats.Entries, 1)
	path := filepath.Join(dir, e.Name)

	if e.Err != nil {
		atomic.AddInt64(&stats.Skipped, 1)
		w.logger.Debug("skipping entry", zap.String("path", path), zap.Error(e.Err))
		return
	}
	if !utf8.ValidString(e.Name) {
		atomic.AddInt64(&stats.Skipped, 1)
		w.logger.Debug("skipping entry with non-UTF-8 name", zap.ByteString("path", []byte(path)))
		return
	}

	if e.IsDir() {
		if w.exclude.Excludes(path) {
			atomic.AddInt64(&stats.DirsExcluded, 1)
			w.logger.Debug("excluded directory", zap.String("path", path))
		} else {
			enqueue(path)
		}
	}

	if w.match == nil || w.match.Match(e.Name) {
		atomic.AddInt64(&stats.Matches, 1)
		handler(Match{Path: path, Name: e.Name, IsDir: e.IsDir()})
	}
}

func (w *Walker) patternSource() string {
	if w.match == nil {
		return "*"
	}
	return w.match.String()
}
