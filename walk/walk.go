// Package walk provides parallel wildcard search over directory trees.
//
// This package re-exports the engine used by the wildfind command so it can be
// embedded in other programs:
//
//	p, _ := walk.Compile("*.go,*.mod", walk.StarAny)
//	ex, _ := walk.ParseExclusions("vendor,testdata", root, walk.ExcludePrefix)
//	w := walk.New(walk.Options{Pattern: p, Exclude: ex, Executor: walk.NewPool(0)})
//	stats, err := w.Walk(ctx, root, func(m walk.Match) { fmt.Println(m.Path) })
package walk

import (
	"context"

	"github.com/TFMV/wildfind/internal/pattern"
	internal "github.com/TFMV/wildfind/internal/walk"
)

// Re-export all the types from the internal packages
type (
	// Walker searches a tree with a fixed pattern and exclusion set.
	Walker = internal.Walker

	// Options configures a Walker.
	Options = internal.Options

	// Match is a single entry whose name satisfied the pattern.
	Match = internal.Match

	// MatchHandler receives matches as they are found.
	MatchHandler = internal.MatchHandler

	// Stats holds traversal counters.
	Stats = internal.Stats

	// Pool is a fixed set of workers draining a shared queue of directories.
	Pool = internal.Pool

	// Executor schedules directory visits until no work remains.
	Executor = internal.Executor

	// VisitFunc processes one directory.
	VisitFunc = internal.VisitFunc

	// Lister reads the entries of a directory.
	Lister = internal.Lister

	// Entry is one child of a listed directory.
	Entry = internal.Entry

	// LogLevel defines the verbosity of logging.
	LogLevel = internal.LogLevel

	// Pattern is a compiled wildcard expression.
	Pattern = pattern.Pattern

	// StarMode selects what a `*` may consume.
	StarMode = pattern.StarMode

	// ExclusionSet decides which directories must not be descended into.
	ExclusionSet = pattern.ExclusionSet

	// ExcludeMode selects how exclusion rules are matched.
	ExcludeMode = pattern.ExcludeMode
)

// Re-export all the constants
const (
	StarAny   = pattern.StarAny
	StarAlnum = pattern.StarAlnum

	ExcludePrefix = pattern.ExcludePrefix
	ExcludeRegex  = pattern.ExcludeRegex

	LogLevelError = internal.LogLevelError
	LogLevelWarn  = internal.LogLevelWarn
	LogLevelInfo  = internal.LogLevelInfo
	LogLevelDebug = internal.LogLevelDebug
)

// Re-export the sentinel errors
var (
	ErrInvalidExclusion = pattern.ErrInvalidExclusion
	ErrInvalidMode      = pattern.ErrInvalidMode
)

// New returns a Walker for opts.
func New(opts Options) *Walker {
	return internal.New(opts)
}

// NewPool returns a pool with the given number of workers; zero or less
// selects one worker per physical core.
func NewPool(workers int) *Pool {
	return internal.NewPool(workers)
}

// Compile turns a wildcard expression into an anchored Pattern.
func Compile(expr string, star StarMode) (*Pattern, error) {
	return pattern.Compile(expr, pattern.WithStarMode(star))
}

// ParseExclusions builds an ExclusionSet from a comma-separated list of rules.
func ParseExclusions(raw, root string, mode ExcludeMode) (*ExclusionSet, error) {
	return pattern.ParseExclusions(raw, root, mode)
}

// Find searches root for names matching expr using one worker per physical
// core and no exclusions, calling handler for every match.
func Find(ctx context.Context, root, expr string, handler MatchHandler) (Stats, error) {
	p, err := pattern.Compile(expr)
	if err != nil {
		return Stats{}, err
	}
	return internal.New(Options{Pattern: p}).Walk(ctx, root, handler)
}
