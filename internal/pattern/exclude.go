package pattern

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

// ErrInvalidExclusion is returned for exclusion rules that cannot be parsed.
var ErrInvalidExclusion = errors.New("invalid exclusion")

// ExcludeMode selects how exclusion rules are matched against directory paths.
type ExcludeMode int

const (
	// ExcludePrefix treats each rule as a path fragment relative to the root:
	// "b" excludes root/b and everything beneath it.
	ExcludePrefix ExcludeMode = iota
	// ExcludeRegex treats each rule as a regular expression matched anywhere
	// in the directory's full path.
	ExcludeRegex
)

// ParseExcludeMode maps "prefix" or "regex" to an ExcludeMode.
func ParseExcludeMode(s string) (ExcludeMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "prefix":
		return ExcludePrefix, nil
	case "regex":
		return ExcludeRegex, nil
	default:
		return ExcludePrefix, fmt.Errorf("%w: exclude mode %q (expected prefix|regex)", ErrInvalidMode, s)
	}
}

func (m ExcludeMode) String() string {
	if m == ExcludeRegex {
		return "regex"
	}
	return "prefix"
}

// ExclusionSet decides which directories must not be descended into.
// The zero value and nil both exclude nothing.
type ExclusionSet struct {
	mode     ExcludeMode
	prefixes []string
	regexes  []*regexp.Regexp
}

// ParseExclusions builds an ExclusionSet from a comma-separated list of rules.
// Empty rules are ignored. root is only used in ExcludePrefix mode.
func ParseExclusions(raw, root string, mode ExcludeMode) (*ExclusionSet, error) {
	var rules []string
	for _, r := range strings.Split(raw, ",") {
		if r = strings.TrimSpace(r); r != "" {
			rules = append(rules, r)
		}
	}
	return NewExclusionSet(rules, root, mode)
}

// NewExclusionSet builds an ExclusionSet from individual rules.
func NewExclusionSet(rules []string, root string, mode ExcludeMode) (*ExclusionSet, error) {
	set := &ExclusionSet{mode: mode}
	root = filepath.Clean(root)

	for _, rule := range rules {
		switch mode {
		case ExcludePrefix:
			frag := filepath.Clean(filepath.FromSlash(rule))
			if filepath.IsAbs(frag) || frag == "." || frag == ".." ||
				strings.HasPrefix(frag, ".."+string(os.PathSeparator)) {
				return nil, fmt.Errorf("%w: %q is not a path below the search root", ErrInvalidExclusion, rule)
			}
			set.prefixes = append(set.prefixes, filepath.Join(root, frag))
		case ExcludeRegex:
			re, err := regexp.Compile(rule)
			if err != nil {
				return nil, fmt.Errorf("%w: %q: %w", ErrInvalidExclusion, rule, err)
			}
			set.regexes = append(set.regexes, re)
		default:
			return nil, fmt.Errorf("%w: exclude mode %d", ErrInvalidMode, mode)
		}
	}
	return set, nil
}

// Excludes reports whether the directory at path must not be descended into.
func (s *ExclusionSet) Excludes(path string) bool {
	if s.Empty() {
		return false
	}
	if s.mode == ExcludeRegex {
		for _, re := range s.regexes {
			if re.MatchString(path) {
				return true
			}
		}
		return false
	}

	path = filepath.Clean(path)
	for _, prefix := range s.prefixes {
		if path == prefix || strings.HasPrefix(path, prefix+string(os.PathSeparator)) {
			return true
		}
	}
	return false
}

// Empty reports whether the set holds no rules.
func (s *ExclusionSet) Empty() bool {
	return s == nil || len(s.prefixes)+len(s.regexes) == 0
}

// Len returns the number of rules.
func (s *ExclusionSet) Len() int {
	if s == nil {
		return 0
	}
	return len(s.prefixes) + len(s.regexes)
}

// Mode returns the matching mode of the set.
func (s *ExclusionSet) Mode() ExcludeMode {
	if s == nil {
		return ExcludePrefix
	}
	return s.mode
}
