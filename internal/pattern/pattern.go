// Package pattern compiles wildcard name expressions and directory exclusion rules.
package pattern

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"
)

// ErrInvalidMode is returned when a mode string names no known mode.
var ErrInvalidMode = errors.New("invalid mode")

// StarMode selects what a `*` in a wildcard expression may consume.
type StarMode int

const (
	StarAny   StarMode = iota // Any run of any character
	StarAlnum                 // Any run of Unicode letters and digits
)

// ParseStarMode maps "any" or "alnum" to a StarMode.
func ParseStarMode(s string) (StarMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "any":
		return StarAny, nil
	case "alnum":
		return StarAlnum, nil
	default:
		return StarAny, fmt.Errorf("%w: star mode %q (expected any|alnum)", ErrInvalidMode, s)
	}
}

func (m StarMode) String() string {
	if m == StarAlnum {
		return "alnum"
	}
	return "any"
}

func (m StarMode) expr() string {
	if m == StarAlnum {
		return `[\p{L}\p{N}]*`
	}
	return `(?s:.*)`
}

// Pattern is a compiled wildcard expression. It is immutable and safe for
// concurrent use.
type Pattern struct {
	source string
	star   StarMode
	re     *regexp.Regexp
}

// Option configures Compile.
type Option func(*Pattern)

// WithStarMode sets the semantics of `*`.
func WithStarMode(m StarMode) Option {
	return func(p *Pattern) { p.star = m }
}

// Compile turns a wildcard expression into an anchored Pattern.
//
// `*` matches a run of characters (see StarMode), `,` separates alternatives
// and every other character, `.` included, matches itself literally.
func Compile(expr string, opts ...Option) (*Pattern, error) {
	p := &Pattern{source: expr}
	for _, opt := range opts {
		opt(p)
	}

	alts := strings.Split(norm.NFC.String(expr), ",")
	parts := make([]string, len(alts))
	for i, alt := range alts {
		parts[i] = translate(alt, p.star)
	}

	re, err := regexp.Compile(`^(?:` + strings.Join(parts, "|") + `)$`)
	if err != nil {
		return nil, fmt.Errorf("compile pattern %q: %w", expr, err)
	}
	p.re = re
	return p, nil
}

// MustCompile is like Compile but panics if the pattern cannot be built.
func MustCompile(expr string, opts ...Option) *Pattern {
	p, err := Compile(expr, opts...)
	if err != nil {
		panic(err)
	}
	return p
}

// translate quotes the literal runs of one alternative and joins them with
// the star expression.
func translate(alt string, star StarMode) string {
	runs := strings.Split(validUTF8(alt), "*")
	for i, run := range runs {
		runs[i] = regexp.QuoteMeta(run)
	}
	return strings.Join(runs, star.expr())
}

// validUTF8 replaces every invalid byte with U+FFFD, which is how the regexp
// engine decodes invalid bytes in the names it is matched against.
func validUTF8(s string) string {
	if utf8.ValidString(s) {
		return s
	}
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		b.WriteRune(r)
	}
	return b.String()
}

// Match reports whether name matches the whole pattern.
func (p *Pattern) Match(name string) bool {
	if norm.NFC.IsNormalString(name) {
		return p.re.MatchString(name)
	}
	return p.re.MatchString(norm.NFC.String(name))
}

// String returns the expression the pattern was compiled from.
func (p *Pattern) String() string {
	return p.source
}

// StarMode returns the `*` semantics the pattern was compiled with.
func (p *Pattern) StarMode() StarMode {
	return p.star
}
