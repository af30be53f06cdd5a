// Package output writes search matches to a stream, one path per line.
package output

import (
	"io"
	"os"
	"strings"
	"sync"

	"github.com/TFMV/wildfind/internal/walk"
	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
)

// ColorMode controls whether matched names are highlighted.
type ColorMode int

const (
	ColorAuto   ColorMode = iota // Highlight when writing to a terminal
	ColorAlways                  // Always highlight
	ColorNever                   // Never highlight
)

// ParseColorMode maps "auto", "always" or "never" to a ColorMode.
func ParseColorMode(s string) (ColorMode, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "auto":
		return ColorAuto, true
	case "always":
		return ColorAlways, true
	case "never":
		return ColorNever, true
	default:
		return ColorAuto, false
	}
}

// Printer serialises matches to a writer. Each line is written with a single
// Write call under a lock, so concurrent matches never interleave.
type Printer struct {
	mu    sync.Mutex
	w     io.Writer
	buf   []byte
	dir   *color.Color
	name  *color.Color
	color bool
	err   error
}

// NewPrinter returns a Printer writing to w.
func NewPrinter(w io.Writer, mode ColorMode) *Printer {
	p := &Printer{
		w:     w,
		color: useColor(w, mode),
		dir:   color.New(color.FgBlue, color.Bold),
		name:  color.New(color.FgGreen, color.Bold),
	}
	if p.color {
		p.dir.EnableColor()
		p.name.EnableColor()
	}
	return p
}

func useColor(w io.Writer, mode ColorMode) bool {
	switch mode {
	case ColorAlways:
		return true
	case ColorNever:
		return false
	}
	if _, ok := os.LookupEnv("NO_COLOR"); ok {
		return false
	}
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// Handle writes the path of m followed by a newline. After the first write
// error further matches are dropped; the error is available from Err.
func (p *Printer) Handle(m walk.Match) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.err != nil {
		return
	}

	p.buf = p.buf[:0]
	if p.color {
		p.buf = append(p.buf, p.highlight(m)...)
	} else {
		p.buf = append(p.buf, m.Path...)
	}
	p.buf = append(p.buf, '\n')

	if _, err := p.w.Write(p.buf); err != nil {
		p.err = err
	}
}

// highlight colours the base name of the match, and the whole name in the
// directory colour when the match is itself a directory.
func (p *Printer) highlight(m walk.Match) string {
	if !strings.HasSuffix(m.Path, m.Name) {
		return m.Path
	}
	parent := m.Path[:len(m.Path)-len(m.Name)]

	c := p.name
	if m.IsDir {
		c = p.dir
	}
	return parent + c.Sprint(m.Name)
}

// Err returns the first error encountered while writing.
func (p *Printer) Err() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.err
}
