package pattern

import (
	"errors"
	"testing"
)

func TestPatternMatch(t *testing.T) {
	testCases := []struct {
		pattern string
		name    string
		want    bool
	}{
		// Anchoring
		{"foo", "foo", true},
		{"foo", "foobar", false},
		{"foo", "xfoo", false},

		// Wildcards
		{"*.txt", "a.txt", true},
		{"*.txt", "report.txt", true},
		{"*.txt", "a.txtx", false},
		{"*.txt", "a.TXT", false},
		{"*.txt", "atxt", false},
		{"*.txt", ".txt", true},
		{"*", "anything-at_all.x", true},
		{"file.*", "file.go", true},
		{"*.*.go", "file.test.go", true},
		{"*.*.go", "file.go", false},

		// Alternation
		{"*.txt,*.md", "a.txt", true},
		{"*.txt,*.md", "notes.md", true},
		{"*.txt,*.md", "a.pdf", false},
		{"Makefile,*.mk", "Makefile", true},
		{"Makefile,*.mk", "Makefile.bak", false},

		// Newlines are ordinary characters in file names
		{"*", "a\nb", true},
		{"*.txt", "a\nb.txt", true},
		{"a*", "a\n", true},

		// Metacharacters are literals
		{"a+b", "a+b", true},
		{"a+b", "aab", false},
		{"(x)", "(x)", true},
		{"[ab]", "a", false},
		{"[ab]", "[ab]", true},
		{"a?c", "abc", false},
		{"^x$", "^x$", true},
		{`back\slash`, `back\slash`, true},
		{"a|b", "a", false},
		{"a|b", "a|b", true},

		// Empty alternatives match only the empty name
		{"", "", true},
		{"", "a", false},
		{"a,,b", "", true},
		{"a,", "a", true},
	}

	for _, tc := range testCases {
		p, err := Compile(tc.pattern)
		if err != nil {
			t.Fatalf("Compile(%q) failed: %v", tc.pattern, err)
		}
		if got := p.Match(tc.name); got != tc.want {
			t.Errorf("Pattern %q on name %q: got %v, want %v", tc.pattern, tc.name, got, tc.want)
		}
	}
}

func TestPatternTotality(t *testing.T) {
	inputs := []string{
		"", "*", ",", ",,,", "**", "*,*", ".", "..", `\`, `\*`, "(", ")", "[", "]", "{", "}",
		"(?i)x", "a{2}", "$", "^", "|", "+", "?", "\x00", "\xff\xfe", "日本*.txt", "a\nb",
	}
	names := []string{"", "a", "a.txt", "\xff", "日本語.txt", "(", "a\nb", "**"}

	for _, in := range inputs {
		p, err := Compile(in)
		if err != nil {
			t.Errorf("Compile(%q) returned error: %v", in, err)
			continue
		}
		for _, name := range names {
			_ = p.Match(name)
		}
	}
}

func TestStarModes(t *testing.T) {
	testCases := []struct {
		name  string
		any   bool
		alnum bool
	}{
		{"report.txt", true, true},
		{"caf\u00e9.txt", true, true},
		{"cafe\u0301.txt", true, true},
		{"\u65e5\u672c2024.txt", true, true},
		{"a b.txt", true, false},
		{"my-report.txt", true, false},
		{"my_report.txt", true, false},
		{".txt", true, true},
		{"Report2024.txt", true, true},
	}

	anyP := MustCompile("*.txt")
	alnumP := MustCompile("*.txt", WithStarMode(StarAlnum))

	if anyP.StarMode() != StarAny || alnumP.StarMode() != StarAlnum {
		t.Fatalf("unexpected star modes: %v, %v", anyP.StarMode(), alnumP.StarMode())
	}

	for _, tc := range testCases {
		if got := anyP.Match(tc.name); got != tc.any {
			t.Errorf("any: %q got %v, want %v", tc.name, got, tc.any)
		}
		if got := alnumP.Match(tc.name); got != tc.alnum {
			t.Errorf("alnum: %q got %v, want %v", tc.name, got, tc.alnum)
		}
	}
}

func TestPatternNormalization(t *testing.T) {
	// "é" composed (NFC) and decomposed (NFD)
	composed := "caf\u00e9.txt"
	decomposed := "cafe\u0301.txt"

	p := MustCompile(composed)
	if !p.Match(composed) {
		t.Errorf("composed name did not match")
	}
	if !p.Match(decomposed) {
		t.Errorf("decomposed name did not match")
	}

	q := MustCompile("cafe\u0301*")
	if !q.Match(composed) {
		t.Errorf("decomposed pattern did not match composed name")
	}
}

func TestParseStarMode(t *testing.T) {
	if m, err := ParseStarMode("alnum"); err != nil || m != StarAlnum {
		t.Errorf("ParseStarMode(alnum) = %v, %v", m, err)
	}
	if m, err := ParseStarMode(""); err != nil || m != StarAny {
		t.Errorf("ParseStarMode(\"\") = %v, %v", m, err)
	}
	if _, err := ParseStarMode("glob"); !errors.Is(err, ErrInvalidMode) {
		t.Errorf("expected ErrInvalidMode, got %v", err)
	}
}

func TestPatternString(t *testing.T) {
	p := MustCompile("*.go,*.mod")
	if p.String() != "*.go,*.mod" {
		t.Errorf("String() = %q", p.String())
	}
}

func BenchmarkPatternMatch(b *testing.B) {
	p := MustCompile("*.txt,*.md,*.go")
	names := []string{"main.go", "README.md", "notes.txt", "archive.tar.gz", "Makefile"}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		for _, name := range names {
			_ = p.Match(name)
		}
	}
}
