package sanitize

import "testing"

func TestSanitizePreservesLengthAndNewlines(t *testing.T) {
	text := "// eval(\"bad\")\n\"eval('str')\"\neval(userInput);\n"
	got := Sanitize(text, JavaScript)
	if len(got) != len(text) {
		t.Fatalf("length mismatch: got %d want %d", len(got), len(text))
	}
	for i := range text {
		if text[i] == '\n' && got[i] != '\n' {
			t.Fatalf("newline at %d not preserved", i)
		}
	}
}

func TestSanitizeBlanksLineComment(t *testing.T) {
	src := "x()\n// eval(x)\ny()\n"
	got := Sanitize(src, JavaScript)
	if containsSub(got, "eval") {
		t.Fatalf("expected comment blanked, got %q", got)
	}
	if len(got) != len(src) {
		t.Fatalf("length mismatch: got %d want %d", len(got), len(src))
	}
	if got[3] != '\n' || got[14] != '\n' || got[len(got)-1] != '\n' {
		t.Fatalf("newlines not preserved in %q", got)
	}
}

func TestSanitizeBlanksBlockComment(t *testing.T) {
	got := Sanitize("a /* eval(\nx) */ b", JavaScript)
	for _, w := range []string{"eval", "x)"} {
		if containsSub(got, w) {
			t.Fatalf("expected %q blanked, got %q", w, got)
		}
	}
}

func TestSanitizeBlanksStringLiterals(t *testing.T) {
	got := Sanitize(`eval("eval('nested')")`, JavaScript)
	if !containsSub(got, "eval(") {
		t.Fatalf("expected the real eval( call preserved, got %q", got)
	}
	// only one occurrence of eval( should remain (the real call)
	count := 0
	for i := 0; i+5 <= len(got); i++ {
		if got[i:i+5] == "eval(" {
			count++
		}
	}
	if count != 1 {
		t.Fatalf("expected exactly 1 eval( outside strings, got %d in %q", count, got)
	}
}

func TestSanitizePythonTripleQuote(t *testing.T) {
	src := "x = '''has ' single quote inside''' \ny = 1\n"
	got := Sanitize(src, Python)
	if len(got) != len(src) {
		t.Fatalf("length mismatch")
	}
	if containsSub(got, "single") {
		t.Fatalf("expected triple-quoted content blanked, got %q", got)
	}
}

func TestSanitizeUnterminatedStringBlanksToEOF(t *testing.T) {
	src := "a = \"never closed"
	got := Sanitize(src, JavaScript)
	if containsSub(got, "never") {
		t.Fatalf("expected unterminated string blanked to EOF, got %q", got)
	}
}

func TestSanitizeIdempotentLength(t *testing.T) {
	src := "import os\n# comment\nx = 'str'\n"
	got := Sanitize(src, Python)
	got2 := Sanitize(got, Python)
	if len(got2) != len(got) {
		t.Fatalf("sanitizing twice changed length")
	}
}

func containsSub(s, sub string) bool {
	for i := 0; i+len(sub) <= len(s); i++ {
		if s[i:i+len(sub)] == sub {
			return true
		}
	}
	return false
}
