package codectx

import (
	"strings"
	"testing"
)

func TestOutline_JavaScript(t *testing.T) {
	e := New()
	if err := e.Init(); err != nil {
		t.Fatalf("Init error: %v", err)
	}
	defer e.Close()

	content := strings.Join([]string{
		"import x from 'y'",
		"export function handler(req) {",
		"  return x",
		"}",
		"class Store {",
		"}",
		"const cache = new Map()",
	}, "\n")

	out := e.Outline(content, "app.js", 10)
	if !strings.Contains(out, "line 2: function handler") {
		t.Errorf("missing function entry: %q", out)
	}
	if !strings.Contains(out, "line 5: class Store") {
		t.Errorf("missing class entry: %q", out)
	}
	if !strings.Contains(out, "line 7: const cache") {
		t.Errorf("missing const entry: %q", out)
	}
}

func TestOutline_Go(t *testing.T) {
	e := New()
	if err := e.Init(); err != nil {
		t.Fatalf("Init error: %v", err)
	}
	defer e.Close()

	content := "package main\n\nfunc main() {\n}\n\ntype Config struct {\n}"
	out := e.Outline(content, "main.go", 10)
	if !strings.Contains(out, "line 3: func main") {
		t.Errorf("missing func entry: %q", out)
	}
	if !strings.Contains(out, "line 6: type Config") {
		t.Errorf("missing type entry: %q", out)
	}
}

func TestOutline_CapAndEmpty(t *testing.T) {
	e := New()
	if err := e.Init(); err != nil {
		t.Fatalf("Init error: %v", err)
	}
	defer e.Close()

	var b strings.Builder
	for i := 0; i < 30; i++ {
		b.WriteString("function f")
		b.WriteByte(byte('a' + i%26))
		b.WriteString("() {}\n")
	}
	out := e.Outline(b.String(), "many.js", 5)
	if n := len(strings.Split(out, "\n")); n != 5 {
		t.Errorf("got %d outline entries, want 5", n)
	}

	if out := e.Outline("1\n2\n3", "data.js", 5); out != "" {
		t.Errorf("expected empty outline, got %q", out)
	}
}

func TestOutline_ParsedTreeResolvesDefaultExport(t *testing.T) {
	content := "export default class Session {\n}\nconst token = load()"

	e := New()
	if err := e.Init(); err != nil {
		t.Fatalf("Init error: %v", err)
	}
	defer e.Close()

	out := e.Outline(content, "session.js", 10)
	if !strings.Contains(out, "line 1: class Session") {
		t.Errorf("missing default-exported class: %q", out)
	}
	if !strings.Contains(out, "line 3: const token") {
		t.Errorf("missing const entry: %q", out)
	}
}

func TestOutline_NoGrammarFallsBackToLineScan(t *testing.T) {
	content := "export default class Session {\n}\nconst token = load()"

	// No Init: nothing is bound, so the outline comes from the line scan,
	// which cannot see through `export default`.
	e := New()
	defer e.Close()

	out := e.Outline(content, "session.js", 10)
	if strings.Contains(out, "class Session") {
		t.Errorf("line scan resolved a default export: %q", out)
	}
	if !strings.Contains(out, "line 3: const token") {
		t.Errorf("missing const entry: %q", out)
	}
}

func TestSurroundingLines(t *testing.T) {
	content := "one\ntwo\nthree\nfour\nfive"
	out := SurroundingLines(content, 3, 1)
	if !strings.Contains(out, ">>>    3: three") {
		t.Errorf("target line not marked: %q", out)
	}
	if !strings.Contains(out, "   2: two") || !strings.Contains(out, "   4: four") {
		t.Errorf("context lines missing: %q", out)
	}
	if strings.Contains(out, "one") || strings.Contains(out, "five") {
		t.Errorf("context window too wide: %q", out)
	}
}

func TestSurroundingLines_OutOfRange(t *testing.T) {
	if out := SurroundingLines("only", 10, 2); out != "" {
		t.Errorf("out-of-range line produced content: %q", out)
	}
}
