package render

import (
	"strings"
	"testing"
)

func TestMarkdownBasic(t *testing.T) {
	r := New("github")

	out, err := r.Markdown("# Title\n\nSome *emphasis* here.")
	if err != nil {
		t.Fatalf("Markdown: %v", err)
	}
	html := string(out)
	if !strings.Contains(html, "<h1") {
		t.Errorf("expected <h1> in output, got: %s", html)
	}
	if !strings.Contains(html, "<em>emphasis</em>") {
		t.Errorf("expected emphasis in output, got: %s", html)
	}
}

func TestMarkdownFencedCode(t *testing.T) {
	r := New("github")

	out, err := r.Markdown("```go\nfunc main() {}\n```")
	if err != nil {
		t.Fatalf("Markdown: %v", err)
	}
	if !strings.Contains(string(out), "main") {
		t.Errorf("expected fenced sample content to survive, got: %s", out)
	}
}

func TestCodeLineAnchors(t *testing.T) {
	r := New("github")

	out, err := r.Code("package main\n\nfunc main() {}\n", "go")
	if err != nil {
		t.Fatalf("Code: %v", err)
	}
	html := string(out)
	// Linkable line numbers produce id="L-<n>" anchors.
	if !strings.Contains(html, `id="L-1"`) {
		t.Errorf("expected line anchor L-1 in output, got: %s", html)
	}
	if !strings.Contains(html, `id="L-3"`) {
		t.Errorf("expected line anchor L-3 in output, got: %s", html)
	}
}

func TestCodeUnknownLanguage(t *testing.T) {
	r := New("github")

	out, err := r.Code("whatever :: weird ~~~ content", "no-such-language")
	if err != nil {
		t.Fatalf("Code should fall back for unknown language: %v", err)
	}
	if !strings.Contains(string(out), "whatever") {
		t.Errorf("expected content to pass through, got: %s", out)
	}
}

func TestUnknownThemeFallsBack(t *testing.T) {
	r := New("no-such-theme")

	if _, err := r.Code("x = 1\n", "python"); err != nil {
		t.Fatalf("Code with fallback style: %v", err)
	}
}
