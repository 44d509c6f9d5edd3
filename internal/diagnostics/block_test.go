package diagnostics

import (
	"bytes"
	"strings"
	"testing"
)

func TestBlock_RenderPlainNonTerminal(t *testing.T) {
	b := Block{
		Title:   "Type errors",
		Body:    "src/b.ts: Type 'string' is not assignable to type 'number'.",
		FixList: []string{"Fix the reported type errors.", "Re-run the hook."},
	}
	var buf bytes.Buffer
	out := b.Render(&buf)
	if !strings.Contains(out, "Error: Type errors") {
		t.Errorf("missing title: %q", out)
	}
	if !strings.Contains(out, "How to fix:") {
		t.Errorf("missing fix list header: %q", out)
	}
	if !strings.Contains(out, "1. Fix the reported type errors.") {
		t.Errorf("missing numbered step: %q", out)
	}
	if strings.Contains(out, "\x1b[") {
		t.Errorf("plain (non-terminal) render should contain no ANSI escapes: %q", out)
	}
}

func TestBlock_RenderWithoutFixList(t *testing.T) {
	b := Block{Title: "ESLint not detected", Body: "skipping lint-changed"}
	var buf bytes.Buffer
	out := b.Render(&buf)
	if strings.Contains(out, "How to fix:") {
		t.Errorf("unexpected fix list header: %q", out)
	}
}

func TestProgress_PrefixesHookID(t *testing.T) {
	var buf bytes.Buffer
	Progress(&buf, "lint-changed", "running eslint")
	if buf.String() != "[lint-changed] running eslint\n" {
		t.Errorf("got %q", buf.String())
	}
}
