package diagnostics

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
)

func TestWriteDecision_Empty(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteDecision(&buf, Decision{}); err != nil {
		t.Fatal(err)
	}
	if buf.Len() != 0 {
		t.Errorf("expected no stdout output, got %q", buf.String())
	}
}

func TestWriteDecision_Block(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteDecision(&buf, Decision{Block: true, Reason: "1 unfinished todo: Write tests"}); err != nil {
		t.Fatal(err)
	}
	line := strings.TrimSpace(buf.String())
	if strings.Count(buf.String(), "\n") != 1 {
		t.Errorf("expected exactly one line of stdout, got %q", buf.String())
	}
	var got map[string]any
	if err := json.Unmarshal([]byte(line), &got); err != nil {
		t.Fatalf("not valid JSON: %v", err)
	}
	if got["decision"] != "block" || got["reason"] != "1 unfinished todo: Write tests" {
		t.Errorf("unexpected shape: %+v", got)
	}
}

func TestWriteDecision_Suppress(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteDecision(&buf, Decision{Suppress: true}); err != nil {
		t.Fatal(err)
	}
	var got map[string]any
	if err := json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &got); err != nil {
		t.Fatalf("not valid JSON: %v", err)
	}
	if got["suppressOutput"] != true {
		t.Errorf("unexpected shape: %+v", got)
	}
}
