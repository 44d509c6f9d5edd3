// Package hookio decodes the JSON event payload the host writes to
// stdin for each hook invocation.
package hookio

import (
	"encoding/json"
	"io"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// MaxPayloadBytes bounds how much of stdin is read before truncation.
const MaxPayloadBytes = 1 << 20 // 1 MiB

// EventType identifies the kind of lifecycle/tool-use event the host sent.
type EventType string

const (
	EventPostToolUse      EventType = "PostToolUse"
	EventPreToolUse       EventType = "PreToolUse"
	EventStop             EventType = "Stop"
	EventSubagentStop     EventType = "SubagentStop"
	EventUserPromptSubmit EventType = "UserPromptSubmit"
	EventSessionStart     EventType = "SessionStart"
)

// rawPayload mirrors the subset of the host's hook event schema this
// engine consumes. Unknown fields are tolerated by the JSON decoder.
type rawPayload struct {
	HookEventName  string          `json:"hook_event_name"`
	ToolName       string          `json:"tool_name"`
	ToolInput      json.RawMessage `json:"tool_input"`
	TranscriptPath string          `json:"transcript_path"`
	SessionID      string          `json:"session_id"`
	StopHookActive bool            `json:"stop_hook_active"`
	CWD            string          `json:"cwd"`
}

type toolInputFile struct {
	FilePath string `json:"file_path"`
}

// Payload is the decoded, normalized event the rest of the engine operates on.
type Payload struct {
	EventType      EventType
	ToolName       string
	FilePath       string // normalized absolute path, empty if not present
	TranscriptPath string
	SessionID      string
	StopHookActive bool
	CWD            string
	Truncated      bool // stdin exceeded MaxPayloadBytes
	Empty          bool // stdin was empty/unparseable; caller proceeds with no payload
}

// DecodeStdin reads and decodes the event payload from os.Stdin.
func DecodeStdin() (*Payload, error) {
	return Decode(os.Stdin)
}

// Decode reads at most MaxPayloadBytes from r and parses it as the host's
// JSON event schema. A parse failure or empty body is not an error: per
// spec, the engine proceeds with an empty payload (PayloadInvalid is a
// warning, not fatal).
func Decode(r io.Reader) (*Payload, error) {
	limited := io.LimitReader(r, MaxPayloadBytes+1)
	data, err := io.ReadAll(limited)
	if err != nil {
		return nil, err
	}

	truncated := false
	if len(data) > MaxPayloadBytes {
		data = data[:MaxPayloadBytes]
		truncated = true
	}

	trimmed := strings.TrimSpace(string(data))
	if trimmed == "" {
		return &Payload{Empty: true, SessionID: newFallbackSessionID(), Truncated: truncated}, nil
	}

	var raw rawPayload
	if err := json.Unmarshal([]byte(trimmed), &raw); err != nil {
		return &Payload{Empty: true, SessionID: newFallbackSessionID(), Truncated: truncated}, nil
	}
	if raw.HookEventName == "" {
		return &Payload{Empty: true, SessionID: newFallbackSessionID(), Truncated: truncated}, nil
	}

	p := &Payload{
		EventType:      EventType(raw.HookEventName),
		ToolName:       raw.ToolName,
		TranscriptPath: normalizePath(raw.TranscriptPath, raw.CWD),
		SessionID:      raw.SessionID,
		StopHookActive: raw.StopHookActive,
		CWD:            raw.CWD,
		Truncated:      truncated,
	}
	if p.SessionID == "" {
		p.SessionID = newFallbackSessionID()
	}

	if len(raw.ToolInput) > 0 {
		var ti toolInputFile
		if err := json.Unmarshal(raw.ToolInput, &ti); err == nil && ti.FilePath != "" {
			p.FilePath = normalizePath(ti.FilePath, raw.CWD)
		}
	}

	return p, nil
}

// normalizePath expands file:// URLs and ~, then resolves the result
// against cwd so every downstream consumer receives an absolute path.
func normalizePath(raw, cwd string) string {
	if raw == "" {
		return ""
	}

	p := raw
	if u, err := url.Parse(raw); err == nil && u.Scheme == "file" {
		p = u.Path
	}

	if strings.HasPrefix(p, "~/") || p == "~" {
		if home, err := os.UserHomeDir(); err == nil {
			p = filepath.Join(home, strings.TrimPrefix(p, "~"))
		}
	}

	if !filepath.IsAbs(p) {
		base := cwd
		if base == "" {
			base, _ = os.Getwd()
		}
		p = filepath.Join(base, p)
	}

	return filepath.Clean(p)
}

// newFallbackSessionID produces a process-local session identifier when
// the host omits session_id, so the session store never collides across
// two otherwise-anonymous invocations.
func newFallbackSessionID() string {
	return "anon-" + uuid.NewString()
}
