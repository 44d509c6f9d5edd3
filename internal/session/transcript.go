package session

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
)

// DefaultTranscriptWindow bounds how much of a transcript is read from
// the tail, so a multi-gigabyte transcript never gets read in full.
const DefaultTranscriptWindow = 4 << 20 // 4 MiB

// TodoItem is one entry of a TodoWrite-style record.
type TodoItem struct {
	Content string `json:"content"`
	Status  string `json:"status"` // "pending" | "in_progress" | "completed"
}

// transcriptLine is the subset of a transcript NDJSON record this engine
// reads. TodoWrite calls may appear either as a flat tool-use record
// (tool_name/tool_input, matching the host's PostToolUse shape) or
// nested under an assistant message's content blocks; both are checked.
type transcriptLine struct {
	ToolName  string `json:"tool_name"`
	ToolInput struct {
		Todos []TodoItem `json:"todos"`
	} `json:"tool_input"`
	Message struct {
		Content []struct {
			Type  string `json:"type"`
			Name  string `json:"name"`
			Input struct {
				Todos []TodoItem `json:"todos"`
			} `json:"input"`
		} `json:"content"`
	} `json:"message"`
}

// ReadTranscriptTail opens path and returns up to window bytes from its
// end, trimmed to start at a line boundary so every returned line is
// complete NDJSON.
func ReadTranscriptTail(path string, window int64) ([]byte, error) {
	if window <= 0 {
		window = DefaultTranscriptWindow
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("session: open transcript: %w", err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("session: stat transcript: %w", err)
	}

	size := info.Size()
	start := int64(0)
	if size > window {
		start = size - window
	}

	buf := make([]byte, size-start)
	if _, err := f.ReadAt(buf, start); err != nil {
		return nil, fmt.Errorf("session: read transcript tail: %w", err)
	}

	if start > 0 {
		if idx := bytes.IndexByte(buf, '\n'); idx >= 0 {
			buf = buf[idx+1:]
		}
	}

	return buf, nil
}

// LatestTodos scans NDJSON tail data for the most recent TodoWrite-style
// record and returns its todo list. ok is false when no such record is
// present in the window.
func LatestTodos(tail []byte) (todos []TodoItem, ok bool) {
	lines := bytes.Split(tail, []byte("\n"))
	for i := len(lines) - 1; i >= 0; i-- {
		line := bytes.TrimSpace(lines[i])
		if len(line) == 0 {
			continue
		}
		var rec transcriptLine
		if err := json.Unmarshal(line, &rec); err != nil {
			continue
		}
		if rec.ToolName == "TodoWrite" {
			return rec.ToolInput.Todos, true
		}
		for _, block := range rec.Message.Content {
			if block.Type == "tool_use" && block.Name == "TodoWrite" {
				return block.Input.Todos, true
			}
		}
	}
	return nil, false
}
