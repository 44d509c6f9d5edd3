package workflow

import (
	"fmt"
	"strings"
	"time"

	"github.com/claudekit-dev/claudekit/internal/hook"
	"github.com/claudekit-dev/claudekit/internal/session"
)

type checkTodos struct{}

// NewCheckTodos returns the check-todos handler.
func NewCheckTodos() hook.Handler { return checkTodos{} }

func (checkTodos) Descriptor() hook.Descriptor {
	return hook.Descriptor{
		ID:             "check-todos",
		DisplayName:    "Check unfinished todos",
		Description:    "Blocks Stop when the latest TodoWrite record still has pending or in-progress items.",
		Category:       hook.CategoryWorkflow,
		TriggerEvent:   "Stop",
		DefaultTimeout: 5 * time.Second,
	}
}

// Execute reads only the tail window of the transcript, so a huge
// session transcript never gets read in full. A missing
// transcript, an empty todo list, or an all-done list all silently
// allow; only unfinished items emit the stdout block decision.
func (checkTodos) Execute(hc *hook.Context) (hook.Result, error) {
	if hc.Payload == nil || hc.Payload.TranscriptPath == "" {
		return hook.Allow(), nil
	}

	window := int64(hc.Settings.ExtraInt("transcriptWindowBytes", session.DefaultTranscriptWindow))
	tail, err := session.ReadTranscriptTail(hc.Payload.TranscriptPath, window)
	if err != nil {
		hc.progress("check-todos", "transcript not available — skipping: "+err.Error())
		return hook.Allow(), nil
	}

	todos, ok := session.LatestTodos(tail)
	if !ok {
		return hook.Allow(), nil
	}

	var unfinished []string
	for _, item := range todos {
		if item.Status == "in_progress" || item.Status == "pending" {
			unfinished = append(unfinished, item.Content)
		}
	}
	if len(unfinished) == 0 {
		return hook.Allow(), nil
	}

	noun := "todo"
	if len(unfinished) != 1 {
		noun = "todos"
	}
	reason := fmt.Sprintf("%d unfinished %s: %s", len(unfinished), noun, strings.Join(unfinished, ", "))
	return hook.Block(reason), nil
}
