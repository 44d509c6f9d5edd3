package diagnostics

import (
	"encoding/json"
	"fmt"
	"io"
)

// Decision is the single JSON object a hook may emit on stdout (spec
// §4.8, §8: "exactly one line of stdout ... either empty or a single
// valid JSON object"). Exactly one of Block/Suppress is meaningful.
type Decision struct {
	Block    bool
	Reason   string
	Suppress bool
}

type blockJSON struct {
	Decision string `json:"decision"`
	Reason   string `json:"reason"`
}

type suppressJSON struct {
	SuppressOutput bool `json:"suppressOutput"`
}

// WriteDecision marshals d to w as the one stdout JSON object, or writes
// nothing at all when d is the zero value (plain exit-code protocol).
func WriteDecision(w io.Writer, d Decision) error {
	switch {
	case d.Block:
		return writeJSONLine(w, blockJSON{Decision: "block", Reason: d.Reason})
	case d.Suppress:
		return writeJSONLine(w, suppressJSON{SuppressOutput: true})
	default:
		return nil
	}
}

func writeJSONLine(w io.Writer, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}
