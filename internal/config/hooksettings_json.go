package config

import "encoding/json"

// knownHookSettingKeys are the recognized fields; everything else in a
// hooks.<id> object is preserved verbatim in Extra — unknown keys are
// tolerated, not rejected.
var knownHookSettingKeys = map[string]bool{
	"command":   true,
	"timeout":   true,
	"enabled":   true,
	"extraArgs": true,
}

// UnmarshalJSON decodes the recognized fields into their typed slots and
// stashes anything else (e.g. create-checkpoint's "prefix"/"maxCheckpoints")
// into Extra.
func (s *HookSettings) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	type known struct {
		Command   string   `json:"command"`
		TimeoutMS int      `json:"timeout"`
		Enabled   *bool    `json:"enabled"`
		ExtraArgs []string `json:"extraArgs"`
	}
	var k known
	if err := json.Unmarshal(data, &k); err != nil {
		return err
	}

	s.Command = k.Command
	s.TimeoutMS = k.TimeoutMS
	s.Enabled = k.Enabled
	s.ExtraArgs = k.ExtraArgs
	s.Extra = map[string]any{}

	for key, v := range raw {
		if knownHookSettingKeys[key] {
			continue
		}
		var val any
		if err := json.Unmarshal(v, &val); err == nil {
			s.Extra[key] = val
		}
	}

	return nil
}
