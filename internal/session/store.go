// Package session implements the per-session append-only event log and
// rolling stats file.
package session

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// DefaultMaxLogBytes is the byte budget at which events.ndjson rotates.
// Rotation is size-based, never time-based; see DESIGN.md for why this
// figure was chosen.
const DefaultMaxLogBytes = 16 << 20 // 16 MiB

// Event is one record appended to events.ndjson.
type Event struct {
	Timestamp  time.Time `json:"ts"`
	HookID     string    `json:"hookId"`
	Event      string    `json:"event"`
	Root       string    `json:"root"`
	DurationMS int64     `json:"durationMs"`
	ExitCode   int       `json:"exitCode"`
	Decision   string    `json:"decision,omitempty"` // "block" for a JSON block decision (e.g. check-todos)
	StderrTail string    `json:"stderrTail,omitempty"`
}

// Stats is the small rolling-aggregate file written alongside the log.
type Stats struct {
	Runs          int            `json:"runs"`
	Blocks        int            `json:"blocks"`
	Failures      int            `json:"failures"`
	TotalMS       int64          `json:"totalMs"`
	AvgMS         float64        `json:"avgMs"`
	PerHookRuns   map[string]int `json:"perHookRuns"`
	LastUpdatedAt time.Time      `json:"lastUpdatedAt"`
}

// Store writes to one session's log directory. Writes are best-effort:
// a failure here must never block or fail a hook invocation.
type Store struct {
	mu         sync.Mutex
	dir        string
	maxLogSize int64
}

// baseDir returns ~/.claudekit/logs, honoring $HOME.
func baseDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".claudekit", "logs"), nil
}

// Open returns a Store for sessionID, creating its log directory. When
// the home directory cannot be resolved or sessionID is empty, a shared
// directory under the system temp dir is used instead. A failure to
// create the directory is ignored: the Store is still returned and its
// later writes fail silently.
func Open(sessionID string) *Store {
	return OpenWithMaxLogSize(sessionID, DefaultMaxLogBytes)
}

// OpenWithMaxLogSize is Open with an explicit rotation budget, used by tests.
func OpenWithMaxLogSize(sessionID string, maxLogSize int64) *Store {
	base, err := baseDir()
	dir := filepath.Join(base, sessionID)
	if err != nil || sessionID == "" {
		dir = filepath.Join(os.TempDir(), "claudekit-logs", "anon")
	}
	_ = os.MkdirAll(dir, 0o755)
	return &Store{dir: dir, maxLogSize: maxLogSize}
}

// Dir returns the session's log directory.
func (s *Store) Dir() string { return s.dir }

func (s *Store) logPath() string { return filepath.Join(s.dir, "events.ndjson") }
func (s *Store) statsPath() string { return filepath.Join(s.dir, "stats.json") }

// Append writes one event record and updates stats.json. Both steps are
// best-effort: errors are swallowed (logged to nothing) because a
// diagnostics write must never fail the hook invocation it describes.
func (s *Store) Append(ev Event) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.rotateIfNeeded()
	s.appendEvent(ev)
	s.updateStats(ev)
}

func (s *Store) appendEvent(ev Event) {
	f, err := os.OpenFile(s.logPath(), os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return
	}
	defer f.Close()

	logger := zerolog.New(f)
	logger.Log().
		Time("ts", ev.Timestamp).
		Str("hookId", ev.HookID).
		Str("event", ev.Event).
		Str("root", ev.Root).
		Int64("durationMs", ev.DurationMS).
		Int("exitCode", ev.ExitCode).
		Str("decision", ev.Decision).
		Str("stderrTail", ev.StderrTail).
		Msg("hook")
}

// rotateIfNeeded renames events.ndjson to events.1.ndjson (replacing any
// earlier events.1.ndjson) once it reaches maxLogSize, keeping exactly
// one prior generation; the next append starts a fresh events.ndjson.
func (s *Store) rotateIfNeeded() {
	info, err := os.Stat(s.logPath())
	if err != nil || info.Size() < s.maxLogSize {
		return
	}
	rotated := filepath.Join(s.dir, "events.1.ndjson")
	_ = os.Remove(rotated)
	_ = os.Rename(s.logPath(), rotated)
}

// updateStats reads, mutates, and atomically rewrites stats.json.
func (s *Store) updateStats(ev Event) {
	stats := s.readStats()
	stats.Runs++
	if ev.ExitCode == 2 {
		stats.Failures++
	}
	if ev.Decision == "block" {
		stats.Blocks++
	}
	stats.TotalMS += ev.DurationMS
	if stats.Runs > 0 {
		stats.AvgMS = float64(stats.TotalMS) / float64(stats.Runs)
	}
	if stats.PerHookRuns == nil {
		stats.PerHookRuns = map[string]int{}
	}
	stats.PerHookRuns[ev.HookID]++
	stats.LastUpdatedAt = ev.Timestamp

	data, err := json.MarshalIndent(stats, "", "  ")
	if err != nil {
		return
	}
	tmp := s.statsPath() + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return
	}
	_ = os.Rename(tmp, s.statsPath())
}

func (s *Store) readStats() Stats {
	data, err := os.ReadFile(s.statsPath())
	if err != nil {
		return Stats{PerHookRuns: map[string]int{}}
	}
	var st Stats
	if err := json.Unmarshal(data, &st); err != nil {
		return Stats{PerHookRuns: map[string]int{}}
	}
	if st.PerHookRuns == nil {
		st.PerHookRuns = map[string]int{}
	}
	return st
}

// ReadStats returns the session's current stats, or a zero value if none
// has been written yet.
func (s *Store) ReadStats() (Stats, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	data, err := os.ReadFile(s.statsPath())
	if err != nil {
		if os.IsNotExist(err) {
			return Stats{PerHookRuns: map[string]int{}}, nil
		}
		return Stats{}, fmt.Errorf("session: read stats: %w", err)
	}
	var st Stats
	if err := json.Unmarshal(data, &st); err != nil {
		return Stats{}, fmt.Errorf("session: parse stats: %w", err)
	}
	return st, nil
}
