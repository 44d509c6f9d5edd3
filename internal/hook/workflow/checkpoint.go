// Package workflow implements the git-checkpoint and todo-completion
// gate hooks: create-checkpoint, check-todos.
package workflow

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/claudekit-dev/claudekit/internal/hook"
	"github.com/claudekit-dev/claudekit/internal/procrun"
)

const (
	defaultPrefix         = "claudekit"
	defaultMaxCheckpoints = 10
	checkpointTimeout     = 10 * time.Second
)

type createCheckpoint struct{}

// NewCreateCheckpoint returns the create-checkpoint handler.
func NewCreateCheckpoint() hook.Handler { return createCheckpoint{} }

func (createCheckpoint) Descriptor() hook.Descriptor {
	return hook.Descriptor{
		ID:             "create-checkpoint",
		DisplayName:    "Create checkpoint",
		Description:    "Snapshots a dirty working tree into a prefixed stash entry without touching the index or worktree.",
		Category:       hook.CategoryGit,
		TriggerEvent:   "Stop",
		Dependencies:   []string{"git"},
		DefaultTimeout: checkpointTimeout,
	}
}

// Execute implements the non-destructive checkpoint strategy from spec
// §4.7: `git stash create` to produce a commit-ish, then `git stash
// store` to register it under a discoverable message, never `stash
// pop`/`stash drop` on the user's own entries. Idempotent: running this
// twice simply records two stash entries, subject to maxCheckpoints.
func (createCheckpoint) Execute(hc *hook.Context) (hook.Result, error) {
	if hc.Tools == nil || !hc.Tools.Git {
		hc.progress("create-checkpoint", "no git repository detected — skipping")
		return hook.Allow(), nil
	}

	dirty, err := isDirty(hc)
	if err != nil {
		hc.progress("create-checkpoint", "could not inspect working tree — skipping: "+err.Error())
		return hook.Allow(), nil
	}
	if !dirty {
		return hook.Allow(), nil
	}

	prefix := hc.Settings.ExtraString("prefix", defaultPrefix)
	maxCheckpoints := hc.Settings.ExtraInt("maxCheckpoints", defaultMaxCheckpoints)

	sha, err := stashCreate(hc)
	if err != nil {
		hc.progress("create-checkpoint", "git stash create failed — skipping: "+err.Error())
		return hook.Allow(), nil
	}
	if sha == "" {
		// Nothing stash-worthy (e.g. only untracked files git stash
		// create ignores by default); nothing to do.
		return hook.Allow(), nil
	}

	message := fmt.Sprintf("%s: %s", prefix, time.Now().UTC().Format(time.RFC3339))
	if err := stashStore(hc, sha, message); err != nil {
		hc.progress("create-checkpoint", "git stash store failed — skipping: "+err.Error())
		return hook.Allow(), nil
	}

	enforceMaxCheckpoints(hc, prefix, maxCheckpoints)
	return hook.Allow(), nil
}

type stashEntry struct {
	index   int
	ref     string
	message string
}

var stashListLineRE = regexp.MustCompile(`^stash@\{(\d+)\}: (.*)$`)

func isDirty(hc *hook.Context) (bool, error) {
	res, err := gitRun(hc, checkpointTimeout, "status", "--porcelain")
	if err != nil {
		return false, err
	}
	return strings.TrimSpace(res.Stdout) != "", nil
}

func stashCreate(hc *hook.Context) (string, error) {
	res, err := gitRun(hc, checkpointTimeout, "stash", "create")
	if err != nil {
		return "", err
	}
	if res.ExitCode != 0 {
		return "", fmt.Errorf("workflow: git stash create exited %d: %s", res.ExitCode, res.Stderr)
	}
	return strings.TrimSpace(res.Stdout), nil
}

func stashStore(hc *hook.Context, sha, message string) error {
	res, err := gitRun(hc, checkpointTimeout, "stash", "store", "-m", message, sha)
	if err != nil {
		return err
	}
	if res.ExitCode != 0 {
		return fmt.Errorf("workflow: git stash store exited %d: %s", res.ExitCode, res.Stderr)
	}
	return nil
}

// listPrefixedStashes returns every stash entry whose message begins
// with "<prefix>:", freshly scanned — never cached — so a concurrent
// drop is always observed before acting on an index.
func listPrefixedStashes(hc *hook.Context, prefix string) ([]stashEntry, error) {
	res, err := gitRun(hc, checkpointTimeout, "stash", "list")
	if err != nil {
		return nil, err
	}
	if res.ExitCode != 0 {
		return nil, fmt.Errorf("workflow: git stash list exited %d: %s", res.ExitCode, res.Stderr)
	}

	var entries []stashEntry
	for _, line := range strings.Split(res.Stdout, "\n") {
		line = strings.TrimRight(line, "\r")
		if line == "" {
			continue
		}
		m := stashListLineRE.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		idx, _ := strconv.Atoi(m[1])
		// Entries registered with `git stash store -m` list their message
		// verbatim; entries made by `git stash push` carry an
		// "On <branch>: " lead-in before it.
		message := m[2]
		if parts := strings.SplitN(m[2], ": ", 2); !strings.HasPrefix(message, prefix+":") && len(parts) == 2 {
			message = parts[1]
		}
		if !strings.HasPrefix(message, prefix+":") {
			continue
		}
		entries = append(entries, stashEntry{index: idx, ref: fmt.Sprintf("stash@{%d}", idx), message: message})
	}
	return entries, nil
}

// enforceMaxCheckpoints drops the oldest prefixed entries one at a time,
// re-listing before every drop: stashes are identified by message at
// the moment of dropping, never by a cached numeric index, and races
// where a concurrent run already removed the target are swallowed.
func enforceMaxCheckpoints(hc *hook.Context, prefix string, maxCheckpoints int) {
	if maxCheckpoints <= 0 {
		return
	}
	for {
		entries, err := listPrefixedStashes(hc, prefix)
		if err != nil || len(entries) <= maxCheckpoints {
			return
		}
		sort.Slice(entries, func(i, j int) bool { return entries[i].index > entries[j].index })
		oldest := entries[0]
		res, err := gitRun(hc, checkpointTimeout, "stash", "drop", oldest.ref)
		if err != nil || res.ExitCode != 0 {
			// Already dropped by a concurrent run, or transient
			// failure: stop rather than risk dropping the wrong entry
			// against a stale index.
			return
		}
	}
}

func gitRun(hc *hook.Context, timeout time.Duration, args ...string) (*procrun.Result, error) {
	return procrun.Run(hc.Ctx, "git", args, procrun.Options{Dir: hc.Root, Timeout: timeout})
}
