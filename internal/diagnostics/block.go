package diagnostics

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
)

// Block is a single error/warning report shown to the assistant or the
// developer testing a hook locally: a title, a free-text body, and a
// numbered remediation list, rendered as a "████ Error: <Title> ████" block.
type Block struct {
	Title   string
	Body    string
	FixList []string
}

var (
	blockTitle = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#B91C1C", Dark: "#F87171"}).Bold(true)
	blockFix   = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#6B7280", Dark: "#9CA3AF"})
)

// colorEnabled reports whether ANSI styling should be applied: the
// destination is a real terminal and NO_COLOR is unset.
func colorEnabled(w io.Writer) bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// Render formats the block as plain or styled text depending on w.
func (b Block) Render(w io.Writer) string {
	var body strings.Builder
	body.WriteString(b.Body)
	if len(b.FixList) > 0 {
		body.WriteString("\n\nHow to fix:\n")
		for i, step := range b.FixList {
			fmt.Fprintf(&body, "%d. %s\n", i+1, step)
		}
	}

	if !colorEnabled(w) {
		return fmt.Sprintf("████ Error: %s ████\n\n%s", b.Title, strings.TrimRight(body.String(), "\n"))
	}

	title := blockTitle.Render(fmt.Sprintf("████ Error: %s ████", b.Title))
	rendered := body.String()
	if len(b.FixList) > 0 {
		lines := strings.SplitN(rendered, "How to fix:\n", 2)
		if len(lines) == 2 {
			rendered = lines[0] + blockFix.Render("How to fix:") + "\n" + lines[1]
		}
	}
	return title + "\n\n" + strings.TrimRight(rendered, "\n")
}

// WriteBlock renders b to w followed by a trailing newline.
func WriteBlock(w io.Writer, b Block) {
	fmt.Fprintln(w, b.Render(w))
}

// Progress writes a single hook-id-tagged progress line to w.
func Progress(w io.Writer, hookID, message string) {
	fmt.Fprintf(w, "[%s] %s\n", hookID, message)
}
