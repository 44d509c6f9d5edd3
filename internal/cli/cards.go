package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
)

var (
	ckPrimary = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#1D4ED8", Dark: "#60A5FA"})
	ckBorder  = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#D1D5DB", Dark: "#4B5563"})
	ckMuted   = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#6B7280", Dark: "#9CA3AF"})
)

func colorEnabled() bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	return isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd())
}

func cardStyle() lipgloss.Style {
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ckBorder.GetForeground()).
		Padding(0, 2)
}

// renderCard renders content in a titled, rounded-border box when
// stdout is a color-capable terminal, or as plain text otherwise.
func renderCard(title, content string) string {
	if !colorEnabled() {
		return fmt.Sprintf("%s\n\n%s", title, content)
	}
	titleLine := ckPrimary.Bold(true).Render(title)
	return cardStyle().Render(titleLine + "\n\n" + content)
}

type kvPair struct {
	Key   string
	Value string
}

func renderKeyValueLines(pairs []kvPair) string {
	width := 0
	for _, p := range pairs {
		if len(p.Key) > width {
			width = len(p.Key)
		}
	}
	var b strings.Builder
	for i, p := range pairs {
		if i > 0 {
			b.WriteString("\n")
		}
		key := p.Key + strings.Repeat(" ", width-len(p.Key))
		if colorEnabled() {
			b.WriteString(ckMuted.Render(key) + "  " + p.Value)
		} else {
			b.WriteString(key + "  " + p.Value)
		}
	}
	return b.String()
}
