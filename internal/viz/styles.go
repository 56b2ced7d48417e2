package viz

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Styles are the lipgloss styles derived from a Theme.
type Styles struct {
	Title    lipgloss.Style
	Subtitle lipgloss.Style
	Card     lipgloss.Style
	CardHead lipgloss.Style
	ChipKey  lipgloss.Style
	ChipVal  lipgloss.Style
	Bucket   lipgloss.Style
	BucketHd lipgloss.Style
	Stage    lipgloss.Style
	Done     lipgloss.Style
	Input    lipgloss.Style
	Editing  lipgloss.Style
	Muted    lipgloss.Style
	Help     lipgloss.Style
}

func NewStyles(t Theme) Styles {
	return Styles{
		Title:    lipgloss.NewStyle().Bold(true).Foreground(t.Title),
		Subtitle: lipgloss.NewStyle().Foreground(t.Muted).MarginBottom(1),
		Card: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(t.Border).
			Padding(0, 1),
		CardHead: lipgloss.NewStyle().Bold(true).Foreground(t.Title).MarginBottom(1),
		ChipKey:  lipgloss.NewStyle().Bold(true).Foreground(t.Key),
		ChipVal:  lipgloss.NewStyle().Foreground(t.Value),
		Bucket: lipgloss.NewStyle().
			Border(lipgloss.NormalBorder()).
			BorderForeground(t.Bucket).
			Padding(0, 1),
		BucketHd: lipgloss.NewStyle().Bold(true).Foreground(t.Bucket),
		Stage:    lipgloss.NewStyle().Bold(true).Foreground(t.Stage).MarginTop(1),
		Done:     lipgloss.NewStyle().Bold(true).Foreground(t.Success).MarginTop(1),
		Input: lipgloss.NewStyle().
			Border(lipgloss.NormalBorder()).
			BorderForeground(t.Border).
			Padding(0, 1),
		Editing: lipgloss.NewStyle().
			Border(lipgloss.NormalBorder()).
			BorderForeground(t.Stage).
			Padding(0, 1),
		Muted: lipgloss.NewStyle().Foreground(t.Muted),
		Help:  lipgloss.NewStyle().Foreground(t.Muted).Italic(true).MarginTop(1),
	}
}

// Chip renders a key/value chip as "key [1]".
func (s Styles) Chip(key string, value int) string {
	return s.ChipKey.Render(key) + " " + s.ChipVal.Render("["+strconv.Itoa(value)+"]")
}

// ProgressBar renders done/total as a fixed-width bar.
func ProgressBar(done, total, width int) string {
	if total <= 0 || width <= 0 {
		return strings.Repeat("░", max(width, 0))
	}
	filled := done * width / total
	if filled > width {
		filled = width
	}
	if filled < 0 {
		filled = 0
	}
	return strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
}

// wrapChips lays chips out left to right, breaking lines at width.
func wrapChips(chips []string, width int) string {
	if len(chips) == 0 {
		return ""
	}
	var (
		b    strings.Builder
		line int
	)
	for i, c := range chips {
		w := lipgloss.Width(c)
		if i > 0 {
			if line+1+w > width {
				b.WriteString("\n")
				line = 0
			} else {
				b.WriteString(" ")
				line++
			}
		}
		b.WriteString(c)
		line += w
	}
	return b.String()
}
