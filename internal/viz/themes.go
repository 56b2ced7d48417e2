package viz

import "github.com/charmbracelet/lipgloss"

// Theme defines the color scheme for the player.
type Theme struct {
	Name    string
	Title   lipgloss.Color
	Key     lipgloss.Color
	Value   lipgloss.Color
	Bucket  lipgloss.Color
	Border  lipgloss.Color
	Stage   lipgloss.Color
	Muted   lipgloss.Color
	Success lipgloss.Color
}

var (
	ThemeSlate = Theme{
		Name:    "slate",
		Title:   lipgloss.Color("#f8fafc"),
		Key:     lipgloss.Color("#e2e8f0"),
		Value:   lipgloss.Color("#94a3b8"),
		Bucket:  lipgloss.Color("#cbd5e1"),
		Border:  lipgloss.Color("#475569"),
		Stage:   lipgloss.Color("#0ea5e9"), // sky
		Muted:   lipgloss.Color("#6b7280"),
		Success: lipgloss.Color("#22c55e"),
	}

	ThemeCyberpunk = Theme{
		Name:    "cyberpunk",
		Title:   lipgloss.Color("#00ffff"),
		Key:     lipgloss.Color("#ff00ff"), // Magenta
		Value:   lipgloss.Color("#ffff00"),
		Bucket:  lipgloss.Color("#00ffff"),
		Border:  lipgloss.Color("#444466"),
		Stage:   lipgloss.Color("#ff8800"),
		Muted:   lipgloss.Color("#666666"),
		Success: lipgloss.Color("#00ff00"),
	}

	ThemeRetroGreen = Theme{
		Name:    "retro",
		Title:   lipgloss.Color("#88ff88"),
		Key:     lipgloss.Color("#00ff00"), // Green phosphor
		Value:   lipgloss.Color("#00cc00"),
		Bucket:  lipgloss.Color("#00cc00"),
		Border:  lipgloss.Color("#005500"),
		Stage:   lipgloss.Color("#ffff00"),
		Muted:   lipgloss.Color("#005500"),
		Success: lipgloss.Color("#88ff88"),
	}

	ThemeOcean = Theme{
		Name:    "ocean",
		Title:   lipgloss.Color("#e0f0ff"),
		Key:     lipgloss.Color("#00a8cc"),
		Value:   lipgloss.Color("#ffd700"),
		Bucket:  lipgloss.Color("#0077be"), // Ocean blue
		Border:  lipgloss.Color("#4488aa"),
		Stage:   lipgloss.Color("#ffcc00"),
		Muted:   lipgloss.Color("#4488aa"),
		Success: lipgloss.Color("#00ff88"),
	}

	// All available themes
	Themes = []Theme{
		ThemeSlate,
		ThemeCyberpunk,
		ThemeRetroGreen,
		ThemeOcean,
	}
)

// LookupTheme returns the theme called name.
func LookupTheme(name string) (Theme, bool) {
	for _, t := range Themes {
		if t.Name == name {
			return t, true
		}
	}
	return Theme{}, false
}

// GetTheme returns a theme by name, falling back to slate.
func GetTheme(name string) Theme {
	if t, ok := LookupTheme(name); ok {
		return t
	}
	return ThemeSlate
}

// NextTheme returns the theme after current, wrapping around.
func NextTheme(current Theme) Theme {
	for i, t := range Themes {
		if t.Name == current.Name {
			return Themes[(i+1)%len(Themes)]
		}
	}
	return Themes[0]
}

func ThemeNames() []string {
	names := make([]string, len(Themes))
	for i, t := range Themes {
		names[i] = t.Name
	}
	return names
}
