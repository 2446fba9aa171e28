package viz

import "github.com/charmbracelet/lipgloss"

// Theme colors the panels around the viewport. Stress colors are fixed and
// do not follow the theme.
type Theme struct {
	Name   string
	Title  lipgloss.Color
	Accent lipgloss.Color
	Border lipgloss.Color
	Text   lipgloss.Color
	Muted  lipgloss.Color
}

var (
	ThemeWorkshop = Theme{
		Name:   "workshop",
		Title:  lipgloss.Color("#00ffff"),
		Accent: lipgloss.Color("#ff00ff"),
		Border: lipgloss.Color("#444466"),
		Text:   lipgloss.Color("#e0e0ff"),
		Muted:  lipgloss.Color("#666688"),
	}

	ThemeBlueprint = Theme{
		Name:   "blueprint",
		Title:  lipgloss.Color("#e0f0ff"),
		Accent: lipgloss.Color("#ffd700"),
		Border: lipgloss.Color("#0077be"),
		Text:   lipgloss.Color("#e0f0ff"),
		Muted:  lipgloss.Color("#4488aa"),
	}

	ThemeMono = Theme{
		Name:   "mono",
		Title:  lipgloss.Color("#ffffff"),
		Accent: lipgloss.Color("#0088ff"),
		Border: lipgloss.Color("#888888"),
		Text:   lipgloss.Color("#ffffff"),
		Muted:  lipgloss.Color("#888888"),
	}

	Themes = []Theme{ThemeWorkshop, ThemeBlueprint, ThemeMono}
)

// GetTheme returns a theme by name, falling back to the first.
func GetTheme(name string) Theme {
	for _, t := range Themes {
		if t.Name == name {
			return t
		}
	}
	return Themes[0]
}

// NextTheme cycles through Themes.
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
