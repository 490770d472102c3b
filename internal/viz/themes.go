package viz

import "github.com/charmbracelet/lipgloss"

// Theme colors the status panel. The body itself takes its color from the
// palette picker.
type Theme struct {
	Name   string
	Title  lipgloss.Color
	Border lipgloss.Color
	Label  lipgloss.Color
	Value  lipgloss.Color
	Muted  lipgloss.Color
	Good   lipgloss.Color
	Warn   lipgloss.Color
	Bad    lipgloss.Color
}

var (
	ThemeNight = Theme{
		Name:   "night",
		Title:  lipgloss.Color("#00ffff"),
		Border: lipgloss.Color("#444466"),
		Label:  lipgloss.Color("#888899"),
		Value:  lipgloss.Color("#e0e0ff"),
		Muted:  lipgloss.Color("#666688"),
		Good:   lipgloss.Color("#00ff88"),
		Warn:   lipgloss.Color("#ffcc00"),
		Bad:    lipgloss.Color("#ff4444"),
	}

	ThemePaper = Theme{
		Name:   "paper",
		Title:  lipgloss.Color("#333333"),
		Border: lipgloss.Color("#aaaaaa"),
		Label:  lipgloss.Color("#777777"),
		Value:  lipgloss.Color("#111111"),
		Muted:  lipgloss.Color("#999999"),
		Good:   lipgloss.Color("#2e8b57"),
		Warn:   lipgloss.Color("#cc8800"),
		Bad:    lipgloss.Color("#cc2222"),
	}

	ThemeRetro = Theme{
		Name:   "retro",
		Title:  lipgloss.Color("#88ff88"),
		Border: lipgloss.Color("#005500"),
		Label:  lipgloss.Color("#00aa00"),
		Value:  lipgloss.Color("#00ff00"),
		Muted:  lipgloss.Color("#005500"),
		Good:   lipgloss.Color("#88ff88"),
		Warn:   lipgloss.Color("#ffff00"),
		Bad:    lipgloss.Color("#ff0000"),
	}

	Themes = []Theme{ThemeNight, ThemePaper, ThemeRetro}
)

// GetTheme returns a theme by name, falling back to night.
func GetTheme(name string) Theme {
	for _, t := range Themes {
		if t.Name == name {
			return t
		}
	}
	return ThemeNight
}

func ThemeNames() []string {
	names := make([]string, len(Themes))
	for i, t := range Themes {
		names[i] = t.Name
	}
	return names
}

// next returns the theme after t, wrapping around.
func (t Theme) next() Theme {
	for i, th := range Themes {
		if th.Name == t.Name {
			return Themes[(i+1)%len(Themes)]
		}
	}
	return Themes[0]
}
