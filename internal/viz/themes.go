package viz

import "github.com/charmbracelet/lipgloss"

// Theme colors the canvas and the stats panel.
type Theme struct {
	Name      string
	Particles lipgloss.Color
	Frame     lipgloss.Color
	Accent    lipgloss.Color
	Muted     lipgloss.Color
	Warning   lipgloss.Color
}

var (
	ThemePhosphor = Theme{
		Name:      "phosphor",
		Particles: lipgloss.Color("#39ff14"),
		Frame:     lipgloss.Color("#1f7a1f"),
		Accent:    lipgloss.Color("#b6ffb0"),
		Muted:     lipgloss.Color("#3c5c3c"),
		Warning:   lipgloss.Color("#ffd23f"),
	}

	ThemeIce = Theme{
		Name:      "ice",
		Particles: lipgloss.Color("#9be7ff"),
		Frame:     lipgloss.Color("#4a6fa5"),
		Accent:    lipgloss.Color("#00ccff"),
		Muted:     lipgloss.Color("#5a6b80"),
		Warning:   lipgloss.Color("#ff8c42"),
	}

	ThemeEmber = Theme{
		Name:      "ember",
		Particles: lipgloss.Color("#ffb347"),
		Frame:     lipgloss.Color("#8b3a3a"),
		Accent:    lipgloss.Color("#ff6b6b"),
		Muted:     lipgloss.Color("#7d5a50"),
		Warning:   lipgloss.Color("#fff275"),
	}

	CurrentTheme = ThemeIce

	Themes = []Theme{ThemeIce, ThemePhosphor, ThemeEmber}
)

// GetTheme returns a theme by name, falling back to the first one.
func GetTheme(name string) Theme {
	for _, t := range Themes {
		if t.Name == name {
			return t
		}
	}
	return Themes[0]
}

func SetTheme(name string) {
	CurrentTheme = GetTheme(name)
}

// NextTheme switches to the theme after the current one.
func NextTheme() {
	for i, t := range Themes {
		if t.Name == CurrentTheme.Name {
			CurrentTheme = Themes[(i+1)%len(Themes)]
			return
		}
	}
	CurrentTheme = Themes[0]
}

func ThemeNames() []string {
	names := make([]string, len(Themes))
	for i, t := range Themes {
		names[i] = t.Name
	}
	return names
}
