package viz

import "github.com/charmbracelet/lipgloss"

// Theme defines the colors of a rendered scene. Bodies take palette entries
// in the order they are added.
type Theme struct {
	Name    string
	Palette []lipgloss.Color
	Text    lipgloss.Color
	Muted   lipgloss.Color
	Accent  lipgloss.Color
	Warning lipgloss.Color
	Error   lipgloss.Color
}

var (
	ThemeSolar = Theme{
		Name: "solar",
		Palette: []lipgloss.Color{
			"#b0b0b0",
			"#e8c27a",
			"#4f9dff",
			"#ff6b4a",
			"#d9a066",
			"#f2d98d",
			"#7fe3e8",
			"#4a6bff",
		},
		Text:    "#ffffff",
		Muted:   "#666688",
		Accent:  "#ffd700",
		Warning: "#ffaa00",
		Error:   "#ff4444",
	}

	ThemeRetroGreen = Theme{
		Name:    "retro",
		Palette: []lipgloss.Color{"#00ff00", "#00cc00", "#88ff88", "#66dd66", "#33aa33"},
		Text:    "#00ff00",
		Muted:   "#005500",
		Accent:  "#88ff88",
		Warning: "#ffff00",
		Error:   "#ff0000",
	}

	ThemeMinimal = Theme{
		Name:    "minimal",
		Palette: []lipgloss.Color{"#ffffff", "#cccccc", "#999999"},
		Text:    "#ffffff",
		Muted:   "#888888",
		Accent:  "#0088ff",
		Warning: "#ffaa00",
		Error:   "#ff0000",
	}

	ThemeOcean = Theme{
		Name:    "ocean",
		Palette: []lipgloss.Color{"#0077be", "#00a8cc", "#48cae4", "#90e0ef", "#ffd700", "#e0f0ff"},
		Text:    "#e0f0ff",
		Muted:   "#4488aa",
		Accent:  "#ffd700",
		Warning: "#ffcc00",
		Error:   "#ff4444",
	}

	Themes = []Theme{
		ThemeSolar,
		ThemeRetroGreen,
		ThemeMinimal,
		ThemeOcean,
	}
)

// GetTheme returns a theme by name, falling back to solar.
func GetTheme(name string) Theme {
	for _, t := range Themes {
		if t.Name == name {
			return t
		}
	}
	return ThemeSolar
}

// NextTheme returns the theme after t in Themes, wrapping around.
func NextTheme(t Theme) Theme {
	for i, th := range Themes {
		if th.Name == t.Name {
			return Themes[(i+1)%len(Themes)]
		}
	}
	return ThemeSolar
}

func ThemeNames() []string {
	names := make([]string, len(Themes))
	for i, t := range Themes {
		names[i] = t.Name
	}
	return names
}

// Color returns the palette entry for layer i.
func (t Theme) Color(i int) lipgloss.Color {
	if len(t.Palette) == 0 {
		return t.Text
	}
	return t.Palette[i%len(t.Palette)]
}
