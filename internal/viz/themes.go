package viz

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/san-kum/cascade/internal/atlas"
)

// Theme is the glyph palette plus the colours of the status line.
type Theme struct {
	Name       string
	Foreground lipgloss.Color
	Highlight  lipgloss.Color
	Background lipgloss.Color
	Text       lipgloss.Color
	Muted      lipgloss.Color
}

// Available themes
var (
	ThemeMatrix = Theme{
		Name:       "matrix",
		Foreground: lipgloss.Color("#00c832"), // phosphor green
		Highlight:  lipgloss.Color("#d2ffd2"),
		Background: lipgloss.Color("#000000"),
		Text:       lipgloss.Color("#00ff41"),
		Muted:      lipgloss.Color("#005f1e"),
	}

	ThemeAmber = Theme{
		Name:       "amber",
		Foreground: lipgloss.Color("#ffb000"),
		Highlight:  lipgloss.Color("#fff0c8"),
		Background: lipgloss.Color("#0a0600"),
		Text:       lipgloss.Color("#ffcc00"),
		Muted:      lipgloss.Color("#7a5200"),
	}

	ThemeIce = Theme{
		Name:       "ice",
		Foreground: lipgloss.Color("#00a8cc"),
		Highlight:  lipgloss.Color("#e0f8ff"),
		Background: lipgloss.Color("#001a33"),
		Text:       lipgloss.Color("#e0f0ff"),
		Muted:      lipgloss.Color("#4488aa"),
	}

	ThemeCrimson = Theme{
		Name:       "crimson",
		Foreground: lipgloss.Color("#c8102e"),
		Highlight:  lipgloss.Color("#ffd0d8"),
		Background: lipgloss.Color("#0d0003"),
		Text:       lipgloss.Color("#ff4757"),
		Muted:      lipgloss.Color("#6b1020"),
	}

	ThemeMono = Theme{
		Name:       "mono",
		Foreground: lipgloss.Color("#aaaaaa"),
		Highlight:  lipgloss.Color("#ffffff"),
		Background: lipgloss.Color("#000000"),
		Text:       lipgloss.Color("#ffffff"),
		Muted:      lipgloss.Color("#666666"),
	}

	Themes = []Theme{
		ThemeMatrix,
		ThemeAmber,
		ThemeIce,
		ThemeCrimson,
		ThemeMono,
	}
)

// GetTheme returns a theme by name, falling back to matrix.
func GetTheme(name string) Theme {
	for _, t := range Themes {
		if t.Name == name {
			return t
		}
	}
	return ThemeMatrix
}

// ThemeIndex is the position of the named theme in Themes, 0 if unknown.
func ThemeIndex(name string) int {
	for i, t := range Themes {
		if t.Name == name {
			return i
		}
	}
	return 0
}

// ThemeNames returns list of available theme names
func ThemeNames() []string {
	names := make([]string, len(Themes))
	for i, t := range Themes {
		names[i] = t.Name
	}
	return names
}

// Palette converts the theme for atlas tinting.
func (t Theme) Palette() (atlas.Palette, error) {
	return atlas.ParsePalette(string(t.Foreground), string(t.Highlight), string(t.Background))
}
