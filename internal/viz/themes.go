package viz

import "github.com/charmbracelet/lipgloss"

// Theme colors the viewer. Ink is applied to the frame glyphs and Paper
// behind them.
type Theme struct {
	Name   string
	Ink    lipgloss.Color
	Paper  lipgloss.Color
	Accent lipgloss.Color
	Text   lipgloss.Color
	Muted  lipgloss.Color
	High   lipgloss.Color
	Mid    lipgloss.Color
	Low    lipgloss.Color
}

var (
	ThemeMono = Theme{
		Name:   "mono",
		Ink:    lipgloss.Color("#ffffff"),
		Paper:  lipgloss.Color("#000000"),
		Accent: lipgloss.Color("#0088ff"),
		Text:   lipgloss.Color("#ffffff"),
		Muted:  lipgloss.Color("#888888"),
		High:   lipgloss.Color("#00ff88"),
		Mid:    lipgloss.Color("#ffcc00"),
		Low:    lipgloss.Color("#ff4444"),
	}

	ThemePhosphor = Theme{
		Name:   "phosphor",
		Ink:    lipgloss.Color("#33ff33"), // P1 green
		Paper:  lipgloss.Color("#001100"),
		Accent: lipgloss.Color("#88ff88"),
		Text:   lipgloss.Color("#00ff00"),
		Muted:  lipgloss.Color("#005500"),
		High:   lipgloss.Color("#88ff88"),
		Mid:    lipgloss.Color("#00cc00"),
		Low:    lipgloss.Color("#006600"),
	}

	ThemeAmber = Theme{
		Name:   "amber",
		Ink:    lipgloss.Color("#ffb000"), // P3 amber
		Paper:  lipgloss.Color("#1a0f00"),
		Accent: lipgloss.Color("#ffd27f"),
		Text:   lipgloss.Color("#ffcc66"),
		Muted:  lipgloss.Color("#7a5200"),
		High:   lipgloss.Color("#ffd27f"),
		Mid:    lipgloss.Color("#ffb000"),
		Low:    lipgloss.Color("#a06a00"),
	}

	ThemeOcean = Theme{
		Name:   "ocean",
		Ink:    lipgloss.Color("#e0f0ff"),
		Paper:  lipgloss.Color("#001a33"),
		Accent: lipgloss.Color("#ffd700"),
		Text:   lipgloss.Color("#e0f0ff"),
		Muted:  lipgloss.Color("#4488aa"),
		High:   lipgloss.Color("#00ff88"),
		Mid:    lipgloss.Color("#00a8cc"),
		Low:    lipgloss.Color("#0077be"),
	}

	ThemeSunset = Theme{
		Name:   "sunset",
		Ink:    lipgloss.Color("#feca57"),
		Paper:  lipgloss.Color("#2d1b2e"),
		Accent: lipgloss.Color("#ff9ff3"),
		Text:   lipgloss.Color("#fff5f5"),
		Muted:  lipgloss.Color("#8b6b8c"),
		High:   lipgloss.Color("#5fd068"),
		Mid:    lipgloss.Color("#ffc048"),
		Low:    lipgloss.Color("#ff4757"),
	}

	Themes = []Theme{
		ThemeMono,
		ThemePhosphor,
		ThemeAmber,
		ThemeOcean,
		ThemeSunset,
	}
)

// GetTheme returns a theme by name, falling back to mono.
func GetTheme(name string) Theme {
	for _, t := range Themes {
		if t.Name == name {
			return t
		}
	}
	return ThemeMono
}

func themeIndex(name string) int {
	for i, t := range Themes {
		if t.Name == name {
			return i
		}
	}
	return 0
}

func ThemeNames() []string {
	names := make([]string, len(Themes))
	for i, t := range Themes {
		names[i] = t.Name
	}
	return names
}
