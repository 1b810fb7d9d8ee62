package config

import (
	"sort"

	"github.com/san-kum/asciimotion/internal/adjust"
)

// Presets are named conversion setups for common layering tricks.
var Presets = map[string]*Config{
	// Three depths for parallax or zoom playback.
	"far-medium-close": {
		Widths: []int{20, 58, 100}, Frames: DefaultFrames, Gradient: "minimalist",
		Adjust:       adjust.Settings{Brightness: 1, Contrast: 2, Saturation: 1},
		SpaceDensity: 1, Filter: "area", Background: DefaultBackground,
		Formats: []string{FormatJSON, FormatGo, FormatText}, Workers: 3,
	},
	// Sources shot on light backgrounds, so the background maps to spaces.
	"light-background": {
		Widths: []int{DefaultWidth}, Frames: DefaultFrames, Gradient: "minimalist",
		Adjust:       adjust.Settings{Brightness: 1, Contrast: 2, Saturation: 1, Invert: true},
		SpaceDensity: 1, Filter: "area", Background: DefaultBackground,
		Formats: []string{FormatJSON, FormatGo, FormatText}, Workers: 1,
	},
	"sprite-right": {
		Widths: []int{DefaultWidth}, Frames: DefaultFrames, Gradient: "minimalist",
		Adjust:       adjust.Settings{Brightness: 1, Contrast: 2, Saturation: 1},
		Flip:         true,
		SpaceDensity: 1, Filter: "area", Background: DefaultBackground,
		Formats: []string{FormatJSON, FormatGo, FormatText}, Workers: 1,
	},
	"detailed": {
		Widths: []int{100}, Frames: 16, Gradient: "detailed",
		Adjust:       adjust.Settings{Brightness: 1, Contrast: 1.5, Saturation: 1},
		SpaceDensity: 1, Filter: "catmullrom", Background: DefaultBackground,
		Formats: []string{FormatJSON, FormatGo, FormatText}, Workers: 1,
	},
}

// GetPreset returns a copy of the named preset, or nil.
func GetPreset(name string) *Config {
	cfg, ok := Presets[name]
	if !ok {
		return nil
	}
	return cfg.Clone()
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
