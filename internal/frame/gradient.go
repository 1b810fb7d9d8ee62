package frame

import (
	"fmt"
	"strings"
)

// Gradient is an ordered light-to-dark glyph ramp. Index 0 is the
// background glyph.
type Gradient []rune

// NewGradient builds a gradient from a literal glyph sequence.
func NewGradient(glyphs string) (Gradient, error) {
	if glyphs == "" {
		return nil, &ConfigError{Field: "gradient", Value: `""`, Reason: "gradient must contain at least one glyph"}
	}
	return Gradient([]rune(glyphs)), nil
}

// Background returns the glyph that represents blank cells.
func (g Gradient) Background() rune {
	return g[0]
}

// Index maps a luminance sample to a gradient index:
// floor(v/256 * len(g)), clamped to the valid range. The mapping is
// monotonic in v.
func (g Gradient) Index(v uint8) int {
	idx := int(v) * len(g) / 256
	if idx >= len(g) {
		idx = len(g) - 1
	}
	return idx
}

func (g Gradient) Glyph(v uint8) rune {
	return g[g.Index(v)]
}

func (g Gradient) String() string {
	return string(g)
}

// Preset names a built-in gradient.
type Preset int

const (
	PresetMinimalist Preset = iota
	PresetStandard
	PresetDetailed
	PresetBlocks
)

var presetNames = map[Preset]string{
	PresetMinimalist: "minimalist",
	PresetStandard:   "standard",
	PresetDetailed:   "detailed",
	PresetBlocks:     "blocks",
}

var presetGlyphs = map[Preset]string{
	PresetMinimalist: " .-+#",
	PresetStandard:   " .:-=+*#%@",
	PresetDetailed:   " .'`^\",:;Il!i><~+_-?][}{1)(|\\/tfjrxnuvczXYUJCLQ0OZmwqpdbkhao*#MW&8%B@$",
	PresetBlocks:     " ░▒▓█",
}

func (p Preset) String() string {
	if name, ok := presetNames[p]; ok {
		return name
	}
	return fmt.Sprintf("preset(%d)", int(p))
}

// Gradient returns the glyph ramp of a built-in preset.
func (p Preset) Gradient() Gradient {
	return Gradient([]rune(presetGlyphs[p]))
}

// Presets lists the built-in presets in declaration order.
func Presets() []Preset {
	return []Preset{PresetMinimalist, PresetStandard, PresetDetailed, PresetBlocks}
}

// ParsePreset looks up a preset by name, case-insensitively.
func ParsePreset(name string) (Preset, bool) {
	name = strings.ToLower(strings.TrimSpace(name))
	for p, n := range presetNames {
		if n == name {
			return p, true
		}
	}
	return 0, false
}

// ResolveGradient turns a selector into a gradient. A registered preset name
// selects that preset; any other non-empty string is used verbatim as the
// glyph sequence.
func ResolveGradient(selector string) (Gradient, error) {
	if p, ok := ParsePreset(selector); ok {
		return p.Gradient(), nil
	}
	// Literal fallback: the selector itself is the ramp.
	return NewGradient(selector)
}
