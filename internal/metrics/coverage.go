package metrics

import (
	"github.com/san-kum/asciimotion/internal/frame"
)

// Metric accumulates a value over a sequence of frames.
type Metric interface {
	Name() string
	Observe(f frame.Frame)
	Value() float64
	Reset()
}

// Coverage is the mean fraction of cells holding a non-background glyph.
type Coverage struct {
	name       string
	background rune
	sum        float64
	samples    int
}

func NewCoverage(background rune) *Coverage {
	return &Coverage{
		name:       "coverage",
		background: background,
	}
}

func (c *Coverage) Name() string {
	return c.name
}

func (c *Coverage) Observe(f frame.Frame) {
	c.sum += Ink(f, c.background)
	c.samples++
}

func (c *Coverage) Value() float64 {
	if c.samples == 0 {
		return 0
	}
	return c.sum / float64(c.samples)
}

func (c *Coverage) Reset() {
	c.sum = 0
	c.samples = 0
}

// Ink returns the fraction of f's cells, over its bounding box, that are not
// background.
func Ink(f frame.Frame, background rune) float64 {
	w, h := f.Width(), f.Height()
	if w == 0 || h == 0 {
		return 0
	}
	ink := 0
	for _, r := range string(f) {
		if r != '\n' && r != background {
			ink++
		}
	}
	return float64(ink) / float64(w*h)
}

// Histogram counts every glyph in f, newlines excluded.
func Histogram(f frame.Frame) map[rune]int {
	out := make(map[rune]int)
	for _, r := range string(f) {
		if r != '\n' {
			out[r]++
		}
	}
	return out
}
