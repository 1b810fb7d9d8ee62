// Package metrics measures ASCII frame sets: how much ink each frame holds,
// which glyphs it uses and how many cells change from frame to frame.
package metrics

import (
	"sort"

	"github.com/san-kum/asciimotion/internal/frame"
)

// Report summarises one FrameSet.
type Report struct {
	Frames       int
	Width        int
	Height       int
	Coverage     []float64
	Churn        []int
	MeanCoverage float64
	MeanChurn    float64
	Glyphs       map[rune]int
}

// Analyze runs every metric over set. Churn has one entry per frame
// transition, including the wrap from the last frame back to the first.
func Analyze(set frame.FrameSet, background rune) Report {
	rep := Report{Frames: len(set), Glyphs: make(map[rune]int)}
	if len(set) == 0 {
		return rep
	}
	rep.Width, rep.Height = set.Dims()

	cov := NewCoverage(background)
	churn := NewChurn(background)
	for _, f := range set {
		cov.Observe(f)
		churn.Observe(f)
		rep.Coverage = append(rep.Coverage, Ink(f, background))
		for r, n := range Histogram(f) {
			rep.Glyphs[r] += n
		}
	}
	for i := range set {
		rep.Churn = append(rep.Churn, ChangedCells(set[i], set.Cycle(i+1), background))
	}

	rep.MeanCoverage = cov.Value()
	total := 0
	for _, n := range rep.Churn {
		total += n
	}
	rep.MeanChurn = float64(total) / float64(len(rep.Churn))
	return rep
}

// GlyphCount pairs a glyph with its number of occurrences.
type GlyphCount struct {
	Glyph rune
	Count int
}

// TopGlyphs returns the n most frequent glyphs, ties broken by glyph order.
func (r Report) TopGlyphs(n int) []GlyphCount {
	out := make([]GlyphCount, 0, len(r.Glyphs))
	for g, c := range r.Glyphs {
		out = append(out, GlyphCount{Glyph: g, Count: c})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Glyph < out[j].Glyph
	})
	if n > 0 && len(out) > n {
		out = out[:n]
	}
	return out
}
