package anim

import (
	"fmt"
	"strings"
	"time"

	"github.com/mattn/go-runewidth"

	"github.com/san-kum/asciimotion/internal/frame"
)

// Anchor selects where a layer's sprite sits on screen.
type Anchor int

const (
	AnchorCenterBottom Anchor = iota
	AnchorCenter
	AnchorTopLeft
)

var anchorNames = map[Anchor]string{
	AnchorCenterBottom: "center-bottom",
	AnchorCenter:       "center",
	AnchorTopLeft:      "top-left",
}

func (a Anchor) String() string {
	if n, ok := anchorNames[a]; ok {
		return n
	}
	return fmt.Sprintf("anchor(%d)", int(a))
}

func ParseAnchor(name string) (Anchor, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for a, n := range anchorNames {
		if n == name {
			return a, nil
		}
	}
	return 0, &frame.ConfigError{Field: "anchor", Value: name, Reason: "unknown anchor"}
}

// Stage is one FrameSet a layer plays through before moving on.
type Stage struct {
	Label  string
	Frames frame.FrameSet
}

// ZoomCycle orders stages out and back again: a, b, c becomes a, b, c, b.
func ZoomCycle(stages ...Stage) []Stage {
	out := append([]Stage(nil), stages...)
	for i := len(stages) - 2; i >= 1; i-- {
		out = append(out, stages[i])
	}
	return out
}

// DepthLabels names widths by apparent distance: the narrowest is far and
// the widest close. Counts other than two or three fall back to "w<width>".
func DepthLabels(widths []int) []string {
	labels := make([]string, len(widths))
	switch len(widths) {
	case 2:
		labels[0], labels[1] = "far", "close"
	case 3:
		labels[0], labels[1], labels[2] = "far", "medium", "close"
	default:
		for i, w := range widths {
			labels[i] = fmt.Sprintf("w%d", w)
		}
	}
	return labels
}

// ZoomStages builds a zoom cycle over the frame sets of the given widths, in
// the order given.
func ZoomStages(sets map[int]frame.FrameSet, widths []int) []Stage {
	labels := DepthLabels(widths)
	stages := make([]Stage, len(widths))
	for i, w := range widths {
		stages[i] = Stage{Label: labels[i], Frames: sets[w]}
	}
	return ZoomCycle(stages...)
}

// Layer animates a sequence of stages on its own period.
type Layer struct {
	Name string

	stages []Stage
	stage  int
	index  int
	period time.Duration
	last   time.Time
	anchor Anchor
	offX   int
	offY   int
}

type LayerOption func(*Layer)

// WithPeriod sets the minimum time between frame advances. Zero advances on
// every tick.
func WithPeriod(d time.Duration) LayerOption {
	return func(l *Layer) { l.period = d }
}

func WithAnchor(a Anchor) LayerOption {
	return func(l *Layer) { l.anchor = a }
}

// WithOffset shifts the anchored position by dx columns and dy rows.
func WithOffset(dx, dy int) LayerOption {
	return func(l *Layer) { l.offX, l.offY = dx, dy }
}

func NewLayer(name string, stages []Stage, opts ...LayerOption) (*Layer, error) {
	if len(stages) == 0 {
		return nil, &frame.ConfigError{Field: "layer", Value: name, Reason: "at least one stage is required"}
	}
	for _, s := range stages {
		if len(s.Frames) == 0 {
			return nil, &frame.ConfigError{Field: "layer", Value: name, Reason: fmt.Sprintf("stage %q has no frames", s.Label)}
		}
	}
	l := &Layer{Name: name, stages: stages}
	for _, o := range opts {
		o(l)
	}
	return l, nil
}

func (l *Layer) Current() frame.Frame {
	return l.stages[l.stage].Frames[l.index]
}

// Position reports the stage label, the zero-based frame index and the
// stage length.
func (l *Layer) Position() (label string, index, total int) {
	s := l.stages[l.stage]
	return s.Label, l.index, len(s.Frames)
}

// Advance moves to the next frame when the period has elapsed since the
// last advance. Exhausting a stage moves to the next stage.
func (l *Layer) Advance(now time.Time) bool {
	if l.period > 0 {
		if l.last.IsZero() {
			l.last = now
			return false
		}
		if now.Sub(l.last) < l.period {
			return false
		}
	}
	l.last = now
	l.index++
	if l.index >= len(l.stages[l.stage].Frames) {
		l.index = 0
		l.stage = (l.stage + 1) % len(l.stages)
	}
	return true
}

// Place returns the top-left cell of the current frame inside a rows×cols
// area.
func (l *Layer) Place(rows, cols int) (x, y int) {
	f := l.Current()
	w, h := displayWidth(f), f.Height()
	switch l.anchor {
	case AnchorCenter:
		x, y = (cols-w)/2, (rows-h)/2
	case AnchorTopLeft:
		x, y = 0, 0
	default:
		x, y = (cols-w)/2, rows-h
	}
	return x + l.offX, y + l.offY
}

func displayWidth(f frame.Frame) int {
	w := 0
	for _, row := range f.Rows() {
		if n := runewidth.StringWidth(row); n > w {
			w = n
		}
	}
	return w
}
