// Package render keeps a double-buffered character grid and emits only the
// cells that changed since the previous render.
package render

import (
	"fmt"

	"github.com/san-kum/asciimotion/internal/frame"
)

// stale never matches a drawable glyph, so cells holding it always repaint.
const stale rune = -1

// Instruction places one glyph at a zero-based cell.
type Instruction struct {
	Row   int
	Col   int
	Glyph rune
}

// String encodes the instruction as a cursor move followed by the glyph.
// Terminal coordinates are one-based.
func (in Instruction) String() string {
	return fmt.Sprintf("\x1b[%d;%dH%c", in.Row+1, in.Col+1, in.Glyph)
}

type Screen struct {
	rows, cols int
	background rune
	current    []rune
	previous   []rune
}

type Option func(*Screen)

// WithBackground sets the empty-cell glyph. Sprite cells holding it are
// transparent.
func WithBackground(r rune) Option {
	return func(s *Screen) { s.background = r }
}

// NewScreen allocates a rows×cols screen. The first Render repaints every
// cell. Non-positive dimensions give an empty screen.
func NewScreen(rows, cols int, opts ...Option) *Screen {
	s := &Screen{background: ' '}
	for _, o := range opts {
		o(s)
	}
	s.Resize(rows, cols)
	return s
}

func (s *Screen) Size() (rows, cols int) { return s.rows, s.cols }

func (s *Screen) Background() rune { return s.background }

// Resize reallocates both buffers and invalidates the screen.
func (s *Screen) Resize(rows, cols int) {
	if rows < 0 {
		rows = 0
	}
	if cols < 0 {
		cols = 0
	}
	s.rows, s.cols = rows, cols
	s.current = make([]rune, rows*cols)
	s.previous = make([]rune, rows*cols)
	s.Clear()
	s.Invalidate()
}

// Invalidate forces the next Render to emit every cell.
func (s *Screen) Invalidate() {
	for i := range s.previous {
		s.previous[i] = stale
	}
}

// Clear fills the current buffer with the background glyph.
func (s *Screen) Clear() {
	for i := range s.current {
		s.current[i] = s.background
	}
}

// At returns the current glyph at (x, y), or the background when out of
// bounds.
func (s *Screen) At(x, y int) rune {
	if !s.inBounds(x, y) {
		return s.background
	}
	return s.current[y*s.cols+x]
}

func (s *Screen) inBounds(x, y int) bool {
	return x >= 0 && x < s.cols && y >= 0 && y < s.rows
}

func (s *Screen) set(x, y int, r rune) {
	if s.inBounds(x, y) {
		s.current[y*s.cols+x] = r
	}
}

// DrawSprite copies the non-background glyphs of f with its top-left corner
// at column x, row y. Cells outside the screen are dropped.
func (s *Screen) DrawSprite(f frame.Frame, x, y int) {
	s.draw(string(f), x, y, false)
}

// DrawText is DrawSprite without transparency.
func (s *Screen) DrawText(text string, x, y int) {
	s.draw(text, x, y, true)
}

func (s *Screen) draw(text string, x, y int, opaque bool) {
	row, col := 0, 0
	for _, r := range text {
		if r == '\n' {
			row++
			col = 0
			continue
		}
		if opaque || r != s.background {
			s.set(x+col, y+row, r)
		}
		col++
	}
}

// Render emits an instruction for every cell that differs from the last
// render, in row-major order, and returns how many were emitted.
func (s *Screen) Render(emit func(Instruction)) int {
	n := 0
	for i, r := range s.current {
		if s.previous[i] == r {
			continue
		}
		s.previous[i] = r
		emit(Instruction{Row: i / s.cols, Col: i % s.cols, Glyph: r})
		n++
	}
	return n
}
