package frame

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// Frame is one ASCII-art frame: rows of glyphs joined by '\n'.
type Frame string

// NewFrame joins rows into a frame.
func NewFrame(rows []string) Frame {
	return Frame(strings.Join(rows, "\n"))
}

func (f Frame) Rows() []string {
	return strings.Split(string(f), "\n")
}

func (f Frame) Height() int {
	return strings.Count(string(f), "\n") + 1
}

// Width returns the rune count of the longest row. Rows written with a
// space density above one may be longer than the target width.
func (f Frame) Width() int {
	w := 0
	for _, row := range f.Rows() {
		if n := utf8.RuneCountInString(row); n > w {
			w = n
		}
	}
	return w
}

func (f Frame) String() string {
	return string(f)
}

// FrameSet is an ordered sequence of frames sharing one target width.
// Index order is the temporal order of the source media.
type FrameSet []Frame

func (s FrameSet) Len() int {
	return len(s)
}

// Cycle returns frame i modulo the set length.
func (s FrameSet) Cycle(i int) Frame {
	n := len(s)
	return s[((i%n)+n)%n]
}

// Strings returns the frames as plain strings, the interchange form.
func (s FrameSet) Strings() []string {
	out := make([]string, len(s))
	for i, f := range s {
		out[i] = string(f)
	}
	return out
}

// FromStrings builds a frame set from interchange strings.
func FromStrings(frames []string) FrameSet {
	out := make(FrameSet, len(frames))
	for i, f := range frames {
		out[i] = Frame(f)
	}
	return out
}

// Validate checks that the set is non-empty and that every frame has the
// same number of rows.
func (s FrameSet) Validate() error {
	if len(s) == 0 {
		return fmt.Errorf("%w: empty frame set", ErrDecode)
	}
	h := s[0].Height()
	for i, f := range s[1:] {
		if f.Height() != h {
			return &DimensionError{Width: f.Width(), Height: f.Height(),
				Reason: fmt.Sprintf("frame %d height differs from frame 0 height %d", i+1, h)}
		}
	}
	return nil
}

// Dims returns the width and height of the first frame.
func (s FrameSet) Dims() (w, h int) {
	if len(s) == 0 {
		return 0, 0
	}
	return s[0].Width(), s[0].Height()
}
