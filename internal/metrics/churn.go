package metrics

import (
	"github.com/san-kum/asciimotion/internal/frame"
)

// Churn is the mean number of cells that change between consecutive
// frames, which is what a dirty-cell renderer would emit per tick.
type Churn struct {
	name       string
	background rune
	prev       frame.Frame
	seen       bool
	sum        float64
	samples    int
}

func NewChurn(background rune) *Churn {
	return &Churn{
		name:       "churn",
		background: background,
	}
}

func (c *Churn) Name() string {
	return c.name
}

func (c *Churn) Observe(f frame.Frame) {
	if c.seen {
		c.sum += float64(ChangedCells(c.prev, f, c.background))
		c.samples++
	}
	c.prev = f
	c.seen = true
}

func (c *Churn) Value() float64 {
	if c.samples == 0 {
		return 0
	}
	return c.sum / float64(c.samples)
}

func (c *Churn) Reset() {
	c.prev = ""
	c.seen = false
	c.sum = 0
	c.samples = 0
}

// ChangedCells counts the cells that differ between a and b drawn at the
// same origin. Cells missing from a shorter row count as background.
func ChangedCells(a, b frame.Frame, background rune) int {
	ar, br := grid(a), grid(b)
	rows := max(len(ar), len(br))
	n := 0
	for y := 0; y < rows; y++ {
		var ra, rb []rune
		if y < len(ar) {
			ra = ar[y]
		}
		if y < len(br) {
			rb = br[y]
		}
		cols := max(len(ra), len(rb))
		for x := 0; x < cols; x++ {
			if cell(ra, x, background) != cell(rb, x, background) {
				n++
			}
		}
	}
	return n
}

func grid(f frame.Frame) [][]rune {
	if f == "" {
		return nil
	}
	rows := f.Rows()
	out := make([][]rune, len(rows))
	for i, r := range rows {
		out[i] = []rune(r)
	}
	return out
}

func cell(row []rune, x int, background rune) rune {
	if x < len(row) {
		return row[x]
	}
	return background
}
