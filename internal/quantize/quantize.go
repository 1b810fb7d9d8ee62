// Package quantize converts adjusted rasters into ASCII-art frames.
package quantize

import (
	"fmt"
	"image"
	"image/color"
	"maps"
	"math"
	"slices"
	"strings"

	"golang.org/x/image/draw"

	"github.com/san-kum/asciimotion/internal/frame"
)

// CellAspect compensates for glyph cells being about twice as tall as wide.
const CellAspect = 0.5

// Filter selects the resampling kernel.
type Filter int

const (
	// FilterArea averages every source pixel covered by a target cell.
	FilterArea Filter = iota
	FilterCatmullRom
	FilterBiLinear
)

var filterNames = map[Filter]string{
	FilterArea:       "area",
	FilterCatmullRom: "catmullrom",
	FilterBiLinear:   "bilinear",
}

func (f Filter) String() string {
	if n, ok := filterNames[f]; ok {
		return n
	}
	return fmt.Sprintf("filter(%d)", int(f))
}

// ParseFilter looks up a filter by name.
func ParseFilter(name string) (Filter, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for f, n := range filterNames {
		if n == name {
			return f, nil
		}
	}
	return 0, &frame.ConfigError{Field: "filter", Value: name, Reason: "unknown resampling filter"}
}

// FilterNames lists the names ParseFilter accepts, default first.
func FilterNames() []string {
	names := make([]string, 0, len(filterNames))
	for _, f := range slices.Sorted(maps.Keys(filterNames)) {
		names = append(names, filterNames[f])
	}
	return names
}

func (f Filter) kernel() *draw.Kernel {
	if f == FilterCatmullRom {
		return draw.CatmullRom
	}
	return draw.BiLinear
}

// Quantizer maps rasters onto a gradient at a requested width.
type Quantizer struct {
	gradient frame.Gradient
	density  int
	filter   Filter
}

type Option func(*Quantizer)

// WithSpaceDensity repeats the background glyph d times in the output.
// Rows then hold more than the target width of glyphs; this widening is
// intentional and is not padded or truncated.
func WithSpaceDensity(d int) Option {
	return func(q *Quantizer) { q.density = d }
}

func WithFilter(f Filter) Option {
	return func(q *Quantizer) { q.filter = f }
}

// New returns a quantizer for g. An empty gradient or a space density below
// one is a configuration error.
func New(g frame.Gradient, opts ...Option) (*Quantizer, error) {
	q := &Quantizer{gradient: g, density: 1, filter: FilterArea}
	for _, o := range opts {
		o(q)
	}
	if len(q.gradient) == 0 {
		return nil, &frame.ConfigError{Field: "gradient", Value: `""`, Reason: "gradient must contain at least one glyph"}
	}
	if q.density < 1 {
		return nil, &frame.ConfigError{Field: "space_density", Value: q.density, Reason: "must be at least 1"}
	}
	return q, nil
}

func (q *Quantizer) Gradient() frame.Gradient { return q.gradient }

// OutputHeight returns round(w * srcH/srcW * CellAspect).
func OutputHeight(w, srcW, srcH int) int {
	return int(math.Round(float64(w) * (float64(srcH) / float64(srcW)) * CellAspect))
}

// Quantize resamples r to width w (height from OutputHeight) and maps it
// onto the gradient. Dimensions are checked before any resampling.
func (q *Quantizer) Quantize(r *frame.Raster, w int) (frame.Frame, error) {
	if w <= 0 {
		return "", &frame.DimensionError{Width: w, Reason: "target width must be positive"}
	}
	h := OutputHeight(w, r.Width, r.Height)
	if h <= 0 {
		return "", &frame.DimensionError{Width: w, Height: h, Reason: "computed height must be positive"}
	}
	return q.Map(q.Resample(r, w, h)), nil
}

// Resample scales r to exactly w×h samples with the configured filter.
func (q *Quantizer) Resample(r *frame.Raster, w, h int) *frame.Raster {
	if r.Width == w && r.Height == h {
		return r
	}
	if q.filter == FilterArea {
		return areaResample(r, w, h)
	}
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	src := r.Image()
	q.filter.kernel().Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Src, nil)
	return frame.FromImage(dst, color.Black)
}

// Map converts r to luminance and writes one glyph per sample, without
// resizing.
func (q *Quantizer) Map(r *frame.Raster) frame.Frame {
	g := r.Gray()
	bg := q.gradient.Background()

	var b strings.Builder
	b.Grow((g.Width + 1) * g.Height)
	for y := 0; y < g.Height; y++ {
		if y > 0 {
			b.WriteByte('\n')
		}
		row := g.Pix[y*g.Width : (y+1)*g.Width]
		for _, v := range row {
			glyph := q.gradient.Glyph(v)
			if glyph == bg && q.density > 1 {
				for i := 0; i < q.density; i++ {
					b.WriteRune(glyph)
				}
				continue
			}
			b.WriteRune(glyph)
		}
	}
	return frame.Frame(b.String())
}
