package quantize

import (
	"math"

	"github.com/san-kum/asciimotion/internal/frame"
)

// span is the run of source samples one output sample covers, with the
// share of the output interval each of them fills. Shares sum to one.
type span struct {
	first   int
	weights []float64
}

// areaSpans maps dst output samples onto src input samples. Output sample d
// covers the source interval [d*src/dst, (d+1)*src/dst).
func areaSpans(src, dst int) []span {
	scale := float64(src) / float64(dst)
	spans := make([]span, dst)
	for d := range spans {
		lo, hi := float64(d)*scale, float64(d+1)*scale
		first := int(lo)
		last := min(int(math.Ceil(hi)), src)
		ws := make([]float64, 0, last-first)
		for i := first; i < last; i++ {
			ws = append(ws, (min(hi, float64(i+1))-max(lo, float64(i)))/scale)
		}
		spans[d] = span{first: first, weights: ws}
	}
	return spans
}

// areaResample averages each source pixel into every output cell it
// overlaps, weighted by the overlap. Rows are resampled first, then columns.
// The channel count of r is kept.
func areaResample(r *frame.Raster, w, h int) *frame.Raster {
	ch := r.Channels
	xs, ys := areaSpans(r.Width, w), areaSpans(r.Height, h)

	rows := make([]float64, w*r.Height*ch)
	for y := 0; y < r.Height; y++ {
		for x, s := range xs {
			acc := rows[(y*w+x)*ch : (y*w+x+1)*ch]
			for k, wt := range s.weights {
				px := r.At(s.first+k, y)
				for c := range acc {
					acc[c] += wt * float64(px[c])
				}
			}
		}
	}

	out := &frame.Raster{Width: w, Height: h, Channels: ch, Pix: make([]uint8, w*h*ch)}
	acc := make([]float64, ch)
	for y, s := range ys {
		for x := 0; x < w; x++ {
			clear(acc)
			for k, wt := range s.weights {
				i := ((s.first+k)*w + x) * ch
				for c := range acc {
					acc[c] += wt * rows[i+c]
				}
			}
			px := out.At(x, y)
			for c, v := range acc {
				px[c] = uint8(min(math.Round(v), 255))
			}
		}
	}
	return out
}
