// Package adjust applies tonal transforms to rasters before quantization.
//
// Transforms are pure: each returns a new raster. [Apply] runs them in the
// fixed order saturation, brightness, contrast, invert.
package adjust

import (
	"math"

	"github.com/san-kum/asciimotion/internal/frame"
)

// Settings holds the multipliers and flags of one adjustment pass.
type Settings struct {
	Brightness float64 `yaml:"brightness" json:"brightness"`
	Contrast   float64 `yaml:"contrast" json:"contrast"`
	Saturation float64 `yaml:"saturation" json:"saturation"`
	Invert     bool    `yaml:"invert" json:"invert"`
}

// DefaultSettings is the identity adjustment.
func DefaultSettings() Settings {
	return Settings{Brightness: 1, Contrast: 1, Saturation: 1}
}

// Validate rejects non-positive or non-finite multipliers.
func (s Settings) Validate() error {
	fields := []struct {
		name string
		v    float64
	}{
		{"brightness", s.Brightness},
		{"contrast", s.Contrast},
		{"saturation", s.Saturation},
	}
	for _, f := range fields {
		if math.IsNaN(f.v) || math.IsInf(f.v, 0) || f.v <= 0 {
			return &frame.ConfigError{Field: f.name, Value: f.v, Reason: "multiplier must be a positive finite number"}
		}
	}
	return nil
}

// Apply runs saturation, brightness, contrast and invert in that order.
// Reordering changes the numeric result.
func Apply(r *frame.Raster, s Settings) *frame.Raster {
	out := r
	if s.Saturation != 1 {
		out = Saturate(out, s.Saturation)
	}
	if s.Brightness != 1 {
		out = Brighten(out, s.Brightness)
	}
	if s.Contrast != 1 {
		out = Contrast(out, s.Contrast)
	}
	if s.Invert {
		out = Invert(out)
	}
	if out == r {
		out = r.Clone()
	}
	return out
}

// blend computes deg + f*(v-deg), truncated toward zero and clamped.
func blend(deg, v uint8, f float64) uint8 {
	t := float64(deg) + f*(float64(v)-float64(deg))
	if t <= 0 {
		return 0
	}
	if t >= 255 {
		return 255
	}
	return uint8(t)
}

// Saturate scales colour saturation by blending each pixel with its own
// luminance. Single-channel rasters have no saturation and are copied.
func Saturate(r *frame.Raster, f float64) *frame.Raster {
	out := r.Clone()
	if r.Channels == 1 {
		return out
	}
	for i := 0; i < len(r.Pix); i += 3 {
		l := frame.Luma(r.Pix[i], r.Pix[i+1], r.Pix[i+2])
		out.Pix[i] = blend(l, r.Pix[i], f)
		out.Pix[i+1] = blend(l, r.Pix[i+1], f)
		out.Pix[i+2] = blend(l, r.Pix[i+2], f)
	}
	return out
}

// Brighten blends every sample with black.
func Brighten(r *frame.Raster, f float64) *frame.Raster {
	out := r.Clone()
	for i, v := range r.Pix {
		out.Pix[i] = blend(0, v, f)
	}
	return out
}

// Contrast blends every sample with the rounded mean luminance.
func Contrast(r *frame.Raster, f float64) *frame.Raster {
	mean := meanLuma(r)
	out := r.Clone()
	for i, v := range r.Pix {
		out.Pix[i] = blend(mean, v, f)
	}
	return out
}

func meanLuma(r *frame.Raster) uint8 {
	g := r.Gray()
	var sum uint64
	for _, v := range g.Pix {
		sum += uint64(v)
	}
	return uint8(float64(sum)/float64(len(g.Pix)) + 0.5)
}

// Invert maps each channel sample v to 255-v. Invert(Invert(r)) equals r.
func Invert(r *frame.Raster) *frame.Raster {
	out := r.Clone()
	for i, v := range r.Pix {
		out.Pix[i] = 255 - v
	}
	return out
}

// Mirror flips the raster horizontally.
func Mirror(r *frame.Raster) *frame.Raster {
	out := r.Clone()
	c := r.Channels
	for y := 0; y < r.Height; y++ {
		for x := 0; x < r.Width; x++ {
			src := r.Offset(x, y)
			dst := out.Offset(r.Width-1-x, y)
			copy(out.Pix[dst:dst+c], r.Pix[src:src+c])
		}
	}
	return out
}
