package frame

import (
	"image"
	"image/color"
)

// Raster is a decoded 8-bit pixel grid stored row-major.
// Channels is 1 (luminance) or 3 (RGB).
type Raster struct {
	Width    int
	Height   int
	Channels int
	Pix      []uint8
}

// NewRaster allocates a zeroed raster.
func NewRaster(w, h, channels int) (*Raster, error) {
	if w <= 0 || h <= 0 {
		return nil, &DimensionError{Width: w, Height: h, Reason: "raster dimensions must be positive"}
	}
	if channels != 1 && channels != 3 {
		return nil, &ConfigError{Field: "channels", Value: channels, Reason: "must be 1 or 3"}
	}
	return &Raster{
		Width:    w,
		Height:   h,
		Channels: channels,
		Pix:      make([]uint8, w*h*channels),
	}, nil
}

// GrayFrom wraps row-major luminance samples without copying.
func GrayFrom(w, h int, samples []uint8) (*Raster, error) {
	if w <= 0 || h <= 0 || len(samples) != w*h {
		return nil, &DimensionError{Width: w, Height: h, Reason: "sample count does not match dimensions"}
	}
	return &Raster{Width: w, Height: h, Channels: 1, Pix: samples}, nil
}

func (r *Raster) Stride() int {
	return r.Width * r.Channels
}

// Offset returns the index of the first channel of pixel (x, y).
func (r *Raster) Offset(x, y int) int {
	return y*r.Stride() + x*r.Channels
}

// At returns the channel samples of pixel (x, y). The slice aliases Pix.
func (r *Raster) At(x, y int) []uint8 {
	i := r.Offset(x, y)
	return r.Pix[i : i+r.Channels]
}

func (r *Raster) Clone() *Raster {
	pix := make([]uint8, len(r.Pix))
	copy(pix, r.Pix)
	return &Raster{Width: r.Width, Height: r.Height, Channels: r.Channels, Pix: pix}
}

// Equal reports whether both rasters hold identical samples.
func (r *Raster) Equal(o *Raster) bool {
	if r == nil || o == nil {
		return r == o
	}
	if r.Width != o.Width || r.Height != o.Height || r.Channels != o.Channels {
		return false
	}
	for i := range r.Pix {
		if r.Pix[i] != o.Pix[i] {
			return false
		}
	}
	return true
}

// Luma returns the ITU-R 601 luminance of an RGB triple, using the same
// fixed-point weights as image/color.GrayModel.
func Luma(r, g, b uint8) uint8 {
	y := (19595*uint32(r) + 38470*uint32(g) + 7471*uint32(b) + 1<<15) >> 16
	return uint8(y)
}

// Gray converts to a single-channel luminance raster. A raster that is
// already single-channel is returned as is.
func (r *Raster) Gray() *Raster {
	if r.Channels == 1 {
		return r
	}
	out := &Raster{Width: r.Width, Height: r.Height, Channels: 1, Pix: make([]uint8, r.Width*r.Height)}
	for i, j := 0, 0; i < len(r.Pix); i, j = i+3, j+1 {
		out.Pix[j] = Luma(r.Pix[i], r.Pix[i+1], r.Pix[i+2])
	}
	return out
}

// Image exposes the raster as an opaque image.Image.
func (r *Raster) Image() image.Image {
	rect := image.Rect(0, 0, r.Width, r.Height)
	if r.Channels == 1 {
		return &image.Gray{Pix: r.Pix, Stride: r.Width, Rect: rect}
	}
	img := image.NewRGBA(rect)
	for i, j := 0, 0; i < len(r.Pix); i, j = i+3, j+4 {
		img.Pix[j] = r.Pix[i]
		img.Pix[j+1] = r.Pix[i+1]
		img.Pix[j+2] = r.Pix[i+2]
		img.Pix[j+3] = 0xff
	}
	return img
}

// FromImage flattens img onto an opaque background and returns an RGB
// raster. Partially transparent pixels are blended with bg, so no alpha
// reaches later stages.
func FromImage(img image.Image, bg color.Color) *Raster {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	br, bgG, bb, _ := bg.RGBA()
	out := &Raster{Width: w, Height: h, Channels: 3, Pix: make([]uint8, w*h*3)}

	i := 0
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			// Premultiplied source over opaque background.
			sr, sg, sb, sa := img.At(x, y).RGBA()
			inv := 0xffff - sa
			out.Pix[i] = uint8((sr + br*inv/0xffff) >> 8)
			out.Pix[i+1] = uint8((sg + bgG*inv/0xffff) >> 8)
			out.Pix[i+2] = uint8((sb + bb*inv/0xffff) >> 8)
			i += 3
		}
	}
	return out
}
