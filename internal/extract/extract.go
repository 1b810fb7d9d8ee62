// Package extract decodes media files into ordered raster sequences.
//
// Still images yield one raster, animated GIFs yield every frame composed
// onto the logical screen, and videos are sampled at evenly spaced indices
// through a [VideoDecoder].
package extract

import (
	"context"
	"errors"
	"fmt"
	"image"
	"image/color"
	_ "image/jpeg"
	_ "image/png"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"github.com/san-kum/asciimotion/internal/frame"
)

// DefaultFallbackTotal is assumed when a video reports no usable frame count.
const DefaultFallbackTotal = 1000

// Kind classifies a media file by extension.
type Kind int

const (
	KindStill Kind = iota
	KindAnimation
	KindVideo
)

func (k Kind) String() string {
	switch k {
	case KindAnimation:
		return "animation"
	case KindVideo:
		return "video"
	default:
		return "still"
	}
}

var videoExts = map[string]bool{
	".mp4":  true,
	".avi":  true,
	".mov":  true,
	".webm": true,
	".mkv":  true,
	".m4v":  true,
}

// DetectKind picks the decoding strategy from the file extension.
func DetectKind(path string) Kind {
	ext := strings.ToLower(filepath.Ext(path))
	switch {
	case ext == ".gif":
		return KindAnimation
	case videoExts[ext]:
		return KindVideo
	default:
		return KindStill
	}
}

// SampleIndices returns floor(i*total/n) for i in [0, n).
func SampleIndices(total, n int) []int {
	if n <= 0 {
		return nil
	}
	out := make([]int, n)
	for i := range out {
		out[i] = i * total / n
	}
	return out
}

// VideoDecoder reads individual frames from a video container.
type VideoDecoder interface {
	FrameCount(ctx context.Context, path string) (int, error)
	DecodeFrame(ctx context.Context, path string, index int) (image.Image, error)
}

// Extractor turns a media path into rasters.
type Extractor struct {
	video         VideoDecoder
	background    color.Color
	logger        *slog.Logger
	fallbackTotal int
}

type Option func(*Extractor)

func WithVideoDecoder(d VideoDecoder) Option {
	return func(e *Extractor) { e.video = d }
}

// WithBackground sets the colour transparent pixels are flattened onto.
func WithBackground(c color.Color) Option {
	return func(e *Extractor) { e.background = c }
}

func WithLogger(l *slog.Logger) Option {
	return func(e *Extractor) { e.logger = l }
}

func WithFallbackTotal(n int) Option {
	return func(e *Extractor) { e.fallbackTotal = n }
}

// New returns an extractor that decodes video with ffmpeg unless another
// decoder is supplied.
func New(opts ...Option) *Extractor {
	e := &Extractor{
		video:         NewFFmpeg(),
		background:    color.White,
		logger:        slog.New(slog.DiscardHandler),
		fallbackTotal: DefaultFallbackTotal,
	}
	for _, o := range opts {
		o(e)
	}
	return e
}

// Extract decodes path. samples bounds the number of video frames and is
// ignored for stills and GIFs.
func (e *Extractor) Extract(ctx context.Context, path string, samples int) ([]*frame.Raster, error) {
	kind := DetectKind(path)
	e.logger.Debug("extracting", "path", path, "kind", kind.String())

	var (
		out []*frame.Raster
		err error
	)
	switch kind {
	case KindVideo:
		out, err = e.extractVideo(ctx, path, samples)
	case KindAnimation:
		out, err = e.extractGIF(path)
	default:
		out, err = e.extractStill(path)
	}
	if err != nil {
		return nil, err
	}
	e.logger.Info("extracted frames", "path", path, "count", len(out))
	return out, nil
}

func (e *Extractor) extractStill(path string) ([]*frame.Raster, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &frame.DecodeError{Path: path, Wrapped: err}
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, &frame.DecodeError{Path: path, Wrapped: err}
	}
	return []*frame.Raster{frame.FromImage(img, e.background)}, nil
}

func (e *Extractor) extractVideo(ctx context.Context, path string, samples int) ([]*frame.Raster, error) {
	if samples <= 0 {
		return nil, &frame.ConfigError{Field: "frames", Value: samples, Reason: "video sample count must be positive"}
	}
	if _, err := os.Stat(path); err != nil {
		return nil, &frame.DecodeError{Path: path, Wrapped: err}
	}

	total, err := e.video.FrameCount(ctx, path)
	if err != nil || total <= 0 {
		e.logger.Warn("frame count unavailable, using fallback",
			"path", path, "fallback", e.fallbackTotal, "error", err)
		total = e.fallbackTotal
	}

	out := make([]*frame.Raster, 0, samples)
	var last error
	for _, idx := range SampleIndices(total, samples) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		img, err := e.video.DecodeFrame(ctx, path, idx)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return nil, err
			}
			last = &frame.FrameIndexError{Index: idx, Wrapped: err}
			e.logger.Warn("skipping frame", "path", path, "index", idx, "error", err)
			continue
		}
		out = append(out, frame.FromImage(img, e.background))
	}
	if len(out) == 0 {
		if last == nil {
			last = fmt.Errorf("no frames sampled from %d", total)
		}
		return nil, &frame.DecodeError{Path: path, Wrapped: last}
	}
	return out, nil
}
