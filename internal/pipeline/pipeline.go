// Package pipeline turns one media file into FrameSets at several widths.
//
// The source is decoded once and adjusted once per frame; every requested
// width reuses the adjusted rasters. Either every width succeeds or the
// build fails as a whole.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/san-kum/asciimotion/internal/adjust"
	"github.com/san-kum/asciimotion/internal/frame"
	"github.com/san-kum/asciimotion/internal/quantize"
)

// Extractor decodes a media path into rasters.
type Extractor interface {
	Extract(ctx context.Context, path string, samples int) ([]*frame.Raster, error)
}

// Request describes one conversion.
type Request struct {
	Source       string
	Widths       []int
	Samples      int
	Gradient     frame.Gradient
	Adjust       adjust.Settings
	Flip         bool
	SpaceDensity int
	Filter       quantize.Filter
}

// NewRequest fills in the defaults: ten samples, the minimalist gradient,
// identity adjustment, density one and area resampling.
func NewRequest(source string, widths ...int) Request {
	return Request{
		Source:       source,
		Widths:       widths,
		Samples:      10,
		Gradient:     frame.PresetMinimalist.Gradient(),
		Adjust:       adjust.DefaultSettings(),
		SpaceDensity: 1,
		Filter:       quantize.FilterArea,
	}
}

// Validate checks everything that can be rejected before decoding.
func (r Request) Validate() error {
	if len(r.Widths) == 0 {
		return &frame.DimensionError{Reason: "at least one width is required"}
	}
	seen := make(map[int]bool, len(r.Widths))
	for _, w := range r.Widths {
		if w <= 0 {
			return &frame.DimensionError{Width: w, Reason: "width must be positive"}
		}
		if seen[w] {
			return &frame.ConfigError{Field: "widths", Value: w, Reason: "duplicate width"}
		}
		seen[w] = true
	}
	if len(r.Gradient) == 0 {
		return &frame.ConfigError{Field: "gradient", Value: `""`, Reason: "gradient must contain at least one glyph"}
	}
	if r.SpaceDensity < 1 {
		return &frame.ConfigError{Field: "space_density", Value: r.SpaceDensity, Reason: "must be at least 1"}
	}
	return r.Adjust.Validate()
}

// Result holds one FrameSet per requested width.
type Result struct {
	Source string
	Widths []int
	Sets   map[int]frame.FrameSet
}

// Set returns the FrameSet for width w, or nil.
func (r *Result) Set(w int) frame.FrameSet {
	return r.Sets[w]
}

// Frames reports the number of frames per set.
func (r *Result) Frames() int {
	if len(r.Widths) == 0 {
		return 0
	}
	return len(r.Sets[r.Widths[0]])
}

type Builder struct {
	extractor Extractor
	logger    *slog.Logger
	workers   int
}

type Option func(*Builder)

func WithLogger(l *slog.Logger) Option {
	return func(b *Builder) { b.logger = l }
}

// WithWorkers bounds how many widths are quantized concurrently.
func WithWorkers(n int) Option {
	return func(b *Builder) {
		if n > 0 {
			b.workers = n
		}
	}
}

func New(ex Extractor, opts ...Option) *Builder {
	b := &Builder{
		extractor: ex,
		logger:    slog.New(slog.DiscardHandler),
		workers:   1,
	}
	for _, o := range opts {
		o(b)
	}
	return b
}

// Build validates req, extracts its source and converts it.
func (b *Builder) Build(ctx context.Context, req Request) (*Result, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	rasters, err := b.extractor.Extract(ctx, req.Source, req.Samples)
	if err != nil {
		return nil, err
	}
	return b.BuildFrom(ctx, rasters, req)
}

// BuildFrom converts already decoded rasters.
func (b *Builder) BuildFrom(ctx context.Context, rasters []*frame.Raster, req Request) (*Result, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	if len(rasters) == 0 {
		return nil, &frame.DecodeError{Path: req.Source, Wrapped: fmt.Errorf("no frames")}
	}

	adjusted := make([]*frame.Raster, len(rasters))
	for i, r := range rasters {
		a := adjust.Apply(r, req.Adjust)
		if req.Flip {
			a = adjust.Mirror(a)
		}
		adjusted[i] = a
	}

	q, err := quantize.New(req.Gradient,
		quantize.WithSpaceDensity(req.SpaceDensity),
		quantize.WithFilter(req.Filter),
	)
	if err != nil {
		return nil, err
	}

	sets := make([]frame.FrameSet, len(req.Widths))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(b.workers)
	for i, w := range req.Widths {
		g.Go(func() error {
			set := make(frame.FrameSet, len(adjusted))
			for j, r := range adjusted {
				if err := gctx.Err(); err != nil {
					return err
				}
				f, err := q.Quantize(r, w)
				if err != nil {
					return fmt.Errorf("width %d frame %d: %w", w, j, err)
				}
				set[j] = f
				b.logger.Debug("frame done", "width", w, "frame", j+1, "of", len(adjusted))
			}
			sets[i] = set
			b.logger.Info("width done", "width", w, "frames", len(set))
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	res := &Result{
		Source: req.Source,
		Widths: append([]int(nil), req.Widths...),
		Sets:   make(map[int]frame.FrameSet, len(req.Widths)),
	}
	for i, w := range req.Widths {
		res.Sets[w] = sets[i]
	}
	return res, nil
}
