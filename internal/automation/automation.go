package automation

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/asciimotion/internal/config"
	"github.com/san-kum/asciimotion/internal/frame"
	"github.com/san-kum/asciimotion/internal/metrics"
	"github.com/san-kum/asciimotion/internal/pipeline"
	"github.com/san-kum/asciimotion/internal/storage"
)

// Manifest defines a batch of conversions.
type Manifest struct {
	Name        string    `yaml:"name"`
	Description string    `yaml:"description"`
	Preset      string    `yaml:"preset"`
	Defaults    yaml.Node `yaml:"defaults"`
	Jobs        []Job     `yaml:"jobs"`
	Sweeps      []Sweep   `yaml:"sweeps"`
}

// Job is one conversion. Settings override the manifest defaults field by
// field, using the same keys as a config file.
type Job struct {
	Source   string    `yaml:"source"`
	Output   string    `yaml:"output"`
	Preset   string    `yaml:"preset"`
	Settings yaml.Node `yaml:"settings"`
}

// Sweep converts one source at one width across a range of values for a
// single adjustment parameter.
type Sweep struct {
	Source string  `yaml:"source"`
	Width  int     `yaml:"width"`
	Param  string  `yaml:"param"`
	Min    float64 `yaml:"min"`
	Max    float64 `yaml:"max"`
	Steps  int     `yaml:"steps"`
}

// SweepResult holds the metrics of one sweep step.
type SweepResult struct {
	Value    float64
	Coverage float64
	Churn    float64
	Frame    frame.Frame
}

// JobResult is a finished job. Output is empty when the job had no output
// directory.
type JobResult struct {
	Job      Job
	Config   *config.Config
	Result   *pipeline.Result
	Metadata storage.Metadata
	Output   string
}

// LoadManifest loads a manifest from a YAML file. Relative source and output
// paths are resolved against the manifest's directory.
func LoadManifest(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}

	base := filepath.Dir(path)
	for i := range m.Jobs {
		m.Jobs[i].Source = resolve(base, m.Jobs[i].Source)
		m.Jobs[i].Output = resolve(base, m.Jobs[i].Output)
	}
	for i := range m.Sweeps {
		m.Sweeps[i].Source = resolve(base, m.Sweeps[i].Source)
	}
	return &m, nil
}

func resolve(base, p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(base, p)
}

// Config returns the manifest-level configuration: the preset if named,
// otherwise the defaults, with the defaults block applied on top.
func (m *Manifest) Config() (*config.Config, error) {
	return m.configFrom(m.Preset)
}

func (m *Manifest) configFrom(preset string) (*config.Config, error) {
	cfg := config.DefaultConfig()
	if preset != "" {
		cfg = config.GetPreset(preset)
		if cfg == nil {
			return nil, &frame.ConfigError{Field: "preset", Value: preset, Reason: "unknown preset"}
		}
	}
	if m.Defaults.Kind != 0 {
		if err := m.Defaults.Decode(cfg); err != nil {
			return nil, fmt.Errorf("defaults: %w", err)
		}
	}
	return cfg, nil
}

// Resolve builds a job's config. A job preset replaces the manifest preset;
// the manifest defaults block applies either way, and the job's settings
// apply last.
func (m *Manifest) Resolve(job Job) (*config.Config, error) {
	preset := m.Preset
	if job.Preset != "" {
		preset = job.Preset
	}
	cfg, err := m.configFrom(preset)
	if err != nil {
		return nil, err
	}
	if job.Settings.Kind != 0 {
		if err := job.Settings.Decode(cfg); err != nil {
			return nil, fmt.Errorf("settings: %w", err)
		}
	}
	return cfg, cfg.Validate()
}

// Converter builds frame sets.
type Converter interface {
	Build(ctx context.Context, req pipeline.Request) (*pipeline.Result, error)
	BuildFrom(ctx context.Context, rasters []*frame.Raster, req pipeline.Request) (*pipeline.Result, error)
}

type Runner struct {
	conv      Converter
	extractor pipeline.Extractor
	logger    *slog.Logger
}

func NewRunner(conv Converter, ex pipeline.Extractor, logger *slog.Logger) *Runner {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Runner{conv: conv, extractor: ex, logger: logger}
}

// Run executes every job in order and stops at the first failure. Jobs with
// an output directory are written there.
func (r *Runner) Run(ctx context.Context, m *Manifest) ([]JobResult, error) {
	results := make([]JobResult, 0, len(m.Jobs))

	for i, job := range m.Jobs {
		r.logger.Info("running job", "step", i+1, "of", len(m.Jobs), "source", job.Source)

		cfg, err := m.Resolve(job)
		if err != nil {
			return results, fmt.Errorf("job %d: %w", i+1, err)
		}
		req, err := cfg.Request(job.Source)
		if err != nil {
			return results, fmt.Errorf("job %d: %w", i+1, err)
		}
		res, err := r.conv.Build(ctx, req)
		if err != nil {
			return results, fmt.Errorf("job %d: %w", i+1, err)
		}

		meta := Describe(job.Source, cfg, res)
		if job.Output != "" {
			if err := storage.Write(job.Output, meta, res, cfg.Formats); err != nil {
				return results, fmt.Errorf("job %d write: %w", i+1, err)
			}
		}
		results = append(results, JobResult{Job: job, Config: cfg, Result: res, Metadata: meta, Output: job.Output})
	}

	return results, nil
}

// Sweep decodes the source once and converts it at every step value.
func (r *Runner) Sweep(ctx context.Context, m *Manifest, s Sweep) ([]SweepResult, error) {
	if s.Steps < 2 {
		return nil, &frame.ConfigError{Field: "steps", Value: s.Steps, Reason: "a sweep needs at least two steps"}
	}
	cfg, err := m.Config()
	if err != nil {
		return nil, err
	}
	cfg.Widths = []int{s.Width}

	base, err := cfg.Request(s.Source)
	if err != nil {
		return nil, err
	}
	rasters, err := r.extractor.Extract(ctx, s.Source, base.Samples)
	if err != nil {
		return nil, err
	}

	bg := base.Gradient.Background()
	step := (s.Max - s.Min) / float64(s.Steps-1)
	results := make([]SweepResult, 0, s.Steps)
	for i := 0; i < s.Steps; i++ {
		v := s.Min + float64(i)*step
		req := base
		switch s.Param {
		case "contrast":
			req.Adjust.Contrast = v
		case "brightness":
			req.Adjust.Brightness = v
		case "saturation":
			req.Adjust.Saturation = v
		default:
			return nil, &frame.ConfigError{Field: "param", Value: s.Param, Reason: "expected contrast, brightness or saturation"}
		}

		res, err := r.conv.BuildFrom(ctx, rasters, req)
		if err != nil {
			return nil, fmt.Errorf("sweep %s=%.3f: %w", s.Param, v, err)
		}
		rep := metrics.Analyze(res.Set(s.Width), bg)
		results = append(results, SweepResult{
			Value:    v,
			Coverage: rep.MeanCoverage,
			Churn:    rep.MeanChurn,
			Frame:    res.Set(s.Width)[0],
		})
		r.logger.Debug("sweep step", "param", s.Param, "value", v, "coverage", rep.MeanCoverage)
	}
	return results, nil
}

// Describe builds the metadata record for a finished conversion, including
// per-width coverage and churn.
func Describe(source string, cfg *config.Config, res *pipeline.Result) storage.Metadata {
	meta := storage.Metadata{
		Source:       source,
		Timestamp:    time.Now(),
		Gradient:     cfg.Gradient,
		Adjust:       cfg.Adjust,
		Flip:         cfg.Flip,
		SpaceDensity: cfg.SpaceDensity,
		Filter:       cfg.Filter,
		Metrics:      make(map[string]float64),
	}

	bg := ' '
	if g, err := frame.ResolveGradient(cfg.Gradient); err == nil {
		bg = g.Background()
	}
	for _, w := range res.Widths {
		rep := metrics.Analyze(res.Set(w), bg)
		meta.Metrics[fmt.Sprintf("w%d.coverage", w)] = rep.MeanCoverage
		meta.Metrics[fmt.Sprintf("w%d.churn", w)] = rep.MeanChurn
	}
	return meta
}
