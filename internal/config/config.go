package config

import (
	"fmt"
	"image/color"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/asciimotion/internal/adjust"
	"github.com/san-kum/asciimotion/internal/frame"
	"github.com/san-kum/asciimotion/internal/pipeline"
	"github.com/san-kum/asciimotion/internal/quantize"
)

const (
	DefaultWidth      = 58
	DefaultFrames     = 10
	DefaultGradient   = "minimalist"
	DefaultContrast   = 2.0
	DefaultDensity    = 1
	DefaultFilter     = "area"
	DefaultBackground = "#ffffff"
	DefaultWorkers    = 1
)

// Formats a conversion can be written in.
const (
	FormatJSON = "json"
	FormatGo   = "go"
	FormatText = "txt"
)

type Config struct {
	Widths       []int           `yaml:"widths"`
	Frames       int             `yaml:"frames"`
	Gradient     string          `yaml:"gradient"`
	Adjust       adjust.Settings `yaml:"adjust"`
	Flip         bool            `yaml:"flip"`
	SpaceDensity int             `yaml:"space_density"`
	Filter       string          `yaml:"filter"`
	Background   string          `yaml:"background"`
	Formats      []string        `yaml:"formats"`
	Workers      int             `yaml:"workers"`
}

func DefaultConfig() *Config {
	return &Config{
		Widths:   []int{DefaultWidth},
		Frames:   DefaultFrames,
		Gradient: DefaultGradient,
		Adjust: adjust.Settings{
			Brightness: 1,
			Contrast:   DefaultContrast,
			Saturation: 1,
		},
		SpaceDensity: DefaultDensity,
		Filter:       DefaultFilter,
		Background:   DefaultBackground,
		Formats:      []string{FormatJSON, FormatGo, FormatText},
		Workers:      DefaultWorkers,
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Clone returns a deep copy so presets are never mutated through a caller.
func (c *Config) Clone() *Config {
	out := *c
	out.Widths = append([]int(nil), c.Widths...)
	out.Formats = append([]string(nil), c.Formats...)
	return &out
}

// Validate checks every field that can be rejected without touching media.
func (c *Config) Validate() error {
	_, err := c.Request("")
	if err != nil {
		return err
	}
	if _, err := ParseColor(c.Background); err != nil {
		return err
	}
	_, err = ParseFormats(strings.Join(c.Formats, ","))
	return err
}

// Request turns the configuration into a pipeline request for source.
func (c *Config) Request(source string) (pipeline.Request, error) {
	g, err := frame.ResolveGradient(c.Gradient)
	if err != nil {
		return pipeline.Request{}, err
	}
	f, err := quantize.ParseFilter(c.Filter)
	if err != nil {
		return pipeline.Request{}, err
	}
	req := pipeline.Request{
		Source:       source,
		Widths:       append([]int(nil), c.Widths...),
		Samples:      c.Frames,
		Gradient:     g,
		Adjust:       c.Adjust,
		Flip:         c.Flip,
		SpaceDensity: c.SpaceDensity,
		Filter:       f,
	}
	if err := req.Validate(); err != nil {
		return pipeline.Request{}, err
	}
	return req, nil
}

// ParseWidths reads a comma-separated width list such as "20,58,100".
func ParseWidths(s string) ([]int, error) {
	var out []int
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		w, err := strconv.Atoi(part)
		if err != nil {
			return nil, &frame.ConfigError{Field: "widths", Value: part, Reason: "not an integer"}
		}
		if w <= 0 {
			return nil, &frame.DimensionError{Width: w, Reason: "width must be positive"}
		}
		out = append(out, w)
	}
	if len(out) == 0 {
		return nil, &frame.DimensionError{Reason: "at least one width is required"}
	}
	return out, nil
}

// ParseFormats reads a comma-separated list of output formats.
func ParseFormats(s string) ([]string, error) {
	var out []string
	for _, part := range strings.Split(s, ",") {
		part = strings.ToLower(strings.TrimSpace(part))
		switch part {
		case "":
			continue
		case FormatJSON, FormatGo, FormatText:
			out = append(out, part)
		default:
			return nil, &frame.ConfigError{Field: "format", Value: part, Reason: "expected json, go or txt"}
		}
	}
	return out, nil
}

var namedColors = map[string]color.Color{
	"white":       color.White,
	"black":       color.Black,
	"transparent": color.Transparent,
}

// ParseColor accepts "white", "black", "transparent", "#rgb" or "#rrggbb".
func ParseColor(s string) (color.Color, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if c, ok := namedColors[s]; ok {
		return c, nil
	}
	hex := strings.TrimPrefix(s, "#")
	if len(hex) == 3 {
		hex = string([]byte{hex[0], hex[0], hex[1], hex[1], hex[2], hex[2]})
	}
	if len(hex) != 6 {
		return nil, &frame.ConfigError{Field: "background", Value: s, Reason: "expected #rgb or #rrggbb"}
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return nil, &frame.ConfigError{Field: "background", Value: s, Reason: "invalid hex colour"}
	}
	return color.RGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 0xff}, nil
}
