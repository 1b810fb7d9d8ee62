package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/san-kum/asciimotion/internal/automation"
	"github.com/san-kum/asciimotion/internal/config"
	"github.com/san-kum/asciimotion/internal/extract"
	"github.com/san-kum/asciimotion/internal/pipeline"
	"github.com/san-kum/asciimotion/internal/quantize"
	"github.com/san-kum/asciimotion/internal/storage"
)

var (
	widthsFlag  string
	frames      int
	gradient    string
	brightness  float64
	contrast    float64
	saturation  float64
	invert      bool
	flip        bool
	density     int
	filter      string
	background  string
	output      string
	formatsFlag string
	preview     bool
	save        bool
	configFile  string
	preset      string
	workers     int
)

func newConvertCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "convert [media]",
		Short: "convert an image, gif or video into ascii frame sets",
		Args:  cobra.ExactArgs(1),
		RunE:  runConvert,
	}

	f := cmd.Flags()
	f.StringVar(&widthsFlag, "widths", "58", "comma-separated output widths")
	f.IntVar(&frames, "frames", config.DefaultFrames, "frames to sample from a video")
	f.StringVar(&gradient, "gradient", config.DefaultGradient, "gradient preset or literal glyphs, lightest first")
	f.Float64Var(&brightness, "brightness", 1, "brightness factor")
	f.Float64Var(&contrast, "contrast", config.DefaultContrast, "contrast factor")
	f.Float64Var(&saturation, "saturation", 1, "saturation factor")
	f.BoolVar(&invert, "invert", false, "invert luminance")
	f.BoolVar(&flip, "flip", false, "mirror horizontally")
	f.IntVar(&density, "density", config.DefaultDensity, "repeat the background glyph this many times per cell")
	f.StringVar(&filter, "filter", config.DefaultFilter, "resampling filter: "+strings.Join(quantize.FilterNames(), ", "))
	f.StringVar(&background, "background", config.DefaultBackground, "colour behind transparent pixels")
	f.StringVarP(&output, "output", "o", "", "output directory")
	f.StringVar(&formatsFlag, "format", "json,go,txt", "output encodings")
	f.BoolVar(&preview, "preview", false, "print the first frame")
	f.BoolVar(&save, "save", false, "store the conversion in the library")
	f.StringVar(&configFile, "config", "", "config file path (yaml)")
	f.StringVar(&preset, "preset", "", "use a preset configuration")
	f.IntVar(&workers, "workers", config.DefaultWorkers, "concurrent widths")
	return cmd
}

// resolveConfig layers preset, config file and explicitly set flags, in
// that order.
func resolveConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()
	if preset != "" {
		cfg = config.GetPreset(preset)
		if cfg == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
		}
	}
	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}

	flags := cmd.Flags()
	if flags.Changed("widths") {
		w, err := config.ParseWidths(widthsFlag)
		if err != nil {
			return nil, err
		}
		cfg.Widths = w
	}
	if flags.Changed("frames") {
		cfg.Frames = frames
	}
	if flags.Changed("gradient") {
		cfg.Gradient = gradient
	}
	if flags.Changed("brightness") {
		cfg.Adjust.Brightness = brightness
	}
	if flags.Changed("contrast") {
		cfg.Adjust.Contrast = contrast
	}
	if flags.Changed("saturation") {
		cfg.Adjust.Saturation = saturation
	}
	if flags.Changed("invert") {
		cfg.Adjust.Invert = invert
	}
	if flags.Changed("flip") {
		cfg.Flip = flip
	}
	if flags.Changed("density") {
		cfg.SpaceDensity = density
	}
	if flags.Changed("filter") {
		cfg.Filter = filter
	}
	if flags.Changed("background") {
		cfg.Background = background
	}
	if flags.Changed("format") {
		fm, err := config.ParseFormats(formatsFlag)
		if err != nil {
			return nil, err
		}
		cfg.Formats = fm
	}
	if flags.Changed("workers") {
		cfg.Workers = workers
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// newBuilder wires an extractor and builder for cfg.
func newBuilder(cfg *config.Config) (*pipeline.Builder, *extract.Extractor, error) {
	bg, err := config.ParseColor(cfg.Background)
	if err != nil {
		return nil, nil, err
	}
	ex := extract.New(extract.WithBackground(bg), extract.WithLogger(logger))
	b := pipeline.New(ex, pipeline.WithLogger(logger), pipeline.WithWorkers(cfg.Workers))
	return b, ex, nil
}

func runConvert(cmd *cobra.Command, args []string) error {
	source := args[0]

	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	builder, _, err := newBuilder(cfg)
	if err != nil {
		return err
	}
	req, err := cfg.Request(source)
	if err != nil {
		return err
	}

	ctx, cancel := signalContext()
	defer cancel()

	res, err := builder.Build(ctx, req)
	if err != nil {
		return fmt.Errorf("converting %s: %w", source, err)
	}
	meta := automation.Describe(source, cfg, res)

	if output != "" {
		if err := storage.Write(output, meta, res, cfg.Formats); err != nil {
			return fmt.Errorf("writing %s: %w", output, err)
		}
		fmt.Printf("wrote %d frames at widths %v to %s\n", res.Frames(), res.Widths, output)
	}
	if save {
		st := storage.New(dataDir)
		if err := st.Init(); err != nil {
			return err
		}
		id, err := st.Save(meta, res, cfg.Formats)
		if err != nil {
			return err
		}
		fmt.Printf("saved as %s\n", id)
	}
	if output == "" && !save {
		for _, w := range res.Widths {
			cols, rows := res.Set(w).Dims()
			fmt.Printf("width %d: %d frames of %dx%d\n", w, len(res.Set(w)), cols, rows)
		}
	}

	if preview && len(res.Widths) > 0 {
		if set := res.Set(res.Widths[0]); len(set) > 0 {
			fmt.Println(set[0])
		}
	}
	return nil
}
