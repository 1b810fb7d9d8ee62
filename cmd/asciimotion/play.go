package main

import (
	"fmt"
	"os"
	"slices"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/san-kum/asciimotion/internal/anim"
	"github.com/san-kum/asciimotion/internal/config"
	"github.com/san-kum/asciimotion/internal/frame"
	"github.com/san-kum/asciimotion/internal/storage"
	"github.com/san-kum/asciimotion/internal/viz"
)

const maxLayers = 3

var (
	periods   []time.Duration
	anchors   []string
	poll      time.Duration
	noStatus  bool
	viewTheme string
	viewStats bool
	viewRate  time.Duration
)

func newPlayCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "play [dir[@w1,w2,...]]...",
		Short: "play up to three layered conversions in the terminal",
		Long: `Play conversions as layers, back to front. Each layer cycles through the
given widths far to close and back again; without widths it uses every width
of the conversion, narrowest first.`,
		Args: cobra.RangeArgs(1, maxLayers),
		RunE: runPlay,
	}
	cmd.Flags().DurationSliceVar(&periods, "period", nil, "per-layer frame period (0 advances every tick)")
	cmd.Flags().StringSliceVar(&anchors, "anchor", nil, "per-layer anchor: center-bottom, center, top-left")
	cmd.Flags().DurationVar(&poll, "poll", anim.DefaultPollTimeout, "input poll timeout per tick")
	cmd.Flags().BoolVar(&noStatus, "no-status", false, "hide the status line")
	return cmd
}

// parseLayerSpec splits "dir@20,58" into its directory and widths.
func parseLayerSpec(spec string) (string, []int, error) {
	dir, list, ok := strings.Cut(spec, "@")
	if !ok {
		return dir, nil, nil
	}
	widths, err := config.ParseWidths(list)
	return dir, widths, err
}

// loadLayer reads a conversion and turns it into a layer. It also returns
// the background glyph of the conversion's gradient.
func loadLayer(i int, spec string) (*anim.Layer, rune, error) {
	arg, widths, err := parseLayerSpec(spec)
	if err != nil {
		return nil, 0, fmt.Errorf("layer %d: %w", i+1, err)
	}
	dir, err := conversionDir(arg)
	if err != nil {
		return nil, 0, err
	}
	meta, res, err := storage.ReadAll(dir)
	if err != nil {
		return nil, 0, fmt.Errorf("layer %d: %w", i+1, err)
	}

	if widths == nil {
		widths = slices.Sorted(slices.Values(res.Widths))
	}
	for _, w := range widths {
		if _, ok := res.Sets[w]; !ok {
			return nil, 0, fmt.Errorf("layer %d: %s has no width %d (have %v)", i+1, arg, w, res.Widths)
		}
	}

	var opts []anim.LayerOption
	if i < len(periods) {
		opts = append(opts, anim.WithPeriod(periods[i]))
	}
	if i < len(anchors) {
		a, err := anim.ParseAnchor(anchors[i])
		if err != nil {
			return nil, 0, err
		}
		opts = append(opts, anim.WithAnchor(a))
	}

	layer, err := anim.NewLayer(arg, anim.ZoomStages(res.Sets, widths), opts...)
	if err != nil {
		return nil, 0, fmt.Errorf("layer %d: %w", i+1, err)
	}

	bg := ' '
	if g, err := frame.ResolveGradient(meta.Gradient); err == nil {
		bg = g.Background()
	}
	return layer, bg, nil
}

func runPlay(cmd *cobra.Command, args []string) error {
	layers := make([]*anim.Layer, 0, len(args))
	var bg rune
	for i, spec := range args {
		l, b, err := loadLayer(i, spec)
		if err != nil {
			return err
		}
		if i == 0 {
			bg = b
		}
		layers = append(layers, l)
	}

	term, err := anim.OpenTerminal(os.Stdin, os.Stdout)
	if err != nil {
		return err
	}
	defer term.Close()

	ctx, cancel := signalContext()
	defer cancel()

	p := anim.NewPlayer(term, layers,
		anim.WithPollTimeout(poll),
		anim.WithStatusLine(!noStatus),
		anim.WithBackground(bg),
	)
	logger.Debug("playing", "layers", len(layers), "poll", poll)
	return p.Run(ctx)
}

func newViewCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "view [dir|id]",
		Short: "browse a conversion interactively",
		Args:  cobra.ExactArgs(1),
		RunE:  runView,
	}
	cmd.Flags().StringVar(&viewTheme, "theme", "mono", fmt.Sprintf("color theme %v", viz.ThemeNames()))
	cmd.Flags().BoolVar(&viewStats, "stats", false, "show the metrics panel")
	cmd.Flags().DurationVar(&viewRate, "period", viz.DefaultPeriod, "frame period")
	return cmd
}

func runView(cmd *cobra.Command, args []string) error {
	dir, err := conversionDir(args[0])
	if err != nil {
		return err
	}
	meta, res, err := storage.ReadAll(dir)
	if err != nil {
		return err
	}

	bg := ' '
	if g, err := frame.ResolveGradient(meta.Gradient); err == nil {
		bg = g.Background()
	}
	m := viz.NewModel(meta.Source, res, bg,
		viz.WithTheme(viewTheme),
		viz.WithStats(viewStats),
		viz.WithPeriod(viewRate),
	)
	_, err = tea.NewProgram(m, tea.WithAltScreen()).Run()
	return err
}
