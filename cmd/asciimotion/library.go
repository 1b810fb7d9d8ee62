package main

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/san-kum/asciimotion/internal/automation"
	"github.com/san-kum/asciimotion/internal/config"
	"github.com/san-kum/asciimotion/internal/frame"
	"github.com/san-kum/asciimotion/internal/metrics"
	"github.com/san-kum/asciimotion/internal/storage"
)

var (
	showWidth    int
	showFrame    int
	inspectWidth int
	exportFormat string
	batchSweeps  bool
)

var (
	headerCell = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("86")).Padding(0, 1)
	bodyCell   = lipgloss.NewStyle().Padding(0, 1)
	dimCell    = lipgloss.NewStyle().Foreground(lipgloss.Color("242")).Padding(0, 1)
)

func newListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "list conversions in the library",
		RunE:  listConversions,
	}
}

func listConversions(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	runs, err := st.List()
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Println("no conversions found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tSOURCE\tTIME\tWIDTHS\tFRAMES\tGRADIENT")
	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%v\t%d\t%s\n",
			run.ID,
			run.Source,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Widths,
			run.Frames,
			run.Gradient,
		)
	}
	return w.Flush()
}

func newShowCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show [dir|id]",
		Short: "print a conversion's settings, or one of its frames",
		Args:  cobra.ExactArgs(1),
		RunE:  showConversion,
	}
	cmd.Flags().IntVar(&showWidth, "width", 0, "width to print a frame from")
	cmd.Flags().IntVar(&showFrame, "frame", -1, "frame index to print")
	return cmd
}

func showConversion(cmd *cobra.Command, args []string) error {
	dir, err := conversionDir(args[0])
	if err != nil {
		return err
	}
	meta, err := storage.ReadMetadata(dir)
	if err != nil {
		return err
	}

	if showFrame >= 0 {
		w := showWidth
		if w == 0 && len(meta.Widths) > 0 {
			w = meta.Widths[0]
		}
		set, err := storage.ReadSet(dir, w)
		if err != nil {
			return err
		}
		if showFrame >= len(set) {
			return &frame.FrameIndexError{Index: showFrame, Wrapped: fmt.Errorf("width %d has %d frames", w, len(set))}
		}
		fmt.Println(set[showFrame])
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "source\t%s\n", meta.Source)
	fmt.Fprintf(w, "created\t%s\n", meta.Timestamp.Format("2006-01-02 15:04:05"))
	fmt.Fprintf(w, "frames\t%d\n", meta.Frames)
	fmt.Fprintf(w, "gradient\t%q\n", meta.Gradient)
	fmt.Fprintf(w, "adjust\tbrightness=%.2f contrast=%.2f saturation=%.2f invert=%t\n",
		meta.Adjust.Brightness, meta.Adjust.Contrast, meta.Adjust.Saturation, meta.Adjust.Invert)
	fmt.Fprintf(w, "flip\t%t\n", meta.Flip)
	fmt.Fprintf(w, "density\t%d\n", meta.SpaceDensity)
	fmt.Fprintf(w, "filter\t%s\n", meta.Filter)
	fmt.Fprintf(w, "formats\t%s\n", strings.Join(meta.Formats, ","))
	for _, width := range meta.Widths {
		fmt.Fprintf(w, "w%d\t%dx%d  coverage %.1f%%  churn %.1f\n",
			width, width*max(meta.SpaceDensity, 1), meta.Heights[width],
			meta.Metrics[fmt.Sprintf("w%d.coverage", width)]*100,
			meta.Metrics[fmt.Sprintf("w%d.churn", width)])
	}
	return w.Flush()
}

func newInspectCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "inspect [dir|id]",
		Short: "plot coverage and churn across frames",
		Args:  cobra.ExactArgs(1),
		RunE:  inspectConversion,
	}
	cmd.Flags().IntVar(&inspectWidth, "width", 0, "only this width")
	return cmd
}

func inspectConversion(cmd *cobra.Command, args []string) error {
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

	widths := res.Widths
	if inspectWidth != 0 {
		if _, ok := res.Sets[inspectWidth]; !ok {
			return fmt.Errorf("no width %d (have %v)", inspectWidth, res.Widths)
		}
		widths = []int{inspectWidth}
	}

	for _, w := range widths {
		rep := metrics.Analyze(res.Set(w), bg)
		fmt.Printf("width %d (%dx%d, %d frames)\n\n", w, rep.Width, rep.Height, rep.Frames)

		if rep.Frames > 1 {
			cov := make([]float64, len(rep.Coverage))
			for i, c := range rep.Coverage {
				cov[i] = c * 100
			}
			fmt.Println(asciigraph.Plot(cov,
				asciigraph.Height(8),
				asciigraph.Width(60),
				asciigraph.Caption("ink coverage % per frame"),
			))
			fmt.Println()

			churn := make([]float64, len(rep.Churn))
			for i, c := range rep.Churn {
				churn[i] = float64(c)
			}
			fmt.Println(asciigraph.Plot(churn,
				asciigraph.Height(8),
				asciigraph.Width(60),
				asciigraph.Caption("cells changed per transition"),
			))
			fmt.Println()
		} else {
			fmt.Printf("coverage %.1f%%\n\n", rep.MeanCoverage*100)
		}

		var glyphs []string
		for _, g := range rep.TopGlyphs(8) {
			glyphs = append(glyphs, fmt.Sprintf("%q×%d", g.Glyph, g.Count))
		}
		fmt.Printf("glyphs: %s\n\n", strings.Join(glyphs, " "))
	}
	return nil
}

func newExportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export [dir|id]",
		Short: "re-encode a conversion into other formats",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := conversionDir(args[0])
			if err != nil {
				return err
			}
			formats, err := config.ParseFormats(exportFormat)
			if err != nil {
				return err
			}
			if err := storage.Export(dir, formats); err != nil {
				return err
			}
			fmt.Printf("exported %s as %s\n", dir, strings.Join(formats, ","))
			return nil
		},
	}
	cmd.Flags().StringVar(&exportFormat, "format", "json,go,txt", "encodings to write")
	return cmd
}

func newPresetsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "presets",
		Short: "list conversion presets",
		RunE: func(cmd *cobra.Command, args []string) error {
			t := table.New().
				Border(lipgloss.RoundedBorder()).
				BorderStyle(lipgloss.NewStyle().Foreground(lipgloss.Color("240"))).
				Headers("PRESET", "WIDTHS", "FRAMES", "GRADIENT", "CONTRAST", "INVERT", "FLIP", "FILTER")
			for _, name := range config.ListPresets() {
				p := config.GetPreset(name)
				t.Row(name,
					fmt.Sprint(p.Widths),
					fmt.Sprint(p.Frames),
					p.Gradient,
					fmt.Sprintf("%.1f", p.Adjust.Contrast),
					fmt.Sprint(p.Adjust.Invert),
					fmt.Sprint(p.Flip),
					p.Filter,
				)
			}
			t.StyleFunc(func(row, col int) lipgloss.Style {
				switch {
				case row == table.HeaderRow:
					return headerCell
				case col == 0:
					return bodyCell.Bold(true)
				default:
					return bodyCell
				}
			})
			fmt.Println(t)
			return nil
		},
	}
}

func newGradientsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "gradients",
		Short: "list built-in gradients",
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, p := range frame.Presets() {
				fmt.Printf("%s%s\n", headerCell.Width(14).Render(p.String()), dimCell.Render(fmt.Sprintf("%q", p.Gradient().String())))
			}
			return nil
		},
	}
}

func newBatchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "batch [manifest.yaml]",
		Short: "run the conversions and sweeps in a manifest",
		Args:  cobra.ExactArgs(1),
		RunE:  runBatch,
	}
	cmd.Flags().BoolVar(&batchSweeps, "sweeps", true, "also run the manifest's sweeps")
	return cmd
}

func runBatch(cmd *cobra.Command, args []string) error {
	m, err := automation.LoadManifest(args[0])
	if err != nil {
		return err
	}
	cfg, err := m.Config()
	if err != nil {
		return err
	}
	builder, ex, err := newBuilder(cfg)
	if err != nil {
		return err
	}

	ctx, cancel := signalContext()
	defer cancel()

	if m.Name != "" {
		fmt.Printf("manifest: %s\n", m.Name)
	}
	runner := automation.NewRunner(builder, ex, logger)
	results, err := runner.Run(ctx, m)
	if err != nil {
		return err
	}

	st := storage.New(dataDir)
	for _, r := range results {
		if r.Output != "" {
			fmt.Printf("%s -> %s\n", r.Job.Source, r.Output)
			continue
		}
		if err := st.Init(); err != nil {
			return err
		}
		id, err := st.Save(r.Metadata, r.Result, r.Config.Formats)
		if err != nil {
			return err
		}
		fmt.Printf("%s -> %s\n", r.Job.Source, id)
	}

	if !batchSweeps {
		return nil
	}
	for i, s := range m.Sweeps {
		steps, err := runner.Sweep(ctx, m, s)
		if err != nil {
			return fmt.Errorf("sweep %d: %w", i+1, err)
		}
		printSweep(s, steps)
	}
	return nil
}

func printSweep(s automation.Sweep, steps []automation.SweepResult) {
	fmt.Printf("\nsweep %s over %s at width %d\n", s.Param, s.Source, s.Width)

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "VALUE\tCOVERAGE\tCHURN")
	cov := make([]float64, len(steps))
	for i, r := range steps {
		cov[i] = r.Coverage * 100
		fmt.Fprintf(w, "%.3f\t%.1f%%\t%.1f\n", r.Value, r.Coverage*100, r.Churn)
	}
	w.Flush()

	fmt.Println(asciigraph.Plot(cov, asciigraph.Height(6), asciigraph.Caption("coverage % by "+s.Param)))
}
