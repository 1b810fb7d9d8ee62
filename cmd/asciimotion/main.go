package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/san-kum/asciimotion/internal/storage"
)

var (
	dataDir string
	verbose bool
	logJSON bool

	logger *slog.Logger
)

// main registers every command and exits with status 1 when the selected
// command fails.
func main() {
	rootCmd := &cobra.Command{
		Use:           "asciimotion",
		Short:         "convert images, gifs and videos into ascii animations",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logger = newLogger(verbose, logJSON)
		},
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".asciimotion", "library directory")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")
	rootCmd.PersistentFlags().BoolVar(&logJSON, "log-json", false, "log as JSON")

	rootCmd.AddCommand(
		newConvertCmd(),
		newPlayCmd(),
		newViewCmd(),
		newListCmd(),
		newShowCmd(),
		newInspectCmd(),
		newExportCmd(),
		newPresetsCmd(),
		newGradientsCmd(),
		newBatchCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func newLogger(debug, asJSON bool) *slog.Logger {
	opts := &slog.HandlerOptions{Level: slog.LevelInfo}
	if debug {
		opts.Level = slog.LevelDebug
	}
	if asJSON {
		return slog.New(slog.NewJSONHandler(os.Stderr, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stderr, opts))
}

// signalContext is cancelled on interrupt.
func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt)
}

// conversionDir accepts either a directory holding metadata.json or the id
// of a library entry.
func conversionDir(arg string) (string, error) {
	if _, err := os.Stat(filepath.Join(arg, "metadata.json")); err == nil {
		return arg, nil
	}
	dir := storage.New(dataDir).Dir(arg)
	if _, err := os.Stat(filepath.Join(dir, "metadata.json")); err != nil {
		return "", fmt.Errorf("no conversion at %s or in library %s", arg, dataDir)
	}
	return dir, nil
}
