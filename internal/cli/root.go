package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/mgpai22/kara/internal/config"
	"github.com/mgpai22/kara/internal/logging"
)

var (
	verbose    bool
	configPath string
	logger     *logging.Logger
	cfg        *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "kara",
	Short: "Word-timed subtitles and karaoke from transcripts",
	Long: `Kara turns word-level transcripts into subtitle files.

It renders standard SRT, word-aligned SRT, karaoke ASS with animated
fillers during long pauses, and WebVTT. Transcripts can be produced from
audio or video with OpenAI Whisper or Google Gemini, rendered from an
existing verbose JSON transcript, or picked up from a watched inbox.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = loadConfig(configPath)
		if err != nil {
			return err
		}

		if verbose {
			logger = logging.NewLogger(true)
			return nil
		}
		logger, err = logging.NewLoggerWithLevel(cfg.Logging.Level)
		return err
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

// Execute runs the root command. SIGINT and SIGTERM cancel the command
// context.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return rootCmd.ExecuteContext(ctx)
}

func init() {
	rootCmd.PersistentFlags().
		BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().
		StringVar(&configPath, "config", "", "Path to a YAML config file")
	rootCmd.PersistentFlags().
		StringP("output", "o", "", "Output directory for generated files")
}

func loadConfig(path string) (*config.Config, error) {
	if path == "" {
		return config.Default(), nil
	}
	c, err := config.Load(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return c, nil
}
