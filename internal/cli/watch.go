package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/mgpai22/kara/internal/subtitle"
	"github.com/mgpai22/kara/internal/transcript"
	"github.com/mgpai22/kara/internal/watcher"
)

var watchCmd = &cobra.Command{
	Use:   "watch [inbox_dir]",
	Short: "Render transcripts dropped into an inbox directory",
	Long: `Watch a directory for verbose JSON transcripts and render each one as
it arrives. Transcripts already in the directory are rendered on start.
Processed transcripts are moved to the archive directory.

Stops on Ctrl+C after in-flight renders finish.

Examples:
  kara watch
  kara watch inbox -o subs --archive done --format ass,srt`,
	Args: cobra.MaximumNArgs(1),
	RunE: runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)

	watchCmd.Flags().
		String("archive", "", "Directory processed transcripts are moved to")
	watchCmd.Flags().
		StringP("format", "f", "", "Comma-separated output formats (srt, word-srt, ass, vtt, all)")
	watchCmd.Flags().
		Int("max-concurrent", 0, "Maximum transcripts rendered at once")
}

// renders inbox transcripts into outputDir and archives them
type inboxRenderer struct {
	outputDir  string
	archiveDir string
	formats    []subtitle.Format
	now        func() time.Time
}

func runWatch(cmd *cobra.Command, args []string) error {
	inputDir := cfg.Watch.Input
	if len(args) == 1 {
		inputDir = args[0]
	}

	formats, err := outputFormats(cmd)
	if err != nil {
		return err
	}

	r := &inboxRenderer{
		outputDir:  stringFlag(cmd, "output", cfg.Watch.Output),
		archiveDir: stringFlag(cmd, "archive", cfg.Watch.Archived),
		formats:    formats,
		now:        time.Now,
	}
	for _, dir := range []string{inputDir, r.outputDir, r.archiveDir} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}

	w, err := watcher.New(inputDir, r.handle, logger, intFlag(cmd, "max-concurrent", cfg.Watch.MaxConcurrent))
	if err != nil {
		return err
	}
	defer w.Stop()

	if err := w.Start(cmd.Context()); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

func (r *inboxRenderer) handle(ctx context.Context, path string) error {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		// already archived by an earlier event
		return nil
	}

	tr, issues, err := transcript.Load(path)
	if err != nil {
		return err
	}
	logIssues(path, issues)

	name := projectName("", "", path)
	paths, err := renderOutputs(tr, name, r.outputDir, r.formats)
	if err != nil {
		return err
	}

	archived, err := r.archive(path)
	if err != nil {
		return err
	}

	logger.Infow("Rendered transcript",
		"input", path,
		"outputs", paths,
		"archived", archived,
	)
	return nil
}

// moves a processed transcript into the archive, never overwriting an
// earlier one with the same name
func (r *inboxRenderer) archive(path string) (string, error) {
	base := filepath.Base(path)
	dest := filepath.Join(r.archiveDir, base)
	if _, err := os.Stat(dest); err == nil {
		ext := filepath.Ext(base)
		stamp := r.now().Format("20060102-150405")
		dest = filepath.Join(r.archiveDir, fmt.Sprintf("%s_%s%s", strings.TrimSuffix(base, ext), stamp, ext))
	}

	if err := os.Rename(path, dest); err != nil {
		return "", fmt.Errorf("failed to archive %s: %w", path, err)
	}
	return dest, nil
}
