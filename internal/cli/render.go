package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/mgpai22/kara/internal/transcript"
)

var renderCmd = &cobra.Command{
	Use:   "render [transcript.json]",
	Short: "Render subtitles from a verbose JSON transcript",
	Long: `Render subtitle files from a transcript in verbose JSON form
(top-level "segments" and "words" arrays with start/end seconds).

Entries with missing or invalid timing are skipped with a warning.

Formats: srt, word-srt, ass (karaoke), vtt, or "all".

Examples:
  kara render song.json
  kara render song.json --format ass -o subs
  kara render song.json --format srt,word-srt --name "My Song"`,
	Args: cobra.ExactArgs(1),
	RunE: runRender,
}

func init() {
	rootCmd.AddCommand(renderCmd)

	renderCmd.Flags().
		StringP("format", "f", "", "Comma-separated output formats (srt, word-srt, ass, vtt, all)")
	renderCmd.Flags().
		StringP("name", "n", "", "Project name used for output file names (default: input file name)")
}

func runRender(cmd *cobra.Command, args []string) error {
	inputPath := args[0]

	if _, err := os.Stat(inputPath); os.IsNotExist(err) {
		return fmt.Errorf("file not found: %s", inputPath)
	}

	formats, err := outputFormats(cmd)
	if err != nil {
		return err
	}
	name, _ := cmd.Flags().GetString("name")
	name = projectName(name, cfg.Output.Name, inputPath)
	outputDir := stringFlag(cmd, "output", cfg.Output.Dir)

	logger.Infow("Rendering transcript",
		"input", inputPath,
		"output_dir", outputDir,
		"formats", formats,
	)

	tr, issues, err := transcript.Load(inputPath)
	if err != nil {
		return err
	}
	logIssues(inputPath, issues)

	logger.Debugw("Transcript loaded",
		"segments", len(tr.Segments),
		"words", len(tr.Words),
	)

	paths, err := renderOutputs(tr, name, outputDir, formats)
	if err != nil {
		return err
	}

	for _, p := range paths {
		abs, _ := filepath.Abs(p)
		fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", abs)
	}
	return nil
}
