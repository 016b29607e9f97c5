package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/mgpai22/kara/internal/subtitle"
)

var validateCmd = &cobra.Command{
	Use:   "validate [file.srt]",
	Short: "Check that a file is a structurally valid SRT",
	Long: `Check the block structure of an SRT file: a numeric index line,
a "HH:MM:SS,mmm --> HH:MM:SS,mmm" line and at least one text line per
block, with at least one block in the file.

Word-aligned SRT blocks for segments without words have no text lines
and fail this check.`,
	Args: cobra.ExactArgs(1),
	RunE: runValidate,
}

func init() {
	rootCmd.AddCommand(validateCmd)
}

func runValidate(cmd *cobra.Command, args []string) error {
	path := args[0]

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read subtitle file: %w", err)
	}

	if err := subtitle.ValidateSRT(string(data)); err != nil {
		logger.Errorw("Validation failed", "file", path, "error", err)
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "%s: valid SRT\n", path)
	return nil
}
