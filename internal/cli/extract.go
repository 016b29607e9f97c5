package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mgpai22/kara/internal/audio"
)

var extractCmd = &cobra.Command{
	Use:   "extract [media_file]",
	Short: "Extract transcription-ready audio from a media file",
	Long: `Extract the audio track from a video or audio file and save it in
the compact form used for transcription.

Supports mp3, aac and wav output.

Examples:
  kara extract video.mp4
  kara extract video.mp4 -o audio -f wav
  kara extract song.flac --sample-rate 44100 --channels 2 --bitrate 128k`,
	Args: cobra.ExactArgs(1),
	RunE: runExtract,
}

func init() {
	rootCmd.AddCommand(extractCmd)

	defaults := audio.DefaultCompressionOptions()
	extractCmd.Flags().
		StringP("format", "f", defaults.Format, "Output audio format (mp3, aac, wav)")
	extractCmd.Flags().
		IntP("sample-rate", "r", defaults.SampleRate, "Sample rate in Hz (e.g., 16000, 44100, 48000)")
	extractCmd.Flags().
		IntP("channels", "c", defaults.Channels, "Number of audio channels (1=mono, 2=stereo)")
	extractCmd.Flags().
		StringP("bitrate", "b", defaults.Bitrate, "Bitrate for lossy formats (e.g., 64k, 128k)")
}

func runExtract(cmd *cobra.Command, args []string) error {
	mediaPath := args[0]

	if _, err := os.Stat(mediaPath); os.IsNotExist(err) {
		return fmt.Errorf("file not found: %s", mediaPath)
	}
	if !audio.IsMediaFile(mediaPath) {
		return fmt.Errorf("unsupported file type: %s (expected audio or video file)", filepath.Ext(mediaPath))
	}

	format, _ := cmd.Flags().GetString("format")
	sampleRate, _ := cmd.Flags().GetInt("sample-rate")
	channels, _ := cmd.Flags().GetInt("channels")
	bitrate, _ := cmd.Flags().GetString("bitrate")

	format = strings.ToLower(format)
	validFormats := map[string]bool{
		"mp3": true,
		"aac": true,
		"wav": true,
	}
	if !validFormats[format] {
		return fmt.Errorf(
			"invalid format %q: supported formats are mp3, aac, wav",
			format,
		)
	}

	opts := audio.CompressionOptions{
		Format:     format,
		SampleRate: sampleRate,
		Channels:   channels,
		Bitrate:    bitrate,
	}
	outputPath := extractOutputPath(mediaPath, stringFlag(cmd, "output", ""), opts)

	logger.Infow("Extracting audio",
		"input", mediaPath,
		"output", outputPath,
		"format", format,
		"sample_rate", sampleRate,
		"channels", channels,
	)

	if err := audio.CompressAudio(cmd.Context(), mediaPath, outputPath, opts); err != nil {
		return fmt.Errorf("extraction failed: %w", err)
	}

	absOutput, _ := filepath.Abs(outputPath)
	fmt.Fprintf(cmd.OutOrStdout(), "Audio extracted successfully: %s\n", absOutput)
	return nil
}

// output file next to the input, or inside outputDir when given; a suffix
// keeps it from overwriting an input with the same extension
func extractOutputPath(mediaPath, outputDir string, opts audio.CompressionOptions) string {
	base := strings.TrimSuffix(filepath.Base(mediaPath), filepath.Ext(mediaPath))
	dir := filepath.Dir(mediaPath)
	if outputDir != "" {
		dir = outputDir
	}

	path := filepath.Join(dir, base+opts.Extension())
	if filepath.Clean(path) == filepath.Clean(mediaPath) {
		path = filepath.Join(dir, base+"_audio"+opts.Extension())
	}
	return path
}
