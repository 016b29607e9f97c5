package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/mgpai22/kara/internal/audio"
	"github.com/mgpai22/kara/internal/subtitle"
	"github.com/mgpai22/kara/internal/transcribe"
	"github.com/mgpai22/kara/internal/transcript"
)

var generateCmd = &cobra.Command{
	Use:   "generate [media_file]",
	Short: "Transcribe an audio or video file and render subtitles",
	Long: `Transcribe the specified audio or video file with word-level timing
and render subtitle files from the result.

The media is compressed to mono 16 kHz audio (video tracks are dropped),
split into chunks and transcribed in parallel with OpenAI Whisper or
Google Gemini. The transcript is saved as <name>.json next to the
subtitles so it can be re-rendered later with "kara render".

Examples:
  kara generate song.mp3
  kara generate video.mp4 --provider gemini --format ass
  kara generate song.flac -f all -o subs --name "My Song"
  kara generate podcast.mp3 --prompt "A two-person interview." -d 5`,
	Args: cobra.ExactArgs(1),
	RunE: runGenerate,
}

func init() {
	rootCmd.AddCommand(generateCmd)

	generateCmd.Flags().
		String("provider", "", "Transcription provider (openai, gemini)")
	generateCmd.Flags().
		StringP("api-key", "k", "", "API key (or set OPENAI_API_KEY/GEMINI_API_KEY env var)")
	generateCmd.Flags().
		String("model", "", "Model to use for transcription (provider default if empty)")
	generateCmd.Flags().
		StringP("language", "l", "", "Language code of the audio (e.g., en, es, fr)")
	generateCmd.Flags().
		String("prompt", "", "Transcription prompt (defaults to a song lyrics prompt)")
	generateCmd.Flags().
		IntP("chunk-duration", "d", 0, "Chunk duration in minutes for splitting audio")
	generateCmd.Flags().
		Int("concurrency", 0, "Number of parallel transcription workers")
	generateCmd.Flags().
		StringP("format", "f", "", "Comma-separated output formats (srt, word-srt, ass, vtt, all)")
	generateCmd.Flags().
		StringP("name", "n", "", "Project name used for output file names (default: input file name)")
}

func runGenerate(cmd *cobra.Command, args []string) error {
	mediaPath := args[0]
	ctx := cmd.Context()

	if _, err := os.Stat(mediaPath); os.IsNotExist(err) {
		return fmt.Errorf("file not found: %s", mediaPath)
	}
	if !audio.IsMediaFile(mediaPath) {
		return fmt.Errorf("unsupported file type: %s (expected audio or video file)", filepath.Ext(mediaPath))
	}

	provider, err := parseProvider(stringFlag(cmd, "provider", cfg.Transcription.Provider))
	if err != nil {
		return err
	}
	apiKeyFlag, _ := cmd.Flags().GetString("api-key")
	apiKey, err := apiKeyFor(provider, apiKeyFlag)
	if err != nil {
		return err
	}

	formats, err := outputFormats(cmd)
	if err != nil {
		return err
	}

	chunkMinutes := intFlag(cmd, "chunk-duration", cfg.Transcription.ChunkMinutes)
	if chunkMinutes <= 0 {
		return fmt.Errorf("chunk duration must be positive, got %d", chunkMinutes)
	}
	concurrency := intFlag(cmd, "concurrency", cfg.Transcription.Concurrency)
	name, _ := cmd.Flags().GetString("name")
	name = projectName(name, cfg.Output.Name, mediaPath)
	outputDir := stringFlag(cmd, "output", cfg.Output.Dir)

	opts := transcribe.Options{
		Language: stringFlag(cmd, "language", cfg.Transcription.Language),
		Model:    stringFlag(cmd, "model", cfg.Transcription.Model),
		Prompt:   stringFlag(cmd, "prompt", cfg.Transcription.Prompt),
	}

	logger.Infow("Starting subtitle generation",
		"input", mediaPath,
		"provider", provider,
		"output_dir", outputDir,
		"formats", formats,
		"chunk_minutes", chunkMinutes,
		"concurrency", concurrency,
	)

	tempDir, err := os.MkdirTemp("", "kara-*")
	if err != nil {
		return fmt.Errorf("failed to create temp directory: %w", err)
	}
	defer os.RemoveAll(tempDir)

	compression := audio.DefaultCompressionOptions()
	audioPath := filepath.Join(tempDir, "audio"+compression.Extension())

	logger.Infow("Preparing audio for transcription", "video", audio.IsVideoFile(mediaPath))
	if err := audio.CompressAudio(ctx, mediaPath, audioPath, compression); err != nil {
		return fmt.Errorf("failed to prepare audio: %w", err)
	}

	duration, err := audio.GetDurationContext(ctx, audioPath)
	if err != nil {
		return fmt.Errorf("failed to get audio duration: %w", err)
	}
	logger.Infow("Audio prepared", "duration", duration.String())

	chunkDur := time.Duration(chunkMinutes) * time.Minute
	chunks, err := audio.ChunkAudio(ctx, audioPath, chunkDur, filepath.Join(tempDir, "chunks"))
	if err != nil {
		return fmt.Errorf("failed to split audio: %w", err)
	}
	logger.Infow("Created audio chunks", "count", len(chunks))

	transcriber, err := transcribe.Factory(ctx, provider, apiKey, opts)
	if err != nil {
		return fmt.Errorf("failed to create transcriber: %w", err)
	}

	logger.Infow("Transcribing audio", "concurrency", concurrency)
	result, err := transcriber.TranscribeWithChunks(ctx, chunks, concurrency)
	if err != nil {
		return fmt.Errorf("transcription failed: %w", err)
	}
	logIssues(string(provider), result.Issues)

	logger.Infow("Transcription complete",
		"segments", len(result.Transcript.Segments),
		"words", len(result.Transcript.Words),
	)

	jsonPath, err := saveTranscript(result.Transcript, name, outputDir)
	if err != nil {
		return err
	}

	paths, err := renderOutputs(result.Transcript, name, outputDir, formats)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	absJSON, _ := filepath.Abs(jsonPath)
	fmt.Fprintf(out, "Transcript saved: %s\n", absJSON)
	for _, p := range paths {
		abs, _ := filepath.Abs(p)
		fmt.Fprintf(out, "Subtitles generated: %s\n", abs)
	}
	fmt.Fprintf(out, "  Segments: %d\n", len(result.Transcript.Segments))
	fmt.Fprintf(out, "  Words: %d\n", len(result.Transcript.Words))
	fmt.Fprintf(out, "  Duration: %s\n", duration.String())

	return nil
}

// writes the transcript as <name>.json so it can be rendered again
func saveTranscript(tr transcript.Result, name, outputDir string) (string, error) {
	data, err := transcript.Marshal(tr)
	if err != nil {
		return "", fmt.Errorf("failed to encode transcript: %w", err)
	}

	base := subtitle.Filename(name, subtitle.FormatSRT)
	path := filepath.Join(outputDir, base[:len(base)-len(filepath.Ext(base))]+".json")
	if err := subtitle.WriteFile(path, string(data)); err != nil {
		return "", err
	}
	return path, nil
}
