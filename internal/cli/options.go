package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mgpai22/kara/internal/subtitle"
	"github.com/mgpai22/kara/internal/transcribe"
	"github.com/mgpai22/kara/internal/transcript"
)

// flag value when set on the command line, otherwise fallback
func stringFlag(cmd *cobra.Command, name, fallback string) string {
	if cmd.Flags().Changed(name) {
		v, _ := cmd.Flags().GetString(name)
		return v
	}
	return fallback
}

func intFlag(cmd *cobra.Command, name string, fallback int) int {
	if cmd.Flags().Changed(name) {
		v, _ := cmd.Flags().GetInt(name)
		return v
	}
	return fallback
}

func outputFormats(cmd *cobra.Command) ([]subtitle.Format, error) {
	if cmd.Flags().Changed("format") {
		v, _ := cmd.Flags().GetString("format")
		return subtitle.ParseFormats(v)
	}
	return cfg.OutputFormats()
}

// projectName picks the base name for output files: an explicit name wins,
// then the configured one, then the input file name without extension.
func projectName(explicit, configured, inputPath string) string {
	if strings.TrimSpace(explicit) != "" {
		return explicit
	}
	if strings.TrimSpace(configured) != "" {
		return configured
	}
	base := filepath.Base(inputPath)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// API key from the flag or the provider's environment variable
func apiKeyFor(provider transcribe.Provider, flagValue string) (string, error) {
	if flagValue != "" {
		return flagValue, nil
	}

	var envVar string
	switch provider {
	case transcribe.ProviderOpenAI:
		envVar = "OPENAI_API_KEY"
	case transcribe.ProviderGemini:
		envVar = "GEMINI_API_KEY"
	default:
		return "", fmt.Errorf("unsupported provider: %s", provider)
	}

	if key := os.Getenv(envVar); key != "" {
		return key, nil
	}
	return "", fmt.Errorf("%s API key is required: use --api-key flag or set %s environment variable", provider, envVar)
}

func parseProvider(s string) (transcribe.Provider, error) {
	switch p := transcribe.Provider(strings.ToLower(strings.TrimSpace(s))); p {
	case transcribe.ProviderOpenAI, transcribe.ProviderGemini:
		return p, nil
	default:
		return "", fmt.Errorf("unsupported provider %q: use openai or gemini", s)
	}
}

// renderOutputs writes one file per format and returns the written paths.
func renderOutputs(
	tr transcript.Result,
	name, outputDir string,
	formats []subtitle.Format,
) ([]string, error) {
	paths := make([]string, 0, len(formats))
	for _, format := range formats {
		writer, err := subtitle.NewWriter(format)
		if err != nil {
			return paths, fmt.Errorf("failed to create subtitle writer: %w", err)
		}

		path := filepath.Join(outputDir, outputFilename(name, format))
		if err := writer.Write(tr, path); err != nil {
			return paths, fmt.Errorf("failed to write %s subtitles: %w", format, err)
		}

		logger.Debugw("Wrote subtitles", "format", format, "path", path)
		paths = append(paths, path)
	}
	return paths, nil
}

// outputFilename keeps the word-aligned SRT from overwriting the standard one
// when both are written for the same project.
func outputFilename(name string, format subtitle.Format) string {
	filename := subtitle.Filename(name, format)
	if format != subtitle.FormatWordSRT {
		return filename
	}
	ext := filepath.Ext(filename)
	return strings.TrimSuffix(filename, ext) + "_words" + ext
}

func logIssues(source string, issues []transcript.Issue) {
	if len(issues) == 0 {
		return
	}
	logger.Warnw("Skipped malformed transcript entries",
		"source", source,
		"count", len(issues),
	)
	for _, is := range issues {
		logger.Debugw("Skipped entry", "source", source, "issue", is.Error())
	}
}
