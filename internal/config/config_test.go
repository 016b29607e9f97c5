package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/mgpai22/kara/internal/subtitle"
)

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		config  Config
		wantErr bool
	}{
		{
			name:    "empty config gets defaults",
			config:  Config{},
			wantErr: false,
		},
		{
			name: "gemini provider",
			config: Config{
				Transcription: TranscriptionConfig{Provider: "Gemini"},
			},
			wantErr: false,
		},
		{
			name: "unknown provider",
			config: Config{
				Transcription: TranscriptionConfig{Provider: "whisper"},
			},
			wantErr: true,
		},
		{
			name: "unknown format",
			config: Config{
				Output: OutputConfig{Formats: []string{"srt", "docx"}},
			},
			wantErr: true,
		},
		{
			name: "negative chunk size",
			config: Config{
				Transcription: TranscriptionConfig{ChunkMinutes: -1},
			},
			wantErr: true,
		},
		{
			name: "unknown log level",
			config: Config{
				Logging: LoggingConfig{Level: "chatty"},
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.Transcription.Provider != DefaultProvider {
		t.Errorf("Provider = %v, want %v", cfg.Transcription.Provider, DefaultProvider)
	}
	if cfg.Transcription.ChunkMinutes != DefaultChunkMinutes {
		t.Errorf("ChunkMinutes = %v, want %v", cfg.Transcription.ChunkMinutes, DefaultChunkMinutes)
	}
	if cfg.Watch.MaxConcurrent != DefaultMaxConcurrent {
		t.Errorf("MaxConcurrent = %v, want %v", cfg.Watch.MaxConcurrent, DefaultMaxConcurrent)
	}
	if cfg.Logging.Level != "info" {
		t.Errorf("Level = %v, want info", cfg.Logging.Level)
	}

	formats, err := cfg.OutputFormats()
	if err != nil {
		t.Fatalf("OutputFormats() error = %v", err)
	}
	want := []subtitle.Format{subtitle.FormatSRT, subtitle.FormatWordSRT, subtitle.FormatASS}
	if len(formats) != len(want) {
		t.Fatalf("formats = %v, want %v", formats, want)
	}
	for i := range want {
		if formats[i] != want[i] {
			t.Errorf("format %d = %v, want %v", i, formats[i], want[i])
		}
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "kara.yaml")

	content := `
transcription:
  provider: gemini
  model: gemini-2.5-flash
  language: en
  chunk_minutes: 5

output:
  dir: subs
  formats: [ass, vtt]
  name: My Song

watch:
  input: inbox
  max_concurrent: 4

logging:
  level: debug
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Transcription.Provider != "gemini" {
		t.Errorf("Provider = %v, want gemini", cfg.Transcription.Provider)
	}
	if cfg.Transcription.ChunkMinutes != 5 {
		t.Errorf("ChunkMinutes = %v, want 5", cfg.Transcription.ChunkMinutes)
	}
	if cfg.Transcription.Concurrency != DefaultConcurrency {
		t.Errorf("Concurrency = %v, want %v", cfg.Transcription.Concurrency, DefaultConcurrency)
	}
	if cfg.Output.Name != "My Song" {
		t.Errorf("Name = %v, want My Song", cfg.Output.Name)
	}
	if cfg.Watch.Input != "inbox" || cfg.Watch.Archived != "data/archived" {
		t.Errorf("Watch = %+v", cfg.Watch)
	}
	if cfg.Watch.MaxConcurrent != 4 {
		t.Errorf("MaxConcurrent = %v, want 4", cfg.Watch.MaxConcurrent)
	}

	formats, err := cfg.OutputFormats()
	if err != nil {
		t.Fatalf("OutputFormats() error = %v", err)
	}
	if len(formats) != 2 || formats[0] != subtitle.FormatASS || formats[1] != subtitle.FormatVTT {
		t.Errorf("formats = %v, want [ass vtt]", formats)
	}
}

func TestLoadInvalid(t *testing.T) {
	if _, err := Load("nonexistent.yaml"); err == nil {
		t.Error("Load() should return error for nonexistent file")
	}

	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte("transcription: [oops"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Error("Load() should return error for malformed YAML")
	}
}
