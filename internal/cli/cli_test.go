package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/mgpai22/kara/internal/audio"
	"github.com/mgpai22/kara/internal/logging"
	"github.com/mgpai22/kara/internal/subtitle"
	"github.com/mgpai22/kara/internal/transcribe"
	"github.com/mgpai22/kara/internal/transcript"
)

const helloJSON = `{
	"segments": [{"start": 0.0, "end": 2.5, "text": "hello world"}],
	"words": [
		{"word": "hello", "start": 0.0, "end": 1.0},
		{"word": "world", "start": 1.2, "end": 2.5},
		{"word": "broken", "start": 3.0}
	]
}`

func useNopLogger(t *testing.T) {
	t.Helper()
	prev := logger
	logger = logging.NewNop()
	t.Cleanup(func() { logger = prev })
}

func TestProjectName(t *testing.T) {
	tests := []struct {
		explicit, configured, input string
		want                        string
	}{
		{"My Song", "Configured", "in/track.json", "My Song"},
		{"", "Configured", "in/track.json", "Configured"},
		{"  ", "", "in/track.json", "track"},
		{"", "", "media/live.take.mp3", "live.take"},
	}

	for _, tt := range tests {
		if got := projectName(tt.explicit, tt.configured, tt.input); got != tt.want {
			t.Errorf("projectName(%q, %q, %q) = %q, want %q", tt.explicit, tt.configured, tt.input, got, tt.want)
		}
	}
}

func TestParseProvider(t *testing.T) {
	tests := []struct {
		in      string
		want    transcribe.Provider
		wantErr bool
	}{
		{"openai", transcribe.ProviderOpenAI, false},
		{" Gemini ", transcribe.ProviderGemini, false},
		{"whisper", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := parseProvider(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("parseProvider(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("parseProvider(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestAPIKeyFor(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "sk-env")
	t.Setenv("GEMINI_API_KEY", "")

	if got, err := apiKeyFor(transcribe.ProviderOpenAI, ""); err != nil || got != "sk-env" {
		t.Errorf("openai from env = %q, %v", got, err)
	}
	if got, err := apiKeyFor(transcribe.ProviderOpenAI, "sk-flag"); err != nil || got != "sk-flag" {
		t.Errorf("flag should win, got %q, %v", got, err)
	}

	_, err := apiKeyFor(transcribe.ProviderGemini, "")
	if err == nil || !strings.Contains(err.Error(), "GEMINI_API_KEY") {
		t.Errorf("expected error naming GEMINI_API_KEY, got %v", err)
	}
}

func TestExtractOutputPath(t *testing.T) {
	mp3 := audio.DefaultCompressionOptions()
	wav := audio.CompressionOptions{Format: "wav"}

	tests := []struct {
		name      string
		media     string
		outputDir string
		opts      audio.CompressionOptions
		want      string
	}{
		{"next to video", filepath.Join("clips", "show.mp4"), "", mp3, filepath.Join("clips", "show.mp3")},
		{"into output dir", filepath.Join("clips", "show.mp4"), "out", wav, filepath.Join("out", "show.wav")},
		{"same extension", filepath.Join("songs", "track.mp3"), "", mp3, filepath.Join("songs", "track_audio.mp3")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := extractOutputPath(tt.media, tt.outputDir, tt.opts); got != tt.want {
				t.Errorf("extractOutputPath() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestOutputFilename(t *testing.T) {
	tests := []struct {
		name   string
		format subtitle.Format
		want   string
	}{
		{"Hello World!", subtitle.FormatSRT, "Hello_World.srt"},
		{"Hello World!", subtitle.FormatWordSRT, "Hello_World_words.srt"},
		{"Hello World!", subtitle.FormatASS, "Hello_World.ass"},
		{"", subtitle.FormatWordSRT, "subtitles_words.srt"},
	}

	for _, tt := range tests {
		t.Run(string(tt.format), func(t *testing.T) {
			if got := outputFilename(tt.name, tt.format); got != tt.want {
				t.Errorf("outputFilename(%q, %q) = %q, want %q", tt.name, tt.format, got, tt.want)
			}
		})
	}
}

func TestRenderOutputs(t *testing.T) {
	useNopLogger(t)

	tr, _, err := transcript.Parse([]byte(helloJSON))
	if err != nil {
		t.Fatal(err)
	}

	dir := filepath.Join(t.TempDir(), "subs")
	paths, err := renderOutputs(tr, "Hello World!", dir, subtitle.AllFormats)
	if err != nil {
		t.Fatalf("renderOutputs() error = %v", err)
	}

	want := []string{"Hello_World.srt", "Hello_World_words.srt", "Hello_World.ass", "Hello_World.vtt"}
	if len(paths) != len(want) {
		t.Fatalf("got %d paths, want %d", len(paths), len(want))
	}
	for i, p := range paths {
		if filepath.Base(p) != want[i] {
			t.Errorf("path %d = %q, want %q", i, filepath.Base(p), want[i])
		}
		if _, err := os.Stat(p); err != nil {
			t.Errorf("output missing: %v", err)
		}
	}

	data, err := os.ReadFile(paths[0])
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "1\n00:00:00,000 --> 00:00:02,500\nhello world\n\n" {
		t.Errorf("standard SRT = %q", data)
	}
}

func TestSaveTranscript(t *testing.T) {
	tr, _, err := transcript.Parse([]byte(helloJSON))
	if err != nil {
		t.Fatal(err)
	}

	dir := t.TempDir()
	path, err := saveTranscript(tr, "My Song", dir)
	if err != nil {
		t.Fatalf("saveTranscript() error = %v", err)
	}
	if filepath.Base(path) != "My_Song.json" {
		t.Errorf("path = %q, want My_Song.json", path)
	}

	loaded, issues, err := transcript.Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if len(issues) != 0 {
		t.Errorf("saved transcript should reload cleanly, got %v", issues)
	}
	if len(loaded.Segments) != 1 || len(loaded.Words) != 2 {
		t.Errorf("loaded %d segments and %d words", len(loaded.Segments), len(loaded.Words))
	}
}

func TestInboxRendererHandle(t *testing.T) {
	useNopLogger(t)

	root := t.TempDir()
	inbox := filepath.Join(root, "inbox")
	r := &inboxRenderer{
		outputDir:  filepath.Join(root, "out"),
		archiveDir: filepath.Join(root, "archive"),
		formats:    []subtitle.Format{subtitle.FormatASS},
		now:        func() time.Time { return time.Date(2024, 5, 1, 12, 30, 0, 0, time.UTC) },
	}
	for _, dir := range []string{inbox, r.archiveDir} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			t.Fatal(err)
		}
	}

	input := filepath.Join(inbox, "song.json")
	for round, wantArchived := range []string{"song.json", "song_20240501-123000.json"} {
		if err := os.WriteFile(input, []byte(helloJSON), 0644); err != nil {
			t.Fatal(err)
		}
		if err := r.handle(t.Context(), input); err != nil {
			t.Fatalf("round %d: handle() error = %v", round, err)
		}

		if _, err := os.Stat(filepath.Join(r.outputDir, "song.ass")); err != nil {
			t.Errorf("round %d: karaoke output missing: %v", round, err)
		}
		if _, err := os.Stat(input); !os.IsNotExist(err) {
			t.Errorf("round %d: input should be moved out of the inbox", round)
		}
		if _, err := os.Stat(filepath.Join(r.archiveDir, wantArchived)); err != nil {
			t.Errorf("round %d: expected archive %s: %v", round, wantArchived, err)
		}
	}

	// a path that was already archived is ignored
	if err := r.handle(t.Context(), input); err != nil {
		t.Errorf("handle() on missing file error = %v", err)
	}
}

func TestRenderAndValidateCommands(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "track.json")
	if err := os.WriteFile(input, []byte(helloJSON), 0644); err != nil {
		t.Fatal(err)
	}
	outDir := filepath.Join(dir, "subs")

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		rootCmd.SetArgs(nil)
	})

	rootCmd.SetArgs([]string{"render", input, "--format", "srt,ass", "--name", "Track One", "-o", outDir})
	if err := rootCmd.Execute(); err != nil {
		t.Fatalf("render error = %v\n%s", err, out.String())
	}

	srtPath := filepath.Join(outDir, "Track_One.srt")
	if _, err := os.Stat(filepath.Join(outDir, "Track_One.ass")); err != nil {
		t.Errorf("karaoke output missing: %v", err)
	}
	if !strings.Contains(out.String(), "Track_One.srt") {
		t.Errorf("render should report written files, got %q", out.String())
	}

	out.Reset()
	rootCmd.SetArgs([]string{"validate", srtPath})
	if err := rootCmd.Execute(); err != nil {
		t.Fatalf("validate error = %v", err)
	}
	if !strings.Contains(out.String(), "valid SRT") {
		t.Errorf("validate output = %q", out.String())
	}

	bad := filepath.Join(dir, "bad.srt")
	if err := os.WriteFile(bad, []byte("not subtitles"), 0644); err != nil {
		t.Fatal(err)
	}
	rootCmd.SetArgs([]string{"validate", bad})
	if err := rootCmd.Execute(); err == nil {
		t.Error("validate should fail for a malformed file")
	}
}
