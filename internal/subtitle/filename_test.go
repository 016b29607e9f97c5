package subtitle

import "testing"

func TestFilename(t *testing.T) {
	tests := []struct {
		name    string
		project string
		format  Format
		want    string
	}{
		{"plain", "My Song", FormatSRT, "My_Song.srt"},
		{"word srt shares the srt extension", "My Song", FormatWordSRT, "My_Song.srt"},
		{"karaoke", "My Song", FormatASS, "My_Song.ass"},
		{"webvtt", "My Song", FormatVTT, "My_Song.vtt"},
		{"punctuation stripped", "Don't Stop (Live)!", FormatSRT, "Dont_Stop_Live.srt"},
		{"trailing space trimmed", "track 01  ", FormatSRT, "track_01.srt"},
		{"hyphen kept", "lo-fi_mix", FormatASS, "lo-fi_mix.ass"},
		{"unicode letters kept", "Café Über", FormatSRT, "Café_Über.srt"},
		{"empty falls back", "", FormatSRT, "subtitles.srt"},
		{"only symbols falls back", "?!*", FormatWordSRT, "subtitles.srt"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Filename(tt.project, tt.format); got != tt.want {
				t.Errorf("Filename(%q, %q) = %q, want %q", tt.project, tt.format, got, tt.want)
			}
		})
	}
}
