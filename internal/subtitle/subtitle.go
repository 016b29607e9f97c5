package subtitle

import (
	"errors"
	"fmt"
	"strings"
)

// represents supported subtitle formats
type Format string

const (
	// standard SubRip blocks with segment text
	FormatSRT Format = "srt"
	// SubRip blocks listing every word with its own timing
	FormatWordSRT Format = "word-srt"
	// karaoke Advanced SubStation Alpha
	FormatASS Format = "ass"
	// WebVTT converted from the standard SRT
	FormatVTT Format = "vtt"
)

// AllFormats lists formats in the order they are rendered by default.
var AllFormats = []Format{FormatSRT, FormatWordSRT, FormatASS, FormatVTT}

var ErrUnsupportedFormat = errors.New("unsupported subtitle format")

func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "srt":
		return FormatSRT, nil
	case "word-srt", "words", "word":
		return FormatWordSRT, nil
	case "ass", "ssa", "karaoke":
		return FormatASS, nil
	case "vtt", "webvtt":
		return FormatVTT, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, s)
	}
}

// ParseFormats accepts a comma-separated list or "all". Duplicates are
// collapsed, order is kept.
func ParseFormats(s string) ([]Format, error) {
	if strings.EqualFold(strings.TrimSpace(s), "all") {
		return append([]Format(nil), AllFormats...), nil
	}

	seen := make(map[Format]bool)
	var formats []Format
	for _, part := range strings.Split(s, ",") {
		if strings.TrimSpace(part) == "" {
			continue
		}
		f, err := ParseFormat(part)
		if err != nil {
			return nil, err
		}
		if !seen[f] {
			seen[f] = true
			formats = append(formats, f)
		}
	}
	if len(formats) == 0 {
		return nil, fmt.Errorf("%w: empty format list", ErrUnsupportedFormat)
	}
	return formats, nil
}

// file extension for a format
func GetExtensionForFormat(format Format) string {
	switch format {
	case FormatSRT, FormatWordSRT:
		return ".srt"
	case FormatVTT:
		return ".vtt"
	case FormatASS:
		return ".ass"
	default:
		return ".srt"
	}
}
