package subtitle

import (
	"strings"
	"unicode"
)

const defaultBaseName = "subtitles"

// Filename derives an artifact name from a project name: characters other
// than letters, digits, space, hyphen and underscore are stripped, trailing
// whitespace is trimmed and spaces become underscores.
func Filename(project string, format Format) string {
	var sb strings.Builder
	for _, r := range project {
		if unicode.IsLetter(r) || unicode.IsDigit(r) ||
			r == ' ' || r == '-' || r == '_' {
			sb.WriteRune(r)
		}
	}

	base := strings.TrimRightFunc(sb.String(), unicode.IsSpace)
	base = strings.ReplaceAll(base, " ", "_")
	if strings.Trim(base, "_") == "" {
		base = defaultBaseName
	}

	return base + GetExtensionForFormat(format)
}
