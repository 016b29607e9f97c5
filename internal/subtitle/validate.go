package subtitle

import (
	"bufio"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var ErrInvalidSRT = errors.New("invalid SRT")

var srtTimestampRegex = regexp.MustCompile(`^\d{2,}:\d{2}:\d{2},\d{3}$`)

// ValidateSRT checks the block structure of a standard SRT document: a
// numeric index line, a "start --> end" line, at least one text line, and at
// least one block overall.
func ValidateSRT(content string) error {
	scanner := bufio.NewScanner(strings.NewReader(content))

	var lines []string
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("error reading SRT content: %w", err)
	}
	if len(lines) > 0 {
		lines[0] = strings.TrimPrefix(lines[0], "\ufeff")
	}

	blocks := 0
	i := 0
	for i < len(lines) {
		if strings.TrimSpace(lines[i]) == "" {
			i++
			continue
		}

		lineNum := i + 1
		if _, err := strconv.Atoi(strings.TrimSpace(lines[i])); err != nil {
			return fmt.Errorf("%w: line %d: expected subtitle index, got %q", ErrInvalidSRT, lineNum, lines[i])
		}

		i++
		if i >= len(lines) {
			return fmt.Errorf("%w: block %d: missing time range", ErrInvalidSRT, blocks+1)
		}
		if err := validateTimeRange(lines[i]); err != nil {
			return fmt.Errorf("%w: line %d: %v", ErrInvalidSRT, i+1, err)
		}

		i++
		textLines := 0
		for i < len(lines) && strings.TrimSpace(lines[i]) != "" {
			textLines++
			i++
		}
		if textLines == 0 {
			return fmt.Errorf("%w: block %d: no text", ErrInvalidSRT, blocks+1)
		}

		blocks++
	}

	if blocks == 0 {
		return fmt.Errorf("%w: no subtitle blocks", ErrInvalidSRT)
	}
	return nil
}

func validateTimeRange(line string) error {
	line = strings.TrimSpace(line)
	parts := strings.Split(line, " --> ")
	if len(parts) != 2 {
		return fmt.Errorf("expected \"start --> end\", got %q", line)
	}
	for _, part := range parts {
		if !srtTimestampRegex.MatchString(strings.TrimSpace(part)) {
			return fmt.Errorf("malformed timestamp %q", part)
		}
	}
	return nil
}
