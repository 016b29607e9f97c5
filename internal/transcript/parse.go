package transcript

import (
	"encoding/json"
	"fmt"
	"os"
)

// segment as found in verbose_json responses; extra fields (id, seek,
// tokens, avg_logprob, ...) are ignored
type rawSegment struct {
	Start *float64 `json:"start"`
	End   *float64 `json:"end"`
	Text  string   `json:"text"`
}

// word entry; OpenAI uses "word", some providers use "text"
type rawWord struct {
	Start *float64 `json:"start"`
	End   *float64 `json:"end"`
	Word  *string  `json:"word"`
	Text  string   `json:"text"`
}

type rawResult struct {
	Segments []rawSegment `json:"segments"`
	Words    []rawWord    `json:"words"`
}

// Parse decodes a verbose transcription response. Entries with missing or
// invalid timing are dropped and reported as issues; only undecodable JSON
// is an error.
func Parse(data []byte) (Result, []Issue, error) {
	var raw rawResult
	if err := json.Unmarshal(data, &raw); err != nil {
		return Result{}, nil, fmt.Errorf("failed to parse transcript JSON: %w", err)
	}

	var (
		result Result
		issues []Issue
	)

	for i, rs := range raw.Segments {
		if is := missingTime("segment", i, rs.Start, rs.End); is != nil {
			issues = append(issues, *is)
			continue
		}
		if is := checkRange("segment", i, *rs.Start, *rs.End); is != nil {
			issues = append(issues, *is)
			continue
		}
		result.Segments = append(result.Segments, Segment{
			Start: *rs.Start,
			End:   *rs.End,
			Text:  rs.Text,
		})
	}

	for i, rw := range raw.Words {
		if is := missingTime("word", i, rw.Start, rw.End); is != nil {
			issues = append(issues, *is)
			continue
		}
		if is := checkRange("word", i, *rw.Start, *rw.End); is != nil {
			issues = append(issues, *is)
			continue
		}
		text := rw.Text
		if rw.Word != nil {
			text = *rw.Word
		}
		result.Words = append(result.Words, Word{
			Start: *rw.Start,
			End:   *rw.End,
			Text:  text,
		})
	}

	return result, issues, nil
}

func missingTime(kind string, index int, start, end *float64) *Issue {
	if start == nil {
		return &Issue{Kind: kind, Index: index, Field: "start", Reason: "missing"}
	}
	if end == nil {
		return &Issue{Kind: kind, Index: index, Field: "end", Reason: "missing"}
	}
	return nil
}

// Load reads and parses a transcript JSON file.
func Load(path string) (Result, []Issue, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Result{}, nil, fmt.Errorf("failed to read transcript: %w", err)
	}
	return Parse(data)
}

// Marshal encodes the result in the same verbose shape Parse accepts.
func Marshal(r Result) ([]byte, error) {
	if r.Segments == nil {
		r.Segments = []Segment{}
	}
	if r.Words == nil {
		r.Words = []Word{}
	}
	return json.MarshalIndent(r, "", "  ")
}
