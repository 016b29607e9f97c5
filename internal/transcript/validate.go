package transcript

import (
	"errors"
	"fmt"
	"math"
	"strings"
)

// ErrMalformedEntry marks a word or segment that was skipped because its
// timing cannot be rendered.
var ErrMalformedEntry = errors.New("malformed transcript entry")

// Issue describes one skipped entry.
type Issue struct {
	Kind   string // "segment" or "word"
	Index  int    // position in the input list
	Field  string
	Reason string
}

func (i Issue) Error() string {
	return fmt.Sprintf("%s %d: %s: %s", i.Kind, i.Index, i.Field, i.Reason)
}

func (i Issue) Unwrap() error {
	return ErrMalformedEntry
}

func checkRange(kind string, index int, start, end float64) *Issue {
	switch {
	case math.IsNaN(start) || math.IsInf(start, 0):
		return &Issue{Kind: kind, Index: index, Field: "start", Reason: "not a finite number"}
	case math.IsNaN(end) || math.IsInf(end, 0):
		return &Issue{Kind: kind, Index: index, Field: "end", Reason: "not a finite number"}
	case start < 0:
		return &Issue{Kind: kind, Index: index, Field: "start", Reason: fmt.Sprintf("negative offset %.3f", start)}
	case end < start:
		return &Issue{Kind: kind, Index: index, Field: "end", Reason: fmt.Sprintf("end %.3f before start %.3f", end, start)}
	}
	return nil
}

// Validate lists every entry Clean would drop for bad timing. It does not
// report whitespace-only words, which are legal input.
func (r Result) Validate() []Issue {
	var issues []Issue
	for i, seg := range r.Segments {
		if is := checkRange("segment", i, seg.Start, seg.End); is != nil {
			issues = append(issues, *is)
		}
	}
	for i, w := range r.Words {
		if is := checkRange("word", i, w.Start, w.End); is != nil {
			issues = append(issues, *is)
		}
	}
	return issues
}

// Clean returns a copy of r without malformed entries and without
// whitespace-only words. Order is preserved; r is not modified.
func (r Result) Clean() Result {
	out := Result{}
	for i, seg := range r.Segments {
		if checkRange("segment", i, seg.Start, seg.End) != nil {
			continue
		}
		out.Segments = append(out.Segments, Segment{Start: seg.Start, End: seg.End, Text: seg.Text})
	}
	for i, w := range r.Words {
		if checkRange("word", i, w.Start, w.End) != nil {
			continue
		}
		if strings.TrimSpace(w.Text) == "" {
			continue
		}
		out.Words = append(out.Words, w)
	}
	return out
}
