package transcript

import (
	"strings"
	"unicode/utf8"
)

const (
	// a group closes once it spans this many seconds
	MaxGroupDuration = 5.0
	// or once its space-joined text is longer than this many characters
	MaxGroupChars = 100
)

// GroupWords splits a time-ordered word list into consecutive runs. The
// closing condition is checked after each append, so a single word longer
// than the limits still forms its own group and no word is dropped.
func GroupWords(words []Word) [][]Word {
	var (
		groups  [][]Word
		current []Word
		chars   int // runes in the space-joined text of current
	)

	for _, w := range words {
		if len(current) > 0 {
			chars++
		}
		current = append(current, w)
		chars += utf8.RuneCountInString(w.Text)

		if w.End-current[0].Start >= MaxGroupDuration || chars > MaxGroupChars {
			groups = append(groups, current)
			current = nil
			chars = 0
		}
	}

	if len(current) > 0 {
		groups = append(groups, current)
	}

	return groups
}

// GroupWordsIntoSegments builds synthetic segments for transcripts that only
// carry word timings. Groups whose joined text is blank are dropped.
func GroupWordsIntoSegments(words []Word) []Segment {
	var segments []Segment
	for _, group := range GroupWords(words) {
		if seg, ok := segmentFromGroup(group); ok {
			segments = append(segments, seg)
		}
	}
	return segments
}

func segmentFromGroup(group []Word) (Segment, bool) {
	texts := make([]string, len(group))
	for i, w := range group {
		texts[i] = w.Text
	}
	text := strings.TrimSpace(strings.Join(texts, " "))
	if text == "" {
		return Segment{}, false
	}

	members := make([]Word, len(group))
	copy(members, group)

	return Segment{
		Start: group[0].Start,
		End:   group[len(group)-1].End,
		Text:  text,
		Words: members,
	}, true
}

// SegmentsWithWords returns the segment list renderers work from: the input segments
// with their contained words, or synthetic segments when none are present.
func (r Result) SegmentsWithWords() []Segment {
	if len(r.Segments) > 0 {
		return Assign(r.Segments, r.Words)
	}
	return GroupWordsIntoSegments(r.Words)
}
