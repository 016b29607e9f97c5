package transcript

// single transcribed token with its own time range, offsets in seconds
type Word struct {
	Start float64 `json:"start"`
	End   float64 `json:"end"`
	Text  string  `json:"word"`
}

// contiguous transcribed phrase
//
// Words is filled by the Segmenter or by Assign; it is not part of the
// verbose JSON wire shape.
type Segment struct {
	Start float64 `json:"start"`
	End   float64 `json:"end"`
	Text  string  `json:"text"`
	Words []Word  `json:"-"`
}

// Result is a verbose transcription result. Either list may be empty.
type Result struct {
	Segments []Segment `json:"segments"`
	Words    []Word    `json:"words"`
}

// reports whether the result carries neither segments nor words
func (r Result) IsEmpty() bool {
	return len(r.Segments) == 0 && len(r.Words) == 0
}

// Contains reports whether w lies fully inside s. Boundary-spanning words
// belong to neither neighbour.
func (s Segment) Contains(w Word) bool {
	return w.Start >= s.Start && w.End <= s.End
}

// WordsWithin returns the words of the global list contained in s, in input
// order. Overlapping segments may both claim the same word.
func WordsWithin(s Segment, words []Word) []Word {
	var out []Word
	for _, w := range words {
		if s.Contains(w) {
			out = append(out, w)
		}
	}
	return out
}

// Assign returns copies of the segments with Words populated from the
// global word list.
func Assign(segments []Segment, words []Word) []Segment {
	out := make([]Segment, len(segments))
	for i, seg := range segments {
		out[i] = Segment{
			Start: seg.Start,
			End:   seg.End,
			Text:  seg.Text,
			Words: WordsWithin(seg, words),
		}
	}
	return out
}

// Shift returns a copy of the result with every offset moved by delta
// seconds. Used to place chunk transcripts on the full-audio timeline.
func (r Result) Shift(delta float64) Result {
	out := Result{
		Segments: make([]Segment, len(r.Segments)),
		Words:    make([]Word, len(r.Words)),
	}
	for i, seg := range r.Segments {
		out.Segments[i] = Segment{
			Start: seg.Start + delta,
			End:   seg.End + delta,
			Text:  seg.Text,
		}
	}
	for i, w := range r.Words {
		out.Words[i] = Word{Start: w.Start + delta, End: w.End + delta, Text: w.Text}
	}
	return out
}

// Concat joins results in order.
func Concat(results ...Result) Result {
	var out Result
	for _, r := range results {
		out.Segments = append(out.Segments, r.Segments...)
		out.Words = append(out.Words, r.Words...)
	}
	return out
}
