package subtitle

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/mgpai22/kara/internal/transcript"
)

// KaraokeHeader is written verbatim before any event line.
const KaraokeHeader = `[Script Info]
Title: Karaoke Lyrics
ScriptType: v4.00+
PlayResX: 1920
PlayResY: 1080
Collisions: Normal
PlayDepth: 0

[V4+ Styles]
Format: Name, Fontname, Fontsize, PrimaryColour, SecondaryColour, OutlineColour, BackColour, Bold, Italic, Underline, StrikeOut, ScaleX, ScaleY, Spacing, Angle, BorderStyle, Outline, Shadow, Alignment, MarginL, MarginR, MarginV, Encoding
Style: Default,Arial,60,&H00FFFFFF,&H0000FFFF,&H00000000,&H80000000,-1,0,0,0,100,100,0,0,1,3,0,2,10,10,50,1

[Events]
Format: Layer, Start, End, Style, Name, MarginL, MarginR, MarginV, Effect, Text
`

const (
	// display padding around each karaoke line
	karaokeLeadIn  = 0.2
	karaokeLeadOut = 0.2

	// prefix of every karaoke line: fade in, bottom-centre anchor
	karaokeLineTags = `{\fad(400,0)\an2}`

	// pauses longer than this get filler notes
	FillerGapThreshold = 5.0
	FillerStride       = 0.4
	FillerMaxDuration  = 0.8

	FillerGlyph = "♪"
)

type position struct {
	X, Y int
}

// filler notes cycle through these, continuing across gaps
var fillerPositions = []position{
	{X: 960, Y: 540},
	{X: 760, Y: 580},
	{X: 1160, Y: 580},
}

type karaokeSegment struct {
	Start float64
	End   float64
	Words []transcript.Word
}

type assEvent struct {
	Start float64
	Line  string
}

// RenderKaraokeASS renders a karaoke ASS document with per-word \kf fill
// timing and note fillers in long pauses. Segments without any contained
// word are left out.
func RenderKaraokeASS(tr transcript.Result) string {
	segments := karaokeSegments(tr.Clean())

	events := make([]assEvent, 0, len(segments))
	for _, seg := range segments {
		events = append(events, karaokeDialogue(seg))
	}
	events = append(events, fillerEvents(segments)...)

	sort.SliceStable(events, func(i, j int) bool {
		return events[i].Start < events[j].Start
	})

	lines := make([]string, len(events))
	for i, ev := range events {
		lines[i] = ev.Line
	}

	return KaraokeHeader + strings.Join(lines, "\n")
}

func karaokeSegments(tr transcript.Result) []karaokeSegment {
	var out []karaokeSegment

	if len(tr.Segments) > 0 {
		for _, seg := range tr.Segments {
			words := transcript.WordsWithin(seg, tr.Words)
			if len(words) == 0 {
				continue
			}
			out = append(out, karaokeSegment{Start: seg.Start, End: seg.End, Words: words})
		}
		return out
	}

	for _, group := range transcript.GroupWords(tr.Words) {
		out = append(out, karaokeSegment{
			Start: group[0].Start,
			End:   group[len(group)-1].End,
			Words: group,
		})
	}
	return out
}

func karaokeDialogue(seg karaokeSegment) assEvent {
	start := math.Max(0, seg.Start-karaokeLeadIn)
	end := seg.End + karaokeLeadOut

	var sb strings.Builder
	sb.WriteString(karaokeLineTags)
	for _, w := range seg.Words {
		centis := int(math.Floor((w.End - w.Start) * 100))
		sb.WriteString(fmt.Sprintf("{\\kf%d}%s ", centis, w.Text))
	}
	text := strings.TrimRight(sb.String(), " \t\r\n")

	return assEvent{
		Start: start,
		Line:  dialogueLine(start, end, text),
	}
}

// fillerEvents places short-lived notes in every pause longer than
// FillerGapThreshold. Gaps are measured on the unpadded segment times.
func fillerEvents(segments []karaokeSegment) []assEvent {
	ordered := make([]karaokeSegment, len(segments))
	copy(ordered, segments)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Start < ordered[j].Start
	})

	var events []assEvent
	next := 0
	for i := 0; i+1 < len(ordered); i++ {
		gapStart := ordered[i].End
		gapEnd := ordered[i+1].Start
		if gapEnd-gapStart <= FillerGapThreshold {
			continue
		}

		// offsets are computed from the step count so long gaps do not
		// accumulate rounding error
		for step := 0; ; step++ {
			t := gapStart + float64(step)*FillerStride
			if t >= gapEnd {
				break
			}
			dur := math.Min(FillerMaxDuration, gapEnd-t)
			pos := fillerPositions[next%len(fillerPositions)]
			next++

			events = append(events, assEvent{
				Start: t,
				Line:  dialogueLine(t, t+dur, fillerText(pos)),
			})
		}
	}
	return events
}

func fillerText(pos position) string {
	return fmt.Sprintf("{\\an5\\fad(150,150)\\fs72\\c&H00FFFF&\\pos(%d,%d)}%s", pos.X, pos.Y, FillerGlyph)
}

func dialogueLine(start, end float64, text string) string {
	return fmt.Sprintf("Dialogue: 0,%s,%s,Default,,0,0,0,,%s",
		FormatASSTimestamp(start),
		FormatASSTimestamp(end),
		text)
}
