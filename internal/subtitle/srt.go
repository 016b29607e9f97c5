package subtitle

import (
	"fmt"
	"strings"

	"github.com/mgpai22/kara/internal/transcript"
)

// RenderWordAlignedSRT emits one block per segment followed by a line per
// contained word with the word's own timing. Segments without words keep
// their number and time range.
func RenderWordAlignedSRT(tr transcript.Result) string {
	segments := tr.Clean().SegmentsWithWords()

	var sb strings.Builder
	for i, seg := range segments {
		sb.WriteString(fmt.Sprintf("%d\n", i+1))
		sb.WriteString(fmt.Sprintf("%s --> %s\n",
			FormatSRTTimestamp(seg.Start),
			FormatSRTTimestamp(seg.End)))

		for _, w := range seg.Words {
			sb.WriteString(fmt.Sprintf("%s %s --> %s\n",
				w.Text,
				FormatSRTTimestamp(w.Start),
				FormatSRTTimestamp(w.End)))
		}

		sb.WriteString("\n")
	}

	return sb.String()
}

// RenderStandardSRT emits numbered blocks with segment text only. Segments
// whose text is blank take no number.
func RenderStandardSRT(tr transcript.Result) string {
	segments := tr.Clean().SegmentsWithWords()

	var sb strings.Builder
	index := 1
	for _, seg := range segments {
		text := strings.TrimSpace(seg.Text)
		if text == "" {
			continue
		}

		// index (1-based)
		sb.WriteString(fmt.Sprintf("%d\n", index))

		// timestamps: 00:00:00,000 --> 00:00:00,000
		sb.WriteString(fmt.Sprintf("%s --> %s\n",
			FormatSRTTimestamp(seg.Start),
			FormatSRTTimestamp(seg.End)))

		sb.WriteString(text)
		sb.WriteString("\n\n")
		index++
	}

	return sb.String()
}
