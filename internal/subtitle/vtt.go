package subtitle

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/asticode/go-astisub"

	"github.com/mgpai22/kara/internal/transcript"
)

const emptyWebVTT = "WEBVTT\n"

// RenderWebVTT converts the standard SRT rendering to WebVTT.
func RenderWebVTT(tr transcript.Result) (string, error) {
	srt := RenderStandardSRT(tr)
	if srt == "" {
		return emptyWebVTT, nil
	}

	subs, err := astisub.ReadFromSRT(strings.NewReader(srt))
	if err != nil {
		return "", fmt.Errorf("failed to read rendered SRT: %w", err)
	}
	if len(subs.Items) == 0 {
		return emptyWebVTT, nil
	}

	var buf bytes.Buffer
	if err := subs.WriteToWebVTT(&buf); err != nil {
		return "", fmt.Errorf("failed to write WebVTT: %w", err)
	}
	return buf.String(), nil
}
