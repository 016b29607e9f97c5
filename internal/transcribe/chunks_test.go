package transcribe

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/mgpai22/kara/internal/audio"
	"github.com/mgpai22/kara/internal/transcript"
)

func testChunks() []audio.ChunkInfo {
	return []audio.ChunkInfo{
		{Path: "chunk_000.mp3", Index: 0, StartTime: 0, EndTime: 10 * time.Second},
		{Path: "chunk_001.mp3", Index: 1, StartTime: 10 * time.Second, EndTime: 20 * time.Second},
		{Path: "chunk_002.mp3", Index: 2, StartTime: 20 * time.Second, EndTime: 25 * time.Second},
	}
}

func TestTranscribeChunks(t *testing.T) {
	fn := func(ctx context.Context, path string) (*Result, error) {
		return &Result{
			Transcript: transcript.Result{
				Segments: []transcript.Segment{{Start: 1, End: 2, Text: path}},
				Words:    []transcript.Word{{Start: 1, End: 1.5, Text: path}},
			},
			Issues: []transcript.Issue{{Kind: "word", Index: 0, Field: "end", Reason: "missing"}},
		}, nil
	}

	result, err := transcribeChunks(context.Background(), fn, testChunks(), 2, "en")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	segments := result.Transcript.Segments
	if len(segments) != 3 {
		t.Fatalf("expected 3 segments, got %d", len(segments))
	}
	wantStarts := []float64{1, 11, 21}
	for i, seg := range segments {
		if seg.Start != wantStarts[i] {
			t.Errorf("segment %d start = %v, want %v", i, seg.Start, wantStarts[i])
		}
		if seg.Text != testChunks()[i].Path {
			t.Errorf("segment %d out of chunk order: %q", i, seg.Text)
		}
	}
	if w := result.Transcript.Words[2]; w.Start != 21 || w.End != 21.5 {
		t.Errorf("last word = %+v, want shifted by 20s", w)
	}
	if len(result.Issues) != 3 {
		t.Errorf("expected issues from every chunk, got %d", len(result.Issues))
	}
	if result.Duration != 25*time.Second {
		t.Errorf("duration = %v, want 25s", result.Duration)
	}
	if result.Language != "en" {
		t.Errorf("language = %q, want en", result.Language)
	}
}

func TestTranscribeChunksFailure(t *testing.T) {
	boom := errors.New("rate limited")
	var calls atomic.Int32

	fn := func(ctx context.Context, path string) (*Result, error) {
		calls.Add(1)
		if path == "chunk_000.mp3" {
			return nil, boom
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(5 * time.Second):
			return &Result{}, nil
		}
	}

	start := time.Now()
	_, err := transcribeChunks(context.Background(), fn, testChunks(), 1, "")
	if !errors.Is(err, boom) {
		t.Fatalf("expected first chunk error, got %v", err)
	}
	if time.Since(start) > 4*time.Second {
		t.Error("remaining chunks should be cancelled after a failure")
	}
	if n := calls.Load(); n != 1 {
		t.Errorf("expected 1 call with concurrency 1, got %d", n)
	}
}

func TestTranscribeChunksEmpty(t *testing.T) {
	result, err := transcribeChunks(context.Background(), nil, nil, 3, "fr")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !result.Transcript.IsEmpty() || result.Language != "fr" {
		t.Errorf("unexpected result %+v", result)
	}
}
