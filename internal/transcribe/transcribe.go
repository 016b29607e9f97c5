package transcribe

import (
	"context"
	"fmt"
	"time"

	"github.com/mgpai22/kara/internal/audio"
	"github.com/mgpai22/kara/internal/transcript"
)

// DefaultPrompt biases recognition toward sung lyrics.
const DefaultPrompt = "Transcribe the song lyrics accurately. Ignore silence."

// transcription result
type Result struct {
	Transcript transcript.Result
	// entries the provider returned with unusable timing
	Issues   []transcript.Issue
	Language string
	Duration time.Duration
}

// interface for audio transcription
type Transcriber interface {
	Transcribe(ctx context.Context, audioPath string) (*Result, error)
}

type ConcurrentTranscriber interface {
	Transcriber
	TranscribeWithChunks(
		ctx context.Context,
		chunks []audio.ChunkInfo,
		concurrency int,
	) (*Result, error)
}

// transcription service provider
type Provider string

const (
	ProviderWhisper Provider = "whisper"
	ProviderOpenAI  Provider = "openai"
	ProviderGemini  Provider = "gemini"
)

// transcription options
type Options struct {
	Language string // Source language of audio
	Model    string
	Prompt   string // defaults to DefaultPrompt
}

func (o Options) prompt() string {
	if o.Prompt == "" {
		return DefaultPrompt
	}
	return o.Prompt
}

// creates transcriber based on provider
func Factory(
	ctx context.Context,
	provider Provider,
	apiKey string,
	opts Options,
) (ConcurrentTranscriber, error) {
	switch provider {
	case ProviderGemini:
		return NewGeminiTranscriber(ctx, apiKey, opts)
	case ProviderWhisper:
		return nil, fmt.Errorf("whisper provider not yet implemented")
	case ProviderOpenAI:
		return NewOpenAITranscriber(ctx, apiKey, opts)
	default:
		return nil, fmt.Errorf("unsupported provider: %s", provider)
	}
}
