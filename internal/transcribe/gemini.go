package transcribe

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"regexp"
	"sort"
	"strings"

	"google.golang.org/genai"

	"github.com/mgpai22/kara/internal/audio"
	"github.com/mgpai22/kara/internal/transcript"
)

// implements Transcriber interface using Google Gemini
type GeminiTranscriber struct {
	client  *genai.Client
	model   string
	options Options
}

var jsonBlockRegex = regexp.MustCompile("```(?:json)?\\s*")

func NewGeminiTranscriber(ctx context.Context, apiKey string, opts Options) (*GeminiTranscriber, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey: apiKey,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	model := opts.Model
	if model == "" {
		model = "gemini-2.5-flash"
	}

	return &GeminiTranscriber{
		client:  client,
		model:   model,
		options: opts,
	}, nil
}

// transcribes single audio file
func (t *GeminiTranscriber) Transcribe(ctx context.Context, audioPath string) (*Result, error) {
	if _, err := os.Stat(audioPath); os.IsNotExist(err) {
		return nil, fmt.Errorf("audio file not found: %s", audioPath)
	}

	uploadedFile, err := t.client.Files.UploadFromPath(ctx, audioPath, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to upload audio file: %w", err)
	}

	defer func() {
		_, _ = t.client.Files.Delete(ctx, uploadedFile.Name, nil)
	}()

	parts := []*genai.Part{
		genai.NewPartFromText(t.buildTranscriptionPrompt()),
		genai.NewPartFromURI(uploadedFile.URI, uploadedFile.MIMEType),
	}
	contents := []*genai.Content{
		genai.NewContentFromParts(parts, genai.RoleUser),
	}

	config := &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
	}

	result, err := t.client.Models.GenerateContent(ctx, t.model, contents, config)
	if err != nil {
		return nil, fmt.Errorf("transcription failed: %w", err)
	}

	text, err := responseText(result)
	if err != nil {
		return nil, err
	}

	tr, issues, err := extractTranscript(cleanJSONResponse(text))
	if err != nil {
		return nil, fmt.Errorf("failed to parse transcription: %w", err)
	}

	duration, _ := audio.GetDuration(audioPath)

	return &Result{
		Transcript: tr,
		Issues:     issues,
		Language:   t.options.Language,
		Duration:   duration,
	}, nil
}

// transcribes multiple chunks in parallel
func (t *GeminiTranscriber) TranscribeWithChunks(ctx context.Context, chunks []audio.ChunkInfo, concurrency int) (*Result, error) {
	return transcribeChunks(ctx, t.Transcribe, chunks, concurrency, t.options.Language)
}

// creates the prompt for transcription
func (t *GeminiTranscriber) buildTranscriptionPrompt() string {
	var sb strings.Builder

	sb.WriteString("Generate a word-level transcript of this audio. ")
	sb.WriteString("Return a JSON object with two arrays: 'segments' and 'words'. ")
	sb.WriteString("Each segment is a line or phrase with 'start', 'end' and 'text' fields. ")
	sb.WriteString("Each word has 'start', 'end' and 'word' fields. ")
	sb.WriteString("All timestamps are in seconds (as numbers) from the start of the audio, ")
	sb.WriteString("and every word must fall inside the segment that contains it. ")

	if t.options.Language != "" {
		sb.WriteString(fmt.Sprintf("The audio is in %s. ", t.options.Language))
	}

	sb.WriteString(t.options.prompt())
	sb.WriteString(" ")

	sb.WriteString("Return ONLY the JSON object, no other text or markdown formatting.")

	return sb.String()
}

// concatenates the text parts of every candidate
func responseText(result *genai.GenerateContentResponse) (string, error) {
	if result == nil || len(result.Candidates) == 0 {
		return "", fmt.Errorf("empty response from Gemini")
	}

	var sb strings.Builder
	for _, candidate := range result.Candidates {
		if candidate.Content == nil {
			continue
		}
		for _, part := range candidate.Content.Parts {
			sb.WriteString(part.Text)
		}
	}

	if sb.Len() == 0 {
		return "", fmt.Errorf("no text in Gemini response")
	}
	return sb.String(), nil
}

// finds the first JSON value in s that holds a transcript. Models sometimes
// wrap the payload in prose, nest it under another key, or return a bare
// array of segments.
func extractTranscript(s string) (transcript.Result, []transcript.Issue, error) {
	for i := 0; i < len(s); i++ {
		if s[i] != '{' && s[i] != '[' {
			continue
		}

		var raw json.RawMessage
		if err := json.NewDecoder(strings.NewReader(s[i:])).Decode(&raw); err != nil {
			continue
		}

		payload, ok := findTranscriptPayload(raw, 0)
		if !ok {
			continue
		}

		tr, issues, err := transcript.Parse(payload)
		if err != nil {
			continue
		}
		if !hasContent(tr) {
			continue
		}
		return tr, issues, nil
	}

	return transcript.Result{}, nil, fmt.Errorf("no transcript found in response: %s", truncateString(s, 200))
}

const maxPayloadDepth = 4

// returns a JSON object in the verbose transcript shape
func findTranscriptPayload(raw json.RawMessage, depth int) (json.RawMessage, bool) {
	if depth > maxPayloadDepth {
		return nil, false
	}

	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return nil, false
	}

	switch raw[0] {
	case '[':
		if !looksLikeEntries(raw) {
			return nil, false
		}
		wrapped, err := json.Marshal(map[string]json.RawMessage{"segments": raw})
		if err != nil {
			return nil, false
		}
		return wrapped, true

	case '{':
		var obj map[string]json.RawMessage
		if err := json.Unmarshal(raw, &obj); err != nil {
			return nil, false
		}
		if _, ok := obj["segments"]; ok {
			return raw, true
		}
		if _, ok := obj["words"]; ok {
			return raw, true
		}

		keys := make([]string, 0, len(obj))
		for k := range obj {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			if payload, ok := findTranscriptPayload(obj[k], depth+1); ok {
				return payload, true
			}
		}
	}

	return nil, false
}

// reports whether raw is an array of objects with timing fields
func looksLikeEntries(raw json.RawMessage) bool {
	var entries []map[string]json.RawMessage
	if err := json.Unmarshal(raw, &entries); err != nil || len(entries) == 0 {
		return false
	}
	for _, e := range entries {
		if _, ok := e["start"]; ok {
			return true
		}
		if _, ok := e["end"]; ok {
			return true
		}
	}
	return false
}

// a transcript of all-zero, textless entries is a failed generation
func hasContent(tr transcript.Result) bool {
	for _, seg := range tr.Segments {
		if seg.Start != 0 || seg.End != 0 || strings.TrimSpace(seg.Text) != "" {
			return true
		}
	}
	for _, w := range tr.Words {
		if w.Start != 0 || w.End != 0 || strings.TrimSpace(w.Text) != "" {
			return true
		}
	}
	return false
}

// removes markdown formatting from the response
func cleanJSONResponse(s string) string {
	s = strings.TrimSpace(s)

	// remove ```json and ``` markers
	s = jsonBlockRegex.ReplaceAllString(s, "")
	s = strings.ReplaceAll(s, "```", "")

	return strings.TrimSpace(s)
}

// truncates a string to maxLen characters
func truncateString(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}

// Close closes the Gemini client
func (t *GeminiTranscriber) Close() error {
	return nil
}
