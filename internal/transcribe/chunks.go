package transcribe

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/mgpai22/kara/internal/audio"
	"github.com/mgpai22/kara/internal/transcript"
)

// holds the result of transcribing a chunk
type chunkResult struct {
	Index  int
	Result *Result
	Error  error
}

type transcribeFunc func(ctx context.Context, audioPath string) (*Result, error)

// transcribes a single chunk and moves its timestamps to the chunk offset
func transcribeChunk(
	ctx context.Context,
	fn transcribeFunc,
	chunk audio.ChunkInfo,
) (*Result, error) {
	result, err := fn(ctx, chunk.Path)
	if err != nil {
		return nil, err
	}
	result.Transcript = result.Transcript.Shift(chunk.StartTime.Seconds())
	return result, nil
}

// transcribes chunks with a bounded worker pool. The first failure cancels
// the remaining chunks.
func transcribeChunks(
	ctx context.Context,
	fn transcribeFunc,
	chunks []audio.ChunkInfo,
	concurrency int,
	language string,
) (*Result, error) {
	if len(chunks) == 0 {
		return &Result{Language: language}, nil
	}

	if concurrency <= 0 {
		concurrency = 3
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	workChan := make(chan audio.ChunkInfo)
	resultChan := make(chan chunkResult, len(chunks))

	var wg sync.WaitGroup
	for i := 0; i < concurrency; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				select {
				case <-ctx.Done():
					return
				case chunk, ok := <-workChan:
					if !ok {
						return
					}
					if ctx.Err() != nil {
						return
					}

					result, err := transcribeChunk(ctx, fn, chunk)
					if err != nil {
						cancel()
					}
					resultChan <- chunkResult{
						Index:  chunk.Index,
						Result: result,
						Error:  err,
					}
				}
			}
		}()
	}

	go func() {
		defer close(workChan)
		for _, chunk := range chunks {
			select {
			case <-ctx.Done():
				return
			case workChan <- chunk:
			}
		}
	}()

	go func() {
		wg.Wait()
		close(resultChan)
	}()

	results := make([]chunkResult, 0, len(chunks))
	var firstErr error
	for result := range resultChan {
		if result.Error != nil && firstErr == nil {
			firstErr = fmt.Errorf(
				"chunk %d failed: %w",
				result.Index,
				result.Error,
			)
			cancel()
		}
		if result.Error == nil {
			results = append(results, result)
		}
	}
	if firstErr != nil {
		return nil, firstErr
	}
	if err := ctx.Err(); err != nil && len(results) < len(chunks) {
		return nil, err
	}

	// sort by index to maintain order
	sort.Slice(results, func(i, j int) bool {
		return results[i].Index < results[j].Index
	})

	parts := make([]transcript.Result, 0, len(results))
	var issues []transcript.Issue
	for _, r := range results {
		parts = append(parts, r.Result.Transcript)
		issues = append(issues, r.Result.Issues...)
	}

	// total duration from last chunk
	var totalDuration time.Duration
	if len(chunks) > 0 {
		totalDuration = chunks[len(chunks)-1].EndTime
	}

	return &Result{
		Transcript: transcript.Concat(parts...),
		Issues:     issues,
		Language:   language,
		Duration:   totalDuration,
	}, nil
}
