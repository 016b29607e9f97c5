package audio

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	ffmpeg "github.com/u2takey/ffmpeg-go"
)

// chunks shorter than this are merged into the previous one; a few seconds
// of audio is not worth a separate transcription request
const minChunkDuration = 2 * time.Second

// splits an audio file into chunks of specified duration
func ChunkAudio(
	ctx context.Context,
	audioPath string,
	chunkDuration time.Duration,
	outputDir string,
) ([]ChunkInfo, error) {
	return ChunkAudioConcurrent(ctx, audioPath, chunkDuration, outputDir, 0)
}

// ChunkAudioConcurrent splits an audio file into chunks with configurable concurrency.
// If concurrency is 0 or negative, it defaults to 10 concurrent workers.
func ChunkAudioConcurrent(
	ctx context.Context,
	audioPath string,
	chunkDuration time.Duration,
	outputDir string,
	concurrency int,
) ([]ChunkInfo, error) {
	if chunkDuration <= 0 {
		return nil, fmt.Errorf(
			"chunk duration must be positive, got %v",
			chunkDuration,
		)
	}

	if concurrency <= 0 {
		concurrency = 10
	}

	if _, err := os.Stat(audioPath); os.IsNotExist(err) {
		return nil, fmt.Errorf("audio file not found: %s", audioPath)
	}

	totalDuration, err := GetDurationContext(ctx, audioPath)
	if err != nil {
		return nil, fmt.Errorf("failed to get audio duration: %w", err)
	}

	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	jobs := PlanChunks(audioPath, totalDuration, chunkDuration, outputDir)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var (
		mu       sync.Mutex
		chunks   []ChunkInfo
		firstErr error
		wg       sync.WaitGroup
	)

	sem := make(chan struct{}, concurrency)

	for _, job := range jobs {
		select {
		case <-ctx.Done():
		case sem <- struct{}{}:
		}
		if ctx.Err() != nil {
			break
		}

		wg.Add(1)
		go func(j ChunkInfo) {
			defer wg.Done()
			defer func() { <-sem }()

			stream := ffmpeg.Input(audioPath, ffmpeg.KwArgs{
				"ss": j.StartTime.Seconds(),
			}).
				Output(j.Path, ffmpeg.KwArgs{
					"t": j.Duration().Seconds(),
					"c": "copy", // copy codec for speed
				}).
				OverWriteOutput()

			err := run(ctx, stream)

			mu.Lock()
			defer mu.Unlock()

			if err != nil {
				if firstErr == nil {
					firstErr = fmt.Errorf(
						"failed to create chunk %d: %w",
						j.Index,
						err,
					)
					cancel()
				}
				return
			}
			chunks = append(chunks, j)
		}(job)
	}

	wg.Wait()

	if firstErr != nil {
		_ = CleanupChunks(chunks)
		return nil, firstErr
	}
	if err := ctx.Err(); err != nil {
		_ = CleanupChunks(chunks)
		return nil, err
	}

	// sort chunks by index to maintain order
	sort.Slice(chunks, func(i, j int) bool {
		return chunks[i].Index < chunks[j].Index
	})

	return chunks, nil
}

// PlanChunks lays out consecutive chunk windows covering total. A trailing
// window shorter than minChunkDuration is folded into the one before it.
func PlanChunks(
	audioPath string,
	total, chunkDuration time.Duration,
	outputDir string,
) []ChunkInfo {
	if total <= 0 || chunkDuration <= 0 {
		return nil
	}

	baseName := strings.TrimSuffix(
		filepath.Base(audioPath),
		filepath.Ext(audioPath),
	)
	ext := filepath.Ext(audioPath)

	var chunks []ChunkInfo
	for start := time.Duration(0); start < total; start += chunkDuration {
		end := start + chunkDuration
		if end > total {
			end = total
		}

		if len(chunks) > 0 && end-start < minChunkDuration {
			chunks[len(chunks)-1].EndTime = end
			break
		}

		i := len(chunks)
		chunks = append(chunks, ChunkInfo{
			Path: filepath.Join(
				outputDir,
				fmt.Sprintf("%s_chunk_%03d%s", baseName, i, ext),
			),
			Index:     i,
			StartTime: start,
			EndTime:   end,
		})
	}
	return chunks
}
