package subtitle

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/mgpai22/kara/internal/transcript"
)

// interface for writing rendered subtitles to files
type Writer interface {
	Format() Format
	Write(tr transcript.Result, path string) error
}

type renderFunc func(tr transcript.Result) (string, error)

// FileWriter renders one format and writes it to disk.
type FileWriter struct {
	format Format
	render renderFunc
}

func NewWriter(format Format) (Writer, error) {
	render, err := renderer(format)
	if err != nil {
		return nil, err
	}
	return &FileWriter{format: format, render: render}, nil
}

func (w *FileWriter) Format() Format {
	return w.format
}

// renders the transcript and writes it to path
func (w *FileWriter) Write(tr transcript.Result, path string) error {
	content, err := w.render(tr)
	if err != nil {
		return err
	}
	return WriteFile(path, content)
}

// Render produces the document for one format.
func Render(format Format, tr transcript.Result) (string, error) {
	render, err := renderer(format)
	if err != nil {
		return "", err
	}
	return render(tr)
}

func renderer(format Format) (renderFunc, error) {
	switch format {
	case FormatSRT:
		return infallible(RenderStandardSRT), nil
	case FormatWordSRT:
		return infallible(RenderWordAlignedSRT), nil
	case FormatASS:
		return infallible(RenderKaraokeASS), nil
	case FormatVTT:
		return RenderWebVTT, nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, format)
	}
}

func infallible(fn func(transcript.Result) string) renderFunc {
	return func(tr transcript.Result) (string, error) {
		return fn(tr), nil
	}
}

// WriteFile writes content to path, creating parent directories.
func WriteFile(path, content string) error {
	if err := ensureDir(path); err != nil {
		return err
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

func ensureDir(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}
	return nil
}
