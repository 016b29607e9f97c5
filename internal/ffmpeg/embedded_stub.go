//go:build !ffmpeg_embedded

package ffmpeg

import "io/fs"

func embeddedBundle() fs.FS {
	return nil
}
