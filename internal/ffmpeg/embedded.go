//go:build ffmpeg_embedded

package ffmpeg

import (
	"embed"
	"io/fs"
)

// platform zips placed under bundle/ before building with -tags ffmpeg_embedded
//
//go:embed bundle/*.zip
var bundleFiles embed.FS

func embeddedBundle() fs.FS {
	sub, err := fs.Sub(bundleFiles, bundleDir)
	if err != nil {
		return nil
	}
	return sub
}
