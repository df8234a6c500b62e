// Package cover prepares the album cover image shipped with purchase prompts.
// The source artwork is downscaled and re-encoded once at startup so the bot
// never uploads an oversized original to Telegram.
package cover

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/disintegration/imaging"
)

// Config controls how the cover image is prepared.
type Config struct {
	// SourcePath is the original artwork file.
	SourcePath string
	// OutputPath is where the prepared image is written. When empty, a
	// "prepared_" prefixed sibling of SourcePath is used.
	OutputPath string
	// Width is the target width in pixels; height follows the aspect ratio.
	Width int
	// Quality is the JPEG output quality, 1-100.
	Quality int
}

const (
	defaultWidth   = 800
	defaultQuality = 80
)

// Prepare downscales the source image to the configured width and writes it
// as a JPEG to the output path. It returns the path of the prepared file.
// When the source is already narrower than the target width it is re-encoded
// without resizing.
func Prepare(cfg Config) (string, error) {
	if cfg.SourcePath == "" {
		return "", fmt.Errorf("cover: source path is empty")
	}
	if cfg.Width <= 0 {
		cfg.Width = defaultWidth
	}
	if cfg.Quality <= 0 || cfg.Quality > 100 {
		cfg.Quality = defaultQuality
	}
	out := cfg.OutputPath
	if out == "" {
		dir, name := filepath.Split(cfg.SourcePath)
		base := name[:len(name)-len(filepath.Ext(name))]
		out = filepath.Join(dir, "prepared_"+base+".jpg")
	}

	src, err := imaging.Open(cfg.SourcePath, imaging.AutoOrientation(true))
	if err != nil {
		return "", fmt.Errorf("cover: open %s: %w", cfg.SourcePath, err)
	}

	img := src
	if src.Bounds().Dx() > cfg.Width {
		img = imaging.Resize(src, cfg.Width, 0, imaging.Lanczos)
	}

	if dir := filepath.Dir(out); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return "", fmt.Errorf("cover: create output dir: %w", err)
		}
	}

	if err := imaging.Save(img, out, imaging.JPEGQuality(cfg.Quality)); err != nil {
		return "", fmt.Errorf("cover: save %s: %w", out, err)
	}

	return out, nil
}
