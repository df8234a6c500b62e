package bootstrap

import (
	"fmt"

	coreconfig "albumbot/core/config"
	"albumbot/core/cover"
	"albumbot/core/logger"
)

// Options control the generic bootstrap pipeline shared between bots.
type Options struct {
	Config *coreconfig.Config
	Cover  cover.Config

	LoggerInit   func(*coreconfig.Config) error
	PrepareCover func(cover.Config) (string, error)
}

// Result exposes infrastructure initialized by the bootstrap pipeline.
type Result struct {
	// CoverPath is the prepared cover image, empty when no cover was configured.
	CoverPath string
}

// Run initializes the logger and prepares the cover image.
func Run(opts Options) (*Result, error) {
	if opts.Config == nil {
		return nil, fmt.Errorf("bootstrap: nil config provided")
	}

	loggerInit := opts.LoggerInit
	if loggerInit == nil {
		loggerInit = logger.InitLogger
	}
	if err := loggerInit(opts.Config); err != nil {
		return nil, fmt.Errorf("bootstrap: logger init failed: %w", err)
	}

	res := &Result{}

	if opts.Cover.SourcePath != "" {
		prepare := opts.PrepareCover
		if prepare == nil {
			prepare = cover.Prepare
		}
		path, err := prepare(opts.Cover)
		if err != nil {
			return nil, fmt.Errorf("bootstrap: cover preparation failed: %w", err)
		}
		res.CoverPath = path
	}

	return res, nil
}
