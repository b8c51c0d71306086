package app

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/vk/depict/internal/config"
	"github.com/vk/depict/internal/directive"
	"github.com/vk/depict/internal/session"
)

// App encapsulates one application instance: its logger, its directive
// registry, its style profile, and the engine built on them.
type App struct {
	outW    io.Writer
	errW    io.Writer
	logger  *slog.Logger
	profile *config.Profile
	engine  *session.Engine
	cfg     *Config
}

// NewApp constructs a fully initialized App. A profile that fails to load
// is a fatal startup error.
func NewApp(outW, errW io.Writer, cfg *Config) (*App, error) {
	logger := newLogger(cfg.LogLevel, cfg.LogFormat, errW)
	logger.Debug("Logger configured successfully.")

	profile := config.Default()
	if cfg.ProfilePath != "" {
		p, err := config.Load(cfg.ProfilePath)
		if err != nil {
			return nil, fmt.Errorf("failed to load profile: %w", err)
		}
		profile = p
		logger.Debug("Style profile loaded.", "path", cfg.ProfilePath)
	}

	reg := directive.Core()
	logger.Debug("Directive registry populated.", "keywords", reg.Keywords())

	return &App{
		outW:    outW,
		errW:    errW,
		logger:  logger,
		profile: profile,
		engine:  session.NewEngine(reg),
		cfg:     cfg,
	}, nil
}

// Engine returns the app's resolution engine. Primarily for testing.
func (a *App) Engine() *session.Engine {
	return a.engine
}

// Profile returns the app's style profile.
func (a *App) Profile() *config.Profile {
	return a.profile
}
