package app

import "errors"

// Config holds everything an App instance needs to run.
type Config struct {
	ModelPath   string // a .depict file or a directory of them
	ProfilePath string // optional HCL style profile
	Listen      string // live server address; empty disables the server

	LogFormat string
	LogLevel  string
	Workers   int
}

// NewConfig validates a config. One of a model path or a listen address is
// required; with neither there is nothing to do.
func NewConfig(cfg Config) (*Config, error) {
	if cfg.ModelPath == "" && cfg.Listen == "" {
		return nil, errors.New("a model path or a listen address is required")
	}
	if cfg.Workers <= 0 {
		cfg.Workers = 1
	}
	return &cfg, nil
}
