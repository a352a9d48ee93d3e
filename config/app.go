package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"

	"github.com/lixenwraith/particle-core/parameter"
)

// App is the process configuration, loaded from the environment and overridden by flags
type App struct {
	AIEndpoint  string        `env:"PARTICLE_AI_ENDPOINT"`
	AIKey       string        `env:"PARTICLE_AI_KEY"`
	AIModel     string        `env:"PARTICLE_AI_MODEL" envDefault:"gemini-2.5-flash"`
	AITimeout   time.Duration `env:"PARTICLE_AI_TIMEOUT"`
	AIMaxPoints int           `env:"PARTICLE_AI_MAX_POINTS"`
	AIRetries   int           `env:"PARTICLE_AI_RETRIES" envDefault:"-1"`

	OTelEndpoint string `env:"PARTICLE_OTEL_ENDPOINT"`

	Debug  bool   `env:"PARTICLE_DEBUG"`
	LogDir string `env:"PARTICLE_LOG_DIR" envDefault:"logs"`
	FPS    int    `env:"PARTICLE_FPS" envDefault:"60"`
}

// LoadApp parses the environment and fills unset values from package defaults
func LoadApp() (App, error) {
	var cfg App
	if err := env.Parse(&cfg); err != nil {
		return App{}, fmt.Errorf("parse env: %w", err)
	}
	cfg.applyDefaults()
	if cfg.FPS <= 0 {
		return App{}, fmt.Errorf("%w: fps %d", ErrInvalid, cfg.FPS)
	}
	return cfg, nil
}

func (c *App) applyDefaults() {
	if c.AITimeout <= 0 {
		c.AITimeout = parameter.AITimeout
	}
	if c.AIMaxPoints <= 0 || c.AIMaxPoints > parameter.AIMaxPoints {
		c.AIMaxPoints = parameter.AIMaxPoints
	}
	if c.AIRetries < 0 {
		c.AIRetries = parameter.AIRetries
	}
}

// FrameInterval converts FPS to a tick duration
func (c App) FrameInterval() time.Duration {
	if c.FPS <= 0 {
		return parameter.FrameUpdateInterval
	}
	return time.Second / time.Duration(c.FPS)
}

// AIEnabled reports whether a generative endpoint is configured
func (c App) AIEnabled() bool {
	return c.AIEndpoint != ""
}
