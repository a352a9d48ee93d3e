package config

import (
	"errors"
	"os"
	"testing"
	"time"

	"github.com/lixenwraith/particle-core/parameter"
	"github.com/lixenwraith/particle-core/shape"
)

func TestDefaultParticleValid(t *testing.T) {
	p := DefaultParticle()
	if err := p.Validate(); err != nil {
		t.Fatalf("default invalid: %v", err)
	}
	if p.Count != 6000 || p.Shape != shape.Star || p.Color != "#00ffff" || p.Size != 0.05 {
		t.Errorf("unexpected default %+v", p)
	}
}

func TestValidateRejects(t *testing.T) {
	base := DefaultParticle()
	tests := []struct {
		name string
		p    Particle
	}{
		{"zero count", base.WithCount(0)},
		{"negative count", base.WithCount(-5)},
		{"zero size", base.WithSize(0)},
		{"bad color", base.WithColor("cyan")},
		{"unknown shape", base.WithShape(shape.Type(200))},
		{"blank prompt", base.WithPrompt("   ")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.p.Validate()
			if !errors.Is(err, ErrInvalid) {
				t.Errorf("expected ErrInvalid, got %v", err)
			}
		})
	}
}

func TestWithHelpersCopy(t *testing.T) {
	base := DefaultParticle()
	next := base.WithPrompt("  a spiral staircase ")
	if base.Shape != shape.Star || base.AIPrompt != "" {
		t.Fatalf("base mutated: %+v", base)
	}
	if next.Shape != shape.AIGenerated || next.AIPrompt != "a spiral staircase" {
		t.Errorf("unexpected prompt config %+v", next)
	}
}

func TestNeedsRegeneration(t *testing.T) {
	base := DefaultParticle()
	tests := []struct {
		name string
		next Particle
		want bool
	}{
		{"same", base, false},
		{"color", base.WithColor("#ff00ff"), false},
		{"size", base.WithSize(0.2), false},
		{"shape", base.WithShape(shape.Heart), true},
		{"count", base.WithCount(7000), true},
	}
	for _, tt := range tests {
		if got := base.NeedsRegeneration(tt.next); got != tt.want {
			t.Errorf("%s: got %v want %v", tt.name, got, tt.want)
		}
	}

	ai := base.WithPrompt("cat")
	if !ai.NeedsRegeneration(ai.WithPrompt("dog")) {
		t.Error("prompt change on AI shape should regenerate")
	}
	if ai.NeedsRegeneration(ai.WithPrompt("cat ")) {
		t.Error("whitespace-only prompt change should not regenerate")
	}
}

func TestStepCountClamps(t *testing.T) {
	p := DefaultParticle().WithCount(MaxCount)
	if got := p.StepCount(1).Count; got != MaxCount {
		t.Errorf("upper clamp: %d", got)
	}
	p = p.WithCount(MinCount)
	if got := p.StepCount(-1).Count; got != MinCount {
		t.Errorf("lower clamp: %d", got)
	}
	if got := p.StepCount(2).Count; got != MinCount+2*CountStep {
		t.Errorf("step: %d", got)
	}
}

func TestNextColorCycles(t *testing.T) {
	p := DefaultParticle()
	for i := 0; i < len(Palette); i++ {
		p = p.NextColor()
	}
	if p.Color != Palette[0] {
		t.Errorf("expected full cycle back to %s, got %s", Palette[0], p.Color)
	}
	if got := p.WithColor("#123456").NextColor().Color; got != Palette[0] {
		t.Errorf("off-palette color should reset, got %s", got)
	}
}

func TestRGBFallback(t *testing.T) {
	c := DefaultParticle().WithColor("nope").RGB()
	if c.Hex() != Palette[0] {
		t.Errorf("fallback %s", c.Hex())
	}
}

func TestLoadAppDefaults(t *testing.T) {
	for _, k := range []string{"PARTICLE_AI_ENDPOINT", "PARTICLE_AI_TIMEOUT", "PARTICLE_AI_RETRIES", "PARTICLE_AI_MAX_POINTS", "PARTICLE_FPS", "PARTICLE_LOG_DIR"} {
		t.Setenv(k, "x")
		os.Unsetenv(k)
	}

	cfg, err := LoadApp()
	if err != nil {
		t.Fatalf("LoadApp: %v", err)
	}
	if cfg.AIEnabled() {
		t.Error("AI should be disabled without endpoint")
	}
	if cfg.AITimeout != parameter.AITimeout || cfg.AIRetries != parameter.AIRetries || cfg.AIMaxPoints != parameter.AIMaxPoints {
		t.Errorf("defaults not applied: %+v", cfg)
	}
	if cfg.FPS != 60 || cfg.LogDir != "logs" {
		t.Errorf("env defaults: %+v", cfg)
	}
}

func TestLoadAppOverrides(t *testing.T) {
	t.Setenv("PARTICLE_AI_ENDPOINT", "http://localhost:9999/generate")
	t.Setenv("PARTICLE_AI_TIMEOUT", "5s")
	t.Setenv("PARTICLE_AI_RETRIES", "0")
	t.Setenv("PARTICLE_AI_MAX_POINTS", "999999")
	t.Setenv("PARTICLE_FPS", "30")

	cfg, err := LoadApp()
	if err != nil {
		t.Fatalf("LoadApp: %v", err)
	}
	if !cfg.AIEnabled() || cfg.AITimeout != 5*time.Second || cfg.AIRetries != 0 {
		t.Errorf("overrides not applied: %+v", cfg)
	}
	if cfg.AIMaxPoints != parameter.AIMaxPoints {
		t.Errorf("max points should clamp, got %d", cfg.AIMaxPoints)
	}
	if cfg.FrameInterval() != time.Second/30 {
		t.Errorf("frame interval %v", cfg.FrameInterval())
	}
}

func TestLoadAppRejectsBadFPS(t *testing.T) {
	t.Setenv("PARTICLE_FPS", "0")
	if _, err := LoadApp(); err == nil {
		t.Error("expected error for zero fps")
	}
}
