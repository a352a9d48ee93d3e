// Package config holds the particle configuration snapshot and process settings
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/lixenwraith/particle-core/shape"
)

var ErrInvalid = errors.New("invalid particle config")

// Front-end density range
const (
	MinCount  = 1000
	MaxCount  = 15000
	CountStep = 1000
)

// Palette is the preset color list offered by the front-end
var Palette = []string{
	"#00ffff", // Cyan
	"#ff00ff", // Magenta
	"#ffff00", // Yellow
	"#ff4400", // Orange Red
	"#ffffff", // White
	"#00ff00", // Lime
	"#7000ff", // Deep Purple
	"#ff0066", // Hot Pink
}

// Particle is an immutable configuration snapshot
// Modify through the With* helpers, which return copies
type Particle struct {
	Count    int
	Color    string
	Size     float64
	Shape    shape.Type
	AIPrompt string
}

// DefaultParticle matches the front-end's initial state
func DefaultParticle() Particle {
	return Particle{
		Count: 6000,
		Color: Palette[0],
		Size:  0.05,
		Shape: shape.Star,
	}
}

// Validate reports the first problem with the snapshot
func (p Particle) Validate() error {
	switch {
	case p.Count <= 0:
		return fmt.Errorf("%w: count %d", ErrInvalid, p.Count)
	case p.Size <= 0:
		return fmt.Errorf("%w: size %g", ErrInvalid, p.Size)
	case !p.Shape.Valid():
		return fmt.Errorf("%w: shape %s", ErrInvalid, p.Shape)
	case p.Shape == shape.AIGenerated && strings.TrimSpace(p.AIPrompt) == "":
		return fmt.Errorf("%w: AI shape without prompt", ErrInvalid)
	}
	if _, err := colorful.Hex(p.Color); err != nil {
		return fmt.Errorf("%w: color %q: %v", ErrInvalid, p.Color, err)
	}
	return nil
}

// RGB returns the parsed color, falling back to the first palette entry
func (p Particle) RGB() colorful.Color {
	c, err := colorful.Hex(p.Color)
	if err != nil {
		c, _ = colorful.Hex(Palette[0])
	}
	return c
}

func (p Particle) WithShape(t shape.Type) Particle {
	p.Shape = t
	return p
}

// WithPrompt switches to the AI shape with a trimmed prompt
func (p Particle) WithPrompt(prompt string) Particle {
	p.Shape = shape.AIGenerated
	p.AIPrompt = strings.TrimSpace(prompt)
	return p
}

func (p Particle) WithCount(n int) Particle {
	p.Count = n
	return p
}

func (p Particle) WithColor(c string) Particle {
	p.Color = c
	return p
}

func (p Particle) WithSize(s float64) Particle {
	p.Size = s
	return p
}

// NeedsRegeneration reports whether moving from p to next changes the target set
// Color and size are render-only
func (p Particle) NeedsRegeneration(next Particle) bool {
	if p.Shape != next.Shape || p.Count != next.Count {
		return true
	}
	return next.Shape == shape.AIGenerated && strings.TrimSpace(p.AIPrompt) != strings.TrimSpace(next.AIPrompt)
}

// StepCount moves count by delta steps within the front-end range
func (p Particle) StepCount(delta int) Particle {
	n := p.Count + delta*CountStep
	n = max(MinCount, min(MaxCount, n))
	return p.WithCount(n)
}

// NextColor cycles through the palette
func (p Particle) NextColor() Particle {
	for i, c := range Palette {
		if strings.EqualFold(c, p.Color) {
			return p.WithColor(Palette[(i+1)%len(Palette)])
		}
	}
	return p.WithColor(Palette[0])
}
