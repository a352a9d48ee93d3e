package engine

import (
	"errors"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/harmonica"

	"github.com/lixenwraith/particle-core/hand"
	"github.com/lixenwraith/particle-core/parameter"
	"github.com/lixenwraith/particle-core/shape"
	"github.com/lixenwraith/particle-core/vmath"
)

var ErrInvalidEase = errors.New("ease factor must be in (0,1)")

// Particle is one animated point; TargetIndex always equals its slot
type Particle struct {
	Position    vmath.Vec3F
	TargetIndex int
}

// Engine animates particles toward the installed target set
// Install may be called from any goroutine; Update and Frame belong to the render loop
type Engine struct {
	targets atomic.Pointer[shape.TargetSet]

	particles []Particle
	positions []vmath.Vec3F
	ease      float64
	rng       *vmath.FastRand

	// Global transform
	yaw, pitch  float64
	scale       float64
	scaleVel    float64
	scaleTarget float64

	spring   harmonica.Spring
	springDt time.Duration
}

// New creates an engine with ease factor k; rng seeds the first scatter and may be nil
func New(k float64, rng *vmath.FastRand) (*Engine, error) {
	if !(k > 0 && k < 1) {
		return nil, ErrInvalidEase
	}
	if rng == nil {
		rng = vmath.NewTimeRand()
	}
	return &Engine{
		ease:        k,
		rng:         rng,
		scale:       parameter.NeutralScale,
		scaleTarget: parameter.NeutralScale,
	}, nil
}

// Install swaps in a new target set; nil is ignored
func (e *Engine) Install(ts *shape.TargetSet) {
	if ts == nil {
		return
	}
	e.targets.Store(ts)
}

// Targets returns the installed target set, nil before the first Install
func (e *Engine) Targets() *shape.TargetSet {
	return e.targets.Load()
}

// Count returns the live particle count
func (e *Engine) Count() int {
	return len(e.particles)
}

// Particles exposes the live array for inspection; callers must not retain it across Update
func (e *Engine) Particles() []Particle {
	return e.particles
}

// Update advances one tick: reallocate, ease toward targets, apply hand transform
func (e *Engine) Update(dt time.Duration, hd hand.Data) {
	if dt < 0 {
		dt = 0
	}
	if dt > parameter.MaxFrameDelta {
		dt = parameter.MaxFrameDelta
	}

	ts := e.targets.Load()
	if ts != nil {
		e.reallocate(ts.Len())
		for i := range e.particles {
			p := &e.particles[i]
			target := ts.Points[p.TargetIndex]
			if !vmath.V3FFinite(p.Position) {
				// NaN never eases out, restart the slot on its target
				p.Position = target
				continue
			}
			vmath.V3FEase(&p.Position, target, e.ease)
		}
	}

	e.applyHand(dt, hd)
}

// reallocate resizes the live array to n
// First allocation scatters inside the shape radius, growth clones existing particles, shrink truncates
func (e *Engine) reallocate(n int) {
	old := len(e.particles)
	if n == old {
		return
	}
	if n < old {
		e.particles = e.particles[:n]
		return
	}

	if cap(e.particles) < n {
		grown := make([]Particle, n)
		copy(grown, e.particles)
		e.particles = grown
	} else {
		e.particles = e.particles[:n]
	}

	for i := old; i < n; i++ {
		var pos vmath.Vec3F
		if old == 0 {
			pos = e.rng.InBall(parameter.ShapeRadius)
		} else {
			pos = e.particles[i%old].Position
		}
		e.particles[i] = Particle{Position: pos, TargetIndex: i}
	}
}

func (e *Engine) applyHand(dt time.Duration, hd hand.Data) {
	sec := dt.Seconds()

	if hd.IsTracking {
		x := vmath.Clamp(hd.X, -1, 1)
		y := vmath.Clamp(hd.Y, -1, 1)
		e.yaw += x * parameter.MaxRotationSpeed * sec
		e.pitch += y * parameter.MaxRotationSpeed * sec
		e.pitch = vmath.Clamp(e.pitch, -parameter.MaxPitch, parameter.MaxPitch)

		f := vmath.Clamp(hd.Factor, 0, 1)
		e.scaleTarget = parameter.MinScale + f*(parameter.MaxScale-parameter.MinScale)
	} else {
		e.yaw += parameter.IdleSpinSpeed * sec
	}
	e.yaw = vmath.WrapAngle(e.yaw)

	if dt == 0 {
		return
	}
	if dt != e.springDt {
		e.spring = harmonica.NewSpring(sec, parameter.ScaleSpringFrequency, parameter.ScaleSpringDamping)
		e.springDt = dt
	}
	e.scale, e.scaleVel = e.spring.Update(e.scale, e.scaleVel, e.scaleTarget)
}
