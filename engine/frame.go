package engine

import (
	"github.com/lixenwraith/particle-core/shape"
	"github.com/lixenwraith/particle-core/vmath"
)

// Frame is the per-tick render contract: model-space positions plus the global transform
// Positions is reused by the next Frame call
type Frame struct {
	Shape     shape.Type
	Positions []vmath.Vec3F
	Yaw       float64
	Pitch     float64
	Scale     float64
}

// World applies scale then yaw then pitch to particle i
func (f Frame) World(i int) vmath.Vec3F {
	p := vmath.V3FScale(f.Positions[i], f.Scale)
	p = vmath.RotateY(p, f.Yaw)
	return vmath.RotateX(p, f.Pitch)
}

// Len returns the number of particles in the frame
func (f Frame) Len() int {
	return len(f.Positions)
}

// Frame snapshots the current state
func (e *Engine) Frame() Frame {
	if cap(e.positions) < len(e.particles) {
		e.positions = make([]vmath.Vec3F, len(e.particles))
	}
	e.positions = e.positions[:len(e.particles)]
	for i := range e.particles {
		e.positions[i] = e.particles[i].Position
	}

	f := Frame{
		Positions: e.positions,
		Yaw:       e.yaw,
		Pitch:     e.pitch,
		Scale:     e.scale,
	}
	if ts := e.targets.Load(); ts != nil {
		f.Shape = ts.Shape
	}
	return f
}
