// Package shape maps a shape identifier and particle count to an ordered set of target coordinates
package shape

import (
	"errors"
	"fmt"
	"math"

	"github.com/lixenwraith/particle-core/parameter"
	"github.com/lixenwraith/particle-core/vmath"
)

var (
	ErrInvalidCount = errors.New("particle count must be positive")
	ErrNotBuiltin   = errors.New("shape has no local formula")
	ErrNoPoints     = errors.New("no usable points")
)

// TargetSet is an immutable ordered list of destinations, one per particle slot
// Replaced wholesale, never mutated after construction
type TargetSet struct {
	Shape  Type
	Prompt string
	Points []vmath.Vec3F
}

// Len returns the number of slots
func (ts *TargetSet) Len() int {
	if ts == nil {
		return 0
	}
	return len(ts.Points)
}

// Formula maps slot i of count to a coordinate, total for all 0 <= i < count
type Formula interface {
	Point(i, count int) vmath.Vec3F
}

// FormulaFunc adapts a plain function to Formula
type FormulaFunc func(i, count int) vmath.Vec3F

func (f FormulaFunc) Point(i, count int) vmath.Vec3F { return f(i, count) }

// formulaFactory builds a Formula for one Generate call
// Random shapes draw per-call state (burst origins etc.) from rng here
type formulaFactory func(rng *vmath.FastRand) Formula

var formulas = map[Type]formulaFactory{
	Sphere:    constant(sphere),
	Cube:      constant(cube),
	Torus:     constant(torus),
	DNA:       constant(helix),
	Star:      constant(star),
	Heart:     constant(heart),
	Galaxy:    galaxy,
	Nebula:    nebula,
	Fireworks: fireworks,
}

func constant(f FormulaFunc) formulaFactory {
	return func(*vmath.FastRand) Formula { return f }
}

// Generate builds a TargetSet of exactly count points for a built-in shape
// rng may be nil, a time-seeded source is used then
func Generate(t Type, count int, rng *vmath.FastRand) (*TargetSet, error) {
	if count <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidCount, count)
	}
	factory, ok := formulas[t]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotBuiltin, t)
	}
	if rng == nil {
		rng = vmath.NewTimeRand()
	}

	f := factory(rng)
	points := make([]vmath.Vec3F, count)
	for i := range points {
		p := f.Point(i, count)
		if !vmath.V3FFinite(p) {
			p = vmath.Vec3F{}
		}
		points[i] = p
	}
	return &TargetSet{Shape: t, Points: points}, nil
}

// Default returns the fallback target set used when a generation fails
func Default(count int) (*TargetSet, error) {
	fallback, err := ParseType(parameter.AIFallbackShape)
	if err != nil {
		fallback = Sphere
	}
	return Generate(fallback, count, nil)
}

// FromPoints turns raw service coordinates into a TargetSet of exactly count points
// Non-finite points are dropped, the rest is centered and scaled to ShapeRadius,
// truncated to count, and missing slots are filled by cyclic reuse with a small offset
func FromPoints(raw []vmath.Vec3F, count int, prompt string) (*TargetSet, error) {
	if count <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidCount, count)
	}

	points := make([]vmath.Vec3F, 0, min(len(raw), count))
	for _, p := range raw {
		if len(points) == count {
			break
		}
		if vmath.V3FFinite(p) {
			points = append(points, p)
		}
	}
	if len(points) == 0 {
		return nil, ErrNoPoints
	}

	if err := normalize(points); err != nil {
		return nil, err
	}

	out := make([]vmath.Vec3F, count)
	n := copy(out, points)
	for i := n; i < count; i++ {
		cycle := float64(i / n)
		offset := vmath.V3FScale(fibonacciDir(i, count), parameter.FillOffset*cycle)
		out[i] = vmath.V3FAdd(points[i%n], offset)
	}
	return &TargetSet{Shape: AIGenerated, Prompt: prompt, Points: out}, nil
}

// normalize centers points on their centroid and scales the farthest to ShapeRadius
// Points are first divided by the largest absolute component so sums cannot overflow
func normalize(points []vmath.Vec3F) error {
	var peak float64
	for _, p := range points {
		peak = math.Max(peak, math.Max(math.Abs(p.X), math.Max(math.Abs(p.Y), math.Abs(p.Z))))
	}
	if peak > 0 {
		for i, p := range points {
			points[i] = vmath.Vec3F{X: p.X / peak, Y: p.Y / peak, Z: p.Z / peak}
		}
	}

	var centroid vmath.Vec3F
	for _, p := range points {
		centroid = vmath.V3FAdd(centroid, p)
	}
	centroid = vmath.V3FScale(centroid, 1/float64(len(points)))

	var maxDist float64
	for i, p := range points {
		points[i] = vmath.V3FSub(p, centroid)
		maxDist = math.Max(maxDist, vmath.V3FMag(points[i]))
	}
	if maxDist > 0 {
		scale := parameter.ShapeRadius / maxDist
		for i := range points {
			points[i] = vmath.V3FScale(points[i], scale)
		}
	}

	for _, p := range points {
		if !vmath.V3FFinite(p) {
			return fmt.Errorf("%w: coordinates out of range", ErrNoPoints)
		}
	}
	return nil
}
