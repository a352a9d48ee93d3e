package vmath

import (
	"math"
	"time"
)

// FastRand is a xorshift64 generator, not safe for concurrent use
// One instance per call site keeps randomness isolated
type FastRand struct {
	state uint64

	// Cached second Box-Muller draw
	spare    float64
	hasSpare bool
}

func NewFastRand(seed uint64) *FastRand {
	if seed == 0 {
		seed = 1
	}
	return &FastRand{state: seed}
}

// NewTimeRand seeds from the wall clock
func NewTimeRand() *FastRand {
	return NewFastRand(uint64(time.Now().UnixNano()))
}

func (r *FastRand) Next() uint64 {
	x := r.state
	x ^= x << 13
	x ^= x >> 17
	x ^= x << 5
	r.state = x
	return x
}

func (r *FastRand) Intn(n int) int {
	if n <= 0 {
		return 0
	}
	return int(r.Next() % uint64(n))
}

// Float64 returns a uniform value in [0, 1)
func (r *FastRand) Float64() float64 {
	return float64(r.Next()>>11) / (1 << 53)
}

// Range returns a uniform value in [lo, hi)
func (r *FastRand) Range(lo, hi float64) float64 {
	return lo + (hi-lo)*r.Float64()
}

// Norm returns a standard normal draw (Box-Muller, pairs cached)
func (r *FastRand) Norm() float64 {
	if r.hasSpare {
		r.hasSpare = false
		return r.spare
	}
	u1 := r.Float64()
	for u1 == 0 {
		u1 = r.Float64()
	}
	u2 := r.Float64()
	mag := math.Sqrt(-2 * math.Log(u1))
	sin, cos := math.Sincos(2 * math.Pi * u2)
	r.spare = mag * sin
	r.hasSpare = true
	return mag * cos
}

// UnitSphere returns a uniformly distributed direction
func (r *FastRand) UnitSphere() Vec3F {
	z := r.Range(-1, 1)
	phi := r.Range(0, 2*math.Pi)
	rho := math.Sqrt(1 - z*z)
	sin, cos := math.Sincos(phi)
	return Vec3F{rho * cos, rho * sin, z}
}

// InBall returns a uniformly distributed point inside a ball of the given radius
func (r *FastRand) InBall(radius float64) Vec3F {
	return V3FScale(r.UnitSphere(), radius*math.Cbrt(r.Float64()))
}
