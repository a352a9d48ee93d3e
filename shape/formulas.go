package shape

import (
	"math"

	"github.com/lixenwraith/particle-core/parameter"
	"github.com/lixenwraith/particle-core/vmath"
)

const (
	// goldenFrac is 1/φ, low-discrepancy step for deterministic scatter
	goldenFrac = 0.6180339887498949
	// plasticFrac is 1/ρ (plastic number), a second independent low-discrepancy step
	plasticFrac = 0.7548776662466927
	// goldenAngle is π(3-√5)
	goldenAngle = 2.399963229728653
)

// fibonacciDir returns the i-th of count evenly spread unit directions
func fibonacciDir(i, count int) vmath.Vec3F {
	y := 1 - 2*(float64(i)+0.5)/float64(count)
	rho := math.Sqrt(math.Max(0, 1-y*y))
	sin, cos := math.Sincos(float64(i) * goldenAngle)
	return vmath.Vec3F{X: rho * cos, Y: y, Z: rho * sin}
}

func sphere(i, count int) vmath.Vec3F {
	return vmath.V3FScale(fibonacciDir(i, count), parameter.ShapeRadius)
}

// cube spreads slots round-robin over six faces, each face a square grid
func cube(i, count int) vmath.Vec3F {
	half := parameter.ShapeRadius / math.Sqrt(3)
	face := i % 6
	k := i / 6

	perFace := (count + 5) / 6
	side := int(math.Ceil(math.Sqrt(float64(perFace))))
	u := ((float64(k%side)+0.5)/float64(side)*2 - 1) * half
	v := ((float64(k/side)+0.5)/float64(side)*2 - 1) * half

	switch face {
	case 0:
		return vmath.Vec3F{X: half, Y: u, Z: v}
	case 1:
		return vmath.Vec3F{X: -half, Y: u, Z: v}
	case 2:
		return vmath.Vec3F{X: u, Y: half, Z: v}
	case 3:
		return vmath.Vec3F{X: u, Y: -half, Z: v}
	case 4:
		return vmath.Vec3F{X: u, Y: v, Z: half}
	default:
		return vmath.Vec3F{X: u, Y: v, Z: -half}
	}
}

func torus(i, count int) vmath.Vec3F {
	minor := parameter.ShapeRadius * parameter.TorusMinorRatio
	major := parameter.ShapeRadius - minor

	t := float64(i) / float64(count)
	sinU, cosU := math.Sincos(2 * math.Pi * t)
	sinV, cosV := math.Sincos(2 * math.Pi * vmath.Frac(float64(i)*goldenFrac))

	ring := major + minor*cosV
	return vmath.Vec3F{X: ring * cosU, Y: minor * sinV, Z: ring * sinU}
}

// helix alternates slots between two strands, every HelixRungEvery-th slot sits on a rung
func helix(i, count int) vmath.Vec3F {
	t := float64(i) / float64(count)
	strandAt := func(strand int) vmath.Vec3F {
		r := parameter.ShapeRadius * parameter.HelixRadiusRatio
		angle := 2*math.Pi*parameter.HelixTurns*t + float64(strand)*math.Pi
		sin, cos := math.Sincos(angle)
		return vmath.Vec3F{X: r * cos, Y: (t - 0.5) * 2 * parameter.ShapeRadius, Z: r * sin}
	}

	if i%parameter.HelixRungEvery == parameter.HelixRungEvery-1 {
		return vmath.V3FLerp(strandAt(0), strandAt(1), vmath.Frac(float64(i)*goldenFrac))
	}
	return strandAt(i % 2)
}

// starVertex returns outline vertex k of 2*StarPoints, tip 0 pointing up
func starVertex(k int) vmath.Vec3F {
	r := parameter.ShapeRadius
	if k%2 == 1 {
		r *= parameter.StarInnerRatio
	}
	angle := math.Pi/2 + float64(k)*math.Pi/parameter.StarPoints
	sin, cos := math.Sincos(angle)
	return vmath.Vec3F{X: r * cos, Y: r * sin}
}

// star walks the outline perimeter, all edges have equal length so t spaces evenly
func star(i, count int) vmath.Vec3F {
	const vertices = 2 * parameter.StarPoints
	s := float64(i) / float64(count) * vertices
	seg := int(s) % vertices
	p := vmath.V3FLerp(starVertex(seg), starVertex((seg+1)%vertices), s-math.Floor(s))
	p.Z = (vmath.Frac(float64(i)*goldenFrac) - 0.5) * parameter.StarDepth
	return p
}

// heart traces the classic heart curve with a thin band of interior fill
func heart(i, count int) vmath.Vec3F {
	u := 2 * math.Pi * float64(i) / float64(count)
	sin := math.Sin(u)
	x := 16 * sin * sin * sin
	y := 13*math.Cos(u) - 5*math.Cos(2*u) - 2*math.Cos(3*u) - math.Cos(4*u)

	// Curve spans x in [-16,16], y in about [-17,12]; recenter y before scaling
	scale := parameter.ShapeRadius / 17
	inset := 1 - 0.25*vmath.Frac(float64(i)*goldenFrac)
	return vmath.Vec3F{
		X: x * scale * inset,
		Y: (y + 2.5) * scale * inset,
		Z: (vmath.Frac(float64(i)*plasticFrac) - 0.5) * parameter.HeartDepth * inset,
	}
}

// galaxy places slots on logarithmic spiral arms with Gaussian scatter
// Every 8th slot belongs to the central bulge
func galaxy(rng *vmath.FastRand) Formula {
	const growth = 0.18
	rim := math.Exp(growth*parameter.GalaxyWinding) - 1

	return FormulaFunc(func(i, count int) vmath.Vec3F {
		if i%8 == 0 {
			return vmath.Vec3F{
				X: rng.Norm() * parameter.ShapeRadius * 0.12,
				Y: rng.Norm() * parameter.ShapeRadius * 0.08,
				Z: rng.Norm() * parameter.ShapeRadius * 0.12,
			}
		}

		arm := i % parameter.GalaxyArms
		s := float64(i) / float64(count)
		theta := s * parameter.GalaxyWinding
		r := parameter.ShapeRadius * (math.Exp(growth*theta) - 1) / rim
		angle := theta + float64(arm)*2*math.Pi/parameter.GalaxyArms

		spread := parameter.GalaxySpread*r + 0.05*parameter.ShapeRadius
		sin, cos := math.Sincos(angle)
		return vmath.Vec3F{
			X: r*cos + rng.Norm()*spread,
			Y: rng.Norm() * parameter.GalaxyThickness * (1 - 0.7*s),
			Z: r*sin + rng.Norm()*spread,
		}
	})
}

// nebula layers three Gaussian shells of different width around fixed lobe centers
func nebula(rng *vmath.FastRand) Formula {
	type lobe struct {
		center vmath.Vec3F
		sigma  float64
	}
	lobes := make([]lobe, parameter.NebulaLobes)
	for k := range lobes {
		sin, cos := math.Sincos(float64(k)*2*math.Pi/parameter.NebulaLobes + 0.4)
		lobes[k] = lobe{
			center: vmath.Vec3F{
				X: 0.45 * parameter.ShapeRadius * cos,
				Y: 0.25 * parameter.ShapeRadius * math.Sin(float64(k)*1.7),
				Z: 0.45 * parameter.ShapeRadius * sin,
			},
			sigma: parameter.ShapeRadius * (0.18 + 0.05*float64(k%3)),
		}
	}
	layers := [3]float64{0.5, 1.0, 1.6}
	limit := 1.6 * parameter.ShapeRadius

	return FormulaFunc(func(i, count int) vmath.Vec3F {
		l := lobes[i%len(lobes)]
		sigma := l.sigma * layers[(i/len(lobes))%len(layers)]
		p := vmath.Vec3F{
			X: l.center.X + rng.Norm()*sigma,
			Y: l.center.Y + rng.Norm()*sigma*0.7,
			Z: l.center.Z + rng.Norm()*sigma,
		}
		if mag := vmath.V3FMag(p); mag > limit {
			p = vmath.V3FScale(p, limit/mag)
		}
		return p
	})
}

// fireworks scatters burst origins once per call, slots explode outward with a slight droop
func fireworks(rng *vmath.FastRand) Formula {
	origins := make([]vmath.Vec3F, parameter.FireworksBursts)
	for k := range origins {
		origins[k] = rng.InBall(parameter.ShapeRadius * 0.6)
	}

	return FormulaFunc(func(i, count int) vmath.Vec3F {
		origin := origins[i%len(origins)]
		dist := burstDistance(rng.Float64())
		p := vmath.V3FAdd(origin, vmath.V3FScale(rng.UnitSphere(), dist))
		p.Y -= 0.15 * dist * dist
		return p
	})
}

// burstDistance maps u in [0,1) to a distance uniform in the burst volume
func burstDistance(u float64) float64 {
	return parameter.FireworksBurstRadius * math.Cbrt(u)
}
