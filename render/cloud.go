package render

import (
	"math"

	"github.com/gdamore/tcell/v2"
	"github.com/lucasb-eyer/go-colorful"

	"github.com/lixenwraith/particle-core/engine"
	"github.com/lixenwraith/particle-core/parameter"
	"github.com/lixenwraith/particle-core/vmath"
)

// densityRamp maps particles-per-cell to glyphs, sparse to dense
var densityRamp = []rune{'.', ':', '-', '=', '+', '*', '#', '%', '@'}

// Background is the scene clear color
var Background = tcell.NewRGBColor(0, 0, 0)

// depthFade is how much of the base color is lost at the far side of the cloud
const depthFade = 0.75

// cell accumulates the particles projected onto one terminal cell
type cell struct {
	count int
	near  float64
}

// Projector maps world coordinates to terminal cells for a field of the given size
type Projector struct {
	Width, Height int
	unit          float64
}

func NewProjector(width, height int) Projector {
	return Projector{
		Width:  width,
		Height: height,
		unit:   float64(height) / (2 * parameter.ShapeRadius * parameter.FieldOfViewScale),
	}
}

// Project returns the cell for p and its camera depth; ok is false behind the camera or off-field
func (pr Projector) Project(p vmath.Vec3F) (x, y int, depth float64, ok bool) {
	depth = parameter.CameraDistance - p.Z
	if depth <= 0.1 {
		return 0, 0, depth, false
	}
	persp := parameter.CameraDistance / depth
	fx := float64(pr.Width)/2 + p.X*pr.unit*parameter.CellAspect*persp
	fy := float64(pr.Height)/2 - p.Y*pr.unit*persp
	x, y = int(math.Floor(fx)), int(math.Floor(fy))
	if x < 0 || y < 0 || x >= pr.Width || y >= pr.Height {
		return x, y, depth, false
	}
	return x, y, depth, true
}

// glyph picks a density glyph, shifted toward denser glyphs for larger particle sizes
func glyph(count int, size float64) rune {
	idx := 0
	for n := count; n > 1 && idx < len(densityRamp)-1; n >>= 1 {
		idx++
	}
	idx += sizeBoost(size)
	if idx >= len(densityRamp) {
		idx = len(densityRamp) - 1
	}
	return densityRamp[idx]
}

// sizeBoost is 0 at the default size 0.05 and grows by one glyph per doubling
func sizeBoost(size float64) int {
	if size <= 0.05 {
		return 0
	}
	return int(math.Log2(size / 0.05))
}

// shade darkens base by relative depth within the cloud, near is bright
func shade(base colorful.Color, depth, scale float64) tcell.Color {
	extent := parameter.ShapeRadius * math.Max(scale, 0.01)
	t := vmath.Clamp((depth-(parameter.CameraDistance-extent))/(2*extent), 0, 1)
	c := base.BlendLab(colorful.Color{}, t*depthFade).Clamped()
	r, g, b := c.RGB255()
	return tcell.NewRGBColor(int32(r), int32(g), int32(b))
}

// drawCloud rasterizes the frame into the top height rows
func (r *Renderer) drawCloud(f engine.Frame, base colorful.Color, size float64, height int) {
	pr := NewProjector(r.width, height)
	n := pr.Width * pr.Height
	if cap(r.cells) < n {
		r.cells = make([]cell, n)
	}
	r.cells = r.cells[:n]
	clear(r.cells)

	for i := 0; i < f.Len(); i++ {
		x, y, depth, ok := pr.Project(f.World(i))
		if !ok {
			continue
		}
		c := &r.cells[y*pr.Width+x]
		if c.count == 0 || depth < c.near {
			c.near = depth
		}
		c.count++
	}

	bg := tcell.StyleDefault.Background(Background)
	for y := 0; y < pr.Height; y++ {
		for x := 0; x < pr.Width; x++ {
			c := r.cells[y*pr.Width+x]
			if c.count == 0 {
				continue
			}
			style := bg.Foreground(shade(base, c.near, f.Scale))
			r.screen.SetContent(x, y, glyph(c.count, size), nil, style)
		}
	}
}
