// Package render draws the particle frame and a status line into a tcell screen
package render

import (
	"fmt"
	"strings"

	"github.com/gdamore/tcell/v2"

	"github.com/lixenwraith/particle-core/config"
	"github.com/lixenwraith/particle-core/engine"
	"github.com/lixenwraith/particle-core/hand"
	"github.com/lixenwraith/particle-core/parameter"
	"github.com/lixenwraith/particle-core/status"
)

// Status line colors
var (
	RgbStatusFg      = tcell.NewRGBColor(200, 200, 200)
	RgbStatusBg      = tcell.NewRGBColor(30, 30, 40)
	RgbStatusLoading = tcell.NewRGBColor(255, 200, 0)
	RgbPromptFg      = tcell.NewRGBColor(0, 255, 255)
	RgbHandDebugFg   = tcell.NewRGBColor(120, 255, 120)
)

var spinner = []rune{'|', '/', '-', '\\'}

// View is everything the renderer needs for one frame
type View struct {
	Frame     engine.Frame
	Config    config.Particle
	Hand      hand.Data
	HandDebug bool
	Loading   bool

	// Prompt is shown in place of the status line while editing
	Prompt       string
	PromptActive bool

	Status []status.Entry
}

// Renderer handles all terminal rendering
type Renderer struct {
	screen tcell.Screen
	width  int
	height int
	cells  []cell
	frames int
}

// NewRenderer creates a renderer sized to the screen
func NewRenderer(screen tcell.Screen) *Renderer {
	r := &Renderer{screen: screen}
	r.Resize()
	return r
}

// Resize re-reads the screen size
func (r *Renderer) Resize() {
	r.width, r.height = r.screen.Size()
}

// Size returns the last known screen size
func (r *Renderer) Size() (int, int) {
	return r.width, r.height
}

// Draw renders a complete frame and shows it
func (r *Renderer) Draw(v View) {
	r.frames++
	r.screen.Fill(' ', tcell.StyleDefault.Background(Background))

	reserved := parameter.StatusBarHeight
	if v.HandDebug {
		reserved++
	}
	field := r.height - reserved
	if field > 0 && r.width > 0 {
		r.drawCloud(v.Frame, v.Config.RGB(), v.Config.Size, field)
	}

	if v.HandDebug && r.height >= 2 {
		r.drawHandDebug(r.height-2, v.Hand)
	}
	if r.height >= 1 {
		if v.PromptActive {
			r.drawPrompt(r.height-1, v.Prompt)
		} else {
			r.drawStatusBar(r.height-1, v)
		}
	}

	r.screen.Show()
}

func (r *Renderer) drawStatusBar(row int, v View) {
	style := tcell.StyleDefault.Foreground(RgbStatusFg).Background(RgbStatusBg)
	r.fillRow(row, style)

	left := fmt.Sprintf(" %s  n=%d  %s  size=%.2f ", v.Config.Shape, v.Config.Count, v.Config.Color, v.Config.Size)
	x := r.drawText(0, row, left, style)
	if v.Loading {
		sp := spinner[r.frames%len(spinner)]
		x = r.drawText(x, row, fmt.Sprintf("%c generating ", sp), style.Foreground(RgbStatusLoading))
	}

	if len(v.Status) == 0 {
		return
	}
	parts := make([]string, 0, len(v.Status))
	for _, e := range v.Status {
		parts = append(parts, e.Key+"="+e.Value)
	}
	right := strings.Join(parts, " ") + " "
	start := r.width - len([]rune(right))
	if start > x {
		r.drawText(start, row, right, style)
	}
}

func (r *Renderer) drawPrompt(row int, text string) {
	style := tcell.StyleDefault.Foreground(RgbPromptFg).Background(RgbStatusBg)
	r.fillRow(row, style)
	x := r.drawText(0, row, " prompt> "+text, style)
	if x < r.width {
		r.screen.SetContent(x, row, '_', nil, style.Blink(true))
	}
}

func (r *Renderer) drawHandDebug(row int, d hand.Data) {
	style := tcell.StyleDefault.Foreground(RgbHandDebugFg).Background(Background)
	line := fmt.Sprintf(" hand tracking=%t factor=%.2f x=%+.2f y=%+.2f gesture=%s",
		d.IsTracking, d.Factor, d.X, d.Y, d.Gesture)
	r.drawText(0, row, line, style)
}

func (r *Renderer) fillRow(row int, style tcell.Style) {
	for x := 0; x < r.width; x++ {
		r.screen.SetContent(x, row, ' ', nil, style)
	}
}

// drawText writes s from x and returns the column after the last rune, clipped to the width
func (r *Renderer) drawText(x, row int, s string, style tcell.Style) int {
	for _, ch := range s {
		if x >= r.width {
			break
		}
		r.screen.SetContent(x, row, ch, nil, style)
		x++
	}
	return x
}
