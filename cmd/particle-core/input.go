package main

import (
	"log"

	"github.com/gdamore/tcell/v2"

	"github.com/lixenwraith/particle-core/config"
	"github.com/lixenwraith/particle-core/core"
	"github.com/lixenwraith/particle-core/hand"
	"github.com/lixenwraith/particle-core/shape"
)

// Particle size range reachable from the keyboard
const (
	minSize  = 0.01
	maxSize  = 0.40
	sizeStep = 0.01
)

// controller is the UI collaborator: it turns terminal input into scene submissions
type controller struct {
	scene     *core.Scene
	mouse     *mouseHand
	handDebug bool

	promptActive bool
	prompt       []rune
}

func newController(scene *core.Scene, mouse *mouseHand) *controller {
	return &controller{scene: scene, mouse: mouse}
}

// HandleEvent processes one terminal event and reports whether the app should quit
func (c *controller) HandleEvent(ev tcell.Event, width, height int) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		return c.handleKey(ev.Key(), ev.Rune())
	case *tcell.EventMouse:
		if c.mouse != nil {
			x, y := ev.Position()
			c.scene.OnHand(c.mouse.sample(x, y, width, height, ev.Buttons()))
		}
	}
	return false
}

func (c *controller) handleKey(key tcell.Key, ch rune) bool {
	if c.promptActive {
		c.handlePromptKey(key, ch)
		return false
	}

	switch key {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return true
	case tcell.KeyRune:
	default:
		return false
	}

	cfg := c.scene.Config()
	switch {
	case ch == 'q':
		return true
	case ch >= '1' && ch <= '9':
		idx := int(ch - '1')
		if idx < len(shape.Builtins) {
			c.submit(cfg.WithShape(shape.Builtins[idx]))
		}
	case ch == '+' || ch == '=':
		c.submit(cfg.StepCount(1))
	case ch == '-':
		c.submit(cfg.StepCount(-1))
	case ch == 'c':
		c.submit(cfg.NextColor())
	case ch == ']':
		c.submit(cfg.WithSize(min(maxSize, cfg.Size+sizeStep)))
	case ch == '[':
		c.submit(cfg.WithSize(max(minSize, cfg.Size-sizeStep)))
	case ch == 'h':
		c.handDebug = !c.handDebug
	case ch == '/':
		c.promptActive = true
		c.prompt = append(c.prompt[:0], []rune(cfg.AIPrompt)...)
	}
	return false
}

func (c *controller) handlePromptKey(key tcell.Key, ch rune) {
	switch key {
	case tcell.KeyEscape:
		c.promptActive = false
	case tcell.KeyEnter:
		c.promptActive = false
		c.submit(c.scene.Config().WithPrompt(string(c.prompt)))
	case tcell.KeyBackspace, tcell.KeyBackspace2:
		if n := len(c.prompt); n > 0 {
			c.prompt = c.prompt[:n-1]
		}
	case tcell.KeyRune:
		c.prompt = append(c.prompt, ch)
	}
}

func (c *controller) submit(p config.Particle) {
	if err := c.scene.Submit(p); err != nil {
		log.Printf("[input] submit rejected: %v", err)
	}
}

// promptText is the prompt being edited
func (c *controller) promptText() string {
	return string(c.prompt)
}

// handData returns the value the renderer shows on the hand debug line
func (c *controller) handData() hand.Data {
	return c.scene.Hand().Load()
}
