package main

import (
	"github.com/gdamore/tcell/v2"

	"github.com/lixenwraith/particle-core/hand"
	"github.com/lixenwraith/particle-core/vmath"
)

// wheelStep is the openness change per wheel notch
const wheelStep = 0.1

// mouseHand simulates the hand collaborator from terminal mouse input
// Position steers, the wheel sets openness, buttons pick a gesture:
// left = Closed_Fist, right = Victory, middle = Open_Palm
type mouseHand struct {
	factor float64
}

func newMouseHand() *mouseHand {
	return &mouseHand{factor: 0.5}
}

// sample maps a mouse event at (x, y) on a width x height screen to hand data
func (m *mouseHand) sample(x, y, width, height int, buttons tcell.ButtonMask) hand.Data {
	if buttons&tcell.WheelUp != 0 {
		m.factor = vmath.Clamp(m.factor+wheelStep, 0, 1)
	}
	if buttons&tcell.WheelDown != 0 {
		m.factor = vmath.Clamp(m.factor-wheelStep, 0, 1)
	}
	if width <= 1 || height <= 1 || x < 0 || y < 0 || x >= width || y >= height {
		return hand.Idle
	}

	d := hand.Data{
		Factor:     m.factor,
		X:          vmath.Clamp(2*float64(x)/float64(width-1)-1, -1, 1),
		Y:          vmath.Clamp(2*float64(y)/float64(height-1)-1, -1, 1),
		IsTracking: true,
	}
	switch {
	case buttons&tcell.Button1 != 0:
		d.Gesture = hand.GestureClosedFist
		d.Factor = 0
	case buttons&tcell.Button2 != 0:
		d.Gesture = hand.GestureVictory
	case buttons&tcell.Button3 != 0:
		d.Gesture = hand.GestureOpenPalm
		d.Factor = 1
	}
	return d
}
