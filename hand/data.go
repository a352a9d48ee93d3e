// Package hand reduces raw hand landmarks into the compact steering signal read by the render loop
package hand

import (
	"fmt"
	"strings"
	"sync/atomic"
)

// Gesture is a discrete hand pose classification
type Gesture uint8

const (
	GestureNone Gesture = iota
	GestureVictory
	GestureOpenPalm
	GestureClosedFist
)

var gestureNames = [...]string{
	GestureNone:       "None",
	GestureVictory:    "Victory",
	GestureOpenPalm:   "Open_Palm",
	GestureClosedFist: "Closed_Fist",
}

func (g Gesture) String() string {
	if int(g) < len(gestureNames) {
		return gestureNames[g]
	}
	return fmt.Sprintf("Gesture(%d)", g)
}

// ParseGesture accepts the detector label form ("Open_Palm") case-insensitively
func ParseGesture(s string) (Gesture, error) {
	for i, name := range gestureNames {
		if strings.EqualFold(name, strings.TrimSpace(s)) {
			return Gesture(i), nil
		}
	}
	return GestureNone, fmt.Errorf("unknown gesture %q", s)
}

// Data is the reduced per-frame hand signal
// Factor: 0 closed .. 1 open; X: -1 left .. 1 right; Y: -1 top .. 1 bottom
type Data struct {
	Factor     float64
	X, Y       float64
	IsTracking bool
	Gesture    Gesture
}

// Idle is the value held before the first detection: closed, centered, not tracking
var Idle = Data{}

// Cell is a single-slot last-write-wins holder
// Readers observe either the previous or the latest complete value, never a torn one
// Zero value is ready to use and reads as Idle
type Cell struct {
	ptr atomic.Pointer[Data]
}

// Store publishes d, replacing any unread value
func (c *Cell) Store(d Data) {
	c.ptr.Store(&d)
}

// Load returns the most recent value
func (c *Cell) Load() Data {
	if p := c.ptr.Load(); p != nil {
		return *p
	}
	return Idle
}
