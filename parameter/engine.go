package parameter

import "time"

// Render Loop Timing
const (
	// FrameUpdateInterval is the default render tick (~60 FPS)
	FrameUpdateInterval = 16 * time.Millisecond

	// MaxFrameDelta caps dt fed to the engine after a stall so rotation does not jump
	MaxFrameDelta = 100 * time.Millisecond
)

// Event Queue
const (
	// EventQueueSize is the fixed capacity of the event ring buffer
	EventQueueSize = 64

	// EventBufferMask is the bitmask for fast modulo operations (64 - 1)
	EventBufferMask = 63
)
