package parameter

import "time"

// Audio cues
const (
	// AudioSampleRate is the speaker sample rate
	AudioSampleRate = 44100

	// AudioBufferDuration is the speaker buffer length
	AudioBufferDuration = 100 * time.Millisecond

	// MorphCueDuration is the length of the shape-morph sweep
	MorphCueDuration = 350 * time.Millisecond

	// ReadyCueDuration is the length of the AI-ready chime
	ReadyCueDuration = 180 * time.Millisecond

	// ErrorCueDuration is the length of the AI-failure buzz
	ErrorCueDuration = 150 * time.Millisecond

	// CueVolume is the beep effects.Volume exponent applied to all cues (base 2)
	CueVolume = -1.5
)
