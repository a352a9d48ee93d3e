// Package audio plays short synthesized cues for shape morphs and generation outcomes
package audio

import (
	"sync"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
	"github.com/gopxl/beep/speaker"

	"github.com/lixenwraith/particle-core/parameter"
)

const sampleRate = beep.SampleRate(parameter.AudioSampleRate)

// SoundManager owns the speaker and a mixer that cues are added to
// Every Play method is a no-op until Initialize succeeds
type SoundManager struct {
	mu          sync.Mutex
	mixer       *beep.Mixer
	master      *beep.Ctrl
	initialized bool
}

// NewSoundManager creates a new sound manager
func NewSoundManager() *SoundManager {
	mixer := &beep.Mixer{}
	return &SoundManager{
		mixer:  mixer,
		master: &beep.Ctrl{Streamer: mixer},
	}
}

// Initialize sets up the audio device
func (sm *SoundManager) Initialize() error {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if sm.initialized {
		return nil
	}

	if err := speaker.Init(sampleRate, sampleRate.N(parameter.AudioBufferDuration)); err != nil {
		return err
	}

	speaker.Play(sm.master)
	sm.initialized = true
	return nil
}

// Cleanup silences all cues
func (sm *SoundManager) Cleanup() {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if !sm.initialized {
		return
	}

	speaker.Lock()
	sm.master.Paused = true
	sm.mixer.Clear()
	speaker.Unlock()

	// beep has no speaker Close for the mixer path; clearing prevents artifacts
	sm.initialized = false
}

// PlayMorph plays a short upward sweep when the installed shape changes
func (sm *SoundManager) PlayMorph() {
	sm.play(func() beep.Streamer {
		return beep.Take(sampleRate.N(parameter.MorphCueDuration), NewSweepGenerator(sampleRate, 220, 660, parameter.MorphCueDuration))
	})
}

// PlayReady plays a two-note chime when a generated shape arrives
func (sm *SoundManager) PlayReady() {
	sm.play(func() beep.Streamer {
		return NewChime(sampleRate, parameter.ReadyCueDuration, 660, 990)
	})
}

// PlayError plays a short low buzz when generation fails
func (sm *SoundManager) PlayError() {
	sm.play(func() beep.Streamer {
		return beep.Take(sampleRate.N(parameter.ErrorCueDuration), NewBuzzGenerator(sampleRate, 120))
	})
}

func (sm *SoundManager) play(build func() beep.Streamer) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if !sm.initialized {
		return
	}

	s := build()
	if s == nil {
		return
	}
	vol := &effects.Volume{Streamer: s, Base: 2, Volume: parameter.CueVolume}

	speaker.Lock()
	sm.master.Paused = false
	sm.mixer.Add(vol)
	speaker.Unlock()
}
