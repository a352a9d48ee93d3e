// Package core drives the particle scene: it applies configuration changes, the Victory shortcut,
// and asynchronous shape generation on top of the animation engine
package core

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/lixenwraith/particle-core/config"
	"github.com/lixenwraith/particle-core/engine"
	"github.com/lixenwraith/particle-core/event"
	"github.com/lixenwraith/particle-core/hand"
	"github.com/lixenwraith/particle-core/parameter"
	"github.com/lixenwraith/particle-core/shape"
	"github.com/lixenwraith/particle-core/status"
	"github.com/lixenwraith/particle-core/vmath"
)

var (
	ErrEmptyPrompt = errors.New("empty prompt")
	ErrNoGenerator = errors.New("no generator configured")
)

// Generator turns a prompt into raw coordinates
type Generator interface {
	Generate(ctx context.Context, prompt string, maxPoints int) ([]vmath.Vec3F, error)
}

// Cues are fired from the render loop on shape changes
type Cues interface {
	PlayMorph()
	PlayReady()
	PlayError()
}

// Options configures a Scene; zero values take package defaults
type Options struct {
	Initial   config.Particle
	Registry  *status.Registry
	Queue     *event.Queue
	Generator Generator

	// SetLoading is called with true when a generation request is issued and false when it resolves
	// It runs on the request goroutine and must be safe for concurrent use
	SetLoading func(bool)

	Cues      Cues
	Ease      float64
	AITimeout time.Duration
	MaxPoints int
	Rand      *vmath.FastRand
}

// Scene owns the engine and reconciles the requested configuration once per tick
// Submit and OnHand may be called from any goroutine; Tick belongs to the render loop
type Scene struct {
	requested atomic.Pointer[config.Particle]
	hand      hand.Cell

	engine *engine.Engine
	queue  *event.Queue
	gen    Generator
	cues   Cues
	rng    *vmath.FastRand

	setLoading func(bool)
	aiTimeout  time.Duration
	maxPoints  int

	// Render loop only
	installed    config.Particle
	hasInstalled bool
	seq          uint64

	pending atomic.Int64
	wg      sync.WaitGroup
	ctx     context.Context
	cancel  context.CancelFunc

	// Cached metric pointers
	statFrames       *atomic.Int64
	statParticles    *atomic.Int64
	statShapeChanges *atomic.Int64
	statAIRequests   *atomic.Int64
	statAIFailures   *atomic.Int64
	statAIStale      *atomic.Int64
	statAIPending    *atomic.Int64
	statShape        *status.AtomicString
	statScale        *status.AtomicFloat
}

// New creates a scene; Initial must validate
func New(opts Options) (*Scene, error) {
	if err := opts.Initial.Validate(); err != nil {
		return nil, err
	}
	if opts.Ease == 0 {
		opts.Ease = parameter.EaseFactor
	}
	if opts.Rand == nil {
		opts.Rand = vmath.NewTimeRand()
	}
	eng, err := engine.New(opts.Ease, opts.Rand)
	if err != nil {
		return nil, err
	}
	if opts.Registry == nil {
		opts.Registry = status.NewRegistry()
	}
	if opts.Queue == nil {
		opts.Queue = event.NewQueue()
	}
	if opts.AITimeout <= 0 {
		opts.AITimeout = parameter.AITimeout
	}
	if opts.MaxPoints <= 0 {
		opts.MaxPoints = parameter.AIMaxPoints
	}

	ctx, cancel := context.WithCancel(context.Background())
	reg := opts.Registry
	s := &Scene{
		engine:     eng,
		queue:      opts.Queue,
		gen:        opts.Generator,
		cues:       opts.Cues,
		rng:        opts.Rand,
		setLoading: opts.SetLoading,
		aiTimeout:  opts.AITimeout,
		maxPoints:  opts.MaxPoints,
		ctx:        ctx,
		cancel:     cancel,

		statFrames:       reg.Ints.Get(status.KeyFrames),
		statParticles:    reg.Ints.Get(status.KeyParticles),
		statShapeChanges: reg.Ints.Get(status.KeyShapeChanges),
		statAIRequests:   reg.Ints.Get(status.KeyAIRequests),
		statAIFailures:   reg.Ints.Get(status.KeyAIFailures),
		statAIStale:      reg.Ints.Get(status.KeyAIStale),
		statAIPending:    reg.Ints.Get(status.KeyAIPending),
		statShape:        reg.Strings.Get(status.KeyShape),
		statScale:        reg.Floats.Get(status.KeyScale),
	}
	initial := opts.Initial
	s.requested.Store(&initial)
	return s, nil
}

// Submit replaces the requested configuration as a whole
// An AI shape with a blank prompt is rejected before any request and leaves the scene unchanged
func (s *Scene) Submit(p config.Particle) error {
	if p.Shape == shape.AIGenerated && strings.TrimSpace(p.AIPrompt) == "" {
		return ErrEmptyPrompt
	}
	if err := p.Validate(); err != nil {
		return err
	}
	s.requested.Store(&p)
	return nil
}

// Config returns the latest requested configuration
func (s *Scene) Config() config.Particle {
	return *s.requested.Load()
}

// OnHand publishes a hand sample; a Victory gesture requests the Heart shape unless already requested
func (s *Scene) OnHand(d hand.Data) {
	s.hand.Store(d)
	if !d.IsTracking || d.Gesture != hand.GestureVictory {
		return
	}
	for {
		cur := s.requested.Load()
		if cur.Shape == shape.Heart {
			return
		}
		next := cur.WithShape(shape.Heart)
		if s.requested.CompareAndSwap(cur, &next) {
			log.Printf("[scene] victory gesture: %s -> %s", cur.Shape, shape.Heart)
			return
		}
	}
}

// Hand returns the cell OnHand writes to, for producers that publish directly
func (s *Scene) Hand() *hand.Cell {
	return &s.hand
}

// Loading reports whether any generation request is in flight
func (s *Scene) Loading() bool {
	return s.pending.Load() > 0
}

// Engine exposes the animation engine
func (s *Scene) Engine() *engine.Engine {
	return s.engine
}

// Tick runs one render-loop step and returns the frame to draw
func (s *Scene) Tick(dt time.Duration) engine.Frame {
	s.drain()

	req := s.requested.Load()
	if !s.hasInstalled || s.installed.NeedsRegeneration(*req) {
		s.regenerate(*req)
	}
	s.installed = *req
	s.hasInstalled = true

	s.engine.Update(dt, s.hand.Load())
	frame := s.engine.Frame()

	s.statFrames.Add(1)
	s.statParticles.Store(int64(frame.Len()))
	s.statScale.Set(frame.Scale)
	return frame
}

// Close cancels in-flight requests and waits for their goroutines
func (s *Scene) Close() {
	s.cancel()
	s.wg.Wait()
}

// Wait blocks until every issued request has resolved
func (s *Scene) Wait() {
	s.wg.Wait()
}

func (s *Scene) drain() {
	current := s.queue.Drain(s.seq, func(ev event.Event) {
		s.statAIStale.Add(1)
		prompt := ""
		if p := ev.Targets(); p != nil {
			prompt = p.Prompt
		}
		log.Printf("[scene] dropping stale %s for %q (seq %d, current %d)", ev.Type, prompt, ev.Seq, s.seq)
	})
	for _, ev := range current {
		p := ev.Targets()
		if p == nil {
			continue
		}

		s.engine.Install(p.Targets)
		switch ev.Type {
		case event.EventTargetsReady:
			s.statShape.Store(shape.AIGenerated.String())
			s.cue(Cues.PlayReady)
		case event.EventTargetsFailed:
			s.statAIFailures.Add(1)
			s.statShape.Store(parameter.AIFallbackShape)
			log.Printf("[scene] generation for %q failed, using fallback: %v", p.Prompt, p.Err)
			s.cue(Cues.PlayError)
		}
	}
}

// regenerate builds targets for p; built-ins install immediately, the AI shape is requested asynchronously
func (s *Scene) regenerate(p config.Particle) {
	s.seq++
	s.statShapeChanges.Add(1)

	if p.Shape == shape.AIGenerated {
		s.requestAI(s.seq, strings.TrimSpace(p.AIPrompt), p.Count)
		return
	}

	ts, err := shape.Generate(p.Shape, p.Count, s.rng)
	if err != nil {
		log.Printf("[scene] generate %s: %v", p.Shape, err)
		return
	}
	s.engine.Install(ts)
	s.statShape.Store(p.Shape.String())
	s.cue(Cues.PlayMorph)
}

func (s *Scene) requestAI(seq uint64, prompt string, count int) {
	s.pending.Add(1)
	s.statAIPending.Add(1)
	s.statAIRequests.Add(1)
	s.loading(true)

	s.wg.Add(1)
	go s.runAI(seq, prompt, count)
}

func (s *Scene) runAI(seq uint64, prompt string, count int) {
	defer s.wg.Done()
	defer func() {
		s.statAIPending.Add(-1)
		s.pending.Add(-1)
		s.loading(false)
	}()

	ts, err := s.resolveAI(prompt, count)
	ev := event.Event{
		Type: event.EventTargetsReady,
		Seq:  seq,
		Payload: &event.TargetsPayload{
			Prompt:  prompt,
			Count:   count,
			Targets: ts,
			Err:     err,
		},
	}
	if err != nil {
		ev.Type = event.EventTargetsFailed
	}
	s.queue.Push(ev)
}

// resolveAI always returns a target set of length count; err reports whether it is the fallback
func (s *Scene) resolveAI(prompt string, count int) (ts *shape.TargetSet, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("generator panic: %v", r)
		}
		if err != nil {
			ts, _ = shape.Default(count)
		}
	}()

	if s.gen == nil {
		return nil, ErrNoGenerator
	}

	ctx, cancel := context.WithTimeout(s.ctx, s.aiTimeout)
	defer cancel()

	points, err := s.gen.Generate(ctx, prompt, min(count, s.maxPoints))
	if err != nil {
		return nil, err
	}
	return shape.FromPoints(points, count, prompt)
}

func (s *Scene) loading(on bool) {
	if s.setLoading != nil {
		s.setLoading(on)
	}
}

func (s *Scene) cue(play func(Cues)) {
	if s.cues != nil {
		play(s.cues)
	}
}
