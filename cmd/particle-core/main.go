package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gdamore/tcell/v2"
	"golang.org/x/sync/errgroup"

	"github.com/lixenwraith/particle-core/audio"
	"github.com/lixenwraith/particle-core/config"
	"github.com/lixenwraith/particle-core/core"
	"github.com/lixenwraith/particle-core/genai"
	"github.com/lixenwraith/particle-core/hand"
	"github.com/lixenwraith/particle-core/parameter"
	"github.com/lixenwraith/particle-core/render"
	"github.com/lixenwraith/particle-core/shape"
	"github.com/lixenwraith/particle-core/status"
	"github.com/lixenwraith/particle-core/telemetry"
)

const serviceName = "particle-core"

var (
	countFlag     = flag.Int("count", 0, "Particle count (default 6000)")
	shapeFlag     = flag.String("shape", "", "Initial shape: sphere, cube, torus, dna, star, galaxy, nebula, heart, fireworks")
	colorFlag     = flag.String("color", "", "Particle color as #rrggbb")
	handFlag      = flag.String("hand", "mouse", "Hand simulator: none, mouse")
	landmarksFlag = flag.String("landmarks", "", "JSON-lines landmark feed path, '-' for stdin")
	soundFlag     = flag.Bool("sound", false, "Enable audio cues")
	debugFlag     = flag.Bool("debug", false, "Write logs to the log directory")
)

func main() {
	// Panic Recovery: Ensure terminal is reset even if the app crashes
	defer func() {
		if r := recover(); r != nil {
			core.HandleCrash(r)
		}
	}()

	flag.Parse()

	app, err := config.LoadApp()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}
	if *debugFlag {
		app.Debug = true
	}

	initial, err := initialParticle()
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(2)
	}

	if logFile := setupLogging(app.Debug, app.LogDir); logFile != nil {
		defer logFile.Close()
	}

	if err := run(app, initial); err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
}

// initialParticle applies command-line overrides to the default configuration
func initialParticle() (config.Particle, error) {
	p := config.DefaultParticle()
	if *countFlag != 0 {
		p = p.WithCount(*countFlag)
	}
	if *shapeFlag != "" {
		t, err := shape.ParseType(*shapeFlag)
		if err != nil {
			return p, err
		}
		if !t.IsBuiltin() {
			return p, fmt.Errorf("-shape must be a built-in shape, use '/' in the app for prompts")
		}
		p = p.WithShape(t)
	}
	if *colorFlag != "" {
		p = p.WithColor(*colorFlag)
	}
	return p, p.Validate()
}

func run(app config.App, initial config.Particle) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := telemetry.Setup(ctx, serviceName, app.OTelEndpoint)
	if err != nil {
		log.Printf("[main] tracing disabled: %v", err)
	}
	defer func() {
		flushCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = shutdownTracing(flushCtx)
	}()

	var cues core.Cues
	if *soundFlag {
		sm := audio.NewSoundManager()
		if err := sm.Initialize(); err != nil {
			// Non-fatal, runs without sound
			log.Printf("[main] audio initialization failed: %v", err)
		} else {
			defer sm.Cleanup()
			cues = sm
		}
	}

	var gen core.Generator
	if app.AIEnabled() {
		gen = genai.NewClient(genai.Config{
			Endpoint:  app.AIEndpoint,
			APIKey:    app.AIKey,
			Model:     app.AIModel,
			Timeout:   app.AITimeout,
			MaxPoints: app.AIMaxPoints,
			Retries:   app.AIRetries,
		})
	}

	reg := status.NewRegistry()
	statLoading := reg.Bools.Get(status.KeyAILoading)
	scene, err := core.New(core.Options{
		Initial:   initial,
		Registry:  reg,
		Generator: gen,
		SetLoading: func(on bool) {
			statLoading.Store(on)
			log.Printf("[main] loading=%t", on)
		},
		Cues:      cues,
		AITimeout: app.AITimeout,
		MaxPoints: app.AIMaxPoints,
	})
	if err != nil {
		return err
	}
	defer scene.Close()

	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("create screen: %w", err)
	}
	if err := screen.Init(); err != nil {
		return fmt.Errorf("init screen: %w", err)
	}
	core.SetCrashTerminal(screen)
	defer func() {
		core.SetCrashTerminal(nil)
		screen.Fini()
	}()

	var mouse *mouseHand
	if *handFlag == "mouse" {
		screen.EnableMouse()
		mouse = newMouseHand()
	}

	ctrl := newController(scene, mouse)
	renderer := render.NewRenderer(screen)

	g, gctx := errgroup.WithContext(ctx)

	if *landmarksFlag != "" {
		src, err := openLandmarks(*landmarksFlag)
		if err != nil {
			return err
		}
		feed := &hand.Feed{
			Reducer: hand.NewReducer(nil),
			OnData:  scene.OnHand,
		}
		g.Go(func() error {
			if err := feed.Run(gctx, src); err != nil && gctx.Err() == nil {
				log.Printf("[main] landmark feed stopped: %v", err)
			}
			// EOF leaves the last hand value in place
			return nil
		})
		// Closing the source unblocks a feed still waiting on input
		g.Go(func() error {
			<-gctx.Done()
			src.Close()
			return nil
		})
	}

	events := make(chan tcell.Event, 256)
	// Input polling uses a raw goroutine as it blocks on the terminal until Fini
	core.Go(func() {
		for {
			ev := screen.PollEvent()
			if ev == nil {
				return
			}
			select {
			case events <- ev:
			case <-gctx.Done():
				return
			}
		}
	})

	g.Go(func() error {
		return loop(gctx, app.FrameInterval(), scene, ctrl, renderer, reg, events)
	})

	err = g.Wait()
	if errors.Is(err, errQuit) || errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

var errQuit = errors.New("quit")

// loop is the single render loop: drain input, tick the scene, draw
func loop(ctx context.Context, interval time.Duration, scene *core.Scene, ctrl *controller,
	renderer *render.Renderer, reg *status.Registry, events <-chan tcell.Event) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	last := time.Now()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case ev := <-events:
			if _, ok := ev.(*tcell.EventResize); ok {
				renderer.Resize()
				continue
			}
			w, h := renderer.Size()
			if ctrl.HandleEvent(ev, w, h) {
				return errQuit
			}

		case now := <-ticker.C:
			dt := now.Sub(last)
			last = now
			if dt > parameter.MaxFrameDelta {
				dt = parameter.MaxFrameDelta
			}

			frame := scene.Tick(dt)
			renderer.Draw(render.View{
				Frame:        frame,
				Config:       scene.Config(),
				Hand:         ctrl.handData(),
				HandDebug:    ctrl.handDebug,
				Loading:      scene.Loading(),
				Prompt:       ctrl.promptText(),
				PromptActive: ctrl.promptActive,
				Status:       reg.Snapshot(),
			})
		}
	}
}

// openLandmarks opens the feed source; "-" is stdin
func openLandmarks(path string) (io.ReadCloser, error) {
	if path == "-" {
		return os.Stdin, nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open landmark feed: %w", err)
	}
	return f, nil
}
