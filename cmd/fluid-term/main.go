// Command fluid-term runs the fluid solver in a terminal, drawing the
// density field as ASCII shades.
package main

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/pthm-cable/splash/config"
	"github.com/pthm-cable/splash/fluid"
	"github.com/pthm-cable/splash/telemetry"
)

// term holds the terminal session state.
type term struct {
	screen  tcell.Screen
	solver  *fluid.Solver
	stepper *fluid.Stepper
	guard   telemetry.DivergenceGuard
	sound   *splashSound

	frameDt        float32
	splashRadius   float32
	splashStrength float32
	splashMaxSpeed float32

	cols, rows int // tank area, excluding the status line
	cells      []cellView

	frame      int64
	paused     bool
	mouseDown  bool
	lastX      float32
	lastY      float32
	lastSplash int
}

func newTerm(cfg *config.Config, s *fluid.Solver) (*term, error) {
	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, err
	}
	if err := screen.Init(); err != nil {
		return nil, err
	}
	screen.EnableMouse()
	screen.HideCursor()

	t := &term{
		screen:         screen,
		solver:         s,
		stepper:        &fluid.Stepper{Solver: s, Substeps: cfg.Stepping.Substeps},
		guard:          telemetry.DivergenceGuard{MaxSpeed: float32(cfg.Telemetry.ResetSpeed)},
		frameDt:        cfg.Derived.FrameDT32,
		splashRadius:   float32(cfg.Splash.Radius),
		splashStrength: float32(cfg.Splash.Strength),
		splashMaxSpeed: float32(cfg.Splash.MaxSpeed),
	}
	t.resize()
	return t, nil
}

// resize reallocates the raster for the current terminal size.
func (t *term) resize() {
	w, h := t.screen.Size()
	t.cols = max(w, 1)
	t.rows = max(h-1, 1)
	t.cells = make([]cellView, t.cols*t.rows)
}

// handleEvent returns false when the user asked to quit.
func (t *term) handleEvent(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		if ev.Key() == tcell.KeyEscape || ev.Key() == tcell.KeyCtrlC {
			return false
		}
		if ev.Key() == tcell.KeyRune {
			switch ev.Rune() {
			case 'q':
				return false
			case 'r':
				t.reset(telemetry.ReasonUser, "")
			case ' ':
				t.paused = !t.paused
			}
		}

	case *tcell.EventMouse:
		c, r := ev.Position()
		x, y := screenToWorld(t.solver, t.cols, t.rows, c, r)
		if ev.Buttons()&tcell.Button1 == 0 {
			t.mouseDown = false
			return true
		}
		var vx, vy float32
		if t.mouseDown {
			vx = (x - t.lastX) / t.frameDt * t.splashStrength
			vy = (y - t.lastY) / t.frameDt * t.splashStrength
		} else {
			// A fresh click kicks the fluid upward.
			vy = -t.splashMaxSpeed / 2
		}
		t.splash(x, y, vx, vy)
		t.mouseDown = true
		t.lastX, t.lastY = x, y

	case *tcell.EventResize:
		t.screen.Sync()
		t.resize()
	}
	return true
}

func (t *term) splash(x, y, vx, vy float32) {
	if limit := t.splashMaxSpeed; limit > 0 {
		if sp2 := vx*vx + vy*vy; sp2 > limit*limit {
			k := limit / sqrt32(sp2)
			vx, vy = vx*k, vy*k
		}
	}
	hit := t.solver.AddExternalForce(x, y, vx, vy, t.splashRadius)
	t.lastSplash = hit
	telemetry.NewSplashEvent(t.frame, x, y, t.splashRadius, hit).Log()
	t.sound.Play(hit)
}

func (t *term) reset(reason, detail string) {
	t.solver.Reset()
	telemetry.NewResetEvent(t.frame, reason, detail).Log()
}

func (t *term) step() {
	if t.paused {
		return
	}
	t.stepper.Advance(t.frameDt)
	t.frame++
	if ev, tripped := t.guard.Check(t.solver, t.frame); tripped {
		t.reset(ev.Reason, ev.Detail)
	}
}

func (t *term) draw() {
	rasterize(t.solver, t.cols, t.rows, t.cells)

	t.screen.Clear()
	for r := 0; r < t.rows; r++ {
		for c := 0; c < t.cols; c++ {
			v := t.cells[r*t.cols+c]
			t.screen.SetContent(c, r, v.ch, nil, styleFor(v))
		}
	}

	status := fmt.Sprintf(" t=%.1fs  particles=%d  substeps=%d  last splash=%d  [click] splash [r] reset [space] pause [q] quit",
		t.solver.Time(), t.solver.NumParticles(), t.stepper.Substeps, t.lastSplash)
	if t.paused {
		status = " PAUSED" + status
	}
	style := tcell.StyleDefault.Reverse(true)
	for i, ch := range []rune(status) {
		if i >= t.cols {
			break
		}
		t.screen.SetContent(i, t.rows, ch, nil, style)
	}
	t.screen.Show()
}

func (t *term) run() {
	ticker := time.NewTicker(time.Duration(float64(t.frameDt) * float64(time.Second)))
	defer ticker.Stop()

	eventChan := make(chan tcell.Event, 100)
	go func() {
		for {
			ev := t.screen.PollEvent()
			if ev == nil {
				close(eventChan)
				return
			}
			eventChan <- ev
		}
	}()

	for {
		select {
		case ev, ok := <-eventChan:
			if !ok || !t.handleEvent(ev) {
				return
			}
		case <-ticker.C:
			t.step()
			t.draw()
		}
	}
}

func (t *term) cleanup() {
	t.sound.Close()
	t.screen.Fini()
}

func main() {
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	logPath := flag.String("log", "", "Write JSON logs to this file (empty = discard)")
	seed := flag.Int64("seed", 0, "RNG seed (0 = use config)")
	mute := flag.Bool("mute", false, "Disable splash sounds")
	flag.Parse()

	// The terminal owns stdout, so logs go to a file or nowhere.
	var logOut io.Writer = io.Discard
	if *logPath != "" {
		f, err := os.Create(*logPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "opening log file: %v\n", err)
			os.Exit(1)
		}
		defer f.Close()
		logOut = f
	}
	slog.SetDefault(slog.New(slog.NewJSONHandler(logOut, nil)))

	if err := config.Init(*configPath); err != nil {
		fmt.Fprintf(os.Stderr, "loading config: %v\n", err)
		os.Exit(1)
	}
	cfg := config.Cfg()

	params := cfg.SolverParams()
	if *seed != 0 {
		params.Seed = *seed
	}
	solver, err := fluid.New(cfg.Derived.DomainW32, cfg.Derived.DomainH32, cfg.Derived.Cell32, params)
	if err != nil {
		fmt.Fprintf(os.Stderr, "creating solver: %v\n", err)
		os.Exit(1)
	}

	t, err := newTerm(cfg, solver)
	if err != nil {
		fmt.Fprintf(os.Stderr, "opening terminal: %v\n", err)
		os.Exit(1)
	}

	t.sound = &splashSound{}
	if !*mute {
		sound, err := newSplashSound()
		if err != nil {
			slog.Warn("audio disabled", "error", err)
		}
		t.sound = sound
	}

	defer t.cleanup()
	t.run()
}
