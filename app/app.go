package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"ember/driver/gpio"
	"ember/hal"
	"ember/internal/buildinfo"
	"ember/kernel"
	"ember/tasks/blink"
	"ember/tasks/button"

	"golang.org/x/sync/errgroup"
)

// Config holds the construction-time values of the system.
type Config struct {
	// Period is the blink cadence.
	Period time.Duration
	// Gated adds the button task and makes blinking depend on the enable flag.
	Gated bool
	// InitialActive is the startup value of the enable flag.
	InitialActive bool
	InitialLevel  gpio.Level
	ButtonPull    hal.GPIOPull
}

// DefaultConfig is the gated blinker: LED starts high, button pulled down.
func DefaultConfig() Config {
	return Config{
		Period:        200 * time.Millisecond,
		Gated:         true,
		InitialActive: true,
		InitialLevel:  gpio.High,
		ButtonPull:    hal.GPIOPullDown,
	}
}

// UngatedConfig is the plain blinker: LED starts low and toggles every period.
func UngatedConfig() Config {
	return Config{
		Period:       200 * time.Millisecond,
		InitialLevel: gpio.Low,
	}
}

// System is the fixed task set wired to a HAL.
type System struct {
	k   *kernel.Kernel
	log hal.Logger
	cfg Config

	active *kernel.Flag
	led    *gpio.Output
	blink  *blink.Task
	button *button.Task

	ticks <-chan uint64
}

// New brings up the board pins and registers the task set. Any error means
// the system cannot start.
func New(h hal.HAL, cfg Config) (*System, error) {
	if h == nil {
		return nil, errors.New("app: nil hal")
	}
	s := &System{k: kernel.New(), log: h.Logger(), cfg: cfg}
	s.logf("ember: boot %s gated=%v period=%s", buildinfo.Short(), cfg.Gated, cfg.Period)

	ledPin := hal.FindPin(h.GPIO(), hal.PinLED)
	if ledPin == nil {
		return nil, fmt.Errorf("app: no %s pin", hal.PinLED)
	}
	led, err := gpio.NewOutput(ledPin, cfg.InitialLevel)
	if err != nil {
		return nil, fmt.Errorf("app: %w", err)
	}
	s.led = led

	ticker, err := kernel.NewTicker(s.k, cfg.Period)
	if err != nil {
		return nil, fmt.Errorf("app: %w", err)
	}

	if cfg.Gated {
		btnPin, ok := hal.FindPin(h.GPIO(), hal.PinButton).(hal.EdgePin)
		if !ok {
			return nil, fmt.Errorf("app: no edge-capable %s pin", hal.PinButton)
		}
		in, err := gpio.NewEdgeInput(s.k, btnPin, cfg.ButtonPull)
		if err != nil {
			return nil, fmt.Errorf("app: %w", err)
		}
		s.active = kernel.NewFlag(cfg.InitialActive)
		s.button = button.New(in, s.active, s.log)
		if err := s.addTask("button", s.button); err != nil {
			return nil, err
		}
		s.blink = blink.New(led, ticker, s.active)
	} else {
		s.blink = blink.New(led, ticker, nil)
	}
	if err := s.addTask("blink", s.blink); err != nil {
		return nil, err
	}

	if ht := h.Time(); ht != nil {
		s.ticks = ht.Ticks()
	}
	installPanicHandler(s.log)
	return s, nil
}

func (s *System) addTask(name string, t kernel.Task) error {
	id, err := s.k.AddTask(name, t)
	if err != nil {
		return fmt.Errorf("app: %w", err)
	}
	s.logf("kernel: task %d %s registered", id, name)
	return nil
}

func (s *System) logf(format string, args ...any) {
	if s.log == nil {
		return
	}
	s.log.WriteLineString(fmt.Sprintf(format, args...))
}

// Step feeds pending ticks to the kernel and runs tasks until none is ready.
//
// It is the host-driven alternative to Run; do not mix the two.
func (s *System) Step() error {
	s.drainTicks()
	for s.k.Step() {
	}
	return s.k.Fault()
}

func (s *System) drainTicks() {
	if s.ticks == nil {
		return
	}
	for {
		select {
		case seq, ok := <-s.ticks:
			if !ok {
				s.ticks = nil
				return
			}
			s.k.TickTo(seq)
		default:
			return
		}
	}
}

// Run pumps ticks into the kernel and runs the executor until a task faults
// or ctx is done.
func (s *System) Run(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error { return s.pumpTicks(ctx) })
	g.Go(func() error { return s.k.Run(ctx) })
	return g.Wait()
}

func (s *System) pumpTicks(ctx context.Context) error {
	if s.ticks == nil {
		<-ctx.Done()
		return nil
	}
	for {
		select {
		case <-ctx.Done():
			return nil
		case seq, ok := <-s.ticks:
			if !ok {
				return nil
			}
			s.k.TickTo(seq)
		}
	}
}

func (s *System) Kernel() *kernel.Kernel { return s.k }

// Active returns the enable flag, nil for the ungated variant.
func (s *System) Active() *kernel.Flag { return s.active }

func (s *System) LED() *gpio.Output { return s.led }

func (s *System) Blink() *blink.Task { return s.blink }

// Button returns the button task, nil for the ungated variant.
func (s *System) Button() *button.Task { return s.button }

// NewStep builds the system and returns its host step function.
func NewStep(h hal.HAL, cfg Config) (func() error, error) {
	s, err := New(h, cfg)
	if err != nil {
		return nil, err
	}
	return s.Step, nil
}

// Run starts the system and blocks forever (TinyGo/native entrypoint).
//
// A startup error or task fault halts everything; there is no degraded mode.
func Run(h hal.HAL, cfg Config) {
	s, err := New(h, cfg)
	if err != nil {
		if l := h.Logger(); l != nil {
			l.WriteLineString(fmt.Sprintf("ember: startup failed: %v", err))
		}
		select {}
	}
	if err := s.Run(context.Background()); err != nil {
		s.logf("ember: halted: %v", err)
	}
	select {}
}
