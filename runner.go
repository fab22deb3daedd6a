package ch8

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"
)

var ErrRunnerIsNotBooted = errors.New(f("the runner has not been booted properly"))

const (
	DefaultSpeed uint = 500
	MaxSpeed     uint = 700
	MinSpeed     uint = 5
)

// Runner is the host loop that drives a Cpu: it polls the keyboard into the key latch,
// steps the CPU at a fixed speed and renders the screen when it changes.
// The CPU must only be touched through the Runner once the loop is running.
type Runner struct {
	cpu      *Cpu
	display  Display
	keyboard Keyboard

	mu        sync.Mutex
	speedInHz uint
	step      time.Duration
	isPaused  bool
	isBooted  bool
	lastError error
}

type RunnerConfig struct {
	SpeedInHz   uint
	Display     Display
	Keyboard    Keyboard
	StartPaused bool
}
type RunnerConfigCb func(config *RunnerConfig)

func NewRunner(cpu *Cpu, configs ...RunnerConfigCb) *Runner {
	config := &RunnerConfig{
		SpeedInHz:   DefaultSpeed,
		Display:     NewDummyDisplay(),
		Keyboard:    NewDummyKeyboard(),
		StartPaused: false,
	}
	for _, cb := range configs {
		cb(config)
	}

	r := &Runner{
		cpu:      cpu,
		display:  config.Display,
		keyboard: config.Keyboard,
		isPaused: config.StartPaused,
	}
	r.setSpeedInHz(config.SpeedInHz)

	return r
}

// Boot initializes the display and the keyboard
// If the runner was already booted, this method is a noop
func (r *Runner) Boot() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.isBooted {
		return nil
	}
	if err := r.display.Boot(); err != nil {
		return err
	}
	if err := r.keyboard.Boot(); err != nil {
		return err
	}
	r.isBooted = true

	return nil
}

func (r *Runner) IsRunning() bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	return !r.isPaused
}

func (r *Runner) Start() {
	r.mu.Lock()
	r.isPaused = false
	r.mu.Unlock()
}

func (r *Runner) Stop() {
	r.mu.Lock()
	r.isPaused = true
	r.mu.Unlock()
}

func (r *Runner) SpeedInHz() uint {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.speedInHz
}

// SetSpeedInHz sets the number of steps per second, clamped to [MinSpeed, MaxSpeed].
func (r *Runner) SetSpeedInHz(inHz uint) {
	r.mu.Lock()
	r.setSpeedInHz(inHz)
	r.mu.Unlock()
}

func (r *Runner) setSpeedInHz(inHz uint) {
	r.speedInHz = min(max(inHz, MinSpeed), MaxSpeed)
	r.step = time.Second / time.Duration(r.speedInHz)
}

// Do runs fn with exclusive access to the CPU.
func (r *Runner) Do(fn func(cpu *Cpu)) {
	r.mu.Lock()
	defer r.mu.Unlock()

	fn(r.cpu)
}

// LoadProgram resets the CPU and loads the program
func (r *Runner) LoadProgram(program []byte) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.lastError = nil
	if err := r.cpu.LoadProgram(program); err != nil {
		return err
	}

	return r.render()
}

// Reset puts the program back at its beginning
func (r *Runner) Reset() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.lastError = nil
	r.cpu.Reset()

	return r.render()
}

// PressKey latches a key for the CPU
func (r *Runner) PressKey(k byte) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.cpu.Key.Set(k)
}

// Run starts the loop at the current speed.
// It returns nil once the program exits, the fault that stopped the CPU, or the context error.
func (r *Runner) Run(ctx context.Context) error {
	r.mu.Lock()
	booted, lastError := r.isBooted, r.lastError
	r.mu.Unlock()

	if !booted {
		return ErrRunnerIsNotBooted
	}
	if lastError != nil {
		return lastError
	}

	slog.Info("starting the loop", slog.Uint64("speed", uint64(r.SpeedInHz())))

	var last time.Time
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		done, step, err := r.runNextCycle()
		if err != nil {
			return err
		}
		if done {
			slog.Info("program exited", slog.Uint64("cycles", uint64(r.cycles())))
			return nil
		}

		// Prevent the CPU from running faster than expected
		time.Sleep(max(step-time.Since(last), 0))
		last = time.Now()
	}
}

// StepOnce runs a single cycle bypassing the pause state
func (r *Runner) StepOnce() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.isBooted {
		return ErrRunnerIsNotBooted
	}
	if r.lastError != nil {
		return r.lastError
	}

	_, err := r.cycle()
	return err
}

func (r *Runner) runNextCycle() (bool, time.Duration, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.isPaused {
		return false, r.step, nil
	}

	done, err := r.cycle()
	return done, r.step, err
}

func (r *Runner) cycle() (bool, error) {
	if k, pressed := r.keyboard.Poll(); pressed {
		if err := r.cpu.Key.Set(k); err != nil {
			slog.Warn("ignoring key", slog.Any("key", k), slog.Any("error", err))
		}
	}

	err := r.cpu.Step()
	if errors.Is(err, ErrHalted) {
		return true, nil
	}
	if err != nil {
		r.lastError = err
		return false, err
	}

	if err := r.render(); err != nil {
		r.lastError = err
		return false, err
	}

	return r.cpu.Halted(), nil
}

func (r *Runner) render() error {
	if screen, changed := r.cpu.ScreenUpdate(); changed {
		return r.display.Render(screen)
	}

	return nil
}

func (r *Runner) cycles() uint {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.cpu.Cycles()
}
