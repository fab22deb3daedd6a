package ch8

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"
)

// TimerPeriod is the time between two decrements of the delay and sound timers.
const TimerPeriod = time.Second / 60

// MachineRoutineInterpreter interpretes SYS instructions (0NNN)
type MachineRoutineInterpreter func(opCode uint16, cpu *Cpu) error

// Chip-8 CPU
type Cpu struct {
	Registers

	Memory *Memory

	screen        Screen
	isScreenDirty bool

	random   RandomSource
	clock    func() time.Time
	lastTick time.Time
	logger   *slog.Logger

	MachineRoutineInterpreter MachineRoutineInterpreter

	cycles uint
	// fault is sticky, a faulted machine does not execute anymore
	fault error

	// Hooks that run before every step
	beforeStepHooks []Hook
	// Hooks that run after every successful step
	afterStepHooks []Hook
	// Hooks that run after a fault
	faultHooks []Hook
}

type CpuConfig struct {
	// Random feeds the RND instruction
	Random RandomSource
	// Clock is the time source of the timers
	Clock  func() time.Time
	Logger *slog.Logger

	MachineRoutineInterpreter MachineRoutineInterpreter
}
type CpuConfigCb func(config *CpuConfig)

// NewCpu creates a CPU over memory. A nil memory gets a fresh one.
func NewCpu(memory *Memory, configs ...CpuConfigCb) *Cpu {
	config := &CpuConfig{
		Random: nil,
		Clock:  time.Now,
		Logger: slog.Default(),
	}
	for _, cb := range configs {
		cb(config)
	}
	if config.Random == nil {
		config.Random = newDefaultRandomSource()
	}
	if memory == nil {
		memory = NewMemory()
	}

	cpu := &Cpu{
		Registers: newRegisters(),
		Memory:    memory,

		random: config.Random,
		clock:  config.Clock,
		logger: config.Logger,

		MachineRoutineInterpreter: config.MachineRoutineInterpreter,
	}
	cpu.lastTick = cpu.clock()

	return cpu
}

// Halted reports whether the program requested an exit.
func (cpu *Cpu) Halted() bool {
	return cpu.Pc == HaltSentinel
}

// Fault returns the fault that stopped the machine, if any.
func (cpu *Cpu) Fault() error {
	return cpu.fault
}

func (cpu *Cpu) Cycles() uint {
	return cpu.cycles
}

func (cpu *Cpu) IsSoundTimerActive() bool {
	return cpu.St > 0
}

func (cpu *Cpu) IsDelayTimerActive() bool {
	return cpu.Dt > 0
}

// Screen returns a copy of the framebuffer.
func (cpu *Cpu) Screen() Screen {
	return cpu.screen
}

// ScreenUpdate returns the framebuffer if it changed since the last call.
func (cpu *Cpu) ScreenUpdate() (Screen, bool) {
	if !cpu.isScreenDirty {
		return Screen{}, false
	}
	cpu.isScreenDirty = false

	return cpu.screen, true
}

// LoadProgram resets the CPU and loads the program into memory
func (cpu *Cpu) LoadProgram(program []byte) error {
	cpu.Reset()
	return cpu.Memory.LoadProgram(program)
}

// Reset puts the CPU back at the start of the program with cleared registers, screen and fault.
// Memory is left untouched.
func (cpu *Cpu) Reset() {
	cpu.Registers = newRegisters()
	cpu.cycles = 0
	cpu.fault = nil
	cpu.lastTick = cpu.clock()

	cpu.screen.Clear()
	cpu.isScreenDirty = true
}

// Step fetches, decodes and executes a single instruction and then syncs the timers.
//
// Faults are fatal: once Step returns a Fault every following call returns it again.
// A faulting instruction keeps the effects done before the fault was detected, which is
// only the program counter advance since transfers are validated before they start.
// Stepping a halted machine returns ErrHalted.
func (cpu *Cpu) Step() error {
	if cpu.fault != nil {
		return cpu.fault
	}
	if cpu.Halted() {
		return ErrHalted
	}

	cpu.runHooks(cpu.beforeStepHooks)

	pc := cpu.Pc
	if !IsProgramRange(pc, 2) {
		return cpu.raise(Fault{
			Kind:   MemoryProtectionFault,
			Pc:     pc,
			Addr:   pc,
			Reason: "program counter outside program memory",
		})
	}

	op := Instruction(cpu.Memory.Word(pc))
	cpu.Pc += 2

	cpu.trace(pc, op)

	if err := cpu.executeInstruction(op); err != nil {
		var fault Fault
		if errors.As(err, &fault) {
			fault.OpCode = uint16(op)
			fault.Pc = pc
			err = fault
		}
		return cpu.raise(err)
	}

	cpu.cycles++
	cpu.syncTimers()

	cpu.runHooks(cpu.afterStepHooks)

	return nil
}

// ExecuteInstruction runs op as if it had been fetched at the current program counter.
func (cpu *Cpu) ExecuteInstruction(op Instruction) error {
	if cpu.fault != nil {
		return cpu.fault
	}
	pc := cpu.Pc
	if err := cpu.executeInstruction(op); err != nil {
		var fault Fault
		if errors.As(err, &fault) {
			fault.OpCode = uint16(op)
			fault.Pc = pc
			err = fault
		}
		return cpu.raise(err)
	}

	return nil
}

func (cpu *Cpu) raise(err error) error {
	cpu.fault = err
	cpu.logger.Error("machine fault", slog.Any("error", err))
	cpu.runHooks(cpu.faultHooks)

	return err
}

// syncTimers decrements the timers once per elapsed TimerPeriod, independently of how often Step is called.
func (cpu *Cpu) syncTimers() {
	now := cpu.clock()
	if now.Sub(cpu.lastTick) < TimerPeriod {
		return
	}

	if cpu.Dt > 0 {
		cpu.Dt--
	}
	if cpu.St > 0 {
		cpu.St--
	}
	cpu.lastTick = now
}

func (cpu *Cpu) trace(pc uint16, op Instruction) {
	if !cpu.logger.Enabled(context.Background(), slog.LevelDebug) {
		return
	}

	cpu.logger.Debug(
		"exec",
		slog.String("pc", fmt.Sprintf("0x%03X", pc)),
		slog.String("opcode", fmt.Sprintf("0x%04X", uint16(op))),
		slog.String("instr", op.String()),
	)
}
