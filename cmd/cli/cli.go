/*
 *   Copyright (c) 2024 Gustavo Lopez <git.gustavolopez.xyz@gmail.com>
 *   All rights reserved.
 */
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"

	"github.com/guslan/ch8"
	"github.com/k0kubun/pp/v3"
)

func main() {
	os.Exit(run())
}

// run returns the process exit status. The tty is restored before main exits.
func run() int {
	speed := flag.Uint("speed", ch8.DefaultSpeed, fmt.Sprintf("Speed in steps per second, in the range [%d, %d]", ch8.MinSpeed, ch8.MaxSpeed))
	noTerm := flag.Bool("noterm", false, "turn off the terminal display and keyboard of the emulator")
	debug := flag.Bool("debug", false, "trace every instruction to stderr")
	dump := flag.Bool("dump", false, "pretty print the registers when the machine faults")
	disasm := flag.Bool("disasm", false, "print the disassembly of the rom and exit")

	flag.Parse()

	level := slog.LevelInfo
	if *debug {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	if flag.NArg() < 1 {
		log.Fatalln("must provide the path to a rom as an argument")
	}

	program, err := os.ReadFile(flag.Arg(0))
	if err != nil {
		log.Fatalln(err)
	}

	if *disasm {
		for _, line := range ch8.Disassemble(program) {
			fmt.Println(line)
		}
		return 0
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	var display ch8.Display = ch8.NewDummyDisplay()
	var keyboard ch8.Keyboard = ch8.NewDummyKeyboard()
	if !*noTerm {
		kb := ch8.NewTerminalKeyboard()
		kb.OnQuit = cancel
		defer kb.Close()

		display = ch8.NewTerminalDisplay()
		keyboard = kb
	}

	cpu := ch8.NewCpu(nil)
	if err := cpu.LoadProgram(program); err != nil {
		slog.Error("loading program", slog.Any("error", err))
		return 1
	}

	runner := ch8.NewRunner(cpu, func(config *ch8.RunnerConfig) {
		config.SpeedInHz = *speed
		config.Display = display
		config.Keyboard = keyboard
	})
	if err := runner.Boot(); err != nil {
		slog.Error("booting", slog.Any("error", err))
		return 1
	}

	err = runner.Run(ctx)
	if _, isFault := ch8.FaultKindOf(err); isFault && *dump {
		runner.Do(func(cpu *ch8.Cpu) {
			pp.Fprintln(os.Stderr, cpu.Registers)
		})
	}

	return exitCode(err)
}

// exitCode maps the result of the loop to a process status.
// Quitting with ESC or Ctrl-C is a clean exit.
func exitCode(err error) int {
	if err == nil || errors.Is(err, context.Canceled) {
		return 0
	}
	slog.Error("machine stopped", slog.Any("error", err))

	return 1
}
