package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"log/slog"
	"os"

	"github.com/guslan/ch8"
	"github.com/guslan/ch8/tui"
)

func main() {
	speed := flag.Uint("speed", ch8.DefaultSpeed, "Speed in steps per second")
	logFile := flag.String("log", "", "write logs to this file instead of discarding them")
	flag.Parse()

	// the terminal belongs to tcell, logs go to a file if asked
	handler := slog.DiscardHandler
	if *logFile != "" {
		f, err := os.Create(*logFile)
		if err != nil {
			log.Fatalln(err)
		}
		defer f.Close()
		handler = slog.NewTextHandler(f, &slog.HandlerOptions{})
	}
	slog.SetDefault(slog.New(handler))

	if flag.NArg() < 1 {
		log.Fatalln("must provide the path to a rom as an argument")
	}

	program, err := os.ReadFile(flag.Arg(0))
	if err != nil {
		log.Fatalln(err)
	}

	term, err := tui.New(ch8.DefaultKeyboardLayout)
	if err != nil {
		log.Fatalln(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	term.OnQuit = cancel

	cpu := ch8.NewCpu(nil)
	if err := cpu.LoadProgram(program); err != nil {
		log.Fatalln(err)
	}

	runner := ch8.NewRunner(cpu, func(config *ch8.RunnerConfig) {
		config.SpeedInHz = *speed
		config.Display = term
		config.Keyboard = term
	})
	if err := runner.Boot(); err != nil {
		log.Fatalln(err)
	}

	err = runner.Run(ctx)
	term.Close()

	if err != nil && !errors.Is(err, context.Canceled) {
		log.Fatalln(err)
	}
}
