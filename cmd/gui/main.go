package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/guslan/ch8"
	"github.com/guslan/ch8/gui"
)

func init() {
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{})))
}

func main() {
	autostart := flag.Bool("start", false, "Starts the console automatically if there is a program loaded (defaults = false).")
	debug := flag.Bool("debug", false, "Trace every instruction (defaults = false).")
	initialSpeed := flag.Uint("speed", ch8.DefaultSpeed, fmt.Sprintf("The starting speed of the CPU in Hz. It has to be in the range [%d, %d] (defaults = %d).", ch8.MinSpeed, ch8.MaxSpeed, ch8.DefaultSpeed))

	flag.Parse()

	if *debug {
		slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug})))
	}

	app := gui.NewApp(func(config *gui.AppConfig) {
		config.Speed = max(*initialSpeed, ch8.MinSpeed)
	})

	if flag.NArg() > 0 {
		app.Load(flag.Arg(0))
	}

	app.Run(*autostart)
}
