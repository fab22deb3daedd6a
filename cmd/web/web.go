/*
 *   Copyright (c) 2024 Gustavo Lopez <git.gustavolopez.xyz@gmail.com>
 *   All rights reserved.
 */
package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"

	"github.com/guslan/ch8"
	"github.com/guslan/ch8/web"
)

func main() {
	port := flag.Int("port", 9999, "The port of the server (default = 9999)")
	speed := flag.Uint("speed", ch8.DefaultSpeed, "Speed in steps per second")
	static := flag.String("static", "./static", "Directory served at /")
	debugger := flag.Bool("debugger", true, "Serve the debugger websocket at /debugger")
	flag.Parse()

	if flag.NArg() < 1 {
		log.Fatalln("must provide the path to a rom as an argument")
	}

	program, err := os.ReadFile(flag.Arg(0))
	if err != nil {
		log.Fatalln(err)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	server := web.NewServer(ch8.NewCpu(nil), func(config *web.ServerConfig) {
		config.SpeedInHz = *speed
		config.UseDebugger = *debugger
		config.StaticDir = *static
	})

	if err := server.LoadProgram(program); err != nil {
		log.Fatalln(err)
	}
	if err := server.Listen(ctx, *port); err != nil {
		log.Fatalln(err)
	}
}
