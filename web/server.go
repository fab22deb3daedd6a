package web

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/guslan/ch8"
)

const pollInterval = 50 * time.Millisecond

type Server struct {
	runner   *ch8.Runner
	debugger *HttpDebugger
	mux      *http.ServeMux

	socket  *websocket.Conn
	wsMutex sync.Mutex
}

type ServerConfig struct {
	SpeedInHz   uint
	UseDebugger bool
	// StaticDir is served at / when set
	StaticDir string
}
type ServerConfigCb func(config *ServerConfig)

func NewServer(cpu *ch8.Cpu, configs ...ServerConfigCb) *Server {
	config := &ServerConfig{
		SpeedInHz:   ch8.DefaultSpeed,
		UseDebugger: false,
		StaticDir:   "",
	}
	for _, cb := range configs {
		cb(config)
	}

	s := &Server{
		mux:     http.NewServeMux(),
		wsMutex: sync.Mutex{},
	}

	s.runner = ch8.NewRunner(cpu, func(rc *ch8.RunnerConfig) {
		rc.SpeedInHz = config.SpeedInHz
		rc.Display = s
		rc.StartPaused = true
	})
	if config.UseDebugger {
		s.debugger = NewHttpDebugger(cpu)
		s.mux.HandleFunc("/debugger", s.debugger.handle)
	}
	if config.StaticDir != "" {
		s.mux.Handle("/", http.FileServer(http.Dir(config.StaticDir)))
	}

	s.routes()

	return s
}

func (server *Server) Runner() *ch8.Runner {
	return server.runner
}

// Handler returns the http handler of the server
func (server *Server) Handler() http.Handler {
	return server.mux
}

func (server *Server) Speed(s uint) {
	server.runner.SetSpeedInHz(s)
}

// LoadProgram loads the program into memory and sets the PC to the start-of-program address
func (server *Server) LoadProgram(program []byte) error {
	return server.runner.LoadProgram(program)
}

func control(w http.ResponseWriter) {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Expose-Headers", "Content-Type")

	w.Header().Set("Cache-Control", "no-cache")
}

func (server *Server) routes() {
	server.mux.HandleFunc("/start", func(w http.ResponseWriter, r *http.Request) {
		control(w)
		slog.Info("Starting")
		server.runner.Start()
	})
	server.mux.HandleFunc("/stop", func(w http.ResponseWriter, r *http.Request) {
		control(w)
		slog.Info("Stopping")
		server.runner.Stop()
	})
	server.mux.HandleFunc("/reset", func(w http.ResponseWriter, r *http.Request) {
		control(w)
		slog.Info("Stopping and resetting")
		server.runner.Stop()
		if err := server.runner.Reset(); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
		}
	})
	server.mux.HandleFunc("/step", func(w http.ResponseWriter, r *http.Request) {
		control(w)
		slog.Info("Single step")
		if err := server.runner.StepOnce(); err != nil {
			http.Error(w, err.Error(), http.StatusConflict)
		}
	})
	server.mux.HandleFunc("/key", func(w http.ResponseWriter, r *http.Request) {
		control(w)
		code, err := strconv.ParseUint(r.URL.Query().Get("code"), 16, 8)
		if err != nil {
			http.Error(w, "code must be a hex digit", http.StatusBadRequest)
			return
		}
		if err := server.runner.PressKey(byte(code)); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
		}
	})
	server.mux.HandleFunc("/disasm", func(w http.ResponseWriter, r *http.Request) {
		control(w)
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")

		var program []byte
		server.runner.Do(func(cpu *ch8.Cpu) {
			program = append(program, cpu.Memory[ch8.StartOfProgram:]...)
		})
		for _, line := range ch8.Disassemble(trimZeros(program)) {
			fmt.Fprintln(w, line)
		}
	})
	server.mux.HandleFunc("/display", func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			slog.Error("upgrade", slog.Any("error", err))
			return
		}
		defer conn.Close()

		slog.Info("Connecting to display")
		server.setWs(conn)
		defer server.unsetWs()

		// Push the current frame so new clients are not blank until the next draw
		var screen ch8.Screen
		server.runner.Do(func(cpu *ch8.Cpu) {
			screen = cpu.Screen()
		})
		server.Render(screen)

		<-r.Context().Done()
		slog.Info("Disconnecting from display")
	})
}

// Listen boots the runner, starts the loop on pause and serves HTTP until ctx ends.
func (server *Server) Listen(ctx context.Context, port int) error {
	if err := server.runner.Boot(); err != nil {
		return err
	}

	go server.loop(ctx)

	httpServer := &http.Server{
		Addr:    fmt.Sprintf(":%d", port),
		Handler: server.mux,
	}
	go func() {
		<-ctx.Done()
		httpServer.Close()
	}()

	slog.Info("Listening on port", slog.Int("port", port))

	if err := httpServer.ListenAndServe(); err != http.ErrServerClosed {
		return err
	}

	return nil
}

// loop keeps the runner alive across program exits and faults until ctx ends.
// After a stop the runner is paused until /start is hit again.
func (server *Server) loop(ctx context.Context) {
	for ctx.Err() == nil {
		err := server.runner.Run(ctx)
		switch {
		case ctx.Err() != nil:
			return
		case err != nil:
			slog.Error("loop stopped", slog.Any("error", err))
		default:
			slog.Info("program exited")
		}
		server.runner.Stop()

		// wait for a reset or a new program
		for ctx.Err() == nil && !server.runner.IsRunning() {
			time.Sleep(pollInterval)
		}
	}
}

func trimZeros(program []byte) []byte {
	end := len(program)
	for end > 0 && program[end-1] == 0 {
		end--
	}
	// keep whole instructions
	end += end % 2

	return program[:min(end, len(program))]
}
