package gui

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"sync"
	"time"

	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/guslan/ch8"
)

const (
	ToolbarGap       = 5
	ToolbarBtnWidth  = 80
	ToolbarBtnHeight = 40
	ToolbarHeight    = 50
	ToolbarBtnOffset = ToolbarBtnWidth + ToolbarGap

	ScreenPixelSize = 15
	ScreenPositionX = 0
	ScreenPositionY = ToolbarHeight + 1

	MessageBarGap   = 5
	MessageBarHeigh = 30
)

var MessageBarBgColor = rl.DarkGray
var MessageBarInfoColor = rl.SkyBlue
var MessageBarSuccessColor = rl.Lime
var MessageBarWarningColor = rl.Gold
var MessageBarErrorColor = rl.Red

type MessageType byte

const (
	MessageInfo MessageType = iota
	MessageSuccess
	MessageWarning
	MessageError
)

type App struct {
	cpu    *ch8.Cpu
	runner *ch8.Runner

	// Speed factor
	// Speed in Hz is speedFactor+1 * 5
	speedFactor float32

	screen      ch8.Screen
	screenMutex sync.Mutex

	keyboardLookupMap map[ScanCode]byte

	// Window width and height
	winW, winH int

	// Toolbar
	startBtn, stopBtn, stepBtn, restBtn bool

	loadedProgramPath string

	messageMutex     sync.Mutex
	lastMessage      string
	lastMessageColor rl.Color
}

type AppConfig struct {
	Speed          uint
	KeyboardLayout ch8.KeyboardLayout
}
type AppConfigCb func(config *AppConfig)

func speedFactorToHz(s float32) uint {
	return uint((s + 1) * 5)
}

func hzToSpeedFactor(hz uint) float32 {
	return float32(hz)/5 - 1
}

func NewApp(configs ...AppConfigCb) *App {
	config := &AppConfig{
		Speed:          ch8.DefaultSpeed,
		KeyboardLayout: ch8.DefaultKeyboardLayout,
	}
	for _, cb := range configs {
		cb(config)
	}

	app := &App{
		cpu:               ch8.NewCpu(nil),
		speedFactor:       hzToSpeedFactor(config.Speed),
		keyboardLookupMap: keyboardLookupMap(config.KeyboardLayout),
	}
	app.runner = ch8.NewRunner(app.cpu, func(rc *ch8.RunnerConfig) {
		rc.SpeedInHz = config.Speed
		rc.Display = app
		rc.StartPaused = true
	})

	app.updateWindowSize()

	return app
}

// Run starts the CPU loop and the UI loop. The UI loop owns the main goroutine.
func (app *App) Run(autostart bool) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go app.loop(ctx)

	if autostart && app.hasProgramLoaded() {
		app.runner.Start()
	}

	rl.InitWindow(int32(app.winW), int32(app.winH), "ch8")
	defer rl.CloseWindow()

	rl.SetTargetFPS(60)
	for !rl.WindowShouldClose() {
		rl.BeginDrawing()

		rl.ClearBackground(rl.Black)

		app.handleFileLoad()
		app.handleActions()
		app.handleKeyPress()
		app.updateCpuSpeed()

		app.drawMessageBar()
		app.drawScreen()
		app.drawToolbar()

		rl.EndDrawing()
	}
}

// loop keeps the runner alive across program exits and faults until ctx ends
func (app *App) loop(ctx context.Context) {
	slog.Info("starting CPU loop on pause")
	if err := app.runner.Boot(); err != nil {
		app.showMessage(err.Error(), MessageError)
		slog.Error("Error booting CPU", slog.Any("error", err))
		return
	}

	for ctx.Err() == nil {
		err := app.runner.Run(ctx)
		switch {
		case errors.Is(err, context.Canceled):
			return
		case err != nil:
			app.showMessage(err.Error(), MessageError)
			slog.Error("CPU stopped", slog.Any("error", err))
		default:
			app.showMessage("Program exited", MessageSuccess)
		}
		app.runner.Stop()

		// wait for a reset or a new program
		for ctx.Err() == nil && !app.runner.IsRunning() {
			time.Sleep(100 * time.Millisecond)
		}
	}
}

func (app *App) Load(path string) {
	program, err := os.ReadFile(path)
	if err != nil {
		slog.Error("Error loading program", slog.String("path", path), slog.Any("error", err))
		app.showMessage(err.Error(), MessageError)
		return
	}

	if err = app.runner.LoadProgram(program); err != nil {
		slog.Error("Error loading program", slog.String("path", path), slog.Any("error", err))
		app.showMessage(err.Error(), MessageError)
		return
	}

	app.loadedProgramPath = path
	slog.Info("Program loaded", slog.String("path", path))
	app.showMessage(fmt.Sprintf("Program '%s' loaded", app.loadedProgramPath), MessageInfo)
}

func (app *App) updateWindowSize() {
	app.winW = ch8.ScreenWidth * ScreenPixelSize
	app.winH = ch8.ScreenHeight*ScreenPixelSize + ToolbarHeight + MessageBarHeigh
	slog.Info("Updating window size", slog.Int("width", app.winW), slog.Int("height", app.winH))
}

func (app *App) handleFileLoad() {
	if rl.IsFileDropped() {
		files := rl.LoadDroppedFiles()
		defer rl.UnloadDroppedFiles()

		slog.Info("Files were dropped", "files", strings.Join(files, ","))

		app.Load(files[0])
	}
}

func (app *App) hasProgramLoaded() bool {
	return len(app.loadedProgramPath) > 0
}

func (app *App) handleActions() {
	if app.startBtn {
		if app.hasProgramLoaded() {
			app.runner.Start()
			slog.Info("Starting the console")
		} else {
			app.showMessage("There is no program loaded", MessageError)
		}
	}
	if app.stopBtn {
		app.runner.Stop()
		slog.Info("Stopping the console")
	}
	if app.restBtn {
		if err := app.runner.Reset(); err != nil {
			app.showMessage(err.Error(), MessageError)
		}
		slog.Info("Resetting the program to the beginning")
	}
	if app.stepBtn {
		if err := app.runner.StepOnce(); err != nil {
			app.showMessage(err.Error(), MessageError)
		}
		slog.Info("Running a single step")
	}
}

func (app *App) updateCpuSpeed() {
	app.runner.SetSpeedInHz(speedFactorToHz(app.speedFactor))
}

const (
	MinSpeed = float32(ch8.MinSpeed/5) - 1
	MaxSpeed = float32(ch8.MaxSpeed/5) - 1
)

func (app *App) drawToolbar() {
	rl.DrawRectangle(0, 0, int32(rl.GetScreenWidth()), ToolbarHeight, rl.Gray)

	app.startBtn = gui.Button(
		rl.NewRectangle(ToolbarGap+ToolbarBtnOffset*0, ToolbarGap, ToolbarBtnWidth, ToolbarBtnHeight),
		gui.IconText(gui.ICON_PLAYER_PLAY, "Start"),
	)
	app.stopBtn = gui.Button(
		rl.NewRectangle(ToolbarGap+ToolbarBtnOffset*1, ToolbarGap, ToolbarBtnWidth, ToolbarBtnHeight),
		gui.IconText(gui.ICON_PLAYER_STOP, "Stop"),
	)
	app.stepBtn = gui.Button(
		rl.NewRectangle(ToolbarGap+ToolbarBtnOffset*2, ToolbarGap, ToolbarBtnWidth, ToolbarBtnHeight),
		gui.IconText(gui.ICON_PLAYER_NEXT, "Step"),
	)
	app.restBtn = gui.Button(
		rl.NewRectangle(ToolbarGap+ToolbarBtnOffset*3, ToolbarGap, ToolbarBtnWidth, ToolbarBtnHeight),
		gui.IconText(gui.ICON_ROTATE, "Reset"),
	)

	status := "Stopped"
	if app.runner.IsRunning() {
		status = "Running"
	}
	gui.Label(
		rl.NewRectangle(ToolbarGap+ToolbarBtnOffset*4, ToolbarGap, ToolbarBtnWidth, ToolbarBtnHeight),
		status,
	)

	gui.Label(
		rl.NewRectangle(float32(app.winW)-ToolbarGap-150, 26, 50, 20),
		fmt.Sprintf("%d Hz", speedFactorToHz(app.speedFactor)),
	)

	if gui.Button(
		rl.NewRectangle(float32(app.winW)-ToolbarGap-150+50, 26, 50, 20),
		gui.IconText(gui.ICON_ROTATE, ""),
	) {
		app.speedFactor = hzToSpeedFactor(ch8.DefaultSpeed)
	}

	app.speedFactor = gui.Slider(
		rl.NewRectangle(float32(app.winW)-ToolbarGap-150, ToolbarGap, 100, 20),
		"5 Hz", "700 Hz",
		app.speedFactor,
		MinSpeed,
		MaxSpeed,
	)
}

func (app *App) showMessage(msg string, mType MessageType) {
	app.messageMutex.Lock()
	defer app.messageMutex.Unlock()

	app.lastMessage = msg
	switch mType {
	case MessageInfo:
		app.lastMessageColor = MessageBarInfoColor

	case MessageSuccess:
		app.lastMessageColor = MessageBarSuccessColor

	case MessageWarning:
		app.lastMessageColor = MessageBarWarningColor

	case MessageError:
		app.lastMessageColor = MessageBarErrorColor
	}
}

func (app *App) drawMessageBar() {
	app.messageMutex.Lock()
	msg, color := app.lastMessage, app.lastMessageColor
	app.messageMutex.Unlock()

	rl.DrawRectangle(
		0,
		int32(app.winH)-MessageBarHeigh,
		int32(app.winW),
		MessageBarHeigh,
		MessageBarBgColor,
	)

	rl.DrawText(
		msg,
		MessageBarGap,
		int32(app.winH)-MessageBarHeigh+MessageBarGap,
		16,
		color,
	)
}
