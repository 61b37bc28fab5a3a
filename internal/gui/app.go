package gui

import (
	"fmt"
	"os"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/san-kum/partsim/internal/config"
	"github.com/san-kum/partsim/internal/dynamo"
	"github.com/san-kum/partsim/internal/experiment"
	"github.com/san-kum/partsim/internal/metrics"
	"github.com/san-kum/partsim/internal/physics"
	"github.com/san-kum/partsim/internal/viz"
)

var (
	ColBg      = rl.NewColor(10, 10, 10, 255)
	ColAccent  = rl.NewColor(180, 180, 180, 255)
	ColSelect  = rl.NewColor(255, 255, 255, 255)
	ColText    = rl.NewColor(140, 140, 140, 255)
	ColTextDim = rl.NewColor(60, 60, 60, 255)
	ColBox     = rl.NewColor(90, 90, 90, 255)
)

const (
	windowWidth  = 1280
	windowHeight = 720
	targetFPS    = 60
	telemetryLen = 200
	fontPath     = "/usr/share/fonts/liberation/LiberationMono-Regular.ttf"
)

// Options tune a viewer session.
type Options struct {
	Title    string
	MaxDelta float32
	Radius   float32
}

// App owns the window state for one particle system. The renderer only reads
// the published buffer, and only after the system reports a new frame.
type App struct {
	Sys   *physics.ParticleSystem
	Clock dynamo.Clock
	Opts  Options

	Camera rl.Camera3D
	orbit  *viz.OrbitCamera

	// instances mirrors the last uploaded frame.
	instances []rl.Vector3
	uploaded  uint64

	Running   bool
	InMenu    bool
	InConfig  bool
	Presets   []string
	Selected  int
	Cfg       *config.Config
	ParamSel  int
	Telemetry []float64
	Time      float64
	Font      rl.Font
	Status    string

	energy   *metrics.EnergyLoss
	bounces  *metrics.Bounces
	registry *experiment.Registry
}

var tunable = []string{"count", "square_size", "gravity", "collision_damping"}

func initWindow(title string) {
	rl.InitWindow(windowWidth, windowHeight, title)
	rl.SetTargetFPS(targetFPS)
	rl.SetExitKey(0)
}

func loadFont() rl.Font {
	if _, err := os.Stat(fontPath); err != nil {
		return rl.GetFontDefault()
	}
	font := rl.LoadFontEx(fontPath, 32, nil, 0)
	rl.SetTextureFilter(font.Texture, rl.FilterBilinear)
	return font
}

func newApp(opts Options) *App {
	if opts.Radius <= 0 {
		opts.Radius = 0.05
	}
	return &App{
		Opts:      opts,
		Font:      loadFont(),
		Telemetry: make([]float64, 0, telemetryLen),
		energy:    metrics.NewEnergyLoss(),
		bounces:   metrics.NewBounces(),
		registry:  experiment.NewRegistry(),
	}
}

// Run opens a window on sys and blocks until it is closed.
func Run(sys *physics.ParticleSystem, clock dynamo.Clock, opts Options) {
	if opts.Title == "" {
		opts.Title = "partsim"
	}
	initWindow(opts.Title)
	defer rl.CloseWindow()

	app := newApp(opts)
	app.attach(sys, clock)
	app.RunLoop()
}

// RunInteractive starts at the preset menu.
func RunInteractive() {
	initWindow("partsim")
	defer rl.CloseWindow()

	app := newApp(Options{Title: "partsim"})
	app.Presets = config.ListPresets()
	app.InMenu = true
	app.RunLoop()
}

func (a *App) RunLoop() {
	for !rl.WindowShouldClose() {
		if !a.Update() {
			return
		}
		a.Draw()
	}
}

func (a *App) attach(sys *physics.ParticleSystem, clock dynamo.Clock) {
	a.Sys = sys
	a.Clock = clock
	a.orbit = viz.CameraFor(sys.Bounds(), targetFPS)
	a.orbit.Settle()
	a.syncCamera()

	a.instances = make([]rl.Vector3, sys.Count())
	a.uploaded = 0
	a.Time = 0
	a.Telemetry = a.Telemetry[:0]
	a.energy.Reset()
	a.bounces.Reset()
	a.observe()
	a.upload()

	a.Running = true
	a.InMenu = false
	a.InConfig = false
}

// start builds a system from the edited config.
func (a *App) start() {
	sys, err := physics.NewFromParams(a.Cfg.Params(), a.Cfg.Options()...)
	if err != nil {
		a.Status = err.Error()
		return
	}
	clock, err := a.registry.GetClock(a.Cfg.Clock, a.Cfg)
	if err != nil {
		a.Status = err.Error()
		return
	}
	a.Opts.MaxDelta = a.Cfg.MaxDelta
	a.Opts.Title = a.Presets[a.Selected]
	a.Status = ""
	a.attach(sys, clock)
}

// Update handles input and advances the simulation by one frame. It returns
// false when the user asked to quit.
func (a *App) Update() bool {
	if rl.IsKeyPressed(rl.KeyQ) {
		return false
	}

	switch {
	case a.InMenu:
		a.updateMenu()
		return true
	case a.InConfig:
		a.updateConfig()
		return true
	}

	if rl.IsKeyPressed(rl.KeyEscape) && a.Presets != nil {
		a.InMenu = true
		a.Running = false
		return true
	}
	if rl.IsKeyPressed(rl.KeySpace) {
		a.Running = !a.Running
	}
	if rl.IsKeyPressed(rl.KeyR) {
		a.Sys.Reset()
		a.Time = 0
		a.Telemetry = a.Telemetry[:0]
		a.energy.Reset()
		a.bounces.Reset()
		a.observe()
	}
	if rl.IsKeyPressed(rl.KeyN) && !a.Running {
		a.step()
	}

	if a.Running {
		a.step()
	} else {
		// keep the wall clock from accumulating the pause
		a.Clock.Next()
	}

	a.updateCamera()
	if a.Sys.NeedsUpdate() {
		a.upload()
	}
	return true
}

func (a *App) step() {
	dt := a.Clock.Next()
	if dt < 0 {
		dt = 0
	}
	if a.Opts.MaxDelta > 0 && dt > a.Opts.MaxDelta {
		dt = a.Opts.MaxDelta
	}
	a.Sys.Step(dt)
	a.Time += float64(dt)
	a.observe()
}

func (a *App) observe() {
	a.energy.Observe(a.Sys, a.Time)
	a.bounces.Observe(a.Sys, a.Time)

	if len(a.Telemetry) == telemetryLen {
		copy(a.Telemetry, a.Telemetry[1:])
		a.Telemetry = a.Telemetry[:telemetryLen-1]
	}
	a.Telemetry = append(a.Telemetry, a.energy.Current())
}

func (a *App) updateCamera() {
	const rate = 0.03
	if rl.IsKeyDown(rl.KeyA) || rl.IsKeyDown(rl.KeyLeft) {
		a.orbit.Orbit(-rate, 0)
	}
	if rl.IsKeyDown(rl.KeyD) || rl.IsKeyDown(rl.KeyRight) {
		a.orbit.Orbit(rate, 0)
	}
	if rl.IsKeyDown(rl.KeyW) || rl.IsKeyDown(rl.KeyUp) {
		a.orbit.Orbit(0, rate)
	}
	if rl.IsKeyDown(rl.KeyS) || rl.IsKeyDown(rl.KeyDown) {
		a.orbit.Orbit(0, -rate)
	}

	if rl.IsMouseButtonDown(rl.MouseRightButton) {
		delta := rl.GetMouseDelta()
		a.orbit.Orbit(float64(delta.X)*0.005, float64(delta.Y)*0.005)
	}
	if wheel := rl.GetMouseWheelMove(); wheel != 0 {
		a.orbit.Zoom(1 - float64(wheel)*0.1)
	}

	a.orbit.Update()
	a.syncCamera()
}

func (a *App) syncCamera() {
	a.Camera = rl.NewCamera3D(
		toRaylib(a.orbit.Eye()),
		toRaylib(a.orbit.Target),
		rl.NewVector3(0, 1, 0),
		mgl32.RadToDeg(a.orbit.FOV),
		rl.CameraPerspective,
	)
}

func toRaylib(v mgl32.Vec3) rl.Vector3 { return rl.NewVector3(v[0], v[1], v[2]) }

func (a *App) updateMenu() {
	if rl.IsKeyPressed(rl.KeyDown) || rl.IsKeyPressed(rl.KeyJ) {
		a.Selected = (a.Selected + 1) % len(a.Presets)
	}
	if rl.IsKeyPressed(rl.KeyUp) || rl.IsKeyPressed(rl.KeyK) {
		a.Selected = (a.Selected - 1 + len(a.Presets)) % len(a.Presets)
	}
	if rl.IsKeyPressed(rl.KeyEnter) {
		a.Cfg = config.GetPreset(a.Presets[a.Selected])
		a.ParamSel = 0
		a.InMenu = false
		a.InConfig = true
	}
}

func (a *App) updateConfig() {
	if rl.IsKeyPressed(rl.KeyEscape) {
		a.InMenu = true
		a.InConfig = false
		return
	}
	if rl.IsKeyPressed(rl.KeyEnter) {
		if err := a.Cfg.Validate(); err != nil {
			a.Status = err.Error()
			return
		}
		a.start()
		return
	}

	if rl.IsKeyPressed(rl.KeyDown) || rl.IsKeyPressed(rl.KeyJ) {
		a.ParamSel = (a.ParamSel + 1) % len(tunable)
	}
	if rl.IsKeyPressed(rl.KeyUp) || rl.IsKeyPressed(rl.KeyK) {
		a.ParamSel = (a.ParamSel - 1 + len(tunable)) % len(tunable)
	}

	factor := 1.1
	if rl.IsKeyDown(rl.KeyLeftShift) {
		factor = 2
	}
	key := tunable[a.ParamSel]
	if rl.IsKeyPressed(rl.KeyRight) || rl.IsKeyPressed(rl.KeyL) {
		a.Cfg.Set(key, paramValue(a.Cfg, key)*factor)
	}
	if rl.IsKeyPressed(rl.KeyLeft) || rl.IsKeyPressed(rl.KeyH) {
		a.Cfg.Set(key, paramValue(a.Cfg, key)/factor)
	}
}

func paramValue(cfg *config.Config, key string) float64 {
	switch key {
	case "count":
		return float64(cfg.Count)
	case "square_size":
		return float64(cfg.SquareSize)
	case "gravity":
		return float64(cfg.Gravity)
	case "collision_damping":
		return float64(cfg.CollisionDamping)
	}
	return 0
}

func (a *App) Draw() {
	rl.BeginDrawing()
	rl.ClearBackground(ColBg)

	switch {
	case a.InMenu:
		a.drawMenu()
	case a.InConfig:
		a.drawConfig()
	default:
		a.drawSim()
		a.DrawHUD()
	}

	rl.EndDrawing()
}

func (a *App) DrawHUD() {
	a.drawText("partsim", 30, 30, 24, ColSelect)
	a.drawText(fmt.Sprintf(":: %s", a.Opts.Title), 150, 34, 16, ColText)

	status, col := "RUNNING", ColSelect
	if !a.Running {
		status, col = "PAUSED", ColTextDim
	}
	a.drawText(status, 1150, 30, 16, col)

	a.drawText(fmt.Sprintf("particles %d", a.Sys.Count()), 30, 70, 14, ColText)
	a.drawText(fmt.Sprintf("frame     %d", a.Sys.Version()), 30, 90, 14, ColText)
	a.drawText(fmt.Sprintf("time      %.2fs", a.Time), 30, 110, 14, ColText)
	a.drawText(fmt.Sprintf("bounces   %d", int(a.bounces.Value())), 30, 130, 14, ColText)
	a.drawText(fmt.Sprintf("loss      %.1f%%", a.energy.Value()*100), 30, 150, 14, ColText)

	a.DrawTelemetry()

	a.drawText("[SPACE] PAUSE  [N] STEP  [R] RESET  [WASD] ORBIT  [ESC] MENU  [Q] QUIT", 620, 680, 14, ColTextDim)
	a.drawText(fmt.Sprintf("%d FPS", rl.GetFPS()), 30, 680, 14, ColTextDim)
}

func (a *App) DrawTelemetry() {
	if len(a.Telemetry) < 2 {
		return
	}

	rectX, rectY := 30, 600
	width, height := 400, 60

	minVal, maxVal := a.Telemetry[0], a.Telemetry[0]
	for _, v := range a.Telemetry {
		minVal = min(minVal, v)
		maxVal = max(maxVal, v)
	}
	if maxVal == minVal {
		maxVal = minVal + 1
	}

	points := make([]rl.Vector2, len(a.Telemetry))
	for i, val := range a.Telemetry {
		px := float32(rectX) + float32(i)/float32(telemetryLen)*float32(width)
		norm := (val - minVal) / (maxVal - minVal)
		py := float32(rectY+height) - float32(norm)*float32(height)
		points[i] = rl.NewVector2(px, py)
	}

	rl.DrawLineStrip(points, ColAccent)
	a.drawText(fmt.Sprintf("E: %.3e", a.Telemetry[len(a.Telemetry)-1]), rectX+width+10, rectY+height-10, 14, ColText)
}

func (a *App) drawText(text string, x, y int, size int, color rl.Color) {
	rl.DrawTextEx(a.Font, text, rl.NewVector2(float32(x), float32(y)), float32(size), 1, color)
}

func (a *App) drawMenu() {
	a.drawText("partsim", 50, 50, 40, ColSelect)
	a.drawText("Select Preset", 50, 100, 16, ColTextDim)

	y := 160
	for i, name := range a.Presets {
		if i == a.Selected {
			a.drawText(fmt.Sprintf("> %s", name), 50, y, 20, ColSelect)
		} else {
			a.drawText(fmt.Sprintf("  %s", name), 50, y, 20, ColText)
		}
		y += 28
	}

	a.drawText("ARROWS: NAVIGATE  ENTER: SELECT  Q: QUIT", 850, 680, 14, ColTextDim)
}

func (a *App) drawConfig() {
	a.drawText("partsim", 50, 50, 40, ColTextDim)
	a.drawText("configure", 240, 65, 20, ColSelect)
	a.drawText(fmt.Sprintf("Preset: %s", a.Presets[a.Selected]), 50, 110, 16, ColAccent)

	y := 180
	for i, key := range tunable {
		line := fmt.Sprintf("  %-18s %.3f", key, paramValue(a.Cfg, key))
		col := ColText
		if i == a.ParamSel {
			line = ">" + line[1:]
			col = ColSelect
		}
		a.drawText(line, 50, y, 20, col)
		y += 28
	}

	if a.Status != "" {
		a.drawText(a.Status, 50, y+20, 16, rl.Red)
	}
	a.drawText("ARROWS: ADJUST  ENTER: RUN  ESC: BACK", 880, 680, 14, ColTextDim)
}
