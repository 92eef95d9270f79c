package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/gekko3d/planetwalk"
	"github.com/gekko3d/planetwalk/platform"
	"github.com/go-gl/mathgl/mgl32"
)

func main() {
	configPath := flag.String("config", "", "YAML config file; built-in defaults when empty")
	flag.Parse()

	cfg, err := loadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "planetwalk: %v\n", err)
		os.Exit(1)
	}

	window, err := platform.NewWindow(1280, 720, "planetwalk")
	if err != nil {
		fmt.Fprintf(os.Stderr, "planetwalk: %v\n", err)
		os.Exit(1)
	}
	defer window.Close()

	scene := &planetwalk.Scene{Planets: cfg.Planets, Platforms: cfg.Platforms}
	start := startPosition(scene, cfg.Physics.BodyRadius)

	app := planetwalk.NewAppBuilder().
		UseModule(
			planetwalk.LoggingModule{Prefix: cfg.Logging.Prefix, Debug: cfg.Logging.Debug},
			planetwalk.TimeModule{TickRate: cfg.Physics.TickRate, MaxTicks: cfg.Physics.MaxTicks},
			planetwalk.InputModule{Source: window},
			planetwalk.GravityModule{Provider: scene},
			planetwalk.ControllerModule{
				Config:   cfg.Controller,
				Position: start,
				Mover:    planetwalk.NewSurfaceCollider(cfg.Physics.BodyRadius, planetwalk.SurfacesFromScene(scene)...),
			},
			windowModule{window: window},
		).
		Build()

	app.Run()
}

func loadConfig(path string) (*planetwalk.Config, error) {
	if path == "" {
		cfg := planetwalk.DefaultConfig()
		cfg.Planets = defaultPlanets()
		cfg.Platforms = defaultPlatforms()
		return &cfg, nil
	}
	cfg, err := planetwalk.LoadConfig(path)
	if err != nil {
		return nil, err
	}
	if len(cfg.Planets) == 0 {
		cfg.Planets = defaultPlanets()
	}
	return cfg, nil
}

// defaultPlanets is a large home world with a small moon close enough that
// their fields overlap between them.
func defaultPlanets() []*planetwalk.Planet {
	home := planetwalk.NewPlanet("home", mgl32.Vec3{0, 0, 0}, 50, 9.8)
	home.RotationSpeed = 0.05
	moon := planetwalk.NewPlanet("moon", mgl32.Vec3{0, 130, 0}, 15, 3)
	moon.RotationSpeed = 0.5
	return []*planetwalk.Planet{home, moon}
}

// defaultPlatforms is a ledge floating between the two planets.
func defaultPlatforms() []*planetwalk.Platform {
	return []*planetwalk.Platform{{
		Name: "ledge",
		Min:  mgl32.Vec3{-4, 88, -4},
		Max:  mgl32.Vec3{4, 89, 4},
	}}
}

// startPosition puts the body just above the first planet.
func startPosition(scene *planetwalk.Scene, bodyRadius float32) mgl32.Vec3 {
	if len(scene.Planets) == 0 {
		return mgl32.Vec3{}
	}
	p := scene.Planets[0]
	return p.Center.Add(planetwalk.WorldUp.Mul(p.Radius + bodyRadius + 2))
}

// windowModule closes the app with the window, shows the controller state in
// the title bar and binds R to a gravity rescan.
type windowModule struct {
	window *platform.Window
}

type windowState struct {
	window *platform.Window
	frames uint64
}

func (m windowModule) Install(app *planetwalk.App, cmd *planetwalk.Commands) {
	cmd.AddResources(&windowState{window: m.window})
	app.UseSystem(
		planetwalk.System(rescanKeySystem).
			InStage(planetwalk.Update),
	)
	app.UseSystem(
		planetwalk.System(windowSystem).
			InStage(planetwalk.Finale),
	)
}

// rescanKeySystem rebuilds the gravity source list when R is pressed.
func rescanKeySystem(input *planetwalk.Input, rescan *planetwalk.GravityRescan) {
	if input.JustPressed[planetwalk.KeyR] {
		rescan.Request()
	}
}

func windowSystem(cmd *planetwalk.Commands, ws *windowState, view *planetwalk.ControllerView) {
	if ws.window.ShouldClose() {
		cmd.Logger().Infof("window closed, stopping")
		cmd.Quit()
		return
	}

	ws.frames++
	if ws.frames%15 != 0 {
		return
	}
	p := view.Position
	ws.window.SetTitle(fmt.Sprintf("planetwalk | %s | pos (%.1f, %.1f, %.1f) | speed %.1f | grounded %v",
		view.Mode, p.X(), p.Y(), p.Z(), view.Velocity.Len(), view.Grounded))
}
