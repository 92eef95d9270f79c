package planetwalk

import (
	"fmt"
	"reflect"
	"runtime"
)

type systemFn any

// Module bundles the resources and systems of one concern.
type Module interface {
	Install(app *App, cmd *Commands)
}

type App struct {
	stages    []Stage
	systems   map[string][]systemFn
	resources map[reflect.Type]any
	quitting  bool
	frame     uint64
}

func newApp() *App {
	app := &App{
		systems:   make(map[string][]systemFn),
		resources: make(map[reflect.Type]any),
	}
	for _, stage := range defaultStages {
		app.stages = append(app.stages, stage)
		app.initStage(stage)
	}
	return app
}

func (app *App) Commands() *Commands {
	return &Commands{
		app: app,
	}
}

// Run executes frames until a system calls Commands.Quit.
func (app *App) Run() {
	app.Logger().Infof("running with %d stage(s)", len(app.stages))
	for !app.quitting {
		app.Frame()
	}
	app.Logger().Infof("stopped after %d frame(s)", app.frame)
}

// Frame runs every stage once, except FixedUpdate stages which run once per
// physics tick due this frame (possibly zero times).
func (app *App) Frame() {
	for _, stage := range app.stages {
		runs := 1
		if stage.UpdateType == FixedUpdate {
			runs = app.fixedTicksDue()
		}
		for i := 0; i < runs; i++ {
			for _, system := range app.systems[stage.Name] {
				app.callSystem(system)
			}
		}
	}
	app.frame++
}

func (app *App) FrameCount() uint64 { return app.frame }

func (app *App) fixedTicksDue() int {
	if t, ok := app.resources[reflect.TypeOf(Time{})].(*Time); ok {
		return t.TicksDue
	}
	return 1
}

func (app *App) addResources(resources ...any) *App {
	for _, resource := range resources {
		resourceType := reflect.TypeOf(resource)
		if resourceType.Kind() != reflect.Pointer {
			panic(fmt.Sprintf("resource %s must be a pointer", resourceType))
		}
		if _, ok := app.resources[resourceType.Elem()]; ok {
			panic(fmt.Sprintf("%s is already in resources", resourceType))
		}

		app.resources[resourceType.Elem()] = resource
	}
	return app
}

// Resource looks up a resource by its pointer type.
func Resource[T any](app *App) (*T, bool) {
	r, ok := app.resources[reflect.TypeOf((*T)(nil)).Elem()]
	if !ok {
		return nil, false
	}
	typed, ok := r.(*T)
	return typed, ok
}

// requireResource is Resource for module installs: a missing resource means the
// modules were installed in the wrong order, which panics.
func requireResource[T any](app *App, module, provider string) *T {
	r, ok := Resource[T](app)
	if !ok {
		msg := fmt.Sprintf("%s needs resource %s; install %s before it", module, reflect.TypeOf((*T)(nil)), provider)
		app.Logger().Errorf("%s", msg)
		panic(msg)
	}
	return r
}

var typeOfCommands = reflect.TypeOf(Commands{})

// callSystem resolves every pointer argument of system from the resources
// and calls it. An unknown argument type is a wiring mistake and panics.
func (app *App) callSystem(system systemFn) {
	systemType := reflect.TypeOf(system)
	systemValue := reflect.ValueOf(system)

	args := make([]reflect.Value, systemType.NumIn())

	for i := 0; i < systemType.NumIn(); i++ {
		argType := systemType.In(i)
		if argType.Kind() != reflect.Pointer {
			app.panicUnresolved(systemValue, systemType, argType)
		}
		underlyingType := argType.Elem()

		if underlyingType == typeOfCommands {
			args[i] = reflect.ValueOf(&Commands{app: app})
		} else if resource, ok := app.resources[underlyingType]; ok {
			args[i] = reflect.ValueOf(resource)
		} else {
			app.panicUnresolved(systemValue, systemType, argType)
		}
	}
	systemValue.Call(args)
}

func (app *App) panicUnresolved(systemValue reflect.Value, systemType, argType reflect.Type) {
	msg := fmt.Sprintf("Unable to resolve System dependency.\nSystem: %s\nSystem type: %s\nDependency: %s",
		runtime.FuncForPC(systemValue.Pointer()).Name(),
		fmt.Sprint(systemType),
		fmt.Sprint(argType),
	)
	app.Logger().Errorf("%s", msg)
	panic(msg)
}
