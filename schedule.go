package planetwalk

import (
	"fmt"
	"slices"
)

type UpdateType int

const (
	// DynamicUpdate stages run once per frame.
	DynamicUpdate UpdateType = iota
	// FixedUpdate stages run once per fixed physics tick.
	FixedUpdate
)

type Stage struct {
	Name       string
	UpdateType UpdateType
}

var (
	Prelude    = Stage{Name: "Prelude", UpdateType: DynamicUpdate}
	PreUpdate  = Stage{Name: "PreUpdate", UpdateType: DynamicUpdate}
	Update     = Stage{Name: "Update", UpdateType: DynamicUpdate}
	Physics    = Stage{Name: "Physics", UpdateType: FixedUpdate}
	PostUpdate = Stage{Name: "PostUpdate", UpdateType: DynamicUpdate}
	Finale     = Stage{Name: "Finale", UpdateType: DynamicUpdate}
)

var defaultStages = []Stage{Prelude, PreUpdate, Update, Physics, PostUpdate, Finale}

type systemScheduleBuilder struct {
	inStage Stage
	system  systemFn
}

func System(system systemFn) systemScheduleBuilder {
	return systemScheduleBuilder{
		system:  system,
		inStage: Update,
	}
}

func (sched systemScheduleBuilder) InStage(s Stage) systemScheduleBuilder {
	return systemScheduleBuilder{
		system:  sched.system,
		inStage: s,
	}
}

type stagePosition int

const (
	stageBefore stagePosition = iota
	stageAfter
)

type stagePositionBuilder struct {
	position stagePosition
	target   Stage
}

func BeforeStage(s Stage) stagePositionBuilder {
	return stagePositionBuilder{
		position: stageBefore,
		target:   s,
	}
}

func AfterStage(s Stage) stagePositionBuilder {
	return stagePositionBuilder{
		position: stageAfter,
		target:   s,
	}
}

func (app *App) UseStage(stage Stage, where stagePositionBuilder) *App {
	stageIdx := slices.IndexFunc(app.stages, func(s Stage) bool {
		return s.Name == where.target.Name
	})
	if -1 == stageIdx {
		panic(fmt.Sprintf("Stage %v not found", where.target.Name))
	}
	if _, ok := app.systems[stage.Name]; ok {
		panic(fmt.Sprintf("Stage %v already exists", stage.Name))
	}

	insertAt := stageIdx
	if stageAfter == where.position {
		insertAt = stageIdx + 1
	}

	app.stages = slices.Insert(app.stages, insertAt, stage)
	app.initStage(stage)

	return app
}

// UseSystem appends the system to its stage; systems in a stage run in the
// order they were added.
func (app *App) UseSystem(system systemScheduleBuilder) *App {
	if _, ok := app.systems[system.inStage.Name]; !ok {
		panic(fmt.Sprintf("Stage %v doesn't exist", system.inStage.Name))
	}
	app.systems[system.inStage.Name] = append(app.systems[system.inStage.Name], system.system)
	return app
}

func (app *App) initStage(stage Stage) {
	app.systems[stage.Name] = make([]systemFn, 0)
}
