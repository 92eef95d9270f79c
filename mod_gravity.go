package planetwalk

// GravityRescan asks the gravity module to rebuild the source list from the
// provider before the next tick.
type GravityRescan struct {
	Provider  SourceProvider
	requested bool
}

func (r *GravityRescan) Request() { r.requested = true }

type GravityModule struct {
	Provider SourceProvider
}

func (m GravityModule) Install(app *App, cmd *Commands) {
	gravity := NewGravityAggregator()
	n := gravity.Rescan(m.Provider)
	app.Logger().Infof("found %d gravity source(s)", n)

	cmd.AddResources(gravity, &GravityRescan{Provider: m.Provider})
	app.UseSystem(
		System(gravityRescanSystem).
			InStage(PreUpdate),
	)

	if scene, ok := m.Provider.(*Scene); ok {
		cmd.AddResources(scene)
		app.UseSystem(
			System(sceneSpinSystem).
				InStage(Physics),
		)
	}
}

func gravityRescanSystem(cmd *Commands, gravity *GravityAggregator, rescan *GravityRescan) {
	if !rescan.requested {
		return
	}
	rescan.requested = false
	n := gravity.Rescan(rescan.Provider)
	cmd.Logger().Infof("rescanned gravity sources: %d found", n)
}

func sceneSpinSystem(scene *Scene, t *Time) {
	scene.Update(t.FixedSeconds())
}
