package planetwalk

import (
	"time"
)

// Time carries the frame delta and the fixed physics step. Physics stages read
// FixedDt, never Dt.
type Time struct {
	Time     time.Time
	Dt       time.Duration
	FixedDt  time.Duration
	MaxTicks int
	// TicksDue is how many fixed ticks the current frame runs.
	TicksDue int
	Ticks    uint64

	accumulator time.Duration
	now         func() time.Time
}

func NewTime(tickRate float32, maxTicks int) *Time {
	if tickRate <= 0 {
		tickRate = 60
	}
	return &Time{
		FixedDt:  time.Duration(float64(time.Second) / float64(tickRate)),
		MaxTicks: maxTicks,
		now:      time.Now,
	}
}

// Advance folds the time since the last frame into the accumulator. When the
// backlog exceeds MaxTicks the remainder is dropped instead of spiralling.
func (t *Time) Advance(now time.Time) {
	if t.Time.IsZero() {
		t.Time = now
	}
	t.Dt = now.Sub(t.Time)
	if t.Dt < 0 {
		t.Dt = 0
	}
	t.Time = now

	t.accumulator += t.Dt
	due := int(t.accumulator / t.FixedDt)
	if t.MaxTicks > 0 && due > t.MaxTicks {
		due = t.MaxTicks
		t.accumulator = 0
	} else {
		t.accumulator -= time.Duration(due) * t.FixedDt
	}
	t.TicksDue = due
	t.Ticks += uint64(due)
}

func (t *Time) FixedSeconds() float32 {
	return float32(t.FixedDt.Seconds())
}

// Alpha is how far the frame sits between the last tick and the next one.
func (t *Time) Alpha() float32 {
	return float32(t.accumulator) / float32(t.FixedDt)
}

type TimeModule struct {
	TickRate float32
	MaxTicks int
	// Now overrides the clock, mostly for tests.
	Now func() time.Time
}

func (mod TimeModule) Install(app *App, cmd *Commands) {
	t := NewTime(mod.TickRate, mod.MaxTicks)
	if mod.Now != nil {
		t.now = mod.Now
	}
	cmd.AddResources(t)
	app.UseSystem(
		System(timeSystem).
			InStage(Prelude),
	)
}

func timeSystem(timeResource *Time) {
	timeResource.Advance(timeResource.now())
}
