package rtscam

import (
	"time"
)

type Time struct {
	Time time.Time
	Dt   time.Duration
}

// DeltaSeconds returns the last frame's duration in seconds, as the camera
// math consumes it.
func (t *Time) DeltaSeconds() float32 {
	return float32(t.Dt.Seconds())
}

type TimeModule struct{}

func (mod TimeModule) Install(app *App, cmd *Commands) {
	cmd.AddResources(&Time{
		Time: time.Now(),
		Dt:   0,
	})
	app.UseSystem(
		System(timeSystem).
			InStage(Prelude),
	)
}

func timeSystem(timeResource *Time) {
	now := time.Now()

	timeResource.Dt = now.Sub(timeResource.Time)
	timeResource.Time = now
}
