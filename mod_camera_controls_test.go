package rtscam

import (
	"testing"
	"time"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// controlsTestApp fabricates the input snapshot instead of installing
// InputModule, so no window is needed. The cursor starts at the window
// center to keep edge panning quiet.
func controlsTestApp() (*App, *Input) {
	app := NewAppBuilder().UseModule(CameraControlsModule{}, RtsCameraModule{}).Build()

	input := &Input{
		MouseX:       500,
		MouseY:       300,
		WindowWidth:  1000,
		WindowHeight: 600,
	}
	app.addResources(input)
	app.addResources(&Time{Time: time.Now(), Dt: time.Second / 60})
	return app, input
}

func spawnControlledCamera(app *App, ctrl CameraControls) EntityId {
	cmd := app.Commands()
	eid := cmd.AddEntity(DefaultRtsCamera(), ctrl, IdentityTransform())
	app.FlushCommands()
	return eid
}

func TestControls_ScrollZoom(t *testing.T) {
	app, input := controlsTestApp()
	eid := spawnControlledCamera(app, DefaultCameraControls())

	input.ScrollDeltaY = 1

	app.Update()

	got := getCamera(app, eid)
	require.NotNil(t, got)
	assert.Equal(t, float32(0.5), got.TargetZoom)
}

func TestControls_DisabledIgnoresInput(t *testing.T) {
	app, input := controlsTestApp()

	ctrl := DefaultCameraControls()
	ctrl.Enabled = false
	eid := spawnControlledCamera(app, ctrl)

	input.ScrollDeltaY = 1
	input.Pressed[KeyUp] = true

	app.Update()

	got := getCamera(app, eid)
	require.NotNil(t, got)
	assert.Equal(t, float32(0), got.TargetZoom)
	assert.Equal(t, mgl32.Vec3{}, got.TargetFocus.Position)
}

func TestControls_KeyboardPan(t *testing.T) {
	app, input := controlsTestApp()
	eid := spawnControlledCamera(app, DefaultCameraControls())

	input.Pressed[KeyUp] = true

	app.Update()

	got := getCamera(app, eid)
	require.NotNil(t, got)
	// Forward is -Z; 15 units/s over one 60fps frame
	assert.InDelta(t, -0.25, got.TargetFocus.Position.Z(), 1e-4)
	assert.InDelta(t, 0.0, got.TargetFocus.Position.X(), 1e-4)
}

func TestControls_DiagonalPanIsNotFaster(t *testing.T) {
	app, input := controlsTestApp()
	eid := spawnControlledCamera(app, DefaultCameraControls())

	input.Pressed[KeyUp] = true
	input.Pressed[KeyRight] = true

	app.Update()

	got := getCamera(app, eid)
	require.NotNil(t, got)
	assert.InDelta(t, 0.25, got.TargetFocus.Position.Len(), 1e-4)
}

func TestControls_EdgePan(t *testing.T) {
	app, input := controlsTestApp()
	eid := spawnControlledCamera(app, DefaultCameraControls())

	// Default edge width 0.05 of a 600px window is a 30px band
	input.MouseX = 5
	input.MouseY = 300

	app.Update()

	got := getCamera(app, eid)
	require.NotNil(t, got)
	assert.InDelta(t, -0.25, got.TargetFocus.Position.X(), 1e-4)
	assert.InDelta(t, 0.0, got.TargetFocus.Position.Z(), 1e-4)
}

func TestControls_EdgePanSuppressedWhileRotating(t *testing.T) {
	app, input := controlsTestApp()
	eid := spawnControlledCamera(app, DefaultCameraControls())

	input.MouseX = 5
	input.Pressed[MouseButtonMiddle] = true
	input.MouseDeltaX = 0

	app.Update()

	got := getCamera(app, eid)
	require.NotNil(t, got)
	assert.Equal(t, mgl32.Vec3{}, got.TargetFocus.Position)
}

func TestControls_EdgePanDisabledByZeroWidth(t *testing.T) {
	app, input := controlsTestApp()

	ctrl := DefaultCameraControls()
	ctrl.EdgePanWidth = 0
	eid := spawnControlledCamera(app, ctrl)

	input.MouseX = 0
	input.MouseY = 0

	app.Update()

	got := getCamera(app, eid)
	require.NotNil(t, got)
	assert.Equal(t, mgl32.Vec3{}, got.TargetFocus.Position)
}

func TestControls_DragRotate(t *testing.T) {
	app, input := controlsTestApp()
	eid := spawnControlledCamera(app, DefaultCameraControls())

	input.Pressed[MouseButtonMiddle] = true
	input.MouseDeltaX = 500 // half the window width, a quarter turn

	app.Update()

	got := getCamera(app, eid)
	require.NotNil(t, got)
	fwd := got.TargetFocus.Forward()
	assert.InDelta(t, 1.0, fwd.X(), 1e-4)
	assert.InDelta(t, 0.0, fwd.Z(), 1e-4)
}

func TestControls_KeyRotate(t *testing.T) {
	app, input := controlsTestApp()
	eid := spawnControlledCamera(app, DefaultCameraControls())

	input.Pressed[KeyE] = true

	app.Update()

	got := getCamera(app, eid)
	require.NotNil(t, got)
	assert.Greater(t, got.TargetFocus.Forward().X(), float32(0))
}

func TestControls_GrabPan(t *testing.T) {
	app, input := controlsTestApp()

	ctrl := DefaultCameraControls()
	ctrl.ButtonGrab = MouseButtonRight

	cmd := app.Commands()
	eid := cmd.AddEntity(DefaultRtsCamera(), ctrl, IdentityTransform(), NewOrthographicProjection(50, 25))
	app.FlushCommands()

	input.Pressed[MouseButtonRight] = true
	input.JustPressed[MouseButtonRight] = true
	input.MouseDeltaX = 100

	app.Update()

	got := getCamera(app, eid)
	require.NotNil(t, got)
	// Orthographic grab: 100px of a 1000px window spans 5 world units
	assert.InDelta(t, -5.0, got.TargetFocus.Position.X(), 1e-3)
}

func TestControls_GrabSuppressesPan(t *testing.T) {
	app, input := controlsTestApp()

	ctrl := DefaultCameraControls()
	ctrl.ButtonGrab = MouseButtonRight

	cmd := app.Commands()
	eid := cmd.AddEntity(DefaultRtsCamera(), ctrl, IdentityTransform(), NewOrthographicProjection(50, 25))
	app.FlushCommands()

	// Holding the grab button while pressing a pan key must not keyboard-pan
	input.Pressed[MouseButtonRight] = true
	input.Pressed[KeyUp] = true
	input.MouseDeltaX = 0
	input.MouseDeltaY = 0

	app.Update()

	got := getCamera(app, eid)
	require.NotNil(t, got)
	assert.Equal(t, mgl32.Vec3{}, got.TargetFocus.Position)
}

func TestControls_GrabReleaseClearsAnchor(t *testing.T) {
	app, input := controlsTestApp()

	ctrl := DefaultCameraControls()
	ctrl.ButtonGrab = MouseButtonRight

	cmd := app.Commands()
	eid := cmd.AddEntity(DefaultRtsCamera(), ctrl, IdentityTransform(), NewOrthographicProjection(50, 25))
	app.FlushCommands()

	input.Pressed[MouseButtonRight] = true
	input.JustPressed[MouseButtonRight] = true
	app.Update()

	input.Pressed[MouseButtonRight] = false
	input.JustPressed[MouseButtonRight] = false
	input.JustReleased[MouseButtonRight] = true
	app.Update()

	var gotCtrl *CameraControls
	MakeQuery2[RtsCamera, CameraControls](app.Commands()).Map(func(id EntityId, _ *RtsCamera, cc *CameraControls) bool {
		if id == eid {
			gotCtrl = cc
			return false
		}
		return true
	})
	require.NotNil(t, gotCtrl)
	assert.False(t, gotCtrl.grabbing)
	assert.Nil(t, gotCtrl.grabAnchor)
}
