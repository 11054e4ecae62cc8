package rtscam

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// ButtonNone disables an optional mouse-button binding.
const ButtonNone = -1

// CameraControls is the built-in input binding layer: keyboard/edge pan,
// scroll zoom, mouse/key rotate and optional grab pan, all feeding the
// RtsCamera mutators. For custom input (an input manager, gamepads), leave
// this module out and drive the Delta* resources or the mutators directly.
type CameraControls struct {
	KeyUp    int
	KeyDown  int
	KeyLeft  int
	KeyRight int

	ButtonRotate   int
	KeyRotateLeft  int
	KeyRotateRight int
	// Key rotation speed; the yaw per second is KeyRotateSpeed/window-width
	// half turns.
	KeyRotateSpeed float32

	// Optional drag-to-pan binding; ButtonNone disables it.
	ButtonGrab int

	// Edge pan trigger distance as a fraction of window height; 0 disables
	// edge panning.
	EdgePanWidth float32

	PanSpeed        float32
	ZoomSensitivity float32
	Enabled         bool

	// Ground point grabbed when the drag started, if any.
	grabAnchor *mgl32.Vec3
	grabbing   bool
}

func DefaultCameraControls() CameraControls {
	return CameraControls{
		KeyUp:           KeyUp,
		KeyDown:         KeyDown,
		KeyLeft:         KeyLeft,
		KeyRight:        KeyRight,
		ButtonRotate:    MouseButtonMiddle,
		KeyRotateLeft:   KeyQ,
		KeyRotateRight:  KeyE,
		KeyRotateSpeed:  16.0,
		ButtonGrab:      ButtonNone,
		EdgePanWidth:    0.05,
		PanSpeed:        15.0,
		ZoomSensitivity: 1.0,
		Enabled:         true,
	}
}

// CameraControlsModule installs the built-in bindings. Install after
// InputModule and before RtsCameraModule.
type CameraControlsModule struct{}

func (m CameraControlsModule) Install(app *App, cmd *Commands) {
	controls := &cameraControlsState{app: app}

	app.UseSystem(System(controls.zoom).InStage(Update))
	app.UseSystem(System(controls.pan).InStage(Update))
	app.UseSystem(System(controls.grabPan).InStage(Update))
	app.UseSystem(System(controls.rotate).InStage(Update))
}

type cameraControlsState struct {
	app *App
}

func (c *cameraControlsState) zoom(cmd *Commands, input *Input) {
	if input.ScrollDeltaY == 0 {
		return
	}

	MakeQuery2[RtsCamera, CameraControls](cmd).Map(func(eid EntityId, cam *RtsCamera, ctrl *CameraControls) bool {
		if ctrl.Enabled {
			cam.ApplyZoomDelta(float32(input.ScrollDeltaY), ctrl.ZoomSensitivity)
		}
		return true
	})
}

func (c *cameraControlsState) pan(cmd *Commands, input *Input, time *Time) {
	MakeQuery2[RtsCamera, CameraControls](cmd).Map(func(eid EntityId, cam *RtsCamera, ctrl *CameraControls) bool {
		if !ctrl.Enabled {
			return true
		}
		if ctrl.ButtonGrab != ButtonNone && input.Pressed[ctrl.ButtonGrab] {
			return true
		}

		delta := mgl32.Vec3{}

		// Keyboard pan
		if input.Pressed[ctrl.KeyUp] {
			delta = delta.Add(cam.TargetFocus.Forward())
		}
		if input.Pressed[ctrl.KeyDown] {
			delta = delta.Add(cam.TargetFocus.Back())
		}
		if input.Pressed[ctrl.KeyLeft] {
			delta = delta.Add(cam.TargetFocus.Left())
		}
		if input.Pressed[ctrl.KeyRight] {
			delta = delta.Add(cam.TargetFocus.Right())
		}

		// Edge pan, unless the keyboard already panned or we're rotating
		if delta.Dot(delta) == 0 && !input.Pressed[ctrl.ButtonRotate] &&
			ctrl.EdgePanWidth > 0 && input.WindowWidth > 0 {
			winW := float64(input.WindowWidth)
			winH := float64(input.WindowHeight)
			panWidth := winH * float64(ctrl.EdgePanWidth)

			if input.MouseX < panWidth {
				delta = delta.Add(cam.TargetFocus.Left())
			}
			if input.MouseX > winW-panWidth {
				delta = delta.Add(cam.TargetFocus.Right())
			}
			if input.MouseY < panWidth {
				delta = delta.Add(cam.TargetFocus.Forward())
			}
			if input.MouseY > winH-panWidth {
				delta = delta.Add(cam.TargetFocus.Back())
			}
		}

		cam.ApplyPanDelta(delta, time.DeltaSeconds(), ctrl.PanSpeed)
		return true
	})
}

func (c *cameraControlsState) rotate(cmd *Commands, input *Input) {
	if input.WindowWidth <= 0 {
		return
	}

	MakeQuery2[RtsCamera, CameraControls](cmd).Map(func(eid EntityId, cam *RtsCamera, ctrl *CameraControls) bool {
		if !ctrl.Enabled {
			return true
		}

		if input.Pressed[ctrl.ButtonRotate] {
			// Dragging the full window width yaws a half turn.
			yaw := float32(input.MouseDeltaX) / float32(input.WindowWidth) * math.Pi
			cam.ApplyRotateDelta(yaw)
			return true
		}

		left := float32(0)
		right := float32(0)
		if input.Pressed[ctrl.KeyRotateLeft] {
			left = 1
		}
		if input.Pressed[ctrl.KeyRotateRight] {
			right = 1
		}
		if delta := right - left; delta != 0 {
			yaw := delta / float32(input.WindowWidth) * math.Pi * ctrl.KeyRotateSpeed
			cam.ApplyRotateDelta(yaw)
		}
		return true
	})
}

func (c *cameraControlsState) grabPan(cmd *Commands, input *Input) {
	viewport := mgl32.Vec2{float32(input.WindowWidth), float32(input.WindowHeight)}

	ground := make(set[EntityId])
	MakeQuery1[Ground](cmd).Map(func(eid EntityId, g *Ground) bool {
		ground[eid] = struct{}{}
		return true
	})

	MakeQuery4[RtsCamera, CameraControls, TransformComponent, ProjectionComponent](cmd).Map(func(eid EntityId, cam *RtsCamera, ctrl *CameraControls, tfm *TransformComponent, proj *ProjectionComponent) bool {
		if !ctrl.Enabled || ctrl.ButtonGrab == ButtonNone {
			return true
		}

		if input.JustPressed[ctrl.ButtonGrab] {
			ctrl.grabbing = true
			ctrl.grabAnchor = nil

			cursor := mgl32.Vec2{float32(input.MouseX), float32(input.MouseY)}
			if origin, dir, err := viewportToWorldRay(tfm, proj, cursor, viewport); err == nil {
				if hit, ok := castRay(cmd, origin, dir, func(target EntityId) bool {
					_, isGround := ground[target]
					return isGround
				}); ok {
					point := hit.Point
					ctrl.grabAnchor = &point
				}
			}
		}

		if input.JustReleased[ctrl.ButtonGrab] {
			ctrl.grabbing = false
			ctrl.grabAnchor = nil
		}

		if ctrl.grabbing && input.Pressed[ctrl.ButtonGrab] {
			screenDelta := mgl32.Vec2{float32(input.MouseDeltaX), float32(input.MouseDeltaY)}
			if screenDelta.Dot(screenDelta) == 0 {
				return true
			}
			if err := cam.ApplyGrabDelta(screenDelta, ctrl.grabAnchor, tfm, proj, viewport); err != nil {
				c.app.Logger().Errorf("grab pan skipped for entity %v: %v", eid, err)
			}
		}
		return true
	})
}
