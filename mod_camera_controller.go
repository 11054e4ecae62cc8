package rtscam

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
)

// This file is the input-agnostic control surface: four core mutators on
// RtsCamera plus per-frame delta resources that feed them. An input manager
// (or the built-in CameraControlsModule) only ever produces summed deltas;
// all of the delta-to-movement math lives here.

// ApplyZoomDelta nudges the target zoom, clamped to [0,1]. The 0.5 factor
// halves raw scroll input; it is a tuning constant, not configuration.
func (cam *RtsCamera) ApplyZoomDelta(delta, sensitivity float32) {
	cam.TargetZoom = clamp(cam.TargetZoom+delta*0.5*sensitivity, 0.0, 1.0)
}

// ApplyPanDelta moves the target focus along the summed world-space pan
// direction. The input is normalized to unit length, so two held keys do
// not pan faster than one, and scaled down to half speed at full zoom so
// panning feels consistent in screen space across zoom levels.
func (cam *RtsCamera) ApplyPanDelta(worldDelta mgl32.Vec3, dt, panSpeed float32) {
	step := normalizeOrZero(worldDelta).
		Mul(dt * panSpeed * remap(cam.TargetZoom, 0, 1, 1.0, 0.5))
	cam.TargetFocus.Position = cam.TargetFocus.Position.Add(step)
}

// ApplyRotateDelta yaws the target focus around its local up axis. Positive
// input (rightward screen drag) rotates the view clockwise seen from above.
// This path never introduces pitch or roll.
func (cam *RtsCamera) ApplyRotateDelta(yawRadians float32) {
	cam.TargetFocus.RotateLocalY(-yawRadians)
}

// ApplyGrabDelta converts a screen-space drag into a world-space pan so a
// grabbed ground point stays under the cursor. Under a perspective
// projection the drag is scaled by field of view and by the distance to the
// grab anchor (or to the current focus when the drag didn't start over
// ground). Under an orthographic projection screen distance maps to world
// distance directly, so only the view-volume scale applies; there is no
// distance multiplier. Any other projection kind is an unsupported
// configuration and returns an error rather than guessing a scaling rule.
func (cam *RtsCamera) ApplyGrabDelta(screenDelta mgl32.Vec2, grabAnchor *mgl32.Vec3, camTfm *TransformComponent, proj *ProjectionComponent, viewport mgl32.Vec2) error {
	if viewport.X() <= 0 || viewport.Y() <= 0 {
		return fmt.Errorf("grab pan: viewport size must be positive, got %v", viewport)
	}

	var scaled mgl32.Vec2
	multiplier := float32(1.0)

	switch proj.Kind {
	case ProjectionPerspective:
		scaled = mgl32.Vec2{
			screenDelta.X() * proj.Fov * proj.AspectRatio / viewport.X(),
			screenDelta.Y() * proj.Fov / viewport.Y(),
		}
		if grabAnchor != nil {
			multiplier = grabAnchor.Sub(camTfm.Position).Len()
		} else {
			multiplier = cam.Focus.Position.Sub(camTfm.Position).Len()
		}
	case ProjectionOrthographic:
		scaled = mgl32.Vec2{
			screenDelta.X() * proj.OrthoWidth / viewport.X(),
			screenDelta.Y() * proj.OrthoHeight / viewport.Y(),
		}
	default:
		return fmt.Errorf("grab pan: unsupported projection kind %v", proj.Kind)
	}

	move := cam.TargetFocus.Forward().Mul(scaled.Y()).
		Add(cam.TargetFocus.Right().Mul(-scaled.X()))
	cam.TargetFocus.Position = cam.TargetFocus.Position.Add(move.Mul(multiplier))
	return nil
}

// Per-frame delta resources. A control layer writes these before the Update
// stage; the controller systems consume them and zero them. Target selects
// one camera entity explicitly; nil applies to every camera.

type DeltaZoom struct {
	Target *EntityId
	Delta  float32
	// Sensitivity scales the zoom step; 0 means the default of 1.
	Sensitivity float32
}

type DeltaPan struct {
	Target *EntityId
	// Summed world-space pan contributions for this frame. Direction only;
	// magnitude is discarded by normalization.
	Delta mgl32.Vec3
	// Speed in world units per second; 0 means the default of 15.
	Speed float32
}

type DeltaRotate struct {
	Target *EntityId
	// Yaw for this frame, radians.
	Delta float32
}

type DeltaGrab struct {
	Target *EntityId
	// Screen-space drag for this frame, pixels.
	Delta mgl32.Vec2
	// Ground point the drag started on. Nil falls back to focus distance,
	// which feels more sensitive when grabbed close to the camera.
	GrabPos *mgl32.Vec3
	// Logical viewport size in pixels.
	Viewport mgl32.Vec2
}

const (
	defaultPanSpeed        = 15.0
	defaultZoomSensitivity = 1.0
)

// CameraControllerModule installs the delta-consuming systems. Install it
// before RtsCameraModule so deltas are applied to targets in the same frame
// the pipeline smooths them.
type CameraControllerModule struct{}

func (m CameraControllerModule) Install(app *App, cmd *Commands) {
	ctrl := &cameraController{app: app}

	cmd.AddResources(&DeltaZoom{}, &DeltaPan{}, &DeltaRotate{}, &DeltaGrab{})
	app.UseSystem(System(ctrl.consumeZoom).InStage(Update))
	app.UseSystem(System(ctrl.consumePan).InStage(Update))
	app.UseSystem(System(ctrl.consumeRotate).InStage(Update))
	app.UseSystem(System(ctrl.consumeGrab).InStage(Update))
}

type cameraController struct {
	app *App
}

func (c *cameraController) targeted(target *EntityId, eid EntityId) bool {
	return target == nil || *target == eid
}

func (c *cameraController) consumeZoom(cmd *Commands, zoom *DeltaZoom) {
	if zoom.Delta == 0 {
		return
	}
	sensitivity := zoom.Sensitivity
	if sensitivity == 0 {
		sensitivity = defaultZoomSensitivity
	}

	MakeQuery1[RtsCamera](cmd).Map(func(eid EntityId, cam *RtsCamera) bool {
		if c.targeted(zoom.Target, eid) {
			cam.ApplyZoomDelta(zoom.Delta, sensitivity)
		}
		return true
	})
	zoom.Delta = 0
}

func (c *cameraController) consumePan(cmd *Commands, pan *DeltaPan, time *Time) {
	if pan.Delta.Dot(pan.Delta) == 0 {
		return
	}
	speed := pan.Speed
	if speed == 0 {
		speed = defaultPanSpeed
	}

	MakeQuery1[RtsCamera](cmd).Map(func(eid EntityId, cam *RtsCamera) bool {
		if c.targeted(pan.Target, eid) {
			cam.ApplyPanDelta(pan.Delta, time.DeltaSeconds(), speed)
		}
		return true
	})
	pan.Delta = mgl32.Vec3{}
}

func (c *cameraController) consumeRotate(cmd *Commands, rotate *DeltaRotate) {
	if rotate.Delta == 0 {
		return
	}

	MakeQuery1[RtsCamera](cmd).Map(func(eid EntityId, cam *RtsCamera) bool {
		if c.targeted(rotate.Target, eid) {
			cam.ApplyRotateDelta(rotate.Delta)
		}
		return true
	})
	rotate.Delta = 0
}

func (c *cameraController) consumeGrab(cmd *Commands, grab *DeltaGrab) {
	if grab.Delta.Dot(grab.Delta) == 0 {
		return
	}

	MakeQuery3[RtsCamera, TransformComponent, ProjectionComponent](cmd).Map(func(eid EntityId, cam *RtsCamera, tfm *TransformComponent, proj *ProjectionComponent) bool {
		if !c.targeted(grab.Target, eid) {
			return true
		}
		// A bad projection on one camera must not halt the others.
		if err := cam.ApplyGrabDelta(grab.Delta, grab.GrabPos, tfm, proj, grab.Viewport); err != nil {
			c.app.Logger().Errorf("grab pan skipped for entity %v: %v", eid, err)
		}
		return true
	})
	grab.Delta = mgl32.Vec2{}
}
