package rtscam

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

const tau = float32(2 * math.Pi)

// MaxCameraAngle is the tilt at full zoom when dynamic angle is enabled:
// TAU/5 (72 degrees from straight down).
const MaxCameraAngle = tau / 5

// Ground marks an entity whose collider the camera height-follows via ray
// cast. Mark terrain, not buildings, trees or units.
type Ground struct{}

// CameraBounds is an axis-aligned rectangle in the focus XZ plane that the
// target focus is clamped into. Height is never touched by the clamp.
type CameraBounds struct {
	Min mgl32.Vec2
	Max mgl32.Vec2
}

// DefaultCameraBounds is a generous symmetric box around the origin.
func DefaultCameraBounds() CameraBounds {
	return CameraBounds{
		Min: mgl32.Vec2{-1000, -1000},
		Max: mgl32.Vec2{1000, 1000},
	}
}

// ClosestPoint projects p onto the rectangle: per-axis clamp, which is the
// Euclidean nearest point of an AABB. Idempotent; interior and boundary
// points pass through unchanged.
func (b CameraBounds) ClosestPoint(p mgl32.Vec2) mgl32.Vec2 {
	return mgl32.Vec2{
		clamp(p.X(), b.Min.X(), b.Max.X()),
		clamp(p.Y(), b.Min.Y(), b.Max.Y()),
	}
}

func (b CameraBounds) Contains(p mgl32.Vec2) bool {
	return p.X() >= b.Min.X() && p.X() <= b.Max.X() &&
		p.Y() >= b.Min.Y() && p.Y() <= b.Max.Y()
}

// CameraSettings is the validated configuration surface of RtsCamera. Zero
// values fall back to defaults in NewRtsCamera.
type CameraSettings struct {
	// Camera height at full zoom-in; must be positive and below HeightMax.
	HeightMin float32
	// Camera height at full zoom-out.
	HeightMax float32
	// Tilt angle in radians at zero zoom. 0 looks straight down, TAU/4
	// looks straight forward.
	MinAngle float32
	// When set, tilt follows zoom between MinAngle and MaxCameraAngle.
	DynamicAngle bool
	// Movement smoothing in [0,1). 0 snaps every frame; values near 1
	// converge very slowly.
	Smoothness float32
	// Horizontal region the focus is confined to.
	Bounds CameraBounds
}

func DefaultCameraSettings() CameraSettings {
	return CameraSettings{
		HeightMin:    2.0,
		HeightMax:    30.0,
		MinAngle:     mgl32.DegToRad(20.0),
		DynamicAngle: false,
		Smoothness:   0.3,
		Bounds:       DefaultCameraBounds(),
	}
}

// Validate fails fast on configurations that would otherwise propagate NaNs
// or negative offsets through the per-frame math.
func (s CameraSettings) Validate() error {
	if s.HeightMin <= 0 {
		return fmt.Errorf("camera settings: height_min must be positive, got %v", s.HeightMin)
	}
	if s.HeightMin >= s.HeightMax {
		return fmt.Errorf("camera settings: height_min (%v) must be below height_max (%v)", s.HeightMin, s.HeightMax)
	}
	if s.Smoothness < 0 || s.Smoothness >= 1 {
		return fmt.Errorf("camera settings: smoothness must be in [0,1), got %v", s.Smoothness)
	}
	if s.MinAngle < 0 || s.MinAngle >= tau/4 {
		return fmt.Errorf("camera settings: min_angle must be in [0, TAU/4), got %v", s.MinAngle)
	}
	if s.Bounds.Min.X() >= s.Bounds.Max.X() || s.Bounds.Min.Y() >= s.Bounds.Max.Y() {
		return fmt.Errorf("camera settings: bounds must have positive area, got %v..%v", s.Bounds.Min, s.Bounds.Max)
	}
	return nil
}

// RtsCamera is the per-camera state driven by the update pipeline. External
// control layers steer it exclusively through TargetFocus, TargetZoom and
// Snap (or the Apply*Delta mutators); everything else is derived per frame.
type RtsCamera struct {
	Settings CameraSettings

	// Focus is the smoothed look-at anchor (position + yaw only);
	// TargetFocus is where input and ground-following want it to be.
	Focus       TransformComponent
	TargetFocus TransformComponent

	// Normalized zoom: 0 = zoomed out (HeightMax), 1 = zoomed in (HeightMin).
	Zoom       float32
	TargetZoom float32

	// Current/target tilt from straight down, radians.
	Angle       float32
	TargetAngle float32

	// Snap copies TargetFocus XZ into Focus on the next update, bypassing
	// smoothing for the horizontal axes only, then clears itself.
	Snap bool

	initialized bool
}

// NewRtsCamera builds a camera component from validated settings.
func NewRtsCamera(settings CameraSettings) (RtsCamera, error) {
	if err := settings.Validate(); err != nil {
		return RtsCamera{}, err
	}
	return RtsCamera{
		Settings:    settings,
		Focus:       IdentityTransform(),
		TargetFocus: IdentityTransform(),
		Zoom:        0,
		TargetZoom:  0,
		Angle:       settings.MinAngle,
		TargetAngle: settings.MinAngle,
		Snap:        false,
	}, nil
}

// DefaultRtsCamera returns a camera with the default settings, which always
// validate.
func DefaultRtsCamera() RtsCamera {
	cam, err := NewRtsCamera(DefaultCameraSettings())
	if err != nil {
		panic(err)
	}
	return cam
}

// CameraHeight is the camera's height above the focus for the given zoom.
func (cam *RtsCamera) CameraHeight(zoom float32) float32 {
	return lerp(cam.Settings.HeightMax, cam.Settings.HeightMin, zoom)
}

// JumpTo moves the target focus horizontally and requests a snap, the
// "lock onto unit" entry point.
func (cam *RtsCamera) JumpTo(x, z float32) {
	cam.TargetFocus.Position[0] = x
	cam.TargetFocus.Position[2] = z
	cam.Snap = true
}

// RtsCameraModule installs the camera update pipeline. The stages of the
// pipeline are registered in dependency order and must stay that way:
// ground-follow and bounds run on targets, smoothing consumes targets,
// compositing consumes smoothed state. Install this module after any module
// that feeds camera input.
type RtsCameraModule struct{}

func (m RtsCameraModule) Install(app *App, cmd *Commands) {
	app.UseSystem(System(initializeCameras).InStage(PreUpdate))
	app.UseSystem(System(followGround).InStage(Update))
	app.UseSystem(System(applyCameraBounds).InStage(Update))
	app.UseSystem(System(updateDynamicAngle).InStage(Update))
	app.UseSystem(System(snapToTarget).InStage(Update))
	app.UseSystem(System(moveTowardsTarget).InStage(Update))
	app.UseSystem(System(updateCameraTransform).InStage(Update))
}

// initializeCameras copies targets into current state exactly once per
// camera, so a freshly spawned camera starts at its configured pose instead
// of animating from identity.
func initializeCameras(cmd *Commands) {
	MakeQuery1[RtsCamera](cmd).Map(func(eid EntityId, cam *RtsCamera) bool {
		if cam.initialized {
			return true
		}

		cam.Zoom = cam.TargetZoom
		cam.Focus = cam.TargetFocus
		cam.Angle = cam.Settings.MinAngle
		cam.TargetAngle = cam.Settings.MinAngle
		cam.initialized = true
		return true
	})
}

// followGround casts a ray straight down from above the target focus and
// pins the target height to the terrain underneath. The ray starts
// HeightMax above the focus so it begins above any plausible terrain. A
// miss leaves the height untouched: the camera keeps tracking its last
// known ground height.
//
// Only the raw hit height is applied here; the zoom-dependent height offset
// is composed exclusively in updateCameraTransform, so it is never counted
// twice.
func followGround(cmd *Commands) {
	ground := make(set[EntityId])
	MakeQuery1[Ground](cmd).Map(func(eid EntityId, g *Ground) bool {
		ground[eid] = struct{}{}
		return true
	})
	if len(ground) == 0 {
		return
	}

	MakeQuery1[RtsCamera](cmd).Map(func(eid EntityId, cam *RtsCamera) bool {
		origin := mgl32.Vec3{
			cam.TargetFocus.Position.X(),
			cam.TargetFocus.Position.Y() + cam.Settings.HeightMax,
			cam.TargetFocus.Position.Z(),
		}

		hit, ok := castRay(cmd, origin, mgl32.Vec3{0, -1, 0}, func(target EntityId) bool {
			_, isGround := ground[target]
			return isGround
		})
		if ok {
			cam.TargetFocus.Position[1] = hit.Point.Y()
		}
		return true
	})
}

// applyCameraBounds confines the target focus to the configured rectangle.
// Horizontal axes only; height stays under ground-following control.
func applyCameraBounds(cmd *Commands) {
	MakeQuery1[RtsCamera](cmd).Map(func(eid EntityId, cam *RtsCamera) bool {
		clamped := cam.Settings.Bounds.ClosestPoint(mgl32.Vec2{
			cam.TargetFocus.Position.X(),
			cam.TargetFocus.Position.Z(),
		})
		cam.TargetFocus.Position[0] = clamped.X()
		cam.TargetFocus.Position[2] = clamped.Y()
		return true
	})
}

// updateDynamicAngle retargets the tilt as a function of zoom: top-down
// when far out, tilting up to MaxCameraAngle as the camera closes in. The
// circular ease-in keeps the transition shallow at low zoom and steep near
// full zoom, which reads more naturally than a linear ramp.
func updateDynamicAngle(cmd *Commands) {
	MakeQuery1[RtsCamera](cmd).Map(func(eid EntityId, cam *RtsCamera) bool {
		if cam.Settings.DynamicAngle {
			cam.TargetAngle = lerp(cam.Settings.MinAngle, MaxCameraAngle, easeInCirc(cam.TargetZoom))
		} else {
			cam.TargetAngle = cam.Settings.MinAngle
		}
		return true
	})
}

// snapToTarget consumes the one-shot Snap flag: horizontal position jumps
// immediately, while height, rotation and zoom stay smoothed.
func snapToTarget(cmd *Commands) {
	MakeQuery1[RtsCamera](cmd).Map(func(eid EntityId, cam *RtsCamera) bool {
		if cam.Snap {
			cam.Focus.Position[0] = cam.TargetFocus.Position.X()
			cam.Focus.Position[2] = cam.TargetFocus.Position.Z()
			cam.Snap = false
		}
		return true
	})
}

// moveTowardsTarget advances the smoothed state by the frame-rate
// independent decay factor. Plain lerp for position, zoom and angle,
// spherical interpolation for the yaw rotation.
func moveTowardsTarget(cmd *Commands, time *Time) {
	dt := time.DeltaSeconds()

	MakeQuery1[RtsCamera](cmd).Map(func(eid EntityId, cam *RtsCamera) bool {
		t := smoothingFactor(cam.Settings.Smoothness, dt)

		cam.Focus.Position = lerpVec3(cam.Focus.Position, cam.TargetFocus.Position, t)
		cam.Focus.Rotation = mgl32.QuatSlerp(cam.Focus.Rotation, cam.TargetFocus.Rotation, t)
		cam.Zoom = lerp(cam.Zoom, cam.TargetZoom, t)
		cam.Angle = lerp(cam.Angle, cam.TargetAngle, t)
		return true
	})
}

// CameraPose derives the final camera transform from the smoothed state:
// position orbits up and back from the focus by the zoom height and the
// tilt offset, rotation tilts from straight-down by the current angle. Pure
// in (Focus, Zoom, Angle, Settings); calling it twice yields identical
// output.
func (cam *RtsCamera) CameraPose() (mgl32.Vec3, mgl32.Quat) {
	camHeight := cam.CameraHeight(cam.Zoom)

	camOffset := camHeight * float32(math.Tan(float64(cam.Angle)))
	if cam.Settings.DynamicAngle {
		// Pull the camera in by up to 40% at high zoom so the steeper
		// dynamic angle doesn't leave it hovering far behind the focus.
		camOffset *= 1 - remap(easeInCirc(cam.Zoom), 0, 1, 0, 0.4)
	}

	rotation := cam.Focus.Rotation.Mul(
		mgl32.QuatRotate(cam.Angle-tau/4, mgl32.Vec3{1, 0, 0}),
	).Normalize()

	position := cam.Focus.Position.
		Add(mgl32.Vec3{0, camHeight, 0}).
		Add(cam.Focus.Back().Mul(camOffset))

	return position, rotation
}

// updateCameraTransform writes the composed pose into the camera entity's
// TransformComponent for the render front-end to consume.
func updateCameraTransform(cmd *Commands) {
	MakeQuery2[RtsCamera, TransformComponent](cmd).Map(func(eid EntityId, cam *RtsCamera, tfm *TransformComponent) bool {
		tfm.Position, tfm.Rotation = cam.CameraPose()
		return true
	})
}
