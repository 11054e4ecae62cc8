package rtscam

import (
	"github.com/go-gl/mathgl/mgl32"
)

// TransformComponent is a world-space pose. The coordinate convention is
// right-handed, +Y up, -Z forward (so Back() is the direction the camera
// retreats along when tilted).
type TransformComponent struct {
	Position mgl32.Vec3
	Rotation mgl32.Quat
	Scale    mgl32.Vec3
}

func IdentityTransform() TransformComponent {
	return TransformComponent{
		Position: mgl32.Vec3{0, 0, 0},
		Rotation: mgl32.QuatIdent(),
		Scale:    mgl32.Vec3{1, 1, 1},
	}
}

func (t *TransformComponent) Forward() mgl32.Vec3 {
	return t.Rotation.Rotate(mgl32.Vec3{0, 0, -1})
}

func (t *TransformComponent) Back() mgl32.Vec3 {
	return t.Rotation.Rotate(mgl32.Vec3{0, 0, 1})
}

func (t *TransformComponent) Right() mgl32.Vec3 {
	return t.Rotation.Rotate(mgl32.Vec3{1, 0, 0})
}

func (t *TransformComponent) Left() mgl32.Vec3 {
	return t.Rotation.Rotate(mgl32.Vec3{-1, 0, 0})
}

func (t *TransformComponent) Up() mgl32.Vec3 {
	return t.Rotation.Rotate(mgl32.Vec3{0, 1, 0})
}

func (t *TransformComponent) Down() mgl32.Vec3 {
	return t.Rotation.Rotate(mgl32.Vec3{0, -1, 0})
}

// RotateLocalY rotates the pose around its own up axis. Yaw input from the
// controls always ends up here; pitch and roll never do.
func (t *TransformComponent) RotateLocalY(angle float32) {
	t.Rotation = t.Rotation.Mul(mgl32.QuatRotate(angle, mgl32.Vec3{0, 1, 0})).Normalize()
}
