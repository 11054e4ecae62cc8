package rtscam

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

type ProjectionKind int

const (
	ProjectionPerspective ProjectionKind = iota
	ProjectionOrthographic
)

func (k ProjectionKind) String() string {
	switch k {
	case ProjectionPerspective:
		return "perspective"
	case ProjectionOrthographic:
		return "orthographic"
	default:
		return fmt.Sprintf("projection(%d)", int(k))
	}
}

// ProjectionComponent carries the parameters grab panning needs to convert
// screen-space drags into world-space movement. The renderer owns the real
// projection matrix; this component only mirrors its shape.
type ProjectionComponent struct {
	Kind ProjectionKind

	// Perspective
	Fov         float32 // vertical field of view, radians
	AspectRatio float32

	// Orthographic view volume, world units
	OrthoWidth  float32
	OrthoHeight float32
}

func NewPerspectiveProjection(fov, aspectRatio float32) ProjectionComponent {
	return ProjectionComponent{
		Kind:        ProjectionPerspective,
		Fov:         fov,
		AspectRatio: aspectRatio,
	}
}

func NewOrthographicProjection(width, height float32) ProjectionComponent {
	return ProjectionComponent{
		Kind:        ProjectionOrthographic,
		OrthoWidth:  width,
		OrthoHeight: height,
	}
}

// viewportToWorldRay converts a cursor position into a world-space ray from
// the camera, used to find the grab anchor on the ground under the cursor.
func viewportToWorldRay(camTfm *TransformComponent, proj *ProjectionComponent, cursor mgl32.Vec2, viewport mgl32.Vec2) (mgl32.Vec3, mgl32.Vec3, error) {
	if viewport.X() <= 0 || viewport.Y() <= 0 {
		return mgl32.Vec3{}, mgl32.Vec3{}, fmt.Errorf("viewport size must be positive, got %v", viewport)
	}

	// Cursor to NDC, +Y up
	ndcX := cursor.X()/viewport.X()*2 - 1
	ndcY := 1 - cursor.Y()/viewport.Y()*2

	switch proj.Kind {
	case ProjectionPerspective:
		halfV := float32(math.Tan(float64(proj.Fov) / 2))
		local := mgl32.Vec3{ndcX * halfV * proj.AspectRatio, ndcY * halfV, -1}
		dir := camTfm.Rotation.Rotate(local).Normalize()
		return camTfm.Position, dir, nil
	case ProjectionOrthographic:
		origin := camTfm.Position.
			Add(camTfm.Right().Mul(ndcX * proj.OrthoWidth / 2)).
			Add(camTfm.Up().Mul(ndcY * proj.OrthoHeight / 2))
		return origin, camTfm.Forward(), nil
	default:
		return mgl32.Vec3{}, mgl32.Vec3{}, fmt.Errorf("unsupported projection kind %v", proj.Kind)
	}
}
