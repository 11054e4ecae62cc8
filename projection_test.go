package rtscam

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestViewportToWorldRay_PerspectiveCenter(t *testing.T) {
	camTfm := IdentityTransform()
	camTfm.Position = mgl32.Vec3{0, 10, 0}
	proj := NewPerspectiveProjection(mgl32.DegToRad(60), 16.0/9.0)

	origin, dir, err := viewportToWorldRay(&camTfm, &proj, mgl32.Vec2{640, 360}, mgl32.Vec2{1280, 720})
	require.NoError(t, err)

	// Center of the screen looks straight along the camera forward axis
	assert.Equal(t, camTfm.Position, origin)
	assert.InDelta(t, 0.0, dir.X(), 1e-5)
	assert.InDelta(t, 0.0, dir.Y(), 1e-5)
	assert.InDelta(t, -1.0, dir.Z(), 1e-5)
}

func TestViewportToWorldRay_PerspectiveCorners(t *testing.T) {
	camTfm := IdentityTransform()
	proj := NewPerspectiveProjection(mgl32.DegToRad(90), 1.0)

	// Top-right corner of the screen tilts right and up
	_, dir, err := viewportToWorldRay(&camTfm, &proj, mgl32.Vec2{1000, 0}, mgl32.Vec2{1000, 1000})
	require.NoError(t, err)
	assert.Greater(t, dir.X(), float32(0))
	assert.Greater(t, dir.Y(), float32(0))
	assert.Less(t, dir.Z(), float32(0))
	assert.InDelta(t, 1.0, dir.Len(), 1e-5)
}

func TestViewportToWorldRay_Orthographic(t *testing.T) {
	camTfm := IdentityTransform()
	camTfm.Position = mgl32.Vec3{0, 20, 0}
	proj := NewOrthographicProjection(100, 50)

	// Cursor at the right edge, vertical center: origin shifts half the view
	// width along camera right, direction stays the camera forward
	origin, dir, err := viewportToWorldRay(&camTfm, &proj, mgl32.Vec2{800, 300}, mgl32.Vec2{800, 600})
	require.NoError(t, err)

	assert.InDelta(t, 50.0, origin.X(), 1e-4)
	assert.InDelta(t, 20.0, origin.Y(), 1e-4)
	assert.Equal(t, camTfm.Forward(), dir)
}

func TestViewportToWorldRay_Errors(t *testing.T) {
	camTfm := IdentityTransform()
	proj := NewPerspectiveProjection(1, 1)

	_, _, err := viewportToWorldRay(&camTfm, &proj, mgl32.Vec2{0, 0}, mgl32.Vec2{0, 600})
	assert.Error(t, err)

	bad := ProjectionComponent{Kind: ProjectionKind(7)}
	_, _, err = viewportToWorldRay(&camTfm, &bad, mgl32.Vec2{0, 0}, mgl32.Vec2{800, 600})
	assert.Error(t, err)
}

func TestProjectionKind_String(t *testing.T) {
	assert.Equal(t, "perspective", ProjectionPerspective.String())
	assert.Equal(t, "orthographic", ProjectionOrthographic.String())
	assert.Equal(t, "projection(7)", ProjectionKind(7).String())
}
