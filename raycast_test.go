package rtscam

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func raycastTestApp() (*App, *Commands) {
	app := NewAppBuilder().Build()
	return app, app.Commands()
}

func addBox(app *App, pos mgl32.Vec3, half mgl32.Vec3) EntityId {
	cmd := app.Commands()
	tfm := IdentityTransform()
	tfm.Position = pos
	eid := cmd.AddEntity(tfm, ColliderComponent{Shape: ShapeBox, HalfExtents: half})
	app.FlushCommands()
	return eid
}

func TestCastRay_NearestHitWins(t *testing.T) {
	app, cmd := raycastTestApp()

	far := addBox(app, mgl32.Vec3{0, -20, 0}, mgl32.Vec3{5, 1, 5})
	near := addBox(app, mgl32.Vec3{0, -5, 0}, mgl32.Vec3{5, 1, 5})
	_ = far

	hit, ok := castRay(cmd, mgl32.Vec3{0, 0, 0}, mgl32.Vec3{0, -1, 0}, nil)
	require.True(t, ok)
	assert.Equal(t, near, hit.Entity)
	assert.InDelta(t, 4.0, hit.Distance, 1e-5) // top face at y=-4
	assert.InDelta(t, -4.0, hit.Point.Y(), 1e-5)
}

func TestCastRay_FilterSkipsEntities(t *testing.T) {
	app, cmd := raycastTestApp()

	skipped := addBox(app, mgl32.Vec3{0, -5, 0}, mgl32.Vec3{5, 1, 5})
	wanted := addBox(app, mgl32.Vec3{0, -20, 0}, mgl32.Vec3{5, 1, 5})

	hit, ok := castRay(cmd, mgl32.Vec3{0, 0, 0}, mgl32.Vec3{0, -1, 0}, func(eid EntityId) bool {
		return eid != skipped
	})
	require.True(t, ok)
	assert.Equal(t, wanted, hit.Entity)
}

func TestCastRay_Miss(t *testing.T) {
	app, cmd := raycastTestApp()

	addBox(app, mgl32.Vec3{100, 0, 0}, mgl32.Vec3{1, 1, 1})

	_, ok := castRay(cmd, mgl32.Vec3{0, 0, 0}, mgl32.Vec3{0, -1, 0}, nil)
	assert.False(t, ok)

	// A box behind the ray origin is not a hit either
	_, ok = castRay(cmd, mgl32.Vec3{100, -10, 0}, mgl32.Vec3{0, -1, 0}, nil)
	assert.False(t, ok)
}

func TestCastRay_ZeroDirection(t *testing.T) {
	app, cmd := raycastTestApp()
	addBox(app, mgl32.Vec3{0, 0, 0}, mgl32.Vec3{1, 1, 1})

	_, ok := castRay(cmd, mgl32.Vec3{0, 10, 0}, mgl32.Vec3{}, nil)
	assert.False(t, ok)
}

func TestCastRay_OriginInsideBox(t *testing.T) {
	app, cmd := raycastTestApp()

	eid := addBox(app, mgl32.Vec3{0, 0, 0}, mgl32.Vec3{5, 5, 5})

	hit, ok := castRay(cmd, mgl32.Vec3{0, 1, 0}, mgl32.Vec3{0, -1, 0}, nil)
	require.True(t, ok)
	assert.Equal(t, eid, hit.Entity)
	assert.Equal(t, float32(0), hit.Distance)
}

func TestCastRay_ScaledCollider(t *testing.T) {
	app, cmd := raycastTestApp()

	tfm := IdentityTransform()
	tfm.Position = mgl32.Vec3{0, -10, 0}
	tfm.Scale = mgl32.Vec3{2, 2, 2}
	cmd.AddEntity(tfm, ColliderComponent{Shape: ShapeBox, HalfExtents: mgl32.Vec3{1, 1, 1}})
	app.FlushCommands()

	// Scaled half extent is 2, so the top face sits at y=-8
	hit, ok := castRay(cmd, mgl32.Vec3{0, 0, 0}, mgl32.Vec3{0, -1, 0}, nil)
	require.True(t, ok)
	assert.InDelta(t, 8.0, hit.Distance, 1e-5)
}

func TestCastRay_Sphere(t *testing.T) {
	app, cmd := raycastTestApp()

	tfm := IdentityTransform()
	tfm.Position = mgl32.Vec3{0, -10, 0}
	cmd.AddEntity(tfm, ColliderComponent{Shape: ShapeSphere, Radius: 3})
	app.FlushCommands()

	hit, ok := castRay(cmd, mgl32.Vec3{0, 0, 0}, mgl32.Vec3{0, -1, 0}, nil)
	require.True(t, ok)
	assert.InDelta(t, 7.0, hit.Distance, 1e-5)
	assert.InDelta(t, -7.0, hit.Point.Y(), 1e-5)

	// Grazing offset still hits, wide offset misses
	_, ok = castRay(cmd, mgl32.Vec3{2.9, 0, 0}, mgl32.Vec3{0, -1, 0}, nil)
	assert.True(t, ok)
	_, ok = castRay(cmd, mgl32.Vec3{3.1, 0, 0}, mgl32.Vec3{0, -1, 0}, nil)
	assert.False(t, ok)
}
