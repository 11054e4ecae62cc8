package rtscam

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

type ColliderShape int

const (
	ShapeBox ColliderShape = iota
	ShapeSphere
)

// ColliderComponent describes ray-castable geometry. Boxes are axis-aligned
// in world space; HalfExtents and Radius are scaled by the entity's
// transform scale.
type ColliderComponent struct {
	Shape       ColliderShape
	HalfExtents mgl32.Vec3 // box
	Radius      float32    // sphere
}

type RayHit struct {
	Entity   EntityId
	Point    mgl32.Vec3
	Distance float32
}

// castRay intersects a ray against every collider the filter accepts and
// returns the nearest hit. First-hit-along-the-ray semantics; ties between
// overlapping colliders are implementation-defined. Returns false when
// nothing is hit.
func castRay(cmd *Commands, origin mgl32.Vec3, dir mgl32.Vec3, filter func(EntityId) bool) (RayHit, bool) {
	dir = normalizeOrZero(dir)
	if dir.Dot(dir) == 0 {
		return RayHit{}, false
	}

	best := RayHit{Distance: float32(math.Inf(1))}
	found := false

	MakeQuery2[TransformComponent, ColliderComponent](cmd).Map(func(eid EntityId, tr *TransformComponent, col *ColliderComponent) bool {
		if filter != nil && !filter(eid) {
			return true
		}

		var dist float32
		var ok bool
		switch col.Shape {
		case ShapeBox:
			ext := mgl32.Vec3{
				col.HalfExtents.X() * tr.Scale.X(),
				col.HalfExtents.Y() * tr.Scale.Y(),
				col.HalfExtents.Z() * tr.Scale.Z(),
			}
			dist, ok = rayBoxDistance(origin, dir, tr.Position.Sub(ext), tr.Position.Add(ext))
		case ShapeSphere:
			radius := col.Radius * tr.Scale.X()
			dist, ok = raySphereDistance(origin, dir, tr.Position, radius)
		}

		if ok && dist < best.Distance {
			best = RayHit{
				Entity:   eid,
				Point:    origin.Add(dir.Mul(dist)),
				Distance: dist,
			}
			found = true
		}
		return true
	})

	return best, found
}

// rayBoxDistance is the slab method against a world-space AABB. Returns the
// entry distance along the ray, 0 if the origin is inside the box.
func rayBoxDistance(origin, dir, boxMin, boxMax mgl32.Vec3) (float32, bool) {
	tMin := float32(math.Inf(-1))
	tMax := float32(math.Inf(1))

	for axis := 0; axis < 3; axis++ {
		if dir[axis] == 0 {
			if origin[axis] < boxMin[axis] || origin[axis] > boxMax[axis] {
				return 0, false
			}
			continue
		}

		inv := 1.0 / dir[axis]
		t1 := (boxMin[axis] - origin[axis]) * inv
		t2 := (boxMax[axis] - origin[axis]) * inv
		if t1 > t2 {
			t1, t2 = t2, t1
		}
		if t1 > tMin {
			tMin = t1
		}
		if t2 < tMax {
			tMax = t2
		}
		if tMin > tMax {
			return 0, false
		}
	}

	if tMax < 0 {
		return 0, false
	}
	if tMin < 0 {
		return 0, true
	}
	return tMin, true
}

func raySphereDistance(origin, dir, center mgl32.Vec3, radius float32) (float32, bool) {
	oc := origin.Sub(center)
	b := oc.Dot(dir)
	c := oc.Dot(oc) - radius*radius

	disc := b*b - c
	if disc < 0 {
		return 0, false
	}

	sqrtDisc := float32(math.Sqrt(float64(disc)))
	t := -b - sqrtDisc
	if t < 0 {
		t = -b + sqrtDisc
	}
	if t < 0 {
		return 0, false
	}
	return t, true
}
