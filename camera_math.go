package rtscam

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/tanema/gween/ease"
)

func lerp(a, b, t float32) float32 {
	return a + (b-a)*t
}

func clamp(v, lo, hi float32) float32 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// remap maps v from [inMin, inMax] to [outMin, outMax] without clamping.
func remap(v, inMin, inMax, outMin, outMax float32) float32 {
	return outMin + (v-inMin)/(inMax-inMin)*(outMax-outMin)
}

// easeInCirc is the circular ease-in curve 1 - sqrt(1 - t^2) for t in [0,1]:
// near-flat start, steep finish.
func easeInCirc(t float32) float32 {
	return ease.InCirc(t, 0, 1, 1)
}

// smoothingFactor converts the user-facing smoothness parameter into a
// frame-rate independent lerp factor: 1 - (s^7)^dt. The 7th power spreads
// the perceptible range of the parameter roughly linearly over [0,1);
// without it almost all of the change sits in a narrow band near 1.
// At s=0 the factor is 1 for any positive dt (snap every frame); as s
// approaches 1 the factor approaches 0 (asymptotic, never stuck below 1).
func smoothingFactor(smoothness, dt float32) float32 {
	s7 := math.Pow(float64(smoothness), 7)
	return float32(1 - math.Pow(s7, float64(dt)))
}

func normalizeOrZero(v mgl32.Vec3) mgl32.Vec3 {
	if v.Dot(v) == 0 {
		return mgl32.Vec3{0, 0, 0}
	}
	return v.Normalize()
}

func lerpVec3(a, b mgl32.Vec3, t float32) mgl32.Vec3 {
	return a.Add(b.Sub(a).Mul(t))
}
