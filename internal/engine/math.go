package engine

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

func mulVec(a, b mgl64.Vec3) mgl64.Vec3 {
	return mgl64.Vec3{a[0] * b[0], a[1] * b[1], a[2] * b[2]}
}

// unit normalizes v, leaving the zero vector untouched.
func unit(v mgl64.Vec3) mgl64.Vec3 {
	l := v.Len()
	if l == 0 {
		return v
	}
	return v.Mul(1 / l)
}

func reflectVec(v, n mgl64.Vec3) mgl64.Vec3 {
	return v.Sub(n.Mul(2 * v.Dot(n)))
}

func refractVec(uv, n mgl64.Vec3, etaiOverEtat float64) mgl64.Vec3 {
	cosTheta := math.Min(-uv.Dot(n), 1.0)
	rOutPerp := uv.Add(n.Mul(cosTheta)).Mul(etaiOverEtat)
	rOutParallel := n.Mul(-math.Sqrt(math.Abs(1.0 - rOutPerp.LenSqr())))
	return rOutPerp.Add(rOutParallel)
}

func randomInUnitSphere(rng *randSource) mgl64.Vec3 {
	for {
		p := mgl64.Vec3{
			rng.Float64()*2 - 1,
			rng.Float64()*2 - 1,
			rng.Float64()*2 - 1,
		}
		if p.LenSqr() < 1.0 {
			return p
		}
	}
}

func randomUnitVector(rng *randSource) mgl64.Vec3 {
	return unit(randomInUnitSphere(rng))
}

// randomCosineDirection samples the hemisphere around normal with a
// cosine-weighted distribution, the one matching Lambertian surfaces.
func randomCosineDirection(normal mgl64.Vec3, rng *randSource) mgl64.Vec3 {
	r1 := rng.Float64()
	r2 := rng.Float64()

	phi := 2.0 * math.Pi * r1
	cosTheta := math.Sqrt(r2)
	sinTheta := math.Sqrt(1.0 - r2)

	// orthonormal basis around the normal
	a := mgl64.Vec3{1, 0, 0}
	if math.Abs(normal[0]) > 0.9 {
		a = mgl64.Vec3{0, 1, 0}
	}
	w := normal
	v := unit(w.Cross(a))
	u := v.Cross(w)

	return u.Mul(sinTheta * math.Cos(phi)).
		Add(v.Mul(sinTheta * math.Sin(phi))).
		Add(w.Mul(cosTheta))
}
