package engine

import (
	"math"

	"github.com/ess476/gfx-final/internal/kdtree"
	"github.com/ess476/gfx-final/internal/scene"
	"github.com/go-gl/mathgl/mgl64"
)

type materialType int

const (
	matLambert materialType = iota
	matMetal
	matDielectric
	matEmissive
	matMirror
)

type material struct {
	typ    materialType
	albedo mgl64.Vec3
	rough  float64
	ior    float64
	emit   mgl64.Vec3
}

func convertMaterial(m scene.Material) material {
	al := mgl64.Vec3{m.Albedo.R, m.Albedo.G, m.Albedo.B}

	switch m.Type {
	case scene.MaterialMetal:
		return material{typ: matMetal, albedo: al, rough: clamp(m.Rough, 0, 1)}
	case scene.MaterialDielectric:
		ior := m.IOR
		if ior == 0 {
			ior = 1.5
		}
		if al == (mgl64.Vec3{}) {
			al = mgl64.Vec3{1, 1, 1}
		}
		return material{typ: matDielectric, albedo: al, ior: ior}
	case scene.MaterialEmissive:
		power := m.Power
		if power == 0 {
			power = 1
		}
		return material{typ: matEmissive, emit: mgl64.Vec3{m.Emit.R, m.Emit.G, m.Emit.B}.Mul(power)}
	case scene.MaterialMirror:
		return material{typ: matMirror, albedo: al}
	default:
		return material{typ: matLambert, albedo: al, rough: clamp(m.Rough, 0, 1)}
	}
}

func clamp(x, minVal, maxVal float64) float64 {
	if x < minVal {
		return minVal
	}
	if x > maxVal {
		return maxVal
	}
	return x
}

func (m *material) emitted() mgl64.Vec3 {
	if m.typ == matEmissive {
		return m.emit
	}
	return mgl64.Vec3{}
}

// transmits reports whether shadow rays pass through the material.
func (m *material) transmits() bool {
	return m.typ == matDielectric
}

func (m *material) scatter(rng *randSource, rIn kdtree.Ray, rec *kdtree.Intersection) (bool, mgl64.Vec3, kdtree.Ray) {
	if rIn.Direction.LenSqr() == 0 {
		return false, mgl64.Vec3{}, kdtree.Ray{}
	}
	unitDir := unit(rIn.Direction)

	switch m.typ {
	case matLambert:
		scatteredDir := randomCosineDirection(rec.Normal, rng)
		if m.rough > 1e-6 {
			scatteredDir = unit(scatteredDir.Add(randomUnitVector(rng).Mul(m.rough * 0.1)))
		}
		return true, m.albedo, kdtree.Ray{Origin: rec.Point, Direction: scatteredDir}

	case matMetal:
		reflected := reflectVec(unitDir, rec.Normal)
		if m.rough <= 1e-6 {
			return true, m.albedo, kdtree.Ray{Origin: rec.Point, Direction: reflected}
		}

		// blend the mirror direction towards a cosine lobe around it
		alpha := m.rough * m.rough
		scatteredDir := reflected.Mul(1 - alpha).Add(randomCosineDirection(reflected, rng).Mul(alpha))
		if scatteredDir.LenSqr() < 1e-8 || scatteredDir.Dot(rec.Normal) <= 0 {
			scatteredDir = reflected
		}
		return true, m.albedo, kdtree.Ray{Origin: rec.Point, Direction: unit(scatteredDir)}

	case matDielectric:
		refractionRatio := m.ior
		if rec.FrontFace {
			refractionRatio = 1.0 / m.ior
		}

		cosTheta := math.Min(-unitDir.Dot(rec.Normal), 1.0)
		sinTheta := math.Sqrt(1.0 - cosTheta*cosTheta)

		var direction mgl64.Vec3
		cannotRefract := refractionRatio*sinTheta > 1.0
		if cannotRefract || reflectance(cosTheta, refractionRatio) > rng.Float64() {
			direction = reflectVec(unitDir, rec.Normal)
		} else {
			direction = refractVec(unitDir, rec.Normal, refractionRatio)
		}
		return true, m.albedo, kdtree.Ray{Origin: rec.Point, Direction: direction}

	case matMirror:
		return true, m.albedo, kdtree.Ray{Origin: rec.Point, Direction: reflectVec(unitDir, rec.Normal)}

	default:
		return false, mgl64.Vec3{}, kdtree.Ray{}
	}
}

func reflectance(cosine, refIdx float64) float64 {
	// Schlick approximation
	r0 := (1 - refIdx) / (1 + refIdx)
	r0 = r0 * r0
	return r0 + (1-r0)*math.Pow(1-cosine, 5)
}
