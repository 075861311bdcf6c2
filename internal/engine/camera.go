package engine

import (
	"math"

	"github.com/ess476/gfx-final/internal/kdtree"
	"github.com/ess476/gfx-final/internal/scene"
	"github.com/go-gl/mathgl/mgl64"
)

type camera struct {
	origin          mgl64.Vec3
	lowerLeftCorner mgl64.Vec3
	horizontal      mgl64.Vec3
	vertical        mgl64.Vec3
	u, v, w         mgl64.Vec3
	lensRadius      float64
}

func newCamera(scCam scene.Camera, cfg RenderConfig) camera {
	aspect := float64(cfg.Width) / float64(cfg.Height)
	if scCam.AspectRatio != 0 {
		aspect = scCam.AspectRatio
	}

	fov := scCam.FOV
	if fov == 0 {
		fov = 40
	}
	theta := fov * math.Pi / 180
	h := math.Tan(theta / 2)
	viewportHeight := 2.0 * h
	viewportWidth := aspect * viewportHeight

	origin := vec(scCam.Position)
	target := vec(scCam.Target)
	up := vec(scCam.Up)
	if up.LenSqr() == 0 {
		up = mgl64.Vec3{0, 1, 0}
	}

	w := unit(origin.Sub(target))
	u := unit(up.Cross(w))
	v := w.Cross(u)

	focusDist := scCam.FocusDist
	if focusDist == 0 {
		focusDist = origin.Sub(target).Len()
	}

	horizontal := u.Mul(viewportWidth * focusDist)
	vertical := v.Mul(viewportHeight * focusDist)
	lowerLeftCorner := origin.Sub(horizontal.Mul(0.5)).Sub(vertical.Mul(0.5)).Sub(w.Mul(focusDist))

	return camera{
		origin:          origin,
		lowerLeftCorner: lowerLeftCorner,
		horizontal:      horizontal,
		vertical:        vertical,
		u:               u,
		v:               v,
		w:               w,
		lensRadius:      scCam.Aperture / 2,
	}
}

// getRay returns the ray through the viewport point (s, t). rng drives the
// lens sampling and must belong to the calling goroutine.
func (c camera) getRay(s, t float64, rng *randSource) kdtree.Ray {
	target := c.lowerLeftCorner.Add(c.horizontal.Mul(s)).Add(c.vertical.Mul(t))

	if c.lensRadius > 0 {
		rd := randomInUnitSphere(rng).Mul(c.lensRadius)
		offset := c.u.Mul(rd[0]).Add(c.v.Mul(rd[1]))
		origin := c.origin.Add(offset)
		return kdtree.Ray{Origin: origin, Direction: target.Sub(origin)}
	}

	return kdtree.Ray{Origin: c.origin, Direction: target.Sub(c.origin)}
}
