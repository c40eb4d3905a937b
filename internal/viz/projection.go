package viz

import (
	"math"

	"github.com/san-kum/orbsim/internal/orbit"
)

// Camera is an orthographic view of the reference frame. Spin turns the
// scene about the z axis, then Tilt turns it about the screen's x axis.
type Camera struct {
	Spin, Tilt float64
	Zoom       float64
	// Extent is the half-width in km visible at Zoom 1.
	Extent float64
}

func NewCamera(extent float64) *Camera {
	if extent <= 0 {
		extent = 1
	}
	return &Camera{Zoom: 1, Extent: extent}
}

// SideView looks along -y so the screen shows the x-z plane.
func (c *Camera) SideView() { c.Tilt = -math.Pi / 2 }

func (c *Camera) SpinBy(a float64) { c.Spin += a }
func (c *Camera) TiltBy(a float64) { c.Tilt += a }
func (c *Camera) ZoomIn()          { c.Zoom = math.Min(1000, c.Zoom*1.25) }
func (c *Camera) ZoomOut()         { c.Zoom = math.Max(0.01, c.Zoom/1.25) }

// Rotate applies the view rotation.
func (c *Camera) Rotate(p orbit.Vec3) orbit.Vec3 {
	sz, cz := math.Sincos(c.Spin)
	x, y, z := p[0]*cz-p[1]*sz, p[0]*sz+p[1]*cz, p[2]
	sx, cx := math.Sincos(c.Tilt)
	return orbit.Vec3{x, y*cx - z*sx, y*sx + z*cx}
}

// Project maps a point in km to dot coordinates on a sw x sh dot canvas.
// The reference origin lands in the centre.
func (c *Camera) Project(p orbit.Vec3, sw, sh int) (int, int, bool) {
	rot := c.Rotate(p)
	half := float64(min(sw, sh)) / 2
	scale := half * c.Zoom / c.Extent
	x := int(math.Round(rot[0]*scale)) + sw/2
	y := sh/2 - int(math.Round(rot[1]*scale))
	return x, y, x >= 0 && x < sw && y >= 0 && y < sh
}

// FitExtent returns the largest coordinate magnitude of all points with a
// small margin, suitable for Camera.Extent.
func FitExtent(tracks ...[]orbit.Vec3) float64 {
	extent := 0.0
	for _, t := range tracks {
		for _, p := range t {
			for _, v := range p {
				extent = math.Max(extent, math.Abs(v))
			}
		}
	}
	if extent == 0 {
		return 1
	}
	return extent * 1.05
}
