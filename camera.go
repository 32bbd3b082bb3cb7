package glowtree

import (
	"math"

	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

const (
	cameraNear            = 0.1
	defaultOrbitPerPixel  = 0.008
	defaultCameraFOV      = 50 * math.Pi / 180
	defaultCameraDistance = 45
)

// Camera orbits a target point on a sphere and projects world points onto
// the screen with a perspective divide. Azimuth turns around the Y axis,
// Elevation tilts above the horizon.
type Camera struct {
	Target    Vec3
	Azimuth   float64
	Elevation float64
	Distance  float64
	// FOV is the vertical field of view in radians.
	FOV float64

	// AutoRotate spins the camera around the target at AutoRotateSpeed rad/s.
	AutoRotate      bool
	AutoRotateSpeed float64

	// OrbitPerPixel converts drag deltas into radians.
	OrbitPerPixel float64
	Elevations    Range
	Distances     Range

	width, height float64

	dolly *gween.Tween
}

// NewCamera creates a camera for a viewport of the given size, looking at
// the origin with auto-rotate enabled.
func NewCamera(width, height int) *Camera {
	return &Camera{
		Elevation:       0.15,
		Distance:        defaultCameraDistance,
		FOV:             defaultCameraFOV,
		AutoRotate:      true,
		AutoRotateSpeed: 0.25,
		OrbitPerPixel:   defaultOrbitPerPixel,
		Elevations:      Range{Min: -1.2, Max: 1.2},
		Distances:       Range{Min: 10, Max: 120},
		width:           float64(width),
		height:          float64(height),
	}
}

// Resize updates the viewport dimensions used for projection.
func (c *Camera) Resize(width, height int) {
	c.width = float64(width)
	c.height = float64(height)
}

// Size returns the viewport dimensions.
func (c *Camera) Size() (width, height float64) {
	return c.width, c.height
}

// SetAutoRotate toggles the idle orbit.
func (c *Camera) SetAutoRotate(enabled bool) {
	c.AutoRotate = enabled
}

// Orbit turns the camera by a drag delta in pixels.
func (c *Camera) Orbit(dx, dy float64) {
	c.Azimuth = wrapAngle(c.Azimuth - dx*c.OrbitPerPixel)
	c.Elevation = clamp(c.Elevation+dy*c.OrbitPerPixel, c.Elevations.Min, c.Elevations.Max)
}

// Zoom scales the distance by factor, clamped to Distances.
func (c *Camera) Zoom(factor float64) {
	if factor <= 0 {
		return
	}
	c.dolly = nil
	c.Distance = clamp(c.Distance*factor, c.Distances.Min, c.Distances.Max)
}

// DollyTo animates Distance to the given value over duration seconds.
func (c *Camera) DollyTo(distance float64, duration float32, easeFn ease.TweenFunc) {
	c.dolly = gween.New(float32(c.Distance), float32(distance), duration, easeFn)
}

// Dollying reports whether a DollyTo animation is in progress.
func (c *Camera) Dollying() bool {
	return c.dolly != nil
}

// Update advances auto-rotation and any dolly animation by dt seconds.
func (c *Camera) Update(dt float64) {
	if c.AutoRotate {
		c.Azimuth = wrapAngle(c.Azimuth + c.AutoRotateSpeed*dt)
	}
	if c.dolly != nil {
		val, done := c.dolly.Update(float32(dt))
		c.Distance = float64(val)
		if done {
			c.dolly = nil
		}
	}
}

// FocalLength returns the projection scale in pixels at unit depth.
func (c *Camera) FocalLength() float64 {
	return (c.height / 2) / math.Tan(c.FOV/2)
}

// Position returns the camera's world position.
func (c *Camera) Position() Vec3 {
	ce := math.Cos(c.Elevation)
	return c.Target.Add(Vec3{
		X: math.Sin(c.Azimuth) * ce,
		Y: math.Sin(c.Elevation),
		Z: math.Cos(c.Azimuth) * ce,
	}.Scale(c.Distance))
}

// Project maps a world point to screen coordinates. depth is the distance
// along the view direction and scale the pixels per world unit at that
// depth. ok is false for points behind the near plane.
func (c *Camera) Project(p Vec3) (sx, sy, depth, scale float64, ok bool) {
	v := p.Sub(c.Target).RotateY(-c.Azimuth).RotateX(c.Elevation)
	depth = c.Distance - v.Z
	if depth <= cameraNear {
		return 0, 0, depth, 0, false
	}
	scale = c.FocalLength() / depth
	sx = c.width/2 + v.X*scale
	sy = c.height/2 - v.Y*scale
	return sx, sy, depth, scale, true
}
