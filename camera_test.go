package glowtree

import (
	"math"
	"testing"

	"github.com/tanema/gween/ease"
)

func TestProjectCenterAndOrientation(t *testing.T) {
	c := NewCamera(800, 600)
	c.Elevation = 0

	sx, sy, depth, scale, ok := c.Project(Vec3{})
	if !ok {
		t.Fatal("origin not visible")
	}
	if math.Abs(sx-400) > 1e-9 || math.Abs(sy-300) > 1e-9 {
		t.Errorf("origin at (%v, %v), want (400, 300)", sx, sy)
	}
	if math.Abs(depth-c.Distance) > 1e-9 {
		t.Errorf("depth = %v, want %v", depth, c.Distance)
	}
	if math.Abs(scale-c.FocalLength()/c.Distance) > 1e-9 {
		t.Errorf("scale = %v", scale)
	}

	_, upY, _, _, _ := c.Project(Vec3{Y: 5})
	if upY >= sy {
		t.Errorf("point above origin drawn at y %v, not above %v", upY, sy)
	}
	rightX, _, _, _, _ := c.Project(Vec3{X: 5})
	if rightX <= sx {
		t.Errorf("point right of origin drawn at x %v, not right of %v", rightX, sx)
	}

	_, _, _, near, _ := c.Project(Vec3{Z: 10})
	_, _, _, far, _ := c.Project(Vec3{Z: -10})
	if near <= far {
		t.Errorf("nearer point scale %v not above farther %v", near, far)
	}
}

func TestProjectBehindCamera(t *testing.T) {
	c := NewCamera(800, 600)
	c.Elevation = 0
	if _, _, _, _, ok := c.Project(Vec3{Z: c.Distance + 1}); ok {
		t.Error("point behind the camera reported visible")
	}
}

func TestPositionMatchesDistance(t *testing.T) {
	c := NewCamera(800, 600)
	c.Azimuth = 1.2
	c.Elevation = 0.4
	if d := c.Position().Dist(c.Target); math.Abs(d-c.Distance) > 1e-9 {
		t.Errorf("camera %v from target, want %v", d, c.Distance)
	}
	// The target always projects to the viewport center.
	sx, sy, _, _, ok := c.Project(c.Target)
	if !ok || math.Abs(sx-400) > 1e-9 || math.Abs(sy-300) > 1e-9 {
		t.Errorf("target at (%v, %v)", sx, sy)
	}
}

func TestOrbitClampsElevation(t *testing.T) {
	c := NewCamera(800, 600)
	c.Orbit(0, 1e6)
	if c.Elevation != c.Elevations.Max {
		t.Errorf("elevation = %v, want %v", c.Elevation, c.Elevations.Max)
	}
	c.Orbit(0, -1e6)
	if c.Elevation != c.Elevations.Min {
		t.Errorf("elevation = %v, want %v", c.Elevation, c.Elevations.Min)
	}
	az := c.Azimuth
	c.Orbit(100, 0)
	if math.Abs(wrapAngle(az-c.Azimuth)-100*c.OrbitPerPixel) > 1e-9 {
		t.Errorf("azimuth moved %v, want %v", az-c.Azimuth, 100*c.OrbitPerPixel)
	}
}

func TestZoomClamps(t *testing.T) {
	c := NewCamera(800, 600)
	c.Zoom(1000)
	if c.Distance != c.Distances.Max {
		t.Errorf("distance = %v, want %v", c.Distance, c.Distances.Max)
	}
	c.Zoom(0.0001)
	if c.Distance != c.Distances.Min {
		t.Errorf("distance = %v, want %v", c.Distance, c.Distances.Min)
	}
	c.Zoom(-1)
	if c.Distance != c.Distances.Min {
		t.Error("non-positive zoom factor applied")
	}
}

func TestAutoRotate(t *testing.T) {
	c := NewCamera(800, 600)
	c.Update(1)
	if math.Abs(c.Azimuth-c.AutoRotateSpeed) > 1e-9 {
		t.Errorf("azimuth = %v after 1s, want %v", c.Azimuth, c.AutoRotateSpeed)
	}
	c.SetAutoRotate(false)
	az := c.Azimuth
	c.Update(1)
	if c.Azimuth != az {
		t.Error("azimuth changed with auto-rotate off")
	}
}

func TestDollyTo(t *testing.T) {
	c := NewCamera(800, 600)
	c.Distance = 90
	c.DollyTo(45, 1, ease.Linear)
	if !c.Dollying() {
		t.Fatal("not dollying")
	}
	c.Update(0.5)
	if math.Abs(c.Distance-67.5) > 1e-3 {
		t.Errorf("distance halfway = %v, want 67.5", c.Distance)
	}
	c.Update(0.6)
	if c.Dollying() || math.Abs(c.Distance-45) > 1e-3 {
		t.Errorf("distance = %v dollying = %t after finish", c.Distance, c.Dollying())
	}

	c.DollyTo(100, 1, ease.Linear)
	c.Zoom(1.1)
	if c.Dollying() {
		t.Error("manual zoom did not cancel the dolly")
	}
}
