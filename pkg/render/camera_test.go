package render

import (
	"math"
	"testing"

	"github.com/taigrr/facet/pkg/math3d"
)

func TestCameraBasis(t *testing.T) {
	cam := NewCamera()

	if f := cam.Forward(); !f.Near(math3d.V3(0, 0, -1), 1e-12) {
		t.Errorf("Forward() = %v, want (0, 0, -1)", f)
	}
	if r := cam.Right(); !r.Near(math3d.V3(1, 0, 0), 1e-12) {
		t.Errorf("Right() = %v, want (1, 0, 0)", r)
	}
	if u := cam.Up(); !u.Near(math3d.V3(0, 1, 0), 1e-12) {
		t.Errorf("Up() = %v, want (0, 1, 0)", u)
	}
}

func TestCameraRay(t *testing.T) {
	cam := NewCamera()

	t.Run("center pixel", func(t *testing.T) {
		ray := cam.Ray(2, 2, 5, 5)
		if ray.Origin != cam.Position {
			t.Errorf("origin = %v, want %v", ray.Origin, cam.Position)
		}
		if !ray.Direction.Near(cam.Forward(), 1e-12) {
			t.Errorf("direction = %v, want forward %v", ray.Direction, cam.Forward())
		}
	})

	t.Run("top-left pixel", func(t *testing.T) {
		d := cam.Ray(0, 0, 5, 5).Direction
		if d.X >= 0 || d.Y <= 0 || d.Z >= 0 {
			t.Errorf("direction = %v, want left, up and forward", d)
		}
		if math.Abs(d.Len()-1) > 1e-12 {
			t.Errorf("direction length = %v, want 1", d.Len())
		}
	})

	t.Run("field of view", func(t *testing.T) {
		// The edge of the image sits half the FOV away from forward.
		const n = 1000
		d := cam.Ray(n/2, 0, n, n).Direction
		angle := math.Acos(d.Dot(cam.Forward()))
		if math.Abs(angle-cam.FOV/2) > 1e-2 {
			t.Errorf("top edge angle = %v, want ~%v", angle, cam.FOV/2)
		}
	})

	t.Run("aspect", func(t *testing.T) {
		wide := cam.Ray(0, 1, 20, 3).Direction
		tall := cam.Ray(0, 1, 3, 3).Direction
		if math.Abs(wide.X) <= math.Abs(tall.X) {
			t.Errorf("wide image should spread rays further: %v vs %v", wide, tall)
		}
	})
}

func TestCameraLookAt(t *testing.T) {
	cam := NewCamera()
	cam.SetPosition(math3d.V3(3, 4, 5))
	target := math3d.V3(-1, 0, 2)
	cam.LookAt(target)

	want := target.Sub(cam.Position).Normalize()
	if f := cam.Forward(); !f.Near(want, 1e-9) {
		t.Errorf("Forward() = %v, want %v", f, want)
	}
}

func TestCameraOrbit(t *testing.T) {
	cam := NewCamera()
	target := math3d.V3(1, 2, 3)

	for _, yaw := range []float64{0, 0.5, math.Pi, -2} {
		cam.Orbit(target, 7, yaw, 0.3)
		if d := cam.Position.Distance(target); math.Abs(d-7) > 1e-9 {
			t.Errorf("yaw %v: distance = %v, want 7", yaw, d)
		}
		center := cam.Ray(5, 5, 11, 11)
		if !center.At(7).Near(target, 1e-9) {
			t.Errorf("yaw %v: center ray passes %v, want %v", yaw, center.At(7), target)
		}
	}
}

func TestCameraRotateClampsPitch(t *testing.T) {
	cam := NewCamera()
	cam.Rotate(10, 0.25)

	if cam.Pitch >= math.Pi/2 {
		t.Errorf("Pitch = %v, want clamped below π/2", cam.Pitch)
	}
	if cam.Yaw != 0.25 {
		t.Errorf("Yaw = %v, want 0.25", cam.Yaw)
	}

	cam.Rotate(-20, 0)
	if cam.Pitch <= -math.Pi/2 {
		t.Errorf("Pitch = %v, want clamped above -π/2", cam.Pitch)
	}
}

func TestCameraMoveForward(t *testing.T) {
	cam := NewCamera()
	cam.MoveForward(2)
	if !cam.Position.Near(math3d.V3(0, 0, 3), 1e-12) {
		t.Errorf("Position = %v, want (0, 0, 3)", cam.Position)
	}
}
