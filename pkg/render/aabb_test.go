package render

import (
	"math"
	"testing"

	"github.com/taigrr/facet/pkg/math3d"
	"github.com/taigrr/facet/pkg/surface"
)

func TestAABBBasics(t *testing.T) {
	box := NewAABB(math3d.V3(-1, -2, -3), math3d.V3(1, 2, 3))

	if c := box.Center(); c != math3d.Zero3() {
		t.Errorf("center = %v, want (0, 0, 0)", c)
	}
	if s := box.Size(); s != math3d.V3(2, 4, 6) {
		t.Errorf("size = %v, want (2, 4, 6)", s)
	}
	if h := box.HalfSize(); h != math3d.V3(1, 2, 3) {
		t.Errorf("halfSize = %v, want (1, 2, 3)", h)
	}
	if r := box.Radius(); math.Abs(r-math.Sqrt(14)) > 1e-12 {
		t.Errorf("radius = %v, want √14", r)
	}
}

func TestAABBEmptyAndExtend(t *testing.T) {
	box := EmptyAABB()
	if !box.IsEmpty() {
		t.Fatal("EmptyAABB should be empty")
	}
	if box.Hit(math3d.NewRay(math3d.Zero3(), math3d.V3(0, 0, 1)), math.Inf(1)) {
		t.Error("empty box should never be hit")
	}

	box = box.Extend(math3d.V3(1, 2, 3))
	if box.IsEmpty() || box.Min != box.Max {
		t.Errorf("box after one point = %v, want degenerate box at the point", box)
	}
	box = box.Extend(math3d.V3(-1, 5, 0))
	if box.Min != math3d.V3(-1, 2, 0) || box.Max != math3d.V3(1, 5, 3) {
		t.Errorf("box = %v, want min (-1, 2, 0) max (1, 5, 3)", box)
	}
}

func TestAABBContainsPoint(t *testing.T) {
	box := NewAABB(math3d.V3(0, 0, 0), math3d.V3(10, 10, 10))

	tests := []struct {
		name     string
		point    math3d.Vec3
		expected bool
	}{
		{"center", math3d.V3(5, 5, 5), true},
		{"corner min", math3d.V3(0, 0, 0), true},
		{"corner max", math3d.V3(10, 10, 10), true},
		{"edge", math3d.V3(5, 0, 5), true},
		{"outside X", math3d.V3(11, 5, 5), false},
		{"outside Y", math3d.V3(5, -1, 5), false},
		{"outside Z", math3d.V3(5, 5, 15), false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if result := box.ContainsPoint(tc.point); result != tc.expected {
				t.Errorf("ContainsPoint(%v) = %v, want %v", tc.point, result, tc.expected)
			}
		})
	}
}

func TestAABBTransform(t *testing.T) {
	box := NewAABB(math3d.V3(-1, -1, -1), math3d.V3(1, 1, 1))

	t.Run("translation", func(t *testing.T) {
		transformed := box.Transform(math3d.Translate(math3d.V3(10, 20, 30)))
		if transformed.Min != math3d.V3(9, 19, 29) {
			t.Errorf("translated min = %v, want (9, 19, 29)", transformed.Min)
		}
		if transformed.Max != math3d.V3(11, 21, 31) {
			t.Errorf("translated max = %v, want (11, 21, 31)", transformed.Max)
		}
	})

	t.Run("scale", func(t *testing.T) {
		transformed := box.Transform(math3d.ScaleUniform(2.0))
		if transformed.Min != math3d.V3(-2, -2, -2) {
			t.Errorf("scaled min = %v, want (-2, -2, -2)", transformed.Min)
		}
		if transformed.Max != math3d.V3(2, 2, 2) {
			t.Errorf("scaled max = %v, want (2, 2, 2)", transformed.Max)
		}
	})

	t.Run("rotation grows box", func(t *testing.T) {
		transformed := box.Transform(math3d.RotateY(math.Pi / 4))
		want := math.Sqrt2
		if math.Abs(transformed.Max.X-want) > 1e-9 || math.Abs(transformed.Max.Z-want) > 1e-9 {
			t.Errorf("rotated max = %v, want X and Z ≈ √2", transformed.Max)
		}
	})
}

func TestAABBHit(t *testing.T) {
	box := NewAABB(math3d.V3(-1, -1, -1), math3d.V3(1, 1, 1))

	tests := []struct {
		name   string
		origin math3d.Vec3
		dir    math3d.Vec3
		tMax   float64
		want   bool
	}{
		{"straight through", math3d.V3(0, 0, 5), math3d.V3(0, 0, -1), math.Inf(1), true},
		{"diagonal", math3d.V3(5, 5, 5), math3d.V3(-1, -1, -1).Normalize(), math.Inf(1), true},
		{"miss to the side", math3d.V3(3, 0, 5), math3d.V3(0, 0, -1), math.Inf(1), false},
		{"pointing away", math3d.V3(0, 0, 5), math3d.V3(0, 0, 1), math.Inf(1), false},
		{"from inside", math3d.Zero3(), math3d.V3(1, 0, 0), math.Inf(1), true},
		{"stops short", math3d.V3(0, 0, 5), math3d.V3(0, 0, -1), 3, false},
		{"reaches face", math3d.V3(0, 0, 5), math3d.V3(0, 0, -1), 4.5, true},
		{"axis parallel outside slab", math3d.V3(0, 2, 5), math3d.V3(0, 0, -1), math.Inf(1), false},
		{"skims edge", math3d.V3(1, 1, 5), math3d.V3(0, 0, -1), math.Inf(1), true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := box.Hit(math3d.NewRay(tc.origin, tc.dir), tc.tMax); got != tc.want {
				t.Errorf("Hit() = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestBoundsOf(t *testing.T) {
	arena := surface.NewArena(6)
	a, err := surface.New(arena,
		arena.Add(math3d.V3(0, 0, 0)), arena.Add(math3d.V3(1, 0, 0)), arena.Add(math3d.V3(0, 1, 0)),
		nil, nil)
	if err != nil {
		t.Fatal(err)
	}
	b, err := surface.New(arena,
		arena.Add(math3d.V3(-2, 0, 4)), arena.Add(math3d.V3(0, 3, 4)), arena.Add(math3d.V3(0, 0, -1)),
		nil, nil)
	if err != nil {
		t.Fatal(err)
	}

	box := BoundsOf([]*surface.Surface{a, b})
	if box.Min != math3d.V3(-2, 0, -1) || box.Max != math3d.V3(1, 3, 4) {
		t.Errorf("BoundsOf = %v, want min (-2, 0, -1) max (1, 3, 4)", box)
	}

	if !BoundsOf(nil).IsEmpty() {
		t.Error("BoundsOf(nil) should be empty")
	}
}

func BenchmarkAABBHit(b *testing.B) {
	box := NewAABB(math3d.V3(-1, -1, -1), math3d.V3(1, 1, 1))
	ray := math3d.NewRay(math3d.V3(5, 5, 5), math3d.V3(-1, -1, -1).Normalize())

	for b.Loop() {
		_ = box.Hit(ray, math.Inf(1))
	}
}

func BenchmarkAABBTransform(b *testing.B) {
	box := NewAABB(math3d.V3(-1, -1, -1), math3d.V3(1, 1, 1))
	trans := math3d.Translate(math3d.V3(10, 0, 0)).Mul(math3d.RotateY(0.5))

	for b.Loop() {
		_ = box.Transform(trans)
	}
}
