package analysis

import (
	"math"
	"testing"
)

func TestGeometryFor(t *testing.T) {
	g := GeometryFor(400, 300)
	if g.CenterX != 200 || g.CenterY != 150 {
		t.Errorf("Center = (%f, %f), want (200, 150)", g.CenterX, g.CenterY)
	}
	if math.Abs(g.Scale-135) > 1e-9 {
		t.Errorf("Scale = %f, want 135", g.Scale)
	}
}

func TestProjectorMonoOnVerticalAxis(t *testing.T) {
	g := GeometryFor(245, 276)
	p := NewProjector(g, DefaultControls())

	values := []float32{-1, -0.731, -0.5, -1e-7, 0, 1e-7, 0.25, 0.333, 0.9999, 1, 1.7}
	for _, v := range values {
		pt := p.Project(v, v)
		if pt.X != g.CenterX {
			t.Errorf("Mono %g projected to x=%v, want exactly %v", v, pt.X, g.CenterX)
		}
	}
}

func TestProjectorTransform(t *testing.T) {
	g := Geometry{CenterX: 100, CenterY: 50, Scale: 40}
	p := NewProjector(g, DefaultControls())

	tests := []struct {
		name  string
		left  float32
		right float32
	}{
		{"origin", 0, 0},
		{"left only", 1, 0},
		{"right only", 0, 1},
		{"inverted", 0.5, -0.5},
		{"mixed", 0.3, -0.8},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l, r := float64(tt.left), float64(tt.right)
			wantX := g.CenterX + (l-r)*invSqrt2*g.Scale
			wantY := g.CenterY - (l+r)*invSqrt2*g.Scale

			pt := p.Project(tt.left, tt.right)
			if math.Abs(pt.X-wantX) > 1e-12 || math.Abs(pt.Y-wantY) > 1e-12 {
				t.Errorf("Project(%f, %f) = (%f, %f), want (%f, %f)",
					tt.left, tt.right, pt.X, pt.Y, wantX, wantY)
			}
		})
	}
}

// TestProjectorChannelOrientation pins the channel-to-axis mapping:
// physical left drives positive x, so a left-only signal is drawn up and to
// the right and a right-only signal up and to the left.
func TestProjectorChannelOrientation(t *testing.T) {
	g := GeometryFor(200, 200)
	p := NewProjector(g, DefaultControls())

	left := p.Project(1, 0)
	if !(left.X > g.CenterX && left.Y < g.CenterY) {
		t.Errorf("Left-only point %+v should be upper-right of center", left)
	}

	right := p.Project(0, 1)
	if !(right.X < g.CenterX && right.Y < g.CenterY) {
		t.Errorf("Right-only point %+v should be upper-left of center", right)
	}

	// Swapping the channels mirrors the figure around the vertical axis
	a := p.Project(0.8, 0.1)
	b := p.Project(0.1, 0.8)
	if math.Abs((a.X-g.CenterX)+(b.X-g.CenterX)) > 1e-12 || a.Y != b.Y {
		t.Errorf("Swapped pair should mirror: %+v vs %+v", a, b)
	}

	// Out of phase signal lies on the horizontal axis
	side := p.Project(0.5, -0.5)
	if side.Y != g.CenterY {
		t.Errorf("Inverted pair should lie on the horizontal axis, got %+v", side)
	}
}

func TestProjectorWidth(t *testing.T) {
	g := Geometry{Scale: 1}

	narrow := NewProjector(g, Controls{Rotation: RotationMax, Width: 0})
	if pt := narrow.Project(1, 0); math.Abs(pt.X) > 1e-12 {
		t.Errorf("Width 0 should collapse onto the mono axis, got x=%f", pt.X)
	}

	normal := NewProjector(g, DefaultControls())
	wide := NewProjector(g, Controls{Rotation: RotationMax, Width: WidthMax})
	n := normal.Project(1, 0)
	w := wide.Project(1, 0)
	if math.Abs(w.X-2*n.X) > 1e-12 {
		t.Errorf("Width 200 should double the side component: %f vs %f", w.X, n.X)
	}
	if w.Y != n.Y {
		t.Errorf("Width must not change the mid component: %f vs %f", w.Y, n.Y)
	}
}

func TestProjectorRotation(t *testing.T) {
	g := Geometry{Scale: 1}

	// Rotation 0 is the XY view: left horizontal, right vertical
	xy := NewProjector(g, Controls{Rotation: RotationMin, Width: WidthDefault})
	l, r := float32(0.3), float32(0.6)
	pt := xy.Project(l, r)
	if math.Abs(pt.X-float64(l)) > 1e-9 || math.Abs(pt.Y+float64(r)) > 1e-9 {
		t.Errorf("XY projection = %+v, want (%v, %v)", pt, float64(l), -float64(r))
	}

	// Rotation preserves distance from center
	half := NewProjector(g, Controls{Rotation: 50, Width: WidthDefault})
	upright := NewProjector(g, DefaultControls())
	a := half.Project(0.7, -0.2)
	b := upright.Project(0.7, -0.2)
	if math.Abs(math.Hypot(a.X, a.Y)-math.Hypot(b.X, b.Y)) > 1e-9 {
		t.Errorf("Rotation changed radius: %f vs %f", math.Hypot(a.X, a.Y), math.Hypot(b.X, b.Y))
	}
}

func TestControlsClamp(t *testing.T) {
	c := Controls{Rotation: 150, Width: -3}.Clamp()
	if c.Rotation != RotationMax || c.Width != WidthMin {
		t.Errorf("Clamp = %+v", c)
	}

	p := NewProjector(Geometry{}, Controls{Rotation: -10, Width: 500})
	if got := p.Controls(); got.Rotation != RotationMin || got.Width != WidthMax {
		t.Errorf("Projector controls not clamped: %+v", got)
	}
}

func TestProjectorPointsRestartable(t *testing.T) {
	left := sineBlock(1024, 440, 44100)
	right := sineBlock(1024, 660, 44100)
	p := NewProjector(GeometryFor(300, 300), DefaultControls())
	seq := p.Points(left, right)

	var first, second []Point
	for pt := range seq {
		first = append(first, pt)
	}
	for pt := range seq {
		second = append(second, pt)
	}

	if len(first) != 1024 || len(second) != 1024 {
		t.Fatalf("Sequence lengths %d and %d, want 1024", len(first), len(second))
	}
	for i := range first {
		if first[i] != second[i] {
			t.Fatalf("Point %d differs between passes", i)
		}
		if want := p.Project(left[i], right[i]); first[i] != want {
			t.Fatalf("Point %d = %+v, want %+v", i, first[i], want)
		}
	}

	// Early termination stops the sequence
	count := 0
	for range seq {
		count++
		if count == 10 {
			break
		}
	}
	if count != 10 {
		t.Errorf("Early break yielded %d points", count)
	}
}

func TestProjectorPointsSnapshotControls(t *testing.T) {
	left := []float32{1}
	right := []float32{0}
	p := NewProjector(Geometry{Scale: 1}, DefaultControls())
	seq := p.Points(left, right)

	p.SetControls(Controls{Rotation: RotationMax, Width: 0})

	for pt := range seq {
		if pt.X == 0 {
			t.Error("Sequence should keep the controls it was created with")
		}
	}
}
