package analysis

import (
	"iter"
	"math"
)

// invSqrt2 is the 45-degree rotation coefficient.
const invSqrt2 = 1.0 / math.Sqrt2

// ScaleFactor is the fraction of the smaller drawing dimension used as the
// full-scale radius of the scope.
const ScaleFactor = 0.45

// Control ranges for the scope geometry.
const (
	RotationMin     = 0
	RotationMax     = 100
	RotationDefault = 100
	WidthMin        = 0
	WidthMax        = 200
	WidthDefault    = 100
)

// Point is a 2-D position in drawing coordinates (y grows downward).
type Point struct {
	X, Y float64
}

// Geometry describes the projection area.
type Geometry struct {
	CenterX float64
	CenterY float64
	Scale   float64
}

// GeometryFor returns the geometry for a width x height drawing area.
func GeometryFor(width, height float64) Geometry {
	return Geometry{
		CenterX: width / 2,
		CenterY: height / 2,
		Scale:   math.Min(width, height) * ScaleFactor,
	}
}

// Controls are the user-facing scope controls.
//
// Rotation tilts the display from the upright goniometer (100) back to the
// XY orientation (0) in which left is horizontal and right is vertical.
// Width scales the side (L/R difference) component in percent.
type Controls struct {
	Rotation int
	Width    int
}

// DefaultControls returns rotation 100 and width 100, the plain goniometer.
func DefaultControls() Controls {
	return Controls{Rotation: RotationDefault, Width: WidthDefault}
}

// Clamp limits both controls to their ranges.
func (c Controls) Clamp() Controls {
	c.Rotation = min(max(c.Rotation, RotationMin), RotationMax)
	c.Width = min(max(c.Width, WidthMin), WidthMax)
	return c
}

// Projector maps stereo sample pairs to scope coordinates.
//
// At default controls a pair (l, r) lands at
//
//	side = (l - r) / sqrt2
//	mid  = (l + r) / sqrt2
//	x    = CenterX + side*Scale
//	y    = CenterY - mid*Scale
//
// with l and r taken from the physical left and right channels. Mono sits
// on the vertical axis, a left-only signal on the upper-right diagonal and
// a right-only signal on the upper-left diagonal.
type Projector struct {
	geometry Geometry
	controls Controls

	width    float64
	cos, sin float64
	tilted   bool
}

// NewProjector creates a projector for the given geometry and controls.
func NewProjector(geometry Geometry, controls Controls) *Projector {
	p := &Projector{geometry: geometry}
	p.SetControls(controls)
	return p
}

// Geometry returns the projection area.
func (p *Projector) Geometry() Geometry {
	return p.geometry
}

// SetGeometry updates the projection area.
func (p *Projector) SetGeometry(geometry Geometry) {
	p.geometry = geometry
}

// Controls returns the clamped controls in use.
func (p *Projector) Controls() Controls {
	return p.controls
}

// SetControls recomputes the transform coefficients.
func (p *Projector) SetControls(controls Controls) {
	p.controls = controls.Clamp()
	p.width = float64(p.controls.Width) / 100.0

	tilt := (1.0 - float64(p.controls.Rotation)/RotationMax) * math.Pi / 4
	p.tilted = p.controls.Rotation != RotationMax
	p.cos = math.Cos(tilt)
	p.sin = math.Sin(tilt)
}

// Project maps one stereo pair to drawing coordinates.
func (p *Projector) Project(left, right float32) Point {
	l := float64(left)
	r := float64(right)

	side := (l - r) * invSqrt2 * p.width
	mid := (l + r) * invSqrt2

	if p.tilted {
		side, mid = side*p.cos+mid*p.sin, mid*p.cos-side*p.sin
	}

	return Point{
		X: p.geometry.CenterX + side*p.geometry.Scale,
		Y: p.geometry.CenterY - mid*p.geometry.Scale,
	}
}

// Points returns the lazy sequence of projected points for a block in
// buffer order. The sequence uses the controls in effect when Points was
// called and can be ranged over any number of times while the underlying
// slices are unchanged.
func (p *Projector) Points(left, right []float32) iter.Seq[Point] {
	n := min(len(left), len(right))
	q := *p
	return func(yield func(Point) bool) {
		for i := 0; i < n; i++ {
			if !yield(q.Project(left[i], right[i])) {
				return
			}
		}
	}
}
