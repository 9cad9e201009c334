package pdf

import "math"

// TransformationMatrix is an affine matrix [a b c d e f] with the implicit
// third column 0 0 1, using the PDF row-vector convention.
//
// The operations prepend to the matrix: calling Translate, Rotate and Scale in
// this order maps a point by scaling first, then rotating, then translating.
type TransformationMatrix struct {
	A, B, C, D, E, F float64
}

// Identity returns the identity matrix.
func Identity() TransformationMatrix {
	return TransformationMatrix{A: 1, D: 1}
}

// Translate prepends a translation.
func (m *TransformationMatrix) Translate(tx, ty float64) {
	m.E += tx*m.A + ty*m.C
	m.F += tx*m.B + ty*m.D
}

// Scale prepends a scaling. It does nothing if both factors are 1.
func (m *TransformationMatrix) Scale(sx, sy float64) {
	if sx == 1 && sy == 1 {
		return
	}
	m.A *= sx
	m.B *= sx
	m.C *= sy
	m.D *= sy
}

// Rotate prepends a counterclockwise rotation by angle radians. It does
// nothing if the angle is 0.
func (m *TransformationMatrix) Rotate(angle float64) {
	if angle == 0 {
		return
	}
	sin, cos := math.Sincos(angle)
	a, b, c, d := m.A, m.B, m.C, m.D
	m.A = cos*a + sin*c
	m.B = cos*b + sin*d
	m.C = -sin*a + cos*c
	m.D = -sin*b + cos*d
}

// Apply maps the point (x, y).
func (m TransformationMatrix) Apply(x, y float64) (float64, float64) {
	return x*m.A + y*m.C + m.E, x*m.B + y*m.D + m.F
}

// IsIdentity reports whether m leaves every point unchanged.
func (m TransformationMatrix) IsIdentity() bool {
	return m == Identity()
}
