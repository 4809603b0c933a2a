package scene

// Matrix is a 2D affine transform, in column-major Flash convention:
//
//	x' = A*x + C*y + Tx
//	y' = B*x + D*y + Ty
type Matrix struct {
	A, B, C, D float64
	Tx, Ty     float64
}

// Identity returns the identity matrix.
func Identity() Matrix {
	return Matrix{A: 1, D: 1}
}

// IsIdentity reports whether m is the identity transform.
func (m Matrix) IsIdentity() bool {
	return m == Identity()
}

// Compose returns the matrix that applies m first, then outer
// (outer·m in the usual left-to-right "applied after" reading).
func (m Matrix) Compose(outer Matrix) Matrix {
	return Matrix{
		A:  m.A*outer.A + m.B*outer.C,
		B:  m.A*outer.B + m.B*outer.D,
		C:  m.C*outer.A + m.D*outer.C,
		D:  m.C*outer.B + m.D*outer.D,
		Tx: m.Tx*outer.A + m.Ty*outer.C + outer.Tx,
		Ty: m.Tx*outer.B + m.Ty*outer.D + outer.Ty,
	}
}

// Apply transforms a point by m.
func (m Matrix) Apply(x, y float64) (float64, float64) {
	return m.A*x + m.C*y + m.Tx, m.B*x + m.D*y + m.Ty
}
