package math3d

// Mat3 is a 3x3 matrix stored in column-major order, following the same
// memory layout convention as Mat4.
//
// Memory layout (indices):
// | 0  3  6 |
// | 1  4  7 |
// | 2  5  8 |
type Mat3 [9]float64

// Identity3 returns the 3x3 identity matrix.
func Identity3() Mat3 {
	return Mat3{
		1, 0, 0,
		0, 1, 0,
		0, 0, 1,
	}
}

// Mat3FromCols builds a matrix from three column vectors.
func Mat3FromCols(c0, c1, c2 Vec3) Mat3 {
	return Mat3{
		c0.X, c0.Y, c0.Z,
		c1.X, c1.Y, c1.Z,
		c2.X, c2.Y, c2.Z,
	}
}

// Mat3FromRows builds a matrix from three row vectors.
func Mat3FromRows(r0, r1, r2 Vec3) Mat3 {
	return Mat3{
		r0.X, r1.X, r2.X,
		r0.Y, r1.Y, r2.Y,
		r0.Z, r1.Z, r2.Z,
	}
}

// Col returns column j as a Vec3.
func (m Mat3) Col(j int) Vec3 {
	return Vec3{m[j*3], m[j*3+1], m[j*3+2]}
}

// Get returns the element at (row, col).
func (m Mat3) Get(row, col int) float64 {
	return m[row+col*3]
}

// Set sets the element at (row, col).
func (m *Mat3) Set(row, col int, val float64) {
	m[row+col*3] = val
}

// Mul multiplies two matrices: a * b.
//
//nolint:st1016 // a*b naming convention is clearer for matrix multiplication
func (a Mat3) Mul(b Mat3) Mat3 {
	var m Mat3
	for col := range 3 {
		for row := range 3 {
			var sum float64
			for k := range 3 {
				sum += a[row+k*3] * b[k+col*3]
			}
			m[row+col*3] = sum
		}
	}
	return m
}

// MulVec3 transforms a Vec3 by the matrix.
func (m Mat3) MulVec3(v Vec3) Vec3 {
	return Vec3{
		m[0]*v.X + m[3]*v.Y + m[6]*v.Z,
		m[1]*v.X + m[4]*v.Y + m[7]*v.Z,
		m[2]*v.X + m[5]*v.Y + m[8]*v.Z,
	}
}

// Transpose returns the transposed matrix.
func (m Mat3) Transpose() Mat3 {
	return Mat3{
		m[0], m[3], m[6],
		m[1], m[4], m[7],
		m[2], m[5], m[8],
	}
}

// Determinant returns the determinant of the matrix.
func (m Mat3) Determinant() float64 {
	return m[0]*(m[4]*m[8]-m[7]*m[5]) -
		m[3]*(m[1]*m[8]-m[7]*m[2]) +
		m[6]*(m[1]*m[5]-m[4]*m[2])
}

// Inverse returns the inverse of the matrix. Returns the identity matrix
// if the matrix is singular (det=0), following the rasterizer's general
// degeneracy policy of never producing NaN output.
func (m Mat3) Inverse() Mat3 {
	det := m.Determinant()
	if det == 0 {
		return Identity3()
	}
	invDet := 1.0 / det

	return Mat3{
		(m[4]*m[8] - m[7]*m[5]) * invDet,
		-(m[1]*m[8] - m[7]*m[2]) * invDet,
		(m[1]*m[5] - m[4]*m[2]) * invDet,

		-(m[3]*m[8] - m[6]*m[5]) * invDet,
		(m[0]*m[8] - m[6]*m[2]) * invDet,
		-(m[0]*m[5] - m[3]*m[2]) * invDet,

		(m[3]*m[7] - m[6]*m[4]) * invDet,
		-(m[0]*m[7] - m[6]*m[1]) * invDet,
		(m[0]*m[4] - m[3]*m[1]) * invDet,
	}
}
