package raster

import "github.com/taigrr/raster/pkg/math3d"

// Viewport builds a 4x4 matrix that maps the NDC cube [-1,1]^3 to the
// screen rectangle at pixel (x,y) with size (w,h), and depth to [0,DEPTH].
func Viewport(x, y, w, h float64) math3d.Mat4 {
	m := math3d.Identity()
	m.Set(0, 0, w/2)
	m.Set(1, 1, h/2)
	m.Set(2, 2, DepthScale/2)
	m.Set(0, 3, x+w/2)
	m.Set(1, 3, y+h/2)
	m.Set(2, 3, DepthScale/2)
	return m
}

// LookAt builds a right-handed view matrix: z = normalize(eye-center),
// x = normalize(cross(up,z)), y = normalize(cross(z,x)); the matrix rotates
// world space into the camera basis and translates center to the origin.
func LookAt(eye, center, up math3d.Vec3) math3d.Mat4 {
	z := eye.Sub(center).Normalize()
	x := up.Cross(z).Normalize()
	y := z.Cross(x)

	m := math3d.Identity()
	m.Set(0, 0, x.X)
	m.Set(0, 1, x.Y)
	m.Set(0, 2, x.Z)
	m.Set(0, 3, -x.Dot(center))

	m.Set(1, 0, y.X)
	m.Set(1, 1, y.Y)
	m.Set(1, 2, y.Z)
	m.Set(1, 3, -y.Dot(center))

	m.Set(2, 0, z.X)
	m.Set(2, 1, z.Y)
	m.Set(2, 2, z.Z)
	m.Set(2, 3, -z.Dot(center))

	return m
}

// Projection builds the identity matrix with element (row 3, col 2) set to
// coeff. The scene driver uses coeff = 1/|eye-center| for the perspective
// beauty pass and coeff = 0 for the orthographic depth pass.
func Projection(coeff float64) math3d.Mat4 {
	m := math3d.Identity()
	m.Set(3, 2, coeff)
	return m
}
