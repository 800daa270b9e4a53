package raster

import "github.com/taigrr/raster/pkg/math3d"

// PhongShader renders the beauty pass: tangent-space normal mapping,
// squared-falloff diffuse lighting and a shadow-map comparison against the
// depth pass's output.
type PhongShader struct {
	ModelView    math3d.Mat4
	Projection   math3d.Mat4
	LightDir     math3d.Vec3 // normalized
	Diffuse      *Texture
	Normal       *Texture
	Shadow       *Texture
	ShadowMatrix math3d.Mat4

	clip   [3]math3d.Vec4
	ndc    [3]math3d.Vec3
	uv     [3]math3d.Vec2
	normal [3]math3d.Vec3
}

// Vertex applies projection*modelview to pos, transforms the normal by the
// inverse-transpose of that matrix, and stashes clip, ndc, uv, and the
// transformed normal under slot.
func (s *PhongShader) Vertex(pos, normal math3d.Vec4, uv math3d.Vec2, slot int) math3d.Vec4 {
	pm := s.Projection.Mul(s.ModelView)
	clip := pm.MulVec4(pos)

	s.clip[slot] = clip
	s.uv[slot] = uv
	s.ndc[slot] = clip.Vec3().Scale(1 / clip.W)

	invT := pm.Inverse().Transpose()
	s.normal[slot] = invT.MulVec4(normal).Vec3()

	return clip
}

// Fragment computes a tangent-space-normal-mapped, shadow-mapped Phong
// color for the given barycentric weights.
func (s *PhongShader) Fragment(bary math3d.Vec3) (Color, bool) {
	p := s.ndc[0].Scale(bary.X).Add(s.ndc[1].Scale(bary.Y)).Add(s.ndc[2].Scale(bary.Z))
	bn := s.normal[0].Scale(bary.X).Add(s.normal[1].Scale(bary.Y)).Add(s.normal[2].Scale(bary.Z)).Normalize()
	uv := math3d.V2(
		s.uv[0].X*bary.X+s.uv[1].X*bary.Y+s.uv[2].X*bary.Z,
		s.uv[0].Y*bary.X+s.uv[1].Y*bary.Y+s.uv[2].Y*bary.Z,
	)

	ndc1 := s.ndc[1].Sub(s.ndc[0])
	ndc2 := s.ndc[2].Sub(s.ndc[0])
	a := math3d.Mat3FromRows(ndc1, ndc2, bn).Transpose()
	ai := a.Inverse()

	du1 := s.uv[1].X - s.uv[0].X
	du2 := s.uv[2].X - s.uv[0].X
	dv1 := s.uv[1].Y - s.uv[0].Y
	dv2 := s.uv[2].Y - s.uv[0].Y

	i := ai.MulVec3(math3d.V3(du1, du2, 0))
	j := ai.MulVec3(math3d.V3(dv1, dv2, 0))
	b := math3d.Mat3FromCols(i.Normalize(), j.Normalize(), bn)

	nSample := vec3NormalFromColor(s.Normal.sampleNN(uv.X, uv.Y))
	n := b.MulVec3(nSample).Normalize()

	d := n.Dot(s.LightDir.Normalize())
	if d < 0 {
		d = 0
	}
	dSq := 1 - (1-d)*(1-d)

	sbp4 := s.ShadowMatrix.MulVec4(math3d.V4FromV3(p, 1))
	sbp := math3d.V3(sbp4.X/sbp4.W, sbp4.Y/sbp4.W, sbp4.Z/sbp4.W)
	zStored := vec3NormalFromColor(s.Shadow.lookupYInvert(sbp.X, sbp.Y)).Z
	shadow := 0.3
	if zStored < sbp.Z {
		shadow = 1.0
	}

	diffuse := vec4FromColor(s.Diffuse.sampleLerp(uv.X, uv.Y))
	c := diffuse.Scale(dSq * shadow)
	return colorFromComponents(c.X, c.Y, c.Z, 255), false
}
