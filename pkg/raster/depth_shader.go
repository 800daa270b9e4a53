package raster

import "github.com/taigrr/raster/pkg/math3d"

// DepthShader renders NDC depth as grayscale; used for the shadow-map pass.
type DepthShader struct {
	ModelView  math3d.Mat4
	Projection math3d.Mat4

	clip [3]math3d.Vec4
	ndc  [3]math3d.Vec3
}

// Vertex computes clip = projection*modelview*pos and stashes clip and its
// perspective-divided NDC position.
func (s *DepthShader) Vertex(pos, _ math3d.Vec4, _ math3d.Vec2, slot int) math3d.Vec4 {
	clip := s.Projection.MulVec4(s.ModelView.MulVec4(pos))
	s.clip[slot] = clip
	s.ndc[slot] = clip.Vec3().Scale(1 / clip.W)
	return clip
}

// Fragment interpolates NDC depth at the pixel and encodes it as grayscale.
func (s *DepthShader) Fragment(bary math3d.Vec3) (Color, bool) {
	p := s.ndc[0].Scale(bary.X).Add(s.ndc[1].Scale(bary.Y)).Add(s.ndc[2].Scale(bary.Z))
	return colorFromNDCVec3(math3d.V3(p.Z, p.Z, p.Z)), false
}
