package raster

import (
	"github.com/taigrr/raster/pkg/math3d"
	"github.com/taigrr/raster/pkg/models"
)

// RendererState is the parameter block the scene driver consumes for one
// frame: camera placement, the light direction/position, which buffer to
// present, and the mesh and textures to render.
type RendererState struct {
	Eye, Center, Up math3d.Vec3
	LightDir        math3d.Vec3

	DisplayBuffer DisplayBuffer

	Mesh    *models.Mesh
	Diffuse *Texture
	Normal  *Texture

	// MaterialDiffuse overrides Diffuse for faces whose Mesh.Materials
	// index has an entry here, keyed by Mesh.Face.Material. A face with
	// no entry (or Material == -1) renders with Diffuse, unchanged from a
	// mesh with no materials at all.
	MaterialDiffuse map[int]*Texture
}

// Scene owns the long-lived framebuffer and shadow texture a two-pass
// render writes into, and runs the depth + beauty passes.
type Scene struct {
	FB         *Framebuffer
	shadow     *Texture
	cameraClip math3d.Mat4
}

// NewScene allocates a scene with a framebuffer of the given dimensions.
func NewScene(width, height int) *Scene {
	return &Scene{FB: NewFramebuffer(width, height)}
}

// Render runs a two-pass render: a depth pass from the light's viewpoint
// snapshotted into a shadow texture, then a cleared beauty pass from the
// camera using that shadow texture and a reprojection matrix back into
// the light's clip space.
func (s *Scene) Render(state RendererState) {
	w, h := float64(s.FB.Width), float64(s.FB.Height)
	s.FB.Viewport = Viewport(w/8, h/8, 3*w/4, 3*h/4)

	up := state.Up.Normalize()

	// Depth pass: orthographic from the light's position.
	lightModelView := LookAt(state.LightDir, state.Center, up)
	lightProjection := Projection(0)

	depth := &DepthShader{
		ModelView:  lightModelView,
		Projection: lightProjection,
	}
	s.renderPass(state.Mesh, depth)

	s.shadow = s.FB.SnapshotColor()
	lightMatrix := s.FB.Viewport.Mul(lightProjection).Mul(lightModelView)

	s.FB.Clear()

	// Beauty pass: perspective from the camera, with shadow comparison
	// against the depth pass's output.
	eyeDist := state.Eye.Sub(state.Center).Len()
	camModelView := LookAt(state.Eye, state.Center, up)
	camProjection := Projection(1 / eyeDist)

	cameraClipFromWorld := camProjection.Mul(camModelView)
	s.cameraClip = cameraClipFromWorld
	shadowMatrix := lightMatrix.Mul(cameraClipFromWorld.Inverse())

	aabb := NewAABB(state.Mesh.BoundsMin, state.Mesh.BoundsMax)
	if aabb.TriviallyOffscreen(cameraClipFromWorld) {
		return
	}

	phongBase := PhongShader{
		ModelView:    camModelView,
		Projection:   camProjection,
		LightDir:     state.LightDir.Normalize(),
		Normal:       state.Normal,
		Shadow:       s.shadow,
		ShadowMatrix: shadowMatrix,
	}
	for _, g := range groupFacesByDiffuse(state.Mesh, state.MaterialDiffuse, state.Diffuse) {
		shader := phongBase
		shader.Diffuse = g.diffuse
		s.renderFaces(state.Mesh, g.faces, &shader)
	}
}

// faceGroup is a set of face indices that share a resolved diffuse
// texture, one render pass's worth of work under a single PhongShader.
type faceGroup struct {
	diffuse *Texture
	faces   []int
}

// groupFacesByDiffuse partitions mesh's faces by the diffuse texture each
// one renders with: fallback for any face with no material or whose
// material has no override, and one group per distinct override texture
// otherwise. A mesh with no materials (or no overrides) always produces a
// single group covering every face, identical to rendering without
// per-face materials at all.
func groupFacesByDiffuse(mesh *models.Mesh, overrides map[int]*Texture, fallback *Texture) []faceGroup {
	if len(overrides) == 0 {
		all := make([]int, len(mesh.Faces))
		for i := range all {
			all[i] = i
		}
		return []faceGroup{{diffuse: fallback, faces: all}}
	}

	byTex := map[*Texture]int{}
	var groups []faceGroup
	for i := range mesh.Faces {
		tex := fallback
		if t, ok := overrides[mesh.GetFaceMaterial(i)]; ok && t != nil {
			tex = t
		}
		gi, seen := byTex[tex]
		if !seen {
			gi = len(groups)
			byTex[tex] = gi
			groups = append(groups, faceGroup{diffuse: tex})
		}
		groups[gi].faces = append(groups[gi].faces, i)
	}
	return groups
}

// renderPass runs shader over every face of mesh, feeding three Vertex
// calls (w=1 for position, w=0 for normal) followed by one Rasterize call.
func (s *Scene) renderPass(mesh *models.Mesh, shader Shader) {
	all := make([]int, len(mesh.Faces))
	for i := range all {
		all[i] = i
	}
	s.renderFaces(mesh, all, shader)
}

// renderFaces is renderPass narrowed to a face index subset, letting the
// beauty pass switch the active shader's diffuse texture per material
// group without re-running the depth pass.
func (s *Scene) renderFaces(mesh *models.Mesh, faces []int, shader Shader) {
	for _, i := range faces {
		var clip [3]math3d.Vec4
		for c := range 3 {
			pos, normal, uv := mesh.FaceVertex(i, c)
			clip[c] = shader.Vertex(
				math3d.V4FromV3(pos, 1),
				math3d.V4FromV3(normal, 0),
				uv,
				c,
			)
		}
		Rasterize(clip, shader, s.FB)
	}
}

// Shadow returns the shadow texture snapshotted by the most recent Render
// call's depth pass, or nil if Render has not run yet.
func (s *Scene) Shadow() *Texture {
	return s.shadow
}

// CameraClipFromWorld returns the most recent Render call's beauty-pass
// projection*modelview matrix, letting a caller project world-space points
// into the same screen space the beauty pass rasterized into (e.g. to draw
// a wireframe overlay without duplicating the camera setup).
func (s *Scene) CameraClipFromWorld() math3d.Mat4 {
	return s.cameraClip
}
