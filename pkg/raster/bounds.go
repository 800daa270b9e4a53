package raster

import "github.com/taigrr/raster/pkg/math3d"

// AABB is an axis-aligned bounding box, used by the scene driver as a
// whole-mesh early-out before a render pass: a constant-time check of
// whether the mesh can possibly contribute any fragment, never a
// per-triangle clip against the view frustum.
type AABB struct {
	Min, Max math3d.Vec3
}

// NewAABB creates an AABB from min and max points.
func NewAABB(min, max math3d.Vec3) AABB {
	return AABB{Min: min, Max: max}
}

// Center returns the center of the AABB.
func (b AABB) Center() math3d.Vec3 {
	return b.Min.Add(b.Max).Scale(0.5)
}

// Size returns the dimensions of the AABB.
func (b AABB) Size() math3d.Vec3 {
	return b.Max.Sub(b.Min)
}

// corners returns the 8 corner points of the box.
func (b AABB) corners() [8]math3d.Vec3 {
	return [8]math3d.Vec3{
		{X: b.Min.X, Y: b.Min.Y, Z: b.Min.Z},
		{X: b.Max.X, Y: b.Min.Y, Z: b.Min.Z},
		{X: b.Min.X, Y: b.Max.Y, Z: b.Min.Z},
		{X: b.Max.X, Y: b.Max.Y, Z: b.Min.Z},
		{X: b.Min.X, Y: b.Min.Y, Z: b.Max.Z},
		{X: b.Max.X, Y: b.Min.Y, Z: b.Max.Z},
		{X: b.Min.X, Y: b.Max.Y, Z: b.Max.Z},
		{X: b.Max.X, Y: b.Max.Y, Z: b.Max.Z},
	}
}

// TriviallyOffscreen projects the box's 8 corners through clipFromWorld
// (projection*modelview) and reports whether all 8 fall outside the NDC
// cube on the same axis and side — i.e. the whole mesh can be skipped for
// this pass without examining a single triangle.
func (b AABB) TriviallyOffscreen(clipFromWorld math3d.Mat4) bool {
	corners := b.corners()

	allLeft, allRight := true, true
	allBelow, allAbove := true, true
	allNear, allFar := true, true

	for _, c := range corners {
		clip := clipFromWorld.MulVec4(math3d.V4FromV3(c, 1))
		if clip.W == 0 {
			return false
		}
		ndc := clip.Vec3().Scale(1 / clip.W)

		allLeft = allLeft && ndc.X < -1
		allRight = allRight && ndc.X > 1
		allBelow = allBelow && ndc.Y < -1
		allAbove = allAbove && ndc.Y > 1
		allNear = allNear && ndc.Z < -1
		allFar = allFar && ndc.Z > 1
	}

	return allLeft || allRight || allBelow || allAbove || allNear || allFar
}
