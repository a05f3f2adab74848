package asset

import (
	"math"

	"github.com/achilleasa/embers/render"
	"github.com/achilleasa/embers/types"
)

// Material holds the subset of wavefront material properties used for
// flat shading.
type Material struct {
	Name string

	// Diffuse, specular and emissive colors.
	Kd types.Vec3
	Ks types.Vec3
	Ke types.Vec3

	// Specular exponent.
	Ns float32

	// Dissolve factor; 1 is fully opaque.
	D float32

	// Diffuse texture path as it appears in the material library and the
	// loaded texture, if it could be read.
	KdTex     string
	KdTexture *Texture
}

// Get the flat diffuse color. A diffuse texture modulates Kd by its
// average color.
func (m *Material) Diffuse() types.Vec3 {
	if m.KdTexture == nil {
		return m.Kd
	}
	avg := m.KdTexture.Average()
	return types.Vec3{m.Kd[0] * avg[0], m.Kd[1] * avg[1], m.Kd[2] * avg[2]}
}

// The material assigned to faces that do not select one.
func defaultMaterial() *Material {
	return &Material{Kd: types.Vec3{0.7, 0.7, 0.7}, D: 1}
}

// A triangular face referencing a model material.
type Face struct {
	Vertices [3]types.Vec3
	Normals  [3]types.Vec3

	// Index into Model.Materials.
	Material int
}

// Get the geometric face normal.
func (f *Face) Normal() types.Vec3 {
	e01 := f.Vertices[1].Sub(f.Vertices[0])
	e02 := f.Vertices[2].Sub(f.Vertices[0])
	return e01.Cross(e02).Normalize()
}

// A named group of faces.
type Mesh struct {
	Name  string
	Faces []Face
}

// Model is a parsed wavefront model.
type Model struct {
	Name      string
	Meshes    []*Mesh
	Materials []*Material
}

// Get the total number of triangles in the model.
func (m *Model) TriangleCount() int {
	count := 0
	for _, mesh := range m.Meshes {
		count += len(mesh.Faces)
	}
	return count
}

// Get the model axis-aligned bounding box. An empty model returns a zero box.
func (m *Model) BBox() [2]types.Vec3 {
	min := types.XYZ(math.MaxFloat32, math.MaxFloat32, math.MaxFloat32)
	max := types.XYZ(-math.MaxFloat32, -math.MaxFloat32, -math.MaxFloat32)
	empty := true
	for _, mesh := range m.Meshes {
		for _, face := range mesh.Faces {
			for _, v := range face.Vertices {
				min = types.MinVec3(min, v)
				max = types.MaxVec3(max, v)
				empty = false
			}
		}
	}
	if empty {
		return [2]types.Vec3{}
	}
	return [2]types.Vec3{min, max}
}

// Convert the model into render meshes, one per model mesh. Each mesh uses
// the transform T(translation) * R(rotation) * S(scale) where rotation is a
// set of euler angles in degrees.
func (m *Model) RenderMeshes(translation, rotation types.Vec3, scale float32) []*render.Mesh {
	transform := types.Translate4(translation).
		Mul4(types.QuatFromEuler(rotation).Mat4()).
		Mul4(types.Scale4(types.XYZ(scale, scale, scale)))

	out := make([]*render.Mesh, 0, len(m.Meshes))
	for _, mesh := range m.Meshes {
		tris := make([]render.Triangle, len(mesh.Faces))
		for i := range mesh.Faces {
			face := &mesh.Faces[i]
			color := types.Vec3{0.7, 0.7, 0.7}
			if face.Material >= 0 && face.Material < len(m.Materials) {
				color = m.Materials[face.Material].Diffuse()
			}
			tris[i] = render.Triangle{
				Vertices: face.Vertices,
				Normal:   face.Normal(),
				Color:    color,
			}
		}

		rm := render.NewMesh(mesh.Name, tris)
		rm.Transform = transform
		out = append(out, rm)
	}
	return out
}
