package render

import "github.com/achilleasa/embers/types"

// A flat shaded triangle.
type Triangle struct {
	Vertices [3]types.Vec3
	Normal   types.Vec3
	Color    types.Vec3
}

// Mesh is a static triangle soup, used for the background model.
type Mesh struct {
	id        uint64
	Name      string
	Triangles []Triangle
	Transform types.Mat4
}

// Create a mesh with an identity transform.
func NewMesh(name string, triangles []Triangle) *Mesh {
	return &Mesh{
		id:        allocID(),
		Name:      name,
		Triangles: triangles,
		Transform: types.Ident4(),
	}
}

func (m *Mesh) ID() uint64 {
	return m.id
}
