package render

// Scene is the root of everything a host draws: an ordered set of attached
// renderables. It is not safe for concurrent use; hosts only touch it from
// their frame loop.
type Scene struct {
	items []Renderable
	index map[uint64]int
}

// Create an empty scene.
func NewScene() *Scene {
	return &Scene{
		index: make(map[uint64]int),
	}
}

// Attach a renderable. Attaching an already attached renderable is a no-op.
func (s *Scene) Attach(r Renderable) {
	if _, exists := s.index[r.ID()]; exists {
		return
	}
	s.index[r.ID()] = len(s.items)
	s.items = append(s.items, r)
}

// Detach a renderable. Detaching an unknown renderable is a no-op.
func (s *Scene) Detach(r Renderable) {
	pos, exists := s.index[r.ID()]
	if !exists {
		return
	}

	delete(s.index, r.ID())
	copy(s.items[pos:], s.items[pos+1:])
	s.items[len(s.items)-1] = nil
	s.items = s.items[:len(s.items)-1]
	for i := pos; i < len(s.items); i++ {
		s.index[s.items[i].ID()] = i
	}
}

// Returns true if r is attached.
func (s *Scene) Has(r Renderable) bool {
	_, exists := s.index[r.ID()]
	return exists
}

// Get the number of attached renderables.
func (s *Scene) Len() int {
	return len(s.items)
}

// Visit attached renderables in attach order.
func (s *Scene) Each(fn func(Renderable)) {
	for _, r := range s.items {
		fn(r)
	}
}

// Count the vertices of all attached polylines and meshes.
func (s *Scene) VertexCount() int {
	total := 0
	for _, r := range s.items {
		switch v := r.(type) {
		case *Polyline:
			total += v.Len()
		case *Mesh:
			total += 3 * len(v.Triangles)
		}
	}
	return total
}
