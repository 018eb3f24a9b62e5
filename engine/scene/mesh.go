// Package scene produces the meshes shown behind the mosaic pass: a few generated
// primitives and imported glTF models, all normalized to the same size.
package scene

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// MeshData is an indexed triangle list with one normal per vertex.
type MeshData struct {
	Positions []mgl32.Vec3
	Normals   []mgl32.Vec3
	Indices   []uint32
}

// FloatsPerVertex is the stride of Interleave: position then normal.
const FloatsPerVertex = 6

func (m *MeshData) VertexCount() int {
	return len(m.Positions)
}

func (m *MeshData) TriangleCount() int {
	return len(m.Indices) / 3
}

// Interleave packs positions and normals as x,y,z,nx,ny,nz per vertex.
func (m *MeshData) Interleave() []float32 {
	data := make([]float32, 0, len(m.Positions)*FloatsPerVertex)
	for i, p := range m.Positions {
		n := m.Normals[i]
		data = append(data, p[0], p[1], p[2], n[0], n[1], n[2])
	}
	return data
}

// Bounds returns the axis aligned box around all positions.
func (m *MeshData) Bounds() (mgl32.Vec3, mgl32.Vec3) {
	if len(m.Positions) == 0 {
		return mgl32.Vec3{}, mgl32.Vec3{}
	}
	lo, hi := m.Positions[0], m.Positions[0]
	for _, p := range m.Positions[1:] {
		for axis := 0; axis < 3; axis++ {
			lo[axis] = float32(math.Min(float64(lo[axis]), float64(p[axis])))
			hi[axis] = float32(math.Max(float64(hi[axis]), float64(p[axis])))
		}
	}
	return lo, hi
}

// Normalize centers the mesh on the origin and scales it uniformly so its largest
// extent spans [-1, 1].
func (m *MeshData) Normalize() {
	lo, hi := m.Bounds()
	center := lo.Add(hi).Mul(0.5)
	size := hi.Sub(lo)
	largest := float32(math.Max(float64(size.X()), math.Max(float64(size.Y()), float64(size.Z()))))
	scale := float32(1)
	if largest > 0 {
		scale = 2 / largest
	}
	for i, p := range m.Positions {
		m.Positions[i] = p.Sub(center).Mul(scale)
	}
}

// ComputeNormals replaces the normals with area weighted averages of the adjacent faces.
func (m *MeshData) ComputeNormals() {
	normals := make([]mgl32.Vec3, len(m.Positions))
	for t := 0; t+2 < len(m.Indices); t += 3 {
		a, b, c := m.Indices[t], m.Indices[t+1], m.Indices[t+2]
		faceNormal := m.Positions[b].Sub(m.Positions[a]).Cross(m.Positions[c].Sub(m.Positions[a]))
		normals[a] = normals[a].Add(faceNormal)
		normals[b] = normals[b].Add(faceNormal)
		normals[c] = normals[c].Add(faceNormal)
	}
	for i, n := range normals {
		if n.Len() > 0 {
			normals[i] = n.Normalize()
		} else {
			normals[i] = mgl32.Vec3{0, 1, 0}
		}
	}
	m.Normals = normals
}

// Flatten gives every triangle its own three vertices so it is lit with its face normal.
// Faces whose winding points towards the mesh center are flipped.
func (m *MeshData) Flatten() {
	lo, hi := m.Bounds()
	center := lo.Add(hi).Mul(0.5)
	positions := make([]mgl32.Vec3, 0, len(m.Indices))
	normals := make([]mgl32.Vec3, 0, len(m.Indices))
	indices := make([]uint32, 0, len(m.Indices))
	for t := 0; t+2 < len(m.Indices); t += 3 {
		a, b, c := m.Positions[m.Indices[t]], m.Positions[m.Indices[t+1]], m.Positions[m.Indices[t+2]]
		normal := b.Sub(a).Cross(c.Sub(a))
		if normal.Len() == 0 {
			continue
		}
		normal = normal.Normalize()
		centroid := a.Add(b).Add(c).Mul(1.0 / 3.0)
		if normal.Dot(centroid.Sub(center)) < 0 {
			b, c = c, b
			normal = normal.Mul(-1)
		}
		base := uint32(len(positions))
		positions = append(positions, a, b, c)
		normals = append(normals, normal, normal, normal)
		indices = append(indices, base, base+1, base+2)
	}
	m.Positions = positions
	m.Normals = normals
	m.Indices = indices
}

func (m *MeshData) append(other *MeshData) {
	base := uint32(len(m.Positions))
	m.Positions = append(m.Positions, other.Positions...)
	m.Normals = append(m.Normals, other.Normals...)
	for _, index := range other.Indices {
		m.Indices = append(m.Indices, base+index)
	}
}
