package scene

import (
	"math"
	"strings"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/pkg/errors"
)

// Provider produces a renderable mesh.
type Provider interface {
	Name() string
	Mesh() (*MeshData, error)
}

type Kind int

const (
	KindTorusKnot Kind = iota
	KindBox
	KindSphere
	KindIcosahedron
	KindImported
)

var kindNames = map[Kind]string{
	KindTorusKnot:   "torusknot",
	KindBox:         "box",
	KindSphere:      "sphere",
	KindIcosahedron: "icosahedron",
	KindImported:    "imported",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "unknown"
}

func ParseKind(name string) (Kind, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for kind, kindName := range kindNames {
		if kindName == name {
			return kind, nil
		}
	}
	return KindTorusKnot, errors.Errorf("unknown primitive %q", name)
}

// NewProvider returns the provider for kind. modelPath is only used by KindImported.
func NewProvider(kind Kind, modelPath string) (Provider, error) {
	switch kind {
	case KindTorusKnot:
		return TorusKnot{P: 2, Q: 3, Radius: 1, Tube: 0.3, TubularSegments: 128, RadialSegments: 16}, nil
	case KindBox:
		return Box{Size: 1.5}, nil
	case KindSphere:
		return Sphere{Radius: 1, WidthSegments: 32, HeightSegments: 16}, nil
	case KindIcosahedron:
		return Icosahedron{Radius: 1}, nil
	case KindImported:
		if modelPath == "" {
			return nil, errors.New("no model file configured")
		}
		return Imported{Path: modelPath}, nil
	}
	return nil, errors.Errorf("unknown primitive kind %d", kind)
}

type TorusKnot struct {
	P, Q            int
	Radius, Tube    float32
	TubularSegments int
	RadialSegments  int
}

func (t TorusKnot) Name() string {
	return "torus knot"
}

func (t TorusKnot) curve(u float64) mgl32.Vec3 {
	quOverP := float64(t.Q) / float64(t.P) * u
	cs := math.Cos(quOverP)
	r := float64(t.Radius)
	return mgl32.Vec3{
		float32(r * (2 + cs) * 0.5 * math.Cos(u)),
		float32(r * (2 + cs) * 0.5 * math.Sin(u)),
		float32(r * math.Sin(quOverP) * 0.5),
	}
}

func (t TorusKnot) Mesh() (*MeshData, error) {
	if t.P <= 0 || t.Q <= 0 || t.TubularSegments < 3 || t.RadialSegments < 3 {
		return nil, errors.Errorf("torus knot needs positive p/q and at least 3 segments, got %+v", t)
	}
	mesh := &MeshData{}
	for i := 0; i <= t.TubularSegments; i++ {
		u := float64(i) / float64(t.TubularSegments) * float64(t.P) * 2 * math.Pi
		p1 := t.curve(u)
		p2 := t.curve(u + 0.01)
		tangent := p2.Sub(p1)
		normal := p2.Add(p1)
		binormal := tangent.Cross(normal).Normalize()
		normal = binormal.Cross(tangent).Normalize()

		for j := 0; j <= t.RadialSegments; j++ {
			v := float64(j) / float64(t.RadialSegments) * 2 * math.Pi
			cx := -t.Tube * float32(math.Cos(v))
			cy := t.Tube * float32(math.Sin(v))
			vertex := p1.Add(normal.Mul(cx)).Add(binormal.Mul(cy))
			mesh.Positions = append(mesh.Positions, vertex)
			mesh.Normals = append(mesh.Normals, vertex.Sub(p1).Normalize())
		}
	}
	ring := uint32(t.RadialSegments + 1)
	for j := uint32(1); j <= uint32(t.TubularSegments); j++ {
		for i := uint32(1); i <= uint32(t.RadialSegments); i++ {
			a := ring*(j-1) + (i - 1)
			b := ring*j + (i - 1)
			c := ring*j + i
			d := ring*(j-1) + i
			mesh.Indices = append(mesh.Indices, a, b, d, b, c, d)
		}
	}
	return mesh, nil
}

type Box struct {
	Size float32
}

func (b Box) Name() string {
	return "box"
}

func (b Box) Mesh() (*MeshData, error) {
	if !(b.Size > 0) {
		return nil, errors.Errorf("box size %v", b.Size)
	}
	h := b.Size / 2
	faces := []struct {
		normal, up, right mgl32.Vec3
	}{
		{mgl32.Vec3{1, 0, 0}, mgl32.Vec3{0, 1, 0}, mgl32.Vec3{0, 0, -1}},
		{mgl32.Vec3{-1, 0, 0}, mgl32.Vec3{0, 1, 0}, mgl32.Vec3{0, 0, 1}},
		{mgl32.Vec3{0, 1, 0}, mgl32.Vec3{0, 0, -1}, mgl32.Vec3{1, 0, 0}},
		{mgl32.Vec3{0, -1, 0}, mgl32.Vec3{0, 0, 1}, mgl32.Vec3{1, 0, 0}},
		{mgl32.Vec3{0, 0, 1}, mgl32.Vec3{0, 1, 0}, mgl32.Vec3{1, 0, 0}},
		{mgl32.Vec3{0, 0, -1}, mgl32.Vec3{0, 1, 0}, mgl32.Vec3{-1, 0, 0}},
	}
	mesh := &MeshData{}
	for _, face := range faces {
		center := face.normal.Mul(h)
		right := face.right.Mul(h)
		up := face.up.Mul(h)
		quad := &MeshData{
			Positions: []mgl32.Vec3{
				center.Sub(right).Sub(up),
				center.Add(right).Sub(up),
				center.Add(right).Add(up),
				center.Sub(right).Add(up),
			},
			Normals: []mgl32.Vec3{face.normal, face.normal, face.normal, face.normal},
			// counter clockwise seen from outside
			Indices: []uint32{0, 1, 2, 0, 2, 3},
		}
		mesh.append(quad)
	}
	return mesh, nil
}

type Sphere struct {
	Radius                        float32
	WidthSegments, HeightSegments int
}

func (s Sphere) Name() string {
	return "sphere"
}

func (s Sphere) Mesh() (*MeshData, error) {
	if !(s.Radius > 0) || s.WidthSegments < 3 || s.HeightSegments < 2 {
		return nil, errors.Errorf("sphere needs a positive radius and enough segments, got %+v", s)
	}
	mesh := &MeshData{}
	for y := 0; y <= s.HeightSegments; y++ {
		theta := float64(y) / float64(s.HeightSegments) * math.Pi
		for x := 0; x <= s.WidthSegments; x++ {
			phi := float64(x) / float64(s.WidthSegments) * 2 * math.Pi
			normal := mgl32.Vec3{
				float32(-math.Cos(phi) * math.Sin(theta)),
				float32(math.Cos(theta)),
				float32(math.Sin(phi) * math.Sin(theta)),
			}
			mesh.Positions = append(mesh.Positions, normal.Mul(s.Radius))
			mesh.Normals = append(mesh.Normals, normal)
		}
	}
	row := uint32(s.WidthSegments + 1)
	for y := uint32(0); y < uint32(s.HeightSegments); y++ {
		for x := uint32(0); x < uint32(s.WidthSegments); x++ {
			a := y*row + x + 1
			b := y*row + x
			c := (y+1)*row + x
			d := (y+1)*row + x + 1
			// the pole rows collapse to points, skip their degenerate halves
			if y != 0 {
				mesh.Indices = append(mesh.Indices, a, b, d)
			}
			if y != uint32(s.HeightSegments)-1 {
				mesh.Indices = append(mesh.Indices, b, c, d)
			}
		}
	}
	return mesh, nil
}

type Icosahedron struct {
	Radius float32
}

func (i Icosahedron) Name() string {
	return "icosahedron"
}

func (i Icosahedron) Mesh() (*MeshData, error) {
	if !(i.Radius > 0) {
		return nil, errors.Errorf("icosahedron radius %v", i.Radius)
	}
	t := float32((1 + math.Sqrt(5)) / 2)
	corners := []mgl32.Vec3{
		{-1, t, 0}, {1, t, 0}, {-1, -t, 0}, {1, -t, 0},
		{0, -1, t}, {0, 1, t}, {0, -1, -t}, {0, 1, -t},
		{t, 0, -1}, {t, 0, 1}, {-t, 0, -1}, {-t, 0, 1},
	}
	for k, corner := range corners {
		corners[k] = corner.Normalize().Mul(i.Radius)
	}
	mesh := &MeshData{
		Positions: corners,
		Indices: []uint32{
			0, 11, 5, 0, 5, 1, 0, 1, 7, 0, 7, 10, 0, 10, 11,
			1, 5, 9, 5, 11, 4, 11, 10, 2, 10, 7, 6, 7, 1, 8,
			3, 9, 4, 3, 4, 2, 3, 2, 6, 3, 6, 8, 3, 8, 9,
			4, 9, 5, 2, 4, 11, 6, 2, 10, 8, 6, 7, 9, 8, 1,
		},
	}
	mesh.Flatten()
	return mesh, nil
}
