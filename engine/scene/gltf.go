package scene

import (
	"fmt"
	"path/filepath"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/memmaker/glyphmosaic/engine/util"
	"github.com/pkg/errors"
	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"
)

// Imported loads every triangle primitive of the default scene of a glTF or GLB file,
// bakes the node transforms and normalizes the result.
type Imported struct {
	Path string
}

func (i Imported) Name() string {
	return filepath.Base(i.Path)
}

func (i Imported) Mesh() (*MeshData, error) {
	doc, err := gltf.Open(i.Path)
	if err != nil {
		return nil, errors.Wrapf(err, "open model %s", i.Path)
	}
	mesh, err := LoadGLTF(doc)
	if err != nil {
		return nil, errors.Wrapf(err, "load model %s", i.Path)
	}
	util.LogSceneInfo(fmt.Sprintf("[LoadGLTF] %s: %d vertices, %d triangles", i.Name(), mesh.VertexCount(), mesh.TriangleCount()))
	return mesh, nil
}

// LoadGLTF flattens the node hierarchy of doc's default scene into one normalized mesh.
func LoadGLTF(doc *gltf.Document) (*MeshData, error) {
	if len(doc.Scenes) == 0 {
		return nil, errors.New("document has no scenes")
	}
	defaultSceneIndex := 0
	if doc.Scene != nil {
		defaultSceneIndex = int(*doc.Scene)
	}
	if defaultSceneIndex >= len(doc.Scenes) {
		return nil, errors.Errorf("default scene %d does not exist", defaultSceneIndex)
	}

	result := &MeshData{}
	for _, nodeIndex := range doc.Scenes[defaultSceneIndex].Nodes {
		if err := appendNode(doc, result, nodeIndex, mgl32.Ident4()); err != nil {
			return nil, err
		}
	}
	if len(result.Indices) == 0 {
		return nil, errors.New("no triangles in default scene")
	}
	result.Normalize()
	return result, nil
}

func appendNode(doc *gltf.Document, result *MeshData, nodeIndex uint32, parent mgl32.Mat4) error {
	if int(nodeIndex) >= len(doc.Nodes) {
		return errors.Errorf("node %d does not exist", nodeIndex)
	}
	node := doc.Nodes[nodeIndex]
	world := parent.Mul4(localMatrix(node))

	if node.Mesh != nil {
		if int(*node.Mesh) >= len(doc.Meshes) {
			return errors.Errorf("mesh %d does not exist", *node.Mesh)
		}
		for primitiveIndex, primitive := range doc.Meshes[*node.Mesh].Primitives {
			if primitive.Mode != gltf.PrimitiveTriangles {
				util.LogSceneError(fmt.Sprintf("[LoadGLTF] skipping primitive %d of node '%s': only triangles are supported", primitiveIndex, node.Name))
				continue
			}
			part, err := loadPrimitive(doc, primitive)
			if err != nil {
				return errors.Wrapf(err, "node '%s' primitive %d", node.Name, primitiveIndex)
			}
			part.transform(world)
			result.append(part)
		}
	}

	for _, child := range node.Children {
		if err := appendNode(doc, result, child, world); err != nil {
			return err
		}
	}
	return nil
}

func localMatrix(node *gltf.Node) mgl32.Mat4 {
	matrix := mgl32.Mat4(node.MatrixOrDefault())
	if matrix != mgl32.Ident4() {
		return matrix
	}
	translation := node.TranslationOrDefault()
	rotation := node.RotationOrDefault()
	scale := node.ScaleOrDefault()
	quat := mgl32.Quat{W: rotation[3], V: mgl32.Vec3{rotation[0], rotation[1], rotation[2]}}
	return mgl32.Translate3D(translation[0], translation[1], translation[2]).
		Mul4(quat.Mat4()).
		Mul4(mgl32.Scale3D(scale[0], scale[1], scale[2]))
}

func loadPrimitive(doc *gltf.Document, primitive *gltf.Primitive) (*MeshData, error) {
	positionIndex, ok := primitive.Attributes["POSITION"]
	if !ok {
		return nil, errors.New("primitive has no positions")
	}
	var positions [][3]float32
	positions, err := modeler.ReadPosition(doc, doc.Accessors[positionIndex], positions)
	if err != nil {
		return nil, errors.Wrap(err, "read positions")
	}

	part := &MeshData{Positions: make([]mgl32.Vec3, len(positions))}
	for i, p := range positions {
		part.Positions[i] = mgl32.Vec3(p)
	}

	if primitive.Indices != nil {
		var indices []uint32
		indices, err = modeler.ReadIndices(doc, doc.Accessors[*primitive.Indices], indices)
		if err != nil {
			return nil, errors.Wrap(err, "read indices")
		}
		for _, index := range indices {
			if int(index) >= len(positions) {
				return nil, errors.Errorf("index %d out of range for %d vertices", index, len(positions))
			}
		}
		part.Indices = indices
	} else {
		part.Indices = make([]uint32, len(positions))
		for i := range part.Indices {
			part.Indices[i] = uint32(i)
		}
	}

	if normalIndex, ok := primitive.Attributes["NORMAL"]; ok {
		var normals [][3]float32
		normals, err = modeler.ReadNormal(doc, doc.Accessors[normalIndex], normals)
		if err != nil {
			return nil, errors.Wrap(err, "read normals")
		}
		if len(normals) == len(positions) {
			part.Normals = make([]mgl32.Vec3, len(normals))
			for i, n := range normals {
				part.Normals[i] = mgl32.Vec3(n)
			}
		}
	}
	if part.Normals == nil {
		part.ComputeNormals()
	}
	return part, nil
}

func (m *MeshData) transform(world mgl32.Mat4) {
	for i, p := range m.Positions {
		m.Positions[i] = world.Mul4x1(p.Vec4(1)).Vec3()
	}
	normalMatrix := world.Mat3().Inv().Transpose()
	for i, n := range m.Normals {
		transformed := normalMatrix.Mul3x1(n)
		if transformed.Len() > 0 {
			m.Normals[i] = transformed.Normalize()
		}
	}
}
