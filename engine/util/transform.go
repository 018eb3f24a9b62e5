package util

import (
	"github.com/go-gl/mathgl/mgl32"
)

// Transform places a model in the world.
type Transform struct {
	translation mgl32.Vec3
	rotation    mgl32.Quat
	scale       mgl32.Vec3
	nameOfOwner string
}

func NewDefaultTransform(name string) *Transform {
	return &Transform{
		translation: mgl32.Vec3{0, 0, 0},
		rotation:    mgl32.QuatIdent(),
		scale:       mgl32.Vec3{1, 1, 1},
		nameOfOwner: name,
	}
}

func (t *Transform) GetName() string {
	return t.nameOfOwner
}

// GetTransformMatrix combines translation, rotation and scale, applied in reverse order.
func (t *Transform) GetTransformMatrix() mgl32.Mat4 {
	translation := mgl32.Translate3D(t.translation.X(), t.translation.Y(), t.translation.Z())
	rotation := t.rotation.Mat4()
	scale := mgl32.Scale3D(t.scale.X(), t.scale.Y(), t.scale.Z())
	return translation.Mul4(rotation).Mul4(scale)
}

func (t *Transform) GetPosition() mgl32.Vec3 {
	return t.translation
}

func (t *Transform) SetPosition(position mgl32.Vec3) {
	t.translation = position
}

func (t *Transform) GetRotation() mgl32.Quat {
	return t.rotation
}

func (t *Transform) SetRotation(rotation mgl32.Quat) {
	t.rotation = rotation
}

func (t *Transform) GetScale() mgl32.Vec3 {
	return t.scale
}

func (t *Transform) SetScale(scale mgl32.Vec3) {
	t.scale = scale
}
