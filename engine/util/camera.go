package util

import (
	"github.com/go-gl/mathgl/mgl32"
)

type Camera interface {
	GetViewMatrix() mgl32.Mat4
	GetProjectionMatrix() mgl32.Mat4
	GetPosition() mgl32.Vec3
}

// OrbitCamera circles a target point. Angles are in degrees, like the FPS camera.
type OrbitCamera struct {
	target          mgl32.Vec3
	distance        float32
	minDistance     float32
	maxDistance     float32
	yaw             float32
	pitch           float32
	fov             float32
	near            float32
	far             float32
	windowWidth     int
	windowHeight    int
	lookSensitivity float32
}

func NewOrbitCamera(windowWidth, windowHeight int) *OrbitCamera {
	return &OrbitCamera{
		target:          mgl32.Vec3{0, 0, 0},
		distance:        4,
		minDistance:     1.5,
		maxDistance:     20,
		yaw:             0,
		pitch:           15,
		fov:             45,
		near:            0.1,
		far:             100,
		windowWidth:     windowWidth,
		windowHeight:    windowHeight,
		lookSensitivity: 0.3,
	}
}

// ChangeAngles rotates the camera around the target. Used for mouse drag.
func (c *OrbitCamera) ChangeAngles(dx, dy float32) {
	if mgl32.Abs(dx) > 200 || mgl32.Abs(dy) > 200 {
		return
	}
	c.yaw = WrapAngle(c.yaw + dx*c.lookSensitivity)
	c.pitch = Clamp32(c.pitch+dy*c.lookSensitivity, -89, 89)
}

func (c *OrbitCamera) Zoom(delta float32) {
	c.distance = Clamp32(c.distance-delta, c.minDistance, c.maxDistance)
}

func (c *OrbitCamera) Reset() {
	c.yaw = 0
	c.pitch = 15
	c.distance = 4
}

func (c *OrbitCamera) GetAngles() (float32, float32) {
	return c.yaw, c.pitch
}

func (c *OrbitCamera) GetDistance() float32 {
	return c.distance
}

func (c *OrbitCamera) GetPosition() mgl32.Vec3 {
	yawRad := ToRadian(c.yaw)
	pitchRad := ToRadian(c.pitch)
	offset := mgl32.Vec3{
		Cos(pitchRad) * Sin(yawRad),
		Sin(pitchRad),
		Cos(pitchRad) * Cos(yawRad),
	}
	return c.target.Add(offset.Mul(c.distance))
}

func (c *OrbitCamera) GetViewMatrix() mgl32.Mat4 {
	return mgl32.LookAtV(c.GetPosition(), c.target, mgl32.Vec3{0, 1, 0})
}

func (c *OrbitCamera) GetProjectionMatrix() mgl32.Mat4 {
	aspect := float32(c.windowWidth) / float32(c.windowHeight)
	return mgl32.Perspective(ToRadian(c.fov), aspect, c.near, c.far)
}

func (c *OrbitCamera) SetScreenSize(width int, height int) {
	c.windowWidth = width
	c.windowHeight = height
}

// Get2DPixelCoordOrthographicProjectionMatrix maps pixel coordinates with the origin in the
// top-left corner to clip space.
func Get2DPixelCoordOrthographicProjectionMatrix(width, height int) mgl32.Mat4 {
	return mgl32.Ortho2D(0, float32(width), float32(height), 0)
}
