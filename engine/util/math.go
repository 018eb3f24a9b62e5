package util

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

func Sin(x float32) float32 {
	return float32(math.Sin(float64(x)))
}

func Cos(x float32) float32 {
	return float32(math.Cos(float64(x)))
}

func ToRadian(angle float32) float32 {
	return mgl32.DegToRad(angle)
}

func Clamp(value, min, max float64) float64 {
	return math.Min(math.Max(value, min), max)
}

func Clamp32(value, min, max float32) float32 {
	if value < min {
		return min
	}
	if value > max {
		return max
	}
	return value
}

// WrapAngle keeps an angle in degrees inside [0, 360).
func WrapAngle(angle float32) float32 {
	for angle >= 360 {
		angle -= 360
	}
	for angle < 0 {
		angle += 360
	}
	return angle
}
