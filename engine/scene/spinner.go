package scene

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/memmaker/glyphmosaic/engine/util"
)

// Spinner accumulates the rotation of the displayed mesh around the vertical axis.
type Spinner struct {
	// Speed in degrees per second.
	Speed  float32
	Paused bool
	angle  float32
}

func NewSpinner(degreesPerSecond float32) *Spinner {
	return &Spinner{Speed: degreesPerSecond}
}

func (s *Spinner) Update(elapsed float64) {
	if s.Paused {
		return
	}
	s.angle = util.WrapAngle(s.angle + s.Speed*float32(elapsed))
}

func (s *Spinner) Reset() {
	s.angle = 0
}

func (s *Spinner) TogglePause() {
	s.Paused = !s.Paused
}

// Angle in degrees, always in [0, 360).
func (s *Spinner) Angle() float32 {
	return s.angle
}

func (s *Spinner) Rotation() mgl32.Quat {
	return mgl32.QuatRotate(mgl32.DegToRad(s.angle), mgl32.Vec3{0, 1, 0})
}
