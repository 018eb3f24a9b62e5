package util

import (
	"strings"
	"testing"
	"time"

	"github.com/go-gl/mathgl/mgl32"
)

func TestWrapAngle(t *testing.T) {
	cases := map[float32]float32{0: 0, 360: 0, 370: 10, -10: 350, 725: 5}
	for in, expected := range cases {
		if got := WrapAngle(in); mgl32.Abs(got-expected) > 1e-4 {
			t.Errorf("WrapAngle(%v) = %v, expected %v", in, got, expected)
		}
	}
}

func TestOrbitCameraLooksAtTarget(t *testing.T) {
	camera := NewOrbitCamera(800, 600)
	camera.ChangeAngles(0, -50) // pitch 15 - 15 = 0
	position := camera.GetPosition()
	expected := mgl32.Vec3{0, 0, 4}
	for i := range position {
		// pitch lands a few ulps off zero, so compare absolutely
		if mgl32.Abs(position[i]-expected[i]) > 1e-5 {
			t.Errorf("camera at %v", position)
			break
		}
	}
	// the target projects to the screen center
	clip := camera.GetProjectionMatrix().Mul4(camera.GetViewMatrix()).Mul4x1(mgl32.Vec4{0, 0, 0, 1})
	if mgl32.Abs(clip.X()/clip.W()) > 1e-5 || mgl32.Abs(clip.Y()/clip.W()) > 1e-5 {
		t.Errorf("target projects to %v", clip)
	}
}

func TestOrbitCameraLimits(t *testing.T) {
	camera := NewOrbitCamera(800, 600)
	for i := 0; i < 100; i++ {
		camera.ChangeAngles(0, 150)
	}
	if _, pitch := camera.GetAngles(); pitch != 89 {
		t.Errorf("pitch not clamped: %v", pitch)
	}
	camera.ChangeAngles(500, 0)
	if yaw, _ := camera.GetAngles(); yaw != 0 {
		t.Errorf("jumps of the mouse should be ignored, yaw %v", yaw)
	}
	camera.Zoom(100)
	if camera.GetDistance() != 1.5 {
		t.Errorf("zoom in not clamped: %v", camera.GetDistance())
	}
	camera.Zoom(-100)
	if camera.GetDistance() != 20 {
		t.Errorf("zoom out not clamped: %v", camera.GetDistance())
	}
	camera.Reset()
	if yaw, pitch := camera.GetAngles(); yaw != 0 || pitch != 15 || camera.GetDistance() != 4 {
		t.Errorf("reset gave %v %v %v", yaw, pitch, camera.GetDistance())
	}
}

func TestPixelOrthographicProjection(t *testing.T) {
	projection := Get2DPixelCoordOrthographicProjectionMatrix(200, 100)
	topLeft := projection.Mul4x1(mgl32.Vec4{0, 0, 0, 1})
	bottomRight := projection.Mul4x1(mgl32.Vec4{200, 100, 0, 1})
	if !(mgl32.Vec2{topLeft.X(), topLeft.Y()}).ApproxEqual(mgl32.Vec2{-1, 1}) ||
		!(mgl32.Vec2{bottomRight.X(), bottomRight.Y()}).ApproxEqual(mgl32.Vec2{1, -1}) {
		t.Errorf("corners map to %v and %v", topLeft, bottomRight)
	}
}

func TestTransformMatrix(t *testing.T) {
	transform := NewDefaultTransform("model")
	transform.SetPosition(mgl32.Vec3{1, 2, 3})
	transform.SetScale(mgl32.Vec3{2, 2, 2})
	transform.SetRotation(mgl32.QuatRotate(mgl32.DegToRad(90), mgl32.Vec3{0, 1, 0}))
	point := transform.GetTransformMatrix().Mul4x1(mgl32.Vec4{1, 0, 0, 1}).Vec3()
	// scaled to x=2, rotated onto -z, then moved
	if !point.ApproxEqualThreshold(mgl32.Vec3{1, 2, 1}, 1e-5) {
		t.Errorf("transformed point %v", point)
	}
	if transform.GetName() != "model" {
		t.Errorf("name %s", transform.GetName())
	}
}

func TestTimer(t *testing.T) {
	timer := NewTimer()
	now := time.Unix(0, 0)
	timer.clock = func() time.Time {
		return now
	}
	stop := timer.Start("scene")
	now = now.Add(4 * time.Millisecond)
	if elapsed := stop(); elapsed != 4 {
		t.Errorf("elapsed %v", elapsed)
	}
	stop = timer.Start("scene")
	now = now.Add(2 * time.Millisecond)
	stop()
	pass := timer.GetPass("scene")
	if pass.Average() != 3 || pass.Last() != 2 {
		t.Errorf("average %v, last %v", pass.Average(), pass.Last())
	}
	if summary := timer.Summary(); summary != "scene 3.00ms" {
		t.Errorf("summary %q", summary)
	}
	timer.Reset()
	if pass.Average() != 0 {
		t.Errorf("reset kept %v", pass.Average())
	}
}

func TestCategoryLogger(t *testing.T) {
	var lines []string
	previousSink, previousLevel, previousCategories := logSink, GLOBAL_LOG_LEVEL, GLOBAL_LOG_CATEGORIES
	defer func() {
		logSink, GLOBAL_LOG_LEVEL, GLOBAL_LOG_CATEGORIES = previousSink, previousLevel, previousCategories
	}()
	logSink = func(txt string) {
		lines = append(lines, txt)
	}

	logger := CategoryLogger{Category: LogMosaic}
	logger.Infof("mosaic", "atlas ready: %d glyphs", 10)
	logger.Errorf("mosaic", "failed")
	if len(lines) != 2 || lines[0] != "[mosaic] atlas ready: 10 glyphs" || lines[1] != "[mosaic] failed" {
		t.Errorf("unexpected output %q", lines)
	}

	lines = nil
	GLOBAL_LOG_LEVEL = LogLevelWarning
	logger.Infof("mosaic", "hidden")
	LogSystemInfo("hidden")
	LogAtlasWarning("shown")
	LogGlWarning("gl shown")
	GLOBAL_LOG_CATEGORIES = LogScene
	LogAtlasError("hidden too")
	if strings.Join(lines, "|") != "shown|gl shown" {
		t.Errorf("filtering failed: %q", lines)
	}
}

func TestJson(t *testing.T) {
	type sample struct {
		Name  string
		Count int
	}
	var decoded sample
	if !FromJson(ToJson(sample{Name: "x", Count: 3}), &decoded) || decoded.Count != 3 {
		t.Errorf("round trip gave %+v", decoded)
	}
	previousSink := logSink
	defer func() { logSink = previousSink }()
	logSink = func(string) {}
	if FromJson("{", &decoded) {
		t.Errorf("broken json accepted")
	}
}
