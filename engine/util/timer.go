package util

import (
	"fmt"
	"math"
	"strings"
	"time"
)

// PassTiming collects the durations of one named render pass.
type PassTiming struct {
	name         string
	lastDuration float64

	totalDuration  float64
	executionCount int64

	minDuration float64
	maxDuration float64
}

func (t *PassTiming) Average() float64 {
	if t.executionCount == 0 {
		return 0
	}
	return t.totalDuration / float64(t.executionCount)
}

func (t *PassTiming) Last() float64 {
	return t.lastDuration
}

func (t *PassTiming) String() string {
	return fmt.Sprintf("%s %.2fms (avg %.2fms, min %.2fms, max %.2fms)", t.name, t.lastDuration, t.Average(), t.minDuration, t.maxDuration)
}

func (t *PassTiming) reset() {
	t.lastDuration = 0
	t.totalDuration = 0
	t.executionCount = 0
	t.minDuration = math.MaxFloat64
	t.maxDuration = 0
}

type Timer struct {
	passes    map[string]*PassTiming
	passNames []string
	clock     func() time.Time
}

func NewTimer() *Timer {
	return &Timer{
		passes: make(map[string]*PassTiming),
		clock:  time.Now,
	}
}

func (t *Timer) GetPass(name string) *PassTiming {
	return t.passes[name]
}

func (t *Timer) Reset() {
	for _, pass := range t.passes {
		pass.reset()
	}
}

// Summary is a one line version of String, used for the window title.
func (t *Timer) Summary() string {
	parts := make([]string, 0, len(t.passNames))
	for _, name := range t.passNames {
		parts = append(parts, fmt.Sprintf("%s %.2fms", name, t.passes[name].Average()))
	}
	return strings.Join(parts, " / ")
}

func (t *Timer) String() string {
	var sb strings.Builder
	for _, name := range t.passNames {
		sb.WriteString(t.passes[name].String())
		sb.WriteString("\n")
	}
	return sb.String()
}

// Start begins measuring the named pass. Call the returned func when the pass is done.
func (t *Timer) Start(name string) func() float64 {
	pass, ok := t.passes[name]
	if !ok {
		t.passNames = append(t.passNames, name)
		pass = &PassTiming{name: name}
		pass.reset()
		t.passes[name] = pass
	}
	start := t.clock()
	return func() float64 {
		durationInMS := float64(t.clock().Sub(start).Microseconds()) / 1000.0
		pass.lastDuration = durationInMS
		pass.totalDuration += durationInMS
		pass.executionCount++
		if durationInMS < pass.minDuration {
			pass.minDuration = durationInMS
		}
		if durationInMS > pass.maxDuration {
			pass.maxDuration = durationInMS
		}
		return durationInMS
	}
}
