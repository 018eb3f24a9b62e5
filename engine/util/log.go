package util

import "fmt"

var GLOBAL_LOG_LEVEL = LogLevelInfo
var GLOBAL_LOG_CATEGORIES = LogMosaic | LogAtlas | LogOpenGL | LogScene | LogIO | LogSystem

type LogLevel int

const (
	LogLevelError LogLevel = 1 << iota
	LogLevelWarning
	LogLevelDebug
	LogLevelInfo
)

type LogCategory int

const (
	LogMosaic LogCategory = 1 << iota
	LogAtlas
	LogOpenGL
	LogScene
	LogIO
	LogSystem
)

// logSink is swapped out by tests that want to inspect output.
var logSink = func(txt string) {
	println(txt)
}

func log(cat LogCategory, lvl LogLevel, txt string) {
	if lvl > GLOBAL_LOG_LEVEL {
		return
	}
	if GLOBAL_LOG_CATEGORIES&cat == 0 {
		return
	}
	logSink(txt)
}

func LogMosaicInfo(txt string) {
	log(LogMosaic, LogLevelInfo, txt)
}

func LogMosaicError(txt string) {
	log(LogMosaic, LogLevelError, txt)
}

func LogAtlasInfo(txt string) {
	log(LogAtlas, LogLevelInfo, txt)
}

func LogAtlasWarning(txt string) {
	log(LogAtlas, LogLevelWarning, txt)
}

func LogAtlasError(txt string) {
	log(LogAtlas, LogLevelError, txt)
}

func LogSceneInfo(txt string) {
	log(LogScene, LogLevelInfo, txt)
}

func LogSceneError(txt string) {
	log(LogScene, LogLevelError, txt)
}

func LogSystemInfo(txt string) {
	log(LogSystem, LogLevelInfo, txt)
}

func LogIOInfo(txt string) {
	log(LogIO, LogLevelInfo, txt)
}

func LogIOError(txt string) {
	log(LogIO, LogLevelError, txt)
}

func LogGlInfo(txt string) {
	log(LogOpenGL, LogLevelInfo, txt)
}

func LogGlDebug(txt string) {
	log(LogOpenGL, LogLevelDebug, txt)
}

func LogGlError(txt string) {
	log(LogOpenGL, LogLevelError, txt)
}

func LogGlWarning(txt string) {
	log(LogOpenGL, LogLevelWarning, txt)
}

// CategoryLogger adapts the category log to the component style Logger used by
// engine/mosaic. Info goes to Info, Errorf goes to Error.
type CategoryLogger struct {
	Category LogCategory
}

func (l CategoryLogger) Infof(component string, format string, args ...interface{}) {
	log(l.Category, LogLevelInfo, fmt.Sprintf("[%s] %s", component, fmt.Sprintf(format, args...)))
}

func (l CategoryLogger) Errorf(component string, format string, args ...interface{}) {
	log(l.Category, LogLevelError, fmt.Sprintf("[%s] %s", component, fmt.Sprintf(format, args...)))
}
