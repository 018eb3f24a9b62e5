package glyph

import (
	"os"
	"sync"

	"github.com/golang/freetype/truetype"
	"github.com/pkg/errors"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/opentype"
)

// FaceSource hands out font faces at a pixel size. Faces are used by one Build call and closed afterwards.
type FaceSource interface {
	Name() string
	Face(sizePixels float64) (font.Face, error)
}

type goMonoSource struct {
	once   sync.Once
	parsed *opentype.Font
	err    error
}

var defaultGoMono = &goMonoSource{}

// GoMono is the default monospace face, compiled into the binary.
func GoMono() FaceSource {
	return defaultGoMono
}

func (s *goMonoSource) Name() string {
	return "Go Mono"
}

func (s *goMonoSource) Face(sizePixels float64) (font.Face, error) {
	s.once.Do(func() {
		s.parsed, s.err = opentype.Parse(gomono.TTF)
	})
	if s.err != nil {
		return nil, errors.Wrap(s.err, "parse Go Mono")
	}
	if err := checkSize(sizePixels); err != nil {
		return nil, err
	}
	// DPI 72 makes Size a pixel size.
	return opentype.NewFace(s.parsed, &opentype.FaceOptions{
		Size:    sizePixels,
		DPI:     72,
		Hinting: font.HintingFull,
	})
}

type trueTypeSource struct {
	name   string
	load   func() ([]byte, error)
	once   sync.Once
	parsed *truetype.Font
	err    error
}

// TrueTypeFile loads a TTF from disk the first time a face is requested.
func TrueTypeFile(path string) FaceSource {
	return &trueTypeSource{
		name: path,
		load: func() ([]byte, error) {
			return os.ReadFile(path)
		},
	}
}

func (s *trueTypeSource) Name() string {
	return s.name
}

func (s *trueTypeSource) Face(sizePixels float64) (font.Face, error) {
	s.once.Do(func() {
		data, err := s.load()
		if err != nil {
			s.err = errors.Wrapf(err, "read font %s", s.name)
			return
		}
		s.parsed, s.err = truetype.Parse(data)
		if s.err != nil {
			s.err = errors.Wrapf(s.err, "parse font %s", s.name)
		}
	})
	if s.err != nil {
		return nil, s.err
	}
	if err := checkSize(sizePixels); err != nil {
		return nil, err
	}
	return truetype.NewFace(s.parsed, &truetype.Options{
		Size:    sizePixels,
		DPI:     72,
		Hinting: font.HintingFull,
	}), nil
}

type basicSource struct{}

// Basic is the 7x13 bitmap face. It ignores the requested size and never fails,
// which makes it the usual fallback.
func Basic() FaceSource {
	return basicSource{}
}

func (basicSource) Name() string {
	return "basicfont 7x13"
}

func (basicSource) Face(float64) (font.Face, error) {
	return basicfont.Face7x13, nil
}

func checkSize(sizePixels float64) error {
	if !(sizePixels > 0) || sizePixels > AtlasSize {
		return errors.Errorf("font size %v px out of range", sizePixels)
	}
	return nil
}
