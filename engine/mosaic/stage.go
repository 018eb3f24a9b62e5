package mosaic

import (
	"context"
	"image"
	"sync"
	"sync/atomic"

	"github.com/memmaker/glyphmosaic/engine/glyph"
	"github.com/pkg/errors"
)

type Logger interface {
	Infof(component string, format string, args ...interface{})
	Errorf(component string, format string, args ...interface{})
}

type NoopLogger struct{}

func (NoopLogger) Infof(component, format string, args ...interface{})  {}
func (NoopLogger) Errorf(component, format string, args ...interface{}) {}

// Stage owns the current atlas and hands it to the compositing paths. Rebuilds
// construct a complete atlas before swapping it in, so readers never see a partial one.
type Stage struct {
	Logger Logger

	builder    *glyph.Builder
	compositor *Compositor
	current    atomic.Pointer[glyph.Atlas]

	mu          sync.Mutex
	glyphSet    GlyphSet
	subscribers []func(*glyph.Atlas) error
}

// ErrNotDelivered means a subscriber could not take over a new atlas. The stage still
// swapped it in, so the CPU path and that subscriber now disagree until the next rebuild.
var ErrNotDelivered = errors.New("mosaic: atlas not delivered to subscriber")

func NewStage(builder *glyph.Builder, logger Logger) *Stage {
	if builder == nil {
		builder = glyph.NewBuilder(glyph.GoMono())
	}
	if logger == nil {
		logger = NoopLogger{}
	}
	return &Stage{
		Logger:     logger,
		builder:    builder,
		compositor: NewCompositor(),
	}
}

// Rebuild validates set, builds its atlas and makes it current. On failure the previous
// atlas stays in use and the error is returned. Rebuilding the current set is a no-op.
// A subscriber refusing the new atlas does not undo the swap.
func (s *Stage) Rebuild(set GlyphSet) error {
	if err := set.Validate(); err != nil {
		s.Logger.Errorf("mosaic", "rejected glyph set: %v", err)
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.current.Load() != nil && set == s.glyphSet {
		return nil
	}

	atlas, err := s.builder.Build(set.Symbols(), set.FontSize)
	if err != nil {
		s.Logger.Errorf("mosaic", "atlas rebuild failed, keeping previous atlas: %v", err)
		return errors.Wrap(err, "rebuild atlas")
	}

	s.current.Store(atlas)
	s.glyphSet = set
	s.Logger.Infof("mosaic", "atlas ready: %d glyphs at %.1fpx", atlas.GlyphCount(), set.FontSize)

	var undelivered error
	for i, notify := range s.subscribers {
		if err := notify(atlas); err != nil {
			s.Logger.Errorf("mosaic", "subscriber %d still uses its previous atlas, stage holds %d glyphs: %v", i, atlas.GlyphCount(), err)
			if undelivered == nil {
				undelivered = errors.Wrapf(ErrNotDelivered, "subscriber %d: %v", i, err)
			}
		}
	}
	return undelivered
}

// Atlas is the current atlas, nil until the first successful rebuild.
func (s *Stage) Atlas() *glyph.Atlas {
	return s.current.Load()
}

func (s *Stage) GlyphSet() GlyphSet {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.glyphSet
}

// Subscribe registers fn to receive every newly swapped in atlas. fn runs on the
// goroutine calling Rebuild and must not call Rebuild itself. An error from fn means
// it kept its previous atlas, Rebuild reports it as ErrNotDelivered.
func (s *Stage) Subscribe(fn func(*glyph.Atlas) error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.subscribers = append(s.subscribers, fn)
}

// Composite runs the CPU compositor with the current atlas snapshot.
func (s *Stage) Composite(ctx context.Context, src image.Image, cfg Config) (*image.NRGBA, error) {
	return s.compositor.Apply(ctx, src, s.Atlas(), cfg)
}
