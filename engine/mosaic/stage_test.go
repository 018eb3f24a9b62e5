package mosaic

import (
	"context"
	"fmt"
	"image/color"
	"strings"
	"sync"
	"testing"

	"github.com/memmaker/glyphmosaic/engine/glyph"
	"github.com/pkg/errors"
	"golang.org/x/image/font"
)

type recordingLogger struct {
	mu     sync.Mutex
	infos  []string
	errors []string
}

func (l *recordingLogger) Infof(component, format string, args ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.infos = append(l.infos, component+": "+fmt.Sprintf(format, args...))
}

func (l *recordingLogger) Errorf(component, format string, args ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.errors = append(l.errors, component+": "+fmt.Sprintf(format, args...))
}

// sizeLimitedSource fails for faces larger than limit.
type sizeLimitedSource struct {
	limit float64
}

func (s sizeLimitedSource) Name() string { return "limited" }

func (s sizeLimitedSource) Face(size float64) (font.Face, error) {
	if size > s.limit {
		return nil, errors.Errorf("no surface for %vpx", size)
	}
	return glyph.GoMono().Face(size)
}

func TestEmptyCharacterSetRejected(t *testing.T) {
	logger := &recordingLogger{}
	stage := NewStage(nil, logger)
	err := stage.Rebuild(GlyphSet{Characters: "", FontSize: 54})
	if !errors.Is(err, ErrConfigurationDegenerate) {
		t.Fatalf("expected ErrConfigurationDegenerate, got %v", err)
	}
	if stage.Atlas() != nil {
		t.Errorf("no atlas expected after a rejected set")
	}
	if len(logger.errors) != 1 {
		t.Errorf("expected one logged error, got %v", logger.errors)
	}

	// without an atlas the stage passes frames through
	src := solidImage(20, 20, color.NRGBA{R: 7, G: 8, B: 9, A: 255})
	out, err := stage.Composite(context.Background(), src, DefaultConfig())
	if err != nil {
		t.Fatal(err)
	}
	if out.NRGBAAt(19, 10) != src.NRGBAAt(19, 10) {
		t.Errorf("expected pass-through")
	}
}

func TestNonPositiveFontSizeRejected(t *testing.T) {
	stage := NewStage(nil, nil)
	for _, size := range []float64{0, -1} {
		if err := stage.Rebuild(GlyphSet{Characters: "01", FontSize: size}); !errors.Is(err, ErrConfigurationDegenerate) {
			t.Errorf("size %v: expected ErrConfigurationDegenerate, got %v", size, err)
		}
	}
}

func TestRebuildSwapsAndNotifies(t *testing.T) {
	stage := NewStage(glyph.NewBuilder(glyph.GoMono()), nil)
	var received []*glyph.Atlas
	stage.Subscribe(func(atlas *glyph.Atlas) error {
		received = append(received, atlas)
		return nil
	})

	if err := stage.Rebuild(GlyphSet{Characters: "01", FontSize: 54}); err != nil {
		t.Fatal(err)
	}
	first := stage.Atlas()
	if first == nil || first.GlyphCount() != 2 {
		t.Fatalf("unexpected atlas %+v", first)
	}

	if err := stage.Rebuild(GlyphSet{Characters: "01", FontSize: 54}); err != nil {
		t.Fatal(err)
	}
	if stage.Atlas() != first {
		t.Errorf("rebuilding the same set should keep the atlas")
	}

	if err := stage.Rebuild(GlyphSet{Characters: " .:-=+*#%@", FontSize: 40}); err != nil {
		t.Fatal(err)
	}
	second := stage.Atlas()
	if second == first || second.GlyphCount() != 10 {
		t.Errorf("expected a new atlas with 10 glyphs")
	}
	if len(received) != 2 || received[0] != first || received[1] != second {
		t.Errorf("subscriber saw %d atlases", len(received))
	}
	if stage.GlyphSet().FontSize != 40 {
		t.Errorf("glyph set not recorded: %+v", stage.GlyphSet())
	}
}

func TestFailedRebuildKeepsPreviousAtlas(t *testing.T) {
	logger := &recordingLogger{}
	stage := NewStage(glyph.NewBuilder(sizeLimitedSource{limit: 60}), logger)
	notified := 0
	stage.Subscribe(func(*glyph.Atlas) error {
		notified++
		return nil
	})

	if err := stage.Rebuild(GlyphSet{Characters: "01", FontSize: 54}); err != nil {
		t.Fatal(err)
	}
	good := stage.Atlas()

	err := stage.Rebuild(GlyphSet{Characters: "01", FontSize: 80})
	if !errors.Is(err, glyph.ErrResourceUnavailable) {
		t.Fatalf("expected ErrResourceUnavailable, got %v", err)
	}
	if stage.Atlas() != good {
		t.Errorf("previous atlas should stay in use")
	}
	if stage.GlyphSet().FontSize != 54 {
		t.Errorf("glyph set should not change on failure")
	}
	if notified != 1 {
		t.Errorf("subscribers should only hear about successful swaps, got %d", notified)
	}
	if len(logger.errors) != 1 {
		t.Errorf("expected the failure to be logged, got %v", logger.errors)
	}
}

func TestRejectedDeliveryIsReported(t *testing.T) {
	logger := &recordingLogger{}
	stage := NewStage(nil, logger)
	var delivered *glyph.Atlas
	stage.Subscribe(func(atlas *glyph.Atlas) error {
		if atlas.GlyphCount() > 2 {
			return errors.New("upload failed")
		}
		delivered = atlas
		return nil
	})
	stage.Subscribe(func(*glyph.Atlas) error { return nil })

	if err := stage.Rebuild(GlyphSet{Characters: "01", FontSize: 54}); err != nil {
		t.Fatal(err)
	}
	first := delivered

	err := stage.Rebuild(GlyphSet{Characters: "012", FontSize: 54})
	if !errors.Is(err, ErrNotDelivered) {
		t.Fatalf("expected ErrNotDelivered, got %v", err)
	}
	if stage.Atlas() == nil || stage.Atlas().GlyphCount() != 3 {
		t.Errorf("the CPU path should use the new atlas")
	}
	if delivered != first {
		t.Errorf("subscriber should keep its previous atlas")
	}
	if len(logger.errors) != 1 || !strings.Contains(logger.errors[0], "stage holds 3 glyphs") {
		t.Errorf("expected the mismatch to be logged, got %v", logger.errors)
	}
}

func TestReadersSeeWholeAtlases(t *testing.T) {
	stage := NewStage(nil, nil)
	if err := stage.Rebuild(GlyphSet{Characters: "01", FontSize: 54}); err != nil {
		t.Fatal(err)
	}
	sets := []GlyphSet{
		{Characters: "0123", FontSize: 30},
		{Characters: "ab", FontSize: 20},
		{Characters: " .:-=+*#%@", FontSize: 54},
	}

	var wg sync.WaitGroup
	done := make(chan struct{})
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				select {
				case <-done:
					return
				default:
				}
				atlas := stage.Atlas()
				if atlas == nil || atlas.Image == nil || atlas.GlyphCount() == 0 {
					t.Errorf("reader saw an incomplete atlas")
					return
				}
			}
		}()
	}
	for _, set := range sets {
		if err := stage.Rebuild(set); err != nil {
			t.Error(err)
		}
	}
	close(done)
	wg.Wait()
	if stage.Atlas().GlyphCount() != 10 {
		t.Errorf("last rebuild should win")
	}
}
