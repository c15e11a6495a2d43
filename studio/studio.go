// Package studio drives the interactive edit/preview loop. Every edit
// publishes a full immutable Configuration snapshot; the session
// coalesces pending snapshots so at most one render is in flight and
// only the newest pending edit survives.
package studio

import (
	"context"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"net/http"
	"os"
	"strings"

	"go.uber.org/zap"

	"github.com/ByLCY/safescan/config"
	"github.com/ByLCY/safescan/encode"
	"github.com/ByLCY/safescan/preview"
)

// Frame is one finished preview render.
type Frame struct {
	Config config.Configuration
	SVG    []byte
	Err    error
}

// ImageLoader fetches a background image from a file path or URL.
type ImageLoader func(ctx context.Context, source string) (image.Image, error)

type bgResult struct {
	gen int
	img image.Image
}

// Session owns the render loop for one open document.
type Session struct {
	prev   *preview.Renderer
	log    *zap.SugaredLogger
	loader ImageLoader

	updates   chan config.Configuration
	frames    chan Frame
	bgResults chan bgResult

	// loop-owned state, touched only inside Run
	bgGen    int
	bgSource string
	bgImage  image.Image
	lastCfg  *config.Configuration
}

// NewSession creates a session around a preview renderer.
func NewSession(prev *preview.Renderer, log *zap.SugaredLogger) *Session {
	if prev == nil {
		prev = preview.New(nil)
	}
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &Session{
		prev:      prev,
		log:       log,
		loader:    LoadImage,
		updates:   make(chan config.Configuration, 1),
		frames:    make(chan Frame, 1),
		bgResults: make(chan bgResult, 1),
	}
}

// Update publishes a new configuration snapshot. It never blocks: if an
// earlier snapshot is still pending it is replaced, so a burst of edits
// collapses into one render of the newest state.
func (s *Session) Update(cfg config.Configuration) {
	for {
		select {
		case s.updates <- cfg:
			return
		default:
		}
		select {
		case <-s.updates:
		default:
		}
	}
}

// Frames returns the stream of finished previews. Like Update, delivery
// is last-write-wins: a slow consumer only ever sees the newest frame.
func (s *Session) Frames() <-chan Frame {
	return s.frames
}

// Run processes updates until ctx is cancelled. Render failures are
// reported on the frame, background failures are logged; neither stops
// the loop.
func (s *Session) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case cfg := <-s.updates:
			s.lastCfg = &cfg
			s.syncBackground(ctx, cfg)
			s.render(cfg)
		case res := <-s.bgResults:
			if res.gen != s.bgGen {
				continue // superseded while loading
			}
			s.bgImage = res.img
			if s.lastCfg != nil {
				s.render(*s.lastCfg)
			}
		}
	}
}

// syncBackground starts an async load when the configured source
// changed. The generation counter discards results of loads that were
// overtaken by a newer edit.
func (s *Session) syncBackground(ctx context.Context, cfg config.Configuration) {
	source := ""
	if cfg.BackgroundImage != nil {
		source = cfg.BackgroundImage.Source
	}
	if source == s.bgSource {
		return
	}
	s.bgSource = source
	s.bgImage = nil
	s.bgGen++
	if source == "" {
		return
	}

	gen := s.bgGen
	go func() {
		img, err := s.loader(ctx, source)
		if err != nil {
			s.log.Warnw("background image load failed", "source", source, "error", err)
			return
		}
		select {
		case s.bgResults <- bgResult{gen: gen, img: img}:
		case <-ctx.Done():
		}
	}()
}

func (s *Session) render(cfg config.Configuration) {
	frame := Frame{Config: cfg}

	symbol, err := encode.Encode(cfg.Content, cfg.Symbology, cfg.ECLevel)
	if err != nil {
		// invalid content renders the placeholder, not a dead frame
		s.log.Debugw("encode failed, previewing placeholder", "error", err)
		symbol = nil
	}
	frame.SVG, frame.Err = s.prev.Preview(cfg, symbol, s.bgImage)

	for {
		select {
		case s.frames <- frame:
			return
		default:
		}
		select {
		case <-s.frames:
		default:
		}
	}
}

// LoadImage is the default ImageLoader: http(s) URLs are fetched, any
// other source is treated as a local file path.
func LoadImage(ctx context.Context, source string) (image.Image, error) {
	if strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://") {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, source, nil)
		if err != nil {
			return nil, fmt.Errorf("build image request: %w", err)
		}
		resp, err := http.DefaultClient.Do(req)
		if err != nil {
			return nil, fmt.Errorf("fetch image: %w", err)
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			return nil, fmt.Errorf("fetch image: status %s", resp.Status)
		}
		img, _, err := image.Decode(resp.Body)
		if err != nil {
			return nil, fmt.Errorf("decode image: %w", err)
		}
		return img, nil
	}

	f, err := os.Open(source)
	if err != nil {
		return nil, fmt.Errorf("open image: %w", err)
	}
	defer f.Close()
	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}
	return img, nil
}
