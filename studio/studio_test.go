package studio

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/ByLCY/safescan/config"
	"github.com/ByLCY/safescan/symbology"
)

func mustParse(t *testing.T, name string) symbology.Symbology {
	t.Helper()
	sym, err := symbology.Parse(name)
	if err != nil {
		t.Fatalf("Parse(%q): %v", name, err)
	}
	return sym
}

func TestUpdateCoalescesToNewest(t *testing.T) {
	s := NewSession(nil, nil)

	// Burst of edits before the loop runs: only the last may survive.
	for i := 0; i < 5; i++ {
		cfg := config.New()
		cfg.Content = strings.Repeat("x", i+1)
		s.Update(cfg)
	}

	pending := <-s.updates
	if pending.Content != "xxxxx" {
		t.Fatalf("pending content = %q, want newest edit", pending.Content)
	}
	select {
	case extra := <-s.updates:
		t.Fatalf("unexpected second pending update %q", extra.Content)
	default:
	}
}

func TestRunRendersNewestFrame(t *testing.T) {
	s := NewSession(nil, nil)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go s.Run(ctx)

	cfg := config.New()
	cfg.Content = "https://example.com"
	s.Update(cfg)

	select {
	case frame := <-s.Frames():
		if frame.Err != nil {
			t.Fatalf("frame error: %v", frame.Err)
		}
		if frame.Config.Content != cfg.Content {
			t.Fatalf("frame config content = %q", frame.Config.Content)
		}
		if !strings.Contains(string(frame.SVG), "<svg") {
			t.Fatal("frame does not contain SVG markup")
		}
	case <-time.After(10 * time.Second):
		t.Fatal("no frame produced")
	}
}

func TestRunSurvivesInvalidContent(t *testing.T) {
	s := NewSession(nil, nil)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go s.Run(ctx)

	bad := config.New()
	bad.Content = "not-digits"
	bad.Symbology = mustParse(t, "ean13")
	s.Update(bad)

	select {
	case frame := <-s.Frames():
		if frame.Err != nil {
			t.Fatalf("placeholder frame error: %v", frame.Err)
		}
		if len(frame.SVG) == 0 {
			t.Fatal("placeholder frame is empty")
		}
	case <-time.After(10 * time.Second):
		t.Fatal("no frame produced for invalid content")
	}

	// The loop keeps accepting edits afterwards.
	good := config.New()
	good.Content = "https://example.com"
	s.Update(good)
	select {
	case frame := <-s.Frames():
		if frame.Config.Content != good.Content {
			t.Fatalf("loop did not recover, frame for %q", frame.Config.Content)
		}
	case <-time.After(10 * time.Second):
		t.Fatal("no frame after recovery")
	}
}
