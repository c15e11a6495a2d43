// Package preview renders the interactive preview as SVG markup at a
// fixed small reference resolution. It shares the layout engine and the
// layer drawing with the raster compositor but targets a vector markup
// writer, so the preview stays cheap to re-render and scales cleanly in
// a viewer.
//
// The preview never scales export geometry: it always recomputes from
// the configuration at its own resolution.
package preview

import (
	"bytes"
	"image"
	"image/color"

	"github.com/tdewolff/canvas"
	"github.com/tdewolff/canvas/renderers/svg"

	"github.com/ByLCY/safescan/config"
	"github.com/ByLCY/safescan/encode"
	"github.com/ByLCY/safescan/layout"
	"github.com/ByLCY/safescan/renderer"
	canvasrenderer "github.com/ByLCY/safescan/renderer/canvas"
)

// Resolution is the fixed preview canvas side in pixels, independent of
// the configured export resolution.
const Resolution = 320

const errorPlaceholder = "!"

// Renderer is the markup preview backend.
type Renderer struct {
	comp *canvasrenderer.Compositor
}

var _ renderer.Renderer = (*Renderer)(nil)

// New creates a preview renderer backed by the given compositor's layer
// stack and font cache.
func New(comp *canvasrenderer.Compositor) *Renderer {
	if comp == nil {
		comp = canvasrenderer.NewCompositor()
	}
	return &Renderer{comp: comp}
}

// Preview computes geometry at the preview resolution and renders it.
// A nil symbol with non-empty content renders an inline error
// placeholder where the symbol would sit.
func (r *Renderer) Preview(cfg config.Configuration, symbol *encode.Bitmap, background image.Image) ([]byte, error) {
	geo := layout.Compute(cfg, Resolution)
	return r.Render(cfg, geo, symbol, background)
}

// Render implements renderer.Renderer against an SVG writer.
func (r *Renderer) Render(cfg config.Configuration, geo layout.Geometry, symbol *encode.Bitmap, background image.Image) ([]byte, error) {
	cv := canvas.New(geo.Resolution, geo.Resolution)
	ctx := canvas.NewContext(cv)
	ctx.SetCoordSystem(canvas.CartesianIV)

	if err := r.comp.Draw(ctx, cfg, geo, symbol, background); err != nil {
		return nil, err
	}
	if symbol == nil && cfg.Content != "" {
		if err := r.drawPlaceholder(ctx, cfg, geo); err != nil {
			return nil, err
		}
	}

	var buf bytes.Buffer
	target := svg.New(&buf, geo.Resolution, geo.Resolution, nil)
	cv.RenderTo(target)
	if err := target.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// drawPlaceholder marks an un-encodable configuration inside the symbol
// box instead of leaving the patch silently empty.
func (r *Renderer) drawPlaceholder(ctx *canvas.Context, cfg config.Configuration, geo layout.Geometry) error {
	box := geo.Symbol
	if box.Width <= 0 || box.Height <= 0 {
		return nil
	}
	ink := canvas.Hex(cfg.Foreground)
	ctx.SetFillColor(color.RGBA{})
	ctx.SetStrokeColor(ink)
	ctx.SetStrokeWidth(box.Width * 0.01)
	ctx.DrawPath(box.X, box.Y, canvas.RoundedRectangle(box.Width, box.Height, box.Width*0.05))

	face, err := r.comp.FontFace("bold", box.Height*0.5, ink)
	if err != nil {
		return err
	}
	metrics := face.Metrics()
	line := canvas.NewTextLine(face, errorPlaceholder, canvas.Left)
	w := face.TextWidth(errorPlaceholder)
	x := box.X + (box.Width-w)/2
	y := box.Y + (box.Height-metrics.Ascent)/2 + metrics.Ascent
	ctx.SetStrokeColor(color.RGBA{})
	ctx.SetFillColor(ink)
	ctx.DrawText(x, y, line)
	return nil
}
