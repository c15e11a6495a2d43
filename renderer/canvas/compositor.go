// Package canvasrenderer composites the layered artifact onto a raster
// surface via github.com/tdewolff/canvas. Canvas units are mapped 1:1 to
// pixels, so geometry values draw without conversion and the rasterized
// surface is exactly resolution x resolution.
package canvasrenderer

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"sync"

	"github.com/nfnt/resize"
	"github.com/tdewolff/canvas"
	"github.com/tdewolff/canvas/renderers/rasterizer"

	"github.com/ByLCY/safescan/config"
	"github.com/ByLCY/safescan/encode"
	"github.com/ByLCY/safescan/fonts"
	"github.com/ByLCY/safescan/layout"
)

// pxToPt converts a pixel-denominated font size to points for the canvas
// font system, which sizes faces in pt regardless of canvas units.
const pxToPt = 72.0 / 25.4

// Compositor draws the fixed z-order: white base, background image,
// safe-zone patch, title, symbol, caption.
type Compositor struct {
	fontMu   sync.Mutex
	families map[string]*canvas.FontFamily
}

// NewCompositor creates a compositor with an empty font cache.
func NewCompositor() *Compositor {
	return &Compositor{families: map[string]*canvas.FontFamily{}}
}

// Compose renders cfg at geo's resolution and returns the raster
// surface. A nil symbol skips the symbol and caption layers; a nil
// background skips the image layer. Compose never performs I/O.
func (c *Compositor) Compose(cfg config.Configuration, geo layout.Geometry, symbol *encode.Bitmap, background image.Image) (*image.RGBA, error) {
	res := geo.Resolution
	cv := canvas.New(res, res)
	ctx := canvas.NewContext(cv)
	ctx.SetCoordSystem(canvas.CartesianIV) // top-left origin, like the geometry

	if err := c.Draw(ctx, cfg, geo, symbol, background); err != nil {
		return nil, err
	}
	return rasterizer.Draw(cv, canvas.DPMM(1.0), canvas.DefaultColorSpace), nil
}

// Draw renders the layer stack onto an existing context. The preview
// backend reuses it against a markup target so both paths agree by
// construction.
func (c *Compositor) Draw(ctx *canvas.Context, cfg config.Configuration, geo layout.Geometry, symbol *encode.Bitmap, background image.Image) error {
	res := geo.Resolution
	ctx.SetStrokeColor(color.RGBA{0, 0, 0, 0})
	ctx.SetStrokeWidth(0)

	// 1. Opaque white base so lossy export has no transparency artifacts.
	ctx.SetFillColor(canvas.White)
	ctx.DrawPath(0, 0, canvas.Rectangle(res, res))

	// 2. Background image, scaled for fit/zoom, centered, with alpha.
	if background != nil && cfg.BackgroundImage != nil {
		drawBackground(ctx, background, *cfg.BackgroundImage, res)
	}

	// 3. Safe-zone patch.
	ctx.SetFillColor(canvas.Hex(cfg.Background))
	ctx.DrawPath(geo.Patch.X, geo.Patch.Y, canvas.RoundedRectangle(geo.Patch.Width, geo.Patch.Height, geo.CornerRadius))

	ink := canvas.Hex(cfg.Foreground)
	refScale := res / config.ReferenceResolution

	// 4. Title.
	if cfg.Title.Text != "" && geo.TitleFontSize > 0 {
		face, err := c.FontFace(cfg.Title.Weight, geo.TitleFontSize, ink)
		if err != nil {
			return err
		}
		drawText(ctx, face, cfg.Title.Text, geo.TitleX, geo.TitleY, layout.AlignCenter, cfg.Title.LetterSpacing*refScale)
	}

	// 5. Symbol modules. Absent bitmap means the content failed to
	// encode; the caller surfaces that, we just leave the patch clean.
	if symbol == nil {
		return nil
	}
	ctx.SetFillColor(ink)
	drawModules(ctx, symbol, geo.Symbol)

	// 6. Caption: fixed prompt for the matrix family, grouped or single
	// digit line for linear symbologies.
	face, err := c.FontFace(fonts.Bold, geo.CaptionFontSize, ink)
	if err != nil {
		return err
	}
	spacing := cfg.Caption.LetterSpacing * refScale
	switch {
	case len(geo.DigitGroups) > 0:
		for _, dg := range geo.DigitGroups {
			drawText(ctx, face, dg.Text, dg.AnchorX, dg.Top, dg.Align, spacing)
		}
	case cfg.Symbology.Caps().Linear:
		drawText(ctx, face, cfg.Content, geo.CaptionX, geo.CaptionY, layout.AlignCenter, spacing)
	default:
		drawText(ctx, face, config.MatrixCaption, geo.CaptionX, geo.CaptionY, layout.AlignCenter, spacing)
	}
	return nil
}

// drawBackground scales the image so it covers or fits the square
// canvas, applies zoom and opacity, and draws it centered.
func drawBackground(ctx *canvas.Context, img image.Image, opts config.BackgroundImage, res float64) {
	b := img.Bounds()
	if b.Dx() == 0 || b.Dy() == 0 {
		return
	}
	imgW, imgH := float64(b.Dx()), float64(b.Dy())
	ratioImg := imgW / imgH

	// Square canvas: ratioCanvas is 1.
	var scale float64
	if opts.Fit == config.FitContain {
		if ratioImg < 1 {
			scale = res / imgH
		} else {
			scale = res / imgW
		}
	} else {
		if ratioImg < 1 {
			scale = res / imgW
		} else {
			scale = res / imgH
		}
	}
	scale *= opts.Zoom
	if scale <= 0 {
		return
	}

	dw := imgW * scale
	dh := imgH * scale
	scaled := resize.Resize(uint(dw+0.5), uint(dh+0.5), img, resize.Lanczos3)
	scaled = applyOpacity(scaled, opts.Opacity)

	dx := (res - dw) / 2
	dy := (res - dh) / 2
	ctx.DrawImage(dx, dy, scaled, canvas.DPMM(1.0))
}

// applyOpacity multiplies the image's alpha channel by opacity.
func applyOpacity(img image.Image, opacity float64) image.Image {
	if opacity >= 1 {
		return img
	}
	if opacity < 0 {
		opacity = 0
	}
	b := img.Bounds()
	out := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(out, out.Bounds(), img, b.Min, draw.Src)
	for i := 3; i < len(out.Pix); i += 4 {
		out.Pix[i] = uint8(float64(out.Pix[i])*opacity + 0.5)
	}
	return out
}

// drawModules paints the symbol's ink modules as rectangles scaled into
// box. Horizontal runs are merged so linear bars come out as single
// rects and matrix rows stay crisp.
func drawModules(ctx *canvas.Context, bm *encode.Bitmap, box layout.Rect) {
	if bm.Width() == 0 || bm.Height() == 0 || box.Width <= 0 || box.Height <= 0 {
		return
	}
	moduleW := box.Width / float64(bm.Width())
	moduleH := box.Height / float64(bm.Height())
	for y := 0; y < bm.Height(); y++ {
		for x := 0; x < bm.Width(); {
			if !bm.At(x, y) {
				x++
				continue
			}
			run := x
			for run < bm.Width() && bm.At(run, y) {
				run++
			}
			ctx.DrawPath(box.X+float64(x)*moduleW, box.Y+float64(y)*moduleH,
				canvas.Rectangle(float64(run-x)*moduleW, moduleH))
			x = run
		}
	}
}

// drawText places a single line with its top edge at top, anchored
// horizontally per align. A non-zero spacing switches to per-rune
// placement; negative tracking is accepted as-is.
func drawText(ctx *canvas.Context, face *canvas.FontFace, text string, anchorX, top float64, align layout.Align, spacing float64) {
	if text == "" {
		return
	}
	metrics := face.Metrics()
	baseline := top + metrics.Ascent

	width := textWidth(face, text, spacing)
	var x float64
	switch align {
	case layout.AlignCenter:
		x = anchorX - width/2
	case layout.AlignRight:
		x = anchorX - width
	default:
		x = anchorX
	}

	if spacing == 0 {
		ctx.DrawText(x, baseline, canvas.NewTextLine(face, text, canvas.Left))
		return
	}
	for _, r := range text {
		s := string(r)
		ctx.DrawText(x, baseline, canvas.NewTextLine(face, s, canvas.Left))
		x += face.TextWidth(s) + spacing
	}
}

// textWidth measures text including letter spacing.
func textWidth(face *canvas.FontFace, text string, spacing float64) float64 {
	if spacing == 0 {
		return face.TextWidth(text)
	}
	total := 0.0
	n := 0
	for _, r := range text {
		total += face.TextWidth(string(r))
		n++
	}
	if n > 1 {
		total += spacing * float64(n-1)
	}
	return total
}

// FontFace resolves a cached face for one of the built-in weights, sized
// in pixels.
func (c *Compositor) FontFace(weight string, sizePx float64, col color.Color) (*canvas.FontFace, error) {
	family, err := c.ensureFamily(weight)
	if err != nil {
		return nil, err
	}
	style := canvas.FontRegular
	if weight == fonts.Bold {
		style = canvas.FontBold
	}
	return family.Face(sizePx*pxToPt, col, style, canvas.FontNormal), nil
}

func (c *Compositor) ensureFamily(weight string) (*canvas.FontFamily, error) {
	if weight == "" {
		weight = fonts.Regular
	}
	c.fontMu.Lock()
	defer c.fontMu.Unlock()

	if family, ok := c.families[weight]; ok {
		return family, nil
	}
	data, err := fonts.Load(weight)
	if err != nil {
		return nil, err
	}
	style := canvas.FontRegular
	if weight == fonts.Bold {
		style = canvas.FontBold
	}
	family := canvas.NewFontFamily("Go " + weight)
	if err := family.LoadFont(data, 0, style); err != nil {
		return nil, fmt.Errorf("load built-in font %s: %w", weight, err)
	}
	c.families[weight] = family
	return family, nil
}
