// Package export runs the full-resolution pipeline: layout at the
// configured resolution, raster compositing, then serialization to the
// requested container. Geometry is always recomputed here, never scaled
// up from the preview.
package export

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"

	"github.com/tdewolff/canvas"
	"github.com/tdewolff/canvas/renderers/pdf"
	"github.com/tdewolff/canvas/renderers/svg"

	"github.com/ByLCY/safescan/config"
	"github.com/ByLCY/safescan/encode"
	"github.com/ByLCY/safescan/layout"
	canvasrenderer "github.com/ByLCY/safescan/renderer/canvas"
)

// Format selects the output container.
type Format string

const (
	FormatPNG  Format = "png"  // raster, lossless
	FormatJPEG Format = "jpeg" // raster, lossy
	FormatSVG  Format = "svg"  // vector container, raster content (see below)
	FormatPDF  Format = "pdf"  // single fixed-size page wrapping the lossy raster
)

// jpegQuality mirrors the original exporter's maximum-quality encoding.
const jpegQuality = 100

// ParseFormat maps a CLI/config name to a Format.
func ParseFormat(name string) (Format, error) {
	switch Format(name) {
	case FormatPNG, FormatJPEG, FormatSVG, FormatPDF:
		return Format(name), nil
	case "jpg":
		return FormatJPEG, nil
	default:
		return "", fmt.Errorf("unknown export format %q", name)
	}
}

// Extension returns the filename extension for f.
func (f Format) Extension() string {
	if f == FormatJPEG {
		return "jpg"
	}
	return string(f)
}

// Pipeline exports configurations through a shared compositor.
type Pipeline struct {
	comp *canvasrenderer.Compositor
}

// New creates an export pipeline.
func New(comp *canvasrenderer.Compositor) *Pipeline {
	if comp == nil {
		comp = canvasrenderer.NewCompositor()
	}
	return &Pipeline{comp: comp}
}

// Export validates cfg, encodes the symbol fresh, composes at full
// resolution and serializes to format. Any failure aborts before bytes
// are produced; there are no partial artifacts.
func (p *Pipeline) Export(cfg config.Configuration, format Format, background image.Image) ([]byte, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate configuration: %w", err)
	}
	symbol, err := encode.Encode(cfg.Content, cfg.Symbology, cfg.ECLevel)
	if err != nil {
		return nil, err
	}

	geo := layout.Compute(cfg, float64(cfg.Resolution))
	surface, err := p.comp.Compose(cfg, geo, symbol, background)
	if err != nil {
		return nil, fmt.Errorf("compose: %w", err)
	}

	switch format {
	case FormatPNG:
		return encodePNG(surface)
	case FormatJPEG:
		return encodeJPEG(surface)
	case FormatSVG:
		return wrapSVG(surface, geo.Resolution)
	case FormatPDF:
		return wrapPDF(cfg, surface, geo.Resolution)
	default:
		return nil, fmt.Errorf("unknown export format %q", format)
	}
}

func encodePNG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	return buf.Bytes(), nil
}

func encodeJPEG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: jpegQuality}); err != nil {
		return nil, fmt.Errorf("encode jpeg: %w", err)
	}
	return buf.Bytes(), nil
}

// wrapSVG emits an SVG document whose sole content is the composited
// raster. This is a documented limitation carried over from the original
// exporter: the "vector" format is a vector container around raster
// pixels, not a re-encode of the layer stack as paths.
func wrapSVG(surface image.Image, res float64) ([]byte, error) {
	cv := canvas.New(res, res)
	ctx := canvas.NewContext(cv)
	ctx.SetCoordSystem(canvas.CartesianIV)
	ctx.DrawImage(0, 0, surface, canvas.DPMM(1.0))

	var buf bytes.Buffer
	target := svg.New(&buf, res, res, nil)
	cv.RenderTo(target)
	if err := target.Close(); err != nil {
		return nil, fmt.Errorf("write svg: %w", err)
	}
	return buf.Bytes(), nil
}

// wrapPDF produces a single page sized to the canvas, containing the
// lossy raster bytes as its only content.
func wrapPDF(cfg config.Configuration, surface image.Image, res float64) ([]byte, error) {
	jpegBytes, err := encodeJPEG(surface)
	if err != nil {
		return nil, err
	}
	page, err := jpeg.Decode(bytes.NewReader(jpegBytes))
	if err != nil {
		return nil, fmt.Errorf("decode composed jpeg: %w", err)
	}

	var buf bytes.Buffer
	writer := pdf.New(&buf, res, res, nil)
	title := cfg.Title.Text
	if title == "" {
		title = cfg.Content
	}
	writer.SetInfo(title, cfg.Description, "", "", "safescan")

	cv := canvas.New(res, res)
	ctx := canvas.NewContext(cv)
	ctx.SetCoordSystem(canvas.CartesianIV)
	ctx.DrawImage(0, 0, page, canvas.DPMM(1.0))
	cv.RenderTo(writer)

	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("write pdf: %w", err)
	}
	return buf.Bytes(), nil
}
