// Package renderer declares the contract shared by the raster compositor
// and the markup preview backend. Both consume the same layout geometry;
// neither may derive its geometry by scaling the other's output.
package renderer

import (
	"image"

	"github.com/ByLCY/safescan/config"
	"github.com/ByLCY/safescan/encode"
	"github.com/ByLCY/safescan/layout"
)

// Renderer turns a configuration snapshot plus its geometry into final
// bytes (image data or markup, depending on the backend).
type Renderer interface {
	Render(cfg config.Configuration, geo layout.Geometry, symbol *encode.Bitmap, background image.Image) ([]byte, error)
}
