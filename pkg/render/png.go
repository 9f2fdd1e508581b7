package render

import (
	"bytes"
	"fmt"
	"image"
	"image/png"
	"math"
	"strings"

	"github.com/srwiley/oksvg"
	"github.com/srwiley/rasterx"
)

// maxThumbnailSide bounds the rasterized image in either dimension.
const maxThumbnailSide = 4096

// ToPNG rasterizes an SVG frame to PNG at the given scale of its viewBox.
// Rasterization is best effort: SVG features the rasterizer does not
// understand (filters, masks) are skipped rather than failing the preview.
func ToPNG(svg string, scale float64) ([]byte, error) {
	if scale <= 0 {
		scale = 1
	}

	icon, err := oksvg.ReadIconStream(strings.NewReader(svg), oksvg.IgnoreErrorMode)
	if err != nil {
		return nil, fmt.Errorf("parse svg: %w", err)
	}

	w := int(math.Ceil(icon.ViewBox.W * scale))
	h := int(math.Ceil(icon.ViewBox.H * scale))
	if w <= 0 || h <= 0 {
		return nil, fmt.Errorf("svg has empty viewBox")
	}
	if w > maxThumbnailSide || h > maxThumbnailSide {
		return nil, fmt.Errorf("thumbnail %dx%d exceeds %d pixels per side", w, h, maxThumbnailSide)
	}

	icon.SetTarget(0, 0, float64(w), float64(h))
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	scanner := rasterx.NewScannerGV(w, h, img, img.Bounds())
	icon.Draw(rasterx.NewDasher(w, h, scanner), 1.0)

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	return buf.Bytes(), nil
}
