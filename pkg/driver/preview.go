package driver

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"

	"golang.org/x/image/draw"

	"github.com/arnisgo/arnis/pkg/coord"
)

// previewMaxDim bounds the thumbnail's longer edge "a small
// top-down PNG preview" deliverable.
const previewMaxDim = 512

// renderPreview draws a coarse top-down map of the selection: one
// full-resolution canvas with each written region's outline drawn in, downsampled
// to a thumbnail with x/image/draw's bilinear scaler rather than a
// hand-rolled box filter.
func renderPreview(units []*unit, worldBBox coord.BBox) ([]byte, error) {
	w := int(worldBBox.Width()) + 1
	h := int(worldBBox.Height()) + 1
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}

	full := image.NewRGBA(image.Rect(0, 0, w, h))
	bg := color.RGBA{R: 86, G: 125, B: 70, A: 255}
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			full.Set(x, y, bg)
		}
	}

	regionColor := color.RGBA{R: 120, G: 110, B: 95, A: 255}
	for _, u := range units {
		x0 := int(u.bbox.MinX - worldBBox.MinX)
		x1 := int(u.bbox.MaxX - worldBBox.MinX)
		z0 := int(u.bbox.MinZ - worldBBox.MinZ)
		z1 := int(u.bbox.MaxZ - worldBBox.MinZ)
		for y := z0; y <= z1 && y < h; y++ {
			if y < 0 {
				continue
			}
			for x := x0; x <= x1 && x < w; x++ {
				if x < 0 {
					continue
				}
				if x == x0 || x == x1 || y == z0 || y == z1 {
					full.Set(x, y, regionColor)
				}
			}
		}
	}

	tw, th := thumbnailSize(w, h)
	thumb := image.NewRGBA(image.Rect(0, 0, tw, th))
	draw.BiLinear.Scale(thumb, thumb.Bounds(), full, full.Bounds(), draw.Over, nil)

	var buf bytes.Buffer
	if err := png.Encode(&buf, thumb); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func thumbnailSize(w, h int) (int, int) {
	if w >= h {
		if w <= previewMaxDim {
			return w, h
		}
		th := h * previewMaxDim / w
		if th < 1 {
			th = 1
		}
		return previewMaxDim, th
	}
	if h <= previewMaxDim {
		return w, h
	}
	tw := w * previewMaxDim / h
	if tw < 1 {
		tw = 1
	}
	return tw, previewMaxDim
}

func writePreview(worldPath string, data []byte) error {
	return os.WriteFile(filepath.Join(worldPath, "arnis-preview.png"), data, 0o644)
}
