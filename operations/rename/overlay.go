package rename

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
)

var overlay_font *opentype.Font
var overlay_font_err error
var overlay_font_once sync.Once

// OverlayText draws text on to a copy of im, anchored at the bottom-left
// corner with a margin and a font size both proportional to the image
// height. The text is drawn with a dark halo so it stays legible on light
// and dark imagery alike. The input image is not modified.
func OverlayText(im image.Image, text string) (image.Image, error) {

	overlay_font_once.Do(func() {
		overlay_font, overlay_font_err = opentype.Parse(goregular.TTF)
	})

	if overlay_font_err != nil {
		return nil, fmt.Errorf("Failed to parse overlay font, %w", overlay_font_err)
	}

	bounds := im.Bounds()

	h := bounds.Dy()

	size := float64(h) / 40.0

	if size < 16.0 {
		size = 16.0
	}

	margin := h * 3 / 100

	if margin < 10 {
		margin = 10
	}

	face, err := opentype.NewFace(overlay_font, &opentype.FaceOptions{
		Size:    size,
		DPI:     72.0,
		Hinting: font.HintingFull,
	})

	if err != nil {
		return nil, fmt.Errorf("Failed to create overlay font face, %w", err)
	}

	defer face.Close()

	dst := image.NewRGBA(bounds)
	draw.Draw(dst, bounds, im, bounds.Min, draw.Src)

	x := bounds.Min.X + margin
	y := bounds.Max.Y - margin

	halo := int(size / 16.0)

	if halo < 1 {
		halo = 1
	}

	d := &font.Drawer{
		Dst:  dst,
		Face: face,
	}

	// Halo first, then the text itself.

	d.Src = image.NewUniform(color.Black)

	for dx := -halo; dx <= halo; dx += halo {

		for dy := -halo; dy <= halo; dy += halo {

			if dx == 0 && dy == 0 {
				continue
			}

			d.Dot = fixed.P(x+dx, y+dy)
			d.DrawString(text)
		}
	}

	d.Src = image.NewUniform(color.White)
	d.Dot = fixed.P(x, y)
	d.DrawString(text)

	return dst, nil
}
