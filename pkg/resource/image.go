package resource

import (
	"bytes"
	"fmt"
	"image"
	"image/draw"
	_ "image/jpeg"
	_ "image/png"

	"github.com/nfnt/resize"
)

// decodeImage loads a raster image and optionally rescales it to maxWidth,
// preserving aspect ratio. maxWidth <= 0 disables rescaling.
//
// Rescaling uses the same library an earlier image-attachment resizer did;
// here the decoded buffer stays as raw RGBA bytes for the UI layer to
// render, rather than a re-encoded JPEG, since there is no outbound HTTP
// call to size for.
func decodeImage(data []byte, maxWidth int) (*DecodedImage, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}

	if maxWidth > 0 {
		b := img.Bounds()
		if b.Dx() > maxWidth {
			img = resize.Resize(uint(maxWidth), 0, img, resize.Lanczos3)
		}
	}

	b := img.Bounds()
	rgba := image.NewRGBA(b)
	draw.Draw(rgba, b, img, b.Min, draw.Src)

	return &DecodedImage{
		Width:  b.Dx(),
		Height: b.Dy(),
		RGBA:   rgba.Pix,
	}, nil
}
