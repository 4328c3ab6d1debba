package assets

import (
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"os"

	xdraw "golang.org/x/image/draw"

	emath "github.com/pcercuei/openrw/engine/math"
)

// ImageData is a decoded texture image, always converted to tightly packed
// RGBA so it can be uploaded to the GPU without further conversion.
type ImageData struct {
	Width  int
	Height int
	Pixels []uint8
}

// LoadImage decodes the PNG or JPEG at path. With flipY the rows are
// reversed so the first pixel row is the bottom of the image, matching the
// texture coordinate origin.
func LoadImage(path string, flipY bool) (*ImageData, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	src, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decoding %s: %w", path, err)
	}
	return convertImage(src, flipY), nil
}

// Scale resamples the image to the given size with bilinear filtering.
// Sizes below one pixel are raised to one.
func (d *ImageData) Scale(width, height int) *ImageData {
	width = emath.Max(width, 1)
	height = emath.Max(height, 1)
	src := &image.RGBA{
		Pix:    d.Pixels,
		Stride: d.Width * 4,
		Rect:   image.Rect(0, 0, d.Width, d.Height),
	}
	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	xdraw.ApproxBiLinear.Scale(dst, dst.Bounds(), src, src.Bounds(), xdraw.Src, nil)
	return &ImageData{Width: width, Height: height, Pixels: dst.Pix}
}

func convertImage(src image.Image, flipY bool) *ImageData {
	bounds := src.Bounds()
	rgba := image.NewRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
	xdraw.Draw(rgba, rgba.Bounds(), src, bounds.Min, xdraw.Src)

	if flipY {
		stride := rgba.Stride
		tmp := make([]uint8, stride)
		for top, bottom := 0, bounds.Dy()-1; top < bottom; top, bottom = top+1, bottom-1 {
			a := rgba.Pix[top*stride : top*stride+stride]
			b := rgba.Pix[bottom*stride : bottom*stride+stride]
			copy(tmp, a)
			copy(a, b)
			copy(b, tmp)
		}
	}

	return &ImageData{
		Width:  bounds.Dx(),
		Height: bounds.Dy(),
		Pixels: rgba.Pix,
	}
}
