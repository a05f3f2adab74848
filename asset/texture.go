package asset

import (
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"github.com/achilleasa/embers/types"
	_ "golang.org/x/image/bmp"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

var ErrUnsupportedTexture = errors.New("texture: unsupported image")

// Textures larger than this are downsampled when loaded. Only their average
// color is used for flat shading so full resolution data is never needed.
const maxTextureDim = 256

// A texture image converted to RGBA8.
type Texture struct {
	Width  uint32
	Height uint32

	Data []byte
}

// Create a new texture from a Resource. Supported formats are png, jpeg,
// gif, bmp, tiff and webp.
func NewTexture(res *Resource) (*Texture, error) {
	img, _, err := image.Decode(res)
	if err != nil {
		return nil, fmt.Errorf("%w %q: %w", ErrUnsupportedTexture, res.Path(), err)
	}

	src := img.Bounds()
	if src.Empty() {
		return nil, fmt.Errorf("%w %q: image is empty", ErrUnsupportedTexture, res.Path())
	}

	w, h := src.Dx(), src.Dy()
	if w > maxTextureDim || h > maxTextureDim {
		scale := float64(maxTextureDim) / float64(max(w, h))
		w = max(1, int(float64(w)*scale))
		h = max(1, int(float64(h)*scale))
	}

	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	if w == src.Dx() && h == src.Dy() {
		draw.Draw(dst, dst.Bounds(), img, src.Min, draw.Src)
	} else {
		draw.ApproxBiLinear.Scale(dst, dst.Bounds(), img, src, draw.Src, nil)
	}

	return &Texture{
		Width:  uint32(w),
		Height: uint32(h),
		Data:   dst.Pix,
	}, nil
}

// Get the mean RGB color of the texture in [0, 1].
func (t *Texture) Average() types.Vec3 {
	pixels := len(t.Data) / 4
	if pixels == 0 {
		return types.Vec3{1, 1, 1}
	}

	var sum [3]uint64
	for offset := 0; offset < len(t.Data); offset += 4 {
		sum[0] += uint64(t.Data[offset])
		sum[1] += uint64(t.Data[offset+1])
		sum[2] += uint64(t.Data[offset+2])
	}

	norm := 1.0 / (255.0 * float32(pixels))
	return types.Vec3{
		float32(sum[0]) * norm,
		float32(sum[1]) * norm,
		float32(sum[2]) * norm,
	}
}
