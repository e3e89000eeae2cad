package pixel

import (
	"fmt"
	"image"
	"image/color"

	"github.com/andresmejia3/facewire/internal/types"
)

// FromImage copies img into a pixel buffer. *image.NRGBA and *image.RGBA
// become RGBA with straight alpha; *image.Gray becomes grayscale and so does
// *image.Alpha, from its alpha plane. Other color models are rejected.
func FromImage(img image.Image) (types.PixelBuffer, error) {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	if w <= 0 || h <= 0 {
		return types.PixelBuffer{}, fmt.Errorf("empty image %v: %w", b, types.ErrInvalidArgument)
	}

	switch m := img.(type) {
	case *image.NRGBA:
		return fromPlane(m.Pix, m.Stride, m.PixOffset(b.Min.X, b.Min.Y), w, h, types.RGBA), nil
	case *image.RGBA:
		buf := fromPlane(m.Pix, m.Stride, m.PixOffset(b.Min.X, b.Min.Y), w, h, types.RGBA)
		unpremultiply(buf.Data)
		return buf, nil
	case *image.Gray:
		return fromPlane(m.Pix, m.Stride, m.PixOffset(b.Min.X, b.Min.Y), w, h, types.Grayscale), nil
	case *image.Alpha:
		return fromPlane(m.Pix, m.Stride, m.PixOffset(b.Min.X, b.Min.Y), w, h, types.Grayscale), nil
	}
	return types.PixelBuffer{}, fmt.Errorf("unsupported color model %T, only RGBA or grayscale images are supported: %w", img, types.ErrInvalidArgument)
}

func fromPlane(pix []byte, stride, offset, w, h int, format types.PixelFormat) types.PixelBuffer {
	rowLen := w * int(format.BytesPerPixel())
	data := make([]byte, rowLen*h)
	for y := 0; y < h; y++ {
		src := offset + y*stride
		copy(data[y*rowLen:(y+1)*rowLen], pix[src:src+rowLen])
	}
	return types.PixelBuffer{
		Data:        data,
		Width:       int32(w),
		Height:      int32(h),
		BytesPerRow: int32(rowLen),
		Format:      format,
	}
}

func unpremultiply(pix []byte) {
	for i := 0; i+3 < len(pix); i += 4 {
		a := pix[i+3]
		if a == 0xff || a == 0 {
			continue
		}
		c := color.NRGBAModel.Convert(color.RGBA{R: pix[i], G: pix[i+1], B: pix[i+2], A: a}).(color.NRGBA)
		pix[i], pix[i+1], pix[i+2] = c.R, c.G, c.B
	}
}

// ToImage copies buf into a Go image: *image.NRGBA for RGBA buffers and
// *image.Gray for grayscale ones.
func ToImage(buf types.PixelBuffer) (image.Image, error) {
	if err := buf.Validate(); err != nil {
		return nil, err
	}
	rect := image.Rect(0, 0, int(buf.Width), int(buf.Height))
	src := tight(buf)

	switch buf.Format {
	case types.RGBA:
		img := image.NewNRGBA(rect)
		copy(img.Pix, src)
		return img, nil
	case types.Grayscale:
		img := image.NewGray(rect)
		copy(img.Pix, src)
		return img, nil
	}
	return nil, fmt.Errorf("unsupported pixel format %s: %w", buf.Format, types.ErrInvalidArgument)
}
