// Package pixel converts pixel buffers to and from Go images and lossless JPEG XL.
package pixel

import (
	"github.com/andresmejia3/facewire/internal/jxl"
	"github.com/andresmejia3/facewire/internal/types"
)

// ErrCodec is returned when bytes are not a decodable JPEG XL stream.
var ErrCodec = jxl.ErrCodec

// Encode compresses buf losslessly. RGBA buffers keep their alpha channel and
// grayscale buffers are stored as a single channel.
func Encode(buf types.PixelBuffer) ([]byte, error) {
	if err := buf.Validate(); err != nil {
		return nil, err
	}
	channels := int(buf.Format.BytesPerPixel())
	return jxl.EncodeLossless(tight(buf), int(buf.Width), int(buf.Height), channels)
}

// Decode decompresses a JPEG XL stream. The result is always RGBA with a
// stride of Width*4, whatever the layout of the encoded image.
func Decode(data []byte) (types.PixelBuffer, error) {
	dec, err := jxl.DecodeRGBA(data)
	if err != nil {
		return types.PixelBuffer{}, err
	}
	return types.PixelBuffer{
		Data:        dec.Pixels,
		Width:       int32(dec.Width),
		Height:      int32(dec.Height),
		BytesPerRow: int32(dec.Width * 4),
		Format:      types.RGBA,
	}, nil
}

// tight returns the pixel rows without stride padding. buf must be valid.
func tight(buf types.PixelBuffer) []byte {
	rowLen := int(buf.Width * buf.Format.BytesPerPixel())
	height := int(buf.Height)
	if int(buf.BytesPerRow) == rowLen {
		return buf.Data[:rowLen*height]
	}
	out := make([]byte, rowLen*height)
	for y := 0; y < height; y++ {
		src := y * int(buf.BytesPerRow)
		copy(out[y*rowLen:(y+1)*rowLen], buf.Data[src:src+rowLen])
	}
	return out
}
