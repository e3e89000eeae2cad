package pixel

import (
	"fmt"

	"github.com/andresmejia3/facewire/internal/types"
)

// DefaultGrayscaleWeights are the ITU-R BT.601 luma weights for R, G and B.
var DefaultGrayscaleWeights = [3]float32{0.2989, 0.587, 0.114}

// SwapChannels reorders the channels of an RGBA buffer. layout lists source
// channel indices (0=R, 1=G, 2=B, 3=A) for each output channel; it must have
// 3 or 4 entries. The result is tightly packed.
func SwapChannels(buf types.PixelBuffer, layout []int) ([]byte, error) {
	if len(layout) < 3 || len(layout) > 4 {
		return nil, fmt.Errorf("channel layout must have 3 or 4 elements, got %d: %w", len(layout), types.ErrInvalidArgument)
	}
	for _, c := range layout {
		if c < 0 || c > 3 {
			return nil, fmt.Errorf("channel index %d out of range: %w", c, types.ErrInvalidArgument)
		}
	}
	if err := requireRGBA(buf); err != nil {
		return nil, err
	}

	src := tight(buf)
	n := len(layout)
	out := make([]byte, 0, int(buf.Width)*int(buf.Height)*n)
	for i := 0; i < len(src); i += 4 {
		for _, c := range layout {
			out = append(out, src[i+c])
		}
	}
	return out, nil
}

// ToGrayscale converts an RGBA buffer to grayscale using weights for R, G and
// B. Weighted sums are truncated and clamped to 0..255; alpha is ignored.
func ToGrayscale(buf types.PixelBuffer, weights [3]float32) (types.PixelBuffer, error) {
	if err := requireRGBA(buf); err != nil {
		return types.PixelBuffer{}, err
	}

	src := tight(buf)
	out := make([]byte, len(src)/4)
	for i := range out {
		p := src[i*4 : i*4+3]
		g := float32(p[0])*weights[0] + float32(p[1])*weights[1] + float32(p[2])*weights[2]
		out[i] = byte(min(max(int(g), 0), 255))
	}
	return types.PixelBuffer{
		Data:        out,
		Width:       buf.Width,
		Height:      buf.Height,
		BytesPerRow: buf.Width,
		Format:      types.Grayscale,
	}, nil
}

func requireRGBA(buf types.PixelBuffer) error {
	if err := buf.Validate(); err != nil {
		return err
	}
	if buf.Format != types.RGBA {
		return fmt.Errorf("pixel format must be RGBA, got %s: %w", buf.Format, types.ErrInvalidArgument)
	}
	return nil
}
