package cmd

import (
	"bytes"
	"encoding/json"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	"image/png"
	"path/filepath"
	"strings"

	"github.com/andresmejia3/facewire/internal/pixel"
	"github.com/andresmejia3/facewire/internal/types"
	"github.com/andresmejia3/facewire/internal/utils"
	_ "golang.org/x/image/bmp"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// rasterExts are the input formats registered with image.Decode.
var rasterExts = map[string]bool{
	".png": true, ".jpg": true, ".jpeg": true, ".gif": true,
	".bmp": true, ".tif": true, ".tiff": true, ".webp": true,
}

func isRaster(path string) bool {
	return rasterExts[strings.ToLower(filepath.Ext(path))]
}

// loadPixels decodes a raster image file into a pixel buffer. 8-bit color models
// other than RGBA and gray (YCbCr JPEGs, paletted GIFs, CMYK) are redrawn as
// NRGBA; 16-bit images are rejected rather than truncated.
func loadPixels(path string) (types.PixelBuffer, error) {
	data, err := utils.ReadInput(path)
	if err != nil {
		return types.PixelBuffer{}, err
	}
	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return types.PixelBuffer{}, fmt.Errorf("decode %s: %w", path, err)
	}

	switch img.(type) {
	case *image.NRGBA, *image.RGBA, *image.Gray:
	case *image.Gray16, *image.NRGBA64, *image.RGBA64:
		return types.PixelBuffer{}, fmt.Errorf("%s image %s has 16 bits per channel, only 8-bit images can be encoded losslessly: %w",
			format, path, types.ErrInvalidArgument)
	default:
		b := img.Bounds()
		dst := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
		draw.Draw(dst, dst.Bounds(), img, b.Min, draw.Src)
		img = dst
	}

	buf, err := pixel.FromImage(img)
	if err != nil {
		return types.PixelBuffer{}, fmt.Errorf("%s image %s: %w", format, path, err)
	}
	return buf, nil
}

// transform applies the --swap and --grayscale options, in that order.
func transform(buf types.PixelBuffer, opts Options, swap []int) (types.PixelBuffer, error) {
	if len(swap) > 0 {
		if len(swap) != 4 {
			return buf, fmt.Errorf("--swap needs 4 channel indices, got %d: %w", len(swap), types.ErrInvalidArgument)
		}
		if buf.Format != types.RGBA {
			return buf, fmt.Errorf("--swap needs an RGBA image, got %s: %w", buf.Format, types.ErrInvalidArgument)
		}
		data, err := pixel.SwapChannels(buf, swap)
		if err != nil {
			return buf, err
		}
		buf = types.PixelBuffer{Data: data, Width: buf.Width, Height: buf.Height, BytesPerRow: buf.Width * 4, Format: types.RGBA}
	}
	if opts.Grayscale && buf.Format == types.RGBA {
		return pixel.ToGrayscale(buf, pixel.DefaultGrayscaleWeights)
	}
	return buf, nil
}

// savePNG writes buf as a PNG file, or to stdout for "-".
func savePNG(path string, buf types.PixelBuffer) error {
	img, err := pixel.ToImage(buf)
	if err != nil {
		return err
	}
	var out bytes.Buffer
	if err := png.Encode(&out, img); err != nil {
		return err
	}
	return utils.WriteOutput(path, out.Bytes())
}

func readJSON(path string, v any) error {
	data, err := utils.ReadInput(path)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}
	return nil
}

func writeJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	return utils.WriteOutput(path, append(data, '\n'))
}

// loadDepth reads a depth map JSON file. An empty path means no depth data.
func loadDepth(path string) (*types.DepthMap, error) {
	if path == "" {
		return nil, nil
	}
	var d types.DepthMap
	if err := readJSON(path, &d); err != nil {
		return nil, err
	}
	return &d, nil
}

// asSerializable wraps buf as an Image3D when depth data was requested.
func asSerializable(buf types.PixelBuffer, depthPath string) (types.Serializable, error) {
	if depthPath == "" {
		return types.Image{PixelBuffer: buf}, nil
	}
	depth, err := loadDepth(depthPath)
	if err != nil {
		return nil, err
	}
	return types.Image3D{PixelBuffer: buf, DepthMap: depth}, nil
}
