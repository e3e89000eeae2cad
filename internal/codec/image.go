package codec

import (
	"fmt"

	"github.com/andresmejia3/facewire/internal/pixel"
	"github.com/andresmejia3/facewire/internal/types"
	"github.com/andresmejia3/facewire/internal/wire"
)

// SerializeImage encodes either image variant: a flat Image as a bare JPEG XL
// stream, an Image3D as an Image3D envelope.
func SerializeImage(img types.Serializable) ([]byte, error) {
	switch v := img.(type) {
	case types.Image:
		return pixel.Encode(v.PixelBuffer)
	case *types.Image:
		return pixel.Encode(v.PixelBuffer)
	case types.Image3D:
		return SerializeImage3D(v)
	case *types.Image3D:
		return SerializeImage3D(*v)
	}
	return nil, fmt.Errorf("unsupported image type %T: %w", img, ErrInvalidArgument)
}

// DeserializeImage decodes a bare JPEG XL stream into an RGBA image.
func DeserializeImage(data []byte) (types.Image, error) {
	buf, err := pixel.Decode(data)
	if err != nil {
		return types.Image{}, fmt.Errorf("deserialize image: %w", err)
	}
	return types.Image{PixelBuffer: buf}, nil
}

// SerializeImage3D encodes the pixels as lossless JPEG XL inside an Image3D
// envelope. The depth map field is written only when img.DepthMap is set.
func SerializeImage3D(img types.Image3D) ([]byte, error) {
	jxl, err := pixel.Encode(img.PixelBuffer)
	if err != nil {
		return nil, err
	}
	msg := wire.Image3D{Jxl: jxl}
	if img.DepthMap != nil {
		msg.DepthMap = depthMapToWire(img.DepthMap)
	}
	return msg.Marshal(), nil
}

// DeserializeImage3D parses an Image3D envelope and decodes its pixels as RGBA.
func DeserializeImage3D(data []byte) (types.Image3D, error) {
	var msg wire.Image3D
	if err := msg.Unmarshal(data); err != nil {
		return types.Image3D{}, fmt.Errorf("deserialize image3d: %w", err)
	}
	buf, err := pixel.Decode(msg.Jxl)
	if err != nil {
		return types.Image3D{}, fmt.Errorf("deserialize image3d pixels: %w", err)
	}
	img := types.Image3D{PixelBuffer: buf}
	if msg.DepthMap != nil {
		img.DepthMap = depthMapFromWire(msg.DepthMap)
	}
	return img, nil
}

func depthMapToWire(d *types.DepthMap) *wire.DepthMap {
	return &wire.DepthMap{
		Data:                      d.Data,
		Width:                     d.Width,
		Height:                    d.Height,
		BytesPerRow:               d.BytesPerRow,
		BitsPerElement:            d.BitsPerElement,
		FocalLength:               pointToWire(d.FocalLength),
		PrincipalPoint:            pointToWire(d.PrincipalPoint),
		LensDistortionCenter:      pointToWire(d.LensDistortionCenter),
		LensDistortionLookupTable: d.LensDistortionLookupTable,
	}
}

func depthMapFromWire(d *wire.DepthMap) *types.DepthMap {
	return &types.DepthMap{
		Data:                      d.Data,
		Width:                     d.Width,
		Height:                    d.Height,
		BytesPerRow:               d.BytesPerRow,
		BitsPerElement:            d.BitsPerElement,
		FocalLength:               pointFromWire(d.FocalLength),
		PrincipalPoint:            pointFromWire(d.PrincipalPoint),
		LensDistortionCenter:      pointFromWire(d.LensDistortionCenter),
		LensDistortionLookupTable: d.LensDistortionLookupTable,
	}
}
