package wire

import "google.golang.org/protobuf/encoding/protowire"

const (
	depthData                      protowire.Number = 1
	depthWidth                     protowire.Number = 2
	depthHeight                    protowire.Number = 3
	depthBytesPerRow               protowire.Number = 4
	depthBitsPerElement            protowire.Number = 5
	depthFocalLength               protowire.Number = 6
	depthPrincipalPoint            protowire.Number = 7
	depthLensDistortionCenter      protowire.Number = 8
	depthLensDistortionLookupTable protowire.Number = 9
)

// DepthMap mirrors the DepthMap message.
type DepthMap struct {
	Data                      []byte
	Width                     int32
	Height                    int32
	BytesPerRow               int32
	BitsPerElement            int32
	FocalLength               *Point2D
	PrincipalPoint            *Point2D
	LensDistortionCenter      *Point2D
	LensDistortionLookupTable []float32
}

func (d *DepthMap) Marshal() []byte {
	return d.appendTo(nil)
}

func (d *DepthMap) appendTo(b []byte) []byte {
	b = appendBytes(b, depthData, d.Data)
	b = appendInt32(b, depthWidth, d.Width)
	b = appendInt32(b, depthHeight, d.Height)
	b = appendInt32(b, depthBytesPerRow, d.BytesPerRow)
	b = appendInt32(b, depthBitsPerElement, d.BitsPerElement)
	b = appendPoint(b, depthFocalLength, d.FocalLength)
	b = appendPoint(b, depthPrincipalPoint, d.PrincipalPoint)
	b = appendPoint(b, depthLensDistortionCenter, d.LensDistortionCenter)
	return appendPackedFloats(b, depthLensDistortionLookupTable, d.LensDistortionLookupTable)
}

// Unmarshal merges the encoded fields into d.
func (d *DepthMap) Unmarshal(b []byte) error {
	return unmarshalFields(b, func(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
		switch num {
		case depthData:
			return consumeBytes(typ, b, &d.Data), nil
		case depthWidth:
			return consumeInt32(typ, b, &d.Width), nil
		case depthHeight:
			return consumeInt32(typ, b, &d.Height), nil
		case depthBytesPerRow:
			return consumeInt32(typ, b, &d.BytesPerRow), nil
		case depthBitsPerElement:
			return consumeInt32(typ, b, &d.BitsPerElement), nil
		case depthFocalLength:
			return consumeMessage(typ, b, mergePoint(&d.FocalLength))
		case depthPrincipalPoint:
			return consumeMessage(typ, b, mergePoint(&d.PrincipalPoint))
		case depthLensDistortionCenter:
			return consumeMessage(typ, b, mergePoint(&d.LensDistortionCenter))
		case depthLensDistortionLookupTable:
			return consumeFloats(typ, b, &d.LensDistortionLookupTable), nil
		}
		return 0, nil
	})
}
