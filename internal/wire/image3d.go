package wire

import "google.golang.org/protobuf/encoding/protowire"

const (
	image3DJxl      protowire.Number = 1
	image3DDepthMap protowire.Number = 2
)

// Image3D mirrors the Image3D envelope: a JPEG XL payload and an optional depth map.
type Image3D struct {
	Jxl      []byte
	DepthMap *DepthMap
}

func (m *Image3D) Marshal() []byte {
	b := appendBytes(nil, image3DJxl, m.Jxl)
	if m.DepthMap != nil {
		b = appendMessage(b, image3DDepthMap, m.DepthMap.appendTo(nil))
	}
	return b
}

// Unmarshal resets m and decodes b into it.
func (m *Image3D) Unmarshal(b []byte) error {
	*m = Image3D{}
	return unmarshalFields(b, func(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
		switch num {
		case image3DJxl:
			return consumeBytes(typ, b, &m.Jxl), nil
		case image3DDepthMap:
			return consumeMessage(typ, b, func(v []byte) error {
				if m.DepthMap == nil {
					m.DepthMap = &DepthMap{}
				}
				return m.DepthMap.Unmarshal(v)
			})
		}
		return 0, nil
	})
}
