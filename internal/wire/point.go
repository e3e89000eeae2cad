package wire

import "google.golang.org/protobuf/encoding/protowire"

const (
	pointX protowire.Number = 1
	pointY protowire.Number = 2
)

// Point2D mirrors the PointF message.
type Point2D struct {
	X float32
	Y float32
}

func (p *Point2D) Marshal() []byte {
	return p.appendTo(nil)
}

func (p *Point2D) appendTo(b []byte) []byte {
	b = appendFloat(b, pointX, p.X)
	return appendFloat(b, pointY, p.Y)
}

// Unmarshal merges the encoded fields into p.
func (p *Point2D) Unmarshal(b []byte) error {
	return unmarshalFields(b, func(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
		switch num {
		case pointX:
			return consumeFloat(typ, b, &p.X), nil
		case pointY:
			return consumeFloat(typ, b, &p.Y), nil
		}
		return 0, nil
	})
}

// mergePoint decodes into *dst, allocating it on first sight.
func mergePoint(dst **Point2D) func([]byte) error {
	return func(b []byte) error {
		if *dst == nil {
			*dst = &Point2D{}
		}
		return (*dst).Unmarshal(b)
	}
}

func appendPoint(b []byte, num protowire.Number, p *Point2D) []byte {
	if p == nil {
		return b
	}
	return appendMessage(b, num, p.appendTo(nil))
}
