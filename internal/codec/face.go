package codec

import (
	"fmt"

	"github.com/andresmejia3/facewire/internal/types"
	"github.com/andresmejia3/facewire/internal/wire"
)

// SerializeFace encodes face as a Face message. Absent optional landmarks are
// left off the wire entirely.
func SerializeFace(face types.Face) ([]byte, error) {
	return faceToWire(face).Marshal(), nil
}

// DeserializeFace decodes a Face message. An optional landmark is present only
// if its field was on the wire.
func DeserializeFace(data []byte) (types.Face, error) {
	var msg wire.Face
	if err := msg.Unmarshal(data); err != nil {
		return types.Face{}, fmt.Errorf("deserialize face: %w", err)
	}
	return faceFromWire(&msg), nil
}

func faceToWire(face types.Face) *wire.Face {
	msg := &wire.Face{
		X:                face.Bounds.Left,
		Y:                face.Bounds.Top,
		Width:            face.Bounds.Width(),
		Height:           face.Bounds.Height(),
		Yaw:              face.Angle.Yaw,
		Pitch:            face.Angle.Pitch,
		Roll:             face.Angle.Roll,
		Quality:          face.Quality,
		LeftEye:          pointToWire(face.LeftEye),
		RightEye:         pointToWire(face.RightEye),
		NoseTip:          optionalToWire(face.NoseTip),
		MouthCentre:      optionalToWire(face.MouthCentre),
		MouthLeftCorner:  optionalToWire(face.MouthLeftCorner),
		MouthRightCorner: optionalToWire(face.MouthRightCorner),
	}
	if len(face.Landmarks) > 0 {
		msg.Landmarks = make([]wire.Point2D, len(face.Landmarks))
		for i, p := range face.Landmarks {
			msg.Landmarks[i] = wire.Point2D{X: p.X, Y: p.Y}
		}
	}
	return msg
}

func faceFromWire(msg *wire.Face) types.Face {
	face := types.Face{
		Bounds:           types.RectFromOrigin(msg.X, msg.Y, msg.Width, msg.Height),
		Angle:            types.EulerAngle{Yaw: msg.Yaw, Pitch: msg.Pitch, Roll: msg.Roll},
		Quality:          msg.Quality,
		LeftEye:          pointFromWire(msg.LeftEye),
		RightEye:         pointFromWire(msg.RightEye),
		NoseTip:          optionalFromWire(msg.NoseTip),
		MouthCentre:      optionalFromWire(msg.MouthCentre),
		MouthLeftCorner:  optionalFromWire(msg.MouthLeftCorner),
		MouthRightCorner: optionalFromWire(msg.MouthRightCorner),
	}
	if len(msg.Landmarks) > 0 {
		face.Landmarks = make([]types.Point2D, len(msg.Landmarks))
		for i, p := range msg.Landmarks {
			face.Landmarks[i] = types.Point2D{X: p.X, Y: p.Y}
		}
	}
	return face
}

func pointToWire(p types.Point2D) *wire.Point2D {
	return &wire.Point2D{X: p.X, Y: p.Y}
}

// pointFromWire maps a missing required point to the origin, as the protobuf
// runtime does for an unset message field.
func pointFromWire(p *wire.Point2D) types.Point2D {
	if p == nil {
		return types.Point2D{}
	}
	return types.Point2D{X: p.X, Y: p.Y}
}

func optionalToWire(o types.OptionalPoint) *wire.Point2D {
	p, ok := o.Get()
	if !ok {
		return nil
	}
	return pointToWire(p)
}

func optionalFromWire(p *wire.Point2D) types.OptionalPoint {
	if p == nil {
		return types.Absent()
	}
	return types.Present(pointFromWire(p))
}
