package wire

import "google.golang.org/protobuf/encoding/protowire"

const (
	faceX                protowire.Number = 1
	faceY                protowire.Number = 2
	faceWidth            protowire.Number = 3
	faceHeight           protowire.Number = 4
	faceYaw              protowire.Number = 5
	facePitch            protowire.Number = 6
	faceRoll             protowire.Number = 7
	faceQuality          protowire.Number = 8
	faceLandmarks        protowire.Number = 9
	faceLeftEye          protowire.Number = 10
	faceRightEye         protowire.Number = 11
	faceNoseTip          protowire.Number = 12
	faceMouthCentre      protowire.Number = 13
	faceMouthLeftCorner  protowire.Number = 14
	faceMouthRightCorner protowire.Number = 15
)

// Face mirrors the Face message. A nil sub-message is not on the wire.
type Face struct {
	X, Y, Width, Height float32
	Yaw, Pitch, Roll    float32
	Quality             float32
	Landmarks           []Point2D
	LeftEye             *Point2D
	RightEye            *Point2D
	NoseTip             *Point2D
	MouthCentre         *Point2D
	MouthLeftCorner     *Point2D
	MouthRightCorner    *Point2D
}

func (f *Face) Marshal() []byte {
	var b []byte
	b = appendFloat(b, faceX, f.X)
	b = appendFloat(b, faceY, f.Y)
	b = appendFloat(b, faceWidth, f.Width)
	b = appendFloat(b, faceHeight, f.Height)
	b = appendFloat(b, faceYaw, f.Yaw)
	b = appendFloat(b, facePitch, f.Pitch)
	b = appendFloat(b, faceRoll, f.Roll)
	b = appendFloat(b, faceQuality, f.Quality)
	for i := range f.Landmarks {
		b = appendMessage(b, faceLandmarks, f.Landmarks[i].appendTo(nil))
	}
	b = appendPoint(b, faceLeftEye, f.LeftEye)
	b = appendPoint(b, faceRightEye, f.RightEye)
	b = appendPoint(b, faceNoseTip, f.NoseTip)
	b = appendPoint(b, faceMouthCentre, f.MouthCentre)
	b = appendPoint(b, faceMouthLeftCorner, f.MouthLeftCorner)
	b = appendPoint(b, faceMouthRightCorner, f.MouthRightCorner)
	return b
}

// Unmarshal resets f and decodes b into it.
func (f *Face) Unmarshal(b []byte) error {
	*f = Face{}
	return unmarshalFields(b, func(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
		switch num {
		case faceX:
			return consumeFloat(typ, b, &f.X), nil
		case faceY:
			return consumeFloat(typ, b, &f.Y), nil
		case faceWidth:
			return consumeFloat(typ, b, &f.Width), nil
		case faceHeight:
			return consumeFloat(typ, b, &f.Height), nil
		case faceYaw:
			return consumeFloat(typ, b, &f.Yaw), nil
		case facePitch:
			return consumeFloat(typ, b, &f.Pitch), nil
		case faceRoll:
			return consumeFloat(typ, b, &f.Roll), nil
		case faceQuality:
			return consumeFloat(typ, b, &f.Quality), nil
		case faceLandmarks:
			return consumeMessage(typ, b, func(v []byte) error {
				var p Point2D
				if err := p.Unmarshal(v); err != nil {
					return err
				}
				f.Landmarks = append(f.Landmarks, p)
				return nil
			})
		case faceLeftEye:
			return consumeMessage(typ, b, mergePoint(&f.LeftEye))
		case faceRightEye:
			return consumeMessage(typ, b, mergePoint(&f.RightEye))
		case faceNoseTip:
			return consumeMessage(typ, b, mergePoint(&f.NoseTip))
		case faceMouthCentre:
			return consumeMessage(typ, b, mergePoint(&f.MouthCentre))
		case faceMouthLeftCorner:
			return consumeMessage(typ, b, mergePoint(&f.MouthLeftCorner))
		case faceMouthRightCorner:
			return consumeMessage(typ, b, mergePoint(&f.MouthRightCorner))
		}
		return 0, nil
	})
}
