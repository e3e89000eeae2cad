package wire

import (
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/protobuf/encoding/protowire"
)

func fixed(b []byte, num protowire.Number, v float32) []byte {
	b = protowire.AppendTag(b, num, protowire.Fixed32Type)
	return protowire.AppendFixed32(b, math.Float32bits(v))
}

func message(b []byte, num protowire.Number, payload []byte) []byte {
	b = protowire.AppendTag(b, num, protowire.BytesType)
	return protowire.AppendBytes(b, payload)
}

func TestPointOmitsZeroScalars(t *testing.T) {
	assert.Empty(t, (&Point2D{}).Marshal())
	assert.Equal(t, fixed(nil, 2, 3.5), (&Point2D{Y: 3.5}).Marshal())

	// Negative zero has a non-zero bit pattern and must survive.
	negZero := float32(math.Copysign(0, -1))
	var p Point2D
	require.NoError(t, p.Unmarshal((&Point2D{X: negZero}).Marshal()))
	assert.True(t, math.Signbit(float64(p.X)))
}

func TestFaceMarshalMatchesReference(t *testing.T) {
	f := &Face{
		X: 25, Y: 20, Width: 320, Height: 411,
		Yaw: 1.3, Pitch: 0.5, Roll: 0.1, Quality: 9.9,
		Landmarks: []Point2D{{X: 10, Y: 12}},
		LeftEye:   &Point2D{X: 51, Y: 72},
		RightEye:  &Point2D{X: 89, Y: 73},
		NoseTip:   &Point2D{X: 65, Y: 92},
	}

	var want []byte
	want = fixed(want, 1, 25)
	want = fixed(want, 2, 20)
	want = fixed(want, 3, 320)
	want = fixed(want, 4, 411)
	want = fixed(want, 5, 1.3)
	want = fixed(want, 6, 0.5)
	want = fixed(want, 7, 0.1)
	want = fixed(want, 8, 9.9)
	want = message(want, 9, fixed(fixed(nil, 1, 10), 2, 12))
	want = message(want, 10, fixed(fixed(nil, 1, 51), 2, 72))
	want = message(want, 11, fixed(fixed(nil, 1, 89), 2, 73))
	want = message(want, 12, fixed(fixed(nil, 1, 65), 2, 92))

	assert.Equal(t, want, f.Marshal())
}

func TestFaceRoundTrip(t *testing.T) {
	in := &Face{
		X: 1, Y: 2, Width: 3, Height: 4,
		Landmarks:        []Point2D{{X: 1, Y: 1}, {}, {X: 3, Y: 4}},
		LeftEye:          &Point2D{},
		RightEye:         &Point2D{X: 7},
		MouthCentre:      &Point2D{},
		MouthRightCorner: &Point2D{X: -1, Y: -2},
	}
	var out Face
	require.NoError(t, out.Unmarshal(in.Marshal()))
	if diff := cmp.Diff(in, &out); diff != "" {
		t.Errorf("face mismatch (-want +got):\n%s", diff)
	}
	assert.Nil(t, out.NoseTip)
	assert.NotNil(t, out.MouthCentre, "present zero point must stay present")
}

func TestUnmarshalRejectsMalformed(t *testing.T) {
	tests := []struct {
		name string
		data []byte
	}{
		{"zero buffer", make([]byte, 32)},
		{"truncated fixed32", []byte{0x0d, 0x00, 0x00}},
		{"truncated length", message(nil, 10, fixed(nil, 1, 1))[:4]},
		{"overlong varint", []byte{0x80, 0x80, 0x80, 0x80, 0x80, 0x80, 0x80, 0x80, 0x80, 0x80, 0x01}},
		{"reserved wire type", []byte{0x0f}},
		{"malformed nested point", message(nil, 10, []byte{0x00})},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var f Face
			assert.ErrorIs(t, f.Unmarshal(tt.data), ErrDecode)
		})
	}
}

func TestUnmarshalSkipsUnknownAndMistypedFields(t *testing.T) {
	var b []byte
	b = protowire.AppendTag(b, 99, protowire.VarintType)
	b = protowire.AppendVarint(b, 12345)
	b = message(b, 100, []byte("future"))
	// x sent as a varint is not the declared type and is skipped.
	b = protowire.AppendTag(b, 1, protowire.VarintType)
	b = protowire.AppendVarint(b, 7)
	b = fixed(b, 2, 8)

	var f Face
	require.NoError(t, f.Unmarshal(b))
	assert.Zero(t, f.X)
	assert.Equal(t, float32(8), f.Y)
}

func TestUnmarshalMergesRepeatedSubMessages(t *testing.T) {
	var b []byte
	b = message(b, 10, fixed(nil, 1, 1))
	b = message(b, 10, fixed(nil, 2, 2))
	b = fixed(b, 8, 1)
	b = fixed(b, 8, 5)

	var f Face
	require.NoError(t, f.Unmarshal(b))
	require.NotNil(t, f.LeftEye)
	assert.Equal(t, Point2D{X: 1, Y: 2}, *f.LeftEye)
	assert.Equal(t, float32(5), f.Quality, "last scalar wins")
}

func TestDepthMapRoundTrip(t *testing.T) {
	in := &DepthMap{
		Data:                      []byte{1, 2, 3, 4},
		Width:                     2,
		Height:                    1,
		BytesPerRow:               4,
		BitsPerElement:            16,
		FocalLength:               &Point2D{X: 600, Y: 601},
		PrincipalPoint:            &Point2D{X: 320, Y: 240},
		LensDistortionCenter:      &Point2D{},
		LensDistortionLookupTable: []float32{0, 0.5, 1.25},
	}
	var out DepthMap
	require.NoError(t, out.Unmarshal(in.Marshal()))
	if diff := cmp.Diff(in, &out); diff != "" {
		t.Errorf("depth map mismatch (-want +got):\n%s", diff)
	}
}

func TestDepthMapNegativeInt32(t *testing.T) {
	in := &DepthMap{Width: -1}
	b := in.Marshal()
	assert.Len(t, b, 11, "negative int32 is sign extended to ten varint bytes")
	var out DepthMap
	require.NoError(t, out.Unmarshal(b))
	assert.Equal(t, int32(-1), out.Width)
}

func TestDepthMapAcceptsUnpackedLookupTable(t *testing.T) {
	var b []byte
	b = fixed(b, 9, 1)
	b = fixed(b, 9, 2)
	b = message(b, 9, nil)
	var packed []byte
	packed = protowire.AppendFixed32(packed, math.Float32bits(3))
	packed = protowire.AppendFixed32(packed, math.Float32bits(4))
	b = message(b, 9, packed)

	var d DepthMap
	require.NoError(t, d.Unmarshal(b))
	assert.Equal(t, []float32{1, 2, 3, 4}, d.LensDistortionLookupTable)
}

func TestDepthMapRejectsRaggedPackedTable(t *testing.T) {
	var d DepthMap
	assert.ErrorIs(t, d.Unmarshal(message(nil, 9, []byte{1, 2, 3})), ErrDecode)
}

func TestImage3DDepthPresence(t *testing.T) {
	without := (&Image3D{Jxl: []byte{0xff, 0x0a}}).Marshal()
	with := (&Image3D{Jxl: []byte{0xff, 0x0a}, DepthMap: &DepthMap{}}).Marshal()

	assert.Equal(t, message(nil, 1, []byte{0xff, 0x0a}), without)
	assert.Equal(t, message(message(nil, 1, []byte{0xff, 0x0a}), 2, nil), with)

	var m Image3D
	require.NoError(t, m.Unmarshal(without))
	assert.Nil(t, m.DepthMap)
	require.NoError(t, m.Unmarshal(with))
	assert.NotNil(t, m.DepthMap, "empty depth map is still present")
	assert.Equal(t, []byte{0xff, 0x0a}, m.Jxl)
}

func TestUnmarshalDoesNotAliasInput(t *testing.T) {
	b := (&Image3D{Jxl: []byte{1, 2, 3}}).Marshal()
	var m Image3D
	require.NoError(t, m.Unmarshal(b))
	b[len(b)-1] = 9
	assert.Equal(t, []byte{1, 2, 3}, m.Jxl)
}
