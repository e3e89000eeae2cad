package codec

import (
	"bytes"
	"testing"

	"github.com/andresmejia3/facewire/internal/jxl"
	"github.com/andresmejia3/facewire/internal/types"
	"github.com/andresmejia3/facewire/internal/wire"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testFace() types.Face {
	return types.Face{
		Bounds:      types.Rect{Left: 25, Top: 20, Right: 345, Bottom: 431},
		Angle:       types.EulerAngle{Yaw: 1.3, Pitch: 0.5, Roll: 0.1},
		Quality:     9.9,
		Landmarks:   []types.Point2D{{X: 10, Y: 12}, {X: 11, Y: 13}},
		LeftEye:     types.Point2D{X: 51, Y: 72},
		RightEye:    types.Point2D{X: 89, Y: 73},
		NoseTip:     types.Present(types.Point2D{X: 65, Y: 92}),
		MouthCentre: types.Present(types.Point2D{X: 66, Y: 123}),
	}
}

func TestFaceRoundTrip(t *testing.T) {
	tests := []struct {
		name string
		face types.Face
	}{
		{"detector output", testFace()},
		{"zero face", types.Face{}},
		{"all landmarks", func() types.Face {
			f := testFace()
			f.MouthLeftCorner = types.Present(types.Point2D{X: 50, Y: 120})
			f.MouthRightCorner = types.Present(types.Point2D{})
			return f
		}()},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := SerializeFace(tt.face)
			require.NoError(t, err)
			got, err := DeserializeFace(data)
			require.NoError(t, err)
			if diff := cmp.Diff(tt.face, got); diff != "" {
				t.Errorf("face mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestFaceBoundsMapping(t *testing.T) {
	data, err := SerializeFace(testFace())
	require.NoError(t, err)

	var msg wire.Face
	require.NoError(t, msg.Unmarshal(data))
	assert.Equal(t, float32(25), msg.X)
	assert.Equal(t, float32(20), msg.Y)
	assert.Equal(t, float32(320), msg.Width)
	assert.Equal(t, float32(411), msg.Height)

	face, err := DeserializeFace(data)
	require.NoError(t, err)
	assert.Equal(t, types.Rect{Left: 25, Top: 20, Right: 345, Bottom: 431}, face.Bounds)
}

func TestFaceOptionalPresence(t *testing.T) {
	absent := testFace()
	absent.NoseTip = types.Absent()
	origin := testFace()
	origin.NoseTip = types.Present(types.Point2D{})

	absentBytes, err := SerializeFace(absent)
	require.NoError(t, err)
	originBytes, err := SerializeFace(origin)
	require.NoError(t, err)
	assert.NotEqual(t, absentBytes, originBytes)

	var msg wire.Face
	require.NoError(t, msg.Unmarshal(absentBytes))
	assert.Nil(t, msg.NoseTip, "absent landmark must not be written")

	got, err := DeserializeFace(absentBytes)
	require.NoError(t, err)
	assert.False(t, got.NoseTip.IsPresent())

	got, err = DeserializeFace(originBytes)
	require.NoError(t, err)
	p, ok := got.NoseTip.Get()
	assert.True(t, ok)
	assert.Equal(t, types.Point2D{}, p)
	assert.False(t, got.Equal(absent))
}

func TestDeserializeFaceRejectsZeroBuffer(t *testing.T) {
	face, err := DeserializeFace(make([]byte, 32))
	assert.ErrorIs(t, err, ErrDecode)
	assert.True(t, face.Equal(types.Face{}))
}

func testPixels() types.PixelBuffer {
	data := make([]byte, 4*3*4)
	for i := range data {
		data[i] = byte(i * 7)
	}
	for i := 3; i < len(data); i += 4 {
		data[i] = 255
	}
	return types.PixelBuffer{Data: data, Width: 4, Height: 3, BytesPerRow: 16, Format: types.RGBA}
}

func testDepth() *types.DepthMap {
	return &types.DepthMap{
		Data:                      []byte{0, 1, 2, 3, 4, 5, 6, 7},
		Width:                     2,
		Height:                    2,
		BytesPerRow:               4,
		BitsPerElement:            16,
		FocalLength:               types.Point2D{X: 593.2, Y: 593.2},
		PrincipalPoint:            types.Point2D{X: 320, Y: 240},
		LensDistortionCenter:      types.Point2D{X: 319.5, Y: 241.25},
		LensDistortionLookupTable: []float32{0, 0.001, 0.004, 0.009},
	}
}

func TestSerializeImageFlatIsBareJXL(t *testing.T) {
	data, err := SerializeImage(types.Image{PixelBuffer: testPixels()})
	require.NoError(t, err)
	assert.True(t, jxl.IsJXL(data))

	img, err := DeserializeImage(data)
	require.NoError(t, err)
	assert.Equal(t, testPixels(), img.PixelBuffer)
}

func TestImage3DRoundTrip(t *testing.T) {
	tests := []struct {
		name  string
		depth *types.DepthMap
	}{
		{"with depth", testDepth()},
		{"without depth", nil},
		{"empty depth", &types.DepthMap{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := types.Image3D{PixelBuffer: testPixels(), DepthMap: tt.depth}
			data, err := SerializeImage(&in)
			require.NoError(t, err)
			assert.False(t, jxl.IsJXL(data), "Image3D is always wrapped in an envelope")

			out, err := DeserializeImage3D(data)
			require.NoError(t, err)
			assert.Equal(t, in.PixelBuffer, out.PixelBuffer)
			if tt.depth == nil {
				assert.Nil(t, out.DepthMap)
				return
			}
			require.NotNil(t, out.DepthMap)
			if diff := cmp.Diff(tt.depth, out.DepthMap); diff != "" {
				t.Errorf("depth mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestImage3DEnvelopeDistinguishesDepthStates(t *testing.T) {
	none, err := SerializeImage3D(types.Image3D{PixelBuffer: testPixels()})
	require.NoError(t, err)
	empty, err := SerializeImage3D(types.Image3D{PixelBuffer: testPixels(), DepthMap: &types.DepthMap{}})
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(empty, none))
	assert.Greater(t, len(empty), len(none))
}

func TestDeserializeImageErrors(t *testing.T) {
	_, err := DeserializeImage(make([]byte, 100*100*4))
	assert.ErrorIs(t, err, ErrCodec)

	_, err = DeserializeImage3D(make([]byte, 32))
	assert.ErrorIs(t, err, ErrDecode)

	bogus := (&wire.Image3D{Jxl: make([]byte, 64)}).Marshal()
	_, err = DeserializeImage3D(bogus)
	assert.ErrorIs(t, err, ErrCodec)
}

func TestSerializeImageRejectsInvalidPixels(t *testing.T) {
	bad := types.PixelBuffer{Data: []byte{1}, Width: 1, Height: 1, BytesPerRow: 1, Format: types.PixelFormat(3)}
	_, err := SerializeImage(types.Image{PixelBuffer: bad})
	assert.ErrorIs(t, err, ErrInvalidArgument)
	_, err = SerializeImage(types.Image3D{PixelBuffer: bad, DepthMap: testDepth()})
	assert.ErrorIs(t, err, ErrInvalidArgument)
}
