package jxl

import (
	"sync"
	"testing"

	"github.com/andresmejia3/facewire/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLibjxlLinkage(t *testing.T) {
	require.NoError(t, Init())
	require.NoError(t, Init(), "Init must be idempotent")
	t.Logf("libjxl version: %s", Version())
}

func TestInitConcurrent(t *testing.T) {
	var wg sync.WaitGroup
	errs := make(chan error, 16)
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			errs <- Init()
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		assert.NoError(t, err)
	}
}

func TestEncodeDecodeRGBA(t *testing.T) {
	width, height := 3, 2
	pixels := []byte{
		255, 0, 0, 255, 0, 255, 0, 128, 0, 0, 255, 0,
		1, 2, 3, 4, 250, 251, 252, 253, 9, 8, 7, 255,
	}

	data, err := EncodeLossless(pixels, width, height, 4)
	require.NoError(t, err)
	assert.True(t, IsJXL(data))

	dec, err := DecodeRGBA(data)
	require.NoError(t, err)
	assert.Equal(t, width, dec.Width)
	assert.Equal(t, height, dec.Height)
	assert.Equal(t, pixels, dec.Pixels, "lossless round trip must be exact")
}

func TestDecodeAppliesTransposingOrientation(t *testing.T) {
	// 2x3 stored pixels, each tagged with its index in the red channel.
	width, height := 2, 3
	pixels := make([]byte, width*height*4)
	for i := 0; i < width*height; i++ {
		copy(pixels[i*4:], []byte{byte(i + 1), 0, 0, 255})
	}
	stored := func(x, y int) []byte { i := (y*width + x) * 4; return pixels[i : i+4] }

	// 6 is JXL_ORIENT_ROTATE_90_CW.
	data, err := encodeLossless(pixels, width, height, 4, 6)
	require.NoError(t, err)

	dec, err := DecodeRGBA(data)
	require.NoError(t, err)
	assert.Equal(t, height, dec.Width, "rotated width is the stored height")
	assert.Equal(t, width, dec.Height, "rotated height is the stored width")
	require.Len(t, dec.Pixels, width*height*4)

	at := func(x, y int) []byte { i := (y*dec.Width + x) * 4; return dec.Pixels[i : i+4] }
	// Rotating clockwise moves stored (x, y) to (height-1-y, x).
	assert.Equal(t, stored(0, 0), at(2, 0))
	assert.Equal(t, stored(1, 0), at(2, 1))
	assert.Equal(t, stored(0, 2), at(0, 0))
}

func TestEncodeRejectsBadOrientation(t *testing.T) {
	_, err := encodeLossless(make([]byte, 4), 1, 1, 4, 0)
	assert.ErrorIs(t, err, types.ErrInvalidArgument)
	_, err = encodeLossless(make([]byte, 4), 1, 1, 4, 9)
	assert.ErrorIs(t, err, types.ErrInvalidArgument)
}

func TestDecodeExpandsGrayscale(t *testing.T) {
	gray := []byte{0, 64, 128, 255}
	data, err := EncodeLossless(gray, 2, 2, 1)
	require.NoError(t, err)

	dec, err := DecodeRGBA(data)
	require.NoError(t, err)
	require.Len(t, dec.Pixels, 16)
	for i, g := range gray {
		assert.Equal(t, []byte{g, g, g, 255}, dec.Pixels[i*4:i*4+4], "pixel %d", i)
	}
}

func TestEncodeRejectsBadInput(t *testing.T) {
	_, err := EncodeLossless(make([]byte, 4), 1, 1, 5)
	assert.ErrorIs(t, err, types.ErrInvalidArgument)
	_, err = EncodeLossless(make([]byte, 3), 1, 1, 4)
	assert.ErrorIs(t, err, types.ErrInvalidArgument)
	_, err = EncodeLossless(nil, 0, 1, 4)
	assert.ErrorIs(t, err, types.ErrInvalidArgument)
}

func TestDecodeRejectsInvalidStreams(t *testing.T) {
	noise := make([]byte, 64*64*4)
	for i := range noise {
		noise[i] = byte(i * 31 % 251)
	}
	valid, err := EncodeLossless(noise, 64, 64, 4)
	require.NoError(t, err)

	tests := []struct {
		name string
		data []byte
	}{
		{"empty", nil},
		{"zero buffer", make([]byte, 100*100*4)},
		{"truncated", valid[:len(valid)/2]},
		{"signature only", valid[:2]},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeRGBA(tt.data)
			assert.ErrorIs(t, err, ErrCodec)
		})
	}
}
