package jxl

/*
#cgo pkg-config: libjxl
#include <stdint.h>
#include <stdlib.h>
#include <string.h>
#include <jxl/decode.h>

typedef struct {
    uint32_t       width;
    uint32_t       height;
    unsigned char *pixels;      // RGBA output
    size_t         pixels_size;
    int            has_error;
    char           error_msg[256];
} decode_result;

// decode_rgba decodes the first frame of a JPEG XL stream as 8-bit RGBA.
// Grayscale sources are expanded to RGB and missing alpha is filled opaque.
static decode_result decode_rgba(const uint8_t *data, size_t size) {
    decode_result res;
    memset(&res, 0, sizeof(res));

    JxlDecoder *dec = JxlDecoderCreate(NULL);
    if (dec == NULL) {
        strncpy(res.error_msg, "JxlDecoderCreate failed", sizeof(res.error_msg)-1);
        res.has_error = 1;
        return res;
    }

    const char *failed = NULL;
    JxlPixelFormat format = {4, JXL_TYPE_UINT8, JXL_NATIVE_ENDIAN, 0};

    if (JxlDecoderSubscribeEvents(dec, JXL_DEC_BASIC_INFO | JXL_DEC_FULL_IMAGE) != JXL_DEC_SUCCESS) {
        failed = "subscribe events";
    } else if (JxlDecoderSetInput(dec, data, size) != JXL_DEC_SUCCESS) {
        failed = "set input";
    } else {
        JxlDecoderCloseInput(dec);
    }

    int done = 0;
    while (failed == NULL && !done) {
        JxlDecoderStatus status = JxlDecoderProcessInput(dec);
        switch (status) {
        case JXL_DEC_ERROR:
            failed = "corrupt stream";
            break;
        case JXL_DEC_NEED_MORE_INPUT:
            failed = "truncated stream";
            break;
        case JXL_DEC_BASIC_INFO: {
            JxlBasicInfo info;
            if (JxlDecoderGetBasicInfo(dec, &info) != JXL_DEC_SUCCESS) {
                failed = "read basic info";
                break;
            }
            // xsize/ysize are pre-orientation; the decoder applies orientation.
            if (info.orientation >= JXL_ORIENT_TRANSPOSE) {
                res.width = info.ysize;
                res.height = info.xsize;
            } else {
                res.width = info.xsize;
                res.height = info.ysize;
            }
            break;
        }
        case JXL_DEC_NEED_IMAGE_OUT_BUFFER: {
            size_t need = 0;
            if (JxlDecoderImageOutBufferSize(dec, &format, &need) != JXL_DEC_SUCCESS) {
                failed = "size output buffer";
                break;
            }
            res.pixels = (unsigned char *)malloc(need);
            if (res.pixels == NULL) {
                failed = "malloc failed for pixel buffer";
                break;
            }
            res.pixels_size = need;
            if (JxlDecoderSetImageOutBuffer(dec, &format, res.pixels, need) != JXL_DEC_SUCCESS) {
                failed = "set output buffer";
            }
            break;
        }
        case JXL_DEC_FULL_IMAGE:
            done = 1;
            break;
        case JXL_DEC_SUCCESS:
            if (res.pixels == NULL) {
                failed = "stream holds no image";
            }
            done = 1;
            break;
        default:
            failed = "unexpected decoder event";
            break;
        }
    }

    if (failed != NULL) {
        strncpy(res.error_msg, failed, sizeof(res.error_msg)-1);
        res.has_error = 1;
        free(res.pixels);
        res.pixels = NULL;
        res.pixels_size = 0;
    }

    JxlDecoderDestroy(dec);
    return res;
}

static void free_decode_pixels(unsigned char *p) {
    free(p);
}
*/
import "C"

import (
	"fmt"
	"unsafe"
)

// Decoded holds a decoded frame.
type Decoded struct {
	Width  int
	Height int
	Pixels []byte // RGBA interleaved, len = Width * Height * 4
}

// DecodeRGBA decodes a JPEG XL stream into 8-bit RGBA regardless of the
// stream's own channel layout.
func DecodeRGBA(data []byte) (*Decoded, error) {
	if err := Init(); err != nil {
		return nil, err
	}
	if !IsJXL(data) {
		return nil, fmt.Errorf("%w: missing JPEG XL signature", ErrCodec)
	}

	res := C.decode_rgba((*C.uint8_t)(unsafe.Pointer(&data[0])), C.size_t(len(data)))
	if res.has_error != 0 {
		return nil, fmt.Errorf("%w: libjxl decode: %s", ErrCodec, C.GoString(&res.error_msg[0]))
	}
	defer C.free_decode_pixels(res.pixels)

	width, height := int(res.width), int(res.height)
	if size := int(res.pixels_size); size != width*height*4 {
		return nil, fmt.Errorf("%w: decoder produced %d bytes for %dx%d", ErrCodec, size, width, height)
	}

	// Copy pixel data to Go-managed memory
	pixels := make([]byte, int(res.pixels_size))
	copy(pixels, unsafe.Slice((*byte)(unsafe.Pointer(res.pixels)), len(pixels)))

	return &Decoded{Width: width, Height: height, Pixels: pixels}, nil
}
