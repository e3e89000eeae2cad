package jxl

/*
#cgo pkg-config: libjxl
#include <stdint.h>
#include <stdio.h>
#include <stdlib.h>
#include <string.h>
#include <jxl/encode.h>

typedef struct {
    unsigned char *buf;
    size_t         size;
    int            has_error;
    char           error_msg[256];
} encode_result;

// encode_lossless compresses tightly packed 8-bit pixels. channels is 1 (gray),
// 2 (gray + alpha), 3 (RGB) or 4 (RGBA). orientation is the EXIF value 1..8.
static encode_result encode_lossless(const uint8_t *pixels, uint32_t width, uint32_t height, uint32_t channels, int orientation) {
    encode_result res;
    memset(&res, 0, sizeof(res));

    JxlEncoder *enc = JxlEncoderCreate(NULL);
    if (enc == NULL) {
        strncpy(res.error_msg, "JxlEncoderCreate failed", sizeof(res.error_msg)-1);
        res.has_error = 1;
        return res;
    }

    const char *failed = NULL;

    JxlBasicInfo info;
    JxlEncoderInitBasicInfo(&info);
    info.xsize = width;
    info.ysize = height;
    info.bits_per_sample = 8;
    info.exponent_bits_per_sample = 0;
    info.uses_original_profile = JXL_TRUE;
    info.orientation = (JxlOrientation)orientation;
    info.num_color_channels = channels >= 3 ? 3 : 1;
    if (channels == 2 || channels == 4) {
        info.num_extra_channels = 1;
        info.alpha_bits = 8;
    }
    if (JxlEncoderSetBasicInfo(enc, &info) != JXL_ENC_SUCCESS) {
        failed = "set basic info";
    }

    if (failed == NULL) {
        JxlColorEncoding color;
        JxlColorEncodingSetToSRGB(&color, info.num_color_channels == 1 ? JXL_TRUE : JXL_FALSE);
        if (JxlEncoderSetColorEncoding(enc, &color) != JXL_ENC_SUCCESS) {
            failed = "set color encoding";
        }
    }

    JxlEncoderFrameSettings *settings = NULL;
    if (failed == NULL) {
        settings = JxlEncoderFrameSettingsCreate(enc, NULL);
        if (settings == NULL || JxlEncoderSetFrameLossless(settings, JXL_TRUE) != JXL_ENC_SUCCESS) {
            failed = "enable lossless";
        }
    }

    if (failed == NULL) {
        JxlPixelFormat format = {channels, JXL_TYPE_UINT8, JXL_NATIVE_ENDIAN, 0};
        size_t size = (size_t)width * height * channels;
        if (JxlEncoderAddImageFrame(settings, &format, pixels, size) != JXL_ENC_SUCCESS) {
            failed = "add image frame";
        }
    }

    if (failed == NULL) {
        JxlEncoderCloseInput(enc);

        size_t capacity = 64 * 1024;
        res.buf = (unsigned char *)malloc(capacity);
        uint8_t *next = res.buf;
        size_t avail = capacity;
        JxlEncoderStatus status = JXL_ENC_NEED_MORE_OUTPUT;
        while (res.buf != NULL && status == JXL_ENC_NEED_MORE_OUTPUT) {
            status = JxlEncoderProcessOutput(enc, &next, &avail);
            if (status == JXL_ENC_NEED_MORE_OUTPUT) {
                size_t used = next - res.buf;
                capacity *= 2;
                unsigned char *grown = (unsigned char *)realloc(res.buf, capacity);
                if (grown == NULL) {
                    free(res.buf);
                    res.buf = NULL;
                    break;
                }
                res.buf = grown;
                next = res.buf + used;
                avail = capacity - used;
            }
        }
        if (res.buf == NULL) {
            failed = "out of memory";
        } else if (status != JXL_ENC_SUCCESS) {
            failed = "process output";
        } else {
            res.size = next - res.buf;
        }
    }

    if (failed != NULL) {
        snprintf(res.error_msg, sizeof(res.error_msg), "%s (encoder error %d)", failed, (int)JxlEncoderGetError(enc));
        res.has_error = 1;
        free(res.buf);
        res.buf = NULL;
        res.size = 0;
    }

    JxlEncoderDestroy(enc);
    return res;
}

static void free_encode_buf(unsigned char *buf) {
    free(buf);
}
*/
import "C"

import (
	"fmt"
	"unsafe"

	"github.com/andresmejia3/facewire/internal/types"
)

// EncodeLossless compresses tightly packed 8-bit pixels into a lossless JPEG XL
// codestream. pixels must be width*height*channels bytes.
func EncodeLossless(pixels []byte, width, height, channels int) ([]byte, error) {
	return encodeLossless(pixels, width, height, channels, orientIdentity)
}

// orientIdentity is JXL_ORIENT_IDENTITY.
const orientIdentity = 1

// encodeLossless tags the stream with an EXIF orientation. Decoders apply it,
// so orientations 5..8 swap the displayed width and height.
func encodeLossless(pixels []byte, width, height, channels, orientation int) ([]byte, error) {
	if err := Init(); err != nil {
		return nil, err
	}
	if channels < 1 || channels > 4 {
		return nil, fmt.Errorf("%d channels: %w", channels, types.ErrInvalidArgument)
	}
	if orientation < 1 || orientation > 8 {
		return nil, fmt.Errorf("orientation %d: %w", orientation, types.ErrInvalidArgument)
	}
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("image size %dx%d: %w", width, height, types.ErrInvalidArgument)
	}
	if expected := width * height * channels; len(pixels) != expected {
		return nil, fmt.Errorf("expected %d pixel bytes, got %d: %w", expected, len(pixels), types.ErrInvalidArgument)
	}

	res := C.encode_lossless(
		(*C.uint8_t)(unsafe.Pointer(&pixels[0])),
		C.uint32_t(width), C.uint32_t(height), C.uint32_t(channels), C.int(orientation),
	)
	if res.has_error != 0 {
		return nil, fmt.Errorf("%w: libjxl encode: %s", ErrCodec, C.GoString(&res.error_msg[0]))
	}
	defer C.free_encode_buf(res.buf)

	return C.GoBytes(unsafe.Pointer(res.buf), C.int(res.size)), nil
}
