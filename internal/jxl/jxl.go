// Package jxl binds libjxl for lossless JPEG XL encoding and RGBA decoding.
package jxl

/*
#cgo pkg-config: libjxl
#include <stdint.h>
#include <stdlib.h>
#include <jxl/decode.h>
#include <jxl/encode.h>
*/
import "C"

import (
	"errors"
	"fmt"
	"sync"
	"unsafe"
)

// ErrCodec is returned for streams libjxl cannot decode and for encoder failures.
var ErrCodec = errors.New("jpeg xl codec error")

// minVersion is 0.7.0, the first release with frame-level lossless settings
// and JxlDecoderCloseInput.
const minVersion = 7000

var initOnce = sync.OnceValue(func() error {
	if v := uint32(C.JxlDecoderVersion()); v < minVersion {
		return fmt.Errorf("%w: libjxl %s is older than 0.7.0", ErrCodec, Version())
	}
	if v := uint32(C.JxlEncoderVersion()); v < minVersion {
		return fmt.Errorf("%w: libjxl encoder %d is older than 0.7.0", ErrCodec, v)
	}
	return nil
})

// Init checks the linked libjxl once per process. It is safe to call from
// any goroutine and any number of times; encode and decode call it lazily.
func Init() error {
	return initOnce()
}

// Version returns the linked libjxl version as major.minor.patch.
func Version() string {
	v := uint32(C.JxlDecoderVersion())
	return fmt.Sprintf("%d.%d.%d", v/1000000, v/1000%1000, v%1000)
}

// IsJXL reports whether data starts with a JPEG XL codestream or container signature.
func IsJXL(data []byte) bool {
	if len(data) == 0 {
		return false
	}
	sig := C.JxlSignatureCheck((*C.uint8_t)(unsafe.Pointer(&data[0])), C.size_t(len(data)))
	return sig == C.JXL_SIG_CODESTREAM || sig == C.JXL_SIG_CONTAINER
}
