// Package codec serializes faces and images to their wire formats.
//
// A Face becomes a Face protobuf message. A flat Image becomes a bare lossless
// JPEG XL stream. An Image3D becomes an Image3D envelope holding the JPEG XL
// stream and, when depth data was captured, a DepthMap message.
//
// All functions are pure and safe for concurrent use. Failures wrap one of
// ErrDecode, ErrCodec or ErrInvalidArgument and never return a partial value.
package codec

import (
	"github.com/andresmejia3/facewire/internal/pixel"
	"github.com/andresmejia3/facewire/internal/types"
	"github.com/andresmejia3/facewire/internal/wire"
)

var (
	// ErrDecode marks bytes that are not a well-formed protobuf message.
	ErrDecode = wire.ErrDecode
	// ErrCodec marks an invalid or corrupt JPEG XL stream.
	ErrCodec = pixel.ErrCodec
	// ErrInvalidArgument marks an unsupported pixel format or inconsistent buffer.
	ErrInvalidArgument = types.ErrInvalidArgument
)
