package types

import (
	"encoding/json"
	"errors"
	"fmt"
	"slices"
)

// ErrInvalidArgument is returned when a buffer or pixel format cannot be processed.
var ErrInvalidArgument = errors.New("invalid argument")

// Point2D is a point in image coordinates.
type Point2D struct {
	X float32 `json:"x"`
	Y float32 `json:"y"`
}

// Rect is a face bounding box. The wire format stores it as origin plus size.
type Rect struct {
	Left   float32 `json:"left"`
	Top    float32 `json:"top"`
	Right  float32 `json:"right"`
	Bottom float32 `json:"bottom"`
}

func (r Rect) Width() float32  { return r.Right - r.Left }
func (r Rect) Height() float32 { return r.Bottom - r.Top }

// RectFromOrigin builds a Rect from the (x, y, width, height) wire representation.
func RectFromOrigin(x, y, width, height float32) Rect {
	return Rect{Left: x, Top: y, Right: x + width, Bottom: y + height}
}

// EulerAngle holds head pose. Units follow the detector that produced it.
type EulerAngle struct {
	Yaw   float32 `json:"yaw"`
	Pitch float32 `json:"pitch"`
	Roll  float32 `json:"roll"`
}

// OptionalPoint is either Present(point) or Absent. The zero value is Absent.
type OptionalPoint struct {
	point Point2D
	ok    bool
}

// Present wraps p as a set optional point.
func Present(p Point2D) OptionalPoint { return OptionalPoint{point: p, ok: true} }

// Absent returns the unset optional point.
func Absent() OptionalPoint { return OptionalPoint{} }

// Get returns the point and whether it is present.
func (o OptionalPoint) Get() (Point2D, bool) { return o.point, o.ok }

func (o OptionalPoint) IsPresent() bool { return o.ok }

// Equal treats two absent points as equal regardless of any stale coordinates.
func (o OptionalPoint) Equal(other OptionalPoint) bool {
	if o.ok != other.ok {
		return false
	}
	return !o.ok || o.point == other.point
}

// IsZero reports absence, so `omitzero` drops absent points from JSON.
func (o OptionalPoint) IsZero() bool { return !o.ok }

// MarshalJSON encodes an absent point as null.
func (o OptionalPoint) MarshalJSON() ([]byte, error) {
	if !o.ok {
		return []byte("null"), nil
	}
	return json.Marshal(o.point)
}

func (o *OptionalPoint) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		*o = OptionalPoint{}
		return nil
	}
	var p Point2D
	if err := json.Unmarshal(b, &p); err != nil {
		return err
	}
	*o = Present(p)
	return nil
}

func (o OptionalPoint) String() string {
	if !o.ok {
		return "absent"
	}
	return fmt.Sprintf("(%g, %g)", o.point.X, o.point.Y)
}

// Face is a single detected face. It is a value: copy it freely.
type Face struct {
	Bounds           Rect          `json:"bounds"`
	Angle            EulerAngle    `json:"angle"`
	Quality          float32       `json:"quality"`
	Landmarks        []Point2D     `json:"landmarks,omitempty"`
	LeftEye          Point2D       `json:"leftEye"`
	RightEye         Point2D       `json:"rightEye"`
	NoseTip          OptionalPoint `json:"noseTip,omitzero"`
	MouthCentre      OptionalPoint `json:"mouthCentre,omitzero"`
	MouthLeftCorner  OptionalPoint `json:"mouthLeftCorner,omitzero"`
	MouthRightCorner OptionalPoint `json:"mouthRightCorner,omitzero"`
}

// Equal reports value equality, including landmark order and which optional
// landmarks are present.
func (f Face) Equal(other Face) bool {
	return f.Bounds == other.Bounds &&
		f.Angle == other.Angle &&
		f.Quality == other.Quality &&
		slices.Equal(f.Landmarks, other.Landmarks) &&
		f.LeftEye == other.LeftEye &&
		f.RightEye == other.RightEye &&
		f.NoseTip.Equal(other.NoseTip) &&
		f.MouthCentre.Equal(other.MouthCentre) &&
		f.MouthLeftCorner.Equal(other.MouthLeftCorner) &&
		f.MouthRightCorner.Equal(other.MouthRightCorner)
}

// PixelFormat is the layout of a single pixel in a PixelBuffer.
type PixelFormat int

const (
	RGBA PixelFormat = iota
	Grayscale
)

// BytesPerPixel returns 0 for unknown formats.
func (f PixelFormat) BytesPerPixel() int32 {
	switch f {
	case RGBA:
		return 4
	case Grayscale:
		return 1
	}
	return 0
}

func (f PixelFormat) String() string {
	switch f {
	case RGBA:
		return "RGBA"
	case Grayscale:
		return "GRAYSCALE"
	}
	return fmt.Sprintf("PixelFormat(%d)", int(f))
}

// PixelBuffer is a row-major pixel array.
type PixelBuffer struct {
	Data        []byte
	Width       int32
	Height      int32
	BytesPerRow int32
	Format      PixelFormat
}

// Validate checks the buffer invariants. Failures wrap ErrInvalidArgument.
func (b PixelBuffer) Validate() error {
	bpp := b.Format.BytesPerPixel()
	if bpp == 0 {
		return fmt.Errorf("unsupported pixel format %s: %w", b.Format, ErrInvalidArgument)
	}
	if b.Width <= 0 || b.Height <= 0 {
		return fmt.Errorf("image size %dx%d must be positive: %w", b.Width, b.Height, ErrInvalidArgument)
	}
	if int64(b.BytesPerRow) < int64(b.Width)*int64(bpp) {
		return fmt.Errorf("bytes per row %d is less than %d pixels of %s: %w", b.BytesPerRow, b.Width, b.Format, ErrInvalidArgument)
	}
	if need := int64(b.BytesPerRow) * int64(b.Height); int64(len(b.Data)) < need {
		return fmt.Errorf("pixel data holds %d bytes, need %d: %w", len(b.Data), need, ErrInvalidArgument)
	}
	return nil
}

// Pixel returns the bytes of the pixel at (x, y).
func (b PixelBuffer) Pixel(x, y int) []byte {
	bpp := int(b.Format.BytesPerPixel())
	off := y*int(b.BytesPerRow) + x*bpp
	return b.Data[off : off+bpp]
}

// DepthMap is a per-pixel depth buffer with the calibration of the camera that captured it.
type DepthMap struct {
	Data                      []byte    `json:"data"`
	Width                     int32     `json:"width"`
	Height                    int32     `json:"height"`
	BytesPerRow               int32     `json:"bytesPerRow"`
	BitsPerElement            int32     `json:"bitsPerElement"`
	FocalLength               Point2D   `json:"focalLength"`
	PrincipalPoint            Point2D   `json:"principalPoint"`
	LensDistortionCenter      Point2D   `json:"lensDistortionCenter"`
	LensDistortionLookupTable []float32 `json:"lensDistortionLookupTable"`
}

// Serializable is implemented by the two image variants, Image and Image3D.
// Each variant has its own wire representation.
type Serializable interface {
	Pixels() PixelBuffer
	isSerializable()
}

// Image is a flat image. On the wire it is a bare JPEG XL stream.
type Image struct {
	PixelBuffer
}

func (i Image) Pixels() PixelBuffer { return i.PixelBuffer }
func (Image) isSerializable()       {}

// Image3D is an image with optional depth data. A nil DepthMap means no depth
// data was captured, which is different from an empty DepthMap.
type Image3D struct {
	PixelBuffer
	DepthMap *DepthMap
}

func (i Image3D) Pixels() PixelBuffer { return i.PixelBuffer }
func (Image3D) isSerializable()       {}
