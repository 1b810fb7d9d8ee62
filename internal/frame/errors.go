package frame

import (
	"errors"
	"fmt"
)

// Domain errors for conversion operations.
var (
	// ErrDecode indicates unreadable media or an unsupported container.
	ErrDecode = errors.New("frame: cannot decode media")

	// ErrFrameIndex indicates a single video sample failed to decode.
	ErrFrameIndex = errors.New("frame: sample index failed to decode")

	// ErrDimension indicates a non-positive width or computed height.
	ErrDimension = errors.New("frame: invalid dimensions")

	// ErrConfig indicates invalid adjustment parameters or an empty gradient.
	ErrConfig = errors.New("frame: invalid configuration")
)

// DecodeError wraps a decode failure with the offending source path.
type DecodeError struct {
	Path    string
	Wrapped error
}

func (e *DecodeError) Error() string {
	if e.Wrapped == nil {
		return fmt.Sprintf("%v: %s", ErrDecode, e.Path)
	}
	return fmt.Sprintf("%v: %s: %v", ErrDecode, e.Path, e.Wrapped)
}

func (e *DecodeError) Unwrap() error { return e.Wrapped }

func (e *DecodeError) Is(target error) bool { return target == ErrDecode }

// FrameIndexError records a video sample that could not be decoded.
type FrameIndexError struct {
	Index   int
	Wrapped error
}

func (e *FrameIndexError) Error() string {
	return fmt.Sprintf("%v: index %d: %v", ErrFrameIndex, e.Index, e.Wrapped)
}

func (e *FrameIndexError) Unwrap() error { return e.Wrapped }

func (e *FrameIndexError) Is(target error) bool { return target == ErrFrameIndex }

// DimensionError reports a rejected width/height pair.
type DimensionError struct {
	Width  int
	Height int
	Reason string
}

func (e *DimensionError) Error() string {
	return fmt.Sprintf("%v: %dx%d: %s", ErrDimension, e.Width, e.Height, e.Reason)
}

func (e *DimensionError) Is(target error) bool { return target == ErrDimension }

// ConfigError reports a rejected configuration field.
type ConfigError struct {
	Field  string
	Value  any
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("%v: %s=%v: %s", ErrConfig, e.Field, e.Value, e.Reason)
}

func (e *ConfigError) Is(target error) bool { return target == ErrConfig }
