// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package atlas

import (
	"errors"
	"fmt"

	"github.com/gogpu/atlas/packer"
)

// Sentinel errors for the atlas package.
var (
	// ErrInvalidDimensions is returned when a texture is nil or has a
	// non-positive width or height. No allocation is attempted.
	ErrInvalidDimensions = errors.New("atlas: invalid texture dimensions")

	// ErrCapacityExceeded is returned when a texture cannot be placed even
	// after growing the canvas to its maximum size.
	ErrCapacityExceeded = errors.New("atlas: capacity exceeded")
)

// CapacityError reports a texture that did not fit within the size cap.
// It unwraps to ErrCapacityExceeded.
type CapacityError struct {
	// Width and Height are the requested size, padding included.
	Width, Height int

	// Size is the canvas size when the request was rejected.
	Size packer.Size

	// MaxSize is the per-axis canvas limit in effect.
	MaxSize int
}

func (e *CapacityError) Error() string {
	return fmt.Sprintf("atlas: cannot place %dx%d texture: canvas %s, max size %d",
		e.Width, e.Height, e.Size, e.MaxSize)
}

// Unwrap returns ErrCapacityExceeded.
func (e *CapacityError) Unwrap() error {
	return ErrCapacityExceeded
}

// ConfigError represents an option validation error.
type ConfigError struct {
	Field  string
	Reason string
}

func (e *ConfigError) Error() string {
	return "atlas: invalid config." + e.Field + ": " + e.Reason
}
