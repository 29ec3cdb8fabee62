// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package atlas

import (
	"encoding/binary"
	"fmt"

	"github.com/gogpu/atlas/packer"
)

// PointerSize is the encoded size of a Pointer in bytes.
const PointerSize = 16

// Pointer locates one entry in the composite image.
// Min is the inclusive top-left corner and Max the exclusive bottom-right
// corner, both in pixels.
type Pointer struct {
	Min [2]int32
	Max [2]int32
}

// PointerFromRect converts a pixel region to a Pointer.
// Atlas canvases never exceed math.MaxInt32 on either axis, so the
// conversion is exact for every region an Atlas hands out.
//
//nolint:gosec // see above
func PointerFromRect(r packer.Rect) Pointer {
	return Pointer{
		Min: [2]int32{int32(r.X), int32(r.Y)},
		Max: [2]int32{int32(r.MaxX()), int32(r.MaxY())},
	}
}

// Rect returns the pointer as a pixel region.
func (p Pointer) Rect() packer.Rect {
	return packer.Rect{
		X:      int(p.Min[0]),
		Y:      int(p.Min[1]),
		Width:  int(p.Max[0] - p.Min[0]),
		Height: int(p.Max[1] - p.Min[1]),
	}
}

// Width returns the pointer width in pixels.
func (p Pointer) Width() int { return int(p.Max[0] - p.Min[0]) }

// Height returns the pointer height in pixels.
func (p Pointer) Height() int { return int(p.Max[1] - p.Min[1]) }

// UV returns normalized texture coordinates for an atlas of the given size.
// Returns the zero UV if the size is not positive.
func (p Pointer) UV(width, height int) UV {
	if width <= 0 || height <= 0 {
		return UV{}
	}
	w, h := float32(width), float32(height)
	return UV{
		U0: float32(p.Min[0]) / w,
		V0: float32(p.Min[1]) / h,
		U1: float32(p.Max[0]) / w,
		V1: float32(p.Max[1]) / h,
	}
}

func (p Pointer) String() string {
	return fmt.Sprintf("Pointer(%d,%d)-(%d,%d)", p.Min[0], p.Min[1], p.Max[0], p.Max[1])
}

// UV is a normalized texture coordinate rectangle in [0, 1].
type UV struct {
	U0, V0, U1, V1 float32
}

// EncodePointers appends ptrs to dst as little-endian int32 quadruples
// (min.x, min.y, max.x, max.y), the layout a shader reads from a storage
// buffer of ivec4/vec4<i32>.
func EncodePointers(dst []byte, ptrs []Pointer) []byte {
	for _, p := range ptrs {
		dst = binary.LittleEndian.AppendUint32(dst, uint32(p.Min[0])) //nolint:gosec // bit reinterpretation
		dst = binary.LittleEndian.AppendUint32(dst, uint32(p.Min[1])) //nolint:gosec // bit reinterpretation
		dst = binary.LittleEndian.AppendUint32(dst, uint32(p.Max[0])) //nolint:gosec // bit reinterpretation
		dst = binary.LittleEndian.AppendUint32(dst, uint32(p.Max[1])) //nolint:gosec // bit reinterpretation
	}
	return dst
}
