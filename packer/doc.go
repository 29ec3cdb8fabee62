// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package packer provides growable two-dimensional rectangle allocators.
//
// An [Allocator] places axis-aligned rectangles inside a canvas that starts
// small and can only grow. Placements never overlap, always stay inside the
// canvas, and are never moved by [Allocator.Grow], so texture coordinates
// derived from an earlier placement remain valid for the lifetime of the
// allocator.
//
// Two strategies are available:
//
//   - [Guillotine] keeps free space as a set of disjoint rectangles and picks
//     the best area fit. It is the default and copes well with mixed sizes.
//   - [Shelf] packs rectangles left to right on horizontal shelves. It is
//     simpler and works well when heights are uniform (glyphs, block faces).
//
// A failed allocation is not an error: Allocate returns ok == false and the
// caller decides whether to grow and retry.
//
//	a := packer.NewGuillotine(packer.Size{Width: 256, Height: 256})
//	alloc, ok := a.Allocate(64, 32)
//	for !ok {
//	    s := a.Size()
//	    _ = a.Grow(packer.Size{Width: s.Width * 2, Height: s.Height * 2})
//	    alloc, ok = a.Allocate(64, 32)
//	}
package packer
