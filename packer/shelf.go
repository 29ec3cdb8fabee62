// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package packer

// Shelf implements shelf-based rectangle packing with a growable canvas.
// Simple and fast, suited to items of similar height such as glyphs or
// block faces.
//
// The algorithm organizes rectangles in horizontal "shelves".
// Each shelf has a fixed height (the tallest item placed on it so far).
// New items are placed left-to-right on the first shelf with room,
// then a new shelf is started below the last one.
//
// Growing the canvas never moves a shelf: extra width extends every
// shelf to the right and extra height makes room for new shelves.
//
// Shelf is not safe for concurrent use.
type Shelf struct {
	size    Size
	shelves []shelf

	allocs   []Allocation
	usedArea int
}

// shelf represents a horizontal strip in the canvas.
type shelf struct {
	y      int // Y position of shelf top
	height int // Height of the shelf (tallest item so far)
	x      int // Next free X position
}

// NewShelf creates a shelf allocator for the given canvas size.
// Non-positive dimensions are raised to 1.
func NewShelf(size Size) *Shelf {
	size.Width = max(size.Width, 1)
	size.Height = max(size.Height, 1)
	return &Shelf{
		size:    size,
		shelves: make([]shelf, 0, 16),
	}
}

// Allocate finds space for a rectangle of the given size.
//
// The algorithm:
//  1. Try to fit on an existing shelf with enough height
//  2. The last shelf may grow taller if there is room below it
//  3. Otherwise start a new shelf below the last one
//  4. If there is no room for a new shelf, allocation fails
func (a *Shelf) Allocate(width, height int) (Allocation, bool) {
	if width <= 0 || height <= 0 {
		return Allocation{}, false
	}
	if width > a.size.Width || height > a.size.Height {
		return Allocation{}, false
	}

	last := len(a.shelves) - 1
	for i := range a.shelves {
		s := &a.shelves[i]
		if s.x+width > a.size.Width {
			continue
		}
		if height > s.height {
			if i != last || s.y+height > a.size.Height {
				continue
			}
			s.height = height
		}
		return a.place(s, width, height), true
	}

	newY := a.nextShelfY()
	if newY+height > a.size.Height {
		return Allocation{}, false
	}
	a.shelves = append(a.shelves, shelf{y: newY, height: height})
	return a.place(&a.shelves[len(a.shelves)-1], width, height), true
}

// place records an allocation at the shelf cursor and advances it.
func (a *Shelf) place(s *shelf, width, height int) Allocation {
	alloc := Allocation{
		ID:   len(a.allocs),
		Rect: Rect{X: s.x, Y: s.y, Width: width, Height: height},
	}
	s.x += width
	a.allocs = append(a.allocs, alloc)
	a.usedArea += width * height
	return alloc
}

func (a *Shelf) nextShelfY() int {
	if len(a.shelves) == 0 {
		return 0
	}
	last := a.shelves[len(a.shelves)-1]
	return last.y + last.height
}

// Grow expands the canvas to size. Shelves keep their positions.
func (a *Shelf) Grow(size Size) error {
	if err := checkGrow(a.size, size); err != nil {
		return err
	}
	a.size = size
	return nil
}

// Size returns the current canvas size.
func (a *Shelf) Size() Size {
	return a.size
}

// Allocations returns a copy of every issued allocation in ID order.
func (a *Shelf) Allocations() []Allocation {
	out := make([]Allocation, len(a.allocs))
	copy(out, a.allocs)
	return out
}

// UsedArea returns the total area used by allocations.
func (a *Shelf) UsedArea() int {
	return a.usedArea
}

// ShelfCount returns the number of shelves currently in use.
func (a *Shelf) ShelfCount() int {
	return len(a.shelves)
}

// RemainingHeight returns the vertical space remaining for new shelves.
func (a *Shelf) RemainingHeight() int {
	return max(a.size.Height-a.nextShelfY(), 0)
}
