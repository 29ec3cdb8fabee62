// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package packer

import (
	"errors"
	"fmt"
	"image"
	"strings"
)

// Allocator errors.
var (
	// ErrInvalidSize is returned when a canvas size is not strictly positive.
	ErrInvalidSize = errors.New("packer: size must be positive")

	// ErrShrink is returned by Grow when the new size does not dominate the
	// current size on both axes.
	ErrShrink = errors.New("packer: canvas cannot shrink")
)

// Size is the extent of an allocator canvas in pixels.
type Size struct {
	Width  int
	Height int
}

// Valid returns true if both dimensions are strictly positive.
func (s Size) Valid() bool {
	return s.Width > 0 && s.Height > 0
}

// Area returns Width*Height.
func (s Size) Area() int {
	return s.Width * s.Height
}

// Dominates returns true if s is at least as large as o on both axes.
func (s Size) Dominates(o Size) bool {
	return s.Width >= o.Width && s.Height >= o.Height
}

func (s Size) String() string {
	return fmt.Sprintf("%dx%d", s.Width, s.Height)
}

// Rect is an axis-aligned rectangle in canvas pixels.
// X, Y is the top-left corner.
type Rect struct {
	X      int
	Y      int
	Width  int
	Height int
}

// MaxX returns the exclusive right edge.
func (r Rect) MaxX() int { return r.X + r.Width }

// MaxY returns the exclusive bottom edge.
func (r Rect) MaxY() int { return r.Y + r.Height }

// Empty returns true if the rectangle has no area.
func (r Rect) Empty() bool {
	return r.Width <= 0 || r.Height <= 0
}

// Area returns the rectangle area, or 0 for an empty rectangle.
func (r Rect) Area() int {
	if r.Empty() {
		return 0
	}
	return r.Width * r.Height
}

// Overlaps returns true if the two rectangles share any pixel.
// Touching edges do not overlap.
func (r Rect) Overlaps(o Rect) bool {
	if r.Empty() || o.Empty() {
		return false
	}
	return r.X < o.MaxX() && o.X < r.MaxX() && r.Y < o.MaxY() && o.Y < r.MaxY()
}

// Within returns true if the rectangle lies entirely inside a canvas of size s.
func (r Rect) Within(s Size) bool {
	return r.X >= 0 && r.Y >= 0 && r.MaxX() <= s.Width && r.MaxY() <= s.Height
}

// Contains returns true if the point (x, y) is inside the rectangle.
func (r Rect) Contains(x, y int) bool {
	return x >= r.X && x < r.MaxX() && y >= r.Y && y < r.MaxY()
}

// Image returns the rectangle as an image.Rectangle.
func (r Rect) Image() image.Rectangle {
	return image.Rect(r.X, r.Y, r.MaxX(), r.MaxY())
}

func (r Rect) String() string {
	return fmt.Sprintf("Rect(%d,%d %dx%d)", r.X, r.Y, r.Width, r.Height)
}

// Allocation is a placement issued by an Allocator.
// ID is the index of the allocation in issue order.
type Allocation struct {
	ID   int
	Rect Rect
}

// Allocator places rectangles inside a growable canvas.
//
// Implementations are not safe for concurrent use.
type Allocator interface {
	// Allocate finds room for a width x height rectangle. It returns
	// ok == false, and leaves the allocator untouched, when the current
	// canvas has no free region of that size or the size is not positive.
	Allocate(width, height int) (alloc Allocation, ok bool)

	// Grow expands the canvas to size without moving any allocation.
	Grow(size Size) error

	// Size returns the current canvas size.
	Size() Size

	// Allocations returns every issued allocation in ID order.
	Allocations() []Allocation

	// UsedArea returns the total area of issued allocations.
	UsedArea() int
}

// Strategy selects an allocator implementation.
type Strategy int

const (
	// StrategyGuillotine selects the Guillotine allocator.
	StrategyGuillotine Strategy = iota

	// StrategyShelf selects the Shelf allocator.
	StrategyShelf
)

func (s Strategy) String() string {
	switch s {
	case StrategyGuillotine:
		return "guillotine"
	case StrategyShelf:
		return "shelf"
	default:
		return fmt.Sprintf("Strategy(%d)", int(s))
	}
}

// ParseStrategy parses a strategy name as produced by Strategy.String.
func ParseStrategy(name string) (Strategy, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "guillotine":
		return StrategyGuillotine, nil
	case "shelf":
		return StrategyShelf, nil
	default:
		return 0, fmt.Errorf("packer: unknown strategy %q", name)
	}
}

// New creates an allocator of the given strategy.
func New(strategy Strategy, size Size) (Allocator, error) {
	if !size.Valid() {
		return nil, fmt.Errorf("%w: %s", ErrInvalidSize, size)
	}
	switch strategy {
	case StrategyGuillotine:
		return NewGuillotine(size), nil
	case StrategyShelf:
		return NewShelf(size), nil
	default:
		return nil, fmt.Errorf("packer: unknown strategy %s", strategy)
	}
}

// Utilization returns the fraction of the canvas covered by allocations
// (0.0 to 1.0).
func Utilization(a Allocator) float64 {
	total := a.Size().Area()
	if total <= 0 {
		return 0
	}
	return float64(a.UsedArea()) / float64(total)
}

// checkGrow validates a Grow request against the current size.
func checkGrow(current, next Size) error {
	if !next.Valid() {
		return fmt.Errorf("%w: %s", ErrInvalidSize, next)
	}
	if !next.Dominates(current) {
		return fmt.Errorf("%w: %s to %s", ErrShrink, current, next)
	}
	return nil
}
