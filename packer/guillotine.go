// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package packer

import "sort"

// freeRect is one slot in the free-space arena.
// Consumed slots are marked dead and recycled by later splits.
type freeRect struct {
	rect Rect
	live bool
}

// Guillotine implements guillotine rectangle packing with a growable canvas.
//
// Free space is a set of disjoint rectangles stored in an arena and
// addressed by index. Each allocation takes the best area fit (smallest free
// rectangle that holds the request, ties broken top-most then left-most),
// places the request in its top-left corner and cuts the remainder into at
// most two free rectangles along the shorter leftover axis.
//
// Guillotine is not safe for concurrent use.
type Guillotine struct {
	size Size

	free []freeRect
	dead []int // indices of dead slots in free

	allocs   []Allocation
	usedArea int
}

// NewGuillotine creates a guillotine allocator with an empty canvas of the
// given size. Non-positive dimensions are raised to 1.
func NewGuillotine(size Size) *Guillotine {
	size.Width = max(size.Width, 1)
	size.Height = max(size.Height, 1)

	g := &Guillotine{
		size: size,
		free: make([]freeRect, 0, 16),
	}
	g.addFree(Rect{Width: size.Width, Height: size.Height})
	return g
}

// Allocate places a width x height rectangle.
// It returns ok == false without changing any state when nothing fits.
func (g *Guillotine) Allocate(width, height int) (Allocation, bool) {
	if width <= 0 || height <= 0 {
		return Allocation{}, false
	}

	idx := g.bestFit(width, height)
	if idx < 0 {
		return Allocation{}, false
	}

	chosen := g.free[idx].rect
	placed := Rect{X: chosen.X, Y: chosen.Y, Width: width, Height: height}
	g.consume(idx, placed)

	alloc := Allocation{ID: len(g.allocs), Rect: placed}
	g.allocs = append(g.allocs, alloc)
	g.usedArea += placed.Area()
	return alloc, true
}

// bestFit returns the arena index of the free rectangle to use, or -1.
func (g *Guillotine) bestFit(width, height int) int {
	best := -1
	var bestRect Rect
	for i := range g.free {
		f := &g.free[i]
		if !f.live || f.rect.Width < width || f.rect.Height < height {
			continue
		}
		if best < 0 || betterFit(f.rect, bestRect) {
			best = i
			bestRect = f.rect
		}
	}
	return best
}

// betterFit orders candidates by area, then Y, then X.
// Free rectangles are disjoint, so two candidates never tie on all three.
func betterFit(a, b Rect) bool {
	if aa, ba := a.Area(), b.Area(); aa != ba {
		return aa < ba
	}
	if a.Y != b.Y {
		return a.Y < b.Y
	}
	return a.X < b.X
}

// consume removes free slot idx and adds the two guillotine leftovers.
func (g *Guillotine) consume(idx int, placed Rect) {
	c := g.free[idx].rect
	restW := c.Width - placed.Width
	restH := c.Height - placed.Height

	var right, bottom Rect
	if restW <= restH {
		// Horizontal cut: bottom piece spans the full width.
		right = Rect{X: placed.MaxX(), Y: c.Y, Width: restW, Height: placed.Height}
		bottom = Rect{X: c.X, Y: placed.MaxY(), Width: c.Width, Height: restH}
	} else {
		// Vertical cut: right piece spans the full height.
		right = Rect{X: placed.MaxX(), Y: c.Y, Width: restW, Height: c.Height}
		bottom = Rect{X: c.X, Y: placed.MaxY(), Width: placed.Width, Height: restH}
	}

	g.free[idx] = freeRect{}
	g.dead = append(g.dead, idx)
	g.addFree(right)
	g.addFree(bottom)
}

// addFree stores r in a recycled slot, or appends it.
func (g *Guillotine) addFree(r Rect) {
	if r.Empty() {
		return
	}
	if n := len(g.dead); n > 0 {
		idx := g.dead[n-1]
		g.dead = g.dead[:n-1]
		g.free[idx] = freeRect{rect: r, live: true}
		return
	}
	g.free = append(g.free, freeRect{rect: r, live: true})
}

// span is a half-open interval [lo, hi).
type span struct{ lo, hi int }

// Grow expands the canvas to size. Existing allocations are untouched.
//
// Free rectangles that end on the old right edge are stretched to the new
// right edge, free rectangles that end on the old bottom edge are stretched
// to the new bottom edge, and every part of the added area not covered by a
// stretched rectangle becomes a new free rectangle. Stretching keeps empty
// regions contiguous across the old boundary, so an empty 16x16 canvas
// grown to 32x32 offers a single 32x32 free rectangle.
func (g *Guillotine) Grow(size Size) error {
	if err := checkGrow(g.size, size); err != nil {
		return err
	}
	old := g.size
	if size == old {
		return nil
	}
	growW := size.Width > old.Width
	growH := size.Height > old.Height

	var rightCovered, bottomCovered []span
	for i := range g.free {
		f := &g.free[i]
		if !f.live {
			continue
		}
		r := f.rect
		touchRight := growW && r.MaxX() == old.Width
		touchBottom := growH && r.MaxY() == old.Height
		if touchRight {
			r.Width = size.Width - r.X
		}
		if touchBottom {
			r.Height = size.Height - r.Y
		}
		if touchRight {
			rightCovered = append(rightCovered, span{r.Y, r.MaxY()})
		}
		if touchBottom {
			bottomCovered = append(bottomCovered, span{r.X, min(r.MaxX(), old.Width)})
		}
		f.rect = r
	}

	// The added area is the right strip [old.Width, size.Width) x [0, size.Height)
	// plus the bottom strip [0, old.Width) x [old.Height, size.Height).
	if growW {
		for _, gap := range gaps(rightCovered, size.Height) {
			g.addFree(Rect{
				X:      old.Width,
				Y:      gap.lo,
				Width:  size.Width - old.Width,
				Height: gap.hi - gap.lo,
			})
		}
	}
	if growH {
		for _, gap := range gaps(bottomCovered, old.Width) {
			g.addFree(Rect{
				X:      gap.lo,
				Y:      old.Height,
				Width:  gap.hi - gap.lo,
				Height: size.Height - old.Height,
			})
		}
	}

	g.size = size
	return nil
}

// gaps returns the parts of [0, limit) not covered by the disjoint spans.
func gaps(covered []span, limit int) []span {
	sort.Slice(covered, func(i, j int) bool { return covered[i].lo < covered[j].lo })

	var out []span
	pos := 0
	for _, s := range covered {
		if s.lo > pos {
			out = append(out, span{pos, s.lo})
		}
		pos = max(pos, s.hi)
	}
	if pos < limit {
		out = append(out, span{pos, limit})
	}
	return out
}

// Size returns the current canvas size.
func (g *Guillotine) Size() Size {
	return g.size
}

// Allocations returns a copy of every issued allocation in ID order.
func (g *Guillotine) Allocations() []Allocation {
	out := make([]Allocation, len(g.allocs))
	copy(out, g.allocs)
	return out
}

// UsedArea returns the total area of issued allocations.
func (g *Guillotine) UsedArea() int {
	return g.usedArea
}

// FreeRects returns the live free rectangles, ordered top-left first.
func (g *Guillotine) FreeRects() []Rect {
	out := make([]Rect, 0, len(g.free)-len(g.dead))
	for _, f := range g.free {
		if f.live {
			out = append(out, f.rect)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Y != out[j].Y {
			return out[i].Y < out[j].Y
		}
		return out[i].X < out[j].X
	})
	return out
}

// FreeArea returns the total area of the free rectangles.
func (g *Guillotine) FreeArea() int {
	total := 0
	for _, f := range g.free {
		if f.live {
			total += f.rect.Area()
		}
	}
	return total
}
