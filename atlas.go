// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package atlas

import (
	"fmt"
	"image"

	"github.com/gogpu/atlas/internal/imageio"
	"github.com/gogpu/atlas/packer"
)

// Entry is one packed texture.
type Entry struct {
	// Rect is the texture's pixel region in the atlas, padding excluded.
	Rect packer.Rect

	// Image is the atlas's own copy of the texture, with bounds at (0, 0).
	// It must not be modified.
	Image *image.NRGBA
}

// Atlas packs textures into one growable canvas and composites them on
// demand. Entries are append-only: a texture keeps its region for the
// lifetime of the Atlas, and the i-th successful AddTexture call owns the
// i-th entry and the i-th pointer.
//
// Atlas is NOT safe for concurrent use. It is meant to be owned by a single
// setup routine; callers sharing it across goroutines must serialize access.
type Atlas struct {
	alloc   packer.Allocator
	entries []Entry
	cfg     options

	grows int
}

// New creates an empty atlas.
// Returns a *ConfigError if an option is invalid.
func New(opts ...Option) (*Atlas, error) {
	cfg := defaultOptions()
	for _, opt := range opts {
		opt(&cfg)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	alloc, err := packer.New(cfg.strategy, cfg.initial)
	if err != nil {
		return nil, fmt.Errorf("atlas: create allocator: %w", err)
	}

	return &Atlas{
		alloc: alloc,
		cfg:   cfg,
	}, nil
}

// AddTexture packs img into the atlas and returns its entry index.
//
// The canvas doubles on both axes, up to the configured maximum, until the
// texture fits. Nil or zero-sized images fail with ErrInvalidDimensions and
// a texture that cannot fit under the cap fails with a *CapacityError; in
// both cases nothing is added.
//
// The pixels are copied, so img may be reused after the call.
func (a *Atlas) AddTexture(img image.Image) (int, error) {
	if img == nil {
		return -1, fmt.Errorf("%w: nil image", ErrInvalidDimensions)
	}
	b := img.Bounds()
	if b.Dx() <= 0 || b.Dy() <= 0 {
		return -1, fmt.Errorf("%w: %dx%d", ErrInvalidDimensions, b.Dx(), b.Dy())
	}

	rect, err := a.place(b.Dx(), b.Dy())
	if err != nil {
		return -1, err
	}

	a.entries = append(a.entries, Entry{
		Rect:  rect,
		Image: imageio.ToNRGBA(img),
	})
	return len(a.entries) - 1, nil
}

// place allocates a padded region, growing the canvas until it fits.
func (a *Atlas) place(width, height int) (packer.Rect, error) {
	pw := width + a.cfg.padding
	ph := height + a.cfg.padding

	limit := a.cfg.limit()
	if pw > limit || ph > limit {
		return packer.Rect{}, a.capacityError(pw, ph)
	}

	for {
		alloc, ok := a.alloc.Allocate(pw, ph)
		if ok {
			return packer.Rect{
				X:      alloc.Rect.X,
				Y:      alloc.Rect.Y,
				Width:  width,
				Height: height,
			}, nil
		}

		cur := a.alloc.Size()
		next := packer.Size{
			Width:  doubled(cur.Width, limit),
			Height: doubled(cur.Height, limit),
		}
		if next == cur {
			return packer.Rect{}, a.capacityError(pw, ph)
		}
		if err := a.alloc.Grow(next); err != nil {
			return packer.Rect{}, fmt.Errorf("atlas: grow to %s: %w", next, err)
		}
		a.grows++

		Logger().Debug("atlas: canvas grown",
			"from", cur.String(),
			"to", next.String(),
			"entries", len(a.entries),
		)
	}
}

// doubled returns 2n clamped to limit without overflowing int.
func doubled(n, limit int) int {
	if n > limit/2 {
		return limit
	}
	return n * 2
}

func (a *Atlas) capacityError(width, height int) error {
	err := &CapacityError{
		Width:   width,
		Height:  height,
		Size:    a.alloc.Size(),
		MaxSize: a.cfg.limit(),
	}
	Logger().Warn("atlas: texture rejected",
		"width", width,
		"height", height,
		"size", err.Size.String(),
		"max_size", err.MaxSize,
	)
	return err
}

// Build composites every entry into a new image of the current canvas size.
// Pixels outside any entry are transparent black. Build does not change the
// atlas; calling it twice without AddTexture in between yields identical
// images.
func (a *Atlas) Build() *image.NRGBA {
	s := a.alloc.Size()
	dst := image.NewNRGBA(image.Rect(0, 0, s.Width, s.Height))
	for i := range a.entries {
		blit(dst, &a.entries[i])
	}
	return dst
}

// blit copies an entry's pixels row by row into its region of dst.
func blit(dst *image.NRGBA, e *Entry) {
	rowBytes := e.Rect.Width * 4
	for y := range e.Rect.Height {
		srcOff := y * e.Image.Stride
		dstOff := dst.PixOffset(e.Rect.X, e.Rect.Y+y)
		copy(dst.Pix[dstOff:dstOff+rowBytes], e.Image.Pix[srcOff:srcOff+rowBytes])
	}
}

// Pointers returns one pointer per entry, in submission order.
func (a *Atlas) Pointers() []Pointer {
	out := make([]Pointer, len(a.entries))
	for i := range a.entries {
		out[i] = PointerFromRect(a.entries[i].Rect)
	}
	return out
}

// Entry returns the i-th entry. Returns false if i is out of range.
func (a *Atlas) Entry(i int) (Entry, bool) {
	if i < 0 || i >= len(a.entries) {
		return Entry{}, false
	}
	return a.entries[i], true
}

// Len returns the number of entries.
func (a *Atlas) Len() int {
	return len(a.entries)
}

// Size returns the current canvas size.
func (a *Atlas) Size() packer.Size {
	return a.alloc.Size()
}

// Strategy returns the packing strategy in use.
func (a *Atlas) Strategy() packer.Strategy {
	return a.cfg.strategy
}

// Stats describes atlas occupancy.
type Stats struct {
	// Entries is the number of packed textures.
	Entries int

	// Grows is the number of growth events so far.
	Grows int

	// Size is the current canvas size.
	Size packer.Size

	// UsedArea is the reserved area in pixels, padding included.
	UsedArea int

	// Utilization is UsedArea divided by the canvas area (0.0 to 1.0).
	Utilization float64
}

// Stats returns occupancy statistics.
func (a *Atlas) Stats() Stats {
	return Stats{
		Entries:     len(a.entries),
		Grows:       a.grows,
		Size:        a.alloc.Size(),
		UsedArea:    a.alloc.UsedArea(),
		Utilization: packer.Utilization(a.alloc),
	}
}
