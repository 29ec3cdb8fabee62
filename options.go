// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package atlas

import (
	"math"

	"github.com/gogpu/atlas/packer"
)

// Default atlas settings.
const (
	// DefaultSize is the initial canvas dimension (1024x1024).
	DefaultSize = 1024

	// DefaultMaxSize is the default per-axis canvas limit (8192).
	DefaultMaxSize = 8192

	// maxCanvas bounds unlimited atlases so pointers fit in int32.
	maxCanvas = math.MaxInt32
)

// Option configures an Atlas during creation.
//
// Example:
//
//	a, err := atlas.New(
//	    atlas.WithInitialSize(256, 256),
//	    atlas.WithMaxSize(4096),
//	    atlas.WithPadding(1),
//	)
type Option func(*options)

// options holds optional configuration for Atlas creation.
type options struct {
	initial  packer.Size
	maxSize  int
	padding  int
	strategy packer.Strategy
}

// defaultOptions returns the default atlas options.
func defaultOptions() options {
	return options{
		initial:  packer.Size{Width: DefaultSize, Height: DefaultSize},
		maxSize:  DefaultMaxSize,
		strategy: packer.StrategyGuillotine,
	}
}

// WithInitialSize sets the starting canvas size.
func WithInitialSize(width, height int) Option {
	return func(o *options) {
		o.initial = packer.Size{Width: width, Height: height}
	}
}

// WithMaxSize caps both canvas axes at n pixels. Growth stops at the cap
// and AddTexture reports a CapacityError once nothing fits.
// Zero removes the cap; the canvas is still limited to math.MaxInt32.
func WithMaxSize(n int) Option {
	return func(o *options) {
		o.maxSize = n
	}
}

// WithPadding reserves p empty pixels to the right of and below every
// texture to prevent sampling bleed between neighbours.
func WithPadding(p int) Option {
	return func(o *options) {
		o.padding = p
	}
}

// WithStrategy selects the packing strategy. Default: packer.StrategyGuillotine.
func WithStrategy(s packer.Strategy) Option {
	return func(o *options) {
		o.strategy = s
	}
}

// validate checks if the configuration is valid.
func (o *options) validate() error {
	if !o.initial.Valid() {
		return &ConfigError{Field: "InitialSize", Reason: "must be positive"}
	}
	if o.maxSize < 0 {
		return &ConfigError{Field: "MaxSize", Reason: "must be non-negative"}
	}
	if o.maxSize > 0 && (o.initial.Width > o.maxSize || o.initial.Height > o.maxSize) {
		return &ConfigError{Field: "InitialSize", Reason: "must not exceed MaxSize"}
	}
	if o.initial.Width > maxCanvas || o.initial.Height > maxCanvas {
		return &ConfigError{Field: "InitialSize", Reason: "must fit in int32"}
	}
	if o.padding < 0 {
		return &ConfigError{Field: "Padding", Reason: "must be non-negative"}
	}
	switch o.strategy {
	case packer.StrategyGuillotine, packer.StrategyShelf:
	default:
		return &ConfigError{Field: "Strategy", Reason: "unknown strategy " + o.strategy.String()}
	}
	return nil
}

// limit returns the effective per-axis canvas limit.
func (o *options) limit() int {
	if o.maxSize > 0 {
		return min(o.maxSize, maxCanvas)
	}
	return maxCanvas
}
