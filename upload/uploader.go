// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package upload

import (
	"errors"
	"fmt"
	"image"

	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"

	"github.com/gogpu/atlas"
	"github.com/gogpu/atlas/packer"
)

// Common errors returned by Uploader operations.
var (
	// ErrClosed is returned when operations are attempted on a closed uploader.
	ErrClosed = errors.New("upload: uploader is closed")

	// ErrNilProvider is returned when a nil DeviceProvider is passed.
	ErrNilProvider = errors.New("upload: nil DeviceProvider")

	// ErrNilCreator is returned when a nil TextureCreator is passed.
	ErrNilCreator = errors.New("upload: nil TextureCreator")

	// ErrTextureCreationFailed is returned when texture creation fails.
	ErrTextureCreationFailed = errors.New("upload: texture creation failed")

	// ErrTextureTooLarge is returned when the atlas canvas exceeds the
	// device's maximum 2D texture dimension.
	ErrTextureTooLarge = errors.New("upload: texture exceeds device limits")
)

// Source is the atlas state an Uploader mirrors. *atlas.Atlas implements it.
type Source interface {
	Size() packer.Size
	Len() int
	Build() *image.NRGBA
	Pointers() []atlas.Pointer
}

// TextureCreator creates GPU textures from straight-alpha RGBA8 pixels.
// The returned value is backend specific; it may implement
// UpdateData([]byte) error for in-place writes and Destroy() for release.
type TextureCreator interface {
	NewTextureFromRGBA(width, height int, data []byte) (any, error)
}

// textureUpdater writes new pixels into an existing texture of equal size.
type textureUpdater interface {
	UpdateData(data []byte) error
}

// textureDestroyer releases a texture.
type textureDestroyer interface {
	Destroy()
}

// Binding is what a renderer binds to draw from the atlas.
type Binding struct {
	// Texture is the backend texture holding the composite.
	Texture any

	// Descriptor describes Texture.
	Descriptor TextureDescriptor

	// Pointers holds one entry per packed texture, in submission order.
	Pointers []atlas.Pointer

	// PointerData is Pointers encoded for a storage buffer.
	PointerData []byte
}

// Uploader keeps a GPU texture in sync with an atlas.
//
// The texture is created lazily on the first Sync. Later syncs upload only
// when the atlas gained entries; if the canvas grew, the texture is
// recreated and the previous one destroyed once its replacement exists.
//
// Uploader is NOT safe for concurrent use.
type Uploader struct {
	provider gpucontext.DeviceProvider
	creator  TextureCreator
	label    string
	format   gputypes.TextureFormat
	adapter  gpucontext.AdapterInfo
	limits   gputypes.Limits

	texture any
	desc    TextureDescriptor
	entries int // Source.Len() at the last upload

	uploads int
	closed  bool
}

// Option configures an Uploader.
type Option func(*Uploader)

// WithLabel sets the debug label of created textures.
func WithLabel(label string) Option {
	return func(u *Uploader) {
		u.label = label
	}
}

// WithFormat sets the texture format. The default is DefaultFormat; use
// TextureFormatRGBA8Unorm when the atlas holds linear data.
func WithFormat(format gputypes.TextureFormat) Option {
	return func(u *Uploader) {
		u.format = format
	}
}

// WithLimits overrides the device limits derived from the adapter.
func WithLimits(limits gputypes.Limits) Option {
	return func(u *Uploader) {
		u.limits = limits
	}
}

// LimitsFor returns the limits assumed for an adapter. gpucontext does not
// expose the negotiated device limits, so software adapters get the
// downlevel set and every other adapter the WebGPU defaults.
func LimitsFor(info gpucontext.AdapterInfo) gputypes.Limits {
	if info.Type == gpucontext.AdapterTypeSoftware {
		return gputypes.DownlevelLimits()
	}
	return gputypes.DefaultLimits()
}

// New creates an Uploader that creates textures through creator on the
// device exposed by provider.
func New(provider gpucontext.DeviceProvider, creator TextureCreator, opts ...Option) (*Uploader, error) {
	if provider == nil {
		return nil, ErrNilProvider
	}
	if creator == nil {
		return nil, ErrNilCreator
	}
	info := provider.AdapterInfo()
	u := &Uploader{
		provider: provider,
		creator:  creator,
		label:    "atlas",
		format:   DefaultFormat,
		adapter:  info,
		limits:   LimitsFor(info),
	}
	for _, opt := range opts {
		opt(u)
	}
	atlas.Logger().Debug("upload: uploader created",
		"adapter", info.Name,
		"type", info.Type.String(),
		"max_texture", u.limits.MaxTextureDimension2D,
	)
	return u, nil
}

// MaxSize returns the largest canvas side the device accepts. Pass it to
// atlas.WithMaxSize so the atlas never outgrows the texture.
func (u *Uploader) MaxSize() int {
	return int(u.limits.MaxTextureDimension2D)
}

// Sync uploads src if it changed since the last call and returns the
// current binding.
func (u *Uploader) Sync(src Source) (Binding, error) {
	if u.closed {
		return Binding{}, ErrClosed
	}

	size := src.Size()
	if limit := u.MaxSize(); size.Width > limit || size.Height > limit {
		return Binding{}, fmt.Errorf("%w: %s is larger than %d on %q",
			ErrTextureTooLarge, size, limit, u.adapter.Name)
	}
	desc := DescriptorFor(u.label, size, u.format)
	n := src.Len()

	if u.texture != nil && desc.Size == u.desc.Size && n == u.entries {
		return u.binding(src), nil
	}

	pix := src.Build().Pix
	if u.texture != nil && desc.Size == u.desc.Size {
		if updater, ok := u.texture.(textureUpdater); ok {
			if err := updater.UpdateData(pix); err != nil {
				return Binding{}, fmt.Errorf("upload: texture update failed: %w", err)
			}
			u.entries = n
			u.uploads++
			atlas.Logger().Debug("upload: texture updated",
				"size", size.String(),
				"entries", n,
			)
			return u.binding(src), nil
		}
	}

	tex, err := u.creator.NewTextureFromRGBA(size.Width, size.Height, pix)
	if err != nil {
		return Binding{}, fmt.Errorf("%w: %w", ErrTextureCreationFailed, err)
	}

	// The replacement exists, so the old texture can go.
	destroy(u.texture)
	u.texture = tex
	u.desc = desc
	u.entries = n
	u.uploads++

	atlas.Logger().Debug("upload: texture created",
		"size", size.String(),
		"entries", n,
		"bytes", desc.ByteSize(),
	)
	return u.binding(src), nil
}

func (u *Uploader) binding(src Source) Binding {
	ptrs := src.Pointers()
	return Binding{
		Texture:     u.texture,
		Descriptor:  u.desc,
		Pointers:    ptrs,
		PointerData: atlas.EncodePointers(make([]byte, 0, len(ptrs)*atlas.PointerSize), ptrs),
	}
}

// Texture returns the current texture without syncing.
// Returns nil before the first Sync.
func (u *Uploader) Texture() any {
	return u.texture
}

// Uploads returns the number of pixel uploads performed so far.
func (u *Uploader) Uploads() int {
	return u.uploads
}

// Provider returns the DeviceProvider associated with this uploader.
// Returns nil if the uploader is closed.
func (u *Uploader) Provider() gpucontext.DeviceProvider {
	if u.closed {
		return nil
	}
	return u.provider
}

// Close destroys the current texture. Close is idempotent.
func (u *Uploader) Close() error {
	if u.closed {
		return nil
	}
	u.closed = true
	destroy(u.texture)
	u.texture = nil
	u.provider = nil
	u.creator = nil
	return nil
}

func destroy(tex any) {
	if d, ok := tex.(textureDestroyer); ok {
		d.Destroy()
	}
}
