// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package upload

import (
	"github.com/gogpu/gputypes"

	"github.com/gogpu/atlas/packer"
)

// BytesPerPixel is the pixel stride of an atlas texture (RGBA8).
const BytesPerPixel = 4

// DefaultFormat is the texture format used unless WithFormat overrides it.
// Atlas pixels are sRGB-encoded, so sampling decodes them to linear.
const DefaultFormat = gputypes.TextureFormatRGBA8UnormSrgb

// TextureDescriptor describes the GPU texture backing an atlas.
type TextureDescriptor struct {
	// Label is an optional debug name.
	Label string

	// Size is the texture dimensions.
	Size gputypes.Extent3D

	// MipLevelCount is the number of mip levels. Atlases use 1.
	MipLevelCount uint32

	// SampleCount is the number of samples per pixel.
	SampleCount uint32

	// Dimension is the texture dimension.
	Dimension gputypes.TextureDimension

	// Format is the texture pixel format.
	Format gputypes.TextureFormat

	// Usage specifies how the texture will be used.
	Usage gputypes.TextureUsage
}

// DescriptorFor returns the descriptor of a sampled, writable texture of
// the given canvas size. format must be a 4-byte RGBA8 variant.
func DescriptorFor(label string, size packer.Size, format gputypes.TextureFormat) TextureDescriptor {
	return TextureDescriptor{
		Label: label,
		Size: gputypes.Extent3D{
			Width:              uint32(size.Width),  //nolint:gosec // canvas is capped at math.MaxInt32
			Height:             uint32(size.Height), //nolint:gosec // canvas is capped at math.MaxInt32
			DepthOrArrayLayers: 1,
		},
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     gputypes.TextureDimension2D,
		Format:        format,
		Usage:         gputypes.TextureUsageTextureBinding | gputypes.TextureUsageCopyDst,
	}
}

// BytesPerRow returns the tightly packed row pitch of the texture.
func (d TextureDescriptor) BytesPerRow() int {
	return int(d.Size.Width) * BytesPerPixel
}

// ByteSize returns the size of one full upload in bytes.
func (d TextureDescriptor) ByteSize() int {
	return d.BytesPerRow() * int(d.Size.Height)
}

// SamplerDescriptorFor returns the sampler used to read the atlas. Filtering
// is nearest and addressing clamps to the edge so neighbouring entries never
// bleed into each other.
func SamplerDescriptorFor(label string) gputypes.SamplerDescriptor {
	desc := gputypes.DefaultSamplerDescriptor()
	desc.Label = label
	desc.AddressModeU = gputypes.AddressModeClampToEdge
	desc.AddressModeV = gputypes.AddressModeClampToEdge
	desc.AddressModeW = gputypes.AddressModeClampToEdge
	desc.MagFilter = gputypes.FilterModeNearest
	desc.MinFilter = gputypes.FilterModeNearest
	desc.MipmapFilter = gputypes.MipmapFilterModeNearest
	return desc
}

// LayoutEntries returns the bind group layout entries for the atlas texture
// and its sampler, both visible to the fragment stage.
func LayoutEntries(textureBinding, samplerBinding uint32) []gputypes.BindGroupLayoutEntry {
	return []gputypes.BindGroupLayoutEntry{
		{
			Binding:    textureBinding,
			Visibility: gputypes.ShaderStageFragment,
			Texture: &gputypes.TextureBindingLayout{
				SampleType:    gputypes.TextureSampleTypeFloat,
				ViewDimension: gputypes.TextureViewDimension2D,
			},
		},
		{
			Binding:    samplerBinding,
			Visibility: gputypes.ShaderStageFragment,
			Sampler: &gputypes.SamplerBindingLayout{
				Type: gputypes.SamplerBindingTypeFiltering,
			},
		},
	}
}
