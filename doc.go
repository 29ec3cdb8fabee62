// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package atlas packs many small textures into one growable RGBA image at
// runtime and reports where each texture landed, so a renderer can bind a
// single texture instead of hundreds.
//
// # Quick Start
//
//	a, err := atlas.New(atlas.WithInitialSize(256, 256))
//	if err != nil {
//	    return err
//	}
//	for _, img := range textures {
//	    if _, err := a.AddTexture(img); err != nil {
//	        return err
//	    }
//	}
//	composite := a.Build()   // *image.NRGBA, canvas-sized
//	pointers := a.Pointers() // one per AddTexture call, same order
//
// # Growth
//
// The canvas starts at the configured initial size. When a texture does not
// fit, both axes double (clamped to the size cap) and the placement is
// retried. Growth never moves a texture that was already placed, so indices
// and pointers handed out earlier stay valid.
//
// # Pointers
//
// A [Pointer] holds the inclusive min and exclusive max pixel corners of an
// entry. [EncodePointers] lays them out as little-endian int32 quadruples for
// upload into a GPU storage buffer; [Pointer.UV] converts to normalized
// coordinates.
//
// # Packing
//
// Placement is delegated to the [packer] sub-package. The default guillotine
// allocator uses best-area-fit with a deterministic tie-break; a shelf
// allocator is available for uniformly sized textures.
//
// # GPU Upload
//
// The upload sub-package turns an Atlas into a GPU texture through the
// gpucontext interfaces and recreates it when the canvas grows.
//
// # Logging
//
// The package is silent by default. See [SetLogger].
package atlas
