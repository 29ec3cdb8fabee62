// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package upload mirrors an atlas into a GPU texture.
//
// The atlas core only produces a pixel buffer and a pointer list; this
// package owns the texture lifetime. A typical frame loop:
//
//	up, err := upload.New(app.GPUContextProvider(), renderer)
//	if err != nil {
//	    return err
//	}
//	defer up.Close()
//
//	a, err := atlas.New(atlas.WithMaxSize(up.MaxSize()))
//
//	binding, err := up.Sync(a) // a is an *atlas.Atlas
//	if err != nil {
//	    return err
//	}
//	// bind binding.Texture and upload binding.PointerData
//
// Pixels are uploaded as straight (non-premultiplied) alpha RGBA8, by
// default into an sRGB texture. The device limit comes from the adapter
// reported by the provider; Sync refuses canvases larger than that.
// SamplerDescriptorFor and LayoutEntries describe how to sample the atlas.
package upload
