// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package cli

import (
	"fmt"
	"os"
	"path/filepath"

	jsoniter "github.com/json-iterator/go"

	"github.com/gogpu/atlas"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Manifest describes a packed atlas image.
type Manifest struct {
	Image    string          `json:"image"`
	Width    int             `json:"width"`
	Height   int             `json:"height"`
	Strategy string          `json:"strategy"`
	Padding  int             `json:"padding,omitempty"`
	Entries  []ManifestEntry `json:"entries"`
}

// ManifestEntry is one texture in the manifest, listed in packing order so
// entry i matches pointer i.
type ManifestEntry struct {
	Name   string     `json:"name"`
	X      int        `json:"x"`
	Y      int        `json:"y"`
	Width  int        `json:"width"`
	Height int        `json:"height"`
	UV     [4]float32 `json:"uv"`
}

// newManifest builds the manifest for a and the texture names in packing
// order.
func newManifest(a *atlas.Atlas, names []string, image string, padding int) Manifest {
	size := a.Size()
	m := Manifest{
		Image:    image,
		Width:    size.Width,
		Height:   size.Height,
		Strategy: a.Strategy().String(),
		Padding:  padding,
		Entries:  make([]ManifestEntry, 0, a.Len()),
	}
	for i, p := range a.Pointers() {
		uv := p.UV(size.Width, size.Height)
		r := p.Rect()
		m.Entries = append(m.Entries, ManifestEntry{
			Name:   names[i],
			X:      r.X,
			Y:      r.Y,
			Width:  r.Width,
			Height: r.Height,
			UV:     [4]float32{uv.U0, uv.V0, uv.U1, uv.V1},
		})
	}
	return m
}

func writeManifest(path string, m Manifest) error {
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return fmt.Errorf("encode manifest: %w", err)
	}
	if err := os.WriteFile(filepath.Clean(path), append(data, '\n'), 0o600); err != nil {
		return fmt.Errorf("write manifest: %w", err)
	}
	return nil
}
