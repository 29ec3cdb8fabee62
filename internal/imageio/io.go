// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package imageio decodes texture files into 8-bit straight-alpha RGBA
// images ready for atlas packing.
//
// Registered formats: PNG, JPEG, GIF, BMP, TIFF and WebP.
package imageio

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/gif"  // register GIF decoder
	_ "image/jpeg" // register JPEG decoder
	_ "image/png"  // register PNG decoder
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	xdraw "golang.org/x/image/draw"

	_ "golang.org/x/image/bmp"  // register BMP decoder
	_ "golang.org/x/image/tiff" // register TIFF decoder
	_ "golang.org/x/image/webp" // register WebP decoder
)

// I/O errors.
var (
	// ErrEmptyData is returned when image data is empty.
	ErrEmptyData = errors.New("imageio: empty data")
)

// extensions lists the file extensions recognized by IsImage.
var extensions = map[string]bool{
	".png":  true,
	".jpg":  true,
	".jpeg": true,
	".gif":  true,
	".bmp":  true,
	".tif":  true,
	".tiff": true,
	".webp": true,
}

// IsImage reports whether name has a recognized image file extension.
func IsImage(name string) bool {
	return extensions[strings.ToLower(filepath.Ext(name))]
}

// Decode decodes an image from the given reader, auto-detecting the format.
// It also returns the registered format name ("png", "webp", ...).
func Decode(r io.Reader) (*image.NRGBA, string, error) {
	img, format, err := image.Decode(r)
	if err != nil {
		return nil, "", fmt.Errorf("imageio: decode: %w", err)
	}
	return ToNRGBA(img), format, nil
}

// DecodeBytes decodes an image from a byte slice, auto-detecting the format.
func DecodeBytes(data []byte) (*image.NRGBA, error) {
	if len(data) == 0 {
		return nil, ErrEmptyData
	}
	img, _, err := Decode(bytes.NewReader(data))
	return img, err
}

// LoadFile loads an image from the given file path.
func LoadFile(path string) (*image.NRGBA, error) {
	f, err := os.Open(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("imageio: open file: %w", err)
	}
	defer func() { _ = f.Close() }()

	img, _, err := Decode(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return img, nil
}

// LoadFS loads the named image from fsys, such as an embedded assets
// directory.
func LoadFS(fsys fs.FS, name string) (*image.NRGBA, error) {
	f, err := fsys.Open(name)
	if err != nil {
		return nil, fmt.Errorf("imageio: open file: %w", err)
	}
	defer func() { _ = f.Close() }()

	img, _, err := Decode(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	return img, nil
}

// ToNRGBA converts img to a freshly allocated *image.NRGBA whose bounds
// start at (0, 0). NRGBA sources are copied byte for byte; every other
// image type goes through a Src draw.
func ToNRGBA(img image.Image) *image.NRGBA {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	dst := image.NewNRGBA(image.Rect(0, 0, w, h))

	// Fast path for NRGBA images
	if src, ok := img.(*image.NRGBA); ok {
		for y := range h {
			off := src.PixOffset(b.Min.X, b.Min.Y+y)
			copy(dst.Pix[y*dst.Stride:], src.Pix[off:off+w*4])
		}
		return dst
	}

	xdraw.Draw(dst, dst.Bounds(), img, b.Min, xdraw.Src)
	return dst
}
