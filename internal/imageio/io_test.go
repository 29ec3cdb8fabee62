// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package imageio

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/png"
	"io/fs"
	"os"
	"path/filepath"
	"testing"
	"testing/fstest"

	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"
)

// testImage returns an opaque gradient so lossless codecs round-trip exactly.
func testImage(w, h int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := range h {
		for x := range w {
			img.SetNRGBA(x, y, color.NRGBA{R: uint8(x * 16), G: uint8(y * 16), B: 128, A: 255})
		}
	}
	return img
}

func encodePNG(t *testing.T, img image.Image) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("png.Encode() error = %v", err)
	}
	return buf.Bytes()
}

func TestDecode_Formats(t *testing.T) {
	src := testImage(8, 6)

	encoders := []struct {
		format string
		encode func(*bytes.Buffer) error
	}{
		{"png", func(b *bytes.Buffer) error { return png.Encode(b, src) }},
		{"bmp", func(b *bytes.Buffer) error { return bmp.Encode(b, src) }},
		{"tiff", func(b *bytes.Buffer) error { return tiff.Encode(b, src, nil) }},
	}

	for _, tt := range encoders {
		t.Run(tt.format, func(t *testing.T) {
			var buf bytes.Buffer
			if err := tt.encode(&buf); err != nil {
				t.Fatalf("encode error = %v", err)
			}

			got, format, err := Decode(&buf)
			if err != nil {
				t.Fatalf("Decode() error = %v", err)
			}
			if format != tt.format {
				t.Errorf("format = %q, want %q", format, tt.format)
			}
			if got.Bounds() != src.Bounds() {
				t.Fatalf("Bounds() = %v, want %v", got.Bounds(), src.Bounds())
			}
			for y := range 6 {
				for x := range 8 {
					if got.NRGBAAt(x, y) != src.NRGBAAt(x, y) {
						t.Fatalf("pixel (%d,%d) = %v, want %v", x, y, got.NRGBAAt(x, y), src.NRGBAAt(x, y))
					}
				}
			}
		})
	}
}

func TestDecodeBytes_Empty(t *testing.T) {
	if _, err := DecodeBytes(nil); !errors.Is(err, ErrEmptyData) {
		t.Errorf("DecodeBytes(nil) error = %v, want ErrEmptyData", err)
	}
}

func TestDecodeBytes_Garbage(t *testing.T) {
	_, err := DecodeBytes([]byte("definitely not an image"))
	if !errors.Is(err, image.ErrFormat) {
		t.Errorf("DecodeBytes(garbage) error = %v, want image.ErrFormat", err)
	}
}

func TestDecodeBytes_KeepsStraightAlpha(t *testing.T) {
	src := image.NewNRGBA(image.Rect(0, 0, 2, 1))
	src.SetNRGBA(0, 0, color.NRGBA{R: 200, G: 100, B: 50, A: 0})
	src.SetNRGBA(1, 0, color.NRGBA{R: 10, G: 20, B: 30, A: 77})

	got, err := DecodeBytes(encodePNG(t, src))
	if err != nil {
		t.Fatalf("DecodeBytes() error = %v", err)
	}
	if !bytes.Equal(got.Pix, src.Pix) {
		t.Errorf("Pix = %v, want %v", got.Pix, src.Pix)
	}
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "stone.png")
	if err := os.WriteFile(path, encodePNG(t, testImage(4, 4)), 0o600); err != nil {
		t.Fatal(err)
	}

	img, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile() error = %v", err)
	}
	if img.Bounds().Dx() != 4 || img.Bounds().Dy() != 4 {
		t.Errorf("Bounds() = %v, want 4x4", img.Bounds())
	}

	if _, err := LoadFile(filepath.Join(dir, "missing.png")); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("LoadFile(missing) error = %v, want os.ErrNotExist", err)
	}
}

func TestLoadFS(t *testing.T) {
	fsys := fstest.MapFS{
		"blocks/grass.png": &fstest.MapFile{Data: encodePNG(t, testImage(3, 5))},
		"blocks/bad.png":   &fstest.MapFile{Data: []byte("nope")},
	}

	img, err := LoadFS(fsys, "blocks/grass.png")
	if err != nil {
		t.Fatalf("LoadFS() error = %v", err)
	}
	if img.Bounds().Dx() != 3 || img.Bounds().Dy() != 5 {
		t.Errorf("Bounds() = %v, want 3x5", img.Bounds())
	}

	if _, err := LoadFS(fsys, "blocks/bad.png"); err == nil {
		t.Error("LoadFS(bad.png) should fail")
	}
	if _, err := LoadFS(fsys, "blocks/dirt.png"); !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("LoadFS(missing) error = %v, want fs.ErrNotExist", err)
	}
}

func TestToNRGBA_SubImage(t *testing.T) {
	src := testImage(8, 8)
	sub := src.SubImage(image.Rect(2, 3, 6, 7)).(*image.NRGBA)

	got := ToNRGBA(sub)
	if got.Bounds() != image.Rect(0, 0, 4, 4) {
		t.Fatalf("Bounds() = %v, want (0,0)-(4,4)", got.Bounds())
	}
	if got.NRGBAAt(0, 0) != src.NRGBAAt(2, 3) {
		t.Errorf("origin pixel = %v, want %v", got.NRGBAAt(0, 0), src.NRGBAAt(2, 3))
	}
	if got.NRGBAAt(3, 3) != src.NRGBAAt(5, 6) {
		t.Errorf("corner pixel = %v, want %v", got.NRGBAAt(3, 3), src.NRGBAAt(5, 6))
	}
}

func TestToNRGBA_CopiesSource(t *testing.T) {
	src := testImage(2, 2)
	got := ToNRGBA(src)
	src.SetNRGBA(0, 0, color.NRGBA{A: 255})
	if got.NRGBAAt(0, 0) == src.NRGBAAt(0, 0) {
		t.Error("ToNRGBA result shares pixels with its source")
	}
}

func TestToNRGBA_FromRGBA(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 2, 2))
	src.SetRGBA(1, 1, color.RGBA{R: 200, G: 100, B: 50, A: 255})

	got := ToNRGBA(src)
	if c := got.NRGBAAt(1, 1); c != (color.NRGBA{R: 200, G: 100, B: 50, A: 255}) {
		t.Errorf("pixel = %v, want {200 100 50 255}", c)
	}
}

func TestIsImage(t *testing.T) {
	tests := map[string]bool{
		"a.png":      true,
		"b.JPG":      true,
		"c.webp":     true,
		"d.tiff":     true,
		"e.txt":      false,
		"README":     false,
		"dir/f.bmp":  true,
		"g.png.json": false,
		"h.jpeg":     true,
		"i.gif":      true,
		"j.tif":      true,
		"k.unknown":  false,
	}
	for name, want := range tests {
		if got := IsImage(name); got != want {
			t.Errorf("IsImage(%q) = %v, want %v", name, got, want)
		}
	}
}
