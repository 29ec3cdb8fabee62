// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package cli

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/gogpu/atlas"
	"github.com/gogpu/atlas/internal/imageio"
)

// writeImage writes a solid w x h PNG to path, creating parent directories.
func writeImage(t *testing.T, path string, w, h int, c color.NRGBA) {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := range h {
		for x := range w {
			img.SetNRGBA(x, y, c)
		}
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		t.Fatal(err)
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o600); err != nil {
		t.Fatal(err)
	}
}

func readManifest(t *testing.T, path string) Manifest {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read manifest: %v", err)
	}
	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		t.Fatalf("decode manifest: %v", err)
	}
	return m
}

// run executes the CLI with args and returns the log output.
func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Cleanup(func() { atlas.SetLogger(nil) })

	var logs bytes.Buffer
	c := New(&logs, LogInfo)
	root := c.RootCommand()
	root.SetArgs(args)
	root.SetOut(&logs)
	root.SetErr(&logs)
	err := root.ExecuteContext(context.Background())
	return logs.String(), err
}

func TestSetVersion(t *testing.T) {
	orig := version
	t.Cleanup(func() { version = orig })

	SetVersion("v1.2.3")
	logs, err := run(t, "--version")
	if err != nil {
		t.Fatalf("--version error = %v", err)
	}
	if !strings.Contains(logs, "v1.2.3") {
		t.Errorf("--version output = %q, want it to contain v1.2.3", logs)
	}
}

func TestPack_Directory(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "blocks")
	writeImage(t, filepath.Join(in, "stone.png"), 16, 16, color.NRGBA{R: 128, G: 128, B: 128, A: 255})
	writeImage(t, filepath.Join(in, "dirt.png"), 16, 16, color.NRGBA{R: 120, G: 80, B: 40, A: 255})
	writeImage(t, filepath.Join(in, "ores", "gold.png"), 8, 8, color.NRGBA{R: 255, G: 215, A: 255})
	if err := os.WriteFile(filepath.Join(in, "README.txt"), []byte("not an image"), 0o600); err != nil {
		t.Fatal(err)
	}

	out := filepath.Join(dir, "atlas")
	logs, err := run(t, "pack", "--width", "16", "--height", "16", "-o", out, in)
	if err != nil {
		t.Fatalf("pack error = %v\n%s", err, logs)
	}
	if !strings.Contains(logs, "Packed 3 textures") {
		t.Errorf("logs missing summary:\n%s", logs)
	}

	m := readManifest(t, out+".json")
	if m.Image != "atlas.png" || m.Strategy != "guillotine" {
		t.Errorf("manifest header = %+v", m)
	}
	var names []string
	for _, e := range m.Entries {
		names = append(names, e.Name)
	}
	if diff := cmp.Diff([]string{"dirt.png", "ores/gold.png", "stone.png"}, names); diff != "" {
		t.Errorf("entry names mismatch (-want +got):\n%s", diff)
	}

	composite, err := imageio.LoadFile(out + ".png")
	if err != nil {
		t.Fatalf("load composite: %v", err)
	}
	if composite.Bounds().Dx() != m.Width || composite.Bounds().Dy() != m.Height {
		t.Errorf("composite %v does not match manifest %dx%d", composite.Bounds(), m.Width, m.Height)
	}
	stone := m.Entries[2]
	if got := composite.NRGBAAt(stone.X, stone.Y); got != (color.NRGBA{R: 128, G: 128, B: 128, A: 255}) {
		t.Errorf("stone pixel = %v", got)
	}
	if stone.UV[2] <= stone.UV[0] || stone.UV[3] <= stone.UV[1] {
		t.Errorf("stone UV = %v, want min < max", stone.UV)
	}
}

func TestPack_ConfigFile(t *testing.T) {
	dir := t.TempDir()
	writeImage(t, filepath.Join(dir, "a.png"), 10, 10, color.NRGBA{A: 255})
	writeImage(t, filepath.Join(dir, "b.png"), 10, 10, color.NRGBA{A: 255})

	out := filepath.Join(dir, "packed")
	cfg := filepath.Join(dir, "atlas.toml")
	toml := "inputs = [\"" + filepath.ToSlash(filepath.Join(dir, "a.png")) + "\"]\n" +
		"output = \"" + filepath.ToSlash(out) + "\"\n" +
		"width = 64\nheight = 64\npadding = 2\nstrategy = \"shelf\"\n"
	if err := os.WriteFile(cfg, []byte(toml), 0o600); err != nil {
		t.Fatal(err)
	}

	// --padding overrides the file; b.png is appended to the file's inputs.
	if logs, err := run(t, "pack", "--config", cfg, "--padding", "1", filepath.Join(dir, "b.png")); err != nil {
		t.Fatalf("pack error = %v\n%s", err, logs)
	}

	m := readManifest(t, out+".json")
	want := Manifest{
		Image:    "packed.png",
		Width:    64,
		Height:   64,
		Strategy: "shelf",
		Padding:  1,
		Entries: []ManifestEntry{
			{Name: "a.png", X: 0, Y: 0, Width: 10, Height: 10, UV: [4]float32{0, 0, 10.0 / 64, 10.0 / 64}},
			{Name: "b.png", X: 11, Y: 0, Width: 10, Height: 10, UV: [4]float32{11.0 / 64, 0, 21.0 / 64, 10.0 / 64}},
		},
	}
	if diff := cmp.Diff(want, m); diff != "" {
		t.Errorf("manifest mismatch (-want +got):\n%s", diff)
	}
}

func TestPack_CreatesOutputDir(t *testing.T) {
	dir := t.TempDir()
	writeImage(t, filepath.Join(dir, "a.png"), 4, 4, color.NRGBA{A: 255})

	out := filepath.Join(dir, "build", "atlases", "terrain")
	if logs, err := run(t, "pack", "-o", out, filepath.Join(dir, "a.png")); err != nil {
		t.Fatalf("pack error = %v\n%s", err, logs)
	}
	for _, ext := range []string{".png", ".json"} {
		if _, err := os.Stat(out + ext); err != nil {
			t.Errorf("missing output %s: %v", filepath.Base(out+ext), err)
		}
	}
}

func TestPack_CapacityError(t *testing.T) {
	dir := t.TempDir()
	writeImage(t, filepath.Join(dir, "big.png"), 40, 40, color.NRGBA{A: 255})

	_, err := run(t, "pack", "--width", "16", "--height", "16", "--max-size", "32",
		"-o", filepath.Join(dir, "out"), filepath.Join(dir, "big.png"))
	if !errors.Is(err, atlas.ErrCapacityExceeded) {
		t.Fatalf("pack error = %v, want ErrCapacityExceeded", err)
	}
	if _, statErr := os.Stat(filepath.Join(dir, "out.png")); !os.IsNotExist(statErr) {
		t.Error("no output should be written on failure")
	}
}

func TestPack_Errors(t *testing.T) {
	dir := t.TempDir()
	writeImage(t, filepath.Join(dir, "a.png"), 4, 4, color.NRGBA{A: 255})
	empty := filepath.Join(dir, "empty")
	if err := os.Mkdir(empty, 0o750); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name string
		args []string
		want string
	}{
		{"no inputs", []string{"pack"}, "no inputs"},
		{"missing input", []string{"pack", filepath.Join(dir, "nope.png")}, "input"},
		{"empty dir", []string{"pack", empty}, "no image files"},
		{"bad strategy", []string{"pack", "--strategy", "skyline", filepath.Join(dir, "a.png")}, "unknown strategy"},
		{"bad config ext", []string{"pack", "--config", filepath.Join(dir, "a.png")}, "unsupported config format"},
		{"bad size", []string{"pack", "--width", "0", filepath.Join(dir, "a.png")}, "InitialSize"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := run(t, tt.args...)
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("pack error = %v, want containing %q", err, tt.want)
			}
		})
	}
}

func TestPack_Verbose(t *testing.T) {
	dir := t.TempDir()
	writeImage(t, filepath.Join(dir, "wide.png"), 30, 4, color.NRGBA{A: 255})

	logs, err := run(t, "-v", "pack", "--width", "16", "--height", "16",
		"-o", filepath.Join(dir, "out"), filepath.Join(dir, "wide.png"))
	if err != nil {
		t.Fatalf("pack error = %v\n%s", err, logs)
	}
	if !strings.Contains(logs, "canvas grown") {
		t.Errorf("verbose logs should include atlas growth:\n%s", logs)
	}
}

func TestPack_Canceled(t *testing.T) {
	t.Cleanup(func() { atlas.SetLogger(nil) })
	dir := t.TempDir()
	writeImage(t, filepath.Join(dir, "a.png"), 4, 4, color.NRGBA{A: 255})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	c := New(&bytes.Buffer{}, LogInfo)
	root := c.RootCommand()
	root.SetArgs([]string{"pack", "-o", filepath.Join(dir, "out"), filepath.Join(dir, "a.png")})
	if err := root.ExecuteContext(ctx); !errors.Is(err, context.Canceled) {
		t.Errorf("pack error = %v, want context.Canceled", err)
	}
}
