// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package cli

import (
	"context"
	"errors"
	"fmt"
	"image/png"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/gogpu/atlas"
	"github.com/gogpu/atlas/internal/imageio"
)

// packOpts holds the command-line flags for the pack command.
type packOpts struct {
	config   string // optional TOML/YAML job file
	progress bool   // draw a progress bar while loading
	cfg      Config
}

// texture is one input file resolved to its manifest name.
type texture struct {
	path string
	name string
}

func (c *CLI) packCommand() *cobra.Command {
	opts := packOpts{cfg: DefaultConfig()}

	cmd := &cobra.Command{
		Use:   "pack [files or directories...]",
		Short: "Pack images into an atlas PNG and JSON manifest",
		Long: `Pack loads every image given on the command line (directories are walked
recursively), packs them into one atlas and writes <out>.png and <out>.json.

Flags override values from --config.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.resolve(cmd, args)
			if err != nil {
				return err
			}
			return c.runPack(cmd.Context(), cmd.ErrOrStderr(), cfg, opts.progress)
		},
	}

	f := cmd.Flags()
	f.StringVarP(&opts.config, "config", "c", "", "job file (.toml, .yaml or .yml)")
	f.StringVarP(&opts.cfg.Output, "out", "o", opts.cfg.Output, "output path without extension")
	f.IntVar(&opts.cfg.Width, "width", opts.cfg.Width, "initial canvas width")
	f.IntVar(&opts.cfg.Height, "height", opts.cfg.Height, "initial canvas height")
	f.IntVar(&opts.cfg.MaxSize, "max-size", opts.cfg.MaxSize, "per-axis canvas limit (0 = unbounded)")
	f.IntVar(&opts.cfg.Padding, "padding", opts.cfg.Padding, "empty pixels right of and below each texture")
	f.StringVar(&opts.cfg.Strategy, "strategy", opts.cfg.Strategy, "packing strategy: guillotine or shelf")
	f.BoolVar(&opts.progress, "progress", false, "show a progress bar")

	return cmd
}

// resolve merges the config file, explicitly set flags and positional inputs.
func (o *packOpts) resolve(cmd *cobra.Command, args []string) (Config, error) {
	cfg := DefaultConfig()
	if o.config != "" {
		if err := LoadConfig(o.config, &cfg); err != nil {
			return Config{}, err
		}
	}

	f := cmd.Flags()
	if f.Changed("out") {
		cfg.Output = o.cfg.Output
	}
	if f.Changed("width") {
		cfg.Width = o.cfg.Width
	}
	if f.Changed("height") {
		cfg.Height = o.cfg.Height
	}
	if f.Changed("max-size") {
		cfg.MaxSize = o.cfg.MaxSize
	}
	if f.Changed("padding") {
		cfg.Padding = o.cfg.Padding
	}
	if f.Changed("strategy") {
		cfg.Strategy = o.cfg.Strategy
	}
	cfg.Inputs = append(cfg.Inputs, args...)

	if len(cfg.Inputs) == 0 {
		return Config{}, errors.New("no inputs: pass files or directories, or set inputs in --config")
	}
	if cfg.Output == "" {
		return Config{}, errors.New("output path must not be empty")
	}
	return cfg, nil
}

func (c *CLI) runPack(ctx context.Context, stderr io.Writer, cfg Config, showProgress bool) error {
	prog := newProgress(c.Logger)

	atlasOpts, err := cfg.atlasOptions()
	if err != nil {
		return err
	}
	a, err := atlas.New(atlasOpts...)
	if err != nil {
		return err
	}

	textures, err := collectTextures(cfg.Inputs)
	if err != nil {
		return err
	}
	if len(textures) == 0 {
		return errors.New("no image files found in inputs")
	}
	c.Logger.Debug("collected textures", "count", len(textures))

	var bar *progressbar.ProgressBar
	if showProgress {
		bar = progressbar.NewOptions(len(textures),
			progressbar.OptionSetWriter(stderr),
			progressbar.OptionSetDescription("packing"),
			progressbar.OptionShowCount(),
			progressbar.OptionClearOnFinish(),
		)
	}

	names := make([]string, 0, len(textures))
	for _, tex := range textures {
		if err := ctx.Err(); err != nil {
			return err
		}
		img, err := imageio.LoadFile(tex.path)
		if err != nil {
			return err
		}
		if _, err := a.AddTexture(img); err != nil {
			return fmt.Errorf("%s: %w", tex.path, err)
		}
		names = append(names, tex.name)
		if bar != nil {
			_ = bar.Add(1)
		}
	}
	if bar != nil {
		_ = bar.Finish()
	}

	if dir := filepath.Dir(cfg.Output); dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return fmt.Errorf("create output directory: %w", err)
		}
	}
	pngPath := cfg.Output + ".png"
	if err := writePNG(pngPath, a); err != nil {
		return err
	}
	m := newManifest(a, names, filepath.Base(pngPath), cfg.Padding)
	if err := writeManifest(cfg.Output+".json", m); err != nil {
		return err
	}

	stats := a.Stats()
	prog.done(fmt.Sprintf("Packed %d textures", stats.Entries),
		"size", stats.Size.String(),
		"utilization", fmt.Sprintf("%.1f%%", stats.Utilization*100),
		"grows", stats.Grows,
		"out", pngPath,
	)
	return nil
}

// collectTextures expands inputs into image files. Directory contents are
// sorted so repeated runs produce identical atlases.
func collectTextures(inputs []string) ([]texture, error) {
	var out []texture
	for _, in := range inputs {
		info, err := os.Stat(in)
		if err != nil {
			return nil, fmt.Errorf("input: %w", err)
		}
		if !info.IsDir() {
			out = append(out, texture{path: in, name: filepath.Base(in)})
			continue
		}

		var found []texture
		err = filepath.WalkDir(in, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() || !imageio.IsImage(path) {
				return nil
			}
			rel, err := filepath.Rel(in, path)
			if err != nil {
				return err
			}
			found = append(found, texture{path: path, name: filepath.ToSlash(rel)})
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("walk %s: %w", in, err)
		}
		sort.Slice(found, func(i, j int) bool { return found[i].name < found[j].name })
		out = append(out, found...)
	}
	return out, nil
}

func writePNG(path string, a *atlas.Atlas) error {
	f, err := os.Create(filepath.Clean(path))
	if err != nil {
		return fmt.Errorf("create output: %w", err)
	}
	if err := png.Encode(f, a.Build()); err != nil {
		_ = f.Close()
		return fmt.Errorf("encode png: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close output: %w", err)
	}
	return nil
}
