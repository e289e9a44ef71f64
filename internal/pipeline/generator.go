package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"image/png"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"sync"

	"github.com/MeKo-Tech/noisegraph/internal/implicit"
	"github.com/MeKo-Tech/noisegraph/internal/preset"
	"github.com/MeKo-Tech/noisegraph/internal/raster"
	"github.com/MeKo-Tech/noisegraph/internal/tile"
)

// TileWriter stores encoded tiles somewhere other than the output folder.
// *mbtiles.Writer satisfies it.
type TileWriter interface {
	WriteTile(coords tile.Coords, data []byte) error
}

// GeneratorOptions holds the optional knobs of a Generator.
type GeneratorOptions struct {
	PNGCompression  string // default, speed, best, none
	TileWriter      TileWriter
	FolderStructure string // flat (default) or nested
	Mapping         raster.Mapping
	WorldSize       float64 // 0 means tile.DefaultWorldSize
	Filter          raster.FilterOptions

	// Low and High are the sample values mapped to black and white.
	// Equal values mean [0, 1].
	Low, High float64
}

// Generator renders noise tiles from a preset. It is safe for concurrent
// use: each call borrows its own module graph from a pool.
type Generator struct {
	preset      preset.Preset
	modules     sync.Pool
	logger      *slog.Logger
	outputDir   string
	tileSize    int
	compression png.CompressionLevel
	opts        GeneratorOptions
}

// NewGenerator validates the preset and options and prepares a generator.
func NewGenerator(p preset.Preset, outputDir string, tileSize int, logger *slog.Logger, opts GeneratorOptions) (*Generator, error) {
	if tileSize <= 0 {
		return nil, fmt.Errorf("tile size must be positive")
	}

	level, err := raster.ParseCompression(opts.PNGCompression)
	if err != nil {
		return nil, err
	}

	switch opts.FolderStructure {
	case "":
		opts.FolderStructure = "flat"
	case "flat", "nested":
	default:
		return nil, fmt.Errorf("invalid folder structure %q: must be 'flat' or 'nested'", opts.FolderStructure)
	}

	if opts.WorldSize == 0 {
		opts.WorldSize = tile.DefaultWorldSize
	}
	if opts.WorldSize < 0 {
		return nil, fmt.Errorf("world size must be positive, got %g", opts.WorldSize)
	}
	if opts.Low == opts.High {
		opts.Low, opts.High = 0, 1
	}

	g := &Generator{
		preset:      p,
		logger:      logger,
		outputDir:   outputDir,
		tileSize:    tileSize,
		compression: level,
		opts:        opts,
	}

	// Build one graph up front so a broken preset fails here and not
	// once per tile.
	m, err := p.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to build preset: %w", err)
	}
	g.modules.Put(m)

	return g, nil
}

// TileSize returns the edge length of rendered tiles in pixels.
func (g *Generator) TileSize() int { return g.tileSize }

// TilePath returns where a tile is written in folder mode.
func (g *Generator) TilePath(coords tile.Coords, suffix string) string {
	if g.opts.FolderStructure == "nested" {
		return filepath.Join(g.outputDir,
			strconv.FormatUint(uint64(coords.Z), 10),
			strconv.FormatUint(uint64(coords.X), 10),
			strconv.FormatUint(uint64(coords.Y), 10)+suffix+".png")
	}
	return filepath.Join(g.outputDir, coords.String()+suffix+".png")
}

func (g *Generator) module() (implicit.Module, error) {
	if m, ok := g.modules.Get().(implicit.Module); ok {
		return m, nil
	}
	return g.preset.Build()
}

// Render samples one tile and returns the encoded PNG.
func (g *Generator) Render(coords tile.Coords) ([]byte, error) {
	if !coords.Valid() {
		return nil, fmt.Errorf("invalid tile %s", coords)
	}

	m, err := g.module()
	if err != nil {
		return nil, fmt.Errorf("failed to build preset: %w", err)
	}

	ws := g.opts.WorldSize
	b := coords.Bound(ws)
	world := raster.Domain{X0: 0, Y0: 0, X1: ws, Y1: ws}
	region := raster.Domain{X0: b.Min.X(), Y0: b.Min.Y(), X1: b.Max.X(), Y1: b.Max.Y()}
	grid := raster.SampleRegion(m, world, region, g.tileSize, g.tileSize, g.opts.Mapping)
	g.modules.Put(m)

	img := raster.Filter(raster.ToGray(grid, g.opts.Low, g.opts.High), g.opts.Filter)

	var buf bytes.Buffer
	if err := raster.EncodePNG(&buf, img, g.compression); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Generate renders one tile and stores it. In folder mode an existing file
// is left alone unless force is set, and skipped reports that case. With a
// TileWriter the returned path is the tile name.
func (g *Generator) Generate(ctx context.Context, coords tile.Coords, force bool, suffix string) (string, bool, error) {
	if err := ctx.Err(); err != nil {
		return "", false, err
	}

	if g.opts.TileWriter == nil {
		path := g.TilePath(coords, suffix)
		if !force {
			if _, err := os.Stat(path); err == nil {
				g.log().Debug("Tile already exists; skipping", "coords", coords.String(), "path", path)
				return path, true, nil
			}
		}
		data, err := g.Render(coords)
		if err != nil {
			return "", false, err
		}
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return "", false, fmt.Errorf("failed to create output dir: %w", err)
		}
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return "", false, fmt.Errorf("failed to write tile: %w", err)
		}
		g.log().Debug("Wrote tile", "coords", coords.String(), "path", path, "bytes", len(data))
		return path, false, nil
	}

	data, err := g.Render(coords)
	if err != nil {
		return "", false, err
	}
	if err := g.opts.TileWriter.WriteTile(coords, data); err != nil {
		return "", false, fmt.Errorf("failed to store tile %s: %w", coords, err)
	}
	g.log().Debug("Stored tile", "coords", coords.String(), "bytes", len(data))
	return coords.String() + suffix, false, nil
}

func (g *Generator) log() *slog.Logger {
	if g.logger != nil {
		return g.logger
	}
	return slog.Default()
}
