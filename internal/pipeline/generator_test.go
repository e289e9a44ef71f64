package pipeline

import (
	"bytes"
	"context"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/MeKo-Tech/noisegraph/internal/mbtiles"
	"github.com/MeKo-Tech/noisegraph/internal/preset"
	"github.com/MeKo-Tech/noisegraph/internal/raster"
	"github.com/MeKo-Tech/noisegraph/internal/tile"
	"github.com/MeKo-Tech/noisegraph/internal/worker"
	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func terrain(t *testing.T) preset.Preset {
	t.Helper()
	p, ok := preset.Builtin("terrain")
	require.True(t, ok)
	return p
}

func decode(t *testing.T, data []byte) *image.Gray {
	t.Helper()
	img, err := png.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	gray, ok := img.(*image.Gray)
	require.True(t, ok, "expected gray PNG, got %T", img)
	return gray
}

type memWriter struct {
	mu    sync.Mutex
	tiles map[tile.Coords][]byte
}

func (w *memWriter) WriteTile(c tile.Coords, data []byte) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.tiles == nil {
		w.tiles = make(map[tile.Coords][]byte)
	}
	w.tiles[c] = data
	return nil
}

func TestNewGenerator_Validation(t *testing.T) {
	p := terrain(t)
	bad := p
	bad.Kind = "plasma"

	tests := []struct {
		name     string
		p        preset.Preset
		tileSize int
		opts     GeneratorOptions
	}{
		{"zero tile size", p, 0, GeneratorOptions{}},
		{"bad compression", p, 16, GeneratorOptions{PNGCompression: "ultra"}},
		{"bad folder structure", p, 16, GeneratorOptions{FolderStructure: "deep"}},
		{"negative world", p, 16, GeneratorOptions{WorldSize: -1}},
		{"bad preset", bad, 16, GeneratorOptions{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewGenerator(tt.p, t.TempDir(), tt.tileSize, nil, tt.opts)
			assert.Error(t, err)
		})
	}
}

func TestTilePath(t *testing.T) {
	c := tile.NewCoords(3, 5, 1)

	flat, err := NewGenerator(terrain(t), "out", 16, nil, GeneratorOptions{})
	require.NoError(t, err)
	assert.Equal(t, filepath.Join("out", "z3_x5_y1.png"), flat.TilePath(c, ""))
	assert.Equal(t, filepath.Join("out", "z3_x5_y1@2x.png"), flat.TilePath(c, "@2x"))

	nested, err := NewGenerator(terrain(t), "out", 16, nil, GeneratorOptions{FolderStructure: "nested"})
	require.NoError(t, err)
	assert.Equal(t, filepath.Join("out", "3", "5", "1@2x.png"), nested.TilePath(c, "@2x"))
}

func TestGenerate_Folder(t *testing.T) {
	dir := t.TempDir()
	gen, err := NewGenerator(terrain(t), dir, 32, nil, GeneratorOptions{FolderStructure: "nested"})
	require.NoError(t, err)

	c := tile.NewCoords(2, 1, 3)
	path, skipped, err := gen.Generate(context.Background(), c, false, "")
	require.NoError(t, err)
	assert.False(t, skipped)
	assert.Equal(t, filepath.Join(dir, "2", "1", "3.png"), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	img := decode(t, data)
	assert.Equal(t, image.Rect(0, 0, 32, 32), img.Bounds())

	_, skipped, err = gen.Generate(context.Background(), c, false, "")
	require.NoError(t, err)
	assert.True(t, skipped)

	_, skipped, err = gen.Generate(context.Background(), c, true, "")
	require.NoError(t, err)
	assert.False(t, skipped)
}

func TestGenerate_Errors(t *testing.T) {
	gen, err := NewGenerator(terrain(t), t.TempDir(), 16, nil, GeneratorOptions{})
	require.NoError(t, err)

	_, _, err = gen.Generate(context.Background(), tile.NewCoords(1, 2, 0), false, "")
	assert.Error(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, _, err = gen.Generate(ctx, tile.NewCoords(0, 0, 0), false, "")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRender_Deterministic(t *testing.T) {
	a, err := NewGenerator(terrain(t), "", 24, nil, GeneratorOptions{Mapping: raster.MappingSeamlessXY})
	require.NoError(t, err)
	b, err := NewGenerator(terrain(t), "", 24, nil, GeneratorOptions{Mapping: raster.MappingSeamlessXY})
	require.NoError(t, err)

	c := tile.NewCoords(3, 2, 6)
	first, err := a.Render(c)
	require.NoError(t, err)
	second, err := b.Render(c)
	require.NoError(t, err)
	assert.Equal(t, first, second)

	// the pooled module gives the same result on reuse
	again, err := a.Render(c)
	require.NoError(t, err)
	assert.Equal(t, first, again)
}

// The four zoom 1 tiles at half the resolution tile the zoom 0 tile pixel
// for pixel.
func TestRender_PyramidLinesUp(t *testing.T) {
	p := terrain(t)
	big, err := NewGenerator(p, "", 32, nil, GeneratorOptions{})
	require.NoError(t, err)
	small, err := NewGenerator(p, "", 16, nil, GeneratorOptions{})
	require.NoError(t, err)

	data, err := big.Render(tile.NewCoords(0, 0, 0))
	require.NoError(t, err)
	world := decode(t, data)

	for _, c := range tile.NewCoords(0, 0, 0).Children() {
		data, err := small.Render(c)
		require.NoError(t, err)
		img := decode(t, data)
		for y := 0; y < 16; y++ {
			for x := 0; x < 16; x++ {
				wx := int(c.X)*16 + x
				wy := int(c.Y)*16 + y
				if got, want := img.GrayAt(x, y), world.GrayAt(wx, wy); got != want {
					t.Fatalf("tile %s pixel (%d,%d) = %v, world (%d,%d) = %v", c, x, y, got, wx, wy, want)
				}
			}
		}
	}
}

func TestGenerate_TileWriter(t *testing.T) {
	w := &memWriter{}
	gen, err := NewGenerator(terrain(t), t.TempDir(), 16, nil, GeneratorOptions{TileWriter: w})
	require.NoError(t, err)

	c := tile.NewCoords(1, 1, 0)
	name, skipped, err := gen.Generate(context.Background(), c, false, "@2x")
	require.NoError(t, err)
	assert.False(t, skipped)
	assert.Equal(t, "z1_x1_y0@2x", name)
	require.Contains(t, w.tiles, c)
	decode(t, w.tiles[c])
}

func TestGenerate_MBTilesWithPool(t *testing.T) {
	defer goleak.VerifyNone(t)

	path := filepath.Join(t.TempDir(), "noise.mbtiles")
	writer, err := mbtiles.New(path, mbtiles.Metadata{
		Name:      "test",
		Format:    "png",
		MaxZoom:   2,
		Preset:    "terrain",
		WorldSize: tile.DefaultWorldSize,
	})
	require.NoError(t, err)

	gen, err := NewGenerator(terrain(t), "", 16, nil, GeneratorOptions{TileWriter: writer})
	require.NoError(t, err)

	world := orb.Bound{Max: orb.Point{tile.DefaultWorldSize, tile.DefaultWorldSize}}
	coords := tile.TilesInBound(world, tile.DefaultWorldSize, 0, 2)
	tasks := make([]worker.Task, 0, len(coords))
	for _, c := range coords {
		tasks = append(tasks, worker.Task{Coords: c})
	}

	pool := worker.New(worker.Config{Workers: 4, Generator: gen})
	results := pool.Run(context.Background(), tasks)
	require.Len(t, results, 21)
	require.Empty(t, worker.Failed(results))
	require.NoError(t, writer.Close())

	reader, err := mbtiles.OpenReader(path)
	require.NoError(t, err)
	defer reader.Close()

	n, err := reader.Count(-1)
	require.NoError(t, err)
	assert.Equal(t, 21, n)

	stored, err := reader.ReadTile(tile.NewCoords(2, 3, 1))
	require.NoError(t, err)
	direct, err := gen.Render(tile.NewCoords(2, 3, 1))
	require.NoError(t, err)
	assert.Equal(t, direct, stored)
}
