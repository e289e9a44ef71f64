package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"strconv"
	"strings"
	"syscall"

	"github.com/MeKo-Tech/noisegraph/internal/mbtiles"
	"github.com/MeKo-Tech/noisegraph/internal/pipeline"
	"github.com/MeKo-Tech/noisegraph/internal/preset"
	"github.com/MeKo-Tech/noisegraph/internal/raster"
	"github.com/MeKo-Tech/noisegraph/internal/tile"
	"github.com/MeKo-Tech/noisegraph/internal/worker"
	"github.com/paulmach/orb"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var tilesCmd = &cobra.Command{
	Use:   "tiles",
	Short: "Generate noise tiles",
	Long: `Generate a z/x/y tile pyramid of a preset. The zoom 0 tile covers
[0, world-size) of noise space on both axes.`,
	RunE: runTiles,
}

func init() {
	rootCmd.AddCommand(tilesCmd)

	// Single tile flags
	tilesCmd.Flags().IntP("zoom", "z", 0, "Zoom level (for single tile mode)")
	tilesCmd.Flags().IntP("x", "x", 0, "X tile coordinate (for single tile mode)")
	tilesCmd.Flags().IntP("y", "y", 0, "Y tile coordinate (for single tile mode)")

	// Batch generation flags
	tilesCmd.Flags().String("bbox", "", "Noise-space box: x0,y0,x1,y1, or \"world\" (e.g., \"0,0,8,8\")")
	tilesCmd.Flags().Int("zoom-min", 0, "Minimum zoom level for batch generation")
	tilesCmd.Flags().Int("zoom-max", 0, "Maximum zoom level for batch generation")
	tilesCmd.Flags().IntP("workers", "w", 0, "Number of parallel workers (default: number of CPUs)")
	tilesCmd.Flags().Bool("progress", true, "Show progress bar during batch generation")
	tilesCmd.Flags().Bool("allow-failures", false, "Continue generation even if some tiles fail")

	// Common flags
	tilesCmd.Flags().Bool("force", false, "Force regeneration even if tile exists")
	tilesCmd.Flags().Int("tile-size", 256, "Tile size in pixels")
	tilesCmd.Flags().Bool("hidpi", false, "Also generate a 2x (@2x) tile alongside the base tile")
	tilesCmd.Flags().String("png-compression", "default", "PNG compression (default, speed, best, none)")
	tilesCmd.Flags().Float64("world-size", tile.DefaultWorldSize, "Noise-space extent of the zoom 0 tile")
	tilesCmd.Flags().String("mapping", "none", "Mapping (none, seamless-x, seamless-y, seamless-xy); seamless modes wrap the whole world")
	tilesCmd.Flags().Float32("blur", 0, "Gaussian blur sigma in pixels")
	tilesCmd.Flags().Float32("contrast", 0, "Contrast adjustment in percent (-100..100)")

	// Output format flags
	tilesCmd.Flags().String("format", "folder", "Output format: folder or mbtiles")
	tilesCmd.Flags().String("output-file", "", "Output file path for MBTiles format (e.g., noise.mbtiles)")
	tilesCmd.Flags().Bool("gzip", false, "Gzip tile data in MBTiles output")
	tilesCmd.Flags().String("folder-structure", "flat", "Folder structure for folder format: flat (z{z}_x{x}_y{y}.png) or nested ({z}/{x}/{y}.png)")

	bindFlags := []struct {
		key  string
		flag string
	}{
		{"tiles.zoom", "zoom"},
		{"tiles.x", "x"},
		{"tiles.y", "y"},
		{"tiles.bbox", "bbox"},
		{"tiles.zoom_min", "zoom-min"},
		{"tiles.zoom_max", "zoom-max"},
		{"tiles.workers", "workers"},
		{"tiles.progress", "progress"},
		{"tiles.allow_failures", "allow-failures"},
		{"tiles.force", "force"},
		{"tiles.tile_size", "tile-size"},
		{"tiles.hidpi", "hidpi"},
		{"tiles.png_compression", "png-compression"},
		{"tiles.world_size", "world-size"},
		{"tiles.mapping", "mapping"},
		{"tiles.blur", "blur"},
		{"tiles.contrast", "contrast"},
		{"tiles.format", "format"},
		{"tiles.output_file", "output-file"},
		{"tiles.gzip", "gzip"},
		{"tiles.folder_structure", "folder-structure"},
	}

	for _, bf := range bindFlags {
		if err := viper.BindPFlag(bf.key, tilesCmd.Flags().Lookup(bf.flag)); err != nil {
			panic(fmt.Sprintf("failed to bind flag %s: %v", bf.flag, err))
		}
	}
}

// tilesConfig is everything runTiles reads from viper.
type tilesConfig struct {
	presetName      string
	preset          preset.Preset
	zoom, x, y      int
	bbox            string
	zoomMin         int
	zoomMax         int
	workers         int
	showProgress    bool
	allowFailures   bool
	force           bool
	outputDir       string
	tileSize        int
	hidpi           bool
	worldSize       float64
	format          string
	outputFile      string
	gzip            bool
	folderStructure string
	opts            pipeline.GeneratorOptions
}

func runTiles(cmd *cobra.Command, args []string) error {
	if logger == nil {
		initLogging()
	}

	name, p, err := selectedPreset()
	if err != nil {
		return err
	}

	mapping, err := raster.ParseMapping(viper.GetString("tiles.mapping"))
	if err != nil {
		return err
	}

	cfg := tilesConfig{
		presetName:      name,
		preset:          p,
		zoom:            viper.GetInt("tiles.zoom"),
		x:               viper.GetInt("tiles.x"),
		y:               viper.GetInt("tiles.y"),
		bbox:            viper.GetString("tiles.bbox"),
		zoomMin:         viper.GetInt("tiles.zoom_min"),
		zoomMax:         viper.GetInt("tiles.zoom_max"),
		workers:         viper.GetInt("tiles.workers"),
		showProgress:    viper.GetBool("tiles.progress"),
		allowFailures:   viper.GetBool("tiles.allow_failures"),
		force:           viper.GetBool("tiles.force"),
		outputDir:       viper.GetString("output-dir"),
		tileSize:        viper.GetInt("tiles.tile_size"),
		hidpi:           viper.GetBool("tiles.hidpi"),
		worldSize:       viper.GetFloat64("tiles.world_size"),
		format:          viper.GetString("tiles.format"),
		outputFile:      viper.GetString("tiles.output_file"),
		gzip:            viper.GetBool("tiles.gzip"),
		folderStructure: viper.GetString("tiles.folder_structure"),
	}
	cfg.opts = pipeline.GeneratorOptions{
		PNGCompression:  viper.GetString("tiles.png_compression"),
		FolderStructure: cfg.folderStructure,
		Mapping:         mapping,
		WorldSize:       cfg.worldSize,
		Filter: raster.FilterOptions{
			Blur:     float32(viper.GetFloat64("tiles.blur")),
			Contrast: float32(viper.GetFloat64("tiles.contrast")),
		},
	}

	// Validate format
	if cfg.format != "folder" && cfg.format != "mbtiles" {
		return fmt.Errorf("invalid format %q: must be 'folder' or 'mbtiles'", cfg.format)
	}

	// Validate folder structure
	if cfg.folderStructure != "flat" && cfg.folderStructure != "nested" {
		return fmt.Errorf("invalid folder-structure %q: must be 'flat' or 'nested'", cfg.folderStructure)
	}

	if cfg.worldSize <= 0 {
		return fmt.Errorf("--world-size must be positive")
	}

	// Validate MBTiles requirements
	if cfg.format == "mbtiles" {
		if cfg.outputFile == "" {
			return fmt.Errorf("--output-file is required when using --format=mbtiles")
		}
		if cfg.bbox == "" {
			return fmt.Errorf("mbtiles format requires batch generation (use --bbox)")
		}
	}

	// Determine mode: batch (bbox provided) or single tile
	if cfg.bbox != "" {
		return runBatchTiles(cfg)
	}

	return runSingleTile(cfg)
}

func runSingleTile(cfg tilesConfig) error {
	if cfg.zoom < 0 || cfg.x < 0 || cfg.y < 0 {
		return fmt.Errorf("invalid coordinates: zoom/x/y must be non-negative")
	}
	coords := tile.NewCoords(uint32(cfg.zoom), uint32(cfg.x), uint32(cfg.y))
	if !coords.Valid() {
		return fmt.Errorf("tile %s is outside its zoom level", coords)
	}

	logger.Info("Starting tile generation",
		"coords", coords.String(),
		"preset", cfg.presetName,
		"seed", cfg.preset.Seed,
		"output_dir", cfg.outputDir,
		"force", cfg.force,
		"tile_size", cfg.tileSize,
		"hidpi", cfg.hidpi,
		"mapping", cfg.opts.Mapping.String(),
	)

	gen, err := pipeline.NewGenerator(cfg.preset, cfg.outputDir, cfg.tileSize, logger, cfg.opts)
	if err != nil {
		return fmt.Errorf("failed to init generator: %w", err)
	}

	path, skipped, err := gen.Generate(context.Background(), coords, cfg.force, "")
	if err != nil {
		return fmt.Errorf("failed to generate tile: %w", err)
	}
	logger.Info("Tile generated", "coords", coords.String(), "path", path, "skipped", skipped)

	if cfg.hidpi {
		gen2x, err := pipeline.NewGenerator(cfg.preset, cfg.outputDir, cfg.tileSize*2, logger, cfg.opts)
		if err != nil {
			return fmt.Errorf("failed to init hidpi generator: %w", err)
		}
		path2x, _, err := gen2x.Generate(context.Background(), coords, cfg.force, "@2x")
		if err != nil {
			return fmt.Errorf("failed to generate hidpi tile: %w", err)
		}
		logger.Info("HiDPI tile generated", "coords", coords.String(), "path", path2x)
	}

	return nil
}

func runBatchTiles(cfg tilesConfig) error {
	bbox, err := parseBBox(cfg.bbox, cfg.worldSize)
	if err != nil {
		return fmt.Errorf("invalid bbox: %w", err)
	}

	// Validate zoom range
	if cfg.zoomMin < 0 || cfg.zoomMax > tile.MaxZoom {
		return fmt.Errorf("zoom levels must be within [0, %d]", tile.MaxZoom)
	}
	if cfg.zoomMin > cfg.zoomMax {
		return fmt.Errorf("--zoom-min (%d) must be <= --zoom-max (%d)", cfg.zoomMin, cfg.zoomMax)
	}

	workers := cfg.workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	tiles := tile.TilesInBound(bbox, cfg.worldSize, cfg.zoomMin, cfg.zoomMax)
	if len(tiles) == 0 {
		return fmt.Errorf("bbox %s does not overlap the world [0, %g)", cfg.bbox, cfg.worldSize)
	}
	totalTiles := len(tiles)
	if cfg.hidpi {
		totalTiles *= 2
	}

	logger.Info("Starting batch tile generation",
		"preset", cfg.presetName,
		"seed", cfg.preset.Seed,
		"bbox", cfg.bbox,
		"zoom_range", fmt.Sprintf("%d-%d", cfg.zoomMin, cfg.zoomMax),
		"tiles", len(tiles),
		"total_with_hidpi", totalTiles,
		"workers", workers,
		"output_dir", cfg.outputDir,
		"format", cfg.format,
	)

	// Create MBTiles writers if needed
	var baseWriter, hidpiWriter *mbtiles.Writer
	if cfg.format == "mbtiles" {
		metadata := mbtiles.Metadata{
			Name:        "NoiseGraph " + cfg.presetName,
			Format:      "png",
			Description: cfg.preset.Description,
			Type:        "baselayer",
			Version:     "1.0",
			Bounds:      [4]float64{bbox.Min.X(), bbox.Min.Y(), bbox.Max.X(), bbox.Max.Y()},
			Center: [3]float64{
				bbox.Center().X(),
				bbox.Center().Y(),
				float64((cfg.zoomMin + cfg.zoomMax) / 2),
			},
			MinZoom:   cfg.zoomMin,
			MaxZoom:   cfg.zoomMax,
			Preset:    cfg.presetName,
			Seed:      cfg.preset.Seed,
			WorldSize: cfg.worldSize,
			Mapping:   cfg.opts.Mapping.String(),
		}

		var opts []mbtiles.Option
		if cfg.gzip {
			opts = append(opts, mbtiles.WithGzip())
		}

		baseWriter, err = mbtiles.New(cfg.outputFile, metadata, opts...)
		if err != nil {
			return fmt.Errorf("failed to create MBTiles writer: %w", err)
		}
		defer baseWriter.Close() // nolint:errcheck

		if cfg.hidpi {
			hidpiFile := strings.TrimSuffix(cfg.outputFile, ".mbtiles") + "@2x.mbtiles"
			hidpiWriter, err = mbtiles.New(hidpiFile, metadata, opts...)
			if err != nil {
				return fmt.Errorf("failed to create HiDPI MBTiles writer: %w", err)
			}
			defer hidpiWriter.Close() // nolint:errcheck
		}

		logger.Info("MBTiles writers created", "base", cfg.outputFile, "hidpi", cfg.hidpi)
	}

	// Setup context with signal handling
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := runTileBatch(ctx, cfg, tiles, cfg.tileSize, "", baseWriter, workers); err != nil {
		return err
	}
	if cfg.hidpi {
		if err := runTileBatch(ctx, cfg, tiles, cfg.tileSize*2, "@2x", hidpiWriter, workers); err != nil {
			return err
		}
	}

	if baseWriter != nil {
		logger.Info("Flushing MBTiles databases...")
		if err := baseWriter.Flush(); err != nil {
			return fmt.Errorf("failed to flush base MBTiles: %w", err)
		}
		if hidpiWriter != nil {
			if err := hidpiWriter.Flush(); err != nil {
				return fmt.Errorf("failed to flush HiDPI MBTiles: %w", err)
			}
		}
		logger.Info("MBTiles generation complete", "base", cfg.outputFile)
	}

	return nil
}

// runTileBatch renders one pass (base or @2x) of the pyramid on a worker
// pool.
func runTileBatch(ctx context.Context, cfg tilesConfig, tiles []tile.Coords, size int, suffix string, w *mbtiles.Writer, workers int) error {
	opts := cfg.opts
	if w != nil {
		opts.TileWriter = w
	}

	gen, err := pipeline.NewGenerator(cfg.preset, cfg.outputDir, size, logger, opts)
	if err != nil {
		return fmt.Errorf("failed to init generator: %w", err)
	}

	tasks := make([]worker.Task, 0, len(tiles))
	for _, coords := range tiles {
		tasks = append(tasks, worker.Task{
			Coords: coords,
			Force:  cfg.force,
			Suffix: suffix,
		})
	}

	label := "base"
	if suffix != "" {
		label = "HiDPI"
	}

	progress := worker.NewProgress(len(tasks), cfg.showProgress)
	pool := worker.New(worker.Config{
		Workers:    workers,
		Generator:  gen,
		OnProgress: progress.Callback(),
	})

	logger.Info("Generating tiles", "pass", label, "count", len(tasks), "tile_size", size)
	results := pool.Run(ctx, tasks)
	progress.Done()

	failed := worker.Failed(results)
	for _, r := range failed {
		logger.Error("Tile generation failed", "coords", r.Task.Coords.String(), "suffix", r.Task.Suffix, "error", r.Err)
	}

	logger.Info(progress.Summary())

	if err := ctx.Err(); err != nil {
		return fmt.Errorf("tile generation interrupted: %w", err)
	}
	if len(failed) > 0 {
		if cfg.allowFailures {
			logger.Warn("Some tiles failed to generate, but continuing due to --allow-failures flag", "pass", label, "failed_count", len(failed))
		} else {
			return fmt.Errorf("%d %s tiles failed to generate", len(failed), label)
		}
	}
	return nil
}

// parseBBox parses a noise-space box "x0,y0,x1,y1". The word "world"
// stands for the whole zoom 0 tile.
func parseBBox(s string, worldSize float64) (orb.Bound, error) {
	if strings.TrimSpace(s) == "world" {
		return orb.Bound{Max: orb.Point{worldSize, worldSize}}, nil
	}

	parts := strings.Split(s, ",")
	if len(parts) != 4 {
		return orb.Bound{}, fmt.Errorf("expected 4 comma-separated values, got %d", len(parts))
	}

	var v [4]float64
	for i, part := range parts {
		val, err := strconv.ParseFloat(strings.TrimSpace(part), 64)
		if err != nil {
			return orb.Bound{}, fmt.Errorf("invalid number at position %d: %w", i, err)
		}
		v[i] = val
	}

	// Validate
	if v[0] >= v[2] {
		return orb.Bound{}, fmt.Errorf("x0 (%.4f) must be < x1 (%.4f)", v[0], v[2])
	}
	if v[1] >= v[3] {
		return orb.Bound{}, fmt.Errorf("y0 (%.4f) must be < y1 (%.4f)", v[1], v[3])
	}

	return orb.Bound{Min: orb.Point{v[0], v[1]}, Max: orb.Point{v[2], v[3]}}, nil
}
