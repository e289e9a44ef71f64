package cmd

import (
	"context"
	"fmt"
	"image"
	"os"
	"os/signal"
	"path/filepath"
	"runtime"
	"syscall"
	"time"

	"github.com/MeKo-Tech/noisegraph/internal/implicit"
	"github.com/MeKo-Tech/noisegraph/internal/raster"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var renderCmd = &cobra.Command{
	Use:   "render",
	Short: "Render a preset to an image",
	Long: `Render one image of a preset over a rectangle of noise space, as an 8-bit
PNG or a 16-bit TIFF heightmap.`,
	RunE: runRender,
}

func init() {
	rootCmd.AddCommand(renderCmd)

	renderCmd.Flags().String("domain", "0,0,4,4", "Noise-space rectangle: x0,y0,x1,y1")
	renderCmd.Flags().Int("width", 512, "Image width in pixels")
	renderCmd.Flags().Int("height", 512, "Image height in pixels")
	renderCmd.Flags().String("mapping", "none", "Mapping (none, seamless-x, seamless-y, seamless-xy)")
	renderCmd.Flags().Int("bands", 0, "Number of parallel row bands (default: number of CPUs)")
	renderCmd.Flags().String("format", "png", "Image format: png or tiff (16-bit)")
	renderCmd.Flags().StringP("output", "o", "", "Output file (default: <output-dir>/<preset>.<format>)")
	renderCmd.Flags().Bool("normalize", false, "Stretch the sampled range to full black..white")
	renderCmd.Flags().Float64("low", 0, "Sample value mapped to black")
	renderCmd.Flags().Float64("high", 1, "Sample value mapped to white")
	renderCmd.Flags().Float32("blur", 0, "Gaussian blur sigma in pixels")
	renderCmd.Flags().Float32("contrast", 0, "Contrast adjustment in percent (-100..100)")
	renderCmd.Flags().Bool("invert", false, "Invert the image")
	renderCmd.Flags().String("png-compression", "default", "PNG compression (default, speed, best, none)")

	bindFlags := []struct {
		key  string
		flag string
	}{
		{"render.domain", "domain"},
		{"render.width", "width"},
		{"render.height", "height"},
		{"render.mapping", "mapping"},
		{"render.bands", "bands"},
		{"render.format", "format"},
		{"render.output", "output"},
		{"render.normalize", "normalize"},
		{"render.low", "low"},
		{"render.high", "high"},
		{"render.blur", "blur"},
		{"render.contrast", "contrast"},
		{"render.invert", "invert"},
		{"render.png_compression", "png-compression"},
	}

	for _, bf := range bindFlags {
		if err := viper.BindPFlag(bf.key, renderCmd.Flags().Lookup(bf.flag)); err != nil {
			panic(fmt.Sprintf("failed to bind flag %s: %v", bf.flag, err))
		}
	}
}

func runRender(cmd *cobra.Command, args []string) error {
	if logger == nil {
		initLogging()
	}

	name, p, err := selectedPreset()
	if err != nil {
		return err
	}

	bound, err := parseBBox(viper.GetString("render.domain"), 0)
	if err != nil {
		return fmt.Errorf("invalid domain: %w", err)
	}
	domain := raster.Domain{X0: bound.Min.X(), Y0: bound.Min.Y(), X1: bound.Max.X(), Y1: bound.Max.Y()}
	if err := domain.Validate(); err != nil {
		return fmt.Errorf("invalid domain: %w", err)
	}

	width := viper.GetInt("render.width")
	height := viper.GetInt("render.height")
	if width <= 0 || height <= 0 {
		return fmt.Errorf("image size must be positive, got %dx%d", width, height)
	}

	mapping, err := raster.ParseMapping(viper.GetString("render.mapping"))
	if err != nil {
		return err
	}

	format := viper.GetString("render.format")
	if format != "png" && format != "tiff" {
		return fmt.Errorf("invalid format %q: must be 'png' or 'tiff'", format)
	}
	level, err := raster.ParseCompression(viper.GetString("render.png_compression"))
	if err != nil {
		return err
	}

	low, high := viper.GetFloat64("render.low"), viper.GetFloat64("render.high")
	if low == high {
		return fmt.Errorf("--low and --high must differ")
	}

	output := viper.GetString("render.output")
	if output == "" {
		output = filepath.Join(viper.GetString("output-dir"), name+"."+format)
	}

	bands := viper.GetInt("render.bands")
	if bands <= 0 {
		bands = runtime.NumCPU()
	}

	logger.Info("Rendering image",
		"preset", name,
		"seed", p.Seed,
		"domain", viper.GetString("render.domain"),
		"size", fmt.Sprintf("%dx%d", width, height),
		"mapping", mapping.String(),
		"bands", bands,
		"output", output,
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	start := time.Now()
	grid, err := raster.SampleParallel(ctx, func() (implicit.Module, error) { return p.Build() }, domain, width, height, mapping, bands)
	if err != nil {
		return fmt.Errorf("failed to sample preset: %w", err)
	}
	lo, hi := grid.Range()
	logger.Debug("Sampled grid", "min", lo, "max", hi, "elapsed", time.Since(start).Round(time.Millisecond))

	if viper.GetBool("render.normalize") {
		grid.Normalize(low, high)
	}

	var img image.Image
	if format == "tiff" {
		img = raster.ToGray16(grid, low, high)
	} else {
		img = raster.ToGray(grid, low, high)
	}
	img = raster.Filter(img, raster.FilterOptions{
		Blur:     float32(viper.GetFloat64("render.blur")),
		Contrast: float32(viper.GetFloat64("render.contrast")),
		Invert:   viper.GetBool("render.invert"),
	})

	if err := os.MkdirAll(filepath.Dir(output), 0o755); err != nil {
		return fmt.Errorf("failed to create output dir: %w", err)
	}
	f, err := os.Create(output)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer f.Close() // nolint:errcheck

	if format == "tiff" {
		err = raster.EncodeTIFF(f, img)
	} else {
		err = raster.EncodePNG(f, img, level)
	}
	if err != nil {
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to close output file: %w", err)
	}

	logger.Info("Image rendered", "path", output, "min", lo, "max", hi, "elapsed", time.Since(start).Round(time.Millisecond))
	return nil
}
