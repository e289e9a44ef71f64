package cmd

import (
	"fmt"
	"os"

	"github.com/MeKo-Tech/noisegraph/internal/preset"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "noisegraph",
	Short: "A procedural noise graph renderer",
	Long: `NoiseGraph builds coherent noise from composable module graphs.

Graphs come from built-in or configured presets. They can be rendered to
PNG or 16-bit TIFF heightmaps, cut into tile pyramids stored as folders or
MBTiles, and sampled for their value statistics.`,
	SilenceUsage: true,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./noisegraph.yaml)")
	rootCmd.PersistentFlags().String("preset", "terrain", "Preset to use (see 'noisegraph presets')")
	rootCmd.PersistentFlags().Uint32("seed", 0, "Override the preset seed")
	rootCmd.PersistentFlags().String("output-dir", "./out", "Output directory for rendered files")
	rootCmd.PersistentFlags().Bool("verbose", false, "Enable verbose logging")

	for _, name := range []string{"preset", "seed", "output-dir", "verbose"} {
		if err := viper.BindPFlag(name, rootCmd.PersistentFlags().Lookup(name)); err != nil {
			panic(fmt.Sprintf("failed to bind flag: %v", err))
		}
	}
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigType("yaml")
		viper.SetConfigName("noisegraph")
	}

	viper.SetEnvPrefix("NOISEGRAPH")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		if viper.GetBool("verbose") {
			fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
		}
	}
}

// loadPresets returns the built-in presets overlaid with those under
// "presets" in the config file.
func loadPresets() (*preset.Set, error) {
	set, err := preset.Load(viper.GetViper(), "presets")
	if err != nil {
		return nil, fmt.Errorf("failed to load presets: %w", err)
	}
	return set, nil
}

// selectedPreset resolves --preset and applies --seed when it was given.
func selectedPreset() (string, preset.Preset, error) {
	set, err := loadPresets()
	if err != nil {
		return "", preset.Preset{}, err
	}
	name := viper.GetString("preset")
	p, err := set.Get(name)
	if err != nil {
		return "", preset.Preset{}, err
	}
	if viper.IsSet("seed") {
		p.Seed = viper.GetUint32("seed")
	}
	return name, p, nil
}
