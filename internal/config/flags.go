package config

import "flag"

var (
	flagConfig    = flag.String("config", "", "Path to config file")
	flagDebug     = flag.Bool("debug", false, "Enable debug logging and debug colors")
	flagWorkers   = flag.Int("workers", -1, "Row worker count (0 = one per CPU)")
	flagHeightmap = flag.String("heightmap", "", "Heightmap file (png, tiff, bmp, r16)")
	flagScene     = flag.String("scene", "", "Scene file with layers and holes")
	flagImmediate = flag.Bool("immediate", false, "Rebuild synchronously on every edit")
)

// ParseFlags parses the global command-line flags. Call this early in main().
func ParseFlags() {
	flag.Parse()
}

// Args returns the arguments left after the global flags.
func Args() []string {
	return flag.Args()
}

// ConfigPath returns the explicit config path if provided via -config.
func ConfigPath() string {
	return *flagConfig
}

// applyFlags applies CLI flag overrides to the config.
func applyFlags(cfg *Config) {
	if *flagDebug {
		cfg.Logging.Level = "debug"
		cfg.Debug.Enabled = true
	}
	if *flagWorkers >= 0 {
		cfg.Rebuild.Workers = *flagWorkers
	}
	if *flagHeightmap != "" {
		cfg.Data.Heightmap = *flagHeightmap
	}
	if *flagScene != "" {
		cfg.Data.Scene = *flagScene
	}
	if *flagImmediate {
		cfg.Rebuild.Mode = ModeImmediate
	}
}
