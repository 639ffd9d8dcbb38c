// landscape builds runtime-editable terrain surfaces from a heightmap and a
// scene file, and answers queries against them.
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/Faultbox/runtime-landscape/internal/config"
	"github.com/Faultbox/runtime-landscape/internal/logger"
)

func main() {
	os.Exit(realMain())
}

func realMain() int {
	config.ParseFlags()
	args := config.Args()
	if len(args) < 1 {
		printUsage(os.Stderr)
		return 1
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		return 1
	}
	if err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile); err != nil {
		fmt.Fprintf(os.Stderr, "Logger error: %v\n", err)
		return 1
	}
	defer logger.Sync()
	logger.Sugar.Debugf("Config: %+v", cfg)

	if err := run(cfg, args, os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

// run dispatches one subcommand.
func run(cfg *config.Config, args []string, out io.Writer) error {
	command, rest := args[0], args[1:]
	switch command {
	case "build":
		return cmdBuild(cfg, rest, out)
	case "info":
		return cmdInfo(cfg, rest, out)
	case "config":
		return cmdConfig(cfg, rest, out)
	case "path":
		return cmdPath(cfg, rest, out)
	case "probe":
		return cmdProbe(cfg, rest, out)
	case "help", "-h", "--help":
		printUsage(out)
		return nil
	}
	printUsage(os.Stderr)
	return fmt.Errorf("unknown command: %s", command)
}

func printUsage(w io.Writer) {
	fmt.Fprintln(w, `landscape - runtime-editable terrain builder

Usage:
  landscape [global flags] <command> [options]

Global flags:
  -config <file>      Config file (default ./landscape.yaml)
  -heightmap <file>   Heightmap (png, tiff, bmp, raw/r16)
  -scene <file>       Scene with vegetation, layers and holes
  -workers <n>        Row workers (0 = one per CPU)
  -immediate          Rebuild synchronously on every edit
  -debug              Debug logging and debug patch colors

Commands:
  info [-v]                    Show grid layout
  config [-o file]             Print or save the effective config
  build [options]              Build every patch and print statistics
    -o <out.obj[.zst]>         Export geometry
    -masks <dir>               Write paint masks as PNGs
    -preview <file.png>        Write a height preview
  probe <x> <y>                Print the surface height at a position
  path -from x,y -to x,y       Find a walkable path

Examples:
  landscape info -v
  landscape -heightmap hills.png -scene valley.yaml build -o hills.obj.zst -preview hills.png
  landscape -scene valley.yaml probe 250 250
  landscape -scene valley.yaml path -from 10,10 -to 990,990`)
}
