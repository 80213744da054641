package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/ironsheep/hue-variants/internal/config"
	"github.com/ironsheep/hue-variants/internal/pipeline"
)

// Version information - set by ldflags during build
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func main() {
	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "--version", "-v", "version":
			fmt.Printf("hue-variants %s\n", Version)
			fmt.Printf("  Build time: %s\n", BuildTime)
			fmt.Printf("  Git commit: %s\n", GitCommit)
			return
		case "--help", "-h", "help":
			printUsage()
			return
		}
	}

	os.Exit(run(os.Args[1:]))
}

func printUsage() {
	fmt.Println("hue-variants - generate hue/saturation variants of a folder of images")
	fmt.Println()
	fmt.Println("Usage: hue-variants [options]")
	fmt.Println()
	fmt.Println("Options:")
	fmt.Println("  --hue_steps N          Number of hue divisions (default 10)")
	fmt.Println("  --saturation_steps N   Number of saturation levels (default 3)")
	fmt.Println("  --workers N            Concurrent workers (default: CPU count)")
	fmt.Println("  --input DIR            Source directory (default input)")
	fmt.Println("  --output DIR           Output directory (default output)")
	fmt.Println("  --config FILE          YAML configuration file")
	fmt.Println("  --version, -v          Print version information")
	fmt.Println("  --help, -h             Print this help message")
	fmt.Println()
	fmt.Println("Environment variables:")
	fmt.Printf("  %s=debug    Enable debug logging\n", config.LogLevelEnv)
}

func run(args []string) int {
	fs := flag.NewFlagSet("hue-variants", flag.ContinueOnError)
	configPath := fs.String("config", "", "YAML configuration file")
	hueSteps := fs.Int("hue_steps", config.DefaultHueSteps, "number of hue divisions")
	satSteps := fs.Int("saturation_steps", config.DefaultSaturationSteps, "number of saturation levels")
	workers := fs.Int("workers", 0, "concurrent workers (0 = CPU count)")
	inputDir := fs.String("input", config.DefaultInputDir, "source directory")
	outputDir := fs.String("output", config.DefaultOutputDir, "output directory")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 2
	}
	cfg.ApplyEnv()

	// Flags win over the config file, but only when given explicitly.
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "hue_steps":
			cfg.HueSteps = *hueSteps
		case "saturation_steps":
			cfg.SaturationSteps = *satSteps
		case "workers":
			cfg.Workers = *workers
		case "input":
			cfg.InputDir = *inputDir
		case "output":
			cfg.OutputDir = *outputDir
		}
	})

	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "invalid configuration: %v\n", err)
		return 2
	}

	level, _ := config.ParseLevel(cfg.LogLevel)
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)
	logger.Debug("hue-variants starting", "version", Version, "built", BuildTime, "commit", GitCommit)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	p := pipeline.New(cfg, pipeline.Options{Logger: logger})
	summary, err := p.Run(ctx)
	if err != nil {
		logger.Error("batch failed to start", "error", err)
		return 1
	}

	fmt.Println(renderSummary(summary))
	if !summary.OK() {
		return 1
	}
	return 0
}
