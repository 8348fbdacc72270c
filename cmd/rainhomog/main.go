package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/chrissnell/rainhomog/internal/app"
	"github.com/chrissnell/rainhomog/internal/constants"
	"github.com/chrissnell/rainhomog/internal/log"
	"github.com/chrissnell/rainhomog/pkg/config"
)

func main() {
	cfgFile := flag.String("config", "", "Path to YAML configuration file (built-in defaults when empty)")
	input := flag.String("input", "", "NetCDF dataset to analyze, overrides input.path")
	output := flag.String("output", "", "PNG chart to write, overrides output.path")
	result := flag.String("result", "", "Precomputed test result (.json or .msgpack) to use instead of running the test")
	debug := flag.Bool("debug", false, "Turn on debugging output")
	showVersion := flag.Bool("version", false, "Show version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Printf("rainhomog %s\n", constants.Version)
		os.Exit(0)
	}

	// Set up logging
	if err := log.Init(*debug); err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}

	cfgData, err := loadConfig(*cfgFile)
	if err != nil {
		log.Errorf("Failed to load configuration: %v", err)
		log.Sync()
		os.Exit(1)
	}
	if *input != "" {
		cfgData.Input.Path = *input
	}
	if *output != "" {
		cfgData.Output.Path = *output
	}
	if *result != "" {
		cfgData.Analysis.ResultFile = *result
	}

	log.Infof("rainhomog %s analyzing %s", constants.Version, cfgData.Input.Path)
	log.Debugw("configuration loaded", "config", cfgData)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	application := app.New(cfgData, log.With("version", constants.Version))
	if err := application.Run(ctx, os.Stdout); err != nil {
		log.Errorf("Analysis failed: %v", err)
		log.Sync()
		os.Exit(1)
	}
	log.Sync()
}

func loadConfig(cfgFile string) (*config.ConfigData, error) {
	var provider config.ConfigProvider
	if cfgFile == "" {
		provider = config.NewDefaultsProvider()
	} else {
		filename, _ := filepath.Abs(cfgFile)
		provider = config.NewYAMLProvider(filename)
	}
	defer provider.Close()

	cfgData, err := provider.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("error reading config file. Did you pass the -config flag? Run with -h for help: %w", err)
	}

	return cfgData, nil
}
