package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"

	evd "github.com/next-exp/evd_go/pkg"
)

var (
	logger        evd.SlogLogger
	configuration evd.Configuration
)

func init() {
	logger = evd.NewLogger(os.Stdout, os.Stderr, slog.LevelDebug)
}

func main() {
	os.Exit(run())
}

func run() int {
	configFilename := flag.String("config", "", "Configuration file path")
	fileIn := flag.String("file", "", "Input HDF5 file, overrides file_in")
	selector := flag.String("selector", "", "Hit selection: timestamp or reference")
	batch := flag.Bool("batch", false, "Write the images without waiting for the viewer")
	flag.Parse()

	var err error
	configuration, err = evd.LoadConfiguration(*configFilename)
	if err != nil {
		message := fmt.Errorf("Error reading configuration file: %w", err)
		logger.Error(message.Error())
		return 1
	}
	if *fileIn != "" {
		configuration.FileIn = *fileIn
	}
	if *selector != "" {
		configuration.Selector = evd.SelectorMode(*selector)
	}
	if *batch {
		configuration.Interactive = false
	}
	evd.SetConfiguration(configuration)
	evd.SetLogger(logger)

	if configuration.Verbosity > 0 {
		logger.Info(fmt.Sprintf("Reading configuration file: %s", *configFilename), "main")
		evd.PrintConfiguration(configuration, logger)
	}
	if configuration.FileIn == "" {
		logger.Error("No input file, set file_in or use -file")
		return 1
	}

	detector, err := evd.ResolveDetector(configuration)
	if err != nil {
		message := fmt.Errorf("Error loading detector configuration: %w", err)
		logger.Error(message.Error())
		return 1
	}
	if configuration.Verbosity > 0 {
		message := fmt.Sprintf("Drift window: %.1f ticks", detector.DriftWindow())
		logger.Info(message, "main")
	}

	withRefs := configuration.Selector == evd.SelectByReference
	tables, err := evd.LoadTables(configuration.FileIn, withRefs)
	if err != nil {
		logger.Error(err.Error())
		return 1
	}

	hitSelector, err := evd.NewSelector(configuration.Selector, tables.Hits, tables.Refs, detector)
	if err != nil {
		logger.Error(err.Error())
		return 1
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	var display evd.Display = evd.NoopDisplay{}
	if configuration.Interactive {
		display = evd.NewPromptDisplay(ctx, os.Stdin, os.Stdout, configuration.Viewer)
	}
	renderer := evd.NewChartRenderer(detector, configuration.OutputDir, display)
	renderer.Width = configuration.Width
	renderer.Height = configuration.Height

	opts := evd.RunOptions{Skip: configuration.Skip, MaxEvents: configuration.MaxEvents}
	rendered, err := evd.Run(ctx, tables.Events, hitSelector, renderer, opts)
	if err != nil {
		logger.Error(err.Error())
		return 1
	}
	logger.Info(fmt.Sprintf("Events displayed: %d of %d", rendered, len(tables.Events)), "main")
	return 0
}
