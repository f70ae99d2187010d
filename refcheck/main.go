package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"sync"
	"time"

	evd "github.com/next-exp/evd_go/pkg"
)

var (
	logger        evd.SlogLogger
	configuration evd.Configuration
)

func init() {
	logger = evd.NewLogger(os.Stdout, os.Stderr, slog.LevelDebug)
}

// refcheck selects the hits of every event both by timestamp window and by
// reference table and reports the events where the two disagree.
func main() {
	os.Exit(run())
}

func run() int {
	configFilename := flag.String("config", "", "Configuration file path")
	fileIn := flag.String("file", "", "Input HDF5 file, overrides file_in")
	workers := flag.Int("workers", 0, "Number of workers, overrides num_workers")
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
	if *workers > 0 {
		configuration.NumWorkers = *workers
	}
	if configuration.NumWorkers < 1 {
		configuration.NumWorkers = 1
	}
	evd.SetConfiguration(configuration)
	evd.SetLogger(logger)

	if configuration.Verbosity > 0 {
		evd.PrintConfiguration(configuration, logger)
	}

	detector, err := evd.ResolveDetector(configuration)
	if err != nil {
		message := fmt.Errorf("Error loading detector configuration: %w", err)
		logger.Error(message.Error())
		return 1
	}

	tables, err := evd.LoadTables(configuration.FileIn, true)
	if err != nil {
		logger.Error(err.Error())
		return 1
	}
	byTimestamp := evd.NewTimestampSelector(tables.Hits, detector)
	byReference := evd.NewReferenceSelector(tables.Hits, tables.Refs, detector)

	start := time.Now()
	jobs := make(chan WorkerData, 100)
	results := make(chan CheckResult, 100)

	var wg sync.WaitGroup
	for w := 1; w <= configuration.NumWorkers; w++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			worker(id, byTimestamp, byReference, jobs, results)
		}(w)
	}
	go sendEventsToWorkers(tables.Events, configuration.Skip, configuration.MaxEvents, jobs)
	go func() {
		wg.Wait()
		close(results)
	}()

	summary := processWorkerResults(results, configuration.Skip)

	duration := time.Since(start)
	message := fmt.Sprintf("Checked %d events in %d ms: %d divergent, %d failed, %d hits only in timestamp windows, %d hits only in reference table",
		summary.Checked, duration.Milliseconds(), summary.Divergent, summary.Failed, summary.OnlyTs, summary.OnlyRef)
	logger.Info(message, "main")
	if summary.Failed > 0 {
		return 1
	}
	return 0
}
