/*
Package stopwatch provides named lap-timing stopwatches and a factory that
keeps a concurrency-safe catalogue of every stopwatch it created.

# Overview

A Factory hands out stopwatches by unique name. Registration is atomic: the
uniqueness check and the insert happen in one critical section, so two
goroutines racing to create the same name get exactly one winner. The
factory never removes or replaces a stopwatch; List returns them in the
order they were created.

# Basic Usage

	f := stopwatch.NewFactory()

	sw, err := f.Create("db-query")
	if err != nil {
	    log.Fatal(err)
	}

	_ = sw.Start()
	runQuery()
	_ = sw.Lap()
	runQuery()
	_ = sw.Stop()

	fmt.Println(sw.LapTimes()) // two laps
	for _, sw := range f.List() {
	    fmt.Println(sw)
	}

# Errors

Create reports every rejection as an *ArgumentError matching
ErrInvalidArgument:

	_, err := f.Create("db-query")
	if errors.Is(err, stopwatch.ErrDuplicateID) {
	    // name already taken
	}

Handle state errors are ErrAlreadyRunning and ErrNotRunning.

# Observability

Logging, metrics and tracing are opt-in:

	f := stopwatch.NewFactory(
	    stopwatch.WithLogger(logger),
	    stopwatch.WithMetrics(true),
	    stopwatch.WithTracing(true),
	)

Metrics and spans go to the global OpenTelemetry providers.
*/
package stopwatch
