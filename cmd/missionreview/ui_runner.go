package main

import (
	"context"
	"os"

	"missionreview/internal/diag"
	"missionreview/internal/driver"
	"missionreview/internal/ui"
)

type checkOutcome struct {
	results []driver.Result
	err     error
}

// checkWithUI runs the review while the progress view renders on stderr.
func checkWithUI(ctx context.Context, missions []driver.Mission, sink *diag.Collector, opts driver.Options) ([]driver.Result, error) {
	events := make(chan driver.Event, 256)
	outcomeCh := make(chan checkOutcome, 1)

	go func() {
		optsCopy := opts
		optsCopy.Progress = driver.ChannelSink{Ch: events}
		res, err := driver.CheckAll(ctx, missions, sink, optsCopy)
		outcomeCh <- checkOutcome{results: res, err: err}
		close(events)
	}()

	names := make([]string, len(missions))
	for i, m := range missions {
		names[i] = m.Name
	}
	uiErr := ui.Run(os.Stderr, "Reviewing missions", names, events)
	// вид мог закрыться раньше; не даём воркерам блокироваться на канале
	go func() {
		for range events {
		}
	}()
	outcome := <-outcomeCh
	if uiErr != nil {
		return outcome.results, uiErr
	}
	return outcome.results, outcome.err
}
