package main

import (
	"context"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"decaf/internal/driver"
	"decaf/internal/pipeline"
	"decaf/internal/ui"
)

type checkOutcome struct {
	results []*driver.FileResult
	err     error
}

// runCheckWithUI checks files while a progress program renders the events.
// The program exits when the check closes the event channel.
func runCheckWithUI(ctx context.Context, title string, files []string, opts driver.Options) ([]*driver.FileResult, error) {
	events := make(chan pipeline.Event, 256)
	outcomeCh := make(chan checkOutcome, 1)

	go func() {
		optsCopy := opts
		optsCopy.Progress = pipeline.MultiSink{opts.Progress, pipeline.ChannelSink{Ch: events}}
		results, err := driver.CheckFiles(ctx, files, optsCopy)
		outcomeCh <- checkOutcome{results: results, err: err}
		close(events)
	}()

	display := pipeline.DisplayFiles(files, opts.BaseDir)
	model := ui.NewProgressModel(title, display, events)
	program := tea.NewProgram(model, tea.WithOutput(os.Stderr))
	_, uiErr := program.Run()
	if uiErr != nil {
		// программа больше не читает канал; не даём проверке зависнуть
		go func() {
			for range events {
			}
		}()
	}
	outcome := <-outcomeCh
	if uiErr != nil {
		return outcome.results, uiErr
	}
	return outcome.results, outcome.err
}
