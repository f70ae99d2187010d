package evd

import (
	"context"
	"errors"
	"fmt"
)

type RunOptions struct {
	// Number of events to skip from the start of the table
	Skip int
	// Maximum number of events to render
	MaxEvents int
}

// Run selects and renders every event in table order. Any error aborts the
// run. Cancelling ctx or the display reporting ErrViewerClosed stops it
// without error. It returns the number of events rendered.
func Run(ctx context.Context, events []Event, selector HitSelector, renderer Renderer, opts RunOptions) (int, error) {
	rendered := 0
	for i, event := range events {
		if err := ctx.Err(); err != nil {
			logger.Info("Run interrupted", "driver")
			return rendered, nil
		}
		if i < opts.Skip {
			if configuration.Verbosity > 1 {
				logger.Info(fmt.Sprintf("Skipping event %d with ID %d", i, event.ID), "driver")
			}
			continue
		}
		if rendered >= opts.MaxEvents {
			if configuration.Verbosity > 0 {
				logger.Info("Max events reached", "driver")
			}
			break
		}

		sel, err := selector.SelectHits(event)
		if err != nil {
			return rendered, fmt.Errorf("error selecting hits for event %d: %w", event.ID, err)
		}
		if configuration.Verbosity > 1 {
			message := fmt.Sprintf("Event %d with ID %d: %d hits", i, event.ID, sel.Len())
			logger.Info(message, "driver")
		}

		err = renderer.Render(sel)
		if errors.Is(err, ErrViewerClosed) {
			logger.Info("Viewer closed", "driver")
			return rendered + 1, nil
		}
		if err != nil {
			return rendered, fmt.Errorf("error rendering event %d: %w", event.ID, err)
		}
		rendered++
	}
	return rendered, nil
}
