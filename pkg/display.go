package evd

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"strings"
)

// Display shows a rendered figure and blocks until the viewer dismisses it.
type Display interface {
	Show(path string, sel Selection) error
}

// NoopDisplay returns immediately. Used for batch rendering.
type NoopDisplay struct{}

func (NoopDisplay) Show(string, Selection) error {
	return nil
}

// PromptDisplay optionally opens the figure with an external viewer, then
// waits for the user to press Enter.
type PromptDisplay struct {
	ctx     context.Context
	out     io.Writer
	command []string
	answers chan error
}

// NewPromptDisplay reads dismissals from in and writes prompts to out.
// command is the viewer program and its arguments, the figure path is
// appended; an empty command only prompts. Cancelling ctx dismisses the
// pending figure and closes the display.
func NewPromptDisplay(ctx context.Context, in io.Reader, out io.Writer, command string) *PromptDisplay {
	d := &PromptDisplay{
		ctx:     ctx,
		out:     out,
		command: strings.Fields(command),
		answers: make(chan error),
	}
	go d.readAnswers(bufio.NewReader(in))
	return d
}

func (d *PromptDisplay) readAnswers(in *bufio.Reader) {
	defer close(d.answers)
	for {
		_, err := in.ReadString('\n')
		select {
		case d.answers <- err:
		case <-d.ctx.Done():
			return
		}
		if err != nil {
			return
		}
	}
}

func (d *PromptDisplay) Show(path string, sel Selection) error {
	if len(d.command) > 0 {
		args := append(append([]string{}, d.command[1:]...), path)
		cmd := exec.CommandContext(d.ctx, d.command[0], args...)
		if err := cmd.Run(); err != nil {
			if d.ctx.Err() != nil {
				return ErrViewerClosed
			}
			return fmt.Errorf("error running viewer %q: %w", d.command[0], err)
		}
	}

	fmt.Fprintf(d.out, "Event %d: %d hits in %s. Press Enter for the next event\n",
		sel.Event.ID, sel.Len(), path)
	select {
	case err, ok := <-d.answers:
		if !ok || errors.Is(err, io.EOF) {
			return ErrViewerClosed
		}
		return err
	case <-d.ctx.Done():
		return ErrViewerClosed
	}
}
