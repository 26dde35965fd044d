// Package notify delivers the composed command to the user.
//
// Delivery goes through three collaborators: a Clipboard that receives the
// command, a Notifier that reports outcomes, and a Prompter that shows the
// command for manual copy when the clipboard is not usable.
package notify

import (
	"context"
	"errors"
	"fmt"
	"time"

	"m3u8cmd/internal/logger"
)

var log = logger.Get("Notify")

// DefaultTimeout bounds a single clipboard write.
const DefaultTimeout = 3 * time.Second

// ErrClipboardTimeout is returned when the clipboard write does not finish
// within the delivery timeout.
var ErrClipboardTimeout = errors.New("clipboard write timed out")

// Clipboard receives the command text.
type Clipboard interface {
	WriteAll(text string) error
}

// Notifier reports the outcome of a run to the user.
type Notifier interface {
	// Success announces that cmd is on the clipboard.
	Success(cmd string)
	// Failure announces that the clipboard could not be used.
	Failure(err error)
	// NotFound announces that no playlist was found in levels frame levels.
	NotFound(levels int)
	// Guess announces that url was synthesized rather than found.
	Guess(url string)
}

// Prompter shows text the user has to copy by hand.
type Prompter interface {
	Prompt(message, text string) error
}

// Delivery hands a command to the clipboard and falls back to the prompter.
type Delivery struct {
	Clipboard Clipboard
	Notifier  Notifier
	Prompter  Prompter
	Timeout   time.Duration
}

// Deliver writes cmd to the clipboard in the background and waits for the
// write, the timeout or ctx, whichever comes first. It reports whether the
// clipboard now holds cmd.
//
// A failed or timed out write notifies the user and prompts for manual copy;
// the returned error is then the prompt's. A cancelled ctx returns its error
// without prompting.
func (d *Delivery) Deliver(ctx context.Context, cmd string) (bool, error) {
	if d.Clipboard == nil {
		return false, d.fallback(errors.New("no clipboard configured"), cmd)
	}

	timeout := d.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	writeCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	done := make(chan error, 1)
	go func() {
		done <- d.Clipboard.WriteAll(cmd)
	}()

	var err error
	select {
	case err = <-done:
	case <-writeCtx.Done():
		if ctxErr := ctx.Err(); ctxErr != nil {
			return false, ctxErr
		}
		err = fmt.Errorf("%w after %s", ErrClipboardTimeout, timeout)
	}

	if err == nil {
		log.Emit(logger.DEBUG, "Command copied to clipboard\n")
		if d.Notifier != nil {
			d.Notifier.Success(cmd)
		}
		return true, nil
	}
	return false, d.fallback(err, cmd)
}

func (d *Delivery) fallback(cause error, cmd string) error {
	log.Emit(logger.WARNING, "Clipboard unavailable: %v\n", cause)
	if d.Notifier != nil {
		d.Notifier.Failure(cause)
	}
	if d.Prompter == nil {
		return fmt.Errorf("clipboard failed and no prompter is configured: %w", cause)
	}
	if err := d.Prompter.Prompt("Copy this command:", cmd); err != nil {
		return fmt.Errorf("failed to prompt for manual copy: %w", err)
	}
	return nil
}
