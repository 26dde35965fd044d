package notify

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"golang.org/x/term"
)

// ConsoleNotifier prints colored outcome messages.
type ConsoleNotifier struct {
	out     io.Writer
	success *color.Color
	failure *color.Color
	warning *color.Color
}

// NewConsoleNotifier creates a notifier writing to out.
func NewConsoleNotifier(out io.Writer) *ConsoleNotifier {
	return &ConsoleNotifier{
		out:     out,
		success: color.New(color.FgHiGreen),
		failure: color.New(color.FgHiRed),
		warning: color.New(color.FgYellow),
	}
}

func (n *ConsoleNotifier) Success(cmd string) {
	n.success.Fprintln(n.out, "✓ Command copied to clipboard:")
	fmt.Fprintln(n.out, cmd)
}

func (n *ConsoleNotifier) Failure(err error) {
	n.failure.Fprintf(n.out, "!! Could not copy to clipboard: %v\n", err)
}

func (n *ConsoleNotifier) NotFound(levels int) {
	n.failure.Fprintf(n.out, "No M3U8 video found - searched %d frame levels\n", levels)
}

func (n *ConsoleNotifier) Guess(url string) {
	n.warning.Fprintf(n.out, "! No playlist reference found, guessed %s\n", url)
	n.warning.Fprintln(n.out, "! Verify the URL before downloading.")
}

// TextPrompter prints the text and, when interactive, waits for Enter.
type TextPrompter struct {
	in          *bufio.Reader
	out         io.Writer
	interactive bool
}

// NewPrompter creates a prompter reading confirmations from in.
func NewPrompter(in io.Reader, out io.Writer, interactive bool) *TextPrompter {
	return &TextPrompter{
		in:          bufio.NewReader(in),
		out:         out,
		interactive: interactive,
	}
}

// NewTerminalPrompter creates a prompter that only waits for Enter when in is
// a terminal.
func NewTerminalPrompter(in *os.File, out io.Writer) *TextPrompter {
	return NewPrompter(in, out, term.IsTerminal(int(in.Fd())))
}

func (p *TextPrompter) Prompt(message, text string) error {
	if _, err := fmt.Fprintf(p.out, "%s\n\n%s\n\n", message, text); err != nil {
		return err
	}
	if !p.interactive {
		return nil
	}

	fmt.Fprint(p.out, "Press Enter when done...")
	if _, err := p.in.ReadString('\n'); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("failed to read confirmation: %w", err)
	}
	return nil
}
