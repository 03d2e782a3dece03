// Package paste puts a finished note on the system clipboard and pastes it
// into whatever window has input focus.
package paste

import (
	"fmt"
	"io"
	"strings"
	"time"
)

// Delay is how long the operator has to focus the target field.
const Delay = 3000 * time.Millisecond

// Usage is printed when no note text is given.
const Usage = `Usage: paste-note "Final consultation note text here"`

// ClipboardWriter replaces the system clipboard contents.
type ClipboardWriter interface {
	Clear() error
	Write(text string) error
}

// KeystrokeInjector sends the platform paste shortcut to the focused window.
type KeystrokeInjector interface {
	Paste() error
}

// UsageError reports missing note text.
type UsageError struct{}

func (e *UsageError) Error() string { return "note text is required" }

// AutomationError reports a clipboard or keystroke failure.
type AutomationError struct {
	Step string
	Err  error
}

func (e *AutomationError) Error() string {
	return fmt.Sprintf("automation failed: %s: %v", e.Step, e.Err)
}

func (e *AutomationError) Unwrap() error { return e.Err }

// Automator runs one paste attempt.
type Automator struct {
	Clipboard ClipboardWriter
	Keys      KeystrokeInjector
	Out       io.Writer
	Delay     time.Duration
	Sleep     func(time.Duration)
}

// New returns an Automator with the fixed delay and a real sleep.
func New(clip ClipboardWriter, keys KeystrokeInjector, out io.Writer) *Automator {
	return &Automator{
		Clipboard: clip,
		Keys:      keys,
		Out:       out,
		Delay:     Delay,
		Sleep:     time.Sleep,
	}
}

// NoteText joins command-line arguments into the note to paste.
func NoteText(args []string) string {
	return strings.TrimSpace(strings.Join(args, " "))
}

// Run pastes the note built from args. It makes a single attempt: a failed
// paste may have partly happened, so it is never retried.
func (a *Automator) Run(args []string) error {
	note := NoteText(args)
	if note == "" {
		return &UsageError{}
	}

	if err := a.Clipboard.Clear(); err != nil {
		return &AutomationError{Step: "clear clipboard", Err: err}
	}
	if err := a.Clipboard.Write(note); err != nil {
		return &AutomationError{Step: "write clipboard", Err: err}
	}

	fmt.Fprintf(a.Out, "Switch to your EMR and click into the note field. Pasting in %d seconds...\n", int(a.Delay/time.Second))
	a.Sleep(a.Delay)

	if err := a.Keys.Paste(); err != nil {
		return &AutomationError{Step: "send paste keystroke", Err: err}
	}

	fmt.Fprintln(a.Out, "Note pasted into the active EMR field.")
	return nil
}

// ExitCode maps a Run result to a process exit status.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	return 1
}
