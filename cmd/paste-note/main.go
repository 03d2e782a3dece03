// Command paste-note copies a note to the clipboard and pastes it into the
// focused application after a short delay.
package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/rcliao/mhr-assist/internal/paste"
)

func main() {
	keys := paste.SystemKeyboard{HoldDelay: 10 * time.Millisecond}
	os.Exit(run(os.Args[1:], paste.SystemClipboard{}, keys, os.Stdout, os.Stderr))
}

func run(args []string, clip paste.ClipboardWriter, keys paste.KeystrokeInjector, stdout, stderr io.Writer) int {
	cmd := &cobra.Command{
		Use:   "paste-note [note text]",
		Short: "Paste a note into the focused EMR field",
		// Note text is taken verbatim, even when it starts with "-".
		DisableFlagParsing: true,
		SilenceErrors:      true,
		SilenceUsage:       true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return paste.New(clip, keys, stdout).Run(args)
		},
	}
	if args == nil {
		// cobra reads os.Args for nil args.
		args = []string{}
	}
	cmd.SetArgs(args)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	err := cmd.Execute()
	var usage *paste.UsageError
	switch {
	case err == nil:
	case errors.As(err, &usage):
		fmt.Fprintln(stderr, paste.Usage)
	default:
		fmt.Fprintf(stderr, "error: %v\n", err)
	}
	return paste.ExitCode(err)
}
