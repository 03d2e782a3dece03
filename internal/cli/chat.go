package cli

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"os/signal"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/rcliao/mhr-assist/internal/keyword"
	"github.com/rcliao/mhr-assist/internal/session"
	"github.com/rcliao/mhr-assist/internal/store"
	"github.com/rcliao/mhr-assist/internal/transcript"
)

// NoSummary is shown when a note is sent before the assistant has replied.
const NoSummary = "No summary available yet. Ask Heidi to generate a note."

var suggestions = []string{
	"Check past medical history",
	"List current medications",
	"Check allergies",
}

func init() {
	cmd := &cobra.Command{
		Use:   "chat",
		Short: "Start an interactive conversation",
		Long: `Start an interactive conversation. The conversation lives in memory and is
discarded on exit.

Commands:
  /keywords  show keywords found in your messages and the transcript
  /summary   show the latest assistant reply (the note)
  /send      paste the note into the focused EMR field (also "send note")
  /export    print the conversation as JSON
  /stats     show message counts
  /quit      leave`,
		Run: runChat,
	}

	cmd.Flags().StringP("transcript", "t", "", "Transcript file to follow for keywords")
	cmd.Flags().String("paste-cmd", "paste-note", "Program used by /send")

	RootCmd.AddCommand(cmd)
}

func runChat(cmd *cobra.Command, args []string) {
	transcriptPath, _ := cmd.Flags().GetString("transcript")
	pasteCmd, _ := cmd.Flags().GetString("paste-cmd")

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	r, err := newRouter(ctx)
	if err != nil {
		exitErr("create router", err)
	}
	log, err := store.NewSQLiteStore(store.MemoryDSN)
	if err != nil {
		exitErr("open conversation", err)
	}
	defer log.Close()

	c := &chat{
		sess:     session.New(log, r, keyword.Default(), logger),
		log:      log,
		in:       cmd.InOrStdin(),
		out:      cmd.OutOrStdout(),
		pasteCmd: pasteCmd,
	}

	g, gctx := errgroup.WithContext(ctx)
	replCtx, cancelRepl := context.WithCancel(gctx)
	defer cancelRepl()

	if transcriptPath != "" {
		w, err := transcript.NewWatcher(transcriptPath, logger)
		if err != nil {
			exitErr("watch transcript", err)
		}
		defer w.Stop()
		updates, err := w.Watch(replCtx)
		if err != nil {
			exitErr("watch transcript", err)
		}
		g.Go(func() error {
			for content := range updates {
				c.sess.SetTranscript(content)
			}
			return nil
		})
	}

	g.Go(func() error {
		defer cancelRepl()
		return c.run(replCtx)
	})

	if err := g.Wait(); err != nil {
		exitErr("chat", err)
	}
}

type chat struct {
	sess     *session.Session
	log      *store.SQLiteStore
	in       io.Reader
	out      io.Writer
	pasteCmd string
}

func (c *chat) run(ctx context.Context) error {
	fmt.Fprintln(c.out, renderHint(
		"Ask Heidi to check My Health Record. Try:",
		"  "+strings.Join(suggestions, " · "),
		"Type /quit to leave.",
	))

	lines := make(chan string)
	readErr := make(chan error, 1)
	go func() {
		sc := bufio.NewScanner(c.in)
		for sc.Scan() {
			select {
			case lines <- sc.Text():
			case <-ctx.Done():
				return
			}
		}
		readErr <- sc.Err()
		close(lines)
	}()

	for {
		fmt.Fprint(c.out, "> ")
		select {
		case <-ctx.Done():
			fmt.Fprintln(c.out)
			return nil
		case line, ok := <-lines:
			if !ok {
				return <-readErr
			}
			if quit := c.handle(ctx, line); quit {
				return nil
			}
		}
	}
}

// handle processes one input line and reports whether the chat should end.
func (c *chat) handle(ctx context.Context, line string) bool {
	text := strings.TrimSpace(line)
	if text == "" {
		return false
	}

	switch strings.ToLower(text) {
	case "/quit", "/exit":
		return true
	case "/keywords":
		tags, err := c.sess.Keywords(ctx)
		if err != nil {
			fmt.Fprintln(c.out, renderError(err.Error()))
			return false
		}
		fmt.Fprintln(c.out, renderChips(tags))
		return false
	case "/summary":
		summary, err := c.sess.Summary(ctx)
		if err != nil || summary == "" {
			fmt.Fprintln(c.out, renderHint(NoSummary))
			return false
		}
		fmt.Fprintln(c.out, summary)
		return false
	case "/export":
		tr, err := c.log.Export(ctx)
		if err != nil {
			fmt.Fprintln(c.out, renderError(err.Error()))
			return false
		}
		b, _ := json.MarshalIndent(tr, "", "  ")
		fmt.Fprintln(c.out, string(b))
		return false
	case "/stats":
		st, err := c.log.Stats(ctx)
		if err != nil {
			fmt.Fprintln(c.out, renderError(err.Error()))
			return false
		}
		b, _ := json.MarshalIndent(st, "", "  ")
		fmt.Fprintln(c.out, string(b))
		return false
	case "/send":
		c.send(ctx)
		return false
	}

	if isSendTrigger(text) {
		c.send(ctx)
		return false
	}

	fmt.Fprintln(c.out, renderHint("Querying My Health Record..."))
	reply, err := c.sess.Submit(ctx, text)
	if err != nil {
		if errors.Is(err, session.ErrBusy) {
			fmt.Fprintln(c.out, renderHint("Still working on the last request."))
			return false
		}
		fmt.Fprintln(c.out, renderError(err.Error()))
		return false
	}
	fmt.Fprintln(c.out, renderMessage(*reply))
	return false
}

// isSendTrigger reports whether the whole line is a send-to-EMR command.
func isSendTrigger(text string) bool {
	lower := strings.ToLower(strings.Trim(strings.TrimSpace(text), ".!"))
	return lower == "send to emr" || lower == "send note"
}

// send launches the paste program with the current note as its arguments.
func (c *chat) send(ctx context.Context) {
	summary, err := c.sess.Summary(ctx)
	if err != nil || strings.TrimSpace(summary) == "" {
		fmt.Fprintln(c.out, renderError(NoSummary))
		return
	}

	bin, err := findPasteCmd(c.pasteCmd)
	if err != nil {
		fmt.Fprintln(c.out, renderError("Unable to find "+c.pasteCmd+". Please copy the note manually."))
		logger.Warn("paste command not found", zap.String("cmd", c.pasteCmd), zap.Error(err))
		return
	}

	p := exec.CommandContext(ctx, bin, summary)
	p.Stdout = c.out
	p.Stderr = c.out
	if err := p.Run(); err != nil {
		fmt.Fprintln(c.out, renderError("Unable to paste the note. Please copy it manually."))
		logger.Error("paste command failed", zap.String("cmd", bin), zap.Error(err))
	}
}

// findPasteCmd resolves name on PATH, then next to the running executable.
func findPasteCmd(name string) (string, error) {
	if p, err := exec.LookPath(name); err == nil {
		return p, nil
	}
	self, err := os.Executable()
	if err != nil {
		return "", err
	}
	return exec.LookPath(filepath.Join(filepath.Dir(self), name))
}
