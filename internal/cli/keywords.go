package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"

	"github.com/spf13/cobra"

	"github.com/rcliao/mhr-assist/internal/keyword"
	"github.com/rcliao/mhr-assist/internal/transcript"
)

func init() {
	cmd := &cobra.Command{
		Use:   "keywords [text]",
		Short: "Extract clinical keywords",
		Long:  "Print the clinical keywords found in text, or follow a transcript file with --watch.",
		Run:   runKeywords,
	}

	cmd.Flags().StringP("watch", "w", "", "Transcript file to follow; prints keywords after every change")

	RootCmd.AddCommand(cmd)
}

func runKeywords(cmd *cobra.Command, args []string) {
	watch, _ := cmd.Flags().GetString("watch")
	m := keyword.Default()

	if watch == "" {
		if len(args) == 0 {
			exitErr("keywords", fmt.Errorf("text or --watch is required"))
		}
		printKeywords(cmd.OutOrStdout(), m.Match(strings.Join(args, " ")))
		return
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	if err := watchKeywords(ctx, cmd.OutOrStdout(), m, watch); err != nil {
		exitErr("watch transcript", err)
	}
}

func watchKeywords(ctx context.Context, out io.Writer, m *keyword.Matcher, path string) error {
	w, err := transcript.NewWatcher(path, logger)
	if err != nil {
		return err
	}
	defer w.Stop()

	updates, err := w.Watch(ctx)
	if err != nil {
		return err
	}
	for content := range updates {
		printKeywords(out, m.Collect(nil, content, keyword.PanelLimit))
	}
	return nil
}

func printKeywords(out io.Writer, tags []string) {
	if tags == nil {
		tags = []string{}
	}
	if formatFlag == "json" {
		b, _ := json.Marshal(tags)
		fmt.Fprintln(out, string(b))
		return
	}
	fmt.Fprintln(out, renderChips(tags))
}
