package cli

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/rcliao/mhr-assist/internal/keyword"
)

func init() {
	cmd := &cobra.Command{
		Use:   "ask [question]",
		Short: "Ask a single question",
		Long:  "Ask one question with no prior conversation and print the assistant's reply.",
		Args:  cobra.MinimumNArgs(1),
		Run:   runAsk,
	}

	RootCmd.AddCommand(cmd)
}

type askResult struct {
	Question string   `json:"question"`
	Category string   `json:"category,omitempty"`
	Reply    string   `json:"reply"`
	Keywords []string `json:"keywords"`
}

func runAsk(cmd *cobra.Command, args []string) {
	question := strings.Join(args, " ")
	if strings.TrimSpace(question) == "" {
		exitErr("ask", fmt.Errorf("question is required"))
	}

	r, err := newRouter(cmd.Context())
	if err != nil {
		exitErr("create router", err)
	}

	reply := r.Respond(cmd.Context(), nil, question)

	if formatFlag != "json" {
		fmt.Fprintln(cmd.OutOrStdout(), reply)
		return
	}

	m := keyword.Default()
	res := askResult{Question: question, Reply: reply, Keywords: m.Match(question)}
	if c, ok := m.DetectCategory(question); ok {
		res.Category = string(c)
	}
	if res.Keywords == nil {
		res.Keywords = []string{}
	}
	b, _ := json.MarshalIndent(res, "", "  ")
	fmt.Fprintln(cmd.OutOrStdout(), string(b))
}
