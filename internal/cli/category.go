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
		Use:   "category [text]",
		Short: "Show which record category a question routes to",
		Args:  cobra.MinimumNArgs(1),
		Run:   runCategory,
	}

	RootCmd.AddCommand(cmd)
}

func runCategory(cmd *cobra.Command, args []string) {
	c, ok := keyword.Default().DetectCategory(strings.Join(args, " "))
	name := "none"
	if ok {
		name = string(c)
	}

	if formatFlag == "json" {
		b, _ := json.Marshal(map[string]interface{}{"category": name, "matched": ok})
		fmt.Fprintln(cmd.OutOrStdout(), string(b))
		return
	}
	fmt.Fprintln(cmd.OutOrStdout(), name)
}
