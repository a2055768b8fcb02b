package cmd

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/huangsam/insight/internal/contract"
	"github.com/huangsam/insight/internal/outwriter"
)

// askCmd answers a natural-language question.
var askCmd = &cobra.Command{
	Use:   "ask <question>",
	Short: "Answer a business question written in Chinese or English.",
	Long: `Classify a free-text question, extract departments, metrics and time ranges,
run the matching analysis and summarize the answer.

Questions that cannot be answered yield a request for more detail and
suggested follow-up questions instead of an error.

Examples:
  insight ask "销售部过去6个月的离职率趋势"
  insight ask "compare salary across departments"
  insight ask "predict headcount for the next 2 quarters" --output json`,
	Args:    cobra.MinimumNArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, args []string) {
		result := services.ProcessQuery(rootCtx, strings.Join(args, " "))
		if err := outwriter.NewOutWriter().WriteQuery(result, cfg); err != nil {
			contract.LogFatal("Error writing answer", err)
		}
	},
}
