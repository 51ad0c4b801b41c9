package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mj-01/benchkit/internal/result"
)

var showMarkdown bool

var showCmd = &cobra.Command{
	Use:   "show <result.json>",
	Short: "Render a saved evaluation result",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		r, err := result.Load(args[0])
		if err != nil {
			return err
		}

		if err := r.Validate(); err != nil {
			logger.Warn("result fails invariant checks", "error", err)
		}

		if showMarkdown {
			fmt.Print(r.GenerateMarkdown())
			return nil
		}

		fmt.Print(result.FormatSummary(r))
		return nil
	},
}

func init() {
	showCmd.Flags().BoolVar(&showMarkdown, "markdown", false, "render the full markdown report")
}
