package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mj-01/benchkit/internal/benchmark"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List available benchmark families",
	RunE: func(cmd *cobra.Command, args []string) error {
		benches := benchmark.All(logger)

		fmt.Println()
		fmt.Printf("%-12s %s\n", "NAME", "DESCRIPTION")
		fmt.Println("─────────────────────────────────────────────────────────────")
		for _, b := range benches {
			name := b.Name()
			if path := cfg.DatasetPath(name); path != "" {
				name = fmt.Sprintf("%s*", name)
			}
			fmt.Printf("%-12s %s\n", name, b.Description())
		}
		fmt.Println()
		fmt.Println("* has a configured default dataset")
		fmt.Println()

		return nil
	},
}
