package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

var sampleCount int

var sampleCmd = &cobra.Command{
	Use:   "sample <family> [dataset]",
	Short: "Print sample items from a benchmark dataset",
	Args:  cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		bench, path, err := resolveBenchmark(args)
		if err != nil {
			return err
		}
		if err := bench.Load(path); err != nil {
			return err
		}

		n := sampleCount
		if n <= 0 {
			n = cfg.Harness.SampleSize
		}

		samples := bench.Sample(n)
		out, err := json.MarshalIndent(samples, "", "  ")
		if err != nil {
			return fmt.Errorf("marshaling samples: %w", err)
		}
		fmt.Println(string(out))

		return nil
	},
}

var statsCmd = &cobra.Command{
	Use:   "stats <family> [dataset]",
	Short: "Print statistics about a benchmark dataset",
	Args:  cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		bench, path, err := resolveBenchmark(args)
		if err != nil {
			return err
		}
		if err := bench.Load(path); err != nil {
			return err
		}

		out, err := json.MarshalIndent(bench.Stats(), "", "  ")
		if err != nil {
			return fmt.Errorf("marshaling stats: %w", err)
		}
		fmt.Println(string(out))

		return nil
	},
}

func init() {
	sampleCmd.Flags().IntVarP(&sampleCount, "count", "n", 0, "number of items to show (default from config)")
}
