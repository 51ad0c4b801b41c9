package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/mj-01/benchkit/internal/benchmark"
)

var validateWatch bool

var validateCmd = &cobra.Command{
	Use:   "validate <family> [dataset]",
	Short: "Structurally validate a benchmark dataset",
	Long: `Loads a dataset through its family's structural parser and reports
whether it is usable for evaluation. With --watch, re-validates whenever
the dataset file changes.

Examples:
  benchkit validate mathword data/gsm8k.json
  benchkit validate mltask tasks.yaml --watch`,
	Args: cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		bench, path, err := resolveBenchmark(args)
		if err != nil {
			return err
		}

		if err := validateOnce(bench, path); err != nil {
			if !validateWatch {
				return err
			}
			fmt.Printf(" ✗ %v\n", err)
		}

		if !validateWatch {
			return nil
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		fmt.Println(" Watching for changes... (Ctrl+C to stop)")
		w := newWatcher(filepath.Dir(path), 300*time.Millisecond, func() {
			if err := validateOnce(bench, path); err != nil {
				fmt.Printf(" ✗ %v\n", err)
			}
		}, logger)

		if err := w.watch(ctx); err != nil && err != context.Canceled {
			return err
		}
		return nil
	},
}

func validateOnce(bench benchmark.Benchmark, path string) error {
	if err := bench.Load(path); err != nil {
		return fmt.Errorf("validating %s: %w", path, err)
	}
	fmt.Printf(" ✓ %s: %d item(s), structurally valid\n", path, bench.Len())
	return nil
}

// resolveBenchmark resolves the family and dataset path from command
// arguments, falling back to the configured default dataset when the path
// argument is omitted.
func resolveBenchmark(args []string) (benchmark.Benchmark, string, error) {
	bench := benchmark.ByName(args[0], logger)
	if bench == nil {
		return nil, "", fmt.Errorf("unknown benchmark family: %s (run 'benchkit list')", args[0])
	}

	var path string
	if len(args) > 1 {
		path = args[1]
	} else {
		path = cfg.DatasetPath(bench.Name())
	}
	if path == "" {
		return nil, "", fmt.Errorf("no dataset path given and none configured for %s", bench.Name())
	}

	return bench, path, nil
}

func init() {
	validateCmd.Flags().BoolVar(&validateWatch, "watch", false, "re-validate when the dataset changes")
}
