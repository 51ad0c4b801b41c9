// Package benchmark implements the evaluation harness: a uniform contract
// for loading datasets, driving a subject under test, and scoring its
// output into a comparable result model.
//
// Three task families are implemented: math word problems scored by exact
// numeric match, product question answering scored by text overlap with
// precision/recall/F1, and multi-step ML tasks scored against weighted
// rubrics with completion-rate bucketing.
package benchmark

import (
	"errors"
	"log/slog"
	"sort"
)

// Dataset errors. Load and Run wrap these with path context; match with
// errors.Is.
var (
	// ErrDatasetNotFound indicates the dataset path did not resolve to
	// readable data.
	ErrDatasetNotFound = errors.New("dataset not found")

	// ErrDatasetMalformed indicates the dataset file could not be parsed
	// into the expected structure.
	ErrDatasetMalformed = errors.New("dataset malformed")

	// ErrNotLoaded indicates Evaluate was called before a successful Load,
	// or the loaded dataset contained no items.
	ErrNotLoaded = errors.New("no dataset loaded")
)

// Generator is the capability contract for subjects in the math word and
// product QA families: given a prompt, produce text.
type Generator interface {
	// Name identifies the subject in results.
	Name() string
	// Generate produces a response for the prompt. Params are passed
	// through opaquely from Options.Params.
	Generate(prompt string, params map[string]any) (string, error)
}

// TaskExecutor is the capability contract for subjects in the ML task
// family: given a task specification and the named datasets, produce a
// structured result. A nil result with a nil error scores zero.
type TaskExecutor interface {
	// Name identifies the subject in results.
	Name() string
	// ExecuteTask runs one task against the named datasets. Params are
	// passed through opaquely from Options.Params.
	ExecuteTask(task MLTask, datasets map[string]any, params map[string]any) (map[string]any, error)
}

// Options bounds and parameterizes an evaluation run.
type Options struct {
	// MaxItems caps the number of items evaluated. Zero or negative
	// means all loaded items.
	MaxItems int
	// Params is forwarded to every subject invocation.
	Params map[string]any
}

// limit returns how many of n items the options allow.
func (o Options) limit(n int) int {
	if o.MaxItems > 0 && o.MaxItems < n {
		return o.MaxItems
	}
	return n
}

// Benchmark is the family-independent capability set shared by every task
// family. Evaluate and Run stay on the concrete types because each family
// binds to a different subject contract.
type Benchmark interface {
	// Name returns the benchmark's canonical name.
	Name() string
	// Description returns a one-line description of what is measured.
	Description() string
	// Load parses the dataset at path, fully replacing any previously
	// loaded state. It fails with ErrDatasetNotFound or ErrDatasetMalformed.
	Load(path string) error
	// Len returns the number of loaded items, 0 before Load.
	Len() int
	// Sample returns up to n loaded items in a presentable form.
	Sample(n int) []map[string]any
	// Stats returns summary statistics about the loaded dataset.
	Stats() map[string]any
}

// All returns one instance of every registered benchmark family, sorted by
// name. A nil logger falls back to slog.Default().
func All(logger *slog.Logger) []Benchmark {
	benches := []Benchmark{
		NewMathWord(logger),
		NewProductQA(logger),
		NewMLTask(logger),
	}
	sort.Slice(benches, func(i, j int) bool { return benches[i].Name() < benches[j].Name() })
	return benches
}

// ByName returns the registered benchmark with the given name, or nil.
func ByName(name string, logger *slog.Logger) Benchmark {
	for _, b := range All(logger) {
		if b.Name() == name {
			return b
		}
	}
	return nil
}

func pick(logger *slog.Logger) *slog.Logger {
	if logger == nil {
		return slog.Default()
	}
	return logger
}
