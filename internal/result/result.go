// Package result provides the benchmark result model, persistence, and
// output formatting.
package result

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Outcome records what was asked, produced, extracted, and scored for a
// single dataset item. Exactly one of ExtractedAnswer or TaskResult is
// populated, depending on the benchmark family.
type Outcome struct {
	ItemID          int            `json:"item_id"`
	RawOutput       string         `json:"raw_output,omitempty"`
	ExtractedAnswer string         `json:"extracted_answer,omitempty"`
	TaskResult      map[string]any `json:"task_result,omitempty"`
	Score           float64        `json:"score"`
	MaxScore        float64        `json:"max_score"`
	Correct         bool           `json:"correct"`
	Notes           string         `json:"notes,omitempty"`
	Error           string         `json:"error,omitempty"`
}

// Result is the record produced by one evaluation run. It is constructed
// once by Evaluate, owned by the caller, and never mutated afterwards.
type Result struct {
	BenchmarkName   string         `json:"benchmark_name"`
	SubjectName     string         `json:"subject_name"`
	RunID           string         `json:"run_id"`
	TotalItems      int            `json:"total_items"`
	CorrectCount    int            `json:"correct_count"`
	Accuracy        float64        `json:"accuracy"`
	ExecutionTime   float64        `json:"execution_time"`
	Timestamp       string         `json:"timestamp"`
	DetailedResults []Outcome      `json:"detailed_results"`
	Metadata        map[string]any `json:"metadata"`
}

// New creates a result for the given benchmark and subject with a fresh
// run ID and timestamp. TotalItems, CorrectCount, and Accuracy are filled
// in by the evaluation loop once it has finished.
func New(benchmarkName, subjectName string) *Result {
	return &Result{
		BenchmarkName:   benchmarkName,
		SubjectName:     subjectName,
		RunID:           uuid.NewString(),
		Timestamp:       time.Now().Format(time.RFC3339),
		DetailedResults: make([]Outcome, 0),
		Metadata:        make(map[string]any),
	}
}

// Save writes the result as indented JSON, creating parent directories as
// needed. Every field, including detailed results and metadata, is written.
func Save(r *Result, path string) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("creating result directory: %w", err)
		}
	}

	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling result: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing result: %w", err)
	}
	return nil
}

// Load reads a result previously written by Save.
func Load(path string) (*Result, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading result: %w", err)
	}

	var r Result
	if err := json.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("parsing result %s: %w", path, err)
	}
	return &r, nil
}

// Equal reports whether two results are field-for-field equivalent. The
// comparison goes through the JSON encoding so that metadata values compare
// by persisted representation rather than by in-memory type.
func Equal(a, b *Result) bool {
	aj, err := json.Marshal(a)
	if err != nil {
		return false
	}
	bj, err := json.Marshal(b)
	if err != nil {
		return false
	}
	return string(aj) == string(bj)
}

// Validate checks the internal invariants of a result: the item count
// matches the detailed results, accuracy matches correct/total, and every
// outcome's score lies within [0, max_score].
func (r *Result) Validate() error {
	if r.TotalItems != len(r.DetailedResults) {
		return fmt.Errorf("total_items %d != %d detailed results", r.TotalItems, len(r.DetailedResults))
	}
	if r.TotalItems > 0 {
		want := float64(r.CorrectCount) / float64(r.TotalItems)
		if math.Abs(r.Accuracy-want) > 1e-9 {
			return fmt.Errorf("accuracy %g != correct_count/total_items %g", r.Accuracy, want)
		}
	}
	if r.ExecutionTime < 0 {
		return fmt.Errorf("negative execution_time %g", r.ExecutionTime)
	}
	for _, o := range r.DetailedResults {
		if o.Score < 0 || o.Score > o.MaxScore {
			return fmt.Errorf("item %d: score %g outside [0, %g]", o.ItemID, o.Score, o.MaxScore)
		}
	}
	return nil
}

// GenerateMarkdown renders a human-readable markdown report of the result.
func (r *Result) GenerateMarkdown() string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "# Benchmark Report: %s\n\n", r.BenchmarkName)
	fmt.Fprintf(&sb, "**Subject:** %s\n\n", r.SubjectName)
	fmt.Fprintf(&sb, "**Run:** %s\n\n", r.RunID)
	fmt.Fprintf(&sb, "**Timestamp:** %s\n\n", r.Timestamp)
	fmt.Fprintf(&sb, "**Accuracy:** %.2f%% (%d/%d)\n\n", r.Accuracy*100, r.CorrectCount, r.TotalItems)
	fmt.Fprintf(&sb, "**Execution Time:** %.2fs\n\n", r.ExecutionTime)

	if len(r.Metadata) > 0 {
		sb.WriteString("---\n\n")
		sb.WriteString("## Metadata\n\n")
		keys := make([]string, 0, len(r.Metadata))
		for k := range r.Metadata {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			fmt.Fprintf(&sb, "- **%s:** %v\n", k, r.Metadata[k])
		}
		sb.WriteString("\n")
	}

	sb.WriteString("---\n\n")
	sb.WriteString("## Items\n\n")
	for _, o := range r.DetailedResults {
		status := "❌ INCORRECT"
		if o.Correct {
			status = "✅ CORRECT"
		}
		fmt.Fprintf(&sb, "### Item %d - %s\n\n", o.ItemID, status)
		fmt.Fprintf(&sb, "- **Score:** %.1f/%.1f\n", o.Score, o.MaxScore)
		if o.ExtractedAnswer != "" {
			fmt.Fprintf(&sb, "- **Extracted:** %s\n", o.ExtractedAnswer)
		}
		if o.Notes != "" {
			fmt.Fprintf(&sb, "- **Notes:** %s\n", o.Notes)
		}
		if o.Error != "" {
			fmt.Fprintf(&sb, "- **Error:** %s\n", o.Error)
		}
		sb.WriteString("\n")
	}

	return sb.String()
}

// FormatSummary returns a formatted terminal summary of the result.
func FormatSummary(r *Result) string {
	var sb strings.Builder

	sb.WriteString("\n")
	sb.WriteString("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━\n")
	fmt.Fprintf(&sb, " BENCHMARK RESULT                    %s\n", r.BenchmarkName)
	sb.WriteString("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━\n")
	sb.WriteString("\n")
	fmt.Fprintf(&sb, " Subject:   %s\n", r.SubjectName)
	fmt.Fprintf(&sb, " Items:     %d\n", r.TotalItems)
	fmt.Fprintf(&sb, " Correct:   %d\n", r.CorrectCount)
	fmt.Fprintf(&sb, " Accuracy:  %.1f%%\n", r.Accuracy*100)
	fmt.Fprintf(&sb, " Duration:  %.2fs\n", r.ExecutionTime)
	fmt.Fprintf(&sb, " Run:       %s\n", r.RunID)

	errored := 0
	for _, o := range r.DetailedResults {
		if o.Error != "" {
			errored++
		}
	}
	if errored > 0 {
		fmt.Fprintf(&sb, " Errors:    %d item(s) failed during subject invocation\n", errored)
	}
	sb.WriteString("\n")

	return sb.String()
}
