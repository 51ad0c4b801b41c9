package benchmark

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/mj-01/benchkit/internal/result"
)

// MathItem is one math word problem with its canonical answer. The answer
// is usually numeric but may be an arbitrary string; comparison falls back
// to string equality when it does not parse as a number.
type MathItem struct {
	Question string `json:"question" yaml:"question"`
	Answer   string `json:"answer"   yaml:"answer"`
}

// MathWord evaluates free-form math word problems by extracting a numeric
// answer from the subject's response and comparing it exactly against the
// ground truth. Scoring is binary; there is no partial credit.
type MathWord struct {
	logger      *slog.Logger
	items       []MathItem
	fingerprint string
}

// NewMathWord creates the math word problem benchmark. A nil logger falls
// back to slog.Default().
func NewMathWord(logger *slog.Logger) *MathWord {
	return &MathWord{logger: pick(logger)}
}

// Name returns the benchmark's canonical name.
func (b *MathWord) Name() string { return "mathword" }

// Description returns a one-line description of what is measured.
func (b *MathWord) Description() string {
	return "Grade-school math word problems scored by exact numeric match"
}

// Len returns the number of loaded items.
func (b *MathWord) Len() int { return len(b.items) }

// Load parses a dataset of {question, answer} records, fully replacing any
// previously loaded state.
func (b *MathWord) Load(path string) error {
	var items []MathItem
	fingerprint, err := readDataset(path, &items)
	if err != nil {
		return err
	}

	for i, item := range items {
		if item.Question == "" || item.Answer == "" {
			return fmt.Errorf("%w: item %d missing question or answer", ErrDatasetMalformed, i)
		}
	}

	b.items = items
	b.fingerprint = fingerprint
	b.logger.Info("loaded math word problems", "count", len(items), "path", path)
	return nil
}

// Evaluate runs the subject over the loaded items and scores each response
// by exact numeric match. A subject error on one item records a zero-score
// outcome and the loop continues.
func (b *MathWord) Evaluate(subject Generator, opts Options) (*result.Result, error) {
	if len(b.items) == 0 {
		return nil, ErrNotLoaded
	}

	n := opts.limit(len(b.items))
	res := result.New(b.Name(), subject.Name())

	correct := 0
	start := time.Now()

	b.logger.Info("evaluating subject on math word problems", "subject", subject.Name(), "items", n)

	for i := 0; i < n; i++ {
		item := b.items[i]
		b.logger.Debug("processing item", "item", i+1, "total", n)

		outcome := result.Outcome{
			ItemID:   i,
			MaxScore: 1,
		}

		response, err := subject.Generate(item.Question, opts.Params)
		if err != nil {
			b.logger.Warn("subject invocation failed", "item", i, "error", err)
			outcome.Error = err.Error()
			outcome.Notes = fmt.Sprintf("expected answer: %s", item.Answer)
			res.DetailedResults = append(res.DetailedResults, outcome)
			continue
		}

		predicted := extractNumericAnswer(response)
		outcome.RawOutput = response
		outcome.ExtractedAnswer = predicted
		outcome.Notes = fmt.Sprintf("expected answer: %s", item.Answer)

		if checkNumericAnswer(predicted, item.Answer) {
			outcome.Correct = true
			outcome.Score = 1
			correct++
		}

		res.DetailedResults = append(res.DetailedResults, outcome)
	}

	res.ExecutionTime = time.Since(start).Seconds()
	res.TotalItems = n
	res.CorrectCount = correct
	res.Accuracy = float64(correct) / float64(n)
	res.Metadata["max_items"] = opts.MaxItems
	res.Metadata["subject_params"] = opts.Params
	res.Metadata["dataset_blake3"] = b.fingerprint

	b.logger.Info("evaluation complete",
		"accuracy", res.Accuracy, "correct", correct, "total", n,
		"duration", time.Since(start).Round(time.Millisecond))

	return res, nil
}

// Run loads the dataset at path and evaluates the subject against it.
func (b *MathWord) Run(subject Generator, path string, opts Options) (*result.Result, error) {
	if err := b.Load(path); err != nil {
		return nil, err
	}
	return b.Evaluate(subject, opts)
}

// Sample returns up to n items with their answers.
func (b *MathWord) Sample(n int) []map[string]any {
	if n > len(b.items) {
		n = len(b.items)
	}
	samples := make([]map[string]any, 0, n)
	for i := 0; i < n; i++ {
		samples = append(samples, map[string]any{
			"item_id":  i,
			"question": b.items[i].Question,
			"answer":   b.items[i].Answer,
		})
	}
	return samples
}

// Stats returns statistics about the loaded dataset.
func (b *MathWord) Stats() map[string]any {
	if len(b.items) == 0 {
		return map[string]any{"error": "no data loaded"}
	}

	totalWords, minWords, maxWords := 0, -1, 0
	for _, item := range b.items {
		words := wordCount(item.Question)
		totalWords += words
		if minWords < 0 || words < minWords {
			minWords = words
		}
		if words > maxWords {
			maxWords = words
		}
	}

	return map[string]any{
		"total_items":         len(b.items),
		"avg_question_length": float64(totalWords) / float64(len(b.items)),
		"min_question_length": minWords,
		"max_question_length": maxWords,
	}
}
