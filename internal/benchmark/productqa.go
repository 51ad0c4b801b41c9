package benchmark

import (
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/mj-01/benchkit/internal/result"
	"github.com/mj-01/benchkit/internal/stats"
)

// ProductQAItem is one product question with its grounding context and
// expected answer.
type ProductQAItem struct {
	ProductID      string            `json:"product_id"     yaml:"product_id"`
	Title          string            `json:"title"          yaml:"title"`
	Description    string            `json:"description"    yaml:"description"`
	Specifications map[string]string `json:"specifications" yaml:"specifications"`
	Reviews        []string          `json:"reviews"        yaml:"reviews"`
	Price          string            `json:"price"          yaml:"price"`
	Category       string            `json:"category"       yaml:"category"`
	Question       string            `json:"question"       yaml:"question"`
	Answer         string            `json:"answer"         yaml:"answer"`
}

// ProductQA evaluates context-grounded product question answering. The
// subject is prompted with assembled product context plus the question;
// correctness is bidirectional substring containment, and the run tracks
// precision, recall, and F1 across all items.
type ProductQA struct {
	logger      *slog.Logger
	items       []ProductQAItem
	fingerprint string
}

// NewProductQA creates the product QA benchmark. A nil logger falls back
// to slog.Default().
func NewProductQA(logger *slog.Logger) *ProductQA {
	return &ProductQA{logger: pick(logger)}
}

// Name returns the benchmark's canonical name.
func (b *ProductQA) Name() string { return "productqa" }

// Description returns a one-line description of what is measured.
func (b *ProductQA) Description() string {
	return "Product question answering over descriptions, specs, and reviews"
}

// Len returns the number of loaded items.
func (b *ProductQA) Len() int { return len(b.items) }

// Load parses a dataset of product question records, fully replacing any
// previously loaded state.
func (b *ProductQA) Load(path string) error {
	var items []ProductQAItem
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
	b.logger.Info("loaded product questions", "count", len(items), "path", path)
	return nil
}

// Evaluate runs the subject over the loaded items and scores each answer
// by bidirectional containment. A subject error on one item records a
// zero-score outcome (counted as a false negative) and the loop continues.
func (b *ProductQA) Evaluate(subject Generator, opts Options) (*result.Result, error) {
	if len(b.items) == 0 {
		return nil, ErrNotLoaded
	}

	n := opts.limit(len(b.items))
	res := result.New(b.Name(), subject.Name())

	correct := 0
	confusion := &stats.Confusion{}
	start := time.Now()

	b.logger.Info("evaluating subject on product questions", "subject", subject.Name(), "items", n)

	for i := 0; i < n; i++ {
		item := b.items[i]
		b.logger.Debug("processing item", "item", i+1, "total", n)

		context := AssembleContext(item)
		prompt := fmt.Sprintf("Product: %s\n\nQuestion: %s\n\nAnswer:", context, item.Question)

		outcome := result.Outcome{
			ItemID:   i,
			MaxScore: 1,
			Notes:    fmt.Sprintf("product: %s; expected answer: %s", item.ProductID, item.Answer),
		}

		response, err := subject.Generate(prompt, opts.Params)
		if err != nil {
			b.logger.Warn("subject invocation failed", "item", i, "error", err)
			outcome.Error = err.Error()
			confusion.Record(false, false)
			res.DetailedResults = append(res.DetailedResults, outcome)
			continue
		}

		predicted := extractAnswerLine(response)
		outcome.RawOutput = response
		outcome.ExtractedAnswer = predicted

		if checkContainment(predicted, item.Answer) {
			outcome.Correct = true
			outcome.Score = 1
			correct++
		}
		confusion.Record(outcome.Correct, strings.TrimSpace(predicted) != "")

		res.DetailedResults = append(res.DetailedResults, outcome)
	}

	res.ExecutionTime = time.Since(start).Seconds()
	res.TotalItems = n
	res.CorrectCount = correct
	res.Accuracy = float64(correct) / float64(n)
	res.Metadata["max_items"] = opts.MaxItems
	res.Metadata["subject_params"] = opts.Params
	res.Metadata["dataset_blake3"] = b.fingerprint
	res.Metadata["precision"] = confusion.Precision()
	res.Metadata["recall"] = confusion.Recall()
	res.Metadata["f1_score"] = confusion.F1()
	res.Metadata["true_positives"] = confusion.TruePositives
	res.Metadata["false_positives"] = confusion.FalsePositives
	res.Metadata["false_negatives"] = confusion.FalseNegatives

	b.logger.Info("evaluation complete",
		"accuracy", res.Accuracy,
		"precision", confusion.Precision(),
		"recall", confusion.Recall(),
		"f1", confusion.F1(),
		"duration", time.Since(start).Round(time.Millisecond))

	return res, nil
}

// Run loads the dataset at path and evaluates the subject against it.
func (b *ProductQA) Run(subject Generator, path string, opts Options) (*result.Result, error) {
	if err := b.Load(path); err != nil {
		return nil, err
	}
	return b.Evaluate(subject, opts)
}

// Sample returns up to n items with their assembled context and answers.
func (b *ProductQA) Sample(n int) []map[string]any {
	if n > len(b.items) {
		n = len(b.items)
	}
	samples := make([]map[string]any, 0, n)
	for i := 0; i < n; i++ {
		item := b.items[i]
		samples = append(samples, map[string]any{
			"item_id":    i,
			"product_id": item.ProductID,
			"title":      item.Title,
			"question":   item.Question,
			"answer":     item.Answer,
			"context":    AssembleContext(item),
		})
	}
	return samples
}

// Stats returns statistics about the loaded dataset.
func (b *ProductQA) Stats() map[string]any {
	if len(b.items) == 0 {
		return map[string]any{"error": "no data loaded"}
	}

	totalQuestionWords := 0
	totalContextWords := 0
	categories := make(map[string]int)
	for _, item := range b.items {
		totalQuestionWords += wordCount(item.Question)
		totalContextWords += wordCount(AssembleContext(item))
		cat := item.Category
		if cat == "" {
			cat = "Unknown"
		}
		categories[cat]++
	}

	return map[string]any{
		"total_items":         len(b.items),
		"avg_question_length": float64(totalQuestionWords) / float64(len(b.items)),
		"avg_context_length":  float64(totalContextWords) / float64(len(b.items)),
		"categories":          categories,
	}
}

// maxContextReviews bounds how many review strings are included in the
// assembled context.
const maxContextReviews = 3

// AssembleContext builds the grounding context for a product item in a
// fixed, deterministic order: title, description, specifications (sorted
// by key, joined by commas), price, category, and up to the first three
// reviews. Empty fields are omitted.
func AssembleContext(item ProductQAItem) string {
	var parts []string

	if item.Title != "" {
		parts = append(parts, "Title: "+item.Title)
	}
	if item.Description != "" {
		parts = append(parts, "Description: "+item.Description)
	}
	if len(item.Specifications) > 0 {
		keys := make([]string, 0, len(item.Specifications))
		for k := range item.Specifications {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		specs := make([]string, 0, len(keys))
		for _, k := range keys {
			specs = append(specs, fmt.Sprintf("%s: %s", k, item.Specifications[k]))
		}
		parts = append(parts, "Specifications: "+strings.Join(specs, ", "))
	}
	if item.Price != "" {
		parts = append(parts, "Price: "+item.Price)
	}
	if item.Category != "" {
		parts = append(parts, "Category: "+item.Category)
	}
	if len(item.Reviews) > 0 {
		reviews := item.Reviews
		if len(reviews) > maxContextReviews {
			reviews = reviews[:maxContextReviews]
		}
		parts = append(parts, "Reviews: "+strings.Join(reviews, " "))
	}

	return strings.Join(parts, "\n")
}

// promptMarkers are structural prompt lines that never count as an answer.
var promptMarkers = []string{"Question:", "Product:", "Answer:", "Context:"}

// extractAnswerLine returns the last non-empty line of the response that
// is not a restatement of a prompt marker, or the full trimmed response
// when no such line exists.
func extractAnswerLine(response string) string {
	lines := strings.Split(strings.TrimSpace(response), "\n")

	for i := len(lines) - 1; i >= 0; i-- {
		line := strings.TrimSpace(lines[i])
		if line == "" {
			continue
		}
		if hasMarkerPrefix(line) {
			continue
		}
		return line
	}

	return strings.TrimSpace(response)
}

func hasMarkerPrefix(line string) bool {
	for _, marker := range promptMarkers {
		if strings.HasPrefix(line, marker) {
			return true
		}
	}
	return false
}

// checkContainment reports whether the predicted answer matches the
// expected one: equal, or either contains the other, case-insensitive and
// trimmed. Very short expected answers can match over-broadly ("Yes" in
// "Yes, but..."); that is intentional.
func checkContainment(predicted, expected string) bool {
	pred := strings.ToLower(strings.TrimSpace(predicted))
	exp := strings.ToLower(strings.TrimSpace(expected))

	if pred == exp {
		return true
	}
	return strings.Contains(pred, exp) || strings.Contains(exp, pred)
}
