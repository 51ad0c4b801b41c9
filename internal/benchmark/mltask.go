package benchmark

import (
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/mj-01/benchkit/internal/result"
	"github.com/mj-01/benchkit/internal/stats"
)

// defaultMaxScore is assumed for tasks that do not declare a max_score.
const defaultMaxScore = 100

// MLTask is one multi-step task specification from the ML task family.
type MLTask struct {
	Name           string         `json:"name"            yaml:"name"`
	Type           string         `json:"type"            yaml:"type"`
	Description    string         `json:"description"     yaml:"description"`
	MaxScore       float64        `json:"max_score"       yaml:"max_score"`
	Requirements   []string       `json:"requirements"    yaml:"requirements"`
	ExpectedOutput map[string]any `json:"expected_output" yaml:"expected_output"`
}

// mlDataset is the on-disk shape of an ML task dataset: the tasks, the
// named dataset descriptors handed through to the subject, and informative
// metric descriptions that play no role in scoring.
type mlDataset struct {
	Tasks             []MLTask          `json:"tasks"              yaml:"tasks"`
	Datasets          map[string]any    `json:"datasets"           yaml:"datasets"`
	EvaluationMetrics map[string]string `json:"evaluation_metrics" yaml:"evaluation_metrics"`
}

// MLTasks evaluates multi-step ML operational tasks. Each task is scored
// against a weighted rubric for its type, and items are bucketed into
// completed, partial, and failed by score relative to the task's own
// maximum. An item counts as correct when it lands in the completed bucket.
type MLTasks struct {
	logger      *slog.Logger
	tasks       []MLTask
	datasets    map[string]any
	metrics     map[string]string
	fingerprint string
}

// NewMLTask creates the ML task benchmark. A nil logger falls back to
// slog.Default().
func NewMLTask(logger *slog.Logger) *MLTasks {
	return &MLTasks{logger: pick(logger)}
}

// Name returns the benchmark's canonical name.
func (b *MLTasks) Name() string { return "mltask" }

// Description returns a one-line description of what is measured.
func (b *MLTasks) Description() string {
	return "Multi-step ML workflow tasks scored against weighted rubrics"
}

// Len returns the number of loaded tasks.
func (b *MLTasks) Len() int { return len(b.tasks) }

// Load parses a task dataset, fully replacing any previously loaded state.
// Tasks without a max_score default to 100; a negative max_score is
// rejected as malformed.
func (b *MLTasks) Load(path string) error {
	var ds mlDataset
	fingerprint, err := readDataset(path, &ds)
	if err != nil {
		return err
	}

	for i := range ds.Tasks {
		task := &ds.Tasks[i]
		if task.Name == "" {
			return fmt.Errorf("%w: task %d missing name", ErrDatasetMalformed, i)
		}
		if task.MaxScore < 0 {
			return fmt.Errorf("%w: task %d has negative max_score", ErrDatasetMalformed, i)
		}
		if task.MaxScore == 0 {
			task.MaxScore = defaultMaxScore
		}
		if task.Type == "" {
			task.Type = "unknown"
		}
	}

	b.tasks = ds.Tasks
	b.datasets = ds.Datasets
	b.metrics = ds.EvaluationMetrics
	b.fingerprint = fingerprint
	b.logger.Info("loaded ML tasks", "count", len(ds.Tasks), "datasets", len(ds.Datasets), "path", path)
	return nil
}

// Evaluate runs the subject over the loaded tasks, scoring each result
// against its type's rubric. A subject error on one task records a
// zero-score outcome (a failed bucket entry) and the loop continues.
func (b *MLTasks) Evaluate(subject TaskExecutor, opts Options) (*result.Result, error) {
	if len(b.tasks) == 0 {
		return nil, ErrNotLoaded
	}

	n := opts.limit(len(b.tasks))
	res := result.New(b.Name(), subject.Name())

	totalScore := 0.0
	maxPossible := 0.0
	buckets := &stats.Buckets{}
	byType := make(stats.GroupScores)
	start := time.Now()

	b.logger.Info("evaluating subject on ML tasks", "subject", subject.Name(), "tasks", n)

	for i := 0; i < n; i++ {
		task := b.tasks[i]
		b.logger.Debug("processing task", "task", i+1, "total", n, "name", task.Name)

		outcome := result.Outcome{
			ItemID:   i,
			MaxScore: task.MaxScore,
			Notes:    fmt.Sprintf("task: %s (%s)", task.Name, task.Type),
		}
		maxPossible += task.MaxScore

		taskResult, err := subject.ExecuteTask(task, b.datasets, opts.Params)
		if err != nil {
			b.logger.Warn("subject invocation failed", "task", i, "name", task.Name, "error", err)
			outcome.Error = err.Error()
			buckets.Record(0, task.MaxScore)
			byType.Add(task.Type, 0, task.MaxScore)
			res.DetailedResults = append(res.DetailedResults, outcome)
			continue
		}

		score := scoreRubric(task.Type, task.MaxScore, taskResult)
		outcome.TaskResult = taskResult
		outcome.Score = score
		outcome.Correct = stats.Classify(score, task.MaxScore) == stats.BucketCompleted
		if notes := evaluationNotes(taskResult); notes != "" {
			outcome.Notes = fmt.Sprintf("%s; %s", outcome.Notes, notes)
		}

		totalScore += score
		buckets.Record(score, task.MaxScore)
		byType.Add(task.Type, score, task.MaxScore)

		res.DetailedResults = append(res.DetailedResults, outcome)
	}

	completedRate, partialRate, failedRate := buckets.Rates()

	weighted := 0.0
	if maxPossible > 0 {
		weighted = totalScore / maxPossible
	}

	res.ExecutionTime = time.Since(start).Seconds()
	res.TotalItems = n
	res.CorrectCount = buckets.Completed
	res.Accuracy = float64(buckets.Completed) / float64(n)
	res.Metadata["max_items"] = opts.MaxItems
	res.Metadata["subject_params"] = opts.Params
	res.Metadata["dataset_blake3"] = b.fingerprint
	res.Metadata["total_score"] = totalScore
	res.Metadata["max_possible_score"] = maxPossible
	res.Metadata["weighted_accuracy"] = weighted
	res.Metadata["completed_tasks"] = buckets.Completed
	res.Metadata["partial_tasks"] = buckets.Partial
	res.Metadata["failed_tasks"] = buckets.Failed
	res.Metadata["task_completion_rate"] = completedRate
	res.Metadata["partial_completion_rate"] = partialRate
	res.Metadata["failure_rate"] = failedRate
	res.Metadata["task_type_accuracies"] = byType.Accuracies()
	res.Metadata["task_type_counts"] = byType.Counts()

	b.logger.Info("evaluation complete",
		"score", totalScore, "max", maxPossible,
		"weighted_accuracy", weighted,
		"completed", buckets.Completed, "partial", buckets.Partial, "failed", buckets.Failed,
		"duration", time.Since(start).Round(time.Millisecond))

	return res, nil
}

// Run loads the dataset at path and evaluates the subject against it.
func (b *MLTasks) Run(subject TaskExecutor, path string, opts Options) (*result.Result, error) {
	if err := b.Load(path); err != nil {
		return nil, err
	}
	return b.Evaluate(subject, opts)
}

// Sample returns up to n tasks in a presentable form.
func (b *MLTasks) Sample(n int) []map[string]any {
	if n > len(b.tasks) {
		n = len(b.tasks)
	}
	samples := make([]map[string]any, 0, n)
	for i := 0; i < n; i++ {
		task := b.tasks[i]
		samples = append(samples, map[string]any{
			"item_id":     i,
			"name":        task.Name,
			"type":        task.Type,
			"description": task.Description,
			"max_score":   task.MaxScore,
		})
	}
	return samples
}

// Stats returns statistics about the loaded dataset.
func (b *MLTasks) Stats() map[string]any {
	if len(b.tasks) == 0 {
		return map[string]any{"error": "no data loaded"}
	}

	taskTypes := make(map[string]int)
	totalMax := 0.0
	for _, task := range b.tasks {
		taskTypes[task.Type]++
		totalMax += task.MaxScore
	}

	datasetNames := make([]string, 0, len(b.datasets))
	for name := range b.datasets {
		datasetNames = append(datasetNames, name)
	}
	sort.Strings(datasetNames)
	metricNames := make([]string, 0, len(b.metrics))
	for name := range b.metrics {
		metricNames = append(metricNames, name)
	}
	sort.Strings(metricNames)

	return map[string]any{
		"total_tasks":        len(b.tasks),
		"task_types":         taskTypes,
		"total_max_score":    totalMax,
		"available_datasets": datasetNames,
		"evaluation_metrics": metricNames,
	}
}
