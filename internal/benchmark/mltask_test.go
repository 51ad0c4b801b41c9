package benchmark

import (
	"errors"
	"fmt"
	"math"
	"testing"
)

// funcExecutor delegates task execution to a function of the task.
type funcExecutor struct {
	name string
	fn   func(task MLTask) (map[string]any, error)
}

func (e funcExecutor) Name() string { return e.name }

func (e funcExecutor) ExecuteTask(task MLTask, _ map[string]any, _ map[string]any) (map[string]any, error) {
	return e.fn(task)
}

const mlTaskDataset = `{
  "tasks": [
    {"name": "clean_sales", "type": "data_preprocessing", "max_score": 100},
    {"name": "train_forecaster", "type": "model_training", "max_score": 100},
    {"name": "ship_it", "type": "deployment", "max_score": 100}
  ],
  "datasets": {"sales": {"rows": 1000}},
  "evaluation_metrics": {"rmse": "root mean squared error"}
}`

func TestMLTaskLoad(t *testing.T) {
	t.Parallel()

	b := NewMLTask(nil)
	if err := b.Load(writeDataset(t, "tasks.json", mlTaskDataset)); err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if b.Len() != 3 {
		t.Errorf("Len() = %d, want 3", b.Len())
	}
}

func TestMLTaskLoadDefaults(t *testing.T) {
	t.Parallel()

	b := NewMLTask(nil)
	path := writeDataset(t, "tasks.json", `{"tasks":[{"name":"bare"}]}`)
	if err := b.Load(path); err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if b.tasks[0].MaxScore != 100 {
		t.Errorf("MaxScore = %g, want default 100", b.tasks[0].MaxScore)
	}
	if b.tasks[0].Type != "unknown" {
		t.Errorf("Type = %q, want unknown", b.tasks[0].Type)
	}
}

func TestMLTaskLoadMalformed(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		content string
	}{
		{"missing name", `{"tasks":[{"type":"deployment"}]}`},
		{"negative max_score", `{"tasks":[{"name":"t","max_score":-5}]}`},
		{"invalid json", `{tasks:`},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			b := NewMLTask(nil)
			err := b.Load(writeDataset(t, "bad.json", tt.content))
			if !errors.Is(err, ErrDatasetMalformed) {
				t.Errorf("Load() error = %v, want ErrDatasetMalformed", err)
			}
		})
	}
}

func TestMLTaskEvaluateNotLoaded(t *testing.T) {
	t.Parallel()

	b := NewMLTask(nil)
	subject := funcExecutor{name: "s", fn: func(MLTask) (map[string]any, error) { return nil, nil }}
	if _, err := b.Evaluate(subject, Options{}); !errors.Is(err, ErrNotLoaded) {
		t.Errorf("Evaluate() error = %v, want ErrNotLoaded", err)
	}
}

// One completed task, one partial, one failed: buckets, correct count, and
// the weighted score all follow from the rubric scores.
func TestMLTaskEvaluateBuckets(t *testing.T) {
	t.Parallel()

	subject := funcExecutor{name: "mixed", fn: func(task MLTask) (map[string]any, error) {
		switch task.Type {
		case "data_preprocessing": // all four checks: 100, completed
			return map[string]any{
				"data_cleaned":           true,
				"missing_values_handled": true,
				"outliers_handled":       true,
				"data_validated":         true,
			}, nil
		case "model_training": // two checks: 60, partial
			return map[string]any{
				"hyperparameter_tuning": true,
				"cross_validation_used": true,
			}, nil
		default: // nothing: 0, failed
			return map[string]any{}, nil
		}
	}}

	b := NewMLTask(nil)
	res, err := b.Run(subject, writeDataset(t, "tasks.json", mlTaskDataset), Options{})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if res.CorrectCount != 1 {
		t.Errorf("CorrectCount = %d, want 1 (only completed tasks count)", res.CorrectCount)
	}
	oneThird := 1.0 / 3.0
	if math.Abs(res.Accuracy-oneThird) > 1e-9 {
		t.Errorf("Accuracy = %g, want %g", res.Accuracy, oneThird)
	}

	if res.Metadata["completed_tasks"] != 1 || res.Metadata["partial_tasks"] != 1 || res.Metadata["failed_tasks"] != 1 {
		t.Errorf("buckets = %v/%v/%v, want 1/1/1",
			res.Metadata["completed_tasks"], res.Metadata["partial_tasks"], res.Metadata["failed_tasks"])
	}

	if got := res.Metadata["total_score"].(float64); math.Abs(got-160) > 1e-9 {
		t.Errorf("total_score = %g, want 160", got)
	}
	if got := res.Metadata["max_possible_score"].(float64); got != 300 {
		t.Errorf("max_possible_score = %g, want 300", got)
	}
	if got := res.Metadata["weighted_accuracy"].(float64); math.Abs(got-160.0/300.0) > 1e-9 {
		t.Errorf("weighted_accuracy = %g, want %g", got, 160.0/300.0)
	}

	rates := 0.0
	for _, key := range []string{"task_completion_rate", "partial_completion_rate", "failure_rate"} {
		rates += res.Metadata[key].(float64)
	}
	if math.Abs(rates-1.0) > 1e-9 {
		t.Errorf("bucket rates sum = %g, want 1.0", rates)
	}

	if err := res.Validate(); err != nil {
		t.Errorf("result fails invariants: %v", err)
	}
}

func TestMLTaskEvaluateCorrectFlag(t *testing.T) {
	t.Parallel()

	subject := funcExecutor{name: "boundary", fn: func(task MLTask) (map[string]any, error) {
		return map[string]any{
			"data_cleaned":           true, // 0.3
			"missing_values_handled": true, // 0.2
			"outliers_handled":       true, // 0.2
			// data_validated omitted: 0.7 of max, partial
		}, nil
	}}

	path := writeDataset(t, "tasks.json",
		`{"tasks":[{"name":"t","type":"data_preprocessing","max_score":100}]}`)

	b := NewMLTask(nil)
	res, err := b.Run(subject, path, Options{})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if res.DetailedResults[0].Correct {
		t.Error("a partial task should not be marked correct")
	}
	if res.CorrectCount != 0 {
		t.Errorf("CorrectCount = %d, want 0", res.CorrectCount)
	}
}

func TestMLTaskTypeAccuracies(t *testing.T) {
	t.Parallel()

	subject := funcExecutor{name: "trainer", fn: func(task MLTask) (map[string]any, error) {
		if task.Type == "model_training" {
			return map[string]any{"model_trained": true}, nil // 40 of 100
		}
		return map[string]any{}, nil
	}}

	b := NewMLTask(nil)
	res, err := b.Run(subject, writeDataset(t, "tasks.json", mlTaskDataset), Options{})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	accs, ok := res.Metadata["task_type_accuracies"].(map[string]float64)
	if !ok {
		t.Fatalf("task_type_accuracies missing or wrong type: %T", res.Metadata["task_type_accuracies"])
	}
	if math.Abs(accs["model_training"]-0.4) > 1e-9 {
		t.Errorf("model_training accuracy = %g, want 0.4", accs["model_training"])
	}
	if accs["deployment"] != 0 {
		t.Errorf("deployment accuracy = %g, want 0", accs["deployment"])
	}

	counts, ok := res.Metadata["task_type_counts"].(map[string]int)
	if !ok {
		t.Fatalf("task_type_counts missing or wrong type: %T", res.Metadata["task_type_counts"])
	}
	if counts["data_preprocessing"] != 1 {
		t.Errorf("data_preprocessing count = %d, want 1", counts["data_preprocessing"])
	}
}

// An executor error on one task lands it in the failed bucket with the
// error recorded; the other tasks still score.
func TestMLTaskPartialFailureIsolation(t *testing.T) {
	t.Parallel()

	subject := funcExecutor{name: "flaky", fn: func(task MLTask) (map[string]any, error) {
		if task.Name == "train_forecaster" {
			return nil, fmt.Errorf("gpu on fire")
		}
		return map[string]any{"completed": true}, nil
	}}

	b := NewMLTask(nil)
	res, err := b.Run(subject, writeDataset(t, "tasks.json", mlTaskDataset), Options{})
	if err != nil {
		t.Fatalf("Run() error = %v (per-task errors must not abort the run)", err)
	}

	if res.TotalItems != 3 {
		t.Errorf("TotalItems = %d, want 3", res.TotalItems)
	}

	failed := res.DetailedResults[1]
	if failed.Error != "gpu on fire" {
		t.Errorf("failed task error = %q, want the executor's error", failed.Error)
	}
	if failed.Score != 0 {
		t.Errorf("failed task score = %g, want 0", failed.Score)
	}
	if res.Metadata["failed_tasks"].(int) < 1 {
		t.Error("errored task should land in the failed bucket")
	}
	// Its max still counts toward the possible total.
	if got := res.Metadata["max_possible_score"].(float64); got != 300 {
		t.Errorf("max_possible_score = %g, want 300", got)
	}
}

func TestMLTaskMaxItems(t *testing.T) {
	t.Parallel()

	subject := funcExecutor{name: "s", fn: func(MLTask) (map[string]any, error) {
		return map[string]any{}, nil
	}}

	b := NewMLTask(nil)
	res, err := b.Run(subject, writeDataset(t, "tasks.json", mlTaskDataset), Options{MaxItems: 1})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if res.TotalItems != 1 {
		t.Errorf("TotalItems = %d, want 1", res.TotalItems)
	}
	if b.Len() != 3 {
		t.Errorf("Len() after evaluate = %d, want 3", b.Len())
	}
}

func TestMLTaskDatasetsPassedThrough(t *testing.T) {
	t.Parallel()

	var seen map[string]any
	probe := probeExecutor{onExecute: func(datasets map[string]any) {
		seen = datasets
	}}

	b := NewMLTask(nil)
	if _, err := b.Run(probe, writeDataset(t, "tasks.json", mlTaskDataset), Options{}); err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if _, ok := seen["sales"]; !ok {
		t.Errorf("executor should receive the named datasets, got %v", seen)
	}
}

type probeExecutor struct {
	onExecute func(datasets map[string]any)
}

func (e probeExecutor) Name() string { return "probe" }

func (e probeExecutor) ExecuteTask(_ MLTask, datasets map[string]any, _ map[string]any) (map[string]any, error) {
	e.onExecute(datasets)
	return map[string]any{}, nil
}

func TestMLTaskSampleAndStats(t *testing.T) {
	t.Parallel()

	b := NewMLTask(nil)
	if err := b.Load(writeDataset(t, "tasks.json", mlTaskDataset)); err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	samples := b.Sample(2)
	if len(samples) != 2 {
		t.Fatalf("Sample(2) = %d items, want 2", len(samples))
	}
	if samples[0]["name"] != "clean_sales" {
		t.Errorf("sample name = %v, want clean_sales", samples[0]["name"])
	}

	st := b.Stats()
	if st["total_tasks"] != 3 {
		t.Errorf("total_tasks = %v, want 3", st["total_tasks"])
	}
	if st["total_max_score"].(float64) != 300 {
		t.Errorf("total_max_score = %v, want 300", st["total_max_score"])
	}
	datasets := st["available_datasets"].([]string)
	if len(datasets) != 1 || datasets[0] != "sales" {
		t.Errorf("available_datasets = %v, want [sales]", datasets)
	}
}
