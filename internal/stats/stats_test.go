package stats

import (
	"math"
	"testing"
)

func TestConfusionRecord(t *testing.T) {
	t.Parallel()

	c := &Confusion{}

	// 2 correct, 1 incorrect with a non-empty answer
	c.Record(true, true)
	c.Record(true, true)
	c.Record(false, true)

	if c.TruePositives != 2 {
		t.Errorf("TruePositives = %d, want 2", c.TruePositives)
	}
	if c.FalsePositives != 1 {
		t.Errorf("FalsePositives = %d, want 1", c.FalsePositives)
	}
	if c.FalseNegatives != 1 {
		t.Errorf("FalseNegatives = %d, want 1", c.FalseNegatives)
	}

	want := 2.0 / 3.0
	if math.Abs(c.Precision()-want) > 1e-9 {
		t.Errorf("Precision = %g, want %g", c.Precision(), want)
	}
	if math.Abs(c.Recall()-want) > 1e-9 {
		t.Errorf("Recall = %g, want %g", c.Recall(), want)
	}
	if math.Abs(c.F1()-want) > 1e-9 {
		t.Errorf("F1 = %g, want %g", c.F1(), want)
	}
}

func TestConfusionUnanswered(t *testing.T) {
	t.Parallel()

	c := &Confusion{}
	c.Record(false, false) // incorrect and empty: FN only

	if c.FalseNegatives != 1 {
		t.Errorf("FalseNegatives = %d, want 1", c.FalseNegatives)
	}
	if c.FalsePositives != 0 {
		t.Errorf("FalsePositives = %d, want 0", c.FalsePositives)
	}
}

func TestConfusionZeroDenominators(t *testing.T) {
	t.Parallel()

	c := &Confusion{}
	if c.Precision() != 0 {
		t.Errorf("Precision on empty = %g, want 0", c.Precision())
	}
	if c.Recall() != 0 {
		t.Errorf("Recall on empty = %g, want 0", c.Recall())
	}
	if c.F1() != 0 {
		t.Errorf("F1 on empty = %g, want 0", c.F1())
	}
}

func TestF1HarmonicMean(t *testing.T) {
	t.Parallel()

	c := &Confusion{TruePositives: 3, FalsePositives: 1, FalseNegatives: 2}
	p, r := c.Precision(), c.Recall()
	want := 2 * p * r / (p + r)
	if math.Abs(c.F1()-want) > 1e-9 {
		t.Errorf("F1 = %g, want %g", c.F1(), want)
	}
}

func TestClassifyBoundaries(t *testing.T) {
	t.Parallel()

	tests := []struct {
		score float64
		max   float64
		want  Bucket
	}{
		{100, 100, BucketCompleted},
		{90, 100, BucketCompleted}, // inclusive at 0.9
		{89.9, 100, BucketPartial},
		{50, 100, BucketPartial}, // inclusive at 0.5
		{49.9, 100, BucketFailed},
		{0, 100, BucketFailed},
		{9, 10, BucketCompleted}, // thresholds scale with the item's own max
		{5, 10, BucketPartial},
	}

	for _, tt := range tests {
		if got := Classify(tt.score, tt.max); got != tt.want {
			t.Errorf("Classify(%g, %g) = %q, want %q", tt.score, tt.max, got, tt.want)
		}
	}
}

func TestBucketsRatesSumToOne(t *testing.T) {
	t.Parallel()

	b := &Buckets{}
	b.Record(95, 100) // completed
	b.Record(70, 100) // partial
	b.Record(10, 100) // failed
	b.Record(100, 100)
	b.Record(0, 100)

	if b.Total() != 5 {
		t.Fatalf("Total = %d, want 5", b.Total())
	}
	if b.Completed != 2 || b.Partial != 1 || b.Failed != 2 {
		t.Errorf("counts = %d/%d/%d, want 2/1/2", b.Completed, b.Partial, b.Failed)
	}

	completed, partial, failed := b.Rates()
	sum := completed + partial + failed
	if math.Abs(sum-1.0) > 1e-2 {
		t.Errorf("rates sum = %g, want 1.0", sum)
	}
}

func TestBucketsEmpty(t *testing.T) {
	t.Parallel()

	b := &Buckets{}
	completed, partial, failed := b.Rates()
	if completed != 0 || partial != 0 || failed != 0 {
		t.Errorf("empty rates = %g/%g/%g, want all 0", completed, partial, failed)
	}
}

func TestGroupScores(t *testing.T) {
	t.Parallel()

	g := make(GroupScores)
	g.Add("model_training", 80, 100)
	g.Add("model_training", 100, 100)
	g.Add("deployment", 0, 50)

	accs := g.Accuracies()
	if math.Abs(accs["model_training"]-0.9) > 1e-9 {
		t.Errorf("model_training accuracy = %g, want 0.9", accs["model_training"])
	}
	if accs["deployment"] != 0 {
		t.Errorf("deployment accuracy = %g, want 0", accs["deployment"])
	}

	counts := g.Counts()
	if counts["model_training"] != 2 {
		t.Errorf("model_training count = %d, want 2", counts["model_training"])
	}
	if counts["deployment"] != 1 {
		t.Errorf("deployment count = %d, want 1", counts["deployment"])
	}
}

func TestGroupScoresZeroMax(t *testing.T) {
	t.Parallel()

	g := make(GroupScores)
	g.Add("odd", 0, 0)

	if acc := g.Accuracies()["odd"]; acc != 0 {
		t.Errorf("accuracy with zero max = %g, want 0", acc)
	}
}
