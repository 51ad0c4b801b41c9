// Package stats provides the accumulators the evaluation loop folds
// per-item outcomes into: confusion counts, completion buckets, and
// per-group score totals. Each Evaluate call owns a fresh set of
// accumulators; none of the types here are safe for concurrent use.
package stats

// Confusion accumulates true-positive, false-positive, and false-negative
// counts across an evaluation run.
type Confusion struct {
	TruePositives  int
	FalsePositives int
	FalseNegatives int
}

// Record books one item: a correct item is a true positive; an incorrect
// item is a false negative, and additionally a false positive when the
// subject produced a non-empty answer.
func (c *Confusion) Record(correct, answered bool) {
	if correct {
		c.TruePositives++
		return
	}
	c.FalseNegatives++
	if answered {
		c.FalsePositives++
	}
}

// Precision returns TP/(TP+FP), or 0 when the denominator is 0.
func (c *Confusion) Precision() float64 {
	denom := c.TruePositives + c.FalsePositives
	if denom == 0 {
		return 0
	}
	return float64(c.TruePositives) / float64(denom)
}

// Recall returns TP/(TP+FN), or 0 when the denominator is 0.
func (c *Confusion) Recall() float64 {
	denom := c.TruePositives + c.FalseNegatives
	if denom == 0 {
		return 0
	}
	return float64(c.TruePositives) / float64(denom)
}

// F1 returns the harmonic mean of precision and recall, or 0 when
// precision+recall is 0.
func (c *Confusion) F1() float64 {
	p, r := c.Precision(), c.Recall()
	if p+r == 0 {
		return 0
	}
	return 2 * p * r / (p + r)
}

// Bucket classifies a score relative to its own maximum.
type Bucket string

const (
	BucketCompleted Bucket = "completed" // score >= 0.9 * max
	BucketPartial   Bucket = "partial"   // 0.5 * max <= score < 0.9 * max
	BucketFailed    Bucket = "failed"    // everything else
)

// Classify returns the completion bucket for a score against its maximum.
// The boundaries are inclusive at 0.9 and 0.5.
func Classify(score, maxScore float64) Bucket {
	switch {
	case score >= 0.9*maxScore:
		return BucketCompleted
	case score >= 0.5*maxScore:
		return BucketPartial
	default:
		return BucketFailed
	}
}

// Buckets accumulates completion bucket counts across a run.
type Buckets struct {
	Completed int
	Partial   int
	Failed    int
}

// Record classifies one item's score into its bucket.
func (b *Buckets) Record(score, maxScore float64) {
	switch Classify(score, maxScore) {
	case BucketCompleted:
		b.Completed++
	case BucketPartial:
		b.Partial++
	default:
		b.Failed++
	}
}

// Total returns the number of items recorded.
func (b *Buckets) Total() int {
	return b.Completed + b.Partial + b.Failed
}

// Rates returns the completed, partial, and failed fractions of the total.
// They sum to 1.0 for any non-empty run. All are 0 when nothing was recorded.
func (b *Buckets) Rates() (completed, partial, failed float64) {
	total := b.Total()
	if total == 0 {
		return 0, 0, 0
	}
	n := float64(total)
	return float64(b.Completed) / n, float64(b.Partial) / n, float64(b.Failed) / n
}

// GroupScore accumulates achieved vs possible score for one group key,
// typically a task type.
type GroupScore struct {
	Score    float64
	MaxScore float64
	Count    int
}

// GroupScores tracks per-group score totals across a run.
type GroupScores map[string]*GroupScore

// Add books an item's score under the given group key.
func (g GroupScores) Add(key string, score, maxScore float64) {
	gs := g[key]
	if gs == nil {
		gs = &GroupScore{}
		g[key] = gs
	}
	gs.Score += score
	gs.MaxScore += maxScore
	gs.Count++
}

// Accuracies returns the score/max ratio per group, 0 where max is 0.
func (g GroupScores) Accuracies() map[string]float64 {
	out := make(map[string]float64, len(g))
	for key, gs := range g {
		if gs.MaxScore > 0 {
			out[key] = gs.Score / gs.MaxScore
		} else {
			out[key] = 0
		}
	}
	return out
}

// Counts returns the item count per group.
func (g GroupScores) Counts() map[string]int {
	out := make(map[string]int, len(g))
	for key, gs := range g {
		out[key] = gs.Count
	}
	return out
}
