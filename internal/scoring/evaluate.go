package scoring

import "math"

type Bucket string

const (
	BucketLow    Bucket = "low"
	BucketMedium Bucket = "medium"
	BucketHigh   Bucket = "high"
)

// Result is the outcome of evaluating one completed submission.
type Result struct {
	Score  float64 `json:"score"`
	Bucket Bucket  `json:"bucket"`

	// Clamped is set when the rounded score fell outside every threshold
	// band and was snapped to the nearest one. The caller should log it.
	Clamped bool `json:"-"`
}

// Evaluate computes the weighted score for a set of answers and maps it to a
// risk bucket. Deterministic and side-effect free: the same answers and
// config always produce the same result.
//
// Answers with no entry in the point table (free text, numbers) contribute
// zero. List answers sum the points of every selected option.
func Evaluate(answers Answers, cfg ScoringConfig) Result {
	var score float64
	for id, weight := range cfg.Weights {
		table, ok := cfg.Scoring[id]
		if !ok {
			continue
		}
		score += weight * float64(answerPoints(answers[id], table))
	}

	rounded := int(math.Round(score))
	bucket, exact := bucketFor(rounded, cfg.Thresholds)
	return Result{Score: score, Bucket: bucket, Clamped: !exact}
}

func answerPoints(v AnswerValue, table map[string]int) int {
	switch v.Kind {
	case KindString:
		return table[v.Str]
	case KindList:
		total := 0
		for _, opt := range v.List {
			total += table[opt]
		}
		return total
	}
	return 0
}

// bucketFor returns the band containing the rounded score. When the score
// lies outside all bands (possible after rounding at band edges, or with a
// hand-edited config) it clamps to the nearest band rather than failing.
func bucketFor(score int, t Thresholds) (Bucket, bool) {
	switch {
	case t.Low.Contains(score):
		return BucketLow, true
	case t.Medium.Contains(score):
		return BucketMedium, true
	case t.High.Contains(score):
		return BucketHigh, true
	}

	nearest := BucketLow
	best := bandDistance(score, t.Low)
	if d := bandDistance(score, t.Medium); d < best {
		nearest, best = BucketMedium, d
	}
	if d := bandDistance(score, t.High); d < best {
		nearest = BucketHigh
	}
	return nearest, false
}

func bandDistance(score int, b Band) int {
	if score < b.Min {
		return b.Min - score
	}
	if score > b.Max {
		return score - b.Max
	}
	return 0
}
