package scoring

// Band is an inclusive score range.
type Band struct {
	Min int `json:"min"`
	Max int `json:"max"`
}

func (b Band) Contains(score int) bool {
	return score >= b.Min && score <= b.Max
}

// Thresholds are the three contiguous, non-overlapping bands covering the
// achievable score range.
type Thresholds struct {
	Low    Band `json:"low"`
	Medium Band `json:"medium"`
	High   Band `json:"high"`
}

// ScoringConfig turns answers into a score: per-question weights, per-option
// point tables, and the bucket thresholds. Generated configs may be edited by
// the form author before a version is saved.
type ScoringConfig struct {
	Weights    map[string]float64        `json:"weights"`
	Scoring    map[string]map[string]int `json:"scoring"`
	Thresholds Thresholds                `json:"thresholds"`
	Reasoning  string                    `json:"reasoning,omitempty"`
}

const defaultReasoning = "Auto-generated: equal weights per question; option points increase with list position, assuming later options indicate higher risk appetite. Review the point tables if that ordering does not hold for a question."

// CompileScoring derives the default scoring configuration from an ordered
// question list. Only option-bearing questions receive point tables; free
// text and numeric answers contribute no points under the default config.
func CompileScoring(questions []Question) ScoringConfig {
	n := len(questions)
	cfg := ScoringConfig{
		Weights:   make(map[string]float64, n),
		Scoring:   make(map[string]map[string]int, n),
		Reasoning: defaultReasoning,
	}

	for _, q := range questions {
		cfg.Weights[q.ID] = 1.0 / float64(n)
		if !q.HasOptions() {
			continue
		}
		table := make(map[string]int, len(q.Options))
		for i, opt := range q.Options {
			table[opt] = i + 1
		}
		cfg.Scoring[q.ID] = table
	}

	// Heuristic cuts at 1.5n and 2.5n over the nominal [0, 3n] range.
	lowMax := 3 * n / 2
	mediumMax := 5 * n / 2
	cfg.Thresholds = Thresholds{
		Low:    Band{Min: 0, Max: lowMax},
		Medium: Band{Min: lowMax + 1, Max: mediumMax},
		High:   Band{Min: mediumMax + 1, Max: 3 * n},
	}

	return cfg
}
