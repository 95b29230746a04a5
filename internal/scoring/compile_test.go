package scoring

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleQuestions() []Question {
	return []Question{
		{ID: "horizon", Title: "Investment horizon", Type: TypeSelect, Required: true,
			Options: []string{"Under 1 year", "1-3 years", "3-10 years"}},
		{ID: "goals", Title: "Investment goals", Type: TypeMultiSelect,
			Options: []string{"Capital preservation", "Income", "Growth"}},
		{ID: "age", Title: "Your age", Type: TypeNumber, Required: true},
		{ID: "remarks", Title: "Anything else", Type: TypeText},
	}
}

func TestValidateQuestions(t *testing.T) {
	tests := []struct {
		name      string
		questions []Question
		wantErr   string
	}{
		{"valid", sampleQuestions(), ""},
		{"empty list", nil, "empty"},
		{"missing id", []Question{{Title: "No id", Type: TypeText}}, "no id"},
		{"duplicate id", []Question{
			{ID: "q1", Type: TypeText},
			{ID: "q1", Type: TypeText},
		}, "duplicate"},
		{"select without options", []Question{
			{ID: "q1", Type: TypeSelect},
		}, "no options"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateQuestions(tt.questions)
			if tt.wantErr == "" {
				assert.NoError(t, err)
			} else {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
			}
		})
	}
}

func TestCompileSchema(t *testing.T) {
	schema := CompileSchema(sampleQuestions())

	assert.Equal(t, "object", schema.Type)
	assert.Len(t, schema.Properties, 4)

	horizon := schema.Properties["horizon"]
	assert.Equal(t, "string", horizon.Type)
	assert.Equal(t, []string{"Under 1 year", "1-3 years", "3-10 years"}, horizon.Enum)
	assert.Equal(t, "Under 1 year", horizon.Default)

	goals := schema.Properties["goals"]
	assert.Equal(t, "array", goals.Type)
	require.NotNil(t, goals.Items)
	assert.Equal(t, "string", goals.Items.Type)
	assert.Equal(t, []string{"Capital preservation", "Income", "Growth"}, goals.Items.Enum)
	assert.Equal(t, []string{}, goals.Default)

	age := schema.Properties["age"]
	assert.Equal(t, "number", age.Type)
	require.NotNil(t, age.Minimum)
	assert.Equal(t, 0.0, *age.Minimum)

	remarks := schema.Properties["remarks"]
	assert.Equal(t, "string", remarks.Type)
	assert.Empty(t, remarks.Enum)

	assert.Equal(t, []string{"horizon", "age"}, schema.Required)
}

// Required ids must round-trip: the schema's required set equals the set of
// questions authored with required=true.
func TestCompileSchemaRequiredRoundTrip(t *testing.T) {
	questions := sampleQuestions()
	schema := CompileSchema(questions)

	want := make(map[string]bool)
	for _, q := range questions {
		if q.Required {
			want[q.ID] = true
		}
	}
	assert.Equal(t, want, schema.RequiredSet())
}

func TestCompileScoringDefaults(t *testing.T) {
	questions := sampleQuestions()
	cfg := CompileScoring(questions)

	for _, q := range questions {
		assert.InDelta(t, 0.25, cfg.Weights[q.ID], 1e-9)
	}

	// Option at position i scores i+1.
	assert.Equal(t, map[string]int{
		"Under 1 year": 1,
		"1-3 years":    2,
		"3-10 years":   3,
	}, cfg.Scoring["horizon"])

	// Non-enumerated questions get no point table.
	_, hasAge := cfg.Scoring["age"]
	assert.False(t, hasAge)
	_, hasRemarks := cfg.Scoring["remarks"]
	assert.False(t, hasRemarks)

	assert.NotEmpty(t, cfg.Reasoning)
}

func TestCompileScoringWeightsSumToOne(t *testing.T) {
	for n := 1; n <= 20; n++ {
		questions := make([]Question, n)
		for i := range questions {
			questions[i] = Question{ID: fmt.Sprintf("q%d", i), Type: TypeText}
		}
		cfg := CompileScoring(questions)

		sum := 0.0
		for _, w := range cfg.Weights {
			sum += w
		}
		assert.InDelta(t, 1.0, sum, 1e-9, "n=%d", n)
	}
}

func TestCompileScoringThresholds(t *testing.T) {
	tests := []struct {
		n                       int
		low, medium, high       Band
	}{
		{2, Band{0, 3}, Band{4, 5}, Band{6, 6}},
		{5, Band{0, 7}, Band{8, 12}, Band{13, 15}},
		{1, Band{0, 1}, Band{2, 2}, Band{3, 3}},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("n=%d", tt.n), func(t *testing.T) {
			questions := make([]Question, tt.n)
			for i := range questions {
				questions[i] = Question{ID: fmt.Sprintf("q%d", i), Type: TypeText}
			}
			cfg := CompileScoring(questions)

			assert.Equal(t, tt.low, cfg.Thresholds.Low)
			assert.Equal(t, tt.medium, cfg.Thresholds.Medium)
			assert.Equal(t, tt.high, cfg.Thresholds.High)
		})
	}
}

// The three bands must be contiguous, non-overlapping, and cover [0, 3n].
func TestCompileScoringThresholdCoverage(t *testing.T) {
	for n := 1; n <= 30; n++ {
		questions := make([]Question, n)
		for i := range questions {
			questions[i] = Question{ID: fmt.Sprintf("q%d", i), Type: TypeText}
		}
		th := CompileScoring(questions).Thresholds

		assert.Equal(t, 0, th.Low.Min, "n=%d", n)
		assert.Equal(t, th.Low.Max+1, th.Medium.Min, "n=%d", n)
		assert.Equal(t, th.Medium.Max+1, th.High.Min, "n=%d", n)
		assert.Equal(t, 3*n, th.High.Max, "n=%d", n)

		for s := 0; s <= 3*n; s++ {
			inLow := th.Low.Contains(s)
			inMedium := th.Medium.Contains(s)
			inHigh := th.High.Contains(s)
			count := 0
			for _, in := range []bool{inLow, inMedium, inHigh} {
				if in {
					count++
				}
			}
			assert.Equal(t, 1, count, "n=%d score=%d in exactly one band", n, s)
		}
	}
}
