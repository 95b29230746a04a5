package scoring

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateAnswersRequiredFields(t *testing.T) {
	questions := twoSelectQuestions()

	// q2 left unanswered: exactly one error, naming the question title.
	errs := ValidateAnswers(questions, Answers{"q1": Str("opt2")})
	require.Len(t, errs, 1)
	assert.Equal(t, "q2", errs[0].Field)
	assert.Equal(t, "Loss tolerance is required", errs[0].Message)
}

// k required fields left empty must produce exactly k errors, one per field.
func TestValidateAnswersExactlyKErrors(t *testing.T) {
	for k := 0; k <= 6; k++ {
		questions := make([]Question, 6)
		answers := Answers{}
		for i := range questions {
			id := fmt.Sprintf("q%d", i)
			questions[i] = Question{ID: id, Title: "Question " + id, Type: TypeText, Required: i < k}
		}

		errs := ValidateAnswers(questions, answers)
		assert.Len(t, errs, k, "k=%d", k)
		for i, e := range errs {
			assert.Equal(t, fmt.Sprintf("q%d", i), e.Field)
			assert.Contains(t, e.Message, "is required")
		}
	}
}

func TestValidateAnswersEmptyShapes(t *testing.T) {
	questions := []Question{
		{ID: "name", Title: "Name", Type: TypeText, Required: true},
		{ID: "goals", Title: "Goals", Type: TypeMultiSelect, Required: true, Options: []string{"a", "b"}},
		{ID: "consent", Title: "Consent", Type: TypeCheckbox, Required: true, Options: []string{"yes"}},
	}

	errs := ValidateAnswers(questions, Answers{
		"name":    Str(""),
		"goals":   List(),
		"consent": Bool(false),
	})
	assert.Len(t, errs, 3)
}

func TestValidateAnswersEmail(t *testing.T) {
	questions := []Question{
		{ID: "email", Title: "Email", Type: TypeEmail},
	}

	tests := []struct {
		value string
		valid bool
	}{
		{"ravi@example.com", true},
		{"a@b.co", true},
		{"not-an-email", false},
		{"two words@example.com", false},
		{"missing@tld", false},
	}
	for _, tt := range tests {
		errs := ValidateAnswers(questions, Answers{"email": Str(tt.value)})
		if tt.valid {
			assert.Empty(t, errs, "value %q", tt.value)
		} else {
			assert.Len(t, errs, 1, "value %q", tt.value)
		}
	}

	// Optional email left blank is fine; format only applies when answered.
	assert.Empty(t, ValidateAnswers(questions, Answers{}))
}

func TestValidateAnswersNumberBounds(t *testing.T) {
	min, max := 18.0, 100.0
	questions := []Question{
		{ID: "age", Title: "Age", Type: TypeNumber, Min: &min, Max: &max},
	}

	assert.Empty(t, ValidateAnswers(questions, Answers{"age": Num(35)}))

	errs := ValidateAnswers(questions, Answers{"age": Num(12)})
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0].Message, "at least 18")

	errs = ValidateAnswers(questions, Answers{"age": Num(130)})
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0].Message, "at most 100")

	errs = ValidateAnswers(questions, Answers{"age": Str("forty")})
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0].Message, "must be a number")
}

func TestValidateAgainstSchema(t *testing.T) {
	questions := twoSelectQuestions()
	schema := CompileSchema(questions)

	errs, err := ValidateAgainstSchema(schema, Answers{"q1": Str("opt1"), "q2": Str("opt2")})
	require.NoError(t, err)
	assert.Empty(t, errs)

	// Enum violation is caught by the schema check.
	errs, err = ValidateAgainstSchema(schema, Answers{"q1": Str("bogus")})
	require.NoError(t, err)
	require.NotEmpty(t, errs)
	assert.Equal(t, "q1", errs[0].Field)

	// Missing answers are not schema errors; required-ness is reported by
	// ValidateAnswers only.
	errs, err = ValidateAgainstSchema(schema, Answers{})
	require.NoError(t, err)
	assert.Empty(t, errs)
}

// The required list must be dropped, not nulled: draft-04 treats both
// "required": null and "required": [] as malformed schemas.
func TestValidateAgainstSchemaStripsRequired(t *testing.T) {
	for _, schema := range []Schema{
		CompileSchema(twoSelectQuestions()),
		{Type: "object", Properties: map[string]Property{}, Required: nil},
		{Type: "object", Properties: map[string]Property{}, Required: []string{}},
	} {
		errs, err := ValidateAgainstSchema(schema, Answers{})
		require.NoError(t, err)
		assert.Empty(t, errs)
	}
}

func TestAnswerValueJSONRoundTrip(t *testing.T) {
	answers := Answers{
		"a": Str("hello"),
		"b": Num(4.5),
		"c": Bool(true),
		"d": List("x", "y"),
	}

	raw, err := answers.MarshalTo()
	require.NoError(t, err)

	decoded, err := ParseAnswers(raw)
	require.NoError(t, err)
	assert.Equal(t, answers, decoded)
}
