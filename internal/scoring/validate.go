package scoring

import (
	"encoding/json"
	"fmt"
	"regexp"

	"github.com/xeipuuv/gojsonschema"
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// FieldError is a user-correctable validation failure on one field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e FieldError) Error() string {
	return e.Message
}

// ValidateAnswers checks answers at submit time: one error per required
// question left unanswered, plus email format and numeric bounds on answered
// fields. Field errors come back in question order.
func ValidateAnswers(questions []Question, answers Answers) []FieldError {
	var errs []FieldError
	for _, q := range questions {
		v := answers[q.ID]

		if q.Required && v.IsEmpty() {
			errs = append(errs, FieldError{Field: q.ID, Message: q.Title + " is required"})
			continue
		}
		if v.IsEmpty() {
			continue
		}

		switch q.Type {
		case TypeEmail:
			if v.Kind != KindString || !emailPattern.MatchString(v.Str) {
				errs = append(errs, FieldError{Field: q.ID, Message: q.Title + " must be a valid email address"})
			}
		case TypeNumber:
			if v.Kind != KindNumber {
				errs = append(errs, FieldError{Field: q.ID, Message: q.Title + " must be a number"})
				continue
			}
			if q.Min != nil && v.Num < *q.Min {
				errs = append(errs, FieldError{Field: q.ID, Message: fmt.Sprintf("%s must be at least %g", q.Title, *q.Min)})
			}
			if q.Max != nil && v.Num > *q.Max {
				errs = append(errs, FieldError{Field: q.ID, Message: fmt.Sprintf("%s must be at most %g", q.Title, *q.Max)})
			}
		}
	}
	return errs
}

// ValidateAgainstSchema enforces the compiled schema on answered fields:
// value types and enum membership. Required-ness is deliberately stripped
// before validation so that missing answers surface only through
// ValidateAnswers, with one message per field.
func ValidateAgainstSchema(schema Schema, answers Answers) ([]FieldError, error) {
	raw, err := json.Marshal(schema)
	if err != nil {
		return nil, err
	}
	var stripped map[string]interface{}
	if err := json.Unmarshal(raw, &stripped); err != nil {
		return nil, err
	}
	// Draft-04 rejects both null and empty-array values for "required",
	// so the key has to go entirely.
	delete(stripped, "required")

	schemaJSON, err := json.Marshal(stripped)
	if err != nil {
		return nil, err
	}
	doc := make(map[string]AnswerValue, len(answers))
	for id, v := range answers {
		if !v.IsEmpty() {
			doc[id] = v
		}
	}
	docJSON, err := json.Marshal(doc)
	if err != nil {
		return nil, err
	}

	result, err := gojsonschema.Validate(
		gojsonschema.NewBytesLoader(schemaJSON),
		gojsonschema.NewBytesLoader(docJSON),
	)
	if err != nil {
		return nil, fmt.Errorf("schema validation: %w", err)
	}

	var errs []FieldError
	for _, re := range result.Errors() {
		errs = append(errs, FieldError{Field: re.Field(), Message: re.Description()})
	}
	return errs, nil
}
