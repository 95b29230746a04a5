// Package scoring holds the assessment pipeline: question definitions are
// compiled into a form schema plus a scoring configuration, submitted answers
// are validated against them, and completed submissions are evaluated into a
// numeric score and a risk bucket. Everything in this package is pure
// computation; persistence and transport live in the service layer.
package scoring

import "fmt"

type FieldType string

const (
	TypeText        FieldType = "text"
	TypeEmail       FieldType = "email"
	TypePhone       FieldType = "phone"
	TypeSelect      FieldType = "select"
	TypeMultiSelect FieldType = "multiselect"
	TypeNumber      FieldType = "number"
	TypeRadio       FieldType = "radio"
	TypeCheckbox    FieldType = "checkbox"
	TypeFile        FieldType = "file"
)

// Question is a single authored form field. Ordering in the question list is
// significant: it drives both display order and the default point table.
type Question struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Type        FieldType `json:"type"`
	Required    bool      `json:"required"`
	Options     []string  `json:"options,omitempty"`
	Placeholder string    `json:"placeholder,omitempty"`
	HelpText    string    `json:"helpText,omitempty"`
	Min         *float64  `json:"min,omitempty"`
	Max         *float64  `json:"max,omitempty"`
}

// HasOptions reports whether the field type carries an option list.
func (q Question) HasOptions() bool {
	switch q.Type {
	case TypeSelect, TypeMultiSelect, TypeRadio, TypeCheckbox:
		return true
	}
	return false
}

func (q Question) isMultiValued() bool {
	return q.Type == TypeMultiSelect || q.Type == TypeCheckbox
}

// ValidateQuestions gates compilation: the compilers themselves are total
// over well-formed input, so id uniqueness and option presence are checked
// here, once, before anything is compiled or stored.
func ValidateQuestions(questions []Question) error {
	if len(questions) == 0 {
		return fmt.Errorf("question list is empty")
	}
	seen := make(map[string]bool, len(questions))
	for i, q := range questions {
		if q.ID == "" {
			return fmt.Errorf("question %d has no id", i)
		}
		if seen[q.ID] {
			return fmt.Errorf("duplicate question id %q", q.ID)
		}
		seen[q.ID] = true
		if q.HasOptions() && len(q.Options) == 0 {
			return fmt.Errorf("question %q of type %s has no options", q.ID, q.Type)
		}
	}
	return nil
}
