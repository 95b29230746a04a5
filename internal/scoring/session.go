package scoring

import "errors"

type SessionState string

const (
	StateUnfilled         SessionState = "unfilled"
	StatePartiallyFilled  SessionState = "partially_filled"
	StateValidationFailed SessionState = "validation_failed"
	StateSubmitting       SessionState = "submitting"
	StateSubmitted        SessionState = "submitted"
)

var ErrValidationFailed = errors.New("validation failed")

// FormSession tracks one respondent working through a form:
// Unfilled -> PartiallyFilled -> ValidationFailed | Submitting -> Submitted.
// A failed persistence attempt returns the session to PartiallyFilled; there
// is no automatic retry.
type FormSession struct {
	questions []Question
	answers   Answers
	state     SessionState
	errors    []FieldError
}

func NewFormSession(questions []Question) *FormSession {
	return &FormSession{
		questions: questions,
		answers:   make(Answers, len(questions)),
		state:     StateUnfilled,
	}
}

func (s *FormSession) SetAnswer(id string, v AnswerValue) {
	if s.state == StateSubmitted {
		return
	}
	s.answers[id] = v
	s.state = StatePartiallyFilled
}

func (s *FormSession) SetAnswers(answers Answers) {
	for id, v := range answers {
		s.SetAnswer(id, v)
	}
}

func (s *FormSession) State() SessionState { return s.state }

func (s *FormSession) Answers() Answers { return s.answers }

// Errors returns the field errors from the last failed submit attempt.
func (s *FormSession) Errors() []FieldError { return s.errors }

// Submit validates the collected answers and, if they pass, runs persist.
// Validation failure moves the session to ValidationFailed and returns
// ErrValidationFailed; a persist error is returned as-is and the session
// drops back to PartiallyFilled.
func (s *FormSession) Submit(persist func(Answers) error) error {
	if s.state == StateSubmitted {
		return errors.New("form already submitted")
	}

	if errs := ValidateAnswers(s.questions, s.answers); len(errs) > 0 {
		s.errors = errs
		s.state = StateValidationFailed
		return ErrValidationFailed
	}
	s.errors = nil

	s.state = StateSubmitting
	if err := persist(s.answers); err != nil {
		s.state = StatePartiallyFilled
		return err
	}
	s.state = StateSubmitted
	return nil
}
