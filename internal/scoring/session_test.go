package scoring

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormSessionHappyPath(t *testing.T) {
	s := NewFormSession(twoSelectQuestions())
	assert.Equal(t, StateUnfilled, s.State())

	s.SetAnswer("q1", Str("opt1"))
	assert.Equal(t, StatePartiallyFilled, s.State())
	s.SetAnswer("q2", Str("opt2"))

	persisted := false
	err := s.Submit(func(a Answers) error {
		persisted = true
		assert.Equal(t, Str("opt1"), a["q1"])
		return nil
	})
	require.NoError(t, err)
	assert.True(t, persisted)
	assert.Equal(t, StateSubmitted, s.State())
}

func TestFormSessionValidationFailure(t *testing.T) {
	s := NewFormSession(twoSelectQuestions())
	s.SetAnswer("q1", Str("opt2"))

	err := s.Submit(func(Answers) error {
		t.Fatal("persist must not run when validation fails")
		return nil
	})
	require.ErrorIs(t, err, ErrValidationFailed)
	assert.Equal(t, StateValidationFailed, s.State())
	require.Len(t, s.Errors(), 1)
	assert.Equal(t, "Loss tolerance is required", s.Errors()[0].Message)

	// Fixing the answer allows a successful retry and clears the errors.
	s.SetAnswer("q2", Str("opt1"))
	require.NoError(t, s.Submit(func(Answers) error { return nil }))
	assert.Empty(t, s.Errors())
	assert.Equal(t, StateSubmitted, s.State())
}

func TestFormSessionPersistFailureReturnsToPartiallyFilled(t *testing.T) {
	s := NewFormSession(twoSelectQuestions())
	s.SetAnswers(Answers{"q1": Str("opt1"), "q2": Str("opt1")})

	boom := errors.New("connection reset")
	err := s.Submit(func(Answers) error { return boom })
	require.ErrorIs(t, err, boom)
	assert.Equal(t, StatePartiallyFilled, s.State())

	// No automatic retry: the caller resubmits explicitly.
	require.NoError(t, s.Submit(func(Answers) error { return nil }))
	assert.Equal(t, StateSubmitted, s.State())
}

func TestFormSessionIgnoresChangesAfterSubmit(t *testing.T) {
	s := NewFormSession(twoSelectQuestions())
	s.SetAnswers(Answers{"q1": Str("opt1"), "q2": Str("opt1")})
	require.NoError(t, s.Submit(func(Answers) error { return nil }))

	s.SetAnswer("q1", Str("opt2"))
	assert.Equal(t, StateSubmitted, s.State())
	assert.Equal(t, Str("opt1"), s.Answers()["q1"])

	err := s.Submit(func(Answers) error { return nil })
	assert.Error(t, err)
}
