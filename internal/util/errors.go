package util

import "errors"

var (
	ErrUserNotFound       = errors.New("user not found")
	ErrEmailRegistered    = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrPermissionDenied   = errors.New("permission denied")

	ErrLeadNotFound       = errors.New("lead not found")
	ErrMeetingNotFound    = errors.New("meeting not found")
	ErrKYCNotFound        = errors.New("kyc record not found")
	ErrKYCAlreadyExists   = errors.New("kyc record already exists for lead")
	ErrFormNotFound       = errors.New("assessment form not found")
	ErrFormNotPublished   = errors.New("assessment form not published")
	ErrVersionNotFound    = errors.New("assessment version not found")
	ErrSubmissionNotFound = errors.New("submission not found")
	ErrNoQuestions        = errors.New("form has no questions")
	ErrInvalidStatus      = errors.New("invalid status value")
)
