package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"mfd_crm_backend/internal/config"
	"mfd_crm_backend/internal/model"
	"mfd_crm_backend/internal/repository"
	"mfd_crm_backend/internal/scoring"
	"mfd_crm_backend/internal/util"
	"mfd_crm_backend/pkg/logger"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type AssessmentService struct {
	Repo      *repository.AssessmentRepository
	LeadRepo  *repository.LeadRepository
	Redis     *redis.Client
	Generator ScoringGenerator

	cacheTTL time.Duration
}

func NewAssessmentService(repo *repository.AssessmentRepository, leadRepo *repository.LeadRepository, rdb *redis.Client, generator ScoringGenerator, cfg *config.Config) *AssessmentService {
	return &AssessmentService{
		Repo:      repo,
		LeadRepo:  leadRepo,
		Redis:     rdb,
		Generator: generator,
		cacheTTL:  time.Duration(cfg.Redis.FormCacheTTLMinutes) * time.Minute,
	}
}

// ValidationError carries the per-field errors of a rejected submission.
type ValidationError struct {
	Fields []scoring.FieldError
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed on %d field(s)", len(e.Fields))
}

// Forms

type FormRequest struct {
	Title       string `json:"title" binding:"required"`
	Description string `json:"description"`
}

func (s *AssessmentService) CreateForm(ownerID uint, req FormRequest) (*model.AssessmentForm, error) {
	form := &model.AssessmentForm{
		OwnerID:     ownerID,
		Title:       req.Title,
		Description: req.Description,
		PublicSlug:  uuid.New().String(),
	}
	if err := s.Repo.CreateForm(form); err != nil {
		return nil, err
	}
	return form, nil
}

func (s *AssessmentService) GetForm(ownerID, id uint) (*model.AssessmentForm, error) {
	form, err := s.Repo.FindFormByID(id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrFormNotFound
	}
	if err != nil {
		return nil, err
	}
	if form.OwnerID != ownerID {
		return nil, util.ErrPermissionDenied
	}
	return form, nil
}

func (s *AssessmentService) ListForms(ownerID uint, page, limit int) ([]model.AssessmentForm, int64, error) {
	return s.Repo.ListForms(ownerID, page, limit)
}

func (s *AssessmentService) PublishForm(ownerID, id uint) (*model.AssessmentForm, error) {
	form, err := s.GetForm(ownerID, id)
	if err != nil {
		return nil, err
	}
	if form.ActiveVersion == 0 {
		return nil, util.ErrVersionNotFound
	}

	form.IsPublished = true
	if err := s.Repo.UpdateForm(form); err != nil {
		return nil, err
	}
	s.invalidatePublicCache(form.PublicSlug)
	return form, nil
}

// Versions

type VersionRequest struct {
	Questions []scoring.Question `json:"questions" binding:"required"`

	// Optional author overrides applied on top of the compiled defaults.
	Weights   map[string]float64     `json:"weights,omitempty"`
	Reasoning string                 `json:"reasoning,omitempty"`
	Scoring   *scoring.ScoringConfig `json:"scoring,omitempty"`
}

// CreateVersion compiles the question list into a schema and scoring config
// and appends them as a new immutable version of the form.
func (s *AssessmentService) CreateVersion(ownerID, formID, editorID uint, req VersionRequest) (*model.AssessmentVersion, error) {
	form, err := s.GetForm(ownerID, formID)
	if err != nil {
		return nil, err
	}

	if err := scoring.ValidateQuestions(req.Questions); err != nil {
		return nil, fmt.Errorf("%w: %v", util.ErrNoQuestions, err)
	}

	schema := scoring.CompileSchema(req.Questions)

	var cfg scoring.ScoringConfig
	if req.Scoring != nil {
		// A fully author- or AI-supplied config replaces the compiled one.
		cfg = *req.Scoring
	} else {
		cfg = scoring.CompileScoring(req.Questions)
		for id, w := range req.Weights {
			cfg.Weights[id] = w
		}
		if req.Reasoning != "" {
			cfg.Reasoning = req.Reasoning
		}
	}

	questionsJSON, err := json.Marshal(req.Questions)
	if err != nil {
		return nil, err
	}
	schemaJSON, err := json.Marshal(schema)
	if err != nil {
		return nil, err
	}
	scoringJSON, err := json.Marshal(cfg)
	if err != nil {
		return nil, err
	}

	version := &model.AssessmentVersion{
		FormID:    form.ID,
		EditorID:  editorID,
		Questions: questionsJSON,
		Schema:    schemaJSON,
		Scoring:   scoringJSON,
	}
	if err := s.Repo.CreateVersion(version); err != nil {
		return nil, err
	}

	s.invalidatePublicCache(form.PublicSlug)
	return version, nil
}

func (s *AssessmentService) ListVersions(ownerID, formID uint) ([]model.AssessmentVersion, error) {
	if _, err := s.GetForm(ownerID, formID); err != nil {
		return nil, err
	}
	return s.Repo.ListVersions(formID)
}

// GenerateScoring runs the configured generator (deterministic compiler or
// the AI-backed one) over a question list without persisting anything; the
// author reviews the result and saves it as a new version explicitly.
func (s *AssessmentService) GenerateScoring(ctx context.Context, questions []scoring.Question) (scoring.ScoringConfig, error) {
	if err := scoring.ValidateQuestions(questions); err != nil {
		return scoring.ScoringConfig{}, fmt.Errorf("%w: %v", util.ErrNoQuestions, err)
	}
	return s.Generator.Generate(ctx, questions)
}

// Public form access

// PublicForm is what an unauthenticated respondent fetches: enough to render
// the form, without the scoring configuration.
type PublicForm struct {
	Title       string             `json:"title"`
	Description string             `json:"description"`
	Version     int                `json:"version"`
	Questions   []scoring.Question `json:"questions"`
	Schema      json.RawMessage    `json:"schema"`
}

func (s *AssessmentService) publicCacheKey(slug string) string {
	return "public_form:" + slug
}

func (s *AssessmentService) invalidatePublicCache(slug string) {
	if s.Redis == nil {
		return
	}
	if err := s.Redis.Del(context.Background(), s.publicCacheKey(slug)).Err(); err != nil {
		logger.Log.Warn("failed to invalidate public form cache", zap.String("slug", slug), zap.Error(err))
	}
}

// GetPublicForm resolves a public slug to the active version, serving from
// the Redis cache when possible.
func (s *AssessmentService) GetPublicForm(ctx context.Context, slug string) (*PublicForm, error) {
	if s.Redis != nil {
		cached, err := s.Redis.Get(ctx, s.publicCacheKey(slug)).Bytes()
		if err == nil {
			var pf PublicForm
			if err := json.Unmarshal(cached, &pf); err == nil {
				return &pf, nil
			}
		} else if err != redis.Nil {
			logger.Log.Warn("public form cache read failed", zap.Error(err))
		}
	}

	form, version, err := s.resolvePublished(slug)
	if err != nil {
		return nil, err
	}

	var questions []scoring.Question
	if err := json.Unmarshal(version.Questions, &questions); err != nil {
		return nil, err
	}

	pf := &PublicForm{
		Title:       form.Title,
		Description: form.Description,
		Version:     version.Version,
		Questions:   questions,
		Schema:      version.Schema,
	}

	if s.Redis != nil {
		if raw, err := json.Marshal(pf); err == nil {
			if err := s.Redis.Set(ctx, s.publicCacheKey(slug), raw, s.cacheTTL).Err(); err != nil {
				logger.Log.Warn("public form cache write failed", zap.Error(err))
			}
		}
	}

	return pf, nil
}

func (s *AssessmentService) resolvePublished(slug string) (*model.AssessmentForm, *model.AssessmentVersion, error) {
	form, err := s.Repo.FindFormBySlug(slug)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil, util.ErrFormNotFound
	}
	if err != nil {
		return nil, nil, err
	}
	if !form.IsPublished || form.ActiveVersion == 0 {
		return nil, nil, util.ErrFormNotPublished
	}

	version, err := s.Repo.FindVersion(form.ID, form.ActiveVersion)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil, util.ErrVersionNotFound
	}
	if err != nil {
		return nil, nil, err
	}
	return form, version, nil
}

// Submissions

type SubmitRequest struct {
	Answers         scoring.Answers `json:"answers" binding:"required"`
	LeadID          *uint           `json:"leadId,omitempty"`
	RespondentName  string          `json:"respondentName"`
	RespondentEmail string          `json:"respondentEmail"`
}

// SubmitPublic validates the answers against the form's active version,
// evaluates them and persists an immutable submission. A validation failure
// returns *ValidationError and nothing is stored; a persistence failure also
// stores nothing and reports the error without retrying.
func (s *AssessmentService) SubmitPublic(ctx context.Context, slug string, req SubmitRequest) (*model.AssessmentSubmission, error) {
	form, version, err := s.resolvePublished(slug)
	if err != nil {
		return nil, err
	}

	var questions []scoring.Question
	if err := json.Unmarshal(version.Questions, &questions); err != nil {
		return nil, err
	}
	var schema scoring.Schema
	if err := json.Unmarshal(version.Schema, &schema); err != nil {
		return nil, err
	}
	var cfg scoring.ScoringConfig
	if err := json.Unmarshal(version.Scoring, &cfg); err != nil {
		return nil, err
	}

	schemaErrs, err := scoring.ValidateAgainstSchema(schema, req.Answers)
	if err != nil {
		return nil, err
	}
	if len(schemaErrs) > 0 {
		return nil, &ValidationError{Fields: schemaErrs}
	}

	session := scoring.NewFormSession(questions)
	session.SetAnswers(req.Answers)

	var submission *model.AssessmentSubmission
	err = session.Submit(func(answers scoring.Answers) error {
		result := scoring.Evaluate(answers, cfg)
		if result.Clamped {
			logger.Log.Warn("submission score fell outside threshold bands, clamped to nearest",
				zap.String("slug", slug),
				zap.Int("version", version.Version),
				zap.Float64("score", result.Score),
				zap.String("bucket", string(result.Bucket)))
		}

		answersJSON, err := answers.MarshalTo()
		if err != nil {
			return err
		}

		submission = &model.AssessmentSubmission{
			FormID:          form.ID,
			Version:         version.Version,
			LeadID:          req.LeadID,
			RespondentName:  req.RespondentName,
			RespondentEmail: req.RespondentEmail,
			Answers:         answersJSON,
			Score:           result.Score,
			Bucket:          string(result.Bucket),
		}
		return s.Repo.CreateSubmission(submission)
	})
	if err != nil {
		if errors.Is(err, scoring.ErrValidationFailed) {
			return nil, &ValidationError{Fields: session.Errors()}
		}
		return nil, err
	}

	if req.LeadID != nil {
		if err := s.LeadRepo.SetAssessmentResult(*req.LeadID, submission.Bucket); err != nil {
			logger.Log.Warn("failed to denormalize risk bucket onto lead",
				zap.Uint("leadId", *req.LeadID), zap.Error(err))
		}
	}

	return submission, nil
}

func (s *AssessmentService) ListSubmissions(ownerID, formID uint, bucket string, page, limit int) ([]model.AssessmentSubmission, int64, error) {
	if formID > 0 {
		if _, err := s.GetForm(ownerID, formID); err != nil {
			return nil, 0, err
		}
	}
	return s.Repo.ListSubmissions(ownerID, formID, bucket, page, limit)
}

type SubmissionDetail struct {
	Submission *model.AssessmentSubmission `json:"submission"`
	Questions  json.RawMessage             `json:"questions"`
}

func (s *AssessmentService) GetSubmission(ownerID uint, id string) (*SubmissionDetail, error) {
	submission, err := s.Repo.FindSubmissionByID(id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrSubmissionNotFound
	}
	if err != nil {
		return nil, err
	}

	if _, err := s.GetForm(ownerID, submission.FormID); err != nil {
		return nil, err
	}

	version, err := s.Repo.FindVersion(submission.FormID, submission.Version)
	if err != nil {
		return nil, util.ErrVersionNotFound
	}

	return &SubmissionDetail{
		Submission: submission,
		Questions:  version.Questions,
	}, nil
}

// RecreateSubmission deletes a submission and rebuilds it from its raw
// answers against the version it was taken with. This is the manual repair
// path for corrupt or missing evaluations; evaluation is deterministic, so
// an intact submission recreates to the same score and bucket.
func (s *AssessmentService) RecreateSubmission(ownerID uint, id string) (*model.AssessmentSubmission, error) {
	submission, err := s.Repo.FindSubmissionByID(id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrSubmissionNotFound
	}
	if err != nil {
		return nil, err
	}
	if _, err := s.GetForm(ownerID, submission.FormID); err != nil {
		return nil, err
	}

	version, err := s.Repo.FindVersion(submission.FormID, submission.Version)
	if err != nil {
		return nil, util.ErrVersionNotFound
	}

	answers, err := scoring.ParseAnswers(submission.Answers)
	if err != nil {
		return nil, err
	}
	var cfg scoring.ScoringConfig
	if err := json.Unmarshal(version.Scoring, &cfg); err != nil {
		return nil, err
	}

	result := scoring.Evaluate(answers, cfg)

	if err := s.Repo.DeleteSubmission(id); err != nil {
		return nil, err
	}

	recreated := &model.AssessmentSubmission{
		FormID:          submission.FormID,
		Version:         submission.Version,
		LeadID:          submission.LeadID,
		RespondentName:  submission.RespondentName,
		RespondentEmail: submission.RespondentEmail,
		Answers:         submission.Answers,
		Score:           result.Score,
		Bucket:          string(result.Bucket),
	}
	if err := s.Repo.CreateSubmission(recreated); err != nil {
		return nil, err
	}

	if submission.LeadID != nil {
		if err := s.LeadRepo.SetAssessmentResult(*submission.LeadID, recreated.Bucket); err != nil {
			logger.Log.Warn("failed to denormalize risk bucket onto lead",
				zap.Uint("leadId", *submission.LeadID), zap.Error(err))
		}
	}

	return recreated, nil
}
