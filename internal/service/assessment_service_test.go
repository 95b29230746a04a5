package service

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"mfd_crm_backend/internal/config"
	"mfd_crm_backend/internal/model"
	"mfd_crm_backend/internal/repository"
	"mfd_crm_backend/internal/scoring"
	"mfd_crm_backend/internal/util"
	"mfd_crm_backend/pkg/logger"

	"github.com/alicebob/miniredis/v2"
	"github.com/glebarez/sqlite"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	logger.Log = zap.NewNop()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&model.User{},
		&model.Lead{},
		&model.Meeting{},
		&model.KYCRecord{},
		&model.AssessmentForm{},
		&model.AssessmentVersion{},
		&model.AssessmentSubmission{},
	))
	return db
}

func newAssessmentService(t *testing.T) (*AssessmentService, *gorm.DB) {
	t.Helper()
	db := newTestDB(t)
	cfg := &config.Config{}
	cfg.Redis.FormCacheTTLMinutes = 10

	svc := NewAssessmentService(
		repository.NewAssessmentRepository(db),
		repository.NewLeadRepository(db),
		nil,
		DefaultScoringGenerator{},
		cfg,
	)
	return svc, db
}

func newCachedAssessmentService(t *testing.T) (*AssessmentService, *redis.Client) {
	t.Helper()
	db := newTestDB(t)

	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})

	cfg := &config.Config{}
	cfg.Redis.FormCacheTTLMinutes = 10

	svc := NewAssessmentService(
		repository.NewAssessmentRepository(db),
		repository.NewLeadRepository(db),
		rdb,
		DefaultScoringGenerator{},
		cfg,
	)
	return svc, rdb
}

func riskQuestions() []scoring.Question {
	return []scoring.Question{
		{ID: "horizon", Title: "Investment horizon", Type: scoring.TypeSelect, Required: true,
			Options: []string{"Under 1 year", "1-3 years", "Over 3 years"}},
		{ID: "loss", Title: "Loss tolerance", Type: scoring.TypeRadio, Required: true,
			Options: []string{"Sell everything", "Hold", "Buy more"}},
	}
}

func TestCreateVersionSequence(t *testing.T) {
	svc, _ := newAssessmentService(t)

	form, err := svc.CreateForm(1, FormRequest{Title: "Risk profile"})
	require.NoError(t, err)
	assert.NotEmpty(t, form.PublicSlug)
	assert.Equal(t, 0, form.ActiveVersion)

	for want := 1; want <= 3; want++ {
		v, err := svc.CreateVersion(1, form.ID, 1, VersionRequest{Questions: riskQuestions()})
		require.NoError(t, err)
		assert.Equal(t, want, v.Version)
	}

	reloaded, err := svc.GetForm(1, form.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, reloaded.ActiveVersion)

	versions, err := svc.ListVersions(1, form.ID)
	require.NoError(t, err)
	require.Len(t, versions, 3)
	assert.Equal(t, 3, versions[0].Version)
	assert.Equal(t, 1, versions[2].Version)
}

func TestCreateVersionRejectsBadQuestions(t *testing.T) {
	svc, _ := newAssessmentService(t)
	form, err := svc.CreateForm(1, FormRequest{Title: "Risk profile"})
	require.NoError(t, err)

	_, err = svc.CreateVersion(1, form.ID, 1, VersionRequest{Questions: nil})
	assert.ErrorIs(t, err, util.ErrNoQuestions)

	_, err = svc.CreateVersion(1, form.ID, 1, VersionRequest{Questions: []scoring.Question{
		{ID: "q1", Title: "A", Type: scoring.TypeSelect, Options: []string{"x"}},
		{ID: "q1", Title: "B", Type: scoring.TypeSelect, Options: []string{"y"}},
	}})
	assert.ErrorIs(t, err, util.ErrNoQuestions)
}

func TestFormOwnershipScoping(t *testing.T) {
	svc, _ := newAssessmentService(t)
	form, err := svc.CreateForm(1, FormRequest{Title: "Risk profile"})
	require.NoError(t, err)

	_, err = svc.GetForm(2, form.ID)
	assert.ErrorIs(t, err, util.ErrPermissionDenied)

	_, err = svc.CreateVersion(2, form.ID, 2, VersionRequest{Questions: riskQuestions()})
	assert.ErrorIs(t, err, util.ErrPermissionDenied)

	_, err = svc.GetForm(1, 9999)
	assert.ErrorIs(t, err, util.ErrFormNotFound)
}

func TestPublishRequiresVersion(t *testing.T) {
	svc, _ := newAssessmentService(t)
	form, err := svc.CreateForm(1, FormRequest{Title: "Risk profile"})
	require.NoError(t, err)

	_, err = svc.PublishForm(1, form.ID)
	assert.ErrorIs(t, err, util.ErrVersionNotFound)

	_, err = svc.CreateVersion(1, form.ID, 1, VersionRequest{Questions: riskQuestions()})
	require.NoError(t, err)

	published, err := svc.PublishForm(1, form.ID)
	require.NoError(t, err)
	assert.True(t, published.IsPublished)
}

func TestGetPublicForm(t *testing.T) {
	svc, _ := newAssessmentService(t)
	ctx := context.Background()

	form, err := svc.CreateForm(1, FormRequest{Title: "Risk profile", Description: "How much risk suits you"})
	require.NoError(t, err)

	_, err = svc.GetPublicForm(ctx, form.PublicSlug)
	assert.ErrorIs(t, err, util.ErrFormNotPublished)

	_, err = svc.CreateVersion(1, form.ID, 1, VersionRequest{Questions: riskQuestions()})
	require.NoError(t, err)
	_, err = svc.PublishForm(1, form.ID)
	require.NoError(t, err)

	pf, err := svc.GetPublicForm(ctx, form.PublicSlug)
	require.NoError(t, err)
	assert.Equal(t, "Risk profile", pf.Title)
	assert.Equal(t, 1, pf.Version)
	require.Len(t, pf.Questions, 2)
	assert.NotContains(t, string(pf.Schema), "weights")

	_, err = svc.GetPublicForm(ctx, "no-such-slug")
	assert.ErrorIs(t, err, util.ErrFormNotFound)
}

func publishedForm(t *testing.T, svc *AssessmentService) *model.AssessmentForm {
	t.Helper()
	form, err := svc.CreateForm(1, FormRequest{Title: "Risk profile"})
	require.NoError(t, err)
	_, err = svc.CreateVersion(1, form.ID, 1, VersionRequest{Questions: riskQuestions()})
	require.NoError(t, err)
	_, err = svc.PublishForm(1, form.ID)
	require.NoError(t, err)
	return form
}

func TestSubmitPublic(t *testing.T) {
	svc, _ := newAssessmentService(t)
	form := publishedForm(t, svc)

	sub, err := svc.SubmitPublic(context.Background(), form.PublicSlug, SubmitRequest{
		Answers: scoring.Answers{
			"horizon": scoring.Str("1-3 years"),
			"loss":    scoring.Str("Hold"),
		},
		RespondentName: "Asha",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, sub.ID)
	assert.Equal(t, 1, sub.Version)
	assert.InDelta(t, 2.0, sub.Score, 1e-9)
	assert.Equal(t, string(scoring.BucketLow), sub.Bucket)
}

func TestSubmitPublicValidationFailure(t *testing.T) {
	svc, _ := newAssessmentService(t)
	form := publishedForm(t, svc)

	_, err := svc.SubmitPublic(context.Background(), form.PublicSlug, SubmitRequest{
		Answers: scoring.Answers{"horizon": scoring.Str("1-3 years")},
	})

	var vErr *ValidationError
	require.ErrorAs(t, err, &vErr)
	require.Len(t, vErr.Fields, 1)
	assert.Equal(t, "loss", vErr.Fields[0].Field)
	assert.Equal(t, "Loss tolerance is required", vErr.Fields[0].Message)

	subs, total, err := svc.ListSubmissions(1, form.ID, "", 1, 20)
	require.NoError(t, err)
	assert.Zero(t, total)
	assert.Empty(t, subs)
}

func TestSubmitPublicRejectsUnknownOption(t *testing.T) {
	svc, _ := newAssessmentService(t)
	form := publishedForm(t, svc)

	_, err := svc.SubmitPublic(context.Background(), form.PublicSlug, SubmitRequest{
		Answers: scoring.Answers{
			"horizon": scoring.Str("Forever"),
			"loss":    scoring.Str("Hold"),
		},
	})

	var vErr *ValidationError
	require.ErrorAs(t, err, &vErr)
	require.NotEmpty(t, vErr.Fields)
	assert.Equal(t, "horizon", vErr.Fields[0].Field)
}

func TestSubmitPublicDenormalizesLead(t *testing.T) {
	svc, db := newAssessmentService(t)
	form := publishedForm(t, svc)

	lead := &model.Lead{OwnerID: 1, Name: "Ravi", Status: model.LeadNew}
	require.NoError(t, db.Create(lead).Error)

	_, err := svc.SubmitPublic(context.Background(), form.PublicSlug, SubmitRequest{
		Answers: scoring.Answers{
			"horizon": scoring.Str("Over 3 years"),
			"loss":    scoring.Str("Buy more"),
		},
		LeadID: &lead.ID,
	})
	require.NoError(t, err)

	var reloaded model.Lead
	require.NoError(t, db.First(&reloaded, lead.ID).Error)
	assert.True(t, reloaded.AssessmentDone)
	assert.Equal(t, string(scoring.BucketLow), reloaded.RiskBucket)
}

func TestSubmitUnpublishedForm(t *testing.T) {
	svc, _ := newAssessmentService(t)
	form, err := svc.CreateForm(1, FormRequest{Title: "Draft"})
	require.NoError(t, err)

	_, err = svc.SubmitPublic(context.Background(), form.PublicSlug, SubmitRequest{
		Answers: scoring.Answers{},
	})
	assert.ErrorIs(t, err, util.ErrFormNotPublished)
}

func TestListSubmissionsOwnerScoped(t *testing.T) {
	svc, _ := newAssessmentService(t)
	mine := publishedForm(t, svc)

	theirs, err := svc.CreateForm(2, FormRequest{Title: "Risk profile"})
	require.NoError(t, err)
	_, err = svc.CreateVersion(2, theirs.ID, 2, VersionRequest{Questions: riskQuestions()})
	require.NoError(t, err)
	_, err = svc.PublishForm(2, theirs.ID)
	require.NoError(t, err)

	for _, slug := range []string{mine.PublicSlug, theirs.PublicSlug} {
		_, err = svc.SubmitPublic(context.Background(), slug, SubmitRequest{
			Answers: scoring.Answers{
				"horizon": scoring.Str("1-3 years"),
				"loss":    scoring.Str("Hold"),
			},
		})
		require.NoError(t, err)
	}

	// The unfiltered list only ever covers the caller's own forms.
	subs, total, err := svc.ListSubmissions(1, 0, "", 1, 20)
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, subs, 1)
	assert.Equal(t, mine.ID, subs[0].FormID)

	subs, total, err = svc.ListSubmissions(2, 0, "", 1, 20)
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, subs, 1)
	assert.Equal(t, theirs.ID, subs[0].FormID)

	_, _, err = svc.ListSubmissions(1, theirs.ID, "", 1, 20)
	assert.ErrorIs(t, err, util.ErrPermissionDenied)
}

func TestGetPublicFormCaching(t *testing.T) {
	svc, rdb := newCachedAssessmentService(t)
	form := publishedForm(t, svc)
	ctx := context.Background()
	key := "public_form:" + form.PublicSlug

	pf, err := svc.GetPublicForm(ctx, form.PublicSlug)
	require.NoError(t, err)
	assert.Equal(t, 1, pf.Version)

	cached, err := rdb.Get(ctx, key).Bytes()
	require.NoError(t, err)
	ttl, err := rdb.TTL(ctx, key).Result()
	require.NoError(t, err)
	assert.Equal(t, 10*time.Minute, ttl)

	// Prove the second fetch is served from the cache, not the database.
	var tampered PublicForm
	require.NoError(t, json.Unmarshal(cached, &tampered))
	tampered.Title = "From cache"
	raw, err := json.Marshal(tampered)
	require.NoError(t, err)
	require.NoError(t, rdb.Set(ctx, key, raw, 10*time.Minute).Err())

	pf, err = svc.GetPublicForm(ctx, form.PublicSlug)
	require.NoError(t, err)
	assert.Equal(t, "From cache", pf.Title)

	// A new version invalidates the entry; the next fetch reflects it.
	_, err = svc.CreateVersion(1, form.ID, 1, VersionRequest{Questions: riskQuestions()})
	require.NoError(t, err)

	pf, err = svc.GetPublicForm(ctx, form.PublicSlug)
	require.NoError(t, err)
	assert.Equal(t, 2, pf.Version)
	assert.Equal(t, "Risk profile", pf.Title)
}

func TestPublishInvalidatesPublicCache(t *testing.T) {
	svc, rdb := newCachedAssessmentService(t)
	form := publishedForm(t, svc)
	ctx := context.Background()
	key := "public_form:" + form.PublicSlug

	_, err := svc.GetPublicForm(ctx, form.PublicSlug)
	require.NoError(t, err)
	require.NoError(t, rdb.Get(ctx, key).Err())

	_, err = svc.PublishForm(1, form.ID)
	require.NoError(t, err)
	assert.ErrorIs(t, rdb.Get(ctx, key).Err(), redis.Nil)
}

func TestSubmissionPinnedToVersion(t *testing.T) {
	svc, _ := newAssessmentService(t)
	form := publishedForm(t, svc)

	sub, err := svc.SubmitPublic(context.Background(), form.PublicSlug, SubmitRequest{
		Answers: scoring.Answers{
			"horizon": scoring.Str("Under 1 year"),
			"loss":    scoring.Str("Sell everything"),
		},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, sub.Version)

	// A new version does not touch existing submissions.
	_, err = svc.CreateVersion(1, form.ID, 1, VersionRequest{Questions: riskQuestions()[:1]})
	require.NoError(t, err)

	detail, err := svc.GetSubmission(1, sub.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, detail.Submission.Version)
	assert.InDelta(t, 1.0, detail.Submission.Score, 1e-9)
}

func TestRecreateSubmission(t *testing.T) {
	svc, db := newAssessmentService(t)
	form := publishedForm(t, svc)

	original, err := svc.SubmitPublic(context.Background(), form.PublicSlug, SubmitRequest{
		Answers: scoring.Answers{
			"horizon": scoring.Str("1-3 years"),
			"loss":    scoring.Str("Buy more"),
		},
		RespondentName: "Meera",
	})
	require.NoError(t, err)

	// Simulate a corrupted evaluation.
	require.NoError(t, db.Model(&model.AssessmentSubmission{}).
		Where("id = ?", original.ID).
		Updates(map[string]interface{}{"score": 99.0, "bucket": "bogus"}).Error)

	recreated, err := svc.RecreateSubmission(1, original.ID)
	require.NoError(t, err)
	assert.NotEqual(t, original.ID, recreated.ID)
	assert.Equal(t, original.Score, recreated.Score)
	assert.Equal(t, original.Bucket, recreated.Bucket)
	assert.Equal(t, "Meera", recreated.RespondentName)
	assert.JSONEq(t, string(original.Answers), string(recreated.Answers))

	_, err = svc.GetSubmission(1, original.ID)
	assert.ErrorIs(t, err, util.ErrSubmissionNotFound)

	_, total, err := svc.ListSubmissions(1, form.ID, "", 1, 20)
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
}

func TestGenerateScoringDefault(t *testing.T) {
	svc, _ := newAssessmentService(t)

	cfg, err := svc.GenerateScoring(context.Background(), riskQuestions())
	require.NoError(t, err)
	assert.InDelta(t, 0.5, cfg.Weights["horizon"], 1e-9)
	assert.Equal(t, 3, cfg.Scoring["loss"]["Buy more"])

	_, err = svc.GenerateScoring(context.Background(), nil)
	assert.ErrorIs(t, err, util.ErrNoQuestions)
}

func TestVersionScoringOverride(t *testing.T) {
	svc, _ := newAssessmentService(t)
	form, err := svc.CreateForm(1, FormRequest{Title: "Risk profile"})
	require.NoError(t, err)

	override := scoring.CompileScoring(riskQuestions())
	override.Weights["horizon"] = 0.8
	override.Weights["loss"] = 0.2
	override.Reasoning = "horizon dominates"

	v, err := svc.CreateVersion(1, form.ID, 1, VersionRequest{
		Questions: riskQuestions(),
		Scoring:   &override,
	})
	require.NoError(t, err)

	var stored scoring.ScoringConfig
	require.NoError(t, json.Unmarshal(v.Scoring, &stored))
	assert.InDelta(t, 0.8, stored.Weights["horizon"], 1e-9)
	assert.Equal(t, "horizon dominates", stored.Reasoning)
}
