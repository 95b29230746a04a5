package service

import (
	"context"
	"testing"
	"time"

	"mfd_crm_backend/internal/config"
	"mfd_crm_backend/internal/model"
	"mfd_crm_backend/internal/repository"
	"mfd_crm_backend/internal/scoring"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetDashboard(t *testing.T) {
	db := newTestDB(t)

	leadRepo := repository.NewLeadRepository(db)
	meetingRepo := repository.NewMeetingRepository(db)
	kycRepo := repository.NewKYCRepository(db)
	assessmentRepo := repository.NewAssessmentRepository(db)

	cfg := &config.Config{}
	cfg.Redis.FormCacheTTLMinutes = 10
	assessmentSvc := NewAssessmentService(assessmentRepo, leadRepo, nil, DefaultScoringGenerator{}, cfg)
	svc := NewDashboardService(leadRepo, meetingRepo, kycRepo, assessmentRepo)

	leads := []*model.Lead{
		{OwnerID: 1, Name: "Arun", Status: model.LeadNew},
		{OwnerID: 1, Name: "Bala", Status: model.LeadQualified},
		{OwnerID: 1, Name: "Chitra", Status: model.LeadQualified},
		{OwnerID: 2, Name: "Dinesh", Status: model.LeadNew},
	}
	for _, l := range leads {
		require.NoError(t, db.Create(l).Error)
	}

	require.NoError(t, db.Create(&model.Meeting{
		OwnerID: 1, LeadID: leads[0].ID, Title: "Review",
		ScheduledAt: time.Now().Add(24 * time.Hour),
		Status:      model.MeetingScheduled, DurationMinutes: 30,
	}).Error)

	require.NoError(t, db.Create(&model.KYCRecord{
		LeadID: leads[0].ID, PAN: "ABCDE1234F", Status: model.KYCPending,
	}).Error)

	form := publishedForm(t, assessmentSvc)
	_, err := assessmentSvc.SubmitPublic(context.Background(), form.PublicSlug, SubmitRequest{
		Answers: scoring.Answers{
			"horizon": scoring.Str("1-3 years"),
			"loss":    scoring.Str("Hold"),
		},
	})
	require.NoError(t, err)

	dash, err := svc.GetDashboard(1)
	require.NoError(t, err)
	assert.EqualValues(t, 1, dash.LeadsByStatus["new"])
	assert.EqualValues(t, 2, dash.LeadsByStatus["qualified"])
	assert.EqualValues(t, 1, dash.SubmissionsByBucket["low"])
	assert.Len(t, dash.UpcomingMeetings, 1)
	assert.EqualValues(t, 1, dash.PendingKYCCount)

	// Owner 2 sees only their own numbers.
	other, err := svc.GetDashboard(2)
	require.NoError(t, err)
	assert.EqualValues(t, 1, other.LeadsByStatus["new"])
	assert.Empty(t, other.SubmissionsByBucket)
	assert.Zero(t, other.PendingKYCCount)
}
