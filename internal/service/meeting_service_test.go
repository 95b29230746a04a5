package service

import (
	"testing"
	"time"

	"mfd_crm_backend/internal/model"
	"mfd_crm_backend/internal/repository"
	"mfd_crm_backend/internal/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newMeetingService(t *testing.T) (*MeetingService, *gorm.DB) {
	t.Helper()
	db := newTestDB(t)
	svc := NewMeetingService(repository.NewMeetingRepository(db), repository.NewLeadRepository(db))
	return svc, db
}

func TestMeetingLifecycle(t *testing.T) {
	svc, db := newMeetingService(t)

	lead := &model.Lead{OwnerID: 1, Name: "Ravi", Status: model.LeadNew}
	require.NoError(t, db.Create(lead).Error)

	when := time.Now().Add(48 * time.Hour)
	m, err := svc.Create(1, MeetingRequest{LeadID: lead.ID, Title: "Intro call", ScheduledAt: when})
	require.NoError(t, err)
	assert.Equal(t, model.MeetingScheduled, m.Status)
	assert.Equal(t, 30, m.DurationMinutes)

	done, err := svc.Update(1, m.ID, MeetingUpdateRequest{Status: model.MeetingCompleted, OutcomeNotes: "interested in ELSS"})
	require.NoError(t, err)
	assert.Equal(t, model.MeetingCompleted, done.Status)

	_, err = svc.Update(1, m.ID, MeetingUpdateRequest{Status: "postponed"})
	assert.Error(t, err)

	require.NoError(t, svc.Delete(1, m.ID))
	_, err = svc.Get(1, m.ID)
	assert.ErrorIs(t, err, util.ErrMeetingNotFound)
}

func TestMeetingRequiresOwnedLead(t *testing.T) {
	svc, db := newMeetingService(t)

	lead := &model.Lead{OwnerID: 1, Name: "Ravi", Status: model.LeadNew}
	require.NoError(t, db.Create(lead).Error)

	_, err := svc.Create(2, MeetingRequest{LeadID: lead.ID, Title: "Intro call", ScheduledAt: time.Now()})
	assert.ErrorIs(t, err, util.ErrPermissionDenied)

	_, err = svc.Create(1, MeetingRequest{LeadID: 404, Title: "Intro call", ScheduledAt: time.Now()})
	assert.ErrorIs(t, err, util.ErrLeadNotFound)
}

func TestUpcomingMeetings(t *testing.T) {
	svc, db := newMeetingService(t)

	lead := &model.Lead{OwnerID: 1, Name: "Ravi", Status: model.LeadNew}
	require.NoError(t, db.Create(lead).Error)

	past := time.Now().Add(-24 * time.Hour)
	future := time.Now().Add(24 * time.Hour)
	later := time.Now().Add(72 * time.Hour)

	_, err := svc.Create(1, MeetingRequest{LeadID: lead.ID, Title: "Past", ScheduledAt: past})
	require.NoError(t, err)
	_, err = svc.Create(1, MeetingRequest{LeadID: lead.ID, Title: "Soon", ScheduledAt: future})
	require.NoError(t, err)
	_, err = svc.Create(1, MeetingRequest{LeadID: lead.ID, Title: "Later", ScheduledAt: later})
	require.NoError(t, err)

	upcoming, err := svc.Upcoming(1, 5)
	require.NoError(t, err)
	require.Len(t, upcoming, 2)
	assert.Equal(t, "Soon", upcoming[0].Title)
}
