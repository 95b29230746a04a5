package service

import (
	"errors"
	"fmt"
	"time"

	"mfd_crm_backend/internal/model"
	"mfd_crm_backend/internal/repository"
	"mfd_crm_backend/internal/util"

	"gorm.io/gorm"
)

type MeetingService struct {
	Repo     *repository.MeetingRepository
	LeadRepo *repository.LeadRepository
}

func NewMeetingService(repo *repository.MeetingRepository, leadRepo *repository.LeadRepository) *MeetingService {
	return &MeetingService{Repo: repo, LeadRepo: leadRepo}
}

type MeetingRequest struct {
	LeadID          uint      `json:"leadId" binding:"required"`
	Title           string    `json:"title" binding:"required"`
	Agenda          string    `json:"agenda"`
	ScheduledAt     time.Time `json:"scheduledAt" binding:"required"`
	DurationMinutes int       `json:"durationMinutes"`
	Location        string    `json:"location"`
}

func (s *MeetingService) Create(ownerID uint, req MeetingRequest) (*model.Meeting, error) {
	lead, err := s.LeadRepo.FindByID(req.LeadID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrLeadNotFound
	}
	if err != nil {
		return nil, err
	}
	if lead.OwnerID != ownerID {
		return nil, util.ErrPermissionDenied
	}

	duration := req.DurationMinutes
	if duration <= 0 {
		duration = 30
	}

	m := &model.Meeting{
		LeadID:          req.LeadID,
		OwnerID:         ownerID,
		Title:           req.Title,
		Agenda:          req.Agenda,
		ScheduledAt:     req.ScheduledAt,
		DurationMinutes: duration,
		Location:        req.Location,
		Status:          model.MeetingScheduled,
	}
	if err := s.Repo.Create(m); err != nil {
		return nil, err
	}
	return m, nil
}

func (s *MeetingService) Get(ownerID, id uint) (*model.Meeting, error) {
	m, err := s.Repo.FindByID(id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrMeetingNotFound
	}
	if err != nil {
		return nil, err
	}
	if m.OwnerID != ownerID {
		return nil, util.ErrPermissionDenied
	}
	return m, nil
}

func (s *MeetingService) List(ownerID uint, status string, leadID uint, page, limit int) ([]model.Meeting, int64, error) {
	return s.Repo.List(ownerID, status, leadID, page, limit)
}

type MeetingUpdateRequest struct {
	Title           string              `json:"title"`
	Agenda          string              `json:"agenda"`
	ScheduledAt     *time.Time          `json:"scheduledAt"`
	DurationMinutes int                 `json:"durationMinutes"`
	Location        string              `json:"location"`
	Status          model.MeetingStatus `json:"status"`
	OutcomeNotes    string              `json:"outcomeNotes"`
}

func (s *MeetingService) Update(ownerID, id uint, req MeetingUpdateRequest) (*model.Meeting, error) {
	m, err := s.Get(ownerID, id)
	if err != nil {
		return nil, err
	}

	if req.Title != "" {
		m.Title = req.Title
	}
	if req.Agenda != "" {
		m.Agenda = req.Agenda
	}
	if req.ScheduledAt != nil {
		m.ScheduledAt = *req.ScheduledAt
	}
	if req.DurationMinutes > 0 {
		m.DurationMinutes = req.DurationMinutes
	}
	if req.Location != "" {
		m.Location = req.Location
	}
	if req.Status != "" {
		switch req.Status {
		case model.MeetingScheduled, model.MeetingCompleted, model.MeetingCancelled:
			m.Status = req.Status
		default:
			return nil, fmt.Errorf("%w: %s", util.ErrInvalidStatus, req.Status)
		}
	}
	if req.OutcomeNotes != "" {
		m.OutcomeNotes = req.OutcomeNotes
	}

	if err := s.Repo.Update(m); err != nil {
		return nil, err
	}
	return m, nil
}

func (s *MeetingService) Delete(ownerID, id uint) error {
	if _, err := s.Get(ownerID, id); err != nil {
		return err
	}
	return s.Repo.Delete(id)
}

func (s *MeetingService) Upcoming(ownerID uint, limit int) ([]model.Meeting, error) {
	if limit <= 0 {
		limit = 5
	}
	return s.Repo.Upcoming(ownerID, limit)
}
