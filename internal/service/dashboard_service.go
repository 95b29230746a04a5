package service

import (
	"mfd_crm_backend/internal/model"
	"mfd_crm_backend/internal/repository"
)

type DashboardService struct {
	LeadRepo       *repository.LeadRepository
	MeetingRepo    *repository.MeetingRepository
	KYCRepo        *repository.KYCRepository
	AssessmentRepo *repository.AssessmentRepository
}

func NewDashboardService(leadRepo *repository.LeadRepository, meetingRepo *repository.MeetingRepository, kycRepo *repository.KYCRepository, assessmentRepo *repository.AssessmentRepository) *DashboardService {
	return &DashboardService{
		LeadRepo:       leadRepo,
		MeetingRepo:    meetingRepo,
		KYCRepo:        kycRepo,
		AssessmentRepo: assessmentRepo,
	}
}

type Dashboard struct {
	LeadsByStatus       map[string]int64 `json:"leadsByStatus"`
	SubmissionsByBucket map[string]int64 `json:"submissionsByBucket"`
	UpcomingMeetings    []model.Meeting  `json:"upcomingMeetings"`
	PendingKYCCount     int64            `json:"pendingKycCount"`
}

func (s *DashboardService) GetDashboard(ownerID uint) (*Dashboard, error) {
	leads, err := s.LeadRepo.CountByStatus(ownerID)
	if err != nil {
		return nil, err
	}

	buckets, err := s.AssessmentRepo.CountSubmissionsByBucket(ownerID)
	if err != nil {
		return nil, err
	}

	meetings, err := s.MeetingRepo.Upcoming(ownerID, 5)
	if err != nil {
		return nil, err
	}

	pendingKYC, err := s.KYCRepo.CountPendingForOwner(ownerID)
	if err != nil {
		return nil, err
	}

	return &Dashboard{
		LeadsByStatus:       leads,
		SubmissionsByBucket: buckets,
		UpcomingMeetings:    meetings,
		PendingKYCCount:     pendingKYC,
	}, nil
}
