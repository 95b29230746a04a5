package service

import (
	"errors"
	"fmt"

	"mfd_crm_backend/internal/model"
	"mfd_crm_backend/internal/repository"
	"mfd_crm_backend/internal/util"

	"gorm.io/gorm"
)

type LeadService struct {
	Repo *repository.LeadRepository
}

func NewLeadService(repo *repository.LeadRepository) *LeadService {
	return &LeadService{Repo: repo}
}

type LeadRequest struct {
	Name              string `json:"name" binding:"required"`
	Email             string `json:"email"`
	Phone             string `json:"phone"`
	Source            string `json:"source"`
	InvestmentHorizon string `json:"investmentHorizon"`
	Notes             string `json:"notes"`
}

func (s *LeadService) Create(ownerID uint, req LeadRequest) (*model.Lead, error) {
	lead := &model.Lead{
		OwnerID:           ownerID,
		Name:              req.Name,
		Email:             req.Email,
		Phone:             req.Phone,
		Source:            req.Source,
		Status:            model.LeadNew,
		InvestmentHorizon: req.InvestmentHorizon,
		Notes:             req.Notes,
	}
	if err := s.Repo.Create(lead); err != nil {
		return nil, err
	}
	return lead, nil
}

// Get returns the lead only when it belongs to the requesting owner.
func (s *LeadService) Get(ownerID, id uint) (*model.Lead, error) {
	lead, err := s.Repo.FindByID(id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrLeadNotFound
	}
	if err != nil {
		return nil, err
	}
	if lead.OwnerID != ownerID {
		return nil, util.ErrPermissionDenied
	}
	return lead, nil
}

func (s *LeadService) List(ownerID uint, status, search string, page, limit int) ([]model.Lead, int64, error) {
	return s.Repo.List(ownerID, status, search, page, limit)
}

func (s *LeadService) Update(ownerID, id uint, req LeadRequest) (*model.Lead, error) {
	lead, err := s.Get(ownerID, id)
	if err != nil {
		return nil, err
	}

	lead.Name = req.Name
	lead.Email = req.Email
	lead.Phone = req.Phone
	lead.Source = req.Source
	lead.InvestmentHorizon = req.InvestmentHorizon
	lead.Notes = req.Notes

	if err := s.Repo.Update(lead); err != nil {
		return nil, err
	}
	return lead, nil
}

func (s *LeadService) Delete(ownerID, id uint) error {
	if _, err := s.Get(ownerID, id); err != nil {
		return err
	}
	return s.Repo.Delete(id)
}

var validLeadStatuses = map[model.LeadStatus]bool{
	model.LeadNew:       true,
	model.LeadContacted: true,
	model.LeadQualified: true,
	model.LeadConverted: true,
	model.LeadLost:      true,
}

func (s *LeadService) UpdateStatus(ownerID, id uint, status model.LeadStatus) (*model.Lead, error) {
	if !validLeadStatuses[status] {
		return nil, fmt.Errorf("%w: %s", util.ErrInvalidStatus, status)
	}

	lead, err := s.Get(ownerID, id)
	if err != nil {
		return nil, err
	}

	if err := s.Repo.UpdateStatus(lead.ID, status); err != nil {
		return nil, err
	}
	lead.Status = status
	return lead, nil
}
