package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"

	"mfd_crm_backend/internal/model"
	"mfd_crm_backend/internal/repository"
	"mfd_crm_backend/internal/util"

	"gorm.io/gorm"
)

type KYCService struct {
	Repo     *repository.KYCRepository
	LeadRepo *repository.LeadRepository
	Storage  *StorageService
}

func NewKYCService(repo *repository.KYCRepository, leadRepo *repository.LeadRepository, storage *StorageService) *KYCService {
	return &KYCService{Repo: repo, LeadRepo: leadRepo, Storage: storage}
}

type KYCRequest struct {
	PAN              string `json:"pan"`
	AadhaarLast4     string `json:"aadhaarLast4"`
	DateOfBirth      string `json:"dateOfBirth"`
	Address          string `json:"address"`
	Occupation       string `json:"occupation"`
	AnnualIncomeBand string `json:"annualIncomeBand"`
}

func (s *KYCService) leadForOwner(ownerID, leadID uint) (*model.Lead, error) {
	lead, err := s.LeadRepo.FindByID(leadID)
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

func (s *KYCService) Create(ownerID, leadID uint, req KYCRequest) (*model.KYCRecord, error) {
	if _, err := s.leadForOwner(ownerID, leadID); err != nil {
		return nil, err
	}

	if existing, err := s.Repo.FindByLead(leadID); err == nil && existing != nil {
		return nil, util.ErrKYCAlreadyExists
	}

	rec := &model.KYCRecord{
		LeadID:           leadID,
		PAN:              req.PAN,
		AadhaarLast4:     req.AadhaarLast4,
		DateOfBirth:      req.DateOfBirth,
		Address:          req.Address,
		Occupation:       req.Occupation,
		AnnualIncomeBand: req.AnnualIncomeBand,
		Status:           model.KYCPending,
	}
	if err := s.Repo.Create(rec); err != nil {
		return nil, err
	}
	return rec, nil
}

func (s *KYCService) GetByLead(ownerID, leadID uint) (*model.KYCRecord, error) {
	if _, err := s.leadForOwner(ownerID, leadID); err != nil {
		return nil, err
	}

	rec, err := s.Repo.FindByLead(leadID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrKYCNotFound
	}
	if err != nil {
		return nil, err
	}
	return rec, nil
}

func (s *KYCService) Update(ownerID, leadID uint, req KYCRequest) (*model.KYCRecord, error) {
	rec, err := s.GetByLead(ownerID, leadID)
	if err != nil {
		return nil, err
	}

	rec.PAN = req.PAN
	rec.AadhaarLast4 = req.AadhaarLast4
	rec.DateOfBirth = req.DateOfBirth
	rec.Address = req.Address
	rec.Occupation = req.Occupation
	rec.AnnualIncomeBand = req.AnnualIncomeBand
	rec.Status = model.KYCSubmitted

	if err := s.Repo.Update(rec); err != nil {
		return nil, err
	}
	return rec, nil
}

// AttachDocument uploads one proof document and records its object key on
// the KYC record. Only the display name and key are stored.
func (s *KYCService) AttachDocument(ctx context.Context, ownerID, kycID uint, displayName, contentType string, reader io.Reader, size int64) (*model.KYCRecord, error) {
	rec, err := s.recordForOwner(ownerID, kycID)
	if err != nil {
		return nil, err
	}

	objectKey, err := s.Storage.Upload(ctx, displayName, reader, size, contentType)
	if err != nil {
		return nil, err
	}

	var docs []model.KYCDocument
	if len(rec.Documents) > 0 {
		if err := json.Unmarshal(rec.Documents, &docs); err != nil {
			return nil, err
		}
	}
	docs = append(docs, model.KYCDocument{
		DisplayName: displayName,
		ObjectKey:   objectKey,
		ContentType: contentType,
	})

	raw, err := json.Marshal(docs)
	if err != nil {
		return nil, err
	}
	rec.Documents = raw

	if err := s.Repo.Update(rec); err != nil {
		return nil, err
	}
	return rec, nil
}

func (s *KYCService) recordForOwner(ownerID, kycID uint) (*model.KYCRecord, error) {
	rec, err := s.Repo.FindByID(kycID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrKYCNotFound
	}
	if err != nil {
		return nil, err
	}
	if _, err := s.leadForOwner(ownerID, rec.LeadID); err != nil {
		return nil, err
	}
	return rec, nil
}

// DocumentURL returns a short-lived download link for one stored document.
func (s *KYCService) DocumentURL(ctx context.Context, ownerID, kycID uint, objectKey string) (string, error) {
	rec, err := s.recordForOwner(ownerID, kycID)
	if err != nil {
		return "", err
	}

	if _, _, err := findDocument(rec, objectKey); err != nil {
		return "", err
	}
	return s.Storage.PresignedURL(ctx, objectKey, 15*time.Minute)
}

// RemoveDocument deletes a stored document and drops it from the record.
func (s *KYCService) RemoveDocument(ctx context.Context, ownerID, kycID uint, objectKey string) (*model.KYCRecord, error) {
	rec, err := s.recordForOwner(ownerID, kycID)
	if err != nil {
		return nil, err
	}

	docs, idx, err := findDocument(rec, objectKey)
	if err != nil {
		return nil, err
	}

	if err := s.Storage.Delete(ctx, objectKey); err != nil {
		return nil, err
	}

	docs = append(docs[:idx], docs[idx+1:]...)
	raw, err := json.Marshal(docs)
	if err != nil {
		return nil, err
	}
	rec.Documents = raw

	if err := s.Repo.Update(rec); err != nil {
		return nil, err
	}
	return rec, nil
}

func findDocument(rec *model.KYCRecord, objectKey string) ([]model.KYCDocument, int, error) {
	var docs []model.KYCDocument
	if len(rec.Documents) > 0 {
		if err := json.Unmarshal(rec.Documents, &docs); err != nil {
			return nil, 0, err
		}
	}
	for i, d := range docs {
		if d.ObjectKey == objectKey {
			return docs, i, nil
		}
	}
	return nil, 0, util.ErrKYCNotFound
}

type KYCStatusRequest struct {
	Status  model.KYCStatus `json:"status" binding:"required"`
	Remarks string          `json:"remarks"`
}

// SetStatus is the verification step, restricted to admins at the route
// level.
func (s *KYCService) SetStatus(kycID uint, req KYCStatusRequest) (*model.KYCRecord, error) {
	switch req.Status {
	case model.KYCPending, model.KYCSubmitted, model.KYCVerified, model.KYCRejected:
	default:
		return nil, fmt.Errorf("%w: %s", util.ErrInvalidStatus, req.Status)
	}

	rec, err := s.Repo.FindByID(kycID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrKYCNotFound
	}
	if err != nil {
		return nil, err
	}

	rec.Status = req.Status
	rec.Remarks = req.Remarks
	if err := s.Repo.Update(rec); err != nil {
		return nil, err
	}
	return rec, nil
}

func (s *KYCService) ListByStatus(status model.KYCStatus, page, limit int) ([]model.KYCRecord, int64, error) {
	return s.Repo.ListByStatus(status, page, limit)
}
