package repository

import (
	"mfd_crm_backend/internal/model"

	"gorm.io/gorm"
)

type KYCRepository struct {
	DB *gorm.DB
}

func NewKYCRepository(db *gorm.DB) *KYCRepository {
	return &KYCRepository{DB: db}
}

func (r *KYCRepository) Create(rec *model.KYCRecord) error {
	return r.DB.Create(rec).Error
}

func (r *KYCRepository) FindByID(id uint) (*model.KYCRecord, error) {
	var rec model.KYCRecord
	err := r.DB.Preload("Lead").First(&rec, id).Error
	return &rec, err
}

func (r *KYCRepository) FindByLead(leadID uint) (*model.KYCRecord, error) {
	var rec model.KYCRecord
	err := r.DB.Where("lead_id = ?", leadID).First(&rec).Error
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

func (r *KYCRepository) Update(rec *model.KYCRecord) error {
	return r.DB.Save(rec).Error
}

func (r *KYCRepository) ListByStatus(status model.KYCStatus, page, limit int) ([]model.KYCRecord, int64, error) {
	var recs []model.KYCRecord
	var total int64

	query := r.DB.Model(&model.KYCRecord{})
	if status != "" {
		query = query.Where("status = ?", status)
	}
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	offset := (page - 1) * limit
	err := query.Preload("Lead").Order("created_at desc").Offset(offset).Limit(limit).Find(&recs).Error
	return recs, total, err
}

func (r *KYCRepository) CountPendingForOwner(ownerID uint) (int64, error) {
	var count int64
	err := r.DB.Model(&model.KYCRecord{}).
		Joins("JOIN leads ON leads.id = kyc_records.lead_id").
		Where("leads.owner_id = ? AND kyc_records.status IN ?", ownerID,
			[]model.KYCStatus{model.KYCPending, model.KYCSubmitted}).
		Count(&count).Error
	return count, err
}
