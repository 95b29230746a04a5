package repository

import (
	"mfd_crm_backend/internal/model"

	"gorm.io/gorm"
)

type LeadRepository struct {
	DB *gorm.DB
}

func NewLeadRepository(db *gorm.DB) *LeadRepository {
	return &LeadRepository{DB: db}
}

func (r *LeadRepository) Create(lead *model.Lead) error {
	return r.DB.Create(lead).Error
}

func (r *LeadRepository) FindByID(id uint) (*model.Lead, error) {
	var l model.Lead
	err := r.DB.First(&l, id).Error
	return &l, err
}

// List returns the owner's leads, optionally filtered by status and a
// name/email/phone search term.
func (r *LeadRepository) List(ownerID uint, status, search string, page, limit int) ([]model.Lead, int64, error) {
	var leads []model.Lead
	var total int64

	query := r.DB.Model(&model.Lead{}).Where("owner_id = ?", ownerID)
	if status != "" {
		query = query.Where("status = ?", status)
	}
	if search != "" {
		like := "%" + search + "%"
		query = query.Where("name LIKE ? OR email LIKE ? OR phone LIKE ?", like, like, like)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	offset := (page - 1) * limit
	err := query.Order("created_at desc").Offset(offset).Limit(limit).Find(&leads).Error
	return leads, total, err
}

func (r *LeadRepository) Update(lead *model.Lead) error {
	return r.DB.Save(lead).Error
}

func (r *LeadRepository) Delete(id uint) error {
	return r.DB.Delete(&model.Lead{}, id).Error
}

func (r *LeadRepository) UpdateStatus(id uint, status model.LeadStatus) error {
	return r.DB.Model(&model.Lead{}).Where("id = ?", id).Update("status", status).Error
}

// SetAssessmentResult denormalizes the latest submission's bucket onto the
// lead row for list views.
func (r *LeadRepository) SetAssessmentResult(id uint, bucket string) error {
	return r.DB.Model(&model.Lead{}).Where("id = ?", id).Updates(map[string]interface{}{
		"assessment_done": true,
		"risk_bucket":     bucket,
	}).Error
}

func (r *LeadRepository) CountByStatus(ownerID uint) (map[string]int64, error) {
	type row struct {
		Status string
		Count  int64
	}
	var rows []row
	err := r.DB.Model(&model.Lead{}).
		Select("status, count(*) as count").
		Where("owner_id = ?", ownerID).
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	counts := make(map[string]int64, len(rows))
	for _, rw := range rows {
		counts[rw.Status] = rw.Count
	}
	return counts, nil
}
