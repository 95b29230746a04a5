package repository

import (
	"time"

	"mfd_crm_backend/internal/model"

	"gorm.io/gorm"
)

type MeetingRepository struct {
	DB *gorm.DB
}

func NewMeetingRepository(db *gorm.DB) *MeetingRepository {
	return &MeetingRepository{DB: db}
}

func (r *MeetingRepository) Create(m *model.Meeting) error {
	return r.DB.Create(m).Error
}

func (r *MeetingRepository) FindByID(id uint) (*model.Meeting, error) {
	var m model.Meeting
	err := r.DB.Preload("Lead").First(&m, id).Error
	return &m, err
}

func (r *MeetingRepository) List(ownerID uint, status string, leadID uint, page, limit int) ([]model.Meeting, int64, error) {
	var meetings []model.Meeting
	var total int64

	query := r.DB.Model(&model.Meeting{}).Where("owner_id = ?", ownerID)
	if status != "" {
		query = query.Where("status = ?", status)
	}
	if leadID > 0 {
		query = query.Where("lead_id = ?", leadID)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	offset := (page - 1) * limit
	err := query.Preload("Lead").Order("scheduled_at asc").Offset(offset).Limit(limit).Find(&meetings).Error
	return meetings, total, err
}

func (r *MeetingRepository) Update(m *model.Meeting) error {
	return r.DB.Save(m).Error
}

func (r *MeetingRepository) Delete(id uint) error {
	return r.DB.Delete(&model.Meeting{}, id).Error
}

// Upcoming returns the owner's next scheduled meetings from now on.
func (r *MeetingRepository) Upcoming(ownerID uint, limit int) ([]model.Meeting, error) {
	var meetings []model.Meeting
	err := r.DB.Preload("Lead").
		Where("owner_id = ? AND status = ? AND scheduled_at >= ?", ownerID, model.MeetingScheduled, time.Now()).
		Order("scheduled_at asc").
		Limit(limit).
		Find(&meetings).Error
	return meetings, err
}

func (r *MeetingRepository) CountUpcoming(ownerID uint) (int64, error) {
	var count int64
	err := r.DB.Model(&model.Meeting{}).
		Where("owner_id = ? AND status = ? AND scheduled_at >= ?", ownerID, model.MeetingScheduled, time.Now()).
		Count(&count).Error
	return count, err
}
