package repository

import (
	"mfd_crm_backend/internal/model"

	"gorm.io/gorm"
)

type AssessmentRepository struct {
	DB *gorm.DB
}

func NewAssessmentRepository(db *gorm.DB) *AssessmentRepository {
	return &AssessmentRepository{DB: db}
}

// Forms

func (r *AssessmentRepository) CreateForm(f *model.AssessmentForm) error {
	return r.DB.Create(f).Error
}

func (r *AssessmentRepository) FindFormByID(id uint) (*model.AssessmentForm, error) {
	var f model.AssessmentForm
	err := r.DB.First(&f, id).Error
	return &f, err
}

func (r *AssessmentRepository) FindFormBySlug(slug string) (*model.AssessmentForm, error) {
	var f model.AssessmentForm
	err := r.DB.Where("public_slug = ?", slug).First(&f).Error
	if err != nil {
		return nil, err
	}
	return &f, nil
}

func (r *AssessmentRepository) ListForms(ownerID uint, page, limit int) ([]model.AssessmentForm, int64, error) {
	var forms []model.AssessmentForm
	var total int64
	query := r.DB.Model(&model.AssessmentForm{}).Where("owner_id = ?", ownerID)
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	offset := (page - 1) * limit
	err := query.Order("created_at desc").Offset(offset).Limit(limit).Find(&forms).Error
	return forms, total, err
}

func (r *AssessmentRepository) UpdateForm(f *model.AssessmentForm) error {
	return r.DB.Save(f).Error
}

// Versions. Rows are append-only: there is deliberately no UpdateVersion.

// CreateVersion persists a new version and bumps the form's active version
// in one transaction, so the version counter can never skip or repeat.
func (r *AssessmentRepository) CreateVersion(v *model.AssessmentVersion) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		var latest int64
		err := tx.Model(&model.AssessmentVersion{}).
			Where("form_id = ?", v.FormID).
			Select("COALESCE(MAX(version), 0)").
			Scan(&latest).Error
		if err != nil {
			return err
		}
		v.Version = int(latest) + 1

		if err := tx.Create(v).Error; err != nil {
			return err
		}

		return tx.Model(&model.AssessmentForm{}).
			Where("id = ?", v.FormID).
			Update("active_version", v.Version).Error
	})
}

func (r *AssessmentRepository) FindVersion(formID uint, version int) (*model.AssessmentVersion, error) {
	var v model.AssessmentVersion
	err := r.DB.Where("form_id = ? AND version = ?", formID, version).First(&v).Error
	if err != nil {
		return nil, err
	}
	return &v, nil
}

func (r *AssessmentRepository) ListVersions(formID uint) ([]model.AssessmentVersion, error) {
	var versions []model.AssessmentVersion
	err := r.DB.Where("form_id = ?", formID).Order("version desc").Find(&versions).Error
	return versions, err
}

// Submissions

func (r *AssessmentRepository) CreateSubmission(s *model.AssessmentSubmission) error {
	return r.DB.Create(s).Error
}

func (r *AssessmentRepository) FindSubmissionByID(id string) (*model.AssessmentSubmission, error) {
	var s model.AssessmentSubmission
	err := r.DB.Where("id = ?", id).First(&s).Error
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *AssessmentRepository) ListSubmissions(ownerID, formID uint, bucket string, page, limit int) ([]model.AssessmentSubmission, int64, error) {
	var subs []model.AssessmentSubmission
	var total int64

	query := r.DB.Model(&model.AssessmentSubmission{}).
		Joins("JOIN assessment_forms ON assessment_forms.id = assessment_submissions.form_id").
		Where("assessment_forms.owner_id = ?", ownerID)
	if formID > 0 {
		query = query.Where("assessment_submissions.form_id = ?", formID)
	}
	if bucket != "" {
		query = query.Where("assessment_submissions.bucket = ?", bucket)
	}
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	offset := (page - 1) * limit
	err := query.Order("assessment_submissions.created_at desc").Offset(offset).Limit(limit).Find(&subs).Error
	return subs, total, err
}

func (r *AssessmentRepository) DeleteSubmission(id string) error {
	return r.DB.Where("id = ?", id).Delete(&model.AssessmentSubmission{}).Error
}

func (r *AssessmentRepository) CountSubmissionsByBucket(ownerID uint) (map[string]int64, error) {
	type row struct {
		Bucket string
		Count  int64
	}
	var rows []row
	err := r.DB.Model(&model.AssessmentSubmission{}).
		Select("assessment_submissions.bucket, count(*) as count").
		Joins("JOIN assessment_forms ON assessment_forms.id = assessment_submissions.form_id").
		Where("assessment_forms.owner_id = ?", ownerID).
		Group("assessment_submissions.bucket").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	counts := make(map[string]int64, len(rows))
	for _, rw := range rows {
		counts[rw.Bucket] = rw.Count
	}
	return counts, nil
}
