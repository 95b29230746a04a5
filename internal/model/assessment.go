package model

import "encoding/json"

// swagger:model AssessmentForm
type AssessmentForm struct {
	BaseModel
	OwnerID uint  `gorm:"index;type:bigint unsigned;not null" json:"ownerId"`
	Owner   *User `gorm:"foreignKey:OwnerID" json:"owner,omitempty"`

	Title         string `gorm:"size:255;not null" json:"title"`
	Description   string `gorm:"type:text" json:"description"`
	PublicSlug    string `gorm:"size:36;uniqueIndex;not null" json:"publicSlug"`
	ActiveVersion int    `gorm:"default:0" json:"activeVersion"` // 0 until first version is created
	IsPublished   bool   `gorm:"default:false" json:"isPublished"`
}

func (AssessmentForm) TableName() string {
	return "assessment_forms"
}

// AssessmentVersion is an immutable snapshot of one compiled schema and one
// scoring configuration. Edits to a form always append a new version; rows
// are never updated after creation.
// swagger:model AssessmentVersion
type AssessmentVersion struct {
	BaseModel
	FormID   uint `gorm:"index:idx_form_version,unique;type:bigint unsigned;not null" json:"formId"`
	Version  int  `gorm:"index:idx_form_version,unique;not null" json:"version"`
	EditorID uint `gorm:"index;type:bigint unsigned" json:"editorId"`

	Questions json.RawMessage `gorm:"type:json;not null" json:"questions"`
	Schema    json.RawMessage `gorm:"type:json;not null" json:"schema"`
	Scoring   json.RawMessage `gorm:"type:json;not null" json:"scoring"`
}

func (AssessmentVersion) TableName() string {
	return "assessment_versions"
}

// swagger:model AssessmentSubmission
type AssessmentSubmission struct {
	UUIDBase
	FormID  uint `gorm:"index;type:bigint unsigned;not null" json:"formId"`
	Version int  `gorm:"not null" json:"version"`

	// Nil for anonymous public submissions not yet linked to a lead.
	LeadID          *uint  `gorm:"index;type:bigint unsigned" json:"leadId,omitempty"`
	RespondentName  string `gorm:"size:150" json:"respondentName"`
	RespondentEmail string `gorm:"size:150" json:"respondentEmail"`

	Answers json.RawMessage `gorm:"type:json;not null" json:"answers"`
	Score   float64         `json:"score"`
	Bucket  string          `gorm:"size:10;not null" json:"bucket"`
}

func (AssessmentSubmission) TableName() string {
	return "assessment_submissions"
}
