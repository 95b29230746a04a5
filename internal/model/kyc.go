package model

import "encoding/json"

type KYCStatus string

const (
	KYCPending   KYCStatus = "pending"
	KYCSubmitted KYCStatus = "submitted"
	KYCVerified  KYCStatus = "verified"
	KYCRejected  KYCStatus = "rejected"
)

// swagger:model KYCRecord
type KYCRecord struct {
	BaseModel
	LeadID uint  `gorm:"uniqueIndex;type:bigint unsigned;not null" json:"leadId"`
	Lead   *Lead `gorm:"foreignKey:LeadID" json:"lead,omitempty"`

	PAN              string    `gorm:"size:10" json:"pan"`
	AadhaarLast4     string    `gorm:"size:4" json:"aadhaarLast4"`
	DateOfBirth      string    `gorm:"size:10" json:"dateOfBirth"` // YYYY-MM-DD
	Address          string    `gorm:"type:text" json:"address"`
	Occupation       string    `gorm:"size:100" json:"occupation"`
	AnnualIncomeBand string    `gorm:"size:30" json:"annualIncomeBand"`
	Status           KYCStatus `gorm:"type:varchar(20);default:'pending';index" json:"status"`
	Remarks          string    `gorm:"type:text" json:"remarks"`

	// Object keys of uploaded proof documents in the storage bucket.
	// Only names are tracked here, never file contents.
	Documents json.RawMessage `gorm:"type:json" json:"documents,omitempty"`
}

func (KYCRecord) TableName() string {
	return "kyc_records"
}

type KYCDocument struct {
	DisplayName string `json:"displayName"`
	ObjectKey   string `json:"objectKey"`
	ContentType string `json:"contentType"`
}
