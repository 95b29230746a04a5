package model

type LeadStatus string

const (
	LeadNew       LeadStatus = "new"
	LeadContacted LeadStatus = "contacted"
	LeadQualified LeadStatus = "qualified"
	LeadConverted LeadStatus = "converted"
	LeadLost      LeadStatus = "lost"
)

// swagger:model Lead
type Lead struct {
	BaseModel
	OwnerID uint  `gorm:"index;type:bigint unsigned;not null" json:"ownerId"`
	Owner   *User `gorm:"foreignKey:OwnerID" json:"owner,omitempty"`

	Name              string     `gorm:"size:150;not null" json:"name"`
	Email             string     `gorm:"size:150" json:"email"`
	Phone             string     `gorm:"size:20" json:"phone"`
	Source            string     `gorm:"size:50" json:"source"` // referral, website, campaign, walk_in
	Status            LeadStatus `gorm:"type:varchar(20);default:'new';index" json:"status"`
	InvestmentHorizon string     `gorm:"size:50" json:"investmentHorizon"`
	Notes             string     `gorm:"type:text" json:"notes"`

	// Denormalized from the latest assessment submission for list views.
	AssessmentDone bool   `gorm:"default:false" json:"assessmentDone"`
	RiskBucket     string `gorm:"size:10" json:"riskBucket"`
}

func (Lead) TableName() string {
	return "leads"
}
