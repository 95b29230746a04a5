package model

import "time"

type MeetingStatus string

const (
	MeetingScheduled MeetingStatus = "scheduled"
	MeetingCompleted MeetingStatus = "completed"
	MeetingCancelled MeetingStatus = "cancelled"
)

// swagger:model Meeting
type Meeting struct {
	BaseModel
	LeadID  uint  `gorm:"index;type:bigint unsigned;not null" json:"leadId"`
	Lead    *Lead `gorm:"foreignKey:LeadID" json:"lead,omitempty"`
	OwnerID uint  `gorm:"index;type:bigint unsigned;not null" json:"ownerId"`

	Title           string        `gorm:"size:255;not null" json:"title"`
	Agenda          string        `gorm:"type:text" json:"agenda"`
	ScheduledAt     time.Time     `gorm:"index;not null" json:"scheduledAt"`
	DurationMinutes int           `gorm:"default:30" json:"durationMinutes"`
	Location        string        `gorm:"size:255" json:"location"` // address or meeting link
	Status          MeetingStatus `gorm:"type:varchar(20);default:'scheduled';index" json:"status"`
	OutcomeNotes    string        `gorm:"type:text" json:"outcomeNotes"`
}

func (Meeting) TableName() string {
	return "meetings"
}
