package model

import (
	"time"

	"gorm.io/gorm"
)

type UserRole string

const (
	Distributor UserRole = "distributor"
	Admin       UserRole = "admin"
)

// swagger:model User
type User struct {
	BaseModel
	Name      string    `gorm:"size:100;not null" json:"name"`
	Email     string    `gorm:"size:100;unique;not null" json:"email"`
	Password  string    `gorm:"size:100;not null" json:"-"`
	Phone     string    `gorm:"size:20" json:"phone"`
	Role      UserRole  `gorm:"type:varchar(20);default:'distributor'" json:"role"`
	FirmName  string    `gorm:"size:150" json:"firmName"`
	ARNCode   string    `gorm:"size:30" json:"arnCode"` // AMFI registration number
	Disabled  bool      `gorm:"default:false" json:"disabled"`
	LastLogin time.Time `json:"lastLogin"`
	LastSeen  time.Time `json:"lastSeen"`
}

func (User) TableName() string {
	return "users"
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	now := time.Now()
	if u.LastLogin.IsZero() {
		u.LastLogin = now
	}
	if u.LastSeen.IsZero() {
		u.LastSeen = now
	}
	return nil
}
