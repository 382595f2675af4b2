package models

import "time"

type AuthenticationToken struct {
	BaseModel

	AccessToken  string    `gorm:"type:text;not null;index" json:"-"`
	RefreshToken string    `gorm:"type:text;not null;index" json:"-"`
	AccessIP     string    `json:"access_ip"`
	UserID       uint      `gorm:"not null;index" json:"user_id"`
	ExpiresAt    time.Time `gorm:"not null;index" json:"expires_at"`

	// Relationships
	User User `gorm:"foreignKey:UserID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
}
