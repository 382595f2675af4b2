package models

import "time"

// BaseModel is gorm.Model without soft deletes: rows removed by the
// deletion cascade must really be gone.
type BaseModel struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
