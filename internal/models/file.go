package models

import "gorm.io/datatypes"

type File struct {
	BaseModel

	SavedPath    string         `gorm:"not null" json:"saved_path"`
	OriginalName string         `json:"original_name"`
	ContentType  string         `json:"content_type"`
	Size         int64          `json:"size"`
	Metadata     datatypes.JSON `json:"metadata,omitempty"`

	// Owner for profile images, nil for free-standing uploads
	UserID *uint `gorm:"index" json:"user_id,omitempty"`
}

// FileMetadata is the shape stored in File.Metadata
type FileMetadata struct {
	UploadedFromIP string `json:"uploaded_from_ip,omitempty"`
	Purpose        string `json:"purpose,omitempty"` // "profile_image" or "attachment"
}
