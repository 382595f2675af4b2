package models

import "time"

type User struct {
	BaseModel

	Username     string `gorm:"uniqueIndex;not null" json:"username"`
	PasswordHash string `gorm:"not null" json:"-"`

	Fullname          string     `json:"fullname"`
	Generation        int        `json:"generation"` // club generation the member joined in
	DateOfBirth       *time.Time `json:"date_of_birth,omitempty"`
	Department        string     `json:"department"`
	StudentNumber     string     `json:"student_number"`
	Email             string     `json:"email"`
	PhoneNumber       string     `json:"phone_number"`
	ProfileText       string     `json:"profile_text"`
	FavoriteComic     string     `json:"favorite_comic"`
	FavoriteCharacter string     `json:"favorite_character"`

	// Denormalized counters, maintained by the counters package only
	CommentsCount      int `gorm:"not null;default:0" json:"comments_count"`
	LikedCommentsCount int `gorm:"not null;default:0" json:"liked_comments_count"`
	NumberOfDocuments  int `gorm:"not null;default:0" json:"number_of_documents"`

	// Relationships
	ProfileImage *File `gorm:"foreignKey:UserID" json:"profile_image,omitempty"`
}
