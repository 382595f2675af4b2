package models

type Document struct {
	BaseModel

	Title    string `json:"title"`
	Text     string `gorm:"type:text;not null" json:"text"`
	AuthorID uint   `gorm:"not null;index" json:"author_id"`

	// Relationships
	Author     User      `gorm:"foreignKey:AuthorID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"author"`
	Comments   []Comment `gorm:"foreignKey:RootDocumentID" json:"comments,omitempty"`
	LikedUsers []User    `gorm:"many2many:document_liked_users;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"liked_users,omitempty"`
}
