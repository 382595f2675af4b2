package models

type Comment struct {
	BaseModel

	Content        string `gorm:"type:text;not null" json:"content"`
	AuthorID       uint   `gorm:"not null;index" json:"author_id"`
	RootDocumentID uint   `gorm:"not null;index" json:"root_document_id"`
	RootCommentID  *uint  `gorm:"index" json:"root_comment_id,omitempty"` // set only on replies

	// Relationships
	Author       User      `gorm:"foreignKey:AuthorID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"author"`
	RootDocument *Document `gorm:"foreignKey:RootDocumentID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"root_document,omitempty"`
	RootComment  *Comment  `gorm:"foreignKey:RootCommentID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"root_comment,omitempty"`
	Replies      []Comment `gorm:"foreignKey:RootCommentID" json:"replies,omitempty"`
	LikedUsers   []User    `gorm:"many2many:comment_liked_users;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"liked_users,omitempty"`
}
