package models

import (
	"time"

	"gorm.io/gorm"
)

// Discussion is one comment in a course thread. A nil ParentID marks a
// top-level comment; replies carry the parent's id. Replies to replies are
// rejected at write time, so the tree is at most two levels deep.
type Discussion struct {
	gorm.Model
	CourseID uint   `json:"course_id" gorm:"index;not null"`
	UserID   uint   `json:"user_id" gorm:"not null"`
	User     User   `json:"user" gorm:"foreignKey:UserID"`
	Content  string `json:"content" gorm:"type:varchar(2000);not null"`

	ParentID *uint      `json:"parent_id" gorm:"index"`
	IsEdited bool       `json:"is_edited" gorm:"default:false"`
	EditedAt *time.Time `json:"edited_at"`
	IsPinned bool       `json:"is_pinned" gorm:"default:false"`
}
