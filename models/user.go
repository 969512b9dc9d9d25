package models

import (
	"time"

	"gorm.io/gorm"
)

const (
	RoleStudent = "student"
	RoleTeacher = "teacher"
	RoleAdmin   = "admin"
)

type User struct {
	gorm.Model
	Name     string `json:"name" gorm:"not null"`
	Email    string `json:"email" gorm:"unique;not null"`
	Password string `json:"-" gorm:"not null"`
	Role     string `json:"role" gorm:"default:student"` // student, teacher, admin
	Bio      string `json:"bio"`
	Photo    string `json:"photo" gorm:"default:'https://via.placeholder.com/150'"`

	// Students are approved at registration; teachers stay unapproved
	// until an admin reviews them. No column default here: GORM would
	// skip a zero-value field on insert and the default would win over
	// the false we set for teachers.
	IsVerified bool `json:"is_verified" gorm:"default:false"`
	IsApproved bool `json:"is_approved"`

	VerificationCode       string     `json:"-"`
	VerificationCodeExpire *time.Time `json:"-"`
}

// PublicProfile is the subset of user fields safe to embed in joined
// responses (course instructor, comment author, enrolled student).
func (u *User) PublicProfile() map[string]interface{} {
	return map[string]interface{}{
		"id":    u.ID,
		"name":  u.Name,
		"email": u.Email,
		"photo": u.Photo,
		"role":  u.Role,
	}
}
