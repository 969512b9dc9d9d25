package models

import (
	"time"

	"gorm.io/gorm"
)

// LectureRef addresses a lecture by its position within the course
// curriculum: section index first, lecture index within that section.
type LectureRef struct {
	SectionIndex int `json:"sectionIndex"`
	LectureIndex int `json:"lectureIndex"`
}

// Enrollment binds one student to one course and tracks completion state.
// The composite unique index is the real duplicate-enrollment guard; the
// handler's existence pre-check only produces a friendlier message.
type Enrollment struct {
	gorm.Model
	StudentID uint   `json:"student_id" gorm:"not null;uniqueIndex:idx_enrollment_student_course"`
	CourseID  uint   `json:"course_id" gorm:"not null;uniqueIndex:idx_enrollment_student_course"`
	Student   User   `json:"student,omitempty" gorm:"foreignKey:StudentID"`
	Course    Course `json:"course,omitempty" gorm:"foreignKey:CourseID"`

	Progress          int          `json:"progress" gorm:"default:0"` // 0-100
	CompletedLectures []LectureRef `json:"completed_lectures" gorm:"serializer:json"`
	EnrolledAt        time.Time    `json:"enrolled_at"`
	CompletedAt       *time.Time   `json:"completed_at"`
	CertificateIssued bool         `json:"certificate_issued" gorm:"default:false"`

	LastAccessedLecture *LectureRef `json:"last_accessed_lecture" gorm:"serializer:json"`
}
