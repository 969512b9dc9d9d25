package models

import "gorm.io/gorm"

// CourseCategories is the closed set of catalog categories.
var CourseCategories = map[string]bool{
	"AI":                 true,
	"Data Science":       true,
	"Web Development":    true,
	"Mobile Development": true,
	"Cybersecurity":      true,
	"Cloud Computing":    true,
	"Other":              true,
}

// CourseDifficulties is the closed set of difficulty labels.
var CourseDifficulties = map[string]bool{
	"Beginner":     true,
	"Intermediate": true,
	"Advanced":     true,
}

type Course struct {
	gorm.Model
	Title        string `json:"title" gorm:"not null"`
	Description  string `json:"description" gorm:"not null"`
	Category     string `json:"category" gorm:"not null"`
	Difficulty   string `json:"difficulty" gorm:"default:Beginner"`
	InstructorID uint   `json:"instructor_id" gorm:"index;not null"`
	Instructor   User   `json:"instructor" gorm:"foreignKey:InstructorID"`
	Thumbnail    string `json:"thumbnail" gorm:"default:'https://via.placeholder.com/400x300'"`
	Duration     string `json:"duration"` // e.g. "6 weeks", "3 months"

	// Courses are hidden from the public catalog until an admin approves
	// them; any instructor edit clears the flag again.
	IsApproved bool `json:"is_approved" gorm:"default:false"`

	EnrollmentCount int     `json:"enrollment_count" gorm:"default:0"`
	Rating          float64 `json:"rating" gorm:"default:0"`

	Sections []Section `json:"sections" gorm:"constraint:OnDelete:CASCADE"`
	Reviews  []Review  `json:"reviews,omitempty" gorm:"constraint:OnDelete:CASCADE"`
}

type Section struct {
	gorm.Model
	CourseID uint   `json:"course_id" gorm:"index;not null"`
	Title    string `json:"title"`
	Position int    `json:"position" gorm:"default:0"`

	Lectures []Lecture `json:"lectures" gorm:"constraint:OnDelete:CASCADE"`
}

type Lecture struct {
	gorm.Model
	SectionID   uint              `json:"section_id" gorm:"index;not null"`
	Title       string            `json:"title"`
	Description string            `json:"description"`
	VideoURL    string            `json:"video_url"`
	Documents   []LectureDocument `json:"documents" gorm:"serializer:json"`
	Content     string            `json:"content" gorm:"type:text"`
	Duration    string            `json:"duration"`
	Position    int               `json:"position" gorm:"default:0"`
	IsPreview   bool              `json:"is_preview" gorm:"default:false"`
}

// LectureDocument is a downloadable attachment on a lecture.
type LectureDocument struct {
	URL   string `json:"url"`
	Label string `json:"label"`
}

type Review struct {
	gorm.Model
	CourseID  uint   `json:"course_id" gorm:"index;not null"`
	StudentID uint   `json:"student_id" gorm:"not null"`
	Student   User   `json:"student" gorm:"foreignKey:StudentID"`
	Rating    int    `json:"rating"`
	Comment   string `json:"comment"`
}

// TotalLectures counts lectures across all sections.
func (c *Course) TotalLectures() int {
	total := 0
	for _, s := range c.Sections {
		total += len(s.Lectures)
	}
	return total
}
