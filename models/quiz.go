package models

import "gorm.io/gorm"

type Quiz struct {
	gorm.Model
	CourseID     uint   `json:"course_id" gorm:"index;not null"`
	Title        string `json:"title" gorm:"not null"`
	PassingScore int    `json:"passing_score" gorm:"default:70"` // percentage
	Duration     int    `json:"duration" gorm:"default:30"`      // minutes

	Questions []QuizQuestion `json:"questions" gorm:"constraint:OnDelete:CASCADE"`
}

type QuizQuestion struct {
	gorm.Model
	QuizID        uint     `json:"quiz_id" gorm:"index;not null"`
	Question      string   `json:"question"`
	Options       []string `json:"options" gorm:"serializer:json"`
	CorrectAnswer int      `json:"correct_answer"` // index into Options
	Points        int      `json:"points" gorm:"default:1"`
	Position      int      `json:"position" gorm:"default:0"`
}
