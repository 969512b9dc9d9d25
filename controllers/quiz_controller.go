package controllers

import (
	"errors"
	"fmt"
	"strconv"

	"eduplatform/config"
	"eduplatform/middleware"
	"eduplatform/models"
	"eduplatform/utils"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type QuizController struct {
	DB  *gorm.DB
	Cfg *config.Config
}

func NewQuizController(db *gorm.DB, cfg *config.Config) *QuizController {
	return &QuizController{DB: db, Cfg: cfg}
}

type QuizQuestionInput struct {
	Question      string   `json:"question"`
	Options       []string `json:"options"`
	CorrectAnswer int      `json:"correct_answer"`
	Points        int      `json:"points"`
}

type CreateQuizInput struct {
	CourseID     uint                `json:"courseId"`
	Title        string              `json:"title"`
	PassingScore int                 `json:"passing_score"`
	Duration     int                 `json:"duration"`
	Questions    []QuizQuestionInput `json:"questions"`
}

func (qc *QuizController) CreateQuiz(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)

	var input CreateQuizInput
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Cannot parse JSON")
	}
	if input.Title == "" || input.CourseID == 0 {
		return utils.BadRequest(c, "Course ID and title are required")
	}

	var course models.Course
	if err := qc.DB.First(&course, input.CourseID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.NotFound(c, "Course not found")
		}
		return utils.InternalServerError(c, "Could not query database")
	}
	if course.InstructorID != user.ID {
		return utils.Forbidden(c, "Not authorized to create a quiz for this course")
	}

	quiz := models.Quiz{
		CourseID:     course.ID,
		Title:        input.Title,
		PassingScore: input.PassingScore,
		Duration:     input.Duration,
	}
	if quiz.PassingScore == 0 {
		quiz.PassingScore = 70
	}
	if quiz.Duration == 0 {
		quiz.Duration = 30
	}

	for i, q := range input.Questions {
		points := q.Points
		if points == 0 {
			points = 1
		}
		quiz.Questions = append(quiz.Questions, models.QuizQuestion{
			Question:      q.Question,
			Options:       q.Options,
			CorrectAnswer: q.CorrectAnswer,
			Points:        points,
			Position:      i,
		})
	}

	if err := qc.DB.Create(&quiz).Error; err != nil {
		return utils.InternalServerError(c, "Could not create quiz")
	}

	return c.Status(fiber.StatusCreated).JSON(quiz)
}

func (qc *QuizController) GetQuizForCourse(c *fiber.Ctx) error {
	courseID, err := strconv.Atoi(c.Params("courseId"))
	if err != nil {
		return utils.BadRequest(c, "Invalid course ID")
	}

	var quiz models.Quiz
	err = qc.DB.Where("course_id = ?", courseID).
		Preload("Questions", orderByPosition).
		First(&quiz).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.NotFound(c, "Quiz not found")
		}
		return utils.InternalServerError(c, "Could not query database")
	}

	return c.JSON(quiz)
}

type SubmitQuizInput struct {
	Answers []int `json:"answers"` // selected option index per question
}

// SubmitQuiz grades the submitted answers against the stored key. Pure
// arithmetic over the question bank; attempts are not persisted.
func (qc *QuizController) SubmitQuiz(c *fiber.Ctx) error {
	quizID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return utils.BadRequest(c, "Invalid quiz ID")
	}

	var input SubmitQuizInput
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Cannot parse JSON")
	}

	var quiz models.Quiz
	err = qc.DB.Preload("Questions", orderByPosition).First(&quiz, quizID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.NotFound(c, "Quiz not found")
		}
		return utils.InternalServerError(c, "Could not query database")
	}

	score, totalPoints := ScoreQuiz(quiz.Questions, input.Answers)

	percentage := 0.0
	if totalPoints > 0 {
		percentage = float64(score) / float64(totalPoints) * 100
	}
	passed := percentage >= float64(quiz.PassingScore)

	return c.JSON(fiber.Map{
		"score":        score,
		"totalPoints":  totalPoints,
		"percentage":   fmt.Sprintf("%.2f", percentage),
		"passed":       passed,
		"passingScore": quiz.PassingScore,
	})
}

// ScoreQuiz awards each question's points when the answer at the same
// index matches the correct option. Missing answers score nothing.
func ScoreQuiz(questions []models.QuizQuestion, answers []int) (score, totalPoints int) {
	for i, question := range questions {
		totalPoints += question.Points
		if i < len(answers) && answers[i] == question.CorrectAnswer {
			score += question.Points
		}
	}
	return score, totalPoints
}
