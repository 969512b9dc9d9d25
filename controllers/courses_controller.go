package controllers

import (
	"errors"
	"strconv"
	"strings"

	"eduplatform/config"
	"eduplatform/middleware"
	"eduplatform/models"
	"eduplatform/utils"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type CoursesController struct {
	DB  *gorm.DB
	Cfg *config.Config
}

func NewCoursesController(db *gorm.DB, cfg *config.Config) *CoursesController {
	return &CoursesController{DB: db, Cfg: cfg}
}

type LectureInput struct {
	Title       string                   `json:"title"`
	Description string                   `json:"description"`
	VideoURL    string                   `json:"video_url"`
	Documents   []models.LectureDocument `json:"documents"`
	Content     string                   `json:"content"`
	Duration    string                   `json:"duration"`
	IsPreview   bool                     `json:"is_preview"`
}

type SectionInput struct {
	Title    string         `json:"title"`
	Lectures []LectureInput `json:"lectures"`
}

type CourseInput struct {
	Title       string         `json:"title"`
	Description string         `json:"description"`
	Category    string         `json:"category"`
	Difficulty  string         `json:"difficulty"`
	Thumbnail   string         `json:"thumbnail"`
	Duration    string         `json:"duration"`
	Sections    []SectionInput `json:"sections"`
}

// ListCourses returns the public catalog: approved courses only, with
// optional category/difficulty filters and a case-insensitive substring
// search over title and description.
func (cc *CoursesController) ListCourses(c *fiber.Ctx) error {
	query := cc.DB.Model(&models.Course{}).Where("is_approved = ?", true)

	if category := c.Query("category"); category != "" {
		query = query.Where("category = ?", category)
	}
	if difficulty := c.Query("difficulty"); difficulty != "" {
		query = query.Where("difficulty = ?", difficulty)
	}
	if search := c.Query("search"); search != "" {
		pattern := "%" + strings.ToLower(search) + "%"
		query = query.Where("LOWER(title) LIKE ? OR LOWER(description) LIKE ?", pattern, pattern)
	}

	var courses []models.Course
	if err := query.Preload("Instructor").Order("created_at DESC").Find(&courses).Error; err != nil {
		return utils.InternalServerError(c, "Could not query database")
	}

	return c.JSON(courses)
}

func (cc *CoursesController) GetCourse(c *fiber.Ctx) error {
	courseID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return utils.BadRequest(c, "Invalid course ID")
	}

	var course models.Course
	err = cc.DB.
		Preload("Instructor").
		Preload("Sections", orderByPosition).
		Preload("Sections.Lectures", orderByPosition).
		Preload("Reviews.Student").
		First(&course, courseID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.NotFound(c, "Course not found")
		}
		return utils.InternalServerError(c, "Could not query database")
	}

	return c.JSON(course)
}

func (cc *CoursesController) CreateCourse(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)

	var input CourseInput
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Cannot parse JSON")
	}
	if err := validateCourseInput(&input, true); err != nil {
		return utils.BadRequest(c, err.Error())
	}

	course := models.Course{
		Title:        input.Title,
		Description:  input.Description,
		Category:     input.Category,
		Difficulty:   input.Difficulty,
		InstructorID: user.ID,
		Duration:     input.Duration,
		IsApproved:   false, // requires admin approval
		Sections:     buildSections(input.Sections),
	}
	if input.Thumbnail != "" {
		course.Thumbnail = input.Thumbnail
	}
	if course.Difficulty == "" {
		course.Difficulty = "Beginner"
	}

	if err := cc.DB.Create(&course).Error; err != nil {
		return utils.InternalServerError(c, "Could not create course")
	}

	return c.Status(fiber.StatusCreated).JSON(course)
}

// UpdateCourse merges the payload over the stored course. Any edit drops
// the approval flag so the course goes back through review.
func (cc *CoursesController) UpdateCourse(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)

	courseID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return utils.BadRequest(c, "Invalid course ID")
	}

	var course models.Course
	if err := cc.DB.Preload("Sections.Lectures").First(&course, courseID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.NotFound(c, "Course not found")
		}
		return utils.InternalServerError(c, "Could not query database")
	}

	if course.InstructorID != user.ID {
		return utils.Forbidden(c, "Not authorized to update this course")
	}

	var input CourseInput
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Cannot parse JSON")
	}
	if err := validateCourseInput(&input, false); err != nil {
		return utils.BadRequest(c, err.Error())
	}

	if input.Title != "" {
		course.Title = input.Title
	}
	if input.Description != "" {
		course.Description = input.Description
	}
	if input.Category != "" {
		course.Category = input.Category
	}
	if input.Difficulty != "" {
		course.Difficulty = input.Difficulty
	}
	if input.Thumbnail != "" {
		course.Thumbnail = input.Thumbnail
	}
	if input.Duration != "" {
		course.Duration = input.Duration
	}

	err = cc.DB.Transaction(func(tx *gorm.DB) error {
		if input.Sections != nil {
			if err := deleteCurriculum(tx, course.ID); err != nil {
				return err
			}
			course.Sections = buildSections(input.Sections)
		} else {
			course.Sections = nil
		}

		course.IsApproved = false // requires re-approval after edit
		return tx.Save(&course).Error
	})
	if err != nil {
		return utils.InternalServerError(c, "Could not update course")
	}

	return c.JSON(course)
}

// DeleteCourse removes the course and everything hanging off it:
// curriculum, enrollments, discussions, quizzes and reviews.
func (cc *CoursesController) DeleteCourse(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)

	courseID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return utils.BadRequest(c, "Invalid course ID")
	}

	var course models.Course
	if err := cc.DB.First(&course, courseID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.NotFound(c, "Course not found")
		}
		return utils.InternalServerError(c, "Could not query database")
	}

	if course.InstructorID != user.ID {
		return utils.Forbidden(c, "Not authorized to delete this course")
	}

	err = cc.DB.Transaction(func(tx *gorm.DB) error {
		if err := deleteCurriculum(tx, course.ID); err != nil {
			return err
		}
		if err := tx.Where("course_id = ?", course.ID).Delete(&models.Enrollment{}).Error; err != nil {
			return err
		}
		if err := tx.Where("course_id = ?", course.ID).Delete(&models.Discussion{}).Error; err != nil {
			return err
		}
		quizIDs := tx.Model(&models.Quiz{}).Select("id").Where("course_id = ?", course.ID)
		if err := tx.Where("quiz_id IN (?)", quizIDs).Delete(&models.QuizQuestion{}).Error; err != nil {
			return err
		}
		if err := tx.Where("course_id = ?", course.ID).Delete(&models.Quiz{}).Error; err != nil {
			return err
		}
		if err := tx.Where("course_id = ?", course.ID).Delete(&models.Review{}).Error; err != nil {
			return err
		}
		return tx.Delete(&course).Error
	})
	if err != nil {
		return utils.InternalServerError(c, "Could not delete course")
	}

	return c.JSON(fiber.Map{"message": "Course deleted successfully"})
}

func (cc *CoursesController) GetMyCourses(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)

	var courses []models.Course
	err := cc.DB.Where("instructor_id = ?", user.ID).
		Preload("Sections", orderByPosition).
		Preload("Sections.Lectures", orderByPosition).
		Order("created_at DESC").
		Find(&courses).Error
	if err != nil {
		return utils.InternalServerError(c, "Could not query database")
	}

	return c.JSON(courses)
}

type ReviewInput struct {
	Rating  int    `json:"rating"`
	Comment string `json:"comment"`
}

// AddReview lets an enrolled student rate the course; the course's
// aggregate rating is recomputed as the mean of all reviews.
func (cc *CoursesController) AddReview(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)

	courseID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return utils.BadRequest(c, "Invalid course ID")
	}

	var input ReviewInput
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Cannot parse JSON")
	}
	if input.Rating < 1 || input.Rating > 5 {
		return utils.BadRequest(c, "Rating must be between 1 and 5")
	}

	var course models.Course
	if err := cc.DB.First(&course, courseID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.NotFound(c, "Course not found")
		}
		return utils.InternalServerError(c, "Could not query database")
	}

	var enrollment models.Enrollment
	if err := cc.DB.Where("student_id = ? AND course_id = ?", user.ID, course.ID).First(&enrollment).Error; err != nil {
		return utils.Forbidden(c, "Only enrolled students can review a course")
	}

	review := models.Review{
		CourseID:  course.ID,
		StudentID: user.ID,
		Rating:    input.Rating,
		Comment:   input.Comment,
	}

	err = cc.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&review).Error; err != nil {
			return err
		}

		var avg float64
		if err := tx.Model(&models.Review{}).
			Where("course_id = ?", course.ID).
			Select("AVG(rating)").Scan(&avg).Error; err != nil {
			return err
		}
		return tx.Model(&models.Course{}).Where("id = ?", course.ID).
			UpdateColumn("rating", avg).Error
	})
	if err != nil {
		return utils.InternalServerError(c, "Could not create review")
	}

	return c.Status(fiber.StatusCreated).JSON(review)
}

func orderByPosition(db *gorm.DB) *gorm.DB {
	return db.Order("position ASC")
}

// buildSections converts the authoring payload into rows. Position is
// assigned from slice order, which is the source of truth for sequencing.
func buildSections(inputs []SectionInput) []models.Section {
	sections := make([]models.Section, 0, len(inputs))
	for i, s := range inputs {
		section := models.Section{
			Title:    s.Title,
			Position: i,
		}
		for j, l := range s.Lectures {
			section.Lectures = append(section.Lectures, models.Lecture{
				Title:       l.Title,
				Description: l.Description,
				VideoURL:    l.VideoURL,
				Documents:   l.Documents,
				Content:     l.Content,
				Duration:    l.Duration,
				Position:    j,
				IsPreview:   l.IsPreview,
			})
		}
		sections = append(sections, section)
	}
	return sections
}

// deleteCurriculum removes all sections and lectures of a course.
func deleteCurriculum(tx *gorm.DB, courseID uint) error {
	sectionIDs := tx.Model(&models.Section{}).Select("id").Where("course_id = ?", courseID)
	if err := tx.Where("section_id IN (?)", sectionIDs).Delete(&models.Lecture{}).Error; err != nil {
		return err
	}
	return tx.Where("course_id = ?", courseID).Delete(&models.Section{}).Error
}

func validateCourseInput(input *CourseInput, isCreate bool) error {
	if isCreate {
		if strings.TrimSpace(input.Title) == "" {
			return errors.New("Please provide a course title")
		}
		if strings.TrimSpace(input.Description) == "" {
			return errors.New("Please provide a course description")
		}
		if input.Category == "" {
			return errors.New("Please provide a course category")
		}
	}
	if input.Category != "" && !models.CourseCategories[input.Category] {
		return errors.New("Invalid category")
	}
	if input.Difficulty != "" && !models.CourseDifficulties[input.Difficulty] {
		return errors.New("Invalid difficulty")
	}
	return nil
}
