package controllers

import (
	"errors"
	"strconv"
	"time"

	"eduplatform/config"
	"eduplatform/middleware"
	"eduplatform/models"
	"eduplatform/utils"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type EnrollmentsController struct {
	DB  *gorm.DB
	Cfg *config.Config
}

func NewEnrollmentsController(db *gorm.DB, cfg *config.Config) *EnrollmentsController {
	return &EnrollmentsController{DB: db, Cfg: cfg}
}

type EnrollInput struct {
	CourseID uint `json:"courseId"`
}

// Enroll creates the (student, course) record. The existence pre-check
// gives a friendly conflict message, but the composite unique index on the
// pair is what actually prevents a duplicate slipping through a race. The
// course counter is bumped with an atomic in-database increment.
func (ec *EnrollmentsController) Enroll(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)

	var input EnrollInput
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Cannot parse JSON")
	}

	var course models.Course
	if err := ec.DB.First(&course, input.CourseID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.NotFound(c, "Course not found")
		}
		return utils.InternalServerError(c, "Could not query database")
	}

	var existing models.Enrollment
	if err := ec.DB.Where("student_id = ? AND course_id = ?", user.ID, course.ID).First(&existing).Error; err == nil {
		return utils.Conflict(c, "Already enrolled in this course")
	}

	enrollment := models.Enrollment{
		StudentID:         user.ID,
		CourseID:          course.ID,
		Progress:          0,
		CompletedLectures: []models.LectureRef{},
		EnrolledAt:        time.Now(),
	}

	if err := ec.DB.Create(&enrollment).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return utils.Conflict(c, "Already enrolled in this course")
		}
		return utils.InternalServerError(c, "Could not create enrollment")
	}

	ec.DB.Model(&models.Course{}).Where("id = ?", course.ID).
		UpdateColumn("enrollment_count", gorm.Expr("enrollment_count + ?", 1))

	return c.Status(fiber.StatusCreated).JSON(enrollment)
}

// GetMyCourses lists the student's enrollments, most recently enrolled
// first, with the course and its instructor joined in.
func (ec *EnrollmentsController) GetMyCourses(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)

	var enrollments []models.Enrollment
	err := ec.DB.Where("student_id = ?", user.ID).
		Preload("Course").
		Preload("Course.Instructor").
		Preload("Course.Sections", orderByPosition).
		Preload("Course.Sections.Lectures", orderByPosition).
		Order("enrolled_at DESC").
		Find(&enrollments).Error
	if err != nil {
		return utils.InternalServerError(c, "Could not query database")
	}

	return c.JSON(enrollments)
}

type UpdateProgressInput struct {
	CompletedLectures   []models.LectureRef `json:"completedLectures"`
	LastAccessedLecture *models.LectureRef  `json:"lastAccessedLecture"`

	// Accepted for wire compatibility with older clients but ignored:
	// progress is recomputed from the completed set server-side.
	Progress int `json:"progress"`
}

// UpdateProgress replaces the completed-lecture set and recomputes the
// percentage from the course's authoritative lecture count. The completion
// rule runs on every update in both directions so that
// certificateIssued == (progress >= 100) always holds afterward.
func (ec *EnrollmentsController) UpdateProgress(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)

	enrollmentID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return utils.BadRequest(c, "Invalid enrollment ID")
	}

	var input UpdateProgressInput
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Cannot parse JSON")
	}

	var enrollment models.Enrollment
	if err := ec.DB.Where("id = ? AND student_id = ?", enrollmentID, user.ID).First(&enrollment).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.NotFound(c, "Enrollment not found")
		}
		return utils.InternalServerError(c, "Could not query database")
	}

	var course models.Course
	err = ec.DB.
		Preload("Sections", orderByPosition).
		Preload("Sections.Lectures", orderByPosition).
		First(&course, enrollment.CourseID).Error
	if err != nil {
		return utils.InternalServerError(c, "Could not query database")
	}

	completed, err := normalizeCompleted(input.CompletedLectures, &course)
	if err != nil {
		return utils.BadRequest(c, err.Error())
	}
	if input.LastAccessedLecture != nil {
		if !lectureExists(&course, *input.LastAccessedLecture) {
			return utils.BadRequest(c, "Invalid lecture reference")
		}
		enrollment.LastAccessedLecture = input.LastAccessedLecture
	}

	enrollment.CompletedLectures = completed
	enrollment.Progress = computeProgress(len(completed), course.TotalLectures())

	// Completion transitions in both directions.
	if enrollment.Progress >= 100 && enrollment.CompletedAt == nil {
		now := time.Now()
		enrollment.CompletedAt = &now
		enrollment.CertificateIssued = true
	}
	if enrollment.Progress < 100 && enrollment.CompletedAt != nil {
		enrollment.CompletedAt = nil
		enrollment.CertificateIssued = false
	}

	if err := ec.DB.Save(&enrollment).Error; err != nil {
		return utils.InternalServerError(c, "Could not save progress")
	}

	var updated models.Enrollment
	err = ec.DB.Preload("Course").Preload("Course.Instructor").First(&updated, enrollment.ID).Error
	if err != nil {
		return utils.InternalServerError(c, "Could not query database")
	}

	return c.JSON(updated)
}

// GetCourseStudents lists enrollments for a course the calling teacher
// owns, with student identity joined in.
func (ec *EnrollmentsController) GetCourseStudents(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)

	courseID, err := strconv.Atoi(c.Params("courseId"))
	if err != nil {
		return utils.BadRequest(c, "Invalid course ID")
	}

	var course models.Course
	if err := ec.DB.First(&course, courseID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.NotFound(c, "Course not found")
		}
		return utils.InternalServerError(c, "Could not query database")
	}

	if course.InstructorID != user.ID {
		return utils.Forbidden(c, "Not authorized to view students for this course")
	}

	var enrollments []models.Enrollment
	err = ec.DB.Where("course_id = ?", course.ID).
		Preload("Student").
		Order("enrolled_at DESC").
		Find(&enrollments).Error
	if err != nil {
		return utils.InternalServerError(c, "Could not query database")
	}

	return c.JSON(enrollments)
}

// normalizeCompleted validates every coordinate against the curriculum and
// drops duplicates, preserving first-seen order.
func normalizeCompleted(refs []models.LectureRef, course *models.Course) ([]models.LectureRef, error) {
	out := make([]models.LectureRef, 0, len(refs))
	seen := make(map[models.LectureRef]bool, len(refs))

	for _, ref := range refs {
		if !lectureExists(course, ref) {
			return nil, errors.New("Invalid lecture reference")
		}
		if seen[ref] {
			continue
		}
		seen[ref] = true
		out = append(out, ref)
	}
	return out, nil
}

func lectureExists(course *models.Course, ref models.LectureRef) bool {
	if ref.SectionIndex < 0 || ref.SectionIndex >= len(course.Sections) {
		return false
	}
	section := course.Sections[ref.SectionIndex]
	return ref.LectureIndex >= 0 && ref.LectureIndex < len(section.Lectures)
}

// computeProgress derives the percentage from the authoritative lecture
// count. A course with no lectures can never be completed.
func computeProgress(completed, total int) int {
	if total == 0 {
		return 0
	}
	return completed * 100 / total
}
