package controllers

import (
	"errors"
	"strconv"

	"eduplatform/config"
	"eduplatform/models"
	"eduplatform/utils"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type AdminController struct {
	DB  *gorm.DB
	Cfg *config.Config
}

func NewAdminController(db *gorm.DB, cfg *config.Config) *AdminController {
	return &AdminController{DB: db, Cfg: cfg}
}

func (ac *AdminController) GetUsers(c *fiber.Ctx) error {
	var users []models.User
	if err := ac.DB.Order("created_at DESC").Find(&users).Error; err != nil {
		return utils.InternalServerError(c, "Could not query database")
	}
	return c.JSON(users)
}

type UpdateUserInput struct {
	Role       string `json:"role"`
	IsApproved *bool  `json:"isApproved"`
}

// UpdateUser lets an admin change a user's role or approval flag.
func (ac *AdminController) UpdateUser(c *fiber.Ctx) error {
	userID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return utils.BadRequest(c, "Invalid user ID")
	}

	var user models.User
	if err := ac.DB.First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.NotFound(c, "User not found")
		}
		return utils.InternalServerError(c, "Could not query database")
	}

	var input UpdateUserInput
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Cannot parse JSON")
	}

	if input.Role != "" {
		if input.Role != models.RoleStudent && input.Role != models.RoleTeacher && input.Role != models.RoleAdmin {
			return utils.BadRequest(c, "Invalid role")
		}
		user.Role = input.Role
	}
	if input.IsApproved != nil {
		user.IsApproved = *input.IsApproved
	}

	if err := ac.DB.Save(&user).Error; err != nil {
		return utils.InternalServerError(c, "Could not update user")
	}

	return c.JSON(user)
}

func (ac *AdminController) DeleteUser(c *fiber.Ctx) error {
	userID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return utils.BadRequest(c, "Invalid user ID")
	}

	var user models.User
	if err := ac.DB.First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.NotFound(c, "User not found")
		}
		return utils.InternalServerError(c, "Could not query database")
	}

	// Hard delete so the unique email can be registered again.
	if err := ac.DB.Unscoped().Delete(&user).Error; err != nil {
		return utils.InternalServerError(c, "Could not delete user")
	}

	return c.JSON(fiber.Map{"message": "User deleted successfully"})
}

func (ac *AdminController) GetAllCourses(c *fiber.Ctx) error {
	var courses []models.Course
	err := ac.DB.Preload("Instructor").Order("created_at DESC").Find(&courses).Error
	if err != nil {
		return utils.InternalServerError(c, "Could not query database")
	}
	return c.JSON(courses)
}

func (ac *AdminController) GetPendingCourses(c *fiber.Ctx) error {
	var courses []models.Course
	err := ac.DB.Where("is_approved = ?", false).
		Preload("Instructor").
		Order("created_at DESC").
		Find(&courses).Error
	if err != nil {
		return utils.InternalServerError(c, "Could not query database")
	}
	return c.JSON(courses)
}

type ApproveCourseInput struct {
	IsApproved bool `json:"isApproved"`
}

// ApproveCourse sets the approval flag to the requested value. Any admin
// may approve any course; there is no ownership check here.
func (ac *AdminController) ApproveCourse(c *fiber.Ctx) error {
	courseID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return utils.BadRequest(c, "Invalid course ID")
	}

	var course models.Course
	if err := ac.DB.First(&course, courseID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.NotFound(c, "Course not found")
		}
		return utils.InternalServerError(c, "Could not query database")
	}

	var input ApproveCourseInput
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Cannot parse JSON")
	}

	course.IsApproved = input.IsApproved
	if err := ac.DB.Save(&course).Error; err != nil {
		return utils.InternalServerError(c, "Could not update course")
	}

	return c.JSON(course)
}

// GetAnalytics returns the moderation dashboard counters.
func (ac *AdminController) GetAnalytics(c *fiber.Ctx) error {
	var (
		totalUsers       int64
		totalStudents    int64
		totalTeachers    int64
		totalCourses     int64
		totalEnrollments int64
		pendingCourses   int64
		pendingTeachers  int64
	)

	ac.DB.Model(&models.User{}).Count(&totalUsers)
	ac.DB.Model(&models.User{}).Where("role = ?", models.RoleStudent).Count(&totalStudents)
	ac.DB.Model(&models.User{}).Where("role = ?", models.RoleTeacher).Count(&totalTeachers)
	ac.DB.Model(&models.Course{}).Where("is_approved = ?", true).Count(&totalCourses)
	ac.DB.Model(&models.Enrollment{}).Count(&totalEnrollments)
	ac.DB.Model(&models.Course{}).Where("is_approved = ?", false).Count(&pendingCourses)
	ac.DB.Model(&models.User{}).Where("role = ? AND is_approved = ?", models.RoleTeacher, false).Count(&pendingTeachers)

	return c.JSON(fiber.Map{
		"totalUsers":       totalUsers,
		"totalStudents":    totalStudents,
		"totalTeachers":    totalTeachers,
		"totalCourses":     totalCourses,
		"totalEnrollments": totalEnrollments,
		"pendingCourses":   pendingCourses,
		"pendingTeachers":  pendingTeachers,
	})
}
