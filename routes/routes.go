package routes

import (
	"eduplatform/config"
	"eduplatform/controllers"
	"eduplatform/middleware"
	"eduplatform/models"
	"eduplatform/utils"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

func SetupRoutes(app *fiber.App, db *gorm.DB, cfg *config.Config, mailer utils.Mailer, uploader utils.Uploader) {
	protect := middleware.Protect(db, cfg)
	studentOnly := middleware.RequireRoles(models.RoleStudent)
	teacherOnly := middleware.RequireRoles(models.RoleTeacher)
	adminOnly := middleware.RequireRoles(models.RoleAdmin)

	// Auth routes
	authController := controllers.NewAuthController(db, cfg, mailer)
	auth := app.Group("/api/auth")
	auth.Post("/register", authController.Register)
	auth.Post("/verify-email", authController.VerifyEmail)
	auth.Post("/resend-verification", authController.ResendVerification)
	auth.Post("/login", authController.Login)
	auth.Get("/profile", protect, authController.GetProfile)
	auth.Put("/profile", protect, authController.UpdateProfile)

	// Course routes
	coursesController := controllers.NewCoursesController(db, cfg)
	courses := app.Group("/api/courses")
	courses.Get("/", coursesController.ListCourses)
	courses.Get("/teacher/my-courses", protect, teacherOnly, coursesController.GetMyCourses)
	courses.Get("/:id", coursesController.GetCourse)
	courses.Post("/", protect, teacherOnly, coursesController.CreateCourse)
	courses.Put("/:id", protect, teacherOnly, coursesController.UpdateCourse)
	courses.Delete("/:id", protect, teacherOnly, coursesController.DeleteCourse)
	courses.Post("/:id/reviews", protect, studentOnly, coursesController.AddReview)

	// Enrollment routes
	enrollmentsController := controllers.NewEnrollmentsController(db, cfg)
	enrollments := app.Group("/api/enrollments", protect)
	enrollments.Post("/", studentOnly, enrollmentsController.Enroll)
	enrollments.Get("/my-courses", studentOnly, enrollmentsController.GetMyCourses)
	enrollments.Put("/:id/progress", studentOnly, enrollmentsController.UpdateProgress)
	enrollments.Get("/course/:courseId/students", teacherOnly, enrollmentsController.GetCourseStudents)

	// Discussion routes
	discussionsController := controllers.NewDiscussionsController(db, cfg)
	discussions := app.Group("/api/discussions")
	discussions.Get("/course/:courseId", discussionsController.ListForCourse)
	discussions.Get("/:id/replies", discussionsController.GetReplies)
	discussions.Post("/", protect, discussionsController.CreateComment)
	discussions.Put("/:id/pin", protect, middleware.RequireRoles(models.RoleAdmin, models.RoleTeacher), discussionsController.PinComment)
	discussions.Put("/:id", protect, discussionsController.UpdateComment)
	discussions.Delete("/:id", protect, discussionsController.DeleteComment)

	// Quiz routes
	quizController := controllers.NewQuizController(db, cfg)
	quiz := app.Group("/api/quiz", protect)
	quiz.Post("/", teacherOnly, quizController.CreateQuiz)
	quiz.Get("/course/:courseId", quizController.GetQuizForCourse)
	quiz.Post("/:id/submit", studentOnly, quizController.SubmitQuiz)

	// Admin routes
	adminController := controllers.NewAdminController(db, cfg)
	admin := app.Group("/api/admin", protect, adminOnly)
	admin.Get("/users", adminController.GetUsers)
	admin.Put("/users/:id", adminController.UpdateUser)
	admin.Delete("/users/:id", adminController.DeleteUser)
	admin.Get("/courses/all", adminController.GetAllCourses)
	admin.Get("/courses/pending", adminController.GetPendingCourses)
	admin.Put("/courses/:id/approve", adminController.ApproveCourse)
	admin.Get("/analytics", adminController.GetAnalytics)

	// Upload routes
	uploadController := controllers.NewUploadController(cfg, uploader)
	upload := app.Group("/api/upload", protect)
	upload.Post("/pdf", teacherOnly, uploadController.UploadPDF)
	upload.Post("/video", teacherOnly, uploadController.UploadVideo)
	upload.Post("/thumbnail", teacherOnly, uploadController.UploadThumbnail)
	upload.Post("/profile-photo", uploadController.UploadProfilePhoto)
}
