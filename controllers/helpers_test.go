package controllers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"eduplatform/config"
	"eduplatform/database"
	"eduplatform/models"
	"eduplatform/routes"
	"eduplatform/utils"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const testPassword = "password123"

// fakeMailer records deliveries and can be told to fail the next send.
type fakeMailer struct {
	Sent     []sentMail
	FailNext bool
}

type sentMail struct {
	To      string
	Subject string
	Body    string
}

func (m *fakeMailer) Send(to, subject, body string) error {
	if m.FailNext {
		m.FailNext = false
		return fmt.Errorf("smtp: connection refused")
	}
	m.Sent = append(m.Sent, sentMail{To: to, Subject: subject, Body: body})
	return nil
}

// fakeUploader pretends the object store accepted the file.
type fakeUploader struct {
	Uploads []string
}

func (u *fakeUploader) Upload(file *multipart.FileHeader, folder string) (string, string, error) {
	key := folder + "/" + file.Filename
	u.Uploads = append(u.Uploads, key)
	return "https://media.test/" + key, key, nil
}

type testEnv struct {
	App      *fiber.App
	DB       *gorm.DB
	Cfg      *config.Config
	Mailer   *fakeMailer
	Uploader *fakeUploader
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("db handle: %v", err)
	}
	// One shared connection so every query sees the same in-memory DB.
	sqlDB.SetMaxOpenConns(1)

	if err := database.Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	cfg := &config.Config{JWTSecret: "testsecret", ServerPort: "8080"}
	mailer := &fakeMailer{}
	uploader := &fakeUploader{}

	app := fiber.New()
	routes.SetupRoutes(app, db, cfg, mailer, uploader)

	return &testEnv{App: app, DB: db, Cfg: cfg, Mailer: mailer, Uploader: uploader}
}

func (e *testEnv) createUser(t *testing.T, name, email, role string) models.User {
	t.Helper()

	hashed, err := bcrypt.GenerateFromPassword([]byte(testPassword), bcrypt.DefaultCost)
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}

	user := models.User{
		Name:       name,
		Email:      email,
		Password:   string(hashed),
		Role:       role,
		IsVerified: true,
		IsApproved: true,
	}
	if err := e.DB.Create(&user).Error; err != nil {
		t.Fatalf("create user: %v", err)
	}
	return user
}

func (e *testEnv) tokenFor(t *testing.T, user models.User) string {
	t.Helper()

	token, err := utils.GenerateJWTToken(user.ID, e.Cfg)
	if err != nil {
		t.Fatalf("generate token: %v", err)
	}
	return token
}

// createCourse seeds a course with the given number of sections, each
// holding lecturesPerSection lectures.
func (e *testEnv) createCourse(t *testing.T, instructor models.User, approved bool, sections, lecturesPerSection int) models.Course {
	t.Helper()

	course := models.Course{
		Title:        "Go for Practitioners",
		Description:  "A hands-on course",
		Category:     "Web Development",
		Difficulty:   "Beginner",
		InstructorID: instructor.ID,
		Duration:     "6 weeks",
		IsApproved:   approved,
	}
	for i := 0; i < sections; i++ {
		section := models.Section{
			Title:    fmt.Sprintf("Section %d", i+1),
			Position: i,
		}
		for j := 0; j < lecturesPerSection; j++ {
			section.Lectures = append(section.Lectures, models.Lecture{
				Title:    fmt.Sprintf("Lecture %d.%d", i+1, j+1),
				Position: j,
			})
		}
		course.Sections = append(course.Sections, section)
	}

	if err := e.DB.Create(&course).Error; err != nil {
		t.Fatalf("create course: %v", err)
	}
	return course
}

func (e *testEnv) enroll(t *testing.T, student models.User, course models.Course) models.Enrollment {
	t.Helper()

	enrollment := models.Enrollment{
		StudentID:         student.ID,
		CourseID:          course.ID,
		CompletedLectures: []models.LectureRef{},
		EnrolledAt:        time.Now(),
	}
	if err := e.DB.Create(&enrollment).Error; err != nil {
		t.Fatalf("create enrollment: %v", err)
	}
	return enrollment
}

func (e *testEnv) request(t *testing.T, method, path, token string, payload interface{}) *http.Response {
	t.Helper()

	var body *bytes.Buffer
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			t.Fatalf("marshal payload: %v", err)
		}
		body = bytes.NewBuffer(data)
	} else {
		body = bytes.NewBuffer(nil)
	}

	req := httptest.NewRequest(method, path, body)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := e.App.Test(req, -1)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	return resp
}

func countRows(query *gorm.DB) int64 {
	var n int64
	query.Count(&n)
	return n
}

func decodeMap(t *testing.T, resp *http.Response) map[string]interface{} {
	t.Helper()

	var result map[string]interface{}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return result
}

func decodeSlice(t *testing.T, resp *http.Response) []map[string]interface{} {
	t.Helper()

	var result []map[string]interface{}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return result
}
