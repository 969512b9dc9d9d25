package controllers_test

import (
	"fmt"
	"testing"

	"eduplatform/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnrollCreatesRecordAndBumpsCounter(t *testing.T) {
	env := newTestEnv(t)
	teacher := env.createUser(t, "Teacher", "t@example.com", models.RoleTeacher)
	student := env.createUser(t, "Student", "s@example.com", models.RoleStudent)
	course := env.createCourse(t, teacher, true, 1, 3)

	resp := env.request(t, "POST", "/api/enrollments", env.tokenFor(t, student), map[string]interface{}{
		"courseId": course.ID,
	})
	require.Equal(t, 201, resp.StatusCode)
	body := decodeMap(t, resp)
	assert.Equal(t, float64(0), body["progress"])
	assert.Equal(t, false, body["certificate_issued"])

	var updated models.Course
	require.NoError(t, env.DB.First(&updated, course.ID).Error)
	assert.Equal(t, 1, updated.EnrollmentCount)
}

func TestEnrollDuplicateConflict(t *testing.T) {
	env := newTestEnv(t)
	teacher := env.createUser(t, "Teacher", "t@example.com", models.RoleTeacher)
	student := env.createUser(t, "Student", "s@example.com", models.RoleStudent)
	course := env.createCourse(t, teacher, true, 1, 3)
	token := env.tokenFor(t, student)

	resp := env.request(t, "POST", "/api/enrollments", token, map[string]interface{}{"courseId": course.ID})
	require.Equal(t, 201, resp.StatusCode)

	resp = env.request(t, "POST", "/api/enrollments", token, map[string]interface{}{"courseId": course.ID})
	require.Equal(t, 409, resp.StatusCode)
	assert.Equal(t, "Already enrolled in this course", decodeMap(t, resp)["message"])

	assert.Equal(t, int64(1),
		countRows(env.DB.Model(&models.Enrollment{}).Where("student_id = ? AND course_id = ?", student.ID, course.ID)))

	var updated models.Course
	require.NoError(t, env.DB.First(&updated, course.ID).Error)
	assert.Equal(t, 1, updated.EnrollmentCount, "the rejected attempt must not bump the counter")
}

func TestEnrollUniqueIndexBacksThePreCheck(t *testing.T) {
	env := newTestEnv(t)
	teacher := env.createUser(t, "Teacher", "t@example.com", models.RoleTeacher)
	student := env.createUser(t, "Student", "s@example.com", models.RoleStudent)
	course := env.createCourse(t, teacher, true, 1, 1)

	env.enroll(t, student, course)
	err := env.DB.Create(&models.Enrollment{StudentID: student.ID, CourseID: course.ID}).Error
	require.Error(t, err, "the composite unique index rejects the duplicate even without the handler")
}

func TestEnrollCounterTracksDistinctStudents(t *testing.T) {
	env := newTestEnv(t)
	teacher := env.createUser(t, "Teacher", "t@example.com", models.RoleTeacher)
	course := env.createCourse(t, teacher, true, 1, 1)

	for i := 0; i < 3; i++ {
		student := env.createUser(t, fmt.Sprintf("Student %d", i), fmt.Sprintf("s%d@example.com", i), models.RoleStudent)
		resp := env.request(t, "POST", "/api/enrollments", env.tokenFor(t, student), map[string]interface{}{"courseId": course.ID})
		require.Equal(t, 201, resp.StatusCode)
	}

	var updated models.Course
	require.NoError(t, env.DB.First(&updated, course.ID).Error)
	assert.Equal(t, 3, updated.EnrollmentCount)
}

func TestEnrollUnknownCourse(t *testing.T) {
	env := newTestEnv(t)
	student := env.createUser(t, "Student", "s@example.com", models.RoleStudent)

	resp := env.request(t, "POST", "/api/enrollments", env.tokenFor(t, student), map[string]interface{}{"courseId": 9999})
	require.Equal(t, 404, resp.StatusCode)
}

func TestProgressLifecycle(t *testing.T) {
	env := newTestEnv(t)
	teacher := env.createUser(t, "Teacher", "t@example.com", models.RoleTeacher)
	student := env.createUser(t, "Student", "s@example.com", models.RoleStudent)
	course := env.createCourse(t, teacher, true, 1, 5)
	enrollment := env.enroll(t, student, course)
	token := env.tokenFor(t, student)
	path := fmt.Sprintf("/api/enrollments/%d/progress", enrollment.ID)

	refs := func(n int) []map[string]int {
		out := make([]map[string]int, 0, n)
		for i := 0; i < n; i++ {
			out = append(out, map[string]int{"sectionIndex": 0, "lectureIndex": i})
		}
		return out
	}

	// 2 of 5 lectures done.
	resp := env.request(t, "PUT", path, token, map[string]interface{}{"completedLectures": refs(2)})
	require.Equal(t, 200, resp.StatusCode)
	body := decodeMap(t, resp)
	assert.Equal(t, float64(40), body["progress"])
	assert.Equal(t, false, body["certificate_issued"])
	assert.Nil(t, body["completed_at"])

	// All 5: completion fires and the certificate is issued.
	resp = env.request(t, "PUT", path, token, map[string]interface{}{"completedLectures": refs(5)})
	require.Equal(t, 200, resp.StatusCode)
	body = decodeMap(t, resp)
	assert.Equal(t, float64(100), body["progress"])
	assert.Equal(t, true, body["certificate_issued"])
	assert.NotNil(t, body["completed_at"])

	// Back down to 2: completion and certificate are withdrawn.
	resp = env.request(t, "PUT", path, token, map[string]interface{}{"completedLectures": refs(2)})
	require.Equal(t, 200, resp.StatusCode)
	body = decodeMap(t, resp)
	assert.Equal(t, float64(40), body["progress"])
	assert.Equal(t, false, body["certificate_issued"])
	assert.Nil(t, body["completed_at"])
}

func TestProgressIgnoresClientValue(t *testing.T) {
	env := newTestEnv(t)
	teacher := env.createUser(t, "Teacher", "t@example.com", models.RoleTeacher)
	student := env.createUser(t, "Student", "s@example.com", models.RoleStudent)
	course := env.createCourse(t, teacher, true, 1, 5)
	enrollment := env.enroll(t, student, course)

	resp := env.request(t, "PUT", fmt.Sprintf("/api/enrollments/%d/progress", enrollment.ID), env.tokenFor(t, student), map[string]interface{}{
		"progress": 100, // forged
		"completedLectures": []map[string]int{
			{"sectionIndex": 0, "lectureIndex": 0},
		},
	})
	require.Equal(t, 200, resp.StatusCode)
	body := decodeMap(t, resp)
	assert.Equal(t, float64(20), body["progress"], "progress is recomputed from the completed set")
	assert.Equal(t, false, body["certificate_issued"])
}

func TestProgressRejectsInvalidLectureRef(t *testing.T) {
	env := newTestEnv(t)
	teacher := env.createUser(t, "Teacher", "t@example.com", models.RoleTeacher)
	student := env.createUser(t, "Student", "s@example.com", models.RoleStudent)
	course := env.createCourse(t, teacher, true, 2, 2)
	enrollment := env.enroll(t, student, course)
	token := env.tokenFor(t, student)
	path := fmt.Sprintf("/api/enrollments/%d/progress", enrollment.ID)

	for _, ref := range []map[string]int{
		{"sectionIndex": 5, "lectureIndex": 0},
		{"sectionIndex": 0, "lectureIndex": 9},
		{"sectionIndex": -1, "lectureIndex": 0},
	} {
		resp := env.request(t, "PUT", path, token, map[string]interface{}{
			"completedLectures": []map[string]int{ref},
		})
		assert.Equal(t, 400, resp.StatusCode, "ref %v should be rejected", ref)
	}
}

func TestProgressDeduplicatesCompletedSet(t *testing.T) {
	env := newTestEnv(t)
	teacher := env.createUser(t, "Teacher", "t@example.com", models.RoleTeacher)
	student := env.createUser(t, "Student", "s@example.com", models.RoleStudent)
	course := env.createCourse(t, teacher, true, 1, 5)
	enrollment := env.enroll(t, student, course)

	resp := env.request(t, "PUT", fmt.Sprintf("/api/enrollments/%d/progress", enrollment.ID), env.tokenFor(t, student), map[string]interface{}{
		"completedLectures": []map[string]int{
			{"sectionIndex": 0, "lectureIndex": 0},
			{"sectionIndex": 0, "lectureIndex": 0},
			{"sectionIndex": 0, "lectureIndex": 1},
		},
	})
	require.Equal(t, 200, resp.StatusCode)
	body := decodeMap(t, resp)
	assert.Equal(t, float64(40), body["progress"], "duplicates count once")

	var saved models.Enrollment
	require.NoError(t, env.DB.First(&saved, enrollment.ID).Error)
	assert.Len(t, saved.CompletedLectures, 2)
}

func TestProgressOtherStudentsEnrollmentNotFound(t *testing.T) {
	env := newTestEnv(t)
	teacher := env.createUser(t, "Teacher", "t@example.com", models.RoleTeacher)
	alice := env.createUser(t, "Alice", "alice@example.com", models.RoleStudent)
	mallory := env.createUser(t, "Mallory", "mallory@example.com", models.RoleStudent)
	course := env.createCourse(t, teacher, true, 1, 2)
	enrollment := env.enroll(t, alice, course)

	resp := env.request(t, "PUT", fmt.Sprintf("/api/enrollments/%d/progress", enrollment.ID), env.tokenFor(t, mallory), map[string]interface{}{
		"completedLectures": []map[string]int{{"sectionIndex": 0, "lectureIndex": 0}},
	})
	require.Equal(t, 404, resp.StatusCode, "someone else's enrollment looks like it does not exist")
}

func TestGetCourseStudentsOwnerOnly(t *testing.T) {
	env := newTestEnv(t)
	owner := env.createUser(t, "Owner", "owner@example.com", models.RoleTeacher)
	other := env.createUser(t, "Other", "other@example.com", models.RoleTeacher)
	student := env.createUser(t, "Student", "s@example.com", models.RoleStudent)
	course := env.createCourse(t, owner, true, 1, 1)
	env.enroll(t, student, course)

	path := fmt.Sprintf("/api/enrollments/course/%d/students", course.ID)

	resp := env.request(t, "GET", path, env.tokenFor(t, other), nil)
	require.Equal(t, 403, resp.StatusCode)

	resp = env.request(t, "GET", path, env.tokenFor(t, owner), nil)
	require.Equal(t, 200, resp.StatusCode)
	students := decodeSlice(t, resp)
	require.Len(t, students, 1)
}

func TestGetMyEnrolledCourses(t *testing.T) {
	env := newTestEnv(t)
	teacher := env.createUser(t, "Teacher", "t@example.com", models.RoleTeacher)
	student := env.createUser(t, "Student", "s@example.com", models.RoleStudent)
	course := env.createCourse(t, teacher, true, 1, 2)
	env.enroll(t, student, course)

	resp := env.request(t, "GET", "/api/enrollments/my-courses", env.tokenFor(t, student), nil)
	require.Equal(t, 200, resp.StatusCode)
	enrollments := decodeSlice(t, resp)
	require.Len(t, enrollments, 1)

	courseBody, ok := enrollments[0]["course"].(map[string]interface{})
	require.True(t, ok, "course should be joined in")
	assert.Equal(t, course.Title, courseBody["title"])
}
