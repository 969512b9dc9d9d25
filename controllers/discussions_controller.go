package controllers

import (
	"errors"
	"strconv"
	"strings"
	"time"

	"eduplatform/config"
	"eduplatform/middleware"
	"eduplatform/models"
	"eduplatform/utils"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type DiscussionsController struct {
	DB  *gorm.DB
	Cfg *config.Config
}

func NewDiscussionsController(db *gorm.DB, cfg *config.Config) *DiscussionsController {
	return &DiscussionsController{DB: db, Cfg: cfg}
}

// threadNode is a top-level comment with its replies attached.
type threadNode struct {
	models.Discussion
	Replies []models.Discussion `json:"replies"`
}

// ListForCourse rebuilds the two-level thread: one query for the
// top-level comments (pinned first, then newest), one batched query for
// all of their replies (oldest first).
func (dc *DiscussionsController) ListForCourse(c *fiber.Ctx) error {
	courseID, err := strconv.Atoi(c.Params("courseId"))
	if err != nil {
		return utils.BadRequest(c, "Invalid course ID")
	}

	var roots []models.Discussion
	err = dc.DB.Where("course_id = ? AND parent_id IS NULL", courseID).
		Preload("User").
		Order("is_pinned DESC, created_at DESC").
		Find(&roots).Error
	if err != nil {
		return utils.InternalServerError(c, "Could not query database")
	}

	rootIDs := make([]uint, 0, len(roots))
	for _, root := range roots {
		rootIDs = append(rootIDs, root.ID)
	}

	repliesByParent := make(map[uint][]models.Discussion)
	if len(rootIDs) > 0 {
		var replies []models.Discussion
		err = dc.DB.Where("parent_id IN ?", rootIDs).
			Preload("User").
			Order("created_at ASC").
			Find(&replies).Error
		if err != nil {
			return utils.InternalServerError(c, "Could not query database")
		}
		for _, reply := range replies {
			repliesByParent[*reply.ParentID] = append(repliesByParent[*reply.ParentID], reply)
		}
	}

	thread := make([]threadNode, 0, len(roots))
	for _, root := range roots {
		replies := repliesByParent[root.ID]
		if replies == nil {
			replies = []models.Discussion{}
		}
		thread = append(thread, threadNode{Discussion: root, Replies: replies})
	}

	return c.JSON(thread)
}

type CreateCommentInput struct {
	CourseID        uint   `json:"courseId"`
	Content         string `json:"content"`
	ParentCommentID *uint  `json:"parentCommentId"`
}

// CreateComment inserts a comment or a reply. Replies must target a
// top-level comment on the same course; one reply level is a product
// rule, enforced here rather than left to the UI.
func (dc *DiscussionsController) CreateComment(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)

	var input CreateCommentInput
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Cannot parse JSON")
	}

	if strings.TrimSpace(input.Content) == "" || input.CourseID == 0 {
		return utils.BadRequest(c, "Course ID and content are required")
	}
	if len(input.Content) > 2000 {
		return utils.BadRequest(c, "Comment must be at most 2000 characters")
	}

	var course models.Course
	if err := dc.DB.First(&course, input.CourseID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.NotFound(c, "Course not found")
		}
		return utils.InternalServerError(c, "Could not query database")
	}

	if input.ParentCommentID != nil {
		var parent models.Discussion
		if err := dc.DB.First(&parent, *input.ParentCommentID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return utils.NotFound(c, "Parent comment not found")
			}
			return utils.InternalServerError(c, "Could not query database")
		}
		if parent.ParentID != nil {
			return utils.BadRequest(c, "Cannot reply to a reply")
		}
		if parent.CourseID != course.ID {
			return utils.BadRequest(c, "Parent comment belongs to a different course")
		}
	}

	discussion := models.Discussion{
		CourseID: course.ID,
		UserID:   user.ID,
		Content:  input.Content,
		ParentID: input.ParentCommentID,
	}

	if err := dc.DB.Create(&discussion).Error; err != nil {
		return utils.InternalServerError(c, "Could not create comment")
	}

	dc.DB.Preload("User").First(&discussion, discussion.ID)
	return c.Status(fiber.StatusCreated).JSON(discussion)
}

type UpdateCommentInput struct {
	Content string `json:"content"`
}

func (dc *DiscussionsController) UpdateComment(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)

	commentID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return utils.BadRequest(c, "Invalid comment ID")
	}

	var discussion models.Discussion
	if err := dc.DB.First(&discussion, commentID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.NotFound(c, "Comment not found")
		}
		return utils.InternalServerError(c, "Could not query database")
	}

	if discussion.UserID != user.ID {
		return utils.Forbidden(c, "Not authorized to edit this comment")
	}

	var input UpdateCommentInput
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Cannot parse JSON")
	}
	if len(input.Content) > 2000 {
		return utils.BadRequest(c, "Comment must be at most 2000 characters")
	}

	if input.Content != "" {
		discussion.Content = input.Content
	}
	now := time.Now()
	discussion.IsEdited = true
	discussion.EditedAt = &now

	if err := dc.DB.Save(&discussion).Error; err != nil {
		return utils.InternalServerError(c, "Could not update comment")
	}

	dc.DB.Preload("User").First(&discussion, discussion.ID)
	return c.JSON(discussion)
}

// DeleteComment removes a comment; replies go first, then the comment
// itself. Author or admin only.
func (dc *DiscussionsController) DeleteComment(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)

	commentID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return utils.BadRequest(c, "Invalid comment ID")
	}

	var discussion models.Discussion
	if err := dc.DB.First(&discussion, commentID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.NotFound(c, "Comment not found")
		}
		return utils.InternalServerError(c, "Could not query database")
	}

	if discussion.UserID != user.ID && user.Role != models.RoleAdmin {
		return utils.Forbidden(c, "Not authorized to delete this comment")
	}

	if err := dc.DB.Where("parent_id = ?", discussion.ID).Delete(&models.Discussion{}).Error; err != nil {
		return utils.InternalServerError(c, "Could not delete replies")
	}
	if err := dc.DB.Delete(&discussion).Error; err != nil {
		return utils.InternalServerError(c, "Could not delete comment")
	}

	return c.JSON(fiber.Map{"message": "Comment deleted successfully"})
}

// PinComment toggles the pinned flag. Admins and teachers only (gated in
// routes).
func (dc *DiscussionsController) PinComment(c *fiber.Ctx) error {
	commentID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return utils.BadRequest(c, "Invalid comment ID")
	}

	var discussion models.Discussion
	if err := dc.DB.First(&discussion, commentID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.NotFound(c, "Comment not found")
		}
		return utils.InternalServerError(c, "Could not query database")
	}

	discussion.IsPinned = !discussion.IsPinned
	if err := dc.DB.Save(&discussion).Error; err != nil {
		return utils.InternalServerError(c, "Could not update comment")
	}

	dc.DB.Preload("User").First(&discussion, discussion.ID)
	return c.JSON(discussion)
}

// GetReplies returns the direct replies of a comment, oldest first.
func (dc *DiscussionsController) GetReplies(c *fiber.Ctx) error {
	commentID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return utils.BadRequest(c, "Invalid comment ID")
	}

	var replies []models.Discussion
	err = dc.DB.Where("parent_id = ?", commentID).
		Preload("User").
		Order("created_at ASC").
		Find(&replies).Error
	if err != nil {
		return utils.InternalServerError(c, "Could not query database")
	}

	return c.JSON(replies)
}
