package controllers

import (
	"fmt"
	"mime/multipart"

	"eduplatform/config"
	"eduplatform/utils"

	"github.com/gofiber/fiber/v2"
)

type UploadController struct {
	Cfg      *config.Config
	Uploader utils.Uploader
}

func NewUploadController(cfg *config.Config, uploader utils.Uploader) *UploadController {
	return &UploadController{Cfg: cfg, Uploader: uploader}
}

type uploadRule struct {
	field        string
	folder       string
	maxSize      int64
	contentTypes map[string]bool
}

var (
	pdfRule = uploadRule{
		field:   "pdf",
		folder:  "documents",
		maxSize: 10 * 1024 * 1024,
		contentTypes: map[string]bool{
			"application/pdf": true,
		},
	}
	videoRule = uploadRule{
		field:   "video",
		folder:  "videos",
		maxSize: 100 * 1024 * 1024,
		contentTypes: map[string]bool{
			"video/mp4": true, "video/avi": true, "video/mov": true,
			"video/wmv": true, "video/flv": true, "video/mkv": true,
			"video/webm": true, "video/quicktime": true,
		},
	}
	imageRule = uploadRule{
		field:   "thumbnail",
		folder:  "images",
		maxSize: 5 * 1024 * 1024,
		contentTypes: map[string]bool{
			"image/jpeg": true, "image/jpg": true, "image/png": true,
			"image/gif": true, "image/webp": true,
		},
	}
	profilePhotoRule = uploadRule{
		field:   "photo",
		folder:  "profiles",
		maxSize: 5 * 1024 * 1024,
		contentTypes: map[string]bool{
			"image/jpeg": true, "image/jpg": true, "image/png": true,
			"image/gif": true, "image/webp": true,
		},
	}
)

func (uc *UploadController) UploadPDF(c *fiber.Ctx) error {
	return uc.relay(c, pdfRule, "No PDF file uploaded")
}

func (uc *UploadController) UploadVideo(c *fiber.Ctx) error {
	return uc.relay(c, videoRule, "No video file uploaded")
}

func (uc *UploadController) UploadThumbnail(c *fiber.Ctx) error {
	return uc.relay(c, imageRule, "No image file uploaded")
}

func (uc *UploadController) UploadProfilePhoto(c *fiber.Ctx) error {
	return uc.relay(c, profilePhotoRule, "No image file uploaded")
}

// relay forwards the multipart file to object storage and returns its
// public URL. Upstream failures surface verbatim as 500s; nothing is
// retried or cleaned up.
func (uc *UploadController) relay(c *fiber.Ctx, rule uploadRule, missingMsg string) error {
	file, err := c.FormFile(rule.field)
	if err != nil {
		return utils.BadRequest(c, missingMsg)
	}

	if err := checkFile(file, rule); err != nil {
		return utils.BadRequest(c, err.Error())
	}

	url, key, err := uc.Uploader.Upload(file, rule.folder)
	if err != nil {
		return utils.InternalServerError(c, err.Error())
	}

	return c.JSON(fiber.Map{
		"success":  true,
		"url":      url,
		"publicId": key,
	})
}

func checkFile(file *multipart.FileHeader, rule uploadRule) error {
	if file.Size > rule.maxSize {
		return fmt.Errorf("File is too large")
	}
	ct := file.Header.Get("Content-Type")
	if !rule.contentTypes[ct] {
		return fmt.Errorf("File type %s is not allowed", ct)
	}
	return nil
}
