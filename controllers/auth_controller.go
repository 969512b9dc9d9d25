package controllers

import (
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"time"

	"eduplatform/config"
	"eduplatform/middleware"
	"eduplatform/models"
	"eduplatform/utils"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type AuthController struct {
	DB     *gorm.DB
	Cfg    *config.Config
	Mailer utils.Mailer
}

func NewAuthController(db *gorm.DB, cfg *config.Config, mailer utils.Mailer) *AuthController {
	return &AuthController{DB: db, Cfg: cfg, Mailer: mailer}
}

type RegisterInput struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
	Role     string `json:"role" validate:"required,oneof=student teacher"`
}

// Register creates an unverified account and emails a verification code.
// If the email cannot be sent the account is removed again so the address
// stays free for a retry.
func (ac *AuthController) Register(c *fiber.Ctx) error {
	var input RegisterInput
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Cannot parse JSON")
	}
	if err := utils.ValidateStruct(input); err != nil {
		return utils.BadRequest(c, err.Error())
	}

	var existing models.User
	if err := ac.DB.Where("email = ?", input.Email).First(&existing).Error; err == nil {
		return utils.BadRequest(c, "User already exists")
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return utils.InternalServerError(c, "Could not hash password")
	}

	user := models.User{
		Name:       input.Name,
		Email:      input.Email,
		Password:   string(hashedPassword),
		Role:       input.Role,
		IsVerified: false,
		IsApproved: input.Role == models.RoleStudent, // teachers need admin approval
	}

	code, err := ac.setVerificationCode(&user)
	if err != nil {
		return utils.InternalServerError(c, "Could not generate verification code")
	}

	if err := ac.DB.Create(&user).Error; err != nil {
		return utils.InternalServerError(c, "Could not create user")
	}

	body := utils.VerificationEmailBody(user.Name, code)
	if err := ac.Mailer.Send(user.Email, "Verify Your Email - Edu Platform", body); err != nil {
		// Compensating delete: the account must not linger unverifiable.
		ac.DB.Unscoped().Delete(&user)
		return utils.InternalServerError(c, "Failed to send verification email. Please try again.")
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Registration successful. Please check your email for verification code.",
		"userId":  user.ID,
		"email":   user.Email,
	})
}

type VerifyEmailInput struct {
	UserID uint   `json:"userId" validate:"required"`
	Code   string `json:"code" validate:"required"`
}

// VerifyEmail godoc
// @Summary Verify email with code
// @Tags auth
// @Router /auth/verify-email [post]
func (ac *AuthController) VerifyEmail(c *fiber.Ctx) error {
	var input VerifyEmailInput
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Cannot parse JSON")
	}
	if err := utils.ValidateStruct(input); err != nil {
		return utils.BadRequest(c, err.Error())
	}

	var user models.User
	if err := ac.DB.First(&user, input.UserID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.NotFound(c, "User not found")
		}
		return utils.InternalServerError(c, "Could not query database")
	}

	if user.IsVerified {
		return utils.BadRequest(c, "Email already verified")
	}
	if user.VerificationCode == "" || user.VerificationCodeExpire == nil {
		return utils.BadRequest(c, "Verification code not found. Please request a new one.")
	}
	if time.Now().After(*user.VerificationCodeExpire) {
		return utils.BadRequest(c, "Verification code has expired. Please request a new one.")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.VerificationCode), []byte(input.Code)); err != nil {
		return utils.BadRequest(c, "Invalid verification code")
	}

	user.IsVerified = true
	user.VerificationCode = ""
	user.VerificationCodeExpire = nil
	if err := ac.DB.Save(&user).Error; err != nil {
		return utils.InternalServerError(c, "Could not update user")
	}

	token, err := utils.GenerateJWTToken(user.ID, ac.Cfg)
	if err != nil {
		return utils.InternalServerError(c, "Could not generate token")
	}

	return c.JSON(fiber.Map{
		"message": "Email verified successfully",
		"user":    user,
		"token":   token,
	})
}

type ResendVerificationInput struct {
	Email string `json:"email" validate:"required,email"`
}

func (ac *AuthController) ResendVerification(c *fiber.Ctx) error {
	var input ResendVerificationInput
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Cannot parse JSON")
	}
	if err := utils.ValidateStruct(input); err != nil {
		return utils.BadRequest(c, err.Error())
	}

	var user models.User
	if err := ac.DB.Where("email = ?", input.Email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.NotFound(c, "User not found")
		}
		return utils.InternalServerError(c, "Could not query database")
	}

	if user.IsVerified {
		return utils.BadRequest(c, "Email already verified")
	}

	code, err := ac.setVerificationCode(&user)
	if err != nil {
		return utils.InternalServerError(c, "Could not generate verification code")
	}
	if err := ac.DB.Save(&user).Error; err != nil {
		return utils.InternalServerError(c, "Could not update user")
	}

	body := fmt.Sprintf("Hi %s,\n\nHere is your new verification code: %s\n\nThis code will expire in 10 minutes.", user.Name, code)
	if err := ac.Mailer.Send(user.Email, "New Verification Code - Edu Platform", body); err != nil {
		return utils.InternalServerError(c, "Failed to resend verification code")
	}

	return c.JSON(fiber.Map{
		"message": "Verification code sent successfully",
		"userId":  user.ID,
	})
}

type LoginInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// Login godoc
// @Summary Authenticate user and return JWT token
// @Tags auth
// @Router /auth/login [post]
func (ac *AuthController) Login(c *fiber.Ctx) error {
	var input LoginInput
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Cannot parse JSON")
	}
	if err := utils.ValidateStruct(input); err != nil {
		return utils.BadRequest(c, err.Error())
	}

	var user models.User
	if err := ac.DB.Where("email = ?", input.Email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.Unauthorized(c, "Invalid email or password")
		}
		return utils.InternalServerError(c, "Could not query database")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(input.Password)); err != nil {
		return utils.Unauthorized(c, "Invalid email or password")
	}

	if !user.IsVerified {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"message":           "Please verify your email before logging in",
			"needsVerification": true,
			"userId":            user.ID,
		})
	}

	token, err := utils.GenerateJWTToken(user.ID, ac.Cfg)
	if err != nil {
		return utils.InternalServerError(c, "Could not generate token")
	}

	return c.JSON(fiber.Map{
		"id":          user.ID,
		"name":        user.Name,
		"email":       user.Email,
		"role":        user.Role,
		"photo":       user.Photo,
		"bio":         user.Bio,
		"is_approved": user.IsApproved,
		"is_verified": user.IsVerified,
		"token":       token,
	})
}

func (ac *AuthController) GetProfile(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)
	return c.JSON(user)
}

type UpdateProfileInput struct {
	Name  string `json:"name"`
	Bio   string `json:"bio"`
	Photo string `json:"photo"`
}

func (ac *AuthController) UpdateProfile(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)

	var input UpdateProfileInput
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Cannot parse JSON")
	}

	if input.Name != "" {
		user.Name = input.Name
	}
	if input.Bio != "" {
		user.Bio = input.Bio
	}
	if input.Photo != "" {
		user.Photo = input.Photo
	}

	if err := ac.DB.Save(&user).Error; err != nil {
		return utils.InternalServerError(c, "Could not update profile")
	}

	return c.JSON(user)
}

// setVerificationCode stores a bcrypt hash of a fresh 6-digit code on the
// user and returns the plain code for the email.
func (ac *AuthController) setVerificationCode(user *models.User) (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(900000))
	if err != nil {
		return "", err
	}
	code := fmt.Sprintf("%06d", n.Int64()+100000)

	hashed, err := bcrypt.GenerateFromPassword([]byte(code), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}

	expire := time.Now().Add(10 * time.Minute)
	user.VerificationCode = string(hashed)
	user.VerificationCodeExpire = &expire
	return code, nil
}
