package authController

import (
	"log"
	"time"

	"noc/config"
	"noc/database"
	"noc/middleware"
	"noc/models"
	"noc/utils"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/crypto/bcrypt"
)

// Login authenticates a staff account (FPC, HOD or ADMIN) and issues a JWT.
func Login(c *fiber.Ctx) error {
	reqData, ok := c.Locals("validatedLogin").(*struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	db := database.Database.Db

	var user models.User
	if err := db.Where("email = ? AND is_deleted = false", reqData.Email).First(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Invalid credentials!", nil)
	}

	if user.IsBlocked {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "Account is blocked. Contact the administrator.", nil)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(reqData.Password)); err != nil {
		db.Model(&user).Update("failed_login_attempts", user.FailedLoginAttempts+1)
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Invalid credentials!", nil)
	}

	token, err := middleware.GenerateJWT(user.ID, user.Name, user.Role, user.Email)
	if err != nil {
		log.Printf("Error generating JWT: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to process your request!", nil)
	}

	db.Model(&user).Updates(map[string]interface{}{
		"last_login":            time.Now(),
		"failed_login_attempts": 0,
	})

	user.Password = ""
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Login successful.", fiber.Map{
		"token": token,
		"user":  user,
	})
}

// ForgotPasswordSendOTP mails (and, when a mobile is on file, texts) a reset code.
func ForgotPasswordSendOTP(c *fiber.Ctx) error {
	email, ok := c.Locals("validatedEmail").(string)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	db := database.Database.Db

	var user models.User
	if err := db.Where("email = ? AND is_deleted = false", email).First(&user).Error; err != nil {
		// Do not reveal whether the account exists
		return middleware.JsonResponse(c, fiber.StatusOK, true, "If the account exists, an OTP has been sent.", nil)
	}

	otp := models.EmailOTP{
		Email:       email,
		Mobile:      user.Mobile,
		Code:        utils.GenerateOTP(),
		ExpiresAt:   time.Now().Add(time.Duration(config.AppConfig.OTPTTLMinutes) * time.Minute),
		Description: "Staff password reset",
	}
	if err := db.Create(&otp).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to create OTP!", nil)
	}

	if err := utils.SendOTPEmail(otp.Code, email); err != nil {
		return middleware.JsonResponse(c, fiber.StatusBadGateway, false, "Failed to send OTP email!", nil)
	}
	if user.Mobile != "" {
		go utils.SendOTPToMobile(user.Mobile, otp.Code)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "If the account exists, an OTP has been sent.", nil)
}

// ForgotPasswordVerifyOTP checks the reset code and issues a short-lived token
// the reset endpoint accepts.
func ForgotPasswordVerifyOTP(c *fiber.Ctx) error {
	email, _ := c.Locals("validatedEmail").(string)
	code, _ := c.Locals("validatedCode").(string)

	db := database.Database.Db

	var otp models.EmailOTP
	err := db.
		Where("email = ? AND code = ? AND is_used = false AND is_deleted = false AND expires_at > ?",
			email, code, time.Now()).
		Order("created_at DESC").
		First(&otp).Error
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid or expired OTP!", nil)
	}

	var user models.User
	if err := db.Where("email = ? AND is_deleted = false", email).First(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid or expired OTP!", nil)
	}

	if err := db.Model(&otp).Update("is_used", true).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to verify OTP!", nil)
	}

	token, err := middleware.GenerateJWT(user.ID, user.Name, user.Role, user.Email)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to process your request!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "OTP verified.", fiber.Map{"token": token})
}

// ResetPassword updates the password of the authenticated account.
func ResetPassword(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}
	newPassword, ok := c.Locals("validatedNewPassword").(string)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	db := database.Database.Db

	var user models.User
	if err := db.Where("id = ? AND is_deleted = false", userID).First(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "User not found!", nil)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(newPassword), config.AppConfig.SaltRound)
	if err != nil {
		log.Printf("Error hashing password: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to process your request!", nil)
	}

	if err := db.Model(&user).Update("password", string(hashed)).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to reset password!", nil)
	}

	db.Create(&models.AuditLog{
		ActorID: user.ID,
		Action:  models.ActionPasswordReset,
	})

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Password reset successfully.", nil)
}
