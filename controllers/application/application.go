package applicationController

import (
	"encoding/json"
	"log"
	"os"
	"path/filepath"
	"time"

	"noc/config"
	"noc/database"
	"noc/middleware"
	"noc/models"
	"noc/utils"
	applicationValidator "noc/validators/application"

	"github.com/gofiber/fiber/v2"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// SendOTP mails a one-time code to the student's institutional email.
func SendOTP(c *fiber.Ctx) error {
	email, ok := c.Locals("validatedEmail").(string)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	otp := models.EmailOTP{
		Email:       email,
		Code:        utils.GenerateOTP(),
		ExpiresAt:   time.Now().Add(time.Duration(config.AppConfig.OTPTTLMinutes) * time.Minute),
		Description: "Student email verification",
	}
	if err := database.Database.Db.Create(&otp).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to create OTP!", nil)
	}

	if err := utils.SendOTPEmail(otp.Code, email); err != nil {
		return middleware.JsonResponse(c, fiber.StatusBadGateway, false, "Failed to send OTP email!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "OTP sent to your email.", nil)
}

// VerifyOTP marks the student's email as verified for submission.
func VerifyOTP(c *fiber.Ctx) error {
	email, _ := c.Locals("validatedEmail").(string)
	code, _ := c.Locals("validatedCode").(string)

	var otp models.EmailOTP
	err := database.Database.Db.
		Where("email = ? AND code = ? AND is_used = false AND is_deleted = false AND expires_at > ?",
			email, code, time.Now()).
		Order("created_at DESC").
		First(&otp).Error
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid or expired OTP!", nil)
	}

	if err := database.Database.Db.Model(&otp).Update("is_verified", true).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to verify OTP!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Email verified.", nil)
}

// hasVerifiedOTP checks the submission precondition: a verified, unused,
// unexpired code for this email. The expiry window is enforced server-side
// regardless of what the form did client-side.
func hasVerifiedOTP(db *gorm.DB, email string) (*models.EmailOTP, bool) {
	var otp models.EmailOTP
	err := db.
		Where("email = ? AND is_verified = true AND is_used = false AND is_deleted = false AND expires_at > ?",
			email, time.Now()).
		Order("created_at DESC").
		First(&otp).Error
	if err != nil {
		return nil, false
	}
	return &otp, true
}

// Submit creates a new application in the initial pending state. Creation is
// all-or-nothing: any validation failure writes neither files nor rows.
func Submit(c *fiber.Ctx) error {
	sub, ok := c.Locals("validatedSubmission").(*applicationValidator.Submission)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	db := database.Database.Db

	otp, verified := hasVerifiedOTP(db, sub.Email)
	if !verified {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "Please verify your institutional email before submitting!", nil)
	}

	// Document rules: mail copy always, offer letter only for Specific NOCs.
	fileErrors := make(map[string]string)

	mailCopy, err := c.FormFile("mailCopy")
	if err != nil {
		fileErrors["mailCopy"] = "Mail copy is required!"
	} else if vErr := utils.ValidateUpload(mailCopy); vErr != nil {
		fileErrors["mailCopy"] = vErr.Error()
	}

	offerLetter, err := c.FormFile("offerLetter")
	if sub.NocType == models.NocTypeSpecific {
		if err != nil {
			fileErrors["offerLetter"] = "Offer letter is required for Specific NOC type!"
		} else if vErr := utils.ValidateUpload(offerLetter); vErr != nil {
			fileErrors["offerLetter"] = vErr.Error()
		}
	} else if err != nil {
		offerLetter = nil
	} else if vErr := utils.ValidateUpload(offerLetter); vErr != nil {
		fileErrors["offerLetter"] = vErr.Error()
	}

	if len(fileErrors) > 0 {
		return middleware.ValidationErrorResponse(c, fileErrors)
	}

	mailCopyPath, err := utils.SaveUploadedFile(mailCopy, config.AppConfig.UploadDir)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to store mail copy!", nil)
	}

	offerLetterPath := ""
	if offerLetter != nil {
		offerLetterPath, err = utils.SaveUploadedFile(offerLetter, config.AppConfig.UploadDir)
		if err != nil {
			os.Remove(mailCopyPath)
			return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to store offer letter!", nil)
		}
	}

	app := models.Application{
		RegistrationNumber: sub.RegistrationNumber,
		Name:               sub.Name,
		Email:              sub.Email,
		Mobile:             sub.Mobile,
		Department:         sub.Department,
		Section:            sub.Section,
		Semester:           sub.Semester,
		Gender:             sub.Gender,
		NocType:            sub.NocType,
		OfferType:          sub.OfferType,
		InternshipType:     sub.InternshipType,
		Cgpa:               sub.Cgpa,
		Backlogs:           sub.Backlogs,
		CompanyName:        sub.CompanyName,
		CompanyCity:        sub.CompanyCity,
		CompanyState:       sub.CompanyState,
		CompanyPin:         sub.CompanyPin,
		HrdEmail:           sub.HrdEmail,
		HrdNumber:          sub.HrdNumber,
		Stipend:            sub.Stipend,
		PpoPackage:         sub.PpoPackage,
		StartDate:          sub.StartDate,
		EndDate:            sub.EndDate,
		OfferLetterPath:    offerLetterPath,
		MailCopyPath:       mailCopyPath,
		Stage1Status:       models.StatusPending,
		Stage2Status:       models.StatusPending,
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&app).Error; err != nil {
			return err
		}
		if err := tx.Model(otp).Update("is_used", true).Error; err != nil {
			return err
		}
		metadata, _ := json.Marshal(map[string]interface{}{
			"nocType":   app.NocType,
			"offerType": app.OfferType,
		})
		audit := models.AuditLog{
			ApplicationID: app.ID,
			Action:        models.ActionSubmitted,
			Metadata:      datatypes.JSON(metadata),
		}
		return tx.Create(&audit).Error
	})
	if err != nil {
		os.Remove(mailCopyPath)
		if offerLetterPath != "" {
			os.Remove(offerLetterPath)
		}
		log.Printf("Error saving application: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to submit application!", nil)
	}

	app.Status = app.OverallStatus()
	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Application submitted successfully!", app)
}

// Track lets a student check the progress of their applications.
func Track(c *fiber.Ctx) error {
	regNo := c.Query("registrationNumber")
	if regNo == "" {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "registrationNumber is required!", nil)
	}

	var apps []models.Application
	if err := database.Database.Db.
		Where("registration_number = ? AND is_deleted = false", regNo).
		Order("created_at DESC").
		Find(&apps).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch applications!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Applications fetched.", apps)
}

// GetFile serves an uploaded document to an authenticated reviewer.
func GetFile(c *fiber.Ctx) error {
	name := filepath.Base(c.Params("name"))
	path := filepath.Join(config.AppConfig.UploadDir, name)

	if _, err := os.Stat(path); err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "File not found!", nil)
	}
	return c.SendFile(path)
}
