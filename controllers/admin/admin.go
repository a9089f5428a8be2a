package adminController

import (
	"log"

	"noc/config"
	"noc/database"
	"noc/middleware"
	"noc/models"
	"noc/utils"
	adminValidator "noc/validators/admin"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/crypto/bcrypt"
)

// createStaff registers a reviewer account with the given role.
func createStaff(c *fiber.Ctx, role string) error {
	admin, ok := c.Locals("currentUser").(*models.User)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	reqData, ok := c.Locals("validatedStaff").(*adminValidator.StaffAccount)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	db := database.Database.Db

	// Check if email already exists
	if err := db.Where("email = ?", reqData.Email).First(&models.User{}).Error; err == nil {
		return middleware.JsonResponse(c, fiber.StatusConflict, false, "Email is already registered!", nil)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(reqData.Password), config.AppConfig.SaltRound)
	if err != nil {
		log.Printf("Error hashing password: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to process your request!", nil)
	}

	newUser := models.User{
		Name:            reqData.Name,
		Email:           reqData.Email,
		Mobile:          reqData.Mobile,
		Department:      reqData.Department,
		Password:        string(hashedPassword),
		Role:            role,
		IsEmailVerified: true,
	}

	if err := db.Create(&newUser).Error; err != nil {
		log.Printf("Error saving staff account: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to create account!", nil)
	}

	db.Create(&models.AuditLog{
		ActorID: admin.ID,
		Action:  models.ActionStaffCreated,
		Note:    role + " " + newUser.Email,
	})

	utils.SendStaffWelcomeEmail(newUser.Email, newUser.Name, role, newUser.Department)

	newUser.Password = ""
	return middleware.JsonResponse(c, fiber.StatusCreated, true, role+" account created successfully.", newUser)
}

// listStaff returns a paginated list of accounts holding the given role.
func listStaff(c *fiber.Ctx, role string) error {
	page, _ := c.Locals("validatedPage").(int)
	limit, _ := c.Locals("validatedLimit").(int)
	if page == 0 {
		page = 1
	}
	if limit == 0 {
		limit = 20
	}
	offset := (page - 1) * limit

	db := database.Database.Db

	var users []models.User
	var total int64

	if err := db.
		Where("is_deleted = false AND role = ?", role).
		Offset(offset).
		Limit(limit).
		Order("created_at ASC").
		Find(&users).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch accounts!", nil)
	}

	db.Model(&models.User{}).
		Where("is_deleted = false AND role = ?", role).
		Count(&total)

	for i := range users {
		users[i].Password = ""
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Accounts fetched.", fiber.Map{
		"users": users,
		"pagination": fiber.Map{
			"total": total,
			"page":  page,
			"limit": limit,
		},
	})
}

func CreateHod(c *fiber.Ctx) error { return createStaff(c, models.RoleHOD) }
func CreateFpc(c *fiber.Ctx) error { return createStaff(c, models.RoleFPC) }
func ListHods(c *fiber.Ctx) error  { return listStaff(c, models.RoleHOD) }
func ListFpcs(c *fiber.Ctx) error  { return listStaff(c, models.RoleFPC) }
