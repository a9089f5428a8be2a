package adminValidator

import (
	"regexp"
	"strings"

	"noc/middleware"

	"github.com/gofiber/fiber/v2"
)

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
var mobileRegex = regexp.MustCompile(`^[0-9]{10}$`)

// StaffAccount carries the validated payload for creating an FPC or HOD account.
type StaffAccount struct {
	Name       string `json:"name"`
	Email      string `json:"email"`
	Password   string `json:"password"`
	Department string `json:"department"`
	Mobile     string `json:"mobile"`
}

// CreateStaff validator middleware
func CreateStaff() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(StaffAccount)
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)

		if len(strings.TrimSpace(reqData.Name)) < 3 {
			errors["name"] = "Name must be at least 3 characters long!"
		}
		if reqData.Email == "" || !emailRegex.MatchString(reqData.Email) {
			errors["email"] = "Invalid email!"
		}
		if len(strings.TrimSpace(reqData.Password)) < 8 {
			errors["password"] = "Password must be at least 8 characters long!"
		}
		if strings.TrimSpace(reqData.Department) == "" {
			errors["department"] = "Department is required!"
		}
		if reqData.Mobile != "" && !mobileRegex.MatchString(reqData.Mobile) {
			errors["mobile"] = "Invalid mobile number!"
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedStaff", reqData)
		return c.Next()
	}
}

// List validator middleware for paginated staff listings
func List() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(struct {
			Page  *int `query:"page"`
			Limit *int `query:"limit"`
		})
		if err := c.QueryParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid query parameters!", nil)
		}

		page, limit := 1, 20
		if reqData.Page != nil && *reqData.Page > 0 {
			page = *reqData.Page
		}
		if reqData.Limit != nil && *reqData.Limit > 0 && *reqData.Limit <= 100 {
			limit = *reqData.Limit
		}

		c.Locals("validatedPage", page)
		c.Locals("validatedLimit", limit)
		return c.Next()
	}
}
