package adminRoutes

import (
	adminControllers "noc/controllers/admin"
	"noc/middleware"
	"noc/models"
	adminValidators "noc/validators/admin"

	"github.com/gofiber/fiber/v2"
)

func SetupAdminRoutes(app *fiber.App) {
	adminGroup := app.Group("/admin",
		middleware.JWTMiddleware,
		middleware.RequireRoles(models.RoleAdmin))

	adminGroup.Post("/hods", adminValidators.CreateStaff(), adminControllers.CreateHod)
	adminGroup.Post("/fpcs", adminValidators.CreateStaff(), adminControllers.CreateFpc)
	adminGroup.Get("/hods", adminValidators.List(), adminControllers.ListHods)
	adminGroup.Get("/fpcs", adminValidators.List(), adminControllers.ListFpcs)
}
