package applicationRoutes

import (
	applicationControllers "noc/controllers/application"
	"noc/middleware"
	"noc/models"
	applicationValidators "noc/validators/application"

	"github.com/gofiber/fiber/v2"
)

func SetupApplicationRoutes(app *fiber.App) {
	app.Post("/submit/send-otp", applicationValidators.SendOTP(), applicationControllers.SendOTP)
	app.Post("/submit/verify-otp", applicationValidators.VerifyOTP(), applicationControllers.VerifyOTP)
	app.Post("/submit", applicationValidators.Submit(), applicationControllers.Submit)
	app.Post("/applications", applicationValidators.Submit(), applicationControllers.Submit)
	app.Get("/submissions/track", applicationControllers.Track)

	// Uploaded documents are only visible to staff
	app.Get("/files/:name",
		middleware.JWTMiddleware,
		middleware.RequireRoles(models.RoleFPC, models.RoleHOD, models.RoleAdmin),
		applicationControllers.GetFile)
}
