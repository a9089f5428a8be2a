package reviewRoutes

import (
	reviewControllers "noc/controllers/review"
	"noc/middleware"
	"noc/models"
	reviewValidators "noc/validators/review"

	"github.com/gofiber/fiber/v2"
)

func SetupReviewRoutes(app *fiber.App) {
	reviewerGroup := app.Group("/reviewer",
		middleware.JWTMiddleware,
		middleware.RequireRoles(models.RoleFPC, models.RoleAdmin))

	reviewerGroup.Get("/submissions", reviewControllers.GetSubmissions)
	reviewerGroup.Post("/fpc_reviews", reviewValidators.Decision(), reviewControllers.CreateFpcReview)

	hodGroup := app.Group("/hod",
		middleware.JWTMiddleware,
		middleware.RequireRoles(models.RoleHOD, models.RoleAdmin))

	hodGroup.Get("/submissions/approved", reviewControllers.GetApprovedSubmissions)
	hodGroup.Post("/hod_reviews", reviewValidators.Decision(), reviewControllers.CreateHodReview)
	hodGroup.Get("/analytics", reviewControllers.Analytics)

	// REST-style aliases over the same handlers. No group middleware here:
	// POST /applications (submission) is public and must not inherit JWT.
	app.Get("/applications",
		middleware.JWTMiddleware,
		middleware.RequireRoles(models.RoleFPC, models.RoleHOD, models.RoleAdmin),
		reviewControllers.ListApplications)
	app.Post("/applications/:id/stage1-decision",
		middleware.JWTMiddleware,
		middleware.RequireRoles(models.RoleFPC, models.RoleAdmin),
		reviewValidators.Decision(), reviewControllers.CreateFpcReview)
	app.Post("/applications/:id/stage2-decision",
		middleware.JWTMiddleware,
		middleware.RequireRoles(models.RoleHOD, models.RoleAdmin),
		reviewValidators.Decision(), reviewControllers.CreateHodReview)
}
