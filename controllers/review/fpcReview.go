package reviewController

import (
	"noc/database"
	"noc/middleware"
	"noc/models"
	reviewValidator "noc/validators/review"
	"noc/workflow"

	"github.com/gofiber/fiber/v2"
)

// GetSubmissions lists applications awaiting the stage-1 (FPC) decision.
func GetSubmissions(c *fiber.Ctx) error {
	apps, err := workflow.ListPendingForStage(database.Database.Db, models.StageFPC)
	if err != nil {
		return workflowErrorResponse(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Pending submissions fetched.", apps)
}

// CreateFpcReview applies the stage-1 decision.
func CreateFpcReview(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	reqData, ok := c.Locals("validatedDecision").(*reviewValidator.DecisionRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	app, err := workflow.ApplyStage1Decision(
		database.Database.Db,
		reqData.SubmissionID,
		user.ID,
		user.Role,
		reqData.Status,
		reqData.Comments,
	)
	if err != nil {
		return workflowErrorResponse(c, err)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Review submitted.", app)
}
