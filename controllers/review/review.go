package reviewController

import (
	"errors"

	"noc/database"
	"noc/middleware"
	"noc/models"
	"noc/workflow"

	"github.com/gofiber/fiber/v2"
)

// currentUser pulls the account loaded by the role middleware.
func currentUser(c *fiber.Ctx) (*models.User, bool) {
	user, ok := c.Locals("currentUser").(*models.User)
	return user, ok
}

// workflowErrorResponse maps the state-machine error taxonomy onto HTTP:
// validation 422, authorization 403, stale/precondition 409, missing 404,
// dependency 502.
func workflowErrorResponse(c *fiber.Ctx, err error) error {
	var vErr *workflow.ValidationError
	var aErr *workflow.AuthorizationError
	var sErr *workflow.StaleStateError
	var dErr *workflow.DependencyError

	switch {
	case errors.Is(err, workflow.ErrApplicationNotFound):
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Application not found!", nil)
	case errors.As(err, &vErr):
		return middleware.ValidationErrorResponse(c, map[string]string{vErr.Field: vErr.Message})
	case errors.As(err, &aErr):
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "You are not allowed to decide this stage!", nil)
	case errors.As(err, &sErr):
		return middleware.JsonResponse(c, fiber.StatusConflict, false, "Application is not in a reviewable state. Refresh and try again.", nil)
	case errors.As(err, &dErr):
		return middleware.JsonResponse(c, fiber.StatusBadGateway, false, "A dependent service failed. The decision was not applied.", nil)
	}
	return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to apply decision!", nil)
}

// ListApplications is the query surface for reviewer queues:
// GET /applications?stage=1&status=pending
func ListApplications(c *fiber.Ctx) error {
	stage := c.QueryInt("stage")
	if stage != models.StageFPC && stage != models.StageHOD {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "stage must be 1 or 2!", nil)
	}
	if status := c.Query("status", "pending"); status != "pending" {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Only status=pending is supported!", nil)
	}

	apps, err := workflow.ListPendingForStage(database.Database.Db, stage)
	if err != nil {
		return workflowErrorResponse(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Applications fetched.", apps)
}
