package reviewController

import (
	"noc/database"
	"noc/middleware"
	"noc/models"
	"noc/utils"
	reviewValidator "noc/validators/review"
	"noc/workflow"

	"github.com/gofiber/fiber/v2"
	"github.com/jinzhu/now"
)

// GetApprovedSubmissions lists stage-1-approved applications awaiting the HOD,
// each with the FPC review attached so the HOD sees the first-line remarks.
func GetApprovedSubmissions(c *fiber.Ctx) error {
	db := database.Database.Db

	apps, err := workflow.ListPendingForStage(db, models.StageHOD)
	if err != nil {
		return workflowErrorResponse(c, err)
	}

	ids := make([]uint, 0, len(apps))
	for _, app := range apps {
		ids = append(ids, app.ID)
	}

	var reviews []models.StageReview
	if len(ids) > 0 {
		db.Where("application_id IN ? AND stage = ?", ids, models.StageFPC).Find(&reviews)
	}
	reviewByApp := make(map[uint]models.StageReview, len(reviews))
	for _, r := range reviews {
		reviewByApp[r.ApplicationID] = r
	}

	result := make([]fiber.Map, 0, len(apps))
	for _, app := range apps {
		entry := fiber.Map{"application": app}
		if r, ok := reviewByApp[app.ID]; ok {
			entry["fpcReview"] = r
		}
		result = append(result, entry)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Approved submissions fetched.", result)
}

// CreateHodReview applies the stage-2 decision. Approval generates the NOC
// document atomically with the transition; the student is always emailed the
// outcome, and a failed email comes back as a warning beside the result.
func CreateHodReview(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	reqData, ok := c.Locals("validatedDecision").(*reviewValidator.DecisionRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	notify := func(app *models.Application, decision, comments string) error {
		return utils.SendDecisionEmail(app.Email, app.Name, decision, comments)
	}

	app, warning, err := workflow.ApplyStage2Decision(
		database.Database.Db,
		reqData.SubmissionID,
		user.ID,
		user.Role,
		reqData.Status,
		reqData.Comments,
		utils.GenerateNOC,
		notify,
	)
	if err != nil {
		return workflowErrorResponse(c, err)
	}

	data := fiber.Map{"application": app}
	if warning != "" {
		data["warning"] = warning
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Review submitted.", data)
}

// Analytics summarizes the pipeline for the HOD dashboard: per-stage status
// counts, approved applications per department, and this month's intake.
func Analytics(c *fiber.Ctx) error {
	db := database.Database.Db

	type statusCount struct {
		Status string `json:"status"`
		Count  int64  `json:"count"`
	}

	var stage1 []statusCount
	db.Model(&models.Application{}).
		Select("stage1_status AS status, COUNT(*) AS count").
		Where("is_deleted = false").
		Group("stage1_status").
		Scan(&stage1)

	var stage2 []statusCount
	db.Model(&models.Application{}).
		Select("stage2_status AS status, COUNT(*) AS count").
		Where("is_deleted = false").
		Group("stage2_status").
		Scan(&stage2)

	type deptCount struct {
		Department string `json:"department"`
		Count      int64  `json:"count"`
	}
	var approvedByDept []deptCount
	db.Model(&models.Application{}).
		Select("department, COUNT(*) AS count").
		Where("is_deleted = false AND stage2_status = ?", models.StatusApproved).
		Group("department").
		Scan(&approvedByDept)

	var monthSubmissions int64
	db.Model(&models.Application{}).
		Where("is_deleted = false AND created_at >= ?", now.BeginningOfMonth()).
		Count(&monthSubmissions)

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Analytics fetched.", fiber.Map{
		"stage1":               stage1,
		"stage2":               stage2,
		"approvedByDepartment": approvedByDept,
		"submissionsThisMonth": monthSubmissions,
	})
}
