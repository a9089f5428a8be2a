package reviewValidator

import (
	"strings"

	"noc/middleware"

	"github.com/gofiber/fiber/v2"
)

// DecisionRequest is the body shared by the FPC and HOD review endpoints.
// The reviewer identity comes from the JWT, never from the body.
type DecisionRequest struct {
	SubmissionID uint   `json:"submissionId"`
	Status       string `json:"status"`
	Comments     string `json:"comments"`
}

// Decision validator middleware. Normalizes the status casing; the
// comments-on-rejection rule is enforced again by the workflow so the state
// machine stays safe without the HTTP layer.
func Decision() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(DecisionRequest)
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)

		// The id may come from the path (/applications/:id/...) or the body
		if reqData.SubmissionID == 0 {
			if id, err := c.ParamsInt("id"); err == nil && id > 0 {
				reqData.SubmissionID = uint(id)
			}
		}
		if reqData.SubmissionID == 0 {
			errors["submissionId"] = "Submission id is required!"
		}

		status := strings.ToUpper(strings.TrimSpace(reqData.Status))
		switch status {
		case "APPROVED", "APPROVE", "ACCEPTED":
			status = "APPROVED"
		case "REJECTED", "REJECT":
			status = "REJECTED"
		default:
			errors["status"] = "Status must be Approved or Rejected!"
		}

		if status == "REJECTED" && strings.TrimSpace(reqData.Comments) == "" {
			errors["comments"] = "Comments are required for rejection!"
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		reqData.Status = status
		c.Locals("validatedDecision", reqData)
		return c.Next()
	}
}
