// Package workflow implements the two-stage NOC approval state machine.
//
// An application starts with both stage columns PENDING. The FPC decides
// stage 1, the HOD decides stage 2, and stage 2 is only reachable once stage 1
// is APPROVED. Rejection at either stage is terminal. The overall status is
// never stored; it is derived from the stage columns and the presence of the
// generated NOC document.
package workflow

import (
	"encoding/json"
	"errors"
	"strings"

	"noc/models"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Decision values accepted from reviewers.
const (
	DecisionApproved = models.StatusApproved
	DecisionRejected = models.StatusRejected
)

// ArtifactFunc produces the NOC document for an approved application and
// returns its path. It must be deterministic for a given application.
type ArtifactFunc func(app *models.Application) (string, error)

// NotifyFunc informs the submitter of the stage-2 outcome.
type NotifyFunc func(app *models.Application, decision, comments string) error

// RoleCanDecide is the access policy: FPC decides stage 1, HOD stage 2, and
// ADMIN may act as either.
func RoleCanDecide(role string, stage int) bool {
	switch role {
	case models.RoleAdmin:
		return true
	case models.RoleFPC:
		return stage == models.StageFPC
	case models.RoleHOD:
		return stage == models.StageHOD
	}
	return false
}

func validateDecision(decision, comments string) error {
	if decision != DecisionApproved && decision != DecisionRejected {
		return &ValidationError{Field: "decision", Message: "decision must be APPROVED or REJECTED"}
	}
	if decision == DecisionRejected && strings.TrimSpace(comments) == "" {
		return &ValidationError{Field: "comments", Message: "comments are required when rejecting"}
	}
	return nil
}

func loadApplication(db *gorm.DB, appID uint) (*models.Application, error) {
	var app models.Application
	err := db.Where("id = ? AND is_deleted = false", appID).First(&app).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrApplicationNotFound
	}
	if err != nil {
		return nil, &DependencyError{Op: "load application", Err: err}
	}
	return &app, nil
}

func recordReview(tx *gorm.DB, app *models.Application, reviewerID uint, stage int, decision, comments, action string) error {
	review := models.StageReview{
		ApplicationID: app.ID,
		ReviewerID:    reviewerID,
		Stage:         stage,
		Decision:      decision,
		Comments:      strings.TrimSpace(comments),
	}
	if err := tx.Create(&review).Error; err != nil {
		return &DependencyError{Op: "record review", Err: err}
	}

	metadata, _ := json.Marshal(map[string]interface{}{
		"decision": decision,
		"comments": strings.TrimSpace(comments),
	})
	audit := models.AuditLog{
		ApplicationID: app.ID,
		ActorID:       reviewerID,
		Action:        action,
		Note:          strings.TrimSpace(comments),
		Metadata:      datatypes.JSON(metadata),
	}
	if err := tx.Create(&audit).Error; err != nil {
		return &DependencyError{Op: "record audit log", Err: err}
	}
	return nil
}

// ApplyStage1Decision applies the FPC decision. The stage-1 column is moved
// from PENDING with a guarded update so concurrent decisions on the same
// application cannot both win; the loser gets a StaleStateError.
func ApplyStage1Decision(db *gorm.DB, appID, reviewerID uint, role, decision, comments string) (*models.Application, error) {
	if !RoleCanDecide(role, models.StageFPC) {
		return nil, &AuthorizationError{Role: role, Stage: models.StageFPC}
	}
	if err := validateDecision(decision, comments); err != nil {
		return nil, err
	}

	app, err := loadApplication(db, appID)
	if err != nil {
		return nil, err
	}
	if app.Stage1Status != models.StatusPending {
		return nil, &StaleStateError{Stage: models.StageFPC, CurrentStatus: app.Stage1Status}
	}

	action := models.ActionFpcApproved
	if decision == DecisionRejected {
		action = models.ActionFpcRejected
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.Application{}).
			Where("id = ? AND stage1_status = ? AND is_deleted = false", appID, models.StatusPending).
			Update("stage1_status", decision)
		if res.Error != nil {
			return &DependencyError{Op: "update stage-1 status", Err: res.Error}
		}
		if res.RowsAffected == 0 {
			// Another decision committed first.
			return &StaleStateError{Stage: models.StageFPC, CurrentStatus: decision}
		}
		return recordReview(tx, app, reviewerID, models.StageFPC, decision, comments, action)
	})
	if err != nil {
		return nil, err
	}

	return loadApplication(db, appID)
}

// ApplyStage2Decision applies the HOD decision. Approval generates the NOC
// document inside the transaction: if generation fails the transition rolls
// back, so an approved-but-artifactless application is never visible. The
// submitter is notified after commit; a notification failure does not undo
// the decision and is returned as a warning string.
func ApplyStage2Decision(db *gorm.DB, appID, reviewerID uint, role, decision, comments string, generate ArtifactFunc, notify NotifyFunc) (*models.Application, string, error) {
	if !RoleCanDecide(role, models.StageHOD) {
		return nil, "", &AuthorizationError{Role: role, Stage: models.StageHOD}
	}
	if err := validateDecision(decision, comments); err != nil {
		return nil, "", err
	}

	app, err := loadApplication(db, appID)
	if err != nil {
		return nil, "", err
	}
	if app.Stage1Status != models.StatusApproved {
		return nil, "", &StaleStateError{Stage: models.StageHOD, CurrentStatus: app.Stage1Status}
	}
	if app.Stage2Status != models.StatusPending {
		return nil, "", &StaleStateError{Stage: models.StageHOD, CurrentStatus: app.Stage2Status}
	}

	action := models.ActionHodApproved
	if decision == DecisionRejected {
		action = models.ActionHodRejected
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.Application{}).
			Where("id = ? AND stage1_status = ? AND stage2_status = ? AND is_deleted = false",
				appID, models.StatusApproved, models.StatusPending).
			Update("stage2_status", decision)
		if res.Error != nil {
			return &DependencyError{Op: "update stage-2 status", Err: res.Error}
		}
		if res.RowsAffected == 0 {
			return &StaleStateError{Stage: models.StageHOD, CurrentStatus: models.StatusApproved}
		}

		if decision == DecisionApproved {
			nocPath, genErr := generate(app)
			if genErr != nil {
				return &DependencyError{Op: "generate NOC document", Err: genErr}
			}
			if err := tx.Model(&models.Application{}).
				Where("id = ?", appID).
				Update("noc_path", nocPath).Error; err != nil {
				return &DependencyError{Op: "record NOC path", Err: err}
			}
			audit := models.AuditLog{
				ApplicationID: app.ID,
				ActorID:       reviewerID,
				Action:        models.ActionNocGenerated,
				Note:          nocPath,
			}
			if err := tx.Create(&audit).Error; err != nil {
				return &DependencyError{Op: "record audit log", Err: err}
			}
		}

		return recordReview(tx, app, reviewerID, models.StageHOD, decision, comments, action)
	})
	if err != nil {
		return nil, "", err
	}

	updated, err := loadApplication(db, appID)
	if err != nil {
		return nil, "", err
	}

	// Decision is the system of record; email is best effort.
	warning := ""
	if notify != nil {
		if notifyErr := notify(updated, decision, strings.TrimSpace(comments)); notifyErr != nil {
			warning = "decision saved, but the notification email could not be sent"
		}
	}

	return updated, warning, nil
}

// ListPendingForStage returns the reviewer queue for a stage. Stage 1 lists
// applications awaiting the FPC; stage 2 lists stage-1-approved applications
// awaiting the HOD. Oldest submissions first for a stable queue.
func ListPendingForStage(db *gorm.DB, stage int) ([]models.Application, error) {
	var apps []models.Application
	query := db.Where("is_deleted = false")

	switch stage {
	case models.StageFPC:
		query = query.Where("stage1_status = ?", models.StatusPending)
	case models.StageHOD:
		query = query.Where("stage1_status = ? AND stage2_status = ?", models.StatusApproved, models.StatusPending)
	default:
		return nil, &ValidationError{Field: "stage", Message: "stage must be 1 or 2"}
	}

	if err := query.Order("created_at ASC").Find(&apps).Error; err != nil {
		return nil, &DependencyError{Op: "list applications", Err: err}
	}
	return apps, nil
}
