package workflow

import (
	"errors"
	"fmt"
	"sync"
	"testing"

	"noc/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func setupTestDb(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	// A single connection keeps every query on the same in-memory database
	// and serializes concurrent transactions.
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Application{},
		&models.StageReview{},
		&models.EmailOTP{},
		&models.AuditLog{},
	))
	return db
}

func createApplication(t *testing.T, db *gorm.DB) *models.Application {
	app := &models.Application{
		RegistrationNumber: "219301234",
		Name:               "Asha Verma",
		Email:              "asha.verma@muj.manipal.edu",
		Mobile:             "9876543210",
		Department:         "CSE",
		NocType:            models.NocTypeGeneric,
		OfferType:          models.OfferTypeOffCampus,
		InternshipType:     models.InternshipPlain,
		MailCopyPath:       "uploads/mailcopy.pdf",
		Stage1Status:       models.StatusPending,
		Stage2Status:       models.StatusPending,
	}
	require.NoError(t, db.Create(app).Error)
	return app
}

func fakeArtifact(app *models.Application) (string, error) {
	return fmt.Sprintf("noc_documents/NOC_%s_%d.pdf", app.RegistrationNumber, app.ID), nil
}

func reloadApp(t *testing.T, db *gorm.DB, id uint) *models.Application {
	var app models.Application
	require.NoError(t, db.First(&app, id).Error)
	return &app
}

func TestApplyStage1Decision_Approve(t *testing.T) {
	db := setupTestDb(t)
	app := createApplication(t, db)

	updated, err := ApplyStage1Decision(db, app.ID, 7, models.RoleFPC, DecisionApproved, "")
	require.NoError(t, err)

	assert.Equal(t, models.StatusApproved, updated.Stage1Status)
	assert.Equal(t, models.StatusPending, updated.Stage2Status)
	assert.Equal(t, models.StatusPending, updated.Status) // awaiting stage 2

	var review models.StageReview
	require.NoError(t, db.Where("application_id = ? AND stage = ?", app.ID, models.StageFPC).First(&review).Error)
	assert.Equal(t, uint(7), review.ReviewerID)
	assert.Equal(t, DecisionApproved, review.Decision)

	var audits int64
	db.Model(&models.AuditLog{}).Where("application_id = ? AND action = ?", app.ID, models.ActionFpcApproved).Count(&audits)
	assert.EqualValues(t, 1, audits)
}

func TestApplyStage1Decision_RejectRequiresComments(t *testing.T) {
	db := setupTestDb(t)
	app := createApplication(t, db)

	for _, comments := range []string{"", "   ", "\t\n"} {
		_, err := ApplyStage1Decision(db, app.ID, 7, models.RoleFPC, DecisionRejected, comments)

		var vErr *ValidationError
		require.ErrorAs(t, err, &vErr)
		assert.Equal(t, "comments", vErr.Field)
	}

	// No state mutation and no review rows
	fresh := reloadApp(t, db, app.ID)
	assert.Equal(t, models.StatusPending, fresh.Stage1Status)

	var reviews int64
	db.Model(&models.StageReview{}).Where("application_id = ?", app.ID).Count(&reviews)
	assert.EqualValues(t, 0, reviews)
}

func TestApplyStage1Decision_RejectionIsTerminal(t *testing.T) {
	db := setupTestDb(t)
	app := createApplication(t, db)

	updated, err := ApplyStage1Decision(db, app.ID, 7, models.RoleFPC, DecisionRejected, "incomplete documents")
	require.NoError(t, err)
	assert.Equal(t, models.StatusRejected, updated.Stage1Status)
	assert.Equal(t, models.StatusRejected, updated.Status)

	// Stage 1 cannot be re-decided
	_, err = ApplyStage1Decision(db, app.ID, 7, models.RoleFPC, DecisionApproved, "")
	var sErr *StaleStateError
	require.ErrorAs(t, err, &sErr)

	// Stage 2 is unreachable
	_, _, err = ApplyStage2Decision(db, app.ID, 9, models.RoleHOD, DecisionApproved, "", fakeArtifact, nil)
	require.ErrorAs(t, err, &sErr)

	assert.Equal(t, models.StatusRejected, reloadApp(t, db, app.ID).Status)
}

func TestApplyStage1Decision_DoubleDecisionFails(t *testing.T) {
	db := setupTestDb(t)
	app := createApplication(t, db)

	_, err := ApplyStage1Decision(db, app.ID, 7, models.RoleFPC, DecisionApproved, "")
	require.NoError(t, err)

	_, err = ApplyStage1Decision(db, app.ID, 8, models.RoleFPC, DecisionApproved, "")
	var sErr *StaleStateError
	require.ErrorAs(t, err, &sErr)

	var reviews int64
	db.Model(&models.StageReview{}).Where("application_id = ?", app.ID).Count(&reviews)
	assert.EqualValues(t, 1, reviews)
}

func TestApplyStage1Decision_ConcurrentOnlyOneWins(t *testing.T) {
	db := setupTestDb(t)
	app := createApplication(t, db)

	var wg sync.WaitGroup
	results := make([]error, 2)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, results[i] = ApplyStage1Decision(db, app.ID, uint(10+i), models.RoleFPC, DecisionApproved, "")
		}(i)
	}
	wg.Wait()

	var succeeded, stale int
	for _, err := range results {
		if err == nil {
			succeeded++
			continue
		}
		var sErr *StaleStateError
		if errors.As(err, &sErr) {
			stale++
		}
	}
	assert.Equal(t, 1, succeeded)
	assert.Equal(t, 1, stale)

	var reviews int64
	db.Model(&models.StageReview{}).Where("application_id = ?", app.ID).Count(&reviews)
	assert.EqualValues(t, 1, reviews)
}

func TestApplyStage1Decision_RoleGuard(t *testing.T) {
	db := setupTestDb(t)
	app := createApplication(t, db)

	_, err := ApplyStage1Decision(db, app.ID, 9, models.RoleHOD, DecisionApproved, "")
	var aErr *AuthorizationError
	require.ErrorAs(t, err, &aErr)

	// Admin may act as either reviewer
	_, err = ApplyStage1Decision(db, app.ID, 1, models.RoleAdmin, DecisionApproved, "")
	require.NoError(t, err)
}

func TestApplyStage1Decision_NotFound(t *testing.T) {
	db := setupTestDb(t)

	_, err := ApplyStage1Decision(db, 4242, 7, models.RoleFPC, DecisionApproved, "")
	assert.ErrorIs(t, err, ErrApplicationNotFound)
}

func TestApplyStage2Decision_RequiresStage1Approval(t *testing.T) {
	db := setupTestDb(t)
	app := createApplication(t, db)

	// Pending stage 1 blocks every role, including admin
	for _, role := range []string{models.RoleHOD, models.RoleAdmin} {
		_, _, err := ApplyStage2Decision(db, app.ID, 9, role, DecisionApproved, "", fakeArtifact, nil)
		var sErr *StaleStateError
		require.ErrorAs(t, err, &sErr, "role %s", role)
	}

	// Wrong role is an authorization failure, not a precondition one
	_, _, err := ApplyStage2Decision(db, app.ID, 7, models.RoleFPC, DecisionApproved, "", fakeArtifact, nil)
	var aErr *AuthorizationError
	require.ErrorAs(t, err, &aErr)
}

func TestApplyStage2Decision_ApproveGeneratesArtifact(t *testing.T) {
	db := setupTestDb(t)
	app := createApplication(t, db)

	_, err := ApplyStage1Decision(db, app.ID, 7, models.RoleFPC, DecisionApproved, "")
	require.NoError(t, err)

	var notified []string
	notify := func(a *models.Application, decision, comments string) error {
		notified = append(notified, decision)
		return nil
	}

	updated, warning, err := ApplyStage2Decision(db, app.ID, 9, models.RoleHOD, DecisionApproved, "", fakeArtifact, notify)
	require.NoError(t, err)
	assert.Empty(t, warning)

	assert.Equal(t, models.StatusApproved, updated.Stage2Status)
	assert.NotEmpty(t, updated.NocPath)
	assert.Equal(t, models.StatusNocReady, updated.Status)
	assert.Equal(t, []string{DecisionApproved}, notified)

	var audits int64
	db.Model(&models.AuditLog{}).Where("application_id = ? AND action = ?", app.ID, models.ActionNocGenerated).Count(&audits)
	assert.EqualValues(t, 1, audits)
}

func TestApplyStage2Decision_ArtifactFailureRollsBack(t *testing.T) {
	db := setupTestDb(t)
	app := createApplication(t, db)

	_, err := ApplyStage1Decision(db, app.ID, 7, models.RoleFPC, DecisionApproved, "")
	require.NoError(t, err)

	failing := func(a *models.Application) (string, error) {
		return "", errors.New("disk full")
	}

	_, _, err = ApplyStage2Decision(db, app.ID, 9, models.RoleHOD, DecisionApproved, "", failing, nil)
	var dErr *DependencyError
	require.ErrorAs(t, err, &dErr)

	// The transition rolled back: no approved-but-artifactless state
	fresh := reloadApp(t, db, app.ID)
	assert.Equal(t, models.StatusPending, fresh.Stage2Status)
	assert.Empty(t, fresh.NocPath)
	assert.Equal(t, models.StatusPending, fresh.Status)

	var reviews int64
	db.Model(&models.StageReview{}).Where("application_id = ? AND stage = ?", app.ID, models.StageHOD).Count(&reviews)
	assert.EqualValues(t, 0, reviews)

	// The stage stays decidable afterwards
	_, _, err = ApplyStage2Decision(db, app.ID, 9, models.RoleHOD, DecisionApproved, "", fakeArtifact, nil)
	require.NoError(t, err)
}

func TestApplyStage2Decision_NotifyFailureIsAWarning(t *testing.T) {
	db := setupTestDb(t)
	app := createApplication(t, db)

	_, err := ApplyStage1Decision(db, app.ID, 7, models.RoleFPC, DecisionApproved, "")
	require.NoError(t, err)

	notify := func(a *models.Application, decision, comments string) error {
		return errors.New("smtp unreachable")
	}

	updated, warning, err := ApplyStage2Decision(db, app.ID, 9, models.RoleHOD, DecisionApproved, "", fakeArtifact, notify)
	require.NoError(t, err)
	assert.NotEmpty(t, warning)
	assert.Equal(t, models.StatusNocReady, updated.Status)
}

func TestApplyStage2Decision_RejectNotifiesWithReason(t *testing.T) {
	db := setupTestDb(t)
	app := createApplication(t, db)

	// Stage-1 approval with empty comments is allowed
	_, err := ApplyStage1Decision(db, app.ID, 7, models.RoleFPC, DecisionApproved, "")
	require.NoError(t, err)

	var gotDecision, gotComments string
	notify := func(a *models.Application, decision, comments string) error {
		gotDecision = decision
		gotComments = comments
		return nil
	}

	updated, warning, err := ApplyStage2Decision(db, app.ID, 9, models.RoleHOD, DecisionRejected, "insufficient CGPA", fakeArtifact, notify)
	require.NoError(t, err)
	assert.Empty(t, warning)

	assert.Equal(t, models.StatusRejected, updated.Stage2Status)
	assert.Equal(t, models.StatusRejected, updated.Status)
	assert.Empty(t, updated.NocPath)
	assert.Equal(t, DecisionRejected, gotDecision)
	assert.Equal(t, "insufficient CGPA", gotComments)

	// Terminal: no re-decision
	_, _, err = ApplyStage2Decision(db, app.ID, 9, models.RoleHOD, DecisionApproved, "", fakeArtifact, nil)
	var sErr *StaleStateError
	require.ErrorAs(t, err, &sErr)
}

func TestListPendingForStage(t *testing.T) {
	db := setupTestDb(t)

	pending := createApplication(t, db)
	stage1Approved := createApplication(t, db)
	rejected := createApplication(t, db)
	done := createApplication(t, db)

	_, err := ApplyStage1Decision(db, stage1Approved.ID, 7, models.RoleFPC, DecisionApproved, "")
	require.NoError(t, err)
	_, err = ApplyStage1Decision(db, rejected.ID, 7, models.RoleFPC, DecisionRejected, "forged offer letter")
	require.NoError(t, err)
	_, err = ApplyStage1Decision(db, done.ID, 7, models.RoleFPC, DecisionApproved, "")
	require.NoError(t, err)
	_, _, err = ApplyStage2Decision(db, done.ID, 9, models.RoleHOD, DecisionApproved, "", fakeArtifact, nil)
	require.NoError(t, err)

	stage1Queue, err := ListPendingForStage(db, models.StageFPC)
	require.NoError(t, err)
	require.Len(t, stage1Queue, 1)
	assert.Equal(t, pending.ID, stage1Queue[0].ID)

	stage2Queue, err := ListPendingForStage(db, models.StageHOD)
	require.NoError(t, err)
	require.Len(t, stage2Queue, 1)
	assert.Equal(t, stage1Approved.ID, stage2Queue[0].ID)

	_, err = ListPendingForStage(db, 3)
	var vErr *ValidationError
	require.ErrorAs(t, err, &vErr)
}

func TestOverallStatusDerivation(t *testing.T) {
	tests := []struct {
		name     string
		stage1   string
		stage2   string
		nocPath  string
		expected string
	}{
		{"fresh submission", models.StatusPending, models.StatusPending, "", models.StatusPending},
		{"stage1 approved awaits stage2", models.StatusApproved, models.StatusPending, "", models.StatusPending},
		{"stage1 rejected", models.StatusRejected, models.StatusPending, "", models.StatusRejected},
		{"stage2 rejected", models.StatusApproved, models.StatusRejected, "", models.StatusRejected},
		{"stage2 approved without artifact", models.StatusApproved, models.StatusApproved, "", models.StatusPending},
		{"stage2 approved with artifact", models.StatusApproved, models.StatusApproved, "noc.pdf", models.StatusNocReady},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := &models.Application{
				Stage1Status: tt.stage1,
				Stage2Status: tt.stage2,
				NocPath:      tt.nocPath,
			}
			assert.Equal(t, tt.expected, app.OverallStatus())
		})
	}
}

func TestRoleCanDecide(t *testing.T) {
	assert.True(t, RoleCanDecide(models.RoleFPC, models.StageFPC))
	assert.False(t, RoleCanDecide(models.RoleFPC, models.StageHOD))
	assert.True(t, RoleCanDecide(models.RoleHOD, models.StageHOD))
	assert.False(t, RoleCanDecide(models.RoleHOD, models.StageFPC))
	assert.True(t, RoleCanDecide(models.RoleAdmin, models.StageFPC))
	assert.True(t, RoleCanDecide(models.RoleAdmin, models.StageHOD))
	assert.False(t, RoleCanDecide("STUDENT", models.StageFPC))
}
