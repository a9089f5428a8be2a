package utils

import (
	"log"
	"time"

	"noc/database"
	"noc/models"

	"github.com/jinzhu/now"
	"github.com/robfig/cron/v3"
)

// logScheduler logs scheduler events with timestamp
func logScheduler(message string) {
	log.Printf("[NOC-SCHEDULER %s] %s", time.Now().Format(time.RFC3339), message)
}

// purgeExpiredOTPs soft-deletes OTP rows that expired or were already used.
func purgeExpiredOTPs() {
	db := database.Database.Db

	res := db.Model(&models.EmailOTP{}).
		Where("is_deleted = false AND (expires_at < ? OR is_used = true)", time.Now()).
		Update("is_deleted", true)
	if res.Error != nil {
		logScheduler("Error purging OTPs: " + res.Error.Error())
		return
	}
	if res.RowsAffected > 0 {
		logScheduler("Purged expired/used OTPs")
	}
}

// compactAuditLogs soft-deletes audit rows older than the start of the
// previous month. Decision and NOC rows are kept; only OTP and login noise
// would pile up otherwise.
func compactAuditLogs() {
	db := database.Database.Db
	cutoff := now.BeginningOfMonth().AddDate(0, -1, 0)

	res := db.Model(&models.AuditLog{}).
		Where("is_deleted = false AND created_at < ? AND action IN ?", cutoff,
			[]string{models.ActionPasswordReset}).
		Update("is_deleted", true)
	if res.Error != nil {
		logScheduler("Error compacting audit logs: " + res.Error.Error())
		return
	}
	if res.RowsAffected > 0 {
		logScheduler("Compacted old audit logs")
	}
}

// StartScheduler registers the maintenance jobs and starts the cron loop.
func StartScheduler() *cron.Cron {
	c := cron.New()

	// Every 10 minutes: drop stale OTPs
	c.AddFunc("*/10 * * * *", purgeExpiredOTPs)

	// Nightly: compact old audit noise
	c.AddFunc("30 2 * * *", compactAuditLogs)

	c.Start()
	logScheduler("Scheduler started")
	return c
}
