package utils

import (
	"log"
	"time"

	"protrack/config"
	"protrack/database"
	progress "protrack/models/progress"

	"github.com/robfig/cron/v3"
)

// logScheduler logs scheduler events with timestamp
func logScheduler(message string) {
	log.Printf("[REMINDER-SCHEDULER %s] %s", time.Now().Format(time.RFC3339), message)
}

// sendPendingDigest mails admins a count of submissions that have waited too long
func sendPendingDigest() {
	days := config.AppConfig.PendingReminderDays
	cutoff := time.Now().AddDate(0, 0, -days)

	var count int64
	err := database.Database.Db.Model(&progress.StudentProgress{}).
		Where("status = ? AND updated_at < ?", progress.StatusPendingApproval, cutoff).
		Count(&count).Error
	if err != nil {
		logScheduler("Error counting stale pending approvals: " + err.Error())
		return
	}
	if count == 0 {
		return
	}

	digestEmail := config.AppConfig.AdminDigestEmail
	if digestEmail == "" {
		logScheduler("No ADMIN_DIGEST_EMAIL configured, skipping digest")
		return
	}

	SendPendingDigestEmail(digestEmail, int(count), days)
	logScheduler("Pending approvals digest sent")
}

// StartReminderScheduler runs the daily stale-pending-approvals digest
func StartReminderScheduler() {
	c := cron.New()

	// Every day at 08:00
	_, err := c.AddFunc("0 8 * * *", sendPendingDigest)
	if err != nil {
		logScheduler("Failed to register digest job: " + err.Error())
		return
	}

	c.Start()
	logScheduler("Reminder scheduler started")
}
