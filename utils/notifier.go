package utils

import (
	"log"

	"protrack/config"
	"protrack/database"
	"protrack/models"
	progress "protrack/models/progress"

	"github.com/go-resty/resty/v2"
)

// ProgressNotifier implements tracking.Notifier: it emails the student and
// posts the event to the configured webhook. Both paths are best-effort and
// never fail the transition that triggered them.
type ProgressNotifier struct {
	client *resty.Client
}

func NewProgressNotifier() *ProgressNotifier {
	return &ProgressNotifier{client: resty.New()}
}

func (n *ProgressNotifier) lookup(record *progress.StudentProgress) (*models.Student, *models.Course) {
	var student models.Student
	if err := database.Database.Db.Where("id = ? AND is_deleted = false", record.StudentID).First(&student).Error; err != nil {
		return nil, nil
	}
	var course models.Course
	if err := database.Database.Db.Where("id = ? AND is_deleted = false", record.CourseID).First(&course).Error; err != nil {
		return &student, nil
	}
	return &student, &course
}

func (n *ProgressNotifier) postWebhook(event string, record *progress.StudentProgress, extra map[string]interface{}) {
	url := config.AppConfig.EventWebhookURL
	if url == "" {
		return
	}

	payload := map[string]interface{}{
		"event":      event,
		"studentId":  record.StudentID,
		"courseId":   record.CourseID,
		"progressId": record.ID,
		"status":     record.Status,
	}
	for k, v := range extra {
		payload[k] = v
	}

	go func() {
		_, err := n.client.R().
			SetHeader("Content-Type", "application/json").
			SetBody(payload).
			Post(url)
		if err != nil {
			log.Printf("Event webhook delivery failed: %v", err)
		}
	}()
}

func (n *ProgressNotifier) ProgressApproved(record *progress.StudentProgress, adminID uint) {
	student, course := n.lookup(record)
	if student != nil && course != nil {
		SendProgressApprovedEmail(student.Email, student.Name, course.Title)
	}
	n.postWebhook("progress.approved", record, map[string]interface{}{"approvedBy": adminID})
}

func (n *ProgressNotifier) ProgressRejected(record *progress.StudentProgress, adminID uint, reason string) {
	student, course := n.lookup(record)
	if student != nil && course != nil {
		SendProgressRejectedEmail(student.Email, student.Name, course.Title, reason)
	}
	n.postWebhook("progress.rejected", record, map[string]interface{}{"rejectedBy": adminID, "reason": reason})
}

func (n *ProgressNotifier) CourseUnlocked(record *progress.StudentProgress, scope string) {
	student, course := n.lookup(record)
	if student != nil && course != nil {
		SendCourseUnlockedEmail(student.Email, student.Name, course.Title)
	}
	n.postWebhook("course.unlocked", record, map[string]interface{}{"scope": scope})
}
