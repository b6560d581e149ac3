package progress

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// TrackingAction enum values
const (
	ActionUpdateSessions    = "UPDATE_SESSIONS"
	ActionUpdateProjects    = "UPDATE_PROJECTS"
	ActionAddProjectLink    = "ADD_PROJECT_LINK"
	ActionRemoveProjectLink = "REMOVE_PROJECT_LINK"
	ActionApprove           = "APPROVE"
	ActionReject            = "REJECT"
	ActionUnlockCourse      = "UNLOCK_COURSE"
	ActionUnlockSemester    = "UNLOCK_SEMESTER"
)

// ActorType enum values
const (
	ActorAdmin  = "ADMIN"
	ActorSystem = "SYSTEM"
)

// TrackingLog is the append-only audit record for every committed transition
type TrackingLog struct {
	gorm.Model
	StudentID     uint           `gorm:"not null;index:idx_log_student_course" json:"student_id"`
	CourseID      uint           `gorm:"not null;index:idx_log_student_course" json:"course_id"`
	Action        string         `gorm:"not null;type:varchar(30)" json:"action"`
	PreviousValue *string        `gorm:"type:text" json:"previous_value"`
	NewValue      *string        `gorm:"type:text" json:"new_value"`
	PerformedBy   uint           `gorm:"not null" json:"performed_by"`
	ActorType     string         `gorm:"not null;type:varchar(10);default:'ADMIN'" json:"actor_type"` // ADMIN, SYSTEM
	PerformedAt   time.Time      `gorm:"not null;index" json:"performed_at"`
	Metadata      datatypes.JSON `gorm:"type:jsonb" json:"metadata"`
}

func (TrackingLog) TableName() string {
	return "tracking_logs"
}
