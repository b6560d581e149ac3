package progress

import (
	"encoding/json"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Status enum values
const (
	StatusNotStarted      = "NOT_STARTED"
	StatusInProgress      = "IN_PROGRESS"
	StatusPendingApproval = "PENDING_APPROVAL"
	StatusCompleted       = "COMPLETED"
	StatusRejected        = "REJECTED"
	StatusLocked          = "LOCKED"
)

// StudentProgress tracks one student's progress in one course
type StudentProgress struct {
	gorm.Model
	StudentID         uint           `gorm:"not null;uniqueIndex:idx_student_course" json:"student_id"`
	CourseID          uint           `gorm:"not null;uniqueIndex:idx_student_course" json:"course_id"`
	Status            string         `gorm:"not null;type:varchar(20);default:'NOT_STARTED'" json:"status"`
	CompletedSessions int            `gorm:"default:0" json:"completed_sessions"`
	ProjectsSubmitted int            `gorm:"default:0" json:"projects_submitted"`
	ProjectLinks      datatypes.JSON `gorm:"type:jsonb" json:"project_links"` // JSON array of submission URLs
	RejectionReason   string         `gorm:"type:text" json:"rejection_reason"`
	ApprovedAt        *time.Time     `json:"approved_at"`
	ApprovedBy        *uint          `json:"approved_by"`
	CompletedAt       *time.Time     `json:"completed_at"`
	Version           uint           `gorm:"not null;default:0" json:"-"` // optimistic lock counter
}

func (StudentProgress) TableName() string {
	return "student_progress"
}

// Links decodes the ProjectLinks JSON column into a string slice
func (p *StudentProgress) Links() []string {
	if len(p.ProjectLinks) == 0 {
		return nil
	}
	var links []string
	if err := json.Unmarshal(p.ProjectLinks, &links); err != nil {
		return nil
	}
	return links
}

// SetLinks encodes the slice back into the ProjectLinks JSON column
func (p *StudentProgress) SetLinks(links []string) {
	if links == nil {
		links = []string{}
	}
	raw, _ := json.Marshal(links)
	p.ProjectLinks = datatypes.JSON(raw)
}
