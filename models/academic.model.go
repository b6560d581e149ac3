package models

import "gorm.io/gorm"

// Major groups semesters into a study track
type Major struct {
	gorm.Model
	Name      string `gorm:"not null" json:"name"`
	Code      string `gorm:"unique;not null" json:"code"`
	IsDeleted bool   `gorm:"default:false" json:"-"`
}

// Semester is an ordered block of courses within a major
type Semester struct {
	gorm.Model
	MajorID    uint   `gorm:"index;not null" json:"major_id"`
	Name       string `gorm:"not null" json:"name"`
	OrderIndex int    `gorm:"default:0" json:"order_index"` // Semester order within major
	IsDeleted  bool   `gorm:"default:false" json:"-"`
}

// Course holds the per-course requirements a student must meet
type Course struct {
	gorm.Model
	SemesterID           uint   `gorm:"index;not null" json:"semester_id"`
	Title                string `gorm:"not null" json:"title"`
	OrderIndex           int    `gorm:"default:0" json:"order_index"` // Course order within semester
	RequiredSessions     int    `gorm:"default:0" json:"required_sessions"`
	RequiredProjects     int    `gorm:"default:0" json:"required_projects"`
	RequiresVerification bool   `gorm:"default:true" json:"requires_verification"` // false = auto-complete on submit
	IsRequired           bool   `gorm:"default:true" json:"is_required"`           // counts toward semester completion
	IsDeleted            bool   `gorm:"default:false" json:"-"`
}
