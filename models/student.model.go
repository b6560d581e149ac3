package models

import "gorm.io/gorm"

// Student is a tracked learner; progress rows are created per course on enrollment
type Student struct {
	gorm.Model
	Name       string `gorm:"not null" json:"name"`
	Email      string `gorm:"unique;not null" json:"email"`
	RollNumber string `gorm:"unique;not null" json:"roll_number"`
	MajorID    uint   `gorm:"index" json:"major_id"`
	IsDeleted  bool   `gorm:"default:false" json:"-"`
}
