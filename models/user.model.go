package models

import (
	"time"

	"gorm.io/gorm"
)

// User is a staff account (admins approve progress, staff maintain records)
type User struct {
	gorm.Model
	Name                string     `gorm:"default:''" json:"name"`
	Email               string     `gorm:"unique;not null" json:"email"`
	Role                string     `gorm:"default:'STAFF'" json:"role"` // STAFF, ADMIN, SUPER-ADMIN
	Password            string     `gorm:"not null" json:"-"`
	LastLogin           time.Time  `gorm:"default:NULL" json:"last_login"`
	FailedLoginAttempts int        `gorm:"default:0" json:"-"`
	LastFailedLogin     *time.Time `json:"-"`
	IsBlocked           bool       `gorm:"default:false" json:"is_blocked"`
	IsDeleted           bool       `gorm:"default:false" json:"-"`
}
