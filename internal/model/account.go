package model

import "time"

// Account is a registered user of the platform. Instructors and students
// weakly reference it through AccountID; deleting an account never deletes
// the users that point at it.
type Account struct {
	ID        string    `gorm:"primaryKey;size:64" json:"id"`
	GoogleID  string    `gorm:"column:google_id;size:254;uniqueIndex;not null" json:"google_id"`
	Name      string    `gorm:"size:100;not null" json:"name"`
	Email     string    `gorm:"size:254;not null" json:"email"`
	IsAdmin   bool      `gorm:"not null;default:false" json:"is_admin"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}
