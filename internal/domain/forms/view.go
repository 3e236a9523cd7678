package forms

import "time"

// View records a public fetch of a form, for the admin analytics page.
type View struct {
	ID        uint `gorm:"primaryKey"`
	FormID    uint `gorm:"index"`
	UserAgent string
	IP        string
	CreatedAt time.Time
}
