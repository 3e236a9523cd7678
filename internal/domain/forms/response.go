package forms

import "time"

// Response belongs to exactly one form. It is not owned by any user;
// public forms accept anonymous submissions.
type Response struct {
	ID          uint                   `gorm:"primaryKey"`
	FormID      uint                   `gorm:"not null;index:idx_responses_form_id"`
	Answers     map[string]interface{} `gorm:"serializer:json"`
	SubmittedAt time.Time
}
