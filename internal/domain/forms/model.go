package forms

import "time"

// Field is one entry in a form's ordered field list. Options is only
// meaningful for choice field types.
type Field struct {
	Type        string   `json:"type"`
	Label       string   `json:"label"`
	Placeholder string   `json:"placeholder"`
	Required    bool     `json:"required"`
	Options     []string `json:"options,omitempty"`
}

type FieldList []Field

type Form struct {
	ID          uint `gorm:"primaryKey"`
	OwnerID     uint `gorm:"not null;index:idx_forms_owner_id"`
	Title       string
	Description string
	Fields      FieldList `gorm:"serializer:json"`
	CreatedAt   time.Time
}
