package forms

// StatusTemplate marks a FormTemplate row. The value is set on insert and
// never updated afterwards.
const StatusTemplate = "template"

// FormTemplate is a read-only, pre-seeded form shape. Cloning one produces
// a brand-new user-owned Form, subject to the same quota check as a
// regular creation.
type FormTemplate struct {
	ID          uint `gorm:"primaryKey"`
	Title       string
	Description string
	Info        string
	Fields      FieldList `gorm:"serializer:json"`
	Status      string    `gorm:"default:template"`
}
