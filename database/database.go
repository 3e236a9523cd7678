package database

import (
	"fmt"

	"formbuilder-app/internal/domain/billing"
	"formbuilder-app/internal/domain/forms"
	"formbuilder-app/internal/domain/users"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// Init opens the Postgres connection and runs migrations. The returned
// handle is passed down by injection; there is no package-level state.
func Init(dsn string) (*gorm.DB, error) {
	if dsn == "" {
		return nil, fmt.Errorf("database: empty DSN")
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("database: connect: %w", err)
	}

	if err := Migrate(db); err != nil {
		return nil, err
	}

	fmt.Println("✅ Connected and migrated successfully")
	return db, nil
}

// Migrate auto-migrates all domain models. Exported so tests can run the
// same schema against an in-memory database.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		// identity
		&users.User{},
		&users.VerificationToken{},

		// forms
		&forms.Form{},
		&forms.FormTemplate{},
		&forms.Response{},
		&forms.View{},

		// billing
		&billing.Payment{},
	); err != nil {
		return fmt.Errorf("database: migrate: %w", err)
	}
	return nil
}
