// Package quota gates quota-consuming actions before they mutate state.
package quota

import (
	"errors"
	"fmt"
	"time"

	"formbuilder-app/internal/domain/billing"
	"formbuilder-app/internal/domain/forms"
	"formbuilder-app/internal/domain/plans"
	"formbuilder-app/internal/domain/users"

	"gorm.io/gorm"
)

var (
	ErrAuthRequired = errors.New("authentication required")
	ErrFormNotFound = errors.New("form not found")
)

// ExceededError is the quota-exceeded rejection. Always recoverable by
// upgrading, never retried automatically.
type ExceededError struct {
	Message         string
	UpgradeRequired bool
}

func (e ExceededError) Error() string { return e.Message }

// Identity is the authenticated caller, as decoded from the bearer token.
type Identity struct {
	ID    uint
	Email string
}

// ResponseWindow reports a form's response quota position. ShownResponses
// is how many entries a listing may disclose; UpgradeRequired flags that
// the true total exceeds the allowance.
type ResponseWindow struct {
	PlanName        string
	TotalResponses  int
	AllowedLimit    int // plans.Unlimited when uncapped
	ShownResponses  int
	UpgradeRequired bool
}

type Guard struct {
	db     *gorm.DB
	ledger *billing.Ledger
}

func NewGuard(db *gorm.DB, ledger *billing.Ledger) *Guard {
	return &Guard{db: db, ledger: ledger}
}

// CheckCreateForm allows or rejects a new form (including a template
// clone) for the caller. Counting is a fresh read on every call.
func (g *Guard) CheckCreateForm(id Identity, now time.Time) error {
	if id.ID == 0 || id.Email == "" {
		return ErrAuthRequired
	}

	status, err := g.ledger.ResolveCurrentPlan(id.Email, now)
	if err != nil {
		return err
	}
	limit := plans.LimitsFor(status.PlanName)

	var count int64
	if err := g.db.Model(&forms.Form{}).Where("owner_id = ?", id.ID).Count(&count).Error; err != nil {
		return fmt.Errorf("quota: count forms: %w", err)
	}

	if !limit.AllowsForms(int(count)) {
		return ExceededError{
			Message:         fmt.Sprintf("Your %s plan allows only %d forms.", status.PlanName, limit.MaxForms),
			UpgradeRequired: true,
		}
	}
	return nil
}

// CheckSubmitResponse allows or rejects one more submission to the form.
// Response quota is attributed to the form owner's plan: anonymous
// submissions draw down the owner's allowance, not the submitter's.
func (g *Guard) CheckSubmitResponse(formID uint, now time.Time) error {
	w, err := g.ResponseWindow(formID, now)
	if err != nil {
		return err
	}
	if !plans.LimitsFor(w.PlanName).AllowsResponses(w.TotalResponses) {
		return ExceededError{
			Message:         fmt.Sprintf("Response limit reached for %s plan. Upgrade required.", w.PlanName),
			UpgradeRequired: true,
		}
	}
	return nil
}

// ResponseWindow resolves the owner's plan and counts the form's
// responses.
func (g *Guard) ResponseWindow(formID uint, now time.Time) (ResponseWindow, error) {
	var form forms.Form
	err := g.db.First(&form, formID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ResponseWindow{}, ErrFormNotFound
	}
	if err != nil {
		return ResponseWindow{}, fmt.Errorf("quota: load form: %w", err)
	}

	var owner users.User
	if err := g.db.First(&owner, form.OwnerID).Error; err != nil {
		return ResponseWindow{}, fmt.Errorf("quota: load form owner: %w", err)
	}

	status, err := g.ledger.ResolveCurrentPlan(owner.Email, now)
	if err != nil {
		return ResponseWindow{}, err
	}
	limit := plans.LimitsFor(status.PlanName)

	var count int64
	if err := g.db.Model(&forms.Response{}).Where("form_id = ?", formID).Count(&count).Error; err != nil {
		return ResponseWindow{}, fmt.Errorf("quota: count responses: %w", err)
	}

	w := ResponseWindow{
		PlanName:       status.PlanName,
		TotalResponses: int(count),
		AllowedLimit:   limit.MaxResponsesPerForm,
		ShownResponses: int(count),
	}
	if limit.MaxResponsesPerForm != plans.Unlimited && w.TotalResponses > limit.MaxResponsesPerForm {
		w.ShownResponses = limit.MaxResponsesPerForm
		w.UpgradeRequired = true
	}
	return w, nil
}
