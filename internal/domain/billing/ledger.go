package billing

import (
	"errors"
	"fmt"
	"time"

	"formbuilder-app/internal/domain/plans"

	"gorm.io/gorm"
)

// PlanStatus is the ledger's answer to "what plan does this user have
// right now".
type PlanStatus struct {
	PlanName  string     `json:"planName"`
	ExpiresOn *time.Time `json:"expiresOn"`
	IsExpired bool       `json:"isExpired"`
	Pending   bool       `json:"pending"`
	Message   string     `json:"message,omitempty"`
}

// Ledger is the read-model over payment history.
type Ledger struct {
	db *gorm.DB
}

func NewLedger(db *gorm.DB) *Ledger {
	return &Ledger{db: db}
}

// ResolveCurrentPlan picks the most recently verified, unexpired payment
// for the email. Without one, an initiated-but-unverified payment is
// reported as pending on the free tier. A query failure is returned as an
// error and never collapsed into the free default.
func (l *Ledger) ResolveCurrentPlan(email string, now time.Time) (PlanStatus, error) {
	if email == "" {
		return PlanStatus{}, ErrEmailRequired
	}

	var active Payment
	err := l.db.
		Where("buyer_email = ? AND verified = ? AND plan_end_date > ?", email, true, now).
		Order("created_at DESC").
		First(&active).Error
	if err == nil {
		return PlanStatus{
			PlanName:  active.PlanName,
			ExpiresOn: active.PlanEndDate,
		}, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return PlanStatus{}, fmt.Errorf("ledger: query active plan: %w", err)
	}

	var pending Payment
	err = l.db.
		Where("buyer_email = ? AND verified = ? AND status = ?", email, false, StatusCreated).
		Order("created_at DESC").
		First(&pending).Error
	if err == nil {
		return PlanStatus{
			PlanName: plans.TierFree,
			Pending:  true,
			Message:  fmt.Sprintf("Payment for the %s plan is awaiting verification", pending.PlanName),
		}, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return PlanStatus{}, fmt.Errorf("ledger: query pending plan: %w", err)
	}

	return PlanStatus{PlanName: plans.TierFree}, nil
}
