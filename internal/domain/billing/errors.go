package billing

import (
	"errors"
	"fmt"
)

var (
	ErrEmailRequired     = errors.New("buyer email required")
	ErrUnknownPlan       = errors.New("unknown plan")
	ErrInvalidCadence    = errors.New("invalid plan type")
	ErrOrderNotFound     = errors.New("order not found")
	ErrSignatureMismatch = errors.New("invalid payment signature")
)

// RankError rejects an order for a plan at or below the buyer's current
// active tier. Only upgrades are allowed while a plan is active.
type RankError struct {
	Current   string
	Requested string
}

func (e RankError) Error() string {
	return fmt.Sprintf("you already have the %s plan, upgrade to a higher plan only", e.Current)
}
