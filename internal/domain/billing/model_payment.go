package billing

import "time"

// Payment lifecycle statuses. A record starts in StatusCreated and moves
// exactly once to StatusSuccess or StatusFailed.
const (
	StatusCreated = "created"
	StatusSuccess = "success"
	StatusFailed  = "failed"
)

// Payment is one row per payment attempt. The full history is kept; the
// current plan is always derived from it, never stored on the user.
type Payment struct {
	ID        uint    `gorm:"primaryKey"`
	OrderID   string  `gorm:"not null;uniqueIndex:idx_payments_order_id"`
	PaymentID *string // set once captured
	Signature *string // set once verified

	PlanName     string `gorm:"not null"`
	PlanType     string `gorm:"type:varchar(10);not null"` // monthly | yearly
	PlanDuration int    `gorm:"default:30"`                // days

	BaseCurrency      string  `gorm:"default:'USD'"`
	ConvertedCurrency string  `gorm:"default:'INR'"`
	AmountUSD         float64 `gorm:"not null"`
	AmountINR         int64   `gorm:"not null"`

	// Purchaser snapshot, denormalized on purpose
	BuyerName    string
	BuyerEmail   string `gorm:"index:idx_payments_buyer_email"`
	BuyerContact string

	PlanStartDate *time.Time
	PlanEndDate   *time.Time
	IsActive      bool `gorm:"default:false"`

	Status   string `gorm:"type:varchar(10);default:'created'"`
	Verified bool   `gorm:"default:false"`

	IsUpgrade    bool
	UpgradedFrom *string

	ReferredBy *string

	CreatedAt time.Time
}
