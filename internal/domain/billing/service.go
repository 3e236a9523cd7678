package billing

import (
	"errors"
	"fmt"
	"log"
	"time"

	"formbuilder-app/internal/domain/plans"
	"formbuilder-app/internal/infra/razorpay"

	"gorm.io/gorm"
)

// Gateway creates orders at the payment provider.
type Gateway interface {
	CreateOrder(amountPaise int64, currency, receipt string, notes map[string]interface{}) (string, error)
}

// RateConverter turns a USD price into whole rupees. Implementations must
// fall back to an approximate rate rather than fail.
type RateConverter interface {
	USDToINR(usd float64) int64
}

// InvoiceSender delivers the post-activation invoice email. Best effort:
// its failure never rolls back a verification.
type InvoiceSender interface {
	SendInvoice(p *Payment) error
}

type Buyer struct {
	Name    string
	Email   string
	Contact string
}

type OrderResult struct {
	OrderID      string
	AmountINR    int64
	Currency     string
	IsUpgrade    bool
	UpgradedFrom string
}

type VerifyResult struct {
	Message      string
	PlanName     string
	Start        *time.Time
	End          *time.Time
	UpgradedFrom *string
}

// Service owns the order -> verify -> activate state machine.
type Service struct {
	db       *gorm.DB
	ledger   *Ledger
	gateway  Gateway
	rates    RateConverter
	invoices InvoiceSender
	secret   string
}

func NewService(db *gorm.DB, gateway Gateway, rates RateConverter, invoices InvoiceSender, secret string) *Service {
	return &Service{
		db:       db,
		ledger:   NewLedger(db),
		gateway:  gateway,
		rates:    rates,
		invoices: invoices,
		secret:   secret,
	}
}

func (s *Service) Ledger() *Ledger {
	return s.ledger
}

// CreateOrder validates the request, enforces the upgrade-only rule
// against the buyer's active plan, converts the price and persists a new
// payment in "created" status.
func (s *Service) CreateOrder(planName, planType string, buyer Buyer, now time.Time) (OrderResult, error) {
	if !plans.IsValidCadence(planType) {
		return OrderResult{}, ErrInvalidCadence
	}
	if !plans.IsKnown(planName) {
		return OrderResult{}, ErrUnknownPlan
	}
	// Known but unpriced (the free tier) is not purchasable either.
	usdAmount, ok := plans.PriceUSD(planName, planType)
	if !ok {
		return OrderResult{}, ErrUnknownPlan
	}

	status, err := s.ledger.ResolveCurrentPlan(buyer.Email, now)
	if err != nil {
		return OrderResult{}, err
	}

	isUpgrade := false
	upgradedFrom := ""
	if !status.Pending && status.PlanName != plans.TierFree {
		if plans.Rank(planName) <= plans.Rank(status.PlanName) {
			return OrderResult{}, RankError{Current: status.PlanName, Requested: planName}
		}
		fmt.Printf("⚡ Upgrade triggered: %s → %s\n", status.PlanName, planName)
		isUpgrade = true
		upgradedFrom = status.PlanName
	}

	inrAmount := s.rates.USDToINR(usdAmount)

	receipt := fmt.Sprintf("rcpt_%d", now.UnixMilli())
	orderID, err := s.gateway.CreateOrder(inrAmount*100, "INR", receipt, map[string]interface{}{
		"plan":       planName,
		"type":       planType,
		"user_email": buyer.Email,
	})
	if err != nil {
		return OrderResult{}, fmt.Errorf("billing: create gateway order: %w", err)
	}

	payment := Payment{
		OrderID:      orderID,
		PlanName:     planName,
		PlanType:     planType,
		AmountUSD:    usdAmount,
		AmountINR:    inrAmount,
		BuyerName:    buyer.Name,
		BuyerEmail:   buyer.Email,
		BuyerContact: buyer.Contact,
		Status:       StatusCreated,
		IsUpgrade:    isUpgrade,
	}
	if upgradedFrom != "" {
		payment.UpgradedFrom = &upgradedFrom
	}

	if err := s.db.Create(&payment).Error; err != nil {
		return OrderResult{}, fmt.Errorf("billing: persist payment: %w", err)
	}

	return OrderResult{
		OrderID:      orderID,
		AmountINR:    inrAmount,
		Currency:     "INR",
		IsUpgrade:    isUpgrade,
		UpgradedFrom: upgradedFrom,
	}, nil
}

// VerifyPayment checks the gateway signature and settles the record.
// Exactly one verification transition happens per order: a repeat call on
// an already-verified record short-circuits to the same success payload
// without re-sending the invoice; a failed record stays failed.
func (s *Service) VerifyPayment(orderID, paymentID, signature string, now time.Time) (VerifyResult, error) {
	var payment Payment
	err := s.db.Where("order_id = ?", orderID).First(&payment).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return VerifyResult{}, ErrOrderNotFound
	}
	if err != nil {
		return VerifyResult{}, fmt.Errorf("billing: load payment: %w", err)
	}

	if payment.Verified {
		return successResult(&payment), nil
	}
	if payment.Status == StatusFailed {
		return VerifyResult{}, ErrSignatureMismatch
	}

	if !razorpay.VerifySignature(orderID, paymentID, signature, s.secret) {
		payment.Status = StatusFailed
		payment.Verified = false
		if err := s.db.Save(&payment).Error; err != nil {
			return VerifyResult{}, fmt.Errorf("billing: persist failed payment: %w", err)
		}
		return VerifyResult{}, ErrSignatureMismatch
	}

	durationDays := 30
	if payment.PlanType == plans.CadenceYearly {
		durationDays = 365
	}
	start := now
	end := now.AddDate(0, 0, durationDays)

	payment.PaymentID = &paymentID
	payment.Signature = &signature
	payment.Status = StatusSuccess
	payment.Verified = true
	payment.PlanDuration = durationDays
	payment.PlanStartDate = &start
	payment.PlanEndDate = &end
	payment.IsActive = true

	if err := s.db.Save(&payment).Error; err != nil {
		return VerifyResult{}, fmt.Errorf("billing: persist verified payment: %w", err)
	}

	if s.invoices != nil {
		if err := s.invoices.SendInvoice(&payment); err != nil {
			log.Println("invoice email failed:", err)
		}
	}

	return successResult(&payment), nil
}

func successResult(p *Payment) VerifyResult {
	msg := "Plan activated successfully"
	if p.IsUpgrade {
		msg = fmt.Sprintf("Plan upgraded successfully to %s", p.PlanName)
	}
	return VerifyResult{
		Message:      msg,
		PlanName:     p.PlanName,
		Start:        p.PlanStartDate,
		End:          p.PlanEndDate,
		UpgradedFrom: p.UpgradedFrom,
	}
}
