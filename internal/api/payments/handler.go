package payments

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"formbuilder-app/config"
	"formbuilder-app/internal/domain/billing"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type Handler struct {
	db  *gorm.DB
	svc *billing.Service
}

func NewHandler(db *gorm.DB, svc *billing.Service) *Handler {
	return &Handler{db: db, svc: svc}
}

// POST /api/payment/create-order
func (h *Handler) CreateOrder(c *gin.Context) {
	email := c.GetString("email")
	if email == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "User not identified"})
		return
	}

	var body struct {
		PlanName string `json:"planName" binding:"required"`
		PlanType string `json:"planType" binding:"required"`
		Name     string `json:"name"`
		Contact  string `json:"contact"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid plan"})
		return
	}

	fmt.Println("🛒 Create order request:", body.PlanName, body.PlanType, "User:", email)

	buyer := billing.Buyer{Name: body.Name, Email: email, Contact: body.Contact}
	result, err := h.svc.CreateOrder(body.PlanName, body.PlanType, buyer, time.Now())
	if err != nil {
		var rankErr billing.RankError
		switch {
		case errors.Is(err, billing.ErrUnknownPlan):
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid plan"})
		case errors.Is(err, billing.ErrInvalidCadence):
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid plan type"})
		case errors.As(err, &rankErr):
			c.JSON(http.StatusBadRequest, gin.H{
				"success": false,
				"message": fmt.Sprintf("You already have %s plan. Upgrade to higher plan only.", rankErr.Current),
			})
		default:
			fmt.Println("❌ Order error:", err)
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Order creation failed"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":   true,
		"orderId":   result.OrderID,
		"amountINR": result.AmountINR,
		"currency":  result.Currency,
		"isUpgrade": result.IsUpgrade,
	})
}

// POST /api/payment/verify
func (h *Handler) VerifyPayment(c *gin.Context) {
	var body struct {
		OrderID   string `json:"razorpay_order_id" binding:"required"`
		PaymentID string `json:"razorpay_payment_id" binding:"required"`
		Signature string `json:"razorpay_signature" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Missing verification fields"})
		return
	}

	result, err := h.svc.VerifyPayment(body.OrderID, body.PaymentID, body.Signature, time.Now())
	if err != nil {
		switch {
		case errors.Is(err, billing.ErrOrderNotFound):
			c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Order not found"})
		case errors.Is(err, billing.ErrSignatureMismatch):
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid payment signature"})
		default:
			fmt.Println("❌ Verify error:", err)
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Verification failed"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": result.Message,
		"plan": gin.H{
			"name":         result.PlanName,
			"upgradedFrom": result.UpgradedFrom,
			"start":        result.Start,
			"end":          result.End,
		},
	})
}

// GET /api/payment/get-key — publishable key id for the checkout widget.
func (h *Handler) GetKey(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"key": config.RAZORPAY_KEY_ID})
}

// GET /api/payments — the caller's full payment history, newest first.
func (h *Handler) GetPaymentHistory(c *gin.Context) {
	email := c.GetString("email")
	if email == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var list []billing.Payment
	if err := h.db.
		Where("buyer_email = ?", email).
		Order("created_at DESC").
		Find(&list).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load payments"})
		return
	}

	c.JSON(http.StatusOK, list)
}

// GET /api/payment/status — resolved plan for the caller.
func (h *Handler) GetPlanStatus(c *gin.Context) {
	email := c.GetString("email")
	if email == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	status, err := h.svc.Ledger().ResolveCurrentPlan(email, time.Now())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to resolve plan"})
		return
	}

	c.JSON(http.StatusOK, status)
}
