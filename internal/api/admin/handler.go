package admin

import (
	"database/sql"
	"net/http"
	"time"

	"formbuilder-app/internal/domain/billing"
	"formbuilder-app/internal/domain/forms"
	"formbuilder-app/internal/domain/users"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type Handler struct {
	db *gorm.DB
}

func NewHandler(db *gorm.DB) *Handler {
	return &Handler{db: db}
}

type planStat struct {
	PlanName string `json:"plan_name"`
	Count    int64  `json:"count"`
}

type dashboard struct {
	TotalUsers     int64 `json:"total_users"`
	NewUsers7d     int64 `json:"new_users_7d"`
	NewUsers30d    int64 `json:"new_users_30d"`
	TotalForms     int64 `json:"total_forms"`
	TotalResponses int64 `json:"total_responses"`
	TotalViews     int64 `json:"total_views"`

	TotalPayments   int64      `json:"total_payments"` // verified only
	PaidUsers       int64      `json:"paid_users"`
	PlanStats       []planStat `json:"plan_stats"`
	TotalRevenueINR int64      `json:"total_revenue_inr"`
	RevenueINR30d   int64      `json:"revenue_inr_30d"`

	RecentPayments []billing.Payment `json:"recent_payments"`
}

// GET /admin/dashboard
func (h *Handler) Dashboard(c *gin.Context) {
	now := time.Now()
	sevenDaysAgo := now.AddDate(0, 0, -7)
	thirtyDaysAgo := now.AddDate(0, 0, -30)

	var d dashboard

	counts := []struct {
		dst   *int64
		query *gorm.DB
	}{
		{&d.TotalUsers, h.db.Model(&users.User{})},
		{&d.NewUsers7d, h.db.Model(&users.User{}).Where("created_at >= ?", sevenDaysAgo)},
		{&d.NewUsers30d, h.db.Model(&users.User{}).Where("created_at >= ?", thirtyDaysAgo)},
		{&d.TotalForms, h.db.Model(&forms.Form{})},
		{&d.TotalResponses, h.db.Model(&forms.Response{})},
		{&d.TotalViews, h.db.Model(&forms.View{})},
		{&d.TotalPayments, h.db.Model(&billing.Payment{}).Where("verified = ?", true)},
	}
	for _, cnt := range counts {
		if err := cnt.query.Count(cnt.dst).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load analytics"})
			return
		}
	}

	if err := h.db.Model(&billing.Payment{}).
		Where("verified = ?", true).
		Distinct("buyer_email").
		Count(&d.PaidUsers).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load analytics"})
		return
	}

	if err := h.db.Model(&billing.Payment{}).
		Select("plan_name, COUNT(*) AS count").
		Where("verified = ?", true).
		Group("plan_name").
		Scan(&d.PlanStats).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load analytics"})
		return
	}

	revenue := func(dst *int64, q *gorm.DB) error {
		var total sql.NullInt64
		if err := q.Select("COALESCE(SUM(amount_inr), 0)").Scan(&total).Error; err != nil {
			return err
		}
		*dst = total.Int64
		return nil
	}
	if err := revenue(&d.TotalRevenueINR, h.db.Model(&billing.Payment{}).Where("verified = ?", true)); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load analytics"})
		return
	}
	if err := revenue(&d.RevenueINR30d, h.db.Model(&billing.Payment{}).
		Where("verified = ? AND created_at >= ?", true, thirtyDaysAgo)); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load analytics"})
		return
	}

	if err := h.db.Where("verified = ?", true).
		Order("created_at DESC").
		Limit(10).
		Find(&d.RecentPayments).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load analytics"})
		return
	}

	c.JSON(http.StatusOK, d)
}

// GET /admin/users
func (h *Handler) ListAllUsers(c *gin.Context) {
	var list []users.User
	if err := h.db.Order("created_at DESC").Find(&list).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load users"})
		return
	}

	type adminUser struct {
		ID           uint      `json:"id"`
		Name         string    `json:"name"`
		Email        string    `json:"email"`
		AuthProvider string    `json:"auth_provider"`
		Role         string    `json:"role"`
		IsVerified   bool      `json:"is_verified"`
		CreatedAt    time.Time `json:"created_at"`
	}

	out := make([]adminUser, 0, len(list))
	for _, u := range list {
		out = append(out, adminUser{
			ID:           u.ID,
			Name:         u.Name,
			Email:        u.Email,
			AuthProvider: u.AuthProvider,
			Role:         u.Role,
			IsVerified:   u.IsVerified,
			CreatedAt:    u.CreatedAt,
		})
	}

	c.JSON(http.StatusOK, out)
}

// GET /admin/payments
func (h *Handler) ListAllPayments(c *gin.Context) {
	var list []billing.Payment
	if err := h.db.Order("created_at DESC").Find(&list).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load payments"})
		return
	}
	c.JSON(http.StatusOK, list)
}
