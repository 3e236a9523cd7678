package users

import (
	"net/http"
	"time"

	"formbuilder-app/internal/domain/billing"
	"formbuilder-app/internal/domain/forms"
	"formbuilder-app/internal/domain/plans"
	"formbuilder-app/internal/domain/users"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type Handler struct {
	db     *gorm.DB
	ledger *billing.Ledger
}

func NewHandler(db *gorm.DB, ledger *billing.Ledger) *Handler {
	return &Handler{db: db, ledger: ledger}
}

type userDTO struct {
	ID           uint   `json:"id"`
	Name         string `json:"name"`
	Email        string `json:"email"`
	Avatar       string `json:"avatar,omitempty"`
	AuthProvider string `json:"auth_provider"`
	Role         string `json:"role"`
	IsVerified   bool   `json:"is_verified"`
}

type usageDTO struct {
	FormsUsed int `json:"forms_used"`
	FormsMax  int `json:"forms_max"` // -1 means unlimited
}

type meResponse struct {
	User  userDTO            `json:"user"`
	Plan  billing.PlanStatus `json:"plan"`
	Usage usageDTO           `json:"usage"`
}

// GET /me — profile, resolved plan and form usage against the limit.
func (h *Handler) GetCurrentUser(c *gin.Context) {
	email := c.GetString("email")
	if email == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var user users.User
	if err := h.db.Where("email = ?", email).First(&user).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	status, err := h.ledger.ResolveCurrentPlan(user.Email, time.Now())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to resolve plan"})
		return
	}
	limit := plans.LimitsFor(status.PlanName)

	var formCount int64
	if err := h.db.Model(&forms.Form{}).Where("owner_id = ?", user.ID).Count(&formCount).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to count forms"})
		return
	}

	c.JSON(http.StatusOK, meResponse{
		User: userDTO{
			ID:           user.ID,
			Name:         user.Name,
			Email:        user.Email,
			Avatar:       user.Avatar,
			AuthProvider: user.AuthProvider,
			Role:         user.Role,
			IsVerified:   user.IsVerified,
		},
		Plan: status,
		Usage: usageDTO{
			FormsUsed: int(formCount),
			FormsMax:  limit.MaxForms,
		},
	})
}
