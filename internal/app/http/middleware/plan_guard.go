package middleware

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"formbuilder-app/internal/domain/quota"

	"github.com/gin-gonic/gin"
)

// Guarded actions.
const (
	ActionCreateForm     = "createForm"
	ActionSubmitResponse = "submitResponse"
)

// CheckPlanLimit runs the quota guard before a quota-consuming route.
// For createForm the caller's own plan is checked; for submitResponse the
// form owner's plan pays, so the submitter may be anonymous.
func CheckPlanLimit(guard *quota.Guard, action string) gin.HandlerFunc {
	return func(c *gin.Context) {
		var err error

		switch action {
		case ActionCreateForm:
			ident := quota.Identity{
				ID:    c.GetUint("user_id"),
				Email: c.GetString("email"),
			}
			err = guard.CheckCreateForm(ident, time.Now())

		case ActionSubmitResponse:
			formID, parseErr := strconv.ParseUint(c.Param("formId"), 10, 64)
			if parseErr != nil {
				c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid form id"})
				return
			}
			err = guard.CheckSubmitResponse(uint(formID), time.Now())

		default:
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Unknown plan action"})
			return
		}

		if err == nil {
			c.Next()
			return
		}

		var exceeded quota.ExceededError
		switch {
		case errors.Is(err, quota.ErrAuthRequired):
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"success": false, "message": "User email missing"})
		case errors.Is(err, quota.ErrFormNotFound):
			c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"success": false, "message": "Form not found"})
		case errors.As(err, &exceeded):
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"success":         false,
				"message":         exceeded.Message,
				"upgradeRequired": exceeded.UpgradeRequired,
			})
		default:
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Plan check failed"})
		}
	}
}
