package forms

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"formbuilder-app/internal/domain/forms"
	"formbuilder-app/internal/domain/quota"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type Handler struct {
	db    *gorm.DB
	guard *quota.Guard
}

func NewHandler(db *gorm.DB, guard *quota.Guard) *Handler {
	return &Handler{db: db, guard: guard}
}

type formInput struct {
	Title       string          `json:"title" binding:"required"`
	Description string          `json:"description"`
	Fields      forms.FieldList `json:"fields"`
}

// POST /api/forms — quota middleware has already run.
func (h *Handler) CreateForm(c *gin.Context) {
	userID := c.GetUint("user_id")
	if userID == 0 {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var input formInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	form := forms.Form{
		OwnerID:     userID,
		Title:       input.Title,
		Description: input.Description,
		Fields:      input.Fields,
	}
	if err := h.db.Create(&form).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save form"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "Form saved", "form": form})
}

// GET /api/forms — the caller's own forms.
func (h *Handler) ListMyForms(c *gin.Context) {
	userID := c.GetUint("user_id")
	if userID == 0 {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var list []forms.Form
	if err := h.db.Where("owner_id = ?", userID).Order("created_at DESC").Find(&list).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load forms"})
		return
	}

	c.JSON(http.StatusOK, list)
}

// GET /api/forms/by-id/:id — public. Falls back to the template
// collection so a template can be previewed with the same URL shape.
// A hit on a real form records a view for analytics.
func (h *Handler) GetForm(c *gin.Context) {
	id, err := parseID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid form id"})
		return
	}

	var form forms.Form
	err = h.db.First(&form, id).Error
	if err == nil {
		h.recordView(c, form.ID)
		c.JSON(http.StatusOK, form)
		return
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Server error"})
		return
	}

	var tpl forms.FormTemplate
	if err := h.db.First(&tpl, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "Form not found"})
		return
	}
	c.JSON(http.StatusOK, tpl)
}

// PUT /api/forms/by-id/:id — updating an owned form bypasses the quota
// check entirely; a template id clones into a brand-new form, which is
// new consumption and must pass the createForm quota first.
func (h *Handler) UpdateForm(c *gin.Context) {
	userID := c.GetUint("user_id")
	if userID == 0 {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	id, err := parseID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid form id"})
		return
	}

	var input formInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var form forms.Form
	err = h.db.First(&form, id).Error
	if err == nil {
		if form.OwnerID != userID {
			c.JSON(http.StatusForbidden, gin.H{"message": "Access denied"})
			return
		}
		form.Title = input.Title
		form.Description = input.Description
		form.Fields = input.Fields
		if err := h.db.Save(&form).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Error updating form"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Form updated", "form": form})
		return
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Server error"})
		return
	}

	// Not a form — a template id clones into a new owned form.
	var tpl forms.FormTemplate
	if err := h.db.First(&tpl, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "Form not found"})
		return
	}

	h.cloneTemplate(c, userID, &tpl, &input)
}

// POST /api/templates/:id/use — explicit clone endpoint.
func (h *Handler) CloneTemplate(c *gin.Context) {
	userID := c.GetUint("user_id")
	if userID == 0 {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	id, err := parseID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid template id"})
		return
	}

	var tpl forms.FormTemplate
	if err := h.db.First(&tpl, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "Template not found"})
		return
	}

	h.cloneTemplate(c, userID, &tpl, nil)
}

// cloneTemplate creates a guarded, user-owned copy of a template.
// Overrides, when present, win over the template's own values.
func (h *Handler) cloneTemplate(c *gin.Context, userID uint, tpl *forms.FormTemplate, overrides *formInput) {
	ident := quota.Identity{ID: userID, Email: c.GetString("email")}
	if err := h.guard.CheckCreateForm(ident, time.Now()); err != nil {
		respondGuardError(c, err)
		return
	}

	form := forms.Form{
		OwnerID:     userID,
		Title:       tpl.Title,
		Description: tpl.Description,
		Fields:      tpl.Fields,
	}
	if overrides != nil {
		if overrides.Title != "" {
			form.Title = overrides.Title
		}
		if overrides.Description != "" {
			form.Description = overrides.Description
		}
		if len(overrides.Fields) > 0 {
			form.Fields = overrides.Fields
		}
	}

	if err := h.db.Create(&form).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Error saving form"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "New form created from template", "form": form})
}

// DELETE /api/forms/by-id/:id
func (h *Handler) DeleteForm(c *gin.Context) {
	userID := c.GetUint("user_id")
	if userID == 0 {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	id, err := parseID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid form id"})
		return
	}

	res := h.db.Where("id = ? AND owner_id = ?", id, userID).Delete(&forms.Form{})
	if res.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Error deleting form"})
		return
	}
	if res.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"message": "Form not found or access denied"})
		return
	}

	h.db.Where("form_id = ?", id).Delete(&forms.Response{})

	c.JSON(http.StatusOK, gin.H{"message": "Form deleted successfully"})
}

// POST /api/forms/:formId/responses — public; the owner-plan quota
// middleware has already run.
func (h *Handler) SubmitResponse(c *gin.Context) {
	formID, err := parseID(c.Param("formId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid form id"})
		return
	}

	var answers map[string]interface{}
	if err := c.ShouldBindJSON(&answers); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Malformed answers"})
		return
	}

	var form forms.Form
	if err := h.db.First(&form, formID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "Form not found"})
		return
	}

	response := forms.Response{
		FormID:      form.ID,
		Answers:     answers,
		SubmittedAt: time.Now(),
	}
	if err := h.db.Create(&response).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Error saving response"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Response saved"})
}

// GET /api/forms/:formId/responses — owner only. Discloses the true
// total but lists at most the plan's allowance.
func (h *Handler) ListResponses(c *gin.Context) {
	userID := c.GetUint("user_id")
	if userID == 0 {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	formID, err := parseID(c.Param("formId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid form id"})
		return
	}

	var form forms.Form
	if err := h.db.First(&form, formID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "Form not found or access denied"})
		return
	}
	if form.OwnerID != userID {
		c.JSON(http.StatusNotFound, gin.H{"message": "Form not found or access denied"})
		return
	}

	window, err := h.guard.ResponseWindow(form.ID, time.Now())
	if err != nil {
		respondGuardError(c, err)
		return
	}

	q := h.db.Where("form_id = ?", form.ID).Order("submitted_at ASC")
	if window.ShownResponses < window.TotalResponses {
		q = q.Limit(window.ShownResponses)
	}
	var list []forms.Response
	if err := q.Find(&list).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Error fetching responses"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"responses":       list,
		"totalResponses":  window.TotalResponses,
		"allowedLimit":    window.AllowedLimit,
		"shownResponses":  window.ShownResponses,
		"upgradeRequired": window.UpgradeRequired,
	})
}

func (h *Handler) recordView(c *gin.Context, formID uint) {
	view := forms.View{
		FormID:    formID,
		UserAgent: c.Request.UserAgent(),
		IP:        c.ClientIP(),
	}
	// best effort
	_ = h.db.Create(&view).Error
}

func respondGuardError(c *gin.Context, err error) {
	var exceeded quota.ExceededError
	switch {
	case errors.Is(err, quota.ErrAuthRequired):
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "User email missing"})
	case errors.Is(err, quota.ErrFormNotFound):
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Form not found"})
	case errors.As(err, &exceeded):
		c.JSON(http.StatusForbidden, gin.H{
			"success":         false,
			"message":         exceeded.Message,
			"upgradeRequired": exceeded.UpgradeRequired,
		})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Plan check failed"})
	}
}

func parseID(s string) (uint, error) {
	id, err := strconv.ParseUint(s, 10, 64)
	if err != nil || id == 0 {
		return 0, errors.New("invalid id")
	}
	return uint(id), nil
}
