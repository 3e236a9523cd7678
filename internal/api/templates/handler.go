package templates

import (
	"net/http"
	"strconv"

	"formbuilder-app/internal/domain/forms"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type Handler struct {
	db *gorm.DB
}

func NewHandler(db *gorm.DB) *Handler {
	return &Handler{db: db}
}

// GET /api/templates
func (h *Handler) ListTemplates(c *gin.Context) {
	var list []forms.FormTemplate
	if err := h.db.Find(&list).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load templates"})
		return
	}
	c.JSON(http.StatusOK, list)
}

// GET /api/templates/:id
func (h *Handler) GetTemplate(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid template id"})
		return
	}

	var tpl forms.FormTemplate
	if err := h.db.First(&tpl, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Template not found"})
		return
	}
	c.JSON(http.StatusOK, tpl)
}

// POST /api/templates — admin seeding. Status is always "template",
// whatever the payload says.
func (h *Handler) CreateTemplate(c *gin.Context) {
	var input struct {
		Title       string          `json:"title" binding:"required"`
		Description string          `json:"description"`
		Info        string          `json:"info"`
		Fields      forms.FieldList `json:"fields"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	tpl := forms.FormTemplate{
		Title:       input.Title,
		Description: input.Description,
		Info:        input.Info,
		Fields:      input.Fields,
		Status:      forms.StatusTemplate,
	}
	if err := h.db.Create(&tpl).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create template"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Template added successfully", "template": tpl})
}
