package forms

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"formbuilder-app/internal/app/http/middleware"
	"formbuilder-app/internal/domain/billing"
	domforms "formbuilder-app/internal/domain/forms"
	"formbuilder-app/internal/domain/plans"
	"formbuilder-app/internal/domain/quota"
	"formbuilder-app/internal/domain/users"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type testEnv struct {
	db     *gorm.DB
	router *gin.Engine
	owner  users.User
}

// asUser fakes the auth middleware by injecting the identity claims the
// JWT layer would set.
func asUser(u users.User) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("user_id", u.ID)
		c.Set("email", u.Email)
		c.Set("role", u.Role)
		c.Next()
	}
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&users.User{}, &domforms.Form{}, &domforms.FormTemplate{},
		&domforms.Response{}, &domforms.View{}, &billing.Payment{},
	))

	owner := users.User{Name: "Owner", Email: "owner@example.com", Role: "user"}
	require.NoError(t, db.Create(&owner).Error)

	guard := quota.NewGuard(db, billing.NewLedger(db))
	h := NewHandler(db, guard)

	r := gin.New()
	r.GET("/api/forms/by-id/:id", h.GetForm)
	r.POST("/api/forms/:formId/responses",
		middleware.CheckPlanLimit(guard, middleware.ActionSubmitResponse), h.SubmitResponse)

	auth := r.Group("/", asUser(owner))
	auth.POST("/api/forms",
		middleware.CheckPlanLimit(guard, middleware.ActionCreateForm), h.CreateForm)
	auth.GET("/api/forms", h.ListMyForms)
	auth.PUT("/api/forms/by-id/:id", h.UpdateForm)
	auth.DELETE("/api/forms/by-id/:id", h.DeleteForm)
	auth.GET("/api/forms/:formId/responses", h.ListResponses)
	auth.POST("/api/templates/:id/use", h.CloneTemplate)

	return &testEnv{db: db, router: r, owner: owner}
}

func (e *testEnv) request(t *testing.T, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func (e *testEnv) activatePlan(t *testing.T, plan string) {
	t.Helper()
	end := time.Now().AddDate(0, 0, 30)
	p := billing.Payment{
		OrderID:     fmt.Sprintf("order_%s", plan),
		PlanName:    plan,
		PlanType:    plans.CadenceMonthly,
		Status:      billing.StatusSuccess,
		Verified:    true,
		PlanEndDate: &end,
		BuyerEmail:  e.owner.Email,
	}
	require.NoError(t, e.db.Create(&p).Error)
}

func TestCreateFormWithinFreeQuota(t *testing.T) {
	env := newTestEnv(t)

	w := env.request(t, http.MethodPost, "/api/forms", gin.H{
		"title":  "Feedback",
		"fields": []gin.H{{"type": "text", "label": "Name"}},
	})
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Contains(t, w.Body.String(), "Form saved")

	var count int64
	env.db.Model(&domforms.Form{}).Count(&count)
	assert.Equal(t, int64(1), count)
}

func TestCreateFormBlockedOverFreeQuota(t *testing.T) {
	env := newTestEnv(t)

	require.Equal(t, http.StatusCreated, env.request(t, http.MethodPost, "/api/forms", gin.H{"title": "One"}).Code)

	w := env.request(t, http.MethodPost, "/api/forms", gin.H{"title": "Two"})
	require.Equal(t, http.StatusForbidden, w.Code)

	var body struct {
		Success         bool   `json:"success"`
		Message         string `json:"message"`
		UpgradeRequired bool   `json:"upgradeRequired"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.False(t, body.Success)
	assert.True(t, body.UpgradeRequired)
	assert.Contains(t, body.Message, "free")
}

func TestCreateFormAllowedAfterUpgrade(t *testing.T) {
	env := newTestEnv(t)
	env.activatePlan(t, plans.TierStarter)

	for i := 0; i < 3; i++ {
		w := env.request(t, http.MethodPost, "/api/forms", gin.H{"title": fmt.Sprintf("Form %d", i+1)})
		require.Equal(t, http.StatusCreated, w.Code)
	}
	assert.Equal(t, http.StatusForbidden, env.request(t, http.MethodPost, "/api/forms", gin.H{"title": "Four"}).Code)
}

func TestUpdateOwnFormBypassesQuota(t *testing.T) {
	env := newTestEnv(t)
	require.Equal(t, http.StatusCreated, env.request(t, http.MethodPost, "/api/forms", gin.H{"title": "One"}).Code)

	var form domforms.Form
	require.NoError(t, env.db.First(&form).Error)

	// at the free limit already; editing must still succeed
	w := env.request(t, http.MethodPut, fmt.Sprintf("/api/forms/by-id/%d", form.ID), gin.H{"title": "Renamed"})
	require.Equal(t, http.StatusOK, w.Code)

	require.NoError(t, env.db.First(&form, form.ID).Error)
	assert.Equal(t, "Renamed", form.Title)
}

func TestCloneTemplateConsumesQuota(t *testing.T) {
	env := newTestEnv(t)

	tpl := domforms.FormTemplate{Title: "RSVP", Fields: domforms.FieldList{{Type: "text", Label: "Name"}}}
	require.NoError(t, env.db.Create(&tpl).Error)

	w := env.request(t, http.MethodPost, fmt.Sprintf("/api/templates/%d/use", tpl.ID), nil)
	require.Equal(t, http.StatusCreated, w.Code)

	// quota is now spent, a second clone is rejected
	w = env.request(t, http.MethodPost, fmt.Sprintf("/api/templates/%d/use", tpl.ID), nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestSubmitResponseUpToOwnerLimit(t *testing.T) {
	env := newTestEnv(t)
	form := domforms.Form{OwnerID: env.owner.ID, Title: "Survey"}
	require.NoError(t, env.db.Create(&form).Error)

	for i := 0; i < 49; i++ {
		r := domforms.Response{FormID: form.ID, Answers: map[string]interface{}{"q": i}}
		require.NoError(t, env.db.Create(&r).Error)
	}

	path := fmt.Sprintf("/api/forms/%d/responses", form.ID)
	require.Equal(t, http.StatusOK, env.request(t, http.MethodPost, path, gin.H{"q": "last one in"}).Code)

	w := env.request(t, http.MethodPost, path, gin.H{"q": "over the line"})
	require.Equal(t, http.StatusForbidden, w.Code)
	assert.Contains(t, w.Body.String(), "upgradeRequired")
}

func TestSubmitResponseUnknownForm(t *testing.T) {
	env := newTestEnv(t)

	w := env.request(t, http.MethodPost, "/api/forms/999/responses", gin.H{"q": "a"})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestListResponsesPartialVisibility(t *testing.T) {
	env := newTestEnv(t)
	form := domforms.Form{OwnerID: env.owner.ID, Title: "Survey"}
	require.NoError(t, env.db.Create(&form).Error)

	for i := 0; i < 60; i++ {
		r := domforms.Response{
			FormID:      form.ID,
			Answers:     map[string]interface{}{"n": i},
			SubmittedAt: time.Now().Add(time.Duration(i) * time.Second),
		}
		require.NoError(t, env.db.Create(&r).Error)
	}

	w := env.request(t, http.MethodGet, fmt.Sprintf("/api/forms/%d/responses", form.ID), nil)
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Responses       []json.RawMessage `json:"responses"`
		TotalResponses  int               `json:"totalResponses"`
		AllowedLimit    int               `json:"allowedLimit"`
		ShownResponses  int               `json:"shownResponses"`
		UpgradeRequired bool              `json:"upgradeRequired"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Len(t, body.Responses, 50)
	assert.Equal(t, 60, body.TotalResponses)
	assert.Equal(t, 50, body.AllowedLimit)
	assert.Equal(t, 50, body.ShownResponses)
	assert.True(t, body.UpgradeRequired)
}

func TestListResponsesOwnerOnly(t *testing.T) {
	env := newTestEnv(t)

	other := users.User{Name: "Other", Email: "other@example.com"}
	require.NoError(t, env.db.Create(&other).Error)
	form := domforms.Form{OwnerID: other.ID, Title: "Theirs"}
	require.NoError(t, env.db.Create(&form).Error)

	w := env.request(t, http.MethodGet, fmt.Sprintf("/api/forms/%d/responses", form.ID), nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestGetFormPublicAndRecordsView(t *testing.T) {
	env := newTestEnv(t)
	form := domforms.Form{OwnerID: env.owner.ID, Title: "Public"}
	require.NoError(t, env.db.Create(&form).Error)

	w := env.request(t, http.MethodGet, fmt.Sprintf("/api/forms/by-id/%d", form.ID), nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Public")

	var views int64
	env.db.Model(&domforms.View{}).Where("form_id = ?", form.ID).Count(&views)
	assert.Equal(t, int64(1), views)
}

func TestGetFormFallsBackToTemplate(t *testing.T) {
	env := newTestEnv(t)
	tpl := domforms.FormTemplate{Title: "Starter template"}
	require.NoError(t, env.db.Create(&tpl).Error)

	w := env.request(t, http.MethodGet, fmt.Sprintf("/api/forms/by-id/%d", tpl.ID), nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Starter template")
}

func TestDeleteFormCascadesResponses(t *testing.T) {
	env := newTestEnv(t)
	form := domforms.Form{OwnerID: env.owner.ID, Title: "Doomed"}
	require.NoError(t, env.db.Create(&form).Error)
	require.NoError(t, env.db.Create(&domforms.Response{FormID: form.ID, Answers: map[string]interface{}{"q": 1}}).Error)

	w := env.request(t, http.MethodDelete, fmt.Sprintf("/api/forms/by-id/%d", form.ID), nil)
	require.Equal(t, http.StatusOK, w.Code)

	var remaining int64
	env.db.Model(&domforms.Response{}).Where("form_id = ?", form.ID).Count(&remaining)
	assert.Equal(t, int64(0), remaining)
}
