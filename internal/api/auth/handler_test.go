package auth

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"formbuilder-app/internal/domain/users"
	"formbuilder-app/internal/infra/email"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newAuthEnv(t *testing.T) (*gin.Engine, *gorm.DB) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, db.AutoMigrate(&users.User{}, &users.VerificationToken{}))

	h := NewHandler(db, email.NewMailer("", "noreply@example.com"))

	r := gin.New()
	r.POST("/request-password-reset", h.RequestPasswordReset)
	r.POST("/reset-password", h.ResetPassword)
	return r, db
}

func seedLocalUser(t *testing.T, db *gorm.DB, email, password string) users.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	require.NoError(t, err)
	hashed := string(hash)
	u := users.User{
		Name:         "Asha",
		Email:        email,
		Password:     &hashed,
		AuthProvider: "local",
		Role:         "user",
		IsVerified:   true,
	}
	require.NoError(t, db.Create(&u).Error)
	return u
}

func postAuth(t *testing.T, r *gin.Engine, path string, body gin.H) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, json.NewEncoder(&buf).Encode(body))
	req := httptest.NewRequest(http.MethodPost, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRequestPasswordResetStoresHashedToken(t *testing.T) {
	r, db := newAuthEnv(t)
	user := seedLocalUser(t, db, "asha@example.com", "oldpass123")

	w := postAuth(t, r, "/request-password-reset", gin.H{"email": user.Email})
	require.Equal(t, http.StatusOK, w.Code)

	var token users.VerificationToken
	require.NoError(t, db.Where("user_id = ? AND type = ?", user.ID, users.TokenPasswordReset).First(&token).Error)
	// only the hash is stored, never the raw token
	assert.Len(t, token.Token, 64)
}

func TestRequestPasswordResetStoreFailureIsServerError(t *testing.T) {
	r, db := newAuthEnv(t)
	seedLocalUser(t, db, "asha@example.com", "oldpass123")
	require.NoError(t, db.Migrator().DropTable(&users.VerificationToken{}))

	w := postAuth(t, r, "/request-password-reset", gin.H{"email": "asha@example.com"})
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestResetPasswordUpdatesHash(t *testing.T) {
	r, db := newAuthEnv(t)
	user := seedLocalUser(t, db, "asha@example.com", "oldpass123")

	raw := generateToken()
	require.NoError(t, db.Create(&users.VerificationToken{
		UserID:    user.ID,
		Token:     hashToken(raw),
		Type:      users.TokenPasswordReset,
		ExpiresAt: time.Now().Add(15 * time.Minute),
	}).Error)

	w := postAuth(t, r, "/reset-password", gin.H{"token": raw, "new_password": "newpass456"})
	require.Equal(t, http.StatusOK, w.Code)

	var updated users.User
	require.NoError(t, db.First(&updated, user.ID).Error)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(*updated.Password), []byte("newpass456")))

	// the token is single use
	var count int64
	db.Model(&users.VerificationToken{}).Where("user_id = ?", user.ID).Count(&count)
	assert.Equal(t, int64(0), count)
}

func TestResetPasswordExpiredToken(t *testing.T) {
	r, db := newAuthEnv(t)
	user := seedLocalUser(t, db, "asha@example.com", "oldpass123")

	raw := generateToken()
	require.NoError(t, db.Create(&users.VerificationToken{
		UserID:    user.ID,
		Token:     hashToken(raw),
		Type:      users.TokenPasswordReset,
		ExpiresAt: time.Now().Add(-time.Minute),
	}).Error)

	w := postAuth(t, r, "/reset-password", gin.H{"token": raw, "new_password": "newpass456"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestResetPasswordStoreFailureIsServerError(t *testing.T) {
	r, db := newAuthEnv(t)
	user := seedLocalUser(t, db, "asha@example.com", "oldpass123")

	raw := generateToken()
	require.NoError(t, db.Create(&users.VerificationToken{
		UserID:    user.ID,
		Token:     hashToken(raw),
		Type:      users.TokenPasswordReset,
		ExpiresAt: time.Now().Add(15 * time.Minute),
	}).Error)
	require.NoError(t, db.Migrator().DropTable(&users.User{}))

	w := postAuth(t, r, "/reset-password", gin.H{"token": raw, "new_password": "newpass456"})
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}
