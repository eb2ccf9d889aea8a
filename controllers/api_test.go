package controllers_test

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"testing"

	"infracheck/config"
	"infracheck/controllers"
	dbpkg "infracheck/db"
	"infracheck/models"
	"infracheck/router"
	"infracheck/tools"

	"github.com/gin-gonic/gin"
	"github.com/jinzhu/gorm"
	_ "github.com/jinzhu/gorm/dialects/sqlite"
	"github.com/stretchr/testify/require"
)

// setupAPI sobe a API inteira (rotas + gate + middlewares) contra um
// sqlite em memória, do jeito que o main monta em produção.
func setupAPI(t *testing.T) (*gin.Engine, *gorm.DB) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open("sqlite3", ":memory:")
	require.NoError(t, err)
	db.DB().SetMaxOpenConns(1)
	db.LogMode(false)
	require.NoError(t, db.AutoMigrate(
		&models.Role{}, &models.User{}, &models.SessionToken{}, &models.RecoveryCode{},
	).Error)
	require.NoError(t, db.Create(&models.Role{ID: models.ROLE_CITIZEN, Name: "Ciudadano"}).Error)
	t.Cleanup(func() { db.Close() })

	cfg := config.WithDefaults(config.Configuration{})
	controllers.SetConfigurations(cfg)
	controllers.SetMailer(tools.LogMailer{})
	t.Cleanup(func() { controllers.SetMailer(tools.LogMailer{}) })

	r := gin.New()
	r.Use(dbpkg.SetDBtoContext(db))
	router.Initialize(r, cfg)
	return r, db
}

func createUser(t *testing.T, db *gorm.DB, rut, nickname, email, password string) models.User {
	t.Helper()

	user := models.User{
		Rut:      rut,
		Nickname: nickname,
		Email:    email,
		Estado:   models.USER_ESTADO_ENABLED,
		RoleID:   models.ROLE_CITIZEN,
	}
	require.NoError(t, user.SetPassword(password))
	require.NoError(t, db.Create(&user).Error)
	return user
}

func doJSON(t *testing.T, r *gin.Engine, method, path string, body any, bearer string) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(b)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}
