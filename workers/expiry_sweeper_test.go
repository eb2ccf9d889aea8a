package workers

import (
	"testing"
	"time"

	"infracheck/models"

	"github.com/jinzhu/gorm"
	_ "github.com/jinzhu/gorm/dialects/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSweepOnce(t *testing.T) {
	db, err := gorm.Open("sqlite3", ":memory:")
	require.NoError(t, err)
	db.DB().SetMaxOpenConns(1)
	db.LogMode(false)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, db.AutoMigrate(
		&models.Role{}, &models.User{}, &models.SessionToken{}, &models.RecoveryCode{},
	).Error)
	require.NoError(t, db.Create(&models.Role{ID: models.ROLE_CITIZEN, Name: "Ciudadano"}).Error)

	user := models.User{
		Rut: "123456789", Nickname: "ana", Email: "ana@test.cl",
		Estado: models.USER_ESTADO_ENABLED, RoleID: models.ROLE_CITIZEN,
	}
	require.NoError(t, user.SetPassword("Segura123"))
	require.NoError(t, db.Create(&user).Error)

	past := time.Now().Add(-time.Minute)
	future := time.Now().Add(time.Hour)
	require.NoError(t, db.Create(&models.SessionToken{
		UserID: user.ID, Token: "token-expirado", ExpiresAt: &past, Active: true,
	}).Error)
	require.NoError(t, db.Create(&models.SessionToken{
		UserID: user.ID, Token: "token-vivo", ExpiresAt: &future, Active: true,
	}).Error)
	require.NoError(t, db.Create(&models.RecoveryCode{
		UserID: user.ID, Code: "111111", ExpiresAt: &past,
	}).Error)
	require.NoError(t, db.Create(&models.RecoveryCode{
		UserID: user.ID, Code: "222222", ExpiresAt: &future,
	}).Error)

	sweepOnce(db)

	var tokens []models.SessionToken
	require.NoError(t, db.Find(&tokens).Error)
	require.Len(t, tokens, 1)
	assert.Equal(t, "token-vivo", tokens[0].Token)

	var codes []models.RecoveryCode
	require.NoError(t, db.Find(&codes).Error)
	require.Len(t, codes, 1)
	assert.Equal(t, "222222", codes[0].Code)
}
