package models

import (
	"testing"

	"github.com/jinzhu/gorm"
	_ "github.com/jinzhu/gorm/dialects/sqlite"
	"github.com/stretchr/testify/require"
)

// testDB abre um sqlite em memória com o schema migrado. Uma conexão só,
// para o banco em memória não sumir entre queries do pool.
func testDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open("sqlite3", ":memory:")
	require.NoError(t, err)
	db.DB().SetMaxOpenConns(1)
	db.LogMode(false)

	require.NoError(t, db.AutoMigrate(&Role{}, &User{}, &SessionToken{}, &RecoveryCode{}).Error)
	require.NoError(t, db.Create(&Role{ID: ROLE_CITIZEN, Name: "Ciudadano"}).Error)

	t.Cleanup(func() { db.Close() })
	return db
}

func createTestUser(t *testing.T, db *gorm.DB, rut, nickname, email string) User {
	t.Helper()

	user := User{
		Rut:      rut,
		Nickname: nickname,
		Email:    email,
		Estado:   USER_ESTADO_ENABLED,
		RoleID:   ROLE_CITIZEN,
	}
	require.NoError(t, user.SetPassword("Segura123"))
	require.NoError(t, db.Create(&user).Error)
	return user
}
