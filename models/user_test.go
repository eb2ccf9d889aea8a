package models

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserPassword(t *testing.T) {
	var user User
	require.NoError(t, user.SetPassword("Segura123"))

	assert.NotEqual(t, "Segura123", user.Password)
	assert.True(t, user.CheckPassword("Segura123"))
	assert.False(t, user.CheckPassword("otra123456"))
}

func TestFindEnabledUserByIdentifier(t *testing.T) {
	db := testDB(t)
	user := createTestUser(t, db, "12345678K", "ana", "ana@test.cl")

	byEmail, err := FindEnabledUserByIdentifier(db, "ana@test.cl")
	require.NoError(t, err)
	assert.Equal(t, user.ID, byEmail.ID)

	// RUT em qualquer forma resolve para o mesmo usuário
	byRut, err := FindEnabledUserByIdentifier(db, "12.345.678-k")
	require.NoError(t, err)
	assert.Equal(t, user.ID, byRut.ID)

	byPlainRut, err := FindEnabledUserByIdentifier(db, "12345678K")
	require.NoError(t, err)
	assert.Equal(t, user.ID, byPlainRut.ID)

	_, err = FindEnabledUserByIdentifier(db, "nadie@test.cl")
	assert.True(t, errors.Is(err, ErrUserNotFound))
}

func TestFindEnabledUserByIdentifierSkipsDisabled(t *testing.T) {
	db := testDB(t)
	user := createTestUser(t, db, "123456789", "ana", "ana@test.cl")

	require.NoError(t, db.Model(&User{}).Where("id = ?", user.ID).
		Update("estado", USER_ESTADO_DISABLED).Error)

	// conta soft-deletada conta como inexistente
	_, err := FindEnabledUserByIdentifier(db, "ana@test.cl")
	assert.True(t, errors.Is(err, ErrUserNotFound))
}
