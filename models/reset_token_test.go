package models

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeriveResetToken(t *testing.T) {
	record := RecoveryCode{ID: 7, UserID: 42, Code: "123456"}

	sum := sha256.Sum256([]byte(fmt.Sprintf("%d_%d_%s", 7, 42, "123456")))
	expected := hex.EncodeToString(sum[:])[:32]

	token := record.DeriveResetToken()
	assert.Equal(t, expected, token)
	assert.Len(t, token, 32)

	// determinístico: mesma entrada, mesmo token
	assert.Equal(t, token, record.DeriveResetToken())

	other := RecoveryCode{ID: 8, UserID: 42, Code: "123456"}
	assert.NotEqual(t, token, other.DeriveResetToken())
}

func TestMatchesResetToken(t *testing.T) {
	record := RecoveryCode{ID: 1, UserID: 2, Code: "654321"}

	assert.True(t, record.MatchesResetToken(record.DeriveResetToken()))
	assert.False(t, record.MatchesResetToken("qualquer-coisa"))
	assert.False(t, record.MatchesResetToken(""))
}

func TestFindRecoveryCodeByResetToken(t *testing.T) {
	db := testDB(t)
	ana := createTestUser(t, db, "123456789", "ana", "ana@test.cl")
	beto := createTestUser(t, db, "987654321", "beto", "beto@test.cl")

	recordA, err := GenerateRecoveryCode(db, ana, 10*time.Minute)
	require.NoError(t, err)
	recordB, err := GenerateRecoveryCode(db, beto, 10*time.Minute)
	require.NoError(t, err)

	got, err := FindRecoveryCodeByResetToken(db, recordB.DeriveResetToken())
	require.NoError(t, err)
	assert.Equal(t, recordB.ID, got.ID)

	got, err = FindRecoveryCodeByResetToken(db, recordA.DeriveResetToken())
	require.NoError(t, err)
	assert.Equal(t, recordA.ID, got.ID)

	_, err = FindRecoveryCodeByResetToken(db, "00000000000000000000000000000000")
	assert.True(t, errors.Is(err, ErrResetTokenInvalid))
}

func TestFindRecoveryCodeByResetTokenIgnoresConsumed(t *testing.T) {
	db := testDB(t)
	user := createTestUser(t, db, "123456789", "ana", "ana@test.cl")

	record, err := GenerateRecoveryCode(db, user, 10*time.Minute)
	require.NoError(t, err)
	token := record.DeriveResetToken()

	require.NoError(t, ConsumeRecoveryCode(db, record))

	// a "revogação" do token derivado é implícita no estado do registro
	_, err = FindRecoveryCodeByResetToken(db, token)
	assert.True(t, errors.Is(err, ErrResetTokenInvalid))
}
