package models

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"errors"
	"fmt"

	"github.com/jinzhu/gorm"
)

var ErrResetTokenInvalid = errors.New("token de reset inválido ou expirado")

// DeriveResetToken deriva o token temporário que liga "código verificado"
// a "senha trocada": primeiros 32 hex do SHA-256 de "<id>_<userID>_<código>".
// Nada é persistido; a revogação é implícita na remoção do RecoveryCode.
func (rc RecoveryCode) DeriveResetToken() string {
	raw := fmt.Sprintf("%d_%d_%s", rc.ID, rc.UserID, rc.Code)
	sum := sha256.Sum256([]byte(raw))
	return hex.EncodeToString(sum[:])[:32]
}

// MatchesResetToken compara em tempo constante.
func (rc RecoveryCode) MatchesResetToken(token string) bool {
	derived := rc.DeriveResetToken()
	return subtle.ConstantTimeCompare([]byte(derived), []byte(token)) == 1
}

// FindRecoveryCodeByResetToken varre os registros vivos e testa a derivação
// de cada um. Varredura linear de propósito: manter o token sem estado vale
// mais que um índice, e a cardinalidade viva é limitada pelo TTL de minutos.
func FindRecoveryCodeByResetToken(db *gorm.DB, token string) (RecoveryCode, error) {
	records, err := LiveRecoveryCodes(db)
	if err != nil {
		return RecoveryCode{}, err
	}
	for _, record := range records {
		if record.MatchesResetToken(token) {
			return record, nil
		}
	}
	return RecoveryCode{}, ErrResetTokenInvalid
}
