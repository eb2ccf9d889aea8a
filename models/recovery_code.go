package models

import (
	"errors"
	"time"

	"infracheck/tools"

	"github.com/jinzhu/gorm"
)

// Código numérico de recuperação: 6 dígitos, cada um sorteado de fonte
// criptograficamente segura.
const RECOVERY_CODE_LENGTH = 6

var ErrCodeInvalid = errors.New("código inválido ou expirado")

// RecoveryCode representa um desafio de código único pendente para o fluxo
// de "esqueci minha senha". No máximo um código vivo por usuário: emitir um
// novo apaga todos os anteriores.
type RecoveryCode struct {
	ID        int64      `gorm:"primary_key;AUTO_INCREMENT" json:"id"`
	UserID    int64      `gorm:"not null;index:idx_recovery_user_code" json:"user_id"`
	User      User       `gorm:"foreignkey:UserID" json:"-"`
	Code      string     `gorm:"not null;index:idx_recovery_user_code" json:"-"`
	ExpiresAt *time.Time `json:"expires_at"`
	Used      bool       `gorm:"not null;default:false" json:"used"`
	CreatedAt *time.Time `json:"created_at"`
}

func (RecoveryCode) TableName() string {
	return "recuperar_usuario"
}

// IsValid: não usado e ainda não expirado (limite exclusivo no vencimento),
// com a mesma normalização de zona dos tokens de sessão.
func (rc RecoveryCode) IsValid(now time.Time) bool {
	if rc.Used || rc.ExpiresAt == nil {
		return false
	}
	return now.In(time.Local).Before(rc.ExpiresAt.In(time.Local))
}

// GenerateRecoveryCode emite um código novo para o usuário com o TTL dado.
// O par "apaga anteriores + insere" roda numa transação única para que a
// invariante de um código vivo por usuário valha mesmo sob corrida; o código
// mais recente sempre vence.
func GenerateRecoveryCode(db *gorm.DB, user User, ttl time.Duration) (RecoveryCode, error) {
	code, err := tools.RandomDigits(RECOVERY_CODE_LENGTH)
	if err != nil {
		return RecoveryCode{}, err
	}

	tx := db.Begin()
	if tx.Error != nil {
		return RecoveryCode{}, tx.Error
	}

	if err := tx.Where("user_id = ?", user.ID).Delete(&RecoveryCode{}).Error; err != nil {
		tx.Rollback()
		return RecoveryCode{}, err
	}

	exp := time.Now().Add(ttl)
	record := RecoveryCode{
		UserID:    user.ID,
		Code:      code,
		ExpiresAt: &exp,
	}
	if err := tx.Create(&record).Error; err != nil {
		tx.Rollback()
		return RecoveryCode{}, err
	}

	if err := tx.Commit().Error; err != nil {
		tx.Rollback()
		return RecoveryCode{}, err
	}
	return record, nil
}

// VerifyRecoveryCode busca um registro usuário+código ainda não usado.
// A verificação é uma leitura: o registro NÃO é marcado como usado aqui.
// Um registro expirado encontrado na busca é apagado na hora.
func VerifyRecoveryCode(db *gorm.DB, user User, code string) (RecoveryCode, error) {
	var record RecoveryCode
	err := db.Where("user_id = ? AND code = ? AND used = ?", user.ID, code, false).
		First(&record).Error
	if err != nil {
		if gorm.IsRecordNotFoundError(err) {
			return RecoveryCode{}, ErrCodeInvalid
		}
		return RecoveryCode{}, err
	}

	if !record.IsValid(time.Now()) {
		if err := db.Delete(&record).Error; err != nil {
			return RecoveryCode{}, err
		}
		return RecoveryCode{}, ErrCodeInvalid
	}

	return record, nil
}

// ConsumeRecoveryCode marca o registro como usado. Idempotente: chamar duas
// vezes deixa used=true sem erro.
func ConsumeRecoveryCode(db *gorm.DB, record RecoveryCode) error {
	return db.Model(&RecoveryCode{}).
		Where("id = ?", record.ID).
		Update("used", true).Error
}

// DeleteRecoveryCode remove um registro (rollback de entrega não feita).
func DeleteRecoveryCode(db *gorm.DB, record RecoveryCode) error {
	return db.Delete(&record).Error
}

// DeleteUserRecoveryCodes apaga todos os códigos do usuário (pós-reset).
func DeleteUserRecoveryCodes(db *gorm.DB, userID int64) error {
	return db.Where("user_id = ?", userID).Delete(&RecoveryCode{}).Error
}

// LiveRecoveryCodes lista os registros vivos (não usados e não expirados)
// do sistema inteiro, para o casamento do reset token derivado.
// Cardinalidade pequena por construção: TTL de minutos.
func LiveRecoveryCodes(db *gorm.DB) ([]RecoveryCode, error) {
	var records []RecoveryCode
	err := db.Where("used = ? AND expires_at > ?", false, time.Now()).
		Find(&records).Error
	return records, err
}

// SweepExpiredRecoveryCodes apaga todos os registros vencidos,
// independentemente do flag used. Rodado pelo worker de limpeza.
func SweepExpiredRecoveryCodes(db *gorm.DB) (int64, error) {
	res := db.Where("expires_at <= ?", time.Now()).Delete(&RecoveryCode{})
	return res.RowsAffected, res.Error
}
