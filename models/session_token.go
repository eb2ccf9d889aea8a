package models

import (
	"errors"
	"time"

	"infracheck/tools"

	"github.com/jinzhu/gorm"
)

// Tamanho do valor opaco do bearer token (alfanumérico, CSPRNG).
const SESSION_TOKEN_LENGTH = 64

// Tentativas de geração antes de desistir por colisão de unicidade.
const sessionTokenMaxAttempts = 5

var (
	ErrTokenNotFound = errors.New("token inválido ou não encontrado")
	ErrTokenExpired  = errors.New("token expirado")
)

// SessionToken representa uma credencial bearer viva de um usuário.
// Um token é válido sse active == true e agora < expires_at.
type SessionToken struct {
	ID        int64      `gorm:"primary_key;AUTO_INCREMENT" json:"id"`
	UserID    int64      `gorm:"not null;index" json:"user_id"`
	User      User       `gorm:"foreignkey:UserID" json:"-"`
	Token     string     `gorm:"not null;unique_index" json:"-"`
	ExpiresAt *time.Time `json:"expires_at"`
	Active    bool       `gorm:"not null;default:true" json:"active"`
	CreatedAt *time.Time `json:"created_at"`
}

func (SessionToken) TableName() string {
	return "sesion_token"
}

// IsValid verifica flag de ativo e expiração (exclusiva no instante exato).
// Ambos os instantes são alinhados na zona do serviço antes da comparação;
// um expires_at gravado sem zona é assumido como hora local do serviço.
func (st SessionToken) IsValid(now time.Time) bool {
	if !st.Active || st.ExpiresAt == nil {
		return false
	}
	return now.In(time.Local).Before(st.ExpiresAt.In(time.Local))
}

// GenerateSessionToken emite um token novo para o usuário com o TTL dado.
// Colisão de valor (astronomicamente rara) causa nova tentativa de geração;
// o store nunca sobrescreve um token existente em silêncio.
func GenerateSessionToken(db *gorm.DB, user User, ttl time.Duration) (SessionToken, error) {
	for attempt := 0; attempt < sessionTokenMaxAttempts; attempt++ {
		value, err := tools.RandomToken(SESSION_TOKEN_LENGTH)
		if err != nil {
			return SessionToken{}, err
		}

		var count int
		if err := db.Model(&SessionToken{}).Where("token = ?", value).Count(&count).Error; err != nil {
			return SessionToken{}, err
		}
		if count > 0 {
			continue
		}

		exp := time.Now().Add(ttl)
		token := SessionToken{
			UserID:    user.ID,
			Token:     value,
			ExpiresAt: &exp,
			Active:    true,
		}
		if err := db.Create(&token).Error; err != nil {
			return SessionToken{}, err
		}
		return token, nil
	}
	return SessionToken{}, errors.New("não foi possível gerar um token único")
}

// FindValidSessionToken resolve um valor de token para o usuário dono.
// Token expirado encontrado na busca é removido na hora (lazy delete) e
// reportado como ErrTokenExpired.
func FindValidSessionToken(db *gorm.DB, value string) (User, SessionToken, error) {
	var token SessionToken
	err := db.Where("token = ? AND active = ?", value, true).First(&token).Error
	if err != nil {
		if gorm.IsRecordNotFoundError(err) {
			return User{}, SessionToken{}, ErrTokenNotFound
		}
		return User{}, SessionToken{}, err
	}

	if !token.IsValid(time.Now()) {
		if err := db.Delete(&token).Error; err != nil {
			return User{}, SessionToken{}, err
		}
		return User{}, SessionToken{}, ErrTokenExpired
	}

	var user User
	if err := db.Preload("Role").First(&user, token.UserID).Error; err != nil {
		if gorm.IsRecordNotFoundError(err) {
			return User{}, SessionToken{}, ErrTokenNotFound
		}
		return User{}, SessionToken{}, err
	}

	return user, token, nil
}

// RotateSessionToken desativa o token atual e emite um novo para o mesmo
// usuário, numa única transação (usado pelo refresh).
func RotateSessionToken(db *gorm.DB, current SessionToken, ttl time.Duration) (SessionToken, error) {
	tx := db.Begin()
	if tx.Error != nil {
		return SessionToken{}, tx.Error
	}

	res := tx.Model(&SessionToken{}).
		Where("id = ? AND active = ?", current.ID, true).
		Update("active", false)
	if res.Error != nil {
		tx.Rollback()
		return SessionToken{}, res.Error
	}
	if res.RowsAffected == 0 {
		// Outro request desativou/removeu o token no meio do caminho.
		tx.Rollback()
		return SessionToken{}, ErrTokenNotFound
	}

	var user User
	if err := tx.First(&user, current.UserID).Error; err != nil {
		tx.Rollback()
		return SessionToken{}, err
	}

	fresh, err := GenerateSessionToken(tx, user, ttl)
	if err != nil {
		tx.Rollback()
		return SessionToken{}, err
	}

	if err := tx.Commit().Error; err != nil {
		tx.Rollback()
		return SessionToken{}, err
	}
	return fresh, nil
}

// RevokeUserSessionTokens apaga todos os tokens do usuário (logout geral,
// troca e reset de senha).
func RevokeUserSessionTokens(db *gorm.DB, userID int64) error {
	return db.Where("user_id = ?", userID).Delete(&SessionToken{}).Error
}

// DeleteSessionToken remove fisicamente um token (logout).
func DeleteSessionToken(db *gorm.DB, token SessionToken) error {
	return db.Delete(&token).Error
}

// SweepExpiredSessionTokens apaga todos os tokens já vencidos.
// Rodado pelo worker de limpeza, fora do caminho de request.
func SweepExpiredSessionTokens(db *gorm.DB) (int64, error) {
	res := db.Where("expires_at <= ?", time.Now()).Delete(&SessionToken{})
	return res.RowsAffected, res.Error
}
