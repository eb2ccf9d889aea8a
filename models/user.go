package models

import (
	"errors"
	"time"

	"infracheck/tools"

	"github.com/jinzhu/gorm"
)

/************************************************
/**** MARK: USER ESTADO ****/
/************************************************/
const USER_ESTADO_DISABLED = 0
const USER_ESTADO_ENABLED = 1

// Roles padrão criados no seed do banco.
const ROLE_ADMIN = 1
const ROLE_AUTHORITY = 2
const ROLE_CITIZEN = 3

var ErrUserNotFound = errors.New("usuário não encontrado")

// Role representa um rol de usuário (admin, autoridade, cidadão).
type Role struct {
	ID   int64  `gorm:"primary_key;AUTO_INCREMENT" json:"id"`
	Name string `gorm:"not null;unique" json:"name"`
}

// User representa um usuario no sistema.
// Estado 0 = deshabilitado (soft delete), 1 = habilitado. Contas nunca são
// removidas fisicamente por este núcleo; o flag bloqueia autenticação nova.
type User struct {
	ID        int64  `gorm:"primary_key;AUTO_INCREMENT" json:"id"`
	Rut       string `gorm:"not null;unique" json:"rut" form:"rut"`
	Name      string `json:"name" form:"name"`
	LastName  string `gorm:"column:last_name" json:"last_name" form:"last_name"`
	Nickname  string `gorm:"not null;unique" json:"nickname" form:"nickname"`
	Email     string `gorm:"not null" json:"email" form:"email"`
	Password  string `gorm:"not null" json:"-" form:"password"`
	Phone     int64  `json:"phone" form:"phone"`
	Estado    int    `gorm:"not null;default:1" json:"estado"`
	RoleID    int64  `gorm:"not null;index" json:"role_id"`
	Role      Role   `gorm:"foreignkey:RoleID" json:"role,omitempty"`
	CreatedAt *time.Time `json:"created_at"`
	UpdatedAt *time.Time `json:"updated_at"`
}

func (User) TableName() string {
	return "usuario"
}

func (u User) IsEnabled() bool {
	return u.Estado == USER_ESTADO_ENABLED
}

// CheckPassword compara a senha em texto puro com o hash armazenado.
func (u User) CheckPassword(raw string) bool {
	return tools.VerifyPassword(raw, u.Password)
}

// SetPassword troca o hash armazenado (não persiste).
func (u *User) SetPassword(raw string) error {
	hash, err := tools.HashPassword(raw)
	if err != nil {
		return err
	}
	u.Password = hash
	return nil
}

// FindEnabledUserByIdentifier resolve um usuário habilitado por email ou RUT.
// O identificador com '@' é tratado como email; qualquer outro, como RUT
// (normalizado antes da busca). Contas desabilitadas contam como inexistentes.
func FindEnabledUserByIdentifier(db *gorm.DB, identifier string) (User, error) {
	var user User
	query := db.Where("estado = ?", USER_ESTADO_ENABLED)
	if tools.LooksLikeEmail(identifier) {
		query = query.Where("email = ?", identifier)
	} else {
		query = query.Where("rut = ?", tools.NormalizeRut(identifier))
	}
	if err := query.First(&user).Error; err != nil {
		if gorm.IsRecordNotFoundError(err) {
			return User{}, ErrUserNotFound
		}
		return User{}, err
	}
	return user, nil
}
