package controllers

import (
	"errors"
	"log"
	"net/http"
	"strings"
	"time"

	dbpkg "infracheck/db"
	"infracheck/models"
	"infracheck/tools"

	"github.com/gin-gonic/gin"
	"github.com/jinzhu/gorm"
)

type LoginRequest struct {
	Rut      string `json:"rut" form:"rut"`
	Password string `json:"password" form:"password"`
}

// Login autentica por RUT+senha e emite um token de sessão novo.
// Política de sessão: login apaga TODOS os tokens anteriores do usuário
// (deleção completa, não só desativação).
func Login(c *gin.Context) {
	var req LoginRequest
	if err := c.Bind(&req); err != nil {
		RespondError(c, err.Error(), http.StatusBadRequest)
		return
	}
	if req.Rut == "" || req.Password == "" {
		RespondError(c, "rut y password son obligatorios", http.StatusBadRequest)
		return
	}

	db := dbpkg.DBInstance(c)
	if db == nil {
		RespondError(c, "Error interno del servidor. Intente nuevamente.", http.StatusInternalServerError)
		return
	}

	var user models.User
	err := db.Preload("Role").
		Where("rut = ? AND estado = ?", tools.NormalizeRut(req.Rut), models.USER_ESTADO_ENABLED).
		First(&user).Error
	if err != nil {
		if !gorm.IsRecordNotFoundError(err) {
			RespondError(c, "Error interno del servidor. Intente nuevamente.", http.StatusInternalServerError)
			return
		}
		RespondError(c, "Usuario o contraseña inválidos.", http.StatusUnauthorized)
		return
	}

	if !user.CheckPassword(req.Password) {
		log.Printf("login: contraseña incorrecta para rut=%s", user.Rut)
		RespondError(c, "Usuario o contraseña inválidos.", http.StatusUnauthorized)
		return
	}

	if err := models.RevokeUserSessionTokens(db, user.ID); err != nil {
		RespondError(c, "Error interno del servidor. Intente nuevamente.", http.StatusInternalServerError)
		return
	}

	token, err := models.GenerateSessionToken(db, user, sessionTTL())
	if err != nil {
		log.Printf("login: erro ao emitir token: %v", err)
		RespondError(c, "Error interno del servidor. Intente nuevamente.", http.StatusInternalServerError)
		return
	}

	log.Printf("login ok: user_id=%d nickname=%s token=%s", user.ID, user.Nickname, tools.TokenPrefix(token.Token))

	RespondSuccess(c, gin.H{
		"token":      token.Token,
		"expires_at": token.ExpiresAt.Format(time.RFC3339),
		"user_id":    user.ID,
		"username":   user.Nickname,
		"rut":        user.Rut,
	})
}

type tokenRequest struct {
	Token string `json:"token" form:"token"`
}

// extractToken pega o token do header Authorization e, na falta dele, do
// campo "token" do body (compatibilidade legada de verify/refresh/logout).
func extractToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	if strings.HasPrefix(strings.ToLower(header), "bearer ") {
		return strings.TrimSpace(header[len("Bearer "):])
	}
	var req tokenRequest
	if err := c.ShouldBind(&req); err == nil {
		return strings.TrimSpace(req.Token)
	}
	return ""
}

// VerifyToken responde se um token segue válido, com os dados do dono.
func VerifyToken(c *gin.Context) {
	tokenValue := extractToken(c)
	if tokenValue == "" {
		c.JSON(http.StatusUnauthorized, gin.H{
			"valid":  false,
			"errors": []string{"Token no proporcionado. Use header Authorization: Bearer <token> o campo token en el body."},
		})
		return
	}

	db := dbpkg.DBInstance(c)
	if db == nil {
		RespondError(c, "Error interno del servidor. Intente nuevamente.", http.StatusInternalServerError)
		return
	}

	user, token, err := models.FindValidSessionToken(db, tokenValue)
	switch {
	case errors.Is(err, models.ErrTokenExpired):
		log.Printf("verify-token: token expirado removido: %s", tools.TokenPrefix(tokenValue))
		c.JSON(http.StatusUnauthorized, gin.H{"valid": false, "errors": []string{"Token expirado."}})
		return
	case errors.Is(err, models.ErrTokenNotFound):
		c.JSON(http.StatusUnauthorized, gin.H{"valid": false, "errors": []string{"Token inválido o no encontrado."}})
		return
	case err != nil:
		log.Printf("verify-token: erro de store: %v", err)
		RespondError(c, "Error interno del servidor. Intente nuevamente.", http.StatusInternalServerError)
		return
	}

	RespondSuccess(c, gin.H{
		"valid":      true,
		"user_id":    user.ID,
		"username":   user.Nickname,
		"email":      user.Email,
		"expires_at": token.ExpiresAt.Format(time.RFC3339),
		"role_id":    user.RoleID,
		"role_name":  user.Role.Name,
	})
}

// Refresh troca um token válido por um novo (rotação): o atual é
// desativado e um novo é emitido para o mesmo usuário, atomicamente.
func Refresh(c *gin.Context) {
	tokenValue := extractToken(c)
	if tokenValue == "" {
		RespondError(c, "Token no proporcionado. Use header Authorization: Bearer <token> o campo token en el body.", http.StatusUnauthorized)
		return
	}

	db := dbpkg.DBInstance(c)
	if db == nil {
		RespondError(c, "Error interno del servidor. Intente nuevamente.", http.StatusInternalServerError)
		return
	}

	user, current, err := models.FindValidSessionToken(db, tokenValue)
	switch {
	case errors.Is(err, models.ErrTokenExpired):
		RespondError(c, "Token expirado. Inicie sesión nuevamente.", http.StatusUnauthorized)
		return
	case errors.Is(err, models.ErrTokenNotFound):
		RespondError(c, "Token inválido o no encontrado.", http.StatusUnauthorized)
		return
	case err != nil:
		log.Printf("refresh: erro de store: %v", err)
		RespondError(c, "Error interno del servidor. Intente nuevamente.", http.StatusInternalServerError)
		return
	}

	fresh, err := models.RotateSessionToken(db, current, sessionTTL())
	if err != nil {
		if errors.Is(err, models.ErrTokenNotFound) {
			// Outro request rotacionou o mesmo token primeiro.
			RespondError(c, "Token inválido o no encontrado.", http.StatusUnauthorized)
			return
		}
		log.Printf("refresh: erro ao rotacionar: %v", err)
		RespondError(c, "Error interno del servidor. Intente nuevamente.", http.StatusInternalServerError)
		return
	}

	log.Printf("refresh ok: user_id=%d antigo=%s novo=%s",
		user.ID, tools.TokenPrefix(tokenValue), tools.TokenPrefix(fresh.Token))

	RespondSuccess(c, gin.H{
		"token":      fresh.Token,
		"expires_at": fresh.ExpiresAt.Format(time.RFC3339),
		"user_id":    user.ID,
		"username":   user.Nickname,
		"email":      user.Email,
		"role_id":    user.RoleID,
		"role_name":  user.Role.Name,
	})
}

// Logout apaga fisicamente o token de sessão apresentado.
func Logout(c *gin.Context) {
	tokenValue := extractToken(c)
	if tokenValue == "" {
		RespondError(c, "Token no proporcionado. Use header Authorization: Bearer <token> o campo token en el body.", http.StatusBadRequest)
		return
	}

	db := dbpkg.DBInstance(c)
	if db == nil {
		RespondError(c, "Error interno del servidor. Intente nuevamente.", http.StatusInternalServerError)
		return
	}

	var token models.SessionToken
	err := db.Where("token = ? AND active = ?", tokenValue, true).First(&token).Error
	if err != nil {
		if gorm.IsRecordNotFoundError(err) {
			log.Printf("logout: token inválido: %s", tools.TokenPrefix(tokenValue))
			RespondError(c, "Token inválido o ya expirado.", http.StatusUnauthorized)
			return
		}
		RespondError(c, "Error interno del servidor. Intente nuevamente.", http.StatusInternalServerError)
		return
	}

	if err := models.DeleteSessionToken(db, token); err != nil {
		RespondError(c, "Error interno del servidor. Intente nuevamente.", http.StatusInternalServerError)
		return
	}

	log.Printf("logout ok: user_id=%d token=%s", token.UserID, tools.TokenPrefix(tokenValue))
	RespondSuccess(c, gin.H{"message": "Sesión cerrada exitosamente"})
}
