package controllers

import (
	"errors"
	"log"
	"net/http"
	"strings"

	dbpkg "infracheck/db"
	"infracheck/models"
	"infracheck/tools"

	"github.com/gin-gonic/gin"
)

const ctxUserKey = "auth_user"
const ctxTokenKey = "auth_token"

// AuthRequired é o gate de autenticação. Roda exatamente uma vez por
// request, antes de qualquer handler:
//
//	sem token + rota pública    -> segue não autenticado
//	sem token + rota protegida  -> 401
//	token inválido ou expirado  -> 401 (expirado é removido na busca)
//	token ok + conta desativada -> 403, mesmo em rota pública
//	token ok                    -> usuário e token anexados ao contexto
//
// O gate só aceita token no header Authorization: Bearer <token>; o
// fallback de token no body é exclusivo dos endpoints legados de
// verify/refresh/logout, que estão na lista pública.
func AuthRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		public := isPublicRoute(c.Request.URL.Path)

		header := c.GetHeader("Authorization")
		if !strings.HasPrefix(strings.ToLower(header), "bearer ") {
			if public {
				c.Next()
				return
			}
			RespondError(c, "Token de autorización requerido. Use: Authorization: Bearer <token>", http.StatusUnauthorized)
			c.Abort()
			return
		}
		tokenValue := strings.TrimSpace(header[len("Bearer "):])

		db := dbpkg.DBInstance(c)
		if db == nil {
			RespondError(c, "Error interno del servidor. Intente nuevamente.", http.StatusInternalServerError)
			c.Abort()
			return
		}

		user, token, err := models.FindValidSessionToken(db, tokenValue)
		switch {
		case errors.Is(err, models.ErrTokenExpired):
			log.Printf("auth: token expirado removido: %s", tools.TokenPrefix(tokenValue))
			RespondError(c, "Token expirado.", http.StatusUnauthorized)
			c.Abort()
			return
		case errors.Is(err, models.ErrTokenNotFound):
			log.Printf("auth: token inválido: %s", tools.TokenPrefix(tokenValue))
			RespondError(c, "Token inválido.", http.StatusUnauthorized)
			c.Abort()
			return
		case err != nil:
			log.Printf("auth: erro de store: %v", err)
			RespondError(c, "Error interno del servidor. Intente nuevamente.", http.StatusInternalServerError)
			c.Abort()
			return
		}

		// Conta soft-deletada não lê nem rota pública portando token.
		if !user.IsEnabled() {
			log.Printf("auth: conta desativada tentou autenticar: %s", user.Nickname)
			RespondError(c, "Cuenta deshabilitada. Contacta soporte para reactivar.", http.StatusForbidden)
			c.Abort()
			return
		}

		c.Set(ctxUserKey, user)
		c.Set(ctxTokenKey, token)
		c.Next()
	}
}

func isPublicRoute(path string) bool {
	for _, prefix := range conf.Security.PublicRoutes {
		if strings.HasPrefix(path, prefix) {
			return true
		}
	}
	return false
}

// GetUserLogged returns the principal attached by AuthRequired.
func GetUserLogged(c *gin.Context) (models.User, bool) {
	v, ok := c.Get(ctxUserKey)
	if !ok {
		return models.User{}, false
	}
	user, ok := v.(models.User)
	return user, ok
}

// GetSessionToken returns the session token attached by AuthRequired.
func GetSessionToken(c *gin.Context) (models.SessionToken, bool) {
	v, ok := c.Get(ctxTokenKey)
	if !ok {
		return models.SessionToken{}, false
	}
	token, ok := v.(models.SessionToken)
	return token, ok
}
