package controllers

import (
	"log"
	"net/http"

	dbpkg "infracheck/db"
	"infracheck/models"
	"infracheck/tools"

	"github.com/gin-gonic/gin"
)

// POST /api/v1/change-password (autenticado)
// Body: { "current_password": "...", "new_password": "...", "confirm_password": "..." }
// Troca a senha do usuário logado e revoga todas as sessões dele.
func ChangePassword(c *gin.Context) {
	type Request struct {
		CurrentPassword string `json:"current_password" form:"current_password"`
		NewPassword     string `json:"new_password" form:"new_password"`
		ConfirmPassword string `json:"confirm_password" form:"confirm_password"`
	}

	user, ok := GetUserLogged(c)
	if !ok {
		RespondError(c, "Usuario no autenticado.", http.StatusUnauthorized)
		return
	}

	var req Request
	if err := c.Bind(&req); err != nil {
		RespondError(c, err.Error(), http.StatusBadRequest)
		return
	}

	if !user.CheckPassword(req.CurrentPassword) {
		RespondError(c, "La contraseña actual es incorrecta.", http.StatusUnauthorized)
		return
	}
	if user.CheckPassword(req.NewPassword) {
		RespondError(c, "La nueva contraseña debe ser diferente a la actual.", http.StatusBadRequest)
		return
	}
	if req.NewPassword != req.ConfirmPassword {
		RespondError(c, "La confirmación de contraseña no coincide.", http.StatusBadRequest)
		return
	}
	if msg := tools.CheckPasswordPolicy(req.NewPassword, conf.Security.PasswordMinLen); msg != "" {
		RespondError(c, msg, http.StatusBadRequest)
		return
	}

	db := dbpkg.DBInstance(c)
	if db == nil {
		RespondError(c, "Error interno del servidor. Intente nuevamente.", http.StatusInternalServerError)
		return
	}

	if err := user.SetPassword(req.NewPassword); err != nil {
		RespondError(c, "Error interno del servidor. Intente nuevamente.", http.StatusInternalServerError)
		return
	}

	tx := db.Begin()
	if tx.Error != nil {
		RespondError(c, "Error interno del servidor. Intente nuevamente.", http.StatusInternalServerError)
		return
	}
	if err := tx.Model(&models.User{}).Where("id = ?", user.ID).Update("password", user.Password).Error; err != nil {
		tx.Rollback()
		RespondError(c, "Error interno del servidor. Intente nuevamente.", http.StatusInternalServerError)
		return
	}
	// Inclusive a sessão que fez o pedido: senha nova exige login novo.
	if err := models.RevokeUserSessionTokens(tx, user.ID); err != nil {
		tx.Rollback()
		RespondError(c, "Error interno del servidor. Intente nuevamente.", http.StatusInternalServerError)
		return
	}
	if err := tx.Commit().Error; err != nil {
		tx.Rollback()
		RespondError(c, "Error interno del servidor. Intente nuevamente.", http.StatusInternalServerError)
		return
	}

	log.Printf("change-password: contraseña cambiada para user_id=%d", user.ID)
	RespondSuccess(c, gin.H{"message": "Contraseña cambiada exitosamente"})
}
