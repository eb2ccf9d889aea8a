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

// Corpo genérico de RequestPasswordReset. Tem que ser byte a byte idêntico
// exista ou não a conta: vazar existência de identificador é defeito de
// segurança, não de UX.
const resetGenericMessage = "Si el usuario existe, se enviará un código a su email."

// Corpo genérico de VerifyResetCode, idêntico para usuário errado, código
// errado e código expirado.
const codeInvalidMessage = "Código inválido o expirado"

// POST /api/v1/request-password-reset (public)
// Body: { "identifier": "email ou RUT" }
// Resolve um usuário habilitado, emite um código de 6 dígitos e tenta a
// entrega por email. Resposta sempre 200 com o mesmo corpo, exceto falha
// de entrega (500, com o código desfeito).
func RequestPasswordReset(c *gin.Context) {
	type Request struct {
		Identifier string `json:"identifier" form:"identifier"`
	}

	genericOK := func() {
		RespondSuccess(c, gin.H{"message": resetGenericMessage, "success": true})
	}

	var req Request
	if err := c.Bind(&req); err != nil {
		genericOK()
		return
	}
	req.Identifier = strings.TrimSpace(req.Identifier)
	if !tools.ValidateIdentifier(req.Identifier) {
		genericOK()
		return
	}

	db := dbpkg.DBInstance(c)
	if db == nil {
		RespondError(c, "Error interno del servidor. Intente nuevamente.", http.StatusInternalServerError)
		return
	}

	user, err := models.FindEnabledUserByIdentifier(db, req.Identifier)
	if err != nil {
		if errors.Is(err, models.ErrUserNotFound) {
			log.Printf("password-reset: pedido para identificador desconhecido")
			genericOK()
			return
		}
		log.Printf("password-reset: erro de store: %v", err)
		RespondError(c, "Error interno del servidor. Intente nuevamente.", http.StatusInternalServerError)
		return
	}

	record, err := models.GenerateRecoveryCode(db, user, recoveryTTL())
	if err != nil {
		log.Printf("password-reset: erro ao emitir código: %v", err)
		RespondError(c, "Error interno del servidor. Intente nuevamente.", http.StatusInternalServerError)
		return
	}

	name := user.Name
	if name == "" {
		name = user.Nickname
	}
	if err := mailer.SendRecoveryCode(c.Request.Context(), user.Email, name, record.Code); err != nil {
		log.Printf("password-reset: falha de entrega para user_id=%d: %v", user.ID, err)
		// Sem mensagem entregue não pode sobrar código válido órfão.
		if delErr := models.DeleteRecoveryCode(db, record); delErr != nil {
			log.Printf("password-reset: falha ao desfazer código: %v", delErr)
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"message": "Error enviando código. Intente nuevamente.",
			"success": false,
			"errors":  []string{"Error en el servicio de correo"},
		})
		return
	}

	log.Printf("password-reset: código enviado para user_id=%d rut=%s", user.ID, user.Rut)
	genericOK()
}

// POST /api/v1/verify-reset-code (public)
// Body: { "identifier": "...", "code": "123456" }
// A verificação é uma leitura: o código não é consumido aqui. Em caso de
// sucesso devolve o reset_token derivado para o passo final.
func VerifyResetCode(c *gin.Context) {
	type Request struct {
		Identifier string `json:"identifier" form:"identifier"`
		Code       string `json:"code" form:"code"`
	}

	genericFail := func() {
		c.JSON(http.StatusUnauthorized, gin.H{
			"message": codeInvalidMessage,
			"success": false,
			"errors":  []string{codeInvalidMessage},
		})
	}

	var req Request
	if err := c.Bind(&req); err != nil {
		genericFail()
		return
	}
	req.Identifier = strings.TrimSpace(req.Identifier)
	req.Code = strings.TrimSpace(req.Code)
	if !tools.ValidateIdentifier(req.Identifier) || len(req.Code) != models.RECOVERY_CODE_LENGTH {
		genericFail()
		return
	}

	db := dbpkg.DBInstance(c)
	if db == nil {
		RespondError(c, "Error interno del servidor. Intente nuevamente.", http.StatusInternalServerError)
		return
	}

	user, err := models.FindEnabledUserByIdentifier(db, req.Identifier)
	if err != nil {
		if errors.Is(err, models.ErrUserNotFound) {
			genericFail()
			return
		}
		RespondError(c, "Error interno del servidor. Intente nuevamente.", http.StatusInternalServerError)
		return
	}

	record, err := models.VerifyRecoveryCode(db, user, req.Code)
	if err != nil {
		if errors.Is(err, models.ErrCodeInvalid) {
			log.Printf("verify-reset-code: código inválido para user_id=%d", user.ID)
			genericFail()
			return
		}
		RespondError(c, "Error interno del servidor. Intente nuevamente.", http.StatusInternalServerError)
		return
	}

	log.Printf("verify-reset-code: código verificado para user_id=%d", user.ID)
	RespondSuccess(c, gin.H{
		"message":     "Código válido",
		"success":     true,
		"reset_token": record.DeriveResetToken(),
	})
}

// POST /api/v1/reset-password (public)
// Body: { "reset_token": "...", "new_password": "...", "confirm_password": "..." }
// Acha o registro vivo cuja derivação casa com o token, troca a senha,
// consome o código, revoga todas as sessões e apaga os códigos do usuário,
// tudo numa transação única.
func ResetPassword(c *gin.Context) {
	type Request struct {
		ResetToken      string `json:"reset_token" form:"reset_token"`
		NewPassword     string `json:"new_password" form:"new_password"`
		ConfirmPassword string `json:"confirm_password" form:"confirm_password"`
	}

	var req Request
	if err := c.Bind(&req); err != nil {
		RespondError(c, err.Error(), http.StatusBadRequest)
		return
	}
	req.ResetToken = strings.TrimSpace(req.ResetToken)
	if req.ResetToken == "" {
		RespondError(c, "reset_token es obligatorio", http.StatusBadRequest)
		return
	}
	if req.NewPassword != req.ConfirmPassword {
		RespondError(c, "Las contraseñas no coinciden.", http.StatusBadRequest)
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

	record, err := models.FindRecoveryCodeByResetToken(db, req.ResetToken)
	if err != nil {
		if errors.Is(err, models.ErrResetTokenInvalid) {
			log.Printf("reset-password: token inválido: %s", tools.TokenPrefix(req.ResetToken))
			c.JSON(http.StatusUnauthorized, gin.H{
				"message": "Token inválido o expirado",
				"success": false,
				"errors":  []string{"Token inválido"},
			})
			return
		}
		RespondError(c, "Error interno del servidor. Intente nuevamente.", http.StatusInternalServerError)
		return
	}

	var user models.User
	if err := db.First(&user, record.UserID).Error; err != nil {
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
	if err := models.ConsumeRecoveryCode(tx, record); err != nil {
		tx.Rollback()
		RespondError(c, "Error interno del servidor. Intente nuevamente.", http.StatusInternalServerError)
		return
	}
	// Senha trocada invalida toda sessão viva do usuário.
	if err := models.RevokeUserSessionTokens(tx, user.ID); err != nil {
		tx.Rollback()
		RespondError(c, "Error interno del servidor. Intente nuevamente.", http.StatusInternalServerError)
		return
	}
	if err := models.DeleteUserRecoveryCodes(tx, user.ID); err != nil {
		tx.Rollback()
		RespondError(c, "Error interno del servidor. Intente nuevamente.", http.StatusInternalServerError)
		return
	}

	if err := tx.Commit().Error; err != nil {
		tx.Rollback()
		RespondError(c, "Error interno del servidor. Intente nuevamente.", http.StatusInternalServerError)
		return
	}

	log.Printf("reset-password: contraseña actualizada para user_id=%d", user.ID)
	RespondSuccess(c, gin.H{
		"message": "Contraseña actualizada exitosamente",
		"success": true,
	})
}
