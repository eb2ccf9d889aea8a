package controllers

import (
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	dbpkg "infracheck/db"
	"infracheck/models"
	"infracheck/tools"

	"github.com/gin-gonic/gin"
)

type RegisterRequest struct {
	Rut             string `json:"rut" form:"rut"`
	Name            string `json:"name" form:"name"`
	LastName        string `json:"last_name" form:"last_name"`
	Username        string `json:"username" form:"username"`
	Email           string `json:"email" form:"email"`
	Phone           string `json:"phone" form:"phone"`
	Password        string `json:"password" form:"password"`
	ConfirmPassword string `json:"confirmPassword" form:"confirmPassword"`
}

// POST /api/v1/register (public)
// Cria um usuário habilitado com o rol padrão de cidadão.
func Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.Bind(&req); err != nil {
		RespondError(c, err.Error(), http.StatusBadRequest)
		return
	}

	req.Rut = strings.TrimSpace(req.Rut)
	req.Username = strings.TrimSpace(req.Username)
	req.Email = strings.TrimSpace(req.Email)

	switch {
	case req.Rut == "" || req.Username == "" || req.Email == "" || req.Password == "":
		RespondError(c, "rut, username, email y password son obligatorios", http.StatusBadRequest)
		return
	case !tools.ValidateRutFormat(req.Rut):
		RespondError(c, "Formato de RUT inválido.", http.StatusBadRequest)
		return
	case !tools.ValidateEmail(req.Email):
		RespondError(c, "Formato de email inválido.", http.StatusBadRequest)
		return
	case req.Password != req.ConfirmPassword:
		RespondError(c, "Las contraseñas no coinciden.", http.StatusBadRequest)
		return
	}
	if msg := tools.CheckPasswordPolicy(req.Password, conf.Security.PasswordMinLen); msg != "" {
		RespondError(c, msg, http.StatusBadRequest)
		return
	}

	// Telefone chega como string do frontend ("+56 9 1234 5678").
	phone := strings.NewReplacer("+", "", " ", "", "-", "").Replace(req.Phone)
	var phoneNumber int64
	if phone != "" {
		n, err := strconv.ParseInt(phone, 10, 64)
		if err != nil {
			RespondError(c, "Formato de teléfono inválido.", http.StatusBadRequest)
			return
		}
		phoneNumber = n
	}

	db := dbpkg.DBInstance(c)
	if db == nil {
		RespondError(c, "Error interno del servidor. Intente nuevamente.", http.StatusInternalServerError)
		return
	}

	rut := tools.NormalizeRut(req.Rut)
	var count int
	if err := db.Model(&models.User{}).
		Where("rut = ? OR nickname = ?", rut, req.Username).
		Count(&count).Error; err != nil {
		RespondError(c, "Error interno del servidor. Intente nuevamente.", http.StatusInternalServerError)
		return
	}
	if count > 0 {
		RespondError(c, "RUT o nombre de usuario ya registrado.", http.StatusBadRequest)
		return
	}

	user := models.User{
		Rut:      rut,
		Name:     req.Name,
		LastName: req.LastName,
		Nickname: req.Username,
		Email:    req.Email,
		Phone:    phoneNumber,
		Estado:   models.USER_ESTADO_ENABLED,
		RoleID:   models.ROLE_CITIZEN,
	}
	if err := user.SetPassword(req.Password); err != nil {
		RespondError(c, "Error interno del servidor. Intente nuevamente.", http.StatusInternalServerError)
		return
	}

	if err := db.Create(&user).Error; err != nil {
		log.Printf("register: erro ao criar usuário: %v", err)
		RespondError(c, "Error interno del servidor. Intente nuevamente.", http.StatusInternalServerError)
		return
	}

	log.Printf("register ok: user_id=%d nickname=%s", user.ID, user.Nickname)
	c.JSON(http.StatusCreated, gin.H{
		"message": "Usuario registrado exitosamente",
		"user_id": user.ID,
	})
}

// GET /api/v1/profile (autenticado)
// Perfil do usuário logado, com o rol carregado.
func Profile(c *gin.Context) {
	user, ok := GetUserLogged(c)
	if !ok {
		RespondError(c, "Usuario no autenticado.", http.StatusUnauthorized)
		return
	}

	db := dbpkg.DBInstance(c)
	if db == nil {
		RespondError(c, "Error interno del servidor. Intente nuevamente.", http.StatusInternalServerError)
		return
	}

	// Recarrega com o rol; o gate já garantiu que o usuário existe.
	var full models.User
	if err := db.Preload("Role").First(&full, user.ID).Error; err != nil {
		RespondError(c, "Error interno del servidor. Intente nuevamente.", http.StatusInternalServerError)
		return
	}

	var createdAt string
	if full.CreatedAt != nil {
		createdAt = full.CreatedAt.Format(time.RFC3339)
	}
	RespondSuccess(c, gin.H{
		"user_id":    full.ID,
		"rut":        full.Rut,
		"name":       full.Name,
		"last_name":  full.LastName,
		"username":   full.Nickname,
		"email":      full.Email,
		"phone":      full.Phone,
		"role_id":    full.RoleID,
		"role_name":  full.Role.Name,
		"created_at": createdAt,
	})
}
