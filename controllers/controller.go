package controllers

import (
	"time"

	"infracheck/config"
	"infracheck/tools"

	"github.com/gin-gonic/gin"
)

var conf = config.WithDefaults(config.Configuration{})
var mailer tools.Mailer = tools.LogMailer{}

func SetConfigurations(configuration config.Configuration) {
	conf = config.WithDefaults(configuration)
}

func SetMailer(m tools.Mailer) {
	mailer = m
}

func sessionTTL() time.Duration {
	return time.Duration(conf.Security.SessionTokenHours) * time.Hour
}

func recoveryTTL() time.Duration {
	return time.Duration(conf.Security.RecoveryCodeMins) * time.Minute
}

// RespondError segue o formato de erro da API: {"errors": ["..."]}.
// Mensagens são genéricas de propósito; detalhe interno fica só no log.
func RespondError(c *gin.Context, msg string, code int) {
	c.JSON(code, gin.H{"errors": []string{msg}})
}

func RespondSuccess(c *gin.Context, payload any) {
	c.JSON(200, payload)
}
