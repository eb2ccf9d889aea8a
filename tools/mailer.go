package tools

import (
	"context"
	"fmt"
	"log"
	"net/smtp"
)

// Mailer entrega o código de recuperação fora de banda. Se a entrega
// falhar, o chamador deve desfazer o código recém-criado.
type Mailer interface {
	SendRecoveryCode(ctx context.Context, to, name, code string) error
}

// SMTPMailer envia o email de recuperação por SMTP simples.
type SMTPMailer struct {
	Host string
	Port string
	User string
	Pass string
	From string
}

func (m SMTPMailer) SendRecoveryCode(ctx context.Context, to, name, code string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	subject := "Código de Recuperación de Contraseña - InfraCheck"
	body := fmt.Sprintf(
		"Hola %s,\r\n\r\n"+
			"Has solicitado restablecer tu contraseña. Tu código de verificación es:\r\n\r\n"+
			"%s\r\n\r\n"+
			"Este código expira en 10 minutos.\r\n\r\n"+
			"Si no solicitaste este cambio, puedes ignorar este mensaje.\r\n\r\n"+
			"Saludos,\r\nEquipo InfraCheck",
		name, code,
	)
	msg := []byte(
		"From: " + m.From + "\r\n" +
			"To: " + to + "\r\n" +
			"Subject: " + subject + "\r\n" +
			"Content-Type: text/plain; charset=utf-8\r\n" +
			"\r\n" + body,
	)

	var auth smtp.Auth
	if m.User != "" {
		auth = smtp.PlainAuth("", m.User, m.Pass, m.Host)
	}
	return smtp.SendMail(m.Host+":"+m.Port, auth, m.From, []string{to}, msg)
}

// LogMailer só registra o envio (dev e testes). O código em si não vai
// pro log, pelo mesmo motivo que tokens não vão.
type LogMailer struct{}

func (LogMailer) SendRecoveryCode(ctx context.Context, to, name, code string) error {
	log.Printf("mailer(dev): código de recuperação gerado para %s", to)
	return nil
}
