package tools

import (
	"fmt"
	"regexp"
	"strings"
)

var (
	emailRegex     = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)
	rutDottedRegex = regexp.MustCompile(`^\d{1,2}\.\d{3}\.\d{3}-[\dkK]$`)
	rutPlainRegex  = regexp.MustCompile(`^\d{7,8}[\dkK]$`)
	letterRegex    = regexp.MustCompile(`[A-Za-z]`)
	digitRegex     = regexp.MustCompile(`\d`)
)

// LooksLikeEmail decide como interpretar um identificador email-ou-RUT.
func LooksLikeEmail(identifier string) bool {
	return strings.Contains(identifier, "@")
}

func ValidateEmail(email string) bool {
	return emailRegex.MatchString(email)
}

// ValidateRutFormat aceita RUT pontuado (12.345.678-9) ou plano (123456789).
func ValidateRutFormat(rut string) bool {
	rut = strings.TrimSpace(rut)
	return rutDottedRegex.MatchString(rut) || rutPlainRegex.MatchString(rut)
}

// NormalizeRut remove pontos e hífen e sobe o dígito verificador K,
// para que a busca no banco seja sempre pela forma canônica.
func NormalizeRut(rut string) string {
	rut = strings.TrimSpace(rut)
	rut = strings.ReplaceAll(rut, ".", "")
	rut = strings.ReplaceAll(rut, "-", "")
	return strings.ToUpper(rut)
}

// ValidateIdentifier aceita email ou RUT em qualquer das formas válidas.
func ValidateIdentifier(identifier string) bool {
	identifier = strings.TrimSpace(identifier)
	if LooksLikeEmail(identifier) {
		return ValidateEmail(identifier)
	}
	return ValidateRutFormat(identifier)
}

// CheckPasswordPolicy devolve a mensagem de violação ou "" quando a senha
// passa: tamanho mínimo, ao menos uma letra e ao menos um número.
func CheckPasswordPolicy(password string, minLen int) string {
	if len(password) < minLen {
		return fmt.Sprintf("La contraseña debe tener al menos %d caracteres.", minLen)
	}
	if !letterRegex.MatchString(password) {
		return "La contraseña debe contener al menos una letra."
	}
	if !digitRegex.MatchString(password) {
		return "La contraseña debe contener al menos un número."
	}
	return ""
}
