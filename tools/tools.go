package tools

import (
	"crypto/rand"
	"math/big"
)

const numbers = "0123456789"
const charset = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// RandomToken gera uma string alfanumérica de origem criptográfica,
// usada como valor opaco de bearer token.
func RandomToken(length int) (string, error) {
	return randomFrom(charset, length)
}

// RandomDigits gera uma sequência numérica com cada dígito sorteado
// independentemente de fonte criptográfica (códigos de recuperação).
func RandomDigits(length int) (string, error) {
	return randomFrom(numbers, length)
}

func randomFrom(alphabet string, length int) (string, error) {
	b := make([]byte, length)
	max := big.NewInt(int64(len(alphabet)))
	for i := range b {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		b[i] = alphabet[n.Int64()]
	}
	return string(b), nil
}

// TokenPrefix devolve um prefixo curto para log. O valor inteiro de um
// token nunca aparece em log.
func TokenPrefix(token string) string {
	if len(token) <= 10 {
		return token
	}
	return token[:10] + "..."
}
