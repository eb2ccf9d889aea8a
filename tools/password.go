package tools

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/crypto/pbkdf2"
)

// Formato compatível com o hasher pbkdf2_sha256 do backend legado:
// pbkdf2_sha256$<iterações>$<salt>$<hash base64>
const (
	passwordAlgorithm  = "pbkdf2_sha256"
	passwordIterations = 390000
	passwordSaltLen    = 16
	passwordKeyLen     = 32
)

// HashPassword codifica a senha com PBKDF2-SHA256 e salt aleatório.
func HashPassword(raw string) (string, error) {
	salt, err := RandomToken(passwordSaltLen)
	if err != nil {
		return "", err
	}
	key := pbkdf2.Key([]byte(raw), []byte(salt), passwordIterations, passwordKeyLen, sha256.New)
	return fmt.Sprintf("%s$%d$%s$%s",
		passwordAlgorithm,
		passwordIterations,
		salt,
		base64.StdEncoding.EncodeToString(key),
	), nil
}

// VerifyPassword compara a senha em texto puro com um hash codificado.
// Comparação em tempo constante; qualquer hash malformado conta como falha.
func VerifyPassword(raw, encoded string) bool {
	parts := strings.Split(encoded, "$")
	if len(parts) != 4 || parts[0] != passwordAlgorithm {
		return false
	}
	iterations, err := strconv.Atoi(parts[1])
	if err != nil || iterations <= 0 {
		return false
	}
	expected, err := base64.StdEncoding.DecodeString(parts[3])
	if err != nil {
		return false
	}
	key := pbkdf2.Key([]byte(raw), []byte(parts[2]), iterations, len(expected), sha256.New)
	return subtle.ConstantTimeCompare(key, expected) == 1
}
