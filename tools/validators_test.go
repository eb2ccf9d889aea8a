package tools

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateEmail(t *testing.T) {
	assert.True(t, ValidateEmail("ana@test.cl"))
	assert.True(t, ValidateEmail("ana.perez+tag@sub.test.cl"))
	assert.False(t, ValidateEmail("ana@test"))
	assert.False(t, ValidateEmail("@test.cl"))
	assert.False(t, ValidateEmail(""))
}

func TestValidateRutFormat(t *testing.T) {
	assert.True(t, ValidateRutFormat("12.345.678-9"))
	assert.True(t, ValidateRutFormat("12.345.678-K"))
	assert.True(t, ValidateRutFormat("12345678K"))
	assert.True(t, ValidateRutFormat("1234567k"))
	assert.False(t, ValidateRutFormat("12345678-9"))
	assert.False(t, ValidateRutFormat("abc"))
	assert.False(t, ValidateRutFormat(""))
}

func TestNormalizeRut(t *testing.T) {
	assert.Equal(t, "123456789", NormalizeRut("12.345.678-9"))
	assert.Equal(t, "12345678K", NormalizeRut("12.345.678-k"))
	assert.Equal(t, "12345678K", NormalizeRut(" 12345678K "))
}

func TestValidateIdentifier(t *testing.T) {
	assert.True(t, ValidateIdentifier("ana@test.cl"))
	assert.True(t, ValidateIdentifier("12.345.678-9"))
	assert.False(t, ValidateIdentifier("ana@test"))
	assert.False(t, ValidateIdentifier("no-es-rut"))
}

func TestCheckPasswordPolicy(t *testing.T) {
	assert.Empty(t, CheckPasswordPolicy("Abcd1234", 8))
	assert.NotEmpty(t, CheckPasswordPolicy("Abc123", 8))   // curta
	assert.NotEmpty(t, CheckPasswordPolicy("12345678", 8)) // sem letra
	assert.NotEmpty(t, CheckPasswordPolicy("abcdefgh", 8)) // sem número
}
