package entity

import (
	"strings"
	"time"
)

// Roles válidos para User.
const (
	RoleAdmin    = "admin"
	RoleConsulta = "consulta"
)

// User representa un usuario del sistema de control de medicamentos.
// Username se almacena siempre en minúsculas; la unicidad es case-insensitive.
type User struct {
	ID           string
	Username     string
	PasswordHash string // bcrypt hash, nunca plano en dominio después de persistir
	Email        string // opcional; si hay dominio corporativo configurado debe terminar en él
	Role         string // admin, consulta
	CreatedAt    time.Time
}

// NormalizeUsername aplica la normalización canónica de usuario: trim + minúsculas.
func NormalizeUsername(username string) string {
	return strings.ToLower(strings.TrimSpace(username))
}
