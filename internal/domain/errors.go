package domain

import "errors"

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound        = errors.New("recurso no encontrado")
	ErrUserNotFound    = errors.New("usuario no encontrado")
	ErrDuplicateUser   = errors.New("el usuario ya existe")
	ErrValidation      = errors.New("entrada inválida")
	ErrUnauthorized    = errors.New("credenciales inválidas")
	ErrForbidden       = errors.New("acceso denegado")
	ErrInvalidEmail    = errors.New("correo fuera del dominio corporativo")
	ErrInvalidStatus   = errors.New("estado de medicamento inválido")
	ErrSoporteNotFound = errors.New("soporte no encontrado")
	ErrInvalidSoporte  = errors.New("tipo de archivo de soporte no permitido")
)
