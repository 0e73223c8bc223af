package dto

import "time"

// RegisterRequest entrada para registro: usuario y contraseña, email y rol opcionales.
type RegisterRequest struct {
	Username string `json:"usuario" validate:"required,min=1,max=100"`
	Password string `json:"contrasena" validate:"required,min=4"`
	Email    string `json:"correo" validate:"omitempty,email"`
	Role     string `json:"rol" validate:"omitempty,oneof=admin consulta"`
}

// LoginRequest entrada para login.
type LoginRequest struct {
	Username string `json:"usuario" validate:"required"`
	Password string `json:"contrasena" validate:"required"`
}

// UserResponse salida de un usuario (sin contraseña).
type UserResponse struct {
	ID        string    `json:"id"`
	Username  string    `json:"usuario"`
	Email     string    `json:"correo,omitempty"`
	Role      string    `json:"rol"`
	CreatedAt time.Time `json:"creado_en"`
}

// LoginResponse salida con token JWT y el usuario autenticado.
type LoginResponse struct {
	Token string       `json:"token"`
	User  UserResponse `json:"usuario"`
}
