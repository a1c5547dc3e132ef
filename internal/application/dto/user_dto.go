package dto

import "time"

// RegisterRequest entrada para registro (auth).
type RegisterRequest struct {
	Name     string `json:"nombre"`
	Email    string `json:"correo"`
	Password string `json:"password"`
}

// UserResponse salida de un usuario (sin password).
type UserResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"nombre"`
	Email     string    `json:"correo"`
	CreatedAt time.Time `json:"fechaCreacion"`
}

// RegisterResponse salida del registro.
type RegisterResponse struct {
	Message string       `json:"mensaje"`
	User    UserResponse `json:"usuario"`
}

// LoginRequest entrada para login.
type LoginRequest struct {
	Email    string `json:"correo"`
	Password string `json:"password"`
}

// LoginResponse salida con token JWT.
type LoginResponse struct {
	Token string       `json:"token"`
	User  UserResponse `json:"usuario"`
}

// ForgotPasswordRequest inicia la recuperación de contraseña.
type ForgotPasswordRequest struct {
	Email string `json:"correo"`
}

// ForgotPasswordResponse siempre el mismo mensaje; ResetToken solo en development.
type ForgotPasswordResponse struct {
	Message    string `json:"mensaje"`
	ResetToken string `json:"resetToken,omitempty"`
}

// ResetPasswordRequest completa la recuperación.
type ResetPasswordRequest struct {
	Token    string `json:"token"`
	Password string `json:"password"`
}

// GreetingResponse saludo de la ruta protegida.
type GreetingResponse struct {
	Message string `json:"mensaje"`
}
