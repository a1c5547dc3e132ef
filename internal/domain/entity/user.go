package entity

import "time"

// User representa una cuenta. Name es el nombre visible y actúa como dueño del stock y de los usos.
type User struct {
	ID             string
	Name           string
	Email          string
	PasswordHash   string // bcrypt hash, nunca plano en dominio después de persistir
	ResetTokenHash *string
	ResetExpiresAt *time.Time
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// HasLiveResetToken indica si hay una recuperación de contraseña en curso.
func (u *User) HasLiveResetToken(now time.Time) bool {
	return u.ResetTokenHash != nil && u.ResetExpiresAt != nil && u.ResetExpiresAt.After(now)
}
