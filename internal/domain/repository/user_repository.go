package repository

import (
	"context"
	"time"

	"github.com/jhoicas/stockit-api/internal/domain/entity"
)

// UserRepository define el puerto de persistencia para User (DIP).
// Los métodos Find* devuelven (nil, nil) cuando no hay coincidencia.
type UserRepository interface {
	Create(ctx context.Context, user *entity.User) error
	FindByID(ctx context.Context, id string) (*entity.User, error)
	FindByEmail(ctx context.Context, email string) (*entity.User, error)
	FindByName(ctx context.Context, name string) (*entity.User, error)
	// FindByResetToken busca el usuario con ese hash de token aún vigente en now.
	FindByResetToken(ctx context.Context, tokenHash string, now time.Time) (*entity.User, error)
	SetResetToken(ctx context.Context, userID, tokenHash string, expiresAt time.Time) error
	// ResetPassword reemplaza el hash y limpia los campos de recuperación.
	ResetPassword(ctx context.Context, userID, passwordHash string) error
	// ClearExpiredResetTokens limpia tokens vencidos y devuelve cuántos usuarios se tocaron.
	ClearExpiredResetTokens(ctx context.Context, now time.Time) (int64, error)
	List(ctx context.Context) ([]*entity.User, error)
	ListActive(ctx context.Context, now time.Time) ([]*entity.User, error)
	Search(ctx context.Context, term string, limit int) ([]*entity.User, error)
}
