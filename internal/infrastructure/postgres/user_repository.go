package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/stockit-api/internal/domain"
	"github.com/jhoicas/stockit-api/internal/domain/entity"
	"github.com/jhoicas/stockit-api/internal/domain/repository"
)

var _ repository.UserRepository = (*UserRepo)(nil)

const (
	userColumns = `id, nombre, correo, password_hash, reset_token_hash, reset_expires_at, created_at, updated_at`
	// userNameIndex índice único sobre lower(nombre).
	userNameIndex = "ux_users_nombre"
)

// UserRepo implementación del puerto UserRepository sobre PostgreSQL.
type UserRepo struct {
	q Querier
}

// NewUserRepository construye el adaptador de persistencia para usuarios.
func NewUserRepository(q Querier) *UserRepo {
	return &UserRepo{q: q}
}

func scanUser(row pgx.Row) (*entity.User, error) {
	var u entity.User
	err := row.Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.ResetTokenHash, &u.ResetExpiresAt, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// Create persiste un nuevo usuario.
func (r *UserRepo) Create(ctx context.Context, user *entity.User) error {
	query := `
		INSERT INTO users (id, nombre, correo, password_hash, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)`
	_, err := r.q.Exec(ctx, query, user.ID, user.Name, user.Email, user.PasswordHash, user.CreatedAt, user.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			if violatedConstraint(err) == userNameIndex {
				return fmt.Errorf("%w: el nombre de usuario ya está registrado", domain.ErrConflict)
			}
			return domain.ErrEmailAlreadyExists
		}
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

func (r *UserRepo) findOne(ctx context.Context, what, where string, args ...any) (*entity.User, error) {
	u, err := scanUser(r.q.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE `+where+` LIMIT 1`, args...))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get user by %s: %w", what, err)
	}
	return u, nil
}

// FindByID obtiene un usuario por ID.
func (r *UserRepo) FindByID(ctx context.Context, id string) (*entity.User, error) {
	return r.findOne(ctx, "id", `id = $1`, id)
}

// FindByEmail obtiene un usuario por correo.
func (r *UserRepo) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	return r.findOne(ctx, "email", `correo = $1`, email)
}

// FindByName obtiene un usuario por nombre visible, sin distinguir mayúsculas.
func (r *UserRepo) FindByName(ctx context.Context, name string) (*entity.User, error) {
	return r.findOne(ctx, "name", `lower(nombre) = lower($1)`, name)
}

// FindByResetToken usuario con ese hash de token aún vigente.
func (r *UserRepo) FindByResetToken(ctx context.Context, tokenHash string, now time.Time) (*entity.User, error) {
	return r.findOne(ctx, "reset token", `reset_token_hash = $1 AND reset_expires_at > $2`, tokenHash, now)
}

// SetResetToken guarda el hash del token de recuperación y su vencimiento.
func (r *UserRepo) SetResetToken(ctx context.Context, userID, tokenHash string, expiresAt time.Time) error {
	_, err := r.q.Exec(ctx, `
		UPDATE users SET reset_token_hash = $2, reset_expires_at = $3, updated_at = now()
		WHERE id = $1`, userID, tokenHash, expiresAt)
	if err != nil {
		return fmt.Errorf("set reset token: %w", err)
	}
	return nil
}

// ResetPassword reemplaza el hash y limpia la recuperación en curso.
func (r *UserRepo) ResetPassword(ctx context.Context, userID, passwordHash string) error {
	tag, err := r.q.Exec(ctx, `
		UPDATE users SET password_hash = $2, reset_token_hash = NULL, reset_expires_at = NULL, updated_at = now()
		WHERE id = $1`, userID, passwordHash)
	if err != nil {
		return fmt.Errorf("reset password: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

// ClearExpiredResetTokens limpia los tokens vencidos.
func (r *UserRepo) ClearExpiredResetTokens(ctx context.Context, now time.Time) (int64, error) {
	tag, err := r.q.Exec(ctx, `
		UPDATE users SET reset_token_hash = NULL, reset_expires_at = NULL, updated_at = now()
		WHERE reset_expires_at IS NOT NULL AND reset_expires_at <= $1`, now)
	if err != nil {
		return 0, fmt.Errorf("clear expired reset tokens: %w", err)
	}
	return tag.RowsAffected(), nil
}

func (r *UserRepo) list(ctx context.Context, what, query string, args ...any) ([]*entity.User, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", what, err)
	}
	defer rows.Close()
	out := make([]*entity.User, 0)
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		out = append(out, u)
	}
	return out, rows.Err()
}

// List todos los usuarios por nombre.
func (r *UserRepo) List(ctx context.Context) ([]*entity.User, error) {
	return r.list(ctx, "list users", `SELECT `+userColumns+` FROM users ORDER BY nombre`)
}

// ListActive usuarios sin recuperación vigente.
func (r *UserRepo) ListActive(ctx context.Context, now time.Time) ([]*entity.User, error) {
	return r.list(ctx, "list active users", `
		SELECT `+userColumns+` FROM users
		WHERE reset_expires_at IS NULL OR reset_expires_at < $1
		ORDER BY nombre`, now)
}

// Search por nombre sin distinguir mayúsculas.
func (r *UserRepo) Search(ctx context.Context, term string, limit int) ([]*entity.User, error) {
	return r.list(ctx, "search users", `
		SELECT `+userColumns+` FROM users
		WHERE nombre ILIKE '%' || $1 || '%'
		ORDER BY nombre LIMIT $2`, escapeLike(term), limit)
}
