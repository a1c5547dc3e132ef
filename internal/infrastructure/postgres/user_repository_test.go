package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/stockit-api/internal/domain"
	"github.com/jhoicas/stockit-api/internal/domain/entity"
)

// execErrQuerier devuelve siempre el mismo error en Exec.
type execErrQuerier struct{ err error }

func (q execErrQuerier) Exec(context.Context, string, ...any) (pgconn.CommandTag, error) {
	return pgconn.CommandTag{}, q.err
}

func (q execErrQuerier) Query(context.Context, string, ...any) (pgx.Rows, error) { return nil, q.err }

func (q execErrQuerier) QueryRow(context.Context, string, ...any) pgx.Row { return nil }

func TestUserRepo_Create_MapeaViolacionesUnicas(t *testing.T) {
	u := &entity.User{ID: "u1", Name: "ana", Email: "ana@x.cl", CreatedAt: time.Now(), UpdatedAt: time.Now()}

	byName := NewUserRepository(execErrQuerier{&pgconn.PgError{Code: "23505", ConstraintName: userNameIndex}})
	err := byName.Create(context.Background(), u)
	assert.ErrorIs(t, err, domain.ErrConflict, "nombre repetido")
	assert.NotErrorIs(t, err, domain.ErrEmailAlreadyExists)

	byEmail := NewUserRepository(execErrQuerier{&pgconn.PgError{Code: "23505", ConstraintName: "users_correo_key"}})
	assert.ErrorIs(t, byEmail.Create(context.Background(), u), domain.ErrEmailAlreadyExists)
}
