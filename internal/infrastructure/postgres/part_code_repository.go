package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/stockit-api/internal/domain"
	"github.com/jhoicas/stockit-api/internal/domain/entity"
	"github.com/jhoicas/stockit-api/internal/domain/repository"
)

var _ repository.PartCodeRepository = (*PartCodeRepo)(nil)

// PartCodeRepo catálogo de códigos sobre PostgreSQL.
type PartCodeRepo struct {
	q Querier
}

// NewPartCodeRepository construye el adaptador.
func NewPartCodeRepository(q Querier) *PartCodeRepo {
	return &PartCodeRepo{q: q}
}

// Create inserta un código; ErrDuplicate si ya existe.
func (r *PartCodeRepo) Create(ctx context.Context, pc *entity.PartCode) error {
	_, err := r.q.Exec(ctx, `INSERT INTO part_codes (id, codigo, nombre, created_at) VALUES ($1, $2, $3, $4)`,
		pc.ID, pc.Code, pc.Name, pc.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert part code: %w", err)
	}
	return nil
}

// GetByID obtiene un código por ID.
func (r *PartCodeRepo) GetByID(ctx context.Context, id string) (*entity.PartCode, error) {
	var pc entity.PartCode
	err := r.q.QueryRow(ctx, `SELECT id, codigo, nombre, created_at FROM part_codes WHERE id = $1`, id).
		Scan(&pc.ID, &pc.Code, &pc.Name, &pc.CreatedAt)
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get part code: %w", err)
	}
	return &pc, nil
}

// Update guarda código y nombre.
func (r *PartCodeRepo) Update(ctx context.Context, pc *entity.PartCode) error {
	tag, err := r.q.Exec(ctx, `UPDATE part_codes SET codigo = $2, nombre = $3 WHERE id = $1`, pc.ID, pc.Code, pc.Name)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("update part code: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Delete elimina un código.
func (r *PartCodeRepo) Delete(ctx context.Context, id string) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM part_codes WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete part code: %w", err)
	}
	return nil
}

// List catálogo ordenado por código.
func (r *PartCodeRepo) List(ctx context.Context) ([]*entity.PartCode, error) {
	rows, err := r.q.Query(ctx, `SELECT id, codigo, nombre, created_at FROM part_codes ORDER BY codigo`)
	if err != nil {
		return nil, fmt.Errorf("list part codes: %w", err)
	}
	defer rows.Close()
	out := make([]*entity.PartCode, 0)
	for rows.Next() {
		var pc entity.PartCode
		if err := rows.Scan(&pc.ID, &pc.Code, &pc.Name, &pc.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan part code: %w", err)
		}
		out = append(out, &pc)
	}
	return out, rows.Err()
}

// Upsert inserta o actualiza el nombre por código; true si insertó.
func (r *PartCodeRepo) Upsert(ctx context.Context, pc *entity.PartCode) (bool, error) {
	var inserted bool
	err := r.q.QueryRow(ctx, `
		INSERT INTO part_codes (id, codigo, nombre, created_at) VALUES ($1, $2, $3, $4)
		ON CONFLICT (codigo) DO UPDATE SET nombre = EXCLUDED.nombre
		RETURNING (xmax = 0)`, pc.ID, pc.Code, pc.Name, pc.CreatedAt).Scan(&inserted)
	if err != nil {
		return false, fmt.Errorf("upsert part code: %w", err)
	}
	return inserted, nil
}
