package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/stockit-api/internal/domain"
	"github.com/jhoicas/stockit-api/internal/domain/entity"
	"github.com/jhoicas/stockit-api/internal/domain/repository"
)

var _ repository.StockRepository = (*StockRepo)(nil)

const stockColumns = `id, codigo, nombre, cantidad, usuario, created_at, updated_at`

// StockRepo implementación de StockRepository sobre PostgreSQL (usable con pool o tx).
type StockRepo struct {
	q Querier
}

// NewStockRepository construye el adaptador de stock. Pasar pool o tx (Querier).
func NewStockRepository(q Querier) *StockRepo {
	return &StockRepo{q: q}
}

func scanStock(row pgx.Row) (*entity.StockItem, error) {
	var s entity.StockItem
	if err := row.Scan(&s.ID, &s.Code, &s.Name, &s.Quantity, &s.Owner, &s.CreatedAt, &s.UpdatedAt); err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *StockRepo) one(ctx context.Context, what, query string, args ...any) (*entity.StockItem, error) {
	s, err := scanStock(r.q.QueryRow(ctx, query, args...))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("%s: %w", what, err)
	}
	return s, nil
}

// GetByID obtiene un ítem por ID.
func (r *StockRepo) GetByID(ctx context.Context, id string) (*entity.StockItem, error) {
	return r.one(ctx, "get stock item", `SELECT `+stockColumns+` FROM stock_items WHERE id = $1`, id)
}

// GetByIDForUpdate obtiene el ítem y bloquea la fila (SELECT FOR UPDATE).
func (r *StockRepo) GetByIDForUpdate(ctx context.Context, id string) (*entity.StockItem, error) {
	return r.one(ctx, "get stock item for update", `SELECT `+stockColumns+` FROM stock_items WHERE id = $1 FOR UPDATE`, id)
}

// FindByCodeOwner busca el ítem (código, dueño); owner nil es el stock general.
func (r *StockRepo) FindByCodeOwner(ctx context.Context, code string, owner *string) (*entity.StockItem, error) {
	return r.one(ctx, "find stock item", `
		SELECT `+stockColumns+` FROM stock_items
		WHERE codigo = $1 AND usuario IS NOT DISTINCT FROM $2`, code, ownerArg(owner))
}

// FindByCodeOwnerForUpdate como FindByCodeOwner bloqueando la fila.
func (r *StockRepo) FindByCodeOwnerForUpdate(ctx context.Context, code string, owner *string) (*entity.StockItem, error) {
	return r.one(ctx, "find stock item for update", `
		SELECT `+stockColumns+` FROM stock_items
		WHERE codigo = $1 AND usuario IS NOT DISTINCT FROM $2
		FOR UPDATE`, code, ownerArg(owner))
}

// Create inserta un ítem nuevo.
func (r *StockRepo) Create(ctx context.Context, item *entity.StockItem) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO stock_items (id, codigo, nombre, cantidad, usuario, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		item.ID, item.Code, item.Name, item.Quantity, item.Owner, item.CreatedAt, item.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert stock item: %w", err)
	}
	return nil
}

// AddPersonal suma qty al ítem (código, dueño) o lo crea en una sola sentencia.
// xmax = 0 distingue una inserción de una actualización por conflicto.
func (r *StockRepo) AddPersonal(ctx context.Context, code, name, owner string, qty int) (*entity.StockItem, int, bool, error) {
	query := `
		INSERT INTO stock_items (id, codigo, nombre, cantidad, usuario, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, now(), now())
		ON CONFLICT (codigo, usuario) WHERE usuario IS NOT NULL
		DO UPDATE SET cantidad = stock_items.cantidad + EXCLUDED.cantidad, updated_at = now()
		RETURNING ` + stockColumns + `, (xmax = 0) AS inserted`
	var (
		s        entity.StockItem
		inserted bool
	)
	err := r.q.QueryRow(ctx, query, uuid.New().String(), code, name, qty, owner).Scan(
		&s.ID, &s.Code, &s.Name, &s.Quantity, &s.Owner, &s.CreatedAt, &s.UpdatedAt, &inserted,
	)
	if err != nil {
		return nil, 0, false, fmt.Errorf("upsert personal stock: %w", err)
	}
	previous := s.Quantity - qty
	if inserted {
		previous = 0
	}
	return &s, previous, inserted, nil
}

// Update guarda nombre y cantidad.
func (r *StockRepo) Update(ctx context.Context, item *entity.StockItem) error {
	tag, err := r.q.Exec(ctx, `
		UPDATE stock_items SET nombre = $2, cantidad = $3, updated_at = now()
		WHERE id = $1`, item.ID, item.Name, item.Quantity)
	if err != nil {
		return fmt.Errorf("update stock item: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// SetQuantity fija la cantidad del ítem.
func (r *StockRepo) SetQuantity(ctx context.Context, id string, qty int) error {
	tag, err := r.q.Exec(ctx, `UPDATE stock_items SET cantidad = $2, updated_at = now() WHERE id = $1`, id, qty)
	if err != nil {
		return fmt.Errorf("set stock quantity: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Delete elimina el ítem.
func (r *StockRepo) Delete(ctx context.Context, id string) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM stock_items WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete stock item: %w", err)
	}
	return nil
}

func (r *StockRepo) list(ctx context.Context, what, query string, args ...any) ([]*entity.StockItem, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", what, err)
	}
	defer rows.Close()
	out := make([]*entity.StockItem, 0)
	for rows.Next() {
		s, err := scanStock(rows)
		if err != nil {
			return nil, fmt.Errorf("scan stock item: %w", err)
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// ListAll todos los ítems.
func (r *StockRepo) ListAll(ctx context.Context) ([]*entity.StockItem, error) {
	return r.list(ctx, "list stock", `SELECT `+stockColumns+` FROM stock_items ORDER BY codigo, usuario NULLS FIRST`)
}

// ListGeneral ítems sin dueño.
func (r *StockRepo) ListGeneral(ctx context.Context) ([]*entity.StockItem, error) {
	return r.list(ctx, "list general stock", `SELECT `+stockColumns+` FROM stock_items WHERE usuario IS NULL ORDER BY codigo`)
}

// ListByOwner ítems de un dueño.
func (r *StockRepo) ListByOwner(ctx context.Context, owner string) ([]*entity.StockItem, error) {
	return r.list(ctx, "list stock by owner", `SELECT `+stockColumns+` FROM stock_items WHERE usuario = $1 ORDER BY codigo`, owner)
}

// Search por subcadena del código; owner nil busca en todos los dueños.
func (r *StockRepo) Search(ctx context.Context, codeFragment string, owner *string) ([]*entity.StockItem, error) {
	query := `SELECT ` + stockColumns + ` FROM stock_items WHERE codigo ILIKE '%' || $1 || '%'`
	args := []any{escapeLike(codeFragment)}
	if owner != nil {
		query += ` AND usuario = $2`
		args = append(args, *owner)
	}
	query += ` ORDER BY codigo`
	return r.list(ctx, "search stock", query, args...)
}
