package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/stockit-api/internal/domain/entity"
	"github.com/jhoicas/stockit-api/internal/domain/repository"
)

var _ repository.TransferRepository = (*TransferRepo)(nil)

// TransferRepo historial de transferencias (solo inserción).
type TransferRepo struct {
	q Querier
}

// NewTransferRepository construye el adaptador. Pasar pool o tx (Querier).
func NewTransferRepository(q Querier) *TransferRepo {
	return &TransferRepo{q: q}
}

// Create inserta el registro de transferencia.
func (r *TransferRepo) Create(ctx context.Context, rec *entity.TransferRecord) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO transfers (id, stock_id, codigo, nombre, cantidad, usuario_origen, usuario_destino, fecha, motivo, estado)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		rec.ID, rec.StockID, rec.Code, rec.Name, rec.Quantity, rec.SourceOwner, rec.DestOwner, rec.Date, rec.Reason, rec.Status)
	if err != nil {
		return fmt.Errorf("insert transfer: %w", err)
	}
	return nil
}

// ListByOwner últimas transferencias donde owner es origen o destino.
func (r *TransferRepo) ListByOwner(ctx context.Context, owner string, limit int) ([]*entity.TransferRecord, error) {
	rows, err := r.q.Query(ctx, `
		SELECT id, stock_id, codigo, nombre, cantidad, usuario_origen, usuario_destino, fecha, motivo, estado
		FROM transfers
		WHERE usuario_origen = $1 OR usuario_destino = $1
		ORDER BY fecha DESC
		LIMIT $2`, owner, limit)
	if err != nil {
		return nil, fmt.Errorf("list transfers: %w", err)
	}
	defer rows.Close()
	out := make([]*entity.TransferRecord, 0)
	for rows.Next() {
		var t entity.TransferRecord
		if err := rows.Scan(&t.ID, &t.StockID, &t.Code, &t.Name, &t.Quantity, &t.SourceOwner, &t.DestOwner,
			&t.Date, &t.Reason, &t.Status); err != nil {
			return nil, fmt.Errorf("scan transfer: %w", err)
		}
		out = append(out, &t)
	}
	return out, rows.Err()
}
