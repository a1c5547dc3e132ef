package repository

import (
	"context"

	"github.com/jhoicas/stockit-api/internal/domain/entity"
)

// TransferRepository historial de transferencias (solo inserción).
type TransferRepository interface {
	Create(ctx context.Context, rec *entity.TransferRecord) error
	// ListByOwner últimas limit transferencias donde owner es origen o destino, más recientes primero.
	ListByOwner(ctx context.Context, owner string, limit int) ([]*entity.TransferRecord, error)
}
