package inventory

import (
	"context"

	"github.com/jhoicas/stockit-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando repositorios atados a esa tx.
// Garantiza atomicidad para transferencias y consumos.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		stockRepo repository.StockRepository,
		usageRepo repository.UsageRepository,
		transferRepo repository.TransferRepository,
	) error) error
}
