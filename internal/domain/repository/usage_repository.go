package repository

import (
	"context"
	"time"

	"github.com/jhoicas/stockit-api/internal/domain/entity"
)

// UsageRepository puerto del registro de usos.
type UsageRepository interface {
	Create(ctx context.Context, rec *entity.UsageRecord) error
	GetByID(ctx context.Context, id string) (*entity.UsageRecord, error)
	Delete(ctx context.Context, id string) error
	ListAll(ctx context.Context) ([]*entity.UsageRecord, error)
	ListByOwner(ctx context.Context, owner string) ([]*entity.UsageRecord, error)
	StatsByOwner(ctx context.Context, owner string) ([]*entity.UsageStat, error)
	ListBetween(ctx context.Context, from, to time.Time) ([]*entity.UsageRecord, error)
	MarkSentAutomatic(ctx context.Context, ids []string) error
	// ClaimUnsent reserva con batchID los usos no enviados manualmente del dueño
	// (FOR UPDATE SKIP LOCKED). Las reservas anteriores a staleBefore se consideran abandonadas.
	ClaimUnsent(ctx context.Context, owner, consumptionType, batchID string, now, staleBefore time.Time) ([]*entity.UsageRecord, error)
	MarkBatchSent(ctx context.Context, batchID string, at time.Time) (int64, error)
	ReleaseBatch(ctx context.Context, batchID string) error
}
