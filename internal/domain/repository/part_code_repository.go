package repository

import (
	"context"

	"github.com/jhoicas/stockit-api/internal/domain/entity"
)

// PartCodeRepository catálogo de códigos de repuesto.
type PartCodeRepository interface {
	Create(ctx context.Context, pc *entity.PartCode) error
	GetByID(ctx context.Context, id string) (*entity.PartCode, error)
	Update(ctx context.Context, pc *entity.PartCode) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context) ([]*entity.PartCode, error)
	// Upsert usado por la importación masiva; devuelve true si insertó.
	Upsert(ctx context.Context, pc *entity.PartCode) (bool, error)
}
