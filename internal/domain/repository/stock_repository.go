package repository

import (
	"context"

	"github.com/jhoicas/stockit-api/internal/domain/entity"
)

// StockRepository puerto del inventario por dueño. owner nil apunta al stock general.
// Usado dentro de transacciones para garantizar consistencia.
type StockRepository interface {
	GetByID(ctx context.Context, id string) (*entity.StockItem, error)
	GetByIDForUpdate(ctx context.Context, id string) (*entity.StockItem, error)
	FindByCodeOwner(ctx context.Context, code string, owner *string) (*entity.StockItem, error)
	// FindByCodeOwnerForUpdate bloquea la fila (SELECT FOR UPDATE); solo tiene efecto dentro de una tx.
	FindByCodeOwnerForUpdate(ctx context.Context, code string, owner *string) (*entity.StockItem, error)
	Create(ctx context.Context, item *entity.StockItem) error
	// AddPersonal suma qty al ítem (code, owner) o lo crea; devuelve el ítem y la cantidad previa.
	AddPersonal(ctx context.Context, code, name, owner string, qty int) (item *entity.StockItem, previous int, created bool, err error)
	Update(ctx context.Context, item *entity.StockItem) error
	SetQuantity(ctx context.Context, id string, qty int) error
	Delete(ctx context.Context, id string) error
	ListAll(ctx context.Context) ([]*entity.StockItem, error)
	ListGeneral(ctx context.Context) ([]*entity.StockItem, error)
	ListByOwner(ctx context.Context, owner string) ([]*entity.StockItem, error)
	// Search busca por subcadena del código sin distinguir mayúsculas; owner opcional.
	Search(ctx context.Context, codeFragment string, owner *string) ([]*entity.StockItem, error)
}
