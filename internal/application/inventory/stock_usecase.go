package inventory

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/stockit-api/internal/application/dto"
	"github.com/jhoicas/stockit-api/internal/domain"
	"github.com/jhoicas/stockit-api/internal/domain/entity"
	"github.com/jhoicas/stockit-api/internal/domain/repository"
)

const transferHistoryLimit = 50

// StockUseCase operaciones sobre el inventario general y personal.
type StockUseCase struct {
	txRunner     TxRunner
	stockRepo    repository.StockRepository
	transferRepo repository.TransferRepository
}

// NewStockUseCase construye el caso de uso.
func NewStockUseCase(txRunner TxRunner, stockRepo repository.StockRepository, transferRepo repository.TransferRepository) *StockUseCase {
	return &StockUseCase{txRunner: txRunner, stockRepo: stockRepo, transferRepo: transferRepo}
}

// ListAll todos los ítems, generales y personales.
func (uc *StockUseCase) ListAll(ctx context.Context) ([]dto.StockItemResponse, error) {
	items, err := uc.stockRepo.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	return toStockResponses(items), nil
}

// ListGeneral ítems sin dueño.
func (uc *StockUseCase) ListGeneral(ctx context.Context) ([]dto.StockItemResponse, error) {
	items, err := uc.stockRepo.ListGeneral(ctx)
	if err != nil {
		return nil, err
	}
	return toStockResponses(items), nil
}

// ListByOwner ítems de owner; solo el propio dueño puede verlos.
func (uc *StockUseCase) ListByOwner(ctx context.Context, caller, owner string) ([]dto.StockItemResponse, error) {
	if caller != owner {
		return nil, domain.ErrForbidden
	}
	items, err := uc.stockRepo.ListByOwner(ctx, owner)
	if err != nil {
		return nil, err
	}
	return toStockResponses(items), nil
}

// Search busca por fragmento de código; owner opcional.
func (uc *StockUseCase) Search(ctx context.Context, fragment string, owner *string) ([]dto.StockItemResponse, error) {
	fragment = strings.TrimSpace(fragment)
	if fragment == "" {
		return nil, domain.Invalid("el código a buscar es requerido")
	}
	items, err := uc.stockRepo.Search(ctx, fragment, owner)
	if err != nil {
		return nil, err
	}
	return toStockResponses(items), nil
}

// AddPersonal suma al ítem (código, dueño) o lo crea de forma atómica.
func (uc *StockUseCase) AddPersonal(ctx context.Context, caller string, in dto.AddPersonalStockRequest) (*dto.AddPersonalStockResponse, error) {
	code := strings.TrimSpace(in.Code)
	name := strings.TrimSpace(in.Name)
	if code == "" || name == "" || in.Quantity == nil {
		return nil, domain.Invalid("faltan campos obligatorios")
	}
	if *in.Quantity <= 0 {
		return nil, domain.Invalid("la cantidad debe ser mayor a 0")
	}
	item, previous, created, err := uc.stockRepo.AddPersonal(ctx, code, name, caller, *in.Quantity)
	if err != nil {
		return nil, err
	}
	if created {
		return &dto.AddPersonalStockResponse{
			Message:   "Stock personal creado exitosamente",
			Stock:     ToStockResponse(item),
			Operation: dto.OperationCreate,
		}, nil
	}
	added := *in.Quantity
	total := item.Quantity
	return &dto.AddPersonalStockResponse{
		Message:     "Cantidad sumada al stock existente",
		Stock:       ToStockResponse(item),
		Operation:   dto.OperationSum,
		PreviousQty: &previous,
		AddedQty:    &added,
		TotalQty:    &total,
	}, nil
}

// AddGeneral crea un ítem del stock general; rechaza códigos ya existentes.
func (uc *StockUseCase) AddGeneral(ctx context.Context, in dto.AddGeneralStockRequest) (*dto.StockItemResponse, error) {
	code := strings.TrimSpace(in.Code)
	name := strings.TrimSpace(in.Name)
	if code == "" || name == "" || in.Quantity == nil {
		return nil, domain.Invalid("faltan campos obligatorios")
	}
	if *in.Quantity < 0 {
		return nil, domain.Invalid("la cantidad no puede ser negativa")
	}
	existing, err := uc.stockRepo.FindByCodeOwner(ctx, code, nil)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, fmt.Errorf("%w: el repuesto ya existe en el stock general", domain.ErrConflict)
	}
	now := time.Now()
	item := &entity.StockItem{
		ID:        uuid.New().String(),
		Code:      code,
		Name:      name,
		Quantity:  *in.Quantity,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := uc.stockRepo.Create(ctx, item); err != nil {
		return nil, err
	}
	resp := ToStockResponse(item)
	return &resp, nil
}

// Update modifica nombre y/o cantidad. Los ítems personales solo los edita su dueño.
func (uc *StockUseCase) Update(ctx context.Context, caller, id string, in dto.UpdateStockRequest) (*dto.StockItemResponse, error) {
	if in.Quantity != nil && *in.Quantity < 0 {
		return nil, domain.Invalid("la cantidad no puede ser negativa")
	}
	if in.Name != nil && strings.TrimSpace(*in.Name) == "" {
		return nil, domain.Invalid("el nombre no puede estar vacío")
	}
	var out *entity.StockItem
	err := uc.txRunner.Run(ctx, func(stockRepo repository.StockRepository, _ repository.UsageRepository, _ repository.TransferRepository) error {
		item, err := stockRepo.GetByIDForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if item == nil {
			return domain.ErrNotFound
		}
		if !canModify(item, caller) {
			return domain.ErrForbidden
		}
		if in.Name != nil {
			item.Name = strings.TrimSpace(*in.Name)
		}
		if in.Quantity != nil {
			item.Quantity = *in.Quantity
		}
		item.UpdatedAt = time.Now()
		if err := stockRepo.Update(ctx, item); err != nil {
			return err
		}
		out = item
		return nil
	})
	if err != nil {
		return nil, err
	}
	resp := ToStockResponse(out)
	return &resp, nil
}

// RemoveOne descuenta una unidad; con cantidad ≤ 1 elimina el ítem.
func (uc *StockUseCase) RemoveOne(ctx context.Context, caller, id string) (*dto.RemoveOneResponse, error) {
	var resp *dto.RemoveOneResponse
	err := uc.txRunner.Run(ctx, func(stockRepo repository.StockRepository, _ repository.UsageRepository, _ repository.TransferRepository) error {
		item, err := stockRepo.GetByIDForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if item == nil {
			return domain.ErrNotFound
		}
		if !canModify(item, caller) {
			return domain.ErrForbidden
		}
		if item.Quantity <= 1 {
			if err := stockRepo.Delete(ctx, item.ID); err != nil {
				return err
			}
			resp = &dto.RemoveOneResponse{Deleted: true, Message: "Repuesto eliminado completamente"}
			return nil
		}
		item.Quantity--
		if err := stockRepo.SetQuantity(ctx, item.ID, item.Quantity); err != nil {
			return err
		}
		r := ToStockResponse(item)
		resp = &dto.RemoveOneResponse{Item: &r, Message: fmt.Sprintf("Cantidad reducida a %d", item.Quantity)}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return resp, nil
}

// Delete elimina el ítem.
func (uc *StockUseCase) Delete(ctx context.Context, caller, id string) error {
	item, err := uc.stockRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if item == nil {
		return domain.ErrNotFound
	}
	if !canModify(item, caller) {
		return domain.ErrForbidden
	}
	return uc.stockRepo.Delete(ctx, id)
}

// History últimas transferencias donde owner fue origen o destino.
func (uc *StockUseCase) History(ctx context.Context, caller, owner string) ([]dto.TransferRecordResponse, error) {
	if caller != owner {
		return nil, domain.ErrForbidden
	}
	recs, err := uc.transferRepo.ListByOwner(ctx, owner, transferHistoryLimit)
	if err != nil {
		return nil, err
	}
	out := make([]dto.TransferRecordResponse, 0, len(recs))
	for _, r := range recs {
		out = append(out, dto.TransferRecordResponse{
			ID:          r.ID,
			StockID:     r.StockID,
			Code:        r.Code,
			Name:        r.Name,
			Quantity:    r.Quantity,
			SourceOwner: r.SourceOwner,
			DestOwner:   r.DestOwner,
			Date:        r.Date,
			Reason:      r.Reason,
			Status:      r.Status,
		})
	}
	return out, nil
}

// canModify: el stock general lo edita cualquier usuario autenticado; el personal, solo su dueño.
func canModify(item *entity.StockItem, caller string) bool {
	return item.IsGeneral() || item.OwnerName() == caller
}

// ToStockResponse proyecta el ítem.
func ToStockResponse(s *entity.StockItem) dto.StockItemResponse {
	return dto.StockItemResponse{
		ID:        s.ID,
		Code:      s.Code,
		Name:      s.Name,
		Quantity:  s.Quantity,
		Owner:     s.Owner,
		CreatedAt: s.CreatedAt,
		UpdatedAt: s.UpdatedAt,
	}
}

func toStockResponses(items []*entity.StockItem) []dto.StockItemResponse {
	out := make([]dto.StockItemResponse, 0, len(items))
	for _, it := range items {
		out = append(out, ToStockResponse(it))
	}
	return out
}
