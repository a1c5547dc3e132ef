package inventory

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/stockit-api/internal/application/dto"
	"github.com/jhoicas/stockit-api/internal/domain"
	"github.com/jhoicas/stockit-api/internal/domain/entity"
	"github.com/jhoicas/stockit-api/internal/domain/repository"
)

// UsageUseCase registro de repuestos usados y sus estadísticas.
type UsageUseCase struct {
	txRunner  TxRunner
	usageRepo repository.UsageRepository
}

// NewUsageUseCase construye el caso de uso.
func NewUsageUseCase(txRunner TxRunner, usageRepo repository.UsageRepository) *UsageUseCase {
	return &UsageUseCase{txRunner: txRunner, usageRepo: usageRepo}
}

// Consume registra el uso y descuenta el stock personal en una misma transacción.
// Si el ítem llega a 0 se elimina.
func (uc *UsageUseCase) Consume(ctx context.Context, caller string, in dto.ConsumeRequest) (*dto.ConsumeResponse, error) {
	code := strings.TrimSpace(in.Code)
	machine := strings.TrimSpace(in.Machine)
	site := strings.TrimSpace(in.Site)
	client := strings.TrimSpace(in.Client)
	if code == "" || machine == "" || site == "" || client == "" || in.Quantity == nil {
		return nil, domain.Invalid("faltan campos obligatorios")
	}
	qty := *in.Quantity
	if qty <= 0 {
		return nil, domain.Invalid("la cantidad debe ser mayor a 0")
	}
	ctype := strings.TrimSpace(in.ConsumptionType)
	if ctype == "" {
		ctype = entity.ConsumptionConsumo
	}
	if !entity.ValidConsumptionType(ctype) {
		return nil, domain.Invalid("tipo de consumo inválido")
	}

	var (
		rec       *entity.UsageRecord
		remaining int
	)
	err := uc.txRunner.Run(ctx, func(stockRepo repository.StockRepository, usageRepo repository.UsageRepository, _ repository.TransferRepository) error {
		owner := caller
		item, err := stockRepo.FindByCodeOwnerForUpdate(ctx, code, &owner)
		if err != nil {
			return err
		}
		if item == nil {
			return fmt.Errorf("%w: no tienes este repuesto en tu stock personal", domain.ErrNotFound)
		}
		if item.Quantity < qty {
			return &domain.InsufficientStockError{Available: item.Quantity, Requested: qty}
		}

		name := strings.TrimSpace(in.Name)
		if name == "" {
			name = item.Name
		}
		rec = &entity.UsageRecord{
			ID:              uuid.New().String(),
			Code:            code,
			Name:            name,
			Machine:         machine,
			Site:            site,
			Client:          client,
			Quantity:        qty,
			Owner:           caller,
			Date:            time.Now(),
			ConsumptionType: ctype,
		}
		if err := usageRepo.Create(ctx, rec); err != nil {
			return err
		}

		remaining = item.Quantity - qty
		if remaining <= 0 {
			return stockRepo.Delete(ctx, item.ID)
		}
		return stockRepo.SetQuantity(ctx, item.ID, remaining)
	})
	if err != nil {
		return nil, err
	}
	return &dto.ConsumeResponse{
		Message:   "Uso registrado exitosamente",
		Usage:     ToUsageResponse(rec),
		Remaining: remaining,
	}, nil
}

// ListAll todos los usos, más recientes primero.
func (uc *UsageUseCase) ListAll(ctx context.Context) ([]dto.UsageRecordResponse, error) {
	recs, err := uc.usageRepo.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	return ToUsageResponses(recs), nil
}

// ListByOwner usos propios, más recientes primero.
func (uc *UsageUseCase) ListByOwner(ctx context.Context, caller, owner string) ([]dto.UsageRecordResponse, error) {
	if caller != owner {
		return nil, domain.ErrForbidden
	}
	recs, err := uc.usageRepo.ListByOwner(ctx, owner)
	if err != nil {
		return nil, err
	}
	return ToUsageResponses(recs), nil
}

// Stats agregados por código ordenados por total usado.
func (uc *UsageUseCase) Stats(ctx context.Context, caller, owner string) ([]dto.UsageStatResponse, error) {
	if caller != owner {
		return nil, domain.ErrForbidden
	}
	stats, err := uc.usageRepo.StatsByOwner(ctx, owner)
	if err != nil {
		return nil, err
	}
	out := make([]dto.UsageStatResponse, 0, len(stats))
	for _, s := range stats {
		avg := s.AvgPerUse
		if avg.IsZero() && s.Uses > 0 {
			avg = decimal.NewFromInt(int64(s.TotalUsed)).DivRound(decimal.NewFromInt(int64(s.Uses)), 2)
		}
		out = append(out, dto.UsageStatResponse{
			Code:      s.Code,
			Name:      s.Name,
			TotalUsed: s.TotalUsed,
			Uses:      s.Uses,
			AvgPerUse: avg,
			LastUse:   s.LastUse,
		})
	}
	return out, nil
}

// Delete elimina un uso propio. No repone stock.
func (uc *UsageUseCase) Delete(ctx context.Context, caller, id string) error {
	rec, err := uc.usageRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if rec == nil {
		return domain.ErrNotFound
	}
	if rec.Owner != caller {
		return domain.ErrForbidden
	}
	return uc.usageRepo.Delete(ctx, id)
}

// ToUsageResponse proyecta el registro.
func ToUsageResponse(r *entity.UsageRecord) dto.UsageRecordResponse {
	return dto.UsageRecordResponse{
		ID:              r.ID,
		Code:            r.Code,
		Name:            r.Name,
		Machine:         r.Machine,
		Site:            r.Site,
		Client:          r.Client,
		Quantity:        r.Quantity,
		Owner:           r.Owner,
		Date:            r.Date,
		ConsumptionType: r.ConsumptionType,
		SentManual:      r.SentManual,
		SentManualAt:    r.SentManualAt,
		SentAutomatic:   r.SentAutomatic,
	}
}

// ToUsageResponses proyecta una lista de registros.
func ToUsageResponses(recs []*entity.UsageRecord) []dto.UsageRecordResponse {
	out := make([]dto.UsageRecordResponse, 0, len(recs))
	for _, r := range recs {
		out = append(out, ToUsageResponse(r))
	}
	return out
}
