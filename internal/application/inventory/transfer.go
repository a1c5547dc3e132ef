package inventory

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/jhoicas/stockit-api/internal/application/dto"
	"github.com/jhoicas/stockit-api/internal/application/notification"
	"github.com/jhoicas/stockit-api/internal/domain"
	"github.com/jhoicas/stockit-api/internal/domain/entity"
	"github.com/jhoicas/stockit-api/internal/domain/repository"
)

// Notifier envía la solicitud de traspaso a los destinatarios configurados.
type Notifier interface {
	Send(ctx context.Context, req notification.Request) (*notification.Result, error)
}

// SenderLookup resuelve el correo del usuario que origina la transferencia.
type SenderLookup interface {
	FindByName(ctx context.Context, name string) (*entity.User, error)
}

// Recipients destinatarios de las notificaciones.
type Recipients struct {
	Principal string
	CC        []string
}

// TransferUseCase mueve cantidad del stock personal de un usuario al de otro.
type TransferUseCase struct {
	txRunner      TxRunner
	users         SenderLookup
	notifier      Notifier
	recipients    Recipients
	loc           *time.Location
	log           zerolog.Logger
	notifyTimeout time.Duration

	wg sync.WaitGroup
}

// NewTransferUseCase construye el caso de uso. notifier puede ser nil (sin notificación).
func NewTransferUseCase(
	txRunner TxRunner,
	users SenderLookup,
	notifier Notifier,
	recipients Recipients,
	loc *time.Location,
	log zerolog.Logger,
) *TransferUseCase {
	if loc == nil {
		loc = time.UTC
	}
	return &TransferUseCase{
		txRunner:      txRunner,
		users:         users,
		notifier:      notifier,
		recipients:    recipients,
		loc:           loc,
		log:           log,
		notifyTimeout: time.Minute,
	}
}

// Transfer descuenta del origen, suma (o crea) en el destino y registra el historial
// dentro de una transacción con bloqueo de filas. El ítem origen se conserva aunque quede en 0.
// La notificación se envía después del commit y nunca revierte la transferencia.
func (uc *TransferUseCase) Transfer(ctx context.Context, caller string, in dto.TransferRequest) (*dto.TransferResponse, error) {
	code := strings.TrimSpace(in.Code)
	source := strings.TrimSpace(in.SourceOwner)
	dest := strings.TrimSpace(in.DestOwner)
	if code == "" || source == "" || dest == "" || in.Quantity == nil {
		return nil, domain.Invalid("faltan campos obligatorios")
	}
	qty := *in.Quantity
	if qty <= 0 {
		return nil, domain.Invalid("la cantidad a transferir debe ser mayor a 0")
	}
	if caller != source {
		return nil, fmt.Errorf("%w: solo puedes transferir desde tu propio stock", domain.ErrForbidden)
	}
	if source == dest {
		return nil, domain.Invalid("origen y destino deben ser distintos")
	}

	var (
		srcItem  *entity.StockItem
		dstItem  *entity.StockItem
		transfer *entity.TransferRecord
	)
	err := uc.txRunner.Run(ctx, func(stockRepo repository.StockRepository, _ repository.UsageRepository, transferRepo repository.TransferRepository) error {
		// Bloqueo en orden (código, dueño) para que transferencias cruzadas no se bloqueen mutuamente.
		locked := map[string]*entity.StockItem{}
		for _, owner := range lockOrder(source, dest) {
			o := owner
			it, err := stockRepo.FindByCodeOwnerForUpdate(ctx, code, &o)
			if err != nil {
				return err
			}
			locked[owner] = it
		}

		src := locked[source]
		if src == nil {
			return fmt.Errorf("%w: repuesto no encontrado en tu stock", domain.ErrNotFound)
		}
		if src.Quantity < qty {
			return &domain.InsufficientStockError{Available: src.Quantity, Requested: qty}
		}

		src.Quantity -= qty
		if err := stockRepo.SetQuantity(ctx, src.ID, src.Quantity); err != nil {
			return err
		}

		dst, _, _, err := stockRepo.AddPersonal(ctx, code, src.Name, dest, qty)
		if err != nil {
			return err
		}

		rec := &entity.TransferRecord{
			ID:          uuid.New().String(),
			StockID:     src.ID,
			Code:        code,
			Name:        src.Name,
			Quantity:    qty,
			SourceOwner: source,
			DestOwner:   dest,
			Date:        time.Now(),
			Reason:      entity.DefaultTransferReason,
			Status:      entity.TransferCompleted,
		}
		if err := transferRepo.Create(ctx, rec); err != nil {
			return err
		}
		srcItem, dstItem, transfer = src, dst, rec
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.log.Info().
		Str("code", code).
		Int("qty", qty).
		Str("from", source).
		Str("to", dest).
		Msg("transferencia completada")

	uc.notifyAsync(transfer)

	return &dto.TransferResponse{
		Message: "Transferencia realizada exitosamente",
		Transfer: dto.TransferSummary{
			ID:       transfer.ID,
			Code:     code,
			Quantity: qty,
			Source:   source,
			Dest:     dest,
		},
		Source: dto.StockQuantity{ID: srcItem.ID, Quantity: srcItem.Quantity},
		Dest:   dto.StockQuantity{ID: dstItem.ID, Quantity: dstItem.Quantity, Owner: dstItem.OwnerName()},
	}, nil
}

// Wait espera las notificaciones pendientes (apagado ordenado).
func (uc *TransferUseCase) Wait() {
	uc.wg.Wait()
}

func (uc *TransferUseCase) notifyAsync(rec *entity.TransferRecord) {
	if uc.notifier == nil {
		return
	}
	uc.wg.Add(1)
	go func() {
		defer uc.wg.Done()
		ctx, cancel := context.WithTimeout(context.Background(), uc.notifyTimeout)
		defer cancel()

		var sender *notification.Sender
		if uc.users != nil {
			if u, err := uc.users.FindByName(ctx, rec.SourceOwner); err == nil && u != nil {
				sender = &notification.Sender{Name: u.Name, Email: u.Email}
			}
		}

		_, err := uc.notifier.Send(ctx, notification.Request{
			Principal: uc.recipients.Principal,
			CC:        uc.recipients.CC,
			Subject:   "Solicitud de Traspaso de Maleta",
			Body:      TransferBody(rec, uc.loc),
			Sender:    sender,
		})
		if err != nil {
			uc.log.Error().Err(err).Str("transfer_id", rec.ID).Msg("no se pudo notificar la transferencia")
		}
	}()
}

// TransferBody cuerpo del correo de solicitud de traspaso.
func TransferBody(rec *entity.TransferRecord, loc *time.Location) string {
	return fmt.Sprintf(`📦 **SOLICITUD DE TRASPASO DE MALETA**

👤 **Solicitado por:** %s
📂 **Código:** %s
🔧 **Repuesto:** %s
📊 **Cantidad:** %d
👥 **Para:** %s

💼 ACCIÓN REQUERIDA:
Favor realizar el traspaso físico del repuesto entre las maletas correspondientes.

📅 **Fecha:** %s
🤖 Generado automáticamente desde StockIt`,
		rec.SourceOwner, rec.Code, rec.Name, rec.Quantity, rec.DestOwner,
		rec.Date.In(loc).Format("02-01-2006, 15:04:05"))
}

func lockOrder(a, b string) []string {
	if a < b {
		return []string{a, b}
	}
	return []string{b, a}
}
