package inventory_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/stockit-api/internal/application/dto"
	"github.com/jhoicas/stockit-api/internal/application/inventory"
	"github.com/jhoicas/stockit-api/internal/domain"
	"github.com/jhoicas/stockit-api/internal/domain/entity"
)

func intp(n int) *int { return &n }

func newTransferUC(store *memStore, n *recordingNotifier) *inventory.TransferUseCase {
	users := usersByName{"ana": {ID: "u-ana", Name: "ana", Email: "ana@gmail.com"}}
	var notifier inventory.Notifier
	if n != nil {
		notifier = n
	}
	return inventory.NewTransferUseCase(
		memTx{store},
		users,
		notifier,
		inventory.Recipients{Principal: "bodega@empresa.cl", CC: []string{"jefe@empresa.cl"}},
		time.UTC,
		zerolog.Nop(),
	)
}

func transferReq(code string, qty int, from, to string) dto.TransferRequest {
	return dto.TransferRequest{Code: code, Quantity: intp(qty), SourceOwner: from, DestOwner: to}
}

// ─── Cantidades ───────────────────────────────────────────────────────────────

func TestTransfer_DestinoExistente_SumaYDescuenta(t *testing.T) {
	store := newMemStore()
	store.seed("X1", "Filtro", 7, ptr("ana"))
	store.seed("X1", "Filtro", 2, ptr("beto"))
	uc := newTransferUC(store, nil)

	resp, err := uc.Transfer(context.Background(), "ana", transferReq("X1", 3, "ana", "beto"))
	require.NoError(t, err)

	assert.Equal(t, 4, store.item("X1", ptr("ana")).Quantity, "origen = antes - transferido")
	assert.Equal(t, 5, store.item("X1", ptr("beto")).Quantity, "destino = antes + transferido")
	assert.Equal(t, 4, resp.Source.Quantity)
	assert.Equal(t, 5, resp.Dest.Quantity)
	assert.Equal(t, "beto", resp.Dest.Owner)
	assert.NotEmpty(t, resp.Transfer.ID)
}

func TestTransfer_DestinoNuevo_CopiaNombre(t *testing.T) {
	store := newMemStore()
	store.seed("X1", "Filtro de aceite", 4, ptr("ana"))
	uc := newTransferUC(store, nil)

	_, err := uc.Transfer(context.Background(), "ana", transferReq("X1", 1, "ana", "beto"))
	require.NoError(t, err)

	dst := store.item("X1", ptr("beto"))
	require.NotNil(t, dst, "el destino debe crearse")
	assert.Equal(t, 1, dst.Quantity)
	assert.Equal(t, "Filtro de aceite", dst.Name)
}

func TestTransfer_TodoElStock_ConservaOrigenEnCero(t *testing.T) {
	store := newMemStore()
	store.seed("X1", "Filtro", 5, ptr("ana"))
	uc := newTransferUC(store, nil)

	_, err := uc.Transfer(context.Background(), "ana", transferReq("X1", 5, "ana", "beto"))
	require.NoError(t, err)

	src := store.item("X1", ptr("ana"))
	require.NotNil(t, src, "la transferencia no elimina el ítem de origen")
	assert.Equal(t, 0, src.Quantity)
	assert.Equal(t, 5, store.item("X1", ptr("beto")).Quantity)
}

func TestTransfer_RegistraHistorial(t *testing.T) {
	store := newMemStore()
	src := store.seed("X1", "Filtro", 5, ptr("ana"))
	uc := newTransferUC(store, nil)

	_, err := uc.Transfer(context.Background(), "ana", transferReq("X1", 2, "ana", "beto"))
	require.NoError(t, err)

	hist := store.transferList()
	require.Len(t, hist, 1)
	assert.Equal(t, src.ID, hist[0].StockID)
	assert.Equal(t, "ana", hist[0].SourceOwner)
	assert.Equal(t, "beto", hist[0].DestOwner)
	assert.Equal(t, 2, hist[0].Quantity)
	assert.Equal(t, entity.TransferCompleted, hist[0].Status)
	assert.Equal(t, entity.DefaultTransferReason, hist[0].Reason)
}

// ─── Errores ──────────────────────────────────────────────────────────────────

func TestTransfer_StockInsuficiente_NoModificaNada(t *testing.T) {
	store := newMemStore()
	store.seed("X1", "Filtro", 2, ptr("ana"))
	store.seed("X1", "Filtro", 1, ptr("beto"))
	uc := newTransferUC(store, nil)

	_, err := uc.Transfer(context.Background(), "ana", transferReq("X1", 3, "ana", "beto"))
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)

	var ise *domain.InsufficientStockError
	require.True(t, errors.As(err, &ise))
	assert.Equal(t, 2, ise.Available)
	assert.Equal(t, 3, ise.Requested)

	assert.Equal(t, 2, store.item("X1", ptr("ana")).Quantity)
	assert.Equal(t, 1, store.item("X1", ptr("beto")).Quantity)
	assert.Empty(t, store.transferList())
}

func TestTransfer_FalloEnHistorial_RevierteCantidades(t *testing.T) {
	store := newMemStore()
	store.seed("X1", "Filtro", 5, ptr("ana"))
	store.failTransferCreate = errors.New("insert falló")
	uc := newTransferUC(store, nil)

	_, err := uc.Transfer(context.Background(), "ana", transferReq("X1", 2, "ana", "beto"))
	require.Error(t, err)

	assert.Equal(t, 5, store.item("X1", ptr("ana")).Quantity, "la tx debe revertir el descuento")
	assert.Nil(t, store.item("X1", ptr("beto")), "la tx debe revertir la creación del destino")
}

func TestTransfer_SinItemOrigen_NotFound(t *testing.T) {
	store := newMemStore()
	uc := newTransferUC(store, nil)

	_, err := uc.Transfer(context.Background(), "ana", transferReq("X1", 1, "ana", "beto"))
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestTransfer_CallerDistintoDeOrigen_Forbidden(t *testing.T) {
	store := newMemStore()
	store.seed("X1", "Filtro", 5, ptr("ana"))
	uc := newTransferUC(store, nil)

	_, err := uc.Transfer(context.Background(), "beto", transferReq("X1", 1, "ana", "beto"))
	assert.ErrorIs(t, err, domain.ErrForbidden)
	assert.Equal(t, 5, store.item("X1", ptr("ana")).Quantity)
}

func TestTransfer_Validaciones(t *testing.T) {
	store := newMemStore()
	store.seed("X1", "Filtro", 5, ptr("ana"))
	uc := newTransferUC(store, nil)

	cases := map[string]dto.TransferRequest{
		"cantidad cero":     transferReq("X1", 0, "ana", "beto"),
		"cantidad negativa": transferReq("X1", -2, "ana", "beto"),
		"sin código":        transferReq("", 1, "ana", "beto"),
		"sin destino":       transferReq("X1", 1, "ana", ""),
		"mismo dueño":       transferReq("X1", 1, "ana", "ana"),
		"sin cantidad":      {Code: "X1", SourceOwner: "ana", DestOwner: "beto"},
	}
	for name, req := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := uc.Transfer(context.Background(), "ana", req)
			assert.ErrorIs(t, err, domain.ErrInvalidInput)
		})
	}
	assert.Equal(t, 5, store.item("X1", ptr("ana")).Quantity)
}

// ─── Notificación ─────────────────────────────────────────────────────────────

func TestTransfer_NotificaConRemitente(t *testing.T) {
	store := newMemStore()
	store.seed("X1", "Filtro", 5, ptr("ana"))
	n := &recordingNotifier{}
	uc := newTransferUC(store, n)

	_, err := uc.Transfer(context.Background(), "ana", transferReq("X1", 2, "ana", "beto"))
	require.NoError(t, err)
	uc.Wait()

	sent := n.sent()
	require.Len(t, sent, 1)
	assert.Equal(t, "bodega@empresa.cl", sent[0].Principal)
	assert.Equal(t, []string{"jefe@empresa.cl"}, sent[0].CC)
	assert.Equal(t, "Solicitud de Traspaso de Maleta", sent[0].Subject)
	require.NotNil(t, sent[0].Sender)
	assert.Equal(t, "ana@gmail.com", sent[0].Sender.Email)
	assert.Contains(t, sent[0].Body, "SOLICITUD DE TRASPASO DE MALETA")
	assert.Contains(t, sent[0].Body, "**Para:** beto")
}

func TestTransfer_FalloDeNotificacion_NoRevierte(t *testing.T) {
	store := newMemStore()
	store.seed("X1", "Filtro", 5, ptr("ana"))
	n := &recordingNotifier{err: errors.New("proveedor caído")}
	uc := newTransferUC(store, n)

	_, err := uc.Transfer(context.Background(), "ana", transferReq("X1", 2, "ana", "beto"))
	require.NoError(t, err, "la notificación es best-effort")
	uc.Wait()

	assert.Equal(t, 3, store.item("X1", ptr("ana")).Quantity)
	assert.Len(t, store.transferList(), 1)
}

func TestTransferBody_FechaEnZona(t *testing.T) {
	loc := time.FixedZone("CLT", -3*3600)
	rec := &entity.TransferRecord{
		Code: "X1", Name: "Filtro", Quantity: 2, SourceOwner: "ana", DestOwner: "beto",
		Date: time.Date(2025, 3, 14, 12, 0, 0, 0, time.UTC),
	}
	body := inventory.TransferBody(rec, loc)
	assert.Contains(t, body, "14-03-2025, 09:00:00")
	assert.Contains(t, body, "**Código:** X1")
}
