package entity

import "time"

// Estados de una transferencia.
const (
	TransferCompleted = "completada"
	TransferPending   = "pendiente"
	TransferCancelled = "cancelada"
)

// DefaultTransferReason motivo registrado para transferencias hechas desde la app.
const DefaultTransferReason = "Transferencia manual desde app"

// TransferRecord historial inmutable de una cantidad movida entre dueños.
type TransferRecord struct {
	ID          string
	StockID     string
	Code        string
	Name        string
	Quantity    int
	SourceOwner string
	DestOwner   string
	Date        time.Time
	Reason      string
	Status      string
}
