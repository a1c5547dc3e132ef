package dto

import "time"

// StockItemResponse ítem de stock. Usuario nil es stock general.
type StockItemResponse struct {
	ID        string    `json:"id"`
	Code      string    `json:"codigo"`
	Name      string    `json:"nombre"`
	Quantity  int       `json:"cantidad"`
	Owner     *string   `json:"usuario"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// AddPersonalStockRequest body para POST /api/stock/personal.
type AddPersonalStockRequest struct {
	Code     string `json:"codigo"`
	Name     string `json:"nombre"`
	Quantity *int   `json:"cantidad"`
}

// Operaciones reportadas al agregar stock personal.
const (
	OperationSum    = "suma"
	OperationCreate = "crear"
)

// AddPersonalStockResponse resultado del upsert personal.
type AddPersonalStockResponse struct {
	Message     string            `json:"message"`
	Stock       StockItemResponse `json:"stock"`
	Operation   string            `json:"operacion"`
	PreviousQty *int              `json:"cantidadAnterior,omitempty"`
	AddedQty    *int              `json:"cantidadSumada,omitempty"`
	TotalQty    *int              `json:"cantidadTotal,omitempty"`
}

// AddGeneralStockRequest body para POST /api/stock.
type AddGeneralStockRequest struct {
	Code     string `json:"codigo"`
	Name     string `json:"nombre"`
	Quantity *int   `json:"cantidad"`
}

// UpdateStockRequest body para PUT /api/stock/:id. Campos nil no se modifican.
type UpdateStockRequest struct {
	Name     *string `json:"nombre"`
	Quantity *int    `json:"cantidad"`
}

// RemoveOneResponse resultado de quitar una unidad.
type RemoveOneResponse struct {
	Deleted bool               `json:"eliminado"`
	Item    *StockItemResponse `json:"item,omitempty"`
	Message string             `json:"mensaje"`
}

// TransferRequest body para POST /api/stock/transferir-personal.
type TransferRequest struct {
	Code        string `json:"codigo"`
	Quantity    *int   `json:"cantidadTransferir"`
	SourceOwner string `json:"usuarioOrigen"`
	DestOwner   string `json:"usuarioDestino"`
}

// TransferSummary datos de la transferencia registrada.
type TransferSummary struct {
	ID       string `json:"id"`
	Code     string `json:"codigo"`
	Quantity int    `json:"cantidad"`
	Source   string `json:"origen"`
	Dest     string `json:"destino"`
}

// StockQuantity cantidad resultante de un ítem.
type StockQuantity struct {
	ID       string `json:"id"`
	Quantity int    `json:"cantidad"`
	Owner    string `json:"usuario,omitempty"`
}

// TransferResponse resultado de una transferencia.
type TransferResponse struct {
	Message  string          `json:"message"`
	Transfer TransferSummary `json:"transferencia"`
	Source   StockQuantity   `json:"stockOrigen"`
	Dest     StockQuantity   `json:"stockDestino"`
}

// TransferRecordResponse entrada del historial de transferencias.
type TransferRecordResponse struct {
	ID          string    `json:"id"`
	StockID     string    `json:"stockId"`
	Code        string    `json:"codigo"`
	Name        string    `json:"nombre"`
	Quantity    int       `json:"cantidad"`
	SourceOwner string    `json:"usuarioOrigen"`
	DestOwner   string    `json:"usuarioDestino"`
	Date        time.Time `json:"fecha"`
	Reason      string    `json:"motivo"`
	Status      string    `json:"estado"`
}
