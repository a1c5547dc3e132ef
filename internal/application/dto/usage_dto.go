package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// ConsumeRequest body para POST /api/usos.
type ConsumeRequest struct {
	Code            string `json:"codigo"`
	Name            string `json:"nombre"`
	Machine         string `json:"maquina"`
	Site            string `json:"lugarUso"`
	Client          string `json:"cliente"`
	Quantity        *int   `json:"cantidad"`
	ConsumptionType string `json:"tipoConsumo"`
}

// UsageRecordResponse registro de uso.
type UsageRecordResponse struct {
	ID              string     `json:"id"`
	Code            string     `json:"codigo"`
	Name            string     `json:"nombre"`
	Machine         string     `json:"maquina"`
	Site            string     `json:"lugarUso"`
	Client          string     `json:"cliente"`
	Quantity        int        `json:"cantidad"`
	Owner           string     `json:"usuario"`
	Date            time.Time  `json:"fecha"`
	ConsumptionType string     `json:"tipoConsumo"`
	SentManual      bool       `json:"enviadoManual"`
	SentManualAt    *time.Time `json:"fechaEnvioManual,omitempty"`
	SentAutomatic   bool       `json:"enviadoAutomatico"`
}

// ConsumeResponse resultado de registrar un uso.
type ConsumeResponse struct {
	Message   string              `json:"message"`
	Usage     UsageRecordResponse `json:"uso"`
	Remaining int                 `json:"stockRestante"`
}

// UsageStatResponse agregado por código para GET /api/usos/estadisticas/:usuario.
type UsageStatResponse struct {
	Code      string          `json:"_id"`
	Name      string          `json:"nombre"`
	TotalUsed int             `json:"totalUsado"`
	Uses      int             `json:"usos"`
	AvgPerUse decimal.Decimal `json:"promedioPorUso"`
	LastUse   time.Time       `json:"ultimoUso"`
}
