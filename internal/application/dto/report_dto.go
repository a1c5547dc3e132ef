package dto

import "time"

// Recipients destinatarios configurados de los reportes.
type Recipients struct {
	Principal string   `json:"principal"`
	CC        []string `json:"copias"`
	Total     int      `json:"total,omitempty"`
}

// WeeklyReportResponse resultado de POST /api/correo.
type WeeklyReportResponse struct {
	Message    string     `json:"mensaje"`
	Records    int        `json:"registros"`
	Recipients Recipients `json:"destinatarios"`
	TotalSent  int        `json:"enviados,omitempty"`
	Failed     int        `json:"fallidos,omitempty"`
	Strategy   string     `json:"estrategia,omitempty"`
}

// TestEmailResponse resultado de GET /api/correo/test.
type TestEmailResponse struct {
	Message    string     `json:"mensaje"`
	Records    int        `json:"registros"`
	Recipients Recipients `json:"destinatarios"`
}

// EmailValidity validez de un destinatario.
type EmailValidity struct {
	Email string `json:"email"`
	Valid bool   `json:"valido"`
}

// RecipientsValidation validación de los destinatarios configurados.
type RecipientsValidation struct {
	Principal bool            `json:"principal"`
	CC        []EmailValidity `json:"copias"`
}

// TestConfigResponse resultado de GET /api/correo/test-config.
type TestConfigResponse struct {
	Config struct {
		Principal       string   `json:"principal"`
		CC              []string `json:"copias"`
		TotalRecipients int      `json:"total_destinatarios"`
		DomainVerified  bool     `json:"dominio_verificado"`
		Provider        string   `json:"proveedor"`
	} `json:"configuracion"`
	Validation RecipientsValidation `json:"validacion"`
}

// PersonalReportRequest body para POST /api/correo/personal.
type PersonalReportRequest struct {
	Owner           string `json:"usuario"`
	ConsumptionType string `json:"tipoConsumo"`
	Format          string `json:"formato"`
}

// ArtifactInfo datos del archivo adjunto.
type ArtifactInfo struct {
	Name string `json:"nombre"`
	Size string `json:"tamaño"`
	Type string `json:"tipo"`
}

// PersonalReportResponse resultado del reporte personal.
type PersonalReportResponse struct {
	Message         string        `json:"mensaje"`
	Recipient       string        `json:"destinatario,omitempty"`
	Owner           string        `json:"usuario,omitempty"`
	ConsumptionType string        `json:"tipoConsumo,omitempty"`
	Records         int           `json:"registros"`
	Artifact        *ArtifactInfo `json:"archivo,omitempty"`
	NewRecords      bool          `json:"registrosNuevos"`
	Timestamp       time.Time     `json:"timestamp"`
}
