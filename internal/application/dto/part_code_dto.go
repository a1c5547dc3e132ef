package dto

import "time"

// PartCodeRequest body para crear/actualizar un código de repuesto.
type PartCodeRequest struct {
	Code string `json:"codigo"`
	Name string `json:"nombre"`
}

// PartCodeResponse código del catálogo.
type PartCodeResponse struct {
	ID        string    `json:"id"`
	Code      string    `json:"codigo"`
	Name      string    `json:"nombre"`
	CreatedAt time.Time `json:"createdAt"`
}
