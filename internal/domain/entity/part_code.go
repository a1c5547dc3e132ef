package entity

import "time"

// PartCode entrada del catálogo de códigos de repuesto.
type PartCode struct {
	ID        string
	Code      string
	Name      string
	CreatedAt time.Time
}
