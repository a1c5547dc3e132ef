package entity

import "time"

// StockItem cantidad de un repuesto en poder de un usuario. Owner nil es el stock general.
// Existe a lo sumo un ítem por (Code, Owner).
type StockItem struct {
	ID        string
	Code      string
	Name      string
	Quantity  int
	Owner     *string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsGeneral indica si el ítem pertenece al stock general.
func (s *StockItem) IsGeneral() bool {
	return s.Owner == nil
}

// OwnerName devuelve el dueño o "" si es general.
func (s *StockItem) OwnerName() string {
	if s.Owner == nil {
		return ""
	}
	return *s.Owner
}
