package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de consumo válidos.
const (
	ConsumptionConsumo    = "Consumo"
	ConsumptionFacturable = "Facturable"
)

// ValidConsumptionType informa si t pertenece al enum de tipos de consumo.
func ValidConsumptionType(t string) bool {
	return t == ConsumptionConsumo || t == ConsumptionFacturable
}

// UsageRecord registro de repuesto usado en una máquina.
type UsageRecord struct {
	ID              string
	Code            string
	Name            string
	Machine         string
	Site            string
	Client          string
	Quantity        int
	Owner           string
	Date            time.Time
	ConsumptionType string
	SentManual      bool
	SentManualAt    *time.Time
	SentAutomatic   bool
}

// UsageStat agregado de uso por código.
type UsageStat struct {
	Code      string
	Name      string
	TotalUsed int
	Uses      int
	LastUse   time.Time
	AvgPerUse decimal.Decimal // calculado por la BD; cero si no viene
}
