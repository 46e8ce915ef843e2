package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Payment representa un pago registrado contra una factura. Los pagos se
// crean, editan y borran de forma independiente del estado de la factura;
// solo afectan el ciclo de vida cuando se evalúa un evento "pay".
type Payment struct {
	ID          string
	InvoiceID   string
	Amount      decimal.Decimal
	PaymentDate time.Time
	Description string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
