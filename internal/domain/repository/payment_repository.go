package repository

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Facturacion-api/internal/domain/entity"
)

// PaymentRepository define el puerto de persistencia para Payment.
type PaymentRepository interface {
	Create(p *entity.Payment) error
	Update(p *entity.Payment) error
	Delete(id string) error
	GetByID(id string) (*entity.Payment, error)
	ListByInvoiceID(invoiceID string) ([]*entity.Payment, error)
	// SumByInvoiceID devuelve Σ amount de los pagos de la factura, como
	// decimal exacto (SUM sobre NUMERIC, sin redondeo ni conversión).
	SumByInvoiceID(invoiceID string) (decimal.Decimal, error)
}
