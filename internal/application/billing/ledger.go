package billing

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Facturacion-api/internal/domain/entity"
	"github.com/jhoicas/Facturacion-api/internal/domain/repository"
)

// Ledger es la vista derivada de los pagos contra una factura. No guarda
// nada: cada consulta suma los pagos vigentes, de modo que altas, ediciones y
// bajas de pagos se reflejan siempre en la siguiente lectura.
type Ledger struct {
	paymentRepo repository.PaymentRepository
}

// NewLedger construye el ledger sobre el repositorio de pagos.
func NewLedger(paymentRepo repository.PaymentRepository) *Ledger {
	return &Ledger{paymentRepo: paymentRepo}
}

// PaidAmount devuelve Σ amount de los pagos de la factura, decimal exacto.
func (l *Ledger) PaidAmount(invoiceID string) (decimal.Decimal, error) {
	return l.paymentRepo.SumByInvoiceID(invoiceID)
}

// UnpaidAmount devuelve total con IVA menos lo pagado.
func (l *Ledger) UnpaidAmount(inv *entity.Invoice) (decimal.Decimal, error) {
	paid, err := l.PaidAmount(inv.ID)
	if err != nil {
		return decimal.Zero, err
	}
	return inv.UnpaidAmount(paid), nil
}

// IsPayable indica si la factura acepta pagos (enviada o parcialmente pagada
// y con saldo pendiente).
func (l *Ledger) IsPayable(inv *entity.Invoice) (bool, error) {
	paid, err := l.PaidAmount(inv.ID)
	if err != nil {
		return false, err
	}
	return inv.Payable(paid), nil
}
