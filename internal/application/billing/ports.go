package billing

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Facturacion-api/internal/domain/entity"
	"github.com/jhoicas/Facturacion-api/internal/domain/repository"
)

// BillingTxRunner ejecuta una función dentro de una transacción con los
// repositorios de facturación atados a ella. La numeración y la evaluación de
// "pay" dependen de esta atomicidad.
type BillingTxRunner interface {
	RunBilling(ctx context.Context, fn func(
		workspaceRepo repository.WorkspaceRepository,
		invoiceRepo repository.InvoiceRepository,
		paymentRepo repository.PaymentRepository,
	) error) error
}

// Notification es el aviso al pagador tras el envío de una factura.
type Notification struct {
	InvoiceID    string
	Number       string
	Payer        entity.Payer
	TotalWithVat decimal.Decimal
	DueDate      time.Time
}

// NotificationDispatcher encola el aviso para entrega asíncrona, al menos una
// vez. Se invoca SOLO después del commit de la transacción que cambió el
// estado; su fallo no revierte la transición.
type NotificationDispatcher interface {
	Enqueue(n Notification)
}

// DocumentRenderer produce una representación descargable de la factura
// (PDF o XML estructurado). Consumo bajo demanda, fuera del ciclo de vida.
type DocumentRenderer interface {
	Render(inv *entity.Invoice, payer entity.Payer) (data []byte, filename string, err error)
}
