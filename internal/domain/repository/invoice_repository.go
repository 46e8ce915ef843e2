package repository

import (
	"github.com/jhoicas/Facturacion-api/internal/domain/billing"
	"github.com/jhoicas/Facturacion-api/internal/domain/entity"
)

// InvoiceRepository define el puerto de persistencia para Invoice y sus líneas.
// La capa de storage garantiza la unicidad de (workspace_id, number) y la
// integridad referencial de líneas y pagos hacia la factura.
type InvoiceRepository interface {
	Create(inv *entity.Invoice) error
	// Update persiste cabecera y totales derivados. Nunca cambia el número.
	Update(inv *entity.Invoice) error
	// UpdateState persiste solo state, sent_at y updated_at.
	UpdateState(inv *entity.Invoice) error
	GetByID(id string) (*entity.Invoice, error)
	// GetByIDForUpdate bloquea la fila de la factura (SELECT ... FOR UPDATE)
	// para serializar evaluaciones concurrentes de "pay" sobre la misma factura.
	GetByIDForUpdate(id string) (*entity.Invoice, error)
	ListByWorkspace(workspaceID string, states []billing.State, limit, offset int) ([]*entity.Invoice, error)
	CreateRow(row *entity.InvoiceRow) error
	// ReplaceRows borra y reescribe las líneas de la factura.
	ReplaceRows(invoiceID string, rows []*entity.InvoiceRow) error
	GetRowsByInvoiceID(invoiceID string) ([]*entity.InvoiceRow, error)
	// Delete borra la factura. Devuelve domain.ErrDeletionRestricted si aún
	// tiene líneas o pagos (restricción, no cascada).
	Delete(id string) error
}
