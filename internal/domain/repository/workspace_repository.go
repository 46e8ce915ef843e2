package repository

import "github.com/jhoicas/Facturacion-api/internal/domain/entity"

// WorkspaceRepository define el puerto de persistencia para Workspace.
type WorkspaceRepository interface {
	Create(w *entity.Workspace) error
	GetByID(id string) (*entity.Workspace, error)
	List(limit, offset int) ([]*entity.Workspace, error)
	// NextInvoiceNumber avanza el contador de numeración en una sola operación
	// atómica por workspace y devuelve el prefijo y el contador resultante.
	// Dos facturas concurrentes del mismo workspace jamás reciben el mismo
	// contador. Debe invocarse dentro de la transacción que persiste la factura.
	NextInvoiceNumber(workspaceID string) (prefix string, counter int64, err error)
}
