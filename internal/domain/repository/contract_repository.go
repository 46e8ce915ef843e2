package repository

import "github.com/jhoicas/Facturacion-api/internal/domain/entity"

// ContractRepository define el puerto de lectura/alta de contratos.
type ContractRepository interface {
	Create(c *entity.Contract) error
	GetByID(id string) (*entity.Contract, error)
	ListByWorkspace(workspaceID string, limit, offset int) ([]*entity.Contract, error)
}
