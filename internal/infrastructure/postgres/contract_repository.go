package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/Facturacion-api/internal/domain"
	"github.com/jhoicas/Facturacion-api/internal/domain/entity"
	"github.com/jhoicas/Facturacion-api/internal/domain/repository"
)

var _ repository.ContractRepository = (*ContractRepo)(nil)

// ContractRepo implementación de ContractRepository sobre PostgreSQL.
type ContractRepo struct {
	q Querier
}

// NewContractRepository construye el adaptador.
func NewContractRepository(q Querier) *ContractRepo {
	return &ContractRepo{q: q}
}

const contractColumns = `id, workspace_id, COALESCE(property_id, ''), tenant_name, tenant_personal_code,
	COALESCE(tenant_email, ''), COALESCE(tenant_phone, ''), property_address, created_at, updated_at`

// Create persiste un contrato nuevo.
func (r *ContractRepo) Create(c *entity.Contract) error {
	query := `
		INSERT INTO contracts (id, workspace_id, property_id, tenant_name, tenant_personal_code,
			tenant_email, tenant_phone, property_address, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err := r.q.Exec(context.Background(), query,
		c.ID, c.WorkspaceID, nullIfEmpty(c.PropertyID), c.TenantName, c.TenantPersonal,
		nullIfEmpty(c.TenantEmail), nullIfEmpty(c.TenantPhone), c.PropertyAddress, c.CreatedAt, c.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert contract: %w", err)
	}
	return nil
}

// GetByID obtiene un contrato por ID.
func (r *ContractRepo) GetByID(id string) (*entity.Contract, error) {
	query := `SELECT ` + contractColumns + ` FROM contracts WHERE id = $1`
	var c entity.Contract
	err := r.q.QueryRow(context.Background(), query, id).Scan(
		&c.ID, &c.WorkspaceID, &c.PropertyID, &c.TenantName, &c.TenantPersonal,
		&c.TenantEmail, &c.TenantPhone, &c.PropertyAddress, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get contract: %w", err)
	}
	return &c, nil
}

// ListByWorkspace lista los contratos de un workspace con paginación.
func (r *ContractRepo) ListByWorkspace(workspaceID string, limit, offset int) ([]*entity.Contract, error) {
	query := `SELECT ` + contractColumns + ` FROM contracts
		WHERE workspace_id = $1 ORDER BY tenant_name LIMIT $2 OFFSET $3`
	rows, err := r.q.Query(context.Background(), query, workspaceID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list contracts: %w", err)
	}
	defer rows.Close()
	var list []*entity.Contract
	for rows.Next() {
		var c entity.Contract
		if err := rows.Scan(&c.ID, &c.WorkspaceID, &c.PropertyID, &c.TenantName, &c.TenantPersonal,
			&c.TenantEmail, &c.TenantPhone, &c.PropertyAddress, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan contract: %w", err)
		}
		list = append(list, &c)
	}
	return list, rows.Err()
}
