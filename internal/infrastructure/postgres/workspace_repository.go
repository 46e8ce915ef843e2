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

var _ repository.WorkspaceRepository = (*WorkspaceRepo)(nil)

// WorkspaceRepo implementación de WorkspaceRepository (usable con pool o tx).
type WorkspaceRepo struct {
	q Querier
}

// NewWorkspaceRepository construye el adaptador. Pasar pool o tx (Querier).
func NewWorkspaceRepository(q Querier) *WorkspaceRepo {
	return &WorkspaceRepo{q: q}
}

// Create persiste un workspace nuevo.
func (r *WorkspaceRepo) Create(w *entity.Workspace) error {
	query := `
		INSERT INTO workspaces (id, name, invoice_number_prefix, invoice_number_counter, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)`
	_, err := r.q.Exec(context.Background(), query,
		w.ID, w.Name, w.InvoiceNumberPrefix, w.InvoiceNumberCounter, w.CreatedAt, w.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert workspace: %w", err)
	}
	return nil
}

// GetByID obtiene un workspace por ID.
func (r *WorkspaceRepo) GetByID(id string) (*entity.Workspace, error) {
	query := `
		SELECT id, name, invoice_number_prefix, invoice_number_counter, created_at, updated_at
		FROM workspaces WHERE id = $1`
	var w entity.Workspace
	err := r.q.QueryRow(context.Background(), query, id).Scan(
		&w.ID, &w.Name, &w.InvoiceNumberPrefix, &w.InvoiceNumberCounter, &w.CreatedAt, &w.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get workspace: %w", err)
	}
	return &w, nil
}

// List lista workspaces con paginación.
func (r *WorkspaceRepo) List(limit, offset int) ([]*entity.Workspace, error) {
	query := `
		SELECT id, name, invoice_number_prefix, invoice_number_counter, created_at, updated_at
		FROM workspaces ORDER BY name LIMIT $1 OFFSET $2`
	rows, err := r.q.Query(context.Background(), query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list workspaces: %w", err)
	}
	defer rows.Close()
	var list []*entity.Workspace
	for rows.Next() {
		var w entity.Workspace
		if err := rows.Scan(&w.ID, &w.Name, &w.InvoiceNumberPrefix, &w.InvoiceNumberCounter, &w.CreatedAt, &w.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan workspace: %w", err)
		}
		list = append(list, &w)
	}
	return list, rows.Err()
}

// NextInvoiceNumber avanza el contador de numeración en una sola sentencia
// atómica y devuelve prefijo y contador resultante. El UPDATE con RETURNING
// serializa los incrementos por workspace a nivel de fila: dos facturas
// concurrentes nunca reciben el mismo contador. Nada de leer-modificar-escribir
// en dos vueltas.
func (r *WorkspaceRepo) NextInvoiceNumber(workspaceID string) (string, int64, error) {
	query := `
		UPDATE workspaces
		SET invoice_number_counter = invoice_number_counter + 1,
		    updated_at = now()
		WHERE id = $1
		RETURNING invoice_number_prefix, invoice_number_counter`
	var prefix string
	var counter int64
	err := r.q.QueryRow(context.Background(), query, workspaceID).Scan(&prefix, &counter)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", 0, domain.ErrNotFound
		}
		return "", 0, fmt.Errorf("next invoice number: %w", err)
	}
	return prefix, counter, nil
}
