package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/Facturacion-api/internal/domain"
	"github.com/jhoicas/Facturacion-api/internal/domain/billing"
	"github.com/jhoicas/Facturacion-api/internal/domain/entity"
	"github.com/jhoicas/Facturacion-api/internal/domain/repository"
)

var _ repository.InvoiceRepository = (*InvoiceRepo)(nil)

// InvoiceRepo implementación de InvoiceRepository (usable con pool o tx).
// La tabla invoices tiene UNIQUE (workspace_id, number); invoice_rows e
// invoice_payments referencian invoices con ON DELETE RESTRICT.
type InvoiceRepo struct {
	q Querier
}

// NewInvoiceRepository construye el adaptador. Pasar pool o tx (Querier).
func NewInvoiceRepository(q Querier) *InvoiceRepo {
	return &InvoiceRepo{q: q}
}

const invoiceColumns = `id, workspace_id, contract_id, property_id, number,
	invoice_date, due_date, state, custom_recipient,
	recipient_name, recipient_address, recipient_personal_code, recipient_register_code,
	recipient_email, recipient_phone, sent_at,
	total_amount, vat_amount, total_amount_with_vat, created_at, updated_at`

// Create persiste la cabecera de la factura. Una colisión de número dentro
// del workspace se reporta como domain.ErrDuplicate para que el caso de uso
// reintente el secuenciador.
func (r *InvoiceRepo) Create(inv *entity.Invoice) error {
	query := `
		INSERT INTO invoices (` + invoiceColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21)`
	_, err := r.q.Exec(context.Background(), query,
		inv.ID, inv.WorkspaceID, nullIfEmpty(inv.ContractID), nullIfEmpty(inv.PropertyID), inv.Number,
		inv.InvoiceDate, inv.DueDate, string(inv.State), inv.CustomRecipient,
		nullIfEmpty(inv.RecipientName), nullIfEmpty(inv.RecipientAddress),
		nullIfEmpty(inv.RecipientPersonalCode), nullIfEmpty(inv.RecipientRegisterCode),
		nullIfEmpty(inv.RecipientEmail), nullIfEmpty(inv.RecipientPhone), inv.SentAt,
		inv.TotalAmount, inv.VatAmount, inv.TotalAmountWithVat, inv.CreatedAt, inv.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert invoice: %w", err)
	}
	return nil
}

// Update persiste cabecera y totales derivados. El número no se toca: una vez
// asignado es inmutable.
func (r *InvoiceRepo) Update(inv *entity.Invoice) error {
	query := `
		UPDATE invoices
		SET contract_id = $2, property_id = $3, invoice_date = $4, due_date = $5,
		    custom_recipient = $6, recipient_name = $7, recipient_address = $8,
		    recipient_personal_code = $9, recipient_register_code = $10,
		    recipient_email = $11, recipient_phone = $12,
		    total_amount = $13, vat_amount = $14, total_amount_with_vat = $15,
		    updated_at = $16
		WHERE id = $1`
	_, err := r.q.Exec(context.Background(), query,
		inv.ID, nullIfEmpty(inv.ContractID), nullIfEmpty(inv.PropertyID), inv.InvoiceDate, inv.DueDate,
		inv.CustomRecipient, nullIfEmpty(inv.RecipientName), nullIfEmpty(inv.RecipientAddress),
		nullIfEmpty(inv.RecipientPersonalCode), nullIfEmpty(inv.RecipientRegisterCode),
		nullIfEmpty(inv.RecipientEmail), nullIfEmpty(inv.RecipientPhone),
		inv.TotalAmount, inv.VatAmount, inv.TotalAmountWithVat, inv.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update invoice: %w", err)
	}
	return nil
}

// UpdateState persiste solo estado, sent_at y updated_at.
func (r *InvoiceRepo) UpdateState(inv *entity.Invoice) error {
	query := `
		UPDATE invoices SET state = $2, sent_at = $3, updated_at = $4 WHERE id = $1`
	_, err := r.q.Exec(context.Background(), query, inv.ID, string(inv.State), inv.SentAt, inv.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update invoice state: %w", err)
	}
	return nil
}

// GetByID obtiene una factura por ID (sin líneas).
func (r *InvoiceRepo) GetByID(id string) (*entity.Invoice, error) {
	return r.getOne(`SELECT `+invoiceColumns+` FROM invoices WHERE id = $1`, id)
}

// GetByIDForUpdate obtiene la factura bloqueando su fila. Solo tiene sentido
// dentro de una transacción: serializa evaluaciones de "pay" concurrentes.
func (r *InvoiceRepo) GetByIDForUpdate(id string) (*entity.Invoice, error) {
	return r.getOne(`SELECT `+invoiceColumns+` FROM invoices WHERE id = $1 FOR UPDATE`, id)
}

func (r *InvoiceRepo) getOne(query, id string) (*entity.Invoice, error) {
	row := r.q.QueryRow(context.Background(), query, id)
	inv, err := scanInvoice(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get invoice: %w", err)
	}
	return inv, nil
}

// ListByWorkspace lista facturas del workspace filtrando por estados.
func (r *InvoiceRepo) ListByWorkspace(workspaceID string, states []billing.State, limit, offset int) ([]*entity.Invoice, error) {
	args := []any{workspaceID}
	query := `SELECT ` + invoiceColumns + ` FROM invoices WHERE workspace_id = $1`
	if len(states) > 0 {
		placeholders := make([]string, 0, len(states))
		for _, s := range states {
			args = append(args, string(s))
			placeholders = append(placeholders, fmt.Sprintf("$%d", len(args)))
		}
		query += ` AND state IN (` + strings.Join(placeholders, ", ") + `)`
	}
	args = append(args, limit, offset)
	query += fmt.Sprintf(` ORDER BY invoice_date DESC, number LIMIT $%d OFFSET $%d`, len(args)-1, len(args))

	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list invoices: %w", err)
	}
	defer rows.Close()
	var list []*entity.Invoice
	for rows.Next() {
		inv, err := scanInvoice(rows)
		if err != nil {
			return nil, fmt.Errorf("scan invoice: %w", err)
		}
		list = append(list, inv)
	}
	return list, rows.Err()
}

// CreateRow persiste una línea de la factura.
func (r *InvoiceRepo) CreateRow(row *entity.InvoiceRow) error {
	query := `
		INSERT INTO invoice_rows (id, invoice_id, cost_type, description, amount, unit, unit_price, vat)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.q.Exec(context.Background(), query,
		row.ID, row.InvoiceID, row.CostType, nullIfEmpty(row.Description),
		row.Amount, row.Unit, row.UnitPrice, row.VAT,
	)
	if err != nil {
		return fmt.Errorf("insert invoice row: %w", err)
	}
	return nil
}

// ReplaceRows borra y reescribe las líneas de la factura.
func (r *InvoiceRepo) ReplaceRows(invoiceID string, rows []*entity.InvoiceRow) error {
	if _, err := r.q.Exec(context.Background(), `DELETE FROM invoice_rows WHERE invoice_id = $1`, invoiceID); err != nil {
		return fmt.Errorf("delete invoice rows: %w", err)
	}
	for _, row := range rows {
		row.InvoiceID = invoiceID
		if err := r.CreateRow(row); err != nil {
			return err
		}
	}
	return nil
}

// GetRowsByInvoiceID obtiene todas las líneas de una factura.
func (r *InvoiceRepo) GetRowsByInvoiceID(invoiceID string) ([]*entity.InvoiceRow, error) {
	query := `
		SELECT id, invoice_id, cost_type, COALESCE(description, ''), amount, unit, unit_price, vat
		FROM invoice_rows WHERE invoice_id = $1 ORDER BY id`
	rows, err := r.q.Query(context.Background(), query, invoiceID)
	if err != nil {
		return nil, fmt.Errorf("list invoice rows: %w", err)
	}
	defer rows.Close()
	var list []*entity.InvoiceRow
	for rows.Next() {
		var row entity.InvoiceRow
		if err := rows.Scan(&row.ID, &row.InvoiceID, &row.CostType, &row.Description, &row.Amount, &row.Unit, &row.UnitPrice, &row.VAT); err != nil {
			return nil, fmt.Errorf("scan invoice row: %w", err)
		}
		list = append(list, &row)
	}
	return list, rows.Err()
}

// Delete borra la factura. Las foreign keys de líneas y pagos son ON DELETE
// RESTRICT: la violación se traduce a domain.ErrDeletionRestricted.
func (r *InvoiceRepo) Delete(id string) error {
	_, err := r.q.Exec(context.Background(), `DELETE FROM invoices WHERE id = $1`, id)
	if err != nil {
		if isForeignKeyViolation(err) {
			return domain.ErrDeletionRestricted
		}
		return fmt.Errorf("delete invoice: %w", err)
	}
	return nil
}

// scanInvoice escanea una fila de invoices con los campos nullables.
func scanInvoice(row pgx.Row) (*entity.Invoice, error) {
	var inv entity.Invoice
	var state string
	var contractID, propertyID *string
	var rName, rAddress, rPersonal, rRegister, rEmail, rPhone *string
	err := row.Scan(
		&inv.ID, &inv.WorkspaceID, &contractID, &propertyID, &inv.Number,
		&inv.InvoiceDate, &inv.DueDate, &state, &inv.CustomRecipient,
		&rName, &rAddress, &rPersonal, &rRegister,
		&rEmail, &rPhone, &inv.SentAt,
		&inv.TotalAmount, &inv.VatAmount, &inv.TotalAmountWithVat, &inv.CreatedAt, &inv.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	inv.State = billing.State(state)
	inv.ContractID = derefStr(contractID)
	inv.PropertyID = derefStr(propertyID)
	inv.RecipientName = derefStr(rName)
	inv.RecipientAddress = derefStr(rAddress)
	inv.RecipientPersonalCode = derefStr(rPersonal)
	inv.RecipientRegisterCode = derefStr(rRegister)
	inv.RecipientEmail = derefStr(rEmail)
	inv.RecipientPhone = derefStr(rPhone)
	return &inv, nil
}
