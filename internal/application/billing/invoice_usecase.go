package billing

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/Facturacion-api/internal/application/dto"
	"github.com/jhoicas/Facturacion-api/internal/domain"
	domainbilling "github.com/jhoicas/Facturacion-api/internal/domain/billing"
	"github.com/jhoicas/Facturacion-api/internal/domain/entity"
	"github.com/jhoicas/Facturacion-api/internal/domain/repository"
)

// DefaultNumberAttempts intentos del secuenciador ante colisión de número.
const DefaultNumberAttempts = 3

// InvoiceUseCase altas, ediciones, consulta y baja de facturas. La asignación
// del número es perezosa: ocurre en la primera persistencia que pasa la
// validación y no tiene número aún, dentro de la misma transacción que
// inserta la factura bajo la constraint única (workspace_id, number).
type InvoiceUseCase struct {
	txRunner       BillingTxRunner
	workspaceRepo  repository.WorkspaceRepository
	invoiceRepo    repository.InvoiceRepository
	contractRepo   repository.ContractRepository
	ledger         *Ledger
	numberAttempts int
}

// NewInvoiceUseCase construye el caso de uso.
func NewInvoiceUseCase(
	txRunner BillingTxRunner,
	workspaceRepo repository.WorkspaceRepository,
	invoiceRepo repository.InvoiceRepository,
	contractRepo repository.ContractRepository,
	ledger *Ledger,
	numberAttempts int,
) *InvoiceUseCase {
	if numberAttempts <= 0 {
		numberAttempts = DefaultNumberAttempts
	}
	return &InvoiceUseCase{
		txRunner:       txRunner,
		workspaceRepo:  workspaceRepo,
		invoiceRepo:    invoiceRepo,
		contractRepo:   contractRepo,
		ledger:         ledger,
		numberAttempts: numberAttempts,
	}
}

// Create valida, numera y persiste una factura nueva con sus líneas.
// Devuelve domainbilling.FieldErrors con todos los campos inválidos.
func (uc *InvoiceUseCase) Create(ctx context.Context, workspaceID string, in dto.CreateInvoiceRequest) (*dto.InvoiceResponse, error) {
	ws, err := uc.workspaceRepo.GetByID(workspaceID)
	if err != nil {
		return nil, err
	}
	if ws == nil {
		return nil, domain.ErrNotFound
	}

	now := time.Now()
	inv := &entity.Invoice{
		ID:          uuid.New().String(),
		WorkspaceID: workspaceID,
		State:       domainbilling.StateUnsent,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	applyInvoiceRequest(inv, in)

	if errs := inv.Validate(); !errs.OK() {
		return nil, errs
	}
	contract, err := uc.checkContract(inv)
	if err != nil {
		return nil, err
	}
	inv.CalculateAmounts()

	// Numeración + inserción: ante colisión de número se reintenta SOLO el
	// secuenciador (nuevo contador, nueva transacción), no la validación ni
	// el armado de la factura.
	persist := func(wsRepo repository.WorkspaceRepository, invRepo repository.InvoiceRepository) error {
		if err := uc.ensureNumber(wsRepo, inv); err != nil {
			return err
		}
		if err := invRepo.Create(inv); err != nil {
			return err
		}
		for _, row := range inv.Rows {
			if err := invRepo.CreateRow(row); err != nil {
				return err
			}
		}
		return nil
	}
	if err := uc.withNumberRetry(ctx, inv, persist); err != nil {
		return nil, err
	}
	return uc.toResponse(inv, contract)
}

// Update edita cabecera y líneas; los totales se recalculan siempre y el
// número, una vez asignado, jamás cambia. No hay restricción de edición tras
// el envío: la guardia de pago lee el total vigente al evaluar.
func (uc *InvoiceUseCase) Update(ctx context.Context, workspaceID, invoiceID string, in dto.UpdateInvoiceRequest) (*dto.InvoiceResponse, error) {
	inv, err := uc.loadOwned(workspaceID, invoiceID)
	if err != nil {
		return nil, err
	}
	applyInvoiceRequest(inv, in)
	inv.UpdatedAt = time.Now()

	if errs := inv.Validate(); !errs.OK() {
		return nil, errs
	}
	contract, err := uc.checkContract(inv)
	if err != nil {
		return nil, err
	}
	inv.CalculateAmounts()

	persist := func(wsRepo repository.WorkspaceRepository, invRepo repository.InvoiceRepository) error {
		if err := uc.ensureNumber(wsRepo, inv); err != nil {
			return err
		}
		if err := invRepo.Update(inv); err != nil {
			return err
		}
		return invRepo.ReplaceRows(inv.ID, inv.Rows)
	}
	if err := uc.withNumberRetry(ctx, inv, persist); err != nil {
		return nil, err
	}
	return uc.toResponse(inv, contract)
}

// Delete borra la factura. Con líneas o pagos asociados la baja se rechaza
// con domain.ErrDeletionRestricted (restricción, no cascada).
func (uc *InvoiceUseCase) Delete(ctx context.Context, workspaceID, invoiceID string) error {
	if _, err := uc.loadOwned(workspaceID, invoiceID); err != nil {
		return err
	}
	return uc.invoiceRepo.Delete(invoiceID)
}

// Get devuelve la factura con líneas, totales y ledger derivado.
func (uc *InvoiceUseCase) Get(ctx context.Context, workspaceID, invoiceID string) (*dto.InvoiceResponse, error) {
	inv, err := uc.loadOwned(workspaceID, invoiceID)
	if err != nil {
		return nil, err
	}
	contract, err := uc.loadContract(inv)
	if err != nil {
		return nil, err
	}
	return uc.toResponse(inv, contract)
}

// List devuelve las facturas del workspace agrupadas por estado: sin enviar,
// enviadas (incluye parcialmente pagadas) y pagadas.
func (uc *InvoiceUseCase) List(ctx context.Context, workspaceID string, page dto.PageRequest) (*dto.InvoiceListResponse, error) {
	page.DefaultPage()
	ws, err := uc.workspaceRepo.GetByID(workspaceID)
	if err != nil {
		return nil, err
	}
	if ws == nil {
		return nil, domain.ErrNotFound
	}
	out := &dto.InvoiceListResponse{
		Unsent: []dto.InvoiceResponse{},
		Sent:   []dto.InvoiceResponse{},
		Paid:   []dto.InvoiceResponse{},
	}
	groups := []struct {
		states []domainbilling.State
		dst    *[]dto.InvoiceResponse
	}{
		{[]domainbilling.State{domainbilling.StateUnsent}, &out.Unsent},
		{[]domainbilling.State{domainbilling.StateSent, domainbilling.StatePartlyPaid}, &out.Sent},
		{[]domainbilling.State{domainbilling.StatePaid}, &out.Paid},
	}
	for _, g := range groups {
		list, err := uc.invoiceRepo.ListByWorkspace(workspaceID, g.states, page.Limit, page.Offset)
		if err != nil {
			return nil, err
		}
		for _, inv := range list {
			contract, err := uc.loadContract(inv)
			if err != nil {
				return nil, err
			}
			resp, err := uc.toResponse(inv, contract)
			if err != nil {
				return nil, err
			}
			*g.dst = append(*g.dst, *resp)
		}
	}
	return out, nil
}

// ensureNumber asigna número si la factura no tiene. Idempotente: pedir
// número dos veces sobre la misma factura nunca lo cambia.
func (uc *InvoiceUseCase) ensureNumber(wsRepo repository.WorkspaceRepository, inv *entity.Invoice) error {
	if inv.Number != "" {
		return nil
	}
	prefix, counter, err := wsRepo.NextInvoiceNumber(inv.WorkspaceID)
	if err != nil {
		return fmt.Errorf("avanzar contador de numeración: %w", err)
	}
	inv.Number = domainbilling.FormatNumber(prefix, time.Now(), counter)
	return nil
}

// withNumberRetry ejecuta persist en transacción; ante violación de unicidad
// del número descarta el número asignado y reintenta, acotado.
func (uc *InvoiceUseCase) withNumberRetry(ctx context.Context, inv *entity.Invoice, persist func(repository.WorkspaceRepository, repository.InvoiceRepository) error) error {
	hadNumber := inv.Number != ""
	var err error
	for attempt := 0; attempt < uc.numberAttempts; attempt++ {
		err = uc.txRunner.RunBilling(ctx, func(
			wsRepo repository.WorkspaceRepository,
			invRepo repository.InvoiceRepository,
			_ repository.PaymentRepository,
		) error {
			return persist(wsRepo, invRepo)
		})
		if err == nil || !errors.Is(err, domain.ErrDuplicate) || hadNumber {
			return err
		}
		// Colisión: el número recién generado ya existe en el workspace.
		inv.Number = ""
	}
	return err
}

// loadOwned carga la factura con líneas y verifica que pertenece al workspace.
func (uc *InvoiceUseCase) loadOwned(workspaceID, invoiceID string) (*entity.Invoice, error) {
	inv, err := uc.invoiceRepo.GetByID(invoiceID)
	if err != nil {
		return nil, err
	}
	if inv == nil {
		return nil, domain.ErrNotFound
	}
	if inv.WorkspaceID != workspaceID {
		return nil, domain.ErrForbidden
	}
	rows, err := uc.invoiceRepo.GetRowsByInvoiceID(invoiceID)
	if err != nil {
		return nil, err
	}
	inv.Rows = rows
	return inv, nil
}

// checkContract valida la rama de destinatario por contrato: el contrato debe
// existir y ser del mismo workspace. Con destinatario manual no aplica.
func (uc *InvoiceUseCase) checkContract(inv *entity.Invoice) (*entity.Contract, error) {
	if inv.CustomRecipient {
		return nil, nil
	}
	contract, err := uc.contractRepo.GetByID(inv.ContractID)
	if err != nil {
		return nil, err
	}
	if contract == nil {
		return nil, domain.ErrNotFound
	}
	if contract.WorkspaceID != inv.WorkspaceID {
		return nil, domain.ErrForbidden
	}
	return contract, nil
}

// loadContract carga el contrato para resolver el pagador en lecturas; nil si
// la factura usa destinatario manual o el contrato ya no existe.
func (uc *InvoiceUseCase) loadContract(inv *entity.Invoice) (*entity.Contract, error) {
	if inv.CustomRecipient || inv.ContractID == "" {
		return nil, nil
	}
	return uc.contractRepo.GetByID(inv.ContractID)
}

func (uc *InvoiceUseCase) toResponse(inv *entity.Invoice, contract *entity.Contract) (*dto.InvoiceResponse, error) {
	paid, err := uc.ledger.PaidAmount(inv.ID)
	if err != nil {
		return nil, err
	}
	return toInvoiceResponse(inv, inv.ResolvePayer(contract), paid), nil
}

// applyInvoiceRequest vuelca el request sobre la entidad. El número nunca
// viene del request.
func applyInvoiceRequest(inv *entity.Invoice, in dto.CreateInvoiceRequest) {
	inv.ContractID = in.ContractID
	inv.PropertyID = in.PropertyID
	inv.InvoiceDate = in.InvoiceDate
	inv.DueDate = in.DueDate
	inv.CustomRecipient = in.CustomRecipient
	inv.RecipientName = in.RecipientName
	inv.RecipientAddress = in.RecipientAddress
	inv.RecipientPersonalCode = in.RecipientPersonalCode
	inv.RecipientRegisterCode = in.RecipientRegisterCode
	inv.RecipientEmail = in.RecipientEmail
	inv.RecipientPhone = in.RecipientPhone

	rows := make([]*entity.InvoiceRow, 0, len(in.Rows))
	for _, r := range in.Rows {
		id := r.ID
		if id == "" {
			id = uuid.New().String()
		}
		rows = append(rows, &entity.InvoiceRow{
			ID:          id,
			InvoiceID:   inv.ID,
			CostType:    r.CostType,
			Description: r.Description,
			Amount:      r.Amount,
			Unit:        r.Unit,
			UnitPrice:   r.UnitPrice,
			VAT:         r.VAT,
		})
	}
	inv.Rows = rows
}
