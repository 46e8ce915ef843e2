package billing

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Facturacion-api/internal/application/dto"
	"github.com/jhoicas/Facturacion-api/internal/domain"
	domainbilling "github.com/jhoicas/Facturacion-api/internal/domain/billing"
	"github.com/jhoicas/Facturacion-api/internal/domain/entity"
	"github.com/jhoicas/Facturacion-api/internal/domain/repository"
)

// LifecycleUseCase evalúa los eventos send y pay del ciclo de vida. Ambos
// corren en transacción con la fila de la factura bloqueada, de modo que dos
// evaluaciones concurrentes sobre la misma factura se serializan y cada
// transición se decide sobre un snapshot consistente del ledger.
type LifecycleUseCase struct {
	txRunner     BillingTxRunner
	invoiceRepo  repository.InvoiceRepository
	contractRepo repository.ContractRepository
	ledger       *Ledger
	dispatcher   NotificationDispatcher
}

// NewLifecycleUseCase construye el caso de uso.
func NewLifecycleUseCase(
	txRunner BillingTxRunner,
	invoiceRepo repository.InvoiceRepository,
	contractRepo repository.ContractRepository,
	ledger *Ledger,
	dispatcher NotificationDispatcher,
) *LifecycleUseCase {
	return &LifecycleUseCase{
		txRunner:     txRunner,
		invoiceRepo:  invoiceRepo,
		contractRepo: contractRepo,
		ledger:       ledger,
		dispatcher:   dispatcher,
	}
}

// Send evalúa el evento send: unsent -> sent, marca sent_at y, SOLO después
// del commit, encola el aviso al pagador. Si el despacho falla la transición
// ya está confirmada y no se revierte.
// Devuelve domain.ErrStateTransitionRejected si la factura no está en unsent.
func (uc *LifecycleUseCase) Send(ctx context.Context, workspaceID, invoiceID string) (*dto.InvoiceResponse, error) {
	var inv *entity.Invoice
	err := uc.txRunner.RunBilling(ctx, func(
		_ repository.WorkspaceRepository,
		invRepo repository.InvoiceRepository,
		_ repository.PaymentRepository,
	) error {
		loaded, err := lockOwned(invRepo, workspaceID, invoiceID)
		if err != nil {
			return err
		}
		next, err := domainbilling.Transition(loaded.State, domainbilling.EventSend, domainbilling.GuardInputs{})
		if err != nil {
			return err
		}
		now := time.Now()
		loaded.State = next
		loaded.SentAt = &now
		loaded.UpdatedAt = now
		if err := invRepo.UpdateState(loaded); err != nil {
			return err
		}
		inv = loaded
		return nil
	})
	if err != nil {
		return nil, err
	}

	// Post-commit: despacho asíncrono al pagador resuelto.
	payer := uc.notifyPayer(inv)
	paid, err := uc.ledger.PaidAmount(inv.ID)
	if err != nil {
		return nil, err
	}
	return toInvoiceResponse(inv, payer, paid), nil
}

// Resend vuelve a encolar el aviso de una factura ya enviada; no toca estado.
func (uc *LifecycleUseCase) Resend(ctx context.Context, workspaceID, invoiceID string) error {
	inv, err := uc.invoiceRepo.GetByID(invoiceID)
	if err != nil {
		return err
	}
	if inv == nil {
		return domain.ErrNotFound
	}
	if inv.WorkspaceID != workspaceID {
		return domain.ErrForbidden
	}
	if inv.State == domainbilling.StateUnsent {
		return domain.ErrStateTransitionRejected
	}
	uc.notifyPayer(inv)
	return nil
}

// Pay evalúa el evento pay: lee el monto pagado FRESCO del ledger dentro de
// la transacción (fila bloqueada, un pago insertado en paralelo no se pierde
// ni se cuenta doble) y aplica la transición que corresponda:
// sent->paid, partly_paid->paid o sent->partly_paid.
// Sin guardia aplicable devuelve domain.ErrStateTransitionRejected y el
// estado queda intacto.
func (uc *LifecycleUseCase) Pay(ctx context.Context, workspaceID, invoiceID string) (*dto.InvoiceResponse, error) {
	var inv *entity.Invoice
	paid := decimal.Zero
	err := uc.txRunner.RunBilling(ctx, func(
		_ repository.WorkspaceRepository,
		invRepo repository.InvoiceRepository,
		payRepo repository.PaymentRepository,
	) error {
		loaded, err := lockOwned(invRepo, workspaceID, invoiceID)
		if err != nil {
			return err
		}
		paidNow, err := payRepo.SumByInvoiceID(invoiceID)
		if err != nil {
			return err
		}
		next, err := domainbilling.Transition(loaded.State, domainbilling.EventPay, loaded.GuardInputs(paidNow))
		if err != nil {
			return err
		}
		loaded.State = next
		loaded.UpdatedAt = time.Now()
		if err := invRepo.UpdateState(loaded); err != nil {
			return err
		}
		inv = loaded
		paid = paidNow
		return nil
	})
	if err != nil {
		return nil, err
	}
	return toInvoiceResponse(inv, inv.ResolvePayer(uc.contractOrNil(inv)), paid), nil
}

// notifyPayer resuelve el pagador y encola el aviso.
func (uc *LifecycleUseCase) notifyPayer(inv *entity.Invoice) entity.Payer {
	payer := inv.ResolvePayer(uc.contractOrNil(inv))
	uc.dispatcher.Enqueue(Notification{
		InvoiceID:    inv.ID,
		Number:       inv.Number,
		Payer:        payer,
		TotalWithVat: inv.TotalAmountWithVat,
		DueDate:      inv.DueDate,
	})
	return payer
}

func (uc *LifecycleUseCase) contractOrNil(inv *entity.Invoice) *entity.Contract {
	if inv.CustomRecipient || inv.ContractID == "" {
		return nil
	}
	contract, err := uc.contractRepo.GetByID(inv.ContractID)
	if err != nil {
		return nil
	}
	return contract
}

// lockOwned carga la factura con lock de fila y verifica el workspace.
func lockOwned(invRepo repository.InvoiceRepository, workspaceID, invoiceID string) (*entity.Invoice, error) {
	inv, err := invRepo.GetByIDForUpdate(invoiceID)
	if err != nil {
		return nil, err
	}
	if inv == nil {
		return nil, domain.ErrNotFound
	}
	if inv.WorkspaceID != workspaceID {
		return nil, domain.ErrForbidden
	}
	rows, err := invRepo.GetRowsByInvoiceID(invoiceID)
	if err != nil {
		return nil, err
	}
	inv.Rows = rows
	return inv, nil
}
