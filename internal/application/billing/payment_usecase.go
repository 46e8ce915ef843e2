package billing

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/Facturacion-api/internal/application/dto"
	"github.com/jhoicas/Facturacion-api/internal/domain"
	"github.com/jhoicas/Facturacion-api/internal/domain/entity"
	"github.com/jhoicas/Facturacion-api/internal/domain/repository"
)

// PaymentUseCase altas, ediciones y bajas de pagos contra una factura. Los
// pagos no tocan el estado de la factura: la guardia del ciclo de vida lee el
// ledger recién en el siguiente evento "pay".
type PaymentUseCase struct {
	invoiceRepo repository.InvoiceRepository
	paymentRepo repository.PaymentRepository
}

// NewPaymentUseCase construye el caso de uso.
func NewPaymentUseCase(invoiceRepo repository.InvoiceRepository, paymentRepo repository.PaymentRepository) *PaymentUseCase {
	return &PaymentUseCase{invoiceRepo: invoiceRepo, paymentRepo: paymentRepo}
}

// Record registra un pago contra la factura.
func (uc *PaymentUseCase) Record(ctx context.Context, workspaceID, invoiceID string, in dto.PaymentRequest) (*dto.PaymentResponse, error) {
	if err := uc.checkInvoice(workspaceID, invoiceID); err != nil {
		return nil, err
	}
	if !in.Amount.IsPositive() || in.PaymentDate.IsZero() {
		return nil, domain.ErrInvalidInput
	}
	now := time.Now()
	p := &entity.Payment{
		ID:          uuid.New().String(),
		InvoiceID:   invoiceID,
		Amount:      in.Amount,
		PaymentDate: in.PaymentDate,
		Description: in.Description,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := uc.paymentRepo.Create(p); err != nil {
		return nil, err
	}
	return toPaymentResponse(p), nil
}

// Update edita un pago existente.
func (uc *PaymentUseCase) Update(ctx context.Context, workspaceID, invoiceID, paymentID string, in dto.PaymentRequest) (*dto.PaymentResponse, error) {
	p, err := uc.loadOwned(workspaceID, invoiceID, paymentID)
	if err != nil {
		return nil, err
	}
	if !in.Amount.IsPositive() || in.PaymentDate.IsZero() {
		return nil, domain.ErrInvalidInput
	}
	p.Amount = in.Amount
	p.PaymentDate = in.PaymentDate
	p.Description = in.Description
	p.UpdatedAt = time.Now()
	if err := uc.paymentRepo.Update(p); err != nil {
		return nil, err
	}
	return toPaymentResponse(p), nil
}

// Delete borra un pago. Siempre permitido; la siguiente evaluación de "pay"
// verá el ledger sin este pago.
func (uc *PaymentUseCase) Delete(ctx context.Context, workspaceID, invoiceID, paymentID string) error {
	if _, err := uc.loadOwned(workspaceID, invoiceID, paymentID); err != nil {
		return err
	}
	return uc.paymentRepo.Delete(paymentID)
}

// List devuelve los pagos de la factura.
func (uc *PaymentUseCase) List(ctx context.Context, workspaceID, invoiceID string) ([]dto.PaymentResponse, error) {
	if err := uc.checkInvoice(workspaceID, invoiceID); err != nil {
		return nil, err
	}
	payments, err := uc.paymentRepo.ListByInvoiceID(invoiceID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.PaymentResponse, 0, len(payments))
	for _, p := range payments {
		out = append(out, *toPaymentResponse(p))
	}
	return out, nil
}

func (uc *PaymentUseCase) checkInvoice(workspaceID, invoiceID string) error {
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
	return nil
}

func (uc *PaymentUseCase) loadOwned(workspaceID, invoiceID, paymentID string) (*entity.Payment, error) {
	if err := uc.checkInvoice(workspaceID, invoiceID); err != nil {
		return nil, err
	}
	p, err := uc.paymentRepo.GetByID(paymentID)
	if err != nil {
		return nil, err
	}
	if p == nil || p.InvoiceID != invoiceID {
		return nil, domain.ErrNotFound
	}
	return p, nil
}

func toPaymentResponse(p *entity.Payment) *dto.PaymentResponse {
	return &dto.PaymentResponse{
		ID:          p.ID,
		InvoiceID:   p.InvoiceID,
		Amount:      p.Amount,
		PaymentDate: p.PaymentDate.Format("2006-01-02"),
		Description: p.Description,
	}
}
