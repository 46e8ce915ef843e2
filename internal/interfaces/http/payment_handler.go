package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Facturacion-api/internal/application/billing"
	"github.com/jhoicas/Facturacion-api/internal/application/dto"
)

// PaymentHandler maneja los pagos registrados contra una factura.
type PaymentHandler struct {
	uc *billing.PaymentUseCase
}

// NewPaymentHandler construye el handler.
func NewPaymentHandler(uc *billing.PaymentUseCase) *PaymentHandler {
	return &PaymentHandler{uc: uc}
}

// Record registra un pago contra la factura.
// POST /api/workspaces/:workspaceId/invoices/:id/payments
func (h *PaymentHandler) Record(c *fiber.Ctx) error {
	wsID, ok := workspaceScope(c)
	if !ok {
		return nil
	}
	var in dto.PaymentRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	payment, err := h.uc.Record(c.Context(), wsID, c.Params("id"), in)
	if err != nil {
		return mapBillingError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(payment)
}

// Update edita un pago existente.
// PUT /api/workspaces/:workspaceId/invoices/:id/payments/:paymentId
func (h *PaymentHandler) Update(c *fiber.Ctx) error {
	wsID, ok := workspaceScope(c)
	if !ok {
		return nil
	}
	var in dto.PaymentRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	payment, err := h.uc.Update(c.Context(), wsID, c.Params("id"), c.Params("paymentId"), in)
	if err != nil {
		return mapBillingError(c, err)
	}
	return c.JSON(payment)
}

// Delete borra un pago.
// DELETE /api/workspaces/:workspaceId/invoices/:id/payments/:paymentId
func (h *PaymentHandler) Delete(c *fiber.Ctx) error {
	wsID, ok := workspaceScope(c)
	if !ok {
		return nil
	}
	if err := h.uc.Delete(c.Context(), wsID, c.Params("id"), c.Params("paymentId")); err != nil {
		return mapBillingError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// List lista los pagos de la factura.
// GET /api/workspaces/:workspaceId/invoices/:id/payments
func (h *PaymentHandler) List(c *fiber.Ctx) error {
	wsID, ok := workspaceScope(c)
	if !ok {
		return nil
	}
	payments, err := h.uc.List(c.Context(), wsID, c.Params("id"))
	if err != nil {
		return mapBillingError(c, err)
	}
	return c.JSON(payments)
}
