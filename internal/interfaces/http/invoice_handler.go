package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Facturacion-api/internal/application/billing"
	"github.com/jhoicas/Facturacion-api/internal/application/dto"
	"github.com/jhoicas/Facturacion-api/internal/domain"
	domainbilling "github.com/jhoicas/Facturacion-api/internal/domain/billing"
)

// InvoiceHandler maneja el ciclo completo de facturas: CRUD, eventos del ciclo
// de vida (send, resend, pay) y descarga de documentos.
type InvoiceHandler struct {
	invoiceUC   *billing.InvoiceUseCase
	lifecycleUC *billing.LifecycleUseCase
	renderUC    *billing.RenderUseCase
}

// NewInvoiceHandler construye el handler.
func NewInvoiceHandler(invoiceUC *billing.InvoiceUseCase, lifecycleUC *billing.LifecycleUseCase, renderUC *billing.RenderUseCase) *InvoiceHandler {
	return &InvoiceHandler{invoiceUC: invoiceUC, lifecycleUC: lifecycleUC, renderUC: renderUC}
}

// Create crea una factura en estado unsent, numerada y con sus líneas.
// POST /api/workspaces/:workspaceId/invoices
func (h *InvoiceHandler) Create(c *fiber.Ctx) error {
	wsID, ok := workspaceScope(c)
	if !ok {
		return nil
	}
	var in dto.CreateInvoiceRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	invoice, err := h.invoiceUC.Create(c.Context(), wsID, in)
	if err != nil {
		return mapBillingError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(invoice)
}

// Update edita cabecera y líneas; los totales se recalculan.
// PUT /api/workspaces/:workspaceId/invoices/:id
func (h *InvoiceHandler) Update(c *fiber.Ctx) error {
	wsID, ok := workspaceScope(c)
	if !ok {
		return nil
	}
	var in dto.UpdateInvoiceRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	invoice, err := h.invoiceUC.Update(c.Context(), wsID, c.Params("id"), in)
	if err != nil {
		return mapBillingError(c, err)
	}
	return c.JSON(invoice)
}

// Delete borra la factura si no tiene líneas ni pagos asociados.
// DELETE /api/workspaces/:workspaceId/invoices/:id
func (h *InvoiceHandler) Delete(c *fiber.Ctx) error {
	wsID, ok := workspaceScope(c)
	if !ok {
		return nil
	}
	if err := h.invoiceUC.Delete(c.Context(), wsID, c.Params("id")); err != nil {
		return mapBillingError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// GetByID obtiene la factura con líneas, totales y ledger derivado.
// GET /api/workspaces/:workspaceId/invoices/:id
func (h *InvoiceHandler) GetByID(c *fiber.Ctx) error {
	wsID, ok := workspaceScope(c)
	if !ok {
		return nil
	}
	invoice, err := h.invoiceUC.Get(c.Context(), wsID, c.Params("id"))
	if err != nil {
		return mapBillingError(c, err)
	}
	return c.JSON(invoice)
}

// List lista las facturas del workspace agrupadas por estado.
// GET /api/workspaces/:workspaceId/invoices
func (h *InvoiceHandler) List(c *fiber.Ctx) error {
	wsID, ok := workspaceScope(c)
	if !ok {
		return nil
	}
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "paginación inválida"})
	}
	out, err := h.invoiceUC.List(c.Context(), wsID, page)
	if err != nil {
		return mapBillingError(c, err)
	}
	return c.JSON(out)
}

// Send evalúa el evento send (unsent -> sent) y notifica al pagador.
// POST /api/workspaces/:workspaceId/invoices/:id/send
func (h *InvoiceHandler) Send(c *fiber.Ctx) error {
	wsID, ok := workspaceScope(c)
	if !ok {
		return nil
	}
	invoice, err := h.lifecycleUC.Send(c.Context(), wsID, c.Params("id"))
	if err != nil {
		return mapBillingError(c, err)
	}
	return c.JSON(invoice)
}

// Resend reenvía el aviso de una factura ya enviada, sin tocar estado.
// POST /api/workspaces/:workspaceId/invoices/:id/resend
func (h *InvoiceHandler) Resend(c *fiber.Ctx) error {
	wsID, ok := workspaceScope(c)
	if !ok {
		return nil
	}
	if err := h.lifecycleUC.Resend(c.Context(), wsID, c.Params("id")); err != nil {
		return mapBillingError(c, err)
	}
	return c.SendStatus(fiber.StatusAccepted)
}

// Pay evalúa el evento pay contra el ledger fresco.
// POST /api/workspaces/:workspaceId/invoices/:id/pay
func (h *InvoiceHandler) Pay(c *fiber.Ctx) error {
	wsID, ok := workspaceScope(c)
	if !ok {
		return nil
	}
	invoice, err := h.lifecycleUC.Pay(c.Context(), wsID, c.Params("id"))
	if err != nil {
		return mapBillingError(c, err)
	}
	return c.JSON(invoice)
}

// Download genera la representación descargable (pdf o xml).
// GET /api/workspaces/:workspaceId/invoices/:id/download?format=pdf
func (h *InvoiceHandler) Download(c *fiber.Ctx) error {
	wsID, ok := workspaceScope(c)
	if !ok {
		return nil
	}
	format := c.Query("format", billing.FormatPDF)
	data, filename, err := h.renderUC.Download(c.Context(), wsID, c.Params("id"), format)
	if err != nil {
		return mapBillingError(c, err)
	}
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+filename+`"`)
	if format == billing.FormatXML {
		c.Set(fiber.HeaderContentType, fiber.MIMEApplicationXMLCharsetUTF8)
	} else {
		c.Set(fiber.HeaderContentType, "application/pdf")
	}
	return c.Send(data)
}

// mapBillingError traduce los errores del dominio de facturación a HTTP. Los
// errores de validación salen con todos los campos acumulados en un 422.
func mapBillingError(c *fiber.Ctx, err error) error {
	var fieldErrs domainbilling.FieldErrors
	if errors.As(err, &fieldErrs) {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(dto.ValidationErrorResponse{
			Code:   "VALIDATION",
			Fields: fieldErrs,
		})
	}
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "recurso no encontrado"})
	case errors.Is(err, domain.ErrForbidden):
		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "FORBIDDEN", Message: "acceso denegado al recurso"})
	case errors.Is(err, domain.ErrInvalidInput):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "datos inválidos"})
	case errors.Is(err, domain.ErrDuplicate):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "DUPLICATE_NUMBER", Message: "colisión de número de factura, reintente"})
	case errors.Is(err, domain.ErrStateTransitionRejected):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "STATE_TRANSITION", Message: "la transición de estado no aplica al estado actual"})
	case errors.Is(err, domain.ErrDeletionRestricted):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "DELETION_RESTRICTED", Message: "la factura tiene líneas o pagos asociados"})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
}
