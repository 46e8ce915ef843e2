package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Facturacion-api/internal/application/dto"
	"github.com/jhoicas/Facturacion-api/internal/application/usecase"
)

// WorkspaceHandler maneja workspaces y sus contratos.
type WorkspaceHandler struct {
	uc *usecase.WorkspaceUseCase
}

// NewWorkspaceHandler construye el handler.
func NewWorkspaceHandler(uc *usecase.WorkspaceUseCase) *WorkspaceHandler {
	return &WorkspaceHandler{uc: uc}
}

// Create crea un workspace con su prefijo de numeración.
// POST /api/workspaces
func (h *WorkspaceHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateWorkspaceRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	ws, err := h.uc.Create(in)
	if err != nil {
		return mapBillingError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(ws)
}

// GetByID obtiene un workspace.
// GET /api/workspaces/:workspaceId
func (h *WorkspaceHandler) GetByID(c *fiber.Ctx) error {
	wsID, ok := workspaceScope(c)
	if !ok {
		return nil
	}
	ws, err := h.uc.GetByID(wsID)
	if err != nil {
		return mapBillingError(c, err)
	}
	return c.JSON(ws)
}

// CreateContract crea un contrato dentro del workspace.
// POST /api/workspaces/:workspaceId/contracts
func (h *WorkspaceHandler) CreateContract(c *fiber.Ctx) error {
	wsID, ok := workspaceScope(c)
	if !ok {
		return nil
	}
	var in dto.CreateContractRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	contract, err := h.uc.CreateContract(wsID, in)
	if err != nil {
		return mapBillingError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(contract)
}

// ListContracts lista los contratos del workspace.
// GET /api/workspaces/:workspaceId/contracts
func (h *WorkspaceHandler) ListContracts(c *fiber.Ctx) error {
	wsID, ok := workspaceScope(c)
	if !ok {
		return nil
	}
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "paginación inválida"})
	}
	contracts, err := h.uc.ListContracts(wsID, page)
	if err != nil {
		return mapBillingError(c, err)
	}
	return c.JSON(contracts)
}
