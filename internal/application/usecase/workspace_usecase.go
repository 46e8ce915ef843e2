package usecase

import (
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/Facturacion-api/internal/application/dto"
	"github.com/jhoicas/Facturacion-api/internal/domain"
	"github.com/jhoicas/Facturacion-api/internal/domain/entity"
	"github.com/jhoicas/Facturacion-api/internal/domain/repository"
)

// WorkspaceUseCase altas y consulta de workspaces y contratos (datos maestros
// mínimos para que facturación tenga destinatarios y numeración).
type WorkspaceUseCase struct {
	workspaceRepo repository.WorkspaceRepository
	contractRepo  repository.ContractRepository
}

// NewWorkspaceUseCase construye el caso de uso.
func NewWorkspaceUseCase(workspaceRepo repository.WorkspaceRepository, contractRepo repository.ContractRepository) *WorkspaceUseCase {
	return &WorkspaceUseCase{workspaceRepo: workspaceRepo, contractRepo: contractRepo}
}

// Create crea un workspace con su prefijo de numeración; el contador parte en 0.
func (uc *WorkspaceUseCase) Create(in dto.CreateWorkspaceRequest) (*dto.WorkspaceResponse, error) {
	if in.Name == "" || in.InvoiceNumberPrefix == "" {
		return nil, domain.ErrInvalidInput
	}
	now := time.Now()
	ws := &entity.Workspace{
		ID:                  uuid.New().String(),
		Name:                in.Name,
		InvoiceNumberPrefix: in.InvoiceNumberPrefix,
		CreatedAt:           now,
		UpdatedAt:           now,
	}
	if err := uc.workspaceRepo.Create(ws); err != nil {
		return nil, err
	}
	return toWorkspaceResponse(ws), nil
}

// GetByID obtiene un workspace.
func (uc *WorkspaceUseCase) GetByID(id string) (*dto.WorkspaceResponse, error) {
	ws, err := uc.workspaceRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if ws == nil {
		return nil, domain.ErrNotFound
	}
	return toWorkspaceResponse(ws), nil
}

// List lista workspaces con paginación.
func (uc *WorkspaceUseCase) List(page dto.PageRequest) ([]dto.WorkspaceResponse, error) {
	page.DefaultPage()
	list, err := uc.workspaceRepo.List(page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	out := make([]dto.WorkspaceResponse, 0, len(list))
	for _, ws := range list {
		out = append(out, *toWorkspaceResponse(ws))
	}
	return out, nil
}

// CreateContract crea un contrato dentro del workspace.
func (uc *WorkspaceUseCase) CreateContract(workspaceID string, in dto.CreateContractRequest) (*dto.ContractResponse, error) {
	if in.TenantName == "" || in.TenantEmail == "" || in.PropertyAddress == "" {
		return nil, domain.ErrInvalidInput
	}
	ws, err := uc.workspaceRepo.GetByID(workspaceID)
	if err != nil {
		return nil, err
	}
	if ws == nil {
		return nil, domain.ErrNotFound
	}
	now := time.Now()
	c := &entity.Contract{
		ID:              uuid.New().String(),
		WorkspaceID:     workspaceID,
		PropertyID:      in.PropertyID,
		TenantName:      in.TenantName,
		TenantPersonal:  in.TenantPersonal,
		TenantEmail:     in.TenantEmail,
		TenantPhone:     in.TenantPhone,
		PropertyAddress: in.PropertyAddress,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if err := uc.contractRepo.Create(c); err != nil {
		return nil, err
	}
	return toContractResponse(c), nil
}

// ListContracts lista los contratos del workspace.
func (uc *WorkspaceUseCase) ListContracts(workspaceID string, page dto.PageRequest) ([]dto.ContractResponse, error) {
	page.DefaultPage()
	list, err := uc.contractRepo.ListByWorkspace(workspaceID, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	out := make([]dto.ContractResponse, 0, len(list))
	for _, c := range list {
		out = append(out, *toContractResponse(c))
	}
	return out, nil
}

func toWorkspaceResponse(ws *entity.Workspace) *dto.WorkspaceResponse {
	return &dto.WorkspaceResponse{
		ID:                  ws.ID,
		Name:                ws.Name,
		InvoiceNumberPrefix: ws.InvoiceNumberPrefix,
	}
}

func toContractResponse(c *entity.Contract) *dto.ContractResponse {
	return &dto.ContractResponse{
		ID:              c.ID,
		WorkspaceID:     c.WorkspaceID,
		PropertyID:      c.PropertyID,
		TenantName:      c.TenantName,
		TenantEmail:     c.TenantEmail,
		TenantPhone:     c.TenantPhone,
		PropertyAddress: c.PropertyAddress,
	}
}
