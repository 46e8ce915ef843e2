package dto

// CreateWorkspaceRequest body para POST /api/workspaces.
type CreateWorkspaceRequest struct {
	Name                string `json:"name"`
	InvoiceNumberPrefix string `json:"invoice_number_prefix"`
}

// WorkspaceResponse workspace en respuestas. El contador no se expone.
type WorkspaceResponse struct {
	ID                  string `json:"id"`
	Name                string `json:"name"`
	InvoiceNumberPrefix string `json:"invoice_number_prefix"`
}

// CreateContractRequest body para POST /api/workspaces/:workspaceId/contracts.
type CreateContractRequest struct {
	PropertyID      string `json:"property_id,omitempty"`
	TenantName      string `json:"tenant_name"`
	TenantPersonal  string `json:"tenant_personal_code,omitempty"`
	TenantEmail     string `json:"tenant_email"`
	TenantPhone     string `json:"tenant_phone,omitempty"`
	PropertyAddress string `json:"property_address"`
}

// ContractResponse contrato en respuestas.
type ContractResponse struct {
	ID              string `json:"id"`
	WorkspaceID     string `json:"workspace_id"`
	PropertyID      string `json:"property_id,omitempty"`
	TenantName      string `json:"tenant_name"`
	TenantEmail     string `json:"tenant_email,omitempty"`
	TenantPhone     string `json:"tenant_phone,omitempty"`
	PropertyAddress string `json:"property_address,omitempty"`
}
