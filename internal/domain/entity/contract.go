package entity

import "time"

// Contract representa un contrato de arriendo dentro de un workspace. Aporta
// los datos del pagador cuando la factura no usa destinatario manual.
type Contract struct {
	ID              string
	WorkspaceID     string
	PropertyID      string
	TenantName      string
	TenantPersonal  string // código personal del inquilino
	TenantEmail     string
	TenantPhone     string
	PropertyAddress string // dirección del inmueble vinculado
	CreatedAt       time.Time
	UpdatedAt       time.Time
}
