package entity

import "time"

// Roles válidos para User.
const (
	RoleAdmin    = "admin"
	RoleGestor   = "gestor"   // administrador de inmuebles
	RoleContador = "contador" // registra pagos y concilia
)

// User representa un usuario del sistema (pertenece a un Workspace).
type User struct {
	ID           string
	WorkspaceID  string
	Email        string
	PasswordHash string // bcrypt hash, nunca plano en dominio después de persistir
	Name         string
	Role         string // admin, gestor, contador
	Status       string // active, inactive, suspended
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
