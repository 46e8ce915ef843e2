package entity

import "time"

// Workspace representa el espacio de trabajo (tenant) que agrupa inmuebles,
// contratos y facturas. Es dueño del estado de numeración de facturas.
type Workspace struct {
	ID                   string
	Name                 string
	InvoiceNumberPrefix  string // prefijo del número de factura, ej. "ARR"
	InvoiceNumberCounter int64  // se avanza exactamente una vez por factura numerada
	CreatedAt            time.Time
	UpdatedAt            time.Time
}
