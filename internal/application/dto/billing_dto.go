package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// InvoiceRowRequest línea de factura en altas y ediciones.
// Amount es puntero: ausente (nil) es un error de validación, aunque el
// cálculo del total asuma 1 para líneas sin cantidad.
type InvoiceRowRequest struct {
	ID          string           `json:"id,omitempty"` // vacío en altas
	CostType    string           `json:"cost_type"`
	Description string           `json:"description,omitempty"`
	Amount      *decimal.Decimal `json:"amount"`
	Unit        string           `json:"unit"` // m2, m3, kwh, piece, times, litres
	UnitPrice   decimal.Decimal  `json:"unit_price"`
	VAT         string           `json:"vat"` // "0", "9", "20", "n/a"
}

// CreateInvoiceRequest body para POST /api/workspaces/:workspaceId/invoices.
// El número NO viene en el body: lo asigna el secuenciador la primera vez que
// la factura pasa la validación.
type CreateInvoiceRequest struct {
	ContractID  string              `json:"contract_id,omitempty"`
	PropertyID  string              `json:"property_id,omitempty"`
	InvoiceDate time.Time           `json:"invoice_date"`
	DueDate     time.Time           `json:"due_date"`
	Rows        []InvoiceRowRequest `json:"rows"`

	CustomRecipient       bool   `json:"custom_recipient"`
	RecipientName         string `json:"recipient_name,omitempty"`
	RecipientAddress      string `json:"recipient_address,omitempty"`
	RecipientPersonalCode string `json:"recipient_personal_code,omitempty"`
	RecipientRegisterCode string `json:"recipient_register_code,omitempty"`
	RecipientEmail        string `json:"recipient_email,omitempty"`
	RecipientPhone        string `json:"recipient_phone,omitempty"`
}

// UpdateInvoiceRequest body para PUT /api/.../invoices/:id. Mismos campos que
// el alta; las líneas reemplazan a las existentes y los totales se recalculan.
type UpdateInvoiceRequest = CreateInvoiceRequest

// InvoiceRowResponse línea en respuestas, con sus montos derivados.
type InvoiceRowResponse struct {
	ID           string           `json:"id"`
	CostType     string           `json:"cost_type"`
	Description  string           `json:"description,omitempty"`
	Amount       *decimal.Decimal `json:"amount"`
	Unit         string           `json:"unit"`
	UnitPrice    decimal.Decimal  `json:"unit_price"`
	VAT          string           `json:"vat"`
	Total        decimal.Decimal  `json:"total"`
	VatAmount    decimal.Decimal  `json:"vat_amount"`
	TotalWithVat decimal.Decimal  `json:"total_with_vat"`
}

// InvoiceResponse factura con totales, estado y ledger derivado.
type InvoiceResponse struct {
	ID                 string               `json:"id"`
	WorkspaceID        string               `json:"workspace_id"`
	ContractID         string               `json:"contract_id,omitempty"`
	PropertyID         string               `json:"property_id,omitempty"`
	Number             string               `json:"number"`
	InvoiceDate        string               `json:"invoice_date"`
	DueDate            string               `json:"due_date"`
	State              string               `json:"state"`
	CustomRecipient    bool                 `json:"custom_recipient"`
	PayerName          string               `json:"payer_name,omitempty"`
	PayerAddress       string               `json:"payer_address,omitempty"`
	PayerEmail         string               `json:"payer_email,omitempty"`
	PayerPhone         string               `json:"payer_phone,omitempty"`
	SentAt             *time.Time           `json:"sent_at,omitempty"`
	TotalAmount        decimal.Decimal      `json:"total_amount"`
	VatAmount          decimal.Decimal      `json:"vat_amount"`
	TotalAmountWithVat decimal.Decimal      `json:"total_amount_with_vat"`
	PaidAmount         decimal.Decimal      `json:"paid_amount"`
	UnpaidAmount       decimal.Decimal      `json:"unpaid_amount"`
	Payable            bool                 `json:"payable"`
	Rows               []InvoiceRowResponse `json:"rows"`
}

// InvoiceListResponse listado agrupado por estado del ciclo de vida.
type InvoiceListResponse struct {
	Unsent []InvoiceResponse `json:"unsent"`
	Sent   []InvoiceResponse `json:"sent"`
	Paid   []InvoiceResponse `json:"paid"`
}

// PaymentRequest body para crear o editar un pago.
type PaymentRequest struct {
	Amount      decimal.Decimal `json:"amount"`
	PaymentDate time.Time       `json:"payment_date"`
	Description string          `json:"description,omitempty"`
}

// PaymentResponse pago en respuestas.
type PaymentResponse struct {
	ID          string          `json:"id"`
	InvoiceID   string          `json:"invoice_id"`
	Amount      decimal.Decimal `json:"amount"`
	PaymentDate string          `json:"payment_date"`
	Description string          `json:"description,omitempty"`
}
