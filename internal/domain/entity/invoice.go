package entity

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Facturacion-api/internal/domain/billing"
)

// Invoice representa la cabecera de una factura de cobro de un inmueble.
// Los tres totales son derivados: se recalculan siempre antes de persistir,
// nunca se parchan de forma incremental.
type Invoice struct {
	ID          string
	WorkspaceID string
	ContractID  string // requerido cuando CustomRecipient es false
	PropertyID  string // opcional
	Number      string // único por workspace; se asigna una sola vez y es inmutable
	InvoiceDate time.Time
	DueDate     time.Time
	State       billing.State

	// Destinatario manual: cuando CustomRecipient es true el pagador sale de
	// estos campos; cuando es false, del contrato vinculado.
	CustomRecipient       bool
	RecipientName         string
	RecipientAddress      string
	RecipientPersonalCode string
	RecipientRegisterCode string
	RecipientEmail        string
	RecipientPhone        string

	SentAt *time.Time

	TotalAmount        decimal.Decimal
	VatAmount          decimal.Decimal
	TotalAmountWithVat decimal.Decimal

	Rows []*InvoiceRow

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Payer es el destinatario resuelto de la factura.
type Payer struct {
	Name    string
	Address string
	Email   string
	Phone   string
}

// CalculateAmounts recalcula los tres totales a partir de las líneas.
// Debe invocarse antes de cada persistencia de la factura o de sus líneas.
func (i *Invoice) CalculateAmounts() {
	total := decimal.Zero
	vat := decimal.Zero
	for _, r := range i.Rows {
		total = total.Add(r.Total())
		vat = vat.Add(r.VatAmount())
	}
	i.TotalAmount = total
	i.VatAmount = vat
	i.TotalAmountWithVat = total.Add(vat)
}

// ResolvePayer resuelve el pagador: campos propios si CustomRecipient,
// datos del contrato (inquilino + dirección del inmueble) en caso contrario.
// contract puede ser nil solo cuando CustomRecipient es true.
func (i *Invoice) ResolvePayer(contract *Contract) Payer {
	if i.CustomRecipient {
		return Payer{
			Name:    i.RecipientName,
			Address: i.RecipientAddress,
			Email:   i.RecipientEmail,
			Phone:   i.RecipientPhone,
		}
	}
	if contract == nil {
		return Payer{}
	}
	return Payer{
		Name:    contract.TenantName,
		Address: contract.PropertyAddress,
		Email:   contract.TenantEmail,
		Phone:   contract.TenantPhone,
	}
}

// GuardInputs arma las entradas de guardia del ciclo de vida con el monto
// pagado leído del ledger en el momento de la evaluación.
func (i *Invoice) GuardInputs(paidAmount decimal.Decimal) billing.GuardInputs {
	return billing.GuardInputs{
		PaidAmount:   paidAmount,
		TotalWithVat: i.TotalAmountWithVat,
	}
}

// Payable indica si la factura acepta pagos: enviada o parcialmente pagada
// y con saldo pendiente.
func (i *Invoice) Payable(paidAmount decimal.Decimal) bool {
	if i.State != billing.StateSent && i.State != billing.StatePartlyPaid {
		return false
	}
	return paidAmount.LessThan(i.TotalAmountWithVat)
}

// UnpaidAmount devuelve total con IVA menos lo pagado. Puede ser negativo si
// hubo sobrepago; no se recorta ni se reembolsa aquí.
func (i *Invoice) UnpaidAmount(paidAmount decimal.Decimal) decimal.Decimal {
	return i.TotalAmountWithVat.Sub(paidAmount)
}

// Validate acumula errores de validación por campo sin cortar en el primero:
// presencia estructural, luego los campos requeridos según la rama de
// destinatario. La unicidad del número la garantiza la constraint de la DB.
func (i *Invoice) Validate() billing.FieldErrors {
	errs := billing.FieldErrors{}
	if i.WorkspaceID == "" {
		errs.Add("workspace_id", "requerido")
	}
	if i.InvoiceDate.IsZero() {
		errs.Add("invoice_date", "requerido")
	}
	if i.DueDate.IsZero() {
		errs.Add("due_date", "requerido")
	}
	if i.CustomRecipient {
		if i.RecipientName == "" {
			errs.Add("recipient_name", "requerido")
		}
		if i.RecipientAddress == "" {
			errs.Add("recipient_address", "requerido")
		}
		if i.RecipientEmail == "" {
			errs.Add("recipient_email", "requerido")
		}
		if i.RecipientPhone == "" {
			errs.Add("recipient_phone", "requerido")
		}
	} else if i.ContractID == "" {
		errs.Add("contract_id", "requerido")
	}
	for idx, r := range i.Rows {
		r.ValidateInto(idx, errs)
	}
	return errs
}

// ValidateInto acumula los errores de la línea en errs usando el índice de la
// línea como prefijo de campo (rows[0].cost_type, ...).
func (r *InvoiceRow) ValidateInto(idx int, errs billing.FieldErrors) {
	prefix := billing.RowField(idx)
	if r.CostType == "" {
		errs.Add(prefix+".cost_type", "requerido")
	}
	if r.Amount == nil {
		errs.Add(prefix+".amount", "requerido")
	}
	if r.UnitPrice.IsZero() {
		errs.Add(prefix+".unit_price", "requerido")
	}
	if !r.ValidUnit() {
		errs.Add(prefix+".unit", "unidad no permitida")
	}
}
