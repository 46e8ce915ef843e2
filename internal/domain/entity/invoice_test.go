package entity_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Facturacion-api/internal/domain/entity"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers
// ──────────────────────────────────────────────────────────────────────────────

func dec(v int64) decimal.Decimal { return decimal.NewFromInt(v) }

func decPtr(v int64) *decimal.Decimal {
	d := decimal.NewFromInt(v)
	return &d
}

func row(amount *decimal.Decimal, unitPrice int64, vat string) *entity.InvoiceRow {
	return &entity.InvoiceRow{
		CostType:  "renta",
		Amount:    amount,
		Unit:      "m2",
		UnitPrice: dec(unitPrice),
		VAT:       vat,
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// Cálculo por línea
// ──────────────────────────────────────────────────────────────────────────────

func TestInvoiceRow_Total(t *testing.T) {
	r := row(decPtr(10), 5, "20")
	assert.True(t, dec(50).Equal(r.Total()), "total = cantidad * precio unitario")
}

func TestInvoiceRow_SinCantidadAsumeUno(t *testing.T) {
	r := row(nil, 5, "0")
	assert.True(t, dec(5).Equal(r.Total()), "sin cantidad el total asume 1")
}

func TestInvoiceRow_IVAPorCodigo(t *testing.T) {
	cases := []struct {
		vat      string
		fraction string
	}{
		{"0", "0"},
		{"9", "0.09"},
		{"20", "0.2"},
		{"n/a", "0"},
		{"otra-cosa", "0"}, // código desconocido: 0, nunca error
		{"", "0"},
	}
	for _, tc := range cases {
		r := row(decPtr(1), 100, tc.vat)
		want := decimal.RequireFromString(tc.fraction)
		assert.True(t, want.Equal(r.VatFraction()), "código %q", tc.vat)
	}
}

func TestInvoiceRow_TotalConIVA(t *testing.T) {
	r := row(decPtr(10), 5, "20")
	assert.True(t, dec(10).Equal(r.VatAmount()), "IVA = 50 * 0.20")
	assert.True(t, dec(60).Equal(r.TotalWithVat()))
}

func TestInvoiceRow_UnidadesPermitidas(t *testing.T) {
	for _, u := range entity.AvailableUnits {
		r := &entity.InvoiceRow{Unit: u}
		assert.True(t, r.ValidUnit(), "unidad %q debe ser válida", u)
	}
	for _, u := range []string{"kg", "horas", "", "M2"} {
		r := &entity.InvoiceRow{Unit: u}
		assert.False(t, r.ValidUnit(), "unidad %q debe rechazarse", u)
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// Totales de la factura
// ──────────────────────────────────────────────────────────────────────────────

// Dos líneas: 10×5 con IVA 20% y 2×3 sin IVA.
// total = 50 + 6 = 56; IVA = 10; total con IVA = 66.
func TestInvoice_CalculateAmounts(t *testing.T) {
	inv := &entity.Invoice{
		Rows: []*entity.InvoiceRow{
			row(decPtr(10), 5, "20"),
			row(decPtr(2), 3, "0"),
		},
	}
	inv.CalculateAmounts()

	assert.True(t, dec(56).Equal(inv.TotalAmount), "total: %s", inv.TotalAmount)
	assert.True(t, dec(10).Equal(inv.VatAmount), "IVA: %s", inv.VatAmount)
	assert.True(t, dec(66).Equal(inv.TotalAmountWithVat), "total con IVA: %s", inv.TotalAmountWithVat)
}

func TestInvoice_CalculateAmounts_SinLineas(t *testing.T) {
	inv := &entity.Invoice{}
	inv.CalculateAmounts()
	assert.True(t, inv.TotalAmount.IsZero())
	assert.True(t, inv.VatAmount.IsZero())
	assert.True(t, inv.TotalAmountWithVat.IsZero())
}

func TestInvoice_UnpaidAmount_SobrepagoNegativo(t *testing.T) {
	inv := &entity.Invoice{TotalAmountWithVat: dec(66)}
	assert.True(t, dec(-34).Equal(inv.UnpaidAmount(dec(100))),
		"el saldo negativo por sobrepago se reporta tal cual, no se recorta")
}

// ──────────────────────────────────────────────────────────────────────────────
// Resolución del pagador
// ──────────────────────────────────────────────────────────────────────────────

func TestInvoice_ResolvePayer_Manual(t *testing.T) {
	inv := &entity.Invoice{
		CustomRecipient:  true,
		RecipientName:    "Juan Arrendatario",
		RecipientAddress: "Calle 1 #2-3",
		RecipientEmail:   "juan@example.com",
		RecipientPhone:   "3001234567",
	}
	// El contrato se ignora por completo en la rama manual.
	p := inv.ResolvePayer(&entity.Contract{TenantName: "Otro"})
	assert.Equal(t, "Juan Arrendatario", p.Name)
	assert.Equal(t, "Calle 1 #2-3", p.Address)
	assert.Equal(t, "juan@example.com", p.Email)
}

func TestInvoice_ResolvePayer_DesdeContrato(t *testing.T) {
	inv := &entity.Invoice{ContractID: "c1"}
	p := inv.ResolvePayer(&entity.Contract{
		TenantName:      "María Inquilina",
		TenantEmail:     "maria@example.com",
		TenantPhone:     "3110000000",
		PropertyAddress: "Carrera 9 #10-11",
	})
	assert.Equal(t, "María Inquilina", p.Name)
	assert.Equal(t, "Carrera 9 #10-11", p.Address, "la dirección sale del inmueble del contrato")
}

// ──────────────────────────────────────────────────────────────────────────────
// Validación acumulativa
// ──────────────────────────────────────────────────────────────────────────────

func validInvoice() *entity.Invoice {
	return &entity.Invoice{
		WorkspaceID: "ws1",
		ContractID:  "c1",
		InvoiceDate: time.Now(),
		DueDate:     time.Now().AddDate(0, 0, 14),
		Rows: []*entity.InvoiceRow{
			row(decPtr(10), 5, "20"),
		},
	}
}

func TestInvoice_Validate_Valida(t *testing.T) {
	errs := validInvoice().Validate()
	assert.True(t, errs.OK(), "no debe haber errores: %v", errs)
}

func TestInvoice_Validate_AcumulaTodosLosCampos(t *testing.T) {
	inv := &entity.Invoice{
		Rows: []*entity.InvoiceRow{
			{Unit: "kg"}, // cost_type, amount, unit_price y unit inválidos
		},
	}
	errs := inv.Validate()
	require.False(t, errs.OK())

	for _, field := range []string{
		"workspace_id", "invoice_date", "due_date", "contract_id",
		"rows[0].cost_type", "rows[0].amount", "rows[0].unit_price", "rows[0].unit",
	} {
		assert.Contains(t, errs, field, "debe acumular el error de %s en una sola vuelta", field)
	}
}

func TestInvoice_Validate_DestinatarioManual(t *testing.T) {
	inv := validInvoice()
	inv.CustomRecipient = true
	inv.ContractID = ""

	errs := inv.Validate()
	require.False(t, errs.OK())
	for _, field := range []string{"recipient_name", "recipient_address", "recipient_email", "recipient_phone"} {
		assert.Contains(t, errs, field)
	}
	assert.NotContains(t, errs, "contract_id",
		"con destinatario manual el contrato no es requerido")
}

func TestInvoice_Validate_ContratoRequeridoSinManual(t *testing.T) {
	inv := validInvoice()
	inv.ContractID = ""
	errs := inv.Validate()
	require.False(t, errs.OK())
	assert.Contains(t, errs, "contract_id")
}

func TestInvoice_Payable(t *testing.T) {
	inv := validInvoice()
	inv.CalculateAmounts() // total con IVA = 60
	inv.State = "sent"
	assert.True(t, inv.Payable(dec(0)))
	assert.True(t, inv.Payable(dec(30)))
	assert.False(t, inv.Payable(dec(60)), "sin saldo pendiente no acepta más pagos")

	inv.State = "unsent"
	assert.False(t, inv.Payable(dec(0)), "una factura sin enviar nunca es pagable")
}
