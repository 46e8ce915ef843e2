package billing_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Facturacion-api/internal/application/dto"
	"github.com/jhoicas/Facturacion-api/internal/domain"
	domainbilling "github.com/jhoicas/Facturacion-api/internal/domain/billing"
	"github.com/jhoicas/Facturacion-api/internal/domain/entity"
)

const (
	testWorkspaceID = "ws-1"
	testContractID  = "contrato-1"
)

func decPtr(v int64) *decimal.Decimal {
	d := decimal.NewFromInt(v)
	return &d
}

func seedWorkspace(env *billingEnv) {
	_ = env.workspaceRepo.Create(&entity.Workspace{
		ID:                  testWorkspaceID,
		Name:                "Inmobiliaria Centro",
		InvoiceNumberPrefix: "FAC",
	})
	_ = env.contractRepo.Create(&entity.Contract{
		ID:              testContractID,
		WorkspaceID:     testWorkspaceID,
		TenantName:      "María Inquilina",
		TenantEmail:     "maria@example.com",
		PropertyAddress: "Carrera 9 #10-11",
	})
}

// Factura de referencia: 10×5 con IVA 20% + 2×3 sin IVA.
// total = 56, IVA = 10, total con IVA = 66.
func invoiceRequest() dto.CreateInvoiceRequest {
	return dto.CreateInvoiceRequest{
		ContractID:  testContractID,
		InvoiceDate: time.Date(2026, time.March, 5, 0, 0, 0, 0, time.UTC),
		DueDate:     time.Date(2026, time.March, 19, 0, 0, 0, 0, time.UTC),
		Rows: []dto.InvoiceRowRequest{
			{CostType: "renta", Amount: decPtr(10), Unit: "m2", UnitPrice: decimal.NewFromInt(5), VAT: "20"},
			{CostType: "agua", Amount: decPtr(2), Unit: "m3", UnitPrice: decimal.NewFromInt(3), VAT: "0"},
		},
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// Alta
// ──────────────────────────────────────────────────────────────────────────────

func TestInvoiceCreate_NumeraYCalcula(t *testing.T) {
	env := newBillingEnv()
	seedWorkspace(env)

	resp, err := env.invoiceUC.Create(context.Background(), testWorkspaceID, invoiceRequest())
	require.NoError(t, err)

	assert.Equal(t, "unsent", resp.State, "toda factura nace sin enviar")
	wantNumber := "FAC" + time.Now().Format("20060102") + "1"
	assert.Equal(t, wantNumber, resp.Number, "prefijo + fecha + contador")

	assert.True(t, decimal.NewFromInt(56).Equal(resp.TotalAmount))
	assert.True(t, decimal.NewFromInt(10).Equal(resp.VatAmount))
	assert.True(t, decimal.NewFromInt(66).Equal(resp.TotalAmountWithVat))
	assert.True(t, decimal.NewFromInt(66).Equal(resp.UnpaidAmount), "sin pagos el saldo es el total")

	assert.Equal(t, "María Inquilina", resp.PayerName, "el pagador sale del contrato")
	assert.Len(t, resp.Rows, 2)
}

func TestInvoiceCreate_ContadorAvanzaPorFactura(t *testing.T) {
	env := newBillingEnv()
	seedWorkspace(env)
	ctx := context.Background()

	first, err := env.invoiceUC.Create(ctx, testWorkspaceID, invoiceRequest())
	require.NoError(t, err)
	second, err := env.invoiceUC.Create(ctx, testWorkspaceID, invoiceRequest())
	require.NoError(t, err)

	assert.NotEqual(t, first.Number, second.Number)
	assert.True(t, strings.HasSuffix(second.Number, "2"))
}

func TestInvoiceCreate_ValidacionAcumulada(t *testing.T) {
	env := newBillingEnv()
	seedWorkspace(env)

	in := dto.CreateInvoiceRequest{
		Rows: []dto.InvoiceRowRequest{{Unit: "kg"}},
	}
	_, err := env.invoiceUC.Create(context.Background(), testWorkspaceID, in)
	require.Error(t, err)

	var fieldErrs domainbilling.FieldErrors
	require.ErrorAs(t, err, &fieldErrs, "la validación debe reportar errores por campo")
	assert.Contains(t, fieldErrs, "invoice_date")
	assert.Contains(t, fieldErrs, "due_date")
	assert.Contains(t, fieldErrs, "contract_id")
	assert.Contains(t, fieldErrs, "rows[0].unit")

	list, _ := env.invoiceRepo.ListByWorkspace(testWorkspaceID, []domainbilling.State{domainbilling.StateUnsent}, 100, 0)
	assert.Empty(t, list, "una factura inválida no se persiste ni consume número")
}

func TestInvoiceCreate_ContratoDeOtroWorkspace(t *testing.T) {
	env := newBillingEnv()
	seedWorkspace(env)
	_ = env.contractRepo.Create(&entity.Contract{ID: "ajeno", WorkspaceID: "otro-ws", TenantName: "X"})

	in := invoiceRequest()
	in.ContractID = "ajeno"
	_, err := env.invoiceUC.Create(context.Background(), testWorkspaceID, in)
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestInvoiceCreate_ReintentaAnteColision(t *testing.T) {
	env := newBillingEnv()
	seedWorkspace(env)

	// El número que producirá el contador 1 ya está ocupado.
	taken := domainbilling.FormatNumber("FAC", time.Now(), 1)
	env.invoiceRepo.takeNumber(testWorkspaceID, taken)

	resp, err := env.invoiceUC.Create(context.Background(), testWorkspaceID, invoiceRequest())
	require.NoError(t, err, "una colisión aislada se resuelve reintentando el secuenciador")
	assert.True(t, strings.HasSuffix(resp.Number, "2"), "el reintento toma el siguiente contador: %s", resp.Number)
}

func TestInvoiceCreate_ReintentosAcotados(t *testing.T) {
	env := newBillingEnv()
	seedWorkspace(env)

	// Los tres primeros contadores ya están ocupados: se agota el presupuesto.
	for c := int64(1); c <= 3; c++ {
		env.invoiceRepo.takeNumber(testWorkspaceID, domainbilling.FormatNumber("FAC", time.Now(), c))
	}
	_, err := env.invoiceUC.Create(context.Background(), testWorkspaceID, invoiceRequest())
	assert.ErrorIs(t, err, domain.ErrDuplicate, "agotados los reintentos el error sube al caller")
}

// ──────────────────────────────────────────────────────────────────────────────
// Edición
// ──────────────────────────────────────────────────────────────────────────────

func TestInvoiceUpdate_NumeroInmutableYRecalculo(t *testing.T) {
	env := newBillingEnv()
	seedWorkspace(env)
	ctx := context.Background()

	created, err := env.invoiceUC.Create(ctx, testWorkspaceID, invoiceRequest())
	require.NoError(t, err)

	in := invoiceRequest()
	in.Rows = []dto.InvoiceRowRequest{
		{CostType: "renta", Amount: decPtr(4), Unit: "m2", UnitPrice: decimal.NewFromInt(25), VAT: "9"},
	}
	updated, err := env.invoiceUC.Update(ctx, testWorkspaceID, created.ID, in)
	require.NoError(t, err)

	assert.Equal(t, created.Number, updated.Number, "el número asignado jamás cambia")
	assert.True(t, decimal.NewFromInt(100).Equal(updated.TotalAmount))
	assert.True(t, decimal.NewFromInt(9).Equal(updated.VatAmount))
	assert.True(t, decimal.NewFromInt(109).Equal(updated.TotalAmountWithVat))
	assert.Len(t, updated.Rows, 1, "las líneas nuevas reemplazan a las anteriores")
}

func TestInvoiceUpdate_CambioADestinatarioManual(t *testing.T) {
	env := newBillingEnv()
	seedWorkspace(env)
	ctx := context.Background()

	created, err := env.invoiceUC.Create(ctx, testWorkspaceID, invoiceRequest())
	require.NoError(t, err)

	in := invoiceRequest()
	in.ContractID = ""
	in.CustomRecipient = true
	in.RecipientName = "Pagador Directo"
	in.RecipientAddress = "Avenida 5 #6-7"
	in.RecipientEmail = "pagador@example.com"
	in.RecipientPhone = "3200000000"

	updated, err := env.invoiceUC.Update(ctx, testWorkspaceID, created.ID, in)
	require.NoError(t, err)
	assert.Equal(t, "Pagador Directo", updated.PayerName)
	assert.Equal(t, "Avenida 5 #6-7", updated.PayerAddress)
}

func TestInvoiceUpdate_NoEncontrada(t *testing.T) {
	env := newBillingEnv()
	seedWorkspace(env)
	_, err := env.invoiceUC.Update(context.Background(), testWorkspaceID, "no-existe", invoiceRequest())
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// ──────────────────────────────────────────────────────────────────────────────
// Baja y lectura
// ──────────────────────────────────────────────────────────────────────────────

func TestInvoiceDelete_RestringidaConLineas(t *testing.T) {
	env := newBillingEnv()
	seedWorkspace(env)
	ctx := context.Background()

	created, err := env.invoiceUC.Create(ctx, testWorkspaceID, invoiceRequest())
	require.NoError(t, err)

	err = env.invoiceUC.Delete(ctx, testWorkspaceID, created.ID)
	assert.ErrorIs(t, err, domain.ErrDeletionRestricted,
		"con líneas asociadas la baja se rechaza, no hay cascada")
}

func TestInvoiceDelete_SinDependencias(t *testing.T) {
	env := newBillingEnv()
	seedWorkspace(env)
	ctx := context.Background()

	in := invoiceRequest()
	in.Rows = nil
	created, err := env.invoiceUC.Create(ctx, testWorkspaceID, in)
	require.NoError(t, err)

	require.NoError(t, env.invoiceUC.Delete(ctx, testWorkspaceID, created.ID))
	_, err = env.invoiceUC.Get(ctx, testWorkspaceID, created.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestInvoiceGet_WorkspaceAjeno(t *testing.T) {
	env := newBillingEnv()
	seedWorkspace(env)
	ctx := context.Background()

	created, err := env.invoiceUC.Create(ctx, testWorkspaceID, invoiceRequest())
	require.NoError(t, err)

	_, err = env.invoiceUC.Get(ctx, "otro-ws", created.ID)
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestInvoiceList_AgrupaPorEstado(t *testing.T) {
	env := newBillingEnv()
	seedWorkspace(env)
	ctx := context.Background()

	unsent, err := env.invoiceUC.Create(ctx, testWorkspaceID, invoiceRequest())
	require.NoError(t, err)
	sent, err := env.invoiceUC.Create(ctx, testWorkspaceID, invoiceRequest())
	require.NoError(t, err)
	_, err = env.lifecycleUC.Send(ctx, testWorkspaceID, sent.ID)
	require.NoError(t, err)

	out, err := env.invoiceUC.List(ctx, testWorkspaceID, dto.PageRequest{})
	require.NoError(t, err)

	require.Len(t, out.Unsent, 1)
	assert.Equal(t, unsent.ID, out.Unsent[0].ID)
	require.Len(t, out.Sent, 1)
	assert.Equal(t, sent.ID, out.Sent[0].ID)
	assert.Empty(t, out.Paid)
}
