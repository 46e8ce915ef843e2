package billing_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Facturacion-api/internal/application/dto"
	"github.com/jhoicas/Facturacion-api/internal/domain"
)

func paymentRequest(amount int64) dto.PaymentRequest {
	return dto.PaymentRequest{
		Amount:      decimal.NewFromInt(amount),
		PaymentDate: time.Date(2026, time.March, 10, 0, 0, 0, 0, time.UTC),
		Description: "transferencia",
	}
}

func TestPaymentRecord_SumaAlLedger(t *testing.T) {
	env := newBillingEnv()
	seedWorkspace(env)
	ctx := context.Background()
	id := createAndSend(t, env)

	_, err := env.paymentUC.Record(ctx, testWorkspaceID, id, paymentRequest(30))
	require.NoError(t, err)
	_, err = env.paymentUC.Record(ctx, testWorkspaceID, id, paymentRequest(6))
	require.NoError(t, err)

	paid, err := env.ledger.PaidAmount(id)
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(36).Equal(paid), "el ledger es la suma fresca de los pagos")
}

func TestPaymentRecord_EntradasInvalidas(t *testing.T) {
	env := newBillingEnv()
	seedWorkspace(env)
	ctx := context.Background()
	id := createAndSend(t, env)

	_, err := env.paymentUC.Record(ctx, testWorkspaceID, id, dto.PaymentRequest{
		Amount:      decimal.NewFromInt(-5),
		PaymentDate: time.Now(),
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "monto no positivo")

	_, err = env.paymentUC.Record(ctx, testWorkspaceID, id, dto.PaymentRequest{
		Amount: decimal.NewFromInt(10),
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "fecha de pago requerida")
}

func TestPaymentRecord_FacturaAjena(t *testing.T) {
	env := newBillingEnv()
	seedWorkspace(env)
	id := createAndSend(t, env)

	_, err := env.paymentUC.Record(context.Background(), "otro-ws", id, paymentRequest(10))
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestPaymentUpdate_ModificaElLedger(t *testing.T) {
	env := newBillingEnv()
	seedWorkspace(env)
	ctx := context.Background()
	id := createAndSend(t, env)

	p, err := env.paymentUC.Record(ctx, testWorkspaceID, id, paymentRequest(30))
	require.NoError(t, err)

	_, err = env.paymentUC.Update(ctx, testWorkspaceID, id, p.ID, paymentRequest(50))
	require.NoError(t, err)

	paid, err := env.ledger.PaidAmount(id)
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(50).Equal(paid))
}

func TestPaymentUpdate_PagoDeOtraFactura(t *testing.T) {
	env := newBillingEnv()
	seedWorkspace(env)
	ctx := context.Background()
	first := createAndSend(t, env)
	second := createAndSend(t, env)

	p, err := env.paymentUC.Record(ctx, testWorkspaceID, first, paymentRequest(30))
	require.NoError(t, err)

	_, err = env.paymentUC.Update(ctx, testWorkspaceID, second, p.ID, paymentRequest(50))
	assert.ErrorIs(t, err, domain.ErrNotFound, "el pago debe pertenecer a la factura de la ruta")
}

func TestPaymentList(t *testing.T) {
	env := newBillingEnv()
	seedWorkspace(env)
	ctx := context.Background()
	id := createAndSend(t, env)

	_, err := env.paymentUC.Record(ctx, testWorkspaceID, id, paymentRequest(30))
	require.NoError(t, err)
	_, err = env.paymentUC.Record(ctx, testWorkspaceID, id, paymentRequest(6))
	require.NoError(t, err)

	payments, err := env.paymentUC.List(ctx, testWorkspaceID, id)
	require.NoError(t, err)
	assert.Len(t, payments, 2)
}
