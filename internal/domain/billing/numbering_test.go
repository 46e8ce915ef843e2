package billing_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/Facturacion-api/internal/domain/billing"
)

func TestFormatNumber(t *testing.T) {
	day := time.Date(2026, time.March, 5, 10, 30, 0, 0, time.UTC)

	assert.Equal(t, "FAC202603057", billing.FormatNumber("FAC", day, 7))
	assert.Equal(t, "20260305123", billing.FormatNumber("", day, 123),
		"sin prefijo el número empieza directo con la fecha")
}

func TestFormatNumber_ContadorNoSeRellena(t *testing.T) {
	day := time.Date(2026, time.January, 2, 0, 0, 0, 0, time.UTC)
	// El contador va en decimal plano, sin ceros a la izquierda.
	assert.Equal(t, "X202601021", billing.FormatNumber("X", day, 1))
	assert.Equal(t, "X202601021000", billing.FormatNumber("X", day, 1000))
}

func TestFieldErrors_AcumulaYOrdena(t *testing.T) {
	errs := billing.FieldErrors{}
	assert.True(t, errs.OK())

	errs.Add("due_date", "requerido")
	errs.Add("contract_id", "requerido")
	errs.Add(billing.RowField(0)+".unit", "unidad no permitida")

	assert.False(t, errs.OK())
	assert.Equal(t,
		"validación: contract_id: requerido; due_date: requerido; rows[0].unit: unidad no permitida",
		errs.Error(), "los campos deben salir en orden estable")
}
