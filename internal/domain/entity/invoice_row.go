package entity

import "github.com/shopspring/decimal"

// Unidades válidas para una línea de factura.
var AvailableUnits = []string{"m2", "m3", "kwh", "piece", "times", "litres"}

// VATMapping mapea el código de IVA de la línea a su fracción.
// Un código desconocido o vacío se trata como 0.
var VATMapping = map[string]decimal.Decimal{
	"0":   decimal.Zero,
	"9":   decimal.New(9, -2),  // 0.09
	"20":  decimal.New(20, -2), // 0.20
	"n/a": decimal.Zero,
}

// InvoiceRow representa una línea de costo de una factura.
// Amount es nil cuando no se indicó cantidad; el cálculo asume 1.
type InvoiceRow struct {
	ID          string
	InvoiceID   string
	CostType    string
	Description string
	Amount      *decimal.Decimal
	Unit        string // ver AvailableUnits
	UnitPrice   decimal.Decimal
	VAT         string // código: "0", "9", "20", "n/a"
}

// Total devuelve (amount o 1) * unit_price.
func (r *InvoiceRow) Total() decimal.Decimal {
	amount := decimal.NewFromInt(1)
	if r.Amount != nil {
		amount = *r.Amount
	}
	return amount.Mul(r.UnitPrice)
}

// VatFraction devuelve la fracción de IVA según el código de la línea.
func (r *InvoiceRow) VatFraction() decimal.Decimal {
	if f, ok := VATMapping[r.VAT]; ok {
		return f
	}
	return decimal.Zero
}

// VatAmount devuelve total * fracción de IVA.
func (r *InvoiceRow) VatAmount() decimal.Decimal {
	return r.Total().Mul(r.VatFraction())
}

// TotalWithVat devuelve total + IVA.
func (r *InvoiceRow) TotalWithVat() decimal.Decimal {
	return r.Total().Add(r.VatAmount())
}

// ValidUnit indica si la unidad está en la lista blanca.
func (r *InvoiceRow) ValidUnit() bool {
	for _, u := range AvailableUnits {
		if r.Unit == u {
			return true
		}
	}
	return false
}
