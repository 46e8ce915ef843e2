// Package xmlexport produce el documento XML estructurado de una factura de
// cobro, pensado para integración contable externa.
package xmlexport

import (
	"fmt"

	"github.com/beevik/etree"

	appbilling "github.com/jhoicas/Facturacion-api/internal/application/billing"
	"github.com/jhoicas/Facturacion-api/internal/domain/entity"
)

// EtreeRenderer implementa billing.DocumentRenderer generando XML con etree.
type EtreeRenderer struct{}

// NewEtreeRenderer construye el renderer.
func NewEtreeRenderer() *EtreeRenderer { return &EtreeRenderer{} }

var _ appbilling.DocumentRenderer = (*EtreeRenderer)(nil)

// Render genera el XML de la factura y devuelve sus bytes y el nombre de
// archivo sugerido.
func (g *EtreeRenderer) Render(inv *entity.Invoice, payer entity.Payer) ([]byte, string, error) {
	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)

	root := doc.CreateElement("invoice")
	root.CreateAttr("id", inv.ID)

	root.CreateElement("number").SetText(inv.Number)
	root.CreateElement("state").SetText(string(inv.State))
	root.CreateElement("invoice_date").SetText(inv.InvoiceDate.Format("2006-01-02"))
	root.CreateElement("due_date").SetText(inv.DueDate.Format("2006-01-02"))
	if inv.SentAt != nil {
		root.CreateElement("sent_at").SetText(inv.SentAt.Format("2006-01-02T15:04:05Z07:00"))
	}

	payerEl := root.CreateElement("payer")
	payerEl.CreateElement("name").SetText(payer.Name)
	payerEl.CreateElement("address").SetText(payer.Address)
	if payer.Email != "" {
		payerEl.CreateElement("email").SetText(payer.Email)
	}
	if payer.Phone != "" {
		payerEl.CreateElement("phone").SetText(payer.Phone)
	}

	rowsEl := root.CreateElement("rows")
	for _, r := range inv.Rows {
		rowEl := rowsEl.CreateElement("row")
		rowEl.CreateElement("cost_type").SetText(r.CostType)
		if r.Description != "" {
			rowEl.CreateElement("description").SetText(r.Description)
		}
		amountEl := rowEl.CreateElement("amount")
		if r.Amount != nil {
			amountEl.SetText(r.Amount.String())
		} else {
			amountEl.SetText("1")
		}
		rowEl.CreateElement("unit").SetText(r.Unit)
		rowEl.CreateElement("unit_price").SetText(r.UnitPrice.StringFixed(2))
		rowEl.CreateElement("vat").SetText(r.VAT)
		rowEl.CreateElement("total").SetText(r.Total().StringFixed(2))
		rowEl.CreateElement("total_with_vat").SetText(r.TotalWithVat().StringFixed(2))
	}

	totalsEl := root.CreateElement("totals")
	totalsEl.CreateElement("total_amount").SetText(inv.TotalAmount.StringFixed(2))
	totalsEl.CreateElement("vat_amount").SetText(inv.VatAmount.StringFixed(2))
	totalsEl.CreateElement("total_amount_with_vat").SetText(inv.TotalAmountWithVat.StringFixed(2))

	doc.Indent(2)
	data, err := doc.WriteToBytes()
	if err != nil {
		return nil, "", fmt.Errorf("xml: serializar documento: %w", err)
	}
	return data, "factura-" + inv.Number + ".xml", nil
}
