package billing

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Facturacion-api/internal/application/dto"
	"github.com/jhoicas/Facturacion-api/internal/domain/entity"
)

// toInvoiceResponse arma la respuesta plana de la factura: contrato de
// serialización para los consumidores externos (render, API), desacoplado del
// cálculo financiero.
func toInvoiceResponse(inv *entity.Invoice, payer entity.Payer, paid decimal.Decimal) *dto.InvoiceResponse {
	resp := &dto.InvoiceResponse{
		ID:                 inv.ID,
		WorkspaceID:        inv.WorkspaceID,
		ContractID:         inv.ContractID,
		PropertyID:         inv.PropertyID,
		Number:             inv.Number,
		InvoiceDate:        inv.InvoiceDate.Format("2006-01-02"),
		DueDate:            inv.DueDate.Format("2006-01-02"),
		State:              string(inv.State),
		CustomRecipient:    inv.CustomRecipient,
		PayerName:          payer.Name,
		PayerAddress:       payer.Address,
		PayerEmail:         payer.Email,
		PayerPhone:         payer.Phone,
		SentAt:             inv.SentAt,
		TotalAmount:        inv.TotalAmount,
		VatAmount:          inv.VatAmount,
		TotalAmountWithVat: inv.TotalAmountWithVat,
		PaidAmount:         paid,
		UnpaidAmount:       inv.UnpaidAmount(paid),
		Payable:            inv.Payable(paid),
		Rows:               make([]dto.InvoiceRowResponse, 0, len(inv.Rows)),
	}
	for _, r := range inv.Rows {
		resp.Rows = append(resp.Rows, dto.InvoiceRowResponse{
			ID:           r.ID,
			CostType:     r.CostType,
			Description:  r.Description,
			Amount:       r.Amount,
			Unit:         r.Unit,
			UnitPrice:    r.UnitPrice,
			VAT:          r.VAT,
			Total:        r.Total(),
			VatAmount:    r.VatAmount(),
			TotalWithVat: r.TotalWithVat(),
		})
	}
	return resp
}
