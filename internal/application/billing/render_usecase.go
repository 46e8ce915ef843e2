package billing

import (
	"context"

	"github.com/jhoicas/Facturacion-api/internal/domain"
	"github.com/jhoicas/Facturacion-api/internal/domain/repository"
)

// Formatos de descarga soportados.
const (
	FormatPDF = "pdf"
	FormatXML = "xml"
)

// RenderUseCase produce la representación descargable de una factura a
// través de los DocumentRenderer registrados. El render es bajo demanda y no
// forma parte del ciclo de vida.
type RenderUseCase struct {
	invoiceRepo  repository.InvoiceRepository
	contractRepo repository.ContractRepository
	renderers    map[string]DocumentRenderer
}

// NewRenderUseCase construye el caso de uso con un renderer por formato.
func NewRenderUseCase(
	invoiceRepo repository.InvoiceRepository,
	contractRepo repository.ContractRepository,
	pdfRenderer DocumentRenderer,
	xmlRenderer DocumentRenderer,
) *RenderUseCase {
	return &RenderUseCase{
		invoiceRepo:  invoiceRepo,
		contractRepo: contractRepo,
		renderers: map[string]DocumentRenderer{
			FormatPDF: pdfRenderer,
			FormatXML: xmlRenderer,
		},
	}
}

// Download carga la factura con líneas, resuelve el pagador y genera el
// documento en el formato pedido ("pdf" o "xml").
func (uc *RenderUseCase) Download(ctx context.Context, workspaceID, invoiceID, format string) (data []byte, filename string, err error) {
	renderer, ok := uc.renderers[format]
	if !ok {
		return nil, "", domain.ErrInvalidInput
	}
	inv, err := uc.invoiceRepo.GetByID(invoiceID)
	if err != nil {
		return nil, "", err
	}
	if inv == nil {
		return nil, "", domain.ErrNotFound
	}
	if inv.WorkspaceID != workspaceID {
		return nil, "", domain.ErrForbidden
	}
	rows, err := uc.invoiceRepo.GetRowsByInvoiceID(invoiceID)
	if err != nil {
		return nil, "", err
	}
	inv.Rows = rows

	var payer = inv.ResolvePayer(nil)
	if !inv.CustomRecipient && inv.ContractID != "" {
		contract, err := uc.contractRepo.GetByID(inv.ContractID)
		if err != nil {
			return nil, "", err
		}
		payer = inv.ResolvePayer(contract)
	}
	return renderer.Render(inv, payer)
}
