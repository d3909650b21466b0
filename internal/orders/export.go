package orders

import (
	"bytes"
	"fmt"

	"github.com/tealeg/xlsx"

	"github.com/procifarmed/storefront-api/pkg/db/models"
	"github.com/procifarmed/storefront-api/pkg/money"
)

const (
	exportSheet    = "Pedidos"
	exportFilename = "pedidos.xlsx"
)

var exportHeaders = []string{
	"Pedido",
	"Data",
	"Cliente",
	"Status",
	"Pagamento",
	"Subtotal",
	"Frete",
	"Total",
}

// ExportFilename names the admin spreadsheet download.
func ExportFilename() string {
	return exportFilename
}

// RenderExport writes the admin orders spreadsheet, one row per order in
// the order given.
func RenderExport(orders []models.Order) ([]byte, error) {
	file := xlsx.NewFile()
	sheet, err := file.AddSheet(exportSheet)
	if err != nil {
		return nil, fmt.Errorf("add sheet: %w", err)
	}

	header := sheet.AddRow()
	style := xlsx.NewStyle()
	style.Font.Bold = true
	style.ApplyFont = true
	for _, h := range exportHeaders {
		cell := header.AddCell()
		cell.SetString(h)
		cell.SetStyle(style)
	}

	for _, o := range orders {
		row := sheet.AddRow()
		row.AddCell().SetString(o.ID.String())
		row.AddCell().SetString(o.CreatedAt.Format("02/01/2006 15:04"))
		row.AddCell().SetString(o.UserID.String())
		row.AddCell().SetString(o.Status.Label())
		row.AddCell().SetString(o.PaymentStatus.Label())
		row.AddCell().SetString(money.FormatBRL(o.SubtotalCents))
		row.AddCell().SetString(money.FormatBRL(o.ShippingCents))
		row.AddCell().SetString(money.FormatBRL(o.TotalCents))
	}

	var buf bytes.Buffer
	if err := file.Write(&buf); err != nil {
		return nil, fmt.Errorf("write xlsx: %w", err)
	}
	return buf.Bytes(), nil
}
