package orders

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/jung-kurt/gofpdf"

	"github.com/procifarmed/storefront-api/pkg/db/models"
	"github.com/procifarmed/storefront-api/pkg/money"
)

const (
	storeName    = "Procifarmed"
	receiptTitle = "Comprovante do pedido"
)

// RenderReceipt draws the A4 order receipt from the order and its delivery
// snapshot.
func RenderReceipt(order models.Order) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetTitle(receiptTitle, true)
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 18)
	pdf.Cell(100, 10, storeName)
	pdf.Ln(12)

	pdf.SetFont("Arial", "B", 14)
	pdf.Cell(100, 8, tr(receiptTitle))
	pdf.Ln(10)

	pdf.SetFont("Arial", "", 11)
	pdf.Cell(0, 7, "Pedido: "+order.ID.String())
	pdf.Ln(6)
	pdf.Cell(0, 7, "Data: "+order.CreatedAt.Format("02/01/2006 15:04"))
	pdf.Ln(6)
	pdf.Cell(0, 7, tr("Status: "+order.Status.Label()))
	pdf.Ln(6)
	pdf.Cell(0, 7, tr("Pagamento: "+order.PaymentStatus.Label()))
	pdf.Ln(10)

	if !order.Delivery.IsZero() {
		pdf.SetFont("Arial", "B", 12)
		pdf.Cell(0, 7, tr("Endereço de entrega"))
		pdf.Ln(7)
		pdf.SetFont("Arial", "", 11)
		for _, line := range deliveryLines(order.Delivery) {
			pdf.Cell(0, 6, tr(line))
			pdf.Ln(6)
		}
		pdf.Ln(4)
	}

	pdf.SetFont("Arial", "B", 11)
	pdf.CellFormat(95, 8, "Produto", "1", 0, "L", false, 0, "")
	pdf.CellFormat(20, 8, "Qtd", "1", 0, "C", false, 0, "")
	pdf.CellFormat(35, 8, tr("Preço"), "1", 0, "R", false, 0, "")
	pdf.CellFormat(35, 8, "Total", "1", 0, "R", false, 0, "")
	pdf.Ln(-1)

	pdf.SetFont("Arial", "", 11)
	for _, item := range order.Items {
		pdf.CellFormat(95, 8, tr(item.ProductName), "1", 0, "L", false, 0, "")
		pdf.CellFormat(20, 8, strconv.Itoa(item.Quantity), "1", 0, "C", false, 0, "")
		pdf.CellFormat(35, 8, money.FormatBRL(item.UnitPriceCents), "1", 0, "R", false, 0, "")
		pdf.CellFormat(35, 8, money.FormatBRL(item.UnitPriceCents*item.Quantity), "1", 0, "R", false, 0, "")
		pdf.Ln(-1)
	}

	pdf.Ln(4)
	totals := [][2]string{
		{"Subtotal", money.FormatBRL(order.SubtotalCents)},
		{"Frete", money.FormatBRL(order.ShippingCents)},
		{"Total", money.FormatBRL(order.TotalCents)},
	}
	for _, row := range totals {
		pdf.SetFont("Arial", "B", 11)
		pdf.CellFormat(150, 7, row[0], "", 0, "R", false, 0, "")
		pdf.SetFont("Arial", "", 11)
		pdf.CellFormat(35, 7, row[1], "", 1, "R", false, 0, "")
	}

	if order.PaymentInstructions != nil && strings.TrimSpace(*order.PaymentInstructions) != "" {
		pdf.Ln(6)
		pdf.SetFont("Arial", "", 10)
		pdf.MultiCell(0, 5, tr(*order.PaymentInstructions), "1", "L", false)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("write pdf: %w", err)
	}
	return buf.Bytes(), nil
}

// ReceiptFilename names the downloaded receipt.
func ReceiptFilename(orderID uuid.UUID) string {
	return "pedido-" + orderID.String() + ".pdf"
}

func deliveryLines(a models.DeliveryAddress) []string {
	street := a.Street + ", " + a.Number
	if a.Complement != nil {
		street += " - " + *a.Complement
	}
	lines := []string{a.RecipientName, street}
	if a.Neighborhood != nil {
		lines = append(lines, *a.Neighborhood)
	}
	lines = append(lines, fmt.Sprintf("%s/%s - CEP %s", a.City, a.State, a.PostalCode))
	if a.Phone != nil {
		lines = append(lines, "Tel: "+*a.Phone)
	}
	return lines
}
