package invoice

import (
	"bytes"
	"fmt"
	"time"

	"github.com/jung-kurt/gofpdf"

	"github.com/chocolate-factory/storefront/internal/models"
)

// TaxRate is the fixed GST rate baked into every total amount.
const TaxRate = 0.18

type Line struct {
	Name      string
	Quantity  uint
	UnitPrice float64
}

// Breakdown back-computes the tax-exclusive subtotal and the tax share
// from a tax-inclusive total.
func Breakdown(total float64) (subtotal, tax float64) {
	subtotal = total / (1 + TaxRate)
	tax = total - subtotal
	return subtotal, tax
}

func Number(orderID uint) string {
	return fmt.Sprintf("INV-%06d", orderID)
}

// Render lays out the tax invoice for a completed order and returns the
// PDF bytes. Nothing is persisted.
func Render(order models.Order, user models.User, lines []Line) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetAutoPageBreak(true, 20)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 20)
	pdf.SetTextColor(93, 64, 55)
	pdf.CellFormat(0, 12, "Chocolate Factory", "", 1, "C", false, 0, "")
	pdf.SetFont("Helvetica", "", 12)
	pdf.SetTextColor(0, 0, 0)
	pdf.CellFormat(0, 8, "TAX INVOICE", "", 1, "C", false, 0, "")
	pdf.Ln(6)

	pdf.SetFont("Helvetica", "", 10)
	pdf.CellFormat(95, 6, fmt.Sprintf("Invoice No: %s", Number(order.ID)), "", 0, "L", false, 0, "")
	issued := time.Unix(order.CreatedAt, 0).UTC()
	pdf.CellFormat(95, 6, fmt.Sprintf("Date: %s", issued.Format("02 Jan 2006")), "", 1, "R", false, 0, "")
	pdf.Ln(4)

	pdf.SetFont("Helvetica", "B", 10)
	pdf.CellFormat(0, 6, "Bill To:", "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	pdf.CellFormat(0, 6, user.Name, "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 6, user.Email, "", 1, "L", false, 0, "")
	pdf.Ln(6)

	pdf.SetFont("Helvetica", "B", 10)
	pdf.SetFillColor(93, 64, 55)
	pdf.SetTextColor(255, 255, 255)
	pdf.CellFormat(90, 8, "Item", "1", 0, "L", true, 0, "")
	pdf.CellFormat(25, 8, "Qty", "1", 0, "C", true, 0, "")
	pdf.CellFormat(35, 8, "Unit Price", "1", 0, "R", true, 0, "")
	pdf.CellFormat(40, 8, "Total", "1", 1, "R", true, 0, "")

	pdf.SetFont("Helvetica", "", 10)
	pdf.SetTextColor(0, 0, 0)
	for i, line := range lines {
		fill := i%2 == 1
		pdf.SetFillColor(245, 240, 235)
		lineTotal := float64(line.Quantity) * line.UnitPrice
		pdf.CellFormat(90, 8, line.Name, "1", 0, "L", fill, 0, "")
		pdf.CellFormat(25, 8, fmt.Sprintf("%d", line.Quantity), "1", 0, "C", fill, 0, "")
		pdf.CellFormat(35, 8, fmt.Sprintf("%.2f", line.UnitPrice), "1", 0, "R", fill, 0, "")
		pdf.CellFormat(40, 8, fmt.Sprintf("%.2f", lineTotal), "1", 1, "R", fill, 0, "")
	}
	pdf.Ln(4)

	subtotal, tax := Breakdown(order.TotalAmount)
	pdf.CellFormat(150, 6, "Subtotal", "", 0, "R", false, 0, "")
	pdf.CellFormat(40, 6, fmt.Sprintf("%.2f", subtotal), "", 1, "R", false, 0, "")
	pdf.CellFormat(150, 6, fmt.Sprintf("GST (%.0f%%)", TaxRate*100), "", 0, "R", false, 0, "")
	pdf.CellFormat(40, 6, fmt.Sprintf("%.2f", tax), "", 1, "R", false, 0, "")
	pdf.SetFont("Helvetica", "B", 11)
	pdf.CellFormat(150, 8, "Total", "T", 0, "R", false, 0, "")
	pdf.CellFormat(40, 8, fmt.Sprintf("%.2f", order.TotalAmount), "T", 1, "R", false, 0, "")
	pdf.Ln(8)

	pdf.SetFont("Helvetica", "I", 10)
	if order.Status == models.OrderPaid {
		pdf.CellFormat(0, 6, fmt.Sprintf("Payment Status: PAID (ref %s)", order.PaymentID), "", 1, "L", false, 0, "")
	} else {
		pdf.CellFormat(0, 6, "Payment Status: PENDING", "", 1, "L", false, 0, "")
	}
	pdf.CellFormat(0, 6, "Thank you for shopping with Chocolate Factory.", "", 1, "L", false, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
