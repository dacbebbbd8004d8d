// Package pdf renders estimates as A4 documents for download and for the
// signed-document archive.
package pdf

import (
	"bytes"
	"fmt"

	"github.com/jung-kurt/gofpdf"

	"github.com/businessflow/estimate-api/internal/domain"
)

// Branding carries the company fields printed in the document header.
type Branding struct {
	CompanyName string
	Email       string
	Phone       string
	Address     string
}

const (
	marginLeft  = 15.0
	marginTop   = 15.0
	marginRight = 15.0
	rowHeight   = 7.0
)

// column widths of the line-item table, summing to the printable width
var colWidths = [5]float64{75, 20, 20, 30, 35}

// RenderEstimate renders the estimate into PDF bytes. The renderer is pure
// with respect to its inputs: no storage or network access.
func RenderEstimate(e *domain.Estimate, branding Branding) ([]byte, error) {
	doc := gofpdf.New("P", "mm", "A4", "")
	doc.SetMargins(marginLeft, marginTop, marginRight)
	doc.SetAutoPageBreak(true, 25)
	doc.AddPage()

	writeHeader(doc, e, branding)
	writeCustomerBlock(doc, e)
	writeItemTable(doc, e.Items)
	writeTotals(doc, e)
	if e.CustomerNote != "" {
		writeNote(doc, e.CustomerNote)
	}
	if e.IsSigned() {
		writeSignatureBlock(doc, e)
	}

	var buf bytes.Buffer
	if err := doc.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to render estimate pdf: %w", err)
	}
	return buf.Bytes(), nil
}

func writeHeader(doc *gofpdf.Fpdf, e *domain.Estimate, branding Branding) {
	doc.SetFont("Helvetica", "B", 18)
	doc.CellFormat(0, 10, "Estimate", "", 1, "L", false, 0, "")

	doc.SetFont("Helvetica", "", 10)
	if branding.CompanyName != "" {
		doc.CellFormat(0, 5, branding.CompanyName, "", 1, "L", false, 0, "")
	}
	for _, line := range []string{branding.Address, branding.Email, branding.Phone} {
		if line != "" {
			doc.CellFormat(0, 5, line, "", 1, "L", false, 0, "")
		}
	}

	doc.Ln(3)
	doc.SetFont("Helvetica", "", 9)
	doc.SetTextColor(100, 100, 100)
	doc.CellFormat(0, 5, fmt.Sprintf("Reference: %s", e.ID.String()), "", 1, "L", false, 0, "")
	doc.CellFormat(0, 5, fmt.Sprintf("Date: %s", e.Date.Format("2006-01-02")), "", 1, "L", false, 0, "")
	doc.CellFormat(0, 5, fmt.Sprintf("Status: %s", e.Status), "", 1, "L", false, 0, "")
	doc.SetTextColor(0, 0, 0)
	doc.Ln(4)
}

func writeCustomerBlock(doc *gofpdf.Fpdf, e *domain.Estimate) {
	name := e.CustomerName
	if name == "" && e.Customer != nil {
		name = e.Customer.Name
	}
	if name == "" {
		return
	}

	doc.SetFont("Helvetica", "B", 10)
	doc.CellFormat(0, 5, "Prepared for", "", 1, "L", false, 0, "")
	doc.SetFont("Helvetica", "", 10)
	doc.CellFormat(0, 5, name, "", 1, "L", false, 0, "")
	if e.Customer != nil {
		for _, line := range []string{e.Customer.Address, e.Customer.City, e.Customer.Email} {
			if line != "" {
				doc.CellFormat(0, 5, line, "", 1, "L", false, 0, "")
			}
		}
	}
	doc.Ln(4)
}

func writeTableHeader(doc *gofpdf.Fpdf) {
	doc.SetFont("Helvetica", "B", 9)
	doc.SetFillColor(240, 240, 240)
	headers := [5]string{"Item", "Qty", "Unit", "Unit price", "Amount"}
	aligns := [5]string{"L", "R", "L", "R", "R"}
	for i, h := range headers {
		doc.CellFormat(colWidths[i], rowHeight, h, "1", 0, aligns[i], true, 0, "")
	}
	doc.Ln(-1)
	doc.SetFont("Helvetica", "", 9)
}

func writeItemTable(doc *gofpdf.Fpdf, items []domain.EstimateItem) {
	writeTableHeader(doc)

	_, pageHeight := doc.GetPageSize()
	for _, item := range items {
		// Repeat the table header after an automatic page break.
		if doc.GetY()+rowHeight > pageHeight-25 {
			doc.AddPage()
			writeTableHeader(doc)
		}

		name := item.Name
		if item.Description != "" {
			name = fmt.Sprintf("%s - %s", item.Name, item.Description)
		}
		doc.CellFormat(colWidths[0], rowHeight, truncate(doc, name, colWidths[0]-2), "1", 0, "L", false, 0, "")
		doc.CellFormat(colWidths[1], rowHeight, formatQuantity(item.Quantity), "1", 0, "R", false, 0, "")
		doc.CellFormat(colWidths[2], rowHeight, item.Unit, "1", 0, "L", false, 0, "")
		doc.CellFormat(colWidths[3], rowHeight, formatMoney(item.UnitPrice), "1", 0, "R", false, 0, "")
		doc.CellFormat(colWidths[4], rowHeight, formatMoney(item.Amount), "1", 0, "R", false, 0, "")
		doc.Ln(-1)
	}
	doc.Ln(4)
}

func writeTotals(doc *gofpdf.Fpdf, e *domain.Estimate) {
	labelWidth := colWidths[0] + colWidths[1] + colWidths[2] + colWidths[3]

	doc.SetFont("Helvetica", "", 10)
	doc.CellFormat(labelWidth, 6, "Subtotal", "", 0, "R", false, 0, "")
	doc.CellFormat(colWidths[4], 6, formatMoney(e.Subtotal), "", 1, "R", false, 0, "")
	doc.CellFormat(labelWidth, 6, "Tax", "", 0, "R", false, 0, "")
	doc.CellFormat(colWidths[4], 6, formatMoney(e.Tax), "", 1, "R", false, 0, "")

	doc.SetFont("Helvetica", "B", 11)
	doc.CellFormat(labelWidth, 8, "Total", "T", 0, "R", false, 0, "")
	doc.CellFormat(colWidths[4], 8, formatMoney(e.Total), "T", 1, "R", false, 0, "")
	doc.Ln(4)
}

func writeNote(doc *gofpdf.Fpdf, note string) {
	doc.SetFont("Helvetica", "B", 10)
	doc.CellFormat(0, 5, "Notes", "", 1, "L", false, 0, "")
	doc.SetFont("Helvetica", "", 9)
	doc.MultiCell(0, 5, note, "", "L", false)
	doc.Ln(4)
}

func writeSignatureBlock(doc *gofpdf.Fpdf, e *domain.Estimate) {
	doc.SetFont("Helvetica", "B", 10)
	doc.CellFormat(0, 5, "Signed", "", 1, "L", false, 0, "")
	doc.SetFont("Helvetica", "", 10)
	doc.CellFormat(0, 5, e.SignerName, "", 1, "L", false, 0, "")
	if e.SignedAt != nil {
		doc.SetFont("Helvetica", "", 9)
		doc.CellFormat(0, 5, e.SignedAt.UTC().Format("2006-01-02 15:04 MST"), "", 1, "L", false, 0, "")
	}
}

func formatMoney(v float64) string {
	return fmt.Sprintf("%.2f", v)
}

func formatQuantity(v float64) string {
	if v == float64(int64(v)) {
		return fmt.Sprintf("%d", int64(v))
	}
	return fmt.Sprintf("%.2f", v)
}

// truncate shortens a string until it fits the given cell width.
func truncate(doc *gofpdf.Fpdf, s string, width float64) string {
	for doc.GetStringWidth(s) > width && len(s) > 3 {
		s = s[:len(s)-4] + "..."
	}
	return s
}
