package export

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/jung-kurt/gofpdf"
)

// Field is one labelled line on a receipt.
type Field struct {
	Label string
	Value string
}

// Receipt describes a single-page audit document.
type Receipt struct {
	Title  string
	Fields []Field
}

// ReceiptExporter renders receipts into single-page PDFs.
type ReceiptExporter struct{}

// NewReceiptExporter constructs a receipt exporter.
func NewReceiptExporter() *ReceiptExporter {
	return &ReceiptExporter{}
}

// Render creates the PDF document for a receipt.
func (e *ReceiptExporter) Render(r Receipt) ([]byte, error) {
	if len(r.Fields) == 0 {
		return nil, fmt.Errorf("receipt requires at least one field")
	}
	pdf := gofpdf.New("P", "mm", "A5", "")
	pdf.SetMargins(12, 16, 12)
	pdf.AddPage()

	if r.Title != "" {
		pdf.SetFont("Arial", "B", 13)
		pdf.CellFormat(0, 9, strings.ToUpper(r.Title), "", 1, "C", false, 0, "")
		pdf.Ln(4)
	}

	for _, f := range r.Fields {
		pdf.SetFont("Arial", "B", 9)
		pdf.CellFormat(38, 7, f.Label, "", 0, "", false, 0, "")
		pdf.SetFont("Arial", "", 9)
		pdf.MultiCell(0, 7, f.Value, "", "", false)
	}

	buf := &bytes.Buffer{}
	if err := pdf.Output(buf); err != nil {
		return nil, fmt.Errorf("render receipt: %w", err)
	}
	return buf.Bytes(), nil
}
