package service

import (
	"bytes"
	"fmt"

	"github.com/go-pdf/fpdf"
)

// ShoppingListRenderer turns an aggregated shopping list into a
// downloadable document.
type ShoppingListRenderer interface {
	Render(items []ShoppingListItem) ([]byte, error)
	ContentType() string
	Filename() string
}

// PDFRenderer renders the list as a one-page PDF: a title followed by
// numbered "name - amount unit" lines.
type PDFRenderer struct{}

func NewPDFRenderer() *PDFRenderer {
	return &PDFRenderer{}
}

func (r *PDFRenderer) ContentType() string {
	return "application/pdf"
}

func (r *PDFRenderer) Filename() string {
	return "shopping_list.pdf"
}

func (r *PDFRenderer) Render(items []ShoppingListItem) ([]byte, error) {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 30)
	pdf.CellFormat(0, 20, "Shopping list", "", 1, "C", false, 0, "")

	pdf.SetFont("Helvetica", "", 14)
	for i, item := range items {
		line := fmt.Sprintf("%d. %s - %d %s", i+1, item.Name, item.Amount, item.MeasurementUnit)
		pdf.CellFormat(0, 9, line, "", 1, "L", false, 0, "")
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
