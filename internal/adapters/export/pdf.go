package export

import (
	"bytes"
	"fmt"
	"time"

	"github.com/jung-kurt/gofpdf"

	"weekuren/internal/domain/ledger"
)

// page geometry in millimetres (A4 landscape)
const (
	pageWidth    = 297.0
	marginLeft   = 10.0
	bottomLimit  = 190.0
	rowHeight    = 7.0
	naamColWidth = 50.0
	coachWidth   = 35.0
)

// LedgerPDF renders the ledger as a paginated A4 landscape table with the
// header row repeated on every page. The ledger passed in is rendered
// verbatim; coach filtering happens upstream.
// POST: returns the PDF bytes, or an error from the PDF backend
func LedgerPDF(l *ledger.Ledger, generatedAt time.Time) ([]byte, error) {
	pdf := gofpdf.New("L", "mm", "A4", "")
	pdf.SetTitle("Weekuren per student", false)
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 14)
	pdf.Cell(120, 10, "Weekuren per student")
	pdf.SetFont("Arial", "", 9)
	pdf.CellFormat(0, 10, generatedAt.Format("2006-01-02 15:04"), "", 0, "R", false, 0, "")
	pdf.Ln(12)

	weekWidth := weekColumnWidth(len(l.Weeks))
	writeHeader(pdf, l, weekWidth)

	pdf.SetFont("Arial", "", 9)
	for _, row := range l.Rows {
		if pdf.GetY()+rowHeight > bottomLimit {
			pdf.AddPage()
			writeHeader(pdf, l, weekWidth)
			pdf.SetFont("Arial", "", 9)
		}
		pdf.CellFormat(naamColWidth, rowHeight, row.Naam, "1", 0, "L", false, 0, "")
		pdf.CellFormat(coachWidth, rowHeight, row.Coach, "1", 0, "L", false, 0, "")
		for _, week := range l.Weeks {
			pdf.CellFormat(weekWidth, rowHeight, row.Cells[week], "1", 0, "C", false, 0, "")
		}
		pdf.Ln(rowHeight)
	}

	if len(l.Rows) == 0 {
		pdf.CellFormat(0, rowHeight, "Geen data", "", 0, "L", false, 0, "")
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("pdf render failed: %w", err)
	}
	return buf.Bytes(), nil
}

func writeHeader(pdf *gofpdf.Fpdf, l *ledger.Ledger, weekWidth float64) {
	pdf.SetFont("Arial", "B", 9)
	pdf.SetFillColor(232, 232, 232)
	pdf.CellFormat(naamColWidth, rowHeight, ledger.ColumnNaam, "1", 0, "L", true, 0, "")
	pdf.CellFormat(coachWidth, rowHeight, ledger.ColumnCoach, "1", 0, "L", true, 0, "")
	for _, week := range l.Weeks {
		pdf.CellFormat(weekWidth, rowHeight, week, "1", 0, "C", true, 0, "")
	}
	pdf.Ln(rowHeight)
}

func weekColumnWidth(weeks int) float64 {
	if weeks == 0 {
		return 0
	}
	available := pageWidth - 2*marginLeft - naamColWidth - coachWidth
	w := available / float64(weeks)
	if w > 30 {
		w = 30
	}
	return w
}
