package payslip

import (
	"bytes"
	"fmt"
	"time"

	"github.com/jung-kurt/gofpdf"
)

//go:generate mockgen -source=renderer.go -destination=mock/renderer_mock.go -package=mock
type Renderer interface {
	Render(v View) ([]byte, error)
	ContentType() string
	Extension() string
}

// Render renders v and names the result after the employee and period.
func Render(r Renderer, v View) (Document, error) {
	content, err := r.Render(v)
	if err != nil {
		return Document{}, err
	}
	if len(content) == 0 {
		return Document{}, fmt.Errorf("renderer produced an empty document")
	}
	return Document{
		Filename:    Filename(v.EmployeeName, v.Month, v.Year, r.Extension()),
		ContentType: r.ContentType(),
		Content:     content,
	}, nil
}

type PDFRenderer struct {
	currencyPrefix string
}

func NewPDFRenderer(currencyPrefix string) *PDFRenderer {
	return &PDFRenderer{currencyPrefix: currencyPrefix}
}

func (r *PDFRenderer) ContentType() string { return "application/pdf" }

func (r *PDFRenderer) Extension() string { return "pdf" }

// Render lays out an A4 payslip. Creation date and catalog order are pinned
// so the same record always yields the same bytes.
func (r *PDFRenderer) Render(v View) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetCreator("go-ems", false)
	pdf.SetTitle("Payslip "+v.PeriodLabel(), false)
	pdf.SetCreationDate(creationDate(v))
	pdf.SetCatalogSort(true)
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 18)
	pdf.CellFormat(0, 12, "PAYSLIP", "", 1, "C", false, 0, "")
	pdf.Ln(6)

	const labelW, valueW, rowH = 60.0, 120.0, 9.0
	for _, section := range v.Sections(r.currencyPrefix) {
		switch section.Heading {
		case "":
		case "NET PAY":
			pdf.SetFillColor(64, 64, 64)
			pdf.SetTextColor(255, 255, 255)
			pdf.SetFont("Helvetica", "B", 14)
			pdf.CellFormat(labelW, rowH+2, "NET PAY", "1", 0, "C", true, 0, "")
			pdf.CellFormat(valueW, rowH+2, tr(section.Lines[0].Value), "1", 1, "C", true, 0, "")
			pdf.SetTextColor(0, 0, 0)
			continue
		default:
			pdf.SetFillColor(211, 211, 211)
			pdf.SetFont("Helvetica", "B", 12)
			pdf.CellFormat(labelW, rowH, section.Heading, "1", 0, "C", true, 0, "")
			pdf.CellFormat(valueW, rowH, "AMOUNT", "1", 1, "C", true, 0, "")
		}

		for _, line := range section.Lines {
			style := ""
			if section.Heading == "" || line.Label == "Gross Pay" {
				style = "B"
			}
			pdf.SetFont("Helvetica", style, 11)
			pdf.CellFormat(labelW, rowH, tr(line.Label), "1", 0, "L", false, 0, "")
			pdf.SetFont("Helvetica", "", 11)
			pdf.CellFormat(valueW, rowH, tr(line.Value), "1", 1, "L", false, 0, "")
		}
		pdf.Ln(6)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render payslip pdf: %w", err)
	}
	return buf.Bytes(), nil
}

func creationDate(v View) time.Time {
	if !v.GeneratedDate.IsZero() {
		return v.GeneratedDate.UTC()
	}
	return time.Date(v.Year, time.Month(v.Month), 1, 0, 0, 0, 0, time.UTC)
}
