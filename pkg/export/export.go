package export

import (
	"fmt"
	"strings"
)

// Format is a supported download format.
type Format string

const (
	FormatCSV Format = "csv"
	FormatPDF Format = "pdf"
)

// ParseFormat normalises a user supplied format; empty means CSV.
func ParseFormat(raw string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(raw))) {
	case "", FormatCSV:
		return FormatCSV, nil
	case FormatPDF:
		return FormatPDF, nil
	default:
		return "", fmt.Errorf("unsupported export format %q", raw)
	}
}

// ContentType returns the MIME type of the format.
func (f Format) ContentType() string {
	if f == FormatPDF {
		return "application/pdf"
	}
	return "text/csv"
}

// Extension returns the file extension without the dot.
func (f Format) Extension() string {
	return string(f)
}

// Dataset defines tabular export content. Every row has one value per header.
type Dataset struct {
	Headers []string
	Rows    [][]string
}

func (d Dataset) validate() error {
	if len(d.Headers) == 0 {
		return fmt.Errorf("dataset requires at least one header")
	}
	for i, row := range d.Rows {
		if len(row) != len(d.Headers) {
			return fmt.Errorf("row %d has %d values, want %d", i, len(row), len(d.Headers))
		}
	}
	return nil
}

// Document is a titled dataset.
type Document struct {
	Title    string
	Subtitle []string
	Data     Dataset
}

// Exporter dispatches documents to the renderer of the requested format.
type Exporter struct {
	csv *CSVExporter
	pdf *PDFExporter
}

// NewExporter builds an exporter supporting every Format.
func NewExporter() *Exporter {
	return &Exporter{csv: NewCSVExporter(), pdf: NewPDFExporter()}
}

// Render encodes the document in the given format.
func (e *Exporter) Render(format Format, doc Document) ([]byte, error) {
	switch format {
	case FormatCSV:
		return e.csv.Render(doc.Data)
	case FormatPDF:
		return e.pdf.Render(doc)
	default:
		return nil, fmt.Errorf("unsupported export format %q", format)
	}
}
