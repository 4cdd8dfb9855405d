package export

import (
	"bytes"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleDocument(rows int) Document {
	data := Dataset{Headers: []string{"Day", "Period", "Class", "Lesson", "Teacher", "Rooms"}}
	for i := 0; i < rows; i++ {
		data.Rows = append(data.Rows, []string{"MONDAY", fmt.Sprint(i + 1), "10A", "Math, advanced", "Ana", "R-1"})
	}
	return Document{Title: "Timetable", Subtitle: []string{"branch-1 v3"}, Data: data}
}

func TestParseFormat(t *testing.T) {
	format, err := ParseFormat("")
	require.NoError(t, err)
	assert.Equal(t, FormatCSV, format)

	format, err = ParseFormat(" PDF ")
	require.NoError(t, err)
	assert.Equal(t, FormatPDF, format)
	assert.Equal(t, "application/pdf", format.ContentType())
	assert.Equal(t, "pdf", format.Extension())

	_, err = ParseFormat("xlsx")
	assert.Error(t, err)
}

func TestCSVExporterQuotesValues(t *testing.T) {
	payload, err := NewExporter().Render(FormatCSV, sampleDocument(1))
	require.NoError(t, err)
	assert.Equal(t, "Day,Period,Class,Lesson,Teacher,Rooms\nMONDAY,1,10A,\"Math, advanced\",Ana,R-1\n", string(payload))
}

func TestExportRejectsRaggedRows(t *testing.T) {
	doc := sampleDocument(1)
	doc.Data.Rows[0] = doc.Data.Rows[0][:2]

	_, err := NewExporter().Render(FormatCSV, doc)
	assert.Error(t, err)
	_, err = NewExporter().Render(FormatPDF, doc)
	assert.Error(t, err)
	_, err = NewExporter().Render(FormatCSV, Document{})
	assert.Error(t, err)
}

func TestPDFExporterSpansPages(t *testing.T) {
	payload, err := NewExporter().Render(FormatPDF, sampleDocument(80))
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(payload, []byte("%PDF-")))
	// one "/Type /Pages" tree node plus at least two "/Type /Page" leaves
	assert.GreaterOrEqual(t, bytes.Count(payload, []byte("/Type /Page")), 3)
}
