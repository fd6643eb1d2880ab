package export

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCSVExporterRender(t *testing.T) {
	data := Dataset{
		Headers: []string{"id", "status"},
		Rows: [][]string{
			{"job-1", "PRINTED"},
			{"job-2", "EXPIRED"},
		},
	}
	out, err := NewCSVExporter().Render(data)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(string(out)), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "id,status", lines[0])
	assert.Equal(t, "job-1,PRINTED", lines[1])
}

func TestCSVExporterRejectsMisalignedRow(t *testing.T) {
	data := Dataset{
		Headers: []string{"id", "status"},
		Rows:    [][]string{{"job-1"}},
	}
	_, err := NewCSVExporter().Render(data)
	assert.Error(t, err)
}

func TestCSVExporterRequiresHeaders(t *testing.T) {
	_, err := NewCSVExporter().Render(Dataset{})
	assert.Error(t, err)
}

func TestReceiptExporterRender(t *testing.T) {
	receipt := Receipt{
		Title: "Print Authorization Receipt",
		Fields: []Field{
			{Label: "Job", Value: "job-1"},
			{Label: "Status", Value: "PRINTED"},
		},
	}
	out, err := NewReceiptExporter().Render(receipt)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(out), "%PDF"))
}

func TestReceiptExporterRequiresFields(t *testing.T) {
	_, err := NewReceiptExporter().Render(Receipt{Title: "Empty"})
	assert.Error(t, err)
}
