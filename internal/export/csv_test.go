package export

import (
	"bytes"
	"encoding/csv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fnutaifi/custody-sheets/internal/models"
)

func exportSheet() *models.Sheet {
	return &models.Sheet{
		ID:            "sh-1",
		CustodyNumber: "CU-42",
		CustodyAmount: 1000,
		EmployeeID:    "emp-1",
		Status:        models.SheetStatusOpen,
		Lines: []models.ExpenseLine{
			{
				ID:          "l1",
				Date:        "2026-08-02",
				Company:     `شركة "النور"`,
				Description: "قرطاسية",
				Reason:      models.ReasonAdministration,
				Amount:      200,
				BankFees:    10,
			},
			{
				ID:          "l2",
				Date:        "2026-08-03",
				Company:     "مطعم",
				Description: "غداء",
				Reason:      models.ReasonFood,
				Amount:      300,
			},
		},
	}
}

func TestWriteCSVStartsWithBOM(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, exportSheet()))

	assert.True(t, strings.HasPrefix(buf.String(), "\uFEFF"))
}

func TestWriteCSVContent(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, exportSheet()))

	raw := strings.TrimPrefix(buf.String(), "\uFEFF")
	reader := csv.NewReader(strings.NewReader(raw))
	reader.FieldsPerRecord = -1 // summary and line rows differ in width
	records, err := reader.ReadAll()
	require.NoError(t, err)

	// summary header, summary row, header row, two line rows
	// (the blank separator row is skipped by the csv reader)
	require.Len(t, records, 5)

	summary := records[1]
	assert.Equal(t, "CU-42", summary[0])
	assert.Equal(t, "1000.00", summary[1])
	assert.Equal(t, "510.00", summary[2])
	assert.Equal(t, "490.00", summary[3])

	first := records[3]
	assert.Equal(t, "2026-08-02", first[0])
	assert.Equal(t, `شركة "النور"`, first[1])
	assert.Equal(t, "210.00", first[8]) // line total includes bank fees
}

func TestWriteCSVQuotesEmbeddedQuotes(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, exportSheet()))

	// RFC 4180: embedded quotes are doubled inside a quoted field
	assert.Contains(t, buf.String(), `"شركة ""النور"""`)
}

func TestFilename(t *testing.T) {
	assert.Equal(t, "custody_sheet_CU-42.csv", Filename(exportSheet(), "csv"))
	assert.Equal(t, "custody_sheet_CU-42.xlsx", Filename(exportSheet(), "xlsx"))
}
