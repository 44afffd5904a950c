package export

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/fnutaifi/custody-sheets/internal/ledger"
	"github.com/fnutaifi/custody-sheets/internal/models"
)

// WriteXLSX writes the sheet as an Excel workbook: the summary block in
// the first rows, then the line table.
func WriteXLSX(w io.Writer, sheet *models.Sheet) error {
	f := excelize.NewFile()
	defer f.Close()

	sheetName := f.GetSheetName(0)
	summary := ledger.Summarize(sheet)

	// Summary block
	for col, h := range summaryHeaders {
		cell, _ := excelize.CoordinatesToCellName(col+1, 1)
		if err := f.SetCellValue(sheetName, cell, h); err != nil {
			return fmt.Errorf("failed to set cell %s: %w", cell, err)
		}
	}
	summaryValues := []interface{}{
		sheet.CustodyNumber, sheet.CustodyAmount, summary.TotalSpent, summary.Remaining,
	}
	for col, v := range summaryValues {
		cell, _ := excelize.CoordinatesToCellName(col+1, 2)
		if err := f.SetCellValue(sheetName, cell, v); err != nil {
			return fmt.Errorf("failed to set cell %s: %w", cell, err)
		}
	}

	// Line table, one header row then one row per line
	const tableStart = 4
	for col, h := range lineHeaders {
		cell, _ := excelize.CoordinatesToCellName(col+1, tableStart)
		if err := f.SetCellValue(sheetName, cell, h); err != nil {
			return fmt.Errorf("failed to set cell %s: %w", cell, err)
		}
	}
	for i, line := range sheet.Lines {
		values := []interface{}{
			line.Date, line.Company, line.TaxNumber, line.InvoiceNumber,
			line.Description, line.Reason, line.Amount, line.BankFees,
			line.Total(), line.BuyerName, line.Notes,
		}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, tableStart+1+i)
			if err := f.SetCellValue(sheetName, cell, v); err != nil {
				return fmt.Errorf("failed to set cell %s: %w", cell, err)
			}
		}
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}
