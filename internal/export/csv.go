// Package export renders a custody sheet as a downloadable CSV or XLSX
// document: a summary block followed by one row per expense line.
package export

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/fnutaifi/custody-sheets/internal/ledger"
	"github.com/fnutaifi/custody-sheets/internal/models"
)

var lineHeaders = []string{
	"التاريخ", "الشركة", "الرقم الضريبي", "رقم الفاتورة", "البيان",
	"سبب الصرف", "المبلغ", "مصروفات بنكية", "الإجمالي", "اسم المشتري", "ملاحظات",
}

var summaryHeaders = []string{"رقم العهدة", "مبلغ العهدة", "الإجمالي المنصرف", "المتبقي"}

// WriteCSV writes the sheet as UTF-8 CSV prefixed with a byte order mark
// so Arabic text opens correctly in Excel.
func WriteCSV(w io.Writer, sheet *models.Sheet) error {
	if _, err := w.Write([]byte("\uFEFF")); err != nil {
		return fmt.Errorf("failed to write BOM: %w", err)
	}

	summary := ledger.Summarize(sheet)

	cw := csv.NewWriter(w)
	records := [][]string{
		summaryHeaders,
		{
			sheet.CustodyNumber,
			formatAmount(sheet.CustodyAmount),
			formatAmount(summary.TotalSpent),
			formatAmount(summary.Remaining),
		},
		{},
		lineHeaders,
	}
	for _, line := range sheet.Lines {
		records = append(records, []string{
			line.Date,
			line.Company,
			line.TaxNumber,
			line.InvoiceNumber,
			line.Description,
			line.Reason,
			formatAmount(line.Amount),
			formatAmount(line.BankFees),
			formatAmount(line.Total()),
			line.BuyerName,
			line.Notes,
		})
	}

	if err := cw.WriteAll(records); err != nil {
		return fmt.Errorf("failed to write csv: %w", err)
	}
	return nil
}

// Filename builds the suggested download filename for a sheet export.
func Filename(sheet *models.Sheet, ext string) string {
	return fmt.Sprintf("custody_sheet_%s.%s", sheet.CustodyNumber, ext)
}

func formatAmount(v float64) string {
	return fmt.Sprintf("%.2f", v)
}
