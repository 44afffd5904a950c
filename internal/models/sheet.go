package models

// Sheet is a custody sheet: a cash allowance with its expense lines.
// Sheet IDs and timestamps are generated client-side; the server stores
// them verbatim and echoes them back on save.
type Sheet struct {
	ID            string        `json:"id"`
	CustodyNumber string        `json:"custody_number"`
	CustodyAmount float64       `json:"custody_amount"`
	EmployeeID    string        `json:"employee_id"`
	Status        string        `json:"status"`
	Notes         string        `json:"notes,omitempty"`
	Lines         []ExpenseLine `json:"lines"`
	CreatedAt     string        `json:"created_at"`
	LastModified  string        `json:"last_modified"`
}

// ExpenseLine is one itemized expenditure against a sheet.
// Date is a plain YYYY-MM-DD string on the wire.
type ExpenseLine struct {
	ID            string  `json:"id"`
	SheetID       string  `json:"sheet_id"`
	Date          string  `json:"date"`
	Company       string  `json:"company"`
	TaxNumber     string  `json:"tax_number,omitempty"`
	InvoiceNumber string  `json:"invoice_number,omitempty"`
	Description   string  `json:"description"`
	Reason        string  `json:"reason"`
	Amount        float64 `json:"amount"`
	BankFees      float64 `json:"bank_fees,omitempty"`
	BuyerName     string  `json:"buyer_name,omitempty"`
	Notes         string  `json:"notes,omitempty"`
	CreatedAt     string  `json:"created_at"`
}

// Total returns the line total including bank fees.
func (l ExpenseLine) Total() float64 {
	return l.Amount + l.BankFees
}
