package repository

import (
	"database/sql"
	"fmt"

	"go.uber.org/zap"

	"github.com/fnutaifi/custody-sheets/internal/models"
	"github.com/fnutaifi/custody-sheets/pkg/database"
)

// SheetRepository handles custody sheet database operations
type SheetRepository struct {
	db     *database.DB
	logger *zap.Logger
}

// NewSheetRepository creates a new sheet repository
func NewSheetRepository(db *database.DB, logger *zap.Logger) *SheetRepository {
	return &SheetRepository{
		db:     db,
		logger: logger,
	}
}

const sheetColumns = "id, custody_number, custody_amount, employee_id, status, notes, created_at, last_modified"

// List returns sheets visible to the caller with their lines attached.
// Admin and TeamLead see every sheet; an Employee sees only their own.
// Ordered by last_modified descending.
func (r *SheetRepository) List(callerID, role string) ([]models.Sheet, error) {
	var (
		rows *sql.Rows
		err  error
	)
	if role == models.RoleAdmin || role == models.RoleTeamLead {
		rows, err = r.db.Query(
			"SELECT " + sheetColumns + " FROM sheets ORDER BY last_modified DESC")
	} else {
		rows, err = r.db.Query(
			"SELECT "+sheetColumns+" FROM sheets WHERE employee_id = ? ORDER BY last_modified DESC",
			callerID)
	}
	if err != nil {
		r.logger.Error("Failed to list sheets", zap.Error(err))
		return nil, fmt.Errorf("failed to list sheets: %w", err)
	}
	defer rows.Close()

	sheets := []models.Sheet{}
	index := map[string]int{}
	for rows.Next() {
		sheet, err := scanSheet(rows)
		if err != nil {
			return nil, err
		}
		index[sheet.ID] = len(sheets)
		sheets = append(sheets, *sheet)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list sheets: %w", err)
	}

	if len(sheets) == 0 {
		return sheets, nil
	}

	lines, err := r.linesForCaller(callerID, role)
	if err != nil {
		return nil, err
	}
	for _, line := range lines {
		if i, ok := index[line.SheetID]; ok {
			sheets[i].Lines = append(sheets[i].Lines, line)
		}
	}

	return sheets, nil
}

// GetByID returns one sheet with its lines, or nil when absent.
func (r *SheetRepository) GetByID(id string) (*models.Sheet, error) {
	row := r.db.QueryRow("SELECT "+sheetColumns+" FROM sheets WHERE id = ?", id)
	sheet, err := scanSheet(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.logger.Error("Failed to get sheet", zap.String("id", id), zap.Error(err))
		return nil, err
	}

	rows, err := r.db.Query(
		"SELECT "+lineColumns+" FROM expense_lines WHERE sheet_id = ? ORDER BY created_at", id)
	if err != nil {
		return nil, fmt.Errorf("failed to load lines: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		line, err := scanLine(rows)
		if err != nil {
			return nil, err
		}
		sheet.Lines = append(sheet.Lines, *line)
	}
	return sheet, rows.Err()
}

// Upsert saves a whole sheet in one transaction: insert-or-replace the
// sheet row by id, delete every existing line, then re-insert the submitted
// lines. Last full write wins; a failure rolls the entire save back.
func (r *SheetRepository) Upsert(sheet *models.Sheet) error {
	err := r.db.WithTransaction(func(tx *sql.Tx) error {
		_, err := tx.Exec(`
			INSERT INTO sheets (id, custody_number, custody_amount, employee_id, status, notes, created_at, last_modified)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)
			ON CONFLICT(id) DO UPDATE SET
				custody_number = excluded.custody_number,
				custody_amount = excluded.custody_amount,
				employee_id = excluded.employee_id,
				status = excluded.status,
				notes = excluded.notes,
				last_modified = excluded.last_modified
		`,
			sheet.ID, sheet.CustodyNumber, sheet.CustodyAmount, sheet.EmployeeID,
			sheet.Status, sheet.Notes, sheet.CreatedAt, sheet.LastModified,
		)
		if err != nil {
			return fmt.Errorf("failed to upsert sheet row: %w", err)
		}

		if _, err := tx.Exec("DELETE FROM expense_lines WHERE sheet_id = ?", sheet.ID); err != nil {
			return fmt.Errorf("failed to clear lines: %w", err)
		}

		for _, line := range sheet.Lines {
			_, err := tx.Exec(`
				INSERT INTO expense_lines (id, sheet_id, date, company, tax_number, invoice_number,
					description, reason, amount, bank_fees, buyer_name, notes, created_at)
				VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
			`,
				line.ID, sheet.ID, line.Date, line.Company,
				nullable(line.TaxNumber), nullable(line.InvoiceNumber),
				line.Description, line.Reason, line.Amount, line.BankFees,
				nullable(line.BuyerName), nullable(line.Notes), line.CreatedAt,
			)
			if err != nil {
				return fmt.Errorf("failed to insert line %s: %w", line.ID, err)
			}
		}

		return nil
	})
	if err != nil {
		r.logger.Error("Failed to save sheet", zap.String("sheet_id", sheet.ID), zap.Error(err))
		return err
	}
	return nil
}

// Delete removes a sheet. Its lines are removed by the cascading foreign
// key constraint, not here.
func (r *SheetRepository) Delete(id string) error {
	result, err := r.db.Exec("DELETE FROM sheets WHERE id = ?", id)
	if err != nil {
		r.logger.Error("Failed to delete sheet", zap.String("id", id), zap.Error(err))
		return fmt.Errorf("failed to delete sheet: %w", err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return ErrSheetNotFound
	}
	return nil
}

const lineColumns = "id, sheet_id, date, company, tax_number, invoice_number, description, reason, amount, bank_fees, buyer_name, notes, created_at"

func (r *SheetRepository) linesForCaller(callerID, role string) ([]models.ExpenseLine, error) {
	var (
		rows *sql.Rows
		err  error
	)
	if role == models.RoleAdmin || role == models.RoleTeamLead {
		rows, err = r.db.Query("SELECT " + lineColumns + " FROM expense_lines ORDER BY created_at")
	} else {
		rows, err = r.db.Query(`
			SELECT `+lineColumns+` FROM expense_lines
			WHERE sheet_id IN (SELECT id FROM sheets WHERE employee_id = ?)
			ORDER BY created_at`, callerID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load lines: %w", err)
	}
	defer rows.Close()

	var lines []models.ExpenseLine
	for rows.Next() {
		line, err := scanLine(rows)
		if err != nil {
			return nil, err
		}
		lines = append(lines, *line)
	}
	return lines, rows.Err()
}

// scanner covers both *sql.Row and *sql.Rows
type scanner interface {
	Scan(dest ...interface{}) error
}

func scanSheet(s scanner) (*models.Sheet, error) {
	var sheet models.Sheet
	var notes sql.NullString
	err := s.Scan(
		&sheet.ID,
		&sheet.CustodyNumber,
		&sheet.CustodyAmount,
		&sheet.EmployeeID,
		&sheet.Status,
		&notes,
		&sheet.CreatedAt,
		&sheet.LastModified,
	)
	if err == sql.ErrNoRows {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan sheet: %w", err)
	}
	sheet.Notes = notes.String
	sheet.Lines = []models.ExpenseLine{}
	return &sheet, nil
}

func scanLine(s scanner) (*models.ExpenseLine, error) {
	var line models.ExpenseLine
	var taxNumber, invoiceNumber, buyerName, notes, createdAt sql.NullString
	var bankFees sql.NullFloat64
	err := s.Scan(
		&line.ID,
		&line.SheetID,
		&line.Date,
		&line.Company,
		&taxNumber,
		&invoiceNumber,
		&line.Description,
		&line.Reason,
		&line.Amount,
		&bankFees,
		&buyerName,
		&notes,
		&createdAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to scan line: %w", err)
	}
	line.TaxNumber = taxNumber.String
	line.InvoiceNumber = invoiceNumber.String
	line.BuyerName = buyerName.String
	line.Notes = notes.String
	line.CreatedAt = createdAt.String
	line.BankFees = bankFees.Float64
	line.Date = normalizeDate(line.Date)
	return &line, nil
}

// normalizeDate reduces a stored date to a plain YYYY-MM-DD string.
// Clients may have saved full timestamps; only the date part is kept.
func normalizeDate(s string) string {
	if len(s) > 10 {
		return s[:10]
	}
	return s
}

func nullable(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}
