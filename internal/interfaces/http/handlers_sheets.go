package http

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/fnutaifi/custody-sheets/internal/auth"
	"github.com/fnutaifi/custody-sheets/internal/export"
	"github.com/fnutaifi/custody-sheets/internal/models"
	"github.com/fnutaifi/custody-sheets/internal/repository"
)

// handleListSheets handles GET /api/sheets. Admin and TeamLead get every
// sheet; an Employee gets only their own.
func (s *Server) handleListSheets(c *gin.Context) {
	id, _ := auth.IdentityFromContext(c)

	sheets, err := s.sheets.List(id.UserID, id.Role)
	if err != nil {
		s.logger.Error("Failed to fetch sheets", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	c.JSON(http.StatusOK, sheets)
}

// handleSaveSheet handles POST /api/sheets: a whole-document save that
// replaces the sheet's line collection. The submitted payload is echoed
// back on success.
func (s *Server) handleSaveSheet(c *gin.Context) {
	var sheet models.Sheet
	if err := c.ShouldBindJSON(&sheet); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing required field"})
		return
	}

	if err := validateSheet(&sheet); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	id, _ := auth.IdentityFromContext(c)
	if !id.IsLead() && sheet.EmployeeID != id.UserID {
		c.JSON(http.StatusForbidden, gin.H{"error": "غير مصرح لك للوصول"})
		return
	}

	if err := s.sheets.Upsert(&sheet); err != nil {
		s.logger.Error("Failed to save sheet", zap.String("sheet_id", sheet.ID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	c.JSON(http.StatusOK, sheet)
}

// handleDeleteSheet handles DELETE /api/sheets/:id (lead only). Lines go
// with the sheet via the cascade constraint.
func (s *Server) handleDeleteSheet(c *gin.Context) {
	id := c.Param("id")

	if err := s.sheets.Delete(id); err != nil {
		if err == repository.ErrSheetNotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": "العهدة غير موجودة"})
			return
		}
		s.logger.Error("Failed to delete sheet", zap.String("id", id), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "حدث خطأ أثناء حذف العهدة"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "تم حذف العهدة بنجاح"})
}

// handleExportSheet handles GET /api/sheets/:id/export?format=csv|xlsx.
// Scoped like List: an Employee can only export their own sheets.
func (s *Server) handleExportSheet(c *gin.Context) {
	sheet, err := s.sheets.GetByID(c.Param("id"))
	if err != nil {
		s.logger.Error("Failed to load sheet for export", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}
	if sheet == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "العهدة غير موجودة"})
		return
	}

	id, _ := auth.IdentityFromContext(c)
	if !id.IsLead() && sheet.EmployeeID != id.UserID {
		c.JSON(http.StatusForbidden, gin.H{"error": "غير مصرح لك للوصول"})
		return
	}

	format := c.DefaultQuery("format", "csv")
	switch format {
	case "csv":
		c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", export.Filename(sheet, "csv")))
		c.Header("Content-Type", "text/csv; charset=utf-8")
		if err := export.WriteCSV(c.Writer, sheet); err != nil {
			s.logger.Error("Failed to export sheet", zap.Error(err))
		}
	case "xlsx":
		c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", export.Filename(sheet, "xlsx")))
		c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		if err := export.WriteXLSX(c.Writer, sheet); err != nil {
			s.logger.Error("Failed to export sheet", zap.Error(err))
		}
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "unsupported export format"})
	}
}

// validateSheet applies the server-side input checks: required fields,
// non-negative amounts, known status and reasons.
func validateSheet(sheet *models.Sheet) error {
	if sheet.ID == "" || sheet.EmployeeID == "" || sheet.CustodyNumber == "" {
		return fmt.Errorf("missing required field")
	}
	if sheet.Status != models.SheetStatusOpen && sheet.Status != models.SheetStatusClosed {
		return fmt.Errorf("invalid sheet status")
	}
	if sheet.CustodyAmount < 0 {
		return fmt.Errorf("custody_amount must not be negative")
	}
	for _, line := range sheet.Lines {
		if line.ID == "" {
			return fmt.Errorf("missing required field")
		}
		if line.Amount < 0 || line.BankFees < 0 {
			return fmt.Errorf("line amounts must not be negative")
		}
		if !models.ValidReason(line.Reason) {
			return fmt.Errorf("unknown expense reason")
		}
	}
	return nil
}
