package ledger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fnutaifi/custody-sheets/internal/models"
)

func TestSummarizeTotalsAndRemaining(t *testing.T) {
	sheet := &models.Sheet{
		CustodyAmount: 1000,
		Lines: []models.ExpenseLine{
			{Reason: models.ReasonProjects, Amount: 200, BankFees: 10},
			{Reason: models.ReasonFood, Amount: 300, BankFees: 0},
		},
	}

	summary := Summarize(sheet)

	assert.Equal(t, 510.0, summary.TotalSpent)
	assert.Equal(t, 490.0, summary.Remaining)
}

func TestSummarizeEmptySheet(t *testing.T) {
	sheet := &models.Sheet{CustodyAmount: 500}

	summary := Summarize(sheet)

	assert.Equal(t, 0.0, summary.TotalSpent)
	assert.Equal(t, 500.0, summary.Remaining)
	assert.Empty(t, summary.Breakdown)
}

func TestSummarizeRemainingCanGoNegative(t *testing.T) {
	sheet := &models.Sheet{
		CustodyAmount: 100,
		Lines: []models.ExpenseLine{
			{Reason: models.ReasonMisc, Amount: 150},
		},
	}

	summary := Summarize(sheet)
	assert.Equal(t, -50.0, summary.Remaining)
}

func TestSummarizeBreakdown(t *testing.T) {
	sheet := &models.Sheet{
		CustodyAmount: 1000,
		Lines: []models.ExpenseLine{
			{Reason: models.ReasonProjects, Amount: 100},
			{Reason: models.ReasonProjects, Amount: 200, BankFees: 25},
			{Reason: models.ReasonFood, Amount: 50},
			{Reason: models.ReasonTechnical, Amount: 625},
		},
	}

	summary := Summarize(sheet)
	require.Len(t, summary.Breakdown, 3)

	// Sorted descending by amount
	assert.Equal(t, models.ReasonTechnical, summary.Breakdown[0].Reason)
	assert.Equal(t, 625.0, summary.Breakdown[0].Amount)
	assert.Equal(t, models.ReasonProjects, summary.Breakdown[1].Reason)
	assert.Equal(t, 325.0, summary.Breakdown[1].Amount)
	assert.Equal(t, models.ReasonFood, summary.Breakdown[2].Reason)

	// Percentages sum to 100 when something was spent
	var pct float64
	for _, ct := range summary.Breakdown {
		pct += ct.Percentage
	}
	assert.InDelta(t, 100.0, pct, 0.001)
}

func TestSummarizeRecomputesFromCurrentLines(t *testing.T) {
	sheet := &models.Sheet{
		CustodyAmount: 1000,
		Lines: []models.ExpenseLine{
			{Reason: models.ReasonMisc, Amount: 100},
		},
	}
	first := Summarize(sheet)
	assert.Equal(t, 900.0, first.Remaining)

	// Edit lines and recompute: no hidden state
	sheet.Lines = append(sheet.Lines, models.ExpenseLine{Reason: models.ReasonMisc, Amount: 50, BankFees: 5})
	second := Summarize(sheet)
	assert.Equal(t, 155.0, second.TotalSpent)
	assert.Equal(t, 845.0, second.Remaining)

	sheet.Lines = nil
	third := Summarize(sheet)
	assert.Equal(t, 1000.0, third.Remaining)
	assert.Empty(t, third.Breakdown)
}
