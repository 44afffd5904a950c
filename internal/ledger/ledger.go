// Package ledger derives display figures from a custody sheet. It holds
// no state; everything is recomputed from the sheet passed in.
package ledger

import (
	"sort"

	"github.com/fnutaifi/custody-sheets/internal/models"
)

// CategoryTotal is the spend aggregated for one expense reason.
type CategoryTotal struct {
	Reason     string  `json:"reason"`
	Amount     float64 `json:"amount"`
	Percentage float64 `json:"percentage"`
}

// Summary holds the derived figures for one sheet.
type Summary struct {
	TotalSpent float64         `json:"total_spent"`
	Remaining  float64         `json:"remaining"`
	Breakdown  []CategoryTotal `json:"breakdown"`
}

// Summarize computes total spent, remaining balance and the per-category
// breakdown for a sheet. Line totals include bank fees. The breakdown is
// sorted descending by amount; percentages are of total spent and zero
// when nothing has been spent. Remaining may go negative on overspend.
func Summarize(sheet *models.Sheet) Summary {
	byReason := map[string]float64{}
	var total float64
	for _, line := range sheet.Lines {
		lineTotal := line.Total()
		total += lineTotal
		byReason[line.Reason] += lineTotal
	}

	breakdown := make([]CategoryTotal, 0, len(byReason))
	for reason, amount := range byReason {
		ct := CategoryTotal{Reason: reason, Amount: amount}
		if total > 0 {
			ct.Percentage = amount / total * 100
		}
		breakdown = append(breakdown, ct)
	}
	sort.Slice(breakdown, func(i, j int) bool {
		if breakdown[i].Amount != breakdown[j].Amount {
			return breakdown[i].Amount > breakdown[j].Amount
		}
		return breakdown[i].Reason < breakdown[j].Reason
	})

	return Summary{
		TotalSpent: total,
		Remaining:  sheet.CustodyAmount - total,
		Breakdown:  breakdown,
	}
}
