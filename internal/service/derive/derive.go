// Package derive computes the derived columns and totals of a day's tables.
// Everything here is pure: absent or non-numeric cells count as zero.
package derive

import (
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/mamadbah2/pillars/internal/domain/models"
)

// ComputeStockDerived returns a copy of the stock table with Sales and Amount
// added or overwritten. The stored columns are left untouched.
func ComputeStockDerived(t models.Table) models.Table {
	if t.IsEmpty() {
		return t
	}
	rows := models.StockRows(t)
	sales := make([]string, len(rows))
	amounts := make([]string, len(rows))
	for i, row := range rows {
		sales[i] = strconv.FormatInt(row.Sales(), 10)
		amounts[i] = row.Amount().StringFixed(2)
	}
	return t.WithColumn(models.ColSales, sales).WithColumn(models.ColAmount, amounts)
}

// ComputeStockTotal sums Amount over every stock row.
func ComputeStockTotal(t models.Table) decimal.Decimal {
	total := decimal.Zero
	for _, row := range models.StockRows(t) {
		total = total.Add(row.Amount())
	}
	return total
}

// ComputeAccommodationTotals counts rooms used per floor (non-blank after
// trimming) and sums Money Lendered over all rows.
func ComputeAccommodationTotals(t models.Table) models.AccommodationTotals {
	totals := models.AccommodationTotals{MoneyLendered: decimal.Zero}
	for _, row := range models.AccommodationRows(t) {
		if strings.TrimSpace(row.FirstFloorRoom) != "" {
			totals.FirstFloorRooms++
		}
		if strings.TrimSpace(row.GroundFloorRoom) != "" {
			totals.GroundFloorRooms++
		}
		totals.MoneyLendered = totals.MoneyLendered.Add(row.MoneyLendered)
	}
	return totals
}

// ComputeExpenseTotal sums Amount over every expense row.
func ComputeExpenseTotal(t models.Table) decimal.Decimal {
	total := decimal.Zero
	for _, row := range models.ExpenseRows(t) {
		total = total.Add(row.Amount)
	}
	return total
}

// ComputeProfit is sales amount minus expenses minus money paid out.
func ComputeProfit(totalStockAmount, totalExpenses, moneyPaid decimal.Decimal) decimal.Decimal {
	return totalStockAmount.Sub(totalExpenses).Sub(moneyPaid)
}

// ComputeCashProfit is money paid minus money invested.
func ComputeCashProfit(moneyPaid, moneyInvested decimal.Decimal) decimal.Decimal {
	return moneyPaid.Sub(moneyInvested)
}

// Profit applies the configured formula.
func Profit(formula models.ProfitFormula, totalStockAmount, totalExpenses, moneyPaid, moneyInvested decimal.Decimal) decimal.Decimal {
	if formula == models.ProfitFromCash {
		return ComputeCashProfit(moneyPaid, moneyInvested)
	}
	return ComputeProfit(totalStockAmount, totalExpenses, moneyPaid)
}
