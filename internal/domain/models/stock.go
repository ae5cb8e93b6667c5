package models

import "github.com/shopspring/decimal"

// StockRow captures one catalog item's counts for the day.
type StockRow struct {
	Item         string
	OpeningStock int64
	Purchases    int64
	ClosingStock int64
	SellingPrice decimal.Decimal
}

// Sales is the number of units sold. It goes negative when the closing count
// is overstated; that is kept as-is.
func (r StockRow) Sales() int64 {
	return r.OpeningStock + r.Purchases - r.ClosingStock
}

// Amount is the revenue of the row.
func (r StockRow) Amount() decimal.Decimal {
	return decimal.NewFromInt(r.Sales()).Mul(r.SellingPrice)
}

// AccommodationRow captures one room booking line.
type AccommodationRow struct {
	RoomNumber      string
	FirstFloorRoom  string
	GroundFloorRoom string
	MoneyLendered   decimal.Decimal
	PaymentMethod   string
}

// ExpenseRow captures one expense line.
type ExpenseRow struct {
	Description string
	Amount      decimal.Decimal
}

// StockRows reads the typed view of a stock table. Missing or non-numeric
// cells read as zero.
func StockRows(t Table) []StockRow {
	out := make([]StockRow, len(t.Rows))
	for i := range t.Rows {
		out[i] = StockRow{
			Item:         t.Value(i, ColItem),
			OpeningStock: ParseIntCell(t.Value(i, ColOpeningStock)),
			Purchases:    ParseIntCell(t.Value(i, ColPurchases)),
			ClosingStock: ParseIntCell(t.Value(i, ColClosingStock)),
			SellingPrice: ParseDecimalCell(t.Value(i, ColSellingPrice)),
		}
	}
	return out
}

// AccommodationRows reads the typed view of an accommodation table.
func AccommodationRows(t Table) []AccommodationRow {
	out := make([]AccommodationRow, len(t.Rows))
	for i := range t.Rows {
		out[i] = AccommodationRow{
			RoomNumber:      t.Value(i, ColRoomNumber),
			FirstFloorRoom:  t.Value(i, ColFirstFloor),
			GroundFloorRoom: t.Value(i, ColGroundFloor),
			MoneyLendered:   ParseDecimalCell(t.Value(i, ColMoneyLendered)),
			PaymentMethod:   t.Value(i, ColPaymentMethod),
		}
	}
	return out
}

// ExpenseRows reads the typed view of an expenses table.
func ExpenseRows(t Table) []ExpenseRow {
	out := make([]ExpenseRow, len(t.Rows))
	for i := range t.Rows {
		out[i] = ExpenseRow{
			Description: t.Value(i, ColDescription),
			Amount:      ParseDecimalCell(t.Value(i, ColAmount)),
		}
	}
	return out
}
