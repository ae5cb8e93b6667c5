package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// AccommodationTotals aggregates the accommodation table.
type AccommodationTotals struct {
	FirstFloorRooms  int             `json:"first_floor_rooms"`
	GroundFloorRooms int             `json:"ground_floor_rooms"`
	MoneyLendered    decimal.Decimal `json:"money_lendered"`
}

// DailyReport is the on-demand aggregate of one day's records. It is never
// written to the per-date files.
type DailyReport struct {
	Date          DateKey             `json:"date"`
	Stock         Table               `json:"stock"`
	Accommodation Table               `json:"accommodation"`
	Expenses      Table               `json:"expenses"`
	MoneyPaid     decimal.Decimal     `json:"money_paid"`
	MoneyInvested decimal.Decimal     `json:"money_invested"`
	SalesAmount   decimal.Decimal     `json:"sales_amount"`
	TotalExpenses decimal.Decimal     `json:"total_expenses"`
	Rooms         AccommodationTotals `json:"rooms"`
	Profit        decimal.Decimal     `json:"profit"`
	ProfitFormula ProfitFormula       `json:"profit_formula"`
}

// DailySummary is the flattened form of a DailyReport shipped to the archive
// and the summary sheet.
type DailySummary struct {
	DateKey          string    `bson:"date_key" json:"date_key"`
	Date             time.Time `bson:"date" json:"date"`
	SalesAmount      float64   `bson:"sales_amount" json:"sales_amount"`
	Expenses         float64   `bson:"expenses" json:"expenses"`
	MoneyPaid        float64   `bson:"money_paid" json:"money_paid"`
	MoneyInvested    float64   `bson:"money_invested" json:"money_invested"`
	MoneyLendered    float64   `bson:"money_lendered" json:"money_lendered"`
	FirstFloorRooms  int       `bson:"first_floor_rooms" json:"first_floor_rooms"`
	GroundFloorRooms int       `bson:"ground_floor_rooms" json:"ground_floor_rooms"`
	Profit           float64   `bson:"profit" json:"profit"`
	ProfitFormula    string    `bson:"profit_formula" json:"profit_formula"`
	CreatedAt        time.Time `bson:"created_at" json:"created_at"`
}

// Summary flattens the report. createdAt stamps the publication time.
func (r DailyReport) Summary(createdAt time.Time) DailySummary {
	return DailySummary{
		DateKey:          r.Date.String(),
		Date:             r.Date.Time(),
		SalesAmount:      toFloat(r.SalesAmount),
		Expenses:         toFloat(r.TotalExpenses),
		MoneyPaid:        toFloat(r.MoneyPaid),
		MoneyInvested:    toFloat(r.MoneyInvested),
		MoneyLendered:    toFloat(r.Rooms.MoneyLendered),
		FirstFloorRooms:  r.Rooms.FirstFloorRooms,
		GroundFloorRooms: r.Rooms.GroundFloorRooms,
		Profit:           toFloat(r.Profit),
		ProfitFormula:    string(r.ProfitFormula),
		CreatedAt:        createdAt,
	}
}

func toFloat(d decimal.Decimal) float64 {
	f, _ := d.Float64()
	return f
}
