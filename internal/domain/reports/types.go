// Package reports provides read-only statistics over materials, movements
// and warnings.
package reports

import (
	"time"

	"github.com/shopspring/decimal"

	"stockroom/internal/core/id"
)

// Overview is the dashboard headline block.
type Overview struct {
	MaterialCount int64           `json:"materialCount"`
	TotalQuantity int64           `json:"totalQuantity"`
	TotalValue    decimal.Decimal `json:"totalValue"`
	TodayInCount  int64           `json:"todayInCount"`
	TodayOutCount int64           `json:"todayOutCount"`
	WarningCount  int64           `json:"warningCount"`
}

// TrendFilter selects the trend window.
type TrendFilter struct {
	// Days covered, ending today. Defaults to 7, capped at 90.
	Days int
}

// TrendPoint is one day of movement totals.
type TrendPoint struct {
	Date   time.Time `json:"date"`
	InQty  int64     `json:"inQty"`
	OutQty int64     `json:"outQty"`
}

// RankingBy selects the ranking metric.
type RankingBy string

const (
	RankByBalance  RankingBy = "balance"
	RankByInbound  RankingBy = "in"
	RankByOutbound RankingBy = "out"
)

// Valid reports whether the metric is known.
func (b RankingBy) Valid() bool {
	switch b {
	case RankByBalance, RankByInbound, RankByOutbound:
		return true
	}
	return false
}

// RankingFilter selects the ranking metric and window.
type RankingFilter struct {
	// By defaults to balance.
	By RankingBy

	// Top is the number of rows. Defaults to 10, capped at 100.
	Top int

	// Date range, used for in/out rankings only.
	// Defaults to the last 30 days.
	DateFrom *time.Time
	DateTo   *time.Time
}

// RankingItem is one ranked material.
type RankingItem struct {
	MaterialID   id.ID  `db:"material_id" json:"materialId"`
	MaterialCode string `db:"material_code" json:"materialCode"`
	MaterialName string `db:"material_name" json:"materialName"`
	Unit         string `db:"unit" json:"unit"`
	Quantity     int64  `db:"quantity" json:"quantity"`
}

// CategorySlice is the aggregate for one material category.
type CategorySlice struct {
	Category      string          `db:"category" json:"category"`
	MaterialCount int64           `db:"material_count" json:"materialCount"`
	Quantity      int64           `db:"quantity" json:"quantity"`
	Value         decimal.Decimal `db:"value" json:"value"`
}

// MonthlySummary is one month of movement totals.
type MonthlySummary struct {
	// Month in YYYY-MM form
	Month string `json:"month"`

	InCount  int64           `json:"inCount"`
	InQty    int64           `json:"inQty"`
	InValue  decimal.Decimal `json:"inValue"`
	OutCount int64           `json:"outCount"`
	OutQty   int64           `json:"outQty"`
	OutValue decimal.Decimal `json:"outValue"`
}

// MonthlyDetailRow is the per-material breakdown of one month.
type MonthlyDetailRow struct {
	MaterialID   id.ID           `db:"material_id" json:"materialId"`
	MaterialCode string          `db:"material_code" json:"materialCode"`
	MaterialName string          `db:"material_name" json:"materialName"`
	Unit         string          `db:"unit" json:"unit"`
	Category     string          `db:"category" json:"category"`
	InQty        int64           `db:"in_qty" json:"inQty"`
	InValue      decimal.Decimal `db:"in_value" json:"inValue"`
	OutQty       int64           `db:"out_qty" json:"outQty"`
	OutValue     decimal.Decimal `db:"out_value" json:"outValue"`
	CurrentStock int64           `db:"current_stock" json:"currentStock"`
	StockValue   decimal.Decimal `db:"stock_value" json:"stockValue"`
}

// MonthlyTotals are the grand totals of a monthly detail report.
type MonthlyTotals struct {
	InQty    int64           `json:"inQty"`
	InValue  decimal.Decimal `json:"inValue"`
	OutQty   int64           `json:"outQty"`
	OutValue decimal.Decimal `json:"outValue"`
}

// MonthlyDetail is the full report for one month.
type MonthlyDetail struct {
	Month  string             `json:"month"`
	Rows   []MonthlyDetailRow `json:"rows"`
	Totals MonthlyTotals      `json:"totals"`
}
