package model

import (
	"fmt"
	"time"
)

// MaxDelayDays bounds the payment delay a scenario may apply, in either direction.
const MaxDelayDays = 30

// ClampDelay bounds days to [-MaxDelayDays, MaxDelayDays].
func ClampDelay(days int) int {
	if days > MaxDelayDays {
		return MaxDelayDays
	}
	if days < -MaxDelayDays {
		return -MaxDelayDays
	}
	return days
}

// DefaultScenarioName is the label given to an unnamed scenario.
func DefaultScenarioName(delayDays int) string {
	return fmt.Sprintf("Delay %d days", delayDays)
}

// PeriodPoint is one point of a baseline or scenario series.
type PeriodPoint struct {
	Date  Date    `json:"date"`
	Total float64 `json:"total"`
}

// Payment is a dated outflow used to build baseline and delayed series together.
type Payment struct {
	Date     Date
	Amount   float64
	Priority bool
}

// Scenario pairs a baseline series with its delayed-payment variant.
type Scenario struct {
	Name      string        `json:"name"`
	DelayDays int           `json:"delay_days"`
	Baseline  []PeriodPoint `json:"baseline"`
	Scenario  []PeriodPoint `json:"scenario"`
}

// RiskMetrics summarizes how a scenario changes cash position.
type RiskMetrics struct {
	CashDip          float64 `json:"cash_dip"`
	BurnRate         float64 `json:"burn_rate"`
	ScenarioBurnRate float64 `json:"scenario_burn_rate"`
	DaysToZero       int     `json:"days_to_zero"`
	// RunwayUnknown is set when the scenario burn rate is not positive, so
	// DaysToZero = 0 means "not computable" rather than "broke today".
	RunwayUnknown bool `json:"runway_unknown"`
}

// BalancePoint is one step of the cumulative walk over the merged date axis.
type BalancePoint struct {
	Date     Date    `json:"date"`
	Baseline float64 `json:"baseline"`
	Scenario float64 `json:"scenario"`
	Diff     float64 `json:"diff"` // Scenario - Baseline
}

// SavedScenario is the persisted shape of a named scenario.
type SavedScenario struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	DelayDays int       `json:"delay_days"`
	CreatedAt time.Time `json:"created_at"`
}

// Projection bundles a scenario with its risk metrics and balance walk.
type Projection struct {
	Scenario        Scenario       `json:"scenario"`
	StartingBalance float64        `json:"starting_balance"`
	Metrics         RiskMetrics    `json:"metrics"`
	Walk            []BalancePoint `json:"walk"`
}
