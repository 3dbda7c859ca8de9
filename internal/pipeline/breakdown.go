package pipeline

import (
	"sort"

	"github.com/theirongolddev/cashcal/internal/model"
)

// PaymentBreakdown splits payment totals into the part a delay scenario may
// move and the part it must leave in place.
type PaymentBreakdown struct {
	PriorityTotal   float64
	DeferrableTotal float64
	Total           float64
	PriorityShare   float64 // 0-1
}

// MonthBreakdown is PaymentBreakdown for one calendar month.
type MonthBreakdown struct {
	Month model.Date // first day of the month
	PaymentBreakdown
}

// AggregatePaymentBreakdown computes the overall priority/deferrable split
// and the same split per month, sorted by month.
func AggregatePaymentBreakdown(payments []model.Payment) (PaymentBreakdown, []MonthBreakdown) {
	var totals PaymentBreakdown
	byMonth := make(map[model.Date]*MonthBreakdown)

	for _, p := range payments {
		if p.Date.IsZero() {
			continue
		}
		amount := model.Finite(p.Amount)
		month := PeriodStart(p.Date, model.PeriodMonth)

		row, ok := byMonth[month]
		if !ok {
			row = &MonthBreakdown{Month: month}
			byMonth[month] = row
		}
		if p.Priority {
			totals.PriorityTotal += amount
			row.PriorityTotal += amount
		} else {
			totals.DeferrableTotal += amount
			row.DeferrableTotal += amount
		}
	}

	totals.finish()
	months := make([]MonthBreakdown, 0, len(byMonth))
	for _, row := range byMonth {
		row.finish()
		months = append(months, *row)
	}
	sort.Slice(months, func(i, j int) bool {
		return months[i].Month.Before(months[j].Month)
	})

	return totals, months
}

func (b *PaymentBreakdown) finish() {
	b.Total = b.PriorityTotal + b.DeferrableTotal
	if b.Total > 0 {
		b.PriorityShare = Normalize(b.PriorityTotal, b.Total)
	}
}
