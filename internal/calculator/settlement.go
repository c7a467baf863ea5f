// Package calculator implements the pure settlement arithmetic: the
// provisional per-participant meal settlement and the final settlement
// that folds in personal bills.
//
// All money math runs on decimals and is rounded to 2 decimal places at
// the boundary, so that the conservation property (balances sum to zero)
// holds to the smallest currency unit up to per-row rounding.
package calculator

import (
	"github.com/shopspring/decimal"

	"github.com/messmate/messmate/internal/models"
)

var two = int32(2)

// ComputeSettlement computes one MealSettlement row per participant:
//
//	perMealCost   = totalSpend / totalMeals
//	personalShare = perMealCost * participant meals
//	amountPaid    = sum of expenses paid by the participant
//	balance       = amountPaid - personalShare
//
// Rows are ordered registry-first; transient participants appearing only
// in records or expenses get rows too, in first-seen order. Returns
// models.ErrZeroMeals when no meals are recorded.
func ComputeSettlement(participants []models.Participant, records []*models.MealRecord, expenses []*models.Expense) ([]*models.MealSettlement, error) {
	order := make([]string, 0, len(participants))
	people := make(map[string]models.Participant, len(participants))
	track := func(p models.Participant) {
		if _, ok := people[p.ID]; !ok {
			people[p.ID] = p
			order = append(order, p.ID)
		}
	}
	for _, p := range participants {
		track(p)
	}

	meals := make(map[string]int)
	totalMeals := 0
	for _, rec := range records {
		for _, e := range rec.Entries {
			track(e.Participant)
			meals[e.Participant.ID] += e.TotalMealsCount()
			totalMeals += e.TotalMealsCount()
		}
	}

	totalSpend := decimal.Zero
	paid := make(map[string]decimal.Decimal)
	for _, exp := range expenses {
		track(exp.PaidBy)
		amount := decimal.NewFromFloat(exp.Amount)
		totalSpend = totalSpend.Add(amount)
		paid[exp.PaidBy.ID] = paid[exp.PaidBy.ID].Add(amount)
	}

	if totalMeals == 0 {
		return nil, models.ErrZeroMeals
	}

	perMeal := totalSpend.Div(decimal.NewFromInt(int64(totalMeals)))

	settlements := make([]*models.MealSettlement, 0, len(order))
	for _, id := range order {
		count := meals[id]
		share := perMeal.Mul(decimal.NewFromInt(int64(count))).Round(two)
		amountPaid := paid[id].Round(two)
		balance := amountPaid.Sub(share)

		balanceType := models.BalanceOwed
		if balance.IsNegative() {
			balanceType = models.BalanceOwes
		}

		settlements = append(settlements, &models.MealSettlement{
			SystemID:        systemIDOf(records, expenses),
			Person:          people[id],
			TotalMealsCount: count,
			PerMealCost:     round2f(perMeal),
			PersonalShare:   round2f(share),
			AmountPaid:      round2f(amountPaid),
			Balance:         round2f(balance),
			BalanceType:     balanceType,
		})
	}
	return settlements, nil
}

// systemIDOf picks the owning system ID from whichever input has one.
// Pure callers (tests) may pass records built without IDs; the service
// always sets it afterwards anyway.
func systemIDOf(records []*models.MealRecord, expenses []*models.Expense) string {
	for _, r := range records {
		if r.SystemID != "" {
			return r.SystemID
		}
	}
	for _, e := range expenses {
		if e.SystemID != "" {
			return e.SystemID
		}
	}
	return ""
}

func round2f(d decimal.Decimal) float64 {
	f, _ := d.Round(two).Float64()
	return f
}
