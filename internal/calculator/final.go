package calculator

import (
	"github.com/shopspring/decimal"

	"github.com/messmate/messmate/internal/models"
)

// ComposeFinal folds a meal settlement with a participant's personal
// bills into a final settlement:
//
//	totalBills  = sum of bill amounts > 0 (others marked ignored)
//	netPosition = signed meal balance - totalBills
//	finalType   = "To Receive" when netPosition >= 0, else "Needs to Pay"
//	finalBalance = |netPosition|
//
// Bills are a personal liability added to what the participant owes, so a
// positive meal balance shrinks and a negative one grows. The settlement
// fields are snapshotted into the result; ID and SystemID are left for
// the caller to assign.
func ComposeFinal(ms models.MealSettlement, bills []models.Bill) models.FinalSettlement {
	kept := make([]models.Bill, len(bills))
	totalBills := decimal.Zero
	for i, b := range bills {
		b.Ignored = b.Amount <= 0
		if !b.Ignored {
			totalBills = totalBills.Add(decimal.NewFromFloat(b.Amount))
		}
		kept[i] = b
	}

	net := decimal.NewFromFloat(ms.Balance).Sub(totalBills)
	finalType := models.FinalToReceive
	if net.IsNegative() {
		finalType = models.FinalNeedsToPay
	}

	return models.FinalSettlement{
		SystemID:           ms.SystemID,
		Person:             ms.Person,
		PreviousAmountPaid: ms.AmountPaid,
		PersonalShare:      ms.PersonalShare,
		MealBalance:        ms.Balance,
		MealBalanceType:    ms.BalanceType,
		Bills:              kept,
		TotalBills:         round2f(totalBills),
		FinalBalance:       round2f(net.Abs()),
		FinalType:          finalType,
	}
}

// Recompose recomputes a final settlement's bill-derived fields from a new
// bill set, keeping the frozen meal-settlement snapshot untouched. Used
// when bills are edited after new meal records exist: finalizing bills
// must not retroactively change the snapshot.
func Recompose(fs models.FinalSettlement, bills []models.Bill) models.FinalSettlement {
	next := ComposeFinal(models.MealSettlement{
		SystemID:      fs.SystemID,
		Person:        fs.Person,
		AmountPaid:    fs.PreviousAmountPaid,
		PersonalShare: fs.PersonalShare,
		Balance:       fs.MealBalance,
		BalanceType:   fs.MealBalanceType,
	}, bills)
	next.ID = fs.ID
	return next
}
