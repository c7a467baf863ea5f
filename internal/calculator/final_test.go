package calculator

import (
	"math"
	"testing"

	"github.com/messmate/messmate/internal/models"
)

func TestComposeFinal(t *testing.T) {
	person := participant("Alice", "alice@mail.com")

	tests := []struct {
		name         string
		settlement   models.MealSettlement
		bills        []models.Bill
		validateFunc func(t *testing.T, fs models.FinalSettlement)
	}{
		{
			name: "bills exceed positive balance",
			settlement: models.MealSettlement{
				Person: person, AmountPaid: 150, PersonalShare: 100,
				Balance: 50, BalanceType: models.BalanceOwed,
			},
			bills: []models.Bill{
				{Kind: models.BillRent, Amount: 60},
				{Kind: models.BillWifi, Amount: 20},
			},
			validateFunc: func(t *testing.T, fs models.FinalSettlement) {
				if fs.TotalBills != 80 {
					t.Errorf("totalBills = %v, want 80", fs.TotalBills)
				}
				// net = 50 - 80 = -30
				if fs.FinalBalance != 30 || fs.FinalType != models.FinalNeedsToPay {
					t.Errorf("final = %v (%s), want 30 Needs to Pay", fs.FinalBalance, fs.FinalType)
				}
			},
		},
		{
			name: "positive balance covers bills",
			settlement: models.MealSettlement{
				Person: person, AmountPaid: 300, PersonalShare: 100,
				Balance: 200, BalanceType: models.BalanceOwed,
			},
			bills: []models.Bill{{Kind: models.BillGas, Amount: 50}},
			validateFunc: func(t *testing.T, fs models.FinalSettlement) {
				if fs.FinalBalance != 150 || fs.FinalType != models.FinalToReceive {
					t.Errorf("final = %v (%s), want 150 To Receive", fs.FinalBalance, fs.FinalType)
				}
			},
		},
		{
			name: "negative balance deepens with bills",
			settlement: models.MealSettlement{
				Person: person, AmountPaid: 0, PersonalShare: 75,
				Balance: -75, BalanceType: models.BalanceOwes,
			},
			bills: []models.Bill{{Kind: models.BillElectricity, Amount: 25}},
			validateFunc: func(t *testing.T, fs models.FinalSettlement) {
				if fs.FinalBalance != 100 || fs.FinalType != models.FinalNeedsToPay {
					t.Errorf("final = %v (%s), want 100 Needs to Pay", fs.FinalBalance, fs.FinalType)
				}
			},
		},
		{
			name: "zero net position reads as To Receive",
			settlement: models.MealSettlement{
				Person: person, Balance: 40, BalanceType: models.BalanceOwed,
			},
			bills: []models.Bill{{Kind: models.BillHousemaid, Amount: 40}},
			validateFunc: func(t *testing.T, fs models.FinalSettlement) {
				if fs.FinalBalance != 0 || fs.FinalType != models.FinalToReceive {
					t.Errorf("final = %v (%s), want 0 To Receive", fs.FinalBalance, fs.FinalType)
				}
			},
		},
		{
			name: "zero amount custom bill is ignored, not an error",
			settlement: models.MealSettlement{
				Person: person, Balance: 50, BalanceType: models.BalanceOwed,
			},
			bills: []models.Bill{
				{Kind: models.BillCustom, CustomName: "Trash", Amount: 0},
				{Kind: models.BillRent, Amount: 30},
			},
			validateFunc: func(t *testing.T, fs models.FinalSettlement) {
				if fs.TotalBills != 30 {
					t.Errorf("totalBills = %v, want 30 (zero bill excluded)", fs.TotalBills)
				}
				if len(fs.Bills) != 2 {
					t.Fatalf("bills retained = %d, want 2", len(fs.Bills))
				}
				if !fs.Bills[0].Ignored {
					t.Error("zero-amount bill should be marked ignored")
				}
				if fs.Bills[1].Ignored {
					t.Error("positive bill should not be marked ignored")
				}
			},
		},
		{
			name: "no bills leaves balance untouched",
			settlement: models.MealSettlement{
				Person: person, Balance: -12.34, BalanceType: models.BalanceOwes,
			},
			bills: nil,
			validateFunc: func(t *testing.T, fs models.FinalSettlement) {
				if fs.TotalBills != 0 {
					t.Errorf("totalBills = %v, want 0", fs.TotalBills)
				}
				if math.Abs(fs.FinalBalance-12.34) > 0.001 || fs.FinalType != models.FinalNeedsToPay {
					t.Errorf("final = %v (%s), want 12.34 Needs to Pay", fs.FinalBalance, fs.FinalType)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fs := ComposeFinal(tt.settlement, tt.bills)
			if fs.Person.ID != person.ID {
				t.Errorf("person = %q, want %q", fs.Person.ID, person.ID)
			}
			if fs.MealBalance != tt.settlement.Balance {
				t.Errorf("mealBalance = %v, want snapshot %v", fs.MealBalance, tt.settlement.Balance)
			}
			tt.validateFunc(t, fs)
		})
	}
}

func TestRecompose_PreservesSnapshot(t *testing.T) {
	person := participant("Bob", "")
	original := ComposeFinal(models.MealSettlement{
		SystemID: "sys-1", Person: person,
		AmountPaid: 120, PersonalShare: 70,
		Balance: 50, BalanceType: models.BalanceOwed,
	}, []models.Bill{{Kind: models.BillRent, Amount: 20}})
	original.ID = "final-1"

	edited := Recompose(original, []models.Bill{
		{Kind: models.BillRent, Amount: 20},
		{Kind: models.BillWifi, Amount: 45},
	})

	if edited.ID != "final-1" || edited.SystemID != "sys-1" {
		t.Errorf("identity changed: id=%q system=%q", edited.ID, edited.SystemID)
	}
	if edited.PreviousAmountPaid != 120 || edited.PersonalShare != 70 ||
		edited.MealBalance != 50 || edited.MealBalanceType != models.BalanceOwed {
		t.Errorf("frozen snapshot changed: %+v", edited)
	}
	if edited.TotalBills != 65 {
		t.Errorf("totalBills = %v, want 65", edited.TotalBills)
	}
	// net = 50 - 65 = -15
	if edited.FinalBalance != 15 || edited.FinalType != models.FinalNeedsToPay {
		t.Errorf("final = %v (%s), want 15 Needs to Pay", edited.FinalBalance, edited.FinalType)
	}
}
