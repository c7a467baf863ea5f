package sqlite

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/messmate/messmate/internal/models"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	store, err := New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func testSystem() *models.MealSystem {
	return &models.MealSystem{
		Month:        1,
		Year:         2025,
		TotalPersons: 2,
		Participants: []models.Participant{
			{ID: "alice@mail.com", Name: "Alice", Email: "alice@mail.com"},
			{ID: "Bob", Name: "Bob"},
		},
	}
}

func mustCreateSystem(t *testing.T, store *SQLiteStore) *models.MealSystem {
	t.Helper()
	ms := testSystem()
	if err := store.CreateMealSystem(context.Background(), ms); err != nil {
		t.Fatalf("CreateMealSystem() error = %v", err)
	}
	return ms
}

func TestMealSystemLifecycle(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	t.Run("create populates defaults", func(t *testing.T) {
		ms := mustCreateSystem(t, store)
		if ms.ID == "" {
			t.Error("expected generated ID")
		}
		if ms.Status != models.StatusActive {
			t.Errorf("status = %q, want active", ms.Status)
		}
		if ms.CreatedAt == 0 {
			t.Error("expected CreatedAt to be set")
		}
	})

	t.Run("get round-trips participants in order", func(t *testing.T) {
		ms := mustCreateSystem(t, store)
		got, err := store.GetMealSystem(ctx, ms.ID)
		if err != nil {
			t.Fatalf("GetMealSystem() error = %v", err)
		}
		if len(got.Participants) != 2 {
			t.Fatalf("participants = %d, want 2", len(got.Participants))
		}
		if got.Participants[0].ID != "alice@mail.com" || got.Participants[1].ID != "Bob" {
			t.Errorf("participant order = [%s %s]", got.Participants[0].ID, got.Participants[1].ID)
		}
	})

	t.Run("get unknown returns not found", func(t *testing.T) {
		_, err := store.GetMealSystem(ctx, "nope")
		if models.KindOf(err) != models.KindNotFound {
			t.Errorf("error = %v, want not_found", err)
		}
	})

	t.Run("delete unknown returns not found", func(t *testing.T) {
		err := store.DeleteMealSystem(ctx, "nope")
		if models.KindOf(err) != models.KindNotFound {
			t.Errorf("error = %v, want not_found", err)
		}
	})
}

func TestActiveMealSystem(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	active, err := store.ActiveMealSystem(ctx)
	if err != nil {
		t.Fatalf("ActiveMealSystem() error = %v", err)
	}
	if active != nil {
		t.Fatalf("expected no active system, got %s", active.ID)
	}

	ms := mustCreateSystem(t, store)
	active, err = store.ActiveMealSystem(ctx)
	if err != nil {
		t.Fatalf("ActiveMealSystem() error = %v", err)
	}
	if active == nil || active.ID != ms.ID {
		t.Errorf("active = %+v, want %s", active, ms.ID)
	}
}

func TestReactivateMealSystem(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	first := mustCreateSystem(t, store)
	second := testSystem()
	second.Month = 2
	second.Status = models.StatusClosed
	if err := store.CreateMealSystem(ctx, second); err != nil {
		t.Fatalf("CreateMealSystem() error = %v", err)
	}

	// Reactivating second must close first atomically.
	if err := store.ReactivateMealSystem(ctx, second.ID); err != nil {
		t.Fatalf("ReactivateMealSystem() error = %v", err)
	}

	systems, err := store.ListMealSystems(ctx)
	if err != nil {
		t.Fatalf("ListMealSystems() error = %v", err)
	}
	activeCount := 0
	for _, ms := range systems {
		if ms.Status == models.StatusActive {
			activeCount++
			if ms.ID != second.ID {
				t.Errorf("active system = %s, want %s", ms.ID, second.ID)
			}
		}
		if ms.ID == first.ID && ms.Status != models.StatusClosed {
			t.Errorf("first system status = %q, want closed", ms.Status)
		}
	}
	if activeCount != 1 {
		t.Errorf("active systems = %d, want exactly 1", activeCount)
	}

	if err := store.ReactivateMealSystem(ctx, "nope"); models.KindOf(err) != models.KindNotFound {
		t.Errorf("reactivate unknown error = %v, want not_found", err)
	}
}

func TestClearHistory(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	ms := mustCreateSystem(t, store)
	alice := ms.Participants[0]

	rec := &models.MealRecord{
		SystemID: ms.ID,
		Date:     "2025-01-05",
		Entries:  []models.MealEntry{{Participant: alice, LunchCount: 1, DinnerCount: 1}},
	}
	if err := store.SaveRecord(ctx, rec); err != nil {
		t.Fatalf("SaveRecord() error = %v", err)
	}
	exp := &models.Expense{SystemID: ms.ID, Date: "2025-01-05", Amount: 50, PaidBy: alice}
	if err := store.CreateExpense(ctx, exp); err != nil {
		t.Fatalf("CreateExpense() error = %v", err)
	}
	rows := []*models.MealSettlement{{SystemID: ms.ID, Person: alice, TotalMealsCount: 2, Balance: 50, BalanceType: models.BalanceOwed}}
	if err := store.ReplaceSettlements(ctx, ms.ID, rows); err != nil {
		t.Fatalf("ReplaceSettlements() error = %v", err)
	}

	if err := store.ClearHistory(ctx, ms.ID); err != nil {
		t.Fatalf("ClearHistory() error = %v", err)
	}

	got, err := store.GetMealSystem(ctx, ms.ID)
	if err != nil {
		t.Fatalf("system should survive clear: %v", err)
	}
	if len(got.Participants) != 2 {
		t.Errorf("participants after clear = %d, want 2", len(got.Participants))
	}
	if recs, _ := store.ListRecords(ctx, ms.ID); len(recs) != 0 {
		t.Errorf("records after clear = %d, want 0", len(recs))
	}
	if exps, _ := store.ListExpenses(ctx, ms.ID); len(exps) != 0 {
		t.Errorf("expenses after clear = %d, want 0", len(exps))
	}
	if setts, _ := store.ListSettlements(ctx, ms.ID); len(setts) != 0 {
		t.Errorf("settlements after clear = %d, want 0", len(setts))
	}
}

func TestDeleteCascades(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	ms := mustCreateSystem(t, store)
	alice := ms.Participants[0]

	rec := &models.MealRecord{
		SystemID: ms.ID,
		Date:     "2025-01-05",
		Entries:  []models.MealEntry{{Participant: alice, LunchCount: 2, DinnerCount: 0}},
	}
	if err := store.SaveRecord(ctx, rec); err != nil {
		t.Fatalf("SaveRecord() error = %v", err)
	}
	exp := &models.Expense{SystemID: ms.ID, Date: "2025-01-05", Amount: 30, PaidBy: alice}
	if err := store.CreateExpense(ctx, exp); err != nil {
		t.Fatalf("CreateExpense() error = %v", err)
	}

	if err := store.DeleteMealSystem(ctx, ms.ID); err != nil {
		t.Fatalf("DeleteMealSystem() error = %v", err)
	}
	if _, err := store.GetRecord(ctx, rec.ID); models.KindOf(err) != models.KindNotFound {
		t.Errorf("record survived system delete: %v", err)
	}
	if _, err := store.GetExpense(ctx, exp.ID); models.KindOf(err) != models.KindNotFound {
		t.Errorf("expense survived system delete: %v", err)
	}
}

func TestRecords(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	ms := mustCreateSystem(t, store)
	alice, bob := ms.Participants[0], ms.Participants[1]

	t.Run("save and get with entries", func(t *testing.T) {
		rec := &models.MealRecord{
			SystemID: ms.ID,
			Date:     "2025-01-10",
			Entries: []models.MealEntry{
				{Participant: alice, LunchCount: 1, DinnerCount: 2},
				{Participant: bob, LunchCount: 0, DinnerCount: 1},
			},
		}
		if err := store.SaveRecord(ctx, rec); err != nil {
			t.Fatalf("SaveRecord() error = %v", err)
		}
		got, err := store.GetRecord(ctx, rec.ID)
		if err != nil {
			t.Fatalf("GetRecord() error = %v", err)
		}
		if len(got.Entries) != 2 || got.TotalMealsCount() != 4 {
			t.Errorf("got %d entries, %d meals; want 2 entries, 4 meals", len(got.Entries), got.TotalMealsCount())
		}
	})

	t.Run("upsert replaces entries", func(t *testing.T) {
		rec := &models.MealRecord{
			SystemID: ms.ID,
			Date:     "2025-01-11",
			Entries:  []models.MealEntry{{Participant: alice, LunchCount: 1, DinnerCount: 1}},
		}
		if err := store.SaveRecord(ctx, rec); err != nil {
			t.Fatalf("first save: %v", err)
		}
		rec.Entries = []models.MealEntry{
			{Participant: alice, LunchCount: 3, DinnerCount: 0},
			{Participant: bob, LunchCount: 1, DinnerCount: 1},
		}
		if err := store.SaveRecord(ctx, rec); err != nil {
			t.Fatalf("second save: %v", err)
		}
		got, err := store.GetRecord(ctx, rec.ID)
		if err != nil {
			t.Fatalf("GetRecord() error = %v", err)
		}
		if len(got.Entries) != 2 {
			t.Fatalf("entries = %d, want 2 after replace", len(got.Entries))
		}
		for _, e := range got.Entries {
			if e.Participant.ID == alice.ID && e.LunchCount != 3 {
				t.Errorf("alice entry not replaced: %+v", e)
			}
		}
	})

	t.Run("lookup by date skips bulk records", func(t *testing.T) {
		bulk := &models.MealRecord{
			SystemID: ms.ID,
			Bulk:     true,
			Entries:  []models.MealEntry{{Participant: bob, LunchCount: 5, DinnerCount: 5}},
		}
		if err := store.SaveRecord(ctx, bulk); err != nil {
			t.Fatalf("SaveRecord() error = %v", err)
		}
		got, err := store.GetRecordByDate(ctx, ms.ID, "2025-01-10")
		if err != nil {
			t.Fatalf("GetRecordByDate() error = %v", err)
		}
		if got == nil || got.Date != "2025-01-10" {
			t.Errorf("GetRecordByDate() = %+v", got)
		}
		missing, err := store.GetRecordByDate(ctx, ms.ID, "2025-12-31")
		if err != nil {
			t.Fatalf("GetRecordByDate() error = %v", err)
		}
		if missing != nil {
			t.Errorf("expected nil for unused date, got %+v", missing)
		}
	})

	t.Run("list orders dated before bulk", func(t *testing.T) {
		recs, err := store.ListRecords(ctx, ms.ID)
		if err != nil {
			t.Fatalf("ListRecords() error = %v", err)
		}
		if len(recs) < 3 {
			t.Fatalf("records = %d, want at least 3", len(recs))
		}
		if recs[len(recs)-1].Bulk != true {
			t.Error("bulk record should sort last")
		}
		for i := 0; i < len(recs)-2; i++ {
			if recs[i].Date > recs[i+1].Date {
				t.Errorf("dated records out of order: %s after %s", recs[i].Date, recs[i+1].Date)
			}
		}
	})

	t.Run("delete removes record", func(t *testing.T) {
		rec := &models.MealRecord{
			SystemID: ms.ID,
			Date:     "2025-01-20",
			Entries:  []models.MealEntry{{Participant: alice, LunchCount: 1}},
		}
		if err := store.SaveRecord(ctx, rec); err != nil {
			t.Fatalf("SaveRecord() error = %v", err)
		}
		if err := store.DeleteRecord(ctx, rec.ID); err != nil {
			t.Fatalf("DeleteRecord() error = %v", err)
		}
		if _, err := store.GetRecord(ctx, rec.ID); models.KindOf(err) != models.KindNotFound {
			t.Errorf("error = %v, want not_found", err)
		}
	})
}

func TestExpenses(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	ms := mustCreateSystem(t, store)
	alice := ms.Participants[0]

	exp := &models.Expense{
		SystemID:    ms.ID,
		Date:        "2025-01-12",
		Amount:      123.45,
		Description: "Groceries",
		PaidBy:      alice,
	}
	if err := store.CreateExpense(ctx, exp); err != nil {
		t.Fatalf("CreateExpense() error = %v", err)
	}
	if exp.ID == "" {
		t.Fatal("expected generated expense ID")
	}

	got, err := store.GetExpense(ctx, exp.ID)
	if err != nil {
		t.Fatalf("GetExpense() error = %v", err)
	}
	if got.Amount != 123.45 || got.PaidBy.ID != alice.ID || got.PaidBy.Email != alice.Email {
		t.Errorf("round-trip mismatch: %+v", got)
	}

	got.Amount = 200
	got.Description = "Groceries and gas"
	if err := store.UpdateExpense(ctx, got); err != nil {
		t.Fatalf("UpdateExpense() error = %v", err)
	}
	updated, err := store.GetExpense(ctx, exp.ID)
	if err != nil {
		t.Fatalf("GetExpense() error = %v", err)
	}
	if updated.Amount != 200 || updated.Description != "Groceries and gas" {
		t.Errorf("update not applied: %+v", updated)
	}

	if err := store.DeleteExpense(ctx, exp.ID); err != nil {
		t.Fatalf("DeleteExpense() error = %v", err)
	}
	if _, err := store.GetExpense(ctx, exp.ID); models.KindOf(err) != models.KindNotFound {
		t.Errorf("error = %v, want not_found", err)
	}
}

func TestReplaceSettlements(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	ms := mustCreateSystem(t, store)
	alice, bob := ms.Participants[0], ms.Participants[1]

	first := []*models.MealSettlement{
		{SystemID: ms.ID, Person: alice, TotalMealsCount: 10, PerMealCost: 10, PersonalShare: 100, AmountPaid: 200, Balance: 100, BalanceType: models.BalanceOwed},
		{SystemID: ms.ID, Person: bob, TotalMealsCount: 10, PerMealCost: 10, PersonalShare: 100, AmountPaid: 0, Balance: -100, BalanceType: models.BalanceOwes},
	}
	if err := store.ReplaceSettlements(ctx, ms.ID, first); err != nil {
		t.Fatalf("ReplaceSettlements() error = %v", err)
	}

	second := []*models.MealSettlement{
		{SystemID: ms.ID, Person: alice, TotalMealsCount: 12, PerMealCost: 9, PersonalShare: 108, AmountPaid: 216, Balance: 108, BalanceType: models.BalanceOwed},
	}
	if err := store.ReplaceSettlements(ctx, ms.ID, second); err != nil {
		t.Fatalf("ReplaceSettlements() error = %v", err)
	}

	got, err := store.ListSettlements(ctx, ms.ID)
	if err != nil {
		t.Fatalf("ListSettlements() error = %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("settlements = %d, want 1 after replace", len(got))
	}
	if got[0].Person.ID != alice.ID || got[0].Balance != 108 {
		t.Errorf("row = %+v", got[0])
	}
}

func TestFinalSettlements(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	ms := mustCreateSystem(t, store)
	alice := ms.Participants[0]

	fs := &models.FinalSettlement{
		SystemID:           ms.ID,
		Person:             alice,
		PreviousAmountPaid: 200,
		PersonalShare:      100,
		MealBalance:        100,
		MealBalanceType:    models.BalanceOwed,
		Bills: []models.Bill{
			{Kind: models.BillRent, Amount: 60},
			{Kind: models.BillCustom, CustomName: "Water", Amount: 0, Ignored: true},
		},
		TotalBills:   60,
		FinalBalance: 40,
		FinalType:    models.FinalToReceive,
	}
	if err := store.SaveFinalSettlement(ctx, fs); err != nil {
		t.Fatalf("SaveFinalSettlement() error = %v", err)
	}

	got, err := store.GetFinalSettlement(ctx, fs.ID)
	if err != nil {
		t.Fatalf("GetFinalSettlement() error = %v", err)
	}
	if len(got.Bills) != 2 || got.Bills[0].Kind != models.BillRent || !got.Bills[1].Ignored {
		t.Errorf("bills round-trip mismatch: %+v", got.Bills)
	}
	if got.FinalBalance != 40 || got.FinalType != models.FinalToReceive {
		t.Errorf("final = %v (%s)", got.FinalBalance, got.FinalType)
	}

	// Saving a new entry for the same person replaces the old one.
	replacement := &models.FinalSettlement{
		SystemID:        ms.ID,
		Person:          alice,
		MealBalance:     -20,
		MealBalanceType: models.BalanceOwes,
		Bills:           []models.Bill{{Kind: models.BillWifi, Amount: 15}},
		TotalBills:      15,
		FinalBalance:    35,
		FinalType:       models.FinalNeedsToPay,
	}
	if err := store.SaveFinalSettlement(ctx, replacement); err != nil {
		t.Fatalf("SaveFinalSettlement() replace error = %v", err)
	}

	all, err := store.ListFinalSettlements(ctx, ms.ID)
	if err != nil {
		t.Fatalf("ListFinalSettlements() error = %v", err)
	}
	if len(all) != 1 {
		t.Fatalf("final settlements = %d, want 1 per person", len(all))
	}
	if all[0].ID != replacement.ID || all[0].FinalBalance != 35 {
		t.Errorf("replacement not applied: %+v", all[0])
	}
	if _, err := store.GetFinalSettlement(ctx, fs.ID); models.KindOf(err) != models.KindNotFound {
		t.Errorf("old entry should be gone, got err = %v", err)
	}
}
