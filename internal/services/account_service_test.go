package services

import (
	"testing"

	"dispend/internal/models"
	"dispend/internal/patch"
	"dispend/internal/testutil"
)

func TestCreateAccount(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewAccountService(db, "CAD")

		account, err := svc.CreateAccount(CreateAccountInput{Name: "Everyday", Type: models.AccountTypeChecking})
		testutil.AssertNoError(t, err)

		if account.ID == "" {
			t.Fatal("expected a generated account ID")
		}
		if account.Currency != "CAD" {
			t.Errorf("expected default currency CAD, got %s", account.Currency)
		}
		if account.CurrentBalance != 0 {
			t.Errorf("expected zero balance, got %v", account.CurrentBalance)
		}
		if !account.IsActive {
			t.Error("expected account to be active")
		}
		if account.SortOrder != 0 {
			t.Errorf("expected sort order 0, got %d", account.SortOrder)
		}
		if account.CreatedAt == "" || account.UpdatedAt != account.CreatedAt {
			t.Errorf("expected matching timestamps, got created %q updated %q", account.CreatedAt, account.UpdatedAt)
		}
	})

	t.Run("explicit_fields", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewAccountService(db, "CAD")

		balance := 1250.75
		inactive := false
		order := 3
		account, err := svc.CreateAccount(CreateAccountInput{
			Name:           "Visa",
			Type:           models.AccountTypeCreditCard,
			Institution:    testutil.StrPtr("TD"),
			Currency:       "USD",
			CurrentBalance: &balance,
			IsActive:       &inactive,
			Color:          testutil.StrPtr("#ff8800"),
			SortOrder:      &order,
		})
		testutil.AssertNoError(t, err)

		if account.Currency != "USD" {
			t.Errorf("expected currency USD, got %s", account.Currency)
		}
		if account.CurrentBalance != 1250.75 {
			t.Errorf("expected balance 1250.75, got %v", account.CurrentBalance)
		}
		if account.IsActive {
			t.Error("expected account to be inactive")
		}
		if account.Institution == nil || *account.Institution != "TD" {
			t.Errorf("expected institution TD, got %v", account.Institution)
		}
		if account.SortOrder != 3 {
			t.Errorf("expected sort order 3, got %d", account.SortOrder)
		}
	})

	t.Run("empty_name", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewAccountService(db, "CAD")

		_, err := svc.CreateAccount(CreateAccountInput{Type: models.AccountTypeCash})
		testutil.AssertAppError(t, err, "INVALID_INPUT")
	})
}

func TestListAccounts(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	svc := NewAccountService(db, "CAD")

	for _, in := range []CreateAccountInput{
		{Name: "Savings", Type: models.AccountTypeSavings, SortOrder: intPtr(1)},
		{Name: "Wallet", Type: models.AccountTypeCash, SortOrder: intPtr(0)},
		{Name: "Brokerage", Type: models.AccountTypeInvestment, SortOrder: intPtr(1)},
	} {
		_, err := svc.CreateAccount(in)
		testutil.AssertNoError(t, err)
	}

	accounts, err := svc.ListAccounts()
	testutil.AssertNoError(t, err)

	want := []string{"Wallet", "Brokerage", "Savings"}
	if len(accounts) != len(want) {
		t.Fatalf("expected %d accounts, got %d", len(want), len(accounts))
	}
	for i, name := range want {
		if accounts[i].Name != name {
			t.Errorf("position %d: expected %s, got %s", i, name, accounts[i].Name)
		}
	}
}

func TestGetAccount(t *testing.T) {
	t.Run("found", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewAccountService(db, "CAD")
		created := testutil.CreateTestAccount(t, db)

		account, err := svc.GetAccount(created.ID)
		testutil.AssertNoError(t, err)
		if account.Name != created.Name {
			t.Errorf("expected name %s, got %s", created.Name, account.Name)
		}
	})

	t.Run("not_found", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewAccountService(db, "CAD")

		_, err := svc.GetAccount("0190b8f4-0000-7000-8000-000000000000")
		testutil.AssertAppError(t, err, "ACCOUNT_NOT_FOUND")
	})
}

func TestUpdateAccount(t *testing.T) {
	t.Run("sparse_update_keeps_other_fields", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewAccountService(db, "CAD")

		created, err := svc.CreateAccount(CreateAccountInput{
			Name:        "Chequing",
			Type:        models.AccountTypeChecking,
			Institution: testutil.StrPtr("RBC"),
			Notes:       testutil.StrPtr("joint"),
		})
		testutil.AssertNoError(t, err)

		updated, err := svc.UpdateAccount(created.ID, UpdateAccountInput{
			CurrentBalance: patch.Of(-42.5),
			Notes:          patch.Null[string](),
		})
		testutil.AssertNoError(t, err)

		if updated.Name != "Chequing" {
			t.Errorf("expected name unchanged, got %s", updated.Name)
		}
		if updated.Institution == nil || *updated.Institution != "RBC" {
			t.Errorf("expected institution unchanged, got %v", updated.Institution)
		}
		if updated.Notes != nil {
			t.Errorf("expected notes cleared, got %q", *updated.Notes)
		}
		if updated.CurrentBalance != -42.5 {
			t.Errorf("expected balance -42.5, got %v", updated.CurrentBalance)
		}
		if updated.CreatedAt != created.CreatedAt {
			t.Error("expected created_at to be preserved")
		}
		if updated.UpdatedAt < created.UpdatedAt {
			t.Errorf("expected updated_at to move forward, got %s before %s", updated.UpdatedAt, created.UpdatedAt)
		}
	})

	t.Run("null_name_rejected", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewAccountService(db, "CAD")
		account := testutil.CreateTestAccount(t, db)

		_, err := svc.UpdateAccount(account.ID, UpdateAccountInput{Name: patch.Null[string]()})
		testutil.AssertAppError(t, err, "INVALID_INPUT")
	})

	t.Run("blank_strings_rejected", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewAccountService(db, "CAD")
		account := testutil.CreateTestAccount(t, db)

		for name, input := range map[string]UpdateAccountInput{
			"name":        {Name: patch.Of("")},
			"padded_name": {Name: patch.Of("   ")},
			"type":        {Type: patch.Of("")},
			"notes":       {Notes: patch.Of("")},
		} {
			_, err := svc.UpdateAccount(account.ID, input)
			if err == nil {
				t.Errorf("%s: expected an error for a blank value", name)
				continue
			}
			testutil.AssertAppError(t, err, "INVALID_INPUT")
		}

		stored, err := svc.GetAccount(account.ID)
		testutil.AssertNoError(t, err)
		if stored.Name != account.Name || stored.Type != account.Type {
			t.Errorf("expected account unchanged, got %s (%s)", stored.Name, stored.Type)
		}
	})

	t.Run("not_found", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewAccountService(db, "CAD")

		_, err := svc.UpdateAccount("missing", UpdateAccountInput{Name: patch.Of("x")})
		testutil.AssertAppError(t, err, "ACCOUNT_NOT_FOUND")
	})
}

func TestDeleteAccount(t *testing.T) {
	t.Run("cascades_to_own_transactions_only", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewAccountService(db, "CAD")

		doomed := testutil.CreateTestAccount(t, db)
		kept := testutil.CreateTestAccount(t, db)
		for i := 0; i < 3; i++ {
			testutil.CreateTestTransaction(t, db, doomed.ID, nil, models.TransactionTypeExpense, -10, "2024-03-01")
		}
		testutil.CreateTestTransaction(t, db, kept.ID, nil, models.TransactionTypeIncome, 100, "2024-03-01")

		testutil.AssertNoError(t, svc.DeleteAccount(doomed.ID))

		testutil.AssertRowCount(t, db, &models.Account{}, 0, "id = ?", doomed.ID)
		testutil.AssertRowCount(t, db, &models.Transaction{}, 0, "account_id = ?", doomed.ID)
		testutil.AssertRowCount(t, db, &models.Transaction{}, 1, "account_id = ?", kept.ID)
	})

	t.Run("not_found", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewAccountService(db, "CAD")

		err := svc.DeleteAccount("missing")
		testutil.AssertAppError(t, err, "ACCOUNT_NOT_FOUND")
	})
}

func intPtr(v int) *int {
	return &v
}
