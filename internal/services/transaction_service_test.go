package services

import (
	"testing"

	"dispend/internal/models"
	"dispend/internal/pagination"
	"dispend/internal/patch"
	"dispend/internal/testutil"
)

func TestCreateTransaction(t *testing.T) {
	t.Run("expense_defaults", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewTransactionService(db)
		account := testutil.CreateTestAccount(t, db)
		cat := testutil.CreateTestCategory(t, db, models.CategoryTypeExpense)

		tx, err := svc.CreateTransaction(CreateTransactionInput{
			AccountID:   account.ID,
			CategoryID:  &cat.ID,
			Date:        "2024-06-14",
			Amount:      -54.23,
			Description: "Grocery run",
			Type:        models.TransactionTypeExpense,
		})
		testutil.AssertNoError(t, err)

		if tx.Status != models.TransactionStatusCleared {
			t.Errorf("expected status cleared, got %s", tx.Status)
		}
		if tx.Currency != account.Currency {
			t.Errorf("expected account currency %s, got %s", account.Currency, tx.Currency)
		}
		if tx.Tags == nil || len(tx.Tags) != 0 {
			t.Errorf("expected empty tags, got %v", tx.Tags)
		}
		if tx.AccountName == nil || *tx.AccountName != account.Name {
			t.Errorf("expected account name %s, got %v", account.Name, tx.AccountName)
		}
		if tx.CategoryName == nil || *tx.CategoryName != cat.Name {
			t.Errorf("expected category name %s, got %v", cat.Name, tx.CategoryName)
		}
	})

	t.Run("tags_round_trip", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewTransactionService(db)
		account := testutil.CreateTestAccount(t, db)

		tx, err := svc.CreateTransaction(CreateTransactionInput{
			AccountID:   account.ID,
			Date:        "2024-06-14",
			Amount:      2500,
			Description: "Payroll",
			Type:        models.TransactionTypeIncome,
			Tags:        []string{"work", "monthly"},
		})
		testutil.AssertNoError(t, err)

		if len(tx.Tags) != 2 || tx.Tags[0] != "work" || tx.Tags[1] != "monthly" {
			t.Errorf("expected tags [work monthly], got %v", tx.Tags)
		}
		if tx.CategoryName != nil {
			t.Errorf("expected no category name, got %s", *tx.CategoryName)
		}
	})

	t.Run("sign_rule", func(t *testing.T) {
		tests := []struct {
			name    string
			txType  models.TransactionType
			amount  float64
			wantErr bool
		}{
			{"positive_expense", models.TransactionTypeExpense, 10, true},
			{"negative_income", models.TransactionTypeIncome, -10, true},
			{"zero_expense", models.TransactionTypeExpense, 0, false},
			{"negative_transfer", models.TransactionTypeTransfer, -300, false},
			{"positive_transfer", models.TransactionTypeTransfer, 300, false},
		}

		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewTransactionService(db)
		account := testutil.CreateTestAccount(t, db)

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				_, err := svc.CreateTransaction(CreateTransactionInput{
					AccountID:   account.ID,
					Date:        "2024-06-14",
					Amount:      tt.amount,
					Description: tt.name,
					Type:        tt.txType,
				})
				if tt.wantErr {
					testutil.AssertAppError(t, err, "AMOUNT_SIGN_MISMATCH")
				} else {
					testutil.AssertNoError(t, err)
				}
			})
		}
	})

	t.Run("unknown_account", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewTransactionService(db)

		_, err := svc.CreateTransaction(CreateTransactionInput{
			AccountID:   "missing",
			Date:        "2024-06-14",
			Amount:      -1,
			Description: "Coffee",
			Type:        models.TransactionTypeExpense,
		})
		testutil.AssertAppError(t, err, "ACCOUNT_NOT_FOUND")
	})

	t.Run("unknown_category", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewTransactionService(db)
		account := testutil.CreateTestAccount(t, db)

		_, err := svc.CreateTransaction(CreateTransactionInput{
			AccountID:   account.ID,
			CategoryID:  testutil.StrPtr("missing"),
			Date:        "2024-06-14",
			Amount:      -1,
			Description: "Coffee",
			Type:        models.TransactionTypeExpense,
		})
		testutil.AssertAppError(t, err, "CATEGORY_NOT_FOUND")
	})
}

func TestListTransactions(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	svc := NewTransactionService(db)

	checking := testutil.CreateTestAccount(t, db)
	savings := testutil.CreateTestAccount(t, db)
	food := testutil.CreateTestCategory(t, db, models.CategoryTypeExpense)

	coffee := testutil.CreateTestTransaction(t, db, checking.ID, &food.ID, models.TransactionTypeExpense, -4.5, "2024-01-10")
	db.Model(coffee).Update("description", "Coffee 100% arabica")
	testutil.CreateTestTransaction(t, db, checking.ID, &food.ID, models.TransactionTypeExpense, -80, "2024-01-20")
	testutil.CreateTestTransaction(t, db, checking.ID, nil, models.TransactionTypeIncome, 2000, "2024-01-31")
	testutil.CreateTestTransaction(t, db, savings.ID, nil, models.TransactionTypeTransfer, 500, "2024-02-01")
	testutil.CreateTestTransaction(t, db, savings.ID, nil, models.TransactionTypeIncome, 3.25, "2023-12-31")

	all := pagination.ListRequest{}

	t.Run("no_filter_newest_first", func(t *testing.T) {
		res, err := svc.ListTransactions(TransactionFilter{}, all)
		testutil.AssertNoError(t, err)

		if res.Total != 5 || len(res.Data) != 5 {
			t.Fatalf("expected 5 of 5, got %d of %d", len(res.Data), res.Total)
		}
		for i := 1; i < len(res.Data); i++ {
			if res.Data[i-1].Date < res.Data[i].Date {
				t.Errorf("row %d (%s) sorts before row %d (%s)", i-1, res.Data[i-1].Date, i, res.Data[i].Date)
			}
		}
	})

	t.Run("filters", func(t *testing.T) {
		expense := models.TransactionTypeExpense
		tests := []struct {
			name   string
			filter TransactionFilter
			want   int64
		}{
			{"account", TransactionFilter{AccountID: &savings.ID}, 2},
			{"category", TransactionFilter{CategoryID: &food.ID}, 2},
			{"type", TransactionFilter{Type: &expense}, 2},
			{"date_range_inclusive", TransactionFilter{StartDate: testutil.StrPtr("2024-01-10"), EndDate: testutil.StrPtr("2024-01-31")}, 3},
			{"search_case_insensitive", TransactionFilter{Search: testutil.StrPtr("coffee")}, 1},
			{"search_escapes_wildcards", TransactionFilter{Search: testutil.StrPtr("100%")}, 1},
			{"search_literal_underscore", TransactionFilter{Search: testutil.StrPtr("_")}, 0},
			{"amount_range", TransactionFilter{MinAmount: floatPtr(-100), MaxAmount: floatPtr(0)}, 2},
			{"combined", TransactionFilter{AccountID: &checking.ID, Type: &expense, MinAmount: floatPtr(-10)}, 1},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				res, err := svc.ListTransactions(tt.filter, all)
				testutil.AssertNoError(t, err)
				if res.Total != tt.want {
					t.Errorf("expected total %d, got %d", tt.want, res.Total)
				}
				if int64(len(res.Data)) != tt.want {
					t.Errorf("expected %d rows, got %d", tt.want, len(res.Data))
				}
			})
		}
	})

	t.Run("total_ignores_paging", func(t *testing.T) {
		res, err := svc.ListTransactions(TransactionFilter{}, pagination.ListRequest{Limit: 2, Offset: 1})
		testutil.AssertNoError(t, err)

		if res.Total != 5 {
			t.Errorf("expected total 5, got %d", res.Total)
		}
		if len(res.Data) != 2 {
			t.Fatalf("expected 2 rows, got %d", len(res.Data))
		}
		if res.Data[0].Date != "2024-01-31" {
			t.Errorf("expected second-newest first on the page, got %s", res.Data[0].Date)
		}
	})

	t.Run("offset_past_end", func(t *testing.T) {
		res, err := svc.ListTransactions(TransactionFilter{}, pagination.ListRequest{Limit: 10, Offset: 50})
		testutil.AssertNoError(t, err)
		if res.Total != 5 || len(res.Data) != 0 {
			t.Errorf("expected empty page with total 5, got %d rows of %d", len(res.Data), res.Total)
		}
		if res.Data == nil {
			t.Error("expected non-nil empty data")
		}
	})
}

func TestUpdateTransaction(t *testing.T) {
	t.Run("merged_sign_rule", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewTransactionService(db)
		account := testutil.CreateTestAccount(t, db)
		tx := testutil.CreateTestTransaction(t, db, account.ID, nil, models.TransactionTypeExpense, -20, "2024-02-02")

		_, err := svc.UpdateTransaction(tx.ID, UpdateTransactionInput{Amount: patch.Of(20.0)})
		testutil.AssertAppError(t, err, "AMOUNT_SIGN_MISMATCH")

		updated, err := svc.UpdateTransaction(tx.ID, UpdateTransactionInput{
			Type:   patch.Of(string(models.TransactionTypeIncome)),
			Amount: patch.Of(20.0),
		})
		testutil.AssertNoError(t, err)
		if updated.Type != models.TransactionTypeIncome || updated.Amount != 20 {
			t.Errorf("expected income of 20, got %s of %v", updated.Type, updated.Amount)
		}
	})

	t.Run("clear_category_and_replace_tags", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewTransactionService(db)
		account := testutil.CreateTestAccount(t, db)
		cat := testutil.CreateTestCategory(t, db, models.CategoryTypeExpense)
		tx := testutil.CreateTestTransaction(t, db, account.ID, &cat.ID, models.TransactionTypeExpense, -20, "2024-02-02")

		updated, err := svc.UpdateTransaction(tx.ID, UpdateTransactionInput{
			CategoryID: patch.Null[string](),
			Tags:       patch.Of([]string{"refund"}),
		})
		testutil.AssertNoError(t, err)

		if updated.CategoryID != nil || updated.CategoryName != nil {
			t.Errorf("expected category cleared, got %v", updated.CategoryID)
		}
		if len(updated.Tags) != 1 || updated.Tags[0] != "refund" {
			t.Errorf("expected tags [refund], got %v", updated.Tags)
		}
		if updated.Description != tx.Description {
			t.Errorf("expected description unchanged, got %s", updated.Description)
		}
	})

	t.Run("blank_strings_rejected", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewTransactionService(db)
		account := testutil.CreateTestAccount(t, db)
		tx := testutil.CreateTestTransaction(t, db, account.ID, nil, models.TransactionTypeExpense, -20, "2024-02-02")

		for name, input := range map[string]UpdateTransactionInput{
			"date":        {Date: patch.Of("")},
			"status":      {Status: patch.Of("")},
			"type":        {Type: patch.Of("")},
			"account":     {AccountID: patch.Of("")},
			"description": {Description: patch.Of(" ")},
			"category":    {CategoryID: patch.Of("")},
		} {
			_, err := svc.UpdateTransaction(tx.ID, input)
			if err == nil {
				t.Errorf("%s: expected an error for a blank value", name)
				continue
			}
			testutil.AssertAppError(t, err, "INVALID_INPUT")
		}

		stored, err := svc.GetTransaction(tx.ID)
		testutil.AssertNoError(t, err)
		if stored.Date != "2024-02-02" || stored.Status != tx.Status || stored.Type != tx.Type {
			t.Errorf("expected transaction unchanged, got %s %s %s", stored.Date, stored.Status, stored.Type)
		}
	})

	t.Run("unknown_account", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewTransactionService(db)
		account := testutil.CreateTestAccount(t, db)
		tx := testutil.CreateTestTransaction(t, db, account.ID, nil, models.TransactionTypeExpense, -20, "2024-02-02")

		_, err := svc.UpdateTransaction(tx.ID, UpdateTransactionInput{AccountID: patch.Of("missing")})
		testutil.AssertAppError(t, err, "ACCOUNT_NOT_FOUND")
	})

	t.Run("not_found", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewTransactionService(db)

		_, err := svc.UpdateTransaction("missing", UpdateTransactionInput{Notes: patch.Of("x")})
		testutil.AssertAppError(t, err, "TRANSACTION_NOT_FOUND")
	})
}

func TestDeleteTransaction(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	svc := NewTransactionService(db)
	account := testutil.CreateTestAccount(t, db)
	tx := testutil.CreateTestTransaction(t, db, account.ID, nil, models.TransactionTypeExpense, -5, "2024-02-02")

	testutil.AssertNoError(t, svc.DeleteTransaction(tx.ID))
	testutil.AssertRowCount(t, db, &models.Transaction{}, 0, "id = ?", tx.ID)

	err := svc.DeleteTransaction(tx.ID)
	testutil.AssertAppError(t, err, "TRANSACTION_NOT_FOUND")
}

func TestBulkDeleteTransactions(t *testing.T) {
	t.Run("counts_only_existing_rows", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewTransactionService(db)
		account := testutil.CreateTestAccount(t, db)
		a := testutil.CreateTestTransaction(t, db, account.ID, nil, models.TransactionTypeExpense, -5, "2024-02-02")
		b := testutil.CreateTestTransaction(t, db, account.ID, nil, models.TransactionTypeExpense, -6, "2024-02-03")

		deleted, err := svc.BulkDeleteTransactions([]string{a.ID, "0190b8f4-0000-7000-8000-000000000000"})
		testutil.AssertNoError(t, err)

		if deleted != 1 {
			t.Errorf("expected 1 deleted, got %d", deleted)
		}
		testutil.AssertRowCount(t, db, &models.Transaction{}, 1, "id = ?", b.ID)
	})

	t.Run("empty_list", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewTransactionService(db)
		account := testutil.CreateTestAccount(t, db)
		testutil.CreateTestTransaction(t, db, account.ID, nil, models.TransactionTypeExpense, -5, "2024-02-02")

		deleted, err := svc.BulkDeleteTransactions(nil)
		testutil.AssertNoError(t, err)
		if deleted != 0 {
			t.Errorf("expected 0 deleted, got %d", deleted)
		}
		testutil.AssertRowCount(t, db, &models.Transaction{}, 1, "")
	})
}

func floatPtr(v float64) *float64 {
	return &v
}
