package database_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"dispend/internal/config"
	"dispend/internal/database"
	"dispend/internal/models"
	"dispend/internal/testutil"
)

func TestConfigDSN(t *testing.T) {
	t.Run("sqlite_file_enables_wal_and_foreign_keys", func(t *testing.T) {
		cfg := &database.Config{Driver: config.DriverSQLite, Path: "data/dispend.db"}
		dsn := cfg.DSN()
		if !strings.HasPrefix(dsn, "file:data/dispend.db?") {
			t.Errorf("unexpected DSN %q", dsn)
		}
		for _, want := range []string{"_foreign_keys=on", "_journal_mode=WAL"} {
			if !strings.Contains(dsn, want) {
				t.Errorf("expected %q in DSN %q", want, dsn)
			}
		}
	})

	t.Run("sqlite_memory_is_shared", func(t *testing.T) {
		dsn := database.MemoryConfig("x").DSN()
		if !strings.Contains(dsn, "mode=memory") || !strings.Contains(dsn, "cache=shared") {
			t.Errorf("unexpected DSN %q", dsn)
		}
		if strings.Contains(dsn, "_journal_mode") {
			t.Errorf("memory DSN should not set a journal mode: %q", dsn)
		}
	})

	t.Run("postgres", func(t *testing.T) {
		cfg := &database.Config{Driver: config.DriverPostgres, Host: "db", Port: "5432", User: "u", Password: "p", DBName: "ledger", SSLMode: "disable"}
		if got := cfg.DSN(); got != "host=db port=5432 user=u password=p dbname=ledger sslmode=disable" {
			t.Errorf("unexpected DSN %q", got)
		}
		if got := cfg.MigrationURL(); got != "postgres://u:p@db:5432/ledger?sslmode=disable" {
			t.Errorf("unexpected migration URL %q", got)
		}
	})
}

func TestMigrations(t *testing.T) {
	mgr := testutil.SetupTestManager(t)

	t.Run("version_recorded", func(t *testing.T) {
		version, dirty, err := mgr.MigrationVersion()
		testutil.AssertNoError(t, err)
		if version != 1 || dirty {
			t.Errorf("expected clean version 1, got %d (dirty=%v)", version, dirty)
		}
	})

	t.Run("rerun_is_noop", func(t *testing.T) {
		testutil.AssertNoError(t, mgr.RunMigrations())
	})

	t.Run("foreign_keys_enforced", func(t *testing.T) {
		now := models.Timestamp(time.Now())
		orphan := &models.Transaction{
			Base:        models.Base{CreatedAt: now},
			AccountID:   "missing-account",
			Date:        "2024-01-01",
			Amount:      -1,
			Description: "orphan",
			Type:        models.TransactionTypeExpense,
			Status:      models.TransactionStatusCleared,
			Currency:    "CAD",
			UpdatedAt:   now,
		}
		if err := mgr.DB().Create(orphan).Error; err == nil {
			t.Error("expected foreign key violation for unknown account")
		}
	})
}

func TestSeedCategories(t *testing.T) {
	db := testutil.SetupTestDB(t)

	tree, err := database.DefaultCategories()
	testutil.AssertNoError(t, err)
	expected := 0
	for _, root := range tree {
		expected += 1 + len(root.Children)
	}

	inserted, err := database.SeedCategories(db)
	testutil.AssertNoError(t, err)
	if inserted != expected {
		t.Fatalf("expected %d categories inserted, got %d", expected, inserted)
	}
	testutil.AssertRowCount(t, db, &models.Category{}, int64(expected), "is_system = ?", true)

	t.Run("children_inherit_parent_type", func(t *testing.T) {
		var mismatched int64
		err := db.Table("categories AS c").
			Joins("JOIN categories AS p ON p.id = c.parent_id").
			Where("c.type <> p.type").
			Count(&mismatched).Error
		testutil.AssertNoError(t, err)
		if mismatched != 0 {
			t.Errorf("expected children to share the parent type, %d differ", mismatched)
		}
	})

	t.Run("second_run_is_noop", func(t *testing.T) {
		again, err := database.SeedCategories(db)
		testutil.AssertNoError(t, err)
		if again != 0 {
			t.Errorf("expected no inserts on a populated table, got %d", again)
		}
	})
}

func TestSeedSkipsWhenUserCategoriesExist(t *testing.T) {
	db := testutil.SetupTestDB(t)
	testutil.CreateTestCategory(t, db, models.CategoryTypeExpense)

	inserted, err := database.SeedCategories(db)
	testutil.AssertNoError(t, err)
	if inserted != 0 {
		t.Errorf("expected seeding to be skipped, inserted %d", inserted)
	}
}

func TestBackup(t *testing.T) {
	t.Run("memory_database_unsupported", func(t *testing.T) {
		mgr := testutil.SetupTestManager(t)
		_, err := mgr.Backup(context.Background(), t.TempDir(), time.Now())
		if !errors.Is(err, database.ErrBackupUnsupported) {
			t.Errorf("expected ErrBackupUnsupported, got %v", err)
		}
	})

	t.Run("file_database_copied", func(t *testing.T) {
		dir := t.TempDir()
		mgr, err := database.NewManager(&database.Config{Driver: config.DriverSQLite, Path: dir + "/ledger.db"})
		testutil.AssertNoError(t, err)
		defer mgr.Close()
		testutil.AssertNoError(t, mgr.RunMigrations())
		testutil.CreateTestAccount(t, mgr.DB())

		at := time.Date(2024, 5, 6, 7, 8, 9, 0, time.UTC)
		path, err := mgr.Backup(context.Background(), dir+"/backups", at)
		testutil.AssertNoError(t, err)
		if !strings.HasSuffix(path, "dispend-backup-2024-05-06T07-08-09.db") {
			t.Errorf("unexpected backup path %q", path)
		}

		copyMgr, err := database.NewManager(&database.Config{Driver: config.DriverSQLite, Path: path})
		testutil.AssertNoError(t, err)
		defer copyMgr.Close()
		testutil.AssertRowCount(t, copyMgr.DB(), &models.Account{}, 1, "")
	})
}
