package db

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/grupo09/debtmanager/internal/models"
	"gorm.io/gorm"
)

func openSQLiteForTest(t *testing.T) *gorm.DB {
	t.Helper()

	databasePath := filepath.Join(t.TempDir(), "debtmanager-test.db")
	database, err := OpenSQLite(databasePath)
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}

	sqlDB, err := database.DB()
	if err != nil {
		t.Fatalf("open sql db: %v", err)
	}
	t.Cleanup(func() {
		_ = sqlDB.Close()
	})
	return database
}

func TestOpenSQLiteAppliesEmbeddedMigrations(t *testing.T) {
	database := openSQLiteForTest(t)

	for _, table := range []string{"users", "debts", "payment_records", "notifications", "banks", "schema_migrations"} {
		var count int64
		if err := database.Raw(
			`SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name = ?`, table,
		).Scan(&count).Error; err != nil {
			t.Fatalf("inspect table %s: %v", table, err)
		}
		if count != 1 {
			t.Fatalf("expected table %s to exist", table)
		}
	}

	var applied int64
	if err := database.Raw(`SELECT COUNT(*) FROM schema_migrations`).Scan(&applied).Error; err != nil {
		t.Fatalf("count applied migrations: %v", err)
	}
	if applied == 0 {
		t.Fatal("expected at least one applied migration")
	}
}

func TestOpenSQLiteSeedsDefaultBanks(t *testing.T) {
	database := openSQLiteForTest(t)

	banks, err := NewBankRepository(database).ListActive()
	if err != nil {
		t.Fatalf("list banks: %v", err)
	}
	if len(banks) != len(models.DefaultSeedBanks()) {
		t.Fatalf("expected %d seeded banks, got %d", len(models.DefaultSeedBanks()), len(banks))
	}
	for index := 1; index < len(banks); index++ {
		if banks[index].Name < banks[index-1].Name {
			t.Fatalf("banks not ordered by name: %v before %v", banks[index-1].Name, banks[index].Name)
		}
	}
}

func TestOpenSQLiteCreatesCaseInsensitiveUserEmailUniqueIndex(t *testing.T) {
	database := openSQLiteForTest(t)

	firstUser := models.User{
		Name:         "QA",
		Email:        "QA-Test@Debt.Local",
		Phone:        "+51987654321",
		PasswordHash: "hash-1",
		CreatedAt:    time.Now().UTC(),
	}
	if err := database.Create(&firstUser).Error; err != nil {
		t.Fatalf("create first user: %v", err)
	}

	secondUser := models.User{
		Name:         "QA2",
		Email:        "qa-test@debt.local",
		Phone:        "+51911112222",
		PasswordHash: "hash-2",
		CreatedAt:    time.Now().UTC(),
	}
	if err := database.Create(&secondUser).Error; err == nil {
		t.Fatal("expected unique index violation for case-variant email")
	}
}
