//go:build integration
// +build integration

package repository

import (
	"context"
	"os"
	"strings"
	"testing"

	"github.com/metalworks/storefront/internal/models"

	"github.com/shopspring/decimal"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// setupPostgresIntegrationDB 初始化 PostgreSQL 集成测试数据库。
func setupPostgresIntegrationDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := strings.TrimSpace(os.Getenv("TEST_POSTGRES_DSN"))
	if dsn == "" {
		t.Skip("skip postgres integration test: TEST_POSTGRES_DSN is empty")
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		t.Fatalf("open postgres failed: %v", err)
	}

	_ = db.Migrator().DropTable(models.AllModels()...)
	if err := models.AutoMigrate(db); err != nil {
		t.Fatalf("migrate postgres models failed: %v", err)
	}

	t.Cleanup(func() {
		_ = db.Migrator().DropTable(models.AllModels()...)
		sqlDB, err := db.DB()
		if err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}

func TestPostgresProductSearchIsCaseInsensitive(t *testing.T) {
	db := setupPostgresIntegrationDB(t)
	repo := NewProductRepository(db)
	ctx := context.Background()

	for _, name := range []string{"Iron Gate", "Copper Bowl", "iron lantern"} {
		product := &models.Product{
			Name:     name,
			ItemType: "Decor",
			Material: "Mixed",
			Price:    models.NewMoneyFromDecimal(decimal.NewFromInt(10)),
			Stock:    3,
		}
		if err := repo.Create(ctx, product); err != nil {
			t.Fatalf("create product failed: %v", err)
		}
	}

	items, total, err := repo.Search(ctx, ProductSearchFilter{Term: "IRON", Page: 1, PageSize: 10})
	if err != nil {
		t.Fatalf("search failed: %v", err)
	}
	if total != 2 || len(items) != 2 {
		t.Fatalf("expected 2 matches, got total=%d len=%d", total, len(items))
	}
}

func TestPostgresDuplicateEmailIsDetected(t *testing.T) {
	db := setupPostgresIntegrationDB(t)
	repo := NewCustomerRepository(db)
	ctx := context.Background()

	first := &models.Customer{FirstName: "A", LastName: "B", Email: "dup@example.com", PasswordHash: "x"}
	if err := repo.Create(ctx, first); err != nil {
		t.Fatalf("create customer failed: %v", err)
	}
	second := &models.Customer{FirstName: "C", LastName: "D", Email: "dup@example.com", PasswordHash: "y"}
	err := repo.Create(ctx, second)
	if !IsDuplicateKeyErr(err) {
		t.Fatalf("expected duplicate key error, got %v", err)
	}
}
