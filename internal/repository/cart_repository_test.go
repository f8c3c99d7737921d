package repository

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/metalworks/storefront/internal/models"

	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

func setupCartRepositoryTest(t *testing.T) (*GormCartRepository, *gorm.DB) {
	t.Helper()
	dsn := fmt.Sprintf("file:cart_repo_test_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(&models.Product{}, &models.CartItem{}); err != nil {
		t.Fatalf("migrate cart failed: %v", err)
	}
	return NewCartRepository(db), db
}

func TestCartRepositoryUniqueKeyRejectsDuplicate(t *testing.T) {
	repo, _ := setupCartRepositoryTest(t)
	ctx := context.Background()
	price := models.NewMoneyFromDecimal(decimal.NewFromInt(10))

	if err := repo.Create(ctx, &models.CartItem{CustomerID: 1, ProductID: 2, Quantity: 1, Price: price}); err != nil {
		t.Fatalf("create cart item failed: %v", err)
	}
	err := repo.Create(ctx, &models.CartItem{CustomerID: 1, ProductID: 2, Quantity: 3, Price: price})
	if !IsDuplicateKeyErr(err) {
		t.Fatalf("expected duplicate key error, got %v", err)
	}
	// 加急标记不同视为不同行
	if err := repo.Create(ctx, &models.CartItem{CustomerID: 1, ProductID: 2, RushOrder: true, Quantity: 1, Price: price}); err != nil {
		t.Fatalf("rush row should be distinct: %v", err)
	}
}

func TestCartRepositoryScopedByCustomer(t *testing.T) {
	repo, _ := setupCartRepositoryTest(t)
	ctx := context.Background()
	item := &models.CartItem{CustomerID: 1, ProductID: 2, Quantity: 1, Price: models.NewMoneyFromDecimal(decimal.NewFromInt(10))}
	if err := repo.Create(ctx, item); err != nil {
		t.Fatalf("create cart item failed: %v", err)
	}

	rows, err := repo.DeleteByIDAndCustomer(ctx, item.ID, 99)
	if err != nil || rows != 0 {
		t.Fatalf("other customer must not delete, rows=%d err=%v", rows, err)
	}
	rows, err = repo.IncrementQuantity(ctx, item.ID, 1, 2)
	if err != nil || rows != 1 {
		t.Fatalf("increment failed, rows=%d err=%v", rows, err)
	}
	found, err := repo.GetByKey(ctx, 1, 2, false)
	if err != nil || found == nil || found.Quantity != 3 {
		t.Fatalf("expected quantity 3, got %+v err=%v", found, err)
	}
}

func TestCartRepositoryDeleteByCustomerAndProducts(t *testing.T) {
	repo, _ := setupCartRepositoryTest(t)
	ctx := context.Background()
	price := models.NewMoneyFromDecimal(decimal.NewFromInt(5))
	for _, productID := range []uint{1, 2, 3} {
		if err := repo.Create(ctx, &models.CartItem{CustomerID: 7, ProductID: productID, Quantity: 1, Price: price}); err != nil {
			t.Fatalf("create cart item failed: %v", err)
		}
	}
	if err := repo.Create(ctx, &models.CartItem{CustomerID: 8, ProductID: 1, Quantity: 1, Price: price}); err != nil {
		t.Fatalf("create other cart item failed: %v", err)
	}

	rows, err := repo.DeleteByCustomerAndProducts(ctx, 7, []uint{1, 3})
	if err != nil || rows != 2 {
		t.Fatalf("expected 2 rows removed, rows=%d err=%v", rows, err)
	}
	remaining, err := repo.ListByCustomer(ctx, 7)
	if err != nil || len(remaining) != 1 || remaining[0].ProductID != 2 {
		t.Fatalf("unexpected remaining cart: %+v err=%v", remaining, err)
	}
	other, _ := repo.ListByCustomer(ctx, 8)
	if len(other) != 1 {
		t.Fatalf("other customer's cart must be untouched")
	}

	if _, err := repo.ClearByCustomer(ctx, 7); err != nil {
		t.Fatalf("clear failed: %v", err)
	}
	rows, err = repo.ClearByCustomer(ctx, 7)
	if err != nil || rows != 0 {
		t.Fatalf("clearing empty cart should succeed with 0 rows, rows=%d err=%v", rows, err)
	}
}
