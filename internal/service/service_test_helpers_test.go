package service

import (
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/metalworks/storefront/internal/models"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var serviceTestDBSeq int64

// openServiceTestDB 每个测试使用独立的内存库，单连接保证事务串行
func openServiceTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:service_test_%d_%d?mode=memory&cache=shared", time.Now().UnixNano(), atomic.AddInt64(&serviceTestDBSeq, 1))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("get sql db failed: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	if err := models.AutoMigrate(db); err != nil {
		t.Fatalf("auto migrate failed: %v", err)
	}
	t.Cleanup(func() {
		_ = sqlDB.Close()
	})
	return db
}

func mustMoney(t *testing.T, raw string) models.Money {
	t.Helper()
	m, err := models.NewMoneyFromString(raw)
	if err != nil {
		t.Fatalf("parse money %q failed: %v", raw, err)
	}
	return m
}

func seedProduct(t *testing.T, db *gorm.DB, id uint, name string, price string, stock int) *models.Product {
	t.Helper()
	product := &models.Product{
		ID:          id,
		Name:        name,
		Description: name + " forged by hand",
		ItemType:    "Decor",
		Material:    "Iron",
		Price:       mustMoney(t, price),
		Stock:       stock,
		ImagePath:   "/images/" + name + ".jpg",
	}
	if err := db.Create(product).Error; err != nil {
		t.Fatalf("seed product failed: %v", err)
	}
	return product
}

func seedCustomer(t *testing.T, db *gorm.DB, email string) *models.Customer {
	t.Helper()
	customer := &models.Customer{
		FirstName:    "Ada",
		LastName:     "Smith",
		Email:        email,
		PasswordHash: "unused",
	}
	if err := db.Create(customer).Error; err != nil {
		t.Fatalf("seed customer failed: %v", err)
	}
	return customer
}

func countRows(t *testing.T, db *gorm.DB, model interface{}) int64 {
	t.Helper()
	var count int64
	if err := db.Model(model).Count(&count).Error; err != nil {
		t.Fatalf("count rows failed: %v", err)
	}
	return count
}

func productStock(t *testing.T, db *gorm.DB, id uint) int {
	t.Helper()
	var product models.Product
	if err := db.First(&product, id).Error; err != nil {
		t.Fatalf("load product %d failed: %v", id, err)
	}
	return product.Stock
}
