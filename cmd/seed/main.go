package main

import (
	"fmt"
	"strings"

	"github.com/metalworks/storefront/internal/config"
	"github.com/metalworks/storefront/internal/logger"
	"github.com/metalworks/storefront/internal/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm/clause"
)

// metal 材质及其价格系数
type metal struct {
	name       string
	multiplier string
	rating     float64
	smith      string
}

// piece 品类及其基础价格
type piece struct {
	kind      string
	basePrice string
	stock     int
	blurb     string
}

var metals = []metal{
	{name: "Bronze", multiplier: "1.0", rating: 4.1, smith: "Orla Finch"},
	{name: "Iron", multiplier: "1.5", rating: 4.3, smith: "Bram Holloway"},
	{name: "Steel", multiplier: "2.5", rating: 4.6, smith: "Tamsin Reyes"},
	{name: "Titanium", multiplier: "4.0", rating: 4.8, smith: "Idris Vale"},
}

var pieces = []piece{
	{kind: "Sword", basePrice: "120.00", stock: 12, blurb: "A balanced blade, hand-forged and edge-tempered."},
	{kind: "Dagger", basePrice: "45.00", stock: 25, blurb: "A compact blade with a wrapped leather grip."},
	{kind: "Shield", basePrice: "95.00", stock: 10, blurb: "A riveted round shield with a reinforced boss."},
	{kind: "Helmet", basePrice: "80.00", stock: 15, blurb: "An open-faced helm with a padded liner."},
	{kind: "Armor", basePrice: "300.00", stock: 5, blurb: "A fitted cuirass with articulated shoulder plates."},
}

func main() {
	cfg := config.Load()
	logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	stdLog := logger.StdLogger()

	db, err := models.OpenDB(models.DBOptions{
		Driver: cfg.Database.Driver,
		DSN:    cfg.Database.ResolveDSN(),
	})
	if err != nil {
		stdLog.Fatalf("Failed to connect database: %v", err)
	}
	if err := models.AutoMigrate(db); err != nil {
		stdLog.Fatalf("Failed to migrate database: %v", err)
	}

	products := buildCatalog()
	// 已存在的商品保持原样，重复执行不会覆盖库存
	result := db.Clauses(clause.OnConflict{DoNothing: true}).Create(&products)
	if result.Error != nil {
		stdLog.Fatalf("Failed to seed products: %v", result.Error)
	}
	logger.Infow("seed_products_done", "total", len(products), "inserted", result.RowsAffected)
}

func buildCatalog() []models.Product {
	products := make([]models.Product, 0, len(metals)*len(pieces))
	var id uint
	for _, m := range metals {
		multiplier := decimal.RequireFromString(m.multiplier)
		for _, p := range pieces {
			id++
			price := decimal.RequireFromString(p.basePrice).Mul(multiplier)
			products = append(products, models.Product{
				ID:          id,
				Name:        fmt.Sprintf("%s %s", m.name, p.kind),
				Description: p.blurb,
				ItemType:    p.kind,
				Material:    m.name,
				Price:       models.NewMoneyFromDecimal(price),
				Stock:       p.stock,
				ImagePath:   fmt.Sprintf("%s_%s.png", strings.ToLower(m.name), strings.ToLower(p.kind)),
				Rating:      m.rating,
				CraftedBy:   m.smith,
			})
		}
	}
	return products
}
