// Package main seeds the database with sample catalog data for local
// development.
package main

import (
	"context"
	"fmt"
	"os"

	"cantina/internal/config"
	"cantina/internal/core/types"
	"cantina/internal/domain"
	"cantina/internal/domain/catalogs/customer"
	"cantina/internal/domain/catalogs/product"
	"cantina/internal/infrastructure/storage/postgres"
	"cantina/internal/infrastructure/storage/postgres/catalog_repo"
	"cantina/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("failed to load config: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(logger.Config{Level: cfg.LogLevel, Development: true})
	if err != nil {
		fmt.Printf("failed to initialize logger: %v\n", err)
		os.Exit(1)
	}

	ctx := context.Background()

	pool, err := postgres.NewPool(ctx, postgres.DefaultPoolConfig(cfg.DatabaseURL))
	if err != nil {
		log.Fatalw("failed to connect to database", "error", err)
	}
	defer pool.Close()

	if err := postgres.Migrate(ctx, pool); err != nil {
		log.Fatalw("failed to apply schema", "error", err)
	}

	if err := seedProducts(ctx, catalog_repo.NewProductRepo(pool)); err != nil {
		log.Fatalw("failed to seed products", "error", err)
	}
	if err := seedCustomers(ctx, catalog_repo.NewCustomerRepo(pool)); err != nil {
		log.Fatalw("failed to seed customers", "error", err)
	}

	log.Info("seed complete")
}

func seedProducts(ctx context.Context, repo *catalog_repo.ProductRepo) error {
	existing, err := repo.List(ctx, domain.ListFilter{Limit: 1})
	if err != nil {
		return err
	}
	if existing.TotalCount > 0 {
		logger.Info(ctx, "products already present, skipping")
		return nil
	}

	samples := []struct {
		name     string
		category product.Category
		price    string
		stock    int
	}{
		{"Coxinha", product.CategorySavory, "5.50", 30},
		{"Pastel de Queijo", product.CategorySavory, "6.00", 20},
		{"Esfiha de Carne", product.CategorySavory, "7.00", 15},
		{"Brigadeiro", product.CategorySweet, "2.50", 50},
		{"Bolo de Cenoura", product.CategorySweet, "4.50", 12},
		{"Suco de Laranja", product.CategoryDrink, "4.00", 25},
		{"Agua Mineral", product.CategoryDrink, "2.00", 40},
		{"Refrigerante Lata", product.CategoryDrink, "5.00", 24},
		{"Misto Quente", product.CategorySnack, "8.00", 10},
		{"Pipoca", product.CategoryOther, "3.00", 18},
	}

	for _, s := range samples {
		p := product.New(s.name, s.category, types.MustMoney(s.price))
		p.StockQuantity = s.stock
		p.LowStockThreshold = 5
		if err := repo.Create(ctx, p); err != nil {
			return err
		}
	}

	logger.Info(ctx, "products seeded", "count", len(samples))
	return nil
}

func seedCustomers(ctx context.Context, repo *catalog_repo.CustomerRepo) error {
	existing, err := repo.List(ctx, domain.ListFilter{Limit: 1})
	if err != nil {
		return err
	}
	if existing.TotalCount > 0 {
		logger.Info(ctx, "customers already present, skipping")
		return nil
	}

	samples := []struct {
		name   string
		class  string
		mother string
		phone  string
	}{
		{"Ana Souza", "3A", "Marcia Souza", "+55 11 91234-0001"},
		{"Pedro Alves", "3A", "Claudia Alves", "+55 11 91234-0002"},
		{"Bia Costa", "4B", "Fernanda Costa", "+55 11 91234-0003"},
		{"Lucas Lima", "5A", "Patricia Lima", "+55 11 91234-0004"},
		{"Sofia Ramos", "2C", "Juliana Ramos", "+55 11 91234-0005"},
	}

	for _, s := range samples {
		c := customer.New(s.name)
		c.ClassGroup = s.class
		c.Contact = s.phone
		c.SetMother(&customer.Guardian{Name: s.mother, Contact: s.phone})
		if err := repo.Create(ctx, c); err != nil {
			return err
		}
	}

	logger.Info(ctx, "customers seeded", "count", len(samples))
	return nil
}
