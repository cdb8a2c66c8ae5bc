package main

import (
	"context"
	"database/sql"
	"log"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/google/uuid"

	"github.com/rl1809/asset-desk/internal/adapter/storage"
	"github.com/rl1809/asset-desk/internal/config"
	"github.com/rl1809/asset-desk/internal/core/domain"
)

// Seeds a demo company with a few employees, assets and pending requests.
func main() {
	ctx := context.Background()

	cfg := config.Load()

	db, err := sql.Open("mysql", cfg.MySQLDSN)
	if err != nil {
		log.Fatalf("failed to connect mysql: %v", err)
	}
	defer db.Close()

	if err := db.PingContext(ctx); err != nil {
		log.Fatalf("failed to ping mysql: %v", err)
	}

	adapter := storage.NewMySQLAdapter(db)
	now := time.Now()

	hr := domain.User{
		ID:    uuid.New().String(),
		Name:  "Dana Reyes",
		Email: "dana@initech.example",
		Role:  domain.RoleHR,
		HR: &domain.HRProfile{
			CompanyName:  "Initech",
			CompanyLogo:  "https://cdn.initech.example/logo.png",
			PackageLimit: domain.DefaultPackageLimit,
			Subscription: domain.DefaultSubscription,
		},
		CreatedAt: now,
	}
	if err := adapter.UpsertUser(ctx, hr); err != nil {
		log.Fatalf("seed hr: %v", err)
	}
	log.Printf("seeded company %s (hr %s)", hr.HR.CompanyName, hr.ID)

	employees := []string{"sam@initech.example", "lee@initech.example", "ana@initech.example"}
	var employeeIDs []string
	for _, email := range employees {
		emp := domain.User{
			ID:        uuid.New().String(),
			Name:      email[:3],
			Email:     email,
			Role:      domain.RoleEmployee,
			CreatedAt: now,
		}
		if err := adapter.UpsertUser(ctx, emp); err != nil {
			log.Fatalf("seed employee %s: %v", email, err)
		}
		employeeIDs = append(employeeIDs, emp.ID)
	}
	log.Printf("seeded %d employees", len(employeeIDs))

	assets := []domain.Asset{
		{ID: uuid.New().String(), CompanyID: hr.ID, Name: "MacBook Pro 14", Type: "laptop", Quantity: 5, CreatedAt: now, UpdatedAt: now},
		{ID: uuid.New().String(), CompanyID: hr.ID, Name: "USB-C Dock", Type: "accessory", Quantity: 10, CreatedAt: now, UpdatedAt: now},
		{ID: uuid.New().String(), CompanyID: hr.ID, Name: "Office Chair", Type: "furniture", Quantity: 1, CreatedAt: now, UpdatedAt: now},
	}
	for _, a := range assets {
		if err := adapter.CreateAsset(ctx, a); err != nil {
			log.Fatalf("seed asset %s: %v", a.Name, err)
		}
	}
	log.Printf("seeded %d assets", len(assets))

	for i, employeeID := range employeeIDs {
		req := domain.NewRequest(uuid.New().String(), employeeID, employees[i], hr.ID, assets[i%len(assets)].ID)
		if err := adapter.CreateRequest(ctx, req); err != nil {
			log.Fatalf("seed request: %v", err)
		}
		log.Printf("seeded pending request %s (%s -> %s)", req.ID, employees[i], assets[i%len(assets)].Name)
	}

	log.Println("done")
}
