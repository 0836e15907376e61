package main

import (
	"context"
	"flag"
	"fmt"
	"log"

	"nxq-backend/internal/config"
	"nxq-backend/internal/database"
	"nxq-backend/internal/db"
	"nxq-backend/internal/repositories"
)

func main() {
	yes := flag.Bool("yes", false, "Skip the confirmation prompt")
	flag.Parse()

	fmt.Println("========================================")
	fmt.Println("   Reset Store for Testing")
	fmt.Println("========================================")
	fmt.Println()
	fmt.Println("WARNING: This will DELETE ALL MEMBER DATA!")
	fmt.Println()
	fmt.Println("This will:")
	fmt.Println("  - Delete all customers")
	fmt.Println("  - Delete all payments")
	fmt.Println("  - Delete all winners and deliveries")
	fmt.Println("  - Reset their id counters")
	fmt.Println("Users and schemes are kept.")
	fmt.Println()

	if !*yes {
		fmt.Print("Type 'yes' to confirm: ")
		var confirm string
		fmt.Scanln(&confirm)
		if confirm != "yes" {
			fmt.Println("Reset cancelled.")
			return
		}
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v\n", err)
	}

	ctx := context.Background()
	conn, path, err := db.Connect(ctx, cfg)
	if err != nil {
		log.Fatalf("Unable to open store: %v\n", err)
	}
	defer conn.Close()

	fmt.Println()
	fmt.Printf("Resetting %s...\n", path)

	if err := database.NewMigrator(conn, cfg.Customer.CodePrefix).RunMigrations(ctx); err != nil {
		log.Fatalf("Failed to migrate store: %v\n", err)
	}
	if err := repositories.NewMaintenanceRepository(conn).ClearAll(ctx); err != nil {
		log.Fatalf("Failed to clear store: %v\n", err)
	}
	fmt.Println("  ✓ Cleared customers, payments, winners, deliveries")

	if cfg.Auth.SeedPassword != "" {
		created, err := database.SeedAdmin(ctx, conn, cfg.Auth.SeedUsername, cfg.Auth.SeedPassword, cfg.Auth.SeedEmail)
		if err != nil {
			log.Fatalf("Failed to seed admin user: %v\n", err)
		}
		if created {
			fmt.Println("  ✓ Created admin user")
		}
	}

	fmt.Println()
	fmt.Println("Store reset successful!")
}
