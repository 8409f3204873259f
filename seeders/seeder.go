package seeders

import (
	"context"
	"log"

	"github.com/jackc/pgx/v5/pgxpool"
)

// SeedCore fills teams, users and equipment, in dependency order.
func SeedCore(db *pgxpool.Pool) {
	ctx := context.Background()
	log.Println("seeding core data...")

	if err := seedTeams(ctx, db); err != nil {
		log.Fatalf("seeding teams failed: %v", err)
	}
	if err := seedUsers(ctx, db); err != nil {
		log.Fatalf("seeding users failed: %v", err)
	}
	if err := seedEquipment(ctx, db); err != nil {
		log.Fatalf("seeding equipment failed: %v", err)
	}
	log.Println("core data seeded")
}

// SeedDemo adds sample maintenance requests on top of the core data.
func SeedDemo(db *pgxpool.Pool) {
	ctx := context.Background()
	log.Println("seeding demo requests...")

	if err := seedRequests(ctx, db); err != nil {
		log.Fatalf("seeding requests failed: %v", err)
	}
	log.Println("demo requests seeded")
}
