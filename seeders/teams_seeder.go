package seeders

import (
	"context"
	"fmt"
	"log"

	"github.com/jackc/pgx/v5/pgxpool"
)

func seedTeams(ctx context.Context, db *pgxpool.Pool) error {
	log.Println("  - seeding maintenance teams...")

	for _, t := range teamsData {
		_, err := db.Exec(ctx, `
			INSERT INTO maintenance_teams (name, description, is_active)
			VALUES ($1, $2, TRUE)
			ON CONFLICT (name) DO NOTHING
		`, t.Name, t.Description)
		if err != nil {
			return fmt.Errorf("insert team %q: %w", t.Name, err)
		}
	}
	return nil
}
