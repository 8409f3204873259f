package seeders

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// seedEquipment inserts the demo equipment park. Serial numbers are random
// per run; re-running adds nothing because names are used as a natural key
// for the demo set.
func seedEquipment(ctx context.Context, db *pgxpool.Pool) error {
	log.Println("  - seeding equipment...")

	for _, e := range equipmentsData {
		var exists bool
		if err := db.QueryRow(ctx,
			"SELECT EXISTS (SELECT 1 FROM equipment WHERE name = $1)", e.Name,
		).Scan(&exists); err != nil {
			return err
		}
		if exists {
			continue
		}

		serial := fmt.Sprintf("SN-%s", strings.ToUpper(uuid.NewString()[:8]))

		var interval *int
		if e.IntervalDays > 0 {
			interval = &e.IntervalDays
		}
		var purchaseDate *string
		if e.PurchaseDate != "" {
			purchaseDate = &e.PurchaseDate
		}

		_, err := db.Exec(ctx, `
			INSERT INTO equipment (name, serial_number, category, department, location,
				maintenance_team_id, default_technician_id, purchase_date, maintenance_interval_days)
			SELECT $1, $2, $3, $4, $5, t.id, u.id, $6::date, $7
			FROM maintenance_teams t
			LEFT JOIN users u ON u.username = $8
			WHERE t.name = $9
		`, e.Name, serial, e.Category, e.Department, e.Location,
			purchaseDate, interval, e.TechUsername, e.TeamName)
		if err != nil {
			return fmt.Errorf("insert equipment %q: %w", e.Name, err)
		}
	}
	return nil
}
