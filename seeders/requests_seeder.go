package seeders

import (
	"context"
	"fmt"
	"log"

	"github.com/jackc/pgx/v5/pgxpool"
)

// seedRequests creates a few open tickets so the kanban board, calendar and
// dashboards have something to show right after a fresh install.
func seedRequests(ctx context.Context, db *pgxpool.Pool) error {
	log.Println("  - seeding maintenance requests...")

	var count int
	if err := db.QueryRow(ctx, "SELECT COUNT(*) FROM maintenance_requests").Scan(&count); err != nil {
		return err
	}
	if count > 0 {
		log.Println("    requests already present, skipping")
		return nil
	}

	_, err := db.Exec(ctx, `
		INSERT INTO maintenance_requests
			(subject, description, request_type, stage, priority,
			 equipment_id, maintenance_team_id, created_by_id, scheduled_date, is_overdue)
		SELECT 'Spindle vibration above tolerance',
			'Operators report heavy vibration at high RPM.',
			'Corrective', 'New', 'High',
			e.id, e.maintenance_team_id, u.id, NULL, FALSE
		FROM equipment e, users u
		WHERE e.name = 'CNC Milling Machine' AND u.username = 'user.alice'
	`)
	if err != nil {
		return fmt.Errorf("seed corrective request: %w", err)
	}

	_, err = db.Exec(ctx, `
		INSERT INTO maintenance_requests
			(subject, description, request_type, stage, priority,
			 equipment_id, maintenance_team_id, assigned_technician_id, created_by_id,
			 scheduled_date, estimated_duration_hours, is_overdue)
		SELECT 'Quarterly generator service',
			'Oil change, filter replacement, load test.',
			'Preventive', 'New', 'Medium',
			e.id, e.maintenance_team_id, e.default_technician_id, u.id,
			CURRENT_DATE + 7, 4.0, FALSE
		FROM equipment e, users u
		WHERE e.name = 'Backup Diesel Generator' AND u.username = 'manager'
	`)
	if err != nil {
		return fmt.Errorf("seed preventive request: %w", err)
	}
	return nil
}
