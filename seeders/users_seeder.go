package seeders

import (
	"context"
	"fmt"
	"log"

	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/crypto/bcrypt"
)

const defaultSeedPassword = "changeme123"

// seedUsers inserts the demo accounts with their role profiles. Existing
// usernames are left untouched so the seeder can run repeatedly.
func seedUsers(ctx context.Context, db *pgxpool.Pool) error {
	log.Println("  - seeding users and profiles...")

	hash, err := bcrypt.GenerateFromPassword([]byte(defaultSeedPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash seed password: %w", err)
	}

	for _, u := range usersData {
		var userID uint64
		err := db.QueryRow(ctx, `
			INSERT INTO users (username, email, first_name, last_name, password_hash, is_active)
			VALUES ($1, $2, $3, $4, $5, TRUE)
			ON CONFLICT (username) DO UPDATE SET updated_at = CURRENT_TIMESTAMP
			RETURNING id
		`, u.Username, u.Email, u.FirstName, u.LastName, string(hash)).Scan(&userID)
		if err != nil {
			return fmt.Errorf("insert user %q: %w", u.Username, err)
		}

		_, err = db.Exec(ctx, `
			INSERT INTO user_profiles (user_id, role, is_active)
			VALUES ($1, $2, TRUE)
			ON CONFLICT (user_id) DO UPDATE SET role = EXCLUDED.role, updated_at = CURRENT_TIMESTAMP
		`, userID, u.Role)
		if err != nil {
			return fmt.Errorf("insert profile for %q: %w", u.Username, err)
		}

		if u.TeamName != "" {
			_, err = db.Exec(ctx, `
				INSERT INTO team_members (team_id, user_id, role_in_team)
				SELECT t.id, $1, 'Technician' FROM maintenance_teams t WHERE t.name = $2
				ON CONFLICT (team_id, user_id) DO NOTHING
			`, userID, u.TeamName)
			if err != nil {
				return fmt.Errorf("add %q to team %q: %w", u.Username, u.TeamName, err)
			}
		}
	}
	return nil
}
