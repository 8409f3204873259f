package repositories

import (
	"context"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"gearguard/internal/dto"
	"gearguard/internal/entities"
	apperrors "gearguard/pkg/errors"
)

const (
	teamTable  = "maintenance_teams"
	teamFields = "id, name, description, is_active, created_at, updated_at"

	teamMemberTable = "team_members"
)

type TeamRepositoryInterface interface {
	GetAll(ctx context.Context, activeOnly bool, limit, offset uint64) ([]dto.TeamDTO, uint64, error)
	FindByID(ctx context.Context, id uint64) (*entities.MaintenanceTeam, error)
	Create(ctx context.Context, team entities.MaintenanceTeam) (uint64, error)
	Update(ctx context.Context, id uint64, team entities.MaintenanceTeam) error
	Delete(ctx context.Context, id uint64) error
	CountEquipment(ctx context.Context, teamID uint64) (uint64, error)
	CountActive(ctx context.Context) (uint64, error)

	AddMember(ctx context.Context, member entities.TeamMember) (uint64, error)
	RemoveMember(ctx context.Context, teamID, userID uint64) error
	ListMembers(ctx context.Context, teamID uint64) ([]dto.TeamMemberDTO, error)
	FindTeamIDsByUser(ctx context.Context, userID uint64) ([]uint64, error)
}

type teamRepository struct {
	storage *pgxpool.Pool
	logger  *zap.Logger
}

func NewTeamRepository(storage *pgxpool.Pool, logger *zap.Logger) TeamRepositoryInterface {
	return &teamRepository{storage: storage, logger: logger}
}

func (r *teamRepository) GetAll(ctx context.Context, activeOnly bool, limit, offset uint64) ([]dto.TeamDTO, uint64, error) {
	builder := psql.Select(
		"t.id", "t.name", "t.description", "t.is_active", "t.created_at",
		"(SELECT COUNT(*) FROM team_members m WHERE m.team_id = t.id) AS member_count",
		"(SELECT COUNT(*) FROM equipment e WHERE e.maintenance_team_id = t.id) AS equipment_count",
	).From(teamTable + " t").OrderBy("t.name")
	countBuilder := psql.Select("COUNT(*)").From(teamTable + " t")

	if activeOnly {
		builder = builder.Where(sq.Eq{"t.is_active": true})
		countBuilder = countBuilder.Where(sq.Eq{"t.is_active": true})
	}
	if limit > 0 {
		builder = builder.Limit(limit).Offset(offset)
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, 0, err
	}

	rows, err := r.storage.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	teams := make([]dto.TeamDTO, 0)
	for rows.Next() {
		var t dto.TeamDTO
		if err := rows.Scan(&t.ID, &t.Name, &t.Description, &t.IsActive, &t.CreatedAt, &t.MemberCount, &t.EquipmentCount); err != nil {
			return nil, 0, fmt.Errorf("scan maintenance_teams row: %w", err)
		}
		teams = append(teams, t)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	countQuery, countArgs, err := countBuilder.ToSql()
	if err != nil {
		return nil, 0, err
	}
	var total uint64
	if err := r.storage.QueryRow(ctx, countQuery, countArgs...).Scan(&total); err != nil {
		return nil, 0, err
	}

	return teams, total, nil
}

func (r *teamRepository) FindByID(ctx context.Context, id uint64) (*entities.MaintenanceTeam, error) {
	query, args, err := psql.Select(teamFields).From(teamTable).Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return nil, err
	}

	var t entities.MaintenanceTeam
	err = r.storage.QueryRow(ctx, query, args...).Scan(
		&t.ID, &t.Name, &t.Description, &t.IsActive, &t.CreatedAt, &t.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("scan maintenance_teams row: %w", err)
	}
	return &t, nil
}

func (r *teamRepository) Create(ctx context.Context, team entities.MaintenanceTeam) (uint64, error) {
	query := fmt.Sprintf(`
		INSERT INTO %s (name, description, is_active)
		VALUES ($1, $2, $3)
		RETURNING id
	`, teamTable)

	var id uint64
	err := r.storage.QueryRow(ctx, query, team.Name, team.Description, team.IsActive).Scan(&id)
	if err != nil {
		return 0, translateUniqueViolation(err, map[string]string{"name": "name"})
	}
	return id, nil
}

func (r *teamRepository) Update(ctx context.Context, id uint64, team entities.MaintenanceTeam) error {
	query := fmt.Sprintf(`
		UPDATE %s
		SET name = $1, description = $2, is_active = $3, updated_at = CURRENT_TIMESTAMP
		WHERE id = $4
	`, teamTable)

	result, err := r.storage.Exec(ctx, query, team.Name, team.Description, team.IsActive, id)
	if err != nil {
		return translateUniqueViolation(err, map[string]string{"name": "name"})
	}
	if result.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *teamRepository) Delete(ctx context.Context, id uint64) error {
	result, err := r.storage.Exec(ctx, fmt.Sprintf("DELETE FROM %s WHERE id = $1", teamTable), id)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *teamRepository) CountEquipment(ctx context.Context, teamID uint64) (uint64, error) {
	var total uint64
	err := r.storage.QueryRow(ctx, "SELECT COUNT(*) FROM equipment WHERE maintenance_team_id = $1", teamID).Scan(&total)
	return total, err
}

func (r *teamRepository) CountActive(ctx context.Context) (uint64, error) {
	var total uint64
	err := r.storage.QueryRow(ctx, "SELECT COUNT(*) FROM "+teamTable+" WHERE is_active = TRUE").Scan(&total)
	return total, err
}

func (r *teamRepository) AddMember(ctx context.Context, member entities.TeamMember) (uint64, error) {
	query := fmt.Sprintf(`
		INSERT INTO %s (team_id, user_id, role_in_team, joined_date)
		VALUES ($1, $2, $3, CURRENT_DATE)
		RETURNING id
	`, teamMemberTable)

	var id uint64
	err := r.storage.QueryRow(ctx, query, member.TeamID, member.UserID, member.RoleInTeam).Scan(&id)
	if err != nil {
		return 0, translateUniqueViolation(err, map[string]string{"team_id_user_id": "team_member"})
	}
	return id, nil
}

func (r *teamRepository) RemoveMember(ctx context.Context, teamID, userID uint64) error {
	result, err := r.storage.Exec(ctx,
		fmt.Sprintf("DELETE FROM %s WHERE team_id = $1 AND user_id = $2", teamMemberTable), teamID, userID)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *teamRepository) ListMembers(ctx context.Context, teamID uint64) ([]dto.TeamMemberDTO, error) {
	query, args, err := psql.Select(
		"m.id", "m.user_id", "u.username",
		"TRIM(u.first_name || ' ' || u.last_name)",
		"m.role_in_team", "m.joined_date",
	).
		From(teamMemberTable + " m").
		Join(userTable + " u ON u.id = m.user_id").
		Where(sq.Eq{"m.team_id": teamID}).
		OrderBy("u.username").
		ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.storage.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	members := make([]dto.TeamMemberDTO, 0)
	for rows.Next() {
		var m dto.TeamMemberDTO
		if err := rows.Scan(&m.ID, &m.UserID, &m.Username, &m.FullName, &m.RoleInTeam, &m.JoinedDate); err != nil {
			return nil, fmt.Errorf("scan team_members row: %w", err)
		}
		members = append(members, m)
	}
	return members, rows.Err()
}

func (r *teamRepository) FindTeamIDsByUser(ctx context.Context, userID uint64) ([]uint64, error) {
	query, args, err := psql.Select("team_id").From(teamMemberTable).Where(sq.Eq{"user_id": userID}).ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.storage.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	ids := make([]uint64, 0)
	for rows.Next() {
		var id uint64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
