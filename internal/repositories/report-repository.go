package repositories

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"gearguard/internal/dto"
	"gearguard/internal/entities"
)

type ReportRepositoryInterface interface {
	ListCompletedByTechnician(ctx context.Context, technicianID uint64) ([]dto.CompletedTaskRowDTO, error)
	ListTechnicianSummaries(ctx context.Context) ([]dto.TechnicianSummaryDTO, error)
	ListManagerHours(ctx context.Context) ([]dto.ManagerHoursRowDTO, error)
}

type reportRepository struct {
	storage *pgxpool.Pool
	logger  *zap.Logger
}

func NewReportRepository(storage *pgxpool.Pool, logger *zap.Logger) ReportRepositoryInterface {
	return &reportRepository{storage: storage, logger: logger}
}

func (r *reportRepository) ListCompletedByTechnician(ctx context.Context, technicianID uint64) ([]dto.CompletedTaskRowDTO, error) {
	query, args, err := psql.Select(
		"r.id", "r.subject", "e.name", "t.name",
		"TRIM(tech.first_name || ' ' || tech.last_name)",
		"r.completed_date", "COALESCE(r.duration_hours, 0)",
	).
		From(requestTable+" r").
		Join("equipment e ON e.id = r.equipment_id").
		LeftJoin("maintenance_teams t ON t.id = r.maintenance_team_id").
		LeftJoin("users tech ON tech.id = r.assigned_technician_id").
		Where(sq.And{
			sq.Eq{"r.assigned_technician_id": technicianID},
			sq.Eq{"r.stage": entities.StageRepaired},
		}).
		OrderBy("r.completed_date DESC NULLS LAST", "r.id DESC").
		ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.storage.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	list := make([]dto.CompletedTaskRowDTO, 0)
	for rows.Next() {
		var row dto.CompletedTaskRowDTO
		err := rows.Scan(
			&row.RequestID, &row.Subject, &row.EquipmentName, &row.TeamName,
			&row.Technician, &row.CompletedDate, &row.DurationHours,
		)
		if err != nil {
			return nil, fmt.Errorf("scan completed task row: %w", err)
		}
		list = append(list, row)
	}
	return list, rows.Err()
}

// ListTechnicianSummaries aggregates repaired work per technician. Users
// without any repaired request still appear with zero tasks so the report
// covers the whole roster.
func (r *reportRepository) ListTechnicianSummaries(ctx context.Context) ([]dto.TechnicianSummaryDTO, error) {
	query := `
		SELECT u.id, u.username, TRIM(u.first_name || ' ' || u.last_name),
			COUNT(r.id), SUM(r.duration_hours)
		FROM users u
		JOIN user_profiles p ON p.user_id = u.id AND p.role = $1
		LEFT JOIN maintenance_requests r
			ON r.assigned_technician_id = u.id AND r.stage = $2
		GROUP BY u.id, u.username, u.first_name, u.last_name
		ORDER BY u.username
	`

	rows, err := r.storage.Query(ctx, query, entities.RoleTechnician, entities.StageRepaired)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	list := make([]dto.TechnicianSummaryDTO, 0)
	for rows.Next() {
		var row dto.TechnicianSummaryDTO
		if err := rows.Scan(&row.UserID, &row.Username, &row.FullName, &row.TotalTasks, &row.TotalHours); err != nil {
			return nil, fmt.Errorf("scan technician summary row: %w", err)
		}
		list = append(list, row)
	}
	return list, rows.Err()
}

func (r *reportRepository) ListManagerHours(ctx context.Context) ([]dto.ManagerHoursRowDTO, error) {
	query := `
		SELECT u.id, u.username, TRIM(u.first_name || ' ' || u.last_name),
			COUNT(r.id),
			COUNT(r.id) FILTER (WHERE r.stage = $1),
			SUM(r.duration_hours) FILTER (WHERE r.stage = $1)
		FROM users u
		JOIN user_profiles p ON p.user_id = u.id AND p.role = $2
		LEFT JOIN maintenance_requests r ON r.created_by_id = u.id
		GROUP BY u.id, u.username, u.first_name, u.last_name
		ORDER BY u.username
	`

	rows, err := r.storage.Query(ctx, query, entities.StageRepaired, entities.RoleManager)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	list := make([]dto.ManagerHoursRowDTO, 0)
	for rows.Next() {
		var row dto.ManagerHoursRowDTO
		err := rows.Scan(
			&row.UserID, &row.Username, &row.FullName,
			&row.RequestsCreated, &row.CompletedRequests, &row.TotalHoursManaged,
		)
		if err != nil {
			return nil, fmt.Errorf("scan manager hours row: %w", err)
		}
		list = append(list, row)
	}
	return list, rows.Err()
}
