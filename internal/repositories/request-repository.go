package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"gearguard/internal/dto"
	"gearguard/internal/entities"
	apperrors "gearguard/pkg/errors"
)

const (
	requestTable  = "maintenance_requests"
	requestFields = `id, subject, description, request_type, stage, priority,
		equipment_id, maintenance_team_id, assigned_technician_id, created_by_id,
		scheduled_date, due_date, completed_date,
		estimated_duration_hours, duration_hours,
		actual_start_time, actual_end_time, is_overdue,
		technician_notes, resolution_summary, created_at, updated_at`

	requestJoinFields = `r.id, r.subject, r.description, r.request_type, r.stage, r.priority,
		r.equipment_id, r.maintenance_team_id, r.assigned_technician_id, r.created_by_id,
		r.scheduled_date, r.due_date, r.completed_date,
		r.estimated_duration_hours, r.duration_hours,
		r.actual_start_time, r.actual_end_time, r.is_overdue,
		r.technician_notes, r.resolution_summary, r.created_at, r.updated_at,
		e.name, e.serial_number, t.name,
		TRIM(tech.first_name || ' ' || tech.last_name),
		TRIM(creator.first_name || ' ' || creator.last_name)`
)

// RequestScope narrows listings and counts to what the caller may see:
// requests they created, or requests routed to them as a technician
// (directly assigned, or unassigned work queued on one of their teams).
type RequestScope struct {
	CreatedByID  *uint64
	TechnicianID *uint64
	TeamIDs      []uint64
}

func (s RequestScope) condition() sq.Sqlizer {
	if s.CreatedByID != nil {
		return sq.Eq{"r.created_by_id": *s.CreatedByID}
	}
	if s.TechnicianID != nil {
		cond := sq.Or{sq.Eq{"r.assigned_technician_id": *s.TechnicianID}}
		if len(s.TeamIDs) > 0 {
			cond = append(cond, sq.And{
				sq.Eq{"r.assigned_technician_id": nil},
				sq.Eq{"r.maintenance_team_id": s.TeamIDs},
			})
		}
		return cond
	}
	return nil
}

type RequestRepositoryInterface interface {
	Create(ctx context.Context, req entities.MaintenanceRequest) (uint64, error)
	FindByID(ctx context.Context, id uint64) (*dto.RequestDTO, error)
	FindForUpdateInTx(ctx context.Context, tx pgx.Tx, id uint64) (*entities.MaintenanceRequest, error)
	SaveInTx(ctx context.Context, tx pgx.Tx, req entities.MaintenanceRequest) error
	GetAll(ctx context.Context, filter dto.RequestFilterDTO, scope RequestScope) ([]dto.RequestDTO, uint64, error)

	ListPreventiveInRange(ctx context.Context, from, to time.Time) ([]dto.RequestDTO, error)
	ExistsPreventiveOnDate(ctx context.Context, equipmentID uint64, date time.Time) (bool, error)
	FindLastCompletedPreventive(ctx context.Context, equipmentID uint64) (*entities.MaintenanceRequest, error)

	CountByStage(ctx context.Context, scope RequestScope) (map[entities.Stage]uint64, error)
	CountOverdue(ctx context.Context, scope RequestScope) (uint64, error)
	CountAll(ctx context.Context) (uint64, error)
	CountScheduledPreventiveInRange(ctx context.Context, from, to time.Time) (uint64, error)
	SumDurationForTechnician(ctx context.Context, technicianID uint64) (float64, error)
}

type requestRepository struct {
	storage *pgxpool.Pool
	logger  *zap.Logger
}

func NewRequestRepository(storage *pgxpool.Pool, logger *zap.Logger) RequestRepositoryInterface {
	return &requestRepository{storage: storage, logger: logger}
}

func scanRequest(row pgx.Row) (*entities.MaintenanceRequest, error) {
	var m entities.MaintenanceRequest
	err := row.Scan(
		&m.ID, &m.Subject, &m.Description, &m.RequestType, &m.Stage, &m.Priority,
		&m.EquipmentID, &m.MaintenanceTeamID, &m.AssignedTechnicianID, &m.CreatedByID,
		&m.ScheduledDate, &m.DueDate, &m.CompletedDate,
		&m.EstimatedDurationHours, &m.DurationHours,
		&m.ActualStartTime, &m.ActualEndTime, &m.IsOverdue,
		&m.TechnicianNotes, &m.ResolutionSummary, &m.CreatedAt, &m.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("scan maintenance_requests row: %w", err)
	}
	return &m, nil
}

func scanRequestDTO(row pgx.Row) (*dto.RequestDTO, error) {
	var d dto.RequestDTO
	err := row.Scan(
		&d.ID, &d.Subject, &d.Description, &d.RequestType, &d.Stage, &d.Priority,
		&d.EquipmentID, &d.MaintenanceTeamID, &d.AssignedTechnicianID, &d.CreatedByID,
		&d.ScheduledDate, &d.DueDate, &d.CompletedDate,
		&d.EstimatedDurationHours, &d.DurationHours,
		&d.ActualStartTime, &d.ActualEndTime, &d.IsOverdue,
		&d.TechnicianNotes, &d.ResolutionSummary, &d.CreatedAt, &d.UpdatedAt,
		&d.EquipmentName, &d.SerialNumber, &d.TeamName,
		&d.AssignedTechnician, &d.CreatedBy,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("scan maintenance_requests row: %w", err)
	}
	return &d, nil
}

func (r *requestRepository) joinedSelect() sq.SelectBuilder {
	return psql.Select(requestJoinFields).
		From(requestTable + " r").
		Join("equipment e ON e.id = r.equipment_id").
		LeftJoin("maintenance_teams t ON t.id = r.maintenance_team_id").
		LeftJoin("users tech ON tech.id = r.assigned_technician_id").
		Join("users creator ON creator.id = r.created_by_id")
}

func (r *requestRepository) Create(ctx context.Context, req entities.MaintenanceRequest) (uint64, error) {
	query := fmt.Sprintf(`
		INSERT INTO %s (subject, description, request_type, stage, priority,
			equipment_id, maintenance_team_id, assigned_technician_id, created_by_id,
			scheduled_date, due_date, estimated_duration_hours, is_overdue)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		RETURNING id
	`, requestTable)

	var id uint64
	err := r.storage.QueryRow(ctx, query,
		req.Subject, req.Description, req.RequestType, req.Stage, req.Priority,
		req.EquipmentID, req.MaintenanceTeamID, req.AssignedTechnicianID, req.CreatedByID,
		req.ScheduledDate, req.DueDate, req.EstimatedDurationHours, req.IsOverdue,
	).Scan(&id)
	if err != nil {
		return 0, err
	}
	return id, nil
}

func (r *requestRepository) FindByID(ctx context.Context, id uint64) (*dto.RequestDTO, error) {
	query, args, err := r.joinedSelect().Where(sq.Eq{"r.id": id}).ToSql()
	if err != nil {
		return nil, err
	}
	return scanRequestDTO(r.storage.QueryRow(ctx, query, args...))
}

// FindForUpdateInTx locks the request row for the duration of the
// transaction so concurrent transitions serialize instead of racing.
func (r *requestRepository) FindForUpdateInTx(ctx context.Context, tx pgx.Tx, id uint64) (*entities.MaintenanceRequest, error) {
	query, args, err := psql.Select(requestFields).From(requestTable).
		Where(sq.Eq{"id": id}).Suffix("FOR UPDATE").ToSql()
	if err != nil {
		return nil, err
	}
	return scanRequest(tx.QueryRow(ctx, query, args...))
}

func (r *requestRepository) SaveInTx(ctx context.Context, tx pgx.Tx, req entities.MaintenanceRequest) error {
	query := fmt.Sprintf(`
		UPDATE %s
		SET subject = $1, description = $2, stage = $3, priority = $4,
			maintenance_team_id = $5, assigned_technician_id = $6,
			scheduled_date = $7, due_date = $8, completed_date = $9,
			estimated_duration_hours = $10, duration_hours = $11,
			actual_start_time = $12, actual_end_time = $13, is_overdue = $14,
			technician_notes = $15, resolution_summary = $16,
			updated_at = CURRENT_TIMESTAMP
		WHERE id = $17
	`, requestTable)

	result, err := tx.Exec(ctx, query,
		req.Subject, req.Description, req.Stage, req.Priority,
		req.MaintenanceTeamID, req.AssignedTechnicianID,
		req.ScheduledDate, req.DueDate, req.CompletedDate,
		req.EstimatedDurationHours, req.DurationHours,
		req.ActualStartTime, req.ActualEndTime, req.IsOverdue,
		req.TechnicianNotes, req.ResolutionSummary,
		req.ID,
	)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *requestRepository) filterConditions(filter dto.RequestFilterDTO, scope RequestScope) sq.And {
	where := sq.And{}
	if filter.Stage != "" {
		where = append(where, sq.Eq{"r.stage": filter.Stage})
	}
	if filter.RequestType != "" {
		where = append(where, sq.Eq{"r.request_type": filter.RequestType})
	}
	if filter.TeamID > 0 {
		where = append(where, sq.Eq{"r.maintenance_team_id": filter.TeamID})
	}
	if filter.EquipmentID > 0 {
		where = append(where, sq.Eq{"r.equipment_id": filter.EquipmentID})
	}
	if cond := scope.condition(); cond != nil {
		where = append(where, cond)
	}
	return where
}

func (r *requestRepository) GetAll(ctx context.Context, filter dto.RequestFilterDTO, scope RequestScope) ([]dto.RequestDTO, uint64, error) {
	where := r.filterConditions(filter, scope)

	builder := r.joinedSelect().OrderBy("r.created_at DESC")
	countBuilder := psql.Select("COUNT(*)").From(requestTable + " r")
	if len(where) > 0 {
		builder = builder.Where(where)
		countBuilder = countBuilder.Where(where)
	}
	if filter.Limit > 0 {
		builder = builder.Limit(filter.Limit).Offset(filter.Offset)
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

	list := make([]dto.RequestDTO, 0)
	for rows.Next() {
		d, err := scanRequestDTO(rows)
		if err != nil {
			return nil, 0, err
		}
		list = append(list, *d)
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

	return list, total, nil
}

// ListPreventiveInRange returns scheduled preventive work inside [from, to]
// that is still visible on the calendar. Scrapped and already repaired
// requests drop off the grid.
func (r *requestRepository) ListPreventiveInRange(ctx context.Context, from, to time.Time) ([]dto.RequestDTO, error) {
	query, args, err := r.joinedSelect().
		Where(sq.And{
			sq.Eq{"r.request_type": entities.RequestTypePreventive},
			sq.NotEq{"r.stage": []entities.Stage{entities.StageRepaired, entities.StageScrap}},
			sq.GtOrEq{"r.scheduled_date": from},
			sq.LtOrEq{"r.scheduled_date": to},
		}).
		OrderBy("r.scheduled_date", "r.id").
		ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.storage.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	list := make([]dto.RequestDTO, 0)
	for rows.Next() {
		d, err := scanRequestDTO(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, *d)
	}
	return list, rows.Err()
}

// ExistsPreventiveOnDate reports whether any non-scrap preventive request is
// already scheduled for the equipment on that date. Used to suppress a
// projected occurrence that has materialized into a real request.
func (r *requestRepository) ExistsPreventiveOnDate(ctx context.Context, equipmentID uint64, date time.Time) (bool, error) {
	query, args, err := psql.Select("1").From(requestTable).
		Where(sq.And{
			sq.Eq{"equipment_id": equipmentID},
			sq.Eq{"request_type": entities.RequestTypePreventive},
			sq.Eq{"scheduled_date": date},
			sq.NotEq{"stage": entities.StageScrap},
		}).
		Limit(1).ToSql()
	if err != nil {
		return false, err
	}

	var one int
	err = r.storage.QueryRow(ctx, query, args...).Scan(&one)
	if errors.Is(err, pgx.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// FindLastCompletedPreventive picks the most recent repaired preventive
// request for the equipment; ties on completed_date break on the later
// actual end time.
func (r *requestRepository) FindLastCompletedPreventive(ctx context.Context, equipmentID uint64) (*entities.MaintenanceRequest, error) {
	query, args, err := psql.Select(requestFields).From(requestTable).
		Where(sq.And{
			sq.Eq{"equipment_id": equipmentID},
			sq.Eq{"request_type": entities.RequestTypePreventive},
			sq.Eq{"stage": entities.StageRepaired},
			sq.NotEq{"completed_date": nil},
		}).
		OrderBy("completed_date DESC", "actual_end_time DESC NULLS LAST", "id DESC").
		Limit(1).ToSql()
	if err != nil {
		return nil, err
	}
	return scanRequest(r.storage.QueryRow(ctx, query, args...))
}

func (r *requestRepository) CountByStage(ctx context.Context, scope RequestScope) (map[entities.Stage]uint64, error) {
	builder := psql.Select("r.stage", "COUNT(*)").From(requestTable + " r").GroupBy("r.stage")
	if cond := scope.condition(); cond != nil {
		builder = builder.Where(cond)
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.storage.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[entities.Stage]uint64)
	for rows.Next() {
		var stage entities.Stage
		var count uint64
		if err := rows.Scan(&stage, &count); err != nil {
			return nil, err
		}
		counts[stage] = count
	}
	return counts, rows.Err()
}

func (r *requestRepository) CountOverdue(ctx context.Context, scope RequestScope) (uint64, error) {
	builder := psql.Select("COUNT(*)").From(requestTable + " r").
		Where(sq.And{
			sq.Eq{"r.is_overdue": true},
			sq.NotEq{"r.stage": []entities.Stage{entities.StageRepaired, entities.StageScrap}},
		})
	if cond := scope.condition(); cond != nil {
		builder = builder.Where(cond)
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return 0, err
	}
	var total uint64
	err = r.storage.QueryRow(ctx, query, args...).Scan(&total)
	return total, err
}

func (r *requestRepository) CountAll(ctx context.Context) (uint64, error) {
	var total uint64
	err := r.storage.QueryRow(ctx, "SELECT COUNT(*) FROM "+requestTable).Scan(&total)
	return total, err
}

func (r *requestRepository) CountScheduledPreventiveInRange(ctx context.Context, from, to time.Time) (uint64, error) {
	query, args, err := psql.Select("COUNT(*)").From(requestTable).
		Where(sq.And{
			sq.Eq{"request_type": entities.RequestTypePreventive},
			sq.NotEq{"stage": []entities.Stage{entities.StageRepaired, entities.StageScrap}},
			sq.GtOrEq{"scheduled_date": from},
			sq.LtOrEq{"scheduled_date": to},
		}).ToSql()
	if err != nil {
		return 0, err
	}
	var total uint64
	err = r.storage.QueryRow(ctx, query, args...).Scan(&total)
	return total, err
}

func (r *requestRepository) SumDurationForTechnician(ctx context.Context, technicianID uint64) (float64, error) {
	query, args, err := psql.Select("COALESCE(SUM(duration_hours), 0)").From(requestTable).
		Where(sq.And{
			sq.Eq{"assigned_technician_id": technicianID},
			sq.Eq{"stage": entities.StageRepaired},
		}).ToSql()
	if err != nil {
		return 0, err
	}
	var total float64
	err = r.storage.QueryRow(ctx, query, args...).Scan(&total)
	return total, err
}
