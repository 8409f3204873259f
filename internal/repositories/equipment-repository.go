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
	equipmentTable  = "equipment"
	equipmentFields = `id, name, serial_number, category, department,
		assigned_to_user_id, maintenance_team_id, default_technician_id,
		purchase_date, warranty_expiry, location, specifications,
		maintenance_interval_days, is_scrapped, scrap_date, scrap_reason,
		created_at, updated_at`
)

type EquipmentRepositoryInterface interface {
	GetAll(ctx context.Context, filter dto.EquipmentFilterDTO) ([]entities.Equipment, uint64, error)
	FindByID(ctx context.Context, id uint64) (*entities.Equipment, error)
	FindByIDInTx(ctx context.Context, tx pgx.Tx, id uint64) (*entities.Equipment, error)
	Create(ctx context.Context, eq entities.Equipment) (uint64, error)
	Update(ctx context.Context, id uint64, eq entities.Equipment) error
	Delete(ctx context.Context, id uint64) error
	MarkScrappedInTx(ctx context.Context, tx pgx.Tx, id uint64, scrapDate time.Time, scrapReason *string) error
	ListWithInterval(ctx context.Context) ([]entities.Equipment, error)
	CountAll(ctx context.Context) (uint64, error)
	CountScrapped(ctx context.Context) (uint64, error)
}

type equipmentRepository struct {
	storage *pgxpool.Pool
	logger  *zap.Logger
}

func NewEquipmentRepository(storage *pgxpool.Pool, logger *zap.Logger) EquipmentRepositoryInterface {
	return &equipmentRepository{storage: storage, logger: logger}
}

func scanEquipment(row pgx.Row) (*entities.Equipment, error) {
	var e entities.Equipment
	err := row.Scan(
		&e.ID, &e.Name, &e.SerialNumber, &e.Category, &e.Department,
		&e.AssignedToUserID, &e.MaintenanceTeamID, &e.DefaultTechnicianID,
		&e.PurchaseDate, &e.WarrantyExpiry, &e.Location, &e.Specifications,
		&e.MaintenanceIntervalDays, &e.IsScrapped, &e.ScrapDate, &e.ScrapReason,
		&e.CreatedAt, &e.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("scan equipment row: %w", err)
	}
	return &e, nil
}

func (r *equipmentRepository) GetAll(ctx context.Context, filter dto.EquipmentFilterDTO) ([]entities.Equipment, uint64, error) {
	where := sq.And{}
	if filter.Category != "" {
		where = append(where, sq.Eq{"category": filter.Category})
	}
	if filter.Department != "" {
		where = append(where, sq.Eq{"department": filter.Department})
	}
	switch filter.Scrapped {
	case "true":
		where = append(where, sq.Eq{"is_scrapped": true})
	case "false":
		where = append(where, sq.Eq{"is_scrapped": false})
	}
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		where = append(where, sq.Or{
			sq.ILike{"name": pattern},
			sq.ILike{"serial_number": pattern},
		})
	}

	builder := psql.Select(equipmentFields).From(equipmentTable).OrderBy("name")
	countBuilder := psql.Select("COUNT(*)").From(equipmentTable)
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

	list := make([]entities.Equipment, 0)
	for rows.Next() {
		e, err := scanEquipment(rows)
		if err != nil {
			return nil, 0, err
		}
		list = append(list, *e)
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

func (r *equipmentRepository) FindByID(ctx context.Context, id uint64) (*entities.Equipment, error) {
	query, args, err := psql.Select(equipmentFields).From(equipmentTable).Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return nil, err
	}
	return scanEquipment(r.storage.QueryRow(ctx, query, args...))
}

// FindByIDInTx locks the row so the scrap cascade reads a consistent
// snapshot and fires at most once under concurrent retries.
func (r *equipmentRepository) FindByIDInTx(ctx context.Context, tx pgx.Tx, id uint64) (*entities.Equipment, error) {
	query, args, err := psql.Select(equipmentFields).From(equipmentTable).
		Where(sq.Eq{"id": id}).Suffix("FOR UPDATE").ToSql()
	if err != nil {
		return nil, err
	}
	return scanEquipment(tx.QueryRow(ctx, query, args...))
}

func (r *equipmentRepository) Create(ctx context.Context, eq entities.Equipment) (uint64, error) {
	query := fmt.Sprintf(`
		INSERT INTO %s (name, serial_number, category, department,
			assigned_to_user_id, maintenance_team_id, default_technician_id,
			purchase_date, warranty_expiry, location, specifications,
			maintenance_interval_days)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING id
	`, equipmentTable)

	var id uint64
	err := r.storage.QueryRow(ctx, query,
		eq.Name, eq.SerialNumber, eq.Category, eq.Department,
		eq.AssignedToUserID, eq.MaintenanceTeamID, eq.DefaultTechnicianID,
		eq.PurchaseDate, eq.WarrantyExpiry, eq.Location, eq.Specifications,
		eq.MaintenanceIntervalDays,
	).Scan(&id)
	if err != nil {
		return 0, translateUniqueViolation(err, map[string]string{"serial_number": "serial_number"})
	}
	return id, nil
}

func (r *equipmentRepository) Update(ctx context.Context, id uint64, eq entities.Equipment) error {
	query := fmt.Sprintf(`
		UPDATE %s
		SET name = $1, category = $2, department = $3,
			assigned_to_user_id = $4, maintenance_team_id = $5, default_technician_id = $6,
			purchase_date = $7, warranty_expiry = $8, location = $9, specifications = $10,
			maintenance_interval_days = $11, updated_at = CURRENT_TIMESTAMP
		WHERE id = $12
	`, equipmentTable)

	result, err := r.storage.Exec(ctx, query,
		eq.Name, eq.Category, eq.Department,
		eq.AssignedToUserID, eq.MaintenanceTeamID, eq.DefaultTechnicianID,
		eq.PurchaseDate, eq.WarrantyExpiry, eq.Location, eq.Specifications,
		eq.MaintenanceIntervalDays, id,
	)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *equipmentRepository) Delete(ctx context.Context, id uint64) error {
	result, err := r.storage.Exec(ctx, fmt.Sprintf("DELETE FROM %s WHERE id = $1", equipmentTable), id)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *equipmentRepository) MarkScrappedInTx(ctx context.Context, tx pgx.Tx, id uint64, scrapDate time.Time, scrapReason *string) error {
	query := fmt.Sprintf(`
		UPDATE %s
		SET is_scrapped = TRUE, scrap_date = $1, scrap_reason = $2, updated_at = CURRENT_TIMESTAMP
		WHERE id = $3 AND is_scrapped = FALSE
	`, equipmentTable)

	if _, err := tx.Exec(ctx, query, scrapDate, scrapReason, id); err != nil {
		return err
	}
	return nil
}

func (r *equipmentRepository) ListWithInterval(ctx context.Context) ([]entities.Equipment, error) {
	query, args, err := psql.Select(equipmentFields).From(equipmentTable).
		Where(sq.And{
			sq.Eq{"is_scrapped": false},
			sq.Gt{"maintenance_interval_days": 0},
		}).
		OrderBy("name").ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.storage.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	list := make([]entities.Equipment, 0)
	for rows.Next() {
		e, err := scanEquipment(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, *e)
	}
	return list, rows.Err()
}

func (r *equipmentRepository) CountAll(ctx context.Context) (uint64, error) {
	var total uint64
	err := r.storage.QueryRow(ctx, "SELECT COUNT(*) FROM "+equipmentTable).Scan(&total)
	return total, err
}

func (r *equipmentRepository) CountScrapped(ctx context.Context) (uint64, error) {
	var total uint64
	err := r.storage.QueryRow(ctx, "SELECT COUNT(*) FROM "+equipmentTable+" WHERE is_scrapped = TRUE").Scan(&total)
	return total, err
}
